// Package migrations embeds the SQL schema migrations applied on first use.
package migrations

import "embed"

//go:embed sqlite/*.sql
var FS embed.FS
