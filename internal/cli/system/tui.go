package system

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitlog/internal/cli"
	"github.com/julianstephens/habitlog/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	// Snapshot on startup, the TUI writes as the user toggles
	ctx.PerformAutomaticBackup()

	p := tea.NewProgram(tui.NewModel(ctx.Ctx(), ctx.Tracker), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
