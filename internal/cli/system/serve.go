package system

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/habitlog/internal/api"
	"github.com/julianstephens/habitlog/internal/cli"
)

type ServeCmd struct {
	Addr string `help:"Address to listen on (defaults to server.addr from the config)."`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	addr := c.Addr
	var origins []string
	if ctx.Config != nil {
		if addr == "" {
			addr = ctx.Config.Server.Addr
		}
		origins = ctx.Config.Server.AllowedOrigins
	}

	sigCtx, stop := signal.NotifyContext(ctx.Ctx(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return c.serve(sigCtx, ctx, addr, origins)
}

func (c *ServeCmd) serve(runCtx context.Context, ctx *cli.Context, addr string, origins []string) error {
	router := api.NewRouter(api.NewHandler(ctx.Tracker), api.Options{AllowedOrigins: origins})
	ctx.Printf("Serving habitlog API on http://%s\n", addr)
	return api.ListenAndServe(runCtx, addr, router)
}
