package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ZaguanLabs/codelai/internal/app"
	"github.com/ZaguanLabs/codelai/internal/config"
	"github.com/ZaguanLabs/codelai/internal/transport/rest"
	"github.com/spf13/cobra"
)

func newServeCmd(global *globalOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the translation HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(global.configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			logger := app.NewLogger(cfg.Log, cmd.ErrOrStderr())

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.Build(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			return rest.NewServer(cfg.Server, a.Translator, logger).Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}
