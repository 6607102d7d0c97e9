package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON HTTP API",
	Long: `Run the JSON HTTP API until interrupted.

Routes live under /v1 and Prometheus metrics under /metrics.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg.Print()

		ctx, stop := context.WithCancel(cmd.Context())
		defer stop()

		qcApp.Run(stop)
		<-ctx.Done()
		slog.Info("stopping", "cause", context.Cause(ctx))
	},
}
