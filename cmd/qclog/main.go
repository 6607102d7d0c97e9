package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/niksmo/qc-logbook/config"
	"github.com/niksmo/qc-logbook/internal/app"
	"github.com/niksmo/qc-logbook/pkg/sigctx"
	"github.com/spf13/cobra"
)

const closeTimeout = 5 * time.Second

var (
	cfg   config.Config
	qcApp *app.App
)

var rootCmd = &cobra.Command{
	Use:   "qclog",
	Short: "Quality-control logbook backed by Google Sheets",
	Long: `qclog records product inspections in a Google Sheets workbook.

Reads fall back to built-in sample data or the local cache when the
spreadsheet is unreachable. Saved logs always land in the local cache
and are appended to the spreadsheet when an access token is configured.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cmd.Flags())
		if err != nil {
			return err
		}
		qcApp, err = app.New(cmd.Context(), cfg)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeApp()
	},
}

func init() {
	config.RegisterFlags(rootCmd.PersistentFlags())
	rootCmd.AddCommand(
		serveCmd,
		productsCmd,
		inspectorsCmd,
		logsCmd,
		saveCmd,
		clearCacheCmd,
		settingsCmd,
		annotateCmd,
	)
}

func main() {
	sigCtx, stop := sigctx.NotifyContext()
	defer stop()

	err := rootCmd.ExecuteContext(sigCtx)
	if err != nil {
		closeApp()
		stop()
		os.Exit(1)
	}
}

func closeApp() {
	if qcApp == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	qcApp.Close(ctx)
	qcApp = nil
}

func printErr(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
}
