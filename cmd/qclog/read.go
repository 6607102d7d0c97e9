package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/niksmo/qc-logbook/internal/adapter/export"
	"github.com/spf13/cobra"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List the product catalog",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(productsTable(qcApp.Service().Products(cmd.Context())))
	},
}

var inspectorsCmd = &cobra.Command{
	Use:   "inspectors",
	Short: "List the inspector roster",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(inspectorsTable(qcApp.Service().Inspectors(cmd.Context())))
	},
}

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "List inspection logs, newest first",
	Long: `List inspection logs, newest first.

With --format csv or xlsx the logs are exported instead of printed as a
table. XLSX output requires --output.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		format = strings.ToLower(format)

		logs := qcApp.Service().Logs(cmd.Context())

		if format == "table" {
			fmt.Println(logsTable(logs))
			return nil
		}
		if format == export.FormatXLSX && output == "" {
			return fmt.Errorf("--output is required for xlsx")
		}

		w := os.Stdout
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		if err := export.Write(w, format, logs); err != nil {
			return err
		}
		if output != "" {
			printErr("exported %d logs to %s", len(logs), output)
		}
		return nil
	},
}

func init() {
	logsCmd.Flags().StringP("format", "f", "table", "output format: table, csv, xlsx")
	logsCmd.Flags().StringP("output", "o", "", "write the export to a file")
}
