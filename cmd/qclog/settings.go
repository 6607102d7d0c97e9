package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearCacheCmd = &cobra.Command{
	Use:   "clear-cache",
	Short: "Delete the locally cached inspection logs",
	Long: `Delete the locally cached inspection logs. Connection settings and the
spreadsheet are left untouched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := qcApp.Service().ClearLocalLogs(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("local logs cleared")
		return nil
	},
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the connection settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cs, err := qcApp.Service().Settings(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(settingsTable(cs))
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update the connection settings",
	Long: `Update the connection settings. Flags that are not given keep their
current value; pass --token "" to drop the access token.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc := qcApp.Service()
		flags := cmd.Flags()

		cs, err := svc.Settings(ctx)
		if err != nil {
			return err
		}
		if flags.Changed("sheet-id") {
			cs.SheetID, _ = flags.GetString("sheet-id")
		}
		if flags.Changed("client-id") {
			cs.GoogleClientID, _ = flags.GetString("client-id")
		}
		if flags.Changed("token") {
			cs.GoogleAccessToken, _ = flags.GetString("token")
		}

		if err := svc.SaveSettings(ctx, cs); err != nil {
			return err
		}
		fmt.Println(settingsTable(cs))
		return nil
	},
}

func init() {
	f := settingsSetCmd.Flags()
	f.String("sheet-id", "", "spreadsheet id")
	f.String("client-id", "", "Google OAuth client id")
	f.String("token", "", "Google OAuth access token")
	settingsCmd.AddCommand(settingsSetCmd)
}
