package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate <notes>",
	Short: "Ask the model to classify inspection notes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		product, _ := cmd.Flags().GetString("product-name")

		a, ok := qcApp.Service().Annotate(cmd.Context(), args[0], product)
		if !ok {
			return errors.New("annotation unavailable: check genai.api_key and the logs")
		}
		fmt.Println(annotationTable(a))
		return nil
	},
}

func init() {
	annotateCmd.Flags().String("product-name", "", "product the notes refer to")
}
