package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/niksmo/qc-logbook/internal/core/domain"
	"github.com/spf13/cobra"
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Record an inspection",
	Long: `Record an inspection in the local cache and, when an access token is
configured, append it to the spreadsheet journal.

The product name is looked up in the catalog when omitted. With --annotate
the notes are sent to the model and its summary is stored with the log;
the suggested status is used when --status is not given.`,
	Example: `  qclog save --product P-1001 --inspector "Dana Lee" --status FAIL --notes "seal leaking"`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		flags := cmd.Flags()
		svc := qcApp.Service()

		productID, _ := flags.GetString("product")
		productName, _ := flags.GetString("product-name")
		order, _ := flags.GetString("order")
		date, _ := flags.GetString("date")
		inspector, _ := flags.GetString("inspector")
		notes, _ := flags.GetString("notes")
		rawStatus, _ := flags.GetString("status")
		annotate, _ := flags.GetBool("annotate")

		if date == "" {
			date = time.Now().Format(time.DateOnly)
		}
		if _, err := time.Parse(time.DateOnly, date); err != nil {
			return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
		}

		status := domain.StatusParse{}
		if strings.TrimSpace(rawStatus) != "" {
			status = domain.ParseStatus(rawStatus)
			if !status.Recognized {
				return fmt.Errorf("--status must be PASS, FAIL or WARNING, got %q", rawStatus)
			}
		}

		if productName == "" {
			productName = lookupProductName(svc.Products(ctx), productID)
		}

		draft := domain.InspectionDraft{
			ProductID:       productID,
			ProductName:     productName,
			ShippingOrderNo: order,
			CheckDate:       date,
			Inspector:       inspector,
			Notes:           notes,
			Status:          status.OrDefault(),
		}

		if annotate && notes != "" {
			if a, ok := svc.Annotate(ctx, notes, productName); ok {
				draft.AIAnalysis = a.String()
				if !status.Recognized && a.SuggestedStatus != "" {
					draft.Status = a.SuggestedStatus
				}
			} else {
				printErr("annotation unavailable, saving without it")
			}
		}

		l, err := svc.SaveQCLog(ctx, draft)
		if err != nil {
			return err
		}
		fmt.Println(logsTable([]domain.InspectionLog{l}))
		return nil
	},
}

func init() {
	f := saveCmd.Flags()
	f.StringP("product", "p", "", "product id (required)")
	f.String("product-name", "", "product name (looked up when empty)")
	f.String("order", "", "shipping order number")
	f.StringP("date", "d", "", "check date YYYY-MM-DD (default today)")
	f.StringP("inspector", "i", "", "inspector name")
	f.StringP("notes", "n", "", "inspection notes")
	f.StringP("status", "s", "", "PASS, FAIL or WARNING (default PASS)")
	f.Bool("annotate", false, "attach an AI summary of the notes")
	_ = saveCmd.MarkFlagRequired("product")
}

func lookupProductName(ps []domain.Product, id string) string {
	for _, p := range ps {
		if p.ID == id {
			return p.Name
		}
	}
	return ""
}
