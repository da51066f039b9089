package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBillingCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "billing",
		Short: "Summarize invoices by payment state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			service, err := newAppService()
			if err != nil {
				return err
			}
			summary, err := service.BillingSummary(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, summary)
			}
			fmt.Fprintf(out, "invoices: %d (%s)\n", summary.InvoiceCount, summary.Doctype)
			fmt.Fprintf(out, "total:    %s\n", summary.Total.StringFixed(2))
			fmt.Fprintf(out, "paid:     %s (%d)\n", summary.Paid.StringFixed(2), summary.PaidCount)
			fmt.Fprintf(out, "pending:  %s (%d)\n", summary.Pending.StringFixed(2), summary.PendingCount)
			fmt.Fprintf(out, "overdue:  %s (%d)\n", summary.Overdue.StringFixed(2), summary.OverdueCount)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	return cmd
}
