package cli

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hotel-erp/internal/app"
	"hotel-erp/internal/types"
)

type checkOptions struct {
	Output string
}

func newCheckCommand() *cobra.Command {
	opts := checkOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run the read-only backend setup diagnostic",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Output, "output", "", "Write the report to a file (.json or .yaml)")
	_ = viper.BindPFlag("check_output", cmd.Flags().Lookup("output"))
	return cmd
}

func runCheck(ctx context.Context, cmd *cobra.Command, opts checkOptions) error {
	service, err := newAppService()
	if err != nil {
		return err
	}
	report, err := service.Check(ctx, app.CheckRequest{
		OutputPath: resolveString(cmd, opts.Output, "check_output", "output"),
	})
	if err != nil {
		return err
	}
	printSetupReport(cmd, report)
	if !report.OK {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("backend setup has %d issue(s)", len(report.Issues)))
	}
	return nil
}

func printSetupReport(cmd *cobra.Command, report types.SetupReport) {
	out := cmd.OutOrStdout()
	status := "ok"
	if !report.OK {
		status = "failing"
	}
	details := report.Details
	fmt.Fprintf(out, "backend: %s\n", status)
	fmt.Fprintf(out, "base url: %s\n", details.BaseURL)
	fmt.Fprintf(out, "api path: %s\n", details.APIPath)
	fmt.Fprintf(out, "auth configured: %t\n", details.AuthConfigured)
	fmt.Fprintf(out, "connection ok: %t\n", details.ConnectionOK)
	names := report.ResolvedNames()
	for _, entity := range []string{"room", "booking"} {
		if doctype, ok := names[entity]; ok {
			fmt.Fprintf(out, "%s doctype: %s\n", entity, doctype)
		}
	}
	for _, issue := range report.Issues {
		fmt.Fprintf(out, "issue: %s\n", issue)
	}
	for _, warning := range report.Warnings {
		fmt.Fprintf(out, "warning: %s\n", warning)
	}
}
