package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hotel-erp/internal/app"
)

type resolveOptions struct {
	Entity     string
	Candidates []string
	Sticky     string
	SeedFile   string
	NoSeed     bool
	Fields     []string
	JSON       bool
}

func newResolveCommand() *cobra.Command {
	opts := resolveOptions{}
	cmd := &cobra.Command{
		Use:   "resolve [entity]",
		Short: "Find which candidate doctype serves an entity, seeding it when empty",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Entity = args[0]
			}
			return runResolve(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Candidates, "candidate", nil, "Candidate doctypes in probe order (overrides the entity's list)")
	cmd.Flags().StringVar(&opts.Sticky, "sticky", "", "Doctype resolved last time, probed first")
	cmd.Flags().StringVar(&opts.SeedFile, "seed", "", "Seed file for this resolution")
	cmd.Flags().BoolVar(&opts.NoSeed, "no-seed", false, "Resolve without seeding or local fallback")
	cmd.Flags().StringSliceVar(&opts.Fields, "field", nil, "Fields to fetch (default all)")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print the resolved records as JSON")

	_ = viper.BindPFlag("resolve_no_seed", cmd.Flags().Lookup("no-seed"))

	return cmd
}

func runResolve(ctx context.Context, cmd *cobra.Command, opts resolveOptions) error {
	service, err := newAppService()
	if err != nil {
		return err
	}
	result, err := service.Resolve(ctx, app.ResolveRequest{
		Entity:     opts.Entity,
		Candidates: opts.Candidates,
		Sticky:     opts.Sticky,
		SeedFile:   opts.SeedFile,
		NoSeed:     resolveBool(cmd, opts.NoSeed, "resolve_no_seed", "no-seed"),
		Fields:     opts.Fields,
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if opts.JSON {
		return printJSON(out, result.Binding.Records)
	}
	label := result.Entity
	if label == "" {
		label = "candidates"
	}
	fmt.Fprintf(out, "resolved %s: %s (%d records)\n", label, result.Binding.Doctype, len(result.Binding.Records))
	if result.Binding.IsLocalSeed() {
		fmt.Fprintln(out, "warning: no candidate doctype exists on the backend; serving local seed rows")
	}
	return nil
}
