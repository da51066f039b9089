package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"

	"hotel-erp/internal/app"
	"hotel-erp/internal/types"
)

type recordsOptions struct {
	Sticky  string
	Fields  []string
	Filters string
	Data    string
	Set     map[string]string
}

func newRecordsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Read and write records of a logical entity",
	}
	cmd.AddCommand(newRecordsGetCommand())
	cmd.AddCommand(newRecordsCreateCommand())
	cmd.AddCommand(newRecordsUpdateCommand())
	cmd.AddCommand(newRecordsDeleteCommand())
	return cmd
}

func newRecordsGetCommand() *cobra.Command {
	opts := recordsOptions{}
	cmd := &cobra.Command{
		Use:   "get <entity>",
		Short: "Print the records of an entity as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecordsGet(cmd.Context(), cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.Sticky, "sticky", "", "Doctype resolved last time, probed first")
	cmd.Flags().StringSliceVar(&opts.Fields, "field", nil, "Fields to fetch (default all)")
	cmd.Flags().StringVar(&opts.Filters, "filters", "", `Filters as a JSON object or condition list, e.g. '{"floor":2}' or '[["floor",">=",2]]'`)
	return cmd
}

func newRecordsCreateCommand() *cobra.Command {
	opts := recordsOptions{}
	cmd := &cobra.Command{
		Use:   "create <entity>",
		Short: "Create a record in the entity's resolved doctype",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecordsWrite(cmd.Context(), cmd, "create", args[0], "", opts)
		},
	}
	addWriteFlags(cmd, &opts)
	return cmd
}

func newRecordsUpdateCommand() *cobra.Command {
	opts := recordsOptions{}
	cmd := &cobra.Command{
		Use:   "update <entity> <name>",
		Short: "Patch a record in the entity's resolved doctype",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecordsWrite(cmd.Context(), cmd, "update", args[0], args[1], opts)
		},
	}
	addWriteFlags(cmd, &opts)
	return cmd
}

func newRecordsDeleteCommand() *cobra.Command {
	opts := recordsOptions{}
	cmd := &cobra.Command{
		Use:   "delete <entity> <name>",
		Short: "Delete a record from the entity's resolved doctype",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecordsWrite(cmd.Context(), cmd, "delete", args[0], args[1], opts)
		},
	}
	cmd.Flags().StringVar(&opts.Sticky, "sticky", "", "Doctype resolved last time, probed first")
	return cmd
}

func addWriteFlags(cmd *cobra.Command, opts *recordsOptions) {
	cmd.Flags().StringVar(&opts.Sticky, "sticky", "", "Doctype resolved last time, probed first")
	cmd.Flags().StringVar(&opts.Data, "data", "", "Record fields as a JSON object")
	cmd.Flags().StringToStringVar(&opts.Set, "set", nil, "Record field as key=value (repeatable)")
}

func runRecordsGet(ctx context.Context, cmd *cobra.Command, entity string, opts recordsOptions) error {
	filters, err := parseFilters(opts.Filters)
	if err != nil {
		return err
	}
	service, err := newAppService()
	if err != nil {
		return err
	}
	result, err := service.GetRecords(ctx, app.GetRecordsRequest{
		Entity:  entity,
		Sticky:  opts.Sticky,
		Filters: filters,
		Fields:  opts.Fields,
	})
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}

func runRecordsWrite(ctx context.Context, cmd *cobra.Command, op string, entity string, name string, opts recordsOptions) error {
	record, err := recordFromOptions(opts)
	if err != nil {
		return err
	}
	service, err := newAppService()
	if err != nil {
		return err
	}
	req := app.WriteRecordRequest{Entity: entity, Sticky: opts.Sticky, Name: name, Record: record}
	var result app.WriteRecordResult
	switch op {
	case "create":
		result, err = service.CreateRecord(ctx, req)
	case "update":
		result, err = service.UpdateRecord(ctx, req)
	default:
		result, err = service.DeleteRecord(ctx, req)
	}
	if err != nil {
		return err
	}
	if op == "delete" {
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s from %s\n", name, result.Doctype)
		return nil
	}
	return printJSON(cmd.OutOrStdout(), result.Record)
}

// recordFromOptions merges --data with --set; --set wins on conflicts.
func recordFromOptions(opts recordsOptions) (types.Record, error) {
	fields, err := parseJSONObject(opts.Data, "data")
	if err != nil {
		return nil, err
	}
	record := types.Record{}
	for key, value := range fields {
		record[key] = value
	}
	for key, value := range opts.Set {
		record[strings.TrimSpace(key)] = value
	}
	return record, nil
}

// parseFilters accepts a JSON object or a JSON list of conditions.
func parseFilters(raw string) (any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("--filters must be valid JSON").
			WithCause(err)
	}
	switch parsed.(type) {
	case map[string]any, []any:
		return parsed, nil
	}
	return nil, errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("--filters must be a JSON object or list")
}

func parseJSONObject(raw string, flagName string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("--%s must be a JSON object", flagName)).
			WithCause(err)
	}
	return parsed, nil
}
