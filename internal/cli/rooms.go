package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hotel-erp/internal/app"
)

type roomsOptions struct {
	Where  string
	Sticky string
	JSON   bool
}

func newRoomsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "Room board operations",
	}
	cmd.AddCommand(newRoomsListCommand())
	cmd.AddCommand(newRoomsSetStatusCommand())
	return cmd
}

func newRoomsListCommand() *cobra.Command {
	opts := roomsOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List rooms with normalized status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRoomsList(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Where, "where", "", `Filter expression, e.g. 'status == "available" && floor >= 2'`)
	cmd.Flags().StringVar(&opts.Sticky, "sticky", "", "Room doctype resolved last time, probed first")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print rooms as JSON")
	_ = viper.BindPFlag("room_doctype", cmd.Flags().Lookup("sticky"))
	return cmd
}

func newRoomsSetStatusCommand() *cobra.Command {
	opts := roomsOptions{}
	cmd := &cobra.Command{
		Use:   "set-status <room-number> <status>",
		Short: "Change a room's status (available, occupied, maintenance, reserved, cleaning)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoomsSetStatus(cmd.Context(), cmd, args[0], args[1], opts)
		},
	}
	cmd.Flags().StringVar(&opts.Sticky, "sticky", "", "Room doctype resolved last time, probed first")
	return cmd
}

func runRoomsList(ctx context.Context, cmd *cobra.Command, opts roomsOptions) error {
	service, err := newAppService()
	if err != nil {
		return err
	}
	result, err := service.ListRooms(ctx, app.ListRoomsRequest{
		Where:  opts.Where,
		Sticky: resolveString(cmd, opts.Sticky, "room_doctype", "sticky"),
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if opts.JSON {
		return printJSON(out, result)
	}
	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ROOM\tTYPE\tFLOOR\tSTATUS\tRATE\tGUEST")
	for _, room := range result.Rooms {
		fmt.Fprintf(writer, "%s\t%s\t%d\t%s\t%s\t%s\n", room.Number, room.Type, room.Floor, room.Status, room.Rate.StringFixed(2), room.Guest)
	}
	if err := writer.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d rooms from %s\n", len(result.Rooms), result.Doctype)
	return nil
}

func runRoomsSetStatus(ctx context.Context, cmd *cobra.Command, number string, status string, opts roomsOptions) error {
	service, err := newAppService()
	if err != nil {
		return err
	}
	result, err := service.SetRoomStatus(ctx, app.SetRoomStatusRequest{
		Number: number,
		Status: status,
		Sticky: opts.Sticky,
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if result.Doctype == "" {
		fmt.Fprintf(out, "room %s: %s (stored locally)\n", result.Number, result.Status)
		return nil
	}
	fmt.Fprintf(out, "room %s: %s (%s)\n", result.Number, result.Status, result.Doctype)
	return nil
}
