package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"hotel-erp/internal/core"
	"hotel-erp/internal/policies"
	"hotel-erp/internal/types"
)

func (s Service) ListRooms(ctx context.Context, req ListRoomsRequest) (RoomsResult, error) {
	filter, err := core.NewRoomFilter(req.Where)
	if err != nil {
		return RoomsResult{}, err
	}
	resolved, err := s.Resolve(ctx, ResolveRequest{Entity: policies.EntityRoom, Sticky: req.Sticky})
	if err != nil {
		return RoomsResult{}, err
	}
	rooms, err := core.NewRoomStatusOverrides(s.State).Apply(core.MapRooms(resolved.Binding.Records))
	if err != nil {
		return RoomsResult{}, err
	}
	rooms, err = core.FilterRooms(filter, rooms)
	if err != nil {
		return RoomsResult{}, err
	}
	return RoomsResult{Doctype: resolved.Binding.Doctype, Rooms: rooms}, nil
}

// SetRoomStatus writes the status to the backing room record. Rooms served
// from local seed rows keep the change as a local override instead.
func (s Service) SetRoomStatus(ctx context.Context, req SetRoomStatusRequest) (SetRoomStatusResult, error) {
	number := strings.TrimSpace(req.Number)
	if number == "" {
		return SetRoomStatusResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("room number is required")
	}
	status := types.StatusType(strings.ToLower(strings.TrimSpace(req.Status)))
	if !core.IsStatusType(string(status)) {
		return SetRoomStatusResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown room status: %s", req.Status))
	}

	overrides := core.NewRoomStatusOverrides(s.State)
	resolved, err := s.Resolve(ctx, ResolveRequest{Entity: policies.EntityRoom, Sticky: req.Sticky})
	if err != nil {
		return SetRoomStatusResult{}, err
	}
	if resolved.Binding.IsLocalSeed() {
		if err := overrides.Set(number, status); err != nil {
			return SetRoomStatusResult{}, err
		}
		log.Info().Str("room", number).Str("status", string(status)).Msg("room status stored locally")
		return SetRoomStatusResult{Number: number, Status: status}, nil
	}

	record, ok := findRoom(resolved.Binding.Records, number)
	if !ok {
		return SetRoomStatusResult{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("room %s not found in %s", number, resolved.Binding.Doctype))
	}
	name, _ := record["name"].(string)
	if strings.TrimSpace(name) == "" {
		return SetRoomStatusResult{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("room %s has no record name", number))
	}
	patch := types.Record{statusField(record): cases.Title(language.English).String(string(status))}
	if _, err := s.Resources.Update(ctx, resolved.Binding.Doctype, name, patch); err != nil {
		return SetRoomStatusResult{}, err
	}
	if err := overrides.Clear(number); err != nil {
		return SetRoomStatusResult{}, err
	}
	return SetRoomStatusResult{Number: number, Status: status, Doctype: resolved.Binding.Doctype}, nil
}

func findRoom(records []types.Record, number string) (types.Record, bool) {
	for _, record := range records {
		if core.MapRoom(record).Number == number {
			return record, true
		}
	}
	return nil, false
}

// statusField picks the status column the record already uses.
func statusField(record types.Record) string {
	for _, field := range []string{"status", "room_status", "state"} {
		if _, ok := record[field]; ok {
			return field
		}
	}
	return "status"
}
