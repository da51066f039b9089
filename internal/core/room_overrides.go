package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"hotel-erp/internal/ports"
	"hotel-erp/internal/types"
)

// RoomOverridesKey holds locally edited room statuses, keyed by room number.
const RoomOverridesKey = "room_status_overrides"

// RoomStatusOverrides keeps status edits made from the dashboard when the
// room list is not backed by a writable doctype.
type RoomStatusOverrides struct {
	Store ports.KeyValuePort
}

func NewRoomStatusOverrides(store ports.KeyValuePort) RoomStatusOverrides {
	return RoomStatusOverrides{Store: store}
}

func (o RoomStatusOverrides) All() (map[string]types.StatusType, error) {
	overrides := map[string]types.StatusType{}
	if o.Store == nil {
		return overrides, nil
	}
	raw, ok, err := o.Store.Get(RoomOverridesKey)
	if err != nil || !ok || strings.TrimSpace(raw) == "" {
		return overrides, err
	}
	if err := yaml.Unmarshal([]byte(raw), &overrides); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("stored room status overrides are corrupt").
			WithCause(err)
	}
	return overrides, nil
}

func (o RoomStatusOverrides) Set(room string, status types.StatusType) error {
	room = strings.TrimSpace(room)
	if room == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("room number is required")
	}
	if !IsStatusType(string(status)) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown room status: %s (known: %s)", status, strings.Join(statusNames(), ", ")))
	}
	overrides, err := o.All()
	if err != nil {
		return err
	}
	overrides[room] = status
	return o.save(overrides)
}

func (o RoomStatusOverrides) Clear(room string) error {
	overrides, err := o.All()
	if err != nil {
		return err
	}
	if _, ok := overrides[room]; !ok {
		return nil
	}
	delete(overrides, room)
	return o.save(overrides)
}

// Apply returns rooms with any stored override replacing the mapped status.
func (o RoomStatusOverrides) Apply(rooms []types.RoomView) ([]types.RoomView, error) {
	overrides, err := o.All()
	if err != nil {
		return nil, err
	}
	if len(overrides) == 0 {
		return rooms, nil
	}
	applied := make([]types.RoomView, len(rooms))
	copy(applied, rooms)
	for i := range applied {
		if status, ok := overrides[applied[i].Number]; ok {
			applied[i].Status = status
		}
	}
	return applied, nil
}

func (o RoomStatusOverrides) save(overrides map[string]types.StatusType) error {
	if o.Store == nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("room status store is not configured")
	}
	if len(overrides) == 0 {
		return o.Store.Remove(RoomOverridesKey)
	}
	data, err := yaml.Marshal(overrides)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode room status overrides").
			WithCause(err)
	}
	return o.Store.Set(RoomOverridesKey, string(data))
}

func statusNames() []string {
	names := make([]string, 0, len(types.StatusTypes))
	for _, status := range types.StatusTypes {
		names = append(names, string(status))
	}
	sort.Strings(names)
	return names
}
