package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"

	"hotel-erp/internal/types"
)

// RecordFilter is a compiled boolean expression over a flat record
// environment, e.g. `status == "available" && floor >= 2`.
type RecordFilter struct {
	expression string
	program    *exprvm.Program
}

// NewRecordFilter compiles expression against the keys and value types of
// sample. An empty expression matches everything.
func NewRecordFilter(expression string, sample map[string]any) (RecordFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return RecordFilter{}, nil
	}
	program, err := exprlang.Compile(expression, exprlang.Env(sample), exprlang.AsBool())
	if err != nil {
		return RecordFilter{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid filter expression: %s", expression)).
			WithCause(err)
	}
	return RecordFilter{expression: expression, program: program}, nil
}

// NewRoomFilter compiles a filter over the fields of types.RoomView.
func NewRoomFilter(expression string) (RecordFilter, error) {
	return NewRecordFilter(expression, RoomEnv(types.RoomView{}))
}

func (f RecordFilter) Expression() string {
	return f.expression
}

func (f RecordFilter) Match(env map[string]any) (bool, error) {
	if f.program == nil {
		return true, nil
	}
	result, err := exprlang.Run(f.program, env)
	if err != nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("filter evaluation failed: %s", f.expression)).
			WithCause(err)
	}
	matched, ok := result.(bool)
	return ok && matched, nil
}

// FilterRooms keeps the rooms matching f, preserving order.
func FilterRooms(f RecordFilter, rooms []types.RoomView) ([]types.RoomView, error) {
	if f.program == nil {
		return rooms, nil
	}
	kept := make([]types.RoomView, 0, len(rooms))
	for _, room := range rooms {
		matched, err := f.Match(RoomEnv(room))
		if err != nil {
			return nil, err
		}
		if matched {
			kept = append(kept, room)
		}
	}
	return kept, nil
}

// RoomEnv flattens a room view into the filter environment.
func RoomEnv(room types.RoomView) map[string]any {
	rate, _ := room.Rate.Float64()
	return map[string]any{
		"name":     room.Name,
		"number":   room.Number,
		"type":     room.Type,
		"floor":    room.Floor,
		"status":   string(room.Status),
		"rate":     rate,
		"guest":    room.Guest,
		"hasGuest": room.Guest != "" && room.Guest != types.Placeholder,
	}
}
