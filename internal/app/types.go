package app

import "hotel-erp/internal/types"

type ResolveRequest struct {
	Entity string
	// Candidates replaces the catalog's candidate list when set.
	Candidates []string
	Sticky     string
	// SeedFile supplies seed rows for this call only.
	SeedFile string
	NoSeed   bool
	Fields   []string
}

type ResolveResult struct {
	Entity  string
	Binding types.ResolvedBinding
}

type GetRecordsRequest struct {
	Entity string
	Sticky string
	// Filters goes to the backend as given: an object of field equalities or
	// the list form [[field, operator, value], ...].
	Filters any
	Fields  []string
}

type RecordsResult struct {
	Entity  string         `json:"entity"`
	Doctype string         `json:"doctype"`
	Records []types.Record `json:"records"`
}

type WriteRecordRequest struct {
	Entity string
	Sticky string
	// Name identifies the record for update and delete.
	Name   string
	Record types.Record
}

type WriteRecordResult struct {
	Doctype string
	Record  types.Record
	Deleted bool
}

type ListRoomsRequest struct {
	// Where is a filter expression over room fields, e.g. `status == "available"`.
	Where  string
	Sticky string
}

type RoomsResult struct {
	Doctype string           `json:"doctype"`
	Rooms   []types.RoomView `json:"rooms"`
}

type SetRoomStatusRequest struct {
	Number string
	Status string
	Sticky string
}

type SetRoomStatusResult struct {
	Number string           `json:"number"`
	Status types.StatusType `json:"status"`
	// Doctype is empty when only the local override was stored.
	Doctype string `json:"doctype,omitempty"`
}

type CheckRequest struct {
	// OutputPath writes the report as YAML, or JSON for a .json path.
	OutputPath string
}

type SessionResult struct {
	LoggedIn bool
}
