package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-erp/internal/adapters"
	"hotel-erp/internal/policies"
	"hotel-erp/internal/types"
)

type fakeERP struct {
	mu      sync.Mutex
	tables  map[string][]types.Record
	gets    []string
	filters []any
	writes  []string
	patches []types.Record
}

func newFakeERP(tables map[string][]types.Record) *fakeERP {
	if tables == nil {
		tables = map[string][]types.Record{}
	}
	return &fakeERP{tables: tables}
}

func (f *fakeERP) Get(_ context.Context, doctype string, filters any, _ []string) ([]types.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets = append(f.gets, doctype)
	if filters != nil {
		f.filters = append(f.filters, filters)
	}
	rows, ok := f.tables[doctype]
	if !ok {
		return nil, &types.ERPError{Kind: types.ErrorKindNotFound, Op: "get", Doctype: doctype, Status: 404}
	}
	return append([]types.Record(nil), rows...), nil
}

func (f *fakeERP) Create(_ context.Context, doctype string, record types.Record) (types.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tables[doctype]; !ok {
		return nil, &types.ERPError{Kind: types.ErrorKindNotFound, Op: "create", Doctype: doctype, Status: 404}
	}
	created := types.Record{"name": fmt.Sprintf("%s-%d", doctype, len(f.tables[doctype])+1)}
	for key, value := range record {
		created[key] = value
	}
	f.tables[doctype] = append(f.tables[doctype], created)
	f.writes = append(f.writes, "create "+doctype)
	return created, nil
}

func (f *fakeERP) Update(_ context.Context, doctype string, name string, patch types.Record) (types.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.tables[doctype] {
		if row["name"] == name {
			for key, value := range patch {
				row[key] = value
			}
			f.writes = append(f.writes, "update "+doctype+" "+name)
			f.patches = append(f.patches, patch)
			return row, nil
		}
	}
	return nil, &types.ERPError{Kind: types.ErrorKindNotFound, Op: "update", Doctype: doctype, Status: 404}
}

func (f *fakeERP) Delete(_ context.Context, doctype string, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := f.tables[doctype]
	for i, row := range rows {
		if row["name"] == name {
			f.tables[doctype] = append(rows[:i], rows[i+1:]...)
			f.writes = append(f.writes, "delete "+doctype+" "+name)
			return true, nil
		}
	}
	return false, &types.ERPError{Kind: types.ErrorKindNotFound, Op: "delete", Doctype: doctype, Status: 404}
}

func newTestService(t *testing.T, erp *fakeERP) Service {
	t.Helper()
	catalog, err := policies.NewEntityCatalog(nil)
	require.NoError(t, err)
	return Service{
		Resources:  erp,
		Catalog:    catalog,
		Seeds:      adapters.NewSeedFileAdapter(),
		State:      adapters.NewMemoryKVAdapter(),
		Reports:    adapters.NewReportFileAdapter(),
		Candidates: policies.NewCandidatePolicy(),
	}
}

func TestResolveBindsFirstExistingCandidate(t *testing.T) {
	erp := newFakeERP(map[string][]types.Record{
		"Hotel Room": {{"name": "HR-1", "room_number": "101"}},
	})
	service := newTestService(t, erp)

	result, err := service.Resolve(t.Context(), ResolveRequest{Entity: "rooms"})
	require.NoError(t, err)
	assert.Equal(t, "room", result.Entity)
	assert.Equal(t, "Hotel Room", result.Binding.Doctype)
	assert.Len(t, result.Binding.Records, 1)
	assert.Equal(t, []string{"Room", "Hotel Room"}, erp.gets)
	assert.Empty(t, erp.writes)
}

func TestResolveStickyCandidateIsProbedFirst(t *testing.T) {
	erp := newFakeERP(map[string][]types.Record{
		"Room":        {{"name": "R-1"}},
		"Room Master": {{"name": "RM-1"}},
	})
	service := newTestService(t, erp)

	result, err := service.Resolve(t.Context(), ResolveRequest{Entity: "room", Sticky: "Room Master"})
	require.NoError(t, err)
	assert.Equal(t, "Room Master", result.Binding.Doctype)
	assert.Equal(t, []string{"Room Master"}, erp.gets)

	erp.gets = nil
	result, err = service.Resolve(t.Context(), ResolveRequest{Entity: "room", Sticky: types.LocalSeedDoctype})
	require.NoError(t, err)
	assert.Equal(t, "Room", result.Binding.Doctype)
	assert.Equal(t, []string{"Room"}, erp.gets)
}

func TestResolveFallsBackToLocalSeed(t *testing.T) {
	service := newTestService(t, newFakeERP(nil))

	result, err := service.Resolve(t.Context(), ResolveRequest{Entity: "room"})
	require.NoError(t, err)
	assert.True(t, result.Binding.IsLocalSeed())
	assert.Len(t, result.Binding.Records, 10)

	_, err = service.Resolve(t.Context(), ResolveRequest{Entity: "room", NoSeed: true})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, types.CodeOf(err))
	attempted, ok := types.AttemptedCandidates(err)
	require.True(t, ok)
	assert.Equal(t, policies.RoomCandidates, attempted)
}

func TestResolveSeedsEmptyDoctype(t *testing.T) {
	erp := newFakeERP(map[string][]types.Record{"Booking": {}})
	service := newTestService(t, erp)

	result, err := service.Resolve(t.Context(), ResolveRequest{Entity: "booking"})
	require.NoError(t, err)
	assert.Equal(t, "Booking", result.Binding.Doctype)
	assert.Len(t, result.Binding.Records, 4)
	assert.Len(t, erp.writes, 4)
}

func TestResolveUsesSeedFileRows(t *testing.T) {
	seedPath := filepath.Join(t.TempDir(), "seeds.yaml")
	require.NoError(t, os.WriteFile(seedPath, []byte("seeds:\n  room:\n    - room_number: \"900\"\n      status: Available\n"), 0644))
	erp := newFakeERP(map[string][]types.Record{"Room": {}})
	service := newTestService(t, erp)

	result, err := service.Resolve(t.Context(), ResolveRequest{Entity: "room", SeedFile: seedPath})
	require.NoError(t, err)
	require.Len(t, result.Binding.Records, 1)
	assert.Equal(t, "900", result.Binding.Records[0]["room_number"])
}

func TestResolveWithExplicitCandidates(t *testing.T) {
	erp := newFakeERP(map[string][]types.Record{"Guest": {{"name": "G-1"}}})
	service := newTestService(t, erp)

	result, err := service.Resolve(t.Context(), ResolveRequest{Candidates: []string{"Customer", "Guest"}})
	require.NoError(t, err)
	assert.Equal(t, "Guest", result.Binding.Doctype)

	_, err = service.Resolve(t.Context(), ResolveRequest{})
	assert.Equal(t, errbuilder.CodeInvalidArgument, types.CodeOf(err))
	_, err = service.Resolve(t.Context(), ResolveRequest{Entity: "spa-booking"})
	assert.Equal(t, errbuilder.CodeNotFound, types.CodeOf(err))
}

func TestResolvePropagatesAuthFailure(t *testing.T) {
	erp := newFakeERP(nil)
	service := newTestService(t, erp)
	service.Resources = failingResources{err: &types.ERPError{Kind: types.ErrorKindAuthFailure, Status: 401}}

	_, err := service.Resolve(t.Context(), ResolveRequest{Entity: "room"})
	require.Error(t, err)
	assert.True(t, types.IsAuthFailure(err))
	assert.Equal(t, errbuilder.CodePermissionDenied, types.CodeOf(err))
}

type failingResources struct {
	err error
}

func (f failingResources) Get(context.Context, string, any, []string) ([]types.Record, error) {
	return nil, f.err
}

func (f failingResources) Create(context.Context, string, types.Record) (types.Record, error) {
	return nil, f.err
}

func (f failingResources) Update(context.Context, string, string, types.Record) (types.Record, error) {
	return nil, f.err
}

func (f failingResources) Delete(context.Context, string, string) (bool, error) {
	return false, f.err
}

func TestWritesRefuseLocalSeed(t *testing.T) {
	erp := newFakeERP(nil)
	service := newTestService(t, erp)

	_, err := service.CreateRecord(t.Context(), WriteRecordRequest{Entity: "booking", Record: types.Record{"guest_name": "Nina"}})
	assert.Equal(t, errbuilder.CodeFailedPrecondition, types.CodeOf(err))
	_, err = service.UpdateRecord(t.Context(), WriteRecordRequest{Entity: "booking", Name: "BK-1", Record: types.Record{"status": "Reserved"}})
	assert.Equal(t, errbuilder.CodeFailedPrecondition, types.CodeOf(err))
	_, err = service.DeleteRecord(t.Context(), WriteRecordRequest{Entity: "booking", Name: "BK-1"})
	assert.Equal(t, errbuilder.CodeFailedPrecondition, types.CodeOf(err))
	assert.Empty(t, erp.writes)
}

func TestWritesDoNotSeedEmptyDoctype(t *testing.T) {
	erp := newFakeERP(map[string][]types.Record{"Room": {}})
	service := newTestService(t, erp)

	created, err := service.CreateRecord(t.Context(), WriteRecordRequest{Entity: "room", Record: types.Record{"room_number": "501"}})
	require.NoError(t, err)
	assert.Equal(t, "Room", created.Doctype)
	assert.Equal(t, []string{"create Room"}, erp.writes)
	assert.Len(t, erp.tables["Room"], 1)

	_, err = service.DeleteRecord(t.Context(), WriteRecordRequest{Entity: "room", Name: "missing"})
	assert.Equal(t, errbuilder.CodeNotFound, types.CodeOf(err))
	assert.Equal(t, []string{"create Room"}, erp.writes)
}

func TestRecordLifecycle(t *testing.T) {
	erp := newFakeERP(map[string][]types.Record{
		"Reservation": {{"name": "RES-1", "guest_name": "Emily Clark", "status": "Reserved"}},
	})
	service := newTestService(t, erp)
	ctx := t.Context()

	created, err := service.CreateRecord(ctx, WriteRecordRequest{Entity: "booking", Record: types.Record{"guest_name": "Nina"}})
	require.NoError(t, err)
	assert.Equal(t, "Reservation", created.Doctype)
	assert.Equal(t, "Reservation-2", created.Record["name"])

	updated, err := service.UpdateRecord(ctx, WriteRecordRequest{Entity: "booking", Name: "RES-1", Record: types.Record{"status": "Checked In"}})
	require.NoError(t, err)
	assert.Equal(t, "Checked In", updated.Record["status"])

	deleted, err := service.DeleteRecord(ctx, WriteRecordRequest{Entity: "booking", Name: "Reservation-2"})
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)
	assert.Equal(t, []string{"create Reservation", "update Reservation RES-1", "delete Reservation Reservation-2"}, erp.writes)
}

func TestRecordWritesValidateInput(t *testing.T) {
	service := newTestService(t, newFakeERP(nil))
	ctx := t.Context()

	_, err := service.CreateRecord(ctx, WriteRecordRequest{Entity: "booking"})
	assert.Equal(t, errbuilder.CodeInvalidArgument, types.CodeOf(err))
	_, err = service.UpdateRecord(ctx, WriteRecordRequest{Entity: "booking", Record: types.Record{"status": "x"}})
	assert.Equal(t, errbuilder.CodeInvalidArgument, types.CodeOf(err))
	_, err = service.UpdateRecord(ctx, WriteRecordRequest{Entity: "booking", Name: "BK-1"})
	assert.Equal(t, errbuilder.CodeInvalidArgument, types.CodeOf(err))
	_, err = service.DeleteRecord(ctx, WriteRecordRequest{Entity: "booking", Name: " "})
	assert.Equal(t, errbuilder.CodeInvalidArgument, types.CodeOf(err))
}

func TestGetRecordsFilters(t *testing.T) {
	local := newTestService(t, newFakeERP(nil))
	result, err := local.GetRecords(t.Context(), GetRecordsRequest{Entity: "room", Filters: map[string]any{"floor": 2}})
	require.NoError(t, err)
	assert.Equal(t, types.LocalSeedDoctype, result.Doctype)
	assert.Len(t, result.Records, 3)

	erp := newFakeERP(map[string][]types.Record{"Room": {{"name": "R-1", "floor": 2}}})
	remote := newTestService(t, erp)
	filters := map[string]any{"floor": 2}
	result, err = remote.GetRecords(t.Context(), GetRecordsRequest{Entity: "room", Filters: filters})
	require.NoError(t, err)
	assert.Equal(t, "Room", result.Doctype)
	assert.Equal(t, []any{filters}, erp.filters)

	listForm := []any{[]any{"floor", ">=", 2}}
	_, err = remote.GetRecords(t.Context(), GetRecordsRequest{Entity: "room", Filters: listForm})
	require.NoError(t, err)
	assert.Equal(t, []any{filters, listForm}, erp.filters)
}

func TestGetRecordsListFiltersOnLocalSeed(t *testing.T) {
	service := newTestService(t, newFakeERP(nil))
	ctx := t.Context()

	result, err := service.GetRecords(ctx, GetRecordsRequest{
		Entity:  "room",
		Filters: []any{[]any{"floor", "=", 4}, []any{"Room", "status", "=", "Reserved"}},
	})
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "408", result.Records[0]["room_number"])

	result, err = service.GetRecords(ctx, GetRecordsRequest{Entity: "room", Filters: []any{}})
	require.NoError(t, err)
	assert.Len(t, result.Records, 10)

	for _, filters := range []any{
		[]any{[]any{"floor", ">=", 2}},
		[]any{[]any{"floor", "="}},
		[]any{"floor"},
		"floor = 2",
	} {
		_, err = service.GetRecords(ctx, GetRecordsRequest{Entity: "room", Filters: filters})
		assert.Equal(t, errbuilder.CodeInvalidArgument, types.CodeOf(err), "%v", filters)
	}
}

func TestListRoomsAppliesOverridesAndFilter(t *testing.T) {
	service := newTestService(t, newFakeERP(nil))
	ctx := t.Context()

	rooms, err := service.ListRooms(ctx, ListRoomsRequest{Where: `status == "available"`})
	require.NoError(t, err)
	assert.Equal(t, types.LocalSeedDoctype, rooms.Doctype)
	assert.Equal(t, []string{"101", "202", "410"}, numbers(rooms.Rooms))

	set, err := service.SetRoomStatus(ctx, SetRoomStatusRequest{Number: "101", Status: "Cleaning"})
	require.NoError(t, err)
	assert.Empty(t, set.Doctype)
	assert.Equal(t, types.StatusCleaning, set.Status)

	rooms, err = service.ListRooms(ctx, ListRoomsRequest{Where: `status == "available"`})
	require.NoError(t, err)
	assert.Equal(t, []string{"202", "410"}, numbers(rooms.Rooms))

	_, err = service.ListRooms(ctx, ListRoomsRequest{Where: `status ==`})
	assert.Equal(t, errbuilder.CodeInvalidArgument, types.CodeOf(err))
}

func TestSetRoomStatusUpdatesBackend(t *testing.T) {
	erp := newFakeERP(map[string][]types.Record{
		"Room": {
			{"name": "R-1", "room_number": "101", "room_status": "Available"},
			{"name": "R-2", "room_number": "102", "room_status": "Occupied"},
		},
	})
	service := newTestService(t, erp)
	ctx := t.Context()

	result, err := service.SetRoomStatus(ctx, SetRoomStatusRequest{Number: "101", Status: "maintenance"})
	require.NoError(t, err)
	assert.Equal(t, "Room", result.Doctype)
	assert.Equal(t, []types.Record{{"room_status": "Maintenance"}}, erp.patches)

	rooms, err := service.ListRooms(ctx, ListRoomsRequest{Where: `number == "101"`})
	require.NoError(t, err)
	require.Len(t, rooms.Rooms, 1)
	assert.Equal(t, types.StatusMaintenance, rooms.Rooms[0].Status)

	_, err = service.SetRoomStatus(ctx, SetRoomStatusRequest{Number: "999", Status: "cleaning"})
	assert.Equal(t, errbuilder.CodeNotFound, types.CodeOf(err))
	_, err = service.SetRoomStatus(ctx, SetRoomStatusRequest{Number: "101", Status: "dirty"})
	assert.Equal(t, errbuilder.CodeInvalidArgument, types.CodeOf(err))
}

func TestBillingSummaryFromSeedRows(t *testing.T) {
	service := newTestService(t, newFakeERP(nil))

	summary, err := service.BillingSummary(t.Context())
	require.NoError(t, err)
	assert.Equal(t, types.LocalSeedDoctype, summary.Doctype)
	assert.Equal(t, 5, summary.InvoiceCount)
	assert.True(t, decimal.NewFromInt(197000).Equal(summary.Paid), "paid %s", summary.Paid)
	assert.True(t, decimal.NewFromInt(46000).Equal(summary.Pending), "pending %s", summary.Pending)
	assert.True(t, decimal.NewFromInt(4180).Equal(summary.Overdue), "overdue %s", summary.Overdue)
	assert.True(t, decimal.NewFromInt(247180).Equal(summary.Total), "total %s", summary.Total)
}

func TestCheckWritesReport(t *testing.T) {
	erp := newFakeERP(map[string][]types.Record{
		"User":    {{"name": "Administrator"}},
		"Room":    {{"name": "R-1"}},
		"Booking": {},
	})
	service := newTestService(t, erp)
	reportPath := filepath.Join(t.TempDir(), "out", "setup.json")

	report, err := service.Check(t.Context(), CheckRequest{OutputPath: reportPath})
	require.NoError(t, err)
	assert.True(t, report.OK)
	assert.Equal(t, map[string]string{"room": "Room", "booking": "Booking"}, report.ResolvedNames())
	assert.Empty(t, erp.writes, "diagnostic must not seed")

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, true, decoded["ok"])
}

func TestSessionLifecycle(t *testing.T) {
	service := newTestService(t, newFakeERP(nil))

	status, err := service.SessionStatus()
	require.NoError(t, err)
	assert.False(t, status.LoggedIn)

	require.NoError(t, service.Login())
	status, err = service.SessionStatus()
	require.NoError(t, err)
	assert.True(t, status.LoggedIn)

	require.NoError(t, service.Logout())
	status, err = service.SessionStatus()
	require.NoError(t, err)
	assert.False(t, status.LoggedIn)
}

func numbers(rooms []types.RoomView) []string {
	out := make([]string, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, room.Number)
	}
	return out
}
