package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-erp/internal/app"
	"hotel-erp/internal/types"
)

const testSecret = "test-secret"

type stubBackend struct {
	mu         sync.Mutex
	err        error
	loggedIn   bool
	getReq     app.GetRecordsRequest
	writeReq   app.WriteRecordRequest
	roomsReq   app.ListRoomsRequest
	statusReq  app.SetRoomStatusRequest
	checkCalls int
}

func (b *stubBackend) GetRecords(_ context.Context, req app.GetRecordsRequest) (app.RecordsResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.getReq = req
	if b.err != nil {
		return app.RecordsResult{}, b.err
	}
	return app.RecordsResult{Entity: "room", Doctype: "Room", Records: []types.Record{{"name": "R-1"}}}, nil
}

func (b *stubBackend) CreateRecord(_ context.Context, req app.WriteRecordRequest) (app.WriteRecordResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writeReq = req
	if b.err != nil {
		return app.WriteRecordResult{}, b.err
	}
	return app.WriteRecordResult{Doctype: "Booking", Record: types.Record{"name": "BK-9"}}, nil
}

func (b *stubBackend) UpdateRecord(_ context.Context, req app.WriteRecordRequest) (app.WriteRecordResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writeReq = req
	if b.err != nil {
		return app.WriteRecordResult{}, b.err
	}
	return app.WriteRecordResult{Doctype: "Booking", Record: req.Record}, nil
}

func (b *stubBackend) DeleteRecord(_ context.Context, req app.WriteRecordRequest) (app.WriteRecordResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writeReq = req
	if b.err != nil {
		return app.WriteRecordResult{}, b.err
	}
	return app.WriteRecordResult{Doctype: "Booking", Deleted: true}, nil
}

func (b *stubBackend) Check(context.Context, app.CheckRequest) (types.SetupReport, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.checkCalls++
	return types.SetupReport{OK: true, Issues: []string{}, Warnings: []string{}}, nil
}

func (b *stubBackend) ListRooms(_ context.Context, req app.ListRoomsRequest) (app.RoomsResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.roomsReq = req
	if b.err != nil {
		return app.RoomsResult{}, b.err
	}
	return app.RoomsResult{
		Doctype: "Room",
		Rooms: []types.RoomView{
			{Name: "R-1", Number: "101", Type: "Standard King", Floor: 1, Status: types.StatusAvailable, Rate: decimal.NewFromInt(3500), Guest: types.Placeholder},
		},
	}, nil
}

func (b *stubBackend) SetRoomStatus(_ context.Context, req app.SetRoomStatusRequest) (app.SetRoomStatusResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.statusReq = req
	if b.err != nil {
		return app.SetRoomStatusResult{}, b.err
	}
	return app.SetRoomStatusResult{Number: req.Number, Status: types.StatusType(req.Status), Doctype: "Room"}, nil
}

func (b *stubBackend) BillingSummary(context.Context) (types.BillingSummary, error) {
	if b.err != nil {
		return types.BillingSummary{}, b.err
	}
	return types.BillingSummary{Doctype: "Sales Invoice", InvoiceCount: 2, Total: decimal.NewFromInt(300)}, nil
}

func (b *stubBackend) Login() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.loggedIn = true
	return nil
}

func (b *stubBackend) Logout() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.loggedIn = false
	return nil
}

func (b *stubBackend) SessionStatus() (app.SessionResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return app.SessionResult{LoggedIn: b.loggedIn}, nil
}

func newTestServer(t *testing.T, backend *stubBackend) *httptest.Server {
	t.Helper()
	srv, err := New(backend, Config{JWTSecret: testSecret})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doRequest(t *testing.T, method string, url string, token string, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequestWithContext(t.Context(), method, url, strings.NewReader(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func login(t *testing.T, baseURL string) string {
	t.Helper()
	resp := doRequest(t, http.MethodPost, baseURL+"/login", "", `{"username":"frontdesk"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestNewRequiresSecretAndBackend(t *testing.T) {
	_, err := New(&stubBackend{}, Config{})
	assert.Equal(t, errbuilder.CodeInvalidArgument, types.CodeOf(err))
	_, err = New(nil, Config{JWTSecret: testSecret})
	assert.Equal(t, errbuilder.CodeInvalidArgument, types.CodeOf(err))
}

func TestHealthIsPublic(t *testing.T) {
	ts := newTestServer(t, &stubBackend{})
	resp := doRequest(t, http.MethodGet, ts.URL+"/health", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Content-Type"))
	assert.Equal(t, "ok", decodeBody(t, resp)["status"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t, &stubBackend{})
	for _, path := range []string{"/rooms", "/setup-check", "/billing/summary", "/entities/room"} {
		resp := doRequest(t, http.MethodGet, ts.URL+path, "", "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}

	expired, err := GenerateToken(testSecret, "frontdesk", time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	resp := doRequest(t, http.MethodGet, ts.URL+"/rooms", expired, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	foreign, err := GenerateToken("other-secret", "frontdesk", time.Now())
	require.NoError(t, err)
	resp = doRequest(t, http.MethodGet, ts.URL+"/rooms", foreign, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginAndLogout(t *testing.T) {
	backend := &stubBackend{}
	ts := newTestServer(t, backend)

	resp := doRequest(t, http.MethodPost, ts.URL+"/login", "", `{"username":"  "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = doRequest(t, http.MethodPost, ts.URL+"/login", "", `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	token := login(t, ts.URL)
	assert.True(t, backend.loggedIn)
	claims, err := ValidateToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "frontdesk", claims.Username)

	resp = doRequest(t, http.MethodGet, ts.URL+"/rooms", token, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, http.MethodPost, ts.URL+"/logout", token, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.False(t, backend.loggedIn)

	for _, path := range []string{"/rooms", "/billing/summary", "/entities/room"} {
		resp = doRequest(t, http.MethodGet, ts.URL+path, token, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		assert.Equal(t, "session closed", decodeBody(t, resp)["error"])
	}
	resp = doRequest(t, http.MethodPost, ts.URL+"/logout", token, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	fresh := login(t, ts.URL)
	resp = doRequest(t, http.MethodGet, ts.URL+"/rooms", fresh, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetRecordsPassesQuery(t *testing.T) {
	backend := &stubBackend{}
	ts := newTestServer(t, backend)
	token := login(t, ts.URL)

	resp := doRequest(t, http.MethodGet, ts.URL+`/entities/room?sticky=Room&fields=name,%20status&filters=%7B%22floor%22%3A2%7D`, token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	expected := app.GetRecordsRequest{
		Entity:  "room",
		Sticky:  "Room",
		Fields:  []string{"name", "status"},
		Filters: map[string]any{"floor": float64(2)},
	}
	if diff := cmp.Diff(expected, backend.getReq); diff != "" {
		t.Fatalf("unexpected request (-want +got):\n%s", diff)
	}
	body := decodeBody(t, resp)
	assert.Equal(t, "Room", body["doctype"])

	listForm := url.QueryEscape(`[["status","=","Available"],["floor",">=",2]]`)
	resp = doRequest(t, http.MethodGet, ts.URL+"/entities/room?filters="+listForm, token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{
		[]any{"status", "=", "Available"},
		[]any{"floor", ">=", float64(2)},
	}, backend.getReq.Filters)

	for _, raw := range []string{`"Available"`, `{broken`} {
		resp = doRequest(t, http.MethodGet, ts.URL+"/entities/room?filters="+url.QueryEscape(raw), token, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, raw)
	}
}

func TestRecordWrites(t *testing.T) {
	backend := &stubBackend{}
	ts := newTestServer(t, backend)
	token := login(t, ts.URL)

	resp := doRequest(t, http.MethodPost, ts.URL+"/entities/booking", token, `{"guest_name":"Nina"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, types.Record{"guest_name": "Nina"}, backend.writeReq.Record)

	resp = doRequest(t, http.MethodPut, ts.URL+"/entities/booking/BK-9", token, `{"status":"Checked In"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "BK-9", backend.writeReq.Name)

	resp = doRequest(t, http.MethodDelete, ts.URL+"/entities/booking/BK-9", token, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, decodeBody(t, resp)["deleted"])
}

func TestRoomsAndBilling(t *testing.T) {
	backend := &stubBackend{}
	ts := newTestServer(t, backend)
	token := login(t, ts.URL)

	resp := doRequest(t, http.MethodGet, ts.URL+"/rooms?where=floor%20%3E%3D%202", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "floor >= 2", backend.roomsReq.Where)
	body := decodeBody(t, resp)
	rooms, ok := body["rooms"].([]any)
	require.True(t, ok)
	require.Len(t, rooms, 1)
	assert.Equal(t, "3500", rooms[0].(map[string]any)["rate"])

	resp = doRequest(t, http.MethodPut, ts.URL+"/rooms/101/status", token, `{"status":"cleaning"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, app.SetRoomStatusRequest{Number: "101", Status: "cleaning"}, backend.statusReq)
	assert.Equal(t, "cleaning", decodeBody(t, resp)["status"])

	resp = doRequest(t, http.MethodGet, ts.URL+"/billing/summary", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Sales Invoice", decodeBody(t, resp)["doctype"])

	resp = doRequest(t, http.MethodGet, ts.URL+"/setup-check", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, backend.checkCalls)
}

func TestServiceErrorsMapToStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "upstream auth", err: &types.ERPError{Kind: types.ErrorKindAuthFailure, Status: 401}, status: http.StatusBadGateway},
		{name: "upstream transport", err: &types.ERPError{Kind: types.ErrorKindTransport}, status: http.StatusBadGateway},
		{name: "no candidate", err: &types.CandidatesNotFoundError{Candidates: []string{"Room"}}, status: http.StatusNotFound},
		{name: "local seed write", err: errbuilder.New().WithCode(errbuilder.CodeFailedPrecondition).WithMsg("local seed"), status: http.StatusConflict},
		{name: "bad filter", err: errbuilder.New().WithCode(errbuilder.CodeInvalidArgument).WithMsg("invalid filter"), status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &stubBackend{}
			ts := newTestServer(t, backend)
			token := login(t, ts.URL)
			backend.err = tt.err

			resp := doRequest(t, http.MethodGet, ts.URL+"/rooms", token, "")
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.NotEmpty(t, decodeBody(t, resp)["error"])
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	srv, err := New(&stubBackend{}, Config{JWTSecret: testSecret, CORSOrigins: []string{"https://dash.hotel.example"}})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	req, err := http.NewRequestWithContext(t.Context(), http.MethodOptions, ts.URL+"/rooms", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://dash.hotel.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "https://dash.hotel.example", resp.Header.Get("Access-Control-Allow-Origin"))
}
