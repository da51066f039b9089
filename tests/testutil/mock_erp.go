package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
)

const resourcePrefix = "/api/resource/"

// MockRequest is one call observed by MockERP.
type MockRequest struct {
	Method    string
	Doctype   string
	Name      string
	Auth      string
	RequestID string
	Query     url.Values
}

// MockERP is an in-process Frappe-style REST backend. Doctypes absent from
// its tables answer 404, like an ERP without that doctype installed.
type MockERP struct {
	Server *httptest.Server

	mu         sync.Mutex
	tables     map[string][]map[string]any
	requests   []MockRequest
	token      string
	rejectRows map[string]int
	nextID     int
}

func NewMockERP(t *testing.T, tables map[string][]map[string]any) *MockERP {
	t.Helper()
	m := &MockERP{tables: map[string][]map[string]any{}, rejectRows: map[string]int{}}
	for doctype, rows := range tables {
		m.tables[doctype] = append([]map[string]any{}, rows...)
	}
	m.Server = httptest.NewServer(http.HandlerFunc(m.serve))
	t.Cleanup(m.Server.Close)
	return m
}

func (m *MockERP) URL() string {
	return m.Server.URL
}

// RequireToken makes every request without "token key:secret" fail with 403.
func (m *MockERP) RequireToken(key string, secret string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = fmt.Sprintf("token %s:%s", key, secret)
}

// RejectCreates makes inserts into doctype fail with status.
func (m *MockERP) RejectCreates(doctype string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejectRows[doctype] = status
}

func (m *MockERP) Requests() []MockRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockRequest(nil), m.requests...)
}

// Methods returns "METHOD Doctype" for every observed request, in order.
func (m *MockERP) Methods() []string {
	requests := m.Requests()
	calls := make([]string, 0, len(requests))
	for _, req := range requests {
		calls = append(calls, req.Method+" "+req.Doctype)
	}
	return calls
}

func (m *MockERP) Rows(doctype string) []map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]map[string]any(nil), m.tables[doctype]...)
}

func (m *MockERP) serve(w http.ResponseWriter, r *http.Request) {
	escaped := r.URL.EscapedPath()
	if !strings.HasPrefix(escaped, resourcePrefix) {
		writeMockJSON(w, http.StatusNotFound, map[string]string{"exc_type": "PageNotFound"})
		return
	}
	segments := strings.SplitN(strings.TrimPrefix(escaped, resourcePrefix), "/", 2)
	doctype, _ := url.PathUnescape(segments[0])
	name := ""
	if len(segments) == 2 {
		name, _ = url.PathUnescape(segments[1])
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, MockRequest{
		Method:    r.Method,
		Doctype:   doctype,
		Name:      name,
		Auth:      r.Header.Get("Authorization"),
		RequestID: r.Header.Get("X-Request-ID"),
		Query:     r.URL.Query(),
	})
	if m.token != "" && r.Header.Get("Authorization") != m.token {
		writeMockJSON(w, http.StatusForbidden, map[string]string{"exc_type": "PermissionError"})
		return
	}
	rows, exists := m.tables[doctype]
	if !exists {
		writeMockJSON(w, http.StatusNotFound, map[string]string{"exc_type": "DoesNotExistError"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeMockJSON(w, http.StatusOK, map[string]any{"data": rows})
	case http.MethodPost:
		if status, ok := m.rejectRows[doctype]; ok {
			writeMockJSON(w, status, map[string]string{"exc_type": "ValidationError"})
			return
		}
		var row map[string]any
		if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
			writeMockJSON(w, http.StatusBadRequest, map[string]string{"exc_type": "ValidationError"})
			return
		}
		m.nextID++
		if _, ok := row["name"]; !ok {
			row["name"] = fmt.Sprintf("%s-%04d", strings.ReplaceAll(doctype, " ", "-"), m.nextID)
		}
		m.tables[doctype] = append(rows, row)
		writeMockJSON(w, http.StatusOK, map[string]any{"data": row})
	case http.MethodPut:
		var patch map[string]any
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeMockJSON(w, http.StatusBadRequest, map[string]string{"exc_type": "ValidationError"})
			return
		}
		for _, row := range rows {
			if row["name"] == name {
				for key, value := range patch {
					row[key] = value
				}
				writeMockJSON(w, http.StatusOK, map[string]any{"data": row})
				return
			}
		}
		writeMockJSON(w, http.StatusNotFound, map[string]string{"exc_type": "DoesNotExistError"})
	case http.MethodDelete:
		for i, row := range rows {
			if row["name"] == name {
				m.tables[doctype] = append(rows[:i], rows[i+1:]...)
				writeMockJSON(w, http.StatusAccepted, map[string]string{"message": "ok"})
				return
			}
		}
		writeMockJSON(w, http.StatusNotFound, map[string]string{"exc_type": "DoesNotExistError"})
	default:
		writeMockJSON(w, http.StatusMethodNotAllowed, map[string]string{"exc_type": "MethodNotAllowed"})
	}
}

func writeMockJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
