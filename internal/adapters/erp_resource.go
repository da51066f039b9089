package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hotel-erp/internal/ports"
	"hotel-erp/internal/shared"
	"hotel-erp/internal/types"
)

const defaultERPAPIPath = "/api"
const defaultERPTimeout = 15 * time.Second
const maxERPErrorBody = 512

type ERPConfig struct {
	BaseURL   string
	APIPath   string
	TimeoutMs int
	APIKey    string
	APISecret string

	// Client overrides the HTTP client; its Timeout is left untouched.
	Client *http.Client
}

// ERPResourceAdapter talks to a Frappe-style /resource/<doctype> API.
type ERPResourceAdapter struct {
	baseURL   string
	apiPath   string
	apiKey    string
	apiSecret string
	client    *http.Client
}

type erpEnvelope struct {
	Data json.RawMessage `json:"data"`
}

func NewERPResourceAdapter(cfg ERPConfig) ERPResourceAdapter {
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: normalizeERPTimeout(cfg.TimeoutMs)}
	}
	return ERPResourceAdapter{
		baseURL:   strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiPath:   normalizeERPAPIPath(cfg.APIPath),
		apiKey:    strings.TrimSpace(cfg.APIKey),
		apiSecret: strings.TrimSpace(cfg.APISecret),
		client:    client,
	}
}

func (a ERPResourceAdapter) BaseURL() string {
	return a.baseURL
}

func (a ERPResourceAdapter) APIPath() string {
	return a.apiPath
}

func (a ERPResourceAdapter) AuthConfigured() bool {
	return a.apiKey != "" && a.apiSecret != ""
}

func (a ERPResourceAdapter) Get(ctx context.Context, doctype string, filters any, fields []string) ([]types.Record, error) {
	const op = "fetch resource"
	query := url.Values{}
	if filters != nil {
		encoded, err := json.Marshal(filters)
		if err != nil {
			return nil, a.fail(op, &types.ERPError{
				Kind:    types.ErrorKindTransport,
				Op:      op,
				Doctype: doctype,
				Cause:   fmt.Errorf("encode filters: %w", err),
			})
		}
		query.Set("filters", string(encoded))
	}
	if fields != nil {
		encoded, err := json.Marshal(fields)
		if err != nil {
			return nil, a.fail(op, &types.ERPError{
				Kind:    types.ErrorKindTransport,
				Op:      op,
				Doctype: doctype,
				Cause:   fmt.Errorf("encode fields: %w", err),
			})
		}
		query.Set("fields", string(encoded))
	}
	data, err := a.do(ctx, op, http.MethodGet, doctype, "", query, nil)
	if err != nil {
		return nil, err
	}
	records := []types.Record{}
	if len(data) == 0 || string(data) == "null" {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, a.fail(op, &types.ERPError{
			Kind:    types.ErrorKindTransport,
			Op:      op,
			Doctype: doctype,
			Cause:   fmt.Errorf("decode record list: %w", err),
		})
	}
	return records, nil
}

func (a ERPResourceAdapter) Create(ctx context.Context, doctype string, record types.Record) (types.Record, error) {
	return a.write(ctx, "create resource", http.MethodPost, doctype, "", record)
}

func (a ERPResourceAdapter) Update(ctx context.Context, doctype string, name string, patch types.Record) (types.Record, error) {
	return a.write(ctx, "update resource", http.MethodPut, doctype, name, patch)
}

func (a ERPResourceAdapter) Delete(ctx context.Context, doctype string, name string) (bool, error) {
	if _, err := a.do(ctx, "delete resource", http.MethodDelete, doctype, name, nil, nil); err != nil {
		return false, err
	}
	return true, nil
}

func (a ERPResourceAdapter) write(ctx context.Context, op string, method string, doctype string, name string, payload types.Record) (types.Record, error) {
	if payload == nil {
		payload = types.Record{}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, a.fail(op, &types.ERPError{
			Kind:    types.ErrorKindValidation,
			Op:      op,
			Doctype: doctype,
			Cause:   fmt.Errorf("encode record: %w", err),
		})
	}
	data, err := a.do(ctx, op, method, doctype, name, nil, body)
	if err != nil {
		return nil, err
	}
	record := types.Record{}
	if len(data) == 0 || string(data) == "null" {
		return record, nil
	}
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, a.fail(op, &types.ERPError{
			Kind:    types.ErrorKindTransport,
			Op:      op,
			Doctype: doctype,
			Cause:   fmt.Errorf("decode record: %w", err),
		})
	}
	return record, nil
}

func (a ERPResourceAdapter) do(ctx context.Context, op string, method string, doctype string, name string, query url.Values, body []byte) (json.RawMessage, error) {
	requestID := uuid.NewString()
	target := a.resourceURL(doctype, name)
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, a.fail(op, &types.ERPError{
			Kind:      types.ErrorKindTransport,
			Op:        op,
			Doctype:   doctype,
			RequestID: requestID,
			Cause:     err,
		})
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	a.applyTokenAuth(req)

	log.Debug().
		Str("op", op).
		Str("method", method).
		Str("doctype", doctype).
		Str("request_id", requestID).
		Msg("erp request")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, a.fail(op, &types.ERPError{
			Kind:      types.ErrorKindTransport,
			Op:        op,
			Doctype:   doctype,
			RequestID: requestID,
			Cause:     err,
		})
	}
	defer resp.Body.Close()
	payload, readErr := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, a.fail(op, &types.ERPError{
			Kind:      classifyERPStatus(method, resp.StatusCode),
			Op:        op,
			Doctype:   doctype,
			Status:    resp.StatusCode,
			RequestID: requestID,
			Cause:     shared.HTTPStatusErrorWithBody(resp.StatusCode, target, shared.TruncateBody(payload, maxERPErrorBody)),
		})
	}
	if readErr != nil {
		return nil, a.fail(op, &types.ERPError{
			Kind:      types.ErrorKindTransport,
			Op:        op,
			Doctype:   doctype,
			Status:    resp.StatusCode,
			RequestID: requestID,
			Cause:     readErr,
		})
	}
	if method == http.MethodDelete || len(bytes.TrimSpace(payload)) == 0 {
		return nil, nil
	}
	var envelope erpEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, a.fail(op, &types.ERPError{
			Kind:      types.ErrorKindTransport,
			Op:        op,
			Doctype:   doctype,
			Status:    resp.StatusCode,
			RequestID: requestID,
			Cause:     fmt.Errorf("decode response envelope: %w", err),
		})
	}
	return envelope.Data, nil
}

// fail logs the error with its operation context and hands it back unchanged.
func (a ERPResourceAdapter) fail(op string, err *types.ERPError) error {
	event := log.Error()
	if err.Kind == types.ErrorKindNotFound {
		event = log.Warn()
	}
	event.
		Str("op", op).
		Str("doctype", err.Doctype).
		Str("kind", string(err.Kind)).
		Int("status", err.Status).
		Str("request_id", err.RequestID).
		Err(err.Cause).
		Msgf("[ERP] %s failed", op)
	return err
}

func (a ERPResourceAdapter) resourceURL(doctype string, name string) string {
	var builder strings.Builder
	builder.WriteString(a.baseURL)
	builder.WriteString(a.apiPath)
	builder.WriteString("/resource/")
	builder.WriteString(url.PathEscape(doctype))
	if name != "" {
		builder.WriteString("/")
		builder.WriteString(url.PathEscape(name))
	}
	return builder.String()
}

func (a ERPResourceAdapter) applyTokenAuth(req *http.Request) {
	if !a.AuthConfigured() {
		return
	}
	req.Header.Set("Authorization", fmt.Sprintf("token %s:%s", a.apiKey, a.apiSecret))
}

func classifyERPStatus(method string, status int) types.ErrorKind {
	switch {
	case status == http.StatusNotFound:
		return types.ErrorKindNotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return types.ErrorKindAuthFailure
	case method != http.MethodGet && isValidationStatus(status):
		return types.ErrorKindValidation
	default:
		return types.ErrorKindTransport
	}
}

func isValidationStatus(status int) bool {
	switch status {
	case http.StatusBadRequest, http.StatusConflict, http.StatusExpectationFailed, http.StatusUnprocessableEntity:
		return true
	}
	return false
}

func normalizeERPAPIPath(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return defaultERPAPIPath
	}
	trimmed = strings.TrimRight(trimmed, "/")
	if trimmed == "" {
		return ""
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	return trimmed
}

func normalizeERPTimeout(value int) time.Duration {
	timeout := time.Duration(value) * time.Millisecond
	if timeout <= 0 {
		return defaultERPTimeout
	}
	return timeout
}

var _ ports.ResourcePort = ERPResourceAdapter{}
var _ ports.ConnectionInfoPort = ERPResourceAdapter{}
