package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel-erp/internal/app"
	"hotel-erp/internal/types"
)

type loginRequest struct {
	Username string `json:"username"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
}

type roomStatusRequest struct {
	Status string `json:"status"`
}

type writeResponse struct {
	Doctype string       `json:"doctype"`
	Record  types.Record `json:"record,omitempty"`
	Deleted bool         `json:"deleted,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.cfg.Version})
}

// handleLogin opens a dashboard session. The gate is client-side only; ERP
// calls keep using the configured API token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}
	if err := s.backend.Login(); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	token, err := GenerateToken(s.cfg.JWTSecret, username, s.cfg.Now())
	if err != nil {
		log.Error().Err(err).Msg("token signing failed")
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, Username: username})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.backend.Logout(); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if claims := ClaimsFromContext(r.Context()); claims != nil {
		log.Info().Str("username", claims.Username).Msg("dashboard session closed")
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetupCheck(w http.ResponseWriter, r *http.Request) {
	report, err := s.backend.Check(r.Context(), app.CheckRequest{})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleGetRecords(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := app.GetRecordsRequest{
		Entity: chi.URLParam(r, "entity"),
		Sticky: query.Get("sticky"),
		Fields: splitList(query.Get("fields")),
	}
	if raw := strings.TrimSpace(query.Get("filters")); raw != "" {
		var filters any
		if err := json.Unmarshal([]byte(raw), &filters); err != nil {
			writeError(w, http.StatusBadRequest, "filters must be valid JSON")
			return
		}
		switch filters.(type) {
		case map[string]any, []any:
			req.Filters = filters
		default:
			writeError(w, http.StatusBadRequest, "filters must be a JSON object or list")
			return
		}
	}
	result, err := s.backend.GetRecords(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var record types.Record
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := s.backend.CreateRecord(r.Context(), app.WriteRecordRequest{
		Entity: chi.URLParam(r, "entity"),
		Sticky: r.URL.Query().Get("sticky"),
		Record: record,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, writeResponse{Doctype: result.Doctype, Record: result.Record})
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	var patch types.Record
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := s.backend.UpdateRecord(r.Context(), app.WriteRecordRequest{
		Entity: chi.URLParam(r, "entity"),
		Sticky: r.URL.Query().Get("sticky"),
		Name:   chi.URLParam(r, "name"),
		Record: patch,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, writeResponse{Doctype: result.Doctype, Record: result.Record})
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	result, err := s.backend.DeleteRecord(r.Context(), app.WriteRecordRequest{
		Entity: chi.URLParam(r, "entity"),
		Sticky: r.URL.Query().Get("sticky"),
		Name:   chi.URLParam(r, "name"),
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, writeResponse{Doctype: result.Doctype, Deleted: result.Deleted})
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	result, err := s.backend.ListRooms(r.Context(), app.ListRoomsRequest{
		Where:  query.Get("where"),
		Sticky: query.Get("sticky"),
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSetRoomStatus(w http.ResponseWriter, r *http.Request) {
	var req roomStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := s.backend.SetRoomStatus(r.Context(), app.SetRoomStatusRequest{
		Number: chi.URLParam(r, "number"),
		Status: req.Status,
		Sticky: r.URL.Query().Get("sticky"),
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleBillingSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.backend.BillingSummary(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := httpStatusForError(err)
	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).Str("path", r.URL.Path).Int("status", status).Msg("request failed")
	writeError(w, status, errorMessage(err))
}

// httpStatusForError maps service errors to responses. Upstream auth and
// transport failures are the gateway's problem, not the caller's.
func httpStatusForError(err error) int {
	if types.IsAuthFailure(err) || types.IsTransport(err) {
		return http.StatusBadGateway
	}
	switch types.CodeOf(err) {
	case errbuilder.CodeInvalidArgument:
		return http.StatusBadRequest
	case errbuilder.CodeNotFound:
		return http.StatusNotFound
	case errbuilder.CodeFailedPrecondition, errbuilder.CodeAlreadyExists:
		return http.StatusConflict
	case errbuilder.CodePermissionDenied:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func errorMessage(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}
	return err.Error()
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("response encoding failed")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
