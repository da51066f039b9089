package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"hotel-erp/internal/ports"
	"hotel-erp/internal/types"
)

// probeDoctype exists on every Frappe deployment.
const probeDoctype = "User"

var localProxyPrefixes = []string{"/erp", "/api"}

// SetupChecker builds a read-only backend health report. It never seeds and
// never returns an error; every failure becomes a report entry.
type SetupChecker struct {
	Resources         ports.ResourcePort
	Connection        ports.ConnectionInfoPort
	RoomCandidates    []string
	BookingCandidates []string
}

func NewSetupChecker(resources ports.ResourcePort, connection ports.ConnectionInfoPort, roomCandidates []string, bookingCandidates []string) SetupChecker {
	return SetupChecker{
		Resources:         resources,
		Connection:        connection,
		RoomCandidates:    roomCandidates,
		BookingCandidates: bookingCandidates,
	}
}

func (c SetupChecker) Check(ctx context.Context) types.SetupReport {
	issues := []string{}
	warnings := []string{}
	details := types.SetupDetails{BaseURL: "(empty)"}
	if c.Connection != nil {
		if base := c.Connection.BaseURL(); base != "" {
			details.BaseURL = base
		}
		details.APIPath = c.Connection.APIPath()
		details.AuthConfigured = c.Connection.AuthConfigured()
	}

	if details.BaseURL == "(empty)" && !hasLocalProxyPrefix(details.APIPath) {
		warnings = append(warnings, "ERP base URL is empty and API path is not a known local proxy path (/erp or /api).")
	}
	if c.Resources == nil {
		issues = append(issues, "ERP resource client is not configured.")
		return types.SetupReport{OK: false, Issues: issues, Warnings: warnings, Details: details}
	}

	authFailed := false
	if _, err := c.Resources.Get(ctx, probeDoctype, nil, []string{"name"}); err != nil {
		switch {
		case types.IsAuthFailure(err):
			authFailed = true
			issues = append(issues, "ERP connection reached, but authentication failed (401/403).")
		case types.IsNotFound(err):
			issues = append(issues, "ERP API path is incorrect (404). Check the ERP base URL and API path.")
		default:
			issues = append(issues, fmt.Sprintf("ERP connection failed (%s).", describeStatus(err)))
		}
	} else {
		details.ConnectionOK = true
	}
	if !details.AuthConfigured && authFailed {
		warnings = append(warnings, "ERP API token is not configured. Set the ERP API key and secret.")
	}

	resolver := NewDoctypeResolver(c.Resources)
	if binding, err := resolver.ResolveReadOnly(ctx, c.RoomCandidates, []string{"name"}); err == nil {
		details.RoomDoctype = binding.Doctype
	} else {
		log.Debug().Err(err).Msg("room doctype not resolved")
		warnings = append(warnings, fmt.Sprintf("No room doctype found (%s).", strings.Join(c.RoomCandidates, "/")))
	}
	if binding, err := resolver.ResolveReadOnly(ctx, c.BookingCandidates, []string{"name"}); err == nil {
		details.BookingDoctype = binding.Doctype
	} else {
		log.Debug().Err(err).Msg("booking doctype not resolved")
		warnings = append(warnings, fmt.Sprintf("No booking doctype found (%s).", strings.Join(c.BookingCandidates, "/")))
	}

	return types.SetupReport{
		OK:       len(issues) == 0,
		Issues:   issues,
		Warnings: warnings,
		Details:  details,
	}
}

func hasLocalProxyPrefix(apiPath string) bool {
	for _, prefix := range localProxyPrefixes {
		if strings.HasPrefix(apiPath, prefix) {
			return true
		}
	}
	return false
}

func describeStatus(err error) string {
	if status := types.StatusOf(err); status != 0 {
		return fmt.Sprintf("%d", status)
	}
	return "network error"
}
