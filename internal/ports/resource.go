package ports

import (
	"context"

	"hotel-erp/internal/types"
)

// ResourcePort is a generic CRUD client for one remote resource API keyed by
// doctype name.
//
// Failures are reported as *types.ERPError so callers can tell an unknown
// doctype (NotFound) apart from auth and transport problems.
type ResourcePort interface {
	// Get lists records of a doctype. Nil filters and fields are omitted
	// from the request.
	Get(ctx context.Context, doctype string, filters any, fields []string) ([]types.Record, error)
	Create(ctx context.Context, doctype string, record types.Record) (types.Record, error)
	Update(ctx context.Context, doctype string, name string, patch types.Record) (types.Record, error)
	Delete(ctx context.Context, doctype string, name string) (bool, error)
}

// ConnectionInfoPort exposes how the resource client is configured, for
// diagnostics only.
type ConnectionInfoPort interface {
	BaseURL() string
	APIPath() string
	AuthConfigured() bool
}
