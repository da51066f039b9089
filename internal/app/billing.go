package app

import (
	"context"

	"hotel-erp/internal/core"
	"hotel-erp/internal/policies"
	"hotel-erp/internal/types"
)

func (s Service) BillingSummary(ctx context.Context) (types.BillingSummary, error) {
	resolved, err := s.Resolve(ctx, ResolveRequest{Entity: policies.EntityInvoice})
	if err != nil {
		return types.BillingSummary{}, err
	}
	return core.SummarizeInvoices(resolved.Binding.Doctype, resolved.Binding.Records), nil
}
