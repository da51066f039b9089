package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"hotel-erp/internal/types"
)

func (s Service) GetRecords(ctx context.Context, req GetRecordsRequest) (RecordsResult, error) {
	resolved, err := s.Resolve(ctx, ResolveRequest{Entity: req.Entity, Sticky: req.Sticky, Fields: req.Fields})
	if err != nil {
		return RecordsResult{}, err
	}
	binding := resolved.Binding
	records := binding.Records
	if hasFilters(req.Filters) {
		if binding.IsLocalSeed() {
			conditions, err := equalityConditions(req.Filters)
			if err != nil {
				return RecordsResult{}, err
			}
			records = filterLocalRecords(records, conditions)
		} else {
			records, err = s.Resources.Get(ctx, binding.Doctype, req.Filters, req.Fields)
			if err != nil {
				return RecordsResult{}, err
			}
		}
	}
	return RecordsResult{Entity: resolved.Entity, Doctype: binding.Doctype, Records: records}, nil
}

func (s Service) CreateRecord(ctx context.Context, req WriteRecordRequest) (WriteRecordResult, error) {
	if len(req.Record) == 0 {
		return WriteRecordResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("record fields are required")
	}
	doctype, err := s.writableDoctype(ctx, req.Entity, req.Sticky)
	if err != nil {
		return WriteRecordResult{}, err
	}
	created, err := s.Resources.Create(ctx, doctype, req.Record)
	if err != nil {
		return WriteRecordResult{}, err
	}
	return WriteRecordResult{Doctype: doctype, Record: created}, nil
}

func (s Service) UpdateRecord(ctx context.Context, req WriteRecordRequest) (WriteRecordResult, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return WriteRecordResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("record name is required")
	}
	if len(req.Record) == 0 {
		return WriteRecordResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("at least one field to update is required")
	}
	doctype, err := s.writableDoctype(ctx, req.Entity, req.Sticky)
	if err != nil {
		return WriteRecordResult{}, err
	}
	updated, err := s.Resources.Update(ctx, doctype, name, req.Record)
	if err != nil {
		return WriteRecordResult{}, err
	}
	return WriteRecordResult{Doctype: doctype, Record: updated}, nil
}

func (s Service) DeleteRecord(ctx context.Context, req WriteRecordRequest) (WriteRecordResult, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return WriteRecordResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("record name is required")
	}
	doctype, err := s.writableDoctype(ctx, req.Entity, req.Sticky)
	if err != nil {
		return WriteRecordResult{}, err
	}
	deleted, err := s.Resources.Delete(ctx, doctype, name)
	if err != nil {
		return WriteRecordResult{}, err
	}
	return WriteRecordResult{Doctype: doctype, Deleted: deleted}, nil
}

func hasFilters(filters any) bool {
	switch f := filters.(type) {
	case nil:
		return false
	case map[string]any:
		return len(f) > 0
	case []any:
		return len(f) > 0
	default:
		return true
	}
}

// equalityConditions reads filters as field equalities. List entries are
// [field, op, value] or [doctype, field, op, value]; only "=" is supported.
func equalityConditions(filters any) (map[string]any, error) {
	switch f := filters.(type) {
	case map[string]any:
		return f, nil
	case []any:
		conditions := make(map[string]any, len(f))
		for i, entry := range f {
			parts, ok := entry.([]any)
			if ok && len(parts) == 4 {
				parts = parts[1:]
			}
			if !ok || len(parts) != 3 {
				return nil, invalidFilter(fmt.Sprintf("filter %d must be [field, operator, value]", i))
			}
			field, fieldOK := parts[0].(string)
			op, opOK := parts[1].(string)
			if !fieldOK || strings.TrimSpace(field) == "" || !opOK {
				return nil, invalidFilter(fmt.Sprintf("filter %d has no field name or operator", i))
			}
			if op = strings.TrimSpace(op); op != "=" && op != "==" {
				return nil, invalidFilter(fmt.Sprintf("operator %q is not supported on local seed rows; use =", op))
			}
			conditions[field] = parts[2]
		}
		return conditions, nil
	default:
		return nil, invalidFilter("filters must be an object or a list of conditions")
	}
}

func invalidFilter(msg string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(msg)
}

// filterLocalRecords applies equality filters to seed rows, comparing values
// by their printed form.
func filterLocalRecords(records []types.Record, filters map[string]any) []types.Record {
	kept := make([]types.Record, 0, len(records))
	for _, record := range records {
		matched := true
		for field, want := range filters {
			got, ok := record[field]
			if !ok || fmt.Sprint(got) != fmt.Sprint(want) {
				matched = false
				break
			}
		}
		if matched {
			kept = append(kept, record)
		}
	}
	return kept
}
