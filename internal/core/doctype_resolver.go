package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"hotel-erp/internal/ports"
	"hotel-erp/internal/types"
)

var defaultResolveFields = []string{"*"}

// DoctypeResolver finds which of several candidate doctype names the backend
// actually serves for one logical entity. It keeps no state between calls.
type DoctypeResolver struct {
	Resources ports.ResourcePort
}

func NewDoctypeResolver(resources ports.ResourcePort) DoctypeResolver {
	return DoctypeResolver{Resources: resources}
}

// Resolve probes candidates in order and binds to the first one that exists.
//
// A NotFound probe moves on to the next candidate; any other failure aborts
// the whole resolution. An existing but empty doctype is seeded best-effort
// and stays bound even if every seed insert fails. When no candidate exists
// the seed rows are returned under types.LocalSeedDoctype, or a
// CandidatesNotFoundError when there is no seed.
func (r DoctypeResolver) Resolve(ctx context.Context, candidates []string, seed []types.Record, fields []string) (types.ResolvedBinding, error) {
	if r.Resources == nil {
		return types.ResolvedBinding{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("resolver requires a resource port")
	}
	if err := validateCandidates(candidates); err != nil {
		return types.ResolvedBinding{}, err
	}
	if fields == nil {
		fields = defaultResolveFields
	}

	for _, candidate := range candidates {
		existing, err := r.Resources.Get(ctx, candidate, nil, fields)
		if err != nil {
			if types.IsNotFound(err) {
				log.Debug().Str("doctype", candidate).Msg("candidate doctype not found")
				continue
			}
			return types.ResolvedBinding{}, err
		}
		if len(existing) > 0 || len(seed) == 0 {
			return types.ResolvedBinding{Doctype: candidate, Records: existing}, nil
		}
		return r.seedDoctype(ctx, candidate, seed, fields)
	}

	if len(seed) > 0 {
		log.Warn().
			Strs("candidates", candidates).
			Int("seed_rows", len(seed)).
			Msg("no candidate doctype exists, serving local seed rows")
		return types.ResolvedBinding{Doctype: types.LocalSeedDoctype, Records: seed}, nil
	}
	notFound := &types.CandidatesNotFoundError{Candidates: append([]string(nil), candidates...)}
	return types.ResolvedBinding{}, notFound
}

// ResolveReadOnly resolves without seeding; it never writes to the backend.
func (r DoctypeResolver) ResolveReadOnly(ctx context.Context, candidates []string, fields []string) (types.ResolvedBinding, error) {
	return r.Resolve(ctx, candidates, nil, fields)
}

// seedDoctype inserts every seed row independently. Created rows are
// returned as-is; rows written concurrently by others are not re-read.
func (r DoctypeResolver) seedDoctype(ctx context.Context, doctype string, seed []types.Record, fields []string) (types.ResolvedBinding, error) {
	created := make([]types.Record, 0, len(seed))
	for i, row := range seed {
		record, err := r.Resources.Create(ctx, doctype, row)
		if err != nil {
			log.Warn().
				Err(err).
				Str("doctype", doctype).
				Int("seed_index", i).
				Bool("validation", types.IsValidation(err)).
				Msg("seed row rejected")
			continue
		}
		created = append(created, record)
	}
	if len(created) > 0 {
		log.Info().
			Str("doctype", doctype).
			Int("created", len(created)).
			Int("seed_rows", len(seed)).
			Msg("seeded empty doctype")
		return types.ResolvedBinding{Doctype: doctype, Records: created}, nil
	}

	refreshed, err := r.Resources.Get(ctx, doctype, nil, fields)
	if err != nil {
		return types.ResolvedBinding{}, err
	}
	return types.ResolvedBinding{Doctype: doctype, Records: refreshed}, nil
}

func validateCandidates(candidates []string) error {
	if len(candidates) == 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("at least one candidate doctype is required")
	}
	for i, candidate := range candidates {
		if strings.TrimSpace(candidate) == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("candidate doctype %d is empty", i))
		}
	}
	return nil
}
