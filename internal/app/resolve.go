package app

import (
	"context"
	"fmt"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"hotel-erp/internal/core"
	"hotel-erp/internal/types"
)

func (s Service) Resolve(ctx context.Context, req ResolveRequest) (ResolveResult, error) {
	entityName := strings.TrimSpace(req.Entity)
	candidates := req.Candidates
	var seed []types.Record
	if entityName != "" {
		entity, err := s.Catalog.Entity(entityName)
		if err != nil {
			return ResolveResult{}, err
		}
		entityName = entity.Name
		if len(candidates) == 0 {
			candidates = entity.Candidates
		}
		seed = entity.Seed
	} else if len(candidates) == 0 {
		return ResolveResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("an entity name or candidate doctypes are required")
	}

	if seedFile := strings.TrimSpace(req.SeedFile); seedFile != "" {
		seeds, err := s.Seeds.LoadSeeds(seedFile)
		if err != nil {
			return ResolveResult{}, err
		}
		if rows, ok := seeds[entityName]; ok {
			seed = rows
		}
	}
	if req.NoSeed {
		seed = nil
	}

	ordered := s.Candidates.Order(req.Sticky, candidates)
	binding, err := core.NewDoctypeResolver(s.Resources).Resolve(ctx, ordered, seed, req.Fields)
	if err != nil {
		return ResolveResult{}, err
	}
	assert.NotEmpty(ctx, binding.Doctype, "resolved binding must name a doctype")
	log.Debug().
		Str("entity", entityName).
		Str("doctype", binding.Doctype).
		Int("records", len(binding.Records)).
		Msg("entity resolved")
	return ResolveResult{Entity: entityName, Binding: binding}, nil
}

// writableDoctype resolves the entity for a write without seeding, so a write
// never inserts seed rows as a side effect. When no candidate doctype exists
// the entity only has local seed rows and the write is refused.
func (s Service) writableDoctype(ctx context.Context, entity string, sticky string) (string, error) {
	resolved, err := s.Resolve(ctx, ResolveRequest{Entity: entity, Sticky: sticky, NoSeed: true, Fields: []string{"name"}})
	if err != nil {
		if attempted, ok := types.AttemptedCandidates(err); ok {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(fmt.Sprintf("no backend doctype exists for %s (tried %s); records are local seed data and cannot be written", entity, strings.Join(attempted, ", "))).
				WithCause(err)
		}
		return "", err
	}
	return resolved.Binding.Doctype, nil
}
