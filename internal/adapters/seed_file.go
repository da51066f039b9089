package adapters

import (
	"fmt"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"hotel-erp/internal/ports"
	"hotel-erp/internal/shared"
	"hotel-erp/internal/types"
)

type seedFile struct {
	Seeds map[string][]types.Record `yaml:"seeds"`
}

// SeedFileAdapter loads per-entity seed rows from a YAML file:
//
//	seeds:
//	  room:
//	    - room_number: "101"
//	      status: Available
type SeedFileAdapter struct{}

func NewSeedFileAdapter() SeedFileAdapter {
	return SeedFileAdapter{}
}

func (a SeedFileAdapter) LoadSeeds(path string) (map[string][]types.Record, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("seed file path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("seed file not found").
			WithCause(err)
	}
	var parsed seedFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse seed yaml").
			WithCause(err)
	}
	seeds := make(map[string][]types.Record, len(parsed.Seeds))
	for entity, rows := range parsed.Seeds {
		key := shared.NormalizeKey(entity)
		if key == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("seed file contains an empty entity name")
		}
		for i, row := range rows {
			if len(row) == 0 {
				return nil, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("seed row %d for %s is empty", i, key))
			}
		}
		seeds[key] = append(seeds[key], rows...)
	}
	return seeds, nil
}

var _ ports.SeedSourcePort = SeedFileAdapter{}
