package app

import (
	"strings"

	"hotel-erp/internal/adapters"
	"hotel-erp/internal/policies"
	"hotel-erp/internal/ports"
	"hotel-erp/internal/types"
)

type Config struct {
	ERP adapters.ERPConfig
	// StateFile persists session and room state; empty keeps it in memory.
	StateFile string
	// SeedFile replaces the built-in seed rows of the entities it names.
	SeedFile string
}

type Service struct {
	Resources  ports.ResourcePort
	Connection ports.ConnectionInfoPort
	Catalog    ports.EntityCatalogPort
	Seeds      ports.SeedSourcePort
	State      ports.KeyValuePort
	Reports    ports.ReportWriterPort
	Candidates policies.CandidatePolicy
}

func NewService(cfg Config) (Service, error) {
	seeds := adapters.NewSeedFileAdapter()
	var overrides map[string][]types.Record
	if strings.TrimSpace(cfg.SeedFile) != "" {
		loaded, err := seeds.LoadSeeds(cfg.SeedFile)
		if err != nil {
			return Service{}, err
		}
		overrides = loaded
	}
	catalog, err := policies.NewEntityCatalog(overrides)
	if err != nil {
		return Service{}, err
	}
	erp := adapters.NewERPResourceAdapter(cfg.ERP)
	return Service{
		Resources:  erp,
		Connection: erp,
		Catalog:    catalog,
		Seeds:      seeds,
		State:      newStateStore(cfg.StateFile),
		Reports:    adapters.NewReportFileAdapter(),
		Candidates: policies.NewCandidatePolicy(),
	}, nil
}

func newStateStore(path string) ports.KeyValuePort {
	if strings.TrimSpace(path) == "" {
		return adapters.NewMemoryKVAdapter()
	}
	return adapters.NewFileKVAdapter(path)
}
