package ports

import "hotel-erp/internal/types"

type EntityCatalogPort interface {
	Entity(name string) (types.Entity, error)
	Names() []string
}

type SeedSourcePort interface {
	LoadSeeds(path string) (map[string][]types.Record, error)
}
