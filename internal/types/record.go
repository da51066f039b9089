package types

// LocalSeedDoctype marks a binding served from in-process seed rows because
// no candidate doctype exists on the backend.
const LocalSeedDoctype = "local-seed"

// Record is a schema-agnostic ERP document. Field names vary per deployment.
type Record map[string]any

// ResolvedBinding pairs the doctype the backend accepted with the records
// fetched or created under it.
type ResolvedBinding struct {
	Doctype string
	Records []Record
}

// IsLocalSeed reports whether the binding is the degraded local fallback.
// Callers must not write back through a local-seed binding.
func (b ResolvedBinding) IsLocalSeed() bool {
	return b.Doctype == LocalSeedDoctype
}

type Entity struct {
	Name       string   `yaml:"name"`
	Candidates []string `yaml:"candidates"`
	Seed       []Record `yaml:"seed"`
}
