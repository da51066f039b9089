package policies

import (
	"strings"

	"hotel-erp/internal/types"
)

// CandidatePolicy orders doctype candidates before probing.
type CandidatePolicy struct{}

func NewCandidatePolicy() CandidatePolicy {
	return CandidatePolicy{}
}

// Order moves sticky, the doctype a caller resolved last time, to the front
// so the next probe hits it first. Later copies of sticky are dropped; every
// other candidate keeps its relative order, duplicates included. The
// local-seed marker names no backend doctype and is never used as sticky.
func (p CandidatePolicy) Order(sticky string, candidates []string) []string {
	sticky = strings.TrimSpace(sticky)
	if sticky == types.LocalSeedDoctype {
		sticky = ""
	}
	ordered := make([]string, 0, len(candidates)+1)
	if sticky != "" {
		ordered = append(ordered, sticky)
	}
	for _, candidate := range candidates {
		trimmed := strings.TrimSpace(candidate)
		if trimmed == "" {
			continue
		}
		if sticky != "" && trimmed == sticky {
			continue
		}
		ordered = append(ordered, trimmed)
	}
	return ordered
}
