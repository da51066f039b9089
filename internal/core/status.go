package core

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"hotel-erp/internal/types"
)

type statusRule struct {
	status   types.StatusType
	keywords []string
}

// First match wins: negated occupancy, then guest states, then housekeeping.
// "Occupied - Dirty" is occupied.
var statusRules = []statusRule{
	{status: types.StatusAvailable, keywords: []string{"unoccupied", "not occupied", "vacant", "free"}},
	{status: types.StatusOccupied, keywords: []string{"occupied", "checked in", "checked-in", "check in", "in house", "in-house", "inhouse"}},
	{status: types.StatusReserved, keywords: []string{"reserved", "booked", "confirmed", "upcoming", "on hold"}},
	{status: types.StatusMaintenance, keywords: []string{"maintenance", "out of order", "out-of-order", "repair", "blocked"}},
	{status: types.StatusCleaning, keywords: []string{"cleaning", "dirty", "housekeeping", "clean up"}},
}

// NormalizeStatus maps a free-text ERP status onto the dashboard vocabulary.
// Unrecognised values, including empty ones, read as available.
func NormalizeStatus(raw string) types.StatusType {
	folded := foldText(raw)
	if folded == "" {
		return types.StatusAvailable
	}
	for _, rule := range statusRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(folded, keyword) {
				return rule.status
			}
		}
	}
	return types.StatusAvailable
}

// IsStatusType reports whether value is already one of the dashboard statuses.
func IsStatusType(value string) bool {
	for _, status := range types.StatusTypes {
		if string(status) == value {
			return true
		}
	}
	return false
}

func foldText(raw string) string {
	normalized := norm.NFKC.String(raw)
	folded := cases.Fold().String(normalized)
	return strings.Join(strings.Fields(folded), " ")
}
