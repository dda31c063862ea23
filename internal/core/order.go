package core

import (
	"fmt"
	"sort"
)

// SortMode selects how a record listing is ordered.
type SortMode string

const (
	SortDateAsc  SortMode = "date-asc"
	SortDateDesc SortMode = "date-desc"
	SortCostAsc  SortMode = "cost-asc"
	SortCostDesc SortMode = "cost-desc"
)

// ParseSortMode validates a sort mode coming from the outside.
func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(s) {
	case SortDateAsc, SortDateDesc, SortCostAsc, SortCostDesc:
		return SortMode(s), nil
	}
	return "", fmt.Errorf("unknown sort mode %q", s)
}

// Order returns the records sorted by the given mode. The input is never
// mutated; the sort is stable so ties keep their input order.
func Order(records []FuelRecord, mode SortMode) []FuelRecord {
	sorted := make([]FuelRecord, len(records))
	copy(sorted, records)

	sort.SliceStable(sorted, func(i, j int) bool {
		switch mode {
		case SortDateAsc:
			return sorted[i].Timestamp.Before(sorted[j].Timestamp)
		case SortDateDesc:
			return sorted[j].Timestamp.Before(sorted[i].Timestamp)
		case SortCostAsc:
			return sorted[i].TotalCost < sorted[j].TotalCost
		case SortCostDesc:
			return sorted[i].TotalCost > sorted[j].TotalCost
		}
		return false
	})
	return sorted
}
