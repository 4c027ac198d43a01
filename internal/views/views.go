// Package views computes read-only projections of an extinguisher snapshot:
// filters, counters, chart slices and alerts. Nothing here mutates its input.
package views

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/erazemk/gestextintor/internal/model"
)

// All is the filter value that disables a location or status filter.
const All = "all"

// DistinctLocations returns every distinct location, sorted.
func DistinctLocations(records []model.Extinguisher) []string {
	seen := make(map[string]bool)
	var locations []string
	for _, e := range records {
		if !seen[e.Location] {
			seen[e.Location] = true
			locations = append(locations, e.Location)
		}
	}
	sort.Strings(locations)
	return locations
}

// FilterByLocationAndStatus returns the records matching both filters. A
// filter equal to All matches everything. Any other value, the empty string
// included, must match exactly.
func FilterByLocationAndStatus(records []model.Extinguisher, location, status string) []model.Extinguisher {
	out := make([]model.Extinguisher, 0, len(records))
	for _, e := range records {
		if location != All && e.Location != location {
			continue
		}
		if status != All && string(e.Status) != status {
			continue
		}
		out = append(out, e)
	}
	return out
}

// CountByStatus counts records per status. Statuses with no records are absent.
func CountByStatus(records []model.Extinguisher) map[model.ExtinguisherStatus]int {
	counts := make(map[model.ExtinguisherStatus]int)
	for _, e := range records {
		counts[e.Status]++
	}
	return counts
}

// CriticalAlerts returns the records that are not operational, in list order,
// truncated to limit. A limit of zero or less returns all of them.
func CriticalAlerts(records []model.Extinguisher, limit int) []model.Extinguisher {
	var out []model.Extinguisher
	for _, e := range records {
		if e.Status == model.StatusOperational {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Search returns the records whose code, location or assigned equipment
// contains query, ignoring case. An empty query returns all records.
func Search(records []model.Extinguisher, query string) []model.Extinguisher {
	if query == "" {
		return append([]model.Extinguisher(nil), records...)
	}

	fold := cases.Fold()
	needle := fold.String(query)
	contains := func(s string) bool {
		return s != "" && strings.Contains(fold.String(s), needle)
	}

	var out []model.Extinguisher
	for _, e := range records {
		if contains(e.Code) || contains(e.Location) || contains(e.AssignedEquipment) {
			out = append(out, e)
		}
	}
	return out
}
