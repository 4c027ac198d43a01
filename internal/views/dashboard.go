package views

import (
	"fmt"

	"github.com/erazemk/gestextintor/internal/model"
)

// Summary holds the dashboard's headline counters.
type Summary struct {
	Total            int `json:"total"`
	Operational      int `json:"operational"`
	Expired          int `json:"expired"`
	Maintenance      int `json:"maintenance"`
	NeedsReplacement int `json:"needsReplacement"`
}

// Summarize computes the headline counters of records.
func Summarize(records []model.Extinguisher) Summary {
	counts := CountByStatus(records)
	return Summary{
		Total:            len(records),
		Operational:      counts[model.StatusOperational],
		Expired:          counts[model.StatusExpired],
		Maintenance:      counts[model.StatusMaintenance],
		NeedsReplacement: counts[model.StatusNeedsReplacement],
	}
}

// Slice is one segment of the status proportion chart.
type Slice struct {
	Status model.ExtinguisherStatus `json:"status"`
	Label  string                   `json:"label"`
	Value  int                      `json:"value"`
	Color  string                   `json:"color"`
}

var chartOrder = []struct {
	status model.ExtinguisherStatus
	label  string
	color  string
}{
	{model.StatusOperational, "Operacionais", "#10B981"},
	{model.StatusExpired, "Fora de Prazo", "#EF4444"},
	{model.StatusMaintenance, "Manutenção", "#F59E0B"},
	{model.StatusNeedsReplacement, "Subst. Breve", "#6366F1"},
}

// ChartSlices turns status counts into chart segments. Zero counts are left out.
func ChartSlices(counts map[model.ExtinguisherStatus]int) []Slice {
	var slices []Slice
	for _, c := range chartOrder {
		n := counts[c.status]
		if n == 0 {
			continue
		}
		slices = append(slices, Slice{
			Status: c.status,
			Label:  fmt.Sprintf("%s (%d)", c.label, n),
			Value:  n,
			Color:  c.color,
		})
	}
	return slices
}

// Dashboard is everything the dashboard shows for one pair of filters.
type Dashboard struct {
	Location  string               `json:"location"`
	Status    string               `json:"status"`
	Locations []string             `json:"locations"`
	Summary   Summary              `json:"summary"`
	Chart     []Slice              `json:"chart"`
	Alerts    []model.Extinguisher `json:"alerts"`
}

// DashboardAlertLimit is how many alerts the dashboard lists.
const DashboardAlertLimit = 5

// BuildDashboard filters records and computes every dashboard projection.
// The location list always comes from the unfiltered records.
func BuildDashboard(records []model.Extinguisher, location, status string) Dashboard {
	if location == "" {
		location = All
	}
	if status == "" {
		status = All
	}
	filtered := FilterByLocationAndStatus(records, location, status)
	return Dashboard{
		Location:  location,
		Status:    status,
		Locations: DistinctLocations(records),
		Summary:   Summarize(filtered),
		Chart:     ChartSlices(CountByStatus(filtered)),
		Alerts:    CriticalAlerts(filtered, DashboardAlertLimit),
	}
}
