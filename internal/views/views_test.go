package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/gestextintor/internal/model"
	"github.com/erazemk/gestextintor/internal/store"
)

func codes(list []model.Extinguisher) []string {
	out := []string{}
	for _, e := range list {
		out = append(out, e.Code)
	}
	return out
}

func sample() []model.Extinguisher {
	seed := store.SeedExtinguishers()
	return append(seed,
		model.Extinguisher{ID: "4", Code: "EXT-004", Location: "Sala Servidores", Status: model.StatusOperational},
		model.Extinguisher{ID: "5", Code: "EXT-005", Location: "Armazém", Status: model.StatusMaintenance, AssignedEquipment: "Empilhador"},
		model.Extinguisher{ID: "6", Code: "ext-006", Location: "Armazém", Status: model.StatusExpired},
	)
}

func TestDistinctLocations(t *testing.T) {
	got := DistinctLocations(sample())
	assert.Equal(t, []string{"Armazém", "Cozinha Refeitório", "Receção - Piso 0", "Sala Servidores"}, got)
	assert.Empty(t, DistinctLocations(nil))
}

func TestFilterByLocationAndStatus(t *testing.T) {
	seed := store.SeedExtinguishers()

	got := FilterByLocationAndStatus(seed, "Sala Servidores", string(model.StatusExpired))
	require.Len(t, got, 1)
	assert.Equal(t, "EXT-002", got[0].Code)

	tests := []struct {
		name     string
		location string
		status   string
		want     []string
	}{
		{"no filters", All, All, []string{"EXT-001", "EXT-002", "EXT-003", "EXT-004", "EXT-005", "ext-006"}},
		{"location only", "Armazém", All, []string{"EXT-005", "ext-006"}},
		{"status only", All, string(model.StatusOperational), []string{"EXT-001", "EXT-004"}},
		{"both", "Sala Servidores", string(model.StatusOperational), []string{"EXT-004"}},
		{"no match", "Cozinha Refeitório", string(model.StatusExpired), []string{}},
		{"unknown location", "Telhado", All, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, codes(FilterByLocationAndStatus(sample(), tt.location, tt.status)))
		})
	}
}

func TestFilterEmptyLocationIsAValue(t *testing.T) {
	records := append(sample(), model.Extinguisher{ID: "7", Code: "EXT-007", Status: model.StatusOperational})

	assert.Equal(t, []string{"EXT-007"}, codes(FilterByLocationAndStatus(records, "", All)))
	assert.Len(t, FilterByLocationAndStatus(records, All, All), 7)

	// The dashboard still treats a missing filter as all.
	assert.Equal(t, 7, BuildDashboard(records, "", "").Summary.Total)
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	in := sample()
	before := codes(in)
	_ = FilterByLocationAndStatus(in, "Armazém", All)
	assert.Equal(t, before, codes(in))
}

func TestCountByStatus(t *testing.T) {
	counts := CountByStatus(sample())
	assert.Equal(t, map[model.ExtinguisherStatus]int{
		model.StatusOperational:      2,
		model.StatusExpired:          2,
		model.StatusNeedsReplacement: 1,
		model.StatusMaintenance:      1,
	}, counts)
	assert.Empty(t, CountByStatus(nil))
}

func TestCriticalAlerts(t *testing.T) {
	all := CriticalAlerts(sample(), 0)
	assert.Equal(t, []string{"EXT-002", "EXT-003", "EXT-005", "ext-006"}, codes(all))

	limited := CriticalAlerts(sample(), 2)
	assert.Equal(t, []string{"EXT-002", "EXT-003"}, codes(limited))

	none := CriticalAlerts([]model.Extinguisher{{Code: "ok", Status: model.StatusOperational}}, 5)
	assert.Empty(t, none)
}

func TestSearch(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"EXT-001", "EXT-002", "EXT-003", "EXT-004", "EXT-005", "ext-006"}},
		{"ext-00", []string{"EXT-001", "EXT-002", "EXT-003", "EXT-004", "EXT-005", "ext-006"}},
		{"EXT-006", []string{"ext-006"}},
		{"servidores", []string{"EXT-002", "EXT-004"}},
		{"ARMAZÉM", []string{"EXT-005", "ext-006"}},
		{"fritadeira", []string{"EXT-003"}},
		{"empilhador", []string{"EXT-005"}},
		{"nada", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, codes(Search(sample(), tt.query)))
		})
	}
}

func TestChartSlices(t *testing.T) {
	slices := ChartSlices(map[model.ExtinguisherStatus]int{
		model.StatusExpired:     3,
		model.StatusOperational: 1,
	})
	require.Len(t, slices, 2)
	assert.Equal(t, "Operacionais (1)", slices[0].Label)
	assert.Equal(t, "#10B981", slices[0].Color)
	assert.Equal(t, "Fora de Prazo (3)", slices[1].Label)
	assert.Equal(t, 3, slices[1].Value)

	assert.Empty(t, ChartSlices(nil))
}

func TestBuildDashboard(t *testing.T) {
	d := BuildDashboard(sample(), "Armazém", "")
	assert.Equal(t, All, d.Status)
	assert.Len(t, d.Locations, 4, "locations come from the unfiltered list")
	assert.Equal(t, Summary{Total: 2, Expired: 1, Maintenance: 1}, d.Summary)
	assert.Len(t, d.Chart, 2)
	assert.Equal(t, []string{"EXT-005", "ext-006"}, codes(d.Alerts))

	many := make([]model.Extinguisher, 8)
	for i := range many {
		many[i] = model.Extinguisher{ID: string(rune('a' + i)), Status: model.StatusExpired}
	}
	assert.Len(t, BuildDashboard(many, All, All).Alerts, DashboardAlertLimit)
}
