package store

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/erazemk/gestextintor/internal/db"
	"github.com/erazemk/gestextintor/internal/model"
)

func codes(list []model.Extinguisher) []string {
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.Code
	}
	return out
}

func TestListExtinguishersSeedsOnFirstRead(t *testing.T) {
	kv := db.NewTestKV(t)
	s := New(kv)
	ctx := context.Background()

	list, err := s.ListExtinguishers(ctx)
	if err != nil {
		t.Fatalf("ListExtinguishers: %v", err)
	}
	want := []string{"EXT-001", "EXT-002", "EXT-003"}
	if got := codes(list); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected codes %v, got %v", want, got)
	}

	raw, ok, err := kv.Get(ctx, KeyExtinguishers)
	if err != nil {
		t.Fatal(err)
	}
	if !ok || raw == "" {
		t.Fatal("expected seed to be persisted")
	}
	expected, _ := json.Marshal(SeedExtinguishers())
	if raw != string(expected) {
		t.Errorf("persisted blob differs from seed:\n got %s\nwant %s", raw, expected)
	}
}

func TestEmptyBlobIsTreatedAsAbsent(t *testing.T) {
	kv := db.NewMemoryKV()
	ctx := context.Background()
	kv.Set(ctx, KeyExtinguishers, "")

	list, err := New(kv).ListExtinguishers(ctx)
	if err != nil {
		t.Fatalf("ListExtinguishers: %v", err)
	}
	if len(list) != 3 {
		t.Errorf("expected seed of 3, got %d", len(list))
	}
}

func TestSaveExtinguisherUpsert(t *testing.T) {
	s := New(db.NewTestKV(t))
	ctx := context.Background()

	list, _ := s.ListExtinguishers(ctx)
	edited := list[1]
	edited.Status = model.StatusOperational
	edited.Notes = "recarregado"
	if err := s.SaveExtinguisher(ctx, edited); err != nil {
		t.Fatalf("SaveExtinguisher: %v", err)
	}

	added := model.Extinguisher{
		ID: "new-1", Code: "EXT-004", Type: model.TypeFoam, Capacity: "6L",
		Location: "Armazém", LastMaintenance: "2024-01-01", ExpiryDate: "2025-01-01",
		Status: model.StatusMaintenance,
	}
	if err := s.SaveExtinguisher(ctx, added); err != nil {
		t.Fatalf("SaveExtinguisher: %v", err)
	}

	got, _ := s.ListExtinguishers(ctx)
	want := []model.Extinguisher{list[0], edited, list[2], added}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected list after upserts:\n got %+v\nwant %+v", got, want)
	}
}

func TestSaveExtinguisherIdempotent(t *testing.T) {
	s := New(db.NewTestKV(t))
	ctx := context.Background()

	list, _ := s.ListExtinguishers(ctx)
	rec := list[0]
	rec.Capacity = "9kg"

	s.SaveExtinguisher(ctx, rec)
	once, _ := s.ListExtinguishers(ctx)
	s.SaveExtinguisher(ctx, rec)
	twice, _ := s.ListExtinguishers(ctx)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("saving twice changed the list:\n once %+v\ntwice %+v", once, twice)
	}
	if len(twice) != 3 {
		t.Errorf("expected 3 records, got %d", len(twice))
	}
}

func TestSaveExtinguisherRejectsInvalid(t *testing.T) {
	s := New(db.NewTestKV(t))
	ctx := context.Background()

	tests := []model.Extinguisher{
		{Code: "no-id", Type: model.TypeFoam, Status: model.StatusOperational},
		{ID: "x", Type: "Halon", Status: model.StatusOperational},
		{ID: "x", Type: model.TypeFoam, Status: "Perdido"},
	}
	for _, e := range tests {
		if err := s.SaveExtinguisher(ctx, e); !errors.Is(err, ErrInvalidExtinguisher) {
			t.Errorf("SaveExtinguisher(%+v) error = %v, want ErrInvalidExtinguisher", e, err)
		}
	}
}

func TestDeleteExtinguisher(t *testing.T) {
	s := New(db.NewTestKV(t))
	ctx := context.Background()

	if err := s.DeleteExtinguisher(ctx, "2"); err != nil {
		t.Fatalf("DeleteExtinguisher: %v", err)
	}
	list, _ := s.ListExtinguishers(ctx)
	if got, want := codes(list), []string{"EXT-001", "EXT-003"}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	// Unknown ids are ignored.
	if err := s.DeleteExtinguisher(ctx, "does-not-exist"); err != nil {
		t.Fatalf("DeleteExtinguisher unknown id: %v", err)
	}
	list, _ = s.ListExtinguishers(ctx)
	if len(list) != 2 {
		t.Errorf("expected 2 records, got %d", len(list))
	}
}

func TestSaveDeleteSequenceMatchesModel(t *testing.T) {
	s := New(db.NewMemoryKV())
	ctx := context.Background()

	mk := func(id, code string) model.Extinguisher {
		return model.Extinguisher{
			ID: id, Code: code, Type: model.TypeCO2, Capacity: "5kg", Location: "L",
			LastMaintenance: "2024-01-01", ExpiryDate: "2025-01-01", Status: model.StatusOperational,
		}
	}

	type op struct {
		save   *model.Extinguisher
		delete string
	}
	a, b, a2 := mk("a", "A"), mk("b", "B"), mk("a", "A2")
	ops := []op{
		{save: &a}, {delete: "1"}, {save: &b}, {save: &a2}, {delete: "3"}, {delete: "zzz"}, {save: &a2},
	}

	expected := SeedExtinguishers()
	for _, o := range ops {
		if o.save != nil {
			if err := s.SaveExtinguisher(ctx, *o.save); err != nil {
				t.Fatal(err)
			}
			found := false
			for i := range expected {
				if expected[i].ID == o.save.ID {
					expected[i] = *o.save
					found = true
				}
			}
			if !found {
				expected = append(expected, *o.save)
			}
			continue
		}
		if err := s.DeleteExtinguisher(ctx, o.delete); err != nil {
			t.Fatal(err)
		}
		var kept []model.Extinguisher
		for _, e := range expected {
			if e.ID != o.delete {
				kept = append(kept, e)
			}
		}
		expected = kept
	}

	got, _ := s.ListExtinguishers(ctx)
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("store diverged from upsert/remove model:\n got %+v\nwant %+v", got, expected)
	}
}

func TestSnapshotsAreCopies(t *testing.T) {
	s := New(db.NewMemoryKV())
	ctx := context.Background()

	list, _ := s.ListExtinguishers(ctx)
	list[0].Code = "MUTATED"

	again, _ := s.ListExtinguishers(ctx)
	if again[0].Code != "EXT-001" {
		t.Errorf("mutating a snapshot leaked into the store: %q", again[0].Code)
	}
}

func TestGetExtinguisher(t *testing.T) {
	s := New(db.NewMemoryKV())
	ctx := context.Background()

	e, err := s.GetExtinguisher(ctx, "3")
	if err != nil {
		t.Fatal(err)
	}
	if e == nil || e.Code != "EXT-003" {
		t.Fatalf("expected EXT-003, got %+v", e)
	}

	missing, err := s.GetExtinguisher(ctx, "nope")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Error("expected nil for missing extinguisher")
	}
}

func TestCorruptExtinguisherBlob(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"not json", "{{{"},
		{"object instead of array", `{"id":"1"}`},
		{"null", "null"},
		{"unknown field", `[{"id":"1","code":"X","type":"Espuma","status":"Operacional","colour":"red"}]`},
		{"missing id", `[{"code":"X","type":"Espuma","status":"Operacional"}]`},
		{"bad type", `[{"id":"1","type":"Halon","status":"Operacional"}]`},
		{"bad status", `[{"id":"1","type":"Espuma","status":"Perdido"}]`},
		{"duplicate id", `[{"id":"1","type":"Espuma","status":"Operacional"},{"id":"1","type":"Espuma","status":"Operacional"}]`},
		{"wrong field type", `[{"id":1,"type":"Espuma","status":"Operacional"}]`},
		{"trailing data", `[] []`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := db.NewMemoryKV()
			ctx := context.Background()
			kv.Set(ctx, KeyExtinguishers, tt.blob)
			s := New(kv)

			if _, err := s.ListExtinguishers(ctx); !errors.Is(err, ErrStorageCorruption) {
				t.Fatalf("expected ErrStorageCorruption, got %v", err)
			}

			// A failed read must not overwrite the blob.
			rec := SeedExtinguishers()[0]
			if err := s.SaveExtinguisher(ctx, rec); !errors.Is(err, ErrStorageCorruption) {
				t.Fatalf("expected save to fail with ErrStorageCorruption, got %v", err)
			}
			raw, _, _ := kv.Get(ctx, KeyExtinguishers)
			if raw != tt.blob {
				t.Errorf("corrupt blob was overwritten: %q", raw)
			}
		})
	}
}

func TestLegacyBlobIsReadable(t *testing.T) {
	// Shape written by the browser version of the app.
	blob := `[{"id":"k3j9x0a1b","code":"EXT-010","type":"Espuma","capacity":"9L","location":"Garagem","assignedEquipment":"","lastMaintenance":"2024-05-01","expiryDate":"2025-05-01","status":"Em Manutenção","notes":"verificar selo"}]`
	kv := db.NewMemoryKV()
	ctx := context.Background()
	kv.Set(ctx, KeyExtinguishers, blob)

	list, err := New(kv).ListExtinguishers(ctx)
	if err != nil {
		t.Fatalf("ListExtinguishers: %v", err)
	}
	if len(list) != 1 || list[0].Status != model.StatusMaintenance || list[0].Notes != "verificar selo" {
		t.Errorf("unexpected decode: %+v", list)
	}
}
