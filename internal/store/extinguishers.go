package store

import (
	"context"
	"fmt"

	"github.com/erazemk/gestextintor/internal/model"
)

// SeedExtinguishers returns the records a store starts with when nothing has
// been persisted yet.
func SeedExtinguishers() []model.Extinguisher {
	return []model.Extinguisher{
		{
			ID:                "1",
			Code:              "EXT-001",
			Type:              model.TypeABCPowder,
			Capacity:          "6kg",
			Location:          "Receção - Piso 0",
			AssignedEquipment: "Quadro Elétrico Geral",
			LastMaintenance:   "2023-10-15",
			ExpiryDate:        "2024-10-15",
			Status:            model.StatusOperational,
		},
		{
			ID:                "2",
			Code:              "EXT-002",
			Type:              model.TypeCO2,
			Capacity:          "2kg",
			Location:          "Sala Servidores",
			AssignedEquipment: "Rack de Servidores Principal",
			LastMaintenance:   "2023-01-20",
			ExpiryDate:        "2024-01-20",
			Status:            model.StatusExpired,
		},
		{
			ID:                "3",
			Code:              "EXT-003",
			Type:              model.TypeWater,
			Capacity:          "9L",
			Location:          "Cozinha Refeitório",
			AssignedEquipment: "Fritadeira Industrial",
			LastMaintenance:   "2023-11-02",
			ExpiryDate:        "2024-11-02",
			Status:            model.StatusNeedsReplacement,
		},
	}
}

// ListExtinguishers returns a snapshot of all records in insertion order.
// The first call against an empty medium persists and returns the seed.
func (s *Store) ListExtinguishers(ctx context.Context) ([]model.Extinguisher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadExtinguishers(ctx)
}

// GetExtinguisher returns the record with the given id, or nil if none exists.
func (s *Store) GetExtinguisher(ctx context.Context, id string) (*model.Extinguisher, error) {
	list, err := s.ListExtinguishers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, nil
}

// SaveExtinguisher replaces the record with the same id in place, or appends
// it when the id is new. The full list is persisted before returning.
func (s *Store) SaveExtinguisher(ctx context.Context, e model.Extinguisher) error {
	// Anything written must read back without tripping corruption checks.
	if e.ID == "" || !e.Type.Valid() || !e.Status.Valid() {
		return fmt.Errorf("%w: id %q, type %q, status %q", ErrInvalidExtinguisher, e.ID, e.Type, e.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.loadExtinguishers(ctx)
	if err != nil {
		return err
	}

	// HasPhoto is owned by SetPhoto, not by the caller.
	replaced := false
	for i := range list {
		if list[i].ID == e.ID {
			e.HasPhoto = list[i].HasPhoto
			list[i] = e
			replaced = true
			break
		}
	}
	if !replaced {
		e.HasPhoto = false
		list = append(list, e)
	}

	return writeList(ctx, s.kv, KeyExtinguishers, list)
}

// DeleteExtinguisher removes the record with the given id and its photo.
// Deleting an unknown id only rewrites the unchanged list.
func (s *Store) DeleteExtinguisher(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.loadExtinguishers(ctx)
	if err != nil {
		return err
	}

	kept := list[:0]
	for _, e := range list {
		if e.ID != id {
			kept = append(kept, e)
		}
	}

	if err := writeList(ctx, s.kv, KeyExtinguishers, kept); err != nil {
		return err
	}
	if err := s.kv.Delete(ctx, photoKey(id)); err != nil {
		return fmt.Errorf("deleting photo: %w", err)
	}
	return nil
}

// loadExtinguishers reads and validates the list, seeding it on first access.
// Callers must hold s.mu.
func (s *Store) loadExtinguishers(ctx context.Context) ([]model.Extinguisher, error) {
	list, found, err := readList[model.Extinguisher](ctx, s.kv, KeyExtinguishers)
	if err != nil {
		return nil, fmt.Errorf("reading extinguishers: %w", err)
	}
	if !found {
		seed := SeedExtinguishers()
		if err := writeList(ctx, s.kv, KeyExtinguishers, seed); err != nil {
			return nil, fmt.Errorf("seeding extinguishers: %w", err)
		}
		return seed, nil
	}

	seen := make(map[string]bool, len(list))
	for i, e := range list {
		if e.ID == "" {
			return nil, fmt.Errorf("%w: extinguisher %d has no id", ErrStorageCorruption, i)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("%w: duplicate extinguisher id %q", ErrStorageCorruption, e.ID)
		}
		seen[e.ID] = true
		if !e.Type.Valid() {
			return nil, fmt.Errorf("%w: extinguisher %q has unknown type %q", ErrStorageCorruption, e.ID, e.Type)
		}
		if !e.Status.Valid() {
			return nil, fmt.Errorf("%w: extinguisher %q has unknown status %q", ErrStorageCorruption, e.ID, e.Status)
		}
	}
	return list, nil
}
