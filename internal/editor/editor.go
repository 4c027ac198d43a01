// Package editor prepares and validates a single extinguisher record before
// it is handed to the record store.
package editor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/gestextintor/internal/model"
)

// Default values of a fresh record.
const (
	DefaultType     = model.TypeABCPowder
	DefaultCapacity = "6kg"
	DefaultStatus   = model.StatusOperational
)

// NewExtinguisher returns a fresh record with a new id and the form defaults.
// The last maintenance date defaults to the day of now.
func NewExtinguisher(now time.Time) model.Extinguisher {
	return model.Extinguisher{
		ID:              uuid.New().String(),
		Type:            DefaultType,
		Capacity:        DefaultCapacity,
		LastMaintenance: now.Format(model.DateLayout),
		Status:          DefaultStatus,
	}
}

// ValidationError lists the problems found in a record.
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid "+strings.Join(e.Invalid, ", "))
	}
	return "invalid extinguisher: " + strings.Join(parts, "; ")
}

// Validate checks that every required field is present and that type and
// status belong to their closed sets. Date order and capacity units are not
// checked.
func Validate(e model.Extinguisher) error {
	verr := &ValidationError{}

	required := []struct {
		name  string
		value string
	}{
		{"code", e.Code},
		{"type", string(e.Type)},
		{"capacity", e.Capacity},
		{"location", e.Location},
		{"lastMaintenance", e.LastMaintenance},
		{"expiryDate", e.ExpiryDate},
		{"status", string(e.Status)},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			verr.Missing = append(verr.Missing, f.name)
		}
	}

	if e.Type != "" && !e.Type.Valid() {
		verr.Invalid = append(verr.Invalid, "type")
	}
	if e.Status != "" && !e.Status.Valid() {
		verr.Invalid = append(verr.Invalid, "status")
	}
	if e.ID == "" {
		verr.Missing = append(verr.Missing, "id")
	}

	if len(verr.Missing) > 0 || len(verr.Invalid) > 0 {
		return verr
	}
	return nil
}

// SaveFunc persists a validated record.
type SaveFunc func(ctx context.Context, e model.Extinguisher) error

// Submit validates e and hands it unchanged to save.
func Submit(ctx context.Context, e model.Extinguisher, save SaveFunc) error {
	if err := Validate(e); err != nil {
		return err
	}
	if err := save(ctx, e); err != nil {
		return fmt.Errorf("saving extinguisher: %w", err)
	}
	return nil
}
