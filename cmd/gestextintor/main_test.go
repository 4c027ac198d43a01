package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/erazemk/gestextintor/internal/config"
)

func TestOpenStoreBackends(t *testing.T) {
	for _, backend := range []string{config.BackendSQLite, config.BackendBolt, config.BackendMemory} {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			cfg := config.Config{Backend: backend, DBPath: filepath.Join(t.TempDir(), "data")}
			s, secret, closeKV, err := openStore(ctx, cfg)
			if err != nil {
				t.Fatalf("openStore: %v", err)
			}
			defer closeKV()

			if secret == "" {
				t.Error("expected a JWT secret")
			}

			users, err := s.ListUsers(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if len(users) != 0 {
				t.Errorf("expected no users on a fresh medium, got %+v", users)
			}

			list, err := s.ListExtinguishers(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if len(list) != 3 {
				t.Errorf("expected seeded list, got %d records", len(list))
			}
		})
	}
}

func TestOpenStoreKeepsSecret(t *testing.T) {
	ctx := context.Background()
	cfg := config.Config{Backend: config.BackendSQLite, DBPath: filepath.Join(t.TempDir(), "data.db")}

	_, first, closeKV, err := openStore(ctx, cfg)
	if err != nil {
		t.Fatalf("openStore: %v", err)
	}
	closeKV()

	_, second, closeKV, err := openStore(ctx, cfg)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	defer closeKV()

	if first != second {
		t.Error("JWT secret changed across restarts")
	}
}
