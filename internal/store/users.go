package store

import (
	"context"
	"fmt"

	"github.com/erazemk/gestextintor/internal/model"
)

// ListUsers returns all registered users, passwords included. Users are never
// seeded, so an empty medium yields an empty list.
func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadUsers(ctx)
}

// RegisterUser appends a new user and persists the list. It fails with
// ErrDuplicateUsername if the username is already taken.
func (s *Store) RegisterUser(ctx context.Context, u model.User) error {
	if u.ID == "" || u.Username == "" || !model.ValidRole(u.Role) {
		return fmt.Errorf("registering user: id, username and a known role are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return err
	}
	for _, existing := range users {
		if existing.Username == u.Username {
			return fmt.Errorf("registering %q: %w", u.Username, ErrDuplicateUsername)
		}
	}

	users = append(users, u)
	return writeList(ctx, s.kv, KeyUsers, users)
}

// FindUser returns the first user whose username matches exactly, or nil.
func (s *Store) FindUser(ctx context.Context, username string) (*model.User, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Username == username {
			return &users[i], nil
		}
	}
	return nil, nil
}

// loadUsers reads and validates the user list. Callers must hold s.mu.
func (s *Store) loadUsers(ctx context.Context) ([]model.User, error) {
	users, _, err := readList[model.User](ctx, s.kv, KeyUsers)
	if err != nil {
		return nil, fmt.Errorf("reading users: %w", err)
	}
	if users == nil {
		return []model.User{}, nil
	}

	seen := make(map[string]bool, len(users))
	for i, u := range users {
		if u.Username == "" {
			return nil, fmt.Errorf("%w: user %d has no username", ErrStorageCorruption, i)
		}
		if seen[u.Username] {
			return nil, fmt.Errorf("%w: duplicate username %q", ErrStorageCorruption, u.Username)
		}
		seen[u.Username] = true
		if !model.ValidRole(u.Role) {
			return nil, fmt.Errorf("%w: user %q has unknown role %q", ErrStorageCorruption, u.Username, u.Role)
		}
	}
	return users, nil
}
