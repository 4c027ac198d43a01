// Package session implements the login, registration and password recovery
// flow over the user list in the record store.
//
// Passwords are compared and disclosed in clear text. This is a deliberate
// non-production posture kept for compatibility with existing user data.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/erazemk/gestextintor/internal/model"
	"github.com/erazemk/gestextintor/internal/store"
)

// Mode is the screen the gate is on.
type Mode string

const (
	ModeLogin    Mode = "login"
	ModeRegister Mode = "register"
	ModeRecovery Mode = "recovery"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrUserNotFound       = errors.New("user not found")
	ErrMissingFields      = errors.New("missing required fields")
	ErrWrongMode          = errors.New("operation not available in current mode")
)

// Users is the part of the record store the gate needs.
type Users interface {
	FindUser(ctx context.Context, username string) (*model.User, error)
	RegisterUser(ctx context.Context, u model.User) error
}

var _ Users = (*store.Store)(nil)

// RegisterInput is the registration form.
type RegisterInput struct {
	Name            string `json:"name"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Gate is the authentication state machine. It starts in ModeLogin.
type Gate struct {
	users Users

	mu   sync.Mutex
	mode Mode
}

// New creates a gate in login mode.
func New(users Users) *Gate {
	return &Gate{users: users, mode: ModeLogin}
}

// Mode returns the current mode.
func (g *Gate) Mode() Mode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mode
}

// SetMode switches screens. Unknown modes are ignored.
func (g *Gate) SetMode(m Mode) {
	switch m {
	case ModeLogin, ModeRegister, ModeRecovery:
	default:
		return
	}
	g.mu.Lock()
	g.mode = m
	g.mu.Unlock()
}

// Login authenticates username with password and returns the reduced
// identity. The gate stays in login mode either way. Holding the identity for
// the rest of the session is up to the caller.
func (g *Gate) Login(ctx context.Context, username, password string) (*model.Identity, error) {
	if g.Mode() != ModeLogin {
		return nil, ErrWrongMode
	}

	u, err := g.users.FindUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if u == nil || u.Password != password {
		return nil, ErrInvalidCredentials
	}

	id := u.Identity()
	return &id, nil
}

// Register creates a technician account and returns to login mode. On
// failure the gate stays in register mode.
func (g *Gate) Register(ctx context.Context, in RegisterInput) error {
	if g.Mode() != ModeRegister {
		return ErrWrongMode
	}
	if strings.TrimSpace(in.Name) == "" || in.Username == "" || in.Password == "" {
		return ErrMissingFields
	}
	if in.Password != in.ConfirmPassword {
		return ErrPasswordMismatch
	}

	err := g.users.RegisterUser(ctx, model.User{
		ID:       uuid.New().String(),
		Username: in.Username,
		Password: in.Password,
		Name:     in.Name,
		Role:     model.RoleTechnician,
	})
	if err != nil {
		return err
	}

	g.SetMode(ModeLogin)
	return nil
}

// Recover returns the stored password of username and returns to login mode.
// On ErrUserNotFound the gate stays in recovery mode.
func (g *Gate) Recover(ctx context.Context, username string) (string, error) {
	if g.Mode() != ModeRecovery {
		return "", ErrWrongMode
	}

	u, err := g.users.FindUser(ctx, username)
	if err != nil {
		return "", fmt.Errorf("looking up user: %w", err)
	}
	if u == nil {
		return "", ErrUserNotFound
	}

	g.SetMode(ModeLogin)
	return u.Password, nil
}
