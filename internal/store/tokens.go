package store

import (
	"context"
	"fmt"
	"time"
)

// revokedToken is one entry of the logout blacklist.
type revokedToken struct {
	JTI       string    `json:"jti"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// RevokeToken adds a token's JTI to the revocation list.
func (s *Store) RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	revoked, _, err := readList[revokedToken](ctx, s.kv, KeyRevokedTokens)
	if err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}

	// Opportunistically clean up expired revocations.
	now := time.Now()
	kept := make([]revokedToken, 0, len(revoked)+1)
	for _, r := range revoked {
		if r.JTI == jti || r.ExpiresAt.Before(now) {
			continue
		}
		kept = append(kept, r)
	}
	kept = append(kept, revokedToken{JTI: jti, ExpiresAt: expiresAt})

	return writeList(ctx, s.kv, KeyRevokedTokens, kept)
}

// IsTokenRevoked checks if a token's JTI has been revoked.
func (s *Store) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	revoked, _, err := readList[revokedToken](ctx, s.kv, KeyRevokedTokens)
	if err != nil {
		return false, fmt.Errorf("checking token revocation: %w", err)
	}
	for _, r := range revoked {
		if r.JTI == jti {
			return true, nil
		}
	}
	return false, nil
}
