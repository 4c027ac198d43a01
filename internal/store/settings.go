package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// JWTSecret retrieves the token signing secret from the medium.
// If no secret exists, it generates one, stores it, and returns it.
func (s *Store) JWTSecret(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	secret, ok, err := s.kv.Get(ctx, KeyJWTSecret)
	if err != nil {
		return "", fmt.Errorf("querying jwt secret: %w", err)
	}
	if ok && secret != "" {
		return secret, nil
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating jwt secret: %w", err)
	}
	secret = hex.EncodeToString(buf)

	if err := s.kv.Set(ctx, KeyJWTSecret, secret); err != nil {
		return "", fmt.Errorf("storing jwt secret: %w", err)
	}
	return secret, nil
}
