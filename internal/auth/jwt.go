// Package auth issues and checks the signed session tokens that carry an
// authenticated identity between requests.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/erazemk/gestextintor/internal/model"
)

// Claims represents the JWT claims.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Identity returns the identity carried by the claims.
func (c *Claims) Identity() model.Identity {
	return model.Identity{ID: c.UserID, Username: c.Username, Name: c.Name, Role: c.Role}
}

// TokenExpiry bounds how long a session token is accepted. Browser cookies
// holding it are session cookies and usually die sooner.
const TokenExpiry = 12 * time.Hour

// GenerateToken creates a new JWT for id with a unique JTI.
func GenerateToken(secret string, id model.Identity) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   id.ID,
		Username: id.Username,
		Name:     id.Name,
		Role:     id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   id.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func ValidateToken(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
