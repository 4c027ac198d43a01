package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/erazemk/gestextintor/internal/model"
)

var ana = model.Identity{ID: "u-1", Username: "ana", Name: "Ana Silva", Role: model.RoleTechnician}

func TestGenerateAndValidateToken(t *testing.T) {
	secret := "test-secret-key"

	token, err := GenerateToken(secret, ana)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := ValidateToken(secret, token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}

	if claims.Identity() != ana {
		t.Errorf("expected identity %+v, got %+v", ana, claims.Identity())
	}
	if claims.ID == "" {
		t.Error("expected a token id")
	}
}

func TestTokensHaveDistinctIDs(t *testing.T) {
	a, _ := GenerateToken("s", ana)
	b, _ := GenerateToken("s", ana)
	ca, _ := ValidateToken("s", a)
	cb, _ := ValidateToken("s", b)
	if ca.ID == cb.ID {
		t.Errorf("expected distinct JTIs, both %q", ca.ID)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, _ := GenerateToken("secret1", ana)

	_, err := ValidateToken("secret2", token)
	if err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestValidateTokenInvalid(t *testing.T) {
	_, err := ValidateToken("secret", "not-a-token")
	if err == nil {
		t.Error("expected error for invalid token")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	claims := Claims{
		UserID: ana.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "old",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ValidateToken("s", token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestTokenExpiry(t *testing.T) {
	secret := "test"
	token, _ := GenerateToken(secret, ana)
	claims, _ := ValidateToken(secret, token)

	diff := time.Now().Add(TokenExpiry).Sub(claims.ExpiresAt.Time)
	if diff < -5*time.Second || diff > 5*time.Second {
		t.Errorf("token expiry too far from expected: diff=%v", diff)
	}
}
