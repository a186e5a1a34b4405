package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"crypto-dash/internal/domain"
)

func testUser() domain.User {
	return domain.User{
		ID:        "u1",
		Email:     "user@example.com",
		Username:  "Test",
		CreatedAt: time.Now().UTC(),
	}
}

func TestJWTService_GenerateParse(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)

	token, err := svc.Generate(testUser())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}

	claims, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "user@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestJWTService_RejectsEmptySecret(t *testing.T) {
	svc := NewJWTService("", time.Hour)
	if _, err := svc.Generate(testUser()); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected ErrJWTInvalid on empty secret, got %v", err)
	}
}

func TestJWTService_RejectsExpired(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	now := time.Now().UTC()
	claims := Claims{
		UserID: "u1",
		Email:  "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "my-crypto",
			Audience:  jwt.ClaimStrings{"crypto-users"},
			Subject:   "u1",
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := svc.Parse(signed); !errors.Is(err, ErrJWTExpired) {
		t.Fatalf("expected ErrJWTExpired, got %v", err)
	}
}

func TestJWTService_AcceptsBeforeExpiry(t *testing.T) {
	svc := NewJWTService("secret", time.Second)
	token, err := svc.Generate(testUser())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := svc.Parse(token); err != nil {
		t.Fatalf("expected token to be valid before expiry, got %v", err)
	}
}

func TestJWTService_RejectsWrongIssuer(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	now := time.Now().UTC()
	claims := Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "other-issuer",
			Audience:  jwt.ClaimStrings{"crypto-users"},
			Subject:   "u1",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.Parse(signed); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected ErrJWTInvalid for wrong issuer, got %v", err)
	}
}

func TestJWTService_RejectsWrongAudience(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	now := time.Now().UTC()
	claims := Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "my-crypto",
			Audience:  jwt.ClaimStrings{"other-audience"},
			Subject:   "u1",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.Parse(signed); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected ErrJWTInvalid for wrong audience, got %v", err)
	}
}

func TestJWTService_RejectsWrongSignature(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	other := NewJWTService("other-secret", time.Hour)

	token, err := other.Generate(testUser())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := svc.Parse(token); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected ErrJWTInvalid for wrong signature, got %v", err)
	}
}
