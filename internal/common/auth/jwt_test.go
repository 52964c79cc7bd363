package auth

import (
	"testing"
	"time"

	"github.com/SwiftFleet/SwiftFleet/internal/common/config"
	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAccessToken(t *testing.T) {
	cfg := config.AuthConfig{
		Enabled:   true,
		JWTSecret: "test-secret",
		Issuer:    "swiftfleet",
		Audience:  "swiftfleet",
	}

	token, exp, err := GenerateAccessToken(cfg, "staff-1", []string{"staff"}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}
	if exp.Before(time.Now()) {
		t.Fatalf("expected exp in future")
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || parsed == nil || !parsed.Valid {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Subject != "staff-1" {
		t.Fatalf("subject mismatch: %s", claims.Subject)
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != "staff" {
		t.Fatalf("roles mismatch: %#v", claims.Roles)
	}
	if claims.Issuer != "swiftfleet" {
		t.Fatalf("issuer mismatch: %s", claims.Issuer)
	}
}

func TestGenerateAccessTokenRequiresSecret(t *testing.T) {
	_, _, err := GenerateAccessToken(config.AuthConfig{}, "staff-1", nil, time.Hour)
	if err == nil {
		t.Fatalf("expected error without jwt_secret")
	}
}
