package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/swifthaul/swifthaul-backend/pkg/config"
	"github.com/swifthaul/swifthaul-backend/pkg/enums"
)

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "swifthaul",
		ExpirationMinutes: 30,
	}
	now := time.Now().UTC()
	driverID := uuid.New()
	verified := true

	payload := AccessTokenPayload{
		PrincipalID: driverID,
		Role:        enums.PrincipalRoleDriver,
		Verified:    &verified,
	}

	token, err := MintAccessToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.PrincipalID != driverID {
		t.Fatalf("expected principal_id %s, got %s", driverID, claims.PrincipalID)
	}
	if claims.Role != enums.PrincipalRoleDriver {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.Verified == nil || !*claims.Verified {
		t.Fatalf("verified flag not preserved")
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %q, got %q", cfg.Issuer, claims.Issuer)
	}
	if claims.ID == "" {
		t.Fatalf("expected generated jti")
	}
}

func TestMintAccessTokenValidation(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "swifthaul", ExpirationMinutes: 30}
	now := time.Now().UTC()

	if _, err := MintAccessToken(cfg, now, AccessTokenPayload{Role: enums.PrincipalRoleUser}); err == nil {
		t.Fatalf("expected error for missing principal id")
	}
	if _, err := MintAccessToken(cfg, now, AccessTokenPayload{PrincipalID: uuid.New(), Role: enums.PrincipalRole("ghost")}); err == nil {
		t.Fatalf("expected error for invalid role")
	}

	missingSecret := cfg
	missingSecret.Secret = ""
	if _, err := MintAccessToken(missingSecret, now, AccessTokenPayload{PrincipalID: uuid.New(), Role: enums.PrincipalRoleUser}); err == nil {
		t.Fatalf("expected error for missing secret")
	}
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "swifthaul", ExpirationMinutes: 30}
	token, err := MintAccessToken(cfg, time.Now().UTC(), AccessTokenPayload{
		PrincipalID: uuid.New(),
		Role:        enums.PrincipalRoleUser,
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	other := cfg
	other.Issuer = "someone-else"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatalf("expected issuer mismatch to fail")
	}
}

func TestParseAccessTokenAllowExpired(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "swifthaul", ExpirationMinutes: 1}
	jti := uuid.NewString()
	issuedAt := time.Now().UTC().Add(-time.Hour)

	token, err := MintAccessToken(cfg, issuedAt, AccessTokenPayload{
		PrincipalID: uuid.New(),
		Role:        enums.PrincipalRoleUser,
		JTI:         jti,
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token); err == nil || !strings.Contains(err.Error(), "expired") {
		t.Fatalf("expected expired token error, got %v", err)
	}

	claims, err := ParseAccessTokenAllowExpired(cfg, token)
	if err != nil {
		t.Fatalf("parse expired token: %v", err)
	}
	if claims.ID != jti {
		t.Fatalf("expected jti %q, got %q", jti, claims.ID)
	}
}
