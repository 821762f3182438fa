package jwttoken

import (
	"testing"
	"time"

	dErrors "vitacare/pkg/domain-errors"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewJWTService("test-signing-key", "vitacare", "vitacare-registries")

	token, err := svc.GenerateAccessToken("GPATIENT", time.Hour)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}
	if claims.Subject != "GPATIENT" {
		t.Fatalf("expected subject GPATIENT, got %q", claims.Subject)
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := NewJWTService("test-signing-key", "vitacare", "vitacare-registries")

	token, err := svc.GenerateAccessToken("GPATIENT", -time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	_, err = svc.ValidateToken(token)
	if !dErrors.HasCode(err, dErrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for expired token, got %v", err)
	}
}

func TestValidateRejectsWrongKey(t *testing.T) {
	issuing := NewJWTService("key-one", "vitacare", "vitacare-registries")
	validating := NewJWTService("key-two", "vitacare", "vitacare-registries")

	token, err := issuing.GenerateAccessToken("GPATIENT", time.Hour)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := validating.ValidateToken(token); err == nil {
		t.Fatal("expected validation to fail across signing keys")
	}
}

func TestValidateRejectsWrongAudience(t *testing.T) {
	issuing := NewJWTService("test-signing-key", "vitacare", "other-audience")
	validating := NewJWTService("test-signing-key", "vitacare", "vitacare-registries")

	token, err := issuing.GenerateAccessToken("GPATIENT", time.Hour)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := validating.ValidateToken(token); err == nil {
		t.Fatal("expected validation to fail for mismatched audience")
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := NewJWTService("test-signing-key", "vitacare", "vitacare-registries")

	if _, err := svc.ValidateToken("not-a-token"); err == nil {
		t.Fatal("expected validation to fail for malformed token")
	}
}
