package jwt

import (
	"errors"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

const testSecret = "unit-test-secret"

func TestGenerateAndValidate(t *testing.T) {
	permisos := []string{"padron.view", "padron.export"}
	token, err := GenerateAccessToken(7, "mgarcia", "consultor", permisos, "jti-1", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := ValidateAccessToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.UserID != 7 {
		t.Fatalf("unexpected user id: %d", claims.UserID)
	}
	if claims.Username != "mgarcia" || claims.Rol != "consultor" {
		t.Fatalf("identity not preserved: %s/%s", claims.Username, claims.Rol)
	}
	if len(claims.Permisos) != 2 || claims.Permisos[0] != "padron.view" {
		t.Fatalf("permission snapshot not preserved: %v", claims.Permisos)
	}
	if claims.JTI() != "jti-1" {
		t.Fatalf("unexpected jti: %s", claims.JTI())
	}
	if claims.Issuer != Issuer {
		t.Fatalf("unexpected issuer: %s", claims.Issuer)
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) <= 0 {
		t.Fatalf("expected future expiry, got %v", claims.ExpiresAt)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(1, "admin", "administrador", nil, "jti-2", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := ValidateAccessToken(token, "other-secret"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestValidateRejectsExpired(t *testing.T) {
	token, err := GenerateAccessToken(1, "admin", "administrador", nil, "jti-3", testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := ValidateAccessToken(token, testSecret); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidateRejectsForeignIssuerOrAudience(t *testing.T) {
	sign := func(issuer, audience string) string {
		t.Helper()
		now := time.Now().UTC()
		claims := Claims{
			UserID:   1,
			Username: "admin",
			RegisteredClaims: jwtlib.RegisteredClaims{
				ID:        "jti-x",
				Issuer:    issuer,
				Audience:  jwtlib.ClaimStrings{audience},
				IssuedAt:  jwtlib.NewNumericDate(now),
				ExpiresAt: jwtlib.NewNumericDate(now.Add(time.Hour)),
			},
		}
		token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return token
	}

	if _, err := ValidateAccessToken(sign("some-other-service", Audience), testSecret); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("wrong issuer: expected ErrTokenInvalid, got %v", err)
	}
	if _, err := ValidateAccessToken(sign(Issuer, "some-other-system"), testSecret); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("wrong audience: expected ErrTokenInvalid, got %v", err)
	}
	if _, err := ValidateAccessToken(sign(Issuer, Audience), testSecret); err != nil {
		t.Fatalf("matching issuer and audience must validate: %v", err)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	if _, err := ValidateAccessToken("not-a-jwt", testSecret); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestDecodeUnverifiedReadsExpiredToken(t *testing.T) {
	token, err := GenerateAccessToken(9, "jlopez", "encargado_relevamiento", nil, "jti-4", testSecret, -time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := DecodeUnverified(token)
	if err != nil {
		t.Fatalf("DecodeUnverified: %v", err)
	}
	if claims.JTI() != "jti-4" || claims.UserID != 9 {
		t.Fatalf("unexpected claims: jti=%s id=%d", claims.JTI(), claims.UserID)
	}
}
