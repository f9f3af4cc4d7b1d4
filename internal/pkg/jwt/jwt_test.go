package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const secret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken("user-1", "a@clinic.test", "STAFF", secret, 15)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ValidateAccessToken(token, secret)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.ID != "user-1" || claims.Email != "a@clinic.test" || claims.Role != "STAFF" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.Issuer != issuer {
		t.Errorf("issuer = %q", claims.Issuer)
	}
	if claims.RegisteredClaims.ID != "" {
		t.Errorf("access token carries jti %q", claims.RegisteredClaims.ID)
	}
}

func TestValidateWrongSecret(t *testing.T) {
	token, _ := GenerateAccessToken("user-1", "a@clinic.test", "STAFF", secret, 15)

	if _, err := ValidateAccessToken(token, "other-secret"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestValidateExpired(t *testing.T) {
	token, _ := GenerateAccessToken("user-1", "a@clinic.test", "STAFF", secret, -1)

	if _, err := ValidateAccessToken(token, secret); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidateRejectsOtherIssuer(t *testing.T) {
	claims := Claims{
		ID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ValidateAccessToken(token, secret); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestRefreshTokensAreUnique(t *testing.T) {
	a, err := GenerateRefreshToken("user-1", "a@clinic.test", "ADMIN", "jti-a", secret, 7)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := GenerateRefreshToken("user-1", "a@clinic.test", "ADMIN", "jti-b", secret, 7)
	if a == b {
		t.Fatal("refresh tokens with different ids must differ")
	}

	claims, err := ValidateRefreshToken(a, secret)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.RegisteredClaims.ID != "jti-a" || claims.Role != "ADMIN" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestRefreshTokenNotAcceptedWithAccessSecret(t *testing.T) {
	token, _ := GenerateRefreshToken("user-1", "a@clinic.test", "ADMIN", "jti", "refresh-secret", 7)

	if _, err := ValidateAccessToken(token, "access-secret"); err == nil {
		t.Error("refresh token validated with access secret")
	}
}
