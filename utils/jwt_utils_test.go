package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWTRoundTrip(t *testing.T) {
	t.Parallel()

	token, err := GenerateJWTTokenWithSecret("65f0c0ffee0000000000abcd", "Thanh Hương", "admin", "secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWTTokenWithSecret() error = %v", err)
	}

	claims, err := VerifyJWTTokenWithSecret(token, "secret")
	if err != nil {
		t.Fatalf("VerifyJWTTokenWithSecret() error = %v", err)
	}
	if claims.UserID != "65f0c0ffee0000000000abcd" || claims.Role != "admin" || claims.Name != "Thanh Hương" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestVerifyJWTTokenRejects(t *testing.T) {
	t.Parallel()

	valid, _ := GenerateJWTTokenWithSecret("u1", "n", "member", "secret", time.Hour)
	expired, _ := GenerateJWTTokenWithSecret("u1", "n", "member", "secret", -time.Minute)
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "u1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"wrong secret", valid, "other"},
		{"expired", expired, "secret"},
		{"none alg", none, "secret"},
		{"garbage", "not.a.token", "secret"},
	}
	for _, tt := range tests {
		if _, err := VerifyJWTTokenWithSecret(tt.token, tt.secret); err == nil {
			t.Errorf("%s: VerifyJWTTokenWithSecret() error = nil", tt.name)
		}
	}
}
