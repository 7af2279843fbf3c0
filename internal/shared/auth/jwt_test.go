package auth

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	token, err := SignJWT(Claims{Sub: "google:42", Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	claims, err := VerifyJWT(token)
	if err != nil {
		t.Fatalf("VerifyJWT: %v", err)
	}
	if claims.Sub != "google:42" || claims.Iss != Issuer || claims.Exp <= claims.Iat {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestVerifyRejects(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	now := time.Now().Unix()
	expired, _ := SignJWT(Claims{Sub: "u", Iat: now - 7200, Exp: now - 3600})
	future, _ := SignJWT(Claims{Sub: "u", Iat: now + 3600})
	valid, _ := SignJWT(Claims{Sub: "u"})
	parts := strings.Split(valid, ".")
	noneHeader := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))

	tests := map[string]string{
		"expired":       expired,
		"issued later":  future,
		"alg none":      noneHeader + "." + parts[1] + "." + parts[2],
		"two segments":  parts[0] + "." + parts[1],
		"bad signature": parts[0] + "." + parts[1] + ".AAAA",
	}
	for name, token := range tests {
		if _, err := VerifyJWT(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}

	t.Setenv("JWT_SECRET", "other")
	if _, err := VerifyJWT(valid); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected signature mismatch under a different secret, got %v", err)
	}
}

func TestProductionRequiresSecret(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")
	if _, err := SignJWT(Claims{Sub: "u"}); err == nil {
		t.Fatalf("expected missing secret error")
	}
}
