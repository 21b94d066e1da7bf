package auth

import (
	"errors"
	"testing"
	"time"
)

const testSecret = "test-jwt-secret-must-be-32-bytes!"

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour, "oraclegate")

	token, err := m.Generate("alice")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.Account != "alice" || claims.Subject != "alice" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestTokenManager_Rejects(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour, "oraclegate")
	good, err := m.Generate("alice")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	expired := NewTokenManager(testSecret, time.Hour, "oraclegate")
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.Generate("alice")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	otherKey, _ := NewTokenManager("another-secret-also-32-bytes-long", time.Hour, "oraclegate").Generate("alice")
	otherIssuer, _ := NewTokenManager(testSecret, time.Hour, "someone-else").Generate("alice")

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{name: "empty", token: "", want: ErrMissingToken},
		{name: "garbage", token: "not.a.jwt", want: ErrInvalidToken},
		{name: "expired", token: old, want: ErrInvalidToken},
		{name: "wrong key", token: otherKey, want: ErrInvalidToken},
		{name: "wrong issuer", token: otherIssuer, want: ErrInvalidToken},
		{name: "tampered", token: good + "x", want: ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Validate(tt.token); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestTokenManager_GenerateRequiresAccount(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour, "oraclegate")
	if _, err := m.Generate(""); err == nil {
		t.Fatal("expected error for empty account")
	}
}
