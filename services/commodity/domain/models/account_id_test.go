package models

import (
	"strings"
	"testing"
)

func TestNewAccountID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"ss58 address", "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY", false},
		{"simple name", "alice", false},
		{"punctuation allowed", "org:team.alice_01@node-1", false},
		{"max length", strings.Repeat("a", 128), false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 129), true},
		{"space", "alice bob", true},
		{"slash", "alice/bob", true},
		{"glob star", "alice*", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewAccountID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewAccountID(%q) error = %v, wantErr = %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got.String() != tt.input {
				t.Fatalf("expected %q, got %q", tt.input, got.String())
			}
		})
	}
}

func TestAccountID_IsZero(t *testing.T) {
	if !AccountID("").IsZero() {
		t.Fatal("expected empty account to be zero")
	}
	if AccountID("alice").IsZero() {
		t.Fatal("expected non-empty account to be non-zero")
	}
}
