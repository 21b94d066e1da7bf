package models

import "fmt"

// AccountID is an opaque account identifier handed out by the identity layer.
// Constrained to 1..128 characters of [A-Za-z0-9._:@-] so it can be embedded
// in storage keys and URL paths without escaping.
type AccountID string

const maxAccountIDLength = 128

// NewAccountID constructs a valid AccountID or returns an error if constraints are violated.
func NewAccountID(s string) (AccountID, error) {
	if s == "" {
		return "", fmt.Errorf("account id must not be empty")
	}
	if len(s) > maxAccountIDLength {
		return "", fmt.Errorf("account id must not exceed %d characters", maxAccountIDLength)
	}
	for _, r := range s {
		if !isAccountRune(r) {
			return "", fmt.Errorf("account id contains invalid character %q", r)
		}
	}
	return AccountID(s), nil
}

// String returns the underlying string value.
func (a AccountID) String() string {
	return string(a)
}

// IsZero reports whether the account is unset.
func (a AccountID) IsZero() bool {
	return a == ""
}

func isAccountRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '.', r == '_', r == ':', r == '@', r == '-':
		return true
	}
	return false
}
