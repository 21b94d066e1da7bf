package auth

import (
	"context"
	"errors"
)

// contextKey is an unexported type to prevent key collisions in context.
type contextKey string

const accountKey contextKey = "account"

// ErrAccountNotFound is returned when no authenticated account exists in the
// request context. Handlers should return 401 when this error occurs.
var ErrAccountNotFound = errors.New("account not found in context")

// AccountFromCtx extracts the authenticated account id from the request context.
func AccountFromCtx(ctx context.Context) (string, error) {
	account, ok := ctx.Value(accountKey).(string)
	if !ok || account == "" {
		return "", ErrAccountNotFound
	}
	return account, nil
}

// WithAccount returns a new context with the given account attached.
// Used by authentication middleware after validating the credentials.
func WithAccount(ctx context.Context, account string) context.Context {
	return context.WithValue(ctx, accountKey, account)
}
