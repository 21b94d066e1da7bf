package services

import (
	"context"
	"fmt"

	"github.com/ghuser/oraclegate/pkg/auth"
	"github.com/ghuser/oraclegate/services/commodity/domain"
	"github.com/ghuser/oraclegate/services/commodity/domain/models"
)

// ContextAuthenticator reads the caller placed in the request context by
// auth.RequireAuth.
type ContextAuthenticator struct{}

var _ domain.Authenticator = ContextAuthenticator{}

// Authenticate implements domain.Authenticator.
func (ContextAuthenticator) Authenticate(ctx context.Context) (models.AccountID, error) {
	account, err := auth.AccountFromCtx(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUnsigned, err)
	}
	id, err := models.NewAccountID(account)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUnsigned, err)
	}
	return id, nil
}

// StaticAuthenticator always signs as Account. Used by the seeder and the
// audit worker, which act on behalf of the operator.
type StaticAuthenticator struct {
	Account models.AccountID
}

// Authenticate implements domain.Authenticator.
func (s StaticAuthenticator) Authenticate(context.Context) (models.AccountID, error) {
	if s.Account.IsZero() {
		return "", domain.ErrUnsigned
	}
	return s.Account, nil
}
