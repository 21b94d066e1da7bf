package domain

import (
	"context"

	"github.com/ghuser/oraclegate/services/commodity/domain/models"
)

// Authenticator resolves the signed caller of an operation. Implementations
// live outside the domain and return ErrUnsigned when no caller is present.
type Authenticator interface {
	Authenticate(ctx context.Context) (models.AccountID, error)
}
