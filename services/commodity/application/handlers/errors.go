package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/oraclegate/pkg/errhttp"
	appsvcs "github.com/ghuser/oraclegate/services/commodity/application/services"
	"github.com/ghuser/oraclegate/services/commodity/domain"
	"github.com/ghuser/oraclegate/services/commodity/domain/models"
)

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"commodity does not exist"`
} // @name ErrorResponse

func writeError(w http.ResponseWriter, svc *appsvcs.Services, err error) {
	errhttp.WriteSafeError(w, err, svc.Production)
}

func parseItem(s string) (models.CommodityID, error) {
	id, err := models.ParseCommodityID(s)
	if err != nil {
		return id, fmt.Errorf("%w: %w", domain.ErrInvalidCommodityID, err)
	}
	return id, nil
}

func parseAccount(s string) (models.AccountID, error) {
	id, err := models.NewAccountID(s)
	if err != nil {
		return id, fmt.Errorf("%w: %w", domain.ErrInvalidAccountID, err)
	}
	return id, nil
}

func itemParam(r *http.Request) (models.CommodityID, error) {
	return parseItem(chi.URLParam(r, "item"))
}

func itemStrings(ids []models.CommodityID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
