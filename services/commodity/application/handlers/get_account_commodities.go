package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/oraclegate/pkg/httpx"
	appsvcs "github.com/ghuser/oraclegate/services/commodity/application/services"
)

// AccountCommoditiesResponse lists the commodities indexed for an account.
type AccountCommoditiesResponse struct {
	Account string   `json:"account" example:"alice"`
	Items   []string `json:"items"`
} // @name AccountCommoditiesResponse

// GetAccountCommoditiesHandler handles GET /account/{account}/commodities requests.
type GetAccountCommoditiesHandler struct {
	svc *appsvcs.Services
}

// NewGetAccountCommoditiesHandler returns a GetAccountCommoditiesHandler backed by the given services.
func NewGetAccountCommoditiesHandler(svc *appsvcs.Services) *GetAccountCommoditiesHandler {
	return &GetAccountCommoditiesHandler{svc: svc}
}

// Execute returns the account's commodities in index order.
//
//	@Summary		List account commodities
//	@Description	Returns the account's item index in insertion order
//	@Tags			accounts
//	@Produce		json
//	@Param			account	path		string	true	"Account id"
//	@Success		200		{object}	AccountCommoditiesResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/account/{account}/commodities [get]
func (h *GetAccountCommoditiesHandler) Execute(w http.ResponseWriter, r *http.Request) {
	account, err := parseAccount(chi.URLParam(r, "account"))
	if err != nil {
		writeError(w, h.svc, err)
		return
	}

	ids, err := h.svc.Commodity.ItemsOf(r.Context(), account)
	if err != nil {
		writeError(w, h.svc, err)
		return
	}

	httpx.JSON(w, http.StatusOK, AccountCommoditiesResponse{Account: account.String(), Items: itemStrings(ids)})
}
