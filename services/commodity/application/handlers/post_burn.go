package handlers

import (
	"net/http"

	pkgvalidator "github.com/ghuser/oraclegate/pkg/validator"
	appsvcs "github.com/ghuser/oraclegate/services/commodity/application/services"
)

// BurnRequest is the request body for POST /commodity/burn.
type BurnRequest struct {
	Item  string `json:"item"  validate:"required,commodity_id" example:"0xec0a9aeb90c1226c87d4613a19f854687472c9d99d888920ba7bdc31376c727a"`
	Owner string `json:"owner" validate:"required,account_id"   example:"alice"`
} // @name BurnRequest

// PostBurnHandler handles POST /commodity/burn requests.
type PostBurnHandler struct {
	svc *appsvcs.Services
}

// NewPostBurnHandler returns a PostBurnHandler backed by the given services.
func NewPostBurnHandler(svc *appsvcs.Services) *PostBurnHandler {
	return &PostBurnHandler{svc: svc}
}

// Execute burns a commodity.
//
//	@Summary		Burn commodity
//	@Description	Destroys a commodity currently held by owner
//	@Tags			commodities
//	@Accept			json
//	@Security		BearerAuth
//	@Param			request	body	BurnRequest	true	"Burn request"
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		403	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Router			/commodity/burn [post]
func (h *PostBurnHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[BurnRequest](w, r)
	if !ok {
		return
	}
	item, err := parseItem(req.Item)
	if err != nil {
		writeError(w, h.svc, err)
		return
	}
	owner, err := parseAccount(req.Owner)
	if err != nil {
		writeError(w, h.svc, err)
		return
	}

	if err := h.svc.Commodity.Burn(r.Context(), item, owner); err != nil {
		writeError(w, h.svc, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
