package handlers

import (
	"net/http"

	"github.com/ghuser/oraclegate/pkg/httpx"
	pkgvalidator "github.com/ghuser/oraclegate/pkg/validator"
	appsvcs "github.com/ghuser/oraclegate/services/commodity/application/services"
)

// MintRequest is the request body for POST /commodity/mint.
type MintRequest struct {
	Item  string `json:"item"  validate:"required,commodity_id" example:"0xec0a9aeb90c1226c87d4613a19f854687472c9d99d888920ba7bdc31376c727a"`
	Owner string `json:"owner" validate:"required,account_id"   example:"alice"`
} // @name MintRequest

// CommodityResponse describes a commodity and its current owner.
type CommodityResponse struct {
	Item  string `json:"item"  example:"0xec0a9aeb90c1226c87d4613a19f854687472c9d99d888920ba7bdc31376c727a"`
	Owner string `json:"owner" example:"alice"`
} // @name CommodityResponse

// PostMintHandler handles POST /commodity/mint requests.
type PostMintHandler struct {
	svc *appsvcs.Services
}

// NewPostMintHandler returns a PostMintHandler backed by the given services.
func NewPostMintHandler(svc *appsvcs.Services) *PostMintHandler {
	return &PostMintHandler{svc: svc}
}

// Execute mints a new commodity.
//
//	@Summary		Mint commodity
//	@Description	Creates a commodity and assigns it to owner
//	@Tags			commodities
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		MintRequest	true	"Mint request"
//	@Success		201		{object}	CommodityResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/commodity/mint [post]
func (h *PostMintHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[MintRequest](w, r)
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

	if err := h.svc.Commodity.Mint(r.Context(), item, owner); err != nil {
		writeError(w, h.svc, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, CommodityResponse{Item: item.String(), Owner: owner.String()})
}
