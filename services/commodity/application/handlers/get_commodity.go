package handlers

import (
	"net/http"

	"github.com/ghuser/oraclegate/pkg/httpx"
	appsvcs "github.com/ghuser/oraclegate/services/commodity/application/services"
)

// GetCommodityHandler handles GET /commodity/{item} requests.
type GetCommodityHandler struct {
	svc *appsvcs.Services
}

// NewGetCommodityHandler returns a GetCommodityHandler backed by the given services.
func NewGetCommodityHandler(svc *appsvcs.Services) *GetCommodityHandler {
	return &GetCommodityHandler{svc: svc}
}

// Execute returns the owner of a commodity.
//
//	@Summary		Get commodity
//	@Description	Returns the account that owns the commodity
//	@Tags			commodities
//	@Produce		json
//	@Param			item	path		string	true	"Commodity id (0x-prefixed hex)"
//	@Success		200		{object}	CommodityResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/commodity/{item} [get]
func (h *GetCommodityHandler) Execute(w http.ResponseWriter, r *http.Request) {
	item, err := itemParam(r)
	if err != nil {
		writeError(w, h.svc, err)
		return
	}

	owner, err := h.svc.Commodity.OwnerOf(r.Context(), item)
	if err != nil {
		writeError(w, h.svc, err)
		return
	}

	httpx.JSON(w, http.StatusOK, CommodityResponse{Item: item.String(), Owner: owner.String()})
}
