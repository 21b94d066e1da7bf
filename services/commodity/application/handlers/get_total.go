package handlers

import (
	"net/http"

	"github.com/ghuser/oraclegate/pkg/httpx"
	appsvcs "github.com/ghuser/oraclegate/services/commodity/application/services"
)

// TotalResponse carries the live commodity count.
type TotalResponse struct {
	Total uint32 `json:"total" example:"42"`
} // @name TotalResponse

// GetTotalHandler handles GET /commodity/total requests.
type GetTotalHandler struct {
	svc *appsvcs.Services
}

// NewGetTotalHandler returns a GetTotalHandler backed by the given services.
func NewGetTotalHandler(svc *appsvcs.Services) *GetTotalHandler {
	return &GetTotalHandler{svc: svc}
}

// Execute returns the live commodity count.
//
//	@Summary		Total commodities
//	@Description	Returns the number of minted, not yet burned commodities
//	@Tags			commodities
//	@Produce		json
//	@Success		200	{object}	TotalResponse
//	@Router			/commodity/total [get]
func (h *GetTotalHandler) Execute(w http.ResponseWriter, r *http.Request) {
	total, err := h.svc.Commodity.Total(r.Context())
	if err != nil {
		writeError(w, h.svc, err)
		return
	}
	httpx.JSON(w, http.StatusOK, TotalResponse{Total: total})
}
