package handlers

import (
	"net/http"

	"github.com/ghuser/oraclegate/pkg/httpx"
	pkgvalidator "github.com/ghuser/oraclegate/pkg/validator"
	appsvcs "github.com/ghuser/oraclegate/services/commodity/application/services"
)

// TransferRequest is the request body for POST /commodity/transfer.
type TransferRequest struct {
	Item  string `json:"item"  validate:"required,commodity_id" example:"0xec0a9aeb90c1226c87d4613a19f854687472c9d99d888920ba7bdc31376c727a"`
	Owner string `json:"owner" validate:"required,account_id"   example:"alice"`
	Dest  string `json:"dest"  validate:"required,account_id"   example:"bob"`
} // @name TransferRequest

// TransferResponse is returned on a successful transfer.
type TransferResponse struct {
	Item string `json:"item" example:"0xec0a9aeb90c1226c87d4613a19f854687472c9d99d888920ba7bdc31376c727a"`
	From string `json:"from" example:"alice"`
	To   string `json:"to"   example:"bob"`
} // @name TransferResponse

// PostTransferHandler handles POST /commodity/transfer requests.
type PostTransferHandler struct {
	svc *appsvcs.Services
}

// NewPostTransferHandler returns a PostTransferHandler backed by the given services.
func NewPostTransferHandler(svc *appsvcs.Services) *PostTransferHandler {
	return &PostTransferHandler{svc: svc}
}

// Execute transfers a commodity between accounts.
//
//	@Summary		Transfer commodity
//	@Description	Reassigns a commodity from owner to dest
//	@Tags			commodities
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		TransferRequest	true	"Transfer request"
//	@Success		200		{object}	TransferResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/commodity/transfer [post]
func (h *PostTransferHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[TransferRequest](w, r)
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
	dest, err := parseAccount(req.Dest)
	if err != nil {
		writeError(w, h.svc, err)
		return
	}

	if err := h.svc.Commodity.Transfer(r.Context(), item, owner, dest); err != nil {
		writeError(w, h.svc, err)
		return
	}

	httpx.JSON(w, http.StatusOK, TransferResponse{Item: item.String(), From: owner.String(), To: dest.String()})
}
