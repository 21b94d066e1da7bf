package handlers

import (
	"net/http"

	"github.com/ghuser/oraclegate/pkg/httpx"
	pkgvalidator "github.com/ghuser/oraclegate/pkg/validator"
	appsvcs "github.com/ghuser/oraclegate/services/commodity/application/services"
)

// DigestRequest is the request body for POST /commodity/digest.
type DigestRequest struct {
	Content string `json:"content" validate:"required,max=65536" example:"Just some nft text"`
} // @name DigestRequest

// DigestResponse carries the identifier derived from content.
type DigestResponse struct {
	Item string `json:"item" example:"0xec0a9aeb90c1226c87d4613a19f854687472c9d99d888920ba7bdc31376c727a"`
} // @name DigestResponse

// PostDigestHandler handles POST /commodity/digest requests.
type PostDigestHandler struct {
	svc *appsvcs.Services
}

// NewPostDigestHandler returns a PostDigestHandler backed by the given services.
func NewPostDigestHandler(svc *appsvcs.Services) *PostDigestHandler {
	return &PostDigestHandler{svc: svc}
}

// Execute derives a commodity id.
//
//	@Summary		Digest content
//	@Description	Derives the blake2b-256 commodity id of arbitrary content
//	@Tags			commodities
//	@Accept			json
//	@Produce		json
//	@Param			request	body		DigestRequest	true	"Digest request"
//	@Success		200		{object}	DigestResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/commodity/digest [post]
func (h *PostDigestHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[DigestRequest](w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, DigestResponse{Item: h.svc.Commodity.Digest([]byte(req.Content)).String()})
}
