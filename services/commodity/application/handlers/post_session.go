package handlers

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/ghuser/oraclegate/pkg/auth"
	"github.com/ghuser/oraclegate/pkg/httpx"
	pkgvalidator "github.com/ghuser/oraclegate/pkg/validator"
)

// SessionRequest is the request body for POST /session.
type SessionRequest struct {
	Account string `json:"account" validate:"required,account_id" example:"alice"`
} // @name SessionRequest

// SessionResponse carries a bearer token for the signed-in account.
type SessionResponse struct {
	Account string `json:"account" example:"alice"`
	Token   string `json:"token"   example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
} // @name SessionResponse

// PostSessionHandler handles POST /session requests. Development only: it
// signs in any account without credentials.
type PostSessionHandler struct {
	store  sessions.Store
	tokens *auth.TokenManager
}

// NewPostSessionHandler returns a PostSessionHandler. store may be nil, in
// which case only a bearer token is issued.
func NewPostSessionHandler(store sessions.Store, tokens *auth.TokenManager) *PostSessionHandler {
	return &PostSessionHandler{store: store, tokens: tokens}
}

// Execute signs in an account.
//
//	@Summary		Start session
//	@Description	Development only. Issues a session cookie and bearer token for the account
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SessionRequest	true	"Session request"
//	@Success		201		{object}	SessionResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/session [post]
func (h *PostSessionHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[SessionRequest](w, r)
	if !ok {
		return
	}

	if h.store != nil {
		if err := auth.StartSession(w, r, h.store, req.Account); err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "failed to start session")
			return
		}
	}

	token, err := h.tokens.Generate(req.Account)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	httpx.JSON(w, http.StatusCreated, SessionResponse{Account: req.Account, Token: token})
}
