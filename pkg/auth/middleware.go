package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"

	"github.com/ghuser/oraclegate/pkg/httpx"
	"github.com/ghuser/oraclegate/pkg/logger"
)

const sessionName = "oraclegate_session"
const sessionAccountKey = "account"

// RequireAuth is a chi middleware that resolves the calling account from a
// bearer token or, when no Authorization header is sent, from the session
// cookie. The account is injected into the request context; requests without
// valid credentials get 401.
//
// Either store or tokens may be nil to disable that mechanism.
// After this middleware, handlers can safely call auth.AccountFromCtx(r.Context()).
func RequireAuth(store sessions.Store, tokens *TokenManager, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if header := r.Header.Get("Authorization"); header != "" {
				account, err := accountFromBearer(header, tokens)
				if err != nil {
					log.WarnContext(r.Context(), "rejected bearer token", "error", err)
					httpx.JSONError(w, http.StatusUnauthorized, "invalid bearer token")
					return
				}
				next.ServeHTTP(w, r.WithContext(WithAccount(r.Context(), account)))
				return
			}

			if store == nil {
				httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			session, err := store.Get(r, sessionName)
			if err != nil {
				log.WarnContext(r.Context(), "invalid session cookie", "error", err)
				httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			account, ok := session.Values[sessionAccountKey].(string)
			if !ok || account == "" {
				log.WarnContext(r.Context(), "session missing account")
				httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAccount(r.Context(), account)))
		})
	}
}

// StartSession binds account to the caller's session and writes the cookie.
func StartSession(w http.ResponseWriter, r *http.Request, store sessions.Store, account string) error {
	if account == "" {
		return ErrAccountNotFound
	}
	session, err := store.Get(r, sessionName)
	if err != nil {
		return err
	}
	session.Values[sessionAccountKey] = account
	return session.Save(r, w)
}

func accountFromBearer(header string, tokens *TokenManager) (string, error) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", errors.New("authorization header is not a bearer token")
	}
	if tokens == nil {
		return "", errors.New("bearer tokens are disabled")
	}
	claims, err := tokens.Validate(strings.TrimSpace(token))
	if err != nil {
		return "", err
	}
	return claims.Account, nil
}
