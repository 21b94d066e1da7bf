package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/oraclegate/pkg/app"
	"github.com/ghuser/oraclegate/pkg/auth"
	"github.com/ghuser/oraclegate/services/commodity/application/handlers"
	appsvcs "github.com/ghuser/oraclegate/services/commodity/application/services"
)

// CommodityRoutes registers commodity endpoints on the provided chi router.
// Queries are public; mutations require a bearer token or session cookie.
func CommodityRoutes(r chi.Router, a *app.Application, svcs *appsvcs.Services) {
	if a.Config.IsDevelopment() && a.Tokens != nil {
		r.Post("/session", handlers.NewPostSessionHandler(a.SessionStore, a.Tokens).Execute)
	}

	r.Route("/commodity", func(r chi.Router) {
		r.Post("/digest", handlers.NewPostDigestHandler(svcs).Execute)
		r.Get("/total", handlers.NewGetTotalHandler(svcs).Execute)
		r.Get("/{item}", handlers.NewGetCommodityHandler(svcs).Execute)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(a.SessionStore, a.Tokens, a.Logger))
			r.Post("/mint", handlers.NewPostMintHandler(svcs).Execute)
			r.Post("/burn", handlers.NewPostBurnHandler(svcs).Execute)
			r.Post("/transfer", handlers.NewPostTransferHandler(svcs).Execute)
		})
	})

	r.Get("/account/{account}/commodities", handlers.NewGetAccountCommoditiesHandler(svcs).Execute)
}
