package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/cards-api/internal/api"
	apiMiddleware "github.com/phrazzld/cards-api/internal/api/middleware"
	"github.com/phrazzld/cards-api/internal/service/auth"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	exposeDetails := app.config.Server.IsDevelopment()

	authHandler := api.NewAuthHandler(app.authService, app.logger, exposeDetails)
	cardHandler := api.NewCardHandler(app.cardService, app.logger, exposeDetails)
	healthHandler := api.NewHealthHandler(app.healthChecks, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, auth.NewActorResolver())

	r.Get("/health", healthHandler.Health)

	r.Route("/v1", func(r chi.Router) {
		// Public
		r.Post("/user/sign-in", authHandler.SignIn)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Route("/card", func(r chi.Router) {
				r.Post("/create", cardHandler.CreateCard)
				r.Get("/search", cardHandler.SearchCards)
				r.Get("/status", cardHandler.ListStatuses)
				r.Patch("/edit", cardHandler.EditCard)
				r.Get("/{id}", cardHandler.GetCard)
				r.Delete("/{id}", cardHandler.DeleteCard)
			})
		})
	})

	return r
}
