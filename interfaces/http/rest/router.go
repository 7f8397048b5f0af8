// Package rest wires the synchronization core to an HTTP surface.
package rest

import (
	"net/http"

	"chatmemo/infrastructure/di"
	"chatmemo/interfaces/http/rest/handlers"
	"chatmemo/interfaces/http/rest/middleware"
	"chatmemo/pkg/errors"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Router creates and configures the HTTP router
type Router struct {
	container *di.Container
}

// NewRouter creates a new router instance
func NewRouter(container *di.Container) *Router {
	return &Router{container: container}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	cfg := rt.container.Config
	logger := rt.container.Logger

	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(logger))

	if cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)

	errHandler := errors.NewErrorHandler(logger, cfg.IsDevelopment())

	memoHandler := handlers.NewMemoHandler(rt.container.Memos, rt.container.Search, errHandler, logger)
	messageHandler := handlers.NewMessageHandler(rt.container.Messages, rt.container.Memos, errHandler, logger)
	viewStateHandler := handlers.NewViewStateHandler(rt.container.ViewState, rt.container.Notifier, errHandler, logger)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(cfg.JWTSecret, cfg.JWTIssuer, logger))

		r.Route("/memos", func(r chi.Router) {
			r.Get("/", memoHandler.List)
			r.Post("/", memoHandler.Create)
			r.Get("/search", memoHandler.Search)
			r.Post("/undo", memoHandler.Undo)
			r.Put("/{memoID}/title", memoHandler.Rename)
			r.Post("/{memoID}/star", memoHandler.ToggleStar)
			r.Delete("/{memoID}", memoHandler.Delete)

			r.Get("/{memoID}/messages", messageHandler.List)
			r.Post("/{memoID}/messages", messageHandler.Add)
		})

		r.Route("/messages", func(r chi.Router) {
			r.Post("/undo", messageHandler.Undo)
			r.Put("/{messageID}", messageHandler.Edit)
			r.Delete("/{messageID}", messageHandler.Delete)
			r.Get("/{messageID}/history", messageHandler.History)
		})

		r.Get("/hashtags", memoHandler.Hashtags)
		r.Get("/notice", viewStateHandler.GetNotice)

		r.Route("/viewstate", func(r chi.Router) {
			r.Get("/last-edited-memo", viewStateHandler.GetLastEditedMemo)
			r.Put("/last-edited-memo", viewStateHandler.PutLastEditedMemo)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
