package handler

import (
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/shelfd/shelfd/internal/api"
	"github.com/shelfd/shelfd/internal/auth"
	"github.com/shelfd/shelfd/internal/bookmarks"
	"github.com/shelfd/shelfd/internal/logging"
	"github.com/shelfd/shelfd/internal/store"
)

// Deps holds all dependencies required to build the HTTP router.
type Deps struct {
	DB             *sqlx.DB
	Logger         *zap.Logger
	SessionManager *scs.SessionManager
	AuthHandlers   *auth.Handlers
	AuthMiddleware *auth.Middleware
	Bookmarks      *bookmarks.Service
	TagStore       *store.TagStore
	TokenStore     auth.TokenStore
}

// NewRouter assembles the full chi router with all middleware and routes.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(deps.SessionManager.LoadAndSave)

	// Auth routes (no auth required)
	r.Get("/auth/login", deps.AuthHandlers.Login)
	r.Get("/auth/callback", deps.AuthHandlers.Callback)
	r.Post("/auth/logout", deps.AuthHandlers.Logout)

	// Operational endpoints.
	health := NewHealthHandler(deps.DB)
	r.Get("/healthz", health.Check)
	r.Handle("/metrics", promhttp.Handler())

	// API sub-router at /api/v1.
	apiRouter := api.NewAPIRouter(api.Deps{
		Auth:       deps.AuthMiddleware,
		Bookmarks:  deps.Bookmarks,
		TagStore:   deps.TagStore,
		TokenStore: deps.TokenStore,
	})
	r.Mount("/api/v1", apiRouter)

	return r
}
