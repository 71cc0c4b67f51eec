package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shelfd/shelfd/internal/auth"
	"github.com/shelfd/shelfd/internal/bookmarks"
	"github.com/shelfd/shelfd/internal/metrics"
	"github.com/shelfd/shelfd/internal/store"
)

// Deps holds all dependencies required to build the API router.
type Deps struct {
	Auth       *auth.Middleware
	Bookmarks  *bookmarks.Service
	TagStore   store.TagStoreIface
	TokenStore auth.TokenStore
}

// NewAPIRouter creates a chi sub-router for /api/v1. All routes require an
// authenticated caller (Bearer token or session) and return application/json.
func NewAPIRouter(deps Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(jsonContentType)
	r.Use(requestMetrics)
	r.Use(deps.Auth.RequireUser)

	registerBookmarkRoutes(r, deps.Bookmarks)
	registerTagRoutes(r, deps.TagStore)
	registerTokenRoutes(r, deps.TokenStore)

	return r
}

// jsonContentType sets Content-Type: application/json on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// requestMetrics counts API requests per route pattern and status code.
func requestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		op := r.Method + " " + chi.RouteContext(r.Context()).RoutePattern()
		metrics.RequestsTotal.WithLabelValues(op, strconv.Itoa(ww.Status())).Inc()
	})
}
