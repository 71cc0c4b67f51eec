package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/shelfd/shelfd/internal/store"
)

var errNoBearer = errors.New("no bearer token")

// BearerTokenMiddleware authenticates API requests via Bearer token.
type BearerTokenMiddleware struct {
	tokens TokenStore
	users  *store.UserStore
}

// NewBearerTokenMiddleware creates a new BearerTokenMiddleware.
func NewBearerTokenMiddleware(ts TokenStore, us *store.UserStore) *BearerTokenMiddleware {
	return &BearerTokenMiddleware{tokens: ts, users: us}
}

// Authenticate is an http.Handler middleware that extracts and validates a
// Bearer token. On success the token owner's *store.User is injected into
// context and an async last_used_at update fires. Invalid, missing, expired,
// and revoked tokens all get a 401 with {"error": "unauthorized"}.
func (m *BearerTokenMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.userFromRequest(r)
		if err != nil {
			writeUnauthorized(w)
			return
		}
		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userFromRequest resolves the Authorization header to a user. Returns
// errNoBearer when the header is absent so callers can fall back to session
// auth.
func (m *BearerTokenMiddleware) userFromRequest(r *http.Request) (*store.User, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, errNoBearer
	}
	plaintext := strings.TrimPrefix(authHeader, "Bearer ")
	if plaintext == "" {
		return nil, errNoBearer
	}

	hash := HashToken(plaintext)
	rec, err := m.tokens.GetByHash(r.Context(), hash)
	if err != nil {
		return nil, err
	}
	if rec.RevokedAt.Valid {
		return nil, store.ErrNotFound
	}
	if rec.ExpiresAt.Valid && rec.ExpiresAt.Time.Before(time.Now()) {
		return nil, store.ErrNotFound
	}

	user, err := m.users.GetByID(r.Context(), rec.UserID)
	if err != nil {
		return nil, err
	}

	// Update last_used_at asynchronously to avoid write overhead on every read.
	go m.tokens.UpdateLastUsed(context.Background(), rec.ID)

	return user, nil
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}
