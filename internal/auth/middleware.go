package auth

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/shelfd/shelfd/internal/store"
)

type contextKey string

const UserContextKey contextKey = "user"

// Middleware authenticates API requests. A request may carry either a Bearer
// personal access token or a web session cookie; the token wins when both
// are present.
type Middleware struct {
	sessions *scs.SessionManager
	users    *store.UserStore
	bearer   *BearerTokenMiddleware
}

// NewMiddleware creates a new auth Middleware.
func NewMiddleware(sm *scs.SessionManager, us *store.UserStore, bearer *BearerTokenMiddleware) *Middleware {
	return &Middleware{sessions: sm, users: us, bearer: bearer}
}

// RequireUser resolves the caller's identity and sets the *store.User on the
// request context, or responds 401. Identity only ever comes from the token
// or session — never from request input.
func (m *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.bearer.userFromRequest(r)
		if err == errNoBearer {
			user, err = m.userFromSession(r)
		}
		if err != nil {
			writeUnauthorized(w)
			return
		}
		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) userFromSession(r *http.Request) (*store.User, error) {
	userID := m.sessions.GetString(r.Context(), SessionUserIDKey)
	if userID == "" {
		return nil, store.ErrNotFound
	}
	user, err := m.users.GetByID(r.Context(), userID)
	if err != nil {
		// Session references a deleted user — destroy it.
		_ = m.sessions.Destroy(r.Context())
		return nil, err
	}
	return user, nil
}

// UserFromContext retrieves the authenticated user from the context.
func UserFromContext(ctx context.Context) *store.User {
	u, _ := ctx.Value(UserContextKey).(*store.User)
	return u
}
