package auth

import (
	"context"
	"net/http"

	authservice "github.com/querydeck/querydeck/internal/service/auth"
	"github.com/querydeck/querydeck/pkg/utils"
)

// Gate guards routes behind a valid session.
type Gate struct {
	provider authservice.Provider
}

// NewGate creates the route guard.
func NewGate(provider authservice.Provider) *Gate {
	return &Gate{provider: provider}
}

// RequirePage redirects browsers without a valid session to the login page.
func (g *Gate) RequirePage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := g.sessionFor(r)
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), session)))
	})
}

// RequireAPI rejects unauthenticated API calls with a 401 JSON body.
func (g *Gate) RequireAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := g.sessionFor(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), session)))
	})
}

func (g *Gate) sessionFor(r *http.Request) (authservice.Session, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return authservice.Session{}, false
	}
	return g.provider.Validate(r.Context(), cookie.Value)
}

func withSession(ctx context.Context, session authservice.Session) context.Context {
	return context.WithValue(ctx, contextKey{}, session)
}
