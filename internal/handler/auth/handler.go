package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authservice "github.com/querydeck/querydeck/internal/service/auth"
	"github.com/querydeck/querydeck/pkg/utils"
)

// CookieName carries the session token between requests.
const CookieName = "querydeck_session"

type contextKey struct{}

// SessionFrom extracts the session the gate middleware stored on the request.
func SessionFrom(ctx context.Context) (authservice.Session, bool) {
	session, ok := ctx.Value(contextKey{}).(authservice.Session)
	return session, ok
}

// Handler exposes login, logout and the theme preference endpoint.
type Handler struct {
	provider authservice.Provider
	log      *zap.Logger
}

// New creates the auth handler.
func New(provider authservice.Provider, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{provider: provider, log: log}
}

// RegisterRoutes registers the public auth endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
}

// RegisterAPIRoutes registers the session-scoped endpoints; callers mount
// these behind the API gate.
func (h *Handler) RegisterAPIRoutes(r chi.Router) {
	r.Post("/theme/toggle", h.handleToggleTheme)
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	creds, isJSON, err := readCredentials(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.provider.Login(r.Context(), creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, authservice.ErrInvalidCredentials) {
			if isJSON {
				utils.RespondError(w, http.StatusUnauthorized, "invalid credentials")
			} else {
				http.Redirect(w, r, "/login?error=1", http.StatusSeeOther)
			}
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "login failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.log.Info("login", zap.String("username", creds.Username))

	if isJSON {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	http.Redirect(w, r, "/chat", http.StatusSeeOther)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(CookieName); err == nil {
		h.provider.Destroy(r.Context(), cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	session, ok := SessionFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	dark, err := h.provider.ToggleTheme(r.Context(), session.Token)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "session expired")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]bool{"dark": dark})
}

func readCredentials(r *http.Request) (credentials, bool, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var creds credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			return credentials{}, true, err
		}
		return creds, true, nil
	}

	if err := r.ParseForm(); err != nil {
		return credentials{}, false, err
	}
	return credentials{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}, false, nil
}
