package pages

import (
	"embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/querydeck/querydeck/internal/handler/auth"
	"github.com/querydeck/querydeck/internal/responder"
)

//go:embed templates/*.html
var templateFS embed.FS

// Handler renders the landing, login and chat pages.
type Handler struct {
	templates *template.Template
	log       *zap.Logger
}

// New parses the embedded templates.
func New(log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		templates: template.Must(template.ParseFS(templateFS, "templates/*.html")),
		log:       log,
	}
}

// Landing serves the marketing page.
func (h *Handler) Landing(w http.ResponseWriter, r *http.Request) {
	h.render(w, "landing.html", nil)
}

// Login serves the login form.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	data := struct{ Failed bool }{Failed: r.URL.Query().Get("error") != ""}
	h.render(w, "login.html", data)
}

// Chat serves the assistant page. Mounted behind the page gate, so a session
// is always present; its stored theme decides the root presentation class.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.SessionFrom(r.Context())
	data := struct {
		Dark         bool
		QuickActions []responder.QuickAction
	}{
		Dark:         session.DarkTheme,
		QuickActions: responder.QuickActions(),
	}
	h.render(w, "chat.html", data)
}

func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.log.Error("template render failed", zap.String("template", name), zap.Error(err))
	}
}
