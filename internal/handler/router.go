package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	authHandler "github.com/querydeck/querydeck/internal/handler/auth"
	chatHandler "github.com/querydeck/querydeck/internal/handler/chat"
	"github.com/querydeck/querydeck/internal/handler/pages"
	"github.com/querydeck/querydeck/internal/handler/stream"
	"github.com/querydeck/querydeck/internal/handler/ws"
	middlewarePkg "github.com/querydeck/querydeck/internal/middleware"
	authservice "github.com/querydeck/querydeck/internal/service/auth"
	chatservice "github.com/querydeck/querydeck/internal/service/chat"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(log *zap.Logger, sessions authservice.Provider, chatSvc *chatservice.Service) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	gate := authHandler.NewGate(sessions)
	auth := authHandler.New(sessions, log)
	chat := chatHandler.New(chatSvc)
	streamH := stream.New(chatSvc, log)
	wsH := ws.New(chatSvc, log)
	pagesH := pages.New(log)

	// Public pages and the auth entry point.
	r.Get("/", pagesH.Landing)
	r.Get("/login", pagesH.Login)
	auth.RegisterRoutes(r)

	// The chat view requires a session; browsers land on /login otherwise.
	r.With(gate.RequirePage).Get("/chat", pagesH.Chat)

	r.Route("/api", func(api chi.Router) {
		api.Use(gate.RequireAPI)

		chat.RegisterRoutes(api)
		streamH.RegisterRoutes(api)
		wsH.RegisterRoutes(api)
		auth.RegisterAPIRoutes(api)
	})

	return r
}
