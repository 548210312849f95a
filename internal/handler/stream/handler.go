package stream

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	chatservice "github.com/querydeck/querydeck/internal/service/chat"
	"github.com/querydeck/querydeck/pkg/utils"
)

const heartbeatInterval = 15 * time.Second

// Handler streams conversation events over Server-Sent Events so the chat
// page can show the typing indicator and append replies as they land.
type Handler struct {
	chatSvc *chatservice.Service
	log     *zap.Logger
}

// New creates the stream handler.
func New(chatSvc *chatservice.Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{chatSvc: chatSvc, log: log}
}

// RegisterRoutes registers the SSE endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stream/{conversationID}", h.handleStream)
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	events, cancel, err := h.chatSvc.Subscribe(conversationID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	defer cancel()

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	utils.SendSSEChunk(w, flusher, map[string]any{
		"type":           "status",
		"conversationId": conversationID,
		"message":        "stream established",
	})

	h.log.Debug("stream opened", zap.String("conversation", conversationID))
	defer h.log.Debug("stream closed", zap.String("conversation", conversationID))

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			utils.SendSSEChunk(w, flusher, map[string]any{"type": "heartbeat"})
		case event, open := <-events:
			if !open {
				return
			}
			utils.SendSSEEvent(w, flusher, event.Type, event)
			if event.Type == chatservice.EventClosed {
				return
			}
		}
	}
}
