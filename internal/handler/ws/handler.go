package ws

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/querydeck/querydeck/internal/model/chat"
	chatservice "github.com/querydeck/querydeck/internal/service/chat"
	"github.com/querydeck/querydeck/pkg/utils"
)

// Handler bridges a conversation onto a websocket: the client submits
// messages over the socket and receives typing/message events pushed back.
type Handler struct {
	chatSvc  *chatservice.Service
	log      *zap.Logger
	upgrader websocket.Upgrader
}

// New creates the websocket handler.
func New(chatSvc *chatservice.Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		chatSvc: chatSvc,
		log:     log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers the websocket endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{conversationID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type outgoingMessage struct {
	Type      string        `json:"type"`
	Message   *chat.Message `json:"message,omitempty"`
	Error     string        `json:"error,omitempty"`
	Timestamp int64         `json:"timestamp"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	events, cancel, err := h.chatSvc.Subscribe(conversationID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.log.Debug("websocket opened", zap.String("conversation", conversationID))

	// Single writer goroutine; gorilla connections allow one concurrent
	// writer only.
	var writeMu sync.Mutex
	send := func(msg outgoingMessage) {
		msg.Timestamp = time.Now().UnixMilli()
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteJSON(msg); err != nil {
			h.log.Debug("websocket write failed", zap.Error(err))
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range events {
			send(outgoingMessage{Type: event.Type, Message: event.Message})
			if event.Type == chatservice.EventClosed {
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug("websocket read failed", zap.Error(err))
			}
			break
		}

		switch inbound.Type {
		case "message", "quick_action":
			if _, err := h.chatSvc.Submit(r.Context(), conversationID, inbound.Content); err != nil {
				send(outgoingMessage{Type: "error", Error: submitErrorText(err)})
			}
		default:
			send(outgoingMessage{Type: "error", Error: "unknown message type"})
		}
	}

	cancel()
	<-done
}

func submitErrorText(err error) string {
	switch {
	case errors.Is(err, chatservice.ErrEmptyMessage):
		return "message is empty"
	case errors.Is(err, chatservice.ErrReplyPending):
		return "a reply is already pending"
	case errors.Is(err, chatservice.ErrConversationNotFound):
		return "conversation not found"
	default:
		return "submit failed"
	}
}
