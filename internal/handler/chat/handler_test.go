package chat

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/querydeck/querydeck/internal/model/chat"
	"github.com/querydeck/querydeck/internal/responder"
	chatservice "github.com/querydeck/querydeck/internal/service/chat"
)

func setupRouter(t *testing.T) (*chi.Mux, *chatservice.Service, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	chatSvc := chatservice.NewService(nil, responder.NewCanned(), chatservice.Config{
		Clock: clock,
		Rand:  rand.New(rand.NewSource(1)),
	})
	handler := New(chatSvc)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, chatSvc, clock
}

func createConversation(t *testing.T, r *chi.Mux) model.Conversation {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/conversations", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusCreated, resp.Code)

	var conv model.Conversation
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &conv))
	require.NotEmpty(t, conv.ID)
	return conv
}

func postMessage(t *testing.T, r *chi.Mux, conversationID, content string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(map[string]string{"content": content})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/conversations/"+conversationID+"/messages", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestCreateConversation(t *testing.T) {
	r, _, _ := setupRouter(t)
	createConversation(t, r)
}

func TestSubmitMessageAccepted(t *testing.T) {
	r, _, _ := setupRouter(t)
	conv := createConversation(t, r)

	resp := postMessage(t, r, conv.ID, "analyze my database")
	require.Equal(t, http.StatusAccepted, resp.Code)

	var body struct {
		Message      model.Message `json:"message"`
		ReplyPending bool          `json:"replyPending"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, model.SenderUser, body.Message.Sender)
	assert.True(t, body.ReplyPending)
}

func TestSubmitEmptyMessageRejected(t *testing.T) {
	r, _, _ := setupRouter(t)
	conv := createConversation(t, r)

	resp := postMessage(t, r, conv.ID, "   ")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestSubmitWhilePendingConflicts(t *testing.T) {
	r, _, _ := setupRouter(t)
	conv := createConversation(t, r)

	require.Equal(t, http.StatusAccepted, postMessage(t, r, conv.ID, "hello").Code)
	assert.Equal(t, http.StatusConflict, postMessage(t, r, conv.ID, "again").Code)
}

func TestSubmitUnknownConversation(t *testing.T) {
	r, _, _ := setupRouter(t)

	resp := postMessage(t, r, "missing", "hello")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestTranscriptAfterReply(t *testing.T) {
	r, _, clock := setupRouter(t)
	conv := createConversation(t, r)

	require.Equal(t, http.StatusAccepted, postMessage(t, r, conv.ID, "show me some sql").Code)
	clock.Advance(2 * time.Second)

	var body struct {
		Messages []model.Message `json:"messages"`
	}
	require.Eventually(t, func() bool {
		req := httptest.NewRequest(http.MethodGet, "/conversations/"+conv.ID+"/messages", nil)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			return false
		}
		body.Messages = nil
		if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
			return false
		}
		return len(body.Messages) == 2
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, model.SenderUser, body.Messages[0].Sender)
	assert.Equal(t, model.SenderAssistant, body.Messages[1].Sender)
	assert.Contains(t, body.Messages[1].Content, "SELECT")
}

func TestCloseConversation(t *testing.T) {
	r, _, _ := setupRouter(t)
	conv := createConversation(t, r)

	req := httptest.NewRequest(http.MethodDelete, "/conversations/"+conv.ID, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusNoContent, resp.Code)

	req = httptest.NewRequest(http.MethodGet, "/conversations/"+conv.ID, nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestQuickActionsCatalog(t *testing.T) {
	r, _, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/quick-actions", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	var actions []responder.QuickAction
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &actions))
	assert.Len(t, actions, 4)
}
