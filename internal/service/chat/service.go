package chat

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/querydeck/querydeck/internal/model/chat"
	"github.com/querydeck/querydeck/internal/responder"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrEmptyMessage         = errors.New("message is empty")
	ErrReplyPending         = errors.New("a reply is already pending")
)

const (
	DefaultMinReplyDelay = 1000 * time.Millisecond
	DefaultMaxReplyDelay = 2000 * time.Millisecond
)

// Config tunes the conversation service. Zero values fall back to
// production defaults; tests inject a fake clock and a seeded source.
type Config struct {
	Clock    clockwork.Clock
	Rand     *rand.Rand
	MinDelay time.Duration
	MaxDelay time.Duration
}

// Service owns conversation state: ordered message lists, the pending-reply
// flag, and the scheduled assistant replies. At most one reply may be in
// flight per conversation; Submit enforces this.
type Service struct {
	log       *zap.Logger
	responder responder.Responder
	clock     clockwork.Clock
	minDelay  time.Duration
	maxDelay  time.Duration

	mu            sync.RWMutex
	rng           *rand.Rand
	conversations map[string]chat.Conversation
	messages      map[string][]chat.Message
	pending       map[string]clockwork.Timer
	subscribers   map[string]map[chan Event]struct{}
}

// NewService bootstraps the in-memory conversation service.
func NewService(log *zap.Logger, r responder.Responder, cfg Config) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.MinDelay <= 0 {
		cfg.MinDelay = DefaultMinReplyDelay
	}
	if cfg.MaxDelay <= cfg.MinDelay {
		cfg.MaxDelay = cfg.MinDelay + time.Second
	}

	return &Service{
		log:           log,
		responder:     r,
		clock:         cfg.Clock,
		minDelay:      cfg.MinDelay,
		maxDelay:      cfg.MaxDelay,
		rng:           cfg.Rand,
		conversations: make(map[string]chat.Conversation),
		messages:      make(map[string][]chat.Message),
		pending:       make(map[string]clockwork.Timer),
		subscribers:   make(map[string]map[chan Event]struct{}),
	}
}

// Create provisions a new empty conversation.
func (s *Service) Create(_ context.Context) (chat.Conversation, error) {
	conv := chat.Conversation{
		ID:        uuid.NewString(),
		CreatedAt: s.clock.Now().UTC(),
	}

	s.mu.Lock()
	s.conversations[conv.ID] = conv
	s.messages[conv.ID] = make([]chat.Message, 0, 16)
	s.mu.Unlock()

	return conv, nil
}

// Submit appends a user message and schedules the assistant reply after a
// uniform random delay in [minDelay, maxDelay). Empty input after trimming is
// rejected without touching state, as is a submission while a reply is
// already pending.
func (s *Service) Submit(_ context.Context, conversationID, text string) (chat.Message, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return chat.Message{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if _, ok := s.conversations[conversationID]; !ok {
		s.mu.Unlock()
		return chat.Message{}, ErrConversationNotFound
	}
	if _, ok := s.pending[conversationID]; ok {
		s.mu.Unlock()
		return chat.Message{}, ErrReplyPending
	}

	now := s.clock.Now().UTC()
	userMsg := chat.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Sender:         chat.SenderUser,
		Content:        trimmed,
		CreatedAt:      now,
	}
	s.messages[conversationID] = append(s.messages[conversationID], userMsg)

	delay := s.minDelay
	if span := s.maxDelay - s.minDelay; span > 0 {
		delay += time.Duration(s.rng.Int63n(int64(span)))
	}
	replyAt := now.Add(delay)
	s.pending[conversationID] = s.clock.AfterFunc(delay, func() {
		s.deliverReply(conversationID, trimmed, replyAt)
	})
	s.mu.Unlock()

	s.log.Debug("reply scheduled",
		zap.String("conversation", conversationID),
		zap.Duration("delay", delay))

	s.broadcast(conversationID, Event{Type: EventMessage, Message: &userMsg})
	s.broadcast(conversationID, Event{Type: EventTyping})

	return userMsg, nil
}

// QuickAction submits a shortcut label exactly as if the user had typed it.
func (s *Service) QuickAction(ctx context.Context, conversationID, label string) (chat.Message, error) {
	return s.Submit(ctx, conversationID, label)
}

// deliverReply appends the assistant message and clears the pending flag.
// The reply content is computed outside the lock; the responder is pure.
func (s *Service) deliverReply(conversationID, userText string, at time.Time) {
	content := s.responder.Reply(userText)

	s.mu.Lock()
	if _, ok := s.conversations[conversationID]; !ok {
		// Conversation closed while the reply was in flight.
		delete(s.pending, conversationID)
		s.mu.Unlock()
		return
	}
	reply := chat.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Sender:         chat.SenderAssistant,
		Content:        content,
		CreatedAt:      at,
	}
	s.messages[conversationID] = append(s.messages[conversationID], reply)
	delete(s.pending, conversationID)
	s.mu.Unlock()

	s.broadcast(conversationID, Event{Type: EventMessage, Message: &reply})
}

// Get retrieves a conversation and whether a reply is currently pending.
func (s *Service) Get(_ context.Context, conversationID string) (chat.Conversation, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.conversations[conversationID]
	if !ok {
		return chat.Conversation{}, false, ErrConversationNotFound
	}
	_, pending := s.pending[conversationID]
	return conv, pending, nil
}

// Transcript returns a copy of the ordered messages for a conversation.
func (s *Service) Transcript(_ context.Context, conversationID string) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages, ok := s.messages[conversationID]
	if !ok {
		return nil, ErrConversationNotFound
	}

	copied := make([]chat.Message, len(messages))
	copy(copied, messages)
	return copied, nil
}

// Close discards a conversation, cancelling any scheduled reply.
func (s *Service) Close(_ context.Context, conversationID string) error {
	s.mu.Lock()
	if _, ok := s.conversations[conversationID]; !ok {
		s.mu.Unlock()
		return ErrConversationNotFound
	}
	if timer, ok := s.pending[conversationID]; ok {
		timer.Stop()
		delete(s.pending, conversationID)
	}
	delete(s.conversations, conversationID)
	delete(s.messages, conversationID)
	for ch := range s.subscribers[conversationID] {
		select {
		case ch <- Event{Type: EventClosed}:
		default:
		}
		close(ch)
	}
	delete(s.subscribers, conversationID)
	s.mu.Unlock()
	return nil
}
