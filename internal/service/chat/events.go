package chat

import "github.com/querydeck/querydeck/internal/model/chat"

// Event types pushed to conversation subscribers.
const (
	EventMessage = "message"
	EventTyping  = "typing"
	EventClosed  = "closed"
)

// Event notifies subscribers of conversation activity. Message is set for
// EventMessage only.
type Event struct {
	Type    string        `json:"type"`
	Message *chat.Message `json:"message,omitempty"`
}

const subscriberBuffer = 16

// Subscribe registers an event channel for a conversation. The returned
// cancel func must be called when the consumer is done; the channel is closed
// either by cancel or when the conversation closes.
func (s *Service) Subscribe(conversationID string) (<-chan Event, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[conversationID]; !ok {
		return nil, nil, ErrConversationNotFound
	}

	ch := make(chan Event, subscriberBuffer)
	if s.subscribers[conversationID] == nil {
		s.subscribers[conversationID] = make(map[chan Event]struct{})
	}
	s.subscribers[conversationID][ch] = struct{}{}

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		subs, ok := s.subscribers[conversationID]
		if !ok {
			return
		}
		if _, ok := subs[ch]; !ok {
			return
		}
		delete(subs, ch)
		close(ch)
	}
	return ch, cancel, nil
}

// broadcast fans an event out to every subscriber of the conversation.
// Slow consumers are skipped rather than blocking the event source.
func (s *Service) broadcast(conversationID string, event Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Sends stay under the lock so a concurrent Close cannot close a channel
	// mid-broadcast. Sends are non-blocking, so the lock is held briefly.
	for ch := range s.subscribers[conversationID] {
		select {
		case ch <- event:
		default:
		}
	}
}
