package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
)

// Session is the explicit login state handed to the routing layer. The theme
// preference travels with it so the chat page can render the stored choice.
type Session struct {
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
	DarkTheme bool
}

// Provider issues and validates sessions. Injectable so handler tests can
// swap in a stub instead of ambient global state.
type Provider interface {
	Login(ctx context.Context, username, password string) (Session, error)
	Validate(ctx context.Context, token string) (Session, bool)
	Destroy(ctx context.Context, token string)
	ToggleTheme(ctx context.Context, token string) (bool, error)
}

// MemoryProvider keeps sessions in a token-keyed map with expiry.
type MemoryProvider struct {
	username string
	password string
	ttl      time.Duration
	clock    clockwork.Clock

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryProvider returns a provider that accepts the single configured
// credential pair. A nil clock falls back to the real one.
func NewMemoryProvider(username, password string, ttl time.Duration, clock clockwork.Clock) *MemoryProvider {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &MemoryProvider{
		username: username,
		password: password,
		ttl:      ttl,
		clock:    clock,
		sessions: make(map[string]*Session),
	}
}

// Login checks the credentials and mints a session token.
func (p *MemoryProvider) Login(_ context.Context, username, password string) (Session, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(p.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(p.password)) == 1
	if !userOK || !passOK {
		return Session{}, ErrInvalidCredentials
	}

	now := p.clock.Now().UTC()
	session := &Session{
		Token:     uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(p.ttl),
	}

	p.mu.Lock()
	p.sessions[session.Token] = session
	p.mu.Unlock()

	return *session, nil
}

// Validate reports whether the token belongs to a live session.
func (p *MemoryProvider) Validate(_ context.Context, token string) (Session, bool) {
	if token == "" {
		return Session{}, false
	}

	p.mu.RLock()
	session, ok := p.sessions[token]
	p.mu.RUnlock()
	if !ok {
		return Session{}, false
	}

	if !p.clock.Now().Before(session.ExpiresAt) {
		p.mu.Lock()
		delete(p.sessions, token)
		p.mu.Unlock()
		return Session{}, false
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	return *session, true
}

// Destroy removes a session. Unknown tokens are ignored.
func (p *MemoryProvider) Destroy(_ context.Context, token string) {
	p.mu.Lock()
	delete(p.sessions, token)
	p.mu.Unlock()
}

// ToggleTheme flips the dark-theme preference and returns the new value.
func (p *MemoryProvider) ToggleTheme(_ context.Context, token string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	session, ok := p.sessions[token]
	if !ok {
		return false, ErrSessionNotFound
	}
	session.DarkTheme = !session.DarkTheme
	return session.DarkTheme, nil
}
