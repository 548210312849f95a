package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "AUTH_USERNAME", "AUTH_SESSION_TTL", "CHAT_MIN_REPLY_DELAY", "CHAT_MAX_REPLY_DELAY"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "demo", cfg.Auth.Username)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, time.Second, cfg.Chat.MinReplyDelay)
	assert.Equal(t, 2*time.Second, cfg.Chat.MaxReplyDelay)
}

func TestLoadPortForms(t *testing.T) {
	t.Setenv("PORT", "9000")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)

	t.Setenv("PORT", "127.0.0.1:9000")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
}

func TestLoadInvalidPort(t *testing.T) {
	t.Setenv("PORT", "90 00")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadReplyDelayOverrides(t *testing.T) {
	t.Setenv("CHAT_MIN_REPLY_DELAY", "100ms")
	t.Setenv("CHAT_MAX_REPLY_DELAY", "200ms")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 100*time.Millisecond, cfg.Chat.MinReplyDelay)
	assert.Equal(t, 200*time.Millisecond, cfg.Chat.MaxReplyDelay)
}

func TestLoadRejectsInvertedDelayBounds(t *testing.T) {
	t.Setenv("CHAT_MIN_REPLY_DELAY", "2s")
	t.Setenv("CHAT_MAX_REPLY_DELAY", "1s")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsMalformedDelay(t *testing.T) {
	t.Setenv("CHAT_MIN_REPLY_DELAY", "soon")
	_, err := Load()
	assert.Error(t, err)
}
