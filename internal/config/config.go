package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	chatservice "github.com/querydeck/querydeck/internal/service/chat"
)

// Config aggregates every setting the service reads.
type Config struct {
	Server ServerConfig
	Auth   AuthConfig
	Chat   ChatConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	auth, err := loadAuthConfig()
	if err != nil {
		return nil, err
	}

	chat, err := loadChatConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Auth: auth, Chat: chat}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" as-is.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AuthConfig holds the demo credential pair and session lifetime.
type AuthConfig struct {
	Username   string
	Password   string
	SessionTTL time.Duration
}

func loadAuthConfig() (AuthConfig, error) {
	ttl, err := parseOptionalDurationEnv("AUTH_SESSION_TTL")
	if err != nil {
		return AuthConfig{}, err
	}
	sessionTTL := 24 * time.Hour
	if ttl != nil {
		sessionTTL = *ttl
	}

	return AuthConfig{
		Username:   getEnvOrDefault("AUTH_USERNAME", "demo"),
		Password:   getEnvOrDefault("AUTH_PASSWORD", "demo"),
		SessionTTL: sessionTTL,
	}, nil
}

// ChatConfig bounds the simulated reply delay. Overridable so local runs can
// shorten the wait.
type ChatConfig struct {
	MinReplyDelay time.Duration
	MaxReplyDelay time.Duration
}

func loadChatConfig() (ChatConfig, error) {
	minDelay, err := parseOptionalDurationEnv("CHAT_MIN_REPLY_DELAY")
	if err != nil {
		return ChatConfig{}, err
	}
	maxDelay, err := parseOptionalDurationEnv("CHAT_MAX_REPLY_DELAY")
	if err != nil {
		return ChatConfig{}, err
	}

	cfg := ChatConfig{
		MinReplyDelay: chatservice.DefaultMinReplyDelay,
		MaxReplyDelay: chatservice.DefaultMaxReplyDelay,
	}
	if minDelay != nil {
		cfg.MinReplyDelay = *minDelay
	}
	if maxDelay != nil {
		cfg.MaxReplyDelay = *maxDelay
	}
	if cfg.MaxReplyDelay <= cfg.MinReplyDelay {
		return ChatConfig{}, fmt.Errorf("CHAT_MAX_REPLY_DELAY (%s) must exceed CHAT_MIN_REPLY_DELAY (%s)",
			cfg.MaxReplyDelay, cfg.MinReplyDelay)
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalDurationEnv(key string) (*time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := time.ParseDuration(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	if val <= 0 {
		return nil, fmt.Errorf("invalid %s value %q: must be positive", key, value)
	}
	return &val, nil
}
