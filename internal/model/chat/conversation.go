package chat

import "time"

// Conversation captures a transient in-memory exchange with the assistant.
type Conversation struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}
