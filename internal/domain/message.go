package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn in the conversation. Assistant messages may carry
// citation Documents. A message is mutated in place only while IsStreaming
// is set; after that it is immutable except for eviction.
type Message struct {
	ID          string     `json:"id"`
	Role        string     `json:"role"`
	Content     string     `json:"content"`
	Documents   []Document `json:"documents,omitempty"`
	Timestamp   time.Time  `json:"timestamp"`
	IsStreaming bool       `json:"isStreaming,omitempty"`
}

// NewMessage creates a message with a fresh ID and the current time.
func NewMessage(role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// Document is a backend-supplied excerpt cited by an assistant message.
type Document struct {
	PageContent string           `json:"pageContent"`
	Metadata    DocumentMetadata `json:"metadata"`
}

type DocumentMetadata struct {
	Source string `json:"sourcePath,omitempty"`
	Page   int    `json:"pageNumber,omitempty"`
}
