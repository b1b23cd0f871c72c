package service

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"

	"github.com/paperchat/paperchat/internal/domain"
)

// Event marker prefixing every framed line in the chat response body.
const streamEventPrefix = "data: "

// Stream event discriminants.
const (
	EventStream    = "stream"
	EventDocs      = "docs"
	EventModelInfo = "model_info"
	EventDone      = "done"
	EventError     = "error"
)

// StreamEvent is one decoded `data: <json>` line from the chat response.
type StreamEvent struct {
	Type      string            `json:"type"`
	Content   string            `json:"content,omitempty"`
	Documents []domain.Document `json:"documents,omitempty"`
	Model     string            `json:"model,omitempty"`
	Message   string            `json:"message,omitempty"`
}

// ChatStream incrementally decodes the newline-delimited event framing of a
// chat response body. The buffered reader carries a trailing partial line
// across read boundaries, so an event line split over two reads is parsed
// exactly once. Lines without the event marker and lines that fail to parse
// as JSON are skipped.
type ChatStream struct {
	body io.ReadCloser
	r    *bufio.Reader
}

func NewChatStream(body io.ReadCloser) *ChatStream {
	return &ChatStream{
		body: body,
		r:    bufio.NewReader(body),
	}
}

// Next returns the next well-formed event. It returns io.EOF when the body
// is exhausted; a trailing unterminated line is still decoded first.
func (s *ChatStream) Next() (StreamEvent, error) {
	for {
		line, err := s.r.ReadString('\n')

		line = strings.TrimRight(line, "\r\n")
		if payload, ok := strings.CutPrefix(line, streamEventPrefix); ok {
			var ev StreamEvent
			if jsonErr := json.Unmarshal([]byte(payload), &ev); jsonErr == nil {
				return ev, nil
			}
			// Undecodable payload: treated as a fragment of a line we never
			// saw whole. Skip it rather than abort the turn.
		}

		if err != nil {
			return StreamEvent{}, err
		}
	}
}

func (s *ChatStream) Close() error {
	return s.body.Close()
}
