package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/paperchat/paperchat/internal/config"
	"github.com/paperchat/paperchat/internal/domain"
	"github.com/paperchat/paperchat/internal/repository"
)

// TurnEvents carries the per-turn presentation callbacks. All callbacks are
// optional and are invoked from the goroutine running Submit.
type TurnEvents struct {
	// Fragment is called with each content fragment as it arrives.
	Fragment func(fragment string)
	// Documents is called when the citation list is replaced.
	Documents func(docs []domain.Document)
	// ModelInfo reports which backend model served the request. Display only.
	ModelInfo func(model string)
}

// Session owns the conversation and runs one turn at a time: it appends the
// user message optimistically, streams the assistant reply and appends the
// finalized assistant message on completion. Submitting a new turn cancels
// any turn still in flight.
type Session struct {
	backend *BackendService
	history *repository.HistoryStore

	mu       sync.Mutex
	model    string
	messages []domain.Message
	cancel   context.CancelFunc
	turn     int
}

// NewSession creates a session rehydrated from the local message cache.
// A broken cache file is logged and treated as an empty conversation.
func NewSession(backend *BackendService, history *repository.HistoryStore, model string) *Session {
	s := &Session{
		backend: backend,
		history: history,
		model:   model,
	}
	msgs, err := history.Load()
	if err != nil {
		slog.Warn("load message history", "error", err)
		msgs = nil
	}
	s.messages = msgs
	return s
}

func (s *Session) Model() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

func (s *Session) SetModel(model string) {
	s.mu.Lock()
	s.model = model
	s.mu.Unlock()
}

// Messages returns a copy of the conversation.
func (s *Session) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Clear drops the conversation and the local cache.
func (s *Session) Clear() error {
	s.mu.Lock()
	s.messages = nil
	s.mu.Unlock()
	return s.history.Clear()
}

// Stop cancels the in-flight turn, if any. Reports whether one was cancelled.
// An aborted turn keeps its user message and commits no assistant message.
func (s *Session) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel == nil {
		return false
	}
	s.cancel()
	s.cancel = nil
	return true
}

// Submit runs one turn: validates the input, appends the user message,
// sends the request and consumes the event stream until done, error or
// cancellation. It returns the finalized assistant message on success and
// (nil, nil) when the turn was aborted.
func (s *Session) Submit(ctx context.Context, text string, events TurnEvents) (*domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > config.MaxInputLen {
		return nil, domain.ErrInputTooLong
	}

	turnCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.cancel != nil {
		// At most one turn in flight: a new submission supersedes the old one.
		s.cancel()
	}
	s.cancel = cancel
	s.turn++
	turn := s.turn

	userMsg := domain.NewMessage(domain.RoleUser, text)
	s.messages = append(s.messages, userMsg)
	window := historyWindow(s.messages[:len(s.messages)-1])
	model := s.model
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if s.turn == turn {
			s.cancel = nil
		}
		s.mu.Unlock()
		cancel()
	}()

	s.persist(nil)

	stream, err := s.backend.Chat(turnCtx, ChatRequest{
		Message:             text,
		ConversationHistory: window,
		Model:               model,
	})
	if err != nil {
		if turnCtx.Err() != nil {
			s.persist(nil)
			return nil, nil
		}
		// Nothing reached the screen yet: remove the user message so the
		// conversation never shows a turn with no matching answer.
		s.rollback(userMsg.ID)
		return nil, fmt.Errorf("send message: %w", err)
	}
	defer stream.Close()

	// Single mutable streaming message, scoped to this turn.
	partial := domain.NewMessage(domain.RoleAssistant, "")
	partial.IsStreaming = true
	var content strings.Builder
	var docs []domain.Document

	for {
		ev, err := stream.Next()
		if err != nil {
			if turnCtx.Err() != nil {
				// Drop the crash-recovery partial from the cache: an aborted
				// turn commits no assistant message anywhere.
				s.persist(nil)
				return nil, nil
			}
			if errors.Is(err, io.EOF) {
				// Connection closed without a done event: keep what arrived.
				return s.finalize(partial, content.String(), docs), nil
			}
			if content.Len() > 0 {
				return s.finalize(partial, content.String(), docs), nil
			}
			s.rollback(userMsg.ID)
			return nil, fmt.Errorf("read stream: %w", err)
		}

		switch ev.Type {
		case EventStream:
			content.WriteString(ev.Content)
			if events.Fragment != nil {
				events.Fragment(ev.Content)
			}
			// Crash recovery: keep the partial reply in the local cache.
			partial.Content = content.String()
			partial.Documents = docs
			s.persist(&partial)
		case EventDocs:
			// Last writer wins within a turn.
			docs = ev.Documents
			if events.Documents != nil {
				events.Documents(docs)
			}
		case EventModelInfo:
			if events.ModelInfo != nil {
				events.ModelInfo(ev.Model)
			}
		case EventDone:
			return s.finalize(partial, content.String(), docs), nil
		case EventError:
			// Partial content is discarded; the user message stays.
			s.persist(nil)
			return nil, &domain.StreamError{Message: ev.Message}
		}
	}
}

// finalize commits the accumulated reply as an immutable assistant message.
func (s *Session) finalize(partial domain.Message, content string, docs []domain.Document) *domain.Message {
	assistant := partial
	assistant.Content = content
	assistant.Documents = docs
	assistant.IsStreaming = false

	s.mu.Lock()
	s.messages = append(s.messages, assistant)
	s.mu.Unlock()

	s.persist(nil)
	return &assistant
}

// rollback removes the optimistically appended user message.
func (s *Session) rollback(id string) {
	s.mu.Lock()
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].ID == id {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	s.persist(nil)
}

// persist saves the conversation, plus the in-flight partial message when
// one exists, to the local cache.
func (s *Session) persist(partial *domain.Message) {
	s.mu.Lock()
	snapshot := make([]domain.Message, len(s.messages), len(s.messages)+1)
	copy(snapshot, s.messages)
	s.mu.Unlock()

	if partial != nil {
		snapshot = append(snapshot, *partial)
	}
	if err := s.history.Save(snapshot); err != nil {
		slog.Warn("persist message history", "error", err)
	}
}

// historyWindow converts the most recent messages into the wire-level
// conversational context.
func historyWindow(msgs []domain.Message) []HistoryEntry {
	start := 0
	if len(msgs) > config.ContextWindow {
		start = len(msgs) - config.ContextWindow
	}
	window := make([]HistoryEntry, 0, len(msgs)-start)
	for _, m := range msgs[start:] {
		window = append(window, HistoryEntry{Role: m.Role, Content: m.Content})
	}
	return window
}
