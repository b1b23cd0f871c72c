package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/paperchat/paperchat/internal/config"
	"github.com/paperchat/paperchat/internal/domain"
)

// HistoryStore is the capped local message cache: a JSON file holding the
// most recent messages of the conversation. It stands in for the browser's
// localStorage in the original front end.
type HistoryStore struct {
	mu   sync.Mutex
	path string
}

func NewHistoryStore(path string) *HistoryStore {
	return &HistoryStore{path: path}
}

// Load rehydrates the cached conversation. A missing file is an empty
// conversation, not an error. Timestamps come back from their RFC 3339
// serialization; a message persisted mid-stream is a crash leftover and has
// its streaming flag cleared.
func (s *HistoryStore) Load() ([]domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read history: %w", err)
	}

	var msgs []domain.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}

	for i := range msgs {
		msgs[i].IsStreaming = false
	}
	return msgs, nil
}

// Save persists the most recent messages, evicting the oldest beyond the
// cap while keeping relative order. The write is atomic (temp file plus
// rename) so a crash never leaves a half-written cache.
func (s *HistoryStore) Save(msgs []domain.Message) error {
	if len(msgs) > config.HistoryLimit {
		msgs = msgs[len(msgs)-config.HistoryLimit:]
	}

	data, err := json.MarshalIndent(msgs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "history-*.json")
	if err != nil {
		return fmt.Errorf("create temp history: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp history: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace history: %w", err)
	}
	return nil
}

// Clear removes the cache file.
func (s *HistoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove history: %w", err)
	}
	return nil
}
