package repository

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/paperchat/paperchat/internal/config"
	"github.com/paperchat/paperchat/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *HistoryStore {
	t.Helper()
	return NewHistoryStore(filepath.Join(t.TempDir(), "history.json"))
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	msgs, err := newStore(t).Load()
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestSaveCapsAtMostRecent(t *testing.T) {
	store := newStore(t)

	var msgs []domain.Message
	for i := 0; i < 25; i++ {
		msgs = append(msgs, domain.NewMessage(domain.RoleUser, fmt.Sprintf("m%d", i)))
	}
	require.NoError(t, store.Save(msgs))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded, config.HistoryLimit)

	// Oldest evicted, relative order preserved.
	assert.Equal(t, "m5", loaded[0].Content)
	assert.Equal(t, "m24", loaded[len(loaded)-1].Content)
	for i := 1; i < len(loaded); i++ {
		assert.Equal(t, fmt.Sprintf("m%d", i+5), loaded[i].Content)
	}
}

func TestRoundTripPreservesMessages(t *testing.T) {
	store := newStore(t)

	assistant := domain.NewMessage(domain.RoleAssistant, "it is **about** PDFs")
	assistant.Documents = []domain.Document{
		{PageContent: "excerpt", Metadata: domain.DocumentMetadata{Source: "paper.pdf", Page: 7}},
	}
	msgs := []domain.Message{
		domain.NewMessage(domain.RoleUser, "what is this?"),
		assistant,
	}
	require.NoError(t, store.Save(msgs))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	assert.Equal(t, msgs[0].ID, loaded[0].ID)
	assert.Equal(t, msgs[0].Content, loaded[0].Content)
	assert.WithinDuration(t, msgs[0].Timestamp, loaded[0].Timestamp, time.Second)

	require.Len(t, loaded[1].Documents, 1)
	assert.Equal(t, "paper.pdf", loaded[1].Documents[0].Metadata.Source)
	assert.Equal(t, 7, loaded[1].Documents[0].Metadata.Page)
}

func TestLoadClearsStaleStreamingFlag(t *testing.T) {
	store := newStore(t)

	partial := domain.NewMessage(domain.RoleAssistant, "half an ans")
	partial.IsStreaming = true
	require.NoError(t, store.Save([]domain.Message{partial}))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.False(t, loaded[0].IsStreaming, "a crash leftover must not look in-flight")
	assert.Equal(t, "half an ans", loaded[0].Content)
}

func TestClear(t *testing.T) {
	store := newStore(t)

	require.NoError(t, store.Clear(), "clearing a missing cache is not an error")

	require.NoError(t, store.Save([]domain.Message{domain.NewMessage(domain.RoleUser, "hi")}))
	require.NoError(t, store.Clear())

	msgs, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestSaveOverwritesAtomically(t *testing.T) {
	store := newStore(t)

	require.NoError(t, store.Save([]domain.Message{domain.NewMessage(domain.RoleUser, "old")}))
	require.NoError(t, store.Save([]domain.Message{domain.NewMessage(domain.RoleUser, "new")}))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "new", loaded[0].Content)
}
