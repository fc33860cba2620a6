package testsupport

import (
	"context"
	"testing"
	"time"

	"storyreel/internal/config"
	"storyreel/internal/history"
)

// MustOpenStore opens a history.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg.HistoryDBPath())
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// NewEntry persists a sample scenario entry for tests using the provided
// store.
func NewEntry(t testing.TB, store *history.Store, prompt string) *history.Entry {
	t.Helper()

	entry, err := store.Add(context.Background(), &history.Entry{
		RunID:        "test-run",
		Prompt:       prompt,
		Locale:       "en",
		TotalSeconds: 30,
		CutSeconds:   10,
		CutCount:     3,
		CreatedAt:    time.Now().UTC(),
		Document:     SampleDocument(t),
	})
	if err != nil {
		t.Fatalf("store.Add: %v", err)
	}
	return entry
}
