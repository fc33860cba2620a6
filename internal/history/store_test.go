package history_test

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"storyreel/internal/history"
	"storyreel/internal/testsupport"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func addEntry(t *testing.T, store *history.Store, prompt string, createdAt time.Time) *history.Entry {
	t.Helper()
	stored, err := store.Add(context.Background(), &history.Entry{
		Prompt:       prompt,
		Locale:       "en",
		TotalSeconds: 30,
		CutSeconds:   10,
		CutCount:     3,
		CreatedAt:    createdAt,
		Document:     testsupport.SampleDocument(t),
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	return stored
}

func TestAddAssignsIdentityAndTimestamp(t *testing.T) {
	store := openStore(t)
	stored := addEntry(t, store, "p", time.Time{})
	if stored.ID == "" {
		t.Fatal("Add must assign an id")
	}
	if stored.CreatedAt.IsZero() {
		t.Fatal("Add must assign a creation time")
	}
	if stored.Title != "The Last Night" {
		t.Fatalf("title not taken from document: %q", stored.Title)
	}
}

func TestDocumentRoundTripsThroughStore(t *testing.T) {
	store := openStore(t)
	stored := addEntry(t, store, "p", time.Time{})

	loaded, err := store.GetByID(context.Background(), stored.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("stored entry not found")
	}
	if !reflect.DeepEqual(loaded.Document, stored.Document) {
		t.Fatal("document changed across the store round trip")
	}
	if loaded.Prompt != "p" || loaded.Locale != "en" || loaded.TotalSeconds != 30 {
		t.Fatalf("metadata changed across the round trip: %+v", loaded)
	}
}

func TestGetByIDMissing(t *testing.T) {
	store := openStore(t)
	loaded, err := store.GetByID(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if loaded != nil {
		t.Fatal("expected nil for missing id")
	}
}

func TestListMostRecentFirst(t *testing.T) {
	store := openStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	addEntry(t, store, "oldest", base)
	addEntry(t, store, "middle", base.Add(time.Minute))
	addEntry(t, store, "newest", base.Add(2*time.Minute))

	entries, err := store.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Prompt != "newest" || entries[2].Prompt != "oldest" {
		t.Fatalf("entries out of order: %s, %s, %s",
			entries[0].Prompt, entries[1].Prompt, entries[2].Prompt)
	}

	limited, err := store.List(context.Background(), 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(limited) != 2 || limited[0].Prompt != "newest" {
		t.Fatalf("unexpected limited listing: %d entries", len(limited))
	}
}

func TestRemove(t *testing.T) {
	store := openStore(t)
	stored := addEntry(t, store, "p", time.Time{})

	removed, err := store.Remove(context.Background(), stored.ID)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if !removed {
		t.Fatal("expected removal of existing entry")
	}

	removed, err = store.Remove(context.Background(), stored.ID)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if removed {
		t.Fatal("second removal must report missing")
	}
}

func TestClearAndStats(t *testing.T) {
	store := openStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	addEntry(t, store, "a", base)
	addEntry(t, store, "b", base.Add(time.Hour))

	stats, err := store.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Entries != 2 {
		t.Fatalf("expected 2 entries, got %d", stats.Entries)
	}
	if !stats.Latest.Equal(base.Add(time.Hour)) {
		t.Fatalf("unexpected latest timestamp %v", stats.Latest)
	}

	cleared, err := store.Clear(context.Background())
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if cleared != 2 {
		t.Fatalf("expected 2 cleared, got %d", cleared)
	}

	stats, err = store.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Entries != 0 {
		t.Fatalf("expected empty store, got %d entries", stats.Entries)
	}
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	stored := addEntry(t, store, "p", time.Time{})
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := history.Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	loaded, err := reopened.GetByID(context.Background(), stored.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("entry lost across reopen")
	}
}
