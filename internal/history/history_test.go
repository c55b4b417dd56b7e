package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/ChordShift/core/cas"
	cerrors "github.com/FocuswithJustin/ChordShift/core/errors"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	e := NewEntry("song.txt", "| D |\n", "| E |\n")
	e.FromKey, e.ToKey, e.Mode = "D", "E", "general"
	e.Steps, e.Lines, e.Chords = 2, 1, 1

	saved, err := store.Record(ctx, e)
	if err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	if _, err := uuid.Parse(saved.ID); err != nil {
		t.Errorf("ID %q is not a UUID", saved.ID)
	}
	if saved.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}

	got, err := store.Get(ctx, saved.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.InputDigest != cas.Blake3String("| D |\n") || got.OutputDigest != cas.Blake3String("| E |\n") {
		t.Errorf("digests = %s / %s", got.InputDigest, got.OutputDigest)
	}
	if got.FromKey != "D" || got.ToKey != "E" || got.Steps != 2 || got.Chords != 1 || got.Source != "song.txt" {
		t.Errorf("Get() = %+v", got)
	}
	if !got.CreatedAt.Equal(saved.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, saved.CreatedAt)
	}
}

func TestGetMissing(t *testing.T) {
	store := openTestStore(t)
	_, err := store.Get(context.Background(), "nope")
	if !errors.Is(err, cerrors.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, key := range []string{"A", "B", "C"} {
		e := NewEntry("stdin", key, key)
		e.FromKey, e.ToKey, e.Mode = key, key, "general"
		e.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if _, err := store.Record(ctx, e); err != nil {
			t.Fatalf("Record(%s): %v", key, err)
		}
	}

	all, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(all) != 3 || all[0].FromKey != "C" || all[2].FromKey != "A" {
		t.Errorf("List(0) order = %+v", all)
	}

	two, err := store.List(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(two) != 2 || two[0].FromKey != "C" {
		t.Errorf("List(2) = %+v", two)
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	saved, err := store.Record(context.Background(), NewEntry("a.txt", "x", "y"))
	if err != nil {
		t.Fatal(err)
	}
	store.Close()

	store, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	if _, err := store.Get(context.Background(), saved.ID); err != nil {
		t.Errorf("entry lost after reopen: %v", err)
	}
}
