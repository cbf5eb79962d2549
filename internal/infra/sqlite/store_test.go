package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"voicebot/internal/domain"
	"voicebot/internal/infra/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_InsertAndLookup(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := domain.ClipRecord{OwnerID: 42, ClipID: "42__abc", Label: "-my_greeting"}
	if err := store.Insert(ctx, rec); err != nil {
		t.Fatalf("inserting: %v", err)
	}

	got, err := store.Lookup(ctx, "-my_greeting")
	if err != nil {
		t.Fatalf("looking up: %v", err)
	}
	if got.OwnerID != rec.OwnerID || got.ClipID != rec.ClipID || got.Label != rec.Label {
		t.Errorf("lookup = %+v, want %+v", got, rec)
	}
}

func TestStore_LookupMiss(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Lookup(context.Background(), "-missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Lookup(-missing) = %v, want ErrNotFound", err)
	}
}

func TestStore_DuplicateLabel(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := domain.ClipRecord{OwnerID: 1, ClipID: "1__a", Label: "-hello"}
	if err := store.Insert(ctx, first); err != nil {
		t.Fatalf("inserting first: %v", err)
	}

	second := domain.ClipRecord{OwnerID: 2, ClipID: "2__b", Label: "-hello"}
	err := store.Insert(ctx, second)
	if !errors.Is(err, domain.ErrLabelTaken) {
		t.Fatalf("inserting duplicate = %v, want ErrLabelTaken", err)
	}

	// The first record must be untouched.
	got, err := store.Lookup(ctx, "-hello")
	if err != nil {
		t.Fatalf("looking up: %v", err)
	}
	if got.ClipID != "1__a" {
		t.Errorf("lookup after duplicate insert = %q, want 1__a", got.ClipID)
	}
}

func TestStore_ReopenKeepsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	store, err := sqlite.NewStore(path)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	rec := domain.ClipRecord{OwnerID: 7, ClipID: "7__x", Label: "-durable"}
	if err := store.Insert(ctx, rec); err != nil {
		t.Fatalf("inserting: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("closing: %v", err)
	}

	reopened, err := sqlite.NewStore(path)
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Lookup(ctx, "-durable")
	if err != nil {
		t.Fatalf("looking up after reopen: %v", err)
	}
	if got.ClipID != "7__x" {
		t.Errorf("lookup after reopen = %q, want 7__x", got.ClipID)
	}
}
