package db_test

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shametoflame/ministry/internal/db"
)

func openTestStore(t *testing.T) *db.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	store := db.Open("sqlite", path)
	t.Cleanup(func() { store.Close() })
	if !store.Available() {
		t.Fatal("expected store to be available")
	}
	return store
}

func TestOpenMigratesSchema(t *testing.T) {
	store := openTestStore(t)

	for _, table := range []string{"plans", "progress", "scripture_cache", "current_plan", "saved_plans", "contact_messages", "verse_subscribers", "login_codes"} {
		count, err := store.Count(`SELECT COUNT(*) FROM ` + table)
		if err != nil {
			t.Errorf("table %s not created: %v", table, err)
		}
		if count != 0 {
			t.Errorf("table %s: expected empty, got %d rows", table, count)
		}
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	store := db.Open("sqlite", path)
	err := store.Exec(`INSERT INTO saved_plans (plan_id, saved_at) VALUES ($1, CURRENT_TIMESTAMP)`, "p1")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	store.Close()

	// Reopening the same file re-runs migrations; existing data survives
	store = db.Open("sqlite", path)
	defer store.Close()

	count, err := store.Count(`SELECT COUNT(*) FROM saved_plans`)
	if err != nil {
		t.Fatalf("count after reopen: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 saved plan after reopen, got %d", count)
	}
}

func TestUnavailableStoreDegrades(t *testing.T) {
	// A regular file where the data directory should go makes MkdirAll fail
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "blocker")
	err := os.WriteFile(blocker, []byte("x"), 0644)
	if err != nil {
		t.Fatal(err)
	}

	store := db.Open("sqlite", filepath.Join(blocker, "test.db"))
	if store.Available() {
		t.Fatal("expected store to be unavailable")
	}

	var id string
	err = store.Get(&id, `SELECT plan_id FROM saved_plans WHERE plan_id = $1`, "p1")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Get on unavailable store: expected sql.ErrNoRows, got %v", err)
	}

	var ids []string
	err = store.Select(&ids, `SELECT plan_id FROM saved_plans`)
	if err != nil {
		t.Errorf("Select on unavailable store: expected nil error, got %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("Select on unavailable store: expected no rows, got %d", len(ids))
	}

	err = store.Exec(`INSERT INTO saved_plans (plan_id, saved_at) VALUES ($1, CURRENT_TIMESTAMP)`, "p1")
	if err != nil {
		t.Errorf("Exec on unavailable store: expected silent no-op, got %v", err)
	}

	count, err := store.Count(`SELECT COUNT(*) FROM saved_plans`)
	if err != nil || count != 0 {
		t.Errorf("Count on unavailable store: expected 0, nil; got %d, %v", count, err)
	}

	if err := store.Close(); err != nil {
		t.Errorf("Close on unavailable store: %v", err)
	}
}
