// File path: internal/history/store_test.go
package history

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAppendAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	turns := []struct{ role, content string }{
		{"user", "debug counter.v"},
		{"assistant", "Found 1 issue(s): 1x Off-By-One Error"},
		{"user", "show me the waveform"},
	}
	for _, turn := range turns {
		if err := store.Append(ctx, turn.role, turn.content); err != nil {
			t.Fatalf("Append(%q): %v", turn.role, err)
		}
	}

	messages, err := store.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("got %d messages, want 3", len(messages))
	}
	for i, turn := range turns {
		if messages[i].Role != turn.role || messages[i].Content != turn.content {
			t.Fatalf("message %d = %q/%q, want %q/%q",
				i, messages[i].Role, messages[i].Content, turn.role, turn.content)
		}
	}
}

func TestRecentHonorsLimitChronologically(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	for _, content := range []string{"first", "second", "third", "fourth"} {
		if err := store.Append(ctx, "user", content); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	messages, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(messages))
	}
	if messages[0].Content != "third" || messages[1].Content != "fourth" {
		t.Fatalf("limited window = %q, %q", messages[0].Content, messages[1].Content)
	}
}

func TestAppendRejectsEmptyRole(t *testing.T) {
	store := openTestStore(t)
	if err := store.Append(context.Background(), "  ", "content"); err == nil {
		t.Fatal("expected error for empty role")
	}
}

func TestClear(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	if err := store.Append(ctx, "user", "hello"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	messages, err := store.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(messages) != 0 {
		t.Fatalf("got %d messages after clear", len(messages))
	}
}
