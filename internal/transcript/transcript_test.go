package transcript

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	return NewStore(client, time.Hour)
}

func TestAppendPreservesOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	turns := []Turn{
		{Prompt: "Hello", Reply: "Hi there"},
		{Prompt: SystemSpeaker, Reply: "chat error: upstream down"},
		{Prompt: "Still there?", Reply: "Yes"},
	}
	for _, turn := range turns {
		if err := store.Append(ctx, "sid-1", turn); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := store.List(ctx, "sid-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != len(turns) {
		t.Fatalf("expected %d turns, got %d", len(turns), len(got))
	}
	for i := range turns {
		if got[i] != turns[i] {
			t.Fatalf("turn %d mismatch: got %+v want %+v", i, got[i], turns[i])
		}
	}
}

func TestTranscriptsAreIsolatedPerSession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Append(ctx, "sid-a", Turn{Prompt: "a", Reply: "ra"}); err != nil {
		t.Fatalf("append a: %v", err)
	}
	if err := store.Append(ctx, "sid-b", Turn{Prompt: "b", Reply: "rb"}); err != nil {
		t.Fatalf("append b: %v", err)
	}

	got, err := store.List(ctx, "sid-a")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Prompt != "a" {
		t.Fatalf("unexpected transcript for sid-a: %+v", got)
	}
}

func TestClearEmptiesTranscript(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Append(ctx, "sid-1", Turn{Prompt: "Hello", Reply: "Hi"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.Clear(ctx, "sid-1"); err != nil {
		t.Fatalf("clear: %v", err)
	}

	got, err := store.List(ctx, "sid-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty transcript after clear, got %d turns", len(got))
	}
}
