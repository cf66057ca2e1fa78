package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	return NewStore(client, time.Minute), mr
}

func TestPutGetDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	sess := Session{LoggedIn: true, UID: "uid-1", Email: "a@x.com"}
	if err := store.Put(ctx, "sid-1", sess); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := store.Get(ctx, "sid-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || got != sess {
		t.Fatalf("unexpected session: ok=%v %+v", ok, got)
	}

	if err := store.Delete(ctx, "sid-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, ok, err = store.Get(ctx, "sid-1")
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if ok || got != LoggedOut() {
		t.Fatalf("expected logged-out default after delete, got ok=%v %+v", ok, got)
	}
}

func TestGetMissReturnsLoggedOut(t *testing.T) {
	store, _ := newTestStore(t)

	got, ok, err := store.Get(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("expected miss for unknown session id")
	}
	if got.LoggedIn || got.UID != "" || got.Email != "" {
		t.Fatalf("miss must be the zero session, got %+v", got)
	}
}

func TestExpiredSessionReadsAsLoggedOut(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "sid-2", Session{LoggedIn: true, UID: "uid-2"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	_, ok, err := store.Get(ctx, "sid-2")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("expected expired session to read as a miss")
	}
}
