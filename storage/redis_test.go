package storage

import (
	"context"
	"reflect"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"taskly-api/domain"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStoreSaveLoadRoundTrip(t *testing.T) {
	_, client := newTestRedis(t)
	store := NewRedisStore(client, "")
	ctx := context.Background()

	saved := domain.PersistedBoard{
		"todo":        {"write code", "review"},
		"in-progress": {},
		"done":        {"ship"},
	}
	if err := store.Save(ctx, saved); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatalf("expected persisted board")
	}
	if !reflect.DeepEqual(got, saved) {
		t.Fatalf("round trip mismatch:\n got %#v\nwant %#v", got, saved)
	}
}

func TestRedisStoreLoadMissingKey(t *testing.T) {
	_, client := newTestRedis(t)
	store := NewRedisStore(client, "custom-key")

	got, ok, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok || got != nil {
		t.Fatalf("expected nothing persisted, got %#v", got)
	}
}

func TestRedisStoreLoadMalformedValueDeletesKey(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisStore(client, "")
	if err := mr.Set(DefaultKey, "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, ok, err := store.Load(context.Background())
	if ok {
		t.Fatalf("malformed value must not hydrate")
	}
	if err == nil {
		t.Fatalf("expected decode error to be reported")
	}
	if mr.Exists(DefaultKey) {
		t.Fatalf("malformed value should have been deleted")
	}
}

func TestRedisStoreSaveOverwrites(t *testing.T) {
	_, client := newTestRedis(t)
	store := NewRedisStore(client, "")
	ctx := context.Background()

	if err := store.Save(ctx, domain.PersistedBoard{"todo": {"old"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, domain.PersistedBoard{"todo": {"new"}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok, err := store.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("load: %v %v", ok, err)
	}
	if !reflect.DeepEqual(got["todo"], []string{"new"}) {
		t.Fatalf("expected last save to win, got %#v", got["todo"])
	}
}
