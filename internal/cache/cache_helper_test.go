package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type cachedThing struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func newTestCache(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestCacheHelper_SetGet(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestCache(t)
	helper := NewCacheHelper(client, "branch:")

	want := cachedThing{ID: "b1", Title: "Go Basics"}
	if err := helper.Set(ctx, "id:b1", want, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var got cachedThing
	if err := helper.Get(ctx, "id:b1", &got); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != want {
		t.Errorf("Got %+v, want %+v", got, want)
	}
}

func TestCacheHelper_GetMiss(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestCache(t)
	helper := NewCacheHelper(client, "branch:")

	var got cachedThing
	err := helper.Get(ctx, "id:missing", &got)
	if !errors.Is(err, ErrCacheNotFound) {
		t.Fatalf("Expected ErrCacheNotFound, got %v", err)
	}
}

func TestCacheHelper_NilClientDegradesGracefully(t *testing.T) {
	ctx := context.Background()
	helper := NewCacheHelper(nil, "branch:")

	if err := helper.Set(ctx, "id:b1", cachedThing{}, time.Minute); err != nil {
		t.Errorf("Set with nil client must be a no-op, got %v", err)
	}

	var got cachedThing
	if err := helper.Get(ctx, "id:b1", &got); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("Expected ErrCacheNotAvailable, got %v", err)
	}
}

func TestCacheHelper_CacheOrExecute(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestCache(t)
	helper := NewCacheHelper(client, "branch:")

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return cachedThing{ID: "b1", Title: "Go Basics"}, nil
	}

	var first cachedThing
	if err := helper.CacheOrExecute(ctx, "id:b1", &first, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute failed: %v", err)
	}

	var second cachedThing
	if err := helper.CacheOrExecute(ctx, "id:b1", &second, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute failed: %v", err)
	}

	if calls != 1 {
		t.Errorf("Expected fetch to run once, ran %d times", calls)
	}
	if first != second {
		t.Errorf("Cached value differs: %+v vs %+v", first, second)
	}
}

func TestCacheHelper_Expiry(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestCache(t)
	helper := NewCacheHelper(client, "exists:")

	if err := helper.Set(ctx, "branch:b1", true, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	var got bool
	if err := helper.Get(ctx, "branch:b1", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Fatalf("Expected expiry, got %v", err)
	}
}

func TestCacheManager_InvalidateBranch(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestCache(t)
	cm := NewCacheManager(client)

	if err := cm.Branch.Set(ctx, "leaves:b1", []string{"l1"}, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := cm.Exists.Set(ctx, "branch:b1", true, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	cm.InvalidateBranch(ctx, "b1")

	var leaves []string
	if err := cm.Branch.Get(ctx, "leaves:b1", &leaves); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("Leaf set should be invalidated, got %v", err)
	}
	var exists bool
	if err := cm.Exists.Get(ctx, "branch:b1", &exists); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("Existence fact should be invalidated, got %v", err)
	}
}
