package cache

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Vodeneev/betpreview/internal/pkg/models"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestGetOrComputeWithinAndAfterTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 9, 9, 12, 0, 0, 0, time.UTC)}
	c := New(NewMemoryStore(), WithClock(clock.Now))

	calls := 0
	compute := func() models.PreviewResult {
		calls++
		return models.PreviewResult{MatchID: "123", HomeTeam: "Alpha FC"}
	}
	ctx := context.Background()
	key := Key("preview", "123")

	first, hit := c.GetOrCompute(ctx, key, DefaultTTL, compute)
	if hit || calls != 1 || first.HomeTeam != "Alpha FC" {
		t.Fatalf("first call: hit=%v calls=%d result=%+v", hit, calls, first)
	}

	clock.Advance(299 * time.Second)
	second, hit := c.GetOrCompute(ctx, key, DefaultTTL, compute)
	if !hit || calls != 1 || second.HomeTeam != "Alpha FC" {
		t.Fatalf("within TTL: hit=%v calls=%d", hit, calls)
	}

	clock.Advance(time.Second)
	if _, hit := c.GetOrCompute(ctx, key, DefaultTTL, compute); hit || calls != 2 {
		t.Fatalf("at TTL: hit=%v calls=%d, want miss and recompute", hit, calls)
	}
}

func TestGetOrComputeKeysAreIndependent(t *testing.T) {
	c := New(NewMemoryStore())
	ctx := context.Background()

	calls := 0
	compute := func() models.PreviewResult {
		calls++
		return models.PreviewResult{}
	}
	c.GetOrCompute(ctx, Key("preview", "1"), time.Minute, compute)
	c.GetOrCompute(ctx, Key("preview", "2"), time.Minute, compute)
	c.GetOrCompute(ctx, Key("other", "1"), time.Minute, compute)
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestGetOrComputeConcurrent(t *testing.T) {
	store := NewMemoryStore()
	c := New(store)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := Key("preview", string(rune('a'+i%4)))
			c.GetOrCompute(ctx, key, time.Minute, func() models.PreviewResult {
				return models.PreviewResult{MatchID: key}
			})
		}(i)
	}
	wg.Wait()

	if store.Len() != 4 {
		t.Errorf("store holds %d entries, want 4", store.Len())
	}
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) (Entry, bool, error) {
	return Entry{}, false, errors.New("connection refused")
}

func (failingStore) Set(context.Context, string, Entry, time.Duration) error {
	return errors.New("connection refused")
}

func TestGetOrComputeStoreFailureIsMiss(t *testing.T) {
	c := New(failingStore{})

	result, hit := c.GetOrCompute(context.Background(), "k", time.Minute, func() models.PreviewResult {
		return models.PreviewResult{MatchID: "9"}
	})
	if hit || result.MatchID != "9" {
		t.Errorf("GetOrCompute() = %+v, %v", result, hit)
	}
}

func TestDefaultIsShared(t *testing.T) {
	if Default() != Default() {
		t.Fatal("Default() must return the same cache")
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client, err := ConnectRedis(addr, "", 0)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	store := NewRedisStore(client)
	defer store.Close()

	ctx := context.Background()
	key := Key("test", time.Now().Format("150405.000000"))
	created := time.Now().UTC().Truncate(time.Second)

	if err := store.Set(ctx, key, Entry{Result: models.PreviewResult{HomeTeam: "Alpha FC"}, CreatedAt: created}, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	entry, ok, err := store.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if entry.Result.HomeTeam != "Alpha FC" || !entry.CreatedAt.Equal(created) {
		t.Errorf("entry = %+v", entry)
	}

	if _, ok, err := store.Get(ctx, key+":missing"); ok || err != nil {
		t.Errorf("missing key: ok=%v err=%v", ok, err)
	}
}
