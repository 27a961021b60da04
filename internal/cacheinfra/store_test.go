package cacheinfra

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goliatone/go-registry-cache/cache"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)}
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

func newTestStore(t *testing.T, clock *fakeClock) *Store {
	t.Helper()
	cfg := cache.Config{
		Capacity:           100,
		NumShards:          2,
		TTL:                5 * time.Minute,
		EvictionPercentage: 10,
	}
	store, err := NewStore(cfg, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}
	return store
}

func TestNewStore_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  cache.Config
	}{
		{name: "zero capacity", cfg: cache.Config{Capacity: 0, NumShards: 2, TTL: time.Minute, EvictionPercentage: 10}},
		{name: "zero shards", cfg: cache.Config{Capacity: 10, NumShards: 0, TTL: time.Minute, EvictionPercentage: 10}},
		{name: "zero ttl", cfg: cache.Config{Capacity: 10, NumShards: 2, TTL: 0, EvictionPercentage: 10}},
		{name: "eviction too high", cfg: cache.Config{Capacity: 10, NumShards: 2, TTL: time.Minute, EvictionPercentage: 101}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewStore(tt.cfg)
			if err == nil {
				t.Fatal("expected validation error but got none")
			}
			if store != nil {
				t.Error("expected store to be nil when error occurs")
			}
		})
	}
}

func TestNewStore_DefaultConfig(t *testing.T) {
	store, err := NewStore(cache.DefaultConfig())
	if err != nil {
		t.Fatalf("NewStore(DefaultConfig()) failed: %v", err)
	}
	if store.ttl != cache.DefaultTTL {
		t.Errorf("expected ttl %v, got %v", cache.DefaultTTL, store.ttl)
	}
}

func TestStore_SetThenGetReturnsStoredData(t *testing.T) {
	store := newTestStore(t, newFakeClock())

	data := []map[string]string{{"id": "rec1", "name": "Acorn Montessori"}}
	opts := map[string]any{"view": "Grid", "maxRecords": 100}
	store.Set("schools", data, opts, nil)

	hit, ok := store.Get("schools", map[string]any{"maxRecords": 100, "view": "Grid"})
	if !ok {
		t.Fatal("expected cache hit")
	}
	if !hit.FromCache {
		t.Error("expected FromCache to be true")
	}
	if hit.Err != nil {
		t.Errorf("expected nil error, got %v", hit.Err)
	}
	if !reflect.DeepEqual(hit.Data, data) {
		t.Errorf("expected %v, got %v", data, hit.Data)
	}
}

func TestStore_StoresErrors(t *testing.T) {
	store := newTestStore(t, newFakeClock())
	boom := errors.New("503 from upstream")

	store.Set("charters", nil, "rec9", boom)

	hit, ok := store.Get("charters", "rec9")
	if !ok {
		t.Fatal("expected cache hit for error entry")
	}
	if !errors.Is(hit.Err, boom) {
		t.Errorf("expected stored error, got %v", hit.Err)
	}
}

func TestStore_LazyExpiry(t *testing.T) {
	clock := newFakeClock()
	store := newTestStore(t, clock)

	store.Set("educators", "value", nil, nil)

	clock.Advance(5 * time.Minute)
	if _, ok := store.Get("educators", nil); !ok {
		t.Fatal("entry exactly at TTL should still be served")
	}

	clock.Advance(time.Millisecond)
	if _, ok := store.Get("educators", nil); ok {
		t.Fatal("expected miss after TTL elapsed")
	}

	if store.Len() != 1 {
		t.Errorf("stale entry should not be evicted proactively, len=%d", store.Len())
	}

	store.Set("educators", "fresh", nil, nil)
	hit, ok := store.Get("educators", nil)
	if !ok || hit.Data != "fresh" {
		t.Errorf("expected overwrite to be served, got %+v (ok=%v)", hit, ok)
	}
}

func TestStore_InvalidateExactKey(t *testing.T) {
	store := newTestStore(t, newFakeClock())

	store.Set("schoolLocations", "x", map[string]string{"schoolId": "s1"}, nil)
	store.Set("schoolLocations", "y", map[string]string{"schoolId": "s2"}, nil)
	store.SetLoading("schoolLocations", map[string]string{"schoolId": "s1"}, true)

	store.Invalidate("schoolLocations", map[string]string{"schoolId": "s1"})

	if _, ok := store.Get("schoolLocations", map[string]string{"schoolId": "s1"}); ok {
		t.Error("expected s1 to be invalidated")
	}
	if store.IsLoading("schoolLocations", map[string]string{"schoolId": "s1"}) {
		t.Error("expected loading marker to be removed")
	}
	if _, ok := store.Get("schoolLocations", map[string]string{"schoolId": "s2"}); !ok {
		t.Error("expected s2 to survive")
	}
}

func TestStore_InvalidateTypeMissesForEveryOption(t *testing.T) {
	store := newTestStore(t, newFakeClock())

	store.Set("schoolLocations", "X", map[string]string{"schoolId": "s1"}, nil)
	store.Set("schoolLocations", "Y", map[string]string{"schoolId": "s2"}, nil)
	store.Set("schoolNotes", "Z", map[string]string{"schoolId": "s1"}, nil)
	store.Set("educators", "E", nil, nil)
	store.Set("educatorsXSchools", "EXS", map[string]string{"educatorId": "e1"}, nil)

	store.InvalidateType("schoolLocations")

	for _, opts := range []map[string]string{{"schoolId": "s1"}, {"schoolId": "s2"}} {
		if _, ok := store.Get("schoolLocations", opts); ok {
			t.Errorf("expected miss for %v after InvalidateType", opts)
		}
	}
	if _, ok := store.Get("schoolNotes", map[string]string{"schoolId": "s1"}); !ok {
		t.Error("other types must not be invalidated")
	}

	store.InvalidateType("educators")
	if _, ok := store.Get("educators", nil); ok {
		t.Error("expected educators to be invalidated")
	}
	if _, ok := store.Get("educatorsXSchools", map[string]string{"educatorId": "e1"}); !ok {
		t.Error("educators prefix must not clobber educatorsXSchools")
	}
}

func TestStore_LoadingMarkersAreIndependent(t *testing.T) {
	store := newTestStore(t, newFakeClock())

	if store.IsLoading("grants", "s1") {
		t.Fatal("expected no loading marker initially")
	}

	store.SetLoading("grants", "s1", true)
	if !store.IsLoading("grants", "s1") {
		t.Fatal("expected loading marker to be set")
	}
	if _, ok := store.Get("grants", "s1"); ok {
		t.Error("loading marker must not create an entry")
	}

	store.Set("grants", 1, "s1", nil)
	if !store.IsLoading("grants", "s1") {
		t.Error("Set must not clear the loading marker")
	}

	store.SetLoading("grants", "s1", false)
	if store.IsLoading("grants", "s1") {
		t.Error("expected loading marker to be cleared")
	}
}

func TestStore_Clear(t *testing.T) {
	store := newTestStore(t, newFakeClock())

	store.Set("schools", 1, nil, nil)
	store.Set("loans", 2, "s1", nil)
	store.SetLoading("loans", "s2", true)

	store.Clear()

	if _, ok := store.Get("schools", nil); ok {
		t.Error("expected schools to be cleared")
	}
	if _, ok := store.Get("loans", "s1"); ok {
		t.Error("expected loans to be cleared")
	}
	if store.IsLoading("loans", "s2") {
		t.Error("expected loading markers to be cleared")
	}
}

func TestStore_PanicsOnUnserializableOptions(t *testing.T) {
	store := newTestStore(t, newFakeClock())

	defer func() {
		if recover() == nil {
			t.Error("expected panic for function options")
		}
	}()

	store.Get("schools", func() {})
}

func TestStore_CoalesceSharesOneCall(t *testing.T) {
	store := newTestStore(t, newFakeClock())

	var calls int32
	release := make(chan struct{})
	started := make(chan struct{})

	fetch := func(ctx context.Context) (any, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
		}
		<-release
		return "shared", nil
	}

	const callers = 8
	results := make([]any, callers)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = store.Coalesce(context.Background(), "schools", nil, fetch)
	}()
	<-started

	if !store.IsLoading("schools", nil) {
		t.Error("expected loading marker while fetch is in flight")
	}

	for i := 1; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = store.Coalesce(context.Background(), "schools", nil, fetch)
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected exactly one underlying call, got %d", got)
	}
	for i, r := range results {
		if r != "shared" {
			t.Errorf("caller %d got %v", i, r)
		}
	}
	if store.IsLoading("schools", nil) {
		t.Error("expected loading marker to be cleared after settlement")
	}
}

func TestStore_CoalesceClearsMarkerOnFailureAndPanic(t *testing.T) {
	store := newTestStore(t, newFakeClock())

	_, err := store.Coalesce(context.Background(), "loans", "s1", func(ctx context.Context) (any, error) {
		return nil, errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if store.IsLoading("loans", "s1") {
		t.Error("marker should be cleared after failure")
	}

	_, err = store.Coalesce(context.Background(), "loans", "s1", func(ctx context.Context) (any, error) {
		panic("transformer bug")
	})
	if err == nil {
		t.Fatal("expected panic to surface as error")
	}
	if store.IsLoading("loans", "s1") {
		t.Error("marker should be cleared after panic")
	}
}

func TestStore_CoalesceCallerCancellation(t *testing.T) {
	store := newTestStore(t, newFakeClock())

	release := make(chan struct{})
	done := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		defer close(done)
		_, err := store.Coalesce(ctx, "grants", nil, func(fetchCtx context.Context) (any, error) {
			<-release
			if fetchCtx.Err() != nil {
				return nil, fetchCtx.Err()
			}
			store.Set("grants", "late", nil, nil)
			return "late", nil
		})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	}()

	cancel()
	<-done
	close(release)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if hit, ok := store.Get("grants", nil); ok && hit.Data == "late" {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Error("abandoned fetch should still populate the cache")
}
