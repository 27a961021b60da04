package cacheinfra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-registry-cache/cache"
	"github.com/pkg/errors"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog"
	"github.com/viccon/sturdyc"
	"golang.org/x/sync/singleflight"
)

// Interface assertion to ensure Store implements cache.Store
var _ cache.Store = (*Store)(nil)

// entry is the value kept in sturdyc. It is never mutated after Set.
type entry struct {
	value    any
	err      error
	storedAt time.Time
}

// Store is the sturdyc-backed cache.Store.
//
// Entries live in a sharded sturdyc client with continuous eviction disabled, so
// expiry is lazy and evaluated against the store's own clock on every read. Loading
// markers are kept in a separate concurrent map, and in-flight fetches are shared
// through a singleflight group keyed by the cache key.
type Store struct {
	client     *sturdyc.Client[entry]
	serializer cache.KeySerializer
	ttl        time.Duration
	now        func() time.Time
	loading    *xsync.MapOf[string, bool]
	flight     singleflight.Group
	log        zerolog.Logger
}

// Option customizes a Store.
type Option func(*Store)

// WithClock replaces the time source used to stamp and expire entries.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithKeySerializer replaces the default key serializer.
func WithKeySerializer(serializer cache.KeySerializer) Option {
	return func(s *Store) {
		if serializer != nil {
			s.serializer = serializer
		}
	}
}

// WithLogger sets the logger used for cache diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) {
		s.log = log.With().Str("module", "cache").Logger()
	}
}

// NewStore validates cfg and builds a Store.
//
// Capacity, NumShards, TTL and EvictionPercentage are passed to sturdyc.New; TTL is
// also enforced on read against the configured clock.
func NewStore(cfg cache.Config, opts ...Option) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid cache config")
	}

	s := &Store{
		serializer: cache.NewDefaultKeySerializer(),
		ttl:        cfg.TTL,
		now:        time.Now,
		loading:    xsync.NewMapOf[string, bool](),
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.client = sturdyc.New[entry](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		sturdyc.WithNoContinuousEvictions(),
	)

	return s, nil
}

// Key returns the cache key for (typ, opts). It panics when the options cannot be
// serialized: that is a programming error, not a data condition.
func (s *Store) Key(typ cache.Type, opts any) string {
	key, err := s.serializer.SerializeKey(typ, opts)
	if err != nil {
		panic(fmt.Sprintf("cacheinfra: %v", err))
	}
	return key
}

// Get implements cache.Store.Get.
func (s *Store) Get(typ cache.Type, opts any) (cache.Hit, bool) {
	key := s.Key(typ, opts)

	e, ok := s.client.Get(key)
	if !ok {
		return cache.Hit{}, false
	}
	if s.now().Sub(e.storedAt) > s.ttl {
		s.log.Trace().Str("key", key).Msg("stale entry")
		return cache.Hit{}, false
	}

	return cache.Hit{Data: e.value, Err: e.err, FromCache: true}, true
}

// Set implements cache.Store.Set.
func (s *Store) Set(typ cache.Type, data any, opts any, err error) {
	key := s.Key(typ, opts)
	s.client.Set(key, entry{value: data, err: err, storedAt: s.now()})
}

// IsLoading implements cache.Store.IsLoading.
func (s *Store) IsLoading(typ cache.Type, opts any) bool {
	loading, _ := s.loading.Load(s.Key(typ, opts))
	return loading
}

// SetLoading implements cache.Store.SetLoading.
func (s *Store) SetLoading(typ cache.Type, opts any, loading bool) {
	key := s.Key(typ, opts)
	if loading {
		s.loading.Store(key, true)
		return
	}
	s.loading.Delete(key)
}

// Invalidate implements cache.Store.Invalidate.
func (s *Store) Invalidate(typ cache.Type, opts any) {
	key := s.Key(typ, opts)
	s.client.Delete(key)
	s.loading.Delete(key)
}

// InvalidateType implements cache.Store.InvalidateType.
func (s *Store) InvalidateType(typ cache.Type) {
	prefix := cache.TypePrefix(typ)

	removed := 0
	for _, key := range s.client.ScanKeys() {
		if strings.HasPrefix(key, prefix) {
			s.client.Delete(key)
			removed++
		}
	}

	s.loading.Range(func(key string, _ bool) bool {
		if strings.HasPrefix(key, prefix) {
			s.loading.Delete(key)
		}
		return true
	})

	s.log.Debug().Str("type", string(typ)).Int("removed", removed).Msg("invalidated type")
}

// Clear implements cache.Store.Clear.
func (s *Store) Clear() {
	for _, key := range s.client.ScanKeys() {
		s.client.Delete(key)
	}
	s.loading.Clear()
}

// Len reports how many entries are held, including stale ones not yet overwritten.
func (s *Store) Len() int {
	return s.client.Size()
}

// Coalesce implements cache.Store.Coalesce.
//
// The shared call runs on a context detached from the first caller's cancellation so
// that an abandoned fetch still completes and populates the cache. A caller whose ctx
// ends stops waiting and gets ctx.Err().
func (s *Store) Coalesce(ctx context.Context, typ cache.Type, opts any, fn cache.FetchFn[any]) (any, error) {
	key := s.Key(typ, opts)
	fetchCtx := context.WithoutCancel(ctx)

	ch := s.flight.DoChan(key, func() (v any, err error) {
		s.loading.Store(key, true)
		defer s.loading.Delete(key)
		defer func() {
			if r := recover(); r != nil {
				err = errors.Errorf("cacheinfra: fetch for %s panicked: %v", key, r)
			}
		}()

		return fn(fetchCtx)
	})

	select {
	case res := <-ch:
		if res.Shared {
			s.log.Trace().Str("key", key).Msg("shared in-flight result")
		}
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
