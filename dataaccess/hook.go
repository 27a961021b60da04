package dataaccess

import (
	"context"
	"reflect"
	"sync"

	"github.com/goliatone/go-registry-cache/airtable"
	"github.com/goliatone/go-registry-cache/cache"
)

// State is the lifecycle position of a Hook.
type State int

const (
	Idle State = iota
	Loading
	Ready
	Errored
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Errored:
		return "errored"
	}
	return "unknown"
}

// ListOptions narrows list hooks. The zero value fetches the first page of the
// table's default view.
type ListOptions struct {
	View       string
	MaxRecords int
	Sort       []airtable.SortField
}

// Params is the semantic dependency of a hook: the record or parent id plus list
// options. A hook only resets when its Params change. Hooks of the same kind with
// equal Params share a cache entry.
type Params struct {
	ID   string
	List ListOptions
}

// Result is the uniform shape every hook exposes. Exactly one of Data and Err is
// meaningful once the hook has settled.
type Result[T any] struct {
	Data      T
	Loading   bool
	Err       error
	FromCache bool
	Refetch   func(ctx context.Context) Result[T]
}

// queryKey is the cache options value of a hook. Scope separates hooks that share a
// cache type but filter on different links, such as relationships by school and by
// educator.
type queryKey struct {
	Scope string
	ID    string
	List  ListOptions
}

// fetcher loads a hook's data from upstream for p.
type fetcher[T any] func(ctx context.Context, p Params) (T, error)

// Hook is a cached, de-duplicated view of one query.
//
// States move Idle -> Loading -> Ready|Errored, and back to Loading on Refetch or on
// a read after the cache entry was invalidated. A fresh cache entry settles the hook
// without passing through Loading. Errors are captured in the Result, never returned.
type Hook[T any] struct {
	store    cache.Store
	typ      cache.Type
	scope    string
	fetch    fetcher[T]
	empty    func() T
	byParent bool

	mu     sync.Mutex
	params Params
	gen    uint64
	state  State
	result Result[T]
}

func newHook[T any](store cache.Store, typ cache.Type, scope string, p Params, byParent bool, empty func() T, fetch fetcher[T]) *Hook[T] {
	h := &Hook[T]{
		store:    store,
		typ:      typ,
		scope:    scope,
		fetch:    fetch,
		empty:    empty,
		byParent: byParent,
		params:   p,
	}
	h.result = h.blank()
	return h
}

// Type returns the cache type the hook reads.
func (h *Hook[T]) Type() cache.Type { return h.typ }

// Params returns the hook's current dependency.
func (h *Hook[T]) Params() Params {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.params
}

// State returns the hook's lifecycle state.
func (h *Hook[T]) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Snapshot returns the last settled result without doing any work.
func (h *Hook[T]) Snapshot() Result[T] {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.result
}

// Bind changes the hook's dependency. The hook goes back to Idle only when p differs
// from the current Params; an in-flight load for the old Params is discarded when it
// settles.
func (h *Hook[T]) Bind(p Params) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if reflect.DeepEqual(h.params, p) {
		return
	}
	h.params = p
	h.gen++
	h.state = Idle
	h.result = h.blank()
}

// Use resolves the hook for its current Params, serving a fresh cache entry when one
// exists and otherwise fetching. It blocks until the hook settles or ctx is done.
func (h *Hook[T]) Use(ctx context.Context) Result[T] {
	return h.load(ctx, false)
}

// Refetch skips the cache read but still shares an in-flight fetch for the same key
// and still writes the outcome through to the cache.
func (h *Hook[T]) Refetch(ctx context.Context) Result[T] {
	return h.load(ctx, true)
}

func (h *Hook[T]) load(ctx context.Context, force bool) Result[T] {
	h.mu.Lock()
	p, gen := h.params, h.gen
	h.mu.Unlock()

	// A child hook without a parent is ready and empty; nothing is fetched or cached.
	if h.byParent && p.ID == "" {
		return h.settle(gen, h.empty(), nil, false)
	}

	key := queryKey{Scope: h.scope, ID: p.ID, List: p.List}

	if !force {
		if v, ok, err := cache.Lookup[T](h.store, h.typ, key); ok {
			return h.settle(gen, v, err, true)
		}
	}

	h.mu.Lock()
	if h.gen == gen {
		h.state = Loading
		h.result.Loading = true
	}
	h.mu.Unlock()

	v, fromCache, err := cache.GetOrFetch(ctx, h.store, h.typ, key, force, func(ctx context.Context) (T, error) {
		return h.fetch(ctx, p)
	})
	return h.settle(gen, v, err, fromCache)
}

func (h *Hook[T]) settle(gen uint64, v T, err error, fromCache bool) Result[T] {
	h.mu.Lock()
	defer h.mu.Unlock()

	res := Result[T]{FromCache: fromCache, Refetch: h.Refetch}
	if err != nil {
		res.Data = h.empty()
		res.Err = err
	} else {
		res.Data = v
	}

	// Params changed while loading: report the outcome but keep the hook's own state.
	if h.gen != gen {
		return res
	}

	h.result = res
	if err != nil {
		h.state = Errored
	} else {
		h.state = Ready
	}
	return res
}

func (h *Hook[T]) blank() Result[T] {
	return Result[T]{Data: h.empty(), Refetch: h.Refetch}
}
