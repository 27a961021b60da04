package cache

import (
	"context"

	"github.com/pkg/errors"
)

// Type names a family of cached queries, usually one per upstream table.
type Type string

// ErrInvalidResultType is returned when a cached value does not have the type the caller expects.
var ErrInvalidResultType = errors.New("cache: cached value has unexpected type")

// KeySerializer builds a cache key from a cache type and an options value.
// Equivalent options must always yield the same key.
type KeySerializer interface {
	SerializeKey(typ Type, opts any) (string, error)
}

// Hit is the result of a successful cache read.
type Hit struct {
	Data      any
	Err       error
	FromCache bool
}

// FetchFn is the function signature Store.Coalesce expects when fetching from the source of truth.
type FetchFn[T any] func(ctx context.Context) (T, error)

// Store is the process-wide cache for query results. It keeps entries (data and error)
// per key, an independent loading marker per key, and an in-flight registry that makes
// concurrent fetches for the same key share one call.
type Store interface {
	// Get returns the entry for (typ, opts), or false when it is absent or expired.
	Get(typ Type, opts any) (Hit, bool)
	// Set overwrites the entry for (typ, opts) and stamps it with the current time.
	Set(typ Type, data any, opts any, err error)

	IsLoading(typ Type, opts any) bool
	SetLoading(typ Type, opts any, loading bool)

	// Invalidate removes the entry and the loading marker of one exact key.
	Invalidate(typ Type, opts any)
	// InvalidateType removes every entry of the given type, regardless of options.
	InvalidateType(typ Type)
	// Clear drops everything.
	Clear()

	// Coalesce runs fn at most once at a time per key. Callers arriving while a call is
	// in flight wait for and share its result. The loading marker is held while fn runs.
	Coalesce(ctx context.Context, typ Type, opts any, fn FetchFn[any]) (any, error)
}

// GetOrFetch is a type-safe read-through helper. It serves fresh entries from the store and
// otherwise runs fetchFn through Store.Coalesce, writing the outcome (data or error) back.
// When force is true the initial cache read is skipped but the call is still coalesced and
// still written through.
func GetOrFetch[T any](ctx context.Context, store Store, typ Type, opts any, force bool, fetchFn FetchFn[T]) (T, bool, error) {
	if !force {
		if v, ok, err := Lookup[T](store, typ, opts); ok {
			return v, true, err
		}
	}

	result, err := store.Coalesce(ctx, typ, opts, func(ctx context.Context) (any, error) {
		// A caller that missed the cache may arrive just after another flight settled.
		if !force {
			if hit, ok := store.Get(typ, opts); ok {
				return hit.Data, hit.Err
			}
		}
		v, err := fetchFn(ctx)
		if err != nil {
			var zero T
			store.Set(typ, zero, opts, err)
			return zero, err
		}
		store.Set(typ, v, opts, nil)
		return v, nil
	})

	v, terr := typed[T](result, err)
	return v, false, terr
}

// Lookup is the typed form of Store.Get. ok is false on a miss; err is the stored
// error, or ErrInvalidResultType when the entry holds a different type.
func Lookup[T any](store Store, typ Type, opts any) (T, bool, error) {
	hit, ok := store.Get(typ, opts)
	if !ok {
		var zero T
		return zero, false, nil
	}
	v, err := typed[T](hit.Data, hit.Err)
	return v, true, err
}

func typed[T any](value any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if value == nil {
		return zero, nil
	}
	v, ok := value.(T)
	if !ok {
		return zero, errors.Wrapf(ErrInvalidResultType, "got %T, want %T", value, zero)
	}
	return v, nil
}
