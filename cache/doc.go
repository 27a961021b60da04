// Package cache defines the query-result cache used by the registry data layer.
//
// # Overview
//
// The package exports the contracts and helpers shared by every cached read:
//
//   - Store: a process-wide, time-boxed store of fetch results (data and error), with an
//     independent loading marker per key and an in-flight registry for de-duplication
//   - KeySerializer: builds stable cache keys from a cache Type and an options value
//   - GetOrFetch: a typed read-through helper built on Store
//
// The default Store implementation lives in internal/cacheinfra and is wired by pkg/di.
//
// # Keys
//
// A key is the cache type, the KeySeparator, and the serialized options:
//
//	serializer := cache.NewDefaultKeySerializer()
//	key, err := serializer.SerializeKey("schoolLocations", map[string]string{"schoolId": "rec1"})
//	// schoolLocations::map[1]:{schoolId=rec1}
//
// Maps are serialized with sorted keys and structs with their exported fields in
// declaration order, so two equivalent option values always share a key. Segments longer
// than MaxInlineOptionsLength are replaced by an xxhash digest to keep keys short when
// options carry long filter formulas.
//
// Options holding functions or channels have no stable representation. Serializing them
// returns ErrUnserializableOptions; stores treat that as a programming error and panic.
//
// # Invalidation
//
// Store.Invalidate drops one exact key. Store.InvalidateType drops every key that starts
// with TypePrefix(typ), which is what writers use: a mutation never knows the exact options
// a reader used.
//
// # Expiry
//
// Entries older than Config.TTL are reported as misses. Nothing is evicted in the
// background; a stale entry is simply overwritten by the next fetch.
package cache
