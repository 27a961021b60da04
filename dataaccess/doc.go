// Package dataaccess exposes the registry as cached hooks and invalidating mutations.
//
// # Hooks
//
// A Hook is a read of one query (a table, a record, or the children of a parent
// record) with the uniform Result shape {Data, Loading, Err, FromCache, Refetch}:
//
//	client := dataaccess.NewClient(store, upstream, gate)
//	locations := client.SchoolLocations(schoolID)
//
//	res := locations.Use(ctx)
//	if res.Err != nil {
//		// render the error, nothing was panicked or returned
//	}
//
// Use serves a fresh cache entry without a network call. On a miss it fetches through
// the rate gate, maps the records with the transform package, and writes the outcome
// (data or error) to the store. Concurrent hooks for the same query share one fetch.
// Child hooks with an empty parent id settle immediately with empty data and touch
// neither the cache nor the network.
//
// # Mutations
//
// Mutator wraps create, update and delete. On success it invalidates every cache type
// mapped to the written table, so the next Use of an affected hook fetches again:
//
//	m := dataaccess.NewMutator(store, upstream, gate)
//	_, err := m.UpdateRecord(ctx, dataaccess.TableSchools, id, fields)
//
// Extra types can be invalidated for one call with WithInvalidationTypes.
package dataaccess
