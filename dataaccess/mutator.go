package dataaccess

import (
	"context"
	"time"

	"github.com/goliatone/go-registry-cache/airtable"
	"github.com/goliatone/go-registry-cache/cache"
	"github.com/goliatone/go-registry-cache/internal/throttle"
	"github.com/pkg/errors"
)

// Mutator writes to upstream and invalidates the cache types of the written table.
//
// Writes go through the same gate as reads. Nothing is written to the cache: a
// successful write only invalidates, so the next read is a real fetch. A failed write
// invalidates nothing.
type Mutator struct {
	deps
}

// NewMutator returns a Mutator.
func NewMutator(store cache.Store, upstream Upstream, gate throttle.Doer, opts ...Option) *Mutator {
	return &Mutator{deps: newDeps(store, upstream, gate, opts)}
}

// CreateRecord creates a record in table.
func (m *Mutator) CreateRecord(ctx context.Context, table string, fields map[string]any) (airtable.Record, error) {
	rec, err := throttle.Run(ctx, m.gate, func(ctx context.Context) (airtable.Record, error) {
		return m.upstream.CreateRecord(ctx, table, fields)
	})
	if err != nil {
		return airtable.Record{}, errors.Wrapf(err, "create %s", table)
	}
	m.invalidate(ctx, table)
	return rec, nil
}

// UpdateRecord patches fields of record id in table.
func (m *Mutator) UpdateRecord(ctx context.Context, table, id string, fields map[string]any) (airtable.Record, error) {
	rec, err := throttle.Run(ctx, m.gate, func(ctx context.Context) (airtable.Record, error) {
		return m.upstream.UpdateRecord(ctx, table, id, fields)
	})
	if err != nil {
		return airtable.Record{}, errors.Wrapf(err, "update %s %s", table, id)
	}
	m.invalidate(ctx, table)
	return rec, nil
}

// DeleteRecord deletes record id from table.
func (m *Mutator) DeleteRecord(ctx context.Context, table, id string) (bool, error) {
	deleted, err := throttle.Run(ctx, m.gate, func(ctx context.Context) (bool, error) {
		return m.upstream.DeleteRecord(ctx, table, id)
	})
	if err != nil {
		return false, errors.Wrapf(err, "delete %s %s", table, id)
	}
	m.invalidate(ctx, table)
	return deleted, nil
}

// EndEducatorSchool ends an educator × school relationship: it sets the end date
// and clears the active flag in a single update.
func (m *Mutator) EndEducatorSchool(ctx context.Context, id string, end time.Time) (airtable.Record, error) {
	if id == "" {
		return airtable.Record{}, errors.New("dataaccess: relationship id is required")
	}
	return m.UpdateRecord(ctx, TableEducatorsXSchools, id, map[string]any{
		"End Date":         end.Format("2006-01-02"),
		"Currently Active": false,
	})
}

func (m *Mutator) invalidate(ctx context.Context, table string) {
	types, ok := TypesForTable(table)
	if !ok {
		m.log.Warn().Str("table", table).Msg("no cache types mapped for table")
	}
	types = dedupeTypes(append(types, invalidationTypesFromContext(ctx)...))

	for _, typ := range types {
		m.store.InvalidateType(typ)
	}
	if len(types) > 0 {
		m.log.Debug().Str("table", table).Interface("types", types).Msg("invalidated after write")
	}
}

type invalidationTypesContextKey struct{}

// WithInvalidationTypes attaches extra cache types to invalidate after a write made
// with the returned context, on top of the written table's own types.
func WithInvalidationTypes(ctx context.Context, types ...cache.Type) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(types) == 0 {
		return ctx
	}

	existing := invalidationTypesFromContext(ctx)
	combined := dedupeTypes(append(existing, types...))
	if len(combined) == 0 {
		return ctx
	}

	return context.WithValue(ctx, invalidationTypesContextKey{}, combined)
}

func invalidationTypesFromContext(ctx context.Context) []cache.Type {
	if ctx == nil {
		return nil
	}
	if types, ok := ctx.Value(invalidationTypesContextKey{}).([]cache.Type); ok {
		return append([]cache.Type(nil), types...)
	}
	return nil
}

func dedupeTypes(types []cache.Type) []cache.Type {
	if len(types) == 0 {
		return nil
	}
	seen := make(map[cache.Type]struct{}, len(types))
	out := make([]cache.Type, 0, len(types))
	for _, typ := range types {
		if typ == "" {
			continue
		}
		if _, ok := seen[typ]; ok {
			continue
		}
		seen[typ] = struct{}{}
		out = append(out, typ)
	}
	return out
}
