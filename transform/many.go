package transform

import "github.com/goliatone/go-registry-cache/airtable"

// Many applies fn to every record in order and drops nil results. fn is one of the
// per-entity transformers, which return nil only for a nil record.
func Many[T any](records []airtable.Record, fn func(*airtable.Record) *T) []T {
	out := make([]T, 0, len(records))
	for i := range records {
		if v := fn(&records[i]); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// One returns the first mapped record, or nil when records is empty.
func One[T any](records []airtable.Record, fn func(*airtable.Record) *T) *T {
	for i := range records {
		if v := fn(&records[i]); v != nil {
			return v
		}
	}
	return nil
}
