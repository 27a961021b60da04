// Package transform maps raw upstream records into domain entities.
//
// Every domain field is bound to a Field: an ordered list of candidate source
// field names. The first candidate that is present and non-empty wins. Missing or
// malformed values degrade to a fixed default: "", an empty slice, false, 0 or a nil
// date. Transformers never fail.
package transform

import (
	"strings"
	"time"

	"github.com/goliatone/go-registry-cache/airtable"
	"github.com/spf13/cast"
)

// Field is an ordered list of candidate source field names.
type Field []string

// Lookup returns the raw value of the first present, non-empty candidate.
func (f Field) Lookup(r *airtable.Record) (any, bool) {
	if r == nil {
		return nil, false
	}
	for _, name := range f {
		v, ok := r.Fields[name]
		if !ok || empty(v) {
			continue
		}
		return v, true
	}
	return nil, false
}

// String reads a scalar. Multi-valued fields are joined with ", ".
func (f Field) String(r *airtable.Record) string {
	v, ok := f.Lookup(r)
	if !ok {
		return ""
	}
	if list, ok := asList(v); ok {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			if s := strings.TrimSpace(cast.ToString(item)); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	}
	return strings.TrimSpace(cast.ToString(v))
}

// First reads a scalar, flattening a multi-valued field to its first element.
// Linked-record and lookup fields arrive as arrays even when they hold one value.
func (f Field) First(r *airtable.Record) string {
	v, ok := f.Lookup(r)
	if !ok {
		return ""
	}
	if list, ok := asList(v); ok {
		for _, item := range list {
			if s := strings.TrimSpace(cast.ToString(item)); s != "" {
				return s
			}
		}
		return ""
	}
	return strings.TrimSpace(cast.ToString(v))
}

// Strings reads a multi-valued field, wrapping a scalar in a single-element slice.
func (f Field) Strings(r *airtable.Record) []string {
	v, ok := f.Lookup(r)
	if !ok {
		return []string{}
	}
	list, ok := asList(v)
	if !ok {
		if s := strings.TrimSpace(cast.ToString(v)); s != "" {
			return []string{s}
		}
		return []string{}
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s := strings.TrimSpace(cast.ToString(item)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Bool reads a checkbox. Checkbox columns are omitted upstream when unchecked, so
// absence reads as false. "yes" and "checked" count as true.
func (f Field) Bool(r *airtable.Record) bool {
	v, ok := f.Lookup(r)
	if !ok {
		return false
	}
	if s, ok := v.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "yes", "y", "checked", "x":
			return true
		}
	}
	if list, ok := asList(v); ok {
		if len(list) == 0 {
			return false
		}
		v = list[0]
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false
	}
	return b
}

// Number reads a numeric field; rollups that arrive as arrays use their first element.
func (f Field) Number(r *airtable.Record) float64 {
	v, ok := f.Lookup(r)
	if !ok {
		return 0
	}
	if list, ok := asList(v); ok {
		if len(list) == 0 {
			return 0
		}
		v = list[0]
	}
	n, err := cast.ToFloat64E(v)
	if err != nil {
		return 0
	}
	return n
}

var currencyReplacer = strings.NewReplacer("$", "", ",", "", " ", "")

// Currency reads an amount that may be formatted text such as "$12,500.00".
func (f Field) Currency(r *airtable.Record) float64 {
	v, ok := f.Lookup(r)
	if !ok {
		return 0
	}
	if list, ok := asList(v); ok {
		if len(list) == 0 {
			return 0
		}
		v = list[0]
	}
	if s, ok := v.(string); ok {
		v = currencyReplacer.Replace(s)
	}
	n, err := cast.ToFloat64E(v)
	if err != nil {
		return 0
	}
	return n
}

// Date reads a date or datetime. Unparseable values read as nil.
func (f Field) Date(r *airtable.Record) *time.Time {
	v, ok := f.Lookup(r)
	if !ok {
		return nil
	}
	return toDate(v)
}

func toDate(v any) *time.Time {
	if list, ok := asList(v); ok {
		if len(list) == 0 {
			return nil
		}
		v = list[0]
	}
	if empty(v) {
		return nil
	}
	t, err := cast.ToTimeE(v)
	if err != nil || t.IsZero() {
		return nil
	}
	t = t.UTC()
	return &t
}

// asList normalizes the multi-valued shapes a field can take.
func asList(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

func empty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case []any:
		return len(x) == 0
	case []string:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	}
	return false
}
