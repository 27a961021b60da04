package airtable

import (
	"fmt"
	"strings"
)

// Quote renders s as a single-quoted formula string literal.
func Quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

// RecordID matches the record with the given id.
func RecordID(id string) string {
	return fmt.Sprintf("RECORD_ID() = %s", Quote(id))
}

// LinkedTo matches records whose linked-record field contains id.
// field is usually a lookup of the linked record ids.
func LinkedTo(field, id string) string {
	return fmt.Sprintf("FIND(%s, ARRAYJOIN({%s}))", Quote(id), field)
}

// And joins non-empty clauses with AND().
func And(clauses ...string) string {
	var parts []string
	for _, c := range clauses {
		if c != "" {
			parts = append(parts, c)
		}
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return "AND(" + strings.Join(parts, ", ") + ")"
	}
}
