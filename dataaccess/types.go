package dataaccess

import (
	"strings"
	"unicode"

	"github.com/goliatone/go-registry-cache/cache"
)

// Cache types. Every cached query is stored under one of these; mutations invalidate
// by type, so a new cached entity needs both a constant here and a row in tableTypes.
const (
	TypeSchools           cache.Type = "schools"
	TypeEducators         cache.Type = "educators"
	TypeCharters          cache.Type = "charters"
	TypeEducatorsXSchools cache.Type = "educatorsXSchools"
	TypeSchoolLocations   cache.Type = "schoolLocations"
	TypeSchoolNotes       cache.Type = "schoolNotes"
	TypeActionSteps       cache.Type = "actionSteps"
	TypeGovernanceDocs    cache.Type = "governanceDocs"
	TypeGuideAssignments  cache.Type = "guideAssignments"
	TypeGrants            cache.Type = "grants"
	TypeLoans             cache.Type = "loans"
	TypeMembershipFees    cache.Type = "membershipFees"
	TypeEmailAddresses    cache.Type = "emailAddresses"
	TypeSSJForms          cache.Type = "ssjForms"
	TypeMontessoriCerts   cache.Type = "montessoriCerts"
	TypeEducatorNotes     cache.Type = "educatorNotes"
	TypeEventAttendance   cache.Type = "eventAttendance"
)

// Upstream table names.
const (
	TableSchools           = "Schools"
	TableEducators         = "Educators"
	TableCharters          = "Charters"
	TableEducatorsXSchools = "Educators x Schools"
	TableLocations         = "Locations"
	TableSchoolNotes       = "School notes"
	TableActionSteps       = "Action steps"
	TableGovernanceDocs    = "Governance docs"
	TableGuideAssignments  = "Guides Assignments"
	TableGrants            = "Grants"
	TableLoans             = "Loans"
	TableMembershipFees    = "Membership fee records"
	TableEmailAddresses    = "Email Addresses"
	TableSSJForms          = "SSJ Typeforms"
	TableMontessoriCerts   = "Montessori Certs"
	TableEducatorNotes     = "Educator notes"
	TableEventAttendance   = "Event attendance"
)

// AllTypes lists every cache type.
var AllTypes = []cache.Type{
	TypeSchools, TypeEducators, TypeCharters, TypeEducatorsXSchools,
	TypeSchoolLocations, TypeSchoolNotes, TypeActionSteps, TypeGovernanceDocs,
	TypeGuideAssignments, TypeGrants, TypeLoans, TypeMembershipFees,
	TypeEmailAddresses, TypeSSJForms, TypeMontessoriCerts, TypeEducatorNotes,
	TypeEventAttendance,
}

// tableTypes maps a normalized table name to the cache types a write to it invalidates.
var tableTypes = map[string][]cache.Type{
	toSnake(TableSchools):           {TypeSchools},
	toSnake(TableEducators):         {TypeEducators},
	toSnake(TableCharters):          {TypeCharters},
	toSnake(TableEducatorsXSchools): {TypeEducatorsXSchools},
	toSnake(TableLocations):         {TypeSchoolLocations},
	toSnake(TableSchoolNotes):       {TypeSchoolNotes},
	toSnake(TableActionSteps):       {TypeActionSteps},
	toSnake(TableGovernanceDocs):    {TypeGovernanceDocs},
	toSnake(TableGuideAssignments):  {TypeGuideAssignments},
	toSnake(TableGrants):            {TypeGrants},
	toSnake(TableLoans):             {TypeLoans},
	toSnake(TableMembershipFees):    {TypeMembershipFees},
	toSnake(TableEmailAddresses):    {TypeEmailAddresses},
	toSnake(TableSSJForms):          {TypeSSJForms},
	toSnake(TableMontessoriCerts):   {TypeMontessoriCerts},
	toSnake(TableEducatorNotes):     {TypeEducatorNotes},
	toSnake(TableEventAttendance):   {TypeEventAttendance},
}

// TypesForTable returns the cache types a write to table invalidates. Table names are
// matched case and punctuation insensitively, so "Educators x Schools" and
// "educators_x_schools" are the same table.
func TypesForTable(table string) ([]cache.Type, bool) {
	types, ok := tableTypes[toSnake(table)]
	if !ok {
		return nil, false
	}
	return append([]cache.Type(nil), types...), true
}

// toSnake converts s to snake_case. Anything that is not a letter or digit becomes a
// single underscore, so table names with spaces, dashes or punctuation collapse to
// the same key.
func toSnake(s string) string {
	if s == "" {
		return ""
	}

	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(runes) + len(runes)/2)

	lastUnderscore := false

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch {
		case unicode.IsUpper(r):
			if b.Len() > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if (unicode.IsLower(prev) || unicode.IsDigit(prev) || nextLower) && !lastUnderscore {
					b.WriteByte('_')
					lastUnderscore = true
				}
			}
			b.WriteRune(unicode.ToLower(r))
			lastUnderscore = false

		case unicode.IsLower(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastUnderscore = false

		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}

	return strings.Trim(b.String(), "_")
}
