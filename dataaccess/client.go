package dataaccess

import (
	"context"

	"github.com/goliatone/go-registry-cache/airtable"
	"github.com/goliatone/go-registry-cache/cache"
	"github.com/goliatone/go-registry-cache/domain"
	"github.com/goliatone/go-registry-cache/internal/throttle"
	"github.com/goliatone/go-registry-cache/transform"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Upstream is the subset of the upstream API client the data layer uses.
type Upstream interface {
	FetchRecords(ctx context.Context, table string, q airtable.Query) ([]airtable.Record, error)
	CreateRecord(ctx context.Context, table string, fields map[string]any) (airtable.Record, error)
	UpdateRecord(ctx context.Context, table, id string, fields map[string]any) (airtable.Record, error)
	DeleteRecord(ctx context.Context, table, id string) (bool, error)
}

// Interface assertion to ensure the HTTP client satisfies Upstream
var _ Upstream = (*airtable.Client)(nil)

// Link fields holding the parent record ids on child tables.
const (
	SchoolLink   = "school_id"
	EducatorLink = "educator_id"
)

type deps struct {
	store    cache.Store
	upstream Upstream
	gate     throttle.Doer
	log      zerolog.Logger
}

// Option customizes a Client or a Mutator.
type Option func(*deps)

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(d *deps) {
		d.log = log.With().Str("module", "dataaccess").Logger()
	}
}

func newDeps(store cache.Store, upstream Upstream, gate throttle.Doer, opts []Option) deps {
	d := deps{store: store, upstream: upstream, gate: gate, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// Client builds hooks over one store, upstream and gate. Every hook it returns reads
// through the shared store, so equal queries from different hooks share entries and
// in-flight fetches.
type Client struct {
	deps
}

// NewClient returns a Client.
func NewClient(store cache.Store, upstream Upstream, gate throttle.Doer, opts ...Option) *Client {
	return &Client{deps: newDeps(store, upstream, gate, opts)}
}

// Store returns the cache the client reads through.
func (c *Client) Store() cache.Store { return c.store }

func (c *Client) records(ctx context.Context, table string, q airtable.Query) ([]airtable.Record, error) {
	records, err := throttle.Run(ctx, c.gate, func(ctx context.Context) ([]airtable.Record, error) {
		return c.upstream.FetchRecords(ctx, table, q)
	})
	if err != nil {
		c.log.Debug().Err(err).Str("table", table).Msg("fetch failed")
		return nil, errors.Wrapf(err, "fetch %s", table)
	}
	c.log.Debug().Str("table", table).Int("records", len(records)).Msg("fetched")
	return records, nil
}

func query(p Params) airtable.Query {
	return airtable.Query{View: p.List.View, MaxRecords: p.List.MaxRecords, Sort: p.List.Sort}
}

// listHook lists a whole table, or the rows linked to a parent when link is set.
func listHook[T any](c *Client, typ cache.Type, table, link string, p Params, fn func(*airtable.Record) *T) *Hook[[]T] {
	empty := func() []T { return []T{} }
	return newHook(c.store, typ, link, p, link != "", empty, func(ctx context.Context, p Params) ([]T, error) {
		q := query(p)
		if link != "" {
			q.FilterByFormula = airtable.LinkedTo(link, p.ID)
		}
		records, err := c.records(ctx, table, q)
		if err != nil {
			return nil, err
		}
		return transform.Many(records, fn), nil
	})
}

// recordHook reads one record by id. A missing record settles as Ready with nil data.
func recordHook[T any](c *Client, typ cache.Type, table, id string, fn func(*airtable.Record) *T) *Hook[*T] {
	empty := func() *T { return nil }
	return newHook(c.store, typ, "record", Params{ID: id}, true, empty, func(ctx context.Context, p Params) (*T, error) {
		records, err := c.records(ctx, table, airtable.Query{FilterByFormula: airtable.RecordID(p.ID), MaxRecords: 1})
		if err != nil {
			return nil, err
		}
		return transform.One(records, fn), nil
	})
}

func listParams(opts []ListOptions) Params {
	if len(opts) == 0 {
		return Params{}
	}
	return Params{List: opts[0]}
}

// Schools lists schools.
func (c *Client) Schools(opts ...ListOptions) *Hook[[]domain.School] {
	return listHook(c, TypeSchools, TableSchools, "", listParams(opts), transform.School)
}

// School reads one school.
func (c *Client) School(id string) *Hook[*domain.School] {
	return recordHook(c, TypeSchools, TableSchools, id, transform.School)
}

// Educators lists educators.
func (c *Client) Educators(opts ...ListOptions) *Hook[[]domain.Educator] {
	return listHook(c, TypeEducators, TableEducators, "", listParams(opts), transform.Educator)
}

// Educator reads one educator.
func (c *Client) Educator(id string) *Hook[*domain.Educator] {
	return recordHook(c, TypeEducators, TableEducators, id, transform.Educator)
}

// Charters lists charters.
func (c *Client) Charters(opts ...ListOptions) *Hook[[]domain.Charter] {
	return listHook(c, TypeCharters, TableCharters, "", listParams(opts), transform.Charter)
}

// Charter reads one charter.
func (c *Client) Charter(id string) *Hook[*domain.Charter] {
	return recordHook(c, TypeCharters, TableCharters, id, transform.Charter)
}

// EducatorsForSchool lists the educator relationships of a school.
func (c *Client) EducatorsForSchool(schoolID string) *Hook[[]domain.EducatorSchool] {
	return listHook(c, TypeEducatorsXSchools, TableEducatorsXSchools, SchoolLink, Params{ID: schoolID}, transform.EducatorSchool)
}

// SchoolsForEducator lists the school relationships of an educator.
func (c *Client) SchoolsForEducator(educatorID string) *Hook[[]domain.EducatorSchool] {
	return listHook(c, TypeEducatorsXSchools, TableEducatorsXSchools, EducatorLink, Params{ID: educatorID}, transform.EducatorSchool)
}

// SchoolLocations lists the locations of a school.
func (c *Client) SchoolLocations(schoolID string) *Hook[[]domain.Location] {
	return listHook(c, TypeSchoolLocations, TableLocations, SchoolLink, Params{ID: schoolID}, transform.Location)
}

// SchoolNotes lists the notes of a school.
func (c *Client) SchoolNotes(schoolID string) *Hook[[]domain.SchoolNote] {
	return listHook(c, TypeSchoolNotes, TableSchoolNotes, SchoolLink, Params{ID: schoolID}, transform.SchoolNote)
}

// ActionSteps lists the action steps of a school.
func (c *Client) ActionSteps(schoolID string) *Hook[[]domain.ActionStep] {
	return listHook(c, TypeActionSteps, TableActionSteps, SchoolLink, Params{ID: schoolID}, transform.ActionStep)
}

// GovernanceDocs lists the governance documents of a school.
func (c *Client) GovernanceDocs(schoolID string) *Hook[[]domain.GovernanceDoc] {
	return listHook(c, TypeGovernanceDocs, TableGovernanceDocs, SchoolLink, Params{ID: schoolID}, transform.GovernanceDoc)
}

// GuideAssignments lists the guide assignments of a school.
func (c *Client) GuideAssignments(schoolID string) *Hook[[]domain.GuideAssignment] {
	return listHook(c, TypeGuideAssignments, TableGuideAssignments, SchoolLink, Params{ID: schoolID}, transform.GuideAssignment)
}

// Grants lists the grants of a school.
func (c *Client) Grants(schoolID string) *Hook[[]domain.Grant] {
	return listHook(c, TypeGrants, TableGrants, SchoolLink, Params{ID: schoolID}, transform.Grant)
}

// Loans lists the loans of a school.
func (c *Client) Loans(schoolID string) *Hook[[]domain.Loan] {
	return listHook(c, TypeLoans, TableLoans, SchoolLink, Params{ID: schoolID}, transform.Loan)
}

// MembershipFees lists the membership fee records of a school.
func (c *Client) MembershipFees(schoolID string) *Hook[[]domain.MembershipFee] {
	return listHook(c, TypeMembershipFees, TableMembershipFees, SchoolLink, Params{ID: schoolID}, transform.MembershipFee)
}

// EmailAddresses lists the email addresses of an educator.
func (c *Client) EmailAddresses(educatorID string) *Hook[[]domain.EmailAddress] {
	return listHook(c, TypeEmailAddresses, TableEmailAddresses, EducatorLink, Params{ID: educatorID}, transform.EmailAddress)
}

// SSJForms lists the startup-journey forms of an educator.
func (c *Client) SSJForms(educatorID string) *Hook[[]domain.SSJForm] {
	return listHook(c, TypeSSJForms, TableSSJForms, EducatorLink, Params{ID: educatorID}, transform.SSJForm)
}

// MontessoriCerts lists the certifications of an educator.
func (c *Client) MontessoriCerts(educatorID string) *Hook[[]domain.MontessoriCert] {
	return listHook(c, TypeMontessoriCerts, TableMontessoriCerts, EducatorLink, Params{ID: educatorID}, transform.MontessoriCert)
}

// EducatorNotes lists the notes of an educator.
func (c *Client) EducatorNotes(educatorID string) *Hook[[]domain.EducatorNote] {
	return listHook(c, TypeEducatorNotes, TableEducatorNotes, EducatorLink, Params{ID: educatorID}, transform.EducatorNote)
}

// EventAttendance lists the event attendance of an educator.
func (c *Client) EventAttendance(educatorID string) *Hook[[]domain.EventAttendance] {
	return listHook(c, TypeEventAttendance, TableEventAttendance, EducatorLink, Params{ID: educatorID}, transform.EventAttendance)
}
