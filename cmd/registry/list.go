package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-registry-cache/airtable"
	"github.com/goliatone/go-registry-cache/dataaccess"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// lister resolves one hook kind. Child listers need a parent id.
type lister struct {
	parent string
	run    func(ctx context.Context, c *dataaccess.Client, parentID string, opts dataaccess.ListOptions) (any, error)
}

func use[T any](ctx context.Context, h *dataaccess.Hook[T]) (any, error) {
	res := h.Use(ctx)
	return res.Data, res.Err
}

var listers = map[string]lister{
	"schools": {run: func(ctx context.Context, c *dataaccess.Client, _ string, o dataaccess.ListOptions) (any, error) {
		return use(ctx, c.Schools(o))
	}},
	"educators": {run: func(ctx context.Context, c *dataaccess.Client, _ string, o dataaccess.ListOptions) (any, error) {
		return use(ctx, c.Educators(o))
	}},
	"charters": {run: func(ctx context.Context, c *dataaccess.Client, _ string, o dataaccess.ListOptions) (any, error) {
		return use(ctx, c.Charters(o))
	}},
	"school-educators": {parent: "school", run: func(ctx context.Context, c *dataaccess.Client, id string, _ dataaccess.ListOptions) (any, error) {
		return use(ctx, c.EducatorsForSchool(id))
	}},
	"educator-schools": {parent: "educator", run: func(ctx context.Context, c *dataaccess.Client, id string, _ dataaccess.ListOptions) (any, error) {
		return use(ctx, c.SchoolsForEducator(id))
	}},
	"locations": {parent: "school", run: func(ctx context.Context, c *dataaccess.Client, id string, _ dataaccess.ListOptions) (any, error) {
		return use(ctx, c.SchoolLocations(id))
	}},
	"school-notes": {parent: "school", run: func(ctx context.Context, c *dataaccess.Client, id string, _ dataaccess.ListOptions) (any, error) {
		return use(ctx, c.SchoolNotes(id))
	}},
	"action-steps": {parent: "school", run: func(ctx context.Context, c *dataaccess.Client, id string, _ dataaccess.ListOptions) (any, error) {
		return use(ctx, c.ActionSteps(id))
	}},
	"governance-docs": {parent: "school", run: func(ctx context.Context, c *dataaccess.Client, id string, _ dataaccess.ListOptions) (any, error) {
		return use(ctx, c.GovernanceDocs(id))
	}},
	"guide-assignments": {parent: "school", run: func(ctx context.Context, c *dataaccess.Client, id string, _ dataaccess.ListOptions) (any, error) {
		return use(ctx, c.GuideAssignments(id))
	}},
	"grants": {parent: "school", run: func(ctx context.Context, c *dataaccess.Client, id string, _ dataaccess.ListOptions) (any, error) {
		return use(ctx, c.Grants(id))
	}},
	"loans": {parent: "school", run: func(ctx context.Context, c *dataaccess.Client, id string, _ dataaccess.ListOptions) (any, error) {
		return use(ctx, c.Loans(id))
	}},
	"membership-fees": {parent: "school", run: func(ctx context.Context, c *dataaccess.Client, id string, _ dataaccess.ListOptions) (any, error) {
		return use(ctx, c.MembershipFees(id))
	}},
	"email-addresses": {parent: "educator", run: func(ctx context.Context, c *dataaccess.Client, id string, _ dataaccess.ListOptions) (any, error) {
		return use(ctx, c.EmailAddresses(id))
	}},
	"ssj-forms": {parent: "educator", run: func(ctx context.Context, c *dataaccess.Client, id string, _ dataaccess.ListOptions) (any, error) {
		return use(ctx, c.SSJForms(id))
	}},
	"montessori-certs": {parent: "educator", run: func(ctx context.Context, c *dataaccess.Client, id string, _ dataaccess.ListOptions) (any, error) {
		return use(ctx, c.MontessoriCerts(id))
	}},
	"educator-notes": {parent: "educator", run: func(ctx context.Context, c *dataaccess.Client, id string, _ dataaccess.ListOptions) (any, error) {
		return use(ctx, c.EducatorNotes(id))
	}},
	"event-attendance": {parent: "educator", run: func(ctx context.Context, c *dataaccess.Client, id string, _ dataaccess.ListOptions) (any, error) {
		return use(ctx, c.EventAttendance(id))
	}},
}

func listerNames() []string {
	names := make([]string, 0, len(listers))
	for name := range listers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func newListCmd(a *app) *cobra.Command {
	var (
		parent     string
		view       string
		maxRecords int
		sortBy     []string
	)

	cmd := &cobra.Command{
		Use:   "list <kind>",
		Short: "List records of one kind",
		Long: fmt.Sprintf(`List records of one kind. Child kinds need --parent with the school or
educator record id.

Kinds: %s`, strings.Join(listerNames(), ", ")),
		Args:      cobra.ExactArgs(1),
		ValidArgs: listerNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, ok := listers[args[0]]
			if !ok {
				return errors.Errorf("unknown kind %q", args[0])
			}
			if l.parent != "" && parent == "" {
				return errors.Errorf("%s needs --parent with a %s id", args[0], l.parent)
			}

			c, err := a.container(cmd)
			if err != nil {
				return err
			}

			opts := dataaccess.ListOptions{View: view, MaxRecords: maxRecords, Sort: parseSort(sortBy)}
			data, err := l.run(cmd.Context(), c.Client(), parent, opts)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.output, data)
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "", "parent school or educator record id")
	cmd.Flags().StringVar(&view, "view", "", "upstream view to list from")
	cmd.Flags().IntVar(&maxRecords, "max", 0, "maximum number of records")
	cmd.Flags().StringSliceVar(&sortBy, "sort", nil, "sort fields, prefix with - for descending")
	return cmd
}

func parseSort(fields []string) []airtable.SortField {
	if len(fields) == 0 {
		return nil
	}
	out := make([]airtable.SortField, 0, len(fields))
	for _, f := range fields {
		dir := "asc"
		if strings.HasPrefix(f, "-") {
			dir = "desc"
			f = f[1:]
		}
		out = append(out, airtable.SortField{Field: f, Direction: dir})
	}
	return out
}
