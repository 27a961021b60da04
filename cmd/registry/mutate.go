package main

import (
	"time"

	"github.com/goliatone/go-registry-cache/cache"
	"github.com/goliatone/go-registry-cache/dataaccess"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// invalidationFlag adds --invalidate, naming extra cache types to drop after a write.
func invalidationFlag(cmd *cobra.Command, dst *[]string) {
	cmd.Flags().StringSliceVar(dst, "invalidate", nil, "extra cache types to invalidate, e.g. schools")
}

func withInvalidation(cmd *cobra.Command, types []string) {
	if len(types) == 0 {
		return
	}
	extra := make([]cache.Type, len(types))
	for i, t := range types {
		extra[i] = cache.Type(t)
	}
	cmd.SetContext(dataaccess.WithInvalidationTypes(cmd.Context(), extra...))
}

func newCreateCmd(a *app) *cobra.Command {
	var (
		fields     []string
		invalidate []string
	)

	cmd := &cobra.Command{
		Use:   "create <table>",
		Short: "Create a record",
		Example: `  registry create "School notes" -f "school_id=[recABC]" -f "Notes=Visited today"
  registry create Educators -f "First Name=Ada" -f "Last Name=Lovelace"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseFields(fields)
			if err != nil {
				return err
			}
			if len(values) == 0 {
				return errors.New("create needs at least one --field")
			}

			c, err := a.container(cmd)
			if err != nil {
				return err
			}

			withInvalidation(cmd, invalidate)
			rec, err := c.Mutator().CreateRecord(cmd.Context(), args[0], values)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.output, rec)
		},
	}

	cmd.Flags().StringArrayVarP(&fields, "field", "f", nil, "field as key=value, repeatable")
	invalidationFlag(cmd, &invalidate)
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var (
		fields     []string
		invalidate []string
	)

	cmd := &cobra.Command{
		Use:   "update <table> <id>",
		Short: "Update fields of a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseFields(fields)
			if err != nil {
				return err
			}
			if len(values) == 0 {
				return errors.New("update needs at least one --field")
			}

			c, err := a.container(cmd)
			if err != nil {
				return err
			}

			withInvalidation(cmd, invalidate)
			rec, err := c.Mutator().UpdateRecord(cmd.Context(), args[0], args[1], values)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.output, rec)
		},
	}

	cmd.Flags().StringArrayVarP(&fields, "field", "f", nil, "field as key=value, repeatable")
	invalidationFlag(cmd, &invalidate)
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var invalidate []string

	cmd := &cobra.Command{
		Use:   "delete <table> <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.container(cmd)
			if err != nil {
				return err
			}

			withInvalidation(cmd, invalidate)
			deleted, err := c.Mutator().DeleteRecord(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.output, map[string]any{"id": args[1], "deleted": deleted})
		},
	}

	invalidationFlag(cmd, &invalidate)
	return cmd
}

func newEndAssignmentCmd(a *app) *cobra.Command {
	var on string

	cmd := &cobra.Command{
		Use:   "end-assignment <educator-school-id>",
		Short: "End an educator's assignment at a school",
		Long: `End an educator x school relationship: sets its end date and clears the
currently active flag. The end date defaults to today.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			end := time.Now().UTC()
			if on != "" {
				parsed, err := time.Parse("2006-01-02", on)
				if err != nil {
					return errors.Wrapf(err, "invalid --date %q", on)
				}
				end = parsed
			}

			c, err := a.container(cmd)
			if err != nil {
				return err
			}

			rec, err := c.Mutator().EndEducatorSchool(cmd.Context(), args[0], end)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.output, rec)
		},
	}

	cmd.Flags().StringVar(&on, "date", "", "end date as YYYY-MM-DD")
	return cmd
}
