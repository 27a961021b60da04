package main

import (
	"context"

	"github.com/goliatone/go-registry-cache/dataaccess"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var getters = map[string]func(ctx context.Context, c *dataaccess.Client, id string) (any, bool, error){
	"school": func(ctx context.Context, c *dataaccess.Client, id string) (any, bool, error) {
		res := c.School(id).Use(ctx)
		return res.Data, res.Data != nil, res.Err
	},
	"educator": func(ctx context.Context, c *dataaccess.Client, id string) (any, bool, error) {
		res := c.Educator(id).Use(ctx)
		return res.Data, res.Data != nil, res.Err
	},
	"charter": func(ctx context.Context, c *dataaccess.Client, id string) (any, bool, error) {
		res := c.Charter(id).Use(ctx)
		return res.Data, res.Data != nil, res.Err
	},
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "get <school|educator|charter> <id>",
		Short:     "Show one school, educator or charter",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"school", "educator", "charter"},
		RunE: func(cmd *cobra.Command, args []string) error {
			get, ok := getters[args[0]]
			if !ok {
				return errors.Errorf("unknown kind %q", args[0])
			}

			c, err := a.container(cmd)
			if err != nil {
				return err
			}

			data, found, err := get(cmd.Context(), c.Client(), args[1])
			if err != nil {
				return err
			}
			if !found {
				return errors.Errorf("%s %s not found", args[0], args[1])
			}
			return render(cmd.OutOrStdout(), a.output, data)
		},
	}
}
