package main

import (
	"fmt"
	"os"

	"github.com/goliatone/go-registry-cache/internal/config"
	"github.com/goliatone/go-registry-cache/internal/logger"
	"github.com/goliatone/go-registry-cache/pkg/di"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries the state shared by every subcommand.
type app struct {
	v       *viper.Viper
	cfgFile string
	output  string
	built   *di.Container
}

// Execute builds the command tree and runs it. It is called by main.main().
func Execute() {
	if err := newRootCmd(config.New()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd returns the root command reading its configuration from v.
func newRootCmd(v *viper.Viper) *cobra.Command {
	a := &app{v: v}

	rootCmd := &cobra.Command{
		Use:   "registry",
		Short: "Read and write the school registry through a shared cache",
		Long: `registry reads schools, educators, charters and their related records
from the upstream base through a rate limited, cached data layer, and writes
changes back, invalidating the affected cached reads.

Configuration comes from --config, then REGISTRY_* environment variables,
e.g. REGISTRY_AIRTABLE_BASE_ID and REGISTRY_AIRTABLE_API_KEY.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVarP(&a.output, "output", "o", "json", "output format: json or yaml")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: trace, debug, info, warn, error, disabled")

	// Bind flags to viper
	_ = v.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(
		newListCmd(a),
		newGetCmd(a),
		newCreateCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newEndAssignmentCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// initConfig reads the config file when one was given.
func (a *app) initConfig() error {
	if a.cfgFile == "" {
		return nil
	}
	return config.ReadFile(a.v, a.cfgFile)
}

// container builds the data layer on first use. Logs go to the command's stderr.
func (a *app) container(cmd *cobra.Command) (*di.Container, error) {
	if a.built != nil {
		return a.built, nil
	}

	level := logger.ParseLevel(a.v.GetString(config.KeyLogLevel))
	c, err := di.NewContainerFromViper(a.v, di.WithLogger(logger.New(cmd.ErrOrStderr(), level)))
	if err != nil {
		return nil, err
	}
	a.built = c
	return c, nil
}
