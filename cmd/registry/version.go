package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version number and build information for registry.`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "registry: %v\n", version)
			if commit != "" {
				fmt.Fprintf(out, "Commit: %v\n", commit)
			}
			if date != "" {
				fmt.Fprintf(out, "Build Date: %v\n", date)
			}
		},
	}
}
