// Package cli implements the expectd command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is injected during build.
	Version = "dev"
	// Commit is injected during build.
	Commit = "none"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "expectd",
	Short: "expectd is a programmable mock HTTP(S) endpoint",
	Long: `expectd runs a scripted mock HTTP(S) endpoint from a scenario file.

A scenario file declares stub and expectation rules with canned
responses. The endpoint serves them until interrupted; on shutdown it
verifies that every expectation was met and exits non-zero otherwise.`,
	SilenceUsage:  true,
	SilenceErrors: true, // errors are handled in Execute
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
