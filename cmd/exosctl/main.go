// Exosctl is a configuration management utility for Extreme EXOS switches.
//
// It reconciles a candidate configuration against a device's running
// configuration over SSH: preview the change as a unified diff, apply it
// in merge mode (additions only) or replace mode (removals synthesized
// from an inverse-command rule table), and roll back to the pre-commit
// configuration if a change goes wrong.
//
// Usage:
//
//	exosctl [command] [flags]
//
// See 'exosctl --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/switchops/exosctl/internal/logging"
	"github.com/switchops/exosctl/internal/version"
)

func main() {
	defer logging.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "exosctl",
	Short: "EXOS Switch Configuration Utility",
	Long: `A declarative configuration utility for Extreme EXOS switches.

Exosctl compares a candidate configuration file against the running
configuration of a switch, shows the difference as a unified diff, and
applies the change as an ordered sequence of CLI commands. Replace mode
also removes configuration absent from the candidate by synthesizing
inverse commands, and every commit keeps a rollback snapshot.

Set EXOSCTL_LOG_LEVEL=debug for structured session logging on stderr.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.InitializeFromEnv()
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("exosctl %s\n", version.Full())
	},
}
