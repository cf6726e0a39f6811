// Package cmd defines and implements the CLI commands for the channelscout executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channelscout",
		Short: "A keyword-driven channel discovery crawler.",
		Long: `channelscout walks a seed keyword list through a set of query
modifiers, searches the remote video platform for matching channels, and
persists every newly discovered channel with its parsed keyword tags and
contact emails. Quota spend is held under a long-run target rate so a
crawl can run for days without exhausting the daily API budget.`,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is env-only)")

	cmd.AddCommand(newCrawlCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "channelscout: %v\n", err)
		os.Exit(1)
	}
}
