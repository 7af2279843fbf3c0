// Package toolrank implements the offline toolrank CLI: ranking a catalog file
// against a profile file, seeding catalogs and moving catalog snapshots.
package toolrank

import (
	"github.com/spf13/cobra"
)

// Execute runs the root command.
func Execute() error {
	return NewRoot().Execute()
}

// NewRoot builds the command tree.
func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "toolrank",
		Short:         "Rank software tools for a profile and manage catalog data",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(
		RankCmd(),
		SeedCmd(),
		SnapshotCmd(),
	)
	return root
}
