// ABOUTME: seed subcommand for lpe-store
// ABOUTME: Fills the current user's history with sample records

package main

import (
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2389/lpe-reminder/internal/seed"
)

func newSeedCmd(o *options) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert sample timer records across recent days and categories",
		Args:  cobra.NoArgs,
		RunE: withApp(o, func(cmd *cobra.Command, a *app, _ []string) error {
			records := seed.Generate(a.user.ID, time.Now(), count)
			added, err := seed.Insert(cmd.Context(), a.store, records)
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(a.out, "✓ added %d sample records\n", added)
			return nil
		}),
	}
	cmd.Flags().IntVarP(&count, "count", "n", 0, "Number of records (default: one per built-in sample)")
	return cmd
}
