// ABOUTME: export, import and summary subcommands for lpe-store
// ABOUTME: Moves a user's settings and records through versioned JSON backup files

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2389/lpe-reminder/internal/backup"
)

func newExportCmd(o *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write settings and recent records to a JSON backup",
		Long: `Write the current user's settings and most recent records to a JSON backup.
The default file name is lpe-reminder-backup-<date>.json in the working directory.
Use "-" to write to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: withApp(o, func(cmd *cobra.Command, a *app, args []string) error {
			if limit == 0 {
				limit = a.cfg.History.ExportLimit
			}

			now := time.Now()
			snap, err := backup.Export(cmd.Context(), a.store, a.user.ID, limit, now)
			if err != nil {
				return err
			}

			path := backup.DefaultFileName(now)
			if len(args) == 1 {
				path = args[0]
			}
			if path == "-" {
				return backup.Write(a.out, snap)
			}

			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
			if err != nil {
				return fmt.Errorf("creating backup file: %w", err)
			}
			if err := backup.Write(f, snap); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("closing backup file: %w", err)
			}

			a.logger.Info("exported backup", "path", path, "records", len(snap.Records))
			color.New(color.FgGreen).Fprint(a.out, "✓ ")
			fmt.Fprintf(a.out, "Exported %d settings and %d records to %s\n", len(snap.Settings), len(snap.Records), path)
			return nil
		}),
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum records to export (default: history.export_limit)")
	return cmd
}

func newImportCmd(o *options) *cobra.Command {
	var replace, legacy bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Load a JSON backup into the current user",
		Long: `Load a JSON backup into the current user. Records whose id already exists
are skipped. With --legacy the file is a dump of the old browser storage
holding the lpe-reminder-settings and lpe-reminder-history entries.`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(o, func(cmd *cobra.Command, a *app, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening backup file: %w", err)
			}
			defer func() { _ = f.Close() }()

			var res *backup.Result
			if legacy {
				data, err := backup.ReadLegacy(f)
				if err != nil {
					return err
				}
				res, err = backup.ImportLegacy(cmd.Context(), a.store, a.user.ID, data, time.Now())
				if err != nil {
					return err
				}
			} else {
				snap, err := backup.Read(f)
				if err != nil {
					return err
				}
				res, err = backup.Import(cmd.Context(), a.store, a.user.ID, snap, backup.Options{Replace: replace})
				if err != nil {
					return err
				}
			}

			a.logger.Info("imported backup", "path", args[0], "added", res.Added, "skipped", res.Skipped)
			color.New(color.FgGreen).Fprint(a.out, "✓ ")
			fmt.Fprintf(a.out, "Imported %d settings, %d records added", res.Settings, res.Added)
			if res.Skipped > 0 {
				color.New(color.FgYellow).Fprintf(a.out, ", %d skipped", res.Skipped)
			}
			fmt.Fprintln(a.out)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "Delete existing records before importing")
	cmd.Flags().BoolVar(&legacy, "legacy", false, "Read the old browser storage dump format")
	cmd.MarkFlagsMutuallyExclusive("replace", "legacy")
	return cmd
}

func newSummaryCmd() *cobra.Command {
	var html bool

	cmd := &cobra.Command{
		Use:   "summary <file>",
		Short: "Describe a backup file without importing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening backup file: %w", err)
			}
			defer func() { _ = f.Close() }()

			snap, err := backup.Read(f)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if html {
				fragment, err := backup.SummaryHTML(snap)
				if err != nil {
					return err
				}
				fmt.Fprint(out, fragment)
				return nil
			}
			fmt.Fprintln(out, backup.Summary(snap))
			return nil
		},
	}
	cmd.Flags().BoolVar(&html, "html", false, "Render the summary as an HTML fragment")
	return cmd
}
