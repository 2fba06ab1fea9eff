// ABOUTME: records subcommands for lpe-store
// ABOUTME: List, add, patch, delete and clear timer records plus day/week totals

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/2389/lpe-reminder/internal/history"
	"github.com/2389/lpe-reminder/internal/store"
)

func newRecordsCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "records",
		Aliases: []string{"history"},
		Short:   "Manage the current user's timer records",
	}

	cmd.AddCommand(
		newRecordsListCmd(o),
		newRecordsAddCmd(o),
		newRecordsUpdateCmd(o),
		newRecordsDeleteCmd(o),
		newRecordsClearCmd(o),
		newRecordsStatsCmd(o),
	)
	return cmd
}

func newRecordsListCmd(o *options) *cobra.Command {
	var (
		limit  int
		today  bool
		week   bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records, most recent first",
		Args:  cobra.NoArgs,
		RunE: withApp(o, func(cmd *cobra.Command, a *app, _ []string) error {
			if limit == 0 {
				limit = a.cfg.History.DefaultLimit
			}
			records, err := a.svc.GetTimerRecords(cmd.Context(), limit)
			if err != nil {
				return err
			}

			now := time.Now()
			switch {
			case today:
				records = history.TodayRecords(records, now)
			case week:
				records = history.WeekRecords(records, now)
			}

			if asJSON {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			}

			if len(records) == 0 {
				color.New(color.FgHiBlack).Fprintln(a.out, "no records")
				return nil
			}
			for _, r := range records {
				printRecord(a, r)
			}
			return nil
		}),
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum records to read (default: history.default_limit)")
	cmd.Flags().BoolVar(&today, "today", false, "Only records that ended today")
	cmd.Flags().BoolVar(&week, "week", false, "Only records that ended this week (Monday start)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print records as JSON")
	cmd.MarkFlagsMutuallyExclusive("today", "week")
	return cmd
}

func printRecord(a *app, r store.TimerRecord) {
	gray := color.New(color.FgHiBlack)
	end := time.UnixMilli(r.EndTime).Format("2006-01-02 15:04")
	dur := (time.Duration(r.Duration) * time.Millisecond).Round(time.Second)

	gray.Fprintf(a.out, "%s ", end)
	color.New(color.FgCyan).Fprintf(a.out, "%-9s ", r.RecordType)
	fmt.Fprintf(a.out, "%-10s", dur)
	if r.Category != nil {
		color.New(color.FgYellow).Fprintf(a.out, " [%s]", *r.Category)
	}
	if r.Name != nil {
		fmt.Fprintf(a.out, " %s", *r.Name)
	}
	gray.Fprintf(a.out, "  %s\n", r.ID)
}

func newRecordsAddCmd(o *options) *cobra.Command {
	var (
		id         string
		recordType string
		mode       string
		name       string
		category   string
		minutes    int
		ended      string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a completed timer session",
		Args:  cobra.NoArgs,
		RunE: withApp(o, func(cmd *cobra.Command, a *app, _ []string) error {
			end := time.Now()
			if ended != "" {
				t, err := time.ParseInLocation("2006-01-02 15:04", ended, time.Local)
				if err != nil {
					return fmt.Errorf("parsing --end: %w", err)
				}
				end = t
			}
			if id == "" {
				id = uuid.NewString()
			}

			duration := int64(minutes) * int64(time.Minute/time.Millisecond)
			record := store.TimerRecord{
				ID:         id,
				RecordType: recordType,
				StartTime:  end.UnixMilli() - duration,
				EndTime:    end.UnixMilli(),
				Duration:   duration,
			}
			if mode != "" {
				record.Mode = store.StringPtr(mode)
			}
			if name != "" {
				record.Name = store.StringPtr(name)
			}
			if category != "" {
				record.Category = store.StringPtr(category)
			}

			if err := a.svc.AddTimerRecord(cmd.Context(), record); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(a.out, "✓ added %s\n", id)
			return nil
		}),
	}
	cmd.Flags().StringVar(&id, "id", "", "Record id (default: random uuid)")
	cmd.Flags().StringVar(&recordType, "type", store.RecordTypeCountdown, "Record type: countdown or stopwatch")
	cmd.Flags().StringVar(&mode, "mode", store.ModeWork, "Timer mode: work or break")
	cmd.Flags().StringVar(&name, "name", "", "Session name")
	cmd.Flags().StringVar(&category, "category", "", "Session category")
	cmd.Flags().IntVarP(&minutes, "minutes", "m", 25, "Session length in minutes")
	cmd.Flags().StringVar(&ended, "end", "", `End time as "YYYY-MM-DD HH:MM" (default: now)`)
	return cmd
}

func newRecordsUpdateCmd(o *options) *cobra.Command {
	var name, category string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a record's name and/or category",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(o, func(cmd *cobra.Command, a *app, args []string) error {
			var patch store.TimerRecordPatch
			if cmd.Flags().Changed("name") {
				patch.Name = store.StringPtr(name)
			}
			if cmd.Flags().Changed("category") {
				patch.Category = store.StringPtr(category)
			}
			if patch.Empty() {
				return fmt.Errorf("nothing to update: pass --name and/or --category")
			}

			if err := a.svc.UpdateTimerRecord(cmd.Context(), args[0], patch); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(a.out, "✓ updated %s\n", args[0])
			return nil
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&category, "category", "", "New category")
	return cmd
}

func newRecordsDeleteCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one record",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(o, func(cmd *cobra.Command, a *app, args []string) error {
			if err := a.svc.DeleteTimerRecord(cmd.Context(), args[0]); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(a.out, "✓ deleted %s\n", args[0])
			return nil
		}),
	}
}

func newRecordsClearCmd(o *options) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every record of the current user",
		Args:  cobra.NoArgs,
		RunE: withApp(o, func(cmd *cobra.Command, a *app, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear records without --yes")
			}
			if err := a.svc.ClearTimerRecords(cmd.Context()); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintln(a.out, "✓ records cleared")
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm deletion")
	return cmd
}

func newRecordsStatsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show today/week totals and time per category",
		Args:  cobra.NoArgs,
		RunE: withApp(o, func(cmd *cobra.Command, a *app, _ []string) error {
			return printTotals(cmd.Context(), a)
		}),
	}
}

// printTotals summarizes the most recent history.export_limit records.
func printTotals(ctx context.Context, a *app) error {
	records, err := a.svc.GetTimerRecords(ctx, a.cfg.History.ExportLimit)
	if err != nil {
		return err
	}

	now := time.Now()
	bullet(a.out, "Today", history.TotalDuration(history.TodayRecords(records, now)).String())
	bullet(a.out, "This week", history.TotalDuration(history.WeekRecords(records, now)).String())

	totals := history.ByCategory(records)
	if len(totals) == 0 {
		return nil
	}

	fmt.Fprintln(a.out)
	for _, c := range totals {
		name := c.Category
		if name == history.Uncategorized {
			name = "(none)"
		}
		color.New(color.FgYellow).Fprintf(a.out, "    %-14s", name)
		fmt.Fprintf(a.out, " %3d  %s\n", c.Count, time.Duration(c.Duration)*time.Millisecond)
	}
	return nil
}
