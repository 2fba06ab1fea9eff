// ABOUTME: settings subcommands for lpe-store
// ABOUTME: List, get, set and delete the current user's key/value settings

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2389/lpe-reminder/internal/store"
)

func newSettingsCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage the current user's settings",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all settings",
			Args:  cobra.NoArgs,
			RunE: withApp(o, func(cmd *cobra.Command, a *app, _ []string) error {
				settings, err := a.svc.GetSettings(cmd.Context())
				if err != nil {
					return err
				}
				if len(settings) == 0 {
					color.New(color.FgHiBlack).Fprintln(a.out, "no settings")
					return nil
				}
				key := color.New(color.FgCyan)
				for _, s := range settings {
					key.Fprintf(a.out, "%s", s.Key)
					fmt.Fprintf(a.out, " = %s\n", s.Value)
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print one setting's value",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(o, func(cmd *cobra.Command, a *app, args []string) error {
				settings, err := a.svc.GetSettings(cmd.Context())
				if err != nil {
					return err
				}
				for _, s := range settings {
					if s.Key == args[0] {
						fmt.Fprintln(a.out, s.Value)
						return nil
					}
				}
				return fmt.Errorf("setting %q: %w", args[0], store.ErrNotFound)
			}),
		},
		&cobra.Command{
			Use:   "set <key> <value> [<key> <value>...]",
			Short: "Create or replace settings; several pairs share one timestamp",
			Args: func(cmd *cobra.Command, args []string) error {
				if len(args) == 0 || len(args)%2 != 0 {
					return fmt.Errorf("expected key/value pairs, got %d arguments", len(args))
				}
				return nil
			},
			RunE: withApp(o, func(cmd *cobra.Command, a *app, args []string) error {
				if len(args) == 2 {
					if err := a.svc.SaveSetting(cmd.Context(), args[0], args[1]); err != nil {
						return err
					}
				} else {
					pairs := make([]store.SettingPair, 0, len(args)/2)
					for i := 0; i < len(args); i += 2 {
						pairs = append(pairs, store.SettingPair{Key: args[i], Value: args[i+1]})
					}
					if err := a.svc.SaveSettingsBatch(cmd.Context(), pairs); err != nil {
						return err
					}
				}
				color.New(color.FgGreen).Fprintf(a.out, "✓ saved %d setting(s)\n", len(args)/2)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "delete <key>",
			Short: "Remove a setting",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(o, func(cmd *cobra.Command, a *app, args []string) error {
				if err := a.store.DeleteSetting(cmd.Context(), a.user.ID, args[0]); err != nil {
					return err
				}
				color.New(color.FgGreen).Fprintf(a.out, "✓ deleted %s\n", args[0])
				return nil
			}),
		},
	)
	return cmd
}
