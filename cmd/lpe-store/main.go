// ABOUTME: Entry point for lpe-store, the command-line front end to the timer database
// ABOUTME: Wires config, logging, device identity and the command service behind cobra subcommands

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2389/lpe-reminder/internal/commands"
	"github.com/2389/lpe-reminder/internal/config"
	"github.com/2389/lpe-reminder/internal/device"
	"github.com/2389/lpe-reminder/internal/logging"
	"github.com/2389/lpe-reminder/internal/session"
	"github.com/2389/lpe-reminder/internal/store"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
 _                                   _           _
| |_ __   ___       _ __ ___ _ __ ___ (_)_ __   __| | ___ _ __
| | '_ \ / _ \_____| '__/ _ \ '_ ' _ \| | '_ \ / _' |/ _ \ '__|
| | |_) |  __/_____| | |  __/ | | | | | | | | | (_| |  __/ |
|_| .__/ \___|     |_|  \___|_| |_| |_|_|_| |_|\__,_|\___|_|
  |_|
`

// options holds the persistent flags shared by every subcommand.
type options struct {
	configPath string
	verbose    bool
}

// app is everything a subcommand needs once the store is open.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *store.SQLiteStore
	svc    *commands.Service
	user   *store.User
	out    io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "lpe-store",
		Short: "Inspect and manage the lpe-reminder timer database",
		Long: `lpe-store opens the same SQLite database the tray timer uses and exposes
its commands from the terminal.

Configuration is read from $LPE_CONFIG or ~/.config/lpe-reminder/config.yaml.
A missing config file falls back to platform defaults.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default: $LPE_CONFIG or ~/.config/lpe-reminder/config.yaml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newInitCmd(opts),
		newStatusCmd(opts),
		newPhoneCmd(opts),
		newSettingsCmd(opts),
		newRecordsCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newSummaryCmd(),
		newSeedCmd(opts),
		newInvokeCmd(opts),
	)
	return root
}

func (o *options) resolvedConfigPath() string {
	if o.configPath != "" {
		return o.configPath
	}
	return config.ConfigPath()
}

// openApp loads config, opens the store and makes this device's user current.
func openApp(cmd *cobra.Command, o *options) (*app, error) {
	cfg, err := config.LoadOrDefault(o.resolvedConfigPath())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if o.verbose {
		cfg.Logging.Level = "debug"
	}

	logger := logging.New(cfg.Logging, cmd.ErrOrStderr())

	st, err := store.NewSQLiteStore(cfg.Database.Path, store.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	deviceID, err := device.LoadOrCreate(cfg.Device.IDFile)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("resolving device id: %w", err)
	}

	svc := commands.NewService(st, session.New(), logger)
	user, err := svc.InitUser(cmd.Context(), deviceID)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		store:  st,
		svc:    svc,
		user:   user,
		out:    cmd.OutOrStdout(),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Error("closing store", "error", err)
	}
}

// withApp runs fn against an opened app and closes it afterwards.
func withApp(o *options, fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, o)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, a, args)
	}
}

func bullet(w io.Writer, label, value string) {
	color.New(color.FgGreen).Fprint(w, "    ▶ ")
	fmt.Fprintf(w, "%-10s %s\n", label+":", value)
}

func newInitCmd(o *options) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := o.resolvedConfigPath()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
			}

			if err := config.Write(path, config.Default()); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			color.New(color.FgGreen).Fprint(out, "✓ ")
			fmt.Fprintf(out, "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}

func newStatusCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show database location, current user and record totals",
		Args:  cobra.NoArgs,
		RunE: withApp(o, func(cmd *cobra.Command, a *app, _ []string) error {
			ctx := cmd.Context()

			color.New(color.FgCyan).Fprint(a.out, banner)
			color.New(color.FgHiBlack).Fprintf(a.out, "    version: %s\n\n", version)

			settings, err := a.svc.GetSettings(ctx)
			if err != nil {
				return err
			}
			count, err := a.store.CountTimerRecords(ctx, a.user.ID)
			if err != nil {
				return err
			}

			phone := "(none)"
			if a.user.Phone != nil {
				phone = *a.user.Phone
			}

			bullet(a.out, "Database", a.store.Path())
			bullet(a.out, "Device", a.user.DeviceID)
			bullet(a.out, "User", fmt.Sprintf("%d", a.user.ID))
			bullet(a.out, "Phone", phone)
			bullet(a.out, "Settings", fmt.Sprintf("%d", len(settings)))
			bullet(a.out, "Records", fmt.Sprintf("%d", count))

			return printTotals(ctx, a)
		}),
	}
}

func newPhoneCmd(o *options) *cobra.Command {
	var clearPhone bool

	cmd := &cobra.Command{
		Use:   "phone [number]",
		Short: "Set or clear the current user's phone number",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(o, func(cmd *cobra.Command, a *app, args []string) error {
			var phone *string
			switch {
			case clearPhone:
			case len(args) == 1:
				phone = store.StringPtr(args[0])
			default:
				return fmt.Errorf("%w: pass a number or --clear", commands.ErrInvalidArgument)
			}

			if err := a.svc.UpdatePhone(cmd.Context(), phone); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintln(a.out, "✓ phone updated")
			return nil
		}),
	}
	cmd.Flags().BoolVar(&clearPhone, "clear", false, "Remove the stored phone number")
	return cmd
}
