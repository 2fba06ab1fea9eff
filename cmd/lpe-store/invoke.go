// ABOUTME: invoke subcommand for lpe-store
// ABOUTME: Runs one UI command by name with JSON arguments and prints the JSON response

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/2389/lpe-reminder/internal/commands"
)

func newInvokeCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "invoke <command> [json-args]",
		Short: "Run a UI command exactly as the tray shell would",
		Long: fmt.Sprintf(`Run a UI command with JSON arguments and print the response envelope.
The device's user is already current, so init-user is only needed to switch users.

Commands: %s`, strings.Join(commands.Names(), ", ")),
		Args: cobra.RangeArgs(1, 2),
		RunE: withApp(o, func(cmd *cobra.Command, a *app, args []string) error {
			var raw json.RawMessage
			if len(args) == 2 {
				raw = json.RawMessage(args[1])
			}

			resp := a.svc.Respond(cmd.Context(), args[0], raw)

			enc := json.NewEncoder(a.out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(resp); err != nil {
				return fmt.Errorf("encoding response: %w", err)
			}
			if resp.Error != "" {
				return fmt.Errorf("%s", resp.Error)
			}
			return nil
		}),
	}
}
