// Package cli builds the cobra command tree shared by the four adapter
// binaries. Serving over stdio is the default action; the OAuth
// integrations add login/logout/status for credential management.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/satchelhq/satchel/pkg/config"
	"github.com/satchelhq/satchel/pkg/credstore"
	"github.com/satchelhq/satchel/pkg/ops"
	"github.com/satchelhq/satchel/pkg/server"
	"github.com/satchelhq/satchel/pkg/session"
)

// App describes one adapter binary. Provider and Store are nil for
// integrations without delegated credentials (Apple Notes).
type App struct {
	Name        string
	DisplayName string
	Version     string
	Integration config.Integration
	Registry    *ops.Registry
	Provider    *session.Provider
	Store       *credstore.Store
}

// NewRoot assembles the command tree for an adapter binary.
func NewRoot(app App) *cobra.Command {
	root := &cobra.Command{
		Use:           app.Name,
		Short:         fmt.Sprintf("%s MCP server", app.DisplayName),
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), app)
		},
	}

	root.AddCommand(newServeCommand(app))
	root.AddCommand(newToolsCommand(app))
	root.AddCommand(newStatusCommand(app))
	if app.Provider != nil {
		root.AddCommand(newLoginCommand(app))
		root.AddCommand(newLogoutCommand(app))
	}
	return root
}

// Execute runs the command tree and exits non-zero on failure.
func Execute(app App) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRoot(app).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newServeCommand(app App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP over stdio (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), app)
		},
	}
}

func runServe(ctx context.Context, app App) error {
	return server.New(app.Name, app.Version, app.Registry).Run(ctx)
}

func newLoginCommand(app App) *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "login",
		Short: fmt.Sprintf("Authorize access to %s in a browser", app.DisplayName),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := app.Provider.Reauthenticate(cmd.Context(), account); err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			cmd.Printf("Login successful for account %q.\n", account)
			return nil
		},
	}

	cmd.Flags().StringVarP(&account, "account", "a", config.DefaultAccount, "Account alias to authorize")
	return cmd
}

func newLogoutCommand(app App) *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.Store.Delete(account); err != nil {
				return fmt.Errorf("logout failed: %w", err)
			}
			cmd.Printf("Credentials removed for account %q.\n", account)
			return nil
		},
	}

	cmd.Flags().StringVarP(&account, "account", "a", config.DefaultAccount, "Account alias to forget")
	return cmd
}

func newStatusCommand(app App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show credential status per account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.Provider == nil {
				cmd.Printf("%s needs no stored credentials.\n", app.DisplayName)
				return nil
			}
			for _, alias := range app.Integration.AccountAliases() {
				configured, expiry, err := app.Provider.Inspect(alias)
				switch {
				case err != nil:
					cmd.Printf("%-12s error: %v\n", alias, err)
				case !configured:
					cmd.Printf("%-12s not configured\n", alias)
				case expiry.IsZero():
					cmd.Printf("%-12s configured (no expiry recorded)\n", alias)
				default:
					cmd.Printf("%-12s configured, token expires %s\n", alias, expiry.Format("2006-01-02 15:04:05 MST"))
				}
			}
			return nil
		},
	}
}

func newToolsCommand(app App) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List available operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, desc := range app.Registry.List() {
				cmd.Printf("%-28s %s\n", desc.Name, desc.Description)
			}
			return nil
		},
	}
}
