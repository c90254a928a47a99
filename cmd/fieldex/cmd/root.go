// Package cmd provides the CLI commands for fieldex.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/fieldex/internal/version"
	"github.com/kailas-cloud/fieldex/pkg/sdk"
)

const defaultServer = "http://localhost:8080"

// remoteFlags are shared by the commands that talk to a running server.
type remoteFlags struct {
	server string
	apiKey string
}

func (f *remoteFlags) client() (*sdk.Client, error) {
	return sdk.New(f.server, sdk.WithAPIKey(f.apiKey), sdk.WithUserAgent("fieldex-cli/"+version.Version))
}

// NewRootCmd creates the root command for the fieldex CLI.
func NewRootCmd() *cobra.Command {
	remote := &remoteFlags{}

	cmd := &cobra.Command{
		Use:   "fieldex",
		Short: "Typed field dispatch for search indexing",
		Long: `fieldex parses raw field values with the type each field is declared
with and routes them to per-field indexes.

Run 'fieldex serve' to start the HTTP API; the other commands talk to a
running server.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.SetVersionTemplate("fieldex version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&remote.server, "server", envOr("FIELDEX_SERVER", defaultServer),
		"Server base URL (env FIELDEX_SERVER)")
	cmd.PersistentFlags().StringVar(&remote.apiKey, "api-key", os.Getenv("FIELDEX_API_KEY"),
		"API key (env FIELDEX_API_KEY)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newFieldsCmd(remote))
	cmd.AddCommand(newTypesCmd(remote))
	cmd.AddCommand(newIndexCmd(remote))
	cmd.AddCommand(newQueryCmd(remote))
	cmd.AddCommand(newPurgeCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command, canceling its context on SIGINT or SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
