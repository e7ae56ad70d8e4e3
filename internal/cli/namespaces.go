package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/tensu/internal/app"
	"github.com/five82/tensu/internal/logging"
)

// namespacesCmd lists the namespaces the configured credentials can see.
var namespacesCmd = &cobra.Command{
	Use:   "namespaces",
	Short: "List namespaces visible to the configured credentials",
	Long: `List the Sensu Go namespaces the configured credentials can see. The
configured namespace is marked with an asterisk.

Useful to check the url and credentials before starting the dashboard.`,
	Args: cobra.NoArgs,
	RunE: runNamespaces,
}

func init() {
	rootCmd.AddCommand(namespacesCmd)
}

func runNamespaces(cmd *cobra.Command, args []string) error {
	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		return err
	}
	client, err := app.NewClient(cfg, logging.Discard())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout())
	defer cancel()
	names, err := client.FetchNamespaces(ctx)
	if err != nil {
		return fmt.Errorf("list namespaces: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, name := range names {
		marker := "  "
		if name == client.Namespace() {
			marker = "* "
		}
		_, _ = fmt.Fprintln(out, marker+name)
	}
	return nil
}
