package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/five82/tensu/internal/app"
	"github.com/five82/tensu/internal/config"
	"github.com/five82/tensu/internal/prefs"
)

// Global flags
var (
	configPath string
	statePath  string
)

// rootCmd runs the dashboard.
var rootCmd = &cobra.Command{
	Use:   "tensu",
	Short: "Terminal dashboard for Sensu Go",
	Long: `tensu shows Sensu Go events and silences in the terminal and lets you
re-run checks, resolve events and manage silences without leaving it.

The backend url and credentials come from ~/.config/tensu/config.toml or
TENSU_* environment variables. The selected view, namespace, theme and
filters are saved on exit.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDashboard,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().StringVar(&statePath, "state", "",
		"state file (default "+prefs.DefaultPath()+")")
}

// Execute runs the command line with ctx and returns the exit code.
func Execute(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, strings.TrimRight(err.Error(), "\n"))
		return 1
	}
	return 0
}

func runDashboard(cmd *cobra.Command, args []string) error {
	if !isTerminal(cmd.OutOrStdout()) {
		return fmt.Errorf("tensu needs an interactive terminal; try 'tensu namespaces' or 'tensu logs'")
	}
	return app.Run(cmd.Context(), app.Options{ConfigPath: configPath, StatePath: statePath})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
