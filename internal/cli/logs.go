package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/tensu/internal/config"
	"github.com/five82/tensu/internal/logtail"
)

var (
	logsLines   int
	logsNoColor bool
)

// logsCmd prints the tail of tensu's own log file.
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Print recent tensu log records",
	Long: `Print the last records from tensu's log file in a readable form.

The file lives in log_dir from the config (default ~/.local/share/tensu).
Set TENSU_DEBUG=1 before starting the dashboard to record every request.`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 50, "number of records to show (0 for all)")
	logsCmd.Flags().BoolVar(&logsNoColor, "no-color", false, "disable colored output")
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	lines, err := logtail.Read(cfg.LogPath(), logsLines)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(lines) == 0 {
		_, _ = fmt.Fprintf(out, "No log records in %s\n", cfg.LogPath())
		return nil
	}
	color := !logsNoColor && isTerminal(out)
	for _, line := range logtail.FormatLines(lines, color) {
		_, _ = fmt.Fprintln(out, line)
	}
	return nil
}
