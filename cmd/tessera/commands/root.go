package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dyluth/tessera/internal/config"
	"github.com/dyluth/tessera/internal/logging"
)

var (
	version string
	commit  string
	date    string
)

var (
	configPath  string
	dashboardID string
	verbose     bool
	showMetrics bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tessera",
	Short: "Tessera - dashboard widget layout engine",
	Long: `Tessera manages grid dashboards of configurable widgets.

Widgets are placed first-fit on a 12-column grid, per-breakpoint layouts are
derived from the canonical one, and every change is saved with rotating
backups to SQLite, Redis or memory.`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.New(cmd.ErrOrStderr(), logging.Level(verbose))
		cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
		return nil
	},
	// Prevent silent success when unknown flags are passed to root command
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	// Enable strict flag parsing - unknown flags will cause an error
	FParseErrWhitelist: cobra.FParseErrWhitelist{},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	// Silence Cobra's default error and usage printing
	// We print formatted colored errors directly in the printer package
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.ExecuteContext(ctx)
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultFileName, "Path to tessera.yml")
	rootCmd.PersistentFlags().StringVarP(&dashboardID, "dashboard", "d", "", "Dashboard id (defaults to the configured dashboard)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&showMetrics, "metrics", false, "Print persistence metrics to stderr on exit")
}
