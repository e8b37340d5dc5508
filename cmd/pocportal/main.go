// Pocportal is a terminal client for the POC portal.
//
// It provides an interactive TUI for initiating POCs, creating POC codes,
// and managing existing records, plus direct subcommands for scripted use.
// The client talks to the portal backend over HTTP and keeps its session
// in the user's config directory.
//
// Usage:
//
//	pocportal [command] [flags]
//
// Running without arguments launches the interactive portal UI.
// See 'pocportal --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bhujbal-nitin/poc-portal/internal/logging"
	"github.com/bhujbal-nitin/poc-portal/internal/version"
)

func main() {
	// .env is optional; it can carry POCPORTAL_API_URL and POCPORTAL_LOG_LEVEL
	_ = godotenv.Load()
	logging.InitializeFromEnv()
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pocportal",
	Short: "POC Portal Terminal Client",
	Long: `A terminal client for the POC portal.

Provides an interactive UI for initiating POCs, creating POC codes and
managing existing records, plus direct subcommands for scripted use.

If no command is specified, the interactive UI will launch automatically.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: launch the UI when no subcommand provided
		return runUI(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pocportal %s (commit: %s)\n", version.Version, version.Commit)
	},
}
