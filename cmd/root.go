package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aursu/sshdconf/internal/config"
	"github.com/aursu/sshdconf/internal/logging"
)

var (
	verbose      bool
	jsonOutput   bool
	configPath   string
	settingsPath string
)

var rootCmd = &cobra.Command{
	Use:   "sshdconf",
	Short: "Structure-preserving editor for sshd_config include trees",
	Long: `sshdconf edits OpenSSH server configuration the way sshd reads it.

It indexes the root sshd_config and every file reachable through
Include directives, resolves options under first-match-wins semantics,
and applies minimal text edits:
  - Updating a value rewrites only the value bytes of the winning line
  - Losing duplicates are commented out, never deleted
  - New options are inserted into the correct scope with matching style
  - Comments, blank lines, and indentation are preserved byte for byte`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbose, jsonOutput, os.Stderr)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath, "Path to the root sshd_config")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "Path to a TOML settings file")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logWarning = logging.UserWarning
	_          = logging.UserError // reserved for future use
)
