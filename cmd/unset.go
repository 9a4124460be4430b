package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aursu/sshdconf/internal/engine"
	"github.com/aursu/sshdconf/internal/logging"
)

var (
	unsetMatch  string
	unsetBackup bool
)

var unsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Comment out every occurrence of an option in the chosen scope",
	Long: `Removes an option from the chosen scope so the OpenSSH compiled-in
default applies again.

Occurrences are commented out with a trailing tag, never deleted, so the
previous state stays visible in the file. Unsetting an option that is
not set is a no-op.`,
	Example: `  sshdconf unset PermitRootLogin
  sshdconf unset X11Forwarding --match "User bob" --backup`,
	Args: cobra.ExactArgs(1),
	RunE: runUnset,
}

func init() {
	unsetCmd.Flags().StringVarP(&unsetMatch, "match", "m", "", "Match condition (e.g. \"User bob\"); default is global scope")
	unsetCmd.Flags().BoolVarP(&unsetBackup, "backup", "b", false, "Back up each file before its first modification")
	rootCmd.AddCommand(unsetCmd)
}

func runUnset(cmd *cobra.Command, args []string) error {
	key := args[0]

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	logging.Debug("applying unset", "key", key, "condition", unsetMatch, "config", configPath)

	report, err := engine.ApplyChange(engine.Request{
		ConfigPath: configPath,
		Key:        key,
		Condition:  unsetMatch,
		Unset:      true,
		Backup:     unsetBackup,
		Settings:   settings,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	reportChange(report)
	if report.Changed {
		logSuccess("%s unset in %s, default applies", key, scopeLabel(unsetMatch))
	}
	return nil
}
