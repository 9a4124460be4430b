package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aursu/sshdconf/internal/engine"
	"github.com/aursu/sshdconf/internal/logging"
)

var (
	setMatch  string
	setBackup bool
)

var setCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set an option to a value in the chosen scope",
	Long: `Sets an sshd option under first-match-wins semantics.

If the option already wins in the chosen scope, only its value bytes are
rewritten. Any later occurrence that would be shadowed is commented out
so the file never carries a silently ignored duplicate. If the option is
absent it is inserted into the right block, creating the Match block at
the end of the root file when necessary.`,
	Example: `  sshdconf set PasswordAuthentication no
  sshdconf set X11Forwarding yes --match "User bob"
  sshdconf set Port 2022 -c /etc/ssh/sshd_config --backup`,
	Args: cobra.ExactArgs(2),
	RunE: runSet,
}

func init() {
	setCmd.Flags().StringVarP(&setMatch, "match", "m", "", "Match condition (e.g. \"User bob\"); default is global scope")
	setCmd.Flags().BoolVarP(&setBackup, "backup", "b", false, "Back up each file before its first modification")
	rootCmd.AddCommand(setCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	logging.Debug("applying set", "key", key, "value", value, "condition", setMatch, "config", configPath)

	report, err := engine.ApplyChange(engine.Request{
		ConfigPath: configPath,
		Key:        key,
		Condition:  setMatch,
		Value:      value,
		Backup:     setBackup,
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
		logSuccess("%s = %s (%s) now effective at %s:%d",
			key, value, scopeLabel(setMatch), report.EffectiveFile, report.EffectiveLine)
	}
	return nil
}
