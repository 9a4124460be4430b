package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aursu/sshdconf/internal/engine"
	"github.com/aursu/sshdconf/internal/errors"
)

var getMatch string

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the effective value of an option",
	Long: `Prints the value an option takes in the chosen scope, i.e. the value
of its first occurrence across the fully expanded include tree.

Exits with a dedicated status when the option is not set anywhere in the
scope, so scripts can distinguish "unset" from "set to empty-looking".`,
	Example: `  sshdconf get PasswordAuthentication
  sshdconf get X11Forwarding --match "User bob"`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	getCmd.Flags().StringVarP(&getMatch, "match", "m", "", "Match condition (e.g. \"User bob\"); default is global scope")
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	res, idx, err := engine.Lookup(configPath, key, getMatch, settings)
	if err != nil {
		return err
	}
	if !res.Found() {
		return errors.KeyNotSet(key)
	}

	if jsonOutput {
		out := map[string]any{
			"key":   res.Effective.Key,
			"value": res.Effective.Value,
			"file":  idx.Path(res.Effective.File),
			"line":  res.Effective.Line,
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println(res.Effective.Value)
	return nil
}
