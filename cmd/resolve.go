package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aursu/sshdconf/internal/engine"
	"github.com/aursu/sshdconf/internal/render"
)

var resolveMatch string

var resolveCmd = &cobra.Command{
	Use:   "resolve <key>",
	Short: "Show the winning occurrence of an option and everything it shadows",
	Long: `Explains how sshd would resolve an option: the occurrence that wins
under first-match-wins evaluation with its file and line, followed by
every later occurrence in the same scope that is silently ignored.`,
	Example: `  sshdconf resolve PasswordAuthentication
  sshdconf resolve Port -c testdata/sshd_config`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVarP(&resolveMatch, "match", "m", "", "Match condition (e.g. \"User bob\"); default is global scope")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	key := args[0]

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	res, idx, err := engine.Lookup(configPath, key, resolveMatch, settings)
	if err != nil {
		return err
	}

	condition := resolveMatch
	if condition == "" {
		condition = "global"
	}

	fmt.Print(render.Resolution(idx, res, key, condition))
	return nil
}
