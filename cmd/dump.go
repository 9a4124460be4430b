package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aursu/sshdconf/internal/engine"
	"github.com/aursu/sshdconf/internal/render"
)

var dumpFormat string

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the fully resolved effective configuration",
	Long: `Folds the entire include tree into the configuration sshd actually
applies: one value per option per scope, duplicates and shadowed
occurrences dropped, Match blocks grouped by condition.`,
	Example: `  sshdconf dump
  sshdconf dump --format yaml
  sshdconf dump -c testdata/sshd_config --format json`,
	Args: cobra.NoArgs,
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().StringVarP(&dumpFormat, "format", "f", "text", "Output format: text, json, or yaml")
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	idx, err := engine.LoadIndex(configPath, settings)
	if err != nil {
		return err
	}

	out, err := render.FormatDump(render.BuildDump(idx), dumpFormat)
	if err != nil {
		return err
	}

	fmt.Print(out)
	return nil
}
