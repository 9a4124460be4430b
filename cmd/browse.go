package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/aursu/sshdconf/internal/engine"
	"github.com/aursu/sshdconf/internal/logging"
	"github.com/aursu/sshdconf/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Interactively browse every directive in the include tree",
	Long: `Opens an interactive TUI listing every directive occurrence across the
root file and all included files, in the order sshd reads them.

Shadowed occurrences are marked. Selecting an entry prints its source
location for editing.

Actions:
  Enter  - Print location of selected directive
  /      - Filter by option key
  q/Esc  - Quit`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	idx, err := engine.LoadIndex(configPath, settings)
	if err != nil {
		return err
	}

	if len(idx.Directives) == 0 {
		logInfo("No directives found in %s", configPath)
		return nil
	}

	if !isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Print(tui.SimpleList(idx))
		return nil
	}

	logging.Debug("browser started", "directives", len(idx.Directives))

	sel, path, err := tui.RunBrowser(idx)
	if err != nil {
		return fmt.Errorf("browser error: %w", err)
	}
	if sel == nil {
		return nil
	}

	fmt.Printf("%s %s\n  %s:%d (%s)\n", sel.Key, sel.Value, path, sel.Line, sel.Scope)
	return nil
}
