package cmd

import (
	"fmt"

	"github.com/aursu/sshdconf/internal/config"
	"github.com/aursu/sshdconf/internal/engine"
)

// loadSettings resolves the active settings: defaults, overlaid with the
// --settings file when one is given.
func loadSettings() (*config.Settings, error) {
	return config.LoadSettingsOrDefault(settingsPath)
}

// scopeLabel renders a condition for user-facing messages.
func scopeLabel(condition string) string {
	if condition == "" || condition == "global" {
		return "global scope"
	}
	return fmt.Sprintf("Match %s", condition)
}

// reportChange prints the outcome of an applied change.
func reportChange(report *engine.ChangeReport) {
	if !report.Changed {
		logInfo("Already up to date, nothing written")
		return
	}

	for _, entry := range report.Diff {
		switch entry.Action {
		case "update":
			logInfo("%s:%d updated to %s", entry.File, entry.Line, entry.Detail)
		case "remove":
			logInfo("%s:%d commented out: %s", entry.File, entry.Line, entry.Detail)
		case "insert", "new_block":
			logInfo("%s:%d inserted: %s", entry.File, entry.Line, entry.Detail)
		default:
			logInfo("%s:%d %s", entry.File, entry.Line, entry.Action)
		}
	}

	for _, file := range report.FilesModified {
		logSuccess("Wrote %s", file)
	}
}
