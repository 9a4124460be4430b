// Package tui provides terminal user interface components for sshdconf.
//
// This package uses the Bubble Tea framework to create the interactive
// directive browser behind `sshdconf browse`.
//
// # Directive Browser
//
// The browser lists every directive occurrence across the include tree
// in read order and lets the user jump to its source location:
//
//	sel, path, err := tui.RunBrowser(idx)
//	if sel != nil {
//	    // Print path:line provenance for the selection
//	}
//
// # Browser Features
//
//   - Lists all directives in evaluation order, shadowed ones marked
//   - Keyboard navigation (j/k or arrows), / to filter by key
//   - Quick actions: Enter (show location), q/esc (quit)
//   - SimpleList fallback when no TTY is attached
//
// # Dependencies
//
// Uses the Charm libraries:
//   - github.com/charmbracelet/bubbletea - TUI framework
//   - github.com/charmbracelet/bubbles - UI components
//   - github.com/charmbracelet/lipgloss - Styling
package tui
