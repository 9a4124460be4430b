// Package render formats resolution results and effective-configuration
// dumps for terminal and machine consumption.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aursu/sshdconf/internal/index"
	"github.com/aursu/sshdconf/internal/resolve"
)

var (
	effectiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	shadowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Strikethrough(true)
	locationStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	scopeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

// Resolution renders the outcome of a (key, condition) query: the
// effective occurrence with provenance, followed by every shadowed
// occurrence in read order.
func Resolution(idx *index.Index, res resolve.Resolution, key, condition string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s (%s)\n", key, scopeStyle.Render(condition))

	if !res.Found() {
		b.WriteString("  not set (OpenSSH default applies)\n")
		return b.String()
	}

	eff := res.Effective
	fmt.Fprintf(&b, "  %s %s\n",
		effectiveStyle.Render(fmt.Sprintf("%s %s", eff.Key, eff.Value)),
		locationStyle.Render(fmt.Sprintf("%s:%d", idx.Path(eff.File), eff.Line)))

	for _, shadow := range res.Shadows {
		fmt.Fprintf(&b, "  %s %s\n",
			shadowStyle.Render(fmt.Sprintf("%s %s", shadow.Key, shadow.Value)),
			locationStyle.Render(fmt.Sprintf("%s:%d  (shadowed)", idx.Path(shadow.File), shadow.Line)))
	}
	return b.String()
}
