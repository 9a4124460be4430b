package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aursu/sshdconf/internal/index"
)

// directiveItem implements list.Item for one directive occurrence.
type directiveItem struct {
	directive index.Directive
	path      string
	shadowed  bool
}

func (i directiveItem) Title() string {
	return fmt.Sprintf("%s %s", i.directive.Key, i.directive.Value)
}

func (i directiveItem) Description() string {
	status := "effective"
	if i.shadowed {
		status = "shadowed"
	}
	return fmt.Sprintf("%s | %s | %s:%d",
		status,
		i.directive.Scope.String(),
		truncatePath(i.path, 40),
		i.directive.Line,
	)
}

func (i directiveItem) FilterValue() string {
	return i.directive.Key
}

func truncatePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	return "..." + path[len(path)-maxLen+3:]
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)
)

// Model is the bubbletea model for the directive browser
type Model struct {
	list     list.Model
	selected *index.Directive
	path     string
	quitting bool
	width    int
	height   int
}

// buildItems flattens the index into list items, marking every
// occurrence that a first-match-wins lookup would ignore.
func buildItems(idx *index.Index) []list.Item {
	type queryKey struct {
		key   string
		scope string
	}
	seen := make(map[queryKey]bool)

	items := make([]list.Item, 0, len(idx.Directives))
	for _, d := range idx.Directives {
		q := queryKey{key: strings.ToLower(d.Key), scope: d.Scope.Predicate}
		items = append(items, directiveItem{
			directive: d,
			path:      idx.Path(d.File),
			shadowed:  seen[q],
		})
		seen[q] = true
	}
	return items
}

// NewBrowser creates a browser over every directive in the index.
func NewBrowser(idx *index.Index) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = selectedStyle
	delegate.Styles.SelectedDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	l := list.New(buildItems(idx), delegate, 80, 20)
	l.Title = fmt.Sprintf("sshdconf - %s", idx.RootFile().Path)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return Model{list: l}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		// Don't handle keys if filtering
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(directiveItem); ok {
				d := item.directive
				m.selected = &d
				m.path = item.path
				m.quitting = true
				return m, tea.Quit
			}

		case "q", "esc":
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	help := helpStyle.Render("[enter] Show location  [/] Filter  [q] Quit")

	return m.list.View() + "\n" + help
}

// Selection returns the chosen directive and its file path, or nil when
// the browser was dismissed.
func (m Model) Selection() (*index.Directive, string) {
	return m.selected, m.path
}

// RunBrowser runs the interactive directive browser and returns the
// selected occurrence, if any.
func RunBrowser(idx *index.Index) (*index.Directive, string, error) {
	m := NewBrowser(idx)
	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return nil, "", err
	}

	sel, path := finalModel.(Model).Selection()
	return sel, path, nil
}

// SimpleList renders a non-interactive directive listing for
// environments without a TTY.
func SimpleList(idx *index.Index) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("sshdconf - %s", idx.RootFile().Path)))
	b.WriteString("\n\n")

	items := buildItems(idx)
	if len(items) == 0 {
		b.WriteString("No directives found.\n")
		return b.String()
	}

	for _, it := range items {
		item := it.(directiveItem)
		fmt.Fprintf(&b, "  %s\n      %s\n", item.Title(), item.Description())
	}
	return b.String()
}
