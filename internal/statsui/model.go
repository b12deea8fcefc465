// Package statsui provides the Bubble Tea report view.
package statsui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuichar/internal/stats"
)

const trendWindow = 5

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	trendStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Top, k.Bottom, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func newKeyMap(standalone bool) keyMap {
	quit := key.NewBinding(key.WithKeys("esc", "ctrl+r"), key.WithHelp("esc", "back"))
	if standalone {
		quit = key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit"))
	}
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Top:    key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom: key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Quit:   quit,
	}
}

// Model implements the Bubble Tea report view. Standalone models quit on q;
// embedded ones leave that key to the parent.
type Model struct {
	title      string
	report     stats.Report
	table      table.Model
	keys       keyMap
	help       help.Model
	standalone bool

	width  int
	height int
}

// NewModel constructs a report view.
func NewModel(title string, report stats.Report, standalone bool) *Model {
	m := &Model{
		title:      title,
		keys:       newKeyMap(standalone),
		help:       help.New(),
		standalone: standalone,
	}
	m.table = table.New(
		table.WithColumns(columns()),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	m.table.SetStyles(tableStyles())
	m.SetReport(report)
	return m
}

// SetReport replaces the displayed report.
func (m *Model) SetReport(report stats.Report) {
	m.report = report
	m.table.SetRows(buildRows(report))
	m.layout()
}

// SetSize resizes the view.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.layout()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		switch {
		case m.standalone && key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Top):
			m.table.GotoTop()
			return m, nil
		case key.Matches(msg, m.keys.Bottom):
			m.table.GotoBottom()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	sections := []string{
		titleStyle.Render(m.title),
		headerStyle.Render(totalsLine(m.report)),
	}
	if len(m.report.Rows) == 0 {
		sections = append(sections, mutedStyle.Render("No attempts recorded."))
	} else {
		sections = append(sections, m.table.View())
	}
	if trend := m.trendLine(); trend != "" {
		sections = append(sections, trend)
	}
	sections = append(sections, m.help.View(m.keys))
	return strings.Join(sections, "\n")
}

func (m *Model) trendLine() string {
	width := stats.TrendWidthFor(m.width)
	line := stats.TrendLine(m.report.Trend, trendWindow, width)
	if line == "" {
		return ""
	}
	return mutedStyle.Render("Reaction trend: ") + trendStyle.Render(line)
}

func (m *Model) layout() {
	// title (3 lines with border), totals, trend, help, table header.
	const chrome = 3 + 1 + 1 + 1 + 2
	height := m.height - chrome
	if m.height == 0 {
		height = 10
	}
	m.table.SetHeight(max(1, min(height, len(m.report.Rows)+1)))
	if m.width > 0 {
		m.table.SetWidth(m.width)
	}
	m.help.Width = m.width
}

func totalsLine(r stats.Report) string {
	line := fmt.Sprintf("Hits %d  Misses %d  Accuracy %.1f%%", r.TotalHits, r.TotalMisses, r.Accuracy()*100)
	if slow := stats.SlowestChars(r.Rows, 3); len(slow) > 0 {
		parts := make([]string, len(slow))
		for i, c := range slow {
			parts[i] = c.String()
		}
		line += "  Slowest " + strings.Join(parts, " ")
	}
	return line
}

func columns() []table.Column {
	widths := []int{4, 6, 9, 9, 9, 7}
	cols := make([]table.Column, len(stats.ReportColumns))
	for i, title := range stats.ReportColumns {
		cols[i] = table.Column{Title: title, Width: widths[i]}
	}
	return cols
}

func buildRows(r stats.Report) []table.Row {
	rows := make([]table.Row, 0, len(r.Rows))
	for _, row := range r.Rows {
		rows = append(rows, table.Row(row.Cells()))
	}
	return rows
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}
