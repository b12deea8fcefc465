// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/tuichar/internal/keyboard"
	"github.com/verte-zerg/tuichar/internal/model"
	"github.com/verte-zerg/tuichar/internal/session"
	"github.com/verte-zerg/tuichar/internal/stats"
	"github.com/verte-zerg/tuichar/internal/statsui"
)

// DefaultReportPath is where ctrl+s writes the HTML report.
const DefaultReportPath = "tuichar-report.html"

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(1, 4).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	hitStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	missStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

type keyMap struct {
	Quit     key.Binding
	Report   key.Binding
	Keyboard key.Binding
	Reset    key.Binding
	Save     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Report, k.Keyboard, k.Reset, k.Save, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	Report:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "report")),
	Keyboard: key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "keyboard")),
	Reset:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "reset")),
	Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save html")),
}

var closeReport = key.NewBinding(key.WithKeys("esc", "ctrl+r"))

// Model implements the Bubble Tea practice UI. Every stats and timer
// operation goes through the session, which holds the lock.
type Model struct {
	config  model.Config
	session *session.Session
	log     logrus.FieldLogger

	help       help.Model
	report     *statsui.Model
	showReport bool
	keyboard   bool
	reportPath string

	width  int
	height int

	last   *session.Verdict
	status string
}

// NewModel constructs a practice TUI model.
func NewModel(cfg model.Config, sess *session.Session, log logrus.FieldLogger) *Model {
	return &Model{
		config:     cfg,
		session:    sess,
		log:        log,
		help:       help.New(),
		report:     statsui.NewModel("Session Report", sess.Report(), false),
		keyboard:   cfg.Keyboard,
		reportPath: DefaultReportPath,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.report.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case m.showReport && key.Matches(msg, closeReport):
		// The prompt is visible again, so its reaction time starts now.
		m.showReport = false
		m.session.RestartTimer()
		return m, nil
	case key.Matches(msg, keys.Report):
		m.report.SetReport(m.session.Report())
		m.showReport = true
		return m, nil
	case key.Matches(msg, keys.Keyboard):
		m.keyboard = !m.keyboard
		return m, nil
	case key.Matches(msg, keys.Reset):
		m.session.Reset()
		m.last = nil
		m.status = "Session reset."
		m.report.SetReport(m.session.Report())
		m.log.Info("session reset")
		return m, nil
	case key.Matches(msg, keys.Save):
		m.saveReport()
		return m, nil
	}

	if m.showReport {
		_, cmd := m.report.Update(msg)
		return m, cmd
	}

	switch msg.Type {
	case tea.KeySpace:
		m.submit(' ')
	case tea.KeyRunes:
		if msg.Paste || msg.Alt {
			return m, nil
		}
		for _, r := range msg.Runes {
			m.submit(r)
		}
	}
	return m, nil
}

func (m *Model) submit(r rune) {
	v := m.session.Submit(r)
	m.last = &v
	m.status = ""
	m.log.WithFields(logrus.Fields{
		"char":        v.Char.String(),
		"hit":         v.Hit,
		"reaction_ms": v.ReactionMs,
	}).Debug("attempt recorded")
}

func (m *Model) saveReport() {
	file, err := os.Create(m.reportPath)
	if err != nil {
		m.status = fmt.Sprintf("Failed to save report: %v", err)
		m.log.WithError(err).Error("failed to create report file")
		return
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close; the write error is reported below.
			_ = cerr
		}
	}()
	if err := stats.RenderHTML(file, m.session.Report()); err != nil {
		m.status = fmt.Sprintf("Failed to save report: %v", err)
		m.log.WithError(err).Error("failed to write report")
		return
	}
	m.status = fmt.Sprintf("Saved %s", m.reportPath)
	m.log.WithField("path", m.reportPath).Info("report saved")
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.showReport {
		return m.report.View()
	}
	current := m.session.Current()
	sections := []string{
		promptStyle.Render(current.String()),
		m.renderVerdict(),
	}
	if m.keyboard {
		sections = append(sections,
			hintStyle.Render(keyboard.HintFor(current).String()),
			keyboard.Render(current),
		)
	}
	if m.status != "" {
		sections = append(sections, hintStyle.Render(m.status))
	}
	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, content)
	footerLines := lipgloss.Place(m.width, 2, lipgloss.Center, lipgloss.Bottom, footer)
	return body + "\n" + footerLines
}

func (m *Model) renderVerdict() string {
	if m.last == nil {
		return hintStyle.Render("Type the character")
	}
	if m.last.Hit {
		return hitStyle.Render(fmt.Sprintf("%s in %d ms", m.last.Char, m.last.ReactionMs))
	}
	return missStyle.Render(fmt.Sprintf("Miss, expected %s", m.last.Char))
}

func (m *Model) renderFooter() string {
	segments := []string{
		fmt.Sprintf("Hits: %d", m.session.TotalHits()),
		fmt.Sprintf("Misses: %d", m.session.TotalMisses()),
	}
	if m.config.FocusWeak {
		if weak := m.session.WeakSet(); len(weak) > 0 {
			parts := make([]string, len(weak))
			for i, c := range weak {
				parts[i] = c.String()
			}
			segments = append(segments, "Focus: "+strings.Join(parts, ""))
		}
	}
	line := footerStyle.Render(strings.Join(segments, "  "))
	return line + "\n" + m.help.View(keys)
}
