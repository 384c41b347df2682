package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/unbound-force/cr/internal/metrics"
	"github.com/unbound-force/cr/internal/report"
)

// viewerFooterLines is the height reserved below the viewport for the
// status line and help.
const viewerFooterLines = 2

type viewerKeys struct {
	Up, Down         key.Binding
	PageUp, PageDown key.Binding
	Top, Bottom      key.Binding
	Quit, Help       key.Binding
}

func (k viewerKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Quit, k.Help}
}

func (k viewerKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Top, k.Bottom, k.Quit, k.Help},
	}
}

func newViewerKeys() viewerKeys {
	bind := func(label, desc string, keys ...string) key.Binding {
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, desc))
	}
	return viewerKeys{
		Up:       bind("^/k", "up", "up", "k"),
		Down:     bind("v/j", "down", "down", "j"),
		PageUp:   bind("pgup", "page up", "pgup", "ctrl+u"),
		PageDown: bind("pgdn", "page down", "pgdown", "ctrl+d"),
		Top:      bind("g", "top", "home", "g"),
		Bottom:   bind("G", "bottom", "end", "G"),
		Quit:     bind("q", "quit", "q", "ctrl+c", "esc"),
		Help:     bind("?", "help", "?"),
	}
}

var (
	viewerTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)

	viewerStatus = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

type reportModel struct {
	viewport viewport.Model
	help     help.Model
	keys     viewerKeys
	ready    bool
	content  string
	status   string
}

func newReportModel(rpt *metrics.ProjectReport) reportModel {
	s := rpt.Summary
	return reportModel{
		help:    help.New(),
		keys:    newViewerKeys(),
		content: renderReportContent(rpt),
		status:  fmt.Sprintf("MI %.2f  cyclomatic %.2f  change cost %.2f%%", s.Maintainability, s.Cyclomatic, s.ChangeCost),
	}
}

func renderReportContent(rpt *metrics.ProjectReport) string {
	var sb strings.Builder
	sb.WriteString(viewerTitle.Render(
		fmt.Sprintf("Complexity report: %d module(s), %d function(s)",
			rpt.Summary.Modules, rpt.Summary.Functions)))
	sb.WriteString("\n\n")
	_ = report.WriteText(&sb, rpt) // strings.Builder never fails
	return sb.String()
}

func (reportModel) Init() tea.Cmd { return nil }

func (m reportModel) resize(width, height int) reportModel {
	if !m.ready {
		m.viewport = viewport.New(width, height-viewerFooterLines)
		m.viewport.SetContent(m.content)
		m.ready = true
		return m
	}
	m.viewport.Width = width
	m.viewport.Height = height - viewerFooterLines
	return m
}

func (m reportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Top):
			m.viewport.GotoTop()
			return m, nil
		case key.Matches(msg, m.keys.Bottom):
			m.viewport.GotoBottom()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m reportModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	footer := viewerStatus.Render(
		fmt.Sprintf(" %3.f%%  %s ", m.viewport.ScrollPercent()*100, m.status)) +
		" " + m.help.View(m.keys)
	return m.viewport.View() + "\n" + footer
}

// runInteractiveReport opens the report in a full-screen pager.
func runInteractiveReport(rpt *metrics.ProjectReport) error {
	_, err := tea.NewProgram(newReportModel(rpt),
		tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
