package report

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	reportdto "visitlog/internal/modules/report/dto"
	"visitlog/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	Weekly(ctx context.Context, week string) (reportdto.ReportOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Report reportdto.ReportOutput
	Err    error
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model renders one weekly report as a scrollable table. It stays idle until
// Load is called.
type Model struct {
	port     Port
	viewport viewport.Model
	spinner  spinner.Model
	report   reportdto.ReportOutput
	err      error
	loading  bool
	width    int
	height   int
}

func New(port Port) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{port: port, viewport: viewport.New(0, 0), spinner: sp}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.width
		m.viewport.Height = m.height - 2
		m.viewport.SetContent(m.renderContent())

	case LoadedMsg:
		m.loading = false
		m.report = msg.Report
		m.err = msg.Err
		m.viewport.SetContent(m.renderContent())
		m.viewport.GotoTop()

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	var vCmd tea.Cmd
	m.viewport, vCmd = m.viewport.Update(msg)
	cmds = append(cmds, vCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Building report…")
	}
	header := theme.Title.Render("Weekly report")
	if m.report.Title != "" {
		header = theme.Title.Render(m.report.Title)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header+"\n", m.viewport.View())
}

// Load builds the report for week. An empty week is the previous one.
func (m *Model) Load(week string) tea.Cmd {
	m.loading = true
	port := m.port
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		out, err := port.Weekly(context.Background(), week)
		return LoadedMsg{Report: out, Err: err}
	})
}

func (m Model) renderContent() string {
	if m.err != nil {
		return theme.Fault.Render("report: " + m.err.Error())
	}
	if len(m.report.Columns) == 0 {
		return theme.Muted.Render("Run :report [week] to build a report")
	}
	if len(m.report.Rows) == 0 {
		return theme.Muted.Render("No visits recorded between " + m.report.Start.Format("02 Jan") + " and " + m.report.End.Format("02 Jan"))
	}
	return Render(m.report)
}

// Render lays the report out as a bordered table.
func Render(r reportdto.ReportOutput) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Surface1)).
		Headers(r.Columns...).
		Rows(r.Rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Foreground(theme.Sapphire).Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	return strings.TrimRight(t.Render(), "\n")
}
