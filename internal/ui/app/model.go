package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	presencedto "visitlog/internal/modules/presence/dto"
	reportdto "visitlog/internal/modules/report/dto"
	"visitlog/internal/ui/components"
	"visitlog/internal/ui/theme"
	presentview "visitlog/internal/ui/views/present"
	reportview "visitlog/internal/ui/views/report"
	rosterview "visitlog/internal/ui/views/roster"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type presencePort interface {
	ListActive(ctx context.Context) ([]presencedto.ActiveVisitorOutput, error)
	ListAll(ctx context.Context) ([]presencedto.VisitorOutput, error)
	ForceCheckOut(ctx context.Context, visitorID string) (presencedto.CheckOutOutput, error)
	ForceCheckOutAll(ctx context.Context) (presencedto.DeactivateAllOutput, error)
	Audit(ctx context.Context) ([]presencedto.ViolationOutput, error)
}

type reportPort interface {
	Weekly(ctx context.Context, week string) (reportdto.ReportOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabPresent tabID = iota
	tabRoster
	tabReport
	tabCount
)

var tabLabels = [tabCount]string{"Present", "Roster", "Report"}

// ─── async messages ──────────────────────────────────────────────────────────

type deactivatedMsg struct {
	out presencedto.CheckOutOutput
	err error
}

type deactivatedAllMsg struct {
	out presencedto.DeactivateAllOutput
	err error
}

type auditedMsg struct {
	violations []presencedto.ViolationOutput
	err        error
}

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Tab        key.Binding
	Help       key.Binding
	Palette    key.Binding
	Quit       key.Binding
	Refresh    key.Binding
	Deactivate key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette:    key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Deactivate: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "check out selected")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Refresh, k.Deactivate},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the admin console. It routes input between tabs and the command
// palette and leaves rendering to the sub-views.
type Model struct {
	presence presencePort

	presentView presentview.Model
	rosterView  rosterview.Model
	reportView  reportview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

func NewModel(presence presencePort, reports reportPort) Model {
	return Model{
		presence:    presence,
		presentView: presentview.New(presence),
		rosterView:  rosterview.New(presence),
		reportView:  reportview.New(reports),
		activeTab:   tabPresent,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(paletteCommands),
		status:      "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.presentView.Init(), m.rosterView.Init())
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	// Load results are routed to their view regardless of the visible tab.
	case presentview.LoadedMsg:
		var cmd tea.Cmd
		m.presentView, cmd = m.presentView.Update(msg)
		return m, cmd
	case rosterview.LoadedMsg:
		var cmd tea.Cmd
		m.rosterView, cmd = m.rosterView.Update(msg)
		return m, cmd
	case reportview.LoadedMsg:
		if msg.Err != nil {
			m.status = "report: " + msg.Err.Error()
		} else {
			m.status = fmt.Sprintf("report %s: %d rows", msg.Report.Week, len(msg.Report.Rows))
		}
		var cmd tea.Cmd
		m.reportView, cmd = m.reportView.Update(msg)
		return m, cmd

	case deactivatedMsg:
		switch {
		case msg.err != nil:
			m.status = "check out failed: " + msg.err.Error()
		case !msg.out.Closed:
			m.status = msg.out.VisitorID + " was not checked in"
		default:
			m.status = fmt.Sprintf("checked out %s after %d min", msg.out.VisitorID, msg.out.DurationMin)
		}
		return m, m.refreshCmd()

	case deactivatedAllMsg:
		if msg.err != nil {
			m.status = "deactivate all failed: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("deactivated %d of %d (%d failed)", msg.out.Closed, msg.out.Attempted, msg.out.Failed)
		}
		return m, m.refreshCmd()

	case auditedMsg:
		switch {
		case msg.err != nil:
			m.status = "audit: " + msg.err.Error()
		case len(msg.violations) == 0:
			m.status = "audit: ledger and directory agree"
		default:
			first := msg.violations[0]
			m.status = fmt.Sprintf("audit: %d problems, first %s: %s", len(msg.violations), first.VisitorID, first.Problem)
		}
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.subViewFiltering() {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		case "r":
			m.status = "refreshing"
			return m, m.refreshCmd()
		case "d":
			if id, ok := m.selectedVisitorID(); ok {
				return m, m.deactivateCmd(id)
			}
			m.status = "select a checked-in visitor first"
			return m, nil
		}
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabPresent:
		m.presentView, tabCmd = m.presentView.Update(msg)
	case tabRoster:
		m.rosterView, tabCmd = m.rosterView.Update(msg)
	case tabReport:
		m.reportView, tabCmd = m.reportView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabPresent:
		return m.presentView.View()
	case tabRoster:
		return m.rosterView.View()
	case tabReport:
		return m.reportView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == tabPresent {
			label = fmt.Sprintf("%s (%d)", label, m.presentView.Count())
		}
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	bar := "visitlog  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	right := theme.Muted.Render("?:help  r:refresh  d:check out  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ───────────────────────────────────────────────────────

// paletteCommands mirrors the switch in executePalette.
var paletteCommands = []components.Command{
	{Name: "refresh", Help: "reload present and roster"},
	{Name: "deactivate", Args: "<visitor-id>", Help: "check one visitor out"},
	{Name: "deactivate:all", Help: "check everyone out"},
	{Name: "audit", Help: "compare flags with open sessions"},
	{Name: "report", Args: "[week]", Help: "weekly report, e.g. 2026-W41"},
}

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	switch parts[0] {
	case "refresh":
		return m, m.refreshCmd()

	case "deactivate":
		if len(parts) < 2 {
			m.status = "usage: deactivate <visitor-id>"
			return m, nil
		}
		return m, m.deactivateCmd(parts[1])

	case "deactivate:all":
		m.status = "deactivating everyone"
		return m, m.deactivateAllCmd()

	case "audit":
		return m, m.auditCmd()

	case "report":
		week := ""
		if len(parts) >= 2 {
			week = parts[1]
		}
		m.activeTab = tabReport
		return m, m.reportView.Load(week)

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m Model) selectedVisitorID() (string, bool) {
	switch m.activeTab {
	case tabPresent:
		return m.presentView.SelectedVisitorID()
	case tabRoster:
		return m.rosterView.SelectedVisitorID()
	}
	return "", false
}

func (m Model) subViewFiltering() bool {
	switch m.activeTab {
	case tabPresent:
		return m.presentView.Filtering()
	case tabRoster:
		return m.rosterView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.presentView, _ = m.presentView.Update(sz)
	m.rosterView, _ = m.rosterView.Update(sz)
	m.reportView, _ = m.reportView.Update(sz)
}

// ─── async commands ──────────────────────────────────────────────────────────

func (m Model) refreshCmd() tea.Cmd {
	return tea.Batch(m.presentView.Refresh(), m.rosterView.Refresh())
}

func (m Model) deactivateCmd(visitorID string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.presence.ForceCheckOut(context.Background(), visitorID)
		return deactivatedMsg{out: out, err: err}
	}
}

func (m Model) deactivateAllCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.presence.ForceCheckOutAll(context.Background())
		return deactivatedAllMsg{out: out, err: err}
	}
}

func (m Model) auditCmd() tea.Cmd {
	return func() tea.Msg {
		violations, err := m.presence.Audit(context.Background())
		return auditedMsg{violations: violations, err: err}
	}
}
