package present

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	presencedto "visitlog/internal/modules/presence/dto"
	"visitlog/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	ListActive(ctx context.Context) ([]presencedto.ActiveVisitorOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Active []presencedto.ActiveVisitorOutput
	At     time.Time
	Err    error
}

// ─── list item ───────────────────────────────────────────────────────────────

type activeItem struct {
	active presencedto.ActiveVisitorOutput
	now    time.Time
}

func (i activeItem) Title() string { return i.active.Visitor.FullName }
func (i activeItem) Description() string {
	return fmt.Sprintf("%s  since %s (%s)", i.active.Visitor.CurrentPurpose, i.active.CheckInTime.Local().Format("15:04"), Elapsed(i.active.CheckInTime, i.now))
}
func (i activeItem) FilterValue() string { return i.active.Visitor.FullName }

// ─── model ───────────────────────────────────────────────────────────────────

// Model lists visitors currently on the premises, most recent arrival first.
type Model struct {
	port    Port
	list    list.Model
	detail  viewport.Model
	spinner spinner.Model
	loading bool
	count   int
	width   int
	height  int
}

func New(port Port) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Present"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{port: port, list: l, detail: vp, spinner: sp, loading: true}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Refresh(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case LoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Present: " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = "Present"
		m.count = len(msg.Active)
		items := make([]list.Item, len(msg.Active))
		for i, a := range msg.Active {
			items[i] = activeItem{active: a, now: msg.At}
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.detail.SetContent(m.renderDetail())

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			m.detail.SetContent(m.renderDetail())
		}
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading visitors…")
	}

	listW := m.width * 5 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().Width(listW).Height(m.height).Render(m.list.View())
	detailPane := theme.Pane.Padding(0).Width(detailW - 2).Height(m.height - 2).Render(m.detail.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// Refresh reloads the active list.
func (m Model) Refresh() tea.Cmd {
	return func() tea.Msg {
		active, err := m.port.ListActive(context.Background())
		return LoadedMsg{Active: active, At: time.Now(), Err: err}
	}
}

// SelectedVisitorID returns the highlighted visitor, if any.
func (m Model) SelectedVisitorID() (string, bool) {
	if item, ok := m.list.SelectedItem().(activeItem); ok {
		return item.active.Visitor.ID, true
	}
	return "", false
}

func (m Model) Count() int { return m.count }

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Elapsed formats the time since a check-in as 1h05m.
func Elapsed(since, now time.Time) string {
	d := now.Sub(since)
	if d < 0 {
		d = 0
	}
	h := int(d.Hours())
	mins := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh%02dm", h, mins)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 5 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.detail.Width = detailW - 4
	m.detail.Height = m.height - 4
}

func (m Model) renderDetail() string {
	item, ok := m.list.SelectedItem().(activeItem)
	if !ok {
		return theme.Muted.Render("Nobody is checked in")
	}
	a := item.active
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(a.Visitor.FullName) + "\n\n")
	sb.WriteString(theme.Muted.Render("id:       ") + a.Visitor.ID + "\n")
	sb.WriteString(theme.Muted.Render("purpose:  ") + a.Visitor.CurrentPurpose + "\n")
	sb.WriteString(theme.Muted.Render("in since: ") + a.CheckInTime.Local().Format("Mon 02 Jan 15:04") + "\n")
	sb.WriteString(theme.Muted.Render("session:  ") + a.SessionID + "\n")
	sb.WriteString("\n" + theme.Muted.Render("d: check out  r: refresh"))
	return sb.String()
}
