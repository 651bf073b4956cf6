package roster

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	presencedto "visitlog/internal/modules/presence/dto"
	"visitlog/internal/ui/theme"
)

type Port interface {
	ListAll(ctx context.Context) ([]presencedto.VisitorOutput, error)
}

type LoadedMsg struct {
	Visitors []presencedto.VisitorOutput
	Err      error
}

type visitorItem struct {
	visitor presencedto.VisitorOutput
}

func (i visitorItem) Title() string {
	marker := theme.Muted.Render("○ ")
	if i.visitor.Active {
		marker = theme.In.Render("● ")
	}
	return marker + i.visitor.FullName
}

func (i visitorItem) Description() string {
	if i.visitor.Active {
		return fmt.Sprintf("%s  %s", i.visitor.Role, i.visitor.CurrentPurpose)
	}
	return i.visitor.Role
}

func (i visitorItem) FilterValue() string { return i.visitor.FullName }

// Model is the full registered roster in registration order.
type Model struct {
	port   Port
	list   list.Model
	width  int
	height int
}

func New(port Port) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Roster"
	l.Styles.Title = theme.Title
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	return Model{port: port, list: l}
}

func (m Model) Init() tea.Cmd { return m.Refresh() }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width, m.height)
	case LoadedMsg:
		if msg.Err != nil {
			m.list.Title = "Roster: " + msg.Err.Error()
			return m, nil
		}
		active := 0
		items := make([]list.Item, len(msg.Visitors))
		for i, v := range msg.Visitors {
			items[i] = visitorItem{visitor: v}
			if v.Active {
				active++
			}
		}
		m.list.Title = fmt.Sprintf("Roster (%d registered, %d in)", len(msg.Visitors), active)
		return m, m.list.SetItems(items)
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return lipgloss.NewStyle().Width(m.width).Height(m.height).Render(m.list.View())
}

func (m Model) Refresh() tea.Cmd {
	return func() tea.Msg {
		visitors, err := m.port.ListAll(context.Background())
		return LoadedMsg{Visitors: visitors, Err: err}
	}
}

// SelectedVisitorID reports the highlighted visitor only when they are checked in.
func (m Model) SelectedVisitorID() (string, bool) {
	if item, ok := m.list.SelectedItem().(visitorItem); ok && item.visitor.Active {
		return item.visitor.ID, true
	}
	return "", false
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}
