package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"visitlog/internal/ui/theme"
)

// PaletteSubmitMsg is emitted when the user confirms a command.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg is emitted when the user presses esc.
type PaletteCancelMsg struct{}

// Command is one entry offered by the palette.
type Command struct {
	Name string
	Args string
	Help string
}

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Foreground(theme.Text).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().Foreground(theme.Peach)
	helpStyle = lipgloss.NewStyle().Foreground(theme.Subtext0)
)

// Palette reads one command line. Tab completes the command name.
type Palette struct {
	input    textinput.Model
	commands []Command
	visible  bool
	width    int
}

func NewPalette(commands []Command) Palette {
	ti := textinput.New()
	ti.Prompt = ": "
	ti.Placeholder = "command"
	ti.CharLimit = 128
	return Palette{input: ti, commands: commands}
}

func (p Palette) Visible() bool { return p.visible }

// Open shows the palette with an empty input.
func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

// Value is the current input line.
func (p Palette) Value() string { return p.input.Value() }

// Matches lists the commands whose name starts with the first typed word.
// Once arguments follow, only an exact name matches.
func (p Palette) Matches() []Command {
	line := strings.TrimLeft(p.input.Value(), " ")
	word, _, typingArgs := strings.Cut(line, " ")
	var out []Command
	for _, c := range p.commands {
		if (typingArgs && c.Name == word) || (!typingArgs && strings.HasPrefix(c.Name, word)) {
			out = append(out, c)
		}
	}
	return out
}

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			p.close()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			val := strings.TrimSpace(p.input.Value())
			p.close()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: val} }
		case "tab":
			p.complete()
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *Palette) close() {
	p.visible = false
	p.input.Blur()
}

func (p *Palette) complete() {
	matches := p.Matches()
	if len(matches) == 0 {
		return
	}
	c := matches[0]
	if c.Args != "" {
		p.input.SetValue(c.Name + " ")
	} else {
		p.input.SetValue(c.Name)
	}
	p.input.CursorEnd()
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Commands") + "\n")
	sb.WriteString(p.input.View() + "\n")
	if matches := p.Matches(); len(matches) > 0 {
		sb.WriteString("\n")
		for _, c := range matches {
			usage := strings.TrimSpace(c.Name + " " + c.Args)
			sb.WriteString("  " + nameStyle.Render(usage) + "  " + helpStyle.Render(c.Help) + "\n")
		}
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(sb.String())
}
