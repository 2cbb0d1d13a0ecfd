package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/phasependulum/internal/config"
	"github.com/san-kum/phasependulum/internal/session"
)

var presetInfo = map[string]string{
	"rest":     "hanging straight down, drag it yourself",
	"swing":    "released from 1.2 rad",
	"inverted": "balanced just off the top",
	"spin":     "kicked from rest at 3 rad/s",
}

// Menu picks a preset and then hands over to the live Model.
type Menu struct {
	base    *config.Config
	opts    Options
	presets []string
	cursor  int
	err     error
}

// NewMenu lists the presets. The chosen preset's initial state replaces
// base's; everything else in base is kept.
func NewMenu(base *config.Config, opts Options) Menu {
	return Menu{base: base, opts: opts, presets: config.ListPresets()}
}

// RunMenu starts the preset picker and blocks until quit.
func RunMenu(base *config.Config, opts Options) error {
	p := tea.NewProgram(NewMenu(base, opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

func (m Menu) Init() tea.Cmd { return nil }

func (m Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		sess, err := m.start()
		if err != nil {
			m.err = err
			return m, nil
		}
		live := NewModel(sess, m.opts)
		return live, live.Init()
	}
	return m, nil
}

// Chosen returns the config the cursor's preset would start.
func (m Menu) Chosen() *config.Config {
	cfg := *m.base
	if preset := config.GetPreset(m.presets[m.cursor]); preset != nil {
		cfg.InitState = preset.InitState
	}
	return &cfg
}

func (m Menu) start() (*session.Session, error) {
	return session.Setup(m.Chosen())
}

func (m Menu) View() string {
	st := newStyles(GetTheme(m.opts.Theme))
	var b strings.Builder
	b.WriteString(st.title.Render("PHASE PENDULUM") + "\n\n")
	for i, name := range m.presets {
		line := fmt.Sprintf("%-10s %s", name, st.hint.Render(presetInfo[name]))
		if i == m.cursor {
			b.WriteString(st.selected.Render("▸ "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	if m.err != nil {
		b.WriteString("\n" + st.errText.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n" + st.hint.Render("↑↓ select  enter start  q quit"))
	return b.String()
}
