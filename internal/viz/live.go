package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/phasependulum/internal/scene"
	"github.com/san-kum/phasependulum/internal/session"
	log "github.com/sirupsen/logrus"
)

const (
	historyCapacity = 600
	sliderWidth     = 20

	// headerLines is the height of the title bar above the panes.
	headerLines = 1
)

// Pane identifies the canvas under the mouse.
type Pane int

const (
	PaneNone Pane = iota
	PanePendulum
	PaneField
)

type TickMsg time.Time

// Options sizes the two canvas panes in terminal cells.
type Options struct {
	PaneWidth  int
	PaneHeight int
	Theme      string
	GIFPath    string
}

func DefaultOptions() Options {
	return Options{
		PaneWidth:  36,
		PaneHeight: 18,
		Theme:      ThemeMidnight.Name,
		GIFPath:    "phasependulum.gif",
	}
}

// Model drives a session from bubbletea messages. Pointer fields are
// shared between the value copies bubbletea passes around.
type Model struct {
	sess    *session.Session
	opts    Options
	theme   Theme
	fps     int
	pendBuf *Canvas
	fldBuf  *Canvas

	running  bool
	showHelp bool
	panning  bool
	panFrom  scene.Vec

	energyHistory []float64
	thetaHistory  []float64

	recorder  *Recorder
	recording bool
	status    string
}

func NewModel(sess *session.Session, opts Options) Model {
	if opts.PaneWidth <= 0 || opts.PaneHeight <= 0 {
		def := DefaultOptions()
		opts.PaneWidth, opts.PaneHeight = def.PaneWidth, def.PaneHeight
	}
	if opts.GIFPath == "" {
		opts.GIFPath = DefaultOptions().GIFPath
	}
	m := Model{
		sess:          sess,
		opts:          opts,
		theme:         GetTheme(opts.Theme),
		fps:           sess.Config().Display.FPS,
		pendBuf:       NewCanvas(opts.PaneWidth, opts.PaneHeight),
		fldBuf:        NewCanvas(opts.PaneWidth, opts.PaneHeight),
		running:       true,
		energyHistory: make([]float64, 0, historyCapacity),
		thetaHistory:  make([]float64, 0, historyCapacity),
		recorder:      NewRecorder(opts.GIFPath),
	}
	m.draw()
	return m
}

// Run starts the TUI with mouse motion reporting and blocks until quit.
func Run(sess *session.Session, opts Options) error {
	p := tea.NewProgram(NewModel(sess, opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the session.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.stopRecording()
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case ".":
			if !m.running {
				m.step()
			}
		case "r":
			if err := m.sess.Reset(); err != nil {
				m.status = err.Error()
			}
			m.energyHistory = m.energyHistory[:0]
			m.thetaHistory = m.thetaHistory[:0]
		case "tab", "down", "j":
			if m.sess.Panel != nil {
				m.sess.Panel.Next()
			}
		case "shift+tab", "up", "k":
			if m.sess.Panel != nil {
				m.sess.Panel.Prev()
			}
		case "right", "l":
			m.adjust(1)
		case "left", "h":
			m.adjust(-1)
		case "f":
			m.sess.Field.SetLive(!m.sess.Field.Live())
		case "c":
			m.sess.FieldCanvas.ResetView()
		case "g":
			if m.recording {
				m.stopRecording()
			} else {
				m.recording = true
			}
		case "t":
			m.theme = NextTheme(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
		m.draw()
	case tea.MouseMsg:
		m.mouse(msg)
		m.draw()
	case TickMsg:
		if m.running {
			m.step()
		}
		m.draw()
		if m.recording {
			m.recorder.Capture(m.pendBuf, m.fldBuf)
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	m.sess.Frame()
	if err := m.sess.Pendulum.Err(); err != nil {
		m.status = err.Error()
	}
	m.energyHistory = appendCapped(m.energyHistory, m.sess.Energy())
	m.thetaHistory = appendCapped(m.thetaHistory, m.sess.State.Theta)
}

func appendCapped(hist []float64, v float64) []float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return hist
	}
	if len(hist) >= historyCapacity {
		hist = hist[1:]
	}
	return append(hist, v)
}

func (m *Model) adjust(steps int) {
	if m.sess.Panel == nil {
		return
	}
	if err := m.sess.Panel.Adjust(steps); err != nil {
		m.status = err.Error()
		return
	}
	m.status = ""
}

func (m *Model) stopRecording() {
	if !m.recording {
		return
	}
	m.recording = false
	n := m.recorder.Frames()
	if err := m.recorder.Save(); err != nil {
		log.WithError(err).Error("save recording")
		m.status = err.Error()
		return
	}
	log.WithFields(log.Fields{"path": m.recorder.Path, "frames": n}).Info("recording saved")
}

// PaneAt maps a terminal cell to the pane under it and the cell
// coordinates inside that pane's canvas.
func (m Model) PaneAt(x, y int) (Pane, int, int) {
	row := y - headerLines - 1
	if row < 0 || row >= m.opts.PaneHeight {
		return PaneNone, 0, 0
	}
	paneW := m.opts.PaneWidth + 2
	switch {
	case x >= 1 && x <= m.opts.PaneWidth:
		return PanePendulum, x - 1, row
	case x >= paneW+1 && x <= paneW+m.opts.PaneWidth:
		return PaneField, x - paneW - 1, row
	}
	return PaneNone, 0, 0
}

// mouse routes a left-button drag to the bob on the pendulum pane, or
// to panning on the field pane.
func (m *Model) mouse(msg tea.MouseMsg) {
	pane, col, row := m.PaneAt(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		switch pane {
		case PanePendulum:
			p := ToDisplay(m.pendBuf, m.sess.PendulumCanvas, col, row)
			m.sess.Grab(p, session.GrabSlack+CellRadius(m.pendBuf, m.sess.PendulumCanvas))
		case PaneField:
			m.panning = true
			m.panFrom = ToDisplay(m.fldBuf, m.sess.FieldCanvas, col, row)
		}
	case tea.MouseActionMotion:
		if m.sess.Dragging() {
			m.sess.Move(m.pendulumPoint(msg.X, msg.Y))
		} else if m.panning && pane == PaneField {
			// Moving the view by the pointer's opposite keeps panFrom
			// under the pointer.
			p := ToDisplay(m.fldBuf, m.sess.FieldCanvas, col, row)
			m.sess.FieldCanvas.Pan(m.panFrom.Sub(p))
		}
	case tea.MouseActionRelease:
		if m.sess.Dragging() {
			m.sess.Release(m.pendulumPoint(msg.X, msg.Y))
		}
		m.panning = false
	}
}

// pendulumPoint maps a cell to pendulum display units even when the
// pointer has left the pane, so a drag can swing the bob past the border.
func (m Model) pendulumPoint(x, y int) scene.Vec {
	return ToDisplay(m.pendBuf, m.sess.PendulumCanvas, x-1, y-headerLines-1)
}

func (m *Model) draw() {
	m.pendBuf.Clear()
	m.fldBuf.Clear()
	Rasterize(m.pendBuf, m.sess.PendulumCanvas, m.theme.Grid)
	Rasterize(m.fldBuf, m.sess.FieldCanvas, m.theme.Grid)
}

func (m Model) statusBadge() string {
	st := newStyles(m.theme)
	switch {
	case m.sess.Dragging():
		return st.dragging.Render("DRAGGING")
	case !m.running:
		return st.paused.Render("PAUSED")
	}
	return st.running.Render("RUNNING")
}

func (m Model) View() string {
	st := newStyles(m.theme)
	fallback := m.theme.Text

	title := st.title.Render("PHASE PENDULUM") + "  " + m.statusBadge()
	if m.recording {
		title += "  " + st.errText.Render(fmt.Sprintf("● REC %d", m.recorder.Frames()))
	}
	if m.sess.Field.Live() {
		title += "  " + st.hint.Render("live field")
	}

	pend := st.pane.Render(m.pendBuf.Render(fallback))
	fld := st.pane.Render(m.fldBuf.Render(fallback))

	var s strings.Builder
	state := m.sess.State
	fmt.Fprintf(&s, "%s %s\n", st.label.Render("θ   "), st.value.Render(fmt.Sprintf("%8.4f", state.Theta)))
	fmt.Fprintf(&s, "%s %s\n", st.label.Render("θ̇   "), st.value.Render(fmt.Sprintf("%8.4f", state.ThetaDot)))
	fmt.Fprintf(&s, "%s %s\n", st.label.Render("θ̈   "), st.value.Render(fmt.Sprintf("%8.4f", state.ThetaDoubleDot)))
	fmt.Fprintf(&s, "%s %s\n", st.label.Render("L   "), st.value.Render(fmt.Sprintf("%8.2f", state.PivotLength)))
	fmt.Fprintf(&s, "%s %s\n", st.label.Render("E   "), st.value.Render(fmt.Sprintf("%8.2f", m.sess.Energy())))
	fmt.Fprintf(&s, "%s %d\n\n", st.label.Render("frame"), m.sess.Frames())

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(chart + "\n")
	}
	s.WriteString(st.label.Render("θ ") + SparklineChart(m.thetaHistory, 30) + "\n\n")

	if m.sess.Panel != nil {
		s.WriteString(renderSliders(m.sess.Panel, st, sliderWidth) + "\n\n")
	}
	s.WriteString(st.label.Render("|v| ") + MagnitudeLegend(m.maxMagnitude(), 24) + "\n")
	if m.status != "" {
		s.WriteString(st.errText.Render(m.status) + "\n")
	}
	s.WriteString(st.hint.Render("SP:Pause R:Reset Q:Quit ?:Help"))

	stats := lipgloss.NewStyle().Padding(0, 2).Render(s.String())
	main := title + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, pend, fld, stats)
	if m.showHelp {
		return main + "\n" + helpText
	}
	return main
}

func (m Model) maxMagnitude() float64 {
	hi := 0.0
	for _, s := range m.sess.Field.Samples() {
		if s.Magnitude > hi {
			hi = s.Magnitude
		}
	}
	return hi
}

// helpText goes below the panes so the mouse mapping is unchanged.
const helpText = `
  Mouse     - drag the bob / pan the field
  Space     - pause/resume      .  - single frame while paused
  Tab/↑↓    - select slider     ←→ - adjust slider
  F         - toggle live field C  - recentre field
  R         - reset             G  - toggle GIF recording
  T         - cycle themes      Q  - quit`
