package viz

import (
	"image/gif"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/phasependulum/internal/config"
	"github.com/san-kum/phasependulum/internal/pendulum"
	"github.com/san-kum/phasependulum/internal/scene"
	"github.com/san-kum/phasependulum/internal/session"
)

func newSession(t *testing.T) *session.Session {
	t.Helper()
	s, err := session.Setup(config.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func update(t *testing.T, m tea.Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	live, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return live
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestCanvasSetColor(t *testing.T) {
	c := NewCanvas(2, 1)
	c.SetColor(0, 0, "#ff0000ff")
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(4, 0)

	if c.Grid[0][0] != 0x2801 {
		t.Errorf("cell 0 = %U, want U+2801", c.Grid[0][0])
	}
	if c.Colors[0][0] != "#ff0000ff" {
		t.Errorf("colour = %q", c.Colors[0][0])
	}
	if c.Colors[0][1] != "" {
		t.Error("Set without colour coloured the cell")
	}
	if !c.IsSet(3, 3) || c.IsSet(2, 3) {
		t.Error("IsSet disagrees with Set")
	}
	if got := c.String(); got != "⠁⢀\n" {
		t.Errorf("String() = %q", got)
	}

	c.Clear()
	if c.IsSet(0, 0) || c.Colors[0][0] != "" {
		t.Error("Clear left pixels behind")
	}
}

func TestDrawLineDiagonal(t *testing.T) {
	c := NewCanvas(4, 2)
	c.DrawLine(0, 0, 5, 5, "")
	for i := 0; i <= 5; i++ {
		if !c.IsSet(i, i) {
			t.Errorf("pixel (%d,%d) not set", i, i)
		}
	}
}

func TestRenderStripsAlpha(t *testing.T) {
	if got := trimAlpha("#12345680"); got != "#123456" {
		t.Errorf("trimAlpha = %q", got)
	}
	c := NewCanvas(3, 2)
	c.SetColor(0, 0, "#ff0000ff")
	out := c.Render(ThemeMidnight.Text)
	if got := strings.Count(out, "\n"); got != 1 {
		t.Errorf("render has %d newlines, want 1", got)
	}
	if !strings.Contains(out, "⠁") {
		t.Error("render lost the lit cell")
	}
}

func TestRasterizeBob(t *testing.T) {
	s := newSession(t)
	bc := NewCanvas(36, 18)
	Rasterize(bc, s.PendulumCanvas, ThemeMidnight.Grid)

	// L=100 at rest: (0, -100) on a 600x600 view maps to (36, 48).
	if !bc.IsSet(36, 48) {
		t.Error("bob centre not drawn")
	}
	if got := bc.Colors[12][18]; got != pendulum.BobColor {
		t.Errorf("bob cell colour = %q, want %q", got, pendulum.BobColor)
	}
	if !bc.IsSet(36, 40) {
		t.Error("rod not drawn")
	}
}

func TestRasterizeGrid(t *testing.T) {
	sc := scene.NewCanvas(scene.Options{DisplayGrid: true, Width: 600, Height: 600})
	bc := NewCanvas(36, 18)
	Rasterize(bc, sc, "#303030")

	// Grid lines every 50 units land every 6 sub-pixels, dotted.
	if !bc.IsSet(36, 2) || !bc.IsSet(6, 36) {
		t.Error("grid lines missing")
	}
	if bc.IsSet(37, 1) {
		t.Error("pixel between grid lines is lit")
	}
	if got := bc.Colors[0][18]; got != "#303030" {
		t.Errorf("grid colour = %q", got)
	}
}

func TestToDisplay(t *testing.T) {
	s := newSession(t)
	bc := NewCanvas(36, 18)

	p := ToDisplay(bc, s.PendulumCanvas, 18, 12)
	if math.Abs(p.X()-25.0/3) > 1e-9 || math.Abs(p.Y()+350.0/3) > 1e-9 {
		t.Errorf("ToDisplay = %v", p)
	}
	if r := CellRadius(bc, s.PendulumCanvas); math.Abs(r-math.Hypot(50.0/3, 100.0/3)/2) > 1e-9 {
		t.Errorf("CellRadius = %v", r)
	}
}

func TestPaneAt(t *testing.T) {
	m := NewModel(newSession(t), DefaultOptions())

	tests := []struct {
		x, y     int
		pane     Pane
		col, row int
	}{
		{19, 14, PanePendulum, 18, 12},
		{1, 2, PanePendulum, 0, 0},
		{0, 5, PaneNone, 0, 0},
		{37, 5, PaneNone, 0, 0},
		{39, 2, PaneField, 0, 0},
		{74, 19, PaneField, 35, 17},
		{10, 1, PaneNone, 0, 0},
		{10, 20, PaneNone, 0, 0},
	}
	for _, tt := range tests {
		pane, col, row := m.PaneAt(tt.x, tt.y)
		if pane != tt.pane || col != tt.col || row != tt.row {
			t.Errorf("PaneAt(%d,%d) = %v,%d,%d want %v,%d,%d", tt.x, tt.y, pane, col, row, tt.pane, tt.col, tt.row)
		}
	}
}

func TestMouseDragsBob(t *testing.T) {
	s := newSession(t)
	m := NewModel(s, DefaultOptions())

	m = update(t, m, tea.MouseMsg{X: 19, Y: 14, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if !s.Dragging() {
		t.Fatal("press on the bob cell did not grab it")
	}

	m = update(t, m, tea.MouseMsg{X: 36, Y: 14, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	if s.State.Theta < 1 {
		t.Errorf("theta = %v after dragging right, want > 1", s.State.Theta)
	}
	if s.Pendulum.Mode() != pendulum.Dragging {
		t.Error("pendulum not in dragging mode")
	}

	update(t, m, tea.MouseMsg{X: 36, Y: 14, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if s.Dragging() || s.Pendulum.Mode() != pendulum.Free {
		t.Error("release did not free the pendulum")
	}
}

func TestMouseMissesBob(t *testing.T) {
	s := newSession(t)
	m := NewModel(s, DefaultOptions())

	update(t, m, tea.MouseMsg{X: 2, Y: 3, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if s.Dragging() {
		t.Error("press in the corner grabbed the bob")
	}
}

func TestMousePansField(t *testing.T) {
	s := newSession(t)
	m := NewModel(s, DefaultOptions())

	m = update(t, m, tea.MouseMsg{X: 50, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = update(t, m, tea.MouseMsg{X: 52, Y: 10, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	update(t, m, tea.MouseMsg{X: 52, Y: 10, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	// Two cells right drags the content right, so the view moves left.
	if off := s.FieldCanvas.Offset(); math.Abs(off.X()+2*600.0/36) > 1e-9 || off.Y() != 0 {
		t.Errorf("offset = %v", off)
	}

	update(t, m, runes("c"))
	if off := s.FieldCanvas.Offset(); off.Len() != 0 {
		t.Errorf("offset after recentre = %v", off)
	}
}

func TestTickAndPause(t *testing.T) {
	s := newSession(t)
	m := NewModel(s, DefaultOptions())

	next, cmd := m.Update(TickMsg{})
	m = next.(Model)
	if cmd == nil {
		t.Error("tick did not schedule the next tick")
	}
	if s.Frames() != 1 || len(m.energyHistory) != 1 {
		t.Errorf("frames = %d, history = %d", s.Frames(), len(m.energyHistory))
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if m.running {
		t.Fatal("space did not pause")
	}
	m = update(t, m, TickMsg{})
	if s.Frames() != 1 {
		t.Error("paused model advanced on tick")
	}
	update(t, m, runes("."))
	if s.Frames() != 2 {
		t.Error("single step did not advance")
	}
}

func TestSliderKeys(t *testing.T) {
	s := newSession(t)
	m := NewModel(s, DefaultOptions())

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if s.Panel.Selected().Key != "gravity" {
		t.Fatalf("selected %q after tab", s.Panel.Selected().Key)
	}
	update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if math.Abs(s.Params.Gravity-41.8) > 1e-9 {
		t.Errorf("gravity = %v, want 41.8", s.Params.Gravity)
	}
}

func TestLiveToggleAndTheme(t *testing.T) {
	s := newSession(t)
	m := NewModel(s, DefaultOptions())
	live := s.Field.Live()

	m = update(t, m, runes("f"))
	if s.Field.Live() == live {
		t.Error("f did not toggle the live field")
	}
	m = update(t, m, runes("t"))
	if m.theme.Name != ThemeRetroGreen.Name {
		t.Errorf("theme = %q after one cycle", m.theme.Name)
	}
}

func TestView(t *testing.T) {
	m := NewModel(newSession(t), DefaultOptions())
	out := m.View()
	for _, want := range []string{"PHASE PENDULUM", "RUNNING", "Gravity", "Delta time"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if lines := strings.Split(out, "\n"); len(lines) < 20 {
		t.Errorf("view has %d lines, want panes of 18 rows plus borders", len(lines))
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != ThemeMidnight.Name {
		t.Error("unknown theme should fall back to midnight")
	}
	if NextTheme(ThemeMinimal).Name != ThemeMidnight.Name {
		t.Error("theme cycle does not wrap")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("ThemeNames length mismatch")
	}
}

func TestSparklineKeepsNewest(t *testing.T) {
	if got := SparklineChart([]float64{5, 0, 0, 5}, 2); got != "▁█" {
		t.Errorf("SparklineChart = %q", got)
	}
	if got := SliderBar(0.5, 4); got != "██░░" {
		t.Errorf("SliderBar = %q", got)
	}
}

func TestRecorderSave(t *testing.T) {
	a, b := NewCanvas(2, 1), NewCanvas(3, 1)
	a.SetColor(0, 0, "#ff0000ff")
	b.Set(5, 3)

	path := filepath.Join(t.TempDir(), "out.gif")
	r := NewRecorder(path)
	r.Capture(a, b)
	r.Capture(a, b)
	if r.Frames() != 2 {
		t.Fatalf("frames = %d", r.Frames())
	}
	if err := r.Save(); err != nil {
		t.Fatal(err)
	}
	if r.Frames() != 0 {
		t.Error("Save kept frames")
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	g, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Image) != 2 {
		t.Errorf("gif has %d frames", len(g.Image))
	}
	if bounds := g.Image[0].Bounds(); bounds.Dx() != 5*charW || bounds.Dy() != charH {
		t.Errorf("frame bounds = %v", bounds)
	}
}

func TestMenuStartsPreset(t *testing.T) {
	menu := NewMenu(config.DefaultConfig(), DefaultOptions())
	if got := menu.Chosen().InitState.Theta; math.Abs(got-(math.Pi-1e-3)) > 1e-12 {
		t.Errorf("first preset theta = %v, want the inverted start", got)
	}

	next, _ := menu.Update(tea.KeyMsg{Type: tea.KeyDown})
	menu = next.(Menu)
	if menu.Chosen().InitState.Placement != config.PlaceDrag {
		t.Error("second preset should be rest")
	}

	next, cmd := menu.Update(tea.KeyMsg{Type: tea.KeyEnter})
	live, ok := next.(Model)
	if !ok {
		t.Fatalf("enter returned %T, want the live model", next)
	}
	if cmd == nil {
		t.Error("live model not started")
	}
	if live.sess.State.PivotLength != config.DefaultLength {
		t.Errorf("pivot length = %v", live.sess.State.PivotLength)
	}
}
