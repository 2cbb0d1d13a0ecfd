package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/phasependulum/internal/metrics"
	"github.com/san-kum/phasependulum/internal/scene"
	"github.com/san-kum/phasependulum/internal/session"
	log "github.com/sirupsen/logrus"
)

// Theme Colors (Monochrome Hyper-Minimalist)
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)    // Deep Black
	ColAccent  = rl.NewColor(180, 180, 180, 255) // Soft White
	ColSelect  = rl.NewColor(255, 255, 255, 255) // Bright White
	ColText    = rl.NewColor(140, 140, 140, 255) // Neutral Gray
	ColTextDim = rl.NewColor(60, 60, 60, 255)    // Dark Gray (Subtle)
	ColGrid    = rl.NewColor(30, 30, 30, 255)    // Barely visible grid
)

const (
	windowW = 1280
	windowH = 760

	telemetryLen = 300
)

// App is the raylib front-end. Both canvases are drawn into fixed
// viewports; the scenes keep their own display units.
type App struct {
	Sess     *session.Session
	Running  bool
	ShowHelp bool
	Font     rl.Font

	PendulumView Viewport
	FieldView    Viewport
	SliderView   Viewport

	panning bool
	panFrom scene.Vec

	drift     *metrics.EnergyDrift
	Telemetry []float64
}

// Viewport is a screen rectangle a canvas is scaled into.
type Viewport struct {
	X, Y, W, H float64
}

func (v Viewport) Contains(px, py float64) bool {
	return px >= v.X && px < v.X+v.W && py >= v.Y && py < v.Y+v.H
}

// ToDisplay maps a screen point inside v to display units of c.
func (v Viewport) ToDisplay(c *scene.Canvas, px, py float64) scene.Vec {
	return c.Inverse(v.W, v.H)(px-v.X, py-v.Y)
}

// ToScreen maps display units of c to a screen point inside v.
func (v Viewport) ToScreen(c *scene.Canvas, p scene.Vec) rl.Vector2 {
	x, y := c.Transform(v.W, v.H)(p)
	return rl.NewVector2(float32(v.X+x), float32(v.Y+y))
}

func initWindow(fps int) {
	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(windowW, windowH, "phasependulum")
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
}

// loadFont loads Liberation Mono when installed and falls back to the
// raylib default font.
func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	if font.Texture.ID == 0 {
		return rl.GetFontDefault()
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp lays out the two scenes side by side, each square, with the
// sliders underneath.
func NewApp(sess *session.Session) *App {
	a := &App{
		Sess:         sess,
		Running:      true,
		Font:         loadFont(),
		PendulumView: Viewport{X: 20, Y: 60, W: 600, H: 600},
		FieldView:    Viewport{X: 660, Y: 60, W: 600, H: 600},
		SliderView:   Viewport{X: 20, Y: 680, W: 1240, H: 60},
		drift:        metrics.NewEnergyDrift(sess.Params),
		Telemetry:    make([]float64, 0, telemetryLen),
	}
	return a
}

// Run opens the window and blocks until it is closed.
func Run(sess *session.Session) {
	initWindow(sess.Config().Display.FPS)
	defer rl.CloseWindow()
	NewApp(sess).RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) {
			return
		}
		a.Update()
		a.Draw()
	}
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		if err := a.Sess.Reset(); err != nil {
			log.WithError(err).Error("reset")
		}
		a.drift.Reset()
		a.Telemetry = a.Telemetry[:0]
	}
	if rl.IsKeyPressed(rl.KeyF) {
		a.Sess.Field.SetLive(!a.Sess.Field.Live())
	}
	if rl.IsKeyPressed(rl.KeyC) {
		a.Sess.FieldCanvas.ResetView()
	}
	if rl.IsKeyPressed(rl.KeySlash) {
		a.ShowHelp = !a.ShowHelp
	}
	a.updateSliders()
	a.updateMouse()

	if a.Running || rl.IsKeyPressed(rl.KeyPeriod) {
		a.step()
	}
}

func (a *App) step() {
	a.Sess.Frame()
	a.drift.Observe(a.Sess.Frames(), *a.Sess.State)
	if len(a.Telemetry) >= telemetryLen {
		a.Telemetry = a.Telemetry[1:]
	}
	a.Telemetry = append(a.Telemetry, a.drift.Current())
}

func (a *App) updateSliders() {
	p := a.Sess.Panel
	if p == nil {
		return
	}
	if rl.IsKeyPressed(rl.KeyTab) || rl.IsKeyPressed(rl.KeyDown) {
		p.Next()
	}
	if rl.IsKeyPressed(rl.KeyUp) {
		p.Prev()
	}
	steps := 0
	if rl.IsKeyPressed(rl.KeyRight) || rl.IsKeyPressedRepeat(rl.KeyRight) {
		steps = 1
	}
	if rl.IsKeyPressed(rl.KeyLeft) || rl.IsKeyPressedRepeat(rl.KeyLeft) {
		steps = -1
	}
	if rl.IsKeyDown(rl.KeyLeftShift) {
		steps *= 10
	}
	if steps != 0 {
		if err := p.Adjust(steps); err != nil {
			log.WithError(err).Debug("slider at its bound")
		}
	}
}

// updateMouse drags the bob, pans the field, or sets a slider by
// clicking its track.
func (a *App) updateMouse() {
	m := rl.GetMousePosition()
	mx, my := float64(m.X), float64(m.Y)

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		switch {
		case a.PendulumView.Contains(mx, my):
			a.Sess.Press(a.PendulumView.ToDisplay(a.Sess.PendulumCanvas, mx, my))
		case a.FieldView.Contains(mx, my):
			a.panning = true
			a.panFrom = a.FieldView.ToDisplay(a.Sess.FieldCanvas, mx, my)
		case a.SliderView.Contains(mx, my):
			a.clickSlider(mx, my)
		}
		return
	}

	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		if a.Sess.Dragging() {
			a.Sess.Move(a.PendulumView.ToDisplay(a.Sess.PendulumCanvas, mx, my))
		} else if a.panning {
			p := a.FieldView.ToDisplay(a.Sess.FieldCanvas, mx, my)
			a.Sess.FieldCanvas.Pan(a.panFrom.Sub(p))
		}
		return
	}

	if rl.IsMouseButtonReleased(rl.MouseLeftButton) {
		if a.Sess.Dragging() {
			a.Sess.Release(a.PendulumView.ToDisplay(a.Sess.PendulumCanvas, mx, my))
		}
		a.panning = false
	}
}

func (a *App) clickSlider(mx, my float64) {
	p := a.Sess.Panel
	if p == nil {
		return
	}
	for i, s := range p.Sliders {
		track := sliderTrack(a.SliderView, i, len(p.Sliders))
		if !track.Contains(mx, my) {
			continue
		}
		frac := (mx - track.X) / track.W
		for p.Cursor() != i {
			p.Next()
		}
		if err := s.Set(s.Min + frac*(s.Max-s.Min)); err != nil {
			log.WithError(err).Debug("slider click")
		}
		return
	}
}

// sliderTrack is the clickable rectangle of slider i of n.
func sliderTrack(area Viewport, i, n int) Viewport {
	w := area.W / float64(n)
	return Viewport{X: area.X + float64(i)*w, Y: area.Y + 24, W: w - 40, H: 14}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.drawScene(a.Sess.PendulumCanvas, a.PendulumView)
	a.drawScene(a.Sess.FieldCanvas, a.FieldView)
	a.drawSliders()
	a.DrawHUD()
	if a.ShowHelp {
		a.drawHelp()
	}

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	a.drawText("phasependulum", 20, 16, 24, ColSelect)
	a.drawText(a.Sess.State.String(), 260, 22, 16, ColText)

	status, col := "RUNNING", ColSelect
	switch {
	case a.Sess.Dragging():
		status = "DRAGGING"
	case !a.Running:
		status, col = "PAUSED", ColTextDim
	}
	a.drawText(status, 1150, 20, 16, col)

	if a.Sess.Field.Live() {
		a.drawText("live field", 1020, 20, 16, ColAccent)
	}

	a.DrawTelemetry()
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 30, 70, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

// DrawTelemetry plots the energy history in the pendulum viewport's
// bottom strip.
func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := 30, 580
	width, height := 300, 60

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("E %.2f  drift %.1f%%", a.Telemetry[len(a.Telemetry)-1], a.drift.Value()*100), rectX+width+10, rectY+height-10, 14, ColText)
}

func (a *App) drawSliders() {
	p := a.Sess.Panel
	if p == nil {
		return
	}
	col := toColor(p.Color)
	for i, s := range p.Sliders {
		track := sliderTrack(a.SliderView, i, len(p.Sliders))
		labelCol := ColText
		if i == p.Cursor() {
			labelCol = ColSelect
		}
		a.drawText(fmt.Sprintf("%s  %.4g", s.Label, s.Value), int(track.X), int(a.SliderView.Y), 16, labelCol)

		rl.DrawRectangleLines(int32(track.X), int32(track.Y), int32(track.W), int32(track.H), ColTextDim)
		fill := track.W * s.DisplayFraction()
		rl.DrawRectangle(int32(track.X), int32(track.Y), int32(fill), int32(track.H), col)
	}
}

func (a *App) drawHelp() {
	lines := []string{
		"drag the bob to swing it, drag the field to pan",
		"SPACE pause   . step   R reset",
		"TAB/UP/DOWN select slider   LEFT/RIGHT adjust (SHIFT x10)",
		"F live field   C recentre field   ? help   Q quit",
	}
	rl.DrawRectangle(340, 250, 600, 140, rl.NewColor(0, 0, 0, 220))
	for i, l := range lines {
		a.drawText(l, 360, 270+i*26, 16, ColSelect)
	}
}
