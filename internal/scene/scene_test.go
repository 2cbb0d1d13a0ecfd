package scene

import (
	"math"
	"testing"
)

type recorder struct {
	frames int
	drags  []Pointer
}

func (r *recorder) OnFrame()         { r.frames++ }
func (r *recorder) OnDrag(p Pointer) { r.drags = append(r.drags, p) }

func TestArrowUnitScale(t *testing.T) {
	a := NewArrow(Vec{10, 10}, Vec{3, 4}, "#ffffffff")
	a.UnitScale = true
	a.UnitScaleFactor = 30

	d := a.Display()
	if math.Abs(d.Len()-30) > 1e-9 {
		t.Errorf("display length = %v, want 30", d.Len())
	}
	if math.Abs(d.X()-18) > 1e-9 || math.Abs(d.Y()-24) > 1e-9 {
		t.Errorf("display = %v, want (18, 24)", d)
	}
	if tip := a.Tip(); math.Abs(tip.X()-28) > 1e-9 || math.Abs(tip.Y()-34) > 1e-9 {
		t.Errorf("tip = %v", tip)
	}

	a.Vector = Vec{}
	if d := a.Display(); d.Len() != 0 {
		t.Errorf("zero vector displayed as %v", d)
	}
}

func TestCanvasBoundaries(t *testing.T) {
	c := NewCanvas(Options{Width: 800, Height: 600})
	tl, br := c.Boundaries()
	if tl != (Vec{-400, 300}) || br != (Vec{400, -300}) {
		t.Errorf("boundaries = %v %v", tl, br)
	}
	if c.Max() != 400 {
		t.Errorf("max = %v, want 400", c.Max())
	}

	c.Pan(Vec{50, 0})
	if c.Offset() != (Vec{}) {
		t.Error("pan applied without EnableMouseMove")
	}

	c = NewCanvas(Options{Width: 800, Height: 600, EnableMouseMove: true})
	c.Pan(Vec{50, -10})
	tl, _ = c.Boundaries()
	if tl != (Vec{-350, 290}) {
		t.Errorf("panned top-left = %v", tl)
	}
}

func TestCanvasTransformRoundTrip(t *testing.T) {
	c := NewCanvas(Options{Width: 600, Height: 600})
	fwd := c.Transform(120, 240)
	inv := c.Inverse(120, 240)

	for _, v := range []Vec{{0, 0}, {-300, 300}, {150, -75}} {
		px, py := fwd(v)
		back := inv(px, py)
		if math.Abs(back[0]-v[0]) > 1e-9 || math.Abs(back[1]-v[1]) > 1e-9 {
			t.Errorf("round trip %v -> (%v,%v) -> %v", v, px, py, back)
		}
	}
	if px, py := fwd(Vec{0, 0}); px != 60 || py != 120 {
		t.Errorf("origin maps to (%v,%v), want centre", px, py)
	}
}

func TestDriverRoutesDrags(t *testing.T) {
	c := NewCanvas(Options{})
	handle := NewCircle(Vec{0, -100}, 10, "#ffffffff")
	other := NewCircle(Vec{200, 200}, 5, "#ffffffff")
	c.AddShapes(handle, other)

	r := &recorder{}
	d := NewDriver()
	d.Attach(r, handle)

	if !handle.Draggable {
		t.Fatal("attached handle not marked draggable")
	}
	if d.Press(c, Vec{200, 200}, 0) {
		t.Error("press on a non-handle started a drag")
	}
	if d.Press(c, Vec{500, 500}, 0) {
		t.Error("press on empty space started a drag")
	}
	if !d.Press(c, Vec{3, -104}, 2) {
		t.Fatal("press on handle did not start a drag")
	}
	d.Move(Vec{20, -90})
	d.Release(Vec{25, -80})

	if len(r.drags) != 3 {
		t.Fatalf("got %d drag events, want 3", len(r.drags))
	}
	if !r.drags[0].Pressed || !r.drags[1].Pressed || r.drags[2].Pressed {
		t.Errorf("pressed flags = %v", r.drags)
	}
	if d.Dragging() {
		t.Error("still dragging after release")
	}
	if d.Move(Vec{}) {
		t.Error("move delivered without an active drag")
	}

	d.Frame()
	d.Frame()
	if r.frames != 2 || d.Frames() != 2 {
		t.Errorf("frames = %d/%d, want 2", r.frames, d.Frames())
	}
}

func TestHSL(t *testing.T) {
	tests := []struct {
		hue  float64
		want string
	}{
		{0, "#ff3333ff"},
		{120, "#33ff33ff"},
		{240, "#3333ffff"},
		{360, "#ff3333ff"},
		{-120, "#3333ffff"},
	}
	for _, tt := range tests {
		if got := HSL(tt.hue, 1, 0.6); got != tt.want {
			t.Errorf("HSL(%v) = %s, want %s", tt.hue, got, tt.want)
		}
	}
}

func TestParseColor(t *testing.T) {
	c, a, err := ParseColor("#3333ff80")
	if err != nil {
		t.Fatal(err)
	}
	if a != 0x80 {
		t.Errorf("alpha = %x", a)
	}
	if c.Hex() != "#3333ff" {
		t.Errorf("rgb = %s", c.Hex())
	}

	if _, a, err := ParseColor("#fff"); err != nil || a != 0xff {
		t.Errorf("short form: alpha=%x err=%v", a, err)
	}
	if _, _, err := ParseColor("red"); err == nil {
		t.Error("expected error for named color")
	}
}
