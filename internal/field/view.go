package field

import (
	"fmt"

	"github.com/san-kum/phasependulum/internal/dynamo"
	"github.com/san-kum/phasependulum/internal/scene"
	log "github.com/sirupsen/logrus"
)

type Bounds int

const (
	// Corners lays the grid out from the canvas boundaries.
	Corners Bounds = iota
	// Extent lays the grid out symmetrically from the canvas half extent.
	Extent
)

func ParseBounds(s string) (Bounds, error) {
	switch s {
	case "", "corners":
		return Corners, nil
	case "extent":
		return Extent, nil
	}
	return Corners, fmt.Errorf("%w: unknown field bounds %q", dynamo.ErrParameterBounds, s)
}

func (b Bounds) String() string {
	if b == Extent {
		return "extent"
	}
	return "corners"
}

type Options struct {
	Spacing      float64
	Bounds       Bounds
	ArrowLength  float64
	DisplayScale float64
	MarkerScale  float64
	Live         bool
}

func DefaultOptions() Options {
	return Options{
		Spacing:      DefaultSpacing,
		Bounds:       Corners,
		ArrowLength:  DefaultArrowLength,
		DisplayScale: DefaultDisplayScale,
		MarkerScale:  DefaultMarkerScale,
	}
}

const MarkerRadius = 5

// View draws the sampled field plus a marker at the live state. The grid
// is sampled once on creation; with Live set it is re-sampled on the
// frame after params or the pivot length change.
type View struct {
	canvas *scene.Canvas
	state  *dynamo.State
	params *dynamo.Params
	opts   Options

	samples []Sample
	arrows  []*scene.Arrow
	points  []scene.Vec

	sampledParams dynamo.Params
	sampledLength float64

	Marker      *scene.Circle
	MarkerArrow *scene.Arrow
}

// New samples the grid over c's current viewport and adds the arrows and
// the marker to c.
func New(c *scene.Canvas, state *dynamo.State, params *dynamo.Params, opts Options) (*View, error) {
	var (
		points []scene.Vec
		err    error
	)
	switch opts.Bounds {
	case Extent:
		points, err = ExtentGrid(c.Max(), opts.Spacing)
	default:
		topLeft, bottomRight := c.Boundaries()
		points, err = CornerGrid(topLeft, bottomRight, opts.Spacing)
	}
	if err != nil {
		return nil, err
	}

	v := &View{
		canvas:      c,
		state:       state,
		params:      params,
		opts:        opts,
		points:      points,
		arrows:      make([]*scene.Arrow, len(points)),
		Marker:      scene.NewCircle(scene.Vec{}, MarkerRadius, "#ffffffff"),
		MarkerArrow: scene.NewArrow(scene.Vec{}, scene.Vec{}, "#ffffffff"),
	}
	for i, p := range points {
		a := scene.NewArrow(p, scene.Vec{}, "#ffffffff")
		a.UnitScale = true
		a.UnitScaleFactor = opts.ArrowLength
		v.arrows[i] = a
		c.AddShape(a)
	}
	if err := v.Resample(); err != nil {
		return nil, err
	}
	c.AddShapes(v.Marker, v.MarkerArrow)
	v.updateMarker()

	log.WithFields(log.Fields{
		"points": len(points),
		"bounds": opts.Bounds.String(),
		"live":   opts.Live,
	}).Debug("phase field sampled")
	return v, nil
}

// Resample recomputes every arrow from the current params and pivot length.
func (v *View) Resample() error {
	samples, err := SampleAll(v.points, v.state.PivotLength, *v.params, v.opts.DisplayScale)
	if err != nil {
		return err
	}
	for i, s := range samples {
		v.arrows[i].Vector = s.Velocity
		v.arrows[i].Color = s.Color
	}
	v.samples = samples
	v.sampledParams = *v.params
	v.sampledLength = v.state.PivotLength
	return nil
}

func (v *View) Samples() []Sample     { return v.samples }
func (v *View) Arrows() []*scene.Arrow { return v.arrows }
func (v *View) Live() bool             { return v.opts.Live }
func (v *View) Options() Options       { return v.opts }
func (v *View) Canvas() *scene.Canvas  { return v.canvas }

func (v *View) SetLive(live bool) {
	v.opts.Live = live
}

// Stale reports whether the grid no longer matches params or pivot length.
func (v *View) Stale() bool {
	return v.sampledParams != *v.params || v.sampledLength != v.state.PivotLength
}

func (v *View) OnFrame() {
	if v.opts.Live && v.Stale() {
		if err := v.Resample(); err != nil {
			log.WithError(err).Warn("phase field resample skipped")
			v.sampledParams = *v.params
			v.sampledLength = v.state.PivotLength
		}
	}
	v.updateMarker()
}

// OnDrag is a no-op; the field has no handles.
func (v *View) OnDrag(scene.Pointer) {}

func (v *View) updateMarker() {
	s := v.opts.MarkerScale
	pos := scene.Vec{v.state.Theta * s, v.state.ThetaDot * s}
	v.Marker.Position = pos
	v.MarkerArrow.Origin = pos
	v.MarkerArrow.Vector = scene.Vec{v.state.ThetaDot * s, v.state.ThetaDoubleDot * s}
}
