package field_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/phasependulum/internal/dynamo"
	"github.com/san-kum/phasependulum/internal/field"
	"github.com/san-kum/phasependulum/internal/scene"
)

var _ = Describe("grid layout", func() {
	It("walks the corners of the viewport", func() {
		points, err := field.CornerGrid(scene.Vec{-300, 300}, scene.Vec{300, -300}, 50)
		Expect(err).NotTo(HaveOccurred())
		Expect(points).To(HaveLen(11 * 14))
		Expect(points[0]).To(Equal(scene.Vec{-350, 250}))
		Expect(points[len(points)-1]).To(Equal(scene.Vec{300, -250}))
	})

	It("covers the symmetric extent inclusively", func() {
		points, err := field.ExtentGrid(300, 50)
		Expect(err).NotTo(HaveOccurred())
		Expect(points).To(HaveLen(13 * 13))
		Expect(points).To(ContainElement(scene.Vec{300, -300}))
		Expect(points).To(ContainElement(scene.Vec{0, 0}))
	})

	It("rejects a non-positive spacing", func() {
		_, err := field.CornerGrid(scene.Vec{-300, 300}, scene.Vec{300, -300}, 0)
		Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		_, err = field.ExtentGrid(300, -1)
		Expect(err).To(MatchError(dynamo.ErrParameterBounds))
	})
})

var _ = Describe("sampling", func() {
	params := dynamo.Params{Damping: 0.01, Gravity: 40.8, TimeStep: 0.1}

	It("maps display units to phase coordinates", func() {
		s, err := field.SampleAt(scene.Vec{100, 50}, 100, params, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Theta).To(BeNumerically("~", 10, 1e-12))
		Expect(s.ThetaDot).To(BeNumerically("~", 5, 1e-12))

		a := -0.01*5 - 0.408*math.Sin(10)
		Expect(s.Velocity.X()).To(BeNumerically("~", 50, 1e-12))
		Expect(s.Velocity.Y()).To(BeNumerically("~", a*10, 1e-12))
		Expect(s.Magnitude).To(BeNumerically("~", math.Hypot(50, a*10), 1e-9))
		Expect(s.Color).To(Equal(field.Color(s.Magnitude)))
	})

	It("is antisymmetric without damping", func() {
		undamped := params
		undamped.Damping = 0
		points, err := field.ExtentGrid(300, 50)
		Expect(err).NotTo(HaveOccurred())
		samples, err := field.SampleAll(points, 100, undamped, 10)
		Expect(err).NotTo(HaveOccurred())

		byPos := make(map[scene.Vec]field.Sample, len(samples))
		for _, s := range samples {
			byPos[s.Position] = s
		}
		for _, s := range samples {
			mirror, ok := byPos[s.Position.Mul(-1)]
			Expect(ok).To(BeTrue())
			Expect(s.Velocity.Add(mirror.Velocity).Len()).To(BeNumerically("<", 1e-9))
			Expect(mirror.Color).To(Equal(s.Color))
		}
	})

	It("preserves input order when sampling in parallel", func() {
		points, err := field.ExtentGrid(1000, 25)
		Expect(err).NotTo(HaveOccurred())
		samples, err := field.SampleAll(points, 100, params, 10)
		Expect(err).NotTo(HaveOccurred())
		for i := range points {
			Expect(samples[i].Position).To(Equal(points[i]))
		}
	})

	It("fails for a degenerate pivot length", func() {
		_, err := field.SampleAll([]scene.Vec{{0, 0}}, 0, params, 10)
		Expect(err).To(MatchError(dynamo.ErrDivisionByZero))
	})
})

var _ = Describe("colour", func() {
	hue := func(c string) float64 {
		col, _, err := scene.ParseColor(c)
		Expect(err).NotTo(HaveOccurred())
		h, _, _ := col.Hsl()
		return h
	}

	It("is a pure function of magnitude", func() {
		Expect(field.Color(123.4)).To(Equal(field.Color(123.4)))
		Expect(field.Color(0)).To(Equal("#ff3333ff"))
	})

	It("maps increasing magnitudes to increasing hues", func() {
		prev := -1.0
		for m := 0.0; m < 3500; m += 100 {
			h := hue(field.Color(m))
			Expect(h).To(BeNumerically("~", m/10, 1.5))
			Expect(h).To(BeNumerically(">", prev))
			prev = h
		}
	})

	It("wraps every full turn of hue", func() {
		Expect(field.Color(3600 + 1200)).To(Equal(field.Color(1200)))
	})
})

var _ = Describe("View", func() {
	var (
		canvas *scene.Canvas
		state  *dynamo.State
		params *dynamo.Params
	)

	BeforeEach(func() {
		canvas = scene.NewCanvas(scene.Options{Width: 600, Height: 600, DisplayGrid: true})
		state = &dynamo.State{PivotLength: 100}
		p := dynamo.DefaultParams()
		params = &p
	})

	It("adds one unit-scaled arrow per grid point plus the marker", func() {
		v, err := field.New(canvas, state, params, field.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
		Expect(v.Arrows()).To(HaveLen(154))
		Expect(canvas.Shapes()).To(HaveLen(156))

		for _, a := range v.Arrows() {
			Expect(a.UnitScale).To(BeTrue())
			if a.Vector.Len() > 0 {
				Expect(a.Display().Len()).To(BeNumerically("~", 30, 1e-9))
			}
		}
	})

	It("uses the symmetric extent when asked", func() {
		opts := field.DefaultOptions()
		opts.Bounds = field.Extent
		v, err := field.New(canvas, state, params, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.Samples()).To(HaveLen(169))
	})

	It("tracks the live state with the marker", func() {
		v, err := field.New(canvas, state, params, field.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())

		state.Theta, state.ThetaDot, state.ThetaDoubleDot = 0.3, -0.2, 0.5
		v.OnFrame()

		Expect(v.Marker.Position[0]).To(BeNumerically("~", 30, 1e-9))
		Expect(v.Marker.Position[1]).To(BeNumerically("~", -20, 1e-9))
		Expect(v.MarkerArrow.Origin).To(Equal(v.Marker.Position))
		Expect(v.MarkerArrow.Vector[0]).To(BeNumerically("~", -20, 1e-9))
		Expect(v.MarkerArrow.Vector[1]).To(BeNumerically("~", 50, 1e-9))
	})

	It("stays static unless live re-sampling is on", func() {
		v, err := field.New(canvas, state, params, field.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
		before := v.Samples()[20]

		params.Gravity = 10
		v.OnFrame()
		Expect(v.Samples()[20]).To(Equal(before))
		Expect(v.Stale()).To(BeTrue())

		v.SetLive(true)
		v.OnFrame()
		Expect(v.Stale()).To(BeFalse())
		Expect(v.Samples()[20].Velocity).NotTo(Equal(before.Velocity))
		Expect(v.Arrows()[20].Color).To(Equal(v.Samples()[20].Color))
	})

	It("refuses a degenerate pivot length", func() {
		state.PivotLength = 0
		_, err := field.New(canvas, state, params, field.DefaultOptions())
		Expect(err).To(MatchError(dynamo.ErrDivisionByZero))
	})

	It("parses bounds names", func() {
		b, err := field.ParseBounds("extent")
		Expect(err).NotTo(HaveOccurred())
		Expect(b).To(Equal(field.Extent))
		_, err = field.ParseBounds("diagonal")
		Expect(err).To(HaveOccurred())
	})
})
