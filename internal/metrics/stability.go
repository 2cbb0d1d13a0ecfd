package metrics

import (
	"math"

	"github.com/san-kum/phasependulum/internal/dynamo"
)

// Stability is the fraction of observed frames in which the pendulum was
// still: finite state and |ThetaDot| at or below the threshold.
type Stability struct {
	threshold float64
	frames    int
	moving    int
	lastMove  int
}

func NewStability(threshold float64) *Stability {
	return &Stability{threshold: threshold, lastMove: -1}
}

func (s *Stability) Name() string { return "stability" }

func (s *Stability) Observe(frame int, x dynamo.State) {
	s.frames++
	if x.IsValid() && math.Abs(x.ThetaDot) <= s.threshold {
		return
	}
	s.moving++
	s.lastMove = frame
}

func (s *Stability) Value() float64 {
	if s.frames == 0 {
		return 1
	}
	return 1 - float64(s.moving)/float64(s.frames)
}

// SettledAt is the first frame after which every observed frame was still,
// or -1 if the last observed frame was moving.
func (s *Stability) SettledAt(lastFrame int) int {
	if s.lastMove == lastFrame {
		return -1
	}
	return s.lastMove + 1
}

func (s *Stability) Reset() {
	s.frames, s.moving, s.lastMove = 0, 0, -1
}
