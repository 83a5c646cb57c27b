package prefixtree

import (
	"fmt"
	"math"

	"github.com/katalvlaran/poreprefix/logmath"
)

// series is write-once forward-probability storage for one node and one
// track, covering timesteps -1 .. horizon-1.
//
// Cells are stored densely at index t+1 and NaN marks a cell that was never
// written. The buffer is allocated on the first write, so nodes that are
// created by Expand but never evaluated cost nothing.
type series struct {
	horizon int
	values  []float64
	last    int // most recently written t; valid once values != nil
}

func newSeries(horizon int) series {
	if horizon < 0 {
		horizon = 0
	}

	return series{horizon: horizon}
}

// at returns the value at t, or NegInf when t was never written.
func (s *series) at(t int) float64 {
	if s.values == nil || t < -1 || t >= s.horizon {
		return logmath.NegInf
	}
	v := s.values[t+1]
	if math.IsNaN(v) {
		return logmath.NegInf
	}

	return v
}

// has reports whether t was written.
func (s *series) has(t int) bool {
	if s.values == nil || t < -1 || t >= s.horizon {
		return false
	}

	return !math.IsNaN(s.values[t+1])
}

// set writes v at t and advances the last-written marker. A second write to
// the same t is ignored and reported as false. Writing outside the horizon
// or writing NaN panics.
func (s *series) set(t int, v float64) bool {
	if t < -1 || t >= s.horizon {
		panic(fmt.Sprintf("%s: t=%d horizon=%d", panicBadStep, t, s.horizon))
	}
	if math.IsNaN(v) {
		panic(fmt.Sprintf("%s at t=%d", panicNaNValue, t))
	}
	if s.values == nil {
		s.values = make([]float64, s.horizon+1)
		for i := range s.values {
			s.values[i] = math.NaN()
		}
	}
	if !math.IsNaN(s.values[t+1]) {
		return false
	}
	s.values[t+1] = v
	s.last = t

	return true
}

// lastValue returns the value at the most recently written t.
func (s *series) lastValue() float64 {
	if s.values == nil {
		return logmath.NegInf
	}

	return s.values[s.last+1]
}

// lastStep returns the most recently written t; ok is false before any write.
func (s *series) lastStep() (t int, ok bool) {
	if s.values == nil {
		return 0, false
	}

	return s.last, true
}
