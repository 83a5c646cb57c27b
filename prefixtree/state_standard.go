package prefixtree

// Standard is the single-track node state: one forward log-probability per
// timestep.
type Standard struct {
	prob series
}

var _ State = (*Standard)(nil)

// NewStandard returns an empty state for a table of horizon timesteps.
func NewStandard(horizon int) *Standard {
	return &Standard{prob: newSeries(horizon)}
}

// ProbabilityAt returns the forward log-probability at t (NegInf if unset).
func (s *Standard) ProbabilityAt(t int) float64 { return s.prob.at(t) }

// LastProbability returns the value at the most recently set timestep.
func (s *Standard) LastProbability() float64 { return s.prob.lastValue() }

// LastTimestep returns the most recently set timestep.
func (s *Standard) LastTimestep() (int, bool) { return s.prob.lastStep() }

// Has reports whether t was set.
func (s *Standard) Has(t int) bool { return s.prob.has(t) }

// SetProbability stores v at t. It returns false, keeping the old value,
// when t was already set.
func (s *Standard) SetProbability(t int, v float64) bool { return s.prob.set(t, v) }
