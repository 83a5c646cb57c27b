package prefixtree

import "github.com/katalvlaran/poreprefix/logmath"

// FlipFlop is the node state of the flip-flop model: the forward
// log-probability of ending in the flip or the flop sub-state of the node's
// last base, plus their combination.
type FlipFlop struct {
	combined, flip, flop series
}

var _ State = (*FlipFlop)(nil)

// NewFlipFlop returns an empty state for a table of horizon timesteps.
func NewFlipFlop(horizon int) *FlipFlop {
	return &FlipFlop{
		combined: newSeries(horizon),
		flip:     newSeries(horizon),
		flop:     newSeries(horizon),
	}
}

// ProbabilityAt returns the combined log-probability at t.
func (f *FlipFlop) ProbabilityAt(t int) float64 { return f.combined.at(t) }

// FlipAt returns the flip sub-state log-probability at t.
func (f *FlipFlop) FlipAt(t int) float64 { return f.flip.at(t) }

// FlopAt returns the flop sub-state log-probability at t.
func (f *FlipFlop) FlopAt(t int) float64 { return f.flop.at(t) }

// LastProbability returns the combined value at the most recently set timestep.
func (f *FlipFlop) LastProbability() float64 { return f.combined.lastValue() }

// LastTimestep returns the most recently set timestep.
func (f *FlipFlop) LastTimestep() (int, bool) { return f.combined.lastStep() }

// Has reports whether t was set.
func (f *FlipFlop) Has(t int) bool { return f.combined.has(t) }

// SetProbability stores both sub-states at t and their log-sum as the
// combined value. Nothing is written when t was already set.
func (f *FlipFlop) SetProbability(t int, flipVal, flopVal float64) bool {
	if f.combined.has(t) {
		return false
	}
	f.flip.set(t, flipVal)
	f.flop.set(t, flopVal)

	return f.combined.set(t, logmath.LogAdd(flipVal, flopVal))
}
