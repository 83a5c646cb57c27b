package prefixtree

import (
	"fmt"

	"github.com/katalvlaran/poreprefix/emission"
	"github.com/katalvlaran/poreprefix/logmath"
)

// PairedTree binds a prefix tree to two emission tables, one per read of the
// same molecule. Each track follows the standard recurrence against its own
// table; the tracks only meet when the caller combines them
// (Paired.JointProbability, or an alignment envelope in the search driver).
type PairedTree struct {
	*Tree[*Paired]
	y [Tracks]*emission.Table
}

// NewPairedTree builds the tree and precomputes the root of both tracks.
// The tables may differ in length but must both have alphabet.Len()+1 classes.
func NewPairedTree(y0, y1 *emission.Table, alphabet Alphabet) (*PairedTree, error) {
	ys := [Tracks]*emission.Table{y0, y1}
	want := alphabet.Len() + 1
	for i, y := range ys {
		if y == nil {
			return nil, fmt.Errorf("track %d: %w", i, ErrNilTable)
		}
		if y.Classes() != want {
			return nil, fmt.Errorf("%w: track %d has %d classes, alphabet %q needs %d",
				ErrClassMismatch, i, y.Classes(), alphabet, want)
		}
	}

	s0, s1 := y0.Steps(), y1.Steps()
	gap := alphabet.Len()
	root := NewPaired(s0, s1)
	for i, y := range ys {
		root.SetProbability(i, -1, 0)
		blank := 0.0
		for t := 0; t < y.Steps(); t++ {
			blank += y.At(t, gap)
			root.SetProbability(i, t, blank)
		}
	}

	return &PairedTree{
		Tree: New(alphabet, root, func() *Paired { return NewPaired(s0, s1) }),
		y:    ys,
	}, nil
}

// Steps returns the time-axis length of track i.
func (pt *PairedTree) Steps(i int) int { return pt.y[i].Steps() }

// UpdateProb applies the standard recurrence to track i of id at t, storing
// the result only if (i, t) is not cached yet, and returns the emit term.
func (pt *PairedTree) UpdateProb(id NodeID, i, t int) (emit float64) {
	parent, ok := pt.Parent(id)
	if !ok {
		panic(panicRootUpdate)
	}
	n := pt.State(id)
	y := pt.y[i]
	emit = pt.State(parent).TrackProbabilityAt(i, t-1) + y.At(t, pt.Symbol(id))
	if !n.Has(i, t) {
		stay := n.TrackProbabilityAt(i, t-1) + y.At(t, pt.Gap())
		n.SetProbability(i, t, logmath.LogAdd(emit, stay))
	}

	return emit
}

// GrowTrack fills track i of id for every timestep. emits must have length
// Steps(i); emits[t] receives the mass of track-i paths whose last prefix
// symbol is emitted at t, emit(t) + SuffixMass(t+1). It returns the track's
// prefix mass, the log-sum of emits.
//
// GrowTrack for track 0 and track 1 of the same node may run concurrently.
func (pt *PairedTree) GrowTrack(id NodeID, i int, emits []float64) (prefix float64) {
	prefix = logmath.NegInf
	for t := range emits[:pt.y[i].Steps()] {
		emits[t] = pt.UpdateProb(id, i, t) + pt.y[i].SuffixMass(t+1)
		prefix = logmath.LogAdd(prefix, emits[t])
	}

	return prefix
}

// LabelProbability returns the joint forward log-probability of exactly id's
// label: track 0 over its whole table plus track 1 over its whole table.
func (pt *PairedTree) LabelProbability(id NodeID) float64 {
	return pt.State(id).JointProbability(pt.y[0].Steps()-1, pt.y[1].Steps()-1)
}
