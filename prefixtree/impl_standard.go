package prefixtree

import (
	"fmt"

	"github.com/katalvlaran/poreprefix/emission"
	"github.com/katalvlaran/poreprefix/logmath"
)

// StandardTree binds a prefix tree to one emission table with A+1 classes
// (A symbols, then the blank).
//
// Recurrence (log domain), for a non-root node n with symbol s:
//
//	emit(t)  = parent(t-1) + y[t][s]
//	stay(t)  = n(t-1)      + y[t][gap]
//	n(t)     = LogAdd(emit(t), stay(t))
//
// The root is the all-blank path: root(-1) = 0 and
// root(t) = Σ_{i≤t} y[i][gap], precomputed for every t at construction.
//
// No repeat collapsing is applied: every non-blank emission appends a symbol.
type StandardTree struct {
	*Tree[*Standard]
	y *emission.Table
}

// NewStandardTree builds the tree and precomputes the root.
//
// Errors:
//   - ErrNilTable      if y is nil.
//   - ErrClassMismatch if y.Classes() != alphabet.Len()+1.
func NewStandardTree(y *emission.Table, alphabet Alphabet) (*StandardTree, error) {
	if y == nil {
		return nil, ErrNilTable
	}
	if want := alphabet.Len() + 1; y.Classes() != want {
		return nil, fmt.Errorf("%w: table has %d classes, alphabet %q needs %d",
			ErrClassMismatch, y.Classes(), alphabet, want)
	}

	steps := y.Steps()
	gap := alphabet.Len()
	root := NewStandard(steps)
	root.SetProbability(-1, 0)
	blank := 0.0
	for t := 0; t < steps; t++ {
		blank += y.At(t, gap)
		root.SetProbability(t, blank)
	}

	return &StandardTree{
		Tree: New(alphabet, root, func() *Standard { return NewStandard(steps) }),
		y:    y,
	}, nil
}

// Steps returns the length of the bound table's time axis.
func (st *StandardTree) Steps() int { return st.y.Steps() }

// UpdateProb computes and stores n(t) unless already stored, and returns
// emit(t): the probability mass that enters id's prefix exactly at t.
// The parent must hold its value at t-1. Calling it on the root panics.
func (st *StandardTree) UpdateProb(id NodeID, t int) (emit float64) {
	parent, ok := st.Parent(id)
	if !ok {
		panic(panicRootUpdate)
	}
	n := st.State(id)
	emit = st.State(parent).ProbabilityAt(t-1) + st.y.At(t, st.Symbol(id))
	if !n.Has(t) {
		stay := n.ProbabilityAt(t-1) + st.y.At(t, st.Gap())
		n.SetProbability(t, logmath.LogAdd(emit, stay))
	}

	return emit
}

// Grow fills id for every timestep in order and returns the log of the
// total mass of labelings that begin with id's prefix:
//
//	prefix = LogSumExp_t ( emit(t) + y.SuffixMass(t+1) )
//
// For normalized rows SuffixMass is zero; otherwise it keeps prefix an upper
// bound on LabelProbability of id and of every descendant.
func (st *StandardTree) Grow(id NodeID) (prefix float64) {
	prefix = logmath.NegInf
	for t := 0; t < st.y.Steps(); t++ {
		prefix = logmath.LogAdd(prefix, st.UpdateProb(id, t)+st.y.SuffixMass(t+1))
	}

	return prefix
}

// LabelProbability returns the forward log-probability of exactly id's
// label over the whole table.
func (st *StandardTree) LabelProbability(id NodeID) float64 {
	return st.State(id).ProbabilityAt(st.y.Steps() - 1)
}
