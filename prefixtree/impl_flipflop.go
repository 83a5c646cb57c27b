package prefixtree

import (
	"fmt"
	"math"

	"github.com/katalvlaran/poreprefix/emission"
	"github.com/katalvlaran/poreprefix/logmath"
)

// FlipFlopTree binds a prefix tree to a flip-flop emission table with 2A
// classes: columns 0..A-1 are the flip state of each base, A..2A-1 the flop
// state. There is no blank; holding a state is the "no new base" move, and a
// repeated base is emitted by switching to the opposite state of that base.
//
// Recurrence for a node n with base s whose parent p has base s':
//
//	stayFlip = n.flip(t-1) + y[t][s]
//	stayFlop = n.flop(t-1) + y[t][s+A]
//	s == s' (repeat):
//	  emitFlip = p.flop(t-1) + y[t][s]
//	  emitFlop = p.flip(t-1) + y[t][s+A]
//	s != s':
//	  emitFlip = LogAdd(p.flip(t-1), p.flop(t-1)) + y[t][s]
//	  emitFlop = -Inf
//	n.flip(t) = LogAdd(emitFlip, stayFlip); n.flop(t) = LogAdd(emitFlop, stayFlop)
//
// The root starts with flip(-1) = flop(-1) = log 0.5.
type FlipFlopTree struct {
	*Tree[*FlipFlop]
	y    *emission.Table
	size int // A, the column offset of the flop states
}

// NewFlipFlopTree builds the tree and seeds the root.
//
// Errors:
//   - ErrNilTable      if y is nil.
//   - ErrClassMismatch if y.Classes() != 2*alphabet.Len().
func NewFlipFlopTree(y *emission.Table, alphabet Alphabet) (*FlipFlopTree, error) {
	if y == nil {
		return nil, ErrNilTable
	}
	size := alphabet.Len()
	if y.Classes() != 2*size {
		return nil, fmt.Errorf("%w: table has %d classes, flip-flop over %q needs %d",
			ErrClassMismatch, y.Classes(), alphabet, 2*size)
	}

	steps := y.Steps()
	root := NewFlipFlop(steps)
	half := math.Log(0.5)
	root.SetProbability(-1, half, half)

	return &FlipFlopTree{
		Tree: New(alphabet, root, func() *FlipFlop { return NewFlipFlop(steps) }),
		y:    y,
		size: size,
	}, nil
}

// Steps returns the length of the bound table's time axis.
func (ft *FlipFlopTree) Steps() int { return ft.y.Steps() }

// UpdateProb computes and stores both sub-states of id at t unless already
// stored, and returns the two emit terms.
func (ft *FlipFlopTree) UpdateProb(id NodeID, t int) (emitFlip, emitFlop float64) {
	parent, ok := ft.Parent(id)
	if !ok {
		panic(panicRootUpdate)
	}
	n, p := ft.State(id), ft.State(parent)
	s := ft.Symbol(id)
	yFlip := ft.y.At(t, s)
	yFlop := ft.y.At(t, s+ft.size)

	if ft.Symbol(parent) == s {
		emitFlip = p.FlopAt(t-1) + yFlip
		emitFlop = p.FlipAt(t-1) + yFlop
	} else {
		emitFlip = logmath.LogAdd(p.FlipAt(t-1), p.FlopAt(t-1)) + yFlip
		emitFlop = logmath.NegInf
	}

	if !n.Has(t) {
		stayFlip := n.FlipAt(t-1) + yFlip
		stayFlop := n.FlopAt(t-1) + yFlop
		n.SetProbability(t, logmath.LogAdd(emitFlip, stayFlip), logmath.LogAdd(emitFlop, stayFlop))
	}

	return emitFlip, emitFlop
}

// Grow fills id for every timestep and returns its prefix mass, an upper
// bound on LabelProbability of id and of every descendant.
func (ft *FlipFlopTree) Grow(id NodeID) (prefix float64) {
	prefix = logmath.NegInf
	for t := 0; t < ft.y.Steps(); t++ {
		emitFlip, emitFlop := ft.UpdateProb(id, t)
		prefix = logmath.LogAdd(prefix, logmath.LogAdd(emitFlip, emitFlop)+ft.y.SuffixMass(t+1))
	}

	return prefix
}

// LabelProbability returns the combined forward log-probability of exactly
// id's label over the whole table. The root's label (empty) is impossible
// for a non-empty table since every timestep emits a base state.
func (ft *FlipFlopTree) LabelProbability(id NodeID) float64 {
	return ft.State(id).ProbabilityAt(ft.y.Steps() - 1)
}
