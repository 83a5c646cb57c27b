package search

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/poreprefix/emission"
	"github.com/katalvlaran/poreprefix/logmath"
	"github.com/katalvlaran/poreprefix/prefixtree"
)

// evaluation is what the driver needs to know about a freshly grown node.
type evaluation struct {
	score    float64 // log-probability of exactly the node's label
	bound    float64 // upper bound on score for the node and its subtree
	priority float64 // frontier key; -Inf means "never expand"
}

// model hides the emission scheme from the driver. The exported methods are
// promoted from the embedded prefixtree bindings.
type model interface {
	Expand(id prefixtree.NodeID) []prefixtree.NodeID
	Depth(id prefixtree.NodeID) int
	Label(id prefixtree.NodeID) string
	Path(id prefixtree.NodeID) []int
	LabelProbability(id prefixtree.NodeID) float64

	// evaluate grows id over the full table(s). The parent must be grown.
	evaluate(ctx context.Context, id prefixtree.NodeID) (evaluation, error)
}

type standardModel struct {
	*prefixtree.StandardTree
}

func (m standardModel) evaluate(_ context.Context, id prefixtree.NodeID) (evaluation, error) {
	bound := m.Grow(id)

	return evaluation{score: m.LabelProbability(id), bound: bound, priority: bound}, nil
}

type flipFlopModel struct {
	*prefixtree.FlipFlopTree
}

func (m flipFlopModel) evaluate(_ context.Context, id prefixtree.NodeID) (evaluation, error) {
	bound := m.Grow(id)

	return evaluation{score: m.LabelProbability(id), bound: bound, priority: bound}, nil
}

// pairedModel grows both tracks of a node and ranks it by the mass of its
// emit terms restricted to envelope-admissible (u, v) pairs.
type pairedModel struct {
	*prefixtree.PairedTree
	env      *emission.Envelope
	parallel bool
	emits    [prefixtree.Tracks][]float64 // scratch, reused for every node
}

func newPairedModel(pt *prefixtree.PairedTree, env *emission.Envelope, parallel bool) *pairedModel {
	m := &pairedModel{PairedTree: pt, env: env, parallel: parallel}
	for i := range m.emits {
		m.emits[i] = make([]float64, pt.Steps(i))
	}

	return m
}

func (m *pairedModel) evaluate(ctx context.Context, id prefixtree.NodeID) (evaluation, error) {
	var bounds [prefixtree.Tracks]float64
	if m.parallel {
		// each goroutine writes only its own track and scratch slice
		g, gctx := errgroup.WithContext(ctx)
		for i := range bounds {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				bounds[i] = m.GrowTrack(id, i, m.emits[i])

				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return evaluation{}, err
		}
	} else {
		for i := range bounds {
			bounds[i] = m.GrowTrack(id, i, m.emits[i])
		}
	}

	return evaluation{
		score:    m.LabelProbability(id),
		bound:    bounds[0] + bounds[1],
		priority: m.admissibleMass(),
	}, nil
}

// admissibleMass returns LogSumExp over admissible (u, v) of
// emits[0][u] + emits[1][v].
func (m *pairedModel) admissibleMass() float64 {
	mass := logmath.NegInf
	for u, e0 := range m.emits[0] {
		if logmath.IsZero(e0) {
			continue
		}
		start, end := m.env.Range(u)
		if start == end {
			continue
		}
		mass = logmath.LogAdd(mass, e0+logmath.LogSumExp(m.emits[1][start:end]...))
	}

	return mass
}
