package search

import (
	"fmt"

	"github.com/katalvlaran/poreprefix/emission"
	"github.com/katalvlaran/poreprefix/prefixtree"
)

// ScoreLabel returns the forward log-probability of exactly label under the
// standard model of y. It grows only the tree path that spells label, so it
// costs O(len(label)·T).
func ScoreLabel(y *emission.Table, alphabet prefixtree.Alphabet, label string) (float64, error) {
	if y == nil {
		return 0, ErrNilTable
	}
	path, err := alphabet.Encode(label)
	if err != nil {
		return 0, fmt.Errorf("search: %w", err)
	}
	st, err := prefixtree.NewStandardTree(y, alphabet)
	if err != nil {
		return 0, fmt.Errorf("search: %w", err)
	}
	id := prefixtree.Root
	for _, s := range path {
		id = st.Expand(id)[s]
		st.Grow(id)
	}

	return st.LabelProbability(id), nil
}

// ScoreFlipFlopLabel is ScoreLabel for a flip-flop table.
func ScoreFlipFlopLabel(y *emission.Table, alphabet prefixtree.Alphabet, label string) (float64, error) {
	if y == nil {
		return 0, ErrNilTable
	}
	path, err := alphabet.Encode(label)
	if err != nil {
		return 0, fmt.Errorf("search: %w", err)
	}
	ft, err := prefixtree.NewFlipFlopTree(y, alphabet)
	if err != nil {
		return 0, fmt.Errorf("search: %w", err)
	}
	id := prefixtree.Root
	for _, s := range path {
		id = ft.Expand(id)[s]
		ft.Grow(id)
	}

	return ft.LabelProbability(id), nil
}

// ScorePairLabel returns the joint log-probability of label under two reads:
// the sum of its standard-model log-probabilities under y0 and y1. No
// envelope applies; this is the quantity DecodePair maximizes.
func ScorePairLabel(y0, y1 *emission.Table, alphabet prefixtree.Alphabet, label string) (float64, error) {
	if y0 == nil || y1 == nil {
		return 0, ErrNilTable
	}
	path, err := alphabet.Encode(label)
	if err != nil {
		return 0, fmt.Errorf("search: %w", err)
	}
	pt, err := prefixtree.NewPairedTree(y0, y1, alphabet)
	if err != nil {
		return 0, fmt.Errorf("search: %w", err)
	}
	emits := [prefixtree.Tracks][]float64{make([]float64, y0.Steps()), make([]float64, y1.Steps())}
	id := prefixtree.Root
	for _, s := range path {
		id = pt.Expand(id)[s]
		for i := range emits {
			pt.GrowTrack(id, i, emits[i])
		}
	}

	return pt.LabelProbability(id), nil
}
