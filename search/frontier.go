package search

import "github.com/katalvlaran/poreprefix/prefixtree"

// candidate is an evaluated, not yet expanded tree node waiting on the frontier.
type candidate struct {
	id       prefixtree.NodeID
	bound    float64 // upper bound on the score of id and all its descendants
	priority float64 // ordering key; equals bound except for paired decoding
	seq      int     // insertion order, breaks priority ties
}

// frontier is a max-heap of *candidate ordered by priority descending, then
// by seq ascending, so that equal priorities pop in insertion order and
// every decode is deterministic.
type frontier []*candidate

// Len returns the number of candidates in the heap.
func (f frontier) Len() int { return len(f) }

// Less puts higher priority first; earlier insertion wins ties.
func (f frontier) Less(i, j int) bool {
	if f[i].priority != f[j].priority {
		return f[i].priority > f[j].priority
	}

	return f[i].seq < f[j].seq
}

// Swap swaps two elements in the heap.
func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

// Push is called by heap.Push; x must be a *candidate.
func (f *frontier) Push(x interface{}) { *f = append(*f, x.(*candidate)) }

// Pop is called by heap.Pop and returns the last element.
func (f *frontier) Pop() interface{} {
	old := *f
	n := len(old)
	c := old[n-1]
	old[n-1] = nil
	*f = old[:n-1]

	return c
}
