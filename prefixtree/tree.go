package prefixtree

import "fmt"

// NodeID addresses a node in a tree's arena. IDs are dense, assigned in
// creation order and never reused.
type NodeID int

const (
	// Root is the ID of every tree's root node.
	Root NodeID = 0

	// NoParent is the parent of the root.
	NoParent NodeID = -1
)

// State is the per-node probability record plugged into a Tree.
//
// ProbabilityAt never fails: a timestep that was never computed reads as
// logmath.NegInf. LastProbability reads the value at the most recently
// written timestep (NegInf when nothing was written).
type State interface {
	ProbabilityAt(t int) float64
	LastProbability() float64
}

// node is one arena slot. symbol, parent and depth are fixed at creation.
type node[S State] struct {
	symbol   int
	parent   NodeID
	children []NodeID // one per alphabet symbol once expanded, in alphabet order
	depth    int
	state    S
}

// Tree is a lazily expanded prefix tree over an alphabet. Every root-to-node
// path spells one candidate label.
//
// Nodes live in a single arena owned by the tree; parent and child links are
// indices into it, so the whole structure is released together with the Tree.
// The tree never removes nodes.
//
// A Tree is not safe for concurrent mutation. Concurrent writes to the state
// of distinct nodes (or distinct tracks of one paired node) are allowed as
// long as no Expand runs at the same time.
type Tree[S State] struct {
	alphabet Alphabet
	nodes    []node[S]
	newState func() S
}

// New creates a tree whose root carries rootState and the gap symbol
// (alphabet.Len()). newState allocates the state of every expanded node.
func New[S State](alphabet Alphabet, rootState S, newState func() S) *Tree[S] {
	tr := &Tree[S]{
		alphabet: alphabet,
		nodes:    make([]node[S], 1, 1+alphabet.Len()),
		newState: newState,
	}
	tr.nodes[Root] = node[S]{
		symbol: alphabet.Len(),
		parent: NoParent,
		state:  rootState,
	}

	return tr
}

// at returns the arena slot for id, panicking on an invalid ID.
// The pointer is only valid until the next Expand.
func (tr *Tree[S]) at(id NodeID) *node[S] {
	if id < 0 || int(id) >= len(tr.nodes) {
		panic(fmt.Sprintf("%s: %d of %d", panicBadNode, id, len(tr.nodes)))
	}

	return &tr.nodes[id]
}

// Expand creates the children of id, one per alphabet symbol in alphabet
// order, unless it already has them. It returns the child IDs; a second
// call returns the same IDs without allocating.
//
// The returned slice is owned by the tree and must not be modified.
func (tr *Tree[S]) Expand(id NodeID) []NodeID {
	n := tr.at(id)
	if len(n.children) > 0 {
		return n.children
	}
	depth := n.depth + 1
	size := tr.alphabet.Len()
	children := make([]NodeID, size)
	for s := 0; s < size; s++ {
		children[s] = NodeID(len(tr.nodes))
		tr.nodes = append(tr.nodes, node[S]{
			symbol: s,
			parent: id,
			depth:  depth,
			state:  tr.newState(),
		})
	}
	// n may point into the old backing array after append
	tr.nodes[id].children = children

	return children
}

// Children returns the children of id (nil when not expanded).
func (tr *Tree[S]) Children(id NodeID) []NodeID { return tr.at(id).children }

// Expanded reports whether id has children.
func (tr *Tree[S]) Expanded(id NodeID) bool { return len(tr.at(id).children) > 0 }

// Parent returns the parent of id; ok is false for the root.
func (tr *Tree[S]) Parent(id NodeID) (parent NodeID, ok bool) {
	p := tr.at(id).parent

	return p, p != NoParent
}

// Symbol returns the alphabet index appended at id (the gap index at the root).
func (tr *Tree[S]) Symbol(id NodeID) int { return tr.at(id).symbol }

// Depth returns the distance from the root, i.e. the label length.
func (tr *Tree[S]) Depth(id NodeID) int { return tr.at(id).depth }

// State returns the probability state of id.
func (tr *Tree[S]) State(id NodeID) S { return tr.at(id).state }

// Path returns the symbol indices from the root (exclusive) to id (inclusive).
func (tr *Tree[S]) Path(id NodeID) []int {
	n := tr.at(id)
	path := make([]int, n.depth)
	for i := n.depth - 1; i >= 0; i-- {
		path[i] = n.symbol
		n = &tr.nodes[n.parent]
	}

	return path
}

// Label returns the label spelled by the path to id. The root's label is "".
func (tr *Tree[S]) Label(id NodeID) string { return tr.alphabet.Decode(tr.Path(id)) }

// Len returns the number of nodes in the tree, root included.
func (tr *Tree[S]) Len() int { return len(tr.nodes) }

// Gap returns the blank symbol index, which is also the root's symbol.
func (tr *Tree[S]) Gap() int { return tr.alphabet.Len() }

// Alphabet returns the tree's alphabet.
func (tr *Tree[S]) Alphabet() Alphabet { return tr.alphabet }
