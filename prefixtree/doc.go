// Package prefixtree implements the lazily expanded prefix tree at the heart
// of CTC prefix-search decoding, together with the per-node forward
// probability models of the three supported emission schemes.
//
// 🚀 What is a prefix tree here?
//
//	Each node spells a candidate output label (the symbols on the path from
//	the root). Next to the label, a node carries its forward log-probability
//	per timestep: the probability that the network output up to t emits
//	exactly that label.
//
// ✨ Key features:
//   - generic arena Tree[S State]: nodes addressed by NodeID, parent/child
//     links are indices, the whole tree is released as a unit
//   - idempotent lazy Expand, Label/Path reconstruction by walking to the root
//   - three node states: Standard, Paired (two reads), FlipFlop
//   - three bindings: StandardTree, PairedTree, FlipFlopTree, each owning the
//     exact log-domain recurrence of its model
//   - write-once storage: a node's value at t is never overwritten
//
// ⚙️ Usage:
//
//	st, err := prefixtree.NewStandardTree(y, prefixtree.DNA)
//	for _, c := range st.Expand(prefixtree.Root) {
//	    prefix := st.Grow(c)               // fills c for every t
//	    fmt.Println(st.Label(c), st.LabelProbability(c), prefix)
//	}
//
// Parents must be grown before their children: a node's value at t reads
// its parent's value at t-1. Roots are precomputed by the constructors.
package prefixtree
