package prefixtree

import "errors"

// Sentinel errors returned by prefixtree constructors.
var (
	// ErrEmptyAlphabet indicates that an alphabet with no symbols was requested.
	ErrEmptyAlphabet = errors.New("prefixtree: alphabet is empty")

	// ErrDuplicateSymbol indicates that an alphabet lists the same symbol twice.
	ErrDuplicateSymbol = errors.New("prefixtree: duplicate alphabet symbol")

	// ErrUnknownSymbol indicates that a label contains a symbol outside the alphabet.
	ErrUnknownSymbol = errors.New("prefixtree: symbol not in alphabet")

	// ErrNilTable indicates that a nil emission table was bound to a tree.
	ErrNilTable = errors.New("prefixtree: emission table is nil")

	// ErrClassMismatch indicates that a table's class count does not fit the
	// alphabet for the requested model (A+1 for standard/paired, 2A for flip-flop).
	ErrClassMismatch = errors.New("prefixtree: class count does not match alphabet")
)

// Panic messages for contract violations (invalid IDs, writes past the horizon).
const (
	panicBadNode     = "prefixtree: node id out of range"
	panicBadStep     = "prefixtree: timestep outside series horizon"
	panicNaNValue    = "prefixtree: NaN probability"
	panicRootUpdate  = "prefixtree: root probabilities are precomputed"
	panicBadSymbol   = "prefixtree: symbol index out of range"
	panicBadAlphabet = "prefixtree: invalid alphabet literal"
)
