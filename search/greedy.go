package search

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/poreprefix/emission"
	"github.com/katalvlaran/poreprefix/logmath"
	"github.com/katalvlaran/poreprefix/prefixtree"
)

// Greedy performs best-path decoding of a standard table: it takes the most
// likely class of every row (first column wins ties), drops blanks and keeps
// every other emission, repeats included. LogProb is the log-probability of
// that single path, not of its label; it is a lower bound on what Decode
// returns for the same table.
//
// Errors: ErrNilTable, prefixtree.ErrClassMismatch, and ErrNoViableDecode
// when the chosen path has probability zero.
func Greedy(y *emission.Table, alphabet prefixtree.Alphabet) (Result, error) {
	if y == nil {
		return Result{}, ErrNilTable
	}
	gap := alphabet.Len()
	if y.Classes() != gap+1 {
		return Result{}, fmt.Errorf("search: table has %d classes, alphabet %q needs %d: %w",
			y.Classes(), alphabet, gap+1, prefixtree.ErrClassMismatch)
	}

	path := make([]int, 0, y.Steps())
	logProb := 0.0
	for t := 0; t < y.Steps(); t++ {
		row := y.Row(t)
		k := floats.MaxIdx(row)
		logProb += row[k]
		if k != gap {
			path = append(path, k)
		}
	}
	if logmath.IsZero(logProb) {
		return Result{}, ErrNoViableDecode
	}

	return Result{Label: alphabet.Decode(path), Path: path, LogProb: logProb}, nil
}
