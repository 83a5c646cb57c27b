package prefixtree

import (
	"fmt"
	"strings"
)

// Alphabet is an ordered set of distinct symbols. Symbol i is matrix column i;
// column Len() is the blank (gap) class of the standard model.
//
// Alphabet values are immutable and safe to copy.
type Alphabet struct {
	symbols []rune
	index   map[rune]int
}

// DNA is the four-base nucleotide alphabet in the column order used by
// common basecallers.
var DNA = MustAlphabet("ACGT")

// NewAlphabet builds an alphabet from the runes of symbols, in order.
//
// Errors:
//   - ErrEmptyAlphabet   if symbols is empty.
//   - ErrDuplicateSymbol if a rune appears more than once.
func NewAlphabet(symbols string) (Alphabet, error) {
	rs := []rune(symbols)
	if len(rs) == 0 {
		return Alphabet{}, ErrEmptyAlphabet
	}
	idx := make(map[rune]int, len(rs))
	for i, r := range rs {
		if j, dup := idx[r]; dup {
			return Alphabet{}, fmt.Errorf("%w: %q at %d and %d", ErrDuplicateSymbol, r, j, i)
		}
		idx[r] = i
	}

	return Alphabet{symbols: rs, index: idx}, nil
}

// MustAlphabet is NewAlphabet for package-level literals; it panics on error.
func MustAlphabet(symbols string) Alphabet {
	a, err := NewAlphabet(symbols)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", panicBadAlphabet, err))
	}

	return a
}

// Len returns the number of symbols (the blank class is not counted).
func (a Alphabet) Len() int { return len(a.symbols) }

// Symbol returns the rune at index i. It panics when i is out of range.
func (a Alphabet) Symbol(i int) rune {
	if i < 0 || i >= len(a.symbols) {
		panic(fmt.Sprintf("%s: %d of %d", panicBadSymbol, i, len(a.symbols)))
	}

	return a.symbols[i]
}

// Index returns the column index of r.
func (a Alphabet) Index(r rune) (int, bool) {
	i, ok := a.index[r]

	return i, ok
}

// Encode converts a label into symbol indices.
func (a Alphabet) Encode(label string) ([]int, error) {
	path := make([]int, 0, len(label))
	for pos, r := range label {
		i, ok := a.index[r]
		if !ok {
			return nil, fmt.Errorf("%w: %q at byte %d", ErrUnknownSymbol, r, pos)
		}
		path = append(path, i)
	}

	return path, nil
}

// Decode converts symbol indices back into a label.
// It panics on an index outside the alphabet.
func (a Alphabet) Decode(path []int) string {
	var sb strings.Builder
	sb.Grow(len(path))
	for _, i := range path {
		sb.WriteRune(a.Symbol(i))
	}

	return sb.String()
}

// String returns the symbols in column order.
func (a Alphabet) String() string { return string(a.symbols) }
