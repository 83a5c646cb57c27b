package search_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/poreprefix/emission"
	"github.com/katalvlaran/poreprefix/prefixtree"
)

// enumerate calls fn for every class path through rows with its probability.
func enumerate(rows [][]float64, fn func(path []int, p float64)) {
	path := make([]int, len(rows))
	var walk func(t int, p float64)
	walk = func(t int, p float64) {
		if t == len(rows) {
			fn(path, p)
			return
		}
		for k, v := range rows[t] {
			path[t] = k
			walk(t+1, p*v)
		}
	}
	walk(0, 1)
}

// standardProfile sums path probabilities per label: blanks are dropped and
// every other class is a symbol, repeats included.
func standardProfile(rows [][]float64, a prefixtree.Alphabet) map[string]float64 {
	gap := a.Len()
	profile := make(map[string]float64)
	enumerate(rows, func(path []int, p float64) {
		var label []int
		for _, k := range path {
			if k != gap {
				label = append(label, k)
			}
		}
		profile[a.Decode(label)] += p
	})

	return profile
}

// flipFlopProfile sums path probabilities per label under flip-flop rules:
// the first class is a flip state; holding a class emits nothing; switching
// between flip and flop of one base emits that base again; moving to a
// different base must land in its flip state.
func flipFlopProfile(rows [][]float64, a prefixtree.Alphabet) map[string]float64 {
	size := a.Len()
	profile := make(map[string]float64)
	enumerate(rows, func(path []int, p float64) {
		if p == 0 || len(path) == 0 {
			return
		}
		if path[0] >= size {
			return
		}
		label := []int{path[0]}
		for t := 1; t < len(path); t++ {
			prev, cur := path[t-1], path[t]
			switch {
			case cur == prev:
			case cur%size == prev%size:
				label = append(label, cur%size)
			case cur < size:
				label = append(label, cur)
			default:
				return
			}
		}
		profile[a.Decode(label)] += p
	})

	return profile
}

// argmax returns the most probable label of a profile and its
// log-probability. Probabilities within a relative 1e-9 of each other tie,
// and ties go to the smaller label string, which is the smaller path for
// alphabets listed in sorted order (AC, ACGT).
func argmax(profile map[string]float64) (string, float64) {
	best, bestP := "", -1.0
	for l, p := range profile {
		tied := math.Abs(p-bestP) <= 1e-9*math.Max(p, bestP)
		if (!tied && p > bestP) || (tied && l < best) {
			best, bestP = l, p
		}
	}

	return best, math.Log(bestP)
}

// quantizedRows returns steps rows whose cells are multiples of 1/levels
// before normalization, so that distinct labels often tie exactly.
func quantizedRows(rng *rand.Rand, steps, classes, levels int) [][]float64 {
	rows := make([][]float64, steps)
	for t := range rows {
		row := make([]float64, classes)
		sum := 0.0
		for sum == 0 {
			sum = 0
			for k := range row {
				row[k] = float64(rng.Intn(levels + 1))
				sum += row[k]
			}
		}
		for k := range row {
			row[k] /= sum
		}
		rows[t] = row
	}

	return rows
}

// randomRows returns steps rows of classes normalized random probabilities.
func randomRows(rng *rand.Rand, steps, classes int) [][]float64 {
	rows := make([][]float64, steps)
	for t := range rows {
		row := make([]float64, classes)
		sum := 0.0
		for k := range row {
			row[k] = rng.Float64() + 0.01
			sum += row[k]
		}
		for k := range row {
			row[k] /= sum
		}
		rows[t] = row
	}

	return rows
}

// mustTable builds a table from probability rows.
func mustTable(t testing.TB, rows [][]float64) *emission.Table {
	t.Helper()
	y, err := emission.FromRows(rows)
	require.NoError(t, err)

	return y
}
