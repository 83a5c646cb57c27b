// SPDX-License-Identifier: MIT

// Package emission - Table storage (row-major, log domain) & accessors.
//
// Purpose:
//   - Hold one basecaller output matrix as log-probabilities in a flat
//     row-major buffer (offset = t*classes + k).
//   - Convert once at construction so the decoder's hot loops never call log.
//   - Fail fast on out-of-range reads: At/Row panic, they never return errors.
//
// Complexity quicksheet:
//   - FromProbabilities/FromLogProbabilities: O(T*K); At, Row, SuffixMass: O(1).

package emission

import (
	"fmt"
	"math"

	"github.com/hashicorp/go-multierror"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/poreprefix/logmath"
)

// positiveLogTolerance absorbs rounding in float32 log-softmax output.
const positiveLogTolerance = 1e-6

// Table is an immutable T×K matrix of log-probabilities.
// The zero value is an empty table with no classes.
type Table struct {
	steps, classes int       // T and K
	data           []float64 // len == steps*classes, row-major
	suffix         []float64 // len == steps+1; suffix[t] = Σ_{i≥t} log Σ_k y[i][k]
}

// NewEmpty returns a table with zero timesteps and the given class count.
// Decoding an empty table yields the empty label.
func NewEmpty(classes int) *Table {
	if classes < 0 {
		classes = 0
	}

	return &Table{classes: classes, suffix: []float64{0}}
}

// FromProbabilities reads m as probabilities and stores SafeLog of every cell.
//
// Zero and negative cells become -Inf. NaN and +Inf cells are rejected with
// ErrNaNInf; every offending cell is reported in the returned
// *multierror.Error, and no table is returned in that case.
func FromProbabilities(m mat.Matrix) (*Table, error) {
	return fromMatrix(m, false)
}

// FromLogProbabilities reads m as natural-log probabilities and stores them
// unchanged. -Inf is legal; NaN, +Inf and values above zero are rejected.
// Values within 1e-6 above zero are clamped to zero.
func FromLogProbabilities(m mat.Matrix) (*Table, error) {
	return fromMatrix(m, true)
}

// FromRows is a convenience wrapper around FromProbabilities for literal
// [][]float64 input. All rows must have the same non-zero length.
func FromRows(rows [][]float64) (*Table, error) {
	d, err := denseFromRows(rows)
	if err != nil {
		return nil, err
	}

	return FromProbabilities(d)
}

// FromLogRows is the log-domain counterpart of FromRows.
func FromLogRows(rows [][]float64) (*Table, error) {
	d, err := denseFromRows(rows)
	if err != nil {
		return nil, err
	}

	return FromLogProbabilities(d)
}

// denseFromRows packs literal rows into a *mat.Dense.
func denseFromRows(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("FromRows: no rows, use NewEmpty: %w", ErrBadShape)
	}
	k := len(rows[0])
	if k == 0 {
		return nil, fmt.Errorf("FromRows: row 0 is empty: %w", ErrBadShape)
	}
	buf := make([]float64, 0, len(rows)*k)
	for t, row := range rows {
		if len(row) != k {
			return nil, fmt.Errorf("FromRows: row %d has %d classes, want %d: %w", t, len(row), k, ErrBadShape)
		}
		buf = append(buf, row...)
	}

	return mat.NewDense(len(rows), k, buf), nil
}

// fromMatrix validates m and copies it into a Table, converting to the log
// domain unless logDomain is set.
func fromMatrix(m mat.Matrix, logDomain bool) (*Table, error) {
	if m == nil {
		return nil, ErrNilMatrix
	}
	r, c := m.Dims()
	if r == 0 {
		return NewEmpty(c), nil
	}
	if c == 0 {
		return nil, fmt.Errorf("emission: %d timesteps with no classes: %w", r, ErrBadShape)
	}

	tb := &Table{steps: r, classes: c, data: make([]float64, r*c)}
	var merr *multierror.Error
	row := make([]float64, c)
	for t := 0; t < r; t++ {
		mat.Row(row, t, m)
		if !floats.HasNaN(row) && !logDomain && floats.Max(row) < math.Inf(1) {
			// fast path: nothing to report in this row
			for k, v := range row {
				tb.data[t*c+k] = logmath.SafeLog(v)
			}
			continue
		}
		for k, v := range row {
			switch {
			case math.IsNaN(v) || math.IsInf(v, 1):
				merr = multierror.Append(merr, cellErrorf(t, k, ErrNaNInf))
			case logDomain && v > positiveLogTolerance:
				merr = multierror.Append(merr, cellErrorf(t, k, ErrPositiveLog))
			case logDomain:
				tb.data[t*c+k] = math.Min(v, 0)
			default:
				tb.data[t*c+k] = logmath.SafeLog(v)
			}
		}
	}
	if err := merr.ErrorOrNil(); err != nil {
		return nil, err
	}
	tb.suffix = make([]float64, r+1)
	for t := r - 1; t >= 0; t-- {
		tb.suffix[t] = tb.suffix[t+1] + logmath.LogSumExp(tb.Row(t)...)
	}

	return tb, nil
}

// cellErrorf tags a sentinel with the offending cell coordinates.
func cellErrorf(t, k int, err error) error {
	return fmt.Errorf("cell (%d,%d): %w", t, k, err)
}

// Steps returns T, the number of timesteps.
func (tb *Table) Steps() int { return tb.steps }

// Classes returns K, the number of output classes per timestep.
func (tb *Table) Classes() int { return tb.classes }

// At returns the log-probability of class k at timestep t.
// It panics when t or k is out of range.
func (tb *Table) At(t, k int) float64 {
	if t < 0 || t >= tb.steps {
		panic(fmt.Sprintf("%s: t=%d steps=%d", panicStepOutOfRange, t, tb.steps))
	}
	if k < 0 || k >= tb.classes {
		panic(fmt.Sprintf("%s: k=%d classes=%d", panicClassOutOfRange, k, tb.classes))
	}

	return tb.data[t*tb.classes+k]
}

// Row returns the log-probabilities of timestep t without copying.
// The slice aliases the table and must not be modified.
func (tb *Table) Row(t int) []float64 {
	if t < 0 || t >= tb.steps {
		panic(fmt.Sprintf("%s: t=%d steps=%d", panicStepOutOfRange, t, tb.steps))
	}
	off := t * tb.classes

	return tb.data[off : off+tb.classes : off+tb.classes]
}

// SuffixMass returns the log of the largest total probability that any set
// of paths can collect over timesteps t..T-1: the sum of the log row masses.
// It is 0 for t == T and for normalized rows. It panics unless 0 <= t <= T.
func (tb *Table) SuffixMass(t int) float64 {
	if t < 0 || t > tb.steps {
		panic(fmt.Sprintf("%s: t=%d steps=%d", panicStepOutOfRange, t, tb.steps))
	}
	if tb.suffix == nil {
		return 0 // zero value
	}

	return tb.suffix[t]
}

// Dense returns a copy of the table as a gonum matrix (log domain),
// or nil for an empty table.
func (tb *Table) Dense() *mat.Dense {
	if tb.steps == 0 || tb.classes == 0 {
		return nil
	}
	buf := make([]float64, len(tb.data))
	copy(buf, tb.data)

	return mat.NewDense(tb.steps, tb.classes, buf)
}
