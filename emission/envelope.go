// SPDX-License-Identifier: MIT

// Package emission - Envelope: admissible timestep pairs for paired decoding.
//
// Purpose:
//   - Carry an externally computed alignment constraint between the time
//     axes of two reads: for every track-0 timestep u, a half-open range
//     [start, end) of track-1 timesteps v that u may be paired with.
//   - Stay opaque to the decoder: it is only consulted, never derived here.
//
// Constructors:
//   - NewEnvelope / EnvelopeFromMatrix: caller-supplied ranges (validated).
//   - IdentityEnvelope: u pairs with v == u only (synchronized reads).
//   - FullEnvelope: no constraint.
//   - BandEnvelope: a fixed-width band around the scaled diagonal, the same
//     shape as a Sakoe–Chiba window.

package emission

import (
	"fmt"
	"math"

	"github.com/hashicorp/go-multierror"
	"gonum.org/v1/gonum/mat"
)

// Envelope maps every track-0 timestep to a half-open range of admissible
// track-1 timesteps. It is immutable once built.
type Envelope struct {
	ranges [][2]int // ranges[u] = {start, end}, 0 <= start <= end <= steps1
	steps1 int
}

// NewEnvelope validates and copies ranges. steps1 is the length of the
// second track's time axis. Every invalid row is reported.
func NewEnvelope(ranges [][2]int, steps1 int) (*Envelope, error) {
	if steps1 < 0 {
		return nil, fmt.Errorf("NewEnvelope: steps1=%d: %w", steps1, ErrBadShape)
	}
	var merr *multierror.Error
	cp := make([][2]int, len(ranges))
	for u, r := range ranges {
		if r[0] < 0 || r[1] > steps1 || r[0] > r[1] {
			merr = multierror.Append(merr,
				fmt.Errorf("row %d: [%d,%d) outside [0,%d]: %w", u, r[0], r[1], steps1, ErrBadEnvelope))
			continue
		}
		cp[u] = r
	}
	if err := merr.ErrorOrNil(); err != nil {
		return nil, err
	}

	return &Envelope{ranges: cp, steps1: steps1}, nil
}

// EnvelopeFromMatrix reads a U×2 integer-valued matrix of [start, end)
// rows, the layout used by move-table tooling.
func EnvelopeFromMatrix(m mat.Matrix, steps1 int) (*Envelope, error) {
	if m == nil {
		return nil, ErrNilMatrix
	}
	r, c := m.Dims()
	if c != 2 {
		return nil, fmt.Errorf("EnvelopeFromMatrix: %d columns, want 2: %w", c, ErrBadShape)
	}
	var merr *multierror.Error
	ranges := make([][2]int, r)
	for u := 0; u < r; u++ {
		for j := 0; j < 2; j++ {
			v := m.At(u, j)
			if v != math.Trunc(v) || math.IsInf(v, 0) {
				merr = multierror.Append(merr, fmt.Errorf("row %d: non-integer bound %v: %w", u, v, ErrBadEnvelope))
				continue
			}
			ranges[u][j] = int(v)
		}
	}
	if err := merr.ErrorOrNil(); err != nil {
		return nil, err
	}

	return NewEnvelope(ranges, steps1)
}

// IdentityEnvelope pairs timestep u of track 0 with timestep u of track 1 only.
func IdentityEnvelope(n int) *Envelope {
	if n < 0 {
		n = 0
	}
	ranges := make([][2]int, n)
	for u := range ranges {
		ranges[u] = [2]int{u, u + 1}
	}

	return &Envelope{ranges: ranges, steps1: n}
}

// FullEnvelope admits every (u, v) pair.
func FullEnvelope(steps0, steps1 int) *Envelope {
	if steps0 < 0 {
		steps0 = 0
	}
	if steps1 < 0 {
		steps1 = 0
	}
	ranges := make([][2]int, steps0)
	for u := range ranges {
		ranges[u] = [2]int{0, steps1}
	}

	return &Envelope{ranges: ranges, steps1: steps1}
}

// BandEnvelope admits v within width of the scaled diagonal
// round(u*steps1/steps0). A negative width is treated as zero.
func BandEnvelope(steps0, steps1, width int) *Envelope {
	if steps0 < 0 {
		steps0 = 0
	}
	if steps1 < 0 {
		steps1 = 0
	}
	if width < 0 {
		width = 0
	}
	ranges := make([][2]int, steps0)
	for u := range ranges {
		centre := int(math.Round(float64(u) * float64(steps1) / float64(steps0)))
		start, end := centre-width, centre+width+1
		if start < 0 {
			start = 0
		}
		if end > steps1 {
			end = steps1
		}
		if start > end {
			start = end
		}
		ranges[u] = [2]int{start, end}
	}

	return &Envelope{ranges: ranges, steps1: steps1}
}

// Steps0 returns the number of track-0 timesteps covered.
func (e *Envelope) Steps0() int { return len(e.ranges) }

// Steps1 returns the length of the track-1 time axis.
func (e *Envelope) Steps1() int { return e.steps1 }

// Range returns the admissible [start, end) of track-1 timesteps for u.
// It panics when u is out of range.
func (e *Envelope) Range(u int) (start, end int) {
	if u < 0 || u >= len(e.ranges) {
		panic(fmt.Sprintf("%s: u=%d steps0=%d", panicEnvelopeRange, u, len(e.ranges)))
	}

	return e.ranges[u][0], e.ranges[u][1]
}

// Admissible reports whether (u, v) may be jointly considered.
// Out-of-range pairs are simply not admissible.
func (e *Envelope) Admissible(u, v int) bool {
	if u < 0 || u >= len(e.ranges) {
		return false
	}

	return v >= e.ranges[u][0] && v < e.ranges[u][1]
}

// Pairs returns the number of admissible (u, v) pairs.
func (e *Envelope) Pairs() int {
	n := 0
	for _, r := range e.ranges {
		n += r[1] - r[0]
	}

	return n
}

// Covers checks that the envelope spans exactly the time axes of y0 and y1.
func (e *Envelope) Covers(y0, y1 *Table) error {
	var merr *multierror.Error
	if e.Steps0() != y0.Steps() {
		merr = multierror.Append(merr,
			fmt.Errorf("envelope has %d rows, track 0 has %d steps: %w", e.Steps0(), y0.Steps(), ErrDimensionMismatch))
	}
	if e.steps1 != y1.Steps() {
		merr = multierror.Append(merr,
			fmt.Errorf("envelope spans %d columns, track 1 has %d steps: %w", e.steps1, y1.Steps(), ErrDimensionMismatch))
	}

	return merr.ErrorOrNil()
}
