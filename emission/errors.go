// SPDX-License-Identifier: MIT
// Package emission: sentinel error set.
// Constructors return these sentinels (possibly several at once, aggregated
// in a *multierror.Error); callers match them with errors.Is.
// Out-of-range reads on a built Table are programmer errors and panic.

package emission

import "errors"

var (
	// ErrNilMatrix indicates that a nil mat.Matrix was supplied.
	ErrNilMatrix = errors.New("emission: nil matrix")

	// ErrBadShape is returned for a non-empty input whose rows have no classes,
	// or whose rows have differing lengths.
	ErrBadShape = errors.New("emission: invalid shape")

	// ErrNaNInf signals a NaN or +Inf cell. Zero and negative probabilities
	// are legal (they become -Inf through SafeLog); NaN and +Inf have no such
	// interpretation.
	ErrNaNInf = errors.New("emission: NaN or +Inf encountered")

	// ErrPositiveLog signals a log-probability above zero in log-domain input.
	ErrPositiveLog = errors.New("emission: log-probability above zero")

	// ErrBadEnvelope is returned when an envelope row is not a valid half-open
	// range inside [0, steps1].
	ErrBadEnvelope = errors.New("emission: invalid envelope range")

	// ErrDimensionMismatch indicates that an envelope does not cover the
	// timesteps of the table it is paired with.
	ErrDimensionMismatch = errors.New("emission: dimension mismatch")
)

// Panic messages for contract violations on a built Table.
const (
	panicStepOutOfRange  = "emission: timestep out of range"
	panicClassOutOfRange = "emission: class index out of range"
	panicEnvelopeRange   = "emission: envelope row out of range"
)
