// Package logmath provides the log-domain primitives used by every
// probability update in poreprefix.
//
// All probabilities inside the decoder are natural logarithms. Zero
// probability is represented by NegInf and is a legal value, not an error:
// it propagates through LogAdd and addition exactly like "impossible" does
// in the linear domain.
//
// SafeLog and LogAdd are the only places where probabilities are combined
// non-trivially; LogSumExp is a fold over LogAdd so that accumulated sums
// follow the same numerical path as the per-timestep recurrences.
package logmath

import "math"

// NegInf is log(0).
var NegInf = math.Inf(-1)

// SafeLog returns the natural logarithm of x, or NegInf when x <= 0.
//
// Zero probabilities are common at matrix boundaries (e.g. a softmax that
// underflowed); math.Log(0) is already -Inf but negative inputs would yield
// NaN, so both are clamped here.
func SafeLog(x float64) float64 {
	if x > 0 {
		return math.Log(x)
	}

	return NegInf
}

// LogAdd returns log(exp(x1) + exp(x2)) without leaving the log domain.
//
// The larger operand is factored out before exponentiating, so the call is
// stable for arbitrarily small inputs. LogAdd(NegInf, NegInf) is NegInf.
func LogAdd(x1, x2 float64) float64 {
	if x1 < x2 {
		x1, x2 = x2, x1
	}
	if math.IsInf(x1, -1) {
		// both operands are -Inf; x2-x1 would be NaN
		return NegInf
	}

	return x1 + math.Log1p(math.Exp(x2-x1))
}

// LogSumExp folds LogAdd over xs. The empty sum is NegInf.
func LogSumExp(xs ...float64) float64 {
	acc := NegInf
	for _, x := range xs {
		acc = LogAdd(acc, x)
	}

	return acc
}

// IsZero reports whether the log-probability x denotes an impossible event.
func IsZero(x float64) bool { return math.IsInf(x, -1) }
