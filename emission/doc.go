// Package emission holds the read-only inputs of a decode: the per-timestep
// class log-probability tables produced by a basecaller network, and the
// alignment envelope that constrains paired decoding.
//
// 🚀 What is an emission table?
//
//	A T×K matrix: one row per signal timestep, one column per output class.
//	For the standard model K = A+1 (A symbols plus the blank/gap class);
//	for the flip-flop model K = 2A (flip and flop sub-state of each base).
//
// ✨ Key features:
//   - ingestion from any gonum mat.Matrix (probabilities or log-probabilities)
//   - conversion to the log domain through logmath.SafeLog, once, up front
//   - every validation failure reported together (go-multierror)
//   - row-major flat storage; At/Row panic on out-of-range access because an
//     out-of-range read is always a caller or decoder bug
//
// ⚙️ Usage:
//
//	y, err := emission.FromProbabilities(mat.NewDense(T, 5, probs))
//	if err != nil {
//	  // errors.Is(err, emission.ErrNaNInf), ...
//	}
//	env := emission.BandEnvelope(y0.Steps(), y1.Steps(), 50)
//
// Normalization is never checked: rows are taken as supplied.
package emission
