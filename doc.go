// Package poreprefix decodes nanopore basecaller output, the per-timestep
// class probabilities of a neural network, into base sequences by CTC
// prefix search.
//
// 🚀 What is poreprefix?
//
//	A small in-memory library built around one idea: a lazily grown prefix
//	tree whose nodes carry exact forward log-probabilities, searched
//	best-first with a provable bound so that the answer is the most probable
//	labeling, not just the most probable path.
//		• Standard CTC tables (A symbols + blank)
//		• Flip-flop tables (flip and flop state per base, no blank)
//		• Paired ("2D") decoding of two reads of one molecule, constrained by
//		  an alignment envelope
//		• Best-path (greedy) decoding and exact label scoring
//
// ✨ Why choose poreprefix?
//
//   - Exact – the search stops only when no unexplored prefix can win
//   - Deterministic – equal scores resolve to the lexicographically smallest label path
//   - Fail fast – invalid tables are rejected up front with every problem listed
//   - Observable – slog debug records, hooks and Prometheus metrics
//
// Packages:
//
//	logmath/       — log-domain arithmetic (SafeLog, LogAdd, LogSumExp)
//	emission/      — emission tables and alignment envelopes (gonum input)
//	prefixtree/    — arena prefix tree and the three probability models
//	search/        — Decode, DecodeFlipFlop, DecodePair, Greedy, Score*, Config
//	searchmetrics/ — Prometheus Observer for decode statistics
//	examples/      — a runnable end-to-end program
//
//	go get github.com/katalvlaran/poreprefix
package poreprefix
