// Package search decodes basecaller output into base sequences by exact
// best-first CTC prefix search over a lazily grown prefixtree.
//
// What
//
//   - Decode: standard CTC tables (A symbols + blank).
//   - DecodeFlipFlop: flip-flop tables (flip and flop state per base).
//   - DecodePair: two reads of one molecule, maximizing the product of the
//     two label probabilities, with an alignment envelope restricting which
//     timestep pairs may support a prefix.
//   - Greedy: best-path decoding, for comparison and quick previews.
//   - ScoreLabel, ScoreFlipFlopLabel, ScorePairLabel: exact probability of a
//     given label.
//
// How
//
//	Every node is evaluated over the whole table as soon as it is created,
//	which yields two numbers: its label score (probability of exactly its
//	label) and its prefix bound (probability of every labeling that starts
//	with it, an upper bound on the score of the node and its subtree).
//	A max-heap frontier ordered by bound (paired: by envelope-restricted
//	mass) is popped until it is empty; candidates whose bound cannot beat
//	the best label found so far are dropped. An empty frontier therefore
//	proves optimality. Labels with equal scores resolve to the one whose
//	path sorts first, so every variant and every search order returns the
//	same label.
//
// Options
//
//	search.WithMaxExpansions(n)   // stop early; Result.Truncated reports it
//	search.WithParallelTracks()   // evaluate the two reads of a pair concurrently
//	search.WithContext(ctx)       // cancellation, checked once per expansion
//	search.WithLogger(logger)     // slog debug records
//	search.WithOnExpand(fn), search.WithOnImprove(fn)
//	search.WithObserver(obs)      // see package searchmetrics
//
// A Config (YAML via ParseConfig/LoadConfig) maps onto the same options.
//
// Errors
//
//	ErrNoViableDecode (every labeling has probability zero; "" with a nil
//	error is a valid decode), ErrOptionViolation, ErrNilTable,
//	ErrNilEnvelope, ErrEnvelopeMismatch, ErrInvalidConfig, and wrapped
//	prefixtree/emission sentinels. Match with errors.Is.
//
// Complexity
//
//	Each evaluation costs O(T) (paired: O(T0+T1) plus the envelope size).
//	The number of expansions depends on how peaked the table is: sharp
//	tables need about one expansion per output symbol, flat ones may need
//	exponentially many, which is what MaxExpansions is for.
//
// Concurrency
//
//	A decode owns its tree; separate decodes may run in parallel on shared
//	read-only tables.
package search
