package search

import (
	"container/heap"
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/katalvlaran/poreprefix/emission"
	"github.com/katalvlaran/poreprefix/logmath"
	"github.com/katalvlaran/poreprefix/prefixtree"
)

// Decode finds the most probable labeling of y under the standard CTC model
// (alphabet.Len() symbol columns followed by one blank column).
//
// Errors:
//   - ErrOptionViolation if an option is invalid.
//   - ErrNilTable if y is nil.
//   - prefixtree.ErrClassMismatch if y does not have alphabet.Len()+1 columns.
//   - ErrNoViableDecode if every labeling has probability zero.
//   - the context error if Options.Ctx is done before the search finishes.
func Decode(y *emission.Table, alphabet prefixtree.Alphabet, opts ...Option) (Result, error) {
	cfg, err := buildOptions(opts)
	if err != nil {
		return Result{}, err
	}
	if y == nil {
		return Result{}, ErrNilTable
	}
	st, err := prefixtree.NewStandardTree(y, alphabet)
	if err != nil {
		return Result{}, fmt.Errorf("search: %w", err)
	}

	return run(cfg, VariantStandard, standardModel{st})
}

// DecodeFlipFlop finds the most probable base sequence of y under the
// flip-flop model (2·alphabet.Len() columns: flip states, then flop states).
// The empty label is impossible for a non-empty table. Errors are as for
// Decode, with 2·alphabet.Len() as the required column count.
func DecodeFlipFlop(y *emission.Table, alphabet prefixtree.Alphabet, opts ...Option) (Result, error) {
	cfg, err := buildOptions(opts)
	if err != nil {
		return Result{}, err
	}
	if y == nil {
		return Result{}, ErrNilTable
	}
	ft, err := prefixtree.NewFlipFlopTree(y, alphabet)
	if err != nil {
		return Result{}, fmt.Errorf("search: %w", err)
	}

	return run(cfg, VariantFlipFlop, flipFlopModel{ft})
}

// DecodePair finds the labeling that maximizes the product of its
// probabilities under two reads y0 and y1 of the same molecule. env restricts
// which (track-0, track-1) timestep pairs may support a prefix: a node none
// of whose emit terms fall on an admissible pair is never expanded.
//
// Result.LogProb is the unnormalized joint score log(P0·P1). It is not
// divided by the probability that the two reads agree on a label, so it is
// not a probability over labels; the argmax is the same either way.
//
// Errors, in addition to those of Decode:
//   - ErrNilEnvelope if env is nil.
//   - ErrEnvelopeMismatch if env does not span exactly y0 × y1.
func DecodePair(y0, y1 *emission.Table, env *emission.Envelope, alphabet prefixtree.Alphabet, opts ...Option) (Result, error) {
	cfg, err := buildOptions(opts)
	if err != nil {
		return Result{}, err
	}
	if y0 == nil || y1 == nil {
		return Result{}, ErrNilTable
	}
	if env == nil {
		return Result{}, ErrNilEnvelope
	}
	if err = env.Covers(y0, y1); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrEnvelopeMismatch, err)
	}
	pt, err := prefixtree.NewPairedTree(y0, y1, alphabet)
	if err != nil {
		return Result{}, fmt.Errorf("search: %w", err)
	}

	return run(cfg, VariantPaired, newPairedModel(pt, env, cfg.ParallelTracks))
}

// run drives one decode and reports it to the logger and observer.
func run(cfg Options, variant Variant, m model) (Result, error) {
	start := time.Now()
	cfg.Logger.Debug("decode started", "variant", variant, "max_expansions", cfg.MaxExpansions)

	r := &runner{
		ctx:     cfg.Ctx,
		m:       m,
		options: cfg,
		pq:      make(frontier, 0, 64),
	}
	r.init()
	err := r.process()

	res := Result{Expanded: r.expanded, Evaluated: r.evaluated, Truncated: r.truncated}
	if err == nil && logmath.IsZero(r.best) {
		err = ErrNoViableDecode
	}
	if err == nil {
		res.Label = m.Label(r.bestID)
		res.Path = m.Path(r.bestID)
		res.LogProb = r.best
	}

	elapsed := time.Since(start)
	if cfg.Observer != nil {
		cfg.Observer.ObserveDecode(Stats{
			Variant:   variant,
			Expanded:  r.expanded,
			Evaluated: r.evaluated,
			Truncated: r.truncated,
			Duration:  elapsed,
			Err:       err,
		})
	}
	if err != nil {
		cfg.Logger.Debug("decode failed", "variant", variant, "expanded", r.expanded, "error", err)
		return Result{}, err
	}
	cfg.Logger.Debug("decode finished",
		"variant", variant,
		"label_len", len(res.Path),
		"log_prob", res.LogProb,
		"expanded", r.expanded,
		"evaluated", r.evaluated,
		"truncated", r.truncated,
		"elapsed", elapsed,
	)

	return res, nil
}

// runner holds the mutable state of a single best-first search.
type runner struct {
	ctx     context.Context
	m       model
	options Options
	pq      frontier
	seq     int               // next insertion number
	best    float64           // score of the incumbent
	bestID  prefixtree.NodeID // incumbent node
	expanded, evaluated int
	truncated           bool
}

// init makes the root (empty label) the incumbent and seeds the frontier
// with it. The root's bound is +Inf so that it is always expanded once.
func (r *runner) init() {
	r.bestID = prefixtree.Root
	r.best = r.m.LabelProbability(prefixtree.Root)
	heap.Init(&r.pq)
	r.push(prefixtree.Root, math.Inf(1), math.Inf(1))
}

// push adds an evaluated node to the frontier.
func (r *runner) push(id prefixtree.NodeID, bound, priority float64) {
	heap.Push(&r.pq, &candidate{id: id, bound: bound, priority: priority, seq: r.seq})
	r.seq++
}

// process pops candidates in priority order until the frontier is empty or
// the expansion cap is hit.
//
// A candidate that can no longer win is dropped when popped, since the
// incumbent may have improved since it was pushed. Because every bound is an
// upper bound on all labels below it, an exhausted frontier proves the
// incumbent optimal. Hitting the cap only counts as truncation when some
// candidate left on the frontier could still win.
func (r *runner) process() error {
	maxExp := r.options.MaxExpansions
	for r.pq.Len() > 0 {
		if maxExp > 0 && r.expanded >= maxExp {
			r.truncated = r.pending()
			break
		}
		if err := r.ctx.Err(); err != nil {
			return fmt.Errorf("search: decode interrupted after %d expansions: %w", r.expanded, err)
		}

		c := heap.Pop(&r.pq).(*candidate)
		if !r.mayWin(c.id, c.bound) {
			continue
		}
		r.expanded++
		r.options.OnExpand(r.m.Depth(c.id), c.priority)
		if err := r.expand(c.id); err != nil {
			return err
		}
	}

	return nil
}

// expand creates and evaluates the children of id, updates the incumbent,
// and pushes every child that may still lead to a better label.
func (r *runner) expand(id prefixtree.NodeID) error {
	for _, child := range r.m.Expand(id) {
		ev, err := r.m.evaluate(r.ctx, child)
		if err != nil {
			return fmt.Errorf("search: evaluating node %d: %w", child, err)
		}
		r.evaluated++

		if r.improves(child, ev.score) {
			r.best = ev.score
			r.bestID = child
			label := r.m.Label(child)
			r.options.OnImprove(label, ev.score)
			r.options.Logger.Debug("incumbent improved", "label", label, "log_prob", ev.score)
		}

		if !logmath.IsZero(ev.priority) && r.mayWin(child, ev.bound) {
			r.push(child, ev.bound, ev.priority)
		}
	}

	return nil
}

// tieSlack widens the tie window so that rounding between a bound and the
// forward score it covers never hides a tied label.
const tieSlack = 1e-12

// improves reports whether a node scoring score replaces the incumbent:
// a strictly higher score, or an equal score with a smaller path.
// Ties therefore resolve the same way whatever order the search runs in.
func (r *runner) improves(id prefixtree.NodeID, score float64) bool {
	if score != r.best {
		return score > r.best
	}
	if logmath.IsZero(score) {
		return false
	}

	return slices.Compare(r.m.Path(id), r.m.Path(r.bestID)) < 0
}

// mayWin reports whether the subtree below id, bounded by bound, can still
// hold a label that improves on the incumbent. Within the tie window only
// nodes whose path sorts before the incumbent's qualify: every descendant
// path extends id's, so a node that sorts after the incumbent cannot produce
// a smaller one.
func (r *runner) mayWin(id prefixtree.NodeID, bound float64) bool {
	switch {
	case logmath.IsZero(bound):
		return false
	case bound > r.best:
		return true
	case bound < r.best-tieSlack*math.Max(1, math.Abs(r.best)):
		return false
	}

	return slices.Compare(r.m.Path(id), r.m.Path(r.bestID)) < 0
}

// pending reports whether any candidate left on the frontier may still win.
func (r *runner) pending() bool {
	for _, c := range r.pq {
		if r.mayWin(c.id, c.bound) {
			return true
		}
	}

	return false
}
