// Package search provides tunable options, result types and error
// definitions for CTC prefix-search decoding.
package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Sentinel errors for decoding.
var (
	// ErrNoViableDecode is returned when every labeling has probability zero.
	// It is distinct from a successful decode of the empty label.
	ErrNoViableDecode = errors.New("search: no labeling has non-zero probability")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("search: invalid option supplied")

	// ErrNilTable is returned when a nil emission table is passed.
	ErrNilTable = errors.New("search: emission table is nil")

	// ErrNilEnvelope is returned when DecodePair is called without an envelope.
	ErrNilEnvelope = errors.New("search: alignment envelope is nil")

	// ErrEnvelopeMismatch is returned when the envelope does not span both tables.
	ErrEnvelopeMismatch = errors.New("search: envelope does not match tables")

	// ErrInvalidConfig is returned by ParseConfig for out-of-range settings.
	ErrInvalidConfig = errors.New("search: invalid configuration")
)

// Variant names the emission model a decode ran against.
type Variant string

// Supported variants.
const (
	VariantStandard Variant = "standard"
	VariantPaired   Variant = "paired"
	VariantFlipFlop Variant = "flipflop"
)

// Result is the outcome of a decode.
type Result struct {
	// Label is the most probable labeling found; "" is a legitimate answer.
	// Among labels with equal scores it is the one whose Path sorts first.
	Label string

	// Path holds the alphabet indices of Label.
	Path []int

	// LogProb is the natural-log probability of Label. For paired decoding
	// it is the unnormalized joint score log(P0·P1), the sum over both reads.
	LogProb float64

	// Expanded counts tree nodes whose children were generated.
	Expanded int

	// Evaluated counts nodes whose probabilities were computed.
	Evaluated int

	// Truncated is set when MaxExpansions stopped the search while a
	// candidate that could still win was unexplored; Label is then the best
	// found so far. A capped search with nothing left to win is not truncated.
	Truncated bool
}

// Stats summarizes one decode call for an Observer.
type Stats struct {
	Variant   Variant
	Expanded  int
	Evaluated int
	Truncated bool
	Duration  time.Duration
	Err       error
}

// Observer receives a Stats record after every decode, successful or not.
// Implementations must be safe for concurrent use when decodes run in
// parallel.
type Observer interface {
	ObserveDecode(Stats)
}

// Option configures decoding via functional arguments.
// An invalid Option (e.g. a negative expansion cap) is recorded internally
// and surfaced as ErrOptionViolation when a decoder is invoked.
type Option func(*Options)

// Options holds parameters and callbacks that customize a decode.
type Options struct {
	// Ctx allows cancellation and deadlines; checked once per expansion.
	Ctx context.Context

	// MaxExpansions, if > 0, stops the search after that many expansions.
	// 0 means no limit.
	MaxExpansions int

	// ParallelTracks evaluates the two reads of a paired node concurrently.
	ParallelTracks bool

	// Logger receives debug records for decode start, improvements and finish.
	Logger *slog.Logger

	// OnExpand is called when a node is taken from the frontier and expanded.
	OnExpand func(depth int, priority float64)

	// OnImprove is called whenever the incumbent changes: a higher score, or
	// an equal score with a smaller path.
	OnImprove func(label string, logProb float64)

	// Observer, if non-nil, receives per-decode statistics.
	Observer Observer

	// internal error recorded during option parsing
	err error
}

// DefaultOptions returns Options with:
//   - context.Background()
//   - no expansion limit, sequential track evaluation
//   - a logger that discards everything
//   - no-op hooks, no observer
func DefaultOptions() Options {
	return Options{
		Ctx:       context.Background(),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		OnExpand:  func(int, float64) {},
		OnImprove: func(string, float64) {},
	}
}

// WithContext sets a custom context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithMaxExpansions caps the number of expansions.
//
//	n > 0: stop after n expansions
//	n == 0: explicit no limit
//	n < 0: invalid option → ErrOptionViolation
func WithMaxExpansions(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.err = fmt.Errorf("%w: MaxExpansions cannot be negative (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxExpansions = n
	}
}

// WithParallelTracks makes DecodePair evaluate both reads of every new node
// concurrently. Results are identical to sequential evaluation.
func WithParallelTracks() Option {
	return func(o *Options) { o.ParallelTracks = true }
}

// WithLogger routes debug records to l.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithOnExpand registers a callback run for every expansion.
func WithOnExpand(fn func(depth int, priority float64)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnExpand = fn
		}
	}
}

// WithOnImprove registers a callback run whenever the best label improves.
func WithOnImprove(fn func(label string, logProb float64)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnImprove = fn
		}
	}
}

// WithObserver registers an Observer for per-decode statistics.
func WithObserver(obs Observer) Option {
	return func(o *Options) { o.Observer = obs }
}

// buildOptions applies opts over DefaultOptions.
func buildOptions(opts []Option) (Options, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg, cfg.err
}
