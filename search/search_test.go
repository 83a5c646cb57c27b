package search_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/poreprefix/emission"
	"github.com/katalvlaran/poreprefix/logmath"
	"github.com/katalvlaran/poreprefix/prefixtree"
	"github.com/katalvlaran/poreprefix/search"
)

const tol = 1e-9

var ac = prefixtree.MustAlphabet("AC")

// TestDecode_PeakedTable checks a table whose rows favor A, then C, then blank.
func TestDecode_PeakedTable(t *testing.T) {
	y := mustTable(t, [][]float64{
		{0.9, 0.05, 0.05},
		{0.05, 0.9, 0.05},
		{0.05, 0.05, 0.9},
	})

	res, err := search.Decode(y, ac)
	require.NoError(t, err)
	assert.Equal(t, "AC", res.Label)
	assert.Equal(t, []int{0, 1}, res.Path)
	// A,C,_ + A,_,C + _,A,C
	assert.InDelta(t, math.Log(0.729+0.00225+0.000125), res.LogProb, tol)
	assert.False(t, res.Truncated)
	assert.Positive(t, res.Expanded)
	assert.GreaterOrEqual(t, res.Evaluated, res.Expanded)
}

// TestDecode_MatchesBruteForce compares against full path enumeration on the
// fixed tables from the reference suite and on random tables.
func TestDecode_MatchesBruteForce(t *testing.T) {
	tables := [][][]float64{
		{{0.8, 0.1, 0.1}, {0.1, 0.3, 0.6}, {0.7, 0.2, 0.1}, {0.1, 0.1, 0.8}},
		{{0.1, 0.6, 0.3}, {0.4, 0.2, 0.4}, {0.4, 0.3, 0.3}, {0.2, 0.8, 0}},
		{{0.7, 0.2, 0.1}, {0.2, 0.3, 0.5}, {0.7, 0.2, 0.1}, {0.05, 0.05, 0.9}},
	}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		tables = append(tables, randomRows(rng, 1+rng.Intn(6), 3))
	}

	for i, rows := range tables {
		wantLabel, wantLog := argmax(standardProfile(rows, ac))
		res, err := search.Decode(mustTable(t, rows), ac)
		require.NoError(t, err, "table %d", i)
		assert.Equal(t, wantLabel, res.Label, "table %d", i)
		assert.InDelta(t, wantLog, res.LogProb, tol, "table %d", i)
	}
}

// TestDecode_DNAMatchesBruteForce exercises a four-symbol alphabet.
func TestDecode_DNAMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 5; i++ {
		rows := randomRows(rng, 4, 5)
		wantLabel, wantLog := argmax(standardProfile(rows, prefixtree.DNA))
		res, err := search.Decode(mustTable(t, rows), prefixtree.DNA)
		require.NoError(t, err)
		assert.Equal(t, wantLabel, res.Label)
		assert.InDelta(t, wantLog, res.LogProb, tol)
	}
}

// TestDecode_EmptyLabel checks that an all-blank table decodes to "" without error.
func TestDecode_EmptyLabel(t *testing.T) {
	res, err := search.Decode(mustTable(t, [][]float64{{0, 0, 1}, {0, 0, 1}}), ac)
	require.NoError(t, err)
	assert.Equal(t, "", res.Label)
	assert.Empty(t, res.Path)
	assert.Equal(t, 0.0, res.LogProb)

	res, err = search.Decode(emission.NewEmpty(3), ac)
	require.NoError(t, err)
	assert.Equal(t, "", res.Label)
	assert.Equal(t, 0.0, res.LogProb)
}

// TestDecode_NoViableDecode checks the all-zero table.
func TestDecode_NoViableDecode(t *testing.T) {
	_, err := search.Decode(mustTable(t, [][]float64{{0, 0, 0}, {0, 0, 0}}), ac)
	assert.ErrorIs(t, err, search.ErrNoViableDecode)
}

// TestDecode_InputErrors covers argument validation.
func TestDecode_InputErrors(t *testing.T) {
	_, err := search.Decode(nil, ac)
	assert.ErrorIs(t, err, search.ErrNilTable)

	_, err = search.Decode(mustTable(t, [][]float64{{0.5, 0.5}}), ac)
	assert.ErrorIs(t, err, prefixtree.ErrClassMismatch)

	_, err = search.Decode(mustTable(t, [][]float64{{0.5, 0.2, 0.3}}), ac, search.WithMaxExpansions(-1))
	assert.ErrorIs(t, err, search.ErrOptionViolation)
}

// TestDecode_Deterministic checks that repeated decodes agree exactly.
func TestDecode_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	y := mustTable(t, randomRows(rng, 8, 5))
	first, err := search.Decode(y, prefixtree.DNA)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := search.Decode(y, prefixtree.DNA)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

// TestDecode_MaxExpansions checks truncation reporting.
func TestDecode_MaxExpansions(t *testing.T) {
	y := mustTable(t, [][]float64{
		{0.4, 0.3, 0.3},
		{0.3, 0.4, 0.3},
		{0.3, 0.3, 0.4},
	})
	res, err := search.Decode(y, ac, search.WithMaxExpansions(1))
	require.NoError(t, err)
	assert.True(t, res.Truncated)
	assert.Equal(t, 1, res.Expanded)
	assert.Equal(t, 2, res.Evaluated)

	full, err := search.Decode(y, ac, search.WithMaxExpansions(0))
	require.NoError(t, err)
	assert.False(t, full.Truncated)
	assert.GreaterOrEqual(t, full.LogProb, res.LogProb)
}

// TestDecode_CapWithNothingLeftToWin checks that reaching the cap is not
// reported as truncation when every remaining candidate is already beaten.
func TestDecode_CapWithNothingLeftToWin(t *testing.T) {
	// "C" scores .49 with bound .61 and is expanded second; "A" (bound .31)
	// is still queued but cannot beat .49.
	y := mustTable(t, [][]float64{
		{0.3, 0.6, 0.1},
		{0.1, 0.1, 0.8},
	})

	capped, err := search.Decode(y, ac, search.WithMaxExpansions(2))
	require.NoError(t, err)
	assert.Equal(t, "C", capped.Label)
	assert.InDelta(t, math.Log(0.49), capped.LogProb, tol)
	assert.Equal(t, 2, capped.Expanded)
	assert.False(t, capped.Truncated)

	early, err := search.Decode(y, ac, search.WithMaxExpansions(1))
	require.NoError(t, err)
	assert.True(t, early.Truncated, "C's subtree is still open after one expansion")

	full, err := search.Decode(y, ac)
	require.NoError(t, err)
	assert.Equal(t, capped, full)
}

// TestDecode_ContextCanceled checks that cancellation aborts the search.
func TestDecode_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := search.Decode(mustTable(t, [][]float64{{0.5, 0.2, 0.3}}), ac, search.WithContext(ctx))
	assert.ErrorIs(t, err, context.Canceled)
}

// TestDecode_Hooks checks OnExpand/OnImprove bookkeeping.
func TestDecode_Hooks(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	y := mustTable(t, randomRows(rng, 5, 3))

	expands := 0
	var improved []float64
	var lastLabel string
	res, err := search.Decode(y, ac,
		search.WithOnExpand(func(depth int, priority float64) {
			expands++
			assert.GreaterOrEqual(t, depth, 0)
		}),
		search.WithOnImprove(func(label string, logProb float64) {
			improved = append(improved, logProb)
			lastLabel = label
		}),
	)
	require.NoError(t, err)
	assert.Equal(t, res.Expanded, expands)
	for i := 1; i < len(improved); i++ {
		assert.GreaterOrEqual(t, improved[i], improved[i-1], "the incumbent never gets worse")
	}
	if len(improved) > 0 {
		assert.Equal(t, res.Label, lastLabel)
		assert.Equal(t, res.LogProb, improved[len(improved)-1])
	}
}

// TestDecode_Logger checks that debug records reach a configured logger.
func TestDecode_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := search.Decode(mustTable(t, [][]float64{{0.9, 0.05, 0.05}}), ac, search.WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "decode started")
	assert.Contains(t, buf.String(), "decode finished")
	assert.Contains(t, buf.String(), "variant=standard")
}

// recorder is an Observer that keeps every Stats record.
type recorder struct{ stats []search.Stats }

func (r *recorder) ObserveDecode(s search.Stats) { r.stats = append(r.stats, s) }

// TestDecode_Observer checks that successes and failures are both reported.
func TestDecode_Observer(t *testing.T) {
	rec := &recorder{}
	_, err := search.Decode(mustTable(t, [][]float64{{0.9, 0.05, 0.05}}), ac, search.WithObserver(rec))
	require.NoError(t, err)
	_, err = search.Decode(mustTable(t, [][]float64{{0, 0, 0}}), ac, search.WithObserver(rec))
	require.ErrorIs(t, err, search.ErrNoViableDecode)

	require.Len(t, rec.stats, 2)
	assert.Equal(t, search.VariantStandard, rec.stats[0].Variant)
	assert.NoError(t, rec.stats[0].Err)
	assert.Positive(t, rec.stats[0].Evaluated)
	assert.ErrorIs(t, rec.stats[1].Err, search.ErrNoViableDecode)
}

// TestDecodeFlipFlop_Repeat checks that a flip followed by a flop of the same
// base decodes as a doubled base.
func TestDecodeFlipFlop_Repeat(t *testing.T) {
	// columns: A-flip, C-flip, A-flop, C-flop
	y := mustTable(t, [][]float64{
		{0.97, 0.01, 0.01, 0.01},
		{0.01, 0.01, 0.97, 0.01},
	})
	res, err := search.DecodeFlipFlop(y, ac)
	require.NoError(t, err)
	assert.Equal(t, "AA", res.Label)
	assert.InDelta(t, math.Log(0.97*0.97), res.LogProb, tol)
}

// TestDecodeFlipFlop_Stay checks that holding the flip state is one base.
func TestDecodeFlipFlop_Stay(t *testing.T) {
	y := mustTable(t, [][]float64{
		{0.01, 0.97, 0.01, 0.01},
		{0.01, 0.97, 0.01, 0.01},
		{0.97, 0.01, 0.01, 0.01},
	})
	res, err := search.DecodeFlipFlop(y, ac)
	require.NoError(t, err)
	assert.Equal(t, "CA", res.Label)
}

// TestDecodeFlipFlop_MatchesBruteForce compares against enumeration under
// flip-flop transition rules.
func TestDecodeFlipFlop_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 15; i++ {
		rows := randomRows(rng, 1+rng.Intn(6), 4)
		wantLabel, wantLog := argmax(flipFlopProfile(rows, ac))
		res, err := search.DecodeFlipFlop(mustTable(t, rows), ac)
		require.NoError(t, err, "table %d", i)
		assert.Equal(t, wantLabel, res.Label, "table %d", i)
		assert.InDelta(t, wantLog, res.LogProb, tol, "table %d", i)
	}
}

// TestDecodeFlipFlop_Errors covers the flip-flop specific failures.
func TestDecodeFlipFlop_Errors(t *testing.T) {
	_, err := search.DecodeFlipFlop(nil, ac)
	assert.ErrorIs(t, err, search.ErrNilTable)

	_, err = search.DecodeFlipFlop(mustTable(t, [][]float64{{0.2, 0.3, 0.5}}), ac)
	assert.ErrorIs(t, err, prefixtree.ErrClassMismatch)

	// every row puts all mass on flop states: no base can ever start
	_, err = search.DecodeFlipFlop(mustTable(t, [][]float64{{0, 0, 0.5, 0.5}}), ac)
	assert.ErrorIs(t, err, search.ErrNoViableDecode)
}

// TestDecodePair_SameTableIdentityEnvelope checks that decoding a read
// against itself returns the single-read answer with doubled log-probability.
func TestDecodePair_SameTableIdentityEnvelope(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	for i := 0; i < 10; i++ {
		y := mustTable(t, randomRows(rng, 1+rng.Intn(6), 3))
		single, err := search.Decode(y, ac)
		require.NoError(t, err)

		pair, err := search.DecodePair(y, y, emission.IdentityEnvelope(y.Steps()), ac)
		require.NoError(t, err)
		assert.Equal(t, single.Label, pair.Label)
		assert.InDelta(t, 2*single.LogProb, pair.LogProb, tol)
	}
}

// TestDecode_TiesResolveToSmallestPath checks that exactly tied labels give
// the same answer in every decoder and in the brute-force oracle.
func TestDecode_TiesResolveToSmallestPath(t *testing.T) {
	cases := []struct {
		name string
		rows [][]float64
		want string
	}{
		{"SingleStep", [][]float64{{0.4, 0.4, 0.2}}, "A"},
		{"AAAversusACA", [][]float64{
			{2.0 / 3, 1.0 / 6, 1.0 / 6},
			{0.25, 0.5, 0.25},
			{0.5, 0, 0.5},
			{2.0 / 3, 1.0 / 6, 1.0 / 6},
		}, "AAA"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			oracle, _ := argmax(standardProfile(tc.rows, ac))
			assert.Equal(t, tc.want, oracle)

			y := mustTable(t, tc.rows)
			single, err := search.Decode(y, ac)
			require.NoError(t, err)
			assert.Equal(t, tc.want, single.Label)

			for name, env := range map[string]*emission.Envelope{
				"identity": emission.IdentityEnvelope(y.Steps()),
				"full":     emission.FullEnvelope(y.Steps(), y.Steps()),
			} {
				pair, err := search.DecodePair(y, y, env, ac)
				require.NoError(t, err, name)
				assert.Equal(t, tc.want, pair.Label, name)
				assert.Equal(t, 2*single.LogProb, pair.LogProb, name)
			}
		})
	}

	// the two tied labels really score the same
	y := mustTable(t, cases[1].rows)
	aaa, err := search.ScoreLabel(y, ac, "AAA")
	require.NoError(t, err)
	aca, err := search.ScoreLabel(y, ac, "ACA")
	require.NoError(t, err)
	assert.Equal(t, aaa, aca)
}

// TestDecodePair_QuantizedAgreesWithDecode runs tables with coarse
// probabilities, where exact ties are common, through both decoders.
func TestDecodePair_QuantizedAgreesWithDecode(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 300; i++ {
		rows := quantizedRows(rng, 1+rng.Intn(4), 3, 4)
		y := mustTable(t, rows)

		single, err := search.Decode(y, ac)
		if errors.Is(err, search.ErrNoViableDecode) {
			continue
		}
		require.NoError(t, err, "table %d", i)
		pair, err := search.DecodePair(y, y, emission.IdentityEnvelope(y.Steps()), ac)
		require.NoError(t, err, "table %d", i)
		assert.Equal(t, single.Label, pair.Label, "table %d: %v", i, rows)
		assert.Equal(t, 2*single.LogProb, pair.LogProb, "table %d", i)
	}
}

// TestDecodePair_MatchesBruteForce checks that a full envelope maximizes
// the product of the two label probabilities.
func TestDecodePair_MatchesBruteForce(t *testing.T) {
	fixed := [][2][][]float64{{
		{{0.8, 0.1, 0.1}, {0.1, 0.3, 0.6}, {0.7, 0.2, 0.1}, {0.1, 0.1, 0.8}},
		{{0.7, 0.2, 0.1}, {0.05, 0.05, 0.9}},
	}}
	rng := rand.New(rand.NewSource(17))
	for i := 0; i < 10; i++ {
		fixed = append(fixed, [2][][]float64{
			randomRows(rng, 1+rng.Intn(5), 3),
			randomRows(rng, 1+rng.Intn(5), 3),
		})
	}

	for i, pair := range fixed {
		p0 := standardProfile(pair[0], ac)
		p1 := standardProfile(pair[1], ac)
		joint := make(map[string]float64)
		for l, p := range p0 {
			if q, ok := p1[l]; ok {
				joint[l] = p * q
			}
		}
		wantLabel, wantLog := argmax(joint)

		y0, y1 := mustTable(t, pair[0]), mustTable(t, pair[1])
		res, err := search.DecodePair(y0, y1, emission.FullEnvelope(y0.Steps(), y1.Steps()), ac)
		require.NoError(t, err, "pair %d", i)
		assert.Equal(t, wantLabel, res.Label, "pair %d", i)
		assert.InDelta(t, wantLog, res.LogProb, tol, "pair %d", i)

		score, err := search.ScorePairLabel(y0, y1, ac, res.Label)
		require.NoError(t, err)
		assert.InDelta(t, res.LogProb, score, tol)
	}
}

// TestDecodePair_EnvelopePrunes checks that a node with no admissible pair
// of emit terms is never expanded.
func TestDecodePair_EnvelopePrunes(t *testing.T) {
	// track 0 emits A at t=0 and maybe again at t=2; track 1 emits A at t=1
	// or t=2 and then certainly at t=2. "A" and "AA" tie at 0.25.
	y0 := mustTable(t, [][]float64{{1, 0, 0}, {0, 0, 1}, {0.5, 0, 0.5}})
	y1 := mustTable(t, [][]float64{{0, 0, 1}, {0.5, 0, 0.5}, {1, 0, 0}})

	full, err := search.DecodePair(y0, y1, emission.FullEnvelope(3, 3), ac)
	require.NoError(t, err)
	assert.Equal(t, "A", full.Label, "earlier label keeps a tie")
	assert.InDelta(t, math.Log(0.25), full.LogProb, tol)
	assert.Equal(t, 2, full.Expanded)

	ident, err := search.DecodePair(y0, y1, emission.IdentityEnvelope(3), ac)
	require.NoError(t, err)
	assert.Equal(t, "A", ident.Label)
	assert.Equal(t, 1, ident.Expanded, "A has no admissible pair and is not expanded")
}

// TestDecodePair_ParallelMatchesSequential checks that concurrent track
// evaluation changes nothing.
func TestDecodePair_ParallelMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(33))
	for i := 0; i < 5; i++ {
		y0 := mustTable(t, randomRows(rng, 12, 5))
		y1 := mustTable(t, randomRows(rng, 15, 5))
		env := emission.BandEnvelope(12, 15, 3)

		seq, err := search.DecodePair(y0, y1, env, prefixtree.DNA, search.WithMaxExpansions(200))
		require.NoError(t, err)
		par, err := search.DecodePair(y0, y1, env, prefixtree.DNA,
			search.WithMaxExpansions(200), search.WithParallelTracks())
		require.NoError(t, err)
		assert.Equal(t, seq, par)
	}
}

// TestDecodePair_Errors covers envelope validation.
func TestDecodePair_Errors(t *testing.T) {
	y0 := mustTable(t, [][]float64{{0.5, 0.2, 0.3}, {0.5, 0.2, 0.3}})
	y1 := mustTable(t, [][]float64{{0.5, 0.2, 0.3}})

	_, err := search.DecodePair(y0, nil, emission.FullEnvelope(2, 1), ac)
	assert.ErrorIs(t, err, search.ErrNilTable)

	_, err = search.DecodePair(y0, y1, nil, ac)
	assert.ErrorIs(t, err, search.ErrNilEnvelope)

	_, err = search.DecodePair(y0, y1, emission.FullEnvelope(3, 3), ac)
	assert.ErrorIs(t, err, search.ErrEnvelopeMismatch)
	assert.ErrorIs(t, err, emission.ErrDimensionMismatch)

	_, err = search.DecodePair(y0, mustTable(t, [][]float64{{1}}), emission.FullEnvelope(2, 1), ac)
	assert.ErrorIs(t, err, prefixtree.ErrClassMismatch)
}

// TestScoreLabel_MatchesBruteForce checks every label of a small table.
func TestScoreLabel_MatchesBruteForce(t *testing.T) {
	rows := [][]float64{{0.8, 0.1, 0.1}, {0.1, 0.3, 0.6}, {0.7, 0.2, 0.1}, {0.1, 0.1, 0.8}}
	y := mustTable(t, rows)
	for label, p := range standardProfile(rows, ac) {
		got, err := search.ScoreLabel(y, ac, label)
		require.NoError(t, err)
		assert.InDelta(t, math.Log(p), got, tol, "label %q", label)
	}

	got, err := search.ScoreLabel(y, ac, "AAAAA")
	require.NoError(t, err)
	assert.True(t, logmath.IsZero(got), "longer than the table")

	_, err = search.ScoreLabel(y, ac, "AGC")
	assert.ErrorIs(t, err, prefixtree.ErrUnknownSymbol)
}

// TestScoreFlipFlopLabel_MatchesBruteForce checks every flip-flop label.
func TestScoreFlipFlopLabel_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	rows := randomRows(rng, 4, 4)
	y := mustTable(t, rows)
	for label, p := range flipFlopProfile(rows, ac) {
		got, err := search.ScoreFlipFlopLabel(y, ac, label)
		require.NoError(t, err)
		assert.InDelta(t, math.Log(p), got, tol, "label %q", label)
	}
	got, err := search.ScoreFlipFlopLabel(y, ac, "")
	require.NoError(t, err)
	assert.True(t, logmath.IsZero(got), "flip-flop always emits a base")
}
