// Package runtime implements the fuzzy runtime primitives: the functions
// transformed programs call, here as the canonical Go implementation used
// by the composition framework, the statistical validator and the tests.
//
// Every helper is total: it never panics outward, draws all randomness
// from the personality context, and records its outcome via
// UpdateChaosState.
package runtime

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/jihwankim/kinda-lang/pkg/personality"
)

// Per-mood noise parameters for the numeric helpers. These mirror the
// probability table's contract: reliable barely perturbs, chaotic swings.
var (
	floatSigma = map[personality.Mood]float64{
		personality.MoodReliable: 0.01,
		personality.MoodCautious: 0.05,
		personality.MoodPlayful:  0.08,
		personality.MoodChaotic:  0.15,
	}
	boolFlip = map[personality.Mood]float64{
		personality.MoodReliable: 0.02,
		personality.MoodCautious: 0.05,
		personality.MoodPlayful:  0.08,
		personality.MoodChaotic:  0.15,
	}
	repeatSpread = map[personality.Mood]float64{
		personality.MoodReliable: 0.0,
		personality.MoodCautious: 0.1,
		personality.MoodPlayful:  0.2,
		personality.MoodChaotic:  0.3,
	}
	intDeltaProb = map[personality.Mood]float64{
		personality.MoodReliable: 0.05,
		personality.MoodCautious: 0.20,
		personality.MoodPlayful:  0.35,
		personality.MoodChaotic:  0.65,
	}
)

// shrugs are the alternative outputs SortaPrint emits when it decides not
// to print.
var shrugs = []string{
	"[shrug] not feeling it",
	"[shrug] maybe later",
	"[shrug] meh",
	"[shrug] nope",
}

// Fuzzy bundles the runtime helpers around one personality context. The
// zero-argument constructor binds to the process-wide personality; tests
// inject their own.
type Fuzzy struct {
	p       *personality.Personality
	out     io.Writer
	metrics *Metrics
}

// Option configures a Fuzzy instance.
type Option func(*Fuzzy)

// WithOutput redirects SortaPrint. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(f *Fuzzy) { f.out = w }
}

// WithMetrics attaches a prometheus metrics set.
func WithMetrics(m *Metrics) Option {
	return func(f *Fuzzy) { f.metrics = m }
}

// New binds the helpers to a personality context.
func New(p *personality.Personality, opts ...Option) *Fuzzy {
	f := &Fuzzy{p: p, out: os.Stdout}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Default binds to the process-wide personality.
func Default(opts ...Option) *Fuzzy {
	return New(personality.Current(), opts...)
}

// Personality returns the bound context.
func (f *Fuzzy) Personality() *personality.Personality { return f.p }

// record reports one helper outcome to the personality and the metrics.
func (f *Fuzzy) record(construct string, failed bool) {
	f.p.UpdateChaosState(failed)
	if f.metrics != nil {
		f.metrics.observe(construct, failed, f.p)
	}
}

// gate implements the shared contract of the boolean constructs:
// cond AND (rng < probability(construct)).
func (f *Fuzzy) gate(construct string, cond bool) bool {
	hit := cond && f.p.Random() < f.p.Probability(construct)
	f.record(construct, false)
	return hit
}

// Sometimes returns cond gated by the "sometimes" probability.
func (f *Fuzzy) Sometimes(cond bool) bool { return f.gate("sometimes", cond) }

// Maybe returns cond gated by the "maybe" probability.
func (f *Fuzzy) Maybe(cond bool) bool { return f.gate("maybe", cond) }

// Rarely returns cond gated by the "rarely" probability.
func (f *Fuzzy) Rarely(cond bool) bool { return f.gate("rarely", cond) }

// Probably returns cond gated by the "probably" probability.
func (f *Fuzzy) Probably(cond bool) bool { return f.gate("probably", cond) }

// KindaInt rounds value and perturbs it by delta in {-1, 0, +1}. Reliable
// mood keeps delta at 0 with probability at least 0.9.
func (f *Fuzzy) KindaInt(value float64) int {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		f.record("kinda_int", true)
		return 0
	}
	base := int(math.Round(value))
	delta := 0
	if f.p.Random() < intDeltaProb[f.p.Mood()] {
		if f.p.Random() < 0.5 {
			delta = -1
		} else {
			delta = 1
		}
	}
	f.record("kinda_int", false)
	return base + delta
}

// KindaFloat scales value by (1 + eps) with eps drawn from a per-mood
// normal truncated to three sigma.
func (f *Fuzzy) KindaFloat(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		f.record("kinda_float", true)
		return 0
	}
	sigma := floatSigma[f.p.Mood()]
	eps := f.p.NormFloat64() * sigma
	if eps > 3*sigma {
		eps = 3 * sigma
	}
	if eps < -3*sigma {
		eps = -3 * sigma
	}
	f.record("kinda_float", false)
	return value * (1 + eps)
}

// KindaBool returns value with a per-mood independent flip probability.
func (f *Fuzzy) KindaBool(value bool) bool {
	if f.p.Random() < boolFlip[f.p.Mood()] {
		value = !value
	}
	f.record("kinda_bool", false)
	return value
}

// SortaPrint prints "[print]" plus the joined arguments with the
// sorta_print probability, or a shrug response otherwise. Write errors are
// swallowed and recorded; the helper never fails to its caller.
func (f *Fuzzy) SortaPrint(args ...interface{}) {
	var line string
	if f.p.Random() < f.p.Probability("sorta_print") {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = fmt.Sprint(a)
		}
		line = "[print] " + strings.Join(parts, " ")
	} else {
		line = f.p.Choice(shrugs)
	}
	if _, err := fmt.Fprintln(f.out, line); err != nil {
		f.record("sorta_print", true)
		return
	}
	f.record("sorta_print", false)
}

// IshComparison reports whether a and b are approximately equal within a
// relative tolerance band, with a probabilistic post-filter: in-band
// comparisons hold with the ish_true probability, out-of-band ones with
// its complement.
func (f *Fuzzy) IshComparison(a, b, tolerance float64) bool {
	if tolerance <= 0 {
		tolerance = 0.1
	}
	f.p.CascadeEnter()
	fa := f.KindaFloat(a)
	fb := f.KindaFloat(b)
	band := math.Abs(f.KindaFloat(math.Abs(a) * tolerance))
	f.p.CascadeExit()

	within := math.Abs(fa-fb) <= band
	p := f.p.Probability("ish_true")
	f.record("ish_comparison", false)
	if within {
		return f.p.Random() < p
	}
	return f.p.Random() < 1-p
}

// IshValue returns v fuzzed and shifted by up to +-tolerance relative.
func (f *Fuzzy) IshValue(v, tolerance float64) float64 {
	if tolerance <= 0 {
		tolerance = 0.1
	}
	f.p.CascadeEnter()
	fv := f.KindaFloat(v)
	f.p.CascadeExit()
	sign := 1.0
	if f.p.Random() < 0.5 {
		sign = -1.0
	}
	eps := f.p.Random()
	f.record("ish_value", false)
	return fv * (1 + sign*tolerance*eps)
}

// KindaRepeatCount returns n plus a discrete-uniform delta bounded by the
// per-mood spread fraction, clamped at zero.
func (f *Fuzzy) KindaRepeatCount(n int) int {
	if n < 0 {
		f.record("kinda_repeat_count", true)
		return 0
	}
	spread := int(repeatSpread[f.p.Mood()] * float64(n))
	delta := 0
	if spread > 0 {
		delta = f.p.Intn(2*spread+1) - spread
	}
	f.record("kinda_repeat_count", false)
	count := n + delta
	if count < 0 {
		count = 0
	}
	return count
}

// Welp runs thunk and returns its value, or fallback when thunk panics,
// errors, or yields nil. The failure is recorded exactly once.
func (f *Fuzzy) Welp(thunk func() (interface{}, error), fallback interface{}) (result interface{}) {
	defer func() {
		if r := recover(); r != nil {
			f.record("welp", true)
			result = fallback
		}
	}()
	v, err := thunk()
	if err != nil || v == nil {
		f.record("welp", true)
		return fallback
	}
	f.record("welp", false)
	return v
}
