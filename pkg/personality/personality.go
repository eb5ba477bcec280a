// Package personality implements the process-wide personality context that
// drives every probabilistic decision in the kinda runtime: mood, chaos
// level, seeded RNG, cascade depth and instability tracking.
//
// The context is single-threaded by contract. Embedders that call runtime
// helpers from multiple goroutines must serialize at their own boundary.
package personality

import (
	"fmt"
	"math/rand"
	"time"
)

// Mood is the categorical component of a personality.
type Mood string

const (
	MoodReliable Mood = "reliable"
	MoodCautious Mood = "cautious"
	MoodPlayful  Mood = "playful"
	MoodChaotic  Mood = "chaotic"
)

// Moods lists all valid moods in increasing order of chaos.
var Moods = []Mood{MoodReliable, MoodCautious, MoodPlayful, MoodChaotic}

// ParseMood converts a string to a Mood, or returns an error for unknown values.
func ParseMood(s string) (Mood, error) {
	switch Mood(s) {
	case MoodReliable, MoodCautious, MoodPlayful, MoodChaotic:
		return Mood(s), nil
	}
	return "", fmt.Errorf("unknown mood %q (valid: reliable, cautious, playful, chaotic)", s)
}

// baseProbabilities is the per-construct, per-mood probability contract.
// Values may only change with a documented reason.
var baseProbabilities = map[string]map[Mood]float64{
	"sometimes":   {MoodReliable: 0.95, MoodCautious: 0.70, MoodPlayful: 0.50, MoodChaotic: 0.30},
	"maybe":       {MoodReliable: 0.95, MoodCautious: 0.75, MoodPlayful: 0.60, MoodChaotic: 0.40},
	"rarely":      {MoodReliable: 0.30, MoodCautious: 0.20, MoodPlayful: 0.15, MoodChaotic: 0.10},
	"probably":    {MoodReliable: 0.95, MoodCautious: 0.85, MoodPlayful: 0.75, MoodChaotic: 0.65},
	"sorta_print": {MoodReliable: 0.95, MoodCautious: 0.85, MoodPlayful: 0.80, MoodChaotic: 0.60},
	"ish_true":    {MoodReliable: 0.90, MoodCautious: 0.85, MoodPlayful: 0.80, MoodChaotic: 0.75},
}

// BaseProbability returns the unadjusted table entry for a construct under a
// mood, or 0.5 when the construct has no table row.
func BaseProbability(construct string, mood Mood) float64 {
	if row, ok := baseProbabilities[construct]; ok {
		if p, ok := row[mood]; ok {
			return p
		}
	}
	return 0.5
}

const (
	instabilityOnFailure = 0.02
	instabilityOnSuccess = 0.01
	probabilityFloor     = 0.05
)

// Personality holds the mutable chaos state for one execution. All
// randomness in the runtime flows from its RNG; no other source is
// permitted.
type Personality struct {
	mood         Mood
	chaosLevel   int
	seed         int64
	rng          *rand.Rand
	instability  float64
	cascadeDepth int

	// failures and successes count UpdateChaosState calls, for reporting.
	failures  int
	successes int
}

// New creates a personality. A seed of 0 auto-seeds from the wall clock;
// any other value gives a fully deterministic stream.
func New(mood Mood, chaosLevel int, seed int64) *Personality {
	if chaosLevel < 1 {
		chaosLevel = 1
	}
	if chaosLevel > 10 {
		chaosLevel = 10
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Personality{
		mood:       mood,
		chaosLevel: chaosLevel,
		seed:       seed,
		rng:        rand.New(rand.NewSource(seed)), //nolint:gosec
	}
}

// Mood returns the categorical mood.
func (p *Personality) Mood() Mood { return p.mood }

// ChaosLevel returns the chaos amplifier in [1, 10].
func (p *Personality) ChaosLevel() int { return p.chaosLevel }

// Seed returns the seed the RNG was created with.
func (p *Personality) Seed() int64 { return p.seed }

// Random returns a uniform float64 in [0, 1).
func (p *Personality) Random() float64 { return p.rng.Float64() }

// Intn returns a uniform int in [0, n).
func (p *Personality) Intn(n int) int { return p.rng.Intn(n) }

// NormFloat64 returns a standard normal variate from the personality stream.
func (p *Personality) NormFloat64() float64 { return p.rng.NormFloat64() }

// Choice returns a uniformly chosen element of options, or "" when empty.
func (p *Personality) Choice(options []string) string {
	if len(options) == 0 {
		return ""
	}
	return options[p.rng.Intn(len(options))]
}

// Probability returns the effective probability for a construct: the base
// table entry for the current mood, scaled by chaos level and attenuated by
// cascade depth, floored at 0.05.
func (p *Personality) Probability(construct string) float64 {
	prob := BaseProbability(construct, p.mood)

	// Chaos level 5 is neutral; lower levels scale the probability down,
	// higher levels clamp at the base value. The scale is clamped so level 1
	// never zeroes out.
	scale := float64(p.chaosLevel) / 5
	if scale < probabilityFloor {
		scale = probabilityFloor
	}
	if scale > 1 {
		scale = 1
	}
	prob *= scale

	// Deeply chained fuzzy calls attenuate so nested chaos cannot compound
	// into certainty of failure.
	prob /= float64(1 + p.cascadeDepth)

	if prob < probabilityFloor {
		prob = probabilityFloor
	}
	if prob > 1 {
		prob = 1
	}
	return prob
}

// UpdateChaosState records the outcome of one fuzzy operation. Failures
// accumulate instability; successes decay it.
func (p *Personality) UpdateChaosState(failed bool) {
	if failed {
		p.failures++
		p.instability += instabilityOnFailure
		if p.instability > 1 {
			p.instability = 1
		}
		return
	}
	p.successes++
	p.instability -= instabilityOnSuccess
	if p.instability < 0 {
		p.instability = 0
	}
}

// Instability returns the accumulated failure signal in [0, 1].
func (p *Personality) Instability() float64 { return p.instability }

// CascadeDepth returns the current fuzzy-call nesting depth.
func (p *Personality) CascadeDepth() int { return p.cascadeDepth }

// CascadeEnter marks entry into a fuzzy call's dynamic extent. Calls must
// be strictly paired with CascadeExit.
func (p *Personality) CascadeEnter() { p.cascadeDepth++ }

// CascadeExit marks exit from a fuzzy call. An unmatched exit is clamped
// at zero and recorded as a failure.
func (p *Personality) CascadeExit() {
	if p.cascadeDepth == 0 {
		p.UpdateChaosState(true)
		return
	}
	p.cascadeDepth--
}

// Snapshot is a read-only view of the chaos state for reporting.
type Snapshot struct {
	Mood         Mood    `json:"mood"`
	ChaosLevel   int     `json:"chaos_level"`
	Seed         int64   `json:"seed"`
	Instability  float64 `json:"instability"`
	CascadeDepth int     `json:"cascade_depth"`
	Failures     int     `json:"failures"`
	Successes    int     `json:"successes"`
}

// Snapshot returns the current chaos state.
func (p *Personality) Snapshot() Snapshot {
	return Snapshot{
		Mood:         p.mood,
		ChaosLevel:   p.chaosLevel,
		Seed:         p.seed,
		Instability:  p.instability,
		CascadeDepth: p.cascadeDepth,
		Failures:     p.failures,
		Successes:    p.successes,
	}
}
