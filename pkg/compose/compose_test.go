package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jihwankim/kinda-lang/pkg/personality"
	"github.com/jihwankim/kinda-lang/pkg/runtime"
)

func targets(reliable, cautious, playful, chaotic float64) map[personality.Mood]float64 {
	return map[personality.Mood]float64{
		personality.MoodReliable: reliable,
		personality.MoodCautious: cautious,
		personality.MoodPlayful:  playful,
		personality.MoodChaotic:  chaotic,
	}
}

func newRuntime(mood personality.Mood, seed int64) *runtime.Fuzzy {
	return runtime.New(personality.New(mood, 5, seed))
}

func observe(t *testing.T, reg *Registry, name string, f *runtime.Fuzzy, trials int) float64 {
	t.Helper()
	hits := 0
	for i := 0; i < trials; i++ {
		ok, err := reg.Execute(name, f)
		require.NoError(t, err)
		if ok {
			hits++
		}
	}
	return float64(hits) / float64(trials)
}

func TestRegisterRejectsDuplicateName(t *testing.T) {
	reg := NewRegistry(nil)
	c := &Composite{
		Name: "twice", Strategy: StrategyUnion,
		Components:          []string{"sometimes"},
		TargetProbabilities: targets(0.95, 0.70, 0.50, 0.30),
	}
	require.NoError(t, reg.Register(c))
	err := reg.Register(c)
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestRegisterRejectsUnknownComponent(t *testing.T) {
	reg := NewRegistry(nil)
	err := reg.Register(&Composite{
		Name: "broken", Strategy: StrategyUnion,
		Components:          []string{"no_such_primitive"},
		TargetProbabilities: targets(0.5, 0.5, 0.5, 0.5),
	})
	assert.ErrorIs(t, err, ErrUnknownComponent)
}

func TestRegisterRejectsMissingTargets(t *testing.T) {
	reg := NewRegistry(nil)
	err := reg.Register(&Composite{
		Name: "partial", Strategy: StrategyUnion,
		Components: []string{"sometimes"},
		TargetProbabilities: map[personality.Mood]float64{
			personality.MoodReliable: 0.95,
		},
	})
	assert.ErrorIs(t, err, ErrMissingTargets)
}

func TestRegisterRejectsSelfReference(t *testing.T) {
	reg := NewRegistry(nil)
	err := reg.Register(&Composite{
		Name: "ouroboros", Strategy: StrategyUnion,
		Components:          []string{"ouroboros"},
		TargetProbabilities: targets(0.5, 0.5, 0.5, 0.5),
	})
	assert.Error(t, err)
}

func TestUnionMatchesIndependentComponentMath(t *testing.T) {
	reg := NewRegistry(nil)
	require.NoError(t, reg.Register(&Composite{
		Name: "either", Strategy: StrategyUnion,
		Components:          []string{"sometimes", "maybe"},
		TargetProbabilities: targets(0.9975, 0.925, 0.80, 0.58),
	}))

	// Playful: 1 - (1-0.5)(1-0.6) = 0.80 with no bridge.
	got := observe(t, reg, "either", newRuntime(personality.MoodPlayful, 42), 2000)
	assert.InDelta(t, 0.80, got, 0.05)
}

func TestUnionBridgeLiftsMissRate(t *testing.T) {
	reg := NewRegistry(nil)
	require.NoError(t, reg.Register(&Composite{
		Name: "bridged", Strategy: StrategyUnion,
		Components: []string{"sometimes", "maybe"},
		Bridges: map[personality.Mood]float64{
			personality.MoodChaotic: 0.20,
		},
		TargetProbabilities: targets(0.9975, 0.925, 0.80, 0.664),
	}))

	// Chaotic union is 1 - 0.7*0.6 = 0.58; the 0.2 bridge on the 0.42
	// miss mass lifts it to about 0.664.
	got := observe(t, reg, "bridged", newRuntime(personality.MoodChaotic, 42), 4000)
	assert.InDelta(t, 0.664, got, 0.05)
}

func TestIntersection(t *testing.T) {
	reg := NewRegistry(nil)
	require.NoError(t, reg.Register(&Composite{
		Name: "both", Strategy: StrategyIntersection,
		Components:          []string{"probably", "probably"},
		TargetProbabilities: targets(0.9025, 0.7225, 0.5625, 0.4225),
	}))

	got := observe(t, reg, "both", newRuntime(personality.MoodReliable, 7), 2000)
	assert.InDelta(t, 0.9025, got, 0.05)
}

func TestThreshold(t *testing.T) {
	reg := NewRegistry(nil)
	require.NoError(t, reg.Register(&Composite{
		Name: "quorum", Strategy: StrategyThreshold, Threshold: 2,
		Components:          []string{"probably", "probably", "probably"},
		TargetProbabilities: targets(0.99, 0.94, 0.84, 0.72),
	}))

	// Reliable: P(at least 2 of 3 at p=0.95) = 3(0.95^2)(0.05) + 0.95^3.
	got := observe(t, reg, "quorum", newRuntime(personality.MoodReliable, 9), 2000)
	assert.InDelta(t, 0.99, got, 0.03)
}

func TestSequentialShortCircuits(t *testing.T) {
	reg := NewRegistry(nil)
	require.NoError(t, reg.Register(&Composite{
		Name: "firstwin", Strategy: StrategySequential,
		Components:          []string{"rarely", "probably"},
		TargetProbabilities: targets(0.965, 0.88, 0.7875, 0.685),
	}))

	// Reliable: 0.30 + 0.70*0.95 = 0.965.
	got := observe(t, reg, "firstwin", newRuntime(personality.MoodReliable, 11), 2000)
	assert.InDelta(t, 0.965, got, 0.03)
}

func TestWeighted(t *testing.T) {
	reg := NewRegistry(nil)
	require.NoError(t, reg.Register(&Composite{
		Name: "majority", Strategy: StrategyWeighted,
		Components:          []string{"probably", "rarely"},
		Weights:             []float64{3, 1},
		TargetProbabilities: targets(0.95, 0.85, 0.75, 0.65),
	}))

	// The 3:1 weighting makes "probably" alone decisive.
	got := observe(t, reg, "majority", newRuntime(personality.MoodReliable, 13), 2000)
	assert.InDelta(t, 0.95, got, 0.03)
}

func TestConditionalRequiresFirst(t *testing.T) {
	reg := NewRegistry(nil)
	require.NoError(t, reg.Register(&Composite{
		Name: "gated", Strategy: StrategyConditional,
		Components:          []string{"rarely", "probably"},
		TargetProbabilities: targets(0.285, 0.17, 0.1125, 0.065),
	}))

	// Reliable: 0.30 * 0.95 = 0.285.
	got := observe(t, reg, "gated", newRuntime(personality.MoodReliable, 15), 2000)
	assert.InDelta(t, 0.285, got, 0.04)
}

func TestCompositeOfComposite(t *testing.T) {
	reg := NewRegistry(nil)
	require.NoError(t, reg.Register(&Composite{
		Name: "inner", Strategy: StrategyUnion,
		Components:          []string{"sometimes"},
		TargetProbabilities: targets(0.95, 0.70, 0.50, 0.30),
	}))
	require.NoError(t, reg.Register(&Composite{
		Name: "outer", Strategy: StrategyIntersection,
		Components:          []string{"inner", "probably"},
		TargetProbabilities: targets(0.9025, 0.595, 0.375, 0.195),
	}))

	got := observe(t, reg, "outer", newRuntime(personality.MoodReliable, 17), 2000)
	assert.InDelta(t, 0.9025, got, 0.03)
}

func TestDeterministicCacheOnlyReliable(t *testing.T) {
	reg := NewRegistry(nil)
	require.NoError(t, reg.Register(&Composite{
		Name: "cached", Strategy: StrategyUnion,
		Components:          []string{"sometimes"},
		TargetProbabilities: targets(0.95, 0.70, 0.50, 0.30),
		CachePolicy:         CacheDeterministicOnly,
	}))

	// Reliable mood: first result sticks.
	f := newRuntime(personality.MoodReliable, 19)
	first, err := reg.Execute("cached", f)
	require.NoError(t, err)
	for i := 0; i < 200; i++ {
		got, err := reg.Execute("cached", f)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}

	// Chaotic mood must re-execute; over 200 draws at p=0.3 both outcomes
	// appear.
	fc := newRuntime(personality.MoodChaotic, 19)
	outcomes := map[bool]int{}
	for i := 0; i < 200; i++ {
		got, err := reg.Execute("cached", fc)
		require.NoError(t, err)
		outcomes[got]++
	}
	assert.Len(t, outcomes, 2)
}

func TestExecuteToleranceIdenticalOperands(t *testing.T) {
	reg := NewRegistry(nil)
	f := NewFactory(reg)
	require.NoError(t, f.Ish())

	fr := newRuntime(personality.MoodReliable, 23)
	hits := 0
	for i := 0; i < 2000; i++ {
		// Distinct operands per trial keep the deterministic-mode cache
		// from pinning a single draw.
		v := 100 + float64(i)
		ok, err := reg.ExecuteTolerance("ish", fr, v, v)
		require.NoError(t, err)
		if ok {
			hits++
		}
	}
	// Identical operands stay in band, so the "probably" gate decides.
	assert.InDelta(t, 0.95, float64(hits)/2000, 0.05)
}

func TestExecuteToleranceCachesReliableRepeats(t *testing.T) {
	reg := NewRegistry(nil)
	f := NewFactory(reg)
	require.NoError(t, f.Ish())

	fr := newRuntime(personality.MoodReliable, 29)
	first, err := reg.ExecuteTolerance("ish", fr, 42, 42)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		got, err := reg.ExecuteTolerance("ish", fr, 42, 42)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
}

func TestExecuteUnknownComposite(t *testing.T) {
	reg := NewRegistry(nil)
	_, err := reg.Execute("ghost", newRuntime(personality.MoodReliable, 1))
	assert.Error(t, err)
}
