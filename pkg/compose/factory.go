package compose

import "github.com/jihwankim/kinda-lang/pkg/personality"

// Factory builds the standard composites on a registry. The declared
// targets match the personality probability table; bridges add a
// correction roll for the moods that declare one.
type Factory struct {
	reg *Registry
}

// NewFactory wraps a registry.
func NewFactory(reg *Registry) *Factory {
	return &Factory{reg: reg}
}

// Sorta registers ~sorta as the union of sometimes and maybe. The raw
// union lands at 0.80 in playful (on the sorta_print target) and 0.58 in
// chaotic (below it); both moods carry a 0.20 bridge roll.
func (f *Factory) Sorta() error {
	return f.reg.Register(&Composite{
		Name:       "sorta",
		Strategy:   StrategyUnion,
		Components: []string{"sometimes", "maybe"},
		Bridges: map[personality.Mood]float64{
			personality.MoodPlayful: 0.20,
			personality.MoodChaotic: 0.20,
		},
		TargetProbabilities: map[personality.Mood]float64{
			personality.MoodReliable: 0.95,
			personality.MoodCautious: 0.85,
			personality.MoodPlayful:  0.80,
			personality.MoodChaotic:  0.60,
		},
		CachePolicy: CacheNone,
	})
}

// Ish registers ~ish as a tolerance composite over kinda_float and
// probably, with the relative 0.1 band.
func (f *Factory) Ish() error {
	return f.reg.Register(&Composite{
		Name:      "ish",
		Strategy:  StrategyTolerance,
		Tolerance: 0.1,
		TargetProbabilities: map[personality.Mood]float64{
			personality.MoodReliable: 0.90,
			personality.MoodCautious: 0.85,
			personality.MoodPlayful:  0.80,
			personality.MoodChaotic:  0.75,
		},
		CachePolicy: CacheDeterministicOnly,
	})
}

// RegisterStandard installs every built-in composite.
func (f *Factory) RegisterStandard() error {
	if err := f.Sorta(); err != nil {
		return err
	}
	return f.Ish()
}
