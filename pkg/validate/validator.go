// Package validate is the runtime safety net for the composition
// framework: dependency resolution, cycle detection, Monte-Carlo checks of
// declared target probabilities, and performance baselines.
package validate

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/jihwankim/kinda-lang/pkg/compose"
	"github.com/jihwankim/kinda-lang/pkg/personality"
	"github.com/jihwankim/kinda-lang/pkg/reporting"
	"github.com/jihwankim/kinda-lang/pkg/runtime"
)

// Validator checks composites against a registry. Monte-Carlo runs use
// their own child personalities so validation never disturbs the process
// singleton's instability counters.
type Validator struct {
	// Seed makes Monte-Carlo runs reproducible; 0 auto-seeds.
	Seed int64

	logger *reporting.Logger
}

// New creates a validator.
func New() *Validator {
	return &Validator{logger: reporting.Discard()}
}

// SetLogger routes validation progress to a logger.
func (v *Validator) SetLogger(logger *reporting.Logger) {
	if logger != nil {
		v.logger = logger
	}
}

// ValidateDependencies walks the transitive component graph of a
// composite and reports whether every name resolves to a primitive or a
// registered composite.
func (v *Validator) ValidateDependencies(reg *compose.Registry, c *compose.Composite) bool {
	seen := map[string]bool{}
	var walk func(names []string) bool
	walk = func(names []string) bool {
		for _, name := range names {
			if seen[name] {
				continue
			}
			seen[name] = true
			if compose.IsPrimitive(name) {
				continue
			}
			if _, ok := reg.Get(name); !ok {
				return false
			}
			if !walk(reg.Components(name)) {
				return false
			}
		}
		return true
	}
	return walk(c.Components)
}

// DetectCycles reports every cycle reachable from the composite's
// components as a chain of names. Registration requires an empty result.
func (v *Validator) DetectCycles(reg *compose.Registry, c *compose.Composite) [][]string {
	var cycles [][]string
	onPath := map[string]bool{}
	var path []string

	var walk func(name string)
	walk = func(name string) {
		if compose.IsPrimitive(name) {
			return
		}
		if onPath[name] {
			// Capture the chain from the first occurrence to here.
			start := 0
			for i, n := range path {
				if n == name {
					start = i
					break
				}
			}
			chain := append(append([]string{}, path[start:]...), name)
			cycles = append(cycles, chain)
			return
		}
		onPath[name] = true
		path = append(path, name)
		for _, dep := range reg.Components(name) {
			walk(dep)
		}
		path = path[:len(path)-1]
		onPath[name] = false
	}

	onPath[c.Name] = true
	path = append(path, c.Name)
	for _, dep := range c.Components {
		walk(dep)
	}
	return cycles
}

// MonteCarloResult summarizes an observed success rate with a 95%
// normal-approximation confidence interval.
type MonteCarloResult struct {
	Observed float64
	CILower  float64
	CIUpper  float64
	Trials   int
}

// MonteCarlo executes a composite `trials` times under the given mood at
// neutral chaos level and returns the observed success rate.
func (v *Validator) MonteCarlo(reg *compose.Registry, name string, mood personality.Mood, trials int) (MonteCarloResult, error) {
	if trials <= 0 {
		trials = compose.DefaultTrials
	}
	seed := v.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	p := personality.New(mood, 5, seed)
	f := runtime.New(p)

	hits := 0
	for i := 0; i < trials; i++ {
		ok, err := reg.Execute(name, f)
		if err != nil {
			return MonteCarloResult{}, err
		}
		if ok {
			hits++
		}
	}
	observed := float64(hits) / float64(trials)
	half := 1.96 * math.Sqrt(observed*(1-observed)/float64(trials))
	v.logger.Debug("Monte-Carlo pass complete",
		"composite", name, "mood", string(mood), "trials", trials, "observed", observed)
	return MonteCarloResult{
		Observed: observed,
		CILower:  math.Max(0, observed-half),
		CIUpper:  math.Min(1, observed+half),
		Trials:   trials,
	}, nil
}

// Check implements compose.StatisticalCheck: dependencies, cycles, then a
// Monte-Carlo pass per mood against the declared targets. Tolerance
// composites are numeric and carry no single success rate; their behavior
// is covered by the ish runtime contract instead.
func (v *Validator) Check(reg *compose.Registry, c *compose.Composite, trials int, tolerance float64) error {
	if !v.ValidateDependencies(reg, c) {
		return fmt.Errorf("unresolved dependency in composite %q", c.Name)
	}
	if cycles := v.DetectCycles(reg, c); len(cycles) > 0 {
		return fmt.Errorf("dependency cycle in composite %q: %v", c.Name, cycles[0])
	}
	if c.Strategy == compose.StrategyTolerance {
		return nil
	}
	for _, mood := range personality.Moods {
		target := c.TargetProbabilities[mood]
		res, err := v.MonteCarlo(reg, c.Name, mood, trials)
		if err != nil {
			return err
		}
		if math.Abs(res.Observed-target) > tolerance {
			return fmt.Errorf("mood %s: observed %.3f deviates from target %.3f by more than %.2f",
				mood, res.Observed, target, tolerance)
		}
	}
	v.logger.Info("Composite validated", "composite", c.Name, "trials", trials)
	return nil
}

// Baseline summarizes timing over repeated invocations of a function.
type Baseline struct {
	Mean time.Duration
	P95  time.Duration
}

// PerformanceBaseline times fn over the given iterations and reports mean
// and p95 latency.
func (v *Validator) PerformanceBaseline(fn func(), iterations int) Baseline {
	if iterations <= 0 {
		iterations = 100
	}
	samples := make([]time.Duration, iterations)
	for i := range samples {
		start := time.Now()
		fn()
		samples[i] = time.Since(start)
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	var total time.Duration
	for _, s := range samples {
		total += s
	}
	idx := (iterations * 95) / 100
	if idx >= iterations {
		idx = iterations - 1
	}
	return Baseline{
		Mean: total / time.Duration(iterations),
		P95:  samples[idx],
	}
}
