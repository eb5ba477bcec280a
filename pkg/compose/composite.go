// Package compose implements the composition framework: higher-level
// constructs defined as combinations of primitive constructs, with
// per-mood bridge corrections to hit declared target probabilities.
package compose

import (
	"fmt"
	"math"
	"strings"

	"github.com/jihwankim/kinda-lang/pkg/personality"
	"github.com/jihwankim/kinda-lang/pkg/runtime"
)

// Strategy is how a composite combines its component outcomes.
type Strategy string

const (
	StrategyUnion        Strategy = "union"
	StrategyIntersection Strategy = "intersection"
	StrategyThreshold    Strategy = "threshold"
	StrategySequential   Strategy = "sequential"
	StrategyWeighted     Strategy = "weighted"
	StrategyConditional  Strategy = "conditional"
	StrategyTolerance    Strategy = "tolerance"
)

// CachePolicy restricts memoization so probabilistic behavior is
// preserved: results may be cached only under deterministic-only policy
// with a reliable mood.
type CachePolicy string

const (
	CacheNone              CachePolicy = "none"
	CacheDeterministicOnly CachePolicy = "deterministic_only"
)

// Composite is a dynamically registered construct built from primitives.
type Composite struct {
	Name       string
	Strategy   Strategy
	Components []string

	// Bridges are additive corrections applied when the natural
	// composition misses the intended target for a mood.
	Bridges map[personality.Mood]float64

	// TargetProbabilities declare intent per mood; statistical validation
	// checks observed rates against them.
	TargetProbabilities map[personality.Mood]float64

	// Threshold is the k for StrategyThreshold.
	Threshold int

	// Weights parallel Components for StrategyWeighted.
	Weights []float64

	// Tolerance is the relative band for StrategyTolerance.
	Tolerance float64

	CachePolicy CachePolicy
}

// primitives maps primitive component names to their runtime gates.
var primitives = map[string]func(*runtime.Fuzzy) bool{
	"sometimes": func(f *runtime.Fuzzy) bool { return f.Sometimes(true) },
	"maybe":     func(f *runtime.Fuzzy) bool { return f.Maybe(true) },
	"rarely":    func(f *runtime.Fuzzy) bool { return f.Rarely(true) },
	"probably":  func(f *runtime.Fuzzy) bool { return f.Probably(true) },
}

// IsPrimitive reports whether name resolves to a primitive gate.
func IsPrimitive(name string) bool {
	_, ok := primitives[name]
	return ok
}

// evalComponent evaluates one component: a primitive gate or an earlier
// registered composite.
func (r *Registry) evalComponent(name string, f *runtime.Fuzzy) (bool, error) {
	if gate, ok := primitives[name]; ok {
		return gate(f), nil
	}
	if c, ok := r.byName[name]; ok {
		return r.execute(c, f)
	}
	return false, fmt.Errorf("unknown component %q", name)
}

// execute runs a composite's strategy over its components.
func (r *Registry) execute(c *Composite, f *runtime.Fuzzy) (bool, error) {
	switch c.Strategy {
	case StrategyUnion:
		hit := false
		for _, name := range c.Components {
			ok, err := r.evalComponent(name, f)
			if err != nil {
				return false, err
			}
			hit = hit || ok
		}
		if !hit {
			// All components missed; the bridge roll can still flip to
			// true so the mood's target probability is reachable.
			if bridge := c.Bridges[f.Personality().Mood()]; bridge > 0 {
				hit = f.Personality().Random() < bridge
			}
		}
		return hit, nil

	case StrategyIntersection:
		for _, name := range c.Components {
			ok, err := r.evalComponent(name, f)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil

	case StrategyThreshold:
		hits := 0
		for _, name := range c.Components {
			ok, err := r.evalComponent(name, f)
			if err != nil {
				return false, err
			}
			if ok {
				hits++
			}
		}
		return hits >= c.Threshold, nil

	case StrategySequential:
		// Components run in order; the first success short-circuits the
		// rest, a full miss is a composite miss.
		for _, name := range c.Components {
			ok, err := r.evalComponent(name, f)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil

	case StrategyWeighted:
		if len(c.Weights) != len(c.Components) {
			return false, fmt.Errorf("composite %q: %d weights for %d components", c.Name, len(c.Weights), len(c.Components))
		}
		var total, hit float64
		for i, name := range c.Components {
			ok, err := r.evalComponent(name, f)
			if err != nil {
				return false, err
			}
			total += c.Weights[i]
			if ok {
				hit += c.Weights[i]
			}
		}
		if total == 0 {
			return false, nil
		}
		return hit/total >= 0.5, nil

	case StrategyConditional:
		if len(c.Components) != 2 {
			return false, fmt.Errorf("composite %q: conditional needs exactly 2 components", c.Name)
		}
		first, err := r.evalComponent(c.Components[0], f)
		if err != nil {
			return false, err
		}
		if !first {
			return false, nil
		}
		return r.evalComponent(c.Components[1], f)

	case StrategyTolerance:
		return false, fmt.Errorf("composite %q: tolerance strategy requires numeric arguments, use ExecuteTolerance", c.Name)

	default:
		return false, fmt.Errorf("composite %q: unknown strategy %q", c.Name, c.Strategy)
	}
}

// Execute evaluates the named composite once. Results are cached only
// under deterministic-only policy with a reliable mood.
func (r *Registry) Execute(name string, f *runtime.Fuzzy) (bool, error) {
	c, ok := r.byName[name]
	if !ok {
		return false, fmt.Errorf("composite %q not registered", name)
	}
	cacheable := c.CachePolicy == CacheDeterministicOnly && f.Personality().Mood() == personality.MoodReliable
	key := cacheKey(c.Name)
	if cacheable {
		if v, hit := r.cache[key]; hit {
			return v, nil
		}
	}
	v, err := r.execute(c, f)
	if err != nil {
		return false, err
	}
	if cacheable {
		r.cache[key] = v
	}
	return v, nil
}

// ExecuteTolerance evaluates a tolerance composite over two numeric
// arguments: fuzzed operands inside a relative band, gated by "probably".
// This is the numeric composition ~ish is built from.
func (r *Registry) ExecuteTolerance(name string, f *runtime.Fuzzy, a, b float64) (bool, error) {
	c, ok := r.byName[name]
	if !ok {
		return false, fmt.Errorf("composite %q not registered", name)
	}
	if c.Strategy != StrategyTolerance {
		return false, fmt.Errorf("composite %q is %s, not tolerance", name, c.Strategy)
	}
	tol := c.Tolerance
	if tol <= 0 {
		tol = 0.1
	}
	cacheable := c.CachePolicy == CacheDeterministicOnly && f.Personality().Mood() == personality.MoodReliable
	key := cacheKey(c.Name, a, b)
	if cacheable {
		if v, hit := r.cache[key]; hit {
			return v, nil
		}
	}
	within := math.Abs(f.KindaFloat(a)-f.KindaFloat(b)) <= math.Abs(a)*tol
	v := within && f.Probably(true)
	if cacheable {
		r.cache[key] = v
	}
	return v, nil
}

// cacheKey canonicalizes a composite name plus arguments.
func cacheKey(name string, args ...interface{}) string {
	var sb strings.Builder
	sb.WriteString(name)
	for _, a := range args {
		fmt.Fprintf(&sb, "|%v", a)
	}
	return sb.String()
}
