package compose

import (
	"fmt"

	"github.com/jihwankim/kinda-lang/pkg/personality"
)

// StatisticalCheck validates a registered composite's observed behavior
// against its declared targets. pkg/validate provides the Monte-Carlo
// implementation; tests may substitute their own.
type StatisticalCheck interface {
	Check(r *Registry, c *Composite, trials int, tolerance float64) error
}

// Registration errors raise to the caller of Register; once startup
// completes they cannot occur at runtime.
var (
	ErrDuplicateName     = fmt.Errorf("composite name already registered")
	ErrUnknownComponent  = fmt.Errorf("component is not a primitive or registered composite")
	ErrMissingTargets    = fmt.Errorf("composite must declare a target probability for every mood")
	ErrStatisticalReject = fmt.Errorf("composite failed statistical validation")
)

const (
	// DefaultTrials is the Monte-Carlo sample size per mood at registration.
	DefaultTrials = 2000
	// DefaultTolerance is the allowed deviation from a target probability.
	DefaultTolerance = 0.1
)

// Registry holds registered composites and the deterministic-mode cache.
// Population happens at startup; runtime registration is permitted but
// requires external serialization if multi-threaded.
type Registry struct {
	byName map[string]*Composite
	order  []string
	cache  map[string]bool

	check StatisticalCheck

	// trials/tolerance configure the registration-time check.
	trials    int
	tolerance float64
}

// NewRegistry creates a composite registry. check may be nil to skip
// statistical validation (tests exercising registration mechanics only).
func NewRegistry(check StatisticalCheck) *Registry {
	return &Registry{
		byName:    make(map[string]*Composite),
		cache:     make(map[string]bool),
		check:     check,
		trials:    DefaultTrials,
		tolerance: DefaultTolerance,
	}
}

// SetValidation overrides the registration-time trial count and tolerance.
func (r *Registry) SetValidation(trials int, tolerance float64) {
	if trials > 0 {
		r.trials = trials
	}
	if tolerance > 0 {
		r.tolerance = tolerance
	}
}

// Register validates and installs a composite. All components must already
// resolve (so cycles cannot form), targets must cover every mood, and the
// statistical check must pass.
func (r *Registry) Register(c *Composite) error {
	if c.Name == "" {
		return fmt.Errorf("composite name is required")
	}
	if _, exists := r.byName[c.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateName, c.Name)
	}
	if c.Strategy != StrategyTolerance && len(c.Components) == 0 {
		return fmt.Errorf("composite %q has no components", c.Name)
	}
	for _, name := range c.Components {
		if name == c.Name {
			return fmt.Errorf("composite %q references itself", c.Name)
		}
		if !IsPrimitive(name) {
			if _, ok := r.byName[name]; !ok {
				return fmt.Errorf("%w: %q in composite %q", ErrUnknownComponent, name, c.Name)
			}
		}
	}
	for _, mood := range personality.Moods {
		if _, ok := c.TargetProbabilities[mood]; !ok {
			return fmt.Errorf("%w: %q missing mood %s", ErrMissingTargets, c.Name, mood)
		}
	}

	// Install before the statistical check so the check can execute the
	// composite; roll back on rejection.
	r.byName[c.Name] = c
	r.order = append(r.order, c.Name)
	if r.check != nil {
		if err := r.check.Check(r, c, r.trials, r.tolerance); err != nil {
			delete(r.byName, c.Name)
			r.order = r.order[:len(r.order)-1]
			return fmt.Errorf("%w: %q: %v", ErrStatisticalReject, c.Name, err)
		}
	}
	return nil
}

// Get returns a registered composite.
func (r *Registry) Get(name string) (*Composite, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// Names returns registered composite names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Components returns the direct component names of a composite, for
// dependency walking.
func (r *Registry) Components(name string) []string {
	if c, ok := r.byName[name]; ok {
		return c.Components
	}
	return nil
}
