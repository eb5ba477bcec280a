// Package construct defines the static catalog of kinda constructs: the
// regex each one is recognized by, the host code it emits, the runtime
// helpers it requires, and the Python source of those helpers.
package construct

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/jihwankim/kinda-lang/pkg/personality"
)

// Kind classifies how a construct is matched and emitted.
type Kind string

const (
	KindExpression   Kind = "expression"
	KindDeclaration  Kind = "declaration"
	KindStatement    Kind = "statement"
	KindPrint        Kind = "print"
	KindBlockOpener  Kind = "block_opener"
	KindBlockControl Kind = "block_control"
)

// matchPriority orders whole-line matching: block openers first, then
// declarations, prints, expressions, statements.
var matchPriority = map[Kind]int{
	KindBlockOpener:  0,
	KindBlockControl: 1,
	KindDeclaration:  2,
	KindPrint:        3,
	KindExpression:   4,
	KindStatement:    5,
}

// BlockClose describes how a block opener's body is terminated.
type BlockClose int

const (
	// CloseNone marks non-block constructs.
	CloseNone BlockClose = iota
	// CloseBrace blocks end with a bare "}" line.
	CloseBrace
	// CloseDedent blocks end when indentation returns to the opener's level.
	CloseDedent
)

// Descriptor is an immutable construct definition, registered at startup.
type Descriptor struct {
	// Name is the unique construct key, e.g. "sorta_print".
	Name string

	Kind Kind

	// Pattern matches a full source line (sans indentation). Capture
	// groups carry the pieces Expand consumes.
	Pattern *regexp.Regexp

	// Expand produces the emitted host lines (unindented) from the
	// pattern's capture groups. groups[0] is the full match.
	Expand func(groups []string) []string

	// Helpers are the runtime function names the emitted code references.
	Helpers []string

	// Dependencies are other construct names this one requires.
	Dependencies []string

	// BaseProbabilities mirrors the personality table row, where applicable.
	BaseProbabilities map[personality.Mood]float64

	// Close is how the block body terminates; CloseNone for non-blocks.
	Close BlockClose
}

// Registry is the startup-populated, read-only construct catalog.
type Registry struct {
	byName  map[string]*Descriptor
	ordered []*Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Descriptor)}
}

// Register adds a descriptor. Duplicate names and unresolvable
// dependencies are registration errors; they cannot occur at runtime once
// startup completes.
func (r *Registry) Register(d *Descriptor) error {
	if d.Name == "" {
		return fmt.Errorf("construct name is required")
	}
	if _, exists := r.byName[d.Name]; exists {
		return fmt.Errorf("construct %q already registered", d.Name)
	}
	for _, dep := range d.Dependencies {
		if _, ok := r.byName[dep]; !ok {
			return fmt.Errorf("construct %q depends on unregistered %q", d.Name, dep)
		}
	}
	r.byName[d.Name] = d
	r.ordered = append(r.ordered, d)
	sort.SliceStable(r.ordered, func(i, j int) bool {
		return matchPriority[r.ordered[i].Kind] < matchPriority[r.ordered[j].Kind]
	})
	return nil
}

// Get returns the descriptor for name.
func (r *Registry) Get(name string) (*Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// ByPriority returns all descriptors in whole-line matching order.
func (r *Registry) ByPriority() []*Descriptor {
	out := make([]*Descriptor, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Names returns all registered construct names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
