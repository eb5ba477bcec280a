package construct

import (
	"fmt"
	"regexp"

	"github.com/jihwankim/kinda-lang/pkg/personality"
)

// moodRow builds a probability row in table order.
func moodRow(reliable, cautious, playful, chaotic float64) map[personality.Mood]float64 {
	return map[personality.Mood]float64{
		personality.MoodReliable: reliable,
		personality.MoodCautious: cautious,
		personality.MoodPlayful:  playful,
		personality.MoodChaotic:  chaotic,
	}
}

// orTrue substitutes "True" for an empty condition capture.
func orTrue(cond string) string {
	if cond == "" {
		return "True"
	}
	return cond
}

// conditionalBlock builds a brace-closed probabilistic if-block descriptor
// (~sometimes, ~maybe, ~rarely, ~probably share the shape).
func conditionalBlock(name string, probs map[personality.Mood]float64) *Descriptor {
	return &Descriptor{
		Name:    name,
		Kind:    KindBlockOpener,
		Pattern: regexp.MustCompile(`^~` + name + `\s*\(\s*(.*?)\s*\)\s*\{$`),
		Expand: func(groups []string) []string {
			return []string{fmt.Sprintf("if %s(%s):", name, orTrue(groups[1]))}
		},
		Helpers:           []string{name},
		BaseProbabilities: probs,
		Close:             CloseBrace,
	}
}

// kindaDeclaration builds a fuzzy declaration descriptor for one host type.
func kindaDeclaration(name, hostType, helper string) *Descriptor {
	return &Descriptor{
		Name:    name,
		Kind:    KindDeclaration,
		Pattern: regexp.MustCompile(`^~kinda\s+` + hostType + `\s+([A-Za-z_][A-Za-z0-9_]*)\s*=\s*(.+)$`),
		Expand: func(groups []string) []string {
			return []string{fmt.Sprintf("%s = %s(%s)", groups[1], helper, groups[2])}
		},
		Helpers: []string{helper},
	}
}

// Builtin returns a registry populated with every primitive construct.
// Registration order respects dependencies; any error here is a programming
// bug, so it panics at startup.
func Builtin() *Registry {
	r := NewRegistry()

	descriptors := []*Descriptor{
		conditionalBlock("sometimes", moodRow(0.95, 0.70, 0.50, 0.30)),
		conditionalBlock("maybe", moodRow(0.95, 0.75, 0.60, 0.40)),
		conditionalBlock("rarely", moodRow(0.30, 0.20, 0.15, 0.10)),
		conditionalBlock("probably", moodRow(0.95, 0.85, 0.75, 0.65)),

		{
			Name:    "sometimes_while",
			Kind:    KindBlockOpener,
			Pattern: regexp.MustCompile(`^~sometimes_while\s+(.+?)\s*:$`),
			Expand: func(groups []string) []string {
				return []string{fmt.Sprintf("while (%s) and sometimes(True):", groups[1])}
			},
			Helpers:      []string{"sometimes"},
			Dependencies: []string{"sometimes"},
			Close:        CloseDedent,
		},
		{
			Name:    "maybe_for",
			Kind:    KindBlockOpener,
			Pattern: regexp.MustCompile(`^~maybe_for\s+([A-Za-z_][A-Za-z0-9_]*)\s+in\s+(.+?)\s*:$`),
			Expand: func(groups []string) []string {
				return []string{
					fmt.Sprintf("for %s in %s:", groups[1], groups[2]),
					"    if not maybe(True): continue",
				}
			},
			Helpers:      []string{"maybe"},
			Dependencies: []string{"maybe"},
			Close:        CloseDedent,
		},
		{
			Name:    "kinda_repeat",
			Kind:    KindBlockOpener,
			Pattern: regexp.MustCompile(`^~kinda_repeat\s*\(\s*(.+?)\s*\)\s*:$`),
			Expand: func(groups []string) []string {
				return []string{fmt.Sprintf("for _ in range(kinda_repeat_count(%s)):", groups[1])}
			},
			Helpers: []string{"kinda_repeat_count"},
			Close:   CloseDedent,
		},
		{
			Name:    "eventually_until",
			Kind:    KindBlockOpener,
			Pattern: regexp.MustCompile(`^~eventually_until\s+(.+?)\s*:$`),
			Expand: func(groups []string) []string {
				return []string{fmt.Sprintf("for _ in eventually_until(lambda: (%s)):", groups[1])}
			},
			Helpers: []string{"eventually_until"},
			Close:   CloseDedent,
		},

		kindaDeclaration("kinda_int", "int", "kinda_int"),
		kindaDeclaration("kinda_float", "float", "kinda_float"),
		kindaDeclaration("kinda_bool", "bool", "kinda_bool"),

		{
			Name:    "sorta_print",
			Kind:    KindPrint,
			Pattern: regexp.MustCompile(`^~sorta\s+print\s*\((.*)\)$`),
			Expand: func(groups []string) []string {
				return []string{fmt.Sprintf("sorta_print(%s)", groups[1])}
			},
			Helpers:           []string{"sorta_print"},
			BaseProbabilities: moodRow(0.95, 0.85, 0.80, 0.60),
		},

		// Inline expression forms. The transformer skips these during
		// whole-line matching and rewrites them inside lines with its own
		// regexes; Expand gives the standalone rewrite of a matched form.
		{
			Name:    "welp",
			Kind:    KindExpression,
			Pattern: regexp.MustCompile(`^(.+?)\s+~welp\s+(.+)$`),
			Expand: func(groups []string) []string {
				return []string{fmt.Sprintf("welp(lambda: %s, %s)", groups[1], groups[2])}
			},
			Helpers: []string{"welp"},
		},
		{
			Name:    "ish_comparison",
			Kind:    KindExpression,
			Pattern: regexp.MustCompile(`^(\S.*?)\s+~ish\s+(.+)$`),
			Expand: func(groups []string) []string {
				return []string{fmt.Sprintf("ish_comparison(%s, %s)", groups[1], groups[2])}
			},
			Helpers:           []string{"ish_comparison"},
			BaseProbabilities: moodRow(0.90, 0.85, 0.80, 0.75),
		},
		{
			Name:    "ish_value",
			Kind:    KindExpression,
			Pattern: regexp.MustCompile(`=\s*~ish\s+(.+)$`),
			Expand: func(groups []string) []string {
				return []string{fmt.Sprintf("= ish_value(%s)", groups[1])}
			},
			Helpers: []string{"ish_value"},
		},
	}

	for _, d := range descriptors {
		if err := r.Register(d); err != nil {
			panic(fmt.Sprintf("builtin construct registration: %v", err))
		}
	}
	return r
}
