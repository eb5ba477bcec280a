package construct

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jihwankim/kinda-lang/pkg/personality"
)

func TestBuiltinRegistryIntegrity(t *testing.T) {
	r := Builtin()

	seen := map[string]bool{}
	for _, d := range r.ByPriority() {
		require.NotEmpty(t, d.Name)
		assert.False(t, seen[d.Name], "duplicate construct %s", d.Name)
		seen[d.Name] = true

		require.NotNil(t, d.Pattern, "%s has no pattern", d.Name)
		require.NotNil(t, d.Expand, "%s has no emitter", d.Name)

		// Every referenced helper must have a runtime body to emit.
		for _, h := range d.Helpers {
			_, ok := RuntimeBody(h)
			assert.True(t, ok, "helper %s of %s has no runtime body", h, d.Name)
		}
		for _, dep := range d.Dependencies {
			_, ok := r.Get(dep)
			assert.True(t, ok, "dependency %s of %s unresolved", dep, d.Name)
		}
	}
}

func TestBuiltinPriorityOrder(t *testing.T) {
	r := Builtin()
	order := r.ByPriority()

	lastPriority := -1
	for _, d := range order {
		p := matchPriority[d.Kind]
		assert.GreaterOrEqual(t, p, lastPriority, "construct %s out of order", d.Name)
		lastPriority = p
	}
	assert.Equal(t, KindBlockOpener, order[0].Kind)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	d := &Descriptor{Name: "x", Kind: KindStatement, Pattern: regexp.MustCompile(`^x$`),
		Expand: func(g []string) []string { return g }}
	require.NoError(t, r.Register(d))
	assert.Error(t, r.Register(d))
}

func TestRegisterRejectsUnknownDependency(t *testing.T) {
	r := NewRegistry()
	d := &Descriptor{Name: "y", Kind: KindStatement, Pattern: regexp.MustCompile(`^y$`),
		Expand:       func(g []string) []string { return g },
		Dependencies: []string{"missing"}}
	assert.Error(t, r.Register(d))
}

func TestPatternsMatchCanonicalForms(t *testing.T) {
	r := Builtin()
	cases := []struct {
		construct string
		line      string
	}{
		{"sometimes", "~sometimes (x > 3) {"},
		{"sometimes", "~sometimes () {"},
		{"maybe", "~maybe (flag) {"},
		{"rarely", "~rarely () {"},
		{"probably", "~probably (ok) {"},
		{"sometimes_while", "~sometimes_while x < 10:"},
		{"maybe_for", "~maybe_for item in xs:"},
		{"kinda_repeat", "~kinda_repeat(5):"},
		{"eventually_until", "~eventually_until done():"},
		{"kinda_int", "~kinda int x = 5"},
		{"kinda_float", "~kinda float f = 2.5"},
		{"kinda_bool", "~kinda bool b = True"},
		{"sorta_print", "~sorta print(x, y)"},
	}
	for _, tc := range cases {
		d, ok := r.Get(tc.construct)
		require.True(t, ok, tc.construct)
		assert.True(t, d.Pattern.MatchString(tc.line), "%s should match %q", tc.construct, tc.line)
	}
}

func TestPatternsRejectNonConstructLines(t *testing.T) {
	r := Builtin()
	hostLines := []string{
		"x = 5",
		"print('hello')",
		"def f(): pass",
		"# ~sometimes in a comment is not a construct marker",
	}
	for _, line := range hostLines {
		for _, d := range r.ByPriority() {
			if d.Kind == KindExpression {
				continue
			}
			assert.False(t, d.Pattern.MatchString(line), "%s should not match %q", d.Name, line)
		}
	}
}

func TestBaseProbabilitiesMatchPersonalityTable(t *testing.T) {
	r := Builtin()
	for _, name := range []string{"sometimes", "maybe", "rarely", "probably"} {
		d, ok := r.Get(name)
		require.True(t, ok)
		for mood, want := range d.BaseProbabilities {
			assert.InDelta(t, want, personality.BaseProbability(name, mood), 1e-9,
				"%s/%s", name, mood)
		}
	}
}

func TestHelperClosure(t *testing.T) {
	closure := HelperClosure([]string{"ish_comparison"})
	assert.Contains(t, closure, "ish_comparison")
	assert.Contains(t, closure, "kinda_float")

	closure = HelperClosure([]string{"sometimes_while"})
	assert.Contains(t, closure, "sometimes")
}

func TestRuntimeBodiesDefineTheirHelper(t *testing.T) {
	for _, h := range HelperNames() {
		body, ok := RuntimeBody(h)
		require.True(t, ok)
		assert.Contains(t, body, "def "+h+"(", "body of %s must define it", h)
	}
}
