package construct

// Python source for the emitted runtime module. Each helper body is kept
// with the catalog so "used constructs" drives runtime emission: the
// generated kinda/runtime.py contains the preamble plus exactly the used
// helpers and their transitive helper dependencies.

// RuntimePreamble is the shared header of every generated runtime module:
// the personality state mirror, seeded from the KINDA_* environment.
const RuntimePreamble = `import os
import random

_PROBS = {
    "sometimes":   {"reliable": 0.95, "cautious": 0.70, "playful": 0.50, "chaotic": 0.30},
    "maybe":       {"reliable": 0.95, "cautious": 0.75, "playful": 0.60, "chaotic": 0.40},
    "rarely":      {"reliable": 0.30, "cautious": 0.20, "playful": 0.15, "chaotic": 0.10},
    "probably":    {"reliable": 0.95, "cautious": 0.85, "playful": 0.75, "chaotic": 0.65},
    "sorta_print": {"reliable": 0.95, "cautious": 0.85, "playful": 0.80, "chaotic": 0.60},
    "ish_true":    {"reliable": 0.90, "cautious": 0.85, "playful": 0.80, "chaotic": 0.75},
}

_FLOAT_SIGMA = {"reliable": 0.01, "cautious": 0.05, "playful": 0.08, "chaotic": 0.15}
_BOOL_FLIP = {"reliable": 0.02, "cautious": 0.05, "playful": 0.08, "chaotic": 0.15}
_REPEAT_SPREAD = {"reliable": 0.0, "cautious": 0.1, "playful": 0.2, "chaotic": 0.3}
_INT_DELTA = {"reliable": 0.05, "cautious": 0.20, "playful": 0.35, "chaotic": 0.65}

_SHRUGS = ["[shrug] not feeling it", "[shrug] maybe later", "[shrug] meh", "[shrug] nope"]


class _Personality:
    def __init__(self):
        self.mood = os.environ.get("KINDA_MOOD", "playful")
        try:
            self.chaos_level = int(os.environ.get("KINDA_CHAOS_LEVEL", "5"))
        except ValueError:
            self.chaos_level = 5
        self.chaos_level = min(10, max(1, self.chaos_level))
        seed = os.environ.get("KINDA_SEED")
        self.rng = random.Random(int(seed)) if seed else random.Random()
        self.instability = 0.0
        self.cascade_depth = 0

    def probability(self, construct):
        p = _PROBS.get(construct, {}).get(self.mood, 0.5)
        scale = min(1.0, max(0.05, self.chaos_level / 5.0))
        p = p * scale / (1 + self.cascade_depth)
        return min(1.0, max(0.05, p))

    def update_chaos_state(self, failed):
        if failed:
            self.instability = min(1.0, self.instability + 0.02)
        else:
            self.instability = max(0.0, self.instability - 0.01)


_state = _Personality()


def _gate(construct, cond):
    try:
        ok = bool(cond)
    except Exception:
        _state.update_chaos_state(True)
        return False
    hit = ok and _state.rng.random() < _state.probability(construct)
    _state.update_chaos_state(not ok)
    return hit
`

// runtimeBodies maps helper name to its Python definition. Bodies only
// reference the preamble and helpers listed in helperDeps.
var runtimeBodies = map[string]string{
	"sometimes": `def sometimes(cond=True):
    return _gate("sometimes", cond)
`,
	"maybe": `def maybe(cond=True):
    return _gate("maybe", cond)
`,
	"rarely": `def rarely(cond=True):
    return _gate("rarely", cond)
`,
	"probably": `def probably(cond=True):
    return _gate("probably", cond)
`,
	"kinda_int": `def kinda_int(value):
    try:
        base = round(float(value))
    except Exception:
        _state.update_chaos_state(True)
        return 0
    delta = 0
    if _state.rng.random() < _INT_DELTA.get(_state.mood, 0.35):
        delta = _state.rng.choice([-1, 1])
    _state.update_chaos_state(False)
    return int(base) + delta
`,
	"kinda_float": `def kinda_float(value):
    try:
        v = float(value)
    except Exception:
        _state.update_chaos_state(True)
        return 0.0
    sigma = _FLOAT_SIGMA.get(_state.mood, 0.08)
    eps = _state.rng.gauss(0.0, sigma)
    eps = min(3 * sigma, max(-3 * sigma, eps))
    _state.update_chaos_state(False)
    return v * (1.0 + eps)
`,
	"kinda_bool": `def kinda_bool(value):
    try:
        v = bool(value)
    except Exception:
        _state.update_chaos_state(True)
        return False
    if _state.rng.random() < _BOOL_FLIP.get(_state.mood, 0.08):
        v = not v
    _state.update_chaos_state(False)
    return v
`,
	"sorta_print": `def sorta_print(*args):
    if _state.rng.random() < _state.probability("sorta_print"):
        print("[print]", *args)
    else:
        print(_state.rng.choice(_SHRUGS))
    _state.update_chaos_state(False)
`,
	"ish_comparison": `def ish_comparison(a, b, tolerance=0.1):
    fa = kinda_float(a)
    fb = kinda_float(b)
    try:
        band = abs(kinda_float(abs(float(a)) * tolerance))
    except Exception:
        _state.update_chaos_state(True)
        return False
    within = abs(fa - fb) <= band
    p = _state.probability("ish_true")
    _state.update_chaos_state(False)
    if within:
        return _state.rng.random() < p
    return _state.rng.random() < (1.0 - p)
`,
	"ish_value": `def ish_value(v, tolerance=0.1):
    fv = kinda_float(v)
    sign = 1.0 if _state.rng.random() < 0.5 else -1.0
    eps = _state.rng.random()
    _state.update_chaos_state(False)
    return fv * (1.0 + sign * tolerance * eps)
`,
	"kinda_repeat_count": `def kinda_repeat_count(n):
    try:
        base = int(n)
    except Exception:
        _state.update_chaos_state(True)
        return 0
    spread = int(_REPEAT_SPREAD.get(_state.mood, 0.2) * base)
    delta = _state.rng.randint(-spread, spread) if spread > 0 else 0
    _state.update_chaos_state(False)
    return max(0, base + delta)
`,
	"sometimes_while": `def sometimes_while(cond_fn):
    i = 0
    while i < 1000000:
        try:
            ok = bool(cond_fn())
        except Exception:
            _state.update_chaos_state(True)
            return
        if not ok or not sometimes(True):
            return
        yield i
        i += 1
    _state.update_chaos_state(True)
`,
	"maybe_for": `def maybe_for(iterable):
    for item in iterable:
        if maybe(True):
            yield item
`,
	"eventually_until": `def eventually_until(cond_fn, confidence=0.95, window=20, max_iter=10000):
    history = []
    for i in range(max_iter):
        try:
            ok = bool(cond_fn())
        except Exception:
            _state.update_chaos_state(True)
            ok = False
        history.append(ok)
        if len(history) > window:
            history.pop(0)
        if len(history) == window and sum(history) / window >= confidence:
            _state.update_chaos_state(False)
            return
        yield i
    _state.update_chaos_state(True)
`,
	"welp": `def welp(thunk, fallback):
    try:
        result = thunk()
    except Exception:
        _state.update_chaos_state(True)
        return fallback
    if result is None:
        _state.update_chaos_state(True)
        return fallback
    _state.update_chaos_state(False)
    return result
`,
}

// helperDeps lists helper-to-helper dependencies inside the Python bodies.
var helperDeps = map[string][]string{
	"ish_comparison":   {"kinda_float"},
	"ish_value":        {"kinda_float"},
	"sometimes_while":  {"sometimes"},
	"maybe_for":        {"maybe"},
	"eventually_until": {},
}

// RuntimeBody returns the Python definition of a helper.
func RuntimeBody(helper string) (string, bool) {
	b, ok := runtimeBodies[helper]
	return b, ok
}

// HelperNames returns every helper with a runtime body.
func HelperNames() []string {
	names := make([]string, 0, len(runtimeBodies))
	for n := range runtimeBodies {
		names = append(names, n)
	}
	return names
}

// HelperClosure expands a helper set to include transitive body
// dependencies, so the emitted runtime module is self-contained.
func HelperClosure(helpers []string) []string {
	seen := make(map[string]bool)
	var walk func(string)
	walk = func(h string) {
		if seen[h] {
			return
		}
		seen[h] = true
		for _, dep := range helperDeps[h] {
			walk(dep)
		}
	}
	for _, h := range helpers {
		walk(h)
	}
	out := make([]string, 0, len(seen))
	for h := range seen {
		out = append(out, h)
	}
	return out
}
