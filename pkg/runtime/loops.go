package runtime

// Loop-shaped helpers. The iterator contracts are expressed as callback
// drivers: the helper owns the termination decision and the hard iteration
// cap, the caller supplies condition and body.

// Hard caps. Loops may look long-running to callers but always terminate.
const (
	sometimesWhileCap      = 1_000_000
	eventuallyUntilDefault = 10_000
)

// SometimesWhile runs body while cond holds and the "sometimes" gate keeps
// firing, up to the hard cap. It returns the number of iterations run.
func (f *Fuzzy) SometimesWhile(cond func() bool, body func()) int {
	n := 0
	for n < sometimesWhileCap {
		if !safeCond(f, cond) || !f.Sometimes(true) {
			return n
		}
		body()
		n++
	}
	f.record("sometimes_while", true)
	return n
}

// MaybeFor runs body for each item that passes the per-iteration "maybe"
// gate and returns the selected items.
func MaybeFor[T any](f *Fuzzy, items []T, body func(T)) []T {
	selected := make([]T, 0, len(items))
	for _, item := range items {
		if f.Maybe(true) {
			selected = append(selected, item)
			if body != nil {
				body(item)
			}
		}
	}
	return selected
}

// EventuallyOpts tunes EventuallyUntil. Zero values take the defaults
// (confidence 0.95, window 20, max 10000 iterations).
type EventuallyOpts struct {
	Confidence float64
	Window     int
	MaxIter    int
}

func (o EventuallyOpts) withDefaults() EventuallyOpts {
	if o.Confidence <= 0 || o.Confidence > 1 {
		o.Confidence = 0.95
	}
	if o.Window <= 0 {
		o.Window = 20
	}
	if o.MaxIter <= 0 {
		o.MaxIter = eventuallyUntilDefault
	}
	return o
}

// EventuallyUntil runs body until the rolling fraction of true cond
// evaluations over the last opts.Window iterations reaches
// opts.Confidence, or the iteration cap is hit (recorded as a failure).
// It reports whether confidence was reached.
func (f *Fuzzy) EventuallyUntil(cond func() bool, body func(), opts EventuallyOpts) bool {
	opts = opts.withDefaults()

	history := make([]bool, 0, opts.Window)
	trues := 0
	for i := 0; i < opts.MaxIter; i++ {
		ok := safeCond(f, cond)
		history = append(history, ok)
		if ok {
			trues++
		}
		if len(history) > opts.Window {
			if history[0] {
				trues--
			}
			history = history[1:]
		}
		if len(history) == opts.Window && float64(trues)/float64(opts.Window) >= opts.Confidence {
			f.record("eventually_until", false)
			return true
		}
		if body != nil {
			body()
		}
	}
	f.record("eventually_until", true)
	return false
}

// safeCond evaluates cond, converting a panic into false plus a recorded
// failure so loop helpers stay total.
func safeCond(f *Fuzzy, cond func() bool) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			f.record("cond", true)
			ok = false
		}
	}()
	if cond == nil {
		return false
	}
	return cond()
}
