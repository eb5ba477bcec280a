package personality

// The process-wide personality. Created on first use, configured once at
// CLI startup, reset only by tests.
var current *Personality

// Configure initializes the process-wide personality. The first call wins;
// later calls are ignored so library code cannot re-seed mid-run. Tests
// that need a fresh context use Reset.
func Configure(mood Mood, chaosLevel int, seed int64) *Personality {
	if current == nil {
		current = New(mood, chaosLevel, seed)
	}
	return current
}

// Current returns the process-wide personality, creating a playful
// mid-chaos default when nothing has been configured.
func Current() *Personality {
	if current == nil {
		current = New(MoodPlayful, 5, 0)
	}
	return current
}

// Reset discards the process-wide personality and installs a new one.
// Intended for tests.
func Reset(mood Mood, chaosLevel int, seed int64) *Personality {
	current = New(mood, chaosLevel, seed)
	return current
}
