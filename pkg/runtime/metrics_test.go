package runtime

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jihwankim/kinda-lang/pkg/personality"
)

func TestMetricsCountHelperCalls(t *testing.T) {
	m := NewMetrics()
	f := newFuzzy(personality.MoodReliable, 1, WithMetrics(m))

	for i := 0; i < 10; i++ {
		f.Sometimes(true)
	}
	f.KindaInt(5)

	assert.Equal(t, 10.0, testutil.ToFloat64(m.calls.WithLabelValues("sometimes")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calls.WithLabelValues("kinda_int")))
}

func TestMetricsTrackFailures(t *testing.T) {
	m := NewMetrics()
	f := newFuzzy(personality.MoodReliable, 1, WithMetrics(m))

	f.Welp(func() (interface{}, error) { panic("boom") }, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("welp")))
	assert.InDelta(t, f.Personality().Instability(), testutil.ToFloat64(m.instability), 1e-9)
}

func TestMetricsRegistryScrapes(t *testing.T) {
	m := NewMetrics()
	f := newFuzzy(personality.MoodPlayful, 1, WithMetrics(m))
	f.Maybe(true)

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
