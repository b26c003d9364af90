package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager_RegistersCollectors(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()

	m.CounterRequests.WithLabelValues("GET", "/api/v1/routines", "200").Inc()
	m.CounterRoutinesCloned.Add(3)
	m.CounterRateLimited.WithLabelValues("auth").Inc()
	m.HistRequestDuration.WithLabelValues("GET", "/api/v1/routines").Observe(0.02)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterRequests.WithLabelValues("GET", "/api/v1/routines", "200")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.CounterRoutinesCloned))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterRateLimited.WithLabelValues("auth")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["routine_tracker_test_server_request"])
	assert.True(t, names["routine_tracker_test_server_routines_cloned"])
	assert.True(t, names["routine_tracker_test_server_request_duration_seconds"])
}

func TestNewTestManager_IsolatedRegistries(t *testing.T) {
	// A shared registry would panic on duplicate registration.
	a := NewTestManager()
	b := NewTestManager()
	a.CounterRegistrations.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(a.CounterRegistrations))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.CounterRegistrations))
}
