package monitoring

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveRegistration(t *testing.T) {
	m := NewMetrics()
	m.ObserveRegistration("admitted")
	m.ObserveRegistration("admitted")
	m.ObserveRegistration("capacity_reached")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.registrationAttempts.WithLabelValues("admitted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.registrationAttempts.WithLabelValues("capacity_reached")))

	expected := `
# HELP clubevents_registration_attempts_total Registration attempts by outcome
# TYPE clubevents_registration_attempts_total counter
clubevents_registration_attempts_total{outcome="admitted"} 2
clubevents_registration_attempts_total{outcome="capacity_reached"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry, strings.NewReader(expected), "clubevents_registration_attempts_total"))
}

func TestMetrics_ObserveRateLimited(t *testing.T) {
	m := NewMetrics()
	m.ObserveRateLimited("registrations")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rateLimited.WithLabelValues("registrations")))
}

func TestMetrics_ObserveRequest(t *testing.T) {
	m := NewMetrics()
	m.ObserveRequest("GET", "GET /events", 200, 15*time.Millisecond)
	m.ObserveRequest("GET", "", 404, time.Millisecond)

	assert.Equal(t, 2, testutil.CollectAndCount(m.requestDuration))
}
