package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_DomainCounters(t *testing.T) {
	m := New()

	m.Registration("ok")
	m.Registration("ok")
	m.Registration("slot_taken")
	m.Payment("verify", "applied")
	m.Decision("approved")
	m.Login("invalid_credentials")
	m.SessionsSwept(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.registrations.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.registrations.WithLabelValues("slot_taken")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.payments.WithLabelValues("verify", "applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.decisions.WithLabelValues("approved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.logins.WithLabelValues("invalid_credentials")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.sessionsSwept))
}

func TestMetrics_RequestLifecycle(t *testing.T) {
	m := New()

	done := m.RequestStarted()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpInFlight))
	done("GET", "/ping", "200", 10*time.Millisecond)

	assert.Equal(t, 0.0, testutil.ToFloat64(m.httpInFlight))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/ping", "200")))
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Registration("ok")
		m.Payment("create", "ok")
		m.Decision("rejected")
		m.Login("ok")
		m.SessionsSwept(1)
		m.RequestStarted()("GET", "/", "200", time.Millisecond)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.Decision("approved")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `admission_aspirations_decisions_total{status="approved"} 1`)
}
