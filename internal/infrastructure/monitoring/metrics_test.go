package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycleMetrics(t *testing.T) {
	m := NewMetrics()

	m.RecordSpawn()
	m.RecordSpawn()
	m.RecordFinish("succeeded", 1500*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SessionsSpawned))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsActive))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsFinished.WithLabelValues("succeeded")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.SessionsFinished.WithLabelValues("failed")))
}

func TestIOMetrics(t *testing.T) {
	m := NewMetrics()

	m.AddOutputBytes(10)
	m.AddOutputBytes(0)
	m.AddOutputBytes(-3)
	m.RecordInput("ok")
	m.RecordInput("failed")
	m.RecordKill()
	m.RecordExport("ok")
	m.RecordSpawnFailure()

	assert.Equal(t, 10.0, testutil.ToFloat64(m.OutputBytes))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InputsSent.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InputsSent.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Kills))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LogExports.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SpawnFailures))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordSpawn()
		m.RecordFinish("failed", time.Second)
		m.AddOutputBytes(4)
		m.RecordInput("ok")
		m.RecordKill()
		m.RecordExport("failed")
		NewTimer(m, "terminal", "terminal.read").Stop("success")
	})
}

func TestTimerRecordsServiceCall(t *testing.T) {
	m := NewMetrics()

	NewTimer(m, "terminal", "terminal.kill").Stop("success")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ServiceCalls.WithLabelValues("terminal", "terminal.kill", "success")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := NewMetrics()
	m.RecordSpawn()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "linutil_sessions_spawned_total 1"))
}

func TestSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics()
		NewMetrics()
	})
}
