package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementPublished("candidate.created")
	m.IncrementPublished("candidate.created")
	m.IncrementFailed("file.avatar.deleted")
	m.SetOutboxBacklog(7)
	m.ObserveRequest("GET", "/v1/candidates/:id", 200, 12*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.EventsPublished.WithLabelValues("candidate.created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsFailed.WithLabelValues("file.avatar.deleted")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.OutboxBacklog))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/v1/candidates/:id", "200")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementPublished("candidate.created")
		m.IncrementFailed("candidate.created")
		m.SetOutboxBacklog(1)
		m.ObserveRequest("GET", "/", 200, time.Second)
	})
}
