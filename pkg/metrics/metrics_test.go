package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveIndexLoad_ClassifiesOutcome(t *testing.T) {
	m := NewWithRegistry("test", prometheus.NewRegistry())

	m.ObserveIndexLoad(10*time.Millisecond, 10, 0)
	m.ObserveIndexLoad(10*time.Millisecond, 10, 3)
	m.ObserveIndexLoad(10*time.Millisecond, 4, 4)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.indexLoadsTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.indexLoadsTotal.WithLabelValues("partial")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.indexLoadsTotal.WithLabelValues("failed")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.slotFetchFailures))
}

func TestActiveViews(t *testing.T) {
	m := NewWithRegistry("test", prometheus.NewRegistry())

	m.ViewOpened()
	m.ViewOpened()
	m.ViewClosed()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.activeViews))
}
