package rates

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records refresh outcomes. A nil *Metrics records nothing.
type Metrics struct {
	refreshes  *prometheus.CounterVec
	capturedAt prometheus.Gauge
}

// NewMetrics registers the rate metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		refreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "finance",
			Subsystem: "rates",
			Name:      "refresh_total",
			Help:      "Upstream rate refreshes by result.",
		}, []string{"result"}),
		capturedAt: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "finance",
			Subsystem: "rates",
			Name:      "captured_timestamp_seconds",
			Help:      "Unix time of the cached rate snapshot.",
		}),
	}
}

func (m *Metrics) observeSuccess(at time.Time) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues("ok").Inc()
	m.capturedAt.Set(float64(at.Unix()))
}

func (m *Metrics) observeFailure(err error) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(failureReason(err)).Inc()
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrUpstreamStatus):
		return "status"
	case errors.Is(err, ErrEmptyPayload):
		return "empty"
	case errors.Is(err, ErrMalformedPayload):
		return "malformed"
	default:
		return "unavailable"
	}
}
