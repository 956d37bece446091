package middleware

import (
	"context"
	"time"

	"github.com/gear6io/mcwire/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exports session events as Prometheus series. Put it first in the
// chain so every connect is counted before admission can reject it.
type Metrics struct {
	sessionsTotal    prometheus.Counter
	activeSessions   prometheus.Gauge
	sessionDuration  prometheus.Histogram
	framesTotal      *prometheus.CounterVec
	protocolErrors   *prometheus.CounterVec
	stateTransitions *prometheus.CounterVec
	loginsTotal      prometheus.Counter
}

// NewMetrics registers the session metrics with reg.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		sessionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Total number of accepted sessions",
		}),
		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of sessions currently open",
		}),
		sessionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "session_duration_seconds",
			Help:      "Session lifetime in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120, 600},
		}),
		framesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames received, by connection state",
		}, []string{"state"}),
		protocolErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "protocol_errors_total",
			Help:      "Sessions ended by a protocol error, by error code",
		}, []string{"code"}),
		stateTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_transitions_total",
			Help:      "Connection state transitions, by target state",
		}, []string{"to"}),
		loginsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_starts_total",
			Help:      "LoginStart packets received",
		}),
	}
}

// OnEvent handles metric events
func (m *Metrics) OnEvent(ctx context.Context, sess *SessionContext, event SessionEvent, err error) error {
	switch event {
	case EventConnected:
		m.sessionsTotal.Inc()
		m.activeSessions.Inc()
	case EventDisconnected:
		m.activeSessions.Dec()
		m.sessionDuration.Observe(time.Since(sess.StartTime).Seconds())
	case EventFrame:
		m.framesTotal.WithLabelValues(sess.State.String()).Inc()
	case EventStateChanged:
		m.stateTransitions.WithLabelValues(sess.State.String()).Inc()
	case EventLoginStarted:
		m.loginsTotal.Inc()
	case EventProtocolError:
		code := errors.GetCode(err)
		if code == "" {
			code = "unknown"
		}
		m.protocolErrors.WithLabelValues(code).Inc()
	}
	return nil
}
