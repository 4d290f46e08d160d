package prom

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/streamforge/rtmpwire/observability"
)

// NewRegistry returns a fresh Prometheus registry.
func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// Handler returns a Prometheus HTTP handler bound to the registry.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// SessionObserver exports handshake metrics to Prometheus.
type SessionObserver struct {
	handshakeTotal    *prometheus.CounterVec
	handshakeDuration prometheus.Histogram
}

// NewSessionObserver registers session metrics on the registry.
func NewSessionObserver(reg *prometheus.Registry) *SessionObserver {
	o := &SessionObserver{
		handshakeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rtmpwire_session_handshakes_total",
			Help: "Handshake attempts by result.",
		}, []string{"result"}),
		handshakeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rtmpwire_session_handshake_duration_seconds",
			Help:    "Wall time from first byte sent to peer echo verified.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(
		o.handshakeTotal,
		o.handshakeDuration,
	)
	return o
}

func (o *SessionObserver) Handshake(result observability.Result, d time.Duration) {
	o.handshakeTotal.WithLabelValues(string(result)).Inc()
	if result == observability.ResultEstablished {
		o.handshakeDuration.Observe(d.Seconds())
	}
}
