// Package promobserver records actor dispatch outcomes as Prometheus metrics.
package promobserver

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/comnipl/servify/actor"
)

// Observer implements actor.Observer.
type Observer struct {
	messages *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ actor.Observer = (*Observer)(nil)

// New registers the servify message metrics with reg. A nil reg uses
// prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) (*Observer, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	o := &Observer{
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "servify_messages_total",
			Help: "Messages dispatched by servify servers.",
		}, []string{"service", "operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "servify_dispatch_duration_seconds",
			Help:    "Time spent handling one message.",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "operation"}),
	}
	for _, c := range []prometheus.Collector{o.messages, o.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (o *Observer) Observe(service, operation string, outcome actor.Outcome, d time.Duration) {
	o.messages.WithLabelValues(service, operation, string(outcome)).Inc()
	o.duration.WithLabelValues(service, operation).Observe(d.Seconds())
}
