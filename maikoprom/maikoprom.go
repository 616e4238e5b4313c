// Package maikoprom is a Prometheus implementation of maiko.Monitor: it
// observes the taps every broker and actor loop emit and exposes them as
// counters and a histogram.
package maikoprom

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ddrcode/maiko"
)

// defaultBuckets covers sub-millisecond to multi-second handling times.
var defaultBuckets = []float64{
	.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5,
}

// Monitor implements maiko.Monitor and every On*Observer interface,
// reporting dispatches, drops, handled events, actor errors, and
// broker maintenance cleanup sweeps as Prometheus series.
type Monitor[E maiko.Event, T comparable] struct {
	dispatchedTotal *prometheus.CounterVec
	droppedTotal    *prometheus.CounterVec
	handledTotal    *prometheus.CounterVec
	handleDuration  prometheus.Histogram
	actorErrors     *prometheus.CounterVec
	cleanupRemoved  prometheus.Counter
}

// New builds a Monitor and registers its series with reg.
func New[E maiko.Event, T comparable](reg prometheus.Registerer) *Monitor[E, T] {
	m := &Monitor[E, T]{
		dispatchedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "maiko_events_dispatched_total",
			Help: "Total number of envelopes handed to a subscriber's mailbox.",
		}, []string{"topic", "receiver"}),

		droppedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "maiko_events_dropped_total",
			Help: "Total number of envelopes dropped instead of delivered.",
		}, []string{"topic", "receiver"}),

		handledTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "maiko_events_handled_total",
			Help: "Total number of envelopes an actor finished handling without error.",
		}, []string{"receiver"}),

		handleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "maiko_event_handle_duration_seconds",
			Help:    "Time between an envelope being created and handled, in seconds.",
			Buckets: defaultBuckets,
		}),

		actorErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "maiko_actor_errors_total",
			Help: "Total number of unrecovered actor errors reported to the monitor registry.",
		}, []string{"actor"}),

		cleanupRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "maiko_broker_cleanup_removed_total",
			Help: "Total number of dead subscribers removed by broker maintenance sweeps.",
		}),
	}

	reg.MustRegister(
		m.dispatchedTotal,
		m.droppedTotal,
		m.handledTotal,
		m.handleDuration,
		m.actorErrors,
		m.cleanupRemoved,
	)
	return m
}

func (m *Monitor[E, T]) Name() string { return "maikoprom" }

func (m *Monitor[E, T]) OnEventDispatched(envelope *maiko.Envelope[E], topic T, receiver maiko.ActorID) {
	m.dispatchedTotal.WithLabelValues(topicLabel(topic), receiver.String()).Inc()
}

func (m *Monitor[E, T]) OnEventDropped(envelope *maiko.Envelope[E], topic T, receiver maiko.ActorID) {
	m.droppedTotal.WithLabelValues(topicLabel(topic), receiver.String()).Inc()
}

func (m *Monitor[E, T]) OnEventHandled(envelope *maiko.Envelope[E], receiver maiko.ActorID) {
	m.handledTotal.WithLabelValues(receiver.String()).Inc()
	m.handleDuration.Observe(sinceSeconds(envelope.Meta().Timestamp()))
}

func (m *Monitor[E, T]) OnActorError(actorID maiko.ActorID, err error) {
	m.actorErrors.WithLabelValues(actorID.String()).Inc()
}

func (m *Monitor[E, T]) OnCleanup(removed int) {
	m.cleanupRemoved.Add(float64(removed))
}

func topicLabel[T comparable](t T) string {
	return fmt.Sprint(t)
}

func sinceSeconds(t time.Time) float64 {
	if t.IsZero() {
		return 0
	}
	return time.Since(t).Seconds()
}
