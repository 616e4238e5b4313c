package maiko

// monitoringEvent is the internal tagged union carried over the monitor
// dispatcher's queue, mirroring MonitoringEvent in
// original_source/maiko/src/monitoring/monitoring_event.rs. Using one
// struct with a kind tag instead of an interface per event keeps the
// dispatcher's hot path allocation-free for the common "nobody's
// listening" check (MonitorRegistry.Active).
type monitoringEvent[E Event, T comparable] struct {
	kind     monitorEventKind
	envelope *Envelope[E]
	topic    T
	receiver ActorID
	actorID  ActorID
	err      error
	removed  int
}

type monitorEventKind int

const (
	evSent monitorEventKind = iota
	evDispatched
	evHandled
	evDropped
	evActorError
	evCleanup
)
