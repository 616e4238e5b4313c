// Package maiko implements an in-process, topic-based publish/subscribe
// actor runtime.
//
// Actors are independent units of computation, each with private state and
// a bounded mailbox. Actors never address each other directly: they emit
// events, and a broker routes each event to every actor subscribed to the
// topic the event maps to. This trades the point-to-point semantics of
// classical actor systems (Erlang/Akka-style send-to-pid) for decoupled,
// content-based routing.
//
// The runtime is built from six pieces: envelopes (§ Envelope) carry events
// between actors; topics (§ TopicContract) classify events and carry an
// overflow policy; mailboxes (§ mailbox) are the bounded per-actor inbound
// queues; the broker (§ broker) routes envelopes from the shared ingress
// channel to mailboxes; the Context is the actor-facing handle for sending
// events and observing cancellation; and the Supervisor ties registration
// and lifecycle together.
//
// Actors, event payloads, and topic classification are supplied by callers;
// this package provides the execution contract they plug into.
package maiko
