// Package realtime implements the broadcast core: the envelope model, the
// subscriber registry, and the fan-out engine.
//
// Subscribers come in two shapes. WebSocket subscribers get a per-connection
// writer goroutine with a bounded send buffer; a subscriber whose buffer is
// full at broadcast time is evicted rather than allowed to stall the
// publisher. SSE subscribers get an unbounded queue the transport adapter
// drains at its own pace. Registration, unregistration, and the broadcast
// snapshot share one critical section; delivery happens outside it.
package realtime
