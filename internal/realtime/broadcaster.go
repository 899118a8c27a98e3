package realtime

import (
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/liaolj/iot-board/internal/metrics"
)

// Broadcaster fans envelopes out to every subscriber present in a registry
// snapshot. Delivery failures on one subscriber never affect the others and
// never surface to the publisher.
type Broadcaster struct {
	registry *Registry
	clock    clockwork.Clock
}

func NewBroadcaster(registry *Registry, clock clockwork.Clock) *Broadcaster {
	return &Broadcaster{registry: registry, clock: clock}
}

// Broadcast serializes the envelope once and delivers it to every
// subscriber in the current snapshot. Subscribers registered after the
// snapshot do not receive this envelope. The only possible error is an
// encode failure; per-subscriber delivery problems are swallowed.
func (b *Broadcaster) Broadcast(env *Envelope) error {
	data, err := env.Encode()
	if err != nil {
		return err
	}

	sockets, streams := b.registry.Snapshot()

	for _, sc := range sockets {
		if !sc.trySend(data) {
			// Client's writer buffer is full: it is not keeping up, and
			// waiting on it would stall the publisher. Drop it.
			slog.Warn("Evicting slow websocket subscriber", "event", env.Event)
			metrics.SlowSocketsEvicted.Inc()
			b.registry.UnregisterSocket(sc.conn)
		}
	}

	frame := "data: " + string(data) + "\n\n"
	for _, q := range streams {
		q.Push(frame)
	}

	metrics.BroadcastsTotal.WithLabelValues(env.Event).Inc()
	slog.Debug("Broadcast delivered", "event", env.Event, "sockets", len(sockets), "streams", len(streams))
	return nil
}

// Emit constructs an envelope for event/payload and broadcasts it.
func (b *Broadcaster) Emit(event string, payload map[string]any) {
	env, err := NewEnvelopeAt(event, payload, b.clock.Now().UTC())
	if err != nil {
		slog.Error("Refusing to broadcast invalid envelope", "event", event, "error", err)
		return
	}
	if err := b.Broadcast(env); err != nil {
		slog.Error("Failed to broadcast envelope", "event", event, "error", err)
	}
}
