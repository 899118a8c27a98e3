package realtime

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/liaolj/iot-board/internal/metrics"
)

// Registry is the thread-safe set of live subscribers. It owns the
// subscriber entries exclusively; transport adapters only ask it to
// register and unregister. One mutex covers every mutation and the
// broadcast snapshot, so a subscriber is either fully visible to a
// broadcast or not at all.
type Registry struct {
	mu      sync.RWMutex
	clock   clockwork.Clock
	sockets map[*websocket.Conn]*socketClient
	streams map[uuid.UUID]*Queue
}

func NewRegistry(clock clockwork.Clock) *Registry {
	return &Registry{
		clock:   clock,
		sockets: make(map[*websocket.Conn]*socketClient),
		streams: make(map[uuid.UUID]*Queue),
	}
}

// RegisterSocket adds a WebSocket subscriber and starts its writer.
// Idempotent if the connection is already registered.
func (r *Registry) RegisterSocket(conn *websocket.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sockets[conn]; exists {
		return
	}
	r.sockets[conn] = newSocketClient(conn, r.clock)
	metrics.ConnectedSockets.Set(float64(len(r.sockets)))
}

// UnregisterSocket removes a WebSocket subscriber if present, stopping its
// writer and closing the connection. Removal is terminal: no delivery is
// attempted after this returns.
func (r *Registry) UnregisterSocket(conn *websocket.Conn) {
	r.mu.Lock()
	sc, exists := r.sockets[conn]
	if exists {
		delete(r.sockets, conn)
		metrics.ConnectedSockets.Set(float64(len(r.sockets)))
	}
	r.mu.Unlock()

	// stop blocks on the writer goroutine, so it runs outside the lock.
	if exists {
		sc.stop()
	}
}

// RegisterStream allocates a fresh queue under a new opaque key and returns
// both. The caller drains the queue and must UnregisterStream the key on
// teardown.
func (r *Registry) RegisterStream() (uuid.UUID, *Queue) {
	key := uuid.New()
	queue := newQueue()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.streams[key] = queue
	metrics.ConnectedStreams.Set(float64(len(r.streams)))
	return key, queue
}

// UnregisterStream removes and closes the queue for key if present.
func (r *Registry) UnregisterStream(key uuid.UUID) {
	r.mu.Lock()
	queue, exists := r.streams[key]
	if exists {
		delete(r.streams, key)
		metrics.ConnectedStreams.Set(float64(len(r.streams)))
	}
	r.mu.Unlock()

	if exists {
		queue.Close()
	}
}

// Snapshot returns point-in-time copies of the current subscriber sets for
// a broadcaster to iterate without holding the registry lock during
// delivery.
func (r *Registry) Snapshot() ([]*socketClient, []*Queue) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sockets := make([]*socketClient, 0, len(r.sockets))
	for _, sc := range r.sockets {
		sockets = append(sockets, sc)
	}
	streams := make([]*Queue, 0, len(r.streams))
	for _, q := range r.streams {
		streams = append(streams, q)
	}
	return sockets, streams
}

// SocketCount reports the number of registered WebSocket subscribers.
func (r *Registry) SocketCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sockets)
}

// StreamCount reports the number of registered SSE streams.
func (r *Registry) StreamCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.streams)
}

// Close tears down every subscriber. Used during shutdown.
func (r *Registry) Close() {
	r.mu.Lock()
	sockets := make([]*socketClient, 0, len(r.sockets))
	for _, sc := range r.sockets {
		sockets = append(sockets, sc)
	}
	streams := make([]*Queue, 0, len(r.streams))
	for _, q := range r.streams {
		streams = append(streams, q)
	}
	r.sockets = make(map[*websocket.Conn]*socketClient)
	r.streams = make(map[uuid.UUID]*Queue)
	metrics.ConnectedSockets.Set(0)
	metrics.ConnectedStreams.Set(0)
	r.mu.Unlock()

	for _, sc := range sockets {
		sc.stop()
	}
	for _, q := range streams {
		q.Close()
	}
}
