package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/liaolj/iot-board/internal/metrics"
)

const (
	writeDeadline     = 5 * time.Second
	pingInterval      = 30 * time.Second
	pongDeadline      = 60 * time.Second
	messageBufferSize = 16
)

// socketClient owns all writes to one WebSocket connection. Broadcasts are
// handed over through a bounded send channel so the publisher never blocks
// on socket I/O; the run goroutine serializes writes and keeps the
// connection alive with pings.
type socketClient struct {
	conn     *websocket.Conn
	clock    clockwork.Clock
	sendCh   chan []byte
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func newSocketClient(conn *websocket.Conn, clock clockwork.Clock) *socketClient {
	sc := &socketClient{
		conn:   conn,
		clock:  clock,
		sendCh: make(chan []byte, messageBufferSize),
		done:   make(chan struct{}),
	}
	sc.configurePongHandler()
	sc.wg.Add(1)
	go sc.run()
	return sc
}

func (sc *socketClient) run() {
	ticker := sc.clock.NewTicker(pingInterval)
	defer ticker.Stop()
	defer sc.wg.Done()

	for {
		select {
		case msg, ok := <-sc.sendCh:
			if !ok {
				return
			}
			sc.updateWriteDeadline()
			if err := sc.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.Chan():
			sc.updateWriteDeadline()
			if err := sc.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				// Ping failed - client likely disconnected
				metrics.SocketPingFailures.Inc()
				return
			}
		case <-sc.done:
			return
		}
	}
}

// trySend hands a message to the writer without blocking. A false return
// means the buffer is full and the client is not keeping up.
func (sc *socketClient) trySend(msg []byte) bool {
	select {
	case sc.sendCh <- msg:
		return true
	default:
		return false
	}
}

func (sc *socketClient) stop() {
	sc.stopOnce.Do(func() {
		close(sc.done)
		_ = sc.conn.Close()
	})
	sc.wg.Wait()
}

func (sc *socketClient) configurePongHandler() {
	sc.updateReadDeadline()
	sc.conn.SetPongHandler(func(string) error {
		sc.updateReadDeadline()
		return nil
	})
}

func (sc *socketClient) updateWriteDeadline() {
	deadline := sc.clock.Now().Add(writeDeadline)
	_ = sc.conn.SetWriteDeadline(deadline)
}

func (sc *socketClient) updateReadDeadline() {
	deadline := sc.clock.Now().Add(pongDeadline)
	_ = sc.conn.SetReadDeadline(deadline)
}
