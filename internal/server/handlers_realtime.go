package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	// The dashboard is served from arbitrary origins
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (s *Server) registerRealtimeRoutes() {
	s.echo.GET("/ws", s.handleWebsocket)
	s.echo.GET("/api/events", s.handleEventStream)
}

// handleWebsocket upgrades the connection, registers it for broadcasts,
// and blocks in the read pump until the peer goes away. Incoming frames
// are discarded; the socket is outbound-only.
func (s *Server) handleWebsocket(c echo.Context) error {
	if !s.socketLimit.Acquire() {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "socket capacity reached")
	}
	defer s.socketLimit.Release()

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade websocket: %w", err)
	}

	s.registry.RegisterSocket(conn)
	defer s.registry.UnregisterSocket(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("websocket closed unexpectedly", "error", err)
			}
			return nil
		}
	}
}

func (s *Server) handleEventStream(c echo.Context) error {
	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set(echo.HeaderCacheControl, "no-cache")
	resp.Header().Set(echo.HeaderConnection, "keep-alive")
	resp.WriteHeader(http.StatusOK)
	resp.Flush()

	key, queue := s.registry.RegisterStream()
	defer s.registry.UnregisterStream(key)

	ctx := c.Request().Context()
	for {
		frame, err := queue.Next(ctx)
		if err != nil {
			// Queue closed during shutdown or the client went away
			return nil
		}

		if _, err := resp.Write([]byte(frame)); err != nil {
			slog.Debug("event stream write failed", "stream", key, "error", err)
			return nil
		}
		resp.Flush()
	}
}
