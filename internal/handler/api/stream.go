package api

import (
	"net/http"
	"time"

	"Edelweiss/internal/domain/models"
	"Edelweiss/internal/usecase"
	applogger "Edelweiss/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	streamPingInterval = 30 * time.Second
	streamWriteTimeout = 10 * time.Second
)

// StreamHandler pushes request/view state transitions to dashboard
// clients over WebSocket. One connection per subscription; slow clients
// miss intermediate states, never the latest.
type StreamHandler struct {
	logger   *applogger.Logger
	sessions *usecase.Manager
	upgrader websocket.Upgrader
}

type streamFrame struct {
	Type string              `json:"type"`
	Data models.RequestState `json:"data"`
}

// NewStreamHandler creates a WebSocket state stream handler.
func NewStreamHandler(logger *applogger.Logger, sessions *usecase.Manager) *StreamHandler {
	return &StreamHandler{
		logger:   logger,
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Serve upgrades the connection and streams state frames until the client
// disconnects.
func (h *StreamHandler) Serve(c echo.Context, sessionID string) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	sess := h.sessions.Acquire(c.Request().Context(), sessionID)
	states, unsubscribe := sess.Subscribe()
	defer unsubscribe()

	h.logger.Info("stream opened", applogger.String("session", sessionID))
	defer h.logger.Info("stream closed", applogger.String("session", sessionID))

	// reader drains control frames and signals disconnect
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(streamPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return nil
		case state, ok := <-states:
			if !ok {
				// session expired
				deadline := time.Now().Add(streamWriteTimeout)
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "session expired"), deadline)
				return nil
			}
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
			if err := conn.WriteJSON(streamFrame{Type: "state", Data: state}); err != nil {
				h.logger.Debug("stream write failed", applogger.String("session", sessionID), applogger.Error(err))
				return nil
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		}
	}
}
