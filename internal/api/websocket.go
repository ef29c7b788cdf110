// websocket.go - WebSocket streaming of analysis progress
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/log-sentinel/backend/internal/models"
)

// Server -> client message types
const (
	MsgTypeProgress = "progress"
	MsgTypeComplete = "complete"
	MsgTypeError    = "error"
)

// WSProgressMessage reports analysis progress for one session.
type WSProgressMessage struct {
	Type      string               `json:"type"`
	SessionID string               `json:"sessionId"`
	Status    models.SessionStatus `json:"status"`
	Progress  float64              `json:"progress"`
	Errors    []models.FileError   `json:"errors,omitempty"`
	Timestamp int64                `json:"timestamp"`
}

// WebSocketHandler streams session progress to clients.
type WebSocketHandler struct {
	sessions SessionManager
	upgrader websocket.Upgrader
	interval time.Duration
}

// NewWebSocketHandler creates a WebSocket handler over the session layer.
func NewWebSocketHandler(sessions SessionManager) *WebSocketHandler {
	return &WebSocketHandler{
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Air-gapped deployments serve the UI from arbitrary origins.
				return true
			},
		},
		interval: 250 * time.Millisecond,
	}
}

// HandleAnalysisProgress upgrades the connection and pushes progress
// updates until the session completes or the client disconnects.
func (h *WebSocketHandler) HandleAnalysisProgress(c echo.Context) error {
	sessionID := c.Param("sessionId")
	if _, ok := h.sessions.GetSession(sessionID); !ok {
		return NewNotFoundError("session", sessionID)
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return fmt.Errorf("websocket upgrade failed: %w", err)
	}
	defer conn.Close()

	// Drain client messages so pings and close frames are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for range ticker.C {
		session, ok := h.sessions.GetSession(sessionID)
		if !ok {
			h.writeMessage(conn, WSProgressMessage{
				Type:      MsgTypeError,
				SessionID: sessionID,
				Status:    models.SessionStatusError,
				Timestamp: time.Now().UnixMilli(),
			})
			return nil
		}

		msgType := MsgTypeProgress
		switch session.Status {
		case models.SessionStatusComplete:
			msgType = MsgTypeComplete
		case models.SessionStatusError:
			msgType = MsgTypeError
		}

		if err := h.writeMessage(conn, WSProgressMessage{
			Type:      msgType,
			SessionID: sessionID,
			Status:    session.Status,
			Progress:  session.Progress,
			Errors:    session.Errors,
			Timestamp: time.Now().UnixMilli(),
		}); err != nil {
			return nil // client went away
		}

		if msgType != MsgTypeProgress {
			return nil
		}
	}
	return nil
}

func (h *WebSocketHandler) writeMessage(conn *websocket.Conn, msg WSProgressMessage) error {
	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteJSON(msg)
}
