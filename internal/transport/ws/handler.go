package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ibtsamraza/psychometric-analysis/internal/model"
	"github.com/ibtsamraza/psychometric-analysis/internal/service"
	"github.com/ibtsamraza/psychometric-analysis/internal/session"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// Handler streams session progress over WebSocket connections
type Handler struct {
	sessions *session.Store
	authSvc  *service.AuthService
	logger   *zap.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(sessions *session.Store, authSvc *service.AuthService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		sessions: sessions,
		authSvc:  authSvc,
		logger:   logger,
	}
}

// SessionWS handles GET /v1/ws/sessions/{sessionId}. Every progress
// update of the session is delivered as one agent_update event; the
// stream ends once progress reaches 100.
func (h *Handler) SessionWS(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	token := r.URL.Query().Get("token")

	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	if _, err := h.authSvc.ValidateHostToken(token); err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", zap.String("session", sessionID), zap.Error(err))
		return
	}

	updates, cancel := h.sessions.Watch(sessionID)

	h.logger.Info("observer subscribed", zap.String("session", sessionID))

	go h.writePump(wsConn, sessionID, updates, cancel)
	go h.readPump(wsConn, cancel)
}

// writePump pushes session updates and pings until the watch closes or
// the peer goes away.
func (h *Handler) writePump(conn *websocket.Conn, sessionID string, updates <-chan model.SessionRecord, cancel func()) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cancel()
		conn.Close()
	}()

	welcome, err := newMessage(MsgWelcome, map[string]string{"sessionId": sessionID})
	if err == nil {
		h.write(conn, welcome)
	}

	for {
		select {
		case record, ok := <-updates:
			if !ok {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session complete"))
				return
			}
			msg, err := newMessage(MsgAgentUpdate, record)
			if err != nil {
				h.logger.Error("encode progress update", zap.String("session", sessionID), zap.Error(err))
				continue
			}
			if err := h.write(conn, msg); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Handler) write(conn *websocket.Conn, msg *Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}

// readPump drains control frames and cancels the watch when the peer
// disconnects.
func (h *Handler) readPump(conn *websocket.Conn, cancel func()) {
	defer func() {
		cancel()
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
