package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/FocuswithJustin/ChordShift/internal/logging"
	"github.com/FocuswithJustin/ChordShift/internal/server"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20
)

// WSRequest is one WebSocket request frame. ID is echoed in the reply.
type WSRequest struct {
	ID string `json:"id,omitempty"`
	TransposeRequest
}

// WSResponse is the reply to one WSRequest.
type WSResponse struct {
	ID      string           `json:"id,omitempty"`
	Success bool             `json:"success"`
	Data    *TransposeResult `json:"data,omitempty"`
	Error   *APIError        `json:"error,omitempty"`
}

// checkOrigin accepts same-host clients without an Origin header and
// otherwise applies the CORS origin list.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return server.OriginAllowed(s.cfg.AllowedOrigins, origin)
}

// handleWebSocket answers each JSON request frame with one response frame,
// in order, until the client disconnects.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("websocket upgrade failed", "error", err, "origin", r.Header.Get("Origin"))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	logging.WebSocketEvent("client_connected", "remote_addr", r.RemoteAddr)
	defer logging.WebSocketEvent("client_disconnected", "remote_addr", r.RemoteAddr)

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go pingLoop(conn, done)

	for {
		var req WSRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Warn("websocket unexpected close", "error", err)
			}
			return
		}

		resp := WSResponse{ID: req.ID}
		res, err := s.transpose(ctx, "ws", req.TransposeRequest)
		if err != nil {
			resp.Error = apiError(err)
		} else {
			resp.Success = true
			resp.Data = &res
		}

		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(resp); err != nil {
			logging.Warn("websocket write failed", "error", err)
			return
		}
	}
}

// pingLoop keeps the connection alive. WriteControl may run concurrently
// with the reply writer.
func pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
