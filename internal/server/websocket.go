package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"cloud-cli-mcp/internal/logstream"
	"cloud-cli-mcp/pkg/logging"
)

const wsWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Clients are local agents and tools, not browsers on other origins.
	CheckOrigin: func(*http.Request) bool { return true },
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	jobID := r.URL.Query().Get("jobId")
	if jobID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "jobId query parameter is required"})
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		logging.Debug("Server", "WebSocket upgrade failed for job %s: %v", jobID, err)
		return
	}
	logging.Info("Server", "Log stream connection opened for job %s from %s", jobID, r.RemoteAddr)

	sink := &wsSink{conn: conn}
	cancel := s.streamer.Stream(jobID, sink)

	// Reads only detect the peer going away; incoming messages are ignored.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				logging.Debug("Server", "Log stream connection for job %s closed: %v", jobID, err)
				return
			}
		}
	}()
}

// wsSink writes stream messages as JSON text frames.
type wsSink struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *wsSink) Send(m logstream.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return s.conn.WriteJSON(m)
}

func (s *wsSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "stream ended")
	_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return s.conn.Close()
}
