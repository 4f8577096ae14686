package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"fleetdispatch/internal/jobs"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(_ *http.Request) bool { return true }}

// JobWatchHandler handles GET /v1/jobs/{id}/watch: upgrades to a WebSocket
// and streams status transitions until the job reaches a terminal state.
// The current snapshot is always sent first so late subscribers never miss
// the outcome.
func (s *Server) JobWatchHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/jobs/")
	id = strings.TrimSuffix(id, "/watch")
	if id == "" || strings.Contains(id, "/") {
		writeProblem(w, http.StatusNotFound, "Not Found", "missing job id", r.URL.Path)
		return
	}
	j, ok := s.Jobs.Status(id)
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "unknown job id", r.URL.Path)
		return
	}

	// Subscribe before the initial read so no transition can slip between
	// snapshot and stream.
	ch := s.Broker.Subscribe(id)
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Broker.Unsubscribe(id, ch)
		return
	}
	defer func() {
		s.Broker.Unsubscribe(id, ch)
		_ = conn.Close()
	}()

	conn.SetReadLimit(1 << 16)
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Drain client frames so pings/pongs keep flowing; the stream is
	// one-directional otherwise.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Re-read the snapshot post-subscribe; the first one only gated the 404.
	j, _ = s.Jobs.Status(id)
	evt := JobEvent{JobID: j.ID, Status: string(j.Status), Error: j.Error, TS: time.Now().UTC().Format(time.RFC3339Nano)}
	if err := conn.WriteJSON(evt); err != nil {
		return
	}
	if j.Status.Terminal() {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		return
	}

	ticker := time.NewTicker(20 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		case evt, open := <-ch:
			if !open {
				return
			}
			if err := conn.WriteJSON(evt); err != nil {
				return
			}
			if jobs.Status(evt.Status).Terminal() {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
		}
	}
}
