package api

import (
	"encoding/json"
	"net/http"

	"nhooyr.io/websocket"
)

// handleJobSocket streams progress updates for one job over a WebSocket.
// The current state is sent immediately, then every change until the job
// reaches a terminal state or the client disconnects.
func (s *Server) handleJobSocket(w http.ResponseWriter, r *http.Request) {
	job := s.jobFromRequest(w, r)
	if job == nil {
		return
	}
	id := job.ID

	updates, unsubscribe := s.manager.Subscribe(id)
	defer unsubscribe()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		s.log.WithError(err).Warn("websocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ctx := r.Context()

	write := func(v interface{}) bool {
		msg, err := json.Marshal(v)
		if err != nil {
			return false
		}
		return conn.Write(ctx, websocket.MessageText, msg) == nil
	}

	// Snapshot first so late subscribers see the current state.
	if !write(job) {
		return
	}

	// Reader drains client frames so pings keep the connection alive.
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				// Job finished; send the final record before closing.
				if final := s.manager.Get(id); final != nil {
					write(final)
				}
				return
			}
			if !write(update) {
				return
			}
		case <-readerDone:
			return
		case <-ctx.Done():
			return
		}
	}
}
