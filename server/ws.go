package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/brensch/c4killer/agent"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// handleWS runs a session: every text frame is a MoveRequest and is answered
// with a MoveResponse. The session owns its agent, so the move log covers
// this connection only.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	a, err := agent.New(s.config)
	if err != nil {
		log.Printf("[WS] agent: %v", err)
		return
	}

	session := uuid.NewString()
	s.metrics.sessions.Inc()
	defer s.metrics.sessions.Dec()
	log.Printf("[WS %s] session opened from %s", session, r.RemoteAddr)

	for {
		var req MoveRequest
		if err := conn.ReadJSON(&req); err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) {
				log.Printf("[WS %s] read: %v", session, err)
			}
			break
		}

		resp, _ := s.decide(a, req)
		resp.Session = session
		if err := conn.WriteJSON(resp); err != nil {
			log.Printf("[WS %s] write: %v", session, err)
			break
		}
	}

	log.Printf("[WS %s] session closed after %d moves", session, len(a.Moves()))
}
