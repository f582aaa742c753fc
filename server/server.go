// Package server exposes the agent over HTTP and websockets.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/brensch/c4killer/agent"
	"github.com/brensch/c4killer/game"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Version is reported by the info endpoint.
const Version = "1.0.0"

type InfoResponse struct {
	APIVersion string `json:"apiversion"`
	Name       string `json:"name"`
	Depth      int    `json:"depth"`
	Pruning    bool   `json:"pruning"`
	Version    string `json:"version"`
}

// MoveRequest asks for a move on Board, given top row first with '.', 'X'
// and 'O'. Color is 1 for red and -1 for yellow; 0 means the side to move.
type MoveRequest struct {
	Board []string `json:"board"`
	Color int      `json:"color"`
}

type MoveResponse struct {
	Session   string  `json:"session,omitempty"`
	Column    int     `json:"column"`
	Value     int     `json:"value"`
	Boards    int     `json:"boards"`
	ElapsedMs float64 `json:"elapsed_ms"`
	Error     string  `json:"error,omitempty"`
}

// Server holds the shared agent and configuration.
type Server struct {
	config   agent.Config
	mu       sync.Mutex
	agent    *agent.Agent
	upgrader websocket.Upgrader
	metrics  *Metrics
	registry *prometheus.Registry
}

// New creates a server whose HTTP endpoints share one agent. Each websocket
// session gets an agent of its own. A nil registry gets a fresh one.
func New(cfg agent.Config, registry *prometheus.Registry) (*Server, error) {
	a, err := agent.New(cfg)
	if err != nil {
		return nil, err
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	return &Server{
		config:   a.Config(),
		agent:    a,
		metrics:  NewMetrics(registry),
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}, nil
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/move", s.handleMove)
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/ws", s.handleWS)
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return mux
}

// handleIndex returns the agent info
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	writeJSON(w, http.StatusOK, InfoResponse{
		APIVersion: "1",
		Name:       s.config.Name,
		Depth:      s.config.Depth,
		Pruning:    s.config.Pruning,
		Version:    Version,
	})
}

// handleMove determines the best move for the posted board
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, MoveResponse{Column: -1, Error: err.Error()})
		return
	}

	s.mu.Lock()
	resp, status := s.decide(s.agent, req)
	s.mu.Unlock()

	writeJSON(w, status, resp)
}

// handleStats prints the move table of the shared agent
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := s.agent.WriteStatistics(w); err != nil {
		log.Printf("Write statistics: %v", err)
	}
}

// decide runs one move selection on a and maps errors to HTTP statuses.
func (s *Server) decide(a *agent.Agent, req MoveRequest) (MoveResponse, int) {
	board, err := game.ParseBoard(req.Board...)
	if err != nil {
		s.metrics.observeError("bad_board")
		return MoveResponse{Column: -1, Error: err.Error()}, http.StatusBadRequest
	}

	color := game.Cell(req.Color)
	if req.Color == 0 {
		color = board.ToMove()
	}

	d, err := a.Decide(board, color)
	switch {
	case errors.Is(err, agent.ErrNoLegalMove):
		s.metrics.observeError("no_legal_move")
		return MoveResponse{Column: -1, Error: err.Error()}, http.StatusUnprocessableEntity
	case err != nil:
		s.metrics.observeError("bad_request")
		return MoveResponse{Column: -1, Error: err.Error()}, http.StatusBadRequest
	}

	s.metrics.observeMove(d)
	log.Printf("Move: size=%d color=%v column=%d value=%d boards=%d time=%v", board.Size(), color, d.Column, d.Value, d.Boards, d.Elapsed)
	return MoveResponse{
		Column:    d.Column,
		Value:     d.Value,
		Boards:    d.Boards,
		ElapsedMs: float64(d.Elapsed) / float64(time.Millisecond),
	}, http.StatusOK
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Encode response: %v", err)
	}
}

// ListenAndServe runs the server on addr until it fails.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Printf("Agent server listening on http://%s", addr)
	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return nil
}
