// Package api provides the HTTP API for observing the simulation.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (admin control plane).
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/talgya/bank-reserves/internal/metrics"
	"github.com/talgya/bank-reserves/internal/sim"
)

// Server serves the model state over HTTP.
type Server struct {
	Model     *sim.Model
	Eng       *sim.Engine
	Collector *metrics.Collector
	Port      int
	AdminKey  string // Bearer token for POST endpoints. Empty = POST disabled.
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	mux := http.NewServeMux()

	// Public endpoints (GET, read-only).
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/agents", s.handleAgents)
	mux.HandleFunc("/api/v1/grid", s.handleGrid)
	mux.HandleFunc("/api/v1/stats", s.handleStats)
	mux.HandleFunc("/api/v1/stats/history", s.handleStatsHistory)

	// Admin endpoints (POST, require bearer token).
	mux.HandleFunc("/api/v1/speed", s.adminOnly(s.handleSpeed))
	mux.HandleFunc("/api/v1/step", s.adminOnly(s.handleStep))

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// adminOnly gates a handler behind the bearer token.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "POST required"})
			return
		}
		if s.AdminKey == "" {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "admin endpoints disabled"})
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+s.AdminKey {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		next(w, r)
	}
}

// handleStatus reports run identity, tick, speed, and headline aggregates.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats := s.Model.Stats()
	bank := s.Model.Bank()
	writeJSON(w, http.StatusOK, map[string]any{
		"run_id":   s.Model.RunID().String(),
		"tick":     stats.Tick,
		"speed":    s.Eng.Speed(),
		"people":   stats.Rich + stats.Poor + stats.Middle,
		"stats":    stats,
		"deposits": bank.Deposits(),
		"loans":    bank.Loans(),
		"reserves": bank.Reserves(),
		"lendable": bank.Lendable(),
	})
}

// handleAgents returns every person's balances and classification.
func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	threshold := s.Model.Config().RichThreshold
	people := s.Model.People()

	type agentView struct {
		sim.Person
		Class string `json:"class"`
	}
	out := make([]agentView, len(people))
	for i, p := range people {
		out[i] = agentView{Person: p, Class: p.Class(threshold).String()}
	}
	writeJSON(w, http.StatusOK, out)
}

// handleGrid returns the render descriptor for every person, for the
// external grid visualization.
func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	cfg := s.Model.Config()
	writeJSON(w, http.StatusOK, map[string]any{
		"width":      cfg.Width,
		"height":     cfg.Height,
		"portrayals": s.Model.Portrayals(),
	})
}

// handleStats returns the most recent collected snapshot plus agent wealth.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	latest, ok := s.Collector.Latest()
	if !ok {
		latest = s.Model.Stats()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"model":  latest,
		"agents": s.Collector.AgentWealth(),
	})
}

// handleStatsHistory returns the last N collected snapshots (default 200).
func (s *Server) handleStatsHistory(w http.ResponseWriter, r *http.Request) {
	limit := 200
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	writeJSON(w, http.StatusOK, s.Collector.History(limit))
}

// handleSpeed sets the engine speed multiplier.
func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Speed float64 `json:"speed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	if req.Speed < 0 || req.Speed > 100 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "speed must be in 0..100"})
		return
	}
	s.Eng.SetSpeed(req.Speed)
	slog.Info("speed changed", "speed", req.Speed)
	writeJSON(w, http.StatusOK, map[string]any{"speed": req.Speed})
}

// handleStep advances the model by one tick while the engine is paused.
func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	if s.Eng.Speed() > 0 {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "pause the engine before single-stepping"})
		return
	}
	s.Model.Step()
	writeJSON(w, http.StatusOK, s.Model.Stats())
}
