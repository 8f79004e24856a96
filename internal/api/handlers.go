package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/arijanluiken/candleforge/internal/engine"
	"github.com/arijanluiken/candleforge/internal/series"
)

// Response helpers
func (s *Server) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

// handleGetIndicators returns the indicator catalog: every registered
// kind with its parameter specs, pane hint and fill declarations.
func (s *Server) handleGetIndicators(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{"indicators": s.registry.List()})
}

func (s *Server) handleGetInstances(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{"instances": s.engine.Views()})
}

func (s *Server) handleCreateInstance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind   string         `json:"kind"`
		Params map[string]any `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Kind == "" {
		s.writeError(w, "Kind is required", http.StatusBadRequest)
		return
	}

	inst, err := s.engine.Add(req.Kind, req.Params)
	if err != nil {
		s.writeError(w, err.Error(), http.StatusNotFound)
		return
	}
	view, err := s.engine.View(inst.ID)
	if err != nil {
		s.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	s.writeJSON(w, view)
}

func (s *Server) handleGetInstance(w http.ResponseWriter, r *http.Request) {
	view, err := s.engine.View(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err.Error(), http.StatusNotFound)
		return
	}
	s.writeJSON(w, view)
}

func (s *Server) handleRemoveInstance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.engine.Remove(id); err != nil {
		s.writeError(w, err.Error(), http.StatusNotFound)
		return
	}
	s.writeJSON(w, map[string]interface{}{
		"id":     id,
		"status": "removed",
	})
}

func (s *Server) handleSetParams(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var params map[string]any
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		s.writeError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if _, err := s.engine.SetParams(id, params); err != nil {
		s.writeError(w, err.Error(), http.StatusNotFound)
		return
	}
	view, err := s.engine.View(id)
	if err != nil {
		s.writeError(w, err.Error(), http.StatusNotFound)
		return
	}
	s.writeJSON(w, view)
}

func (s *Server) handleSetStyle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		LineID string               `json:"lineId"`
		Style  engine.StyleOverride `json:"style"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.LineID == "" {
		s.writeError(w, "LineId is required", http.StatusBadRequest)
		return
	}

	if err := s.engine.SetStyle(id, req.LineID, req.Style); err != nil {
		s.writeError(w, err.Error(), http.StatusNotFound)
		return
	}
	s.writeJSON(w, map[string]interface{}{
		"id":     id,
		"status": "styled",
	})
}

func (s *Server) handleSetHidden(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Hidden bool `json:"hidden"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := s.engine.SetHidden(id, req.Hidden); err != nil {
		s.writeError(w, err.Error(), http.StatusNotFound)
		return
	}
	s.writeJSON(w, map[string]interface{}{
		"id":     id,
		"hidden": req.Hidden,
	})
}

func (s *Server) handleMovePane(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Pane *int `json:"pane"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Pane == nil {
		s.writeError(w, "Pane is required", http.StatusBadRequest)
		return
	}

	if err := s.engine.MovePane(id, *req.Pane); err != nil {
		s.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	view, err := s.engine.View(id)
	if err != nil {
		s.writeError(w, err.Error(), http.StatusNotFound)
		return
	}
	s.writeJSON(w, view)
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	view, err := s.engine.View(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err.Error(), http.StatusNotFound)
		return
	}
	if view.Error != "" {
		s.writeJSON(w, map[string]interface{}{
			"id":     view.ID,
			"kind":   view.Kind,
			"status": "unavailable",
			"error":  view.Error,
		})
		return
	}
	s.writeJSON(w, view.Result)
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.engine.Snapshot())
}

type barPayload struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// handleSetBars replaces the engine's bar history. Bars must arrive
// sorted ascending with unique timestamps; recomputation happens in the
// background after the call returns.
func (s *Server) handleSetBars(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Bars []barPayload `json:"bars"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	bars := make([]series.Bar, len(req.Bars))
	for i, b := range req.Bars {
		if i > 0 && !req.Bars[i-1].Time.Before(b.Time) {
			s.writeError(w, "Bars must be ascending with unique timestamps", http.StatusBadRequest)
			return
		}
		bars[i] = series.Bar{
			Time:   b.Time,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		}
	}

	s.engine.SetBars(bars)
	w.WriteHeader(http.StatusAccepted)
	s.writeJSON(w, map[string]interface{}{
		"status": "accepted",
		"bars":   len(bars),
	})
}

// handleWebSocket streams engine change events to the client until it
// disconnects.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	s.logger.Info().Str("remote", r.RemoteAddr).Msg("WebSocket connection established")

	events := s.engine.Subscribe()
	defer s.engine.Unsubscribe(events)

	// Reader goroutine: we ignore client messages but need the read loop
	// to learn about disconnects.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				s.logger.Debug().Err(err).Msg("WebSocket write error")
				return
			}
		case <-done:
			s.logger.Info().Str("remote", r.RemoteAddr).Msg("WebSocket connection closed")
			return
		}
	}
}
