package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"paxplan/internal/metrics"
	"paxplan/internal/model"
	"paxplan/internal/report"
	"paxplan/internal/store"
)

// ScenariosHandler handles POST/GET /v1/scenarios
func (s *Server) ScenariosHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var in model.ScenarioInput
		if err := decodeJSON(r, &in); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
			return
		}
		sc, err := model.BuildScenario(in, s.Speeds)
		if err != nil {
			writeProblem(w, http.StatusUnprocessableEntity, "Invalid scenario", err.Error(), r.URL.Path)
			return
		}
		rec, err := s.Store.SaveScenario(r.Context(), sc)
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "Save scenario failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusCreated, rec)
	case http.MethodGet:
		cursor := r.URL.Query().Get("cursor")
		limit := 100
		if v := r.URL.Query().Get("limit"); v != "" {
			fmt.Sscanf(v, "%d", &limit)
		}
		items, next, err := s.Store.ListScenarios(r.Context(), cursor, limit)
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "List scenarios failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items, "nextCursor": next})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// SolveHandler handles POST /v1/solve. The scenario comes either by
// reference (scenarioId) or inline; the resulting plan is stored and a
// plan.created event is published.
func (s *Server) SolveHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !s.solveLimit.Allow() {
		writeProblem(w, http.StatusTooManyRequests, "Too Many Requests", "solve rate limit exceeded", r.URL.Path)
		return
	}

	var req struct {
		ScenarioID string               `json:"scenarioId"`
		Scenario   *model.ScenarioInput `json:"scenario"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}

	var sc model.Scenario
	switch {
	case req.ScenarioID != "":
		rec, err := s.Store.GetScenario(r.Context(), req.ScenarioID)
		if errors.Is(err, store.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Scenario not found", req.ScenarioID, r.URL.Path)
			return
		}
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "Load scenario failed", err.Error(), r.URL.Path)
			return
		}
		sc = rec.Scenario
	case req.Scenario != nil:
		var err error
		sc, err = model.BuildScenario(*req.Scenario, s.Speeds)
		if err != nil {
			writeProblem(w, http.StatusUnprocessableEntity, "Invalid scenario", err.Error(), r.URL.Path)
			return
		}
	default:
		writeProblem(w, http.StatusBadRequest, "Missing scenario", "scenarioId or scenario required", r.URL.Path)
		return
	}

	start := time.Now()
	res := s.Solver.Solve(sc)
	metrics.SolveDuration.Observe(time.Since(start).Seconds())
	metrics.AssignmentsEvaluated.Add(float64(res.AssignmentsEvaluated))

	total := 0
	for _, d := range sc.Demands {
		total += d.Total()
	}
	unmet := total - res.Plan.TMIBServed - res.Plan.M9Served
	if unmet < 0 {
		unmet = 0
	}
	metrics.UnmetPax.Set(float64(unmet))
	outcome := "ok"
	if len(res.Plan.Warnings) > 0 {
		outcome = "warnings"
	}
	metrics.PlansTotal.WithLabelValues(outcome).Inc()

	rec, err := s.Store.SavePlan(r.Context(), req.ScenarioID, res.Plan)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Save plan failed", err.Error(), r.URL.Path)
		return
	}
	s.Broker.Publish(rec.ID, PlanEvent{Type: "plan.created", Data: map[string]any{
		"planId":     rec.ID,
		"scenarioId": rec.ScenarioID,
		"entries":    len(rec.Plan.Entries),
		"warnings":   len(rec.Plan.Warnings),
		"unmetPax":   unmet,
	}})
	writeJSON(w, http.StatusOK, rec)
}

// PlansIndexHandler handles GET /v1/plans
func (s *Server) PlansIndexHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	cursor := r.URL.Query().Get("cursor")
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		fmt.Sscanf(v, "%d", &limit)
	}
	items, next, err := s.Store.ListPlans(r.Context(), cursor, limit)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "List plans failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "nextCursor": next})
}

// PlanByIDHandler handles GET /v1/plans/{id}, /v1/plans/{id}/text,
// /v1/plans/{id}/events/stream and /v1/plans/{id}/events/ws
func (s *Server) PlanByIDHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	rest := strings.TrimPrefix(path, "/v1/plans/")
	if rest == path || rest == "" {
		writeProblem(w, http.StatusNotFound, "Not Found", "missing id", path)
		return
	}
	parts := strings.Split(rest, "/")
	id := parts[0]

	if len(parts) > 2 && parts[1] == "events" && parts[2] == "stream" {
		s.planEventsSSE(w, r, id)
		return
	}
	if len(parts) > 2 && parts[1] == "events" && parts[2] == "ws" {
		s.planEventsWS(w, r, id)
		return
	}

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	rec, err := s.Store.GetPlan(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "Plan not found", id, path)
		return
	}
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Load plan failed", err.Error(), path)
		return
	}

	if len(parts) > 1 && parts[1] == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, report.RenderText(rec.Plan))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) planEventsSSE(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeProblem(w, http.StatusInternalServerError, "Streaming unsupported", "", r.URL.Path)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.Broker.Subscribe(id)
	defer s.Broker.Unsubscribe(id, ch)

	heartbeat := func() {
		fmt.Fprintf(w, "event: heartbeat\n")
		fmt.Fprintf(w, "data: {\"planId\":%q,\"ts\":%q}\n\n", id, time.Now().Format(time.RFC3339))
		flusher.Flush()
	}
	heartbeat()

	notify := r.Context().Done()
	for {
		select {
		case <-notify:
			return
		case evt, open := <-ch:
			if !open {
				return
			}
			writeSSE(w, evt)
			flusher.Flush()
		case <-time.After(15 * time.Second):
			heartbeat()
		}
	}
}

// HealthHandler handles GET /healthz
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReadyHandler handles GET /readyz
func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	// A cheap store round-trip doubles as the readiness probe.
	if _, _, err := s.Store.ListPlans(r.Context(), "", 1); err != nil {
		writeProblem(w, http.StatusServiceUnavailable, "Not ready", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
