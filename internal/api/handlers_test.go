package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"paxplan/internal/geo"
	"paxplan/internal/model"
	"paxplan/internal/solver"
	"paxplan/internal/store"
)

func newTestServer() *Server {
	m := geo.Matrix{
		geo.Terminal: {geo.Hub: 20, "PCM-04": 18, "PCM-06": 10},
		geo.Hub:      {"PCM-04": 3, "PCM-06": 12},
		"PCM-04":     {"PCM-06": 9},
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	return &Server{
		Store:      store.NewMemory(),
		Broker:     NewBroker(),
		Solver:     solver.New(m, geo.Gangway{"PCM-04": true}, model.DefaultWeights(), log),
		Speeds:     geo.Speeds{},
		Log:        log,
		solveLimit: rate.NewLimiter(rate.Inf, 1),
	}
}

func postJSON(t *testing.T, h http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

const scenarioBody = `{
	"crewChange": false,
	"boats": [
		{"name": "SURFER TESTE I", "available": true, "departure": "06:00"}
	],
	"demands": [
		{"platform": "M6", "tmib": 8},
		{"platform": "M9", "tmib": 4}
	]
}`

func TestHealthAndReady(t *testing.T) {
	s := newTestServer()

	w := httptest.NewRecorder()
	s.HealthHandler(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("healthz = %d", w.Code)
	}

	w = httptest.NewRecorder()
	s.ReadyHandler(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("readyz = %d", w.Code)
	}
}

func TestScenarioCreateAndList(t *testing.T) {
	s := newTestServer()

	w := postJSON(t, s.ScenariosHandler, "/v1/scenarios", scenarioBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", w.Code, w.Body.String())
	}
	var rec store.ScenarioRecord
	if err := json.Unmarshal(w.Body.Bytes(), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.ID == "" || len(rec.Scenario.Demands) != 2 {
		t.Fatalf("record = %+v", rec)
	}
	if rec.Scenario.Demands[0].Platform != "PCM-06" {
		t.Fatalf("platform not normalized: %q", rec.Scenario.Demands[0].Platform)
	}

	w = httptest.NewRecorder()
	s.ScenariosHandler(w, httptest.NewRequest(http.MethodGet, "/v1/scenarios?limit=10", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d", w.Code)
	}
	var page struct {
		Items []store.ScenarioRecord `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("items = %d", len(page.Items))
	}
}

func TestScenarioRejectsInvalid(t *testing.T) {
	s := newTestServer()
	body := `{"boats":[{"name":"SURFER TESTE I","available":true}],"demands":[{"platform":"M6","tmib":2,"priority":9}]}`
	w := postJSON(t, s.ScenariosHandler, "/v1/scenarios", body)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("code = %d: %s", w.Code, w.Body.String())
	}
	var prob Problem
	if err := json.Unmarshal(w.Body.Bytes(), &prob); err != nil {
		t.Fatalf("decode problem: %v", err)
	}
	if prob.Status != http.StatusUnprocessableEntity || !strings.Contains(prob.Detail, "out of range") {
		t.Fatalf("problem = %+v", prob)
	}
}

func TestSolveInlineScenario(t *testing.T) {
	s := newTestServer()
	w := postJSON(t, s.SolveHandler, "/v1/solve", `{"scenario": `+scenarioBody+`}`)
	if w.Code != http.StatusOK {
		t.Fatalf("solve = %d: %s", w.Code, w.Body.String())
	}
	var rec store.PlanRecord
	if err := json.Unmarshal(w.Body.Bytes(), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.ID == "" || len(rec.Plan.Entries) == 0 {
		t.Fatalf("plan record = %+v", rec)
	}
	if rec.Plan.TMIBServed != 12 {
		t.Fatalf("TMIB served = %d, want 12", rec.Plan.TMIBServed)
	}

	w = httptest.NewRecorder()
	s.PlanByIDHandler(w, httptest.NewRequest(http.MethodGet, "/v1/plans/"+rec.ID, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("get plan = %d", w.Code)
	}

	w = httptest.NewRecorder()
	s.PlanByIDHandler(w, httptest.NewRequest(http.MethodGet, "/v1/plans/"+rec.ID+"/text", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("get text = %d", w.Code)
	}
	if !strings.HasPrefix(w.Body.String(), "DISTRIBUICAO DE PAX") {
		t.Fatalf("text report missing header:\n%s", w.Body.String())
	}
}

func TestSolveByScenarioID(t *testing.T) {
	s := newTestServer()
	w := postJSON(t, s.ScenariosHandler, "/v1/scenarios", scenarioBody)
	var sc store.ScenarioRecord
	if err := json.Unmarshal(w.Body.Bytes(), &sc); err != nil {
		t.Fatalf("decode: %v", err)
	}

	w = postJSON(t, s.SolveHandler, "/v1/solve", `{"scenarioId":"`+sc.ID+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("solve = %d: %s", w.Code, w.Body.String())
	}
	var rec store.PlanRecord
	if err := json.Unmarshal(w.Body.Bytes(), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.ScenarioID != sc.ID {
		t.Fatalf("scenarioId = %q, want %q", rec.ScenarioID, sc.ID)
	}
}

func TestSolveMissingScenario(t *testing.T) {
	s := newTestServer()
	w := postJSON(t, s.SolveHandler, "/v1/solve", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d: %s", w.Code, w.Body.String())
	}
	w = postJSON(t, s.SolveHandler, "/v1/solve", `{"scenarioId":"nope"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("code = %d: %s", w.Code, w.Body.String())
	}
}

func TestSolveRateLimited(t *testing.T) {
	s := newTestServer()
	s.solveLimit = rate.NewLimiter(rate.Limit(0), 0)
	w := postJSON(t, s.SolveHandler, "/v1/solve", `{"scenario": `+scenarioBody+`}`)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("code = %d", w.Code)
	}
}

func TestPlanNotFound(t *testing.T) {
	s := newTestServer()
	w := httptest.NewRecorder()
	s.PlanByIDHandler(w, httptest.NewRequest(http.MethodGet, "/v1/plans/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("code = %d", w.Code)
	}
}

func TestPlanEventsSSE(t *testing.T) {
	s := newTestServer()
	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/v1/plans/p1/events/stream", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		s.PlanByIDHandler(w, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	s.Broker.Publish("p1", PlanEvent{Type: "plan.created", Data: map[string]any{"planId": "p1"}})
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	body := w.Body.String()
	if !strings.Contains(body, "event: heartbeat") {
		t.Fatalf("no heartbeat in stream:\n%s", body)
	}
	if !strings.Contains(body, "event: plan.created") {
		t.Fatalf("published event missing:\n%s", body)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}
}
