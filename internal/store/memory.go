package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"paxplan/internal/model"
)

// Memory is a simple in-memory store used when no DATABASE_URL is set.
type Memory struct {
	mu          sync.Mutex
	scenarios   map[string]ScenarioRecord
	scenarioIDs []string // insertion order, doubles as the cursor space
	plans       map[string]PlanRecord
	planIDs     []string
}

func NewMemory() *Memory {
	return &Memory{
		scenarios: map[string]ScenarioRecord{},
		plans:     map[string]PlanRecord{},
	}
}

func (m *Memory) SaveScenario(ctx context.Context, sc model.Scenario) (ScenarioRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := ScenarioRecord{ID: uuid.New().String(), CreatedAt: time.Now().UTC(), Scenario: sc}
	m.scenarios[rec.ID] = rec
	m.scenarioIDs = append(m.scenarioIDs, rec.ID)
	return rec, nil
}

func (m *Memory) GetScenario(ctx context.Context, id string) (ScenarioRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.scenarios[id]
	if !ok {
		return ScenarioRecord{}, ErrNotFound
	}
	return rec, nil
}

func (m *Memory) ListScenarios(ctx context.Context, cursor string, limit int) ([]ScenarioRecord, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids, next := page(m.scenarioIDs, cursor, limit)
	out := make([]ScenarioRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.scenarios[id])
	}
	return out, next, nil
}

func (m *Memory) SavePlan(ctx context.Context, scenarioID string, plan model.Plan) (PlanRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := PlanRecord{ID: uuid.New().String(), ScenarioID: scenarioID, CreatedAt: time.Now().UTC(), Plan: plan}
	m.plans[rec.ID] = rec
	m.planIDs = append(m.planIDs, rec.ID)
	return rec, nil
}

func (m *Memory) GetPlan(ctx context.Context, id string) (PlanRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.plans[id]
	if !ok {
		return PlanRecord{}, ErrNotFound
	}
	return rec, nil
}

func (m *Memory) ListPlans(ctx context.Context, cursor string, limit int) ([]PlanRecord, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids, next := page(m.planIDs, cursor, limit)
	out := make([]PlanRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.plans[id])
	}
	return out, next, nil
}

func page(ids []string, cursor string, limit int) ([]string, string) {
	start := 0
	if cursor != "" {
		for i, id := range ids {
			if id == cursor {
				start = i + 1
				break
			}
		}
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	end := start + limit
	if end > len(ids) {
		end = len(ids)
	}
	next := ""
	if end < len(ids) && end > start {
		next = ids[end-1]
	}
	return ids[start:end], next
}
