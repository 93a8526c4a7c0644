package store

import (
	"context"
	"errors"
	"time"

	"paxplan/internal/model"
)

// ScenarioRecord is a stored planning input.
type ScenarioRecord struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	Scenario  model.Scenario `json:"scenario"`
}

// PlanRecord is a stored solve result, linked to the scenario it was
// computed from.
type PlanRecord struct {
	ID         string     `json:"id"`
	ScenarioID string     `json:"scenarioId"`
	CreatedAt  time.Time  `json:"createdAt"`
	Plan       model.Plan `json:"plan"`
}

// Store is the persistence interface used by the API server.
type Store interface {
	SaveScenario(ctx context.Context, sc model.Scenario) (ScenarioRecord, error)
	GetScenario(ctx context.Context, id string) (ScenarioRecord, error)
	ListScenarios(ctx context.Context, cursor string, limit int) ([]ScenarioRecord, string, error)

	SavePlan(ctx context.Context, scenarioID string, plan model.Plan) (PlanRecord, error)
	GetPlan(ctx context.Context, id string) (PlanRecord, error)
	ListPlans(ctx context.Context, cursor string, limit int) ([]PlanRecord, string, error)
}

var ErrNotFound = errors.New("not found")
