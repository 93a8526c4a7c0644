package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"paxplan/internal/model"
)

// Postgres stores scenarios and plans as JSON documents.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &Postgres{db: db}, nil
}

// Migrate creates the schema if it does not exist yet.
func (p *Postgres) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scenarios (
			id UUID PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL,
			doc JSONB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS plans (
			id UUID PRIMARY KEY,
			scenario_id UUID,
			created_at TIMESTAMPTZ NOT NULL,
			doc JSONB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS plans_scenario_idx ON plans (scenario_id)`,
	}
	for _, s := range stmts {
		if _, err := p.db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (p *Postgres) SaveScenario(ctx context.Context, sc model.Scenario) (ScenarioRecord, error) {
	rec := ScenarioRecord{ID: uuid.New().String(), CreatedAt: time.Now().UTC(), Scenario: sc}
	doc, err := json.Marshal(sc)
	if err != nil {
		return ScenarioRecord{}, err
	}
	_, err = p.db.ExecContext(ctx,
		`INSERT INTO scenarios (id, created_at, doc) VALUES ($1,$2,$3)`,
		rec.ID, rec.CreatedAt, doc)
	if err != nil {
		return ScenarioRecord{}, err
	}
	return rec, nil
}

func (p *Postgres) GetScenario(ctx context.Context, id string) (ScenarioRecord, error) {
	var rec ScenarioRecord
	var doc []byte
	err := p.db.QueryRowContext(ctx,
		`SELECT id::text, created_at, doc FROM scenarios WHERE id=$1`, id).
		Scan(&rec.ID, &rec.CreatedAt, &doc)
	if errors.Is(err, sql.ErrNoRows) {
		return ScenarioRecord{}, ErrNotFound
	}
	if err != nil {
		return ScenarioRecord{}, err
	}
	if err := json.Unmarshal(doc, &rec.Scenario); err != nil {
		return ScenarioRecord{}, err
	}
	return rec, nil
}

func (p *Postgres) ListScenarios(ctx context.Context, cursor string, limit int) ([]ScenarioRecord, string, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := p.db.QueryContext(ctx,
		`SELECT id::text, created_at, doc FROM scenarios WHERE id::text > $1 ORDER BY id LIMIT $2`,
		cursor, limit)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	out := []ScenarioRecord{}
	next := ""
	for rows.Next() {
		var rec ScenarioRecord
		var doc []byte
		if err := rows.Scan(&rec.ID, &rec.CreatedAt, &doc); err != nil {
			return nil, "", err
		}
		if err := json.Unmarshal(doc, &rec.Scenario); err != nil {
			return nil, "", err
		}
		out = append(out, rec)
		next = rec.ID
	}
	if len(out) < limit {
		next = ""
	}
	return out, next, rows.Err()
}

func (p *Postgres) SavePlan(ctx context.Context, scenarioID string, plan model.Plan) (PlanRecord, error) {
	rec := PlanRecord{ID: uuid.New().String(), ScenarioID: scenarioID, CreatedAt: time.Now().UTC(), Plan: plan}
	doc, err := json.Marshal(plan)
	if err != nil {
		return PlanRecord{}, err
	}
	var sid any
	if scenarioID != "" {
		sid = scenarioID
	}
	_, err = p.db.ExecContext(ctx,
		`INSERT INTO plans (id, scenario_id, created_at, doc) VALUES ($1,$2,$3,$4)`,
		rec.ID, sid, rec.CreatedAt, doc)
	if err != nil {
		return PlanRecord{}, err
	}
	return rec, nil
}

func (p *Postgres) GetPlan(ctx context.Context, id string) (PlanRecord, error) {
	var rec PlanRecord
	var sid sql.NullString
	var doc []byte
	err := p.db.QueryRowContext(ctx,
		`SELECT id::text, scenario_id::text, created_at, doc FROM plans WHERE id=$1`, id).
		Scan(&rec.ID, &sid, &rec.CreatedAt, &doc)
	if errors.Is(err, sql.ErrNoRows) {
		return PlanRecord{}, ErrNotFound
	}
	if err != nil {
		return PlanRecord{}, err
	}
	rec.ScenarioID = sid.String
	if err := json.Unmarshal(doc, &rec.Plan); err != nil {
		return PlanRecord{}, err
	}
	return rec, nil
}

func (p *Postgres) ListPlans(ctx context.Context, cursor string, limit int) ([]PlanRecord, string, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := p.db.QueryContext(ctx,
		`SELECT id::text, scenario_id::text, created_at, doc FROM plans WHERE id::text > $1 ORDER BY id LIMIT $2`,
		cursor, limit)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	out := []PlanRecord{}
	next := ""
	for rows.Next() {
		var rec PlanRecord
		var sid sql.NullString
		var doc []byte
		if err := rows.Scan(&rec.ID, &sid, &rec.CreatedAt, &doc); err != nil {
			return nil, "", err
		}
		rec.ScenarioID = sid.String
		if err := json.Unmarshal(doc, &rec.Plan); err != nil {
			return nil, "", err
		}
		out = append(out, rec)
		next = rec.ID
	}
	if len(out) < limit {
		next = ""
	}
	return out, next, rows.Err()
}
