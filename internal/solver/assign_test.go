package solver

import (
	"testing"

	"paxplan/internal/model"
)

// Consolidation charges every route touching M9 traffic, pickup-only
// routes included.
func TestScoreCountsPickupOnlyHubRoutes(t *testing.T) {
	o := &Optimizer{W: model.DefaultWeights()}
	boats := []model.Boat{surfer("S1", "06:00"), surfer("S2", "07:00"), surfer("S3", "08:00")}

	r1 := model.Route{Boat: boats[0], UsesHub: true, M9Pickup: 3,
		PostM9: []model.Stop{{Platform: "PCM-04", Kind: model.StopPostM9, M9Drop: 3}}}
	r2 := model.Route{Boat: boats[1], UsesHub: true, M9Pickup: 2,
		PostM9: []model.Stop{{Platform: "PCM-05", Kind: model.StopPostM9, M9Drop: 2}}}

	routes := []*model.Route{&r1, &r2, nil}
	evals := []*Evaluation{{Route: r1}, {Route: r2}, nil}

	s := o.scoreAssignment(boats, routes, evals, 0)
	if got, want := s.secondary, o.W.M9ConsolidationNM; got != want {
		t.Fatalf("secondary = %v, want the consolidation penalty %v", got, want)
	}
}

// Two distant packages too big to share a boat: the distant budget must
// give way, with every boat still required to sail, so both are served.
func TestAssignRelaxesDistantBudget(t *testing.T) {
	o := &Optimizer{Eval: testEvaluator(), W: model.DefaultWeights()}
	boats := []model.Boat{surfer("S1", "06:00"), surfer("S2", "07:00")}
	pkgs := [][]model.Demand{
		{{Platform: "PGA-01", TMIB: 20}},
		{{Platform: "PDO-01", TMIB: 20}},
	}

	routes, _, pending, ok := o.Assign(boats, pkgs, 0, 0, 0)
	if !ok {
		t.Fatal("no assignment found")
	}
	if pending != 0 {
		t.Fatalf("pending = %d", pending)
	}
	for b, r := range routes {
		if r == nil {
			t.Fatalf("boat %d left idle", b)
		}
	}
}
