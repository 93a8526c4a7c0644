package solver

import (
	"testing"

	"paxplan/internal/model"
)

func TestEvaluateGangwayReject(t *testing.T) {
	ev := testEvaluator()
	e := ev.Evaluate(aquaBoat("07:00"), []model.Demand{{Platform: "PCM-06", TMIB: 10}}, 0, 0)
	if e.Reject != RejectGangway {
		t.Fatalf("reject = %v, want gangway", e.Reject)
	}
}

func TestEvaluateOverCapacity(t *testing.T) {
	ev := testEvaluator()
	e := ev.Evaluate(surfer("S1", "06:00"), []model.Demand{{Platform: "PCM-06", TMIB: 30}}, 0, 0)
	if e.Reject != RejectOverCapacity {
		t.Fatalf("reject = %v, want over capacity", e.Reject)
	}
}

func TestEvaluateDirectRoute(t *testing.T) {
	ev := testEvaluator()
	e := ev.Evaluate(surfer("S1", "06:00"), []model.Demand{{Platform: "PCM-06", TMIB: 8}}, 0, 0)
	if !e.OK() {
		t.Fatalf("reject = %v", e.Reject)
	}
	r := e.Route
	if r.UsesHub {
		t.Fatal("terminal-pool-only near demand must not route via the hub")
	}
	if len(r.PostM9) != 1 || r.PostM9[0].Platform != "PCM-06" {
		t.Fatalf("stops = %+v", r.PostM9)
	}
	if r.DistanceNM != 10 {
		t.Fatalf("distance = %v", r.DistanceNM)
	}
	if r.MaxLoad() != 8 {
		t.Fatalf("max load = %d", r.MaxLoad())
	}
}

func TestEvaluateHubRouteWithM9Fill(t *testing.T) {
	ev := testEvaluator()
	e := ev.Evaluate(surfer("S1", "06:00"), []model.Demand{{Platform: "PCM-04", M9: 5}}, 6, 2)
	if !e.OK() {
		t.Fatalf("reject = %v", e.Reject)
	}
	r := e.Route
	if !r.UsesHub {
		t.Fatal("M9-pool demand requires the hub")
	}
	if r.TMIBToM9 != 6 {
		t.Fatalf("TMIBToM9 = %d, want full fill of 6", r.TMIBToM9)
	}
	if r.M9Pickup != 5 {
		t.Fatalf("M9Pickup = %d", r.M9Pickup)
	}
	// TMIB -> M9 -> PCM-04
	if r.DistanceNM != 23 {
		t.Fatalf("distance = %v", r.DistanceNM)
	}
	if r.String() != "TMIB +6/M9 -6 +5/M4 (-5)" {
		t.Fatalf("route string = %q", r.String())
	}
}

func TestEvaluateKeepsDropsPostHubWhenLoadFits(t *testing.T) {
	ev := testEvaluator()
	e := ev.Evaluate(surfer("S1", "06:00"), []model.Demand{
		{Platform: "PCM-06", TMIB: 3},
		{Platform: "PCM-04", M9: 2},
	}, 0, 0)
	if !e.OK() {
		t.Fatalf("reject = %v", e.Reject)
	}
	r := e.Route
	if len(r.PreM9) != 0 {
		t.Fatalf("pre = %+v, want everything after the hub while the load fits", r.PreM9)
	}
	if len(r.PostM9) != 2 {
		t.Fatalf("post = %+v", r.PostM9)
	}
}

func TestEvaluateLoopSplit(t *testing.T) {
	ev := testEvaluator()
	boat := surfer("S1", "06:00")
	boat.Capacity = 20
	e := ev.Evaluate(boat, []model.Demand{{Platform: "PCM-04", TMIB: 14, M9: 8}}, 0, 0)
	if !e.OK() {
		t.Fatalf("reject = %v", e.Reject)
	}
	r := e.Route
	// 22 pax after the hub would not fit; the TMIB drop moves pre-hub and
	// the platform is visited twice.
	if len(r.PreM9) != 1 || r.PreM9[0].TMIBDrop != 14 {
		t.Fatalf("pre = %+v", r.PreM9)
	}
	if len(r.PostM9) != 1 || r.PostM9[0].M9Drop != 8 || r.PostM9[0].TMIBDrop != 0 {
		t.Fatalf("post = %+v", r.PostM9)
	}
	if r.MaxLoad() > boat.Capacity {
		t.Fatalf("max load %d exceeds capacity", r.MaxLoad())
	}
}

func TestEvaluateSplitInfeasible(t *testing.T) {
	ev := testEvaluator()
	boat := surfer("S1", "06:00")
	e := ev.Evaluate(boat, []model.Demand{{Platform: "PCM-04", M9: 30}}, 0, 0)
	if e.Reject != RejectSplitInfeasible {
		t.Fatalf("reject = %v, want split infeasible", e.Reject)
	}
}

func TestEvaluateDistantForcesHub(t *testing.T) {
	ev := testEvaluator()
	e := ev.Evaluate(surfer("S1", "06:00"), []model.Demand{{Platform: "PGA-01", TMIB: 5}}, 0, 0)
	if !e.OK() {
		t.Fatalf("reject = %v", e.Reject)
	}
	if !e.Route.UsesHub {
		t.Fatal("distant-cluster bundles must consolidate through the hub")
	}
}

func TestEvaluatePriorityStopPreHub(t *testing.T) {
	ev := testEvaluator()
	// PCM-10 sits 1 NM off the TMIB->M9 line.
	e := ev.Evaluate(surfer("S1", "06:00"), []model.Demand{{Platform: "PCM-10", TMIB: 4, Priority: 1}}, 5, 0)
	if !e.OK() {
		t.Fatalf("reject = %v", e.Reject)
	}
	if len(e.Route.PreM9) != 1 || e.Route.PreM9[0].Platform != "PCM-10" {
		t.Fatalf("P1 near-line stop should be served before the hub: %+v", e.Route)
	}
}

func TestEvaluateMergesDuplicatePlatforms(t *testing.T) {
	ev := testEvaluator()
	e := ev.Evaluate(surfer("S1", "06:00"), []model.Demand{
		{Platform: "PCM-06", TMIB: 3, Priority: 2},
		{Platform: "PCM-06", TMIB: 4, Priority: 1},
	}, 0, 0)
	if !e.OK() {
		t.Fatalf("reject = %v", e.Reject)
	}
	if len(e.Route.PostM9) != 1 {
		t.Fatalf("duplicates not merged: %+v", e.Route.PostM9)
	}
	s := e.Route.PostM9[0]
	if s.TMIBDrop != 7 || s.Priority != 1 {
		t.Fatalf("merged stop = %+v, want 7 pax at priority 1", s)
	}
}
