package model

import (
	"strings"
	"testing"

	"paxplan/internal/geo"
)

func validInput() ScenarioInput {
	return ScenarioInput{
		CrewChange: true,
		CrewM9:     8,
		Boats: []BoatInput{
			{Name: "Norwind Gale", Available: true, Departure: "06:00"},
			{Name: "Aqua Helix", Available: true, Departure: "07:30"},
		},
		Demands: []DemandInput{
			{Platform: "M6", TMIB: 6, Priority: 1},
			{Platform: "B1", TMIB: 3, M9: 2},
		},
	}
}

func TestBuildScenario(t *testing.T) {
	sc, err := BuildScenario(validInput(), geo.Speeds{})
	if err != nil {
		t.Fatalf("BuildScenario: %v", err)
	}
	if !sc.CrewChange || sc.CrewM9 != 8 {
		t.Fatalf("crew header lost: %+v", sc)
	}
	if sc.Boats[0].Type != Surfer || sc.Boats[0].Capacity != 24 {
		t.Fatalf("surfer derivation: %+v", sc.Boats[0])
	}
	if sc.Boats[1].Type != AquaHelix || sc.Boats[1].Capacity != 100 {
		t.Fatalf("aqua derivation: %+v", sc.Boats[1])
	}
	if sc.Boats[0].SpeedKn != geo.DefaultSpeedKn {
		t.Fatalf("default speed: %v", sc.Boats[0].SpeedKn)
	}
	if sc.Demands[0].Platform != "PCM-06" || sc.Demands[0].Label != "M6" {
		t.Fatalf("normalization: %+v", sc.Demands[0])
	}
}

func TestBuildScenarioRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ScenarioInput)
		want   string
	}{
		{"empty boat name", func(in *ScenarioInput) { in.Boats[0].Name = " " }, "empty name"},
		{"empty platform", func(in *ScenarioInput) { in.Demands[1].Platform = "" }, "empty platform"},
		{"negative pax", func(in *ScenarioInput) { in.Demands[0].TMIB = -1 }, "negative pax"},
		{"priority range", func(in *ScenarioInput) { in.Demands[0].Priority = 5 }, "out of range"},
		{"terminal destination", func(in *ScenarioInput) { in.Demands[0].Platform = "TMIB" }, "cannot be a destination"},
	}
	for _, tc := range cases {
		in := validInput()
		tc.mutate(&in)
		_, err := BuildScenario(in, geo.Speeds{})
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: err = %v, want containing %q", tc.name, err, tc.want)
		}
	}
}

func TestWeightsDefaultsAndPriority(t *testing.T) {
	w := DefaultWeights()
	if w.AquaApproachMin != 25 || w.MaxDistantBoats != 1 || w.ExhaustiveStops != 6 {
		t.Fatalf("defaults drifted: %+v", w)
	}
	for prio, want := range map[int]int{1: 15, 2: 3, 3: 1, 0: 0, 7: 0} {
		if got := PriorityWeight(prio); got != want {
			t.Errorf("PriorityWeight(%d) = %d, want %d", prio, got, want)
		}
	}
}
