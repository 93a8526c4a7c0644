package solver

import (
	"paxplan/internal/geo"
	"paxplan/internal/model"
)

// Shared fixtures: a small slice of the basin with realistic distances.
func testMatrix() geo.Matrix {
	return geo.Matrix{
		"TMIB": {
			"PCM-09": 20, "PCM-04": 18, "PCM-05": 19, "PCM-10": 12,
			"PCM-06": 10, "PCB-01": 11, "PCM-02": 15, "PCM-03": 16,
			"PGA-01": 60,
		},
		"PCM-09": {
			"PCM-04": 3, "PCM-05": 4, "PCM-10": 9,
			"PCM-06": 12, "PCB-01": 12, "PCM-02": 6.5, "PCM-03": 6,
			"PGA-01": 45,
		},
		"PCM-04": {"PCM-05": 2, "PCM-10": 7},
		"PCM-06": {"PCB-01": 2, "PCM-04": 13, "PCM-05": 13.5},
		"PCM-02": {"PCM-03": 1.5},
	}
}

func testGangway() geo.Gangway {
	return geo.Gangway{"PCM-04": true, "PCM-05": true, "PCM-10": true}
}

func testEvaluator() *Evaluator {
	return &Evaluator{Matrix: testMatrix(), Gangway: testGangway(), W: model.DefaultWeights()}
}

func surfer(name, departure string) model.Boat {
	return model.Boat{
		Name: name, Available: true, Departure: departure,
		Type: model.Surfer, Capacity: 24, SpeedKn: 14,
	}
}

func aquaBoat(departure string) model.Boat {
	return model.Boat{
		Name: "AQUA HELIX", Available: true, Departure: departure,
		Type: model.AquaHelix, Capacity: 100, SpeedKn: 12,
	}
}
