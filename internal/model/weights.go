package model

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"
)

// Weights carries every tunable constant of the planner in one immutable
// value threaded through the pipeline. Defaults reproduce the operational
// snapshot.
type Weights struct {
	AquaApproachMin int `yaml:"aqua_approach_min"`
	MinutesPerPax   int `yaml:"minutes_per_pax"`

	M9ConsolidationNM    float64 `yaml:"m9_consolidation_nm"`
	PriorityTimeWeight   float64 `yaml:"priority_time_weight"`
	ComfortPaxMinWeight  float64 `yaml:"comfort_pax_min_weight"`
	PaxArrivalWeight     float64 `yaml:"pax_arrival_weight"`
	BacktrackNM          float64 `yaml:"backtrack_nm"`
	P1PrecedenceNM       float64 `yaml:"p1_precedence_nm"`
	P1PreM9MaxDetourNM   float64 `yaml:"p1_pre_m9_max_detour_nm"`
	PriorityMixFitNM     float64 `yaml:"priority_mix_fit_nm"`
	ClusterSwitchNM      float64 `yaml:"cluster_switch_nm"`
	IncompatibleSwitchNM float64 `yaml:"incompatible_switch_nm"`
	ClusterJumpPerNM     float64 `yaml:"cluster_jump_per_nm"`
	ClusterJumpFreeNM    float64 `yaml:"cluster_jump_free_nm"`
	LoopVisitCostNM      float64 `yaml:"loop_visit_cost_nm"`

	ExhaustiveStops         int `yaml:"exhaustive_stops"`
	ExhaustivePriorityStops int `yaml:"exhaustive_priority_stops"`

	MaxDistantBoats   int  `yaml:"max_distant_boats"`
	AquaDirectMinPax  int  `yaml:"aqua_direct_min_pax"`
	ScarcityBoatMax   int  `yaml:"scarcity_boat_max"`
	ScarcitySplitMin  int  `yaml:"scarcity_split_min"`
	ScarcityChunk     int  `yaml:"scarcity_chunk"`
	DistantDedication bool `yaml:"distant_dedication"`
}

// DefaultWeights returns the snapshot constants.
func DefaultWeights() Weights {
	return Weights{
		AquaApproachMin: 25,
		MinutesPerPax:   1,

		M9ConsolidationNM:    5.0,
		PriorityTimeWeight:   0.05,
		ComfortPaxMinWeight:  0.02,
		PaxArrivalWeight:     0.10,
		BacktrackNM:          10.0,
		P1PrecedenceNM:       250.0,
		P1PreM9MaxDetourNM:   1.5,
		PriorityMixFitNM:     120.0,
		ClusterSwitchNM:      8.0,
		IncompatibleSwitchNM: 24.0,
		ClusterJumpPerNM:     4.0,
		ClusterJumpFreeNM:    1.5,
		LoopVisitCostNM:      2.0,

		ExhaustiveStops:         6,
		ExhaustivePriorityStops: 7,

		MaxDistantBoats:   1,
		AquaDirectMinPax:  10,
		ScarcityBoatMax:   2,
		ScarcitySplitMin:  12,
		ScarcityChunk:     4,
		DistantDedication: false,
	}
}

// LoadWeights overlays a YAML file onto the defaults. A missing file
// returns the defaults unchanged.
func LoadWeights(path string) (Weights, error) {
	w := DefaultWeights()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return w, nil
		}
		return w, err
	}
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return w, fmt.Errorf("weights %s: %w", path, err)
	}
	return w, nil
}

// PriorityWeight maps a demand priority to its time-penalty weight.
func PriorityWeight(priority int) int {
	switch priority {
	case 1:
		return 15
	case 2:
		return 3
	case 3:
		return 1
	}
	return 0
}
