package geo

import (
	"fmt"
	"math"
	"os"

	yaml "gopkg.in/yaml.v3"
)

// SentinelNM is returned when no distance is known for an edge in either
// direction. It is large enough to exclude the edge from any optimal plan.
const SentinelNM = 999.0

// Matrix holds nautical-mile distances between normalized platform names.
// The table is queried as directed but filled symmetrically in practice,
// so a missing entry falls back to the reverse direction.
type Matrix map[string]map[string]float64

// Dist returns the distance in NM from a to b, trying a->b, then b->a,
// then the sentinel.
func (m Matrix) Dist(a, b string) float64 {
	if a == b {
		return 0.0
	}
	if row, ok := m[a]; ok {
		if v, ok := row[b]; ok {
			return v
		}
	}
	if row, ok := m[b]; ok {
		if v, ok := row[a]; ok {
			return v
		}
	}
	return SentinelNM
}

// Known reports whether the edge a->b exists in either direction.
func (m Matrix) Known(a, b string) bool {
	if a == b {
		return true
	}
	if row, ok := m[a]; ok {
		if _, ok := row[b]; ok {
			return true
		}
	}
	if row, ok := m[b]; ok {
		if _, ok := row[a]; ok {
			return true
		}
	}
	return false
}

// LoadMatrix reads a YAML distance matrix keyed by platform name in any
// accepted spelling; keys are normalized on load.
func LoadMatrix(path string) (Matrix, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var in map[string]map[string]float64
	if err := yaml.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("distance matrix %s: %w", path, err)
	}
	m := Matrix{}
	for a, row := range in {
		aN := Normalize(a)
		if m[aN] == nil {
			m[aN] = map[string]float64{}
		}
		for b, v := range row {
			m[aN][Normalize(b)] = v
		}
	}
	return m, nil
}

// TravelMinutes converts a leg distance to whole minutes at the given
// speed, rounding up. A non-positive speed yields the 999-minute sentinel.
func TravelMinutes(distanceNM, speedKn float64) int {
	if speedKn <= 0 {
		return 999
	}
	return int(math.Ceil(distanceNM / speedKn * 60))
}
