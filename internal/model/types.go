package model

import (
	"strconv"
	"strings"

	"paxplan/internal/geo"
)

// BoatType distinguishes the two vessel classes of the fleet.
type BoatType string

const (
	Surfer    BoatType = "SURFER"
	AquaHelix BoatType = "AQUA_HELIX"
)

// BoatTypeFor derives the type from the boat name: a name containing both
// AQUA and HELIX is the high-capacity gangway vessel, everything else a
// standard surfer.
func BoatTypeFor(name string) BoatType {
	up := strings.ToUpper(name)
	if strings.Contains(up, "AQUA") && strings.Contains(up, "HELIX") {
		return AquaHelix
	}
	return Surfer
}

// CapacityFor returns the PAX capacity for a boat type.
func CapacityFor(t BoatType) int {
	if t == AquaHelix {
		return 100
	}
	return 24
}

// Boat is one crew-transfer vessel with its daily operating parameters.
type Boat struct {
	Name       string   `json:"name"`
	Available  bool     `json:"available"`
	Departure  string   `json:"departure"` // "HH:MM"
	FixedRoute string   `json:"fixedRoute,omitempty"`
	Type       BoatType `json:"type"`
	Capacity   int      `json:"capacity"`
	SpeedKn    float64  `json:"speedKn"`
}

// IsAqua reports whether the boat is the Aqua Helix (25-minute approach
// overhead per stop, gangway platforms only).
func (b Boat) IsAqua() bool { return b.Type == AquaHelix }

// departureSentinel sorts boats without a parseable departure time last.
const departureSentinel = 999 * 60

// DepartureMinutes returns the departure time in minutes of day, or the
// sentinel when the field is empty or malformed.
func (b Boat) DepartureMinutes() int {
	if !strings.Contains(b.Departure, ":") {
		return departureSentinel
	}
	parts := strings.SplitN(b.Departure, ":", 2)
	h, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	m, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return departureSentinel
	}
	return h*60 + m
}

// Demand is the outstanding passenger count for one destination platform,
// split by origin pool. Priority 0 means none; 1 is most urgent.
type Demand struct {
	Platform string `json:"platform"`        // canonical name
	Label    string `json:"label,omitempty"` // original spelling for messages
	TMIB     int    `json:"tmib"`
	M9       int    `json:"m9"`
	Priority int    `json:"priority"`
}

// Total is the combined pax count across both pools.
func (d Demand) Total() int { return d.TMIB + d.M9 }

// Cluster returns the geographic cluster of the destination.
func (d Demand) Cluster() geo.Cluster { return geo.ClusterOf(d.Platform) }

// Scenario is one day's planning input: the fleet and the demand matrix.
type Scenario struct {
	CrewChange bool     `json:"crewChange"`
	CrewM9     int      `json:"crewM9"`
	Boats      []Boat   `json:"boats"`
	Demands    []Demand `json:"demands"`
}
