package model

import (
	"fmt"
	"strings"

	"paxplan/internal/geo"
)

// StopKind tags a stop as occurring before or after the M9 hub. Pre-hub
// stops may only drop TMIB-pool pax.
type StopKind int

const (
	StopPreM9 StopKind = iota
	StopPostM9
)

// Stop is one atomic visit on a route. A platform may appear twice on the
// same route, once pre-M9 with a TMIB drop and once post-M9 with an M9
// drop (a loop visit); no other repetition is allowed.
type Stop struct {
	Platform string   `json:"platform"`
	Kind     StopKind `json:"kind"`
	TMIBDrop int      `json:"tmibDrop,omitempty"`
	M9Drop   int      `json:"m9Drop,omitempty"`
	Priority int      `json:"priority,omitempty"`
}

// Pax is the number of passengers moved at this stop.
func (s Stop) Pax() int { return s.TMIBDrop + s.M9Drop }

// Cluster returns the stop's geographic cluster.
func (s Stop) Cluster() geo.Cluster { return geo.ClusterOf(s.Platform) }

// Route is one boat's plan for the day.
type Route struct {
	Boat     Boat   `json:"boat"`
	PreM9    []Stop `json:"preM9,omitempty"`
	UsesHub  bool   `json:"usesHub"`
	PostM9   []Stop `json:"postM9,omitempty"`
	TMIBToM9 int    `json:"tmibToM9,omitempty"` // TMIB-pool pax disembarked at M9
	M9Pickup int    `json:"m9Pickup,omitempty"` // M9-pool pax boarded at M9

	DistanceNM float64 `json:"distanceNm"`
	M9Priority int     `json:"m9Priority,omitempty"` // priority of the TMIB->M9 demand row
}

// TotalTMIB is every TMIB-pool pax boarded at the terminal.
func (r Route) TotalTMIB() int {
	n := r.TMIBToM9
	for _, s := range r.PreM9 {
		n += s.TMIBDrop
	}
	for _, s := range r.PostM9 {
		n += s.TMIBDrop
	}
	return n
}

// TotalM9Drops is every M9-pool pax dropped after the hub.
func (r Route) TotalM9Drops() int {
	n := 0
	for _, s := range r.PostM9 {
		n += s.M9Drop
	}
	return n
}

// PreLoad is the onboard count leaving the terminal.
func (r Route) PreLoad() int { return r.TotalTMIB() }

// PostLoad is the onboard count leaving the hub.
func (r Route) PostLoad() int {
	droppedPre := 0
	for _, s := range r.PreM9 {
		droppedPre += s.TMIBDrop
	}
	return r.TotalTMIB() - r.TMIBToM9 - droppedPre + r.M9Pickup
}

// MaxLoad is the peak onboard count, the quantity capacity is checked
// against.
func (r Route) MaxLoad() int {
	if !r.UsesHub {
		return r.TotalTMIB()
	}
	pre, post := r.PreLoad(), r.PostLoad()
	if pre > post {
		return pre
	}
	return post
}

// Stops returns the full visit sequence, pre-hub first.
func (r Route) Stops() []Stop {
	out := make([]Stop, 0, len(r.PreM9)+len(r.PostM9))
	out = append(out, r.PreM9...)
	out = append(out, r.PostM9...)
	return out
}

// TouchesDistant reports whether any stop lies in a distant cluster.
func (r Route) TouchesDistant() bool {
	for _, s := range r.Stops() {
		if geo.Distant(s.Cluster()) {
			return true
		}
	}
	return false
}

// String renders the route in the operational notation:
//
//	TMIB +N/<stop>/M9 -a +b/<stop>...
//
// TMIB drops are "-n", M9-pool drops "(-n)".
func (r Route) String() string {
	parts := []string{}
	if t := r.TotalTMIB(); t > 0 {
		parts = append(parts, fmt.Sprintf("TMIB +%d", t))
	} else {
		parts = append(parts, "TMIB")
	}
	if r.UsesHub {
		for _, s := range r.PreM9 {
			part := geo.Short(s.Platform)
			if s.TMIBDrop > 0 {
				part += fmt.Sprintf(" -%d", s.TMIBDrop)
			}
			parts = append(parts, part)
		}
		m9 := "M9"
		if r.TMIBToM9 > 0 {
			m9 += fmt.Sprintf(" -%d", r.TMIBToM9)
		}
		if r.M9Pickup > 0 {
			m9 += fmt.Sprintf(" +%d", r.M9Pickup)
		}
		parts = append(parts, m9)
	}
	for _, s := range r.PostM9 {
		ops := []string{}
		if s.TMIBDrop > 0 {
			ops = append(ops, fmt.Sprintf("-%d", s.TMIBDrop))
		}
		if s.M9Drop > 0 {
			ops = append(ops, fmt.Sprintf("(-%d)", s.M9Drop))
		}
		part := geo.Short(s.Platform)
		if len(ops) > 0 {
			part += " " + strings.Join(ops, " ")
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "/")
}

// PlanEntry is one output line: a boat and its route string. Route is nil
// for fixed routes, which are emitted verbatim.
type PlanEntry struct {
	Boat        Boat   `json:"boat"`
	RouteString string `json:"route"`
	Route       *Route `json:"detail,omitempty"`
}

// Plan is the full day's distribution, sorted by boat departure time.
type Plan struct {
	Entries  []PlanEntry `json:"entries"`
	Warnings []string    `json:"warnings,omitempty"`

	CrewChange bool `json:"crewChange"`
	CrewM9     int  `json:"crewM9,omitempty"`

	TMIBServed     int     `json:"tmibServed"`
	M9Served       int     `json:"m9Served"`
	FreeDistanceNM float64 `json:"freeDistanceNm"`
}
