package model

import (
	"fmt"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"paxplan/internal/geo"
)

// ScenarioInput is the raw planning input as operators supply it, by file
// or API. It mirrors the spreadsheet: a crew-change header, one row per
// boat, one row per demand.
type ScenarioInput struct {
	CrewChange bool          `yaml:"crew_change" json:"crewChange"`
	CrewM9     int           `yaml:"crew_m9" json:"crewM9"`
	Boats      []BoatInput   `yaml:"boats" json:"boats"`
	Demands    []DemandInput `yaml:"demands" json:"demands"`
}

type BoatInput struct {
	Name       string `yaml:"name" json:"name"`
	Available  bool   `yaml:"available" json:"available"`
	Departure  string `yaml:"departure" json:"departure"`
	FixedRoute string `yaml:"fixed_route" json:"fixedRoute"`
}

type DemandInput struct {
	Platform string `yaml:"platform" json:"platform"`
	M9       int    `yaml:"m9" json:"m9"`
	TMIB     int    `yaml:"tmib" json:"tmib"`
	Priority int    `yaml:"priority" json:"priority"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string, speeds geo.Speeds) (Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, err
	}
	var in ScenarioInput
	if err := yaml.Unmarshal(raw, &in); err != nil {
		return Scenario{}, fmt.Errorf("scenario %s: %w", path, err)
	}
	return BuildScenario(in, speeds)
}

// BuildScenario validates the raw input and derives boat type, capacity
// and speed. Malformed rows are fatal and name the offender.
func BuildScenario(in ScenarioInput, speeds geo.Speeds) (Scenario, error) {
	sc := Scenario{CrewChange: in.CrewChange, CrewM9: in.CrewM9}
	for i, b := range in.Boats {
		name := strings.TrimSpace(b.Name)
		if name == "" {
			return Scenario{}, fmt.Errorf("boat row %d: empty name", i+1)
		}
		t := BoatTypeFor(name)
		sc.Boats = append(sc.Boats, Boat{
			Name:       name,
			Available:  b.Available,
			Departure:  strings.TrimSpace(b.Departure),
			FixedRoute: strings.TrimSpace(b.FixedRoute),
			Type:       t,
			Capacity:   CapacityFor(t),
			SpeedKn:    speeds.For(string(t), name),
		})
	}
	for i, d := range in.Demands {
		label := strings.TrimSpace(d.Platform)
		if label == "" {
			return Scenario{}, fmt.Errorf("demand row %d: empty platform", i+1)
		}
		if d.M9 < 0 || d.TMIB < 0 {
			return Scenario{}, fmt.Errorf("demand row %d (%s): negative pax count", i+1, label)
		}
		if d.Priority < 0 || d.Priority > 3 {
			return Scenario{}, fmt.Errorf("demand row %d (%s): priority %d out of range 0..3", i+1, label, d.Priority)
		}
		norm := geo.Normalize(label)
		if norm == geo.Terminal {
			return Scenario{}, fmt.Errorf("demand row %d: TMIB cannot be a destination", i+1)
		}
		sc.Demands = append(sc.Demands, Demand{
			Platform: norm,
			Label:    label,
			TMIB:     d.TMIB,
			M9:       d.M9,
			Priority: d.Priority,
		})
	}
	return sc, nil
}
