package geo

import (
	"fmt"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// DefaultSpeedKn is used when neither a per-boat nor a per-type speed is
// configured.
const DefaultSpeedKn = 14.0

// Speeds maps boat types and individual boat names to cruise speeds in
// knots. Name overrides win over type defaults.
type Speeds struct {
	DefaultKn float64            `yaml:"default_kn"`
	Types     map[string]float64 `yaml:"types"`
	Boats     map[string]float64 `yaml:"boats"`
}

// For resolves the speed for a boat: exact name, then type, then the
// configured default, then DefaultSpeedKn.
func (s Speeds) For(boatType, name string) float64 {
	up := strings.ToUpper(strings.TrimSpace(name))
	for _, k := range []string{up, strings.ReplaceAll(up, "_", " "), strings.ReplaceAll(up, " ", "_")} {
		if v, ok := s.Boats[k]; ok {
			return v
		}
	}
	if v, ok := s.Types[boatType]; ok {
		return v
	}
	if s.DefaultKn > 0 {
		return s.DefaultKn
	}
	return DefaultSpeedKn
}

// LoadSpeeds reads the speeds table. A missing file yields an empty table
// so every boat falls back to DefaultSpeedKn.
func LoadSpeeds(path string) (Speeds, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Speeds{}, nil
		}
		return Speeds{}, err
	}
	var s Speeds
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return Speeds{}, fmt.Errorf("speeds %s: %w", path, err)
	}
	up := map[string]float64{}
	for k, v := range s.Boats {
		up[strings.ToUpper(strings.TrimSpace(k))] = v
	}
	s.Boats = up
	return s, nil
}

// Gangway is the set of platforms where an Aqua Helix may dock.
type Gangway map[string]bool

// Allows reports whether a normalized platform is gangway-equipped.
func (g Gangway) Allows(platform string) bool {
	return g[platform]
}

type gangwayFile struct {
	Platforms []string `yaml:"platforms"`
}

// LoadGangway reads the gangway allow-list. A missing file yields an empty
// set, which grounds every Aqua.
func LoadGangway(path string) (Gangway, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Gangway{}, nil
		}
		return Gangway{}, err
	}
	var f gangwayFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return Gangway{}, fmt.Errorf("gangway %s: %w", path, err)
	}
	g := Gangway{}
	for _, p := range f.Platforms {
		g[Normalize(p)] = true
	}
	return g, nil
}
