// Package config loads skirmish scenarios and tactical tuning from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/talgya/hexwar/internal/tactical"
	"github.com/talgya/hexwar/internal/world"
)

// ErrInvalidScenario wraps every validation failure.
var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario describes a generated skirmish: the map, the sides and their
// starting forces, who is at war, and the tactical tuning.
type Scenario struct {
	Name  string `yaml:"name"`
	Seed  int64  `yaml:"seed"`
	Turns int    `yaml:"turns"`

	Map        MapSpec       `yaml:"map"`
	Sides      []SideSpec    `yaml:"sides"`
	Barbarians BarbarianSpec `yaml:"barbarians"`

	// Wars and OpenBorders list pairs of side names.
	Wars        [][]string `yaml:"wars"`
	OpenBorders [][]string `yaml:"open_borders"`

	Tactical tactical.Config `yaml:"tactical"`
}

// MapSpec sizes and shapes the generated map.
type MapSpec struct {
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	SeaLevel      float64 `yaml:"sea_level"`
	HillLevel     float64 `yaml:"hill_level"`
	MountainLevel float64 `yaml:"mountain_level"`
	Ruins         int     `yaml:"ruins"`
	CitySpacing   int     `yaml:"city_spacing"`
	TradeRoutes   bool    `yaml:"trade_routes"` // Lay routes between neighbouring cities
}

// SideSpec is one non-barbarian side.
type SideSpec struct {
	Name     string     `yaml:"name"`
	Kind     string     `yaml:"kind"` // major, city_state or observer
	Handicap string     `yaml:"handicap"`
	Cities   int        `yaml:"cities"`
	Units    []UnitSpec `yaml:"units"`
}

// UnitSpec places Count units of one class around a side's first city.
// Zero stats fall back to the class defaults.
type UnitSpec struct {
	Class          string `yaml:"class"`
	Count          int    `yaml:"count"`
	Strength       int    `yaml:"strength"`
	RangedStrength int    `yaml:"ranged_strength"`
	Range          int    `yaml:"range"`
	Moves          int    `yaml:"moves"`
}

// BarbarianSpec controls the barbarian side.
type BarbarianSpec struct {
	Enabled      bool   `yaml:"enabled"`
	Handicap     string `yaml:"handicap"`
	Camps        int    `yaml:"camps"`
	UnitsPerCamp int    `yaml:"units_per_camp"`
}

// Default returns a two-side skirmish with barbarians on a small map.
func Default() Scenario {
	return Scenario{
		Name:  "skirmish",
		Seed:  42,
		Turns: 30,
		Map: MapSpec{
			Width:         32,
			Height:        20,
			SeaLevel:      0.28,
			HillLevel:     0.62,
			MountainLevel: 0.78,
			Ruins:         4,
			CitySpacing:   5,
			TradeRoutes:   true,
		},
		Sides: []SideSpec{
			{
				Name: "Rome", Kind: "major", Handicap: "prince", Cities: 3,
				Units: []UnitSpec{{Class: "melee", Count: 4}, {Class: "ranged", Count: 2}, {Class: "mounted", Count: 1}, {Class: "worker", Count: 1}},
			},
			{
				Name: "Carthage", Kind: "major", Handicap: "prince", Cities: 3,
				Units: []UnitSpec{{Class: "melee", Count: 4}, {Class: "ranged", Count: 2}, {Class: "siege", Count: 1}, {Class: "settler", Count: 1}},
			},
		},
		Barbarians: BarbarianSpec{Enabled: true, Handicap: "prince", Camps: 3, UnitsPerCamp: 2},
		Wars:       [][]string{{"Rome", "Carthage"}},
		Tactical:   tactical.DefaultConfig(),
	}
}

// Load reads a scenario file. Fields the file omits keep their Default
// values; a file that lists sides replaces the default sides wholesale.
func Load(path string) (Scenario, error) {
	sc := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return sc, fmt.Errorf("read scenario: %w", err)
	}
	if err := yaml.Unmarshal(b, &sc); err != nil {
		return sc, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if err := sc.Validate(); err != nil {
		return sc, err
	}
	return sc, nil
}

// Validate checks names, kinds, classes and war pairs.
func (sc *Scenario) Validate() error {
	if sc.Map.Width < 4 || sc.Map.Height < 4 {
		return fmt.Errorf("%w: map %dx%d is too small", ErrInvalidScenario, sc.Map.Width, sc.Map.Height)
	}
	if len(sc.Sides) == 0 {
		return fmt.Errorf("%w: no sides", ErrInvalidScenario)
	}
	names := make(map[string]bool, len(sc.Sides))
	for _, side := range sc.Sides {
		if side.Name == "" {
			return fmt.Errorf("%w: side without a name", ErrInvalidScenario)
		}
		if names[side.Name] {
			return fmt.Errorf("%w: duplicate side %q", ErrInvalidScenario, side.Name)
		}
		names[side.Name] = true
		kind, ok := world.ParsePlayerKind(side.Kind)
		if !ok || kind == world.KindBarbarian {
			return fmt.Errorf("%w: side %q has kind %q", ErrInvalidScenario, side.Name, side.Kind)
		}
		for _, u := range side.Units {
			if _, ok := world.ParseUnitClass(u.Class); !ok {
				return fmt.Errorf("%w: side %q has unit class %q", ErrInvalidScenario, side.Name, u.Class)
			}
		}
	}
	for _, group := range [][][]string{sc.Wars, sc.OpenBorders} {
		for _, pair := range group {
			if len(pair) != 2 || !names[pair[0]] || !names[pair[1]] || pair[0] == pair[1] {
				return fmt.Errorf("%w: bad side pair %v", ErrInvalidScenario, pair)
			}
		}
	}
	if sc.Tactical.CitySiegeDivisor <= 0 {
		return fmt.Errorf("%w: city_siege_divisor must be positive", ErrInvalidScenario)
	}
	return nil
}

// GenConfig converts the map section for world.Generate.
func (sc *Scenario) GenConfig() world.GenConfig {
	cfg := world.DefaultGenConfig()
	cfg.Width = sc.Map.Width
	cfg.Height = sc.Map.Height
	cfg.Seed = sc.Seed
	if sc.Map.SeaLevel > 0 {
		cfg.SeaLevel = sc.Map.SeaLevel
	}
	if sc.Map.HillLevel > 0 {
		cfg.HillLevel = sc.Map.HillLevel
	}
	if sc.Map.MountainLevel > 0 {
		cfg.MountainLvl = sc.Map.MountainLevel
	}
	return cfg
}
