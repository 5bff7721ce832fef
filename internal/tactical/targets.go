package tactical

import (
	"log/slog"
	"sort"

	"github.com/talgya/hexwar/internal/pathing"
	"github.com/talgya/hexwar/internal/world"
)

// TargetType tags a point of tactical interest.
type TargetType uint8

const (
	TargetNone TargetType = iota
	TargetCity
	TargetCityToDefend
	TargetImprovement
	TargetImprovementToDefend
	TargetDefensiveBastion
	TargetLowPriorityUnit
	TargetMediumPriorityUnit
	TargetHighPriorityUnit
	TargetBarbarianCamp
	TargetAncientRuins
	TargetCitadel
	TargetBlockadeResourcePoint
	TargetVeryHighPriorityCivilian
	TargetHighPriorityCivilian
	TargetMediumPriorityCivilian
	TargetLowPriorityCivilian
	TargetEmbarkedMilitaryUnit
	TargetEmbarkedCivilian
	TargetTradeUnitLand
	TargetTradeUnitSea
)

type targetInfo struct {
	name     string
	unit     bool // Target is an enemy combat unit
	civilian bool // Target is an enemy non-combat unit
}

var targetTable = [...]targetInfo{
	TargetNone:                     {name: "none"},
	TargetCity:                     {name: "city"},
	TargetCityToDefend:             {name: "city_to_defend"},
	TargetImprovement:              {name: "improvement"},
	TargetImprovementToDefend:      {name: "improvement_to_defend"},
	TargetDefensiveBastion:         {name: "defensive_bastion"},
	TargetLowPriorityUnit:          {name: "low_priority_unit", unit: true},
	TargetMediumPriorityUnit:       {name: "medium_priority_unit", unit: true},
	TargetHighPriorityUnit:         {name: "high_priority_unit", unit: true},
	TargetBarbarianCamp:            {name: "barbarian_camp"},
	TargetAncientRuins:             {name: "ancient_ruins"},
	TargetCitadel:                  {name: "citadel"},
	TargetBlockadeResourcePoint:    {name: "blockade_resource_point"},
	TargetVeryHighPriorityCivilian: {name: "very_high_priority_civilian", civilian: true},
	TargetHighPriorityCivilian:     {name: "high_priority_civilian", civilian: true},
	TargetMediumPriorityCivilian:   {name: "medium_priority_civilian", civilian: true},
	TargetLowPriorityCivilian:      {name: "low_priority_civilian", civilian: true},
	TargetEmbarkedMilitaryUnit:     {name: "embarked_military_unit", unit: true},
	TargetEmbarkedCivilian:         {name: "embarked_civilian", civilian: true},
	TargetTradeUnitLand:            {name: "trade_unit_land", civilian: true},
	TargetTradeUnitSea:             {name: "trade_unit_sea", civilian: true},
}

func (t TargetType) String() string {
	if int(t) < len(targetTable) {
		return targetTable[t].name
	}
	return "unknown"
}

// MarshalText encodes the target type by name.
func (t TargetType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// IsUnit reports whether the target is an enemy combat unit.
func (t TargetType) IsUnit() bool {
	return int(t) < len(targetTable) && targetTable[t].unit
}

// IsCivilian reports whether the target is an enemy non-combat unit.
func (t TargetType) IsCivilian() bool {
	return int(t) < len(targetTable) && targetTable[t].civilian
}

// Target is one catalogued point of interest.
type Target struct {
	Type   TargetType     `json:"type"`
	Coord  world.HexCoord `json:"coord"`
	CityID world.CityID   `json:"city_id,omitempty"`
	UnitID world.UnitID   `json:"unit_id,omitempty"`
	Threat int            `json:"threat"`
	Zone   ZoneID         `json:"zone"`
}

// Catalogue is the turn's ranked target list, ascending by threat.
type Catalogue struct {
	targets []Target
}

// All returns every target in processing order.
func (c *Catalogue) All() []Target {
	return c.targets
}

// Len returns the number of targets.
func (c *Catalogue) Len() int {
	return len(c.targets)
}

// OfType returns the targets of the given types, in processing order.
func (c *Catalogue) OfType(types ...TargetType) []Target {
	var out []Target
	for _, t := range c.targets {
		for _, want := range types {
			if t.Type == want {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

// InZone is OfType restricted to a zone. A nil zone matches every target.
func (c *Catalogue) InZone(z *DominanceZone, types ...TargetType) []Target {
	all := c.OfType(types...)
	if z == nil {
		return all
	}
	out := all[:0]
	for _, t := range all {
		if t.Zone == z.ID {
			out = append(out, t)
		}
	}
	return out
}

// At returns the target at c, if one is catalogued.
func (c *Catalogue) At(coord world.HexCoord) (Target, bool) {
	for _, t := range c.targets {
		if t.Coord == coord {
			return t, true
		}
	}
	return Target{}, false
}

// remove drops the target at coord, used once an attack claims it.
func (c *Catalogue) remove(coord world.HexCoord) {
	out := c.targets[:0]
	for _, t := range c.targets {
		if t.Coord != coord {
			out = append(out, t)
		}
	}
	c.targets = out
}

// targetScanner classifies every visible coordinate for one side.
type targetScanner struct {
	cfg    Config
	deps   Deps
	grid   *AnalysisMap
	player *world.Player
	turn   int
	queued func(world.HexCoord) bool
}

func (s *targetScanner) atWar(other world.PlayerID) bool {
	return other != world.NoPlayer && other != s.player.ID && s.deps.Diplomacy.AtWar(s.player.ID, other)
}

func (s *targetScanner) civilians() CivilianRanker {
	if s.deps.Civilians != nil {
		return s.deps.Civilians
	}
	return DefaultCivilianRanker{}
}

// scan builds the catalogue: classify, post-process, sort.
func (s *targetScanner) scan() *Catalogue {
	cat := &Catalogue{}
	early := s.player.IsBarbarian() && s.turn < s.cfg.BarbarianEarlyTurn
	for _, t := range s.deps.World.Map().Tiles() {
		if !t.IsVisible(s.player.ID) {
			continue
		}
		if early && t.Owner != world.NoPlayer {
			continue
		}
		if s.queued(t.Coord) {
			continue
		}
		target, ok := s.classify(t)
		if !ok {
			continue
		}
		target.Coord = t.Coord
		target.Zone = NoZone
		if z := s.grid.ZoneAt(t.Coord); z != nil {
			target.Zone = z.ID
		}
		cat.targets = append(cat.targets, target)
	}

	s.promoteRanged(cat)
	s.promoteFortified(cat)
	s.promoteThreatsTo(cat)

	sort.SliceStable(cat.targets, func(i, j int) bool {
		return cat.targets[i].Threat < cat.targets[j].Threat
	})
	slog.Debug("targets catalogued", "side", s.player.ID, "turn", s.turn, "targets", len(cat.targets))
	return cat
}

// classify returns the single target a tile represents, matching in
// priority order.
func (s *targetScanner) classify(t *world.Tile) (Target, bool) {
	w := s.deps.World
	fight := s.deps.Combat
	side := s.player.ID

	if city := w.CityAt(t.Coord); city != nil {
		switch {
		case city.Owner == side:
			return Target{
				Type:   TargetCityToDefend,
				CityID: city.ID,
				Threat: s.danger(t.Coord),
			}, true
		case s.atWar(city.Owner):
			return Target{Type: TargetCity, CityID: city.ID, Threat: fight.CityStrength(city)}, true
		}
		return Target{}, false
	}

	mil := w.MilitaryUnitAt(t.Coord)
	if mil != nil && s.atWar(mil.Owner) && !mil.Embarked {
		return Target{
			Type:   TargetLowPriorityUnit,
			UnitID: mil.ID,
			Threat: fight.Strength(mil) + fight.RangedStrength(mil),
		}, true
	}

	if tt, ok := s.improvementTarget(t, mil); ok {
		return Target{Type: tt}, true
	}

	if mil != nil && mil.Embarked && s.atWar(mil.Owner) {
		return Target{Type: TargetEmbarkedMilitaryUnit, UnitID: mil.ID, Threat: fight.Strength(mil)}, true
	}
	if civ := w.CivilianUnitAt(t.Coord); civ != nil && s.atWar(civ.Owner) {
		target := Target{UnitID: civ.ID}
		switch {
		case civ.Embarked:
			target.Type = TargetEmbarkedCivilian
		case civ.Class == world.ClassTrade && civ.Domain == world.DomainSea:
			target.Type = TargetTradeUnitSea
		case civ.Class == world.ClassTrade:
			target.Type = TargetTradeUnitLand
		default:
			target.Type = s.civilians().CivilianPriority(civ)
		}
		return target, true
	}

	if t.Owner == side && !t.IsWater() {
		danger := s.danger(t.Coord)
		switch {
		case danger >= s.cfg.BastionDanger && t.DefenseModifier() >= s.cfg.BastionDefense:
			return Target{Type: TargetDefensiveBastion, Threat: danger}, true
		case t.Improvement.IsPillageable() && !t.Pillaged && danger > 0:
			return Target{Type: TargetImprovementToDefend, Threat: danger}, true
		}
	}
	return Target{}, false
}

func (s *targetScanner) improvementTarget(t *world.Tile, defender *world.Unit) (TargetType, bool) {
	switch t.Improvement {
	case world.ImprovementBarbarianCamp:
		if !s.player.IsBarbarian() && defender == nil {
			return TargetBarbarianCamp, true
		}
		return TargetNone, false
	case world.ImprovementAncientRuins:
		return TargetAncientRuins, true
	}
	if t.Pillaged || !s.atWar(t.Owner) {
		return TargetNone, false
	}
	switch {
	case t.Improvement.IsDefensive():
		return TargetCitadel, true
	case !t.Improvement.IsPillageable():
		return TargetNone, false
	case t.Improvement.IsWaterImprovement():
		return TargetBlockadeResourcePoint, true
	case t.Resource == world.ResourceStrategic || t.Resource == world.ResourceLuxury || s.player.IsBarbarian():
		return TargetImprovement, true
	}
	return TargetNone, false
}

func (s *targetScanner) danger(c world.HexCoord) int {
	if s.deps.Danger == nil {
		return 0
	}
	return s.deps.Danger.Danger(s.player.ID, c)
}

// promoteRanged re-tags unit targets able to strike from range.
func (s *targetScanner) promoteRanged(cat *Catalogue) {
	for i := range cat.targets {
		t := &cat.targets[i]
		if t.Type != TargetLowPriorityUnit && t.Type != TargetHighPriorityUnit {
			continue
		}
		if u := s.deps.World.Unit(t.UnitID); u != nil && u.CanRangeAttack() {
			t.Type = TargetMediumPriorityUnit
		}
	}
}

// promoteFortified raises units holding a fort or citadel.
func (s *targetScanner) promoteFortified(cat *Catalogue) {
	grid := s.deps.World.Map()
	for i := range cat.targets {
		t := &cat.targets[i]
		if t.Type != TargetLowPriorityUnit && t.Type != TargetMediumPriorityUnit {
			continue
		}
		if tile := grid.Get(t.Coord); tile != nil && tile.Improvement.IsDefensive() && !tile.Pillaged {
			t.Type = TargetHighPriorityUnit
		}
	}
}

// promoteThreatsTo raises enemy units that can reach or outrange what
// this side must hold: barbarian camps for barbarians, cities otherwise.
func (s *targetScanner) promoteThreatsTo(cat *Catalogue) {
	var holds []world.HexCoord
	if s.player.IsBarbarian() {
		for _, t := range s.deps.World.Map().Tiles() {
			if t.Improvement == world.ImprovementBarbarianCamp {
				holds = append(holds, t.Coord)
			}
		}
	} else {
		for _, t := range cat.targets {
			if t.Type == TargetCityToDefend {
				holds = append(holds, t.Coord)
			}
		}
	}
	if len(holds) == 0 {
		return
	}
	opts := pathing.Options{IgnoreUnits: true}
	for i := range cat.targets {
		t := &cat.targets[i]
		if !t.Type.IsUnit() || t.Type == TargetEmbarkedMilitaryUnit {
			continue
		}
		u := s.deps.World.Unit(t.UnitID)
		if u == nil {
			continue
		}
		for _, h := range holds {
			if (u.CanRangeAttack() && world.Distance(u.Coord, h) <= u.Range) ||
				s.deps.Paths.CanReach(u, h, 1, opts) {
				t.Type = TargetHighPriorityUnit
				break
			}
		}
	}
}
