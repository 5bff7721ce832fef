// Package tactical is the per-turn combat decision engine. Each turn it
// rebuilds a dominance grid for one side, catalogues targets, orders the
// move agenda and commits one mission per recruit-eligible unit.
package tactical

import (
	"github.com/talgya/hexwar/internal/diplomacy"
	"github.com/talgya/hexwar/internal/entropy"
	"github.com/talgya/hexwar/internal/pathing"
	"github.com/talgya/hexwar/internal/world"
)

// World is the read side of the world model plus its order queue.
type World interface {
	Turn() int
	Map() *world.Map
	Player(id world.PlayerID) *world.Player
	Players() []*world.Player
	Units() []*world.Unit
	UnitsOf(p world.PlayerID) []*world.Unit
	Unit(id world.UnitID) *world.Unit
	City(id world.CityID) *world.City
	CityAt(c world.HexCoord) *world.City
	MilitaryUnitAt(c world.HexCoord) *world.Unit
	CivilianUnitAt(c world.HexCoord) *world.Unit

	PushMission(id world.UnitID, m world.Mission) error
	MarkProcessed(id world.UnitID, turn int) error
}

// Pathfinder answers reachability questions. Implementations pick the
// movement profile from the unit itself.
type Pathfinder interface {
	Path(u *world.Unit, goal world.HexCoord, opts pathing.Options) ([]world.HexCoord, int, bool)
	TurnsTo(u *world.Unit, goal world.HexCoord, opts pathing.Options) (int, bool)
	CanReach(u *world.Unit, goal world.HexCoord, maxTurns int, opts pathing.Options) bool
	Reachable(u *world.Unit, maxTurns int, opts pathing.Options) map[world.HexCoord]int
}

// Diplomacy is consumed read-only.
type Diplomacy interface {
	AtWar(a, b world.PlayerID) bool
	OpenBorders(a, b world.PlayerID) bool
	Trend(p world.PlayerID) diplomacy.Trend
}

// DangerModel scores how exposed a tile is for a side.
type DangerModel interface {
	Danger(side world.PlayerID, c world.HexCoord) int
}

// Combat is the unit combat facade. All numbers are computed externally.
type Combat interface {
	Strength(u *world.Unit) int
	RangedStrength(u *world.Unit) int
	CityStrength(c *world.City) int
	ExpectedDamage(attacker *world.Unit, target world.HexCoord) int
	ExpectedDamageTaken(attacker *world.Unit, target world.HexCoord) int
	TargetHealth(target world.HexCoord) int
}

// CivilianRanker tiers enemy civilians for capture.
type CivilianRanker interface {
	CivilianPriority(u *world.Unit) TargetType
}

// Deps bundles the collaborators the AI consumes.
type Deps struct {
	World     World
	Paths     Pathfinder
	Diplomacy Diplomacy
	Danger    DangerModel
	Combat    Combat
	Random    *entropy.Streams

	// Civilians is optional; DefaultCivilianRanker is used when nil.
	Civilians CivilianRanker
}

// DefaultCivilianRanker ranks great people highest, then settlers, then
// workers; anything else is low priority.
type DefaultCivilianRanker struct{}

// CivilianPriority implements CivilianRanker.
func (DefaultCivilianRanker) CivilianPriority(u *world.Unit) TargetType {
	switch u.Class {
	case world.ClassGreatPerson:
		return TargetVeryHighPriorityCivilian
	case world.ClassSettler:
		return TargetHighPriorityCivilian
	case world.ClassWorker:
		return TargetMediumPriorityCivilian
	default:
		return TargetLowPriorityCivilian
	}
}
