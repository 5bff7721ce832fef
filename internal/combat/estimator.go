// Package combat estimates strengths and expected damage. It is the black
// box the tactical layer asks "how strong is this unit" and "what would
// this attack do"; it never resolves combat itself.
package combat

import (
	"math"

	"github.com/talgya/hexwar/internal/world"
)

const (
	// baseDamage is the damage dealt between equally strong combatants.
	baseDamage = 30
	// maxDamage caps a single attack.
	maxDamage = 100
	// fortifyBonus is the percentage defense bonus for fortified units.
	fortifyBonus = 25
	// embarkedDefense replaces the strength of an embarked land unit.
	embarkedDefense = 3
)

// Estimator computes strengths against the current world state.
type Estimator struct {
	state *world.State
}

// New creates an estimator over a world.
func New(state *world.State) *Estimator {
	return &Estimator{state: state}
}

// healthScaled reduces strength for damaged units: a unit at half health
// fights at three quarters strength.
func healthScaled(base, health, maxHealth int) int {
	if base <= 0 || maxHealth <= 0 {
		return 0
	}
	pct := health * 100 / maxHealth
	return max(1, base*(50+pct/2)/100)
}

// Strength returns a unit's current melee strength.
func (e *Estimator) Strength(u *world.Unit) int {
	if u.Embarked {
		return healthScaled(embarkedDefense, u.Health, u.MaxHealth)
	}
	return healthScaled(u.Strength, u.Health, u.MaxHealth)
}

// RangedStrength returns a unit's current ranged strength, or 0.
func (e *Estimator) RangedStrength(u *world.Unit) int {
	if !u.CanRangeAttack() {
		return 0
	}
	return healthScaled(u.RangedStrength, u.Health, u.MaxHealth)
}

// DefenseStrength returns a unit's strength when defending its tile.
func (e *Estimator) DefenseStrength(u *world.Unit) int {
	str := e.Strength(u)
	mod := 0
	if t := e.state.WorldMap.Get(u.Coord); t != nil && !u.Embarked {
		mod += t.DefenseModifier()
	}
	if u.Fortified {
		mod += fortifyBonus
	}
	return max(1, str*(100+mod)/100)
}

// CityStrength returns a city's current defensive strength.
func (e *Estimator) CityStrength(c *world.City) int {
	str := healthScaled(c.Strength, c.Health, c.MaxHealth)
	if t := e.state.WorldMap.Get(c.Coord); t != nil {
		str = str * (100 + t.Terrain.DefenseModifier()) / 100
	}
	return max(1, str)
}

// attackStrength is the strength the attacker brings against target.
func (e *Estimator) attackStrength(attacker *world.Unit, target world.HexCoord) int {
	if attacker.CanRangeAttack() && world.Distance(attacker.Coord, target) <= attacker.Range {
		str := e.RangedStrength(attacker)
		if e.state.CityAt(target) != nil && attacker.HasPromotion(world.PromotionCityAssault) {
			str = str * 150 / 100
		}
		return str
	}
	str := e.Strength(attacker)
	if e.state.CityAt(target) != nil && attacker.HasPromotion(world.PromotionCityAssault) {
		str = str * 150 / 100
	}
	return str
}

// defenderStrength is the strength of whatever defends target, or 0 when
// the tile is undefended.
func (e *Estimator) defenderStrength(target world.HexCoord) int {
	if c := e.state.CityAt(target); c != nil {
		return e.CityStrength(c)
	}
	if u := e.state.MilitaryUnitAt(target); u != nil {
		return e.DefenseStrength(u)
	}
	return 0
}

// ExpectedDamage returns the damage attacker would inflict on the defender
// of target this turn.
func (e *Estimator) ExpectedDamage(attacker *world.Unit, target world.HexCoord) int {
	atk := e.attackStrength(attacker, target)
	def := e.defenderStrength(target)
	if atk <= 0 {
		return 0
	}
	if def <= 0 {
		return maxDamage
	}
	return damageFor(atk, def)
}

// ExpectedDamageTaken returns the damage attacker would suffer in return.
// Ranged attacks suffer none.
func (e *Estimator) ExpectedDamageTaken(attacker *world.Unit, target world.HexCoord) int {
	if attacker.CanRangeAttack() && world.Distance(attacker.Coord, target) <= attacker.Range {
		return 0
	}
	def := e.defenderStrength(target)
	if def <= 0 {
		return 0
	}
	return damageFor(def, max(1, e.Strength(attacker)))
}

// TargetHealth returns the remaining hit points of whatever defends target.
func (e *Estimator) TargetHealth(target world.HexCoord) int {
	if c := e.state.CityAt(target); c != nil {
		return c.Health
	}
	if u := e.state.MilitaryUnitAt(target); u != nil {
		return u.Health
	}
	if u := e.state.CivilianUnitAt(target); u != nil {
		return u.Health
	}
	return 0
}

// damageFor maps a strength ratio onto expected damage: equal strengths
// deal baseDamage, doubling the ratio roughly doubles the damage.
func damageFor(atk, def int) int {
	ratio := float64(atk) / float64(def)
	dmg := float64(baseDamage) * math.Pow(ratio, 1.2)
	return int(math.Max(1, math.Min(maxDamage, math.Round(dmg))))
}
