package tactical

import (
	"github.com/talgya/hexwar/internal/world"
)

// Zone posture moves. Each runs once per zone whose resolved posture
// matches the move.

func withdraw(x *moveContext) int {
	cities := x.friendlyCities()
	n := 0
	for _, u := range x.eligible() {
		if !u.IsCombat() || !x.inZone(u) {
			continue
		}
		if home, ok := nearestCoord(u.Coord, cities); ok && home != u.Coord {
			if x.moveToward(u, home, 0) {
				n++
				continue
			}
		}
		dest, d := x.safestTile(u)
		if dest != u.Coord && d < x.danger(u.Coord) && x.commit(u, world.MissionMoveTo, dest, x.move) {
			n++
		}
	}
	return n
}

func (p *turnPass) friendlyCities() []world.HexCoord {
	var out []world.HexCoord
	for _, t := range p.targets.OfType(TargetCityToDefend) {
		out = append(out, t.Coord)
	}
	return out
}

func nearestCoord(from world.HexCoord, options []world.HexCoord) (world.HexCoord, bool) {
	best, bestDist := from, -1
	for _, c := range options {
		if d := world.Distance(from, c); bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist >= 0
}

func sitAndBombard(x *moveContext) int {
	n := 0
	for _, t := range x.targets.InZone(x.zone, append([]TargetType{TargetCity}, unitTiers...)...) {
		n += x.bombard(t, false, nil)
	}
	for _, u := range x.eligible() {
		if u.IsCombat() && !u.CanRangeAttack() && isLand(u) && x.inZone(u) {
			if x.commit(u, world.MissionFortify, u.Coord, x.move) {
				n++
			}
		}
	}
	return n
}

func attritFromRange(x *moveContext) int {
	n := 0
	for _, t := range x.targets.InZone(x.zone, unitTiers...) {
		n += x.bombard(t, false, nil)
	}
	return n
}

// flankers counts this side's combat units adjacent to c.
func (p *turnPass) flankers(c world.HexCoord) int {
	n := 0
	for _, nb := range c.Neighbors() {
		if cell := p.grid.Cell(nb); cell != nil && cell.FriendlyMilitary != 0 {
			n++
		}
	}
	return n
}

func exploitFlanks(x *moveContext) int {
	n := 0
	for _, t := range x.targets.InZone(x.zone, unitTiers...) {
		if x.flankers(t.Coord) < 2 {
			continue
		}
		required := x.deps.Combat.TargetHealth(t.Coord)
		n += x.assault(t, required, x.attrition, assaultOpts{})
	}
	return n
}

func steamroll(x *moveContext) int {
	n := 0
	for _, t := range x.targets.InZone(x.zone, unitTiers...) {
		required := x.deps.Combat.TargetHealth(t.Coord)
		n += x.assault(t, required, x.attrition, assaultOpts{})
	}
	return n + surgicalCityStrike(x)
}

func surgicalCityStrike(x *moveContext) int {
	n := 0
	for _, t := range x.targets.InZone(x.zone, TargetCity) {
		required := x.deps.Combat.TargetHealth(t.Coord)
		if c := x.assault(t, required, mustKill, assaultOpts{needMelee: true, filter: isLand}); c > 0 {
			n += c
			continue
		}
		n += x.assault(t, required, x.citySiege, assaultOpts{})
	}
	return n
}

func hedgehog(x *moveContext) int {
	n := 0
	for _, u := range x.eligible() {
		if !u.IsCombat() || !isLand(u) || !x.inZone(u) {
			continue
		}
		mt := world.MissionFortify
		if city := x.deps.World.CityAt(u.Coord); city != nil && city.Owner == x.player.ID {
			mt = world.MissionGarrison
		}
		if x.commit(u, mt, u.Coord, x.move) {
			n++
		}
	}
	return n
}

func counterAttack(x *moveContext) int {
	n := 0
	for _, t := range x.targets.InZone(x.zone, unitTiers...) {
		required := x.deps.Combat.TargetHealth(t.Coord)
		n += x.assault(t, required, x.attrition, assaultOpts{})
	}
	return n
}

func shoreBombardment(x *moveContext) int {
	n := 0
	for _, t := range x.targets.InZone(nil, append([]TargetType{TargetCity}, unitTiers...)...) {
		z := x.grid.ZoneAt(t.Coord)
		if z == nil {
			continue
		}
		if z.ID != x.zone.ID && (x.zone.CityID == 0 || z.CityID != x.zone.CityID) {
			continue
		}
		n += x.bombard(t, false, isNaval)
	}
	return n
}
