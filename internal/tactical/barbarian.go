package tactical

import (
	"github.com/talgya/hexwar/internal/pathing"
	"github.com/talgya/hexwar/internal/world"
)

func addBarbarianStrategies(s map[MoveType]strategy) {
	s[MoveBarbarianCaptureCity] = captureCities
	s[MoveBarbarianDamageCity] = damageCities
	s[MoveBarbarianDestroyHighUnit] = destroyUnits(TargetHighPriorityUnit)
	s[MoveBarbarianDestroyMediumUnit] = destroyUnits(TargetMediumPriorityUnit)
	s[MoveBarbarianDestroyLowUnit] = destroyUnits(TargetLowPriorityUnit)
	s[MoveBarbarianToSafety] = moveToSafety
	s[MoveBarbarianAttritHighUnit] = attritUnits(TargetHighPriorityUnit)
	s[MoveBarbarianAttritMediumUnit] = attritUnits(TargetMediumPriorityUnit)
	s[MoveBarbarianAttritLowUnit] = attritUnits(TargetLowPriorityUnit)
	s[MoveBarbarianPillage] = pillage(TargetImprovement, world.DomainLand)
	s[MoveBarbarianPillageCitadel] = pillage(TargetCitadel, world.DomainLand)
	s[MoveBarbarianBlockadeResource] = pillage(TargetBlockadeResourcePoint, world.DomainSea)
	s[MoveBarbarianCivilianAttack] = attackCivilians
	s[MoveBarbarianPlunderTradeUnit] = plunderTradeUnits
	s[MoveBarbarianGuardCamp] = guardCamps
	s[MoveBarbarianCampDefense] = defendCamps
	s[MoveBarbarianEscortCivilian] = escortCivilians
	s[MoveBarbarianDesperateAttack] = desperateAttack
	s[MoveBarbarianAggressiveMove] = wanderAggressive
	s[MoveBarbarianPassiveMove] = wanderPassive
}

func (p *turnPass) camps() []world.HexCoord {
	var out []world.HexCoord
	for _, t := range p.deps.World.Map().Tiles() {
		if t.Improvement == world.ImprovementBarbarianCamp {
			out = append(out, t.Coord)
		}
	}
	return out
}

func plunderTradeUnits(x *moveContext) int {
	n := captureWithOne(x, x.targets.InZone(x.zone, TargetTradeUnitLand), isLand)
	return n + captureWithOne(x, x.targets.InZone(x.zone, TargetTradeUnitSea), isNaval)
}

// guardCamps keeps one unit sitting on each camp.
func guardCamps(x *moveContext) int {
	n := 0
	for _, c := range x.camps() {
		u := x.deps.World.MilitaryUnitAt(c)
		if u == nil || u.Owner != x.player.ID || !x.pool.Contains(u.ID) {
			continue
		}
		if x.commit(u, world.MissionFortify, c, x.move) {
			n++
		}
	}
	return n
}

// defendCamps sends a unit to an unguarded camp with enemies nearby.
func defendCamps(x *moveContext) int {
	n := 0
	for _, c := range x.camps() {
		if x.deps.World.MilitaryUnitAt(c) != nil {
			continue
		}
		if cell := x.grid.Cell(c); cell != nil && cell.Processed {
			continue
		}
		if !x.enemyWithin(c, x.cfg.CampGuardRadius) {
			continue
		}
		u, _ := x.nearestReacher(c, 1, func(u *world.Unit) bool { return u.IsCombat() && isLand(u) })
		if u != nil && x.commit(u, world.MissionMoveTo, c, x.move) {
			n++
		}
	}
	return n
}

func (p *turnPass) enemyWithin(c world.HexCoord, radius int) bool {
	for _, id := range p.grid.EnemyUnits() {
		if u := p.deps.World.Unit(id); u != nil && u.IsCombat() && world.Distance(u.Coord, c) <= radius {
			return true
		}
	}
	return false
}

// escortCivilians walks captured civilians toward the nearest camp and
// sends the closest combat unit along to share the tile.
func escortCivilians(x *moveContext) int {
	camps := x.camps()
	n := 0
	for _, civ := range x.eligible() {
		if civ.IsCombat() {
			continue
		}
		camp, ok := nearestCoord(civ.Coord, camps)
		if !ok || camp == civ.Coord {
			continue
		}
		dest, ok := x.stepToward(civ, camp, 0)
		if !ok || !x.commit(civ, world.MissionMoveTo, dest, x.move) {
			continue
		}
		n++
		if x.deps.World.MilitaryUnitAt(dest) != nil {
			continue
		}
		escort, _ := x.nearestReacher(dest, x.cfg.EscortSearchTurn, func(u *world.Unit) bool {
			return u.IsCombat() && u.Domain == civ.Domain
		})
		if escort != nil && x.commit(escort, world.MissionMoveTo, dest, x.move) {
			n++
		}
	}
	return n
}

// desperateAttack throws every unit next to an enemy at the weakest
// adjacent enemy, whatever the odds.
func desperateAttack(x *moveContext) int {
	n := 0
	for _, u := range x.eligible() {
		if !u.IsCombat() || u.Embarked {
			continue
		}
		var target world.HexCoord
		weakest := -1
		for _, nb := range u.Coord.Neighbors() {
			cell := x.grid.Cell(nb)
			if cell == nil || cell.EnemyMilitary == 0 {
				continue
			}
			if h := x.deps.Combat.TargetHealth(nb); weakest < 0 || h < weakest {
				target, weakest = nb, h
			}
		}
		if weakest < 0 {
			continue
		}
		mt := world.MissionAttack
		if u.CanRangeAttack() {
			mt = world.MissionRangeAttack
		}
		if x.commit(u, mt, target, x.move) {
			n++
		}
	}
	return n
}

func wanderAggressive(x *moveContext) int {
	n := 0
	for _, u := range x.eligible() {
		if !u.IsCombat() {
			continue
		}
		if dest, ok := x.bestBarbarianMove(u); ok && x.commit(u, world.MissionMoveTo, dest, x.move) {
			n++
		}
	}
	return n
}

// wanderPassive drifts units back toward camp; units already beside a
// camp, or with no camp at all, explore.
func wanderPassive(x *moveContext) int {
	camps := x.camps()
	n := 0
	for _, u := range x.eligible() {
		if !u.IsCombat() {
			continue
		}
		if camp, ok := nearestCoord(u.Coord, camps); ok && world.Distance(u.Coord, camp) > 1 {
			if x.moveToward(u, camp, 0) {
				n++
				continue
			}
		}
		if dest, ok := x.exploreMove(u, x.deps.Paths.Reachable(u, 1, pathing.Options{})); ok &&
			x.commit(u, world.MissionMoveTo, dest, x.move) {
			n++
		}
	}
	return n
}

// wanderTargets are the catalogue entries barbarians steer toward.
var wanderTargets = []TargetType{
	TargetCity,
	TargetLowPriorityUnit,
	TargetMediumPriorityUnit,
	TargetHighPriorityUnit,
	TargetImprovement,
	TargetCitadel,
	TargetBlockadeResourcePoint,
	TargetVeryHighPriorityCivilian,
	TargetHighPriorityCivilian,
	TargetMediumPriorityCivilian,
	TargetLowPriorityCivilian,
	TargetEmbarkedCivilian,
	TargetEmbarkedMilitaryUnit,
	TargetTradeUnitLand,
	TargetTradeUnitSea,
}

// bestBarbarianMove picks where a wandering barbarian goes, falling back
// through three tiers: the nearest unclaimed target in range, the tile
// beside the busiest trade-route crossing in reach, then exploration.
func (x *moveContext) bestBarbarianMove(u *world.Unit) (world.HexCoord, bool) {
	if dest, ok := x.steerToTarget(u); ok {
		return dest, true
	}
	reach := x.deps.Paths.Reachable(u, 1, pathing.Options{})
	if dest, ok := x.steerToTradeRoute(u, reach); ok {
		return dest, true
	}
	return x.exploreMove(u, reach)
}

func (x *moveContext) steerToTarget(u *world.Unit) (world.HexCoord, bool) {
	limit := x.cfg.barbarianRange(x.player.Handicap)
	grid := x.deps.World.Map()
	naval := u.Domain == world.DomainSea
	var best *Target
	bestDist := limit + 1
	targets := x.targets.OfType(wanderTargets...)
	for i := range targets {
		t := &targets[i]
		if x.claimed[t.Coord] || x.ai.isQueued(x.player.ID, x.turn, t.Coord) {
			continue
		}
		if tile := grid.Get(t.Coord); tile == nil || tile.IsWater() != naval {
			continue
		}
		if d := world.Distance(u.Coord, t.Coord); d < bestDist {
			best, bestDist = t, d
		}
	}
	if best == nil {
		return u.Coord, false
	}
	dest, ok := x.stepToward(u, best.Coord, 0)
	if !ok {
		return u.Coord, false
	}
	x.claimed[best.Coord] = true
	return dest, true
}

func (x *moveContext) steerToTradeRoute(u *world.Unit, reach map[world.HexCoord]int) (world.HexCoord, bool) {
	grid := x.deps.World.Map()
	var crossing *world.Tile
	for _, c := range sortedCoords(reach) {
		t := grid.Get(c)
		if t == nil || t.TradeRoutes == 0 {
			continue
		}
		if crossing == nil || t.TradeRoutes > crossing.TradeRoutes ||
			(t.TradeRoutes == crossing.TradeRoutes && world.Distance(u.Coord, c) < world.Distance(u.Coord, crossing.Coord)) {
			crossing = t
		}
	}
	if crossing == nil {
		return u.Coord, false
	}
	best, bestDist := u.Coord, -1
	for _, nb := range crossing.Coord.Neighbors() {
		if _, ok := reach[nb]; !ok || nb == u.Coord || !x.canStop(u, nb) {
			continue
		}
		if d := world.Distance(u.Coord, nb); bestDist < 0 || d < bestDist ||
			(d == bestDist && (nb.R < best.R || (nb.R == best.R && nb.Q < best.Q))) {
			best, bestDist = nb, d
		}
	}
	return best, bestDist >= 0
}

// exploreMove scores each reachable tile by the unrevealed tiles around
// it, plus a bonus for owned land. Distance breaks ties.
func (x *moveContext) exploreMove(u *world.Unit, reach map[world.HexCoord]int) (world.HexCoord, bool) {
	grid := x.deps.World.Map()
	best, bestScore, bestDist := u.Coord, -1, -1
	for _, c := range sortedCoords(reach) {
		if c == u.Coord || !x.canStop(u, c) {
			continue
		}
		score := x.explorationValue(c)
		if t := grid.Get(c); t != nil && t.Owner != world.NoPlayer {
			score += x.cfg.OwnedTileBonus
		}
		dist := world.Distance(u.Coord, c)
		if score > bestScore || (score == bestScore && dist > bestDist) {
			best, bestScore, bestDist = c, score, dist
		}
	}
	return best, bestScore >= 0
}

func (x *moveContext) explorationValue(c world.HexCoord) int {
	grid := x.deps.World.Map()
	n := 0
	for _, s := range world.Spiral(c, x.cfg.ExploreRadius) {
		if t := grid.Get(s); t != nil && !t.IsRevealed(x.player.ID) {
			n++
		}
	}
	return n
}
