package tactical

import (
	"github.com/talgya/hexwar/internal/pathing"
	"github.com/talgya/hexwar/internal/world"
)

// buildStrategies returns the dispatch table. Moves missing from it are
// logged and skipped.
func buildStrategies() map[MoveType]strategy {
	s := map[MoveType]strategy{
		MoveCaptureCity:                  captureCities,
		MoveDamageCity:                   damageCities,
		MoveDestroyHighUnit:              destroyUnits(TargetHighPriorityUnit),
		MoveDestroyMediumUnit:            destroyUnits(TargetMediumPriorityUnit),
		MoveDestroyLowUnit:               destroyUnits(TargetLowPriorityUnit),
		MoveToSafety:                     moveToSafety,
		MoveAttritHighUnit:               attritUnits(TargetHighPriorityUnit),
		MoveAttritMediumUnit:             attritUnits(TargetMediumPriorityUnit),
		MoveAttritLowUnit:                attritUnits(TargetLowPriorityUnit),
		MoveReposition:                   reposition,
		MoveBarbarianCamp:                clearCamps,
		MovePillage:                      pillage(TargetImprovement, world.DomainLand),
		MoveCivilianAttack:               attackCivilians,
		MoveSafeBombards:                 safeBombards,
		MoveHeal:                         heal,
		MoveAncientRuins:                 ancientRuins,
		MoveGarrisonAlreadyThere:         holdInPlace(TargetCityToDefend, world.MissionGarrison),
		MoveBastionAlreadyThere:          holdInPlace(TargetDefensiveBastion, world.MissionFortify),
		MoveGuardImprovementAlreadyThere: holdInPlace(TargetImprovementToDefend, world.MissionFortify),
		MoveGarrisonOneTurn:              holdWithinOneTurn(TargetCityToDefend, true),
		MoveBastionOneTurn:               holdWithinOneTurn(TargetDefensiveBastion, true),
		MoveGuardImprovementOneTurn:      holdWithinOneTurn(TargetImprovementToDefend, false),
		MoveBlockadeResource:             pillage(TargetBlockadeResourcePoint, world.DomainSea),
		MoveEmbarkedMilitary:             destroyEmbarked,
		MoveEmbarkedCivilian:             captureEmbarkedCivilians,
		MoveCloseOnTarget:                closeOnTarget,

		MovePostureWithdraw:           withdraw,
		MovePostureSitAndBombard:      sitAndBombard,
		MovePostureAttritFromRange:    attritFromRange,
		MovePostureExploitFlanks:      exploitFlanks,
		MovePostureSteamroll:          steamroll,
		MovePostureSurgicalCityStrike: surgicalCityStrike,
		MovePostureHedgehog:           hedgehog,
		MovePostureCounterAttack:      counterAttack,
		MovePostureShoreBombardment:   shoreBombardment,
	}
	addBarbarianStrategies(s)
	return s
}

var unitTiers = []TargetType{TargetHighPriorityUnit, TargetMediumPriorityUnit, TargetLowPriorityUnit}

func isLand(u *world.Unit) bool  { return u.Domain == world.DomainLand && !u.Embarked }
func isNaval(u *world.Unit) bool { return u.Domain == world.DomainSea }

func captureCities(x *moveContext) int {
	n := 0
	for _, t := range x.targets.InZone(x.zone, TargetCity) {
		required := x.deps.Combat.TargetHealth(t.Coord)
		n += x.assault(t, required, mustKill, assaultOpts{needMelee: true, filter: isLand})
	}
	return n
}

func damageCities(x *moveContext) int {
	n := 0
	for _, t := range x.targets.InZone(x.zone, TargetCity) {
		required := x.deps.Combat.TargetHealth(t.Coord)
		n += x.assault(t, required, x.citySiege, assaultOpts{})
	}
	return n
}

func destroyUnits(tier TargetType) strategy {
	return func(x *moveContext) int {
		n := 0
		for _, t := range x.targets.InZone(x.zone, tier) {
			required := x.deps.Combat.TargetHealth(t.Coord)
			n += x.assault(t, required, mustKill, assaultOpts{})
		}
		return n
	}
}

func attritUnits(tier TargetType) strategy {
	return func(x *moveContext) int {
		n := 0
		for _, t := range x.targets.InZone(x.zone, tier) {
			required := x.deps.Combat.TargetHealth(t.Coord)
			n += x.assault(t, required, x.attrition, assaultOpts{})
		}
		return n
	}
}

func destroyEmbarked(x *moveContext) int {
	n := 0
	for _, t := range x.targets.InZone(x.zone, TargetEmbarkedMilitaryUnit) {
		required := x.deps.Combat.TargetHealth(t.Coord)
		n += x.assault(t, required, mustKill, assaultOpts{badOdds: true})
	}
	return n
}

// captureWithOne sends the closest single unit able to arrive this turn
// onto each target.
func captureWithOne(x *moveContext, targets []Target, filter func(*world.Unit) bool) int {
	n := 0
	for _, t := range targets {
		if x.ai.isQueued(x.player.ID, x.turn, t.Coord) {
			continue
		}
		u, _ := x.nearestReacher(t.Coord, 1, func(u *world.Unit) bool {
			return u.IsCombat() && (filter == nil || filter(u))
		})
		if u == nil {
			continue
		}
		if x.commit(u, world.MissionCapture, t.Coord, x.move) {
			x.ai.queueAttack(x.player.ID, x.turn, t.Coord)
			x.targets.remove(t.Coord)
			n++
		}
	}
	return n
}

var civilianTiers = []TargetType{
	TargetVeryHighPriorityCivilian,
	TargetHighPriorityCivilian,
	TargetMediumPriorityCivilian,
	TargetLowPriorityCivilian,
}

func attackCivilians(x *moveContext) int {
	n := 0
	for _, tier := range civilianTiers {
		n += captureWithOne(x, x.targets.InZone(x.zone, tier), isLand)
	}
	return n
}

func captureEmbarkedCivilians(x *moveContext) int {
	return captureWithOne(x, x.targets.InZone(x.zone, TargetEmbarkedCivilian), isNaval)
}

func safeBombards(x *moveContext) int {
	n := 0
	for _, t := range x.targets.InZone(x.zone, append([]TargetType{TargetCity, TargetEmbarkedMilitaryUnit}, unitTiers...)...) {
		n += x.bombard(t, true, nil)
	}
	return n
}

func clearCamps(x *moveContext) int {
	return captureWithOne(x, x.targets.InZone(x.zone, TargetBarbarianCamp), isLand)
}

// pillage runs two passes over the targets: units that arrive this turn
// pillage immediately, then units further out start walking.
func pillage(tt TargetType, domain world.Domain) strategy {
	return func(x *moveContext) int {
		fits := func(u *world.Unit) bool {
			return u.IsCombat() && u.Domain == domain && !u.Embarked
		}
		claimed := make(map[world.HexCoord]bool)
		n := 0
		for pass, reach := range []int{1, x.cfg.PillageTurns} {
			for _, t := range x.targets.InZone(x.zone, tt) {
				if claimed[t.Coord] {
					continue
				}
				u, _ := x.nearestReacher(t.Coord, reach, fits)
				if u == nil {
					continue
				}
				var ok bool
				if pass == 0 {
					ok = x.commit(u, world.MissionPillage, t.Coord, x.move)
				} else {
					ok = x.moveToward(u, t.Coord, reach)
				}
				if ok {
					claimed[t.Coord] = true
					n++
				}
			}
		}
		return n
	}
}

func ancientRuins(x *moveContext) int {
	n := 0
	for _, t := range x.targets.InZone(x.zone, TargetAncientRuins) {
		u, _ := x.nearestReacher(t.Coord, 1, func(u *world.Unit) bool {
			return isLand(u) && x.canStop(u, t.Coord)
		})
		if u != nil && x.commit(u, world.MissionMoveTo, t.Coord, x.move) {
			n++
		}
	}
	return n
}

// besieged reports whether an enemy combat unit stands next to c.
func (p *turnPass) besieged(c world.HexCoord) bool {
	for _, n := range c.Neighbors() {
		if cell := p.grid.Cell(n); cell != nil && cell.EnemyMilitary != 0 {
			return true
		}
	}
	return false
}

func heal(x *moveContext) int {
	n := 0
	for _, u := range x.eligible() {
		if !u.IsCombat() || u.Embarked || !u.IsDamaged() || u.HealthPercent() >= x.cfg.HealHealthPercent {
			continue
		}
		if x.besieged(u.Coord) {
			continue
		}
		if x.commit(u, world.MissionHeal, u.Coord, x.move) {
			n++
		}
	}
	return n
}

// safestTile returns the reachable tile with the least danger, preferring
// friendly cities, then tiles the enemy cannot strike, then proximity.
func (p *turnPass) safestTile(u *world.Unit) (world.HexCoord, int) {
	reach := p.deps.Paths.Reachable(u, 1, pathing.Options{})
	best, bestDanger := u.Coord, p.danger(u.Coord)
	bestRank := p.safetyRank(u, u.Coord)
	for _, c := range sortedCoords(reach) {
		if c == u.Coord || !p.canStop(u, c) {
			continue
		}
		d := p.danger(c)
		rank := p.safetyRank(u, c)
		if d < bestDanger || (d == bestDanger && rank > bestRank) {
			best, bestDanger, bestRank = c, d, rank
		}
	}
	return best, bestDanger
}

func (p *turnPass) safetyRank(u *world.Unit, c world.HexCoord) int {
	rank := 0
	if city := p.deps.World.CityAt(c); city != nil && city.Owner == u.Owner {
		rank += 2
	}
	if cell := p.grid.Cell(c); cell != nil && !cell.SubjectToAttack {
		rank++
	}
	return rank
}

func moveToSafety(x *moveContext) int {
	n := 0
	for _, u := range x.eligible() {
		hurt := u.IsCombat() && u.HealthPercent() < x.cfg.FleeHealthPercent
		if u.IsCombat() && !hurt {
			continue
		}
		here := x.danger(u.Coord)
		if here <= x.cfg.FleeDanger {
			continue
		}
		dest, d := x.safestTile(u)
		if dest == u.Coord || d >= here {
			continue
		}
		if x.commit(u, world.MissionMoveTo, dest, x.move) {
			n++
		}
	}
	return n
}

// reposition moves idle combat units toward the best-scoring friendly
// zone that has enemies in it and is not already won.
func reposition(x *moveContext) int {
	var goal *DominanceZone
	for _, z := range x.grid.Zones() {
		if z.Territory == TerritoryFriendly && z.EnemyUnitCount > 0 && z.Dominance != DominanceFriendly && !z.Water {
			goal = z
			break
		}
	}
	if goal == nil {
		return 0
	}
	n := 0
	for _, u := range x.eligible() {
		if !u.IsCombat() || !isLand(u) || world.Distance(u.Coord, goal.Anchor) <= 1 {
			continue
		}
		if world.Distance(u.Coord, goal.Anchor) > x.cfg.RecruitRange {
			continue
		}
		if x.moveToward(u, goal.Anchor, x.cfg.RepositionTurns) {
			n++
		}
	}
	return n
}

// holdInPlace keeps a unit already standing on a target of type tt there.
func holdInPlace(tt TargetType, mt world.MissionType) strategy {
	return func(x *moveContext) int {
		n := 0
		for _, t := range x.targets.InZone(x.zone, tt) {
			u := x.deps.World.MilitaryUnitAt(t.Coord)
			if u == nil || u.Owner != x.player.ID || !x.pool.Contains(u.ID) {
				continue
			}
			if u.ArmyID != 0 && !x.move.Type.info().recruit {
				continue
			}
			if x.commit(u, mt, t.Coord, x.move) {
				n++
			}
		}
		return n
	}
}

// garrisonRank prefers ranged units without terrain-bound promotions:
// their strength does not depend on the tile they leave behind.
func garrisonRank(u *world.Unit) int {
	switch {
	case u.CanRangeAttack() && !u.HasTerrainCombatBonus():
		return 0
	case u.CanRangeAttack():
		return 1
	case !u.HasTerrainCombatBonus():
		return 2
	default:
		return 3
	}
}

// holdWithinOneTurn moves a unit onto threatened, unguarded targets of
// type tt that it can reach this turn.
func holdWithinOneTurn(tt TargetType, preferRanged bool) strategy {
	return func(x *moveContext) int {
		n := 0
		for _, t := range x.targets.InZone(x.zone, tt) {
			if t.Threat <= 0 || x.deps.World.MilitaryUnitAt(t.Coord) != nil {
				continue
			}
			if cell := x.grid.Cell(t.Coord); cell == nil || cell.Processed {
				continue
			}
			var best *world.Unit
			bestRank := 4
			for _, u := range x.eligible() {
				if !u.IsCombat() || !isLand(u) {
					continue
				}
				if world.Distance(u.Coord, t.Coord) > u.Moves {
					continue
				}
				if !x.deps.Paths.CanReach(u, t.Coord, 1, pathing.Options{}) {
					continue
				}
				rank := 0
				if preferRanged {
					rank = garrisonRank(u)
				}
				if best == nil || rank < bestRank {
					best, bestRank = u, rank
				}
			}
			if best != nil && x.commit(best, world.MissionMoveTo, t.Coord, x.move) {
				n++
			}
		}
		return n
	}
}

// closeOnTarget stages units around a contested enemy city: ranged units
// at their range, melee units at the configured distance.
func closeOnTarget(x *moveContext) int {
	z := x.zone
	if z == nil || z.Water || z.CityID == 0 || z.Territory != TerritoryEnemy {
		return 0
	}
	if z.Dominance != DominanceFriendly && z.Dominance != DominanceEven {
		return 0
	}
	city := x.deps.World.City(z.CityID)
	if city == nil {
		return 0
	}
	n := 0
	for _, u := range x.eligible() {
		if !u.IsCombat() || !isLand(u) {
			continue
		}
		dist := world.Distance(u.Coord, city.Coord)
		if dist > x.cfg.RecruitRange {
			continue
		}
		want := x.cfg.CloseOnDistance
		if u.CanRangeAttack() {
			want = u.Range
		}
		if dist <= want {
			continue
		}
		best, bestGap := u.Coord, dist-want
		for _, c := range sortedCoords(x.deps.Paths.Reachable(u, 1, pathing.Options{})) {
			if !x.canStop(u, c) {
				continue
			}
			cell := x.grid.Cell(c)
			if u.CanRangeAttack() && cell.SubjectToAttack {
				continue
			}
			gap := world.Distance(c, city.Coord) - want
			if gap < 0 {
				gap = -gap
			}
			if gap < bestGap {
				best, bestGap = c, gap
			}
		}
		if best != u.Coord && x.commit(u, world.MissionMoveTo, best, x.move) {
			n++
		}
	}
	return n
}
