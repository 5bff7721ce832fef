package tactical

import (
	"log/slog"
	"slices"
	"sort"

	"github.com/talgya/hexwar/internal/pathing"
	"github.com/talgya/hexwar/internal/world"
)

// strategy executes one agenda entry, optionally scoped to a zone, and
// returns the number of units it committed.
type strategy func(x *moveContext) int

// turnPass is the state of one side's tactical pass. It is owned by the
// pass and discarded when the pass ends.
type turnPass struct {
	ai      *AI
	cfg     Config
	deps    Deps
	player  *world.Player
	turn    int
	grid    *AnalysisMap
	targets *Catalogue
	pool    *RecruitPool
	report  *TurnReport

	// claimed holds wander destinations already taken this pass.
	claimed map[world.HexCoord]bool
}

// moveContext scopes a strategy call to one move and, for zone moves,
// one zone. A nil zone means the whole map.
type moveContext struct {
	*turnPass
	move Move
	zone *DominanceZone
}

// run walks the agenda in order. Zone moves visit zones in descending
// score order and skip zones whose posture does not match.
func (p *turnPass) run(agenda []Move) {
	for _, mv := range agenda {
		if p.pool.Len() == 0 {
			return
		}
		fn, ok := p.ai.strategies[mv.Type]
		if !ok {
			slog.Warn("no strategy registered for tactical move", "move", mv.Type, "side", p.player.ID)
			continue
		}
		info := mv.Type.info()
		if !info.zone {
			p.execute(fn, mv, nil)
			continue
		}
		for _, z := range p.grid.Zones() {
			if info.dominanceZoneMove() && z.Posture != info.posture {
				continue
			}
			p.execute(fn, mv, z)
		}
	}
}

func (p *turnPass) execute(fn strategy, mv Move, z *DominanceZone) {
	n := fn(&moveContext{turnPass: p, move: mv, zone: z})
	if n > 0 {
		attrs := []any{"side", p.player.ID, "move", mv.Type, "units", n}
		if z != nil {
			attrs = append(attrs, "zone", z.Anchor)
		}
		slog.Debug("tactical move executed", attrs...)
	}
}

// finish issues a skip order to every unit still in the pool.
func (p *turnPass) finish() {
	for _, u := range p.pool.Units() {
		if p.commit(u, world.MissionSkip, u.Coord, Move{Type: MoveNone}) {
			p.report.Skipped++
		}
	}
}

// commit pushes one mission, marks the unit processed and removes it
// from the pool. It refuses units that already left the pool.
func (p *turnPass) commit(u *world.Unit, mt world.MissionType, target world.HexCoord, mv Move) bool {
	if !p.pool.Contains(u.ID) {
		return false
	}
	m := world.NewMission(mt, target, p.turn, mv.Type.String())
	if err := p.deps.World.PushMission(u.ID, m); err != nil {
		slog.Warn("push mission failed", "unit", u.ID, "mission", mt, "error", err)
		return false
	}
	if err := p.deps.World.MarkProcessed(u.ID, p.turn); err != nil {
		slog.Warn("mark processed failed", "unit", u.ID, "error", err)
	}
	p.pool.remove(u.ID)
	p.report.Orders = append(p.report.Orders, IssuedOrder{Unit: u.ID, Mission: m})

	if u.IsCombat() && mt == world.MissionMoveTo && p.grid != nil {
		if cell := p.grid.Cell(target); cell != nil {
			cell.Processed = true
		}
	}
	return true
}

// eligible returns the pool units this move may use.
func (x *moveContext) eligible() []*world.Unit {
	recruit := x.move.Type.info().recruit
	units := x.pool.Units()
	out := units[:0]
	for _, u := range units {
		if u.ArmyID != 0 && !recruit {
			continue
		}
		out = append(out, u)
	}
	return out
}

// inZone reports whether the unit stands in the context's zone.
func (x *moveContext) inZone(u *world.Unit) bool {
	if x.zone == nil {
		return true
	}
	cell := x.grid.Cell(u.Coord)
	return cell != nil && cell.Zone == x.zone.ID
}

func (p *turnPass) atWar(other world.PlayerID) bool {
	return other != world.NoPlayer && other != p.player.ID && p.deps.Diplomacy.AtWar(p.player.ID, other)
}

func (p *turnPass) danger(c world.HexCoord) int {
	if p.deps.Danger == nil {
		return 0
	}
	return p.deps.Danger.Danger(p.player.ID, c)
}

// canStop reports whether u may end its move on c this turn.
func (p *turnPass) canStop(u *world.Unit, c world.HexCoord) bool {
	cell := p.grid.Cell(c)
	if cell == nil || !cell.Revealed || cell.Impassable {
		return false
	}
	if u.IsCombat() && cell.Processed {
		return false
	}
	w := p.deps.World
	if city := w.CityAt(c); city != nil && city.Owner != u.Owner {
		return false
	}
	if other := w.MilitaryUnitAt(c); other != nil && other.ID != u.ID && (u.IsCombat() || other.Owner != u.Owner) {
		return false
	}
	if other := w.CivilianUnitAt(c); other != nil && other.ID != u.ID && (!u.IsCombat() || other.Owner != u.Owner) {
		return false
	}
	return true
}

// stepToward returns the furthest tile along the path to goal that u can
// reach and stop on this turn. maxTurns caps the whole trip (0: no cap).
func (p *turnPass) stepToward(u *world.Unit, goal world.HexCoord, maxTurns int) (world.HexCoord, bool) {
	path, turns, ok := p.deps.Paths.Path(u, goal, pathing.Options{})
	if !ok || len(path) == 0 || (maxTurns > 0 && turns > maxTurns) {
		return u.Coord, false
	}
	reach := p.deps.Paths.Reachable(u, 1, pathing.Options{})
	dest := u.Coord
	for _, c := range path {
		if _, ok := reach[c]; !ok {
			break
		}
		if p.canStop(u, c) {
			dest = c
		}
	}
	return dest, dest != u.Coord
}

// moveToward commits a move one turn's worth along the path to goal.
func (x *moveContext) moveToward(u *world.Unit, goal world.HexCoord, maxTurns int) bool {
	dest, ok := x.stepToward(u, goal, maxTurns)
	if !ok {
		return false
	}
	return x.commit(u, world.MissionMoveTo, dest, x.move)
}

// sortedCoords returns map keys in row-major order.
func sortedCoords(m map[world.HexCoord]int) []world.HexCoord {
	out := make([]world.HexCoord, 0, len(m))
	for c := range m {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].R != out[j].R {
			return out[i].R < out[j].R
		}
		return out[i].Q < out[j].Q
	})
	return out
}

// evaluate builds the candidate record for u against target.
func (x *moveContext) evaluate(u *world.Unit, target world.HexCoord, maxTurns int) (candidate, bool) {
	maxTurns = max(maxTurns, 1)
	c := candidate{
		unit:          u,
		strength:      x.deps.Combat.Strength(u),
		healthPercent: u.HealthPercent(),
	}
	dist := world.Distance(u.Coord, target)
	if u.CanRangeAttack() {
		if dist <= u.Range {
			c.canAttack = true
		} else {
			if dist-u.Range > u.Moves*maxTurns {
				return c, false
			}
			turns, ok := x.deps.Paths.TurnsTo(u, target, pathing.Options{IgnoreUnits: true})
			if !ok || turns > maxTurns {
				return c, false
			}
			c.turns = turns
		}
	} else {
		if dist > u.Moves*maxTurns {
			return c, false
		}
		turns, ok := x.deps.Paths.TurnsTo(u, target, pathing.Options{})
		if !ok || turns > maxTurns {
			return c, false
		}
		c.turns = turns
		c.canAttack = turns <= 1
	}
	c.damage = x.deps.Combat.ExpectedDamage(u, target)
	c.damageTaken = x.deps.Combat.ExpectedDamageTaken(u, target)
	return c, true
}

// strikers splits the units able to reach target within maxTurns into a
// high priority pool (ranged and fast units) and a normal pool, each
// ranked by expected damage.
func (x *moveContext) strikers(target world.HexCoord, maxTurns int, filter func(*world.Unit) bool) (high, normal []candidate) {
	for _, u := range x.eligible() {
		if !u.IsCombat() || u.Embarked {
			continue
		}
		if filter != nil && !filter(u) {
			continue
		}
		c, ok := x.evaluate(u, target, maxTurns)
		if !ok {
			continue
		}
		if u.CanRangeAttack() || u.Moves >= 3 {
			high = append(high, c)
		} else {
			normal = append(normal, c)
		}
	}
	rankCandidates(high)
	rankCandidates(normal)
	return high, normal
}

// sufficiency decides whether the expected damage justifies an attack.
type sufficiency func(expected, required int) bool

func mustKill(expected, required int) bool {
	return expected >= required
}

func (p *turnPass) attrition(expected, required int) bool {
	return expected >= required*p.cfg.AttritionPercent/100
}

func (p *turnPass) citySiege(expected, required int) bool {
	return expected > required/max(p.cfg.CitySiegeDivisor, 1)
}

type assaultOpts struct {
	badOdds    bool // Accept attackers expected to die
	needMelee  bool // A melee unit must land the final blow
	rangedOnly bool
	filter     func(*world.Unit) bool
}

// assault gathers everyone able to strike target this turn, checks the
// expected damage against enough, and commits attackers ranged-first
// until the required damage is covered.
func (x *moveContext) assault(target Target, required int, enough sufficiency, opts assaultOpts) int {
	if required <= 0 || x.ai.isQueued(x.player.ID, x.turn, target.Coord) {
		return 0
	}
	high, normal := x.strikers(target.Coord, 1, opts.filter)
	var able []candidate
	hasMelee := false
	for _, c := range slices.Concat(high, normal) {
		if !c.canAttack || c.damage <= 0 {
			continue
		}
		if c.lethal() && !opts.badOdds {
			continue
		}
		if opts.rangedOnly && !c.unit.CanRangeAttack() {
			continue
		}
		if !c.unit.CanRangeAttack() {
			hasMelee = true
		}
		able = append(able, c)
	}
	if len(able) == 0 || (opts.needMelee && !hasMelee) {
		return 0
	}
	total := 0
	for _, c := range able {
		total += c.damage
	}
	if !enough(total, required) {
		slog.Debug("attack not sufficient",
			"side", x.player.ID, "move", x.move.Type, "target", target.Coord,
			"expected", total, "required", required)
		return 0
	}

	// Ranged units soften the target before melee units go in.
	sort.SliceStable(able, func(i, j int) bool {
		return able[i].unit.CanRangeAttack() && !able[j].unit.CanRangeAttack()
	})

	series := x.ai.queueAttack(x.player.ID, x.turn, target.Coord)
	committed, dealt := 0, 0
	for _, c := range able {
		if dealt >= required {
			break
		}
		if opts.needMelee && c.unit.CanRangeAttack() && dealt+c.damage >= required {
			// Leave the final blow to a melee unit.
			continue
		}
		mt := world.MissionAttack
		if c.unit.CanRangeAttack() {
			mt = world.MissionRangeAttack
		}
		if x.commit(c.unit, mt, target.Coord, x.move) {
			committed++
			dealt += c.damage
		}
	}
	if committed > 0 {
		x.targets.remove(target.Coord)
	}
	slog.Debug("attack queued",
		"series", series, "side", x.player.ID, "move", x.move.Type,
		"target", target.Coord, "units", committed, "expected", dealt, "required", required)
	return committed
}

// bombard fires every in-range ranged unit at target until its health is
// covered. safe restricts shooters to cells the enemy cannot strike. A
// covered unit target is queued so later moves leave it alone; cities
// stay open for the melee unit that takes them.
func (x *moveContext) bombard(target Target, safe bool, filter func(*world.Unit) bool) int {
	if x.ai.isQueued(x.player.ID, x.turn, target.Coord) {
		return 0
	}
	health := x.deps.Combat.TargetHealth(target.Coord)
	if health <= 0 {
		return 0
	}
	var shooters []candidate
	for _, u := range x.eligible() {
		if !u.CanRangeAttack() || world.Distance(u.Coord, target.Coord) > u.Range {
			continue
		}
		if filter != nil && !filter(u) {
			continue
		}
		if safe {
			if cell := x.grid.Cell(u.Coord); cell == nil || cell.SubjectToAttack {
				continue
			}
		}
		c := candidate{unit: u, canAttack: true, damage: x.deps.Combat.ExpectedDamage(u, target.Coord)}
		if c.damage > 0 {
			shooters = append(shooters, c)
		}
	}
	rankCandidates(shooters)
	n, dealt := 0, 0
	for _, c := range shooters {
		if dealt >= health {
			break
		}
		if x.commit(c.unit, world.MissionRangeAttack, target.Coord, x.move) {
			n++
			dealt += c.damage
		}
	}
	if dealt >= health && target.Type != TargetCity {
		x.ai.queueAttack(x.player.ID, x.turn, target.Coord)
		x.targets.remove(target.Coord)
	}
	return n
}

// nearestReacher returns the eligible unit arriving at goal soonest within
// maxTurns. Ties go to the lower unit ID.
func (x *moveContext) nearestReacher(goal world.HexCoord, maxTurns int, filter func(*world.Unit) bool) (*world.Unit, int) {
	var best *world.Unit
	bestTurns := maxTurns + 1
	for _, u := range x.eligible() {
		if filter != nil && !filter(u) {
			continue
		}
		if world.Distance(u.Coord, goal) > max(u.Moves, 1)*max(maxTurns, 1) {
			continue
		}
		turns, ok := x.deps.Paths.TurnsTo(u, goal, pathing.Options{})
		if !ok || turns > maxTurns {
			continue
		}
		if turns < bestTurns {
			best, bestTurns = u, turns
		}
	}
	return best, bestTurns
}
