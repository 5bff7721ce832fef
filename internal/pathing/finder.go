// Package pathing is the reference pathfinder service: shortest paths and
// turn distances over the hex map for walking, swimming and embarking units.
package pathing

import (
	"container/heap"

	"github.com/talgya/hexwar/internal/world"
)

// Profile is a unit's movement capability.
type Profile uint8

const (
	ProfileWalk   Profile = iota // Land only
	ProfileSwim                  // Water only (plus own cities)
	ProfileEmbark                // Land, and water at an embarkation cost
)

// ProfileFor derives the movement profile of a unit.
func ProfileFor(u *world.Unit) Profile {
	switch {
	case u.Domain == world.DomainSea:
		return ProfileSwim
	case u.CanEmbark:
		return ProfileEmbark
	default:
		return ProfileWalk
	}
}

// Options tunes a single query.
type Options struct {
	// IgnoreUnits treats every tile as unoccupied (reachability-only queries).
	IgnoreUnits bool
	// MaxTurns stops the search beyond this many turns; 0 means unbounded.
	MaxTurns int
}

// Relations answers the diplomacy questions movement depends on.
type Relations interface {
	AtWar(a, b world.PlayerID) bool
	OpenBorders(a, b world.PlayerID) bool
}

// Finder searches the world for paths.
type Finder struct {
	state *world.State
	rel   Relations
}

// New creates a finder over a world.
func New(state *world.State, rel Relations) *Finder {
	return &Finder{state: state, rel: rel}
}

// Path returns the tiles from (excluding) the unit's position to goal and
// the number of turns the walk takes. ok is false when goal is unreachable.
func (f *Finder) Path(u *world.Unit, goal world.HexCoord, opts Options) (path []world.HexCoord, turns int, ok bool) {
	if u.Coord == goal {
		return nil, 0, true
	}
	costs, prev := f.search(u, &goal, opts)
	cost, found := costs[goal]
	if !found {
		return nil, 0, false
	}
	for c := goal; c != u.Coord; c = prev[c] {
		path = append(path, c)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, turnsFor(cost, u.Moves), true
}

// TurnsTo returns the turn distance from the unit to goal.
func (f *Finder) TurnsTo(u *world.Unit, goal world.HexCoord, opts Options) (int, bool) {
	_, turns, ok := f.Path(u, goal, opts)
	return turns, ok
}

// CanReach reports whether the unit can arrive at goal within maxTurns.
func (f *Finder) CanReach(u *world.Unit, goal world.HexCoord, maxTurns int, opts Options) bool {
	opts.MaxTurns = maxTurns
	turns, ok := f.TurnsTo(u, goal, opts)
	return ok && turns <= maxTurns
}

// Reachable returns every tile the unit can arrive at within maxTurns,
// mapped to its turn distance. The unit's own tile maps to 0.
func (f *Finder) Reachable(u *world.Unit, maxTurns int, opts Options) map[world.HexCoord]int {
	opts.MaxTurns = maxTurns
	costs, _ := f.search(u, nil, opts)
	out := make(map[world.HexCoord]int, len(costs))
	for c, cost := range costs {
		out[c] = turnsFor(cost, u.Moves)
	}
	return out
}

// Advance walks the path to goal for one turn's movement points and
// returns the furthest tile the unit may stop on. With stopShort the goal
// itself is never entered, which is how attackers close in. ok is false
// when the goal is unreachable.
func (f *Finder) Advance(u *world.Unit, goal world.HexCoord, stopShort bool) (world.HexCoord, bool) {
	path, _, ok := f.Path(u, goal, Options{})
	if !ok {
		return u.Coord, false
	}
	if stopShort && len(path) > 0 {
		path = path[:len(path)-1]
	}
	profile := ProfileFor(u)
	budget := max(u.Moves, 1)
	spent := 0
	dest := u.Coord
	from := f.state.WorldMap.Get(u.Coord)
	for _, c := range path {
		next := f.state.WorldMap.Get(c)
		step, ok := f.stepCost(u, profile, from, next)
		// The first step is always allowed so slow units still move.
		if !ok || (spent > 0 && spent+step > budget) {
			break
		}
		spent += step
		if f.canStop(u, c) {
			dest = c
		}
		from = next
		if spent >= budget {
			break
		}
	}
	return dest, true
}

// canStop reports whether the unit may end its move on c: no foreign unit
// or city, and no friendly unit of the same kind.
func (f *Finder) canStop(u *world.Unit, c world.HexCoord) bool {
	if f.blockedByUnit(u, c) {
		return false
	}
	for _, other := range f.state.UnitsAt(c) {
		if other.ID != u.ID && other.IsCombat() == u.IsCombat() {
			return false
		}
	}
	return true
}

func turnsFor(cost, moves int) int {
	if moves <= 0 {
		moves = 1
	}
	return (cost + moves - 1) / moves
}

// search runs Dijkstra from the unit's tile. When goal is non-nil the search
// stops as soon as the goal is settled.
func (f *Finder) search(u *world.Unit, goal *world.HexCoord, opts Options) (map[world.HexCoord]int, map[world.HexCoord]world.HexCoord) {
	profile := ProfileFor(u)
	budget := -1
	if opts.MaxTurns > 0 {
		budget = opts.MaxTurns * max(u.Moves, 1)
	}

	costs := map[world.HexCoord]int{u.Coord: 0}
	prev := make(map[world.HexCoord]world.HexCoord)
	pq := &queue{}
	seq := 0
	heap.Push(pq, &node{coord: u.Coord, cost: 0, seq: seq})
	settled := make(map[world.HexCoord]bool)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*node)
		if settled[cur.coord] {
			continue
		}
		settled[cur.coord] = true
		if goal != nil && cur.coord == *goal {
			break
		}
		// Do not expand through the goal-only occupied tiles.
		if cur.coord != u.Coord && !opts.IgnoreUnits && f.blockedByUnit(u, cur.coord) {
			continue
		}
		from := f.state.WorldMap.Get(cur.coord)
		for _, dir := range cur.coord.Neighbors() {
			next := f.state.WorldMap.Get(dir)
			if next == nil || settled[dir] {
				continue
			}
			step, ok := f.stepCost(u, profile, from, next)
			if !ok {
				continue
			}
			total := cur.cost + step
			if budget >= 0 && total > budget {
				continue
			}
			if old, seen := costs[dir]; seen && old <= total {
				continue
			}
			costs[dir] = total
			prev[dir] = cur.coord
			seq++
			heap.Push(pq, &node{coord: dir, cost: total, seq: seq})
		}
	}
	return costs, prev
}

// stepCost returns the movement cost of entering next from from.
func (f *Finder) stepCost(u *world.Unit, profile Profile, from, next *world.Tile) (int, bool) {
	if next.IsImpassable() {
		return 0, false
	}
	if !f.mayEnterTerritory(u, next) {
		return 0, false
	}
	switch profile {
	case ProfileSwim:
		if next.IsWater() {
			return 1, true
		}
		if c := f.state.CityAt(next.Coord); c != nil && c.Owner == u.Owner {
			return 1, true
		}
		return 0, false
	case ProfileWalk:
		if next.IsWater() {
			return 0, false
		}
		return next.Terrain.MoveCost(), true
	default:
		switch {
		case next.IsWater() && !from.IsWater():
			// Embarking spends the rest of the turn.
			return max(u.Moves, 1), true
		case next.IsWater():
			return 1, true
		case from.IsWater():
			// Disembarking also spends the rest of the turn.
			return max(u.Moves, 1), true
		default:
			return next.Terrain.MoveCost(), true
		}
	}
}

// mayEnterTerritory enforces closed borders: a side may only enter foreign
// territory when at war with the owner or holding an open-border agreement.
func (f *Finder) mayEnterTerritory(u *world.Unit, t *world.Tile) bool {
	if t.Owner == world.NoPlayer || t.Owner == u.Owner || f.rel == nil {
		return true
	}
	if p := f.state.Player(u.Owner); p != nil && p.IsBarbarian() {
		return true
	}
	return f.rel.AtWar(u.Owner, t.Owner) || f.rel.OpenBorders(u.Owner, t.Owner)
}

// blockedByUnit reports whether a foreign unit or city occupies the tile.
func (f *Finder) blockedByUnit(u *world.Unit, c world.HexCoord) bool {
	for _, other := range f.state.UnitsAt(c) {
		if other.Owner != u.Owner {
			return true
		}
	}
	if city := f.state.CityAt(c); city != nil && city.Owner != u.Owner {
		return true
	}
	return false
}

type node struct {
	coord world.HexCoord
	cost  int
	seq   int
	index int
}

// queue is a min-heap on (cost, seq).
type queue []*node

func (q queue) Len() int { return len(q) }
func (q queue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}
	return q[i].seq < q[j].seq
}
func (q queue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}
func (q *queue) Push(x any) {
	n := x.(*node)
	n.index = len(*q)
	*q = append(*q, n)
}
func (q *queue) Pop() any {
	old := *q
	n := old[len(old)-1]
	*q = old[:len(old)-1]
	return n
}
