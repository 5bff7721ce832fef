package world

// DangerMap scores each tile by how much hostile strength can strike it
// within one turn. It is rebuilt per side per turn and read by the
// tactical layer when deciding to flee or garrison.
type DangerMap struct {
	side   PlayerID
	turn   int
	values map[HexCoord]int
}

// BuildDangerMap computes danger for side. atWar reports hostility between
// two sides; strength returns a unit's current combat strength.
func BuildDangerMap(s *State, side PlayerID, atWar func(a, b PlayerID) bool, strength func(*Unit) int) *DangerMap {
	d := &DangerMap{side: side, turn: s.Turn(), values: make(map[HexCoord]int)}
	for _, u := range s.Units() {
		if !u.IsAlive() || !u.IsCombat() || u.Owner == side || !atWar(side, u.Owner) {
			continue
		}
		reach := u.Moves
		if u.CanRangeAttack() {
			reach += u.Range
		} else {
			reach++
		}
		str := strength(u)
		for _, c := range Spiral(u.Coord, reach) {
			if !s.WorldMap.InBounds(c) {
				continue
			}
			// Closer tiles are more dangerous.
			falloff := reach + 1 - Distance(u.Coord, c)
			d.values[c] += str * falloff
		}
	}
	return d
}

// Danger returns the danger score of a tile for the side the map was built for.
func (d *DangerMap) Danger(c HexCoord) int {
	if d == nil {
		return 0
	}
	return d.values[c]
}

// Side returns the side the map was built for.
func (d *DangerMap) Side() PlayerID {
	return d.side
}

// Turn returns the turn the map was built on.
func (d *DangerMap) Turn() int {
	return d.turn
}

// DangerModel caches one DangerMap per side and rebuilds it when the turn
// changes or Invalidate is called.
type DangerModel struct {
	state    *State
	atWar    func(a, b PlayerID) bool
	strength func(*Unit) int
	maps     map[PlayerID]*DangerMap
}

// NewDangerModel returns a lazily built danger provider over s.
func NewDangerModel(s *State, atWar func(a, b PlayerID) bool, strength func(*Unit) int) *DangerModel {
	return &DangerModel{
		state:    s,
		atWar:    atWar,
		strength: strength,
		maps:     make(map[PlayerID]*DangerMap),
	}
}

// Danger returns the danger of c as seen by side.
func (d *DangerModel) Danger(side PlayerID, c HexCoord) int {
	m := d.maps[side]
	if m == nil || m.turn != d.state.Turn() {
		m = BuildDangerMap(d.state, side, d.atWar, d.strength)
		d.maps[side] = m
	}
	return m.Danger(c)
}

// Invalidate drops every cached map. Call it after units move.
func (d *DangerModel) Invalidate() {
	clear(d.maps)
}
