package world

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrOutOfBounds  = errors.New("coordinate out of bounds")
	ErrUnknownUnit  = errors.New("unknown unit")
	ErrUnknownCity  = errors.New("unknown city")
	ErrTooManySides = errors.New("too many sides")
)

// State is the in-memory world model: map, sides, units and cities, plus
// the order queue the tactical layer writes missions into.
type State struct {
	WorldMap *Map

	turn    int
	players []*Player
	units   []*Unit
	cities  []*City

	unitIndex map[UnitID]*Unit
	cityIndex map[CityID]*City

	nextUnitID UnitID
	nextCityID CityID
}

// NewState wraps a map in an empty world.
func NewState(m *Map) *State {
	return &State{
		WorldMap:   m,
		turn:       1,
		unitIndex:  make(map[UnitID]*Unit),
		cityIndex:  make(map[CityID]*City),
		nextUnitID: 1,
		nextCityID: 1,
	}
}

// Map returns the hex grid.
func (s *State) Map() *Map {
	return s.WorldMap
}

// Turn returns the current turn number (starting at 1).
func (s *State) Turn() int {
	return s.turn
}

// SetTurn jumps the turn counter (used when restoring or in tests).
func (s *State) SetTurn(turn int) {
	s.turn = turn
}

// AdvanceTurn increments the turn counter and returns the new turn.
func (s *State) AdvanceTurn() int {
	s.turn++
	return s.turn
}

// AddPlayer registers a side. The player's ID is assigned sequentially.
func (s *State) AddPlayer(p *Player) (*Player, error) {
	if len(s.players) >= 64 {
		return nil, ErrTooManySides
	}
	p.ID = PlayerID(len(s.players))
	s.players = append(s.players, p)
	return p, nil
}

// Player returns the side with the given ID, or nil.
func (s *State) Player(id PlayerID) *Player {
	if id < 0 || int(id) >= len(s.players) {
		return nil
	}
	return s.players[id]
}

// Players returns every side in ID order.
func (s *State) Players() []*Player {
	return s.players
}

// Barbarian returns the barbarian side, if one exists.
func (s *State) Barbarian() *Player {
	for _, p := range s.players {
		if p.IsBarbarian() {
			return p
		}
	}
	return nil
}

// AddUnit places a unit on the map, assigning its ID and filling defaults.
func (s *State) AddUnit(u *Unit) (*Unit, error) {
	if !s.WorldMap.InBounds(u.Coord) {
		return nil, fmt.Errorf("add unit at %s: %w", u.Coord, ErrOutOfBounds)
	}
	u.ID = s.nextUnitID
	s.nextUnitID++
	if u.MaxHealth == 0 {
		u.MaxHealth = 100
	}
	if u.Health == 0 {
		u.Health = u.MaxHealth
	}
	if u.Moves == 0 {
		u.Moves = 2
	}
	if u.Class == ClassNavalMelee || u.Class == ClassNavalRanged {
		u.Domain = DomainSea
	}
	if t := s.WorldMap.Get(u.Coord); t != nil && t.IsWater() && u.Domain == DomainLand {
		u.Embarked = true
	}
	s.units = append(s.units, u)
	s.unitIndex[u.ID] = u
	return u, nil
}

// RemoveUnit deletes a unit from the world.
func (s *State) RemoveUnit(id UnitID) error {
	if _, ok := s.unitIndex[id]; !ok {
		return fmt.Errorf("remove unit %d: %w", id, ErrUnknownUnit)
	}
	delete(s.unitIndex, id)
	for i, u := range s.units {
		if u.ID == id {
			s.units = append(s.units[:i], s.units[i+1:]...)
			break
		}
	}
	return nil
}

// Unit returns the unit with the given ID, or nil.
func (s *State) Unit(id UnitID) *Unit {
	return s.unitIndex[id]
}

// Units returns every unit in creation order.
func (s *State) Units() []*Unit {
	return s.units
}

// UnitsOf returns the living units owned by a side, in creation order.
func (s *State) UnitsOf(p PlayerID) []*Unit {
	var out []*Unit
	for _, u := range s.units {
		if u.Owner == p && u.IsAlive() {
			out = append(out, u)
		}
	}
	return out
}

// UnitsAt returns every living unit standing on c.
func (s *State) UnitsAt(c HexCoord) []*Unit {
	var out []*Unit
	for _, u := range s.units {
		if u.Coord == c && u.IsAlive() {
			out = append(out, u)
		}
	}
	return out
}

// MilitaryUnitAt returns the combat unit on c, or nil.
func (s *State) MilitaryUnitAt(c HexCoord) *Unit {
	for _, u := range s.UnitsAt(c) {
		if u.IsCombat() {
			return u
		}
	}
	return nil
}

// CivilianUnitAt returns the non-combat unit on c, or nil.
func (s *State) CivilianUnitAt(c HexCoord) *Unit {
	for _, u := range s.UnitsAt(c) {
		if !u.IsCombat() {
			return u
		}
	}
	return nil
}

// MoveUnit relocates a unit, updating its embark state.
func (s *State) MoveUnit(id UnitID, to HexCoord) error {
	u := s.unitIndex[id]
	if u == nil {
		return fmt.Errorf("move unit %d: %w", id, ErrUnknownUnit)
	}
	t := s.WorldMap.Get(to)
	if t == nil {
		return fmt.Errorf("move unit %d to %s: %w", id, to, ErrOutOfBounds)
	}
	u.Coord = to
	if u.Domain == DomainLand {
		u.Embarked = t.IsWater()
	}
	u.Fortified = false
	return nil
}

// AddCity founds a city and claims its tile and the ring around it.
func (s *State) AddCity(c *City) (*City, error) {
	t := s.WorldMap.Get(c.Coord)
	if t == nil {
		return nil, fmt.Errorf("add city at %s: %w", c.Coord, ErrOutOfBounds)
	}
	c.ID = s.nextCityID
	s.nextCityID++
	if c.MaxHealth == 0 {
		c.MaxHealth = 200
	}
	if c.Health == 0 {
		c.Health = c.MaxHealth
	}
	if c.Population == 0 {
		c.Population = 1
	}
	if c.Strength == 0 {
		c.Strength = 8 + c.Population
	}
	s.cities = append(s.cities, c)
	s.cityIndex[c.ID] = c
	s.ClaimTerritory(c.ID, 1)
	return c, nil
}

// ClaimTerritory assigns every unowned tile within radius of the city to it.
func (s *State) ClaimTerritory(id CityID, radius int) {
	c := s.cityIndex[id]
	if c == nil {
		return
	}
	for _, coord := range Spiral(c.Coord, radius) {
		t := s.WorldMap.Get(coord)
		if t == nil {
			continue
		}
		if t.CityID != 0 && t.CityID != id {
			continue
		}
		t.Owner = c.Owner
		t.CityID = id
	}
}

// TransferCity hands a city and its territory to a new owner.
func (s *State) TransferCity(id CityID, to PlayerID) error {
	c := s.cityIndex[id]
	if c == nil {
		return fmt.Errorf("transfer city %d: %w", id, ErrUnknownCity)
	}
	c.Owner = to
	c.Capital = false
	for _, t := range s.WorldMap.Tiles() {
		if t.CityID == id {
			t.Owner = to
		}
	}
	return nil
}

// City returns the city with the given ID, or nil.
func (s *State) City(id CityID) *City {
	return s.cityIndex[id]
}

// Cities returns every city in founding order.
func (s *State) Cities() []*City {
	return s.cities
}

// CitiesOf returns the cities owned by a side.
func (s *State) CitiesOf(p PlayerID) []*City {
	var out []*City
	for _, c := range s.cities {
		if c.Owner == p {
			out = append(out, c)
		}
	}
	return out
}

// CityAt returns the city on c, or nil.
func (s *State) CityAt(c HexCoord) *City {
	for _, city := range s.cities {
		if city.Coord == c {
			return city
		}
	}
	return nil
}

// PushMission appends an order to a unit's queue.
func (s *State) PushMission(id UnitID, m Mission) error {
	u := s.unitIndex[id]
	if u == nil {
		return fmt.Errorf("push mission to unit %d: %w", id, ErrUnknownUnit)
	}
	u.Missions = append(u.Missions, m)
	return nil
}

// MarkProcessed records that the unit has received its orders for a turn.
func (s *State) MarkProcessed(id UnitID, turn int) error {
	u := s.unitIndex[id]
	if u == nil {
		return fmt.Errorf("mark unit %d processed: %w", id, ErrUnknownUnit)
	}
	u.ProcessedTurn = turn
	return nil
}

// MissionsForTurn returns every mission issued on a turn, ordered by unit ID.
func (s *State) MissionsForTurn(turn int) map[UnitID][]Mission {
	out := make(map[UnitID][]Mission)
	for _, u := range s.units {
		for _, m := range u.Missions {
			if m.Turn == turn {
				out[u.ID] = append(out[u.ID], m)
			}
		}
	}
	return out
}

// RevealAll makes every tile revealed and visible to the side.
func (s *State) RevealAll(p PlayerID) {
	for _, t := range s.WorldMap.Tiles() {
		t.SetVisible(p, true)
	}
}

// UpdateVisibility recomputes what a side currently sees: every tile within
// sight of one of its units or cities.
func (s *State) UpdateVisibility(p PlayerID, sight int) {
	for _, t := range s.WorldMap.Tiles() {
		t.SetVisible(p, false)
	}
	var eyes []HexCoord
	for _, u := range s.UnitsOf(p) {
		eyes = append(eyes, u.Coord)
	}
	for _, c := range s.CitiesOf(p) {
		eyes = append(eyes, c.Coord)
	}
	for _, e := range eyes {
		for _, coord := range Spiral(e, sight) {
			if t := s.WorldMap.Get(coord); t != nil {
				t.SetVisible(p, true)
			}
		}
	}
}

// SortedUnitIDs returns unit IDs in ascending order.
func SortedUnitIDs(units []*Unit) []UnitID {
	ids := make([]UnitID, 0, len(units))
	for _, u := range units {
		ids = append(ids, u.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
