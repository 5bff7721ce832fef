package tactical

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/talgya/hexwar/internal/diplomacy"
	"github.com/talgya/hexwar/internal/pathing"
	"github.com/talgya/hexwar/internal/world"
)

// AnalysisMap is the dominance grid: a per-cell snapshot of the world as
// one side sees it, grouped into scored dominance zones. It is rebuilt
// wholesale at most once per side per turn.
type AnalysisMap struct {
	cfg    Config
	width  int
	height int
	cells  []Cell

	byID       []*DominanceZone // Indexed by ZoneID
	zones      []*DominanceZone // Sorted by score, descending
	enemyUnits []world.UnitID

	side  world.PlayerID
	turn  int
	built bool
}

// NewAnalysisMap creates an empty grid.
func NewAnalysisMap(cfg Config) *AnalysisMap {
	return &AnalysisMap{cfg: cfg, side: world.NoPlayer}
}

// IsBuiltFor reports whether the grid is current for side on turn.
func (m *AnalysisMap) IsBuiltFor(side world.PlayerID, turn int) bool {
	return m.built && m.side == side && m.turn == turn
}

// Invalidate forces the next Refresh to rebuild.
func (m *AnalysisMap) Invalidate() {
	m.built = false
}

// Side returns the side the grid was last built for.
func (m *AnalysisMap) Side() world.PlayerID { return m.side }

// Turn returns the turn the grid was last built on.
func (m *AnalysisMap) Turn() int { return m.turn }

// Refresh rebuilds the grid for side. It is a no-op for sides that do not
// contest zones and for a grid already current for this side and turn.
func (m *AnalysisMap) Refresh(side world.PlayerID, deps Deps, temps []TemporaryZone) error {
	p := deps.World.Player(side)
	if p == nil {
		return fmt.Errorf("refresh side %d: %w", side, ErrUnknownSide)
	}
	if !p.ContestsZones() {
		return nil
	}
	turn := deps.World.Turn()
	if m.IsBuiltFor(side, turn) {
		return nil
	}

	grid := deps.World.Map()
	m.reset(grid)
	m.side, m.turn = side, turn

	b := &gridBuilder{
		m:       m,
		deps:    deps,
		player:  p,
		grid:    grid,
		keys:    make(map[zoneKey]ZoneID),
		objCity: make(map[world.CityID]bool),
	}
	b.addTemporaryZones(temps)
	b.populateCells()
	b.accumulateStrength()
	if err := b.scoreZones(); err != nil {
		return fmt.Errorf("refresh side %d turn %d: %w", side, turn, err)
	}
	m.sortZones()
	b.collectEnemyUnits()
	b.flagEnemyReach()
	m.built = true

	slog.Debug("dominance grid refreshed",
		"side", side, "turn", turn, "zones", len(m.zones), "enemy_units", len(m.enemyUnits))
	return nil
}

func (m *AnalysisMap) reset(grid *world.Map) {
	m.built = false
	m.width, m.height = grid.Width, grid.Height
	if cap(m.cells) < grid.TileCount() {
		m.cells = make([]Cell, grid.TileCount())
	}
	m.cells = m.cells[:grid.TileCount()]
	for i := range m.cells {
		m.cells[i] = emptyCell()
	}
	m.byID = m.byID[:0]
	m.zones = m.zones[:0]
	m.enemyUnits = m.enemyUnits[:0]
}

func (m *AnalysisMap) sortZones() {
	m.zones = append(m.zones[:0], m.byID...)
	sort.SliceStable(m.zones, func(i, j int) bool {
		return m.zones[i].Score > m.zones[j].Score
	})
}

// Cell returns the cell at c, or nil off the map.
func (m *AnalysisMap) Cell(c world.HexCoord) *Cell {
	if c.Q < 0 || c.Q >= m.width || c.R < 0 || c.R >= m.height {
		return nil
	}
	return &m.cells[c.R*m.width+c.Q]
}

// Zones returns the zones in descending score order.
func (m *AnalysisMap) Zones() []*DominanceZone {
	return m.zones
}

// Zone returns a zone by handle, or nil.
func (m *AnalysisMap) Zone(id ZoneID) *DominanceZone {
	if id < 0 || int(id) >= len(m.byID) {
		return nil
	}
	return m.byID[id]
}

// ZoneAt returns the zone containing c, or nil.
func (m *AnalysisMap) ZoneAt(c world.HexCoord) *DominanceZone {
	cell := m.Cell(c)
	if cell == nil {
		return nil
	}
	return m.Zone(cell.Zone)
}

// EnemyUnits returns the units of every side at war with the grid's side.
func (m *AnalysisMap) EnemyUnits() []world.UnitID {
	return m.enemyUnits
}

// IsInEnemyDominatedZone reports whether c lies in a zone the enemy
// dominates or that cannot be seen. Points outside every zone are not.
func (m *AnalysisMap) IsInEnemyDominatedZone(c world.HexCoord) bool {
	z := m.ZoneAt(c)
	if z == nil {
		return false
	}
	return z.Dominance == DominanceEnemy || z.Dominance == DominanceNotVisible
}

type zoneKey struct {
	city  world.CityID
	area  int
	water bool
}

// gridBuilder carries the state of a single refresh.
type gridBuilder struct {
	m       *AnalysisMap
	deps    Deps
	player  *world.Player
	grid    *world.Map
	keys    map[zoneKey]ZoneID
	temps   []*DominanceZone
	objCity map[world.CityID]bool
}

func (b *gridBuilder) atWar(other world.PlayerID) bool {
	return other != b.player.ID && b.deps.Diplomacy.AtWar(b.player.ID, other)
}

func (b *gridBuilder) addZone(anchor world.HexCoord) *DominanceZone {
	z := newZone(ZoneID(len(b.m.byID)), anchor)
	b.m.byID = append(b.m.byID, z)
	return z
}

func (b *gridBuilder) territory(t *world.Tile) Territory {
	switch {
	case t.Owner == world.NoPlayer:
		return TerritoryUnclaimed
	case t.Owner == b.player.ID:
		return TerritoryFriendly
	case b.atWar(t.Owner):
		return TerritoryEnemy
	case b.deps.Diplomacy.OpenBorders(b.player.ID, t.Owner):
		return TerritoryNeutral
	default:
		return TerritoryClosed
	}
}

// addTemporaryZones appends objective zones. Objectives sitting on a city
// mark that city's zone instead.
func (b *gridBuilder) addTemporaryZones(temps []TemporaryZone) {
	for _, tz := range temps {
		t := b.grid.Get(tz.Coord)
		if t == nil {
			continue
		}
		if city := b.deps.World.CityAt(tz.Coord); city != nil {
			b.objCity[city.ID] = true
			continue
		}
		z := b.addZone(tz.Coord)
		z.Temporary = true
		z.Objective = true
		z.Water = t.IsWater()
		z.Area = t.Area
		z.Owner = t.Owner
		z.Territory = b.territory(t)
		b.temps = append(b.temps, z)
	}
}

func (b *gridBuilder) populateCells() {
	barbarian := b.player.IsBarbarian()
	for _, t := range b.grid.Tiles() {
		cell := b.m.Cell(t.Coord)
		revealed := t.IsRevealed(b.player.ID)
		territory := b.territory(t)
		if t.IsImpassable() {
			cell.Impassable = true
			continue
		}
		if territory == TerritoryClosed || (!revealed && !barbarian) {
			continue
		}
		cell.Revealed = true
		cell.Visible = t.IsVisible(b.player.ID)
		cell.Water = t.IsWater()
		cell.Territory = territory
		cell.Owner = t.Owner
		cell.Area = t.Area
		cell.DefenseModifier = t.DefenseModifier()
		b.classifyOccupants(cell, t.Coord)
		cell.Zone = b.zoneFor(t, territory)
	}
}

func (b *gridBuilder) classifyOccupants(cell *Cell, c world.HexCoord) {
	w := b.deps.World
	if u := w.MilitaryUnitAt(c); u != nil {
		switch {
		case u.Owner == b.player.ID:
			cell.FriendlyMilitary = u.ID
		case !cell.Visible:
		case b.atWar(u.Owner):
			cell.EnemyMilitary = u.ID
		default:
			cell.NeutralMilitary = u.ID
		}
	}
	if u := w.CivilianUnitAt(c); u != nil {
		switch {
		case u.Owner == b.player.ID:
			cell.FriendlyCivilian = u.ID
		case !cell.Visible:
		case b.atWar(u.Owner):
			cell.EnemyCivilian = u.ID
		default:
			cell.NeutralCivilian = u.ID
		}
	}
}

func (b *gridBuilder) zoneFor(t *world.Tile, territory Territory) ZoneID {
	if t.CityID == 0 {
		for _, z := range b.temps {
			if z.Water == t.IsWater() && world.Distance(z.Anchor, t.Coord) <= b.m.cfg.TempZoneRadius {
				z.CellCount++
				return z.ID
			}
		}
	}

	key := zoneKey{city: t.CityID, water: t.IsWater()}
	if t.CityID == 0 {
		key.area = t.Area
	}
	if id, ok := b.keys[key]; ok {
		z := b.m.byID[id]
		z.CellCount++
		// Water zones of a city anchor on the water tile nearest the city.
		if city := b.deps.World.City(t.CityID); city != nil && z.Water &&
			world.Distance(t.Coord, city.Coord) < world.Distance(z.Anchor, city.Coord) {
			z.Anchor = t.Coord
		}
		return id
	}

	anchor := t.Coord
	owner := t.Owner
	city := b.deps.World.City(t.CityID)
	if city != nil {
		owner = city.Owner
		if !t.IsWater() {
			anchor = city.Coord
		}
	}
	z := b.addZone(anchor)
	z.CityID = t.CityID
	z.Owner = owner
	z.Area = t.Area
	z.Water = t.IsWater()
	z.Territory = territory
	z.Objective = b.objCity[t.CityID]
	z.CellCount = 1
	b.keys[key] = z.ID
	return z.ID
}

// contributes reports whether a unit's strength counts toward a zone.
func (b *gridBuilder) contributes(u *world.Unit, z *DominanceZone) bool {
	ut := b.grid.Get(u.Coord)
	if ut == nil {
		return false
	}
	if z.Water {
		return u.Domain == world.DomainSea || u.Embarked
	}
	if u.Domain == world.DomainSea {
		return u.CanRangeAttack()
	}
	return !u.Embarked && ut.Area == z.Area
}

func (b *gridBuilder) accumulateStrength() {
	cfg := b.m.cfg
	fight := b.deps.Combat
	units := b.deps.World.Units()
	for _, z := range b.m.byID {
		for _, u := range units {
			if !u.IsAlive() || !u.IsCombat() {
				continue
			}
			friendly := u.Owner == b.player.ID
			if !friendly && !b.atWar(u.Owner) {
				continue
			}
			dist := world.Distance(u.Coord, z.Anchor)
			if dist > cfg.RecruitRange || !b.contributes(u, z) {
				continue
			}
			weight := cfg.RecruitRange + 1 - dist
			str := fight.Strength(u) * weight
			ranged := 0
			if u.CanRangeAttack() {
				ranged = fight.RangedStrength(u) * weight
			}
			naval := u.Domain == world.DomainSea

			if friendly {
				z.FriendlyStrength += str
				z.FriendlyRangedStrength += ranged
				z.FriendlyUnitCount++
				if ranged > 0 {
					z.FriendlyRangedCount++
				}
				if naval {
					z.FriendlyNavalCount++
				}
				continue
			}

			if cell := b.m.Cell(u.Coord); cell == nil || !cell.Visible {
				str /= 2
				ranged /= 2
			}
			z.EnemyStrength += str
			z.EnemyRangedStrength += ranged
			z.EnemyUnitCount++
			if ranged > 0 {
				z.EnemyRangedCount++
			}
			if naval {
				z.EnemyNavalCount++
			}
			z.RangeClosestEnemyUnit = min(z.RangeClosestEnemyUnit, dist)
		}

		if z.CityID == 0 || z.Water {
			continue
		}
		city := b.deps.World.City(z.CityID)
		if city == nil {
			continue
		}
		// A city defends itself at full weight.
		str := fight.CityStrength(city) * (cfg.RecruitRange + 1)
		switch {
		case city.Owner == b.player.ID:
			z.FriendlyStrength += str
		case b.atWar(city.Owner):
			z.EnemyStrength += str
		}
	}
}

func (b *gridBuilder) scoreZones() error {
	trend := b.deps.Diplomacy.Trend(b.player.ID)
	for _, z := range b.m.byID {
		visible := false
		if cell := b.m.Cell(z.Anchor); cell != nil {
			visible = cell.Visible
		}
		z.Dominance = classifyDominance(z.FriendlyStrength, z.EnemyStrength, visible, b.m.cfg.DominancePercentage)

		score := b.baseValue(z) * b.multiplier(z, trend)
		if score <= 0 {
			return fmt.Errorf("zone at %s: score %d: %w", z.Anchor, score, ErrInvalidZoneScore)
		}
		z.Score = score
	}
	return nil
}

func (b *gridBuilder) baseValue(z *DominanceZone) int {
	base := 1
	if city := b.deps.World.City(z.CityID); city != nil {
		base += city.Population
		if city.Capital {
			base *= 2
		}
		if city.MaxHealth > 0 {
			base = base * (city.MaxHealth + city.Damage()) / city.MaxHealth
		}
	}
	if z.Objective {
		base *= 3
	}
	if !z.Water {
		base *= landZoneMultiplier
	}
	return base
}

func (b *gridBuilder) multiplier(z *DominanceZone, trend diplomacy.Trend) int {
	mult := zoneMultiplier(z.Territory, z.Dominance)
	switch {
	case trend == diplomacy.TrendDecisivelyWinning && z.Territory == TerritoryEnemy,
		trend == diplomacy.TrendDecisivelyLosing && z.Territory == TerritoryFriendly:
		mult *= 2
	}
	return mult
}

func (b *gridBuilder) collectEnemyUnits() {
	for _, u := range b.deps.World.Units() {
		if u.IsAlive() && b.atWar(u.Owner) {
			b.m.enemyUnits = append(b.m.enemyUnits, u.ID)
		}
	}
}

// flagEnemyReach marks cells enemy units can enter or strike next turn,
// and cells next to hostile citadels.
func (b *gridBuilder) flagEnemyReach() {
	w := b.deps.World
	for _, id := range b.m.enemyUnits {
		u := w.Unit(id)
		if u == nil || !u.IsCombat() {
			continue
		}
		home := b.grid.Get(u.Coord)
		if home == nil {
			continue
		}
		reach := b.deps.Paths.Reachable(u, 1, pathing.Options{IgnoreUnits: true})
		for c := range reach {
			cell := b.m.Cell(c)
			if cell == nil || !cell.Revealed || cell.Impassable {
				continue
			}
			if t := b.grid.Get(c); t.IsWater() == home.IsWater() && t.Area != home.Area {
				continue
			}
			cell.EnemyCanMovePast = true
			cell.SubjectToAttack = true
		}
		if u.CanRangeAttack() {
			for _, c := range world.Spiral(u.Coord, u.Range) {
				if cell := b.m.Cell(c); cell != nil && cell.Revealed {
					cell.SubjectToAttack = true
				}
			}
		}
	}

	for _, t := range b.grid.Tiles() {
		if t.Improvement != world.ImprovementCitadel || t.Pillaged || t.Owner == world.NoPlayer || !b.atWar(t.Owner) {
			continue
		}
		for _, n := range t.Coord.Neighbors() {
			if cell := b.m.Cell(n); cell != nil && cell.Revealed {
				cell.SubjectToAttack = true
			}
		}
	}
}
