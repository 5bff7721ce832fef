package world

import "fmt"

// Tile represents a single hex on the world map.
type Tile struct {
	Coord   HexCoord `json:"coord"`
	Terrain Terrain  `json:"terrain"`

	// Elevation is set during generation: 0.0 (sea floor) to 1.0 (peak).
	Elevation float64 `json:"elevation"`

	// Ownership. Owner is NoPlayer for unclaimed land; CityID names the
	// city whose borders include the tile (0 when none).
	Owner  PlayerID `json:"owner"`
	CityID CityID   `json:"city_id,omitempty"`

	Improvement Improvement   `json:"improvement"`
	Pillaged    bool          `json:"pillaged"`
	Resource    ResourceClass `json:"resource"`

	// TradeRoutes counts the trade routes crossing this tile.
	TradeRoutes int `json:"trade_routes"`

	// Area is the contiguous land or water body the tile belongs to
	// (assigned by Map.ComputeAreas).
	Area int `json:"area"`

	revealed uint64 // bit per PlayerID
	visible  uint64
}

// IsWater reports whether the tile is a water tile.
func (t *Tile) IsWater() bool {
	return t.Terrain.IsWater()
}

// IsImpassable reports whether no unit may enter the tile.
func (t *Tile) IsImpassable() bool {
	return t.Terrain.IsImpassable()
}

// DefenseModifier returns the combined terrain and improvement defense bonus.
func (t *Tile) DefenseModifier() int {
	mod := t.Terrain.DefenseModifier()
	if !t.Pillaged {
		mod += t.Improvement.DefenseModifier()
	}
	return mod
}

// IsRevealed reports whether the player has ever seen the tile.
func (t *Tile) IsRevealed(p PlayerID) bool {
	return p >= 0 && t.revealed&(1<<uint(p)) != 0
}

// IsVisible reports whether the player currently sees the tile.
func (t *Tile) IsVisible(p PlayerID) bool {
	return p >= 0 && t.visible&(1<<uint(p)) != 0
}

// Reveal marks the tile as discovered by the player.
func (t *Tile) Reveal(p PlayerID) {
	if p >= 0 {
		t.revealed |= 1 << uint(p)
	}
}

// SetVisible sets current visibility for the player. Visible tiles are
// always revealed.
func (t *Tile) SetVisible(p PlayerID, v bool) {
	if p < 0 {
		return
	}
	if v {
		t.visible |= 1 << uint(p)
		t.revealed |= 1 << uint(p)
		return
	}
	t.visible &^= 1 << uint(p)
}

// Map holds the complete hex grid. Tiles are stored row-major over a
// rectangle of axial coordinates 0 <= q < Width, 0 <= r < Height.
type Map struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	tiles []*Tile
}

// NewMap creates a map filled with plains tiles.
func NewMap(width, height int) *Map {
	m := &Map{
		Width:  width,
		Height: height,
		tiles:  make([]*Tile, width*height),
	}
	for r := 0; r < height; r++ {
		for q := 0; q < width; q++ {
			c := HexCoord{Q: q, R: r}
			m.tiles[m.index(c)] = &Tile{Coord: c, Terrain: TerrainPlains, Owner: NoPlayer}
		}
	}
	return m
}

func (m *Map) index(c HexCoord) int {
	return c.R*m.Width + c.Q
}

// InBounds returns true if the coordinate lies on the map.
func (m *Map) InBounds(c HexCoord) bool {
	return c.Q >= 0 && c.Q < m.Width && c.R >= 0 && c.R < m.Height
}

// Get returns the tile at the given coordinate, or nil if out of bounds.
func (m *Map) Get(c HexCoord) *Tile {
	if !m.InBounds(c) {
		return nil
	}
	return m.tiles[m.index(c)]
}

// Tiles returns every tile in row-major order.
func (m *Map) Tiles() []*Tile {
	return m.tiles
}

// TileCount returns the total number of tiles in the map.
func (m *Map) TileCount() int {
	return len(m.tiles)
}

// Neighbors returns the in-bounds tiles adjacent to c.
func (m *Map) Neighbors(c HexCoord) []*Tile {
	out := make([]*Tile, 0, 6)
	for _, n := range c.Neighbors() {
		if t := m.Get(n); t != nil {
			out = append(out, t)
		}
	}
	return out
}

// ComputeAreas flood-fills contiguous land and water bodies and assigns
// each tile an area id. Impassable tiles get their own areas.
func (m *Map) ComputeAreas() int {
	for _, t := range m.tiles {
		t.Area = 0
	}
	next := 0
	for _, start := range m.tiles {
		if start.Area != 0 {
			continue
		}
		next++
		start.Area = next
		if start.IsImpassable() {
			continue
		}
		water := start.IsWater()
		queue := []HexCoord{start.Coord}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, n := range m.Neighbors(cur) {
				if n.Area != 0 || n.IsImpassable() || n.IsWater() != water {
					continue
				}
				n.Area = next
				queue = append(queue, n.Coord)
			}
		}
	}
	return next
}

// TerrainCounts returns a summary of terrain type distribution.
func (m *Map) TerrainCounts() map[Terrain]int {
	counts := make(map[Terrain]int)
	for _, t := range m.tiles {
		counts[t.Terrain]++
	}
	return counts
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(%dx%d, tiles=%d)", m.Width, m.Height, m.TileCount())
}
