package tactical

import "github.com/talgya/hexwar/internal/world"

// Territory classifies a cell's ownership relative to the analysing side.
type Territory uint8

const (
	TerritoryUnclaimed Territory = iota
	TerritoryFriendly
	TerritoryEnemy   // Owned by a side at war with us
	TerritoryNeutral // Owned by a side at peace with open borders
	TerritoryClosed  // Owned by a side at peace without open borders
)

var territoryNames = [...]string{
	TerritoryUnclaimed: "unclaimed",
	TerritoryFriendly:  "friendly",
	TerritoryEnemy:     "enemy",
	TerritoryNeutral:   "neutral",
	TerritoryClosed:    "closed",
}

func (t Territory) String() string {
	if int(t) < len(territoryNames) {
		return territoryNames[t]
	}
	return "unknown"
}

// ZoneID is a handle into the analysis map's zone arena.
type ZoneID int

// NoZone marks cells that belong to no dominance zone.
const NoZone ZoneID = -1

// Cell is the per-coordinate snapshot the tactical pass reads. Occupant
// fields are unit IDs, zero when empty.
type Cell struct {
	Revealed   bool
	Visible    bool
	Water      bool
	Impassable bool
	Territory  Territory
	Owner      world.PlayerID
	Area       int

	FriendlyMilitary world.UnitID
	FriendlyCivilian world.UnitID
	EnemyMilitary    world.UnitID
	EnemyCivilian    world.UnitID
	NeutralMilitary  world.UnitID
	NeutralCivilian  world.UnitID

	DefenseModifier int
	Zone            ZoneID

	// Per-pass flags.
	SubjectToAttack  bool
	EnemyCanMovePast bool
	Processed        bool
}

func emptyCell() Cell {
	return Cell{Owner: world.NoPlayer, Zone: NoZone}
}

// Occupied reports whether any unit stands on the cell.
func (c *Cell) Occupied() bool {
	return c.FriendlyMilitary != 0 || c.FriendlyCivilian != 0 ||
		c.EnemyMilitary != 0 || c.EnemyCivilian != 0 ||
		c.NeutralMilitary != 0 || c.NeutralCivilian != 0
}

// MarshalText encodes the territory by name.
func (t Territory) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}
