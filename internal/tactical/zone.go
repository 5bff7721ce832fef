package tactical

import (
	"math"

	"github.com/talgya/hexwar/internal/world"
)

// Dominance is a zone's strength verdict.
type Dominance int8

const (
	DominanceNone Dominance = iota - 1
	DominanceNoUnits
	DominanceNotVisible
	DominanceEnemy
	DominanceEven
	DominanceFriendly
)

var dominanceNames = map[Dominance]string{
	DominanceNone:       "none",
	DominanceNoUnits:    "no_units",
	DominanceNotVisible: "not_visible",
	DominanceEnemy:      "enemy",
	DominanceEven:       "even",
	DominanceFriendly:   "friendly",
}

func (d Dominance) String() string {
	if s, ok := dominanceNames[d]; ok {
		return s
	}
	return "unknown"
}

// Rank orders verdicts from worst to best for the analysing side. The
// constants are declared in rank order.
func (d Dominance) Rank() int {
	return int(d)
}

// NoEnemyInRange is RangeClosestEnemyUnit when no enemy contributes.
const NoEnemyInRange = math.MaxInt32

// DominanceZone is a contiguous region evaluated as a unit. Two zones are
// the same zone when their anchors match.
type DominanceZone struct {
	ID        ZoneID         `json:"id"`
	Anchor    world.HexCoord `json:"anchor"`
	CityID    world.CityID   `json:"city_id"` // Zero for zones without a city
	Owner     world.PlayerID `json:"owner"`
	Area      int            `json:"area"`
	Water     bool           `json:"water"`
	Temporary bool           `json:"temporary"`
	Objective bool           `json:"objective"`
	Territory Territory      `json:"territory"`
	CellCount int            `json:"cell_count"`

	FriendlyStrength       int `json:"friendly_strength"`
	EnemyStrength          int `json:"enemy_strength"`
	FriendlyRangedStrength int `json:"friendly_ranged_strength"`
	EnemyRangedStrength    int `json:"enemy_ranged_strength"`
	FriendlyUnitCount      int `json:"friendly_unit_count"`
	EnemyUnitCount         int `json:"enemy_unit_count"`
	FriendlyRangedCount    int `json:"friendly_ranged_count"`
	EnemyRangedCount       int `json:"enemy_ranged_count"`
	FriendlyNavalCount     int `json:"friendly_naval_count"`
	EnemyNavalCount        int `json:"enemy_naval_count"`
	RangeClosestEnemyUnit  int `json:"range_closest_enemy_unit"`

	Dominance Dominance `json:"dominance"`
	Score     int       `json:"score"`
	Posture   Posture   `json:"posture"`
}

// SameAs reports zone identity.
func (z *DominanceZone) SameAs(o *DominanceZone) bool {
	return o != nil && z.Anchor == o.Anchor
}

func newZone(id ZoneID, anchor world.HexCoord) *DominanceZone {
	return &DominanceZone{
		ID:                    id,
		Anchor:                anchor,
		Owner:                 world.NoPlayer,
		RangeClosestEnemyUnit: NoEnemyInRange,
		Dominance:             DominanceNone,
	}
}

// classifyDominance turns strength totals into a verdict. Raising friendly
// strength with enemy strength fixed never lowers the verdict's rank.
func classifyDominance(friendly, enemy int, anchorVisible bool, pct int) Dominance {
	switch {
	case friendly <= 0 && enemy <= 0:
		return DominanceNoUnits
	case friendly <= 0 && !anchorVisible:
		return DominanceNotVisible
	case enemy <= 0:
		return DominanceFriendly
	case friendly*100 > enemy*(100+pct):
		return DominanceFriendly
	case enemy*100 > friendly*(100+pct):
		return DominanceEnemy
	default:
		return DominanceEven
	}
}

// landZoneMultiplier is skipped for water zones.
const landZoneMultiplier = 8

// territoryMultiplier escalates zones where the territory owner and the
// dominance verdict disagree.
var territoryMultiplier = map[Territory]map[Dominance]int{
	TerritoryFriendly: {
		DominanceEnemy:      4,
		DominanceEven:       3,
		DominanceNotVisible: 2,
	},
	TerritoryEnemy: {
		DominanceFriendly: 4,
		DominanceEven:     3,
		DominanceNoUnits:  2,
	},
	TerritoryNeutral: {
		DominanceEven: 2,
	},
	TerritoryUnclaimed: {
		DominanceEven: 2,
	},
}

func zoneMultiplier(t Territory, d Dominance) int {
	if m, ok := territoryMultiplier[t][d]; ok {
		return m
	}
	return 1
}

// MarshalText encodes the verdict by name.
func (d Dominance) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
