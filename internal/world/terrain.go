package world

// Terrain types for hex tiles.
type Terrain uint8

const (
	TerrainPlains    Terrain = iota // Open ground
	TerrainGrassland                // Open ground, farmable
	TerrainForest                   // Rough, +25% defense
	TerrainHills                    // Rough, +25% defense
	TerrainMountain                 // Impassable
	TerrainDesert                   // Open ground
	TerrainTundra                   // Open ground
	TerrainSwamp                    // Rough, no defense bonus
	TerrainShore                    // Shallow water
	TerrainOcean                    // Deep water
)

// IsWater reports whether the terrain is navigable only by sea units or
// embarked land units.
func (t Terrain) IsWater() bool {
	return t == TerrainShore || t == TerrainOcean
}

// IsImpassable reports whether no unit may ever enter the terrain.
func (t Terrain) IsImpassable() bool {
	return t == TerrainMountain
}

// IsRough reports whether the terrain costs a full turn of movement for most units.
func (t Terrain) IsRough() bool {
	return t == TerrainForest || t == TerrainHills || t == TerrainSwamp
}

// MoveCost returns the movement points spent entering a tile of this terrain.
func (t Terrain) MoveCost() int {
	if t.IsRough() {
		return 2
	}
	return 1
}

// DefenseModifier returns the percentage defense bonus the terrain grants.
func (t Terrain) DefenseModifier() int {
	switch t {
	case TerrainForest, TerrainHills:
		return 25
	case TerrainSwamp:
		return -10
	default:
		return 0
	}
}

// TerrainName returns a human-readable name for a terrain type.
func TerrainName(t Terrain) string {
	switch t {
	case TerrainPlains:
		return "Plains"
	case TerrainGrassland:
		return "Grassland"
	case TerrainForest:
		return "Forest"
	case TerrainHills:
		return "Hills"
	case TerrainMountain:
		return "Mountain"
	case TerrainDesert:
		return "Desert"
	case TerrainTundra:
		return "Tundra"
	case TerrainSwamp:
		return "Swamp"
	case TerrainShore:
		return "Shore"
	case TerrainOcean:
		return "Ocean"
	default:
		return "Unknown"
	}
}

// Improvement is a constructed tile feature.
type Improvement uint8

const (
	ImprovementNone Improvement = iota
	ImprovementFarm
	ImprovementMine
	ImprovementPlantation
	ImprovementPasture
	ImprovementTradingPost
	ImprovementFishingBoats     // water
	ImprovementOffshorePlatform // water
	ImprovementFort
	ImprovementCitadel
	ImprovementBarbarianCamp
	ImprovementAncientRuins // goody hut
)

var improvementNames = [...]string{
	ImprovementNone:             "none",
	ImprovementFarm:             "farm",
	ImprovementMine:             "mine",
	ImprovementPlantation:       "plantation",
	ImprovementPasture:          "pasture",
	ImprovementTradingPost:      "trading post",
	ImprovementFishingBoats:     "fishing boats",
	ImprovementOffshorePlatform: "offshore platform",
	ImprovementFort:             "fort",
	ImprovementCitadel:          "citadel",
	ImprovementBarbarianCamp:    "barbarian camp",
	ImprovementAncientRuins:     "ancient ruins",
}

func (i Improvement) String() string {
	if int(i) < len(improvementNames) {
		return improvementNames[i]
	}
	return "unknown"
}

// IsWaterImprovement reports whether the improvement sits on a water tile.
func (i Improvement) IsWaterImprovement() bool {
	return i == ImprovementFishingBoats || i == ImprovementOffshorePlatform
}

// IsDefensive reports whether the improvement grants a fortification bonus.
func (i Improvement) IsDefensive() bool {
	return i == ImprovementFort || i == ImprovementCitadel
}

// IsPillageable reports whether the improvement can be pillaged at all.
func (i Improvement) IsPillageable() bool {
	switch i {
	case ImprovementNone, ImprovementBarbarianCamp, ImprovementAncientRuins:
		return false
	default:
		return true
	}
}

// DefenseModifier returns the percentage defense bonus the improvement grants.
func (i Improvement) DefenseModifier() int {
	switch i {
	case ImprovementFort:
		return 50
	case ImprovementCitadel:
		return 100
	default:
		return 0
	}
}

// ResourceClass groups tile resources by strategic value.
type ResourceClass uint8

const (
	ResourceNone ResourceClass = iota
	ResourceBonus
	ResourceStrategic
	ResourceLuxury
)
