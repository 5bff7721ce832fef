// City, camp and improvement placement: finds suitable locations and seeds
// a generated map with the features the tactical layer fights over.
package world

import (
	"math"
	"math/rand"
	"sort"
)

// CitySeed holds the parameters for an initial city placement.
type CitySeed struct {
	Coord HexCoord
	Score float64
	Name  string
}

// PlaceCities finds the count best city sites on the map, at least minDist apart.
// Returns seeds sorted by desirability.
func PlaceCities(m *Map, count, minDist int, seed int64) []CitySeed {
	rng := rand.New(rand.NewSource(seed + 200))

	type scored struct {
		coord HexCoord
		score float64
	}
	var candidates []scored
	for _, t := range m.Tiles() {
		if t.IsWater() || t.IsImpassable() {
			continue
		}
		if s := citySiteScore(m, t); s > 0 {
			candidates = append(candidates, scored{t.Coord, s})
		}
	}

	// Sort by score descending; ties broken by coordinate for determinism.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if candidates[i].coord.R != candidates[j].coord.R {
			return candidates[i].coord.R < candidates[j].coord.R
		}
		return candidates[i].coord.Q < candidates[j].coord.Q
	})

	var seeds []CitySeed
	for _, c := range candidates {
		if len(seeds) >= count {
			break
		}
		if tooClose(c.coord, seeds, minDist) {
			continue
		}
		seeds = append(seeds, CitySeed{Coord: c.coord, Score: c.score})
	}

	names := generateNames(rng, len(seeds))
	for i := range seeds {
		if i < len(names) {
			seeds[i].Name = names[i]
		}
	}
	return seeds
}

// citySiteScore evaluates how desirable a tile is for a city.
// Prefers open ground near water with varied neighbors.
func citySiteScore(m *Map, t *Tile) float64 {
	score := 0.0
	switch t.Terrain {
	case TerrainGrassland:
		score += 3.5
	case TerrainPlains:
		score += 3.0
	case TerrainHills:
		score += 2.5 // Defensible
	case TerrainForest:
		score += 1.5
	case TerrainDesert, TerrainTundra, TerrainSwamp:
		score += 0.5
	default:
		return 0
	}

	kinds := make(map[Terrain]bool)
	water := false
	for _, n := range m.Neighbors(t.Coord) {
		kinds[n.Terrain] = true
		if n.IsWater() {
			water = true
		}
		if n.Resource != ResourceNone {
			score += 0.4
		}
	}
	score += float64(len(kinds)) * 0.3
	if water {
		score += 1.0
	}
	return score
}

// PlaceCamps picks count barbarian camp sites on unowned land, at least
// minDist from every coordinate in avoid and from each other.
func PlaceCamps(m *Map, avoid []HexCoord, count, minDist int, seed int64) []HexCoord {
	rng := rand.New(rand.NewSource(seed + 500))
	var open []HexCoord
	for _, t := range m.Tiles() {
		if t.IsWater() || t.IsImpassable() || t.Owner != NoPlayer || t.Improvement != ImprovementNone {
			continue
		}
		open = append(open, t.Coord)
	}
	rng.Shuffle(len(open), func(i, j int) { open[i], open[j] = open[j], open[i] })

	var camps []HexCoord
	for _, c := range open {
		if len(camps) >= count {
			break
		}
		if nearAny(c, avoid, minDist) || nearAny(c, camps, minDist) {
			continue
		}
		m.Get(c).Improvement = ImprovementBarbarianCamp
		camps = append(camps, c)
	}
	return camps
}

// PlaceRuins scatters ancient ruins on unowned, unimproved land.
func PlaceRuins(m *Map, count int, seed int64) []HexCoord {
	rng := rand.New(rand.NewSource(seed + 600))
	var open []HexCoord
	for _, t := range m.Tiles() {
		if t.IsWater() || t.IsImpassable() || t.Owner != NoPlayer || t.Improvement != ImprovementNone {
			continue
		}
		open = append(open, t.Coord)
	}
	rng.Shuffle(len(open), func(i, j int) { open[i], open[j] = open[j], open[i] })
	if len(open) > count {
		open = open[:count]
	}
	for _, c := range open {
		m.Get(c).Improvement = ImprovementAncientRuins
	}
	return open
}

// ImproveTerritory builds the natural improvement on every owned tile with a
// resource, and a farm on every other owned open tile adjacent to a city.
func ImproveTerritory(s *State) {
	for _, t := range s.WorldMap.Tiles() {
		if t.Owner == NoPlayer || t.Improvement != ImprovementNone || s.CityAt(t.Coord) != nil {
			continue
		}
		switch {
		case t.IsWater():
			if t.Resource != ResourceNone {
				t.Improvement = ImprovementFishingBoats
			}
		case t.Resource == ResourceStrategic && t.Terrain == TerrainHills:
			t.Improvement = ImprovementMine
		case t.Resource == ResourceStrategic:
			t.Improvement = ImprovementPasture
		case t.Resource == ResourceLuxury:
			t.Improvement = ImprovementPlantation
		case t.Terrain == TerrainPlains || t.Terrain == TerrainGrassland:
			t.Improvement = ImprovementFarm
		}
	}
}

// LayTradeRoute marks every land tile on the straight line between two
// points as carrying one more trade route.
func LayTradeRoute(m *Map, from, to HexCoord) {
	for _, c := range Line(from, to) {
		t := m.Get(c)
		if t == nil || t.IsImpassable() {
			continue
		}
		t.TradeRoutes++
	}
}

func tooClose(coord HexCoord, existing []CitySeed, minDist int) bool {
	for _, s := range existing {
		if Distance(coord, s.Coord) < minDist {
			return true
		}
	}
	return false
}

func nearAny(coord HexCoord, others []HexCoord, minDist int) bool {
	for _, o := range others {
		if Distance(coord, o) < minDist {
			return true
		}
	}
	return false
}

// generateNames produces procedural city names by combining syllables.
func generateNames(rng *rand.Rand, count int) []string {
	prefixes := []string{
		"Iron", "Green", "Ash", "Stone", "Mill", "Cross", "Black",
		"Silver", "Red", "White", "Dark", "Bright", "High", "Low",
		"Old", "New", "Far", "Deep", "Long", "Broad", "Gold", "Frost",
		"Storm", "Thorn", "Elm", "Oak", "Pine", "Copper", "River",
	}
	suffixes := []string{
		"haven", "ford", "hollow", "wick", "bridge", "gate", "keep",
		"stead", "wood", "field", "dale", "crest", "vale", "port",
		"town", "bury", "marsh", "well", "brook", "cliff", "moor",
		"ridge", "watch", "fall", "rest", "point", "reach", "helm",
	}

	used := make(map[string]bool)
	names := make([]string, 0, count)
	limit := len(prefixes) * len(suffixes)
	for len(names) < count && len(used) < limit {
		name := prefixes[rng.Intn(len(prefixes))] + suffixes[rng.Intn(len(suffixes))]
		if !used[name] {
			used[name] = true
			names = append(names, name)
		}
	}
	return names
}

// PopulationFor returns an initial population for a city site score.
func PopulationFor(score float64) int {
	return 1 + int(math.Floor(score/2))
}
