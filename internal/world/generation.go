// World generation using layered simplex noise.
// Generates elevation and moisture maps, then derives terrain and resources.
package world

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds world generation parameters.
type GenConfig struct {
	Width       int     // Tiles along q
	Height      int     // Tiles along r
	Seed        int64   // Random seed (0 = random)
	SeaLevel    float64 // Elevation threshold for water (0.0–1.0)
	ShoreBand   float64 // Elevation band above SeaLevel-ShoreBand that is shallow
	HillLevel   float64 // Elevation threshold for hills
	MountainLvl float64 // Elevation threshold for mountains (0.0–1.0)
}

// DefaultGenConfig returns a reasonable starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Width:       40,
		Height:      26,
		Seed:        0,
		SeaLevel:    0.28,
		ShoreBand:   0.06,
		HillLevel:   0.62,
		MountainLvl: 0.78,
	}
}

// SmallTestConfig returns a tiny world for rapid iteration.
func SmallTestConfig() GenConfig {
	return GenConfig{
		Width:       12,
		Height:      10,
		Seed:        42,
		SeaLevel:    0.25,
		ShoreBand:   0.05,
		HillLevel:   0.65,
		MountainLvl: 0.85,
	}
}

// Generate creates a complete world map with terrain, resources and areas.
func Generate(cfg GenConfig) *Map {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	// Independent noise layers.
	elevNoise := opensimplex.NewNormalized(seed)
	moistNoise := opensimplex.NewNormalized(seed + 1)

	m := NewMap(cfg.Width, cfg.Height)
	cx := float64(cfg.Width) / 2
	cy := float64(cfg.Height) / 2
	maxR := math.Hypot(cx, cy)

	for _, t := range m.Tiles() {
		// Hex axial → cartesian: x = q + r*0.5, y = r * sqrt(3)/2
		x := float64(t.Coord.Q) + float64(t.Coord.R)*0.5
		y := float64(t.Coord.R) * math.Sqrt(3.0) / 2.0

		elev := octaveNoise(elevNoise, x, y, 4, 0.09, 0.5)
		moist := octaveNoise(moistNoise, x, y, 3, 0.07, 0.5)

		// Continental shaping: pull elevation down toward the map edge.
		dx := float64(t.Coord.Q) - cx
		dy := float64(t.Coord.R) - cy
		falloff := 1.0 - math.Pow(math.Hypot(dx, dy)/maxR, 3.0)
		if falloff < 0 {
			falloff = 0
		}
		elev *= 0.35 + 0.65*falloff

		t.Elevation = elev
		t.Terrain = deriveTerrain(elev, moist, float64(t.Coord.R)/float64(cfg.Height), cfg)
		t.Resource = deriveResource(t.Terrain, elev, moist)
	}

	m.ComputeAreas()
	return m
}

// deriveTerrain determines terrain type from environmental parameters.
// lat is the normalized row (0 top, 1 bottom); tundra hugs both poles.
func deriveTerrain(elev, moist, lat float64, cfg GenConfig) Terrain {
	if elev < cfg.SeaLevel-cfg.ShoreBand {
		return TerrainOcean
	}
	if elev < cfg.SeaLevel {
		return TerrainShore
	}
	if elev > cfg.MountainLvl {
		return TerrainMountain
	}
	if elev > cfg.HillLevel {
		return TerrainHills
	}
	if lat < 0.08 || lat > 0.92 {
		return TerrainTundra
	}
	if moist < 0.3 {
		return TerrainDesert
	}
	if moist > 0.72 && elev < 0.4 {
		return TerrainSwamp
	}
	if moist > 0.55 {
		return TerrainForest
	}
	if moist > 0.45 {
		return TerrainGrassland
	}
	return TerrainPlains
}

// deriveResource sprinkles resource classes based on terrain.
func deriveResource(t Terrain, elev, moist float64) ResourceClass {
	switch t {
	case TerrainHills:
		if elev > 0.7 {
			return ResourceStrategic // iron
		}
	case TerrainPlains:
		if moist > 0.4 && moist < 0.42 {
			return ResourceStrategic // horses
		}
	case TerrainForest, TerrainSwamp:
		if moist > 0.8 {
			return ResourceLuxury
		}
	case TerrainShore:
		if moist > 0.6 {
			return ResourceBonus // fish
		}
	case TerrainGrassland:
		if moist > 0.5 && moist < 0.52 {
			return ResourceLuxury
		}
	}
	return ResourceNone
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
