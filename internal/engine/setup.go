// Scenario setup: generates the map and seeds it with sides, cities,
// camps and starting forces.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"

	"github.com/talgya/hexwar/internal/config"
	"github.com/talgya/hexwar/internal/diplomacy"
	"github.com/talgya/hexwar/internal/entropy"
	"github.com/talgya/hexwar/internal/world"
)

// ErrNoCitySites is returned when the map cannot fit the requested cities.
var ErrNoCitySites = errors.New("not enough city sites")

const (
	cityRadius     = 2
	campSpacing    = 4
	spawnRadius    = 3
	barbarianName  = "Barbarians"
	barbarianClass = world.ClassMelee
)

// unitStats are the defaults for a class when a scenario leaves them zero.
type unitStats struct {
	strength, ranged, rng, moves int
}

var classDefaults = map[world.UnitClass]unitStats{
	world.ClassMelee:       {strength: 20, moves: 2},
	world.ClassMounted:     {strength: 18, moves: 4},
	world.ClassRanged:      {strength: 10, ranged: 14, rng: 2, moves: 2},
	world.ClassSiege:       {strength: 8, ranged: 24, rng: 2, moves: 2},
	world.ClassScout:       {strength: 5, moves: 3},
	world.ClassNavalMelee:  {strength: 22, moves: 4},
	world.ClassNavalRanged: {strength: 12, ranged: 18, rng: 2, moves: 4},
	world.ClassSettler:     {moves: 2},
	world.ClassWorker:      {moves: 2},
	world.ClassGreatPerson: {moves: 2},
	world.ClassTrade:       {moves: 2},
}

// Spawner places starting units near a point.
type Spawner struct {
	state *world.State
	rng   *rand.Rand
}

// NewSpawner creates a spawner with the given seed.
func NewSpawner(state *world.State, seed int64) *Spawner {
	return &Spawner{state: state, rng: rand.New(rand.NewSource(seed + 300))}
}

// Spawn adds one unit of spec's class for owner on the nearest free tile
// around center it can stand on. It returns nil when no tile fits.
func (sp *Spawner) Spawn(owner world.PlayerID, spec config.UnitSpec, center world.HexCoord) *world.Unit {
	class, ok := world.ParseUnitClass(spec.Class)
	if !ok {
		return nil
	}
	stats := classDefaults[class]
	u := &world.Unit{
		Owner:          owner,
		Name:           class.String(),
		Class:          class,
		Strength:       pick(spec.Strength, stats.strength),
		RangedStrength: pick(spec.RangedStrength, stats.ranged),
		Range:          pick(spec.Range, stats.rng),
		Moves:          pick(spec.Moves, stats.moves),
		CanEmbark:      class.IsCombat() && class != world.ClassNavalMelee && class != world.ClassNavalRanged,
	}
	naval := class == world.ClassNavalMelee || class == world.ClassNavalRanged
	for radius := 0; radius <= spawnRadius; radius++ {
		ring := world.Ring(center, radius)
		sp.rng.Shuffle(len(ring), func(i, j int) { ring[i], ring[j] = ring[j], ring[i] })
		for _, c := range ring {
			if sp.fits(u, c, naval) {
				u.Coord = c
				placed, err := sp.state.AddUnit(u)
				if err != nil {
					return nil
				}
				return placed
			}
		}
	}
	return nil
}

func (sp *Spawner) fits(u *world.Unit, c world.HexCoord, naval bool) bool {
	t := sp.state.Map().Get(c)
	if t == nil || t.IsImpassable() || t.IsWater() != naval {
		return false
	}
	if city := sp.state.CityAt(c); city != nil && city.Owner != u.Owner {
		return false
	}
	for _, other := range sp.state.UnitsAt(c) {
		if other.Owner != u.Owner || other.IsCombat() == u.IsCombat() {
			return false
		}
	}
	return true
}

func pick(v, fallback int) int {
	if v != 0 {
		return v
	}
	return fallback
}

// Build generates a complete skirmish from a scenario.
func Build(sc config.Scenario) (*Simulation, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	m := world.Generate(sc.GenConfig())
	state := world.NewState(m)

	sides := make(map[string]*world.Player, len(sc.Sides))
	for _, spec := range sc.Sides {
		kind, _ := world.ParsePlayerKind(spec.Kind)
		p, err := state.AddPlayer(&world.Player{Name: spec.Name, Kind: kind, Handicap: spec.Handicap})
		if err != nil {
			return nil, err
		}
		sides[spec.Name] = p
	}
	var barb *world.Player
	if sc.Barbarians.Enabled {
		var err error
		barb, err = state.AddPlayer(&world.Player{Name: barbarianName, Kind: world.KindBarbarian, Handicap: sc.Barbarians.Handicap})
		if err != nil {
			return nil, err
		}
	}

	capitals, err := foundCities(state, sc, sides)
	if err != nil {
		return nil, err
	}
	world.ImproveTerritory(state)
	world.PlaceRuins(m, sc.Map.Ruins, sc.Seed)

	spawner := NewSpawner(state, sc.Seed)
	for _, spec := range sc.Sides {
		p := sides[spec.Name]
		capital, ok := capitals[p.ID]
		if !ok {
			continue
		}
		for _, us := range spec.Units {
			for range us.Count {
				if spawner.Spawn(p.ID, us, capital) == nil {
					slog.Warn("no room for unit", "side", p.Name, "class", us.Class)
				}
			}
		}
	}

	if barb != nil {
		var avoid []world.HexCoord
		for _, c := range state.Cities() {
			avoid = append(avoid, c.Coord)
		}
		camps := world.PlaceCamps(m, avoid, sc.Barbarians.Camps, campSpacing, sc.Seed)
		for _, camp := range camps {
			for range sc.Barbarians.UnitsPerCamp {
				spawner.Spawn(barb.ID, config.UnitSpec{Class: barbarianClass.String(), Strength: 14}, camp)
			}
		}
		slog.Info("barbarians placed", "camps", len(camps))
	}

	dip := diplomacy.NewTable(state.Players())
	for _, pair := range sc.Wars {
		dip.DeclareWar(sides[pair[0]].ID, sides[pair[1]].ID)
	}
	for _, pair := range sc.OpenBorders {
		dip.SetOpenBorders(sides[pair[0]].ID, sides[pair[1]].ID, true)
	}

	slog.Info("scenario ready",
		"name", sc.Name,
		"map", m.String(),
		"sides", len(state.Players()),
		"cities", len(state.Cities()),
		"units", len(state.Units()),
	)
	return NewSimulation(state, dip, sc.Tactical, entropy.NewStreams(sc.Seed))
}

// foundCities places every side's cities, west to east in side order so
// each side holds a contiguous region, and returns each side's capital.
func foundCities(state *world.State, sc config.Scenario, sides map[string]*world.Player) (map[world.PlayerID]world.HexCoord, error) {
	total := 0
	for _, spec := range sc.Sides {
		total += spec.Cities
	}
	spacing := max(sc.Map.CitySpacing, cityRadius*2)
	seeds := world.PlaceCities(state.Map(), total, spacing, sc.Seed)
	if len(seeds) < total {
		return nil, fmt.Errorf("%w: want %d, map fits %d", ErrNoCitySites, total, len(seeds))
	}
	sort.SliceStable(seeds, func(i, j int) bool {
		return seeds[i].Coord.Q+seeds[i].Coord.R/2 < seeds[j].Coord.Q+seeds[j].Coord.R/2
	})

	capitals := make(map[world.PlayerID]world.HexCoord)
	next := 0
	for _, spec := range sc.Sides {
		p := sides[spec.Name]
		var prev *world.City
		for i := range spec.Cities {
			seed := seeds[next]
			next++
			c, err := state.AddCity(&world.City{
				Name:       seed.Name,
				Owner:      p.ID,
				Coord:      seed.Coord,
				Population: world.PopulationFor(seed.Score),
				Capital:    i == 0,
			})
			if err != nil {
				return nil, err
			}
			state.ClaimTerritory(c.ID, cityRadius)
			if i == 0 {
				capitals[p.ID] = c.Coord
			}
			if prev != nil && sc.Map.TradeRoutes {
				world.LayTradeRoute(state.Map(), prev.Coord, c.Coord)
			}
			prev = c
		}
	}
	return capitals, nil
}
