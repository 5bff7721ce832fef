package pathing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hexwar/internal/diplomacy"
	"github.com/talgya/hexwar/internal/world"
)

type fixture struct {
	t     *testing.T
	state *world.State
	dip   *diplomacy.Table
	f     *Finder
}

func newFixture(t *testing.T, w, h int, kinds ...world.PlayerKind) *fixture {
	t.Helper()
	m := world.NewMap(w, h)
	state := world.NewState(m)
	for _, k := range kinds {
		_, err := state.AddPlayer(&world.Player{Name: k.String(), Kind: k})
		require.NoError(t, err)
	}
	dip := diplomacy.NewTable(state.Players())
	return &fixture{t: t, state: state, dip: dip, f: New(state, dip)}
}

func (fx *fixture) unit(owner world.PlayerID, class world.UnitClass, c world.HexCoord) *world.Unit {
	fx.t.Helper()
	u, err := fx.state.AddUnit(&world.Unit{Owner: owner, Class: class, Coord: c, Strength: 10, Moves: 2})
	require.NoError(fx.t, err)
	return u
}

func (fx *fixture) column(q int, fn func(*world.Tile)) {
	for r := 0; r < fx.state.Map().Height; r++ {
		fn(fx.state.Map().Get(world.HexCoord{Q: q, R: r}))
	}
}

func hex(q, r int) world.HexCoord {
	return world.HexCoord{Q: q, R: r}
}

func TestPath_OpenGround(t *testing.T) {
	fx := newFixture(t, 10, 4, world.KindMajor)
	u := fx.unit(0, world.ClassMelee, hex(1, 1))

	path, turns, ok := fx.f.Path(u, hex(5, 1), Options{})
	require.True(t, ok)
	assert.Equal(t, []world.HexCoord{hex(2, 1), hex(3, 1), hex(4, 1), hex(5, 1)}, path)
	assert.Equal(t, 2, turns)

	path, turns, ok = fx.f.Path(u, u.Coord, Options{})
	assert.True(t, ok)
	assert.Empty(t, path)
	assert.Zero(t, turns)
}

func TestPath_RoughTerrainAndWalls(t *testing.T) {
	fx := newFixture(t, 10, 3, world.KindMajor)
	u := fx.unit(0, world.ClassMelee, hex(1, 1))
	fx.column(3, func(t *world.Tile) { t.Terrain = world.TerrainHills })

	turns, ok := fx.f.TurnsTo(u, hex(4, 1), Options{})
	require.True(t, ok)
	assert.Equal(t, 2, turns, "1 + 2 + 1 movement points")

	fx.column(3, func(t *world.Tile) { t.Terrain = world.TerrainMountain })
	_, ok = fx.f.TurnsTo(u, hex(4, 1), Options{})
	assert.False(t, ok)
}

func TestPath_Domains(t *testing.T) {
	fx := newFixture(t, 10, 3, world.KindMajor)
	fx.column(4, func(t *world.Tile) { t.Terrain = world.TerrainShore })
	fx.column(5, func(t *world.Tile) { t.Terrain = world.TerrainShore })

	walker := fx.unit(0, world.ClassMelee, hex(2, 1))
	_, ok := fx.f.TurnsTo(walker, hex(7, 1), Options{})
	assert.False(t, ok, "walkers cannot cross water")

	walker.CanEmbark = true
	assert.Equal(t, ProfileEmbark, ProfileFor(walker))
	turns, ok := fx.f.TurnsTo(walker, hex(7, 1), Options{})
	require.True(t, ok)
	// 1 to the shore, 2 to embark, 1 across, 2 to land, 1 more.
	assert.Equal(t, 4, turns)

	boat, err := fx.state.AddUnit(&world.Unit{Owner: 0, Class: world.ClassNavalMelee, Coord: hex(4, 0), Moves: 4})
	require.NoError(t, err)
	assert.Equal(t, ProfileSwim, ProfileFor(boat))
	assert.True(t, fx.f.CanReach(boat, hex(5, 2), 1, Options{}))
	_, ok = fx.f.TurnsTo(boat, hex(3, 1), Options{})
	assert.False(t, ok, "boats stay at sea")

	_, err = fx.state.AddCity(&world.City{Owner: 0, Coord: hex(3, 1)})
	require.NoError(t, err)
	assert.True(t, fx.f.CanReach(boat, hex(3, 1), 1, Options{}), "own coastal city is a harbor")
}

func TestPath_ClosedBorders(t *testing.T) {
	fx := newFixture(t, 9, 3, world.KindMajor, world.KindMajor, world.KindBarbarian)
	fx.column(4, func(t *world.Tile) { t.Owner = 1 })
	u := fx.unit(0, world.ClassMelee, hex(1, 1))
	goal := hex(7, 1)

	_, ok := fx.f.TurnsTo(u, goal, Options{})
	assert.False(t, ok, "peace closes borders")

	fx.dip.SetOpenBorders(0, 1, true)
	_, ok = fx.f.TurnsTo(u, goal, Options{})
	assert.True(t, ok)

	fx.dip.SetOpenBorders(0, 1, false)
	fx.dip.DeclareWar(0, 1)
	_, ok = fx.f.TurnsTo(u, goal, Options{})
	assert.True(t, ok)

	raider := fx.unit(2, world.ClassMelee, hex(2, 0))
	_, ok = fx.f.TurnsTo(raider, goal, Options{})
	assert.True(t, ok, "barbarians ignore borders")
}

func TestPath_ForeignUnitsBlockPassage(t *testing.T) {
	fx := newFixture(t, 6, 1, world.KindMajor, world.KindMajor)
	u := fx.unit(0, world.ClassMelee, hex(0, 0))
	fx.unit(1, world.ClassMelee, hex(2, 0))

	turns, ok := fx.f.TurnsTo(u, hex(2, 0), Options{})
	assert.True(t, ok, "an occupied tile can still be the goal")
	assert.Equal(t, 1, turns)

	_, ok = fx.f.TurnsTo(u, hex(4, 0), Options{})
	assert.False(t, ok, "the single-row corridor is blocked")

	_, ok = fx.f.TurnsTo(u, hex(4, 0), Options{IgnoreUnits: true})
	assert.True(t, ok)
}

func TestReachable(t *testing.T) {
	fx := newFixture(t, 10, 10, world.KindMajor)
	u := fx.unit(0, world.ClassMelee, hex(5, 5))

	reach := fx.f.Reachable(u, 1, Options{})
	assert.Equal(t, 0, reach[u.Coord])
	assert.Equal(t, 1, reach[hex(7, 5)])
	_, far := reach[hex(8, 5)]
	assert.False(t, far)
	assert.Len(t, reach, 1+6+12)
}

func TestAdvance(t *testing.T) {
	fx := newFixture(t, 10, 1, world.KindMajor, world.KindMajor)
	u := fx.unit(0, world.ClassMelee, hex(0, 0))

	dest, ok := fx.f.Advance(u, hex(6, 0), false)
	require.True(t, ok)
	assert.Equal(t, hex(2, 0), dest, "one turn of movement")

	dest, ok = fx.f.Advance(u, hex(2, 0), true)
	require.True(t, ok)
	assert.Equal(t, hex(1, 0), dest, "stops short of the goal")

	fx.unit(0, world.ClassMelee, hex(2, 0))
	dest, _ = fx.f.Advance(u, hex(6, 0), false)
	assert.Equal(t, hex(1, 0), dest, "cannot share a tile with a friendly soldier")

	fx.state.Map().Get(hex(1, 0)).Terrain = world.TerrainForest
	slow := fx.unit(0, world.ClassWorker, hex(0, 0))
	slow.Moves = 1
	dest, _ = fx.f.Advance(slow, hex(6, 0), false)
	assert.Equal(t, hex(1, 0), dest, "the first step is always allowed")

	fx.state.Map().Get(hex(5, 0)).Terrain = world.TerrainMountain
	dest, ok = fx.f.Advance(u, hex(6, 0), false)
	assert.False(t, ok)
	assert.Equal(t, u.Coord, dest)
}
