package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/hexwar/internal/diplomacy"
	"github.com/talgya/hexwar/internal/entropy"
	"github.com/talgya/hexwar/internal/tactical"
	"github.com/talgya/hexwar/internal/world"
)

type fixture struct {
	t     *testing.T
	sim   *Simulation
	state *world.State
	res   *TurnResult
}

// newFixture builds an all-plains world with one player per kind.
func newFixture(t *testing.T, w, h int, kinds ...world.PlayerKind) *fixture {
	t.Helper()
	m := world.NewMap(w, h)
	m.ComputeAreas()
	state := world.NewState(m)
	for i, k := range kinds {
		_, err := state.AddPlayer(&world.Player{Name: fmt.Sprintf("side%d", i), Kind: k, Handicap: "prince"})
		require.NoError(t, err)
	}
	dip := diplomacy.NewTable(state.Players())
	sim, err := NewSimulation(state, dip, tactical.DefaultConfig(), entropy.Zero())
	require.NoError(t, err)
	return &fixture{t: t, sim: sim, state: state, res: &TurnResult{Turn: state.Turn()}}
}

func (f *fixture) war(a, b world.PlayerID) {
	f.sim.Diplomacy.DeclareWar(a, b)
}

func (f *fixture) unit(owner world.PlayerID, class world.UnitClass, c world.HexCoord, strength int) *world.Unit {
	f.t.Helper()
	u, err := f.state.AddUnit(&world.Unit{Owner: owner, Class: class, Coord: c, Strength: strength, Moves: 2})
	require.NoError(f.t, err)
	return u
}

func (f *fixture) archer(owner world.PlayerID, c world.HexCoord, ranged int) *world.Unit {
	f.t.Helper()
	u, err := f.state.AddUnit(&world.Unit{
		Owner: owner, Class: world.ClassRanged, Coord: c,
		Strength: 5, RangedStrength: ranged, Range: 2, Moves: 2,
	})
	require.NoError(f.t, err)
	return u
}

func (f *fixture) city(owner world.PlayerID, c world.HexCoord) *world.City {
	f.t.Helper()
	city, err := f.state.AddCity(&world.City{Name: fmt.Sprintf("city%d", owner), Owner: owner, Coord: c})
	require.NoError(f.t, err)
	return city
}

func (f *fixture) order(u *world.Unit, mt world.MissionType, target world.HexCoord) {
	f.sim.apply(u, world.NewMission(mt, target, f.state.Turn(), "test"), f.res)
}

func hex(q, r int) world.HexCoord {
	return world.HexCoord{Q: q, R: r}
}
