package tactical

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/hexwar/internal/combat"
	"github.com/talgya/hexwar/internal/diplomacy"
	"github.com/talgya/hexwar/internal/entropy"
	"github.com/talgya/hexwar/internal/pathing"
	"github.com/talgya/hexwar/internal/world"
)

// scenario is a small hand-built world with every collaborator wired.
type scenario struct {
	t     *testing.T
	state *world.State
	dip   *diplomacy.Table
	fight *fakeCombat
	deps  Deps
}

func newScenario(t *testing.T, width, height int, kinds ...world.PlayerKind) *scenario {
	t.Helper()
	m := world.NewMap(width, height)
	m.ComputeAreas()
	s := world.NewState(m)
	for i, k := range kinds {
		_, err := s.AddPlayer(&world.Player{Name: fmt.Sprintf("side-%d", i), Kind: k, Handicap: "prince"})
		require.NoError(t, err)
	}
	dip := diplomacy.NewTable(s.Players())
	fight := &fakeCombat{
		Estimator: combat.New(s),
		damage:    make(map[world.UnitID]int),
		health:    make(map[world.HexCoord]int),
	}
	return &scenario{
		t:     t,
		state: s,
		dip:   dip,
		fight: fight,
		deps: Deps{
			World:     s,
			Paths:     pathing.New(s, dip),
			Diplomacy: dip,
			Danger:    world.NewDangerModel(s, dip.AtWar, fight.Strength),
			Combat:    fight,
			Random:    entropy.Zero(),
		},
	}
}

func (sc *scenario) newAI(cfg Config) *AI {
	sc.t.Helper()
	ai, err := New(cfg, sc.deps)
	require.NoError(sc.t, err)
	return ai
}

func (sc *scenario) setTerrain(tr world.Terrain, coords ...world.HexCoord) {
	for _, c := range coords {
		sc.state.Map().Get(c).Terrain = tr
	}
	sc.state.Map().ComputeAreas()
}

func (sc *scenario) addUnit(owner world.PlayerID, class world.UnitClass, c world.HexCoord, strength int) *world.Unit {
	sc.t.Helper()
	u, err := sc.state.AddUnit(&world.Unit{
		Owner:    owner,
		Name:     fmt.Sprintf("unit-%d-%s", owner, c),
		Class:    class,
		Coord:    c,
		Strength: strength,
	})
	require.NoError(sc.t, err)
	return u
}

func (sc *scenario) addRanged(owner world.PlayerID, c world.HexCoord, ranged, rng int) *world.Unit {
	sc.t.Helper()
	u, err := sc.state.AddUnit(&world.Unit{
		Owner:          owner,
		Name:           fmt.Sprintf("archer-%d-%s", owner, c),
		Class:          world.ClassRanged,
		Coord:          c,
		Strength:       5,
		RangedStrength: ranged,
		Range:          rng,
	})
	require.NoError(sc.t, err)
	return u
}

func (sc *scenario) addCity(owner world.PlayerID, c world.HexCoord, pop int) *world.City {
	sc.t.Helper()
	city, err := sc.state.AddCity(&world.City{Name: fmt.Sprintf("city-%s", c), Owner: owner, Coord: c, Population: pop})
	require.NoError(sc.t, err)
	return city
}

// pass builds a ready turn pass for side with a fresh grid and catalogue.
func (sc *scenario) pass(ai *AI, side world.PlayerID) *turnPass {
	sc.t.Helper()
	require.NoError(sc.t, ai.grid.Refresh(side, ai.deps, ai.temps))
	p := sc.state.Player(side)
	turn := sc.state.Turn()
	scanner := &targetScanner{
		cfg:    ai.cfg,
		deps:   ai.deps,
		grid:   ai.grid,
		player: p,
		turn:   turn,
		queued: func(c world.HexCoord) bool { return ai.isQueued(side, turn, c) },
	}
	return &turnPass{
		ai:      ai,
		cfg:     ai.cfg,
		deps:    ai.deps,
		player:  p,
		turn:    turn,
		grid:    ai.grid,
		targets: scanner.scan(),
		pool:    newRecruitPool(sc.state.UnitsOf(side), turn),
		report:  &TurnReport{Side: side, Turn: turn},
		claimed: make(map[world.HexCoord]bool),
	}
}

func (p *turnPass) context(mt MoveType, z *DominanceZone) *moveContext {
	return &moveContext{turnPass: p, move: Move{Type: mt, Priority: mt.BasePriority()}, zone: z}
}

// fakeCombat wraps the estimator with pinned damage and health values.
type fakeCombat struct {
	*combat.Estimator
	damage map[world.UnitID]int
	health map[world.HexCoord]int
}

func (f *fakeCombat) ExpectedDamage(u *world.Unit, target world.HexCoord) int {
	if d, ok := f.damage[u.ID]; ok {
		return d
	}
	return f.Estimator.ExpectedDamage(u, target)
}

func (f *fakeCombat) ExpectedDamageTaken(u *world.Unit, target world.HexCoord) int {
	if _, ok := f.damage[u.ID]; ok {
		return 0
	}
	return f.Estimator.ExpectedDamageTaken(u, target)
}

func (f *fakeCombat) TargetHealth(target world.HexCoord) int {
	if h, ok := f.health[target]; ok {
		return h
	}
	return f.Estimator.TargetHealth(target)
}

func hex(q, r int) world.HexCoord {
	return world.HexCoord{Q: q, R: r}
}

func missionsFor(s *world.State, turn int, id world.UnitID) []world.Mission {
	return s.MissionsForTurn(turn)[id]
}
