package tactical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hexwar/internal/pathing"
	"github.com/talgya/hexwar/internal/world"
)

func TestWander_SteersToNearestTarget(t *testing.T) {
	sc := newScenario(t, 12, 8, world.KindMajor, world.KindBarbarian)
	sc.state.RevealAll(1)
	raider := sc.addUnit(1, world.ClassMelee, hex(3, 4), 8)
	prey := sc.addUnit(0, world.ClassMelee, hex(7, 4), 8)

	ai := sc.newAI(DefaultConfig())
	pass := sc.pass(ai, 1)
	n := wanderAggressive(pass.context(MoveBarbarianAggressiveMove, nil))
	assert.Equal(t, 1, n)

	m, ok := raider.LastMission()
	require.True(t, ok)
	assert.Equal(t, world.MissionMoveTo, m.Type)
	assert.Less(t, world.Distance(m.Target, prey.Coord), world.Distance(raider.Coord, prey.Coord))
	assert.True(t, pass.claimed[prey.Coord])
}

func TestWander_TargetOutOfRangeIgnored(t *testing.T) {
	sc := newScenario(t, 16, 8, world.KindMajor, world.KindBarbarian)
	sc.state.RevealAll(1)
	sc.state.Player(1).Handicap = "settler"
	raider := sc.addUnit(1, world.ClassMelee, hex(2, 4), 8)
	prey := sc.addUnit(0, world.ClassMelee, hex(8, 4), 8)

	ai := sc.newAI(DefaultConfig())
	pass := sc.pass(ai, 1)
	x := pass.context(MoveBarbarianAggressiveMove, nil)
	_, ok := x.steerToTarget(raider)
	assert.False(t, ok)
	assert.False(t, pass.claimed[prey.Coord])
}

func TestWander_SecondUnitSkipsClaimedTarget(t *testing.T) {
	sc := newScenario(t, 12, 8, world.KindMajor, world.KindBarbarian)
	sc.state.RevealAll(1)
	first := sc.addUnit(1, world.ClassMelee, hex(3, 4), 8)
	second := sc.addUnit(1, world.ClassMelee, hex(3, 5), 8)
	prey := sc.addUnit(0, world.ClassMelee, hex(7, 4), 8)

	ai := sc.newAI(DefaultConfig())
	pass := sc.pass(ai, 1)
	x := pass.context(MoveBarbarianAggressiveMove, nil)
	_, ok := x.steerToTarget(first)
	require.True(t, ok)
	_, ok = x.steerToTarget(second)
	assert.False(t, ok, "%s is already claimed", prey.Coord)
}

func TestWander_FallsBackToTradeRoute(t *testing.T) {
	sc := newScenario(t, 12, 8, world.KindMajor, world.KindBarbarian)
	sc.state.RevealAll(1)
	crossing := hex(6, 4)
	sc.state.Map().Get(crossing).TradeRoutes = 2
	sc.state.Map().Get(hex(5, 6)).TradeRoutes = 1
	raider := sc.addUnit(1, world.ClassMelee, hex(4, 4), 8)

	ai := sc.newAI(DefaultConfig())
	pass := sc.pass(ai, 1)
	require.Equal(t, 1, wanderAggressive(pass.context(MoveBarbarianAggressiveMove, nil)))

	m, _ := raider.LastMission()
	assert.Equal(t, world.MissionMoveTo, m.Type)
	assert.Equal(t, 1, world.Distance(m.Target, crossing))
	assert.Equal(t, hex(5, 4), m.Target, "the closest tile beside the busiest crossing")
}

func TestWander_FallsBackToExploration(t *testing.T) {
	sc := newScenario(t, 12, 12, world.KindMajor, world.KindBarbarian)
	for _, tile := range sc.state.Map().Tiles() {
		if tile.Coord.Q <= 5 {
			tile.Reveal(1)
		}
	}
	raider := sc.addUnit(1, world.ClassMelee, hex(5, 5), 8)

	ai := sc.newAI(DefaultConfig())
	pass := sc.pass(ai, 1)
	require.Equal(t, 1, wanderAggressive(pass.context(MoveBarbarianAggressiveMove, nil)))

	m, _ := raider.LastMission()
	assert.Equal(t, world.MissionMoveTo, m.Type)
	assert.Greater(t, m.Target.Q, raider.Coord.Q, "heads into the unknown")
}

func TestWander_OwnedLandBeatsExploration(t *testing.T) {
	sc := newScenario(t, 12, 12, world.KindMajor, world.KindBarbarian)
	for _, tile := range sc.state.Map().Tiles() {
		if tile.Coord.Q <= 5 {
			tile.Reveal(1)
		}
	}
	owned := hex(4, 5)
	sc.state.Map().Get(owned).Owner = 0
	raider := sc.addUnit(1, world.ClassMelee, hex(5, 5), 8)

	ai := sc.newAI(DefaultConfig())
	pass := sc.pass(ai, 1)
	dest, ok := pass.context(MoveBarbarianPassiveMove, nil).exploreMove(raider, sc.deps.Paths.Reachable(raider, 1, pathing.Options{}))
	require.True(t, ok)
	assert.Equal(t, owned, dest)
}

func TestBarbarian_GuardCampAndPassiveReturn(t *testing.T) {
	sc := newScenario(t, 12, 8, world.KindMajor, world.KindBarbarian)
	sc.state.RevealAll(1)
	camp := hex(2, 2)
	sc.state.Map().Get(camp).Improvement = world.ImprovementBarbarianCamp
	guard := sc.addUnit(1, world.ClassMelee, camp, 8)
	straggler := sc.addUnit(1, world.ClassMelee, hex(8, 5), 8)

	ai := sc.newAI(DefaultConfig())
	pass := sc.pass(ai, 1)
	assert.Equal(t, 1, guardCamps(pass.context(MoveBarbarianGuardCamp, nil)))
	m, _ := guard.LastMission()
	assert.Equal(t, world.MissionFortify, m.Type)

	assert.Equal(t, 1, wanderPassive(pass.context(MoveBarbarianPassiveMove, nil)))
	m, _ = straggler.LastMission()
	assert.Equal(t, world.MissionMoveTo, m.Type)
	assert.Less(t, world.Distance(m.Target, camp), world.Distance(straggler.Coord, camp))
}

func TestBarbarian_DefendThreatenedCamp(t *testing.T) {
	sc := newScenario(t, 12, 8, world.KindMajor, world.KindBarbarian)
	sc.state.RevealAll(1)
	camp := hex(4, 4)
	sc.state.Map().Get(camp).Improvement = world.ImprovementBarbarianCamp
	defender := sc.addUnit(1, world.ClassMelee, hex(3, 4), 8)
	sc.addUnit(0, world.ClassMelee, hex(7, 4), 8)

	ai := sc.newAI(DefaultConfig())
	pass := sc.pass(ai, 1)
	assert.Equal(t, 1, defendCamps(pass.context(MoveBarbarianCampDefense, nil)))
	m, _ := defender.LastMission()
	assert.Equal(t, world.MissionMoveTo, m.Type)
	assert.Equal(t, camp, m.Target)
}

func TestBarbarian_DesperateAttackPicksWeakest(t *testing.T) {
	sc := newScenario(t, 10, 8, world.KindMajor, world.KindBarbarian)
	sc.state.RevealAll(1)
	raider := sc.addUnit(1, world.ClassMelee, hex(4, 4), 6)
	sc.addUnit(0, world.ClassMelee, hex(5, 4), 12)
	weak := sc.addUnit(0, world.ClassMelee, hex(3, 4), 12)
	weak.Health = 30

	ai := sc.newAI(DefaultConfig())
	pass := sc.pass(ai, 1)
	assert.Equal(t, 1, desperateAttack(pass.context(MoveBarbarianDesperateAttack, nil)))
	m, _ := raider.LastMission()
	assert.Equal(t, world.MissionAttack, m.Type)
	assert.Equal(t, weak.Coord, m.Target)
}

func TestBarbarian_EscortCapturedCivilian(t *testing.T) {
	sc := newScenario(t, 12, 8, world.KindMajor, world.KindBarbarian)
	sc.state.RevealAll(1)
	camp := hex(2, 4)
	sc.state.Map().Get(camp).Improvement = world.ImprovementBarbarianCamp
	captive := sc.addUnit(1, world.ClassWorker, hex(7, 4), 0)
	escort := sc.addUnit(1, world.ClassMelee, hex(7, 3), 8)

	ai := sc.newAI(DefaultConfig())
	pass := sc.pass(ai, 1)
	assert.Equal(t, 2, escortCivilians(pass.context(MoveBarbarianEscortCivilian, nil)))

	cm, _ := captive.LastMission()
	em, _ := escort.LastMission()
	assert.Less(t, world.Distance(cm.Target, camp), world.Distance(captive.Coord, camp))
	assert.Equal(t, cm.Target, em.Target, "the escort shares the captive's tile")
}
