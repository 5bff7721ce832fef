package tactical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hexwar/internal/world"
)

func TestSelectPosture(t *testing.T) {
	tests := []struct {
		name string
		zone DominanceZone
		last Posture
		want Posture
	}{
		{
			name: "enemy territory, outgunned",
			zone: DominanceZone{Territory: TerritoryEnemy, Dominance: DominanceEnemy, FriendlyUnitCount: 2, EnemyUnitCount: 4},
			want: PostureWithdraw,
		},
		{
			name: "enemy territory objective, outgunned",
			zone: DominanceZone{Territory: TerritoryEnemy, Dominance: DominanceEnemy, Objective: true, FriendlyUnitCount: 2},
			want: PostureSitAndBombard,
		},
		{
			name: "enemy city, defenders gone",
			zone: DominanceZone{Territory: TerritoryEnemy, Dominance: DominanceFriendly, CityID: 3, FriendlyUnitCount: 3},
			want: PostureSurgicalCityStrike,
		},
		{
			name: "enemy territory, winning",
			zone: DominanceZone{Territory: TerritoryEnemy, Dominance: DominanceFriendly, CityID: 3, FriendlyUnitCount: 3, EnemyUnitCount: 1},
			want: PostureSteamroll,
		},
		{
			name: "enemy territory, even with ranged army",
			zone: DominanceZone{
				Territory: TerritoryEnemy, Dominance: DominanceEven, FriendlyUnitCount: 3, EnemyUnitCount: 3,
				FriendlyStrength: 100, FriendlyRangedStrength: 60, FriendlyRangedCount: 2,
			},
			want: PostureSitAndBombard,
		},
		{
			name: "enemy territory, even keeps last stance",
			zone: DominanceZone{Territory: TerritoryEnemy, Dominance: DominanceEven, FriendlyUnitCount: 3, EnemyUnitCount: 3},
			last: PostureSteamroll,
			want: PostureSteamroll,
		},
		{
			name: "enemy territory, even melee army",
			zone: DominanceZone{Territory: TerritoryEnemy, Dominance: DominanceEven, FriendlyUnitCount: 3, EnemyUnitCount: 3, FriendlyStrength: 100},
			last: PostureWithdraw,
			want: PostureExploitFlanks,
		},
		{
			name: "enemy territory, no army",
			zone: DominanceZone{Territory: TerritoryEnemy, Dominance: DominanceEnemy},
			want: PostureNone,
		},
		{
			name: "home, overrun",
			zone: DominanceZone{Territory: TerritoryFriendly, Dominance: DominanceEnemy, EnemyUnitCount: 5},
			want: PostureHedgehog,
		},
		{
			name: "home, even after hedgehog",
			zone: DominanceZone{Territory: TerritoryFriendly, Dominance: DominanceEven, EnemyUnitCount: 2},
			last: PostureHedgehog,
			want: PostureHedgehog,
		},
		{
			name: "home, raiders",
			zone: DominanceZone{Territory: TerritoryFriendly, Dominance: DominanceFriendly, EnemyUnitCount: 1},
			want: PostureCounterAttack,
		},
		{
			name: "home, quiet",
			zone: DominanceZone{Territory: TerritoryFriendly, Dominance: DominanceFriendly},
			want: PostureNone,
		},
		{
			name: "open ground, winning",
			zone: DominanceZone{Territory: TerritoryUnclaimed, Dominance: DominanceFriendly, FriendlyUnitCount: 2, EnemyUnitCount: 1},
			want: PostureSteamroll,
		},
		{
			name: "open ground, even, ranged heavy",
			zone: DominanceZone{
				Territory: TerritoryUnclaimed, Dominance: DominanceEven, FriendlyUnitCount: 2, EnemyUnitCount: 2,
				FriendlyStrength: 50, FriendlyRangedStrength: 30, FriendlyRangedCount: 1,
			},
			want: PostureAttritFromRange,
		},
		{
			name: "open ground, even after withdrawing",
			zone: DominanceZone{Territory: TerritoryNeutral, Dominance: DominanceEven, FriendlyUnitCount: 2, EnemyUnitCount: 2},
			last: PostureWithdraw,
			want: PostureWithdraw,
		},
		{
			name: "sea, outgunned",
			zone: DominanceZone{Water: true, Dominance: DominanceEnemy, FriendlyNavalCount: 1, EnemyUnitCount: 2},
			want: PostureWithdraw,
		},
		{
			name: "sea off an enemy city",
			zone: DominanceZone{Water: true, Territory: TerritoryEnemy, CityID: 4, Dominance: DominanceEven, FriendlyNavalCount: 2, FriendlyRangedCount: 1},
			want: PostureShoreBombardment,
		},
		{
			name: "home waters raided",
			zone: DominanceZone{Water: true, Territory: TerritoryFriendly, Dominance: DominanceEven, FriendlyNavalCount: 1, EnemyUnitCount: 1},
			want: PostureCounterAttack,
		},
		{
			name: "sea without a fleet",
			zone: DominanceZone{Water: true, Dominance: DominanceEnemy, EnemyUnitCount: 3},
			want: PostureNone,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z := tt.zone
			assert.Equal(t, tt.want, selectPosture(&z, tt.last))
		})
	}
}

func TestPosture_Names(t *testing.T) {
	assert.Equal(t, "surgical_city_strike", PostureSurgicalCityStrike.String())
	assert.Equal(t, "unknown", Posture(99).String())
	text, err := DominanceNotVisible.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "not_visible", string(text))
}

func TestRun_PostureMovesOnlyFireInMatchingZones(t *testing.T) {
	sc := newScenario(t, 8, 6, world.KindMajor)
	sc.state.RevealAll(0)
	sword := sc.addUnit(0, world.ClassMelee, hex(4, 3), 10)

	ai := sc.newAI(DefaultConfig())
	pass := sc.pass(ai, 0)
	agenda := []Move{{Type: MovePostureHedgehog, Priority: MovePostureHedgehog.BasePriority()}}

	pass.run(agenda)
	assert.Empty(t, sword.Missions, "no zone holds the hedgehog posture")
	assert.Equal(t, 1, pass.pool.Len())

	z := pass.grid.ZoneAt(sword.Coord)
	require.NotNil(t, z)
	z.Posture = PostureHedgehog
	pass.run(agenda)
	m, ok := sword.LastMission()
	require.True(t, ok)
	assert.Equal(t, world.MissionFortify, m.Type)
	assert.Equal(t, "posture_hedgehog", m.Source)
}

func TestResolvePostures_EvenFightKeepsLastStance(t *testing.T) {
	sc := newScenario(t, 8, 6, world.KindMajor)
	sc.state.RevealAll(0)
	sc.addUnit(0, world.ClassMelee, hex(4, 3), 10)

	ai := sc.newAI(DefaultConfig())
	sc.pass(ai, 0)
	require.NotEmpty(t, ai.grid.Zones())
	z := ai.grid.Zones()[0]
	even := func() {
		z.Water = false
		z.Territory = TerritoryEnemy
		z.Dominance = DominanceEven
		z.FriendlyUnitCount, z.EnemyUnitCount = 3, 3
		z.FriendlyStrength, z.FriendlyRangedStrength, z.FriendlyRangedCount = 100, 0, 0
	}
	key := postureKey{side: 0, anchor: z.Anchor}

	even()
	ai.postures[key] = PostureSteamroll
	ai.resolvePostures(0)
	assert.Equal(t, PostureSteamroll, z.Posture)

	even()
	ai.postures[key] = PostureWithdraw
	ai.resolvePostures(0)
	assert.Equal(t, PostureExploitFlanks, z.Posture, "a retreat is not carried into an even fight")
	assert.Equal(t, PostureExploitFlanks, ai.postures[key])
}
