package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hexwar/internal/engine"
	"github.com/talgya/hexwar/internal/tactical"
	"github.com/talgya/hexwar/internal/world"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleTurn(turn int) *engine.TurnResult {
	attack := world.NewMission(world.MissionAttack, world.HexCoord{Q: 5, R: 4}, turn, "destroy_low_unit")
	skip := world.NewMission(world.MissionSkip, world.HexCoord{Q: 1, R: 1}, turn, "skip")
	return &engine.TurnResult{
		Turn: turn,
		Reports: []*tactical.TurnReport{
			{
				Side: 0,
				Turn: turn,
				Agenda: []tactical.Move{
					{Type: tactical.MoveCaptureCity, Priority: 150},
					{Type: tactical.MoveDestroyLowUnit, Priority: 20},
				},
				Zones: []tactical.DominanceZone{
					{ID: 0, Anchor: world.HexCoord{Q: 3, R: 3}, CityID: 1, Territory: tactical.TerritoryFriendly, Dominance: tactical.DominanceFriendly, Score: 40, FriendlyStrength: 60},
					{ID: 1, Anchor: world.HexCoord{Q: 8, R: 3}, Water: true, Territory: tactical.TerritoryNeutral, Dominance: tactical.DominanceEnemy, Posture: tactical.PostureWithdraw, Score: 90, EnemyStrength: 30},
				},
				Orders: []tactical.IssuedOrder{
					{Unit: 2, Mission: attack},
					{Unit: 1, Mission: skip},
				},
				Skipped: 1,
			},
		},
		Events: []engine.Event{
			{Turn: turn, Side: 0, Category: "combat", Description: "side0 destroyed a side1 melee"},
		},
	}
}

func TestSaveTurn_RoundTrip(t *testing.T) {
	db := openTemp(t)
	require.NoError(t, db.SaveTurn(sampleTurn(3)))

	last, err := db.LastTurn()
	require.NoError(t, err)
	assert.Equal(t, 3, last)

	agenda, err := db.Agenda(0, 3)
	require.NoError(t, err)
	require.Len(t, agenda, 2)
	assert.Equal(t, "capture_city", agenda[0].Move)
	assert.Equal(t, 1, agenda[1].Rank)

	zones, err := db.Zones(0, 3)
	require.NoError(t, err)
	require.Len(t, zones, 2)
	assert.Equal(t, 90, zones[0].Score, "highest score first")
	assert.True(t, zones[0].Water)
	assert.Equal(t, "withdraw", zones[0].Posture)
	assert.Equal(t, "friendly", zones[1].Dominance)

	missions, err := db.Missions(3)
	require.NoError(t, err)
	require.Len(t, missions, 2)
	assert.Equal(t, int64(1), missions[0].UnitID)
	assert.Equal(t, "attack", missions[1].Type)
	assert.Equal(t, 5, missions[1].TargetQ)

	events, err := db.RecentEvents(10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "combat", events[0].Category)
}

func TestSaveTurn_ReplayIsIdempotent(t *testing.T) {
	db := openTemp(t)
	res := sampleTurn(1)
	require.NoError(t, db.SaveTurn(res))
	require.NoError(t, db.SaveTurn(res))

	agenda, err := db.Agenda(0, 1)
	require.NoError(t, err)
	assert.Len(t, agenda, 2)
	missions, err := db.Missions(1)
	require.NoError(t, err)
	assert.Len(t, missions, 2)
}

func TestMoveUsage(t *testing.T) {
	db := openTemp(t)
	require.NoError(t, db.SaveTurn(sampleTurn(1)))
	require.NoError(t, db.SaveTurn(sampleTurn(2)))

	usage, err := db.MoveUsage()
	require.NoError(t, err)
	assert.Equal(t, 2, usage["destroy_low_unit"])
	assert.Equal(t, 2, usage["skip"])
}

func TestLastTurn_EmptyJournal(t *testing.T) {
	db := openTemp(t)
	last, err := db.LastTurn()
	require.NoError(t, err)
	assert.Zero(t, last)

	require.NoError(t, db.SaveMeta("seed", "42"))
	v, err := db.GetMeta("seed")
	require.NoError(t, err)
	assert.Equal(t, "42", v)
}
