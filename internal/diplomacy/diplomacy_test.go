package diplomacy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/hexwar/internal/world"
)

func players() []*world.Player {
	return []*world.Player{
		{ID: 0, Name: "rome", Kind: world.KindMajor},
		{ID: 1, Name: "carthage", Kind: world.KindMajor},
		{ID: 2, Name: "sidon", Kind: world.KindCityState},
		{ID: 3, Name: "barbarians", Kind: world.KindBarbarian},
	}
}

func TestWarAndPeace(t *testing.T) {
	tbl := NewTable(players())
	assert.False(t, tbl.AtWar(0, 1))

	tbl.SetOpenBorders(1, 0, true)
	assert.True(t, tbl.OpenBorders(0, 1), "agreements are symmetric")

	tbl.DeclareWar(1, 0)
	assert.True(t, tbl.AtWar(0, 1))
	assert.False(t, tbl.OpenBorders(0, 1), "war closes borders")

	tbl.MakePeace(0, 1)
	assert.False(t, tbl.AtWar(1, 0))

	tbl.DeclareWar(2, 2)
	assert.False(t, tbl.AtWar(2, 2))
	assert.True(t, tbl.OpenBorders(2, 2))
}

func TestBarbariansFightEveryone(t *testing.T) {
	tbl := NewTable(players())
	for _, p := range []world.PlayerID{0, 1, 2} {
		assert.True(t, tbl.AtWar(p, 3))
		assert.True(t, tbl.AtWar(3, p))
	}
	assert.False(t, tbl.AtWar(3, world.NoPlayer))
	assert.False(t, tbl.AtWar(3, 3))

	tbl.DeclareWar(0, 2)
	assert.Equal(t, []world.PlayerID{2, 3}, tbl.Enemies(0, players()))
	assert.Equal(t, []world.PlayerID{3}, tbl.Enemies(1, players()))
}

func TestTrend(t *testing.T) {
	tbl := NewTable(players())
	tests := []struct {
		score int
		want  Trend
	}{
		{0, TrendEven},
		{49, TrendEven},
		{50, TrendWinning},
		{199, TrendWinning},
		{200, TrendDecisivelyWinning},
		{-50, TrendLosing},
		{-200, TrendDecisivelyLosing},
	}
	for _, tt := range tests {
		tbl.warScore[0] = tt.score
		assert.Equal(t, tt.want, tbl.Trend(0), "score %d", tt.score)
	}
	assert.True(t, TrendDecisivelyLosing.IsDecisive())
	assert.False(t, TrendWinning.IsDecisive())
	assert.Equal(t, "decisively_winning", TrendDecisivelyWinning.String())
}

func TestRecordLoss(t *testing.T) {
	tbl := NewTable(players())
	tbl.RecordLoss(0, 1, 60)
	tbl.RecordLoss(1, 0, 20)
	assert.Equal(t, 40, tbl.Score(0))
	assert.Equal(t, -40, tbl.Score(1))
	assert.Zero(t, tbl.Score(2))
}
