package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func alwaysWar(a, b PlayerID) bool { return a != b }

func rawStrength(u *Unit) int { return u.Strength }

func TestBuildDangerMap_Falloff(t *testing.T) {
	s := newTestState(t, 12, 12, 2)
	s.AddUnit(&Unit{Owner: 1, Class: ClassMelee, Coord: HexCoord{5, 5}, Strength: 10, Moves: 2})

	d := BuildDangerMap(s, 0, alwaysWar, rawStrength)
	assert.Equal(t, 40, d.Danger(HexCoord{5, 5}))
	assert.Equal(t, 30, d.Danger(HexCoord{6, 5}))
	assert.Equal(t, 10, d.Danger(HexCoord{8, 5}), "edge of move plus one")
	assert.Zero(t, d.Danger(HexCoord{9, 5}))
	assert.Equal(t, PlayerID(0), d.Side())
	assert.Equal(t, 1, d.Turn())

	own := BuildDangerMap(s, 1, alwaysWar, rawStrength)
	assert.Zero(t, own.Danger(HexCoord{5, 5}), "own units are no threat")
}

func TestBuildDangerMap_RangedAndPeace(t *testing.T) {
	s := newTestState(t, 12, 12, 2)
	s.AddUnit(&Unit{Owner: 1, Class: ClassRanged, Coord: HexCoord{5, 5}, Strength: 5, RangedStrength: 8, Range: 2, Moves: 2})
	s.AddUnit(&Unit{Owner: 1, Class: ClassWorker, Coord: HexCoord{1, 1}})

	d := BuildDangerMap(s, 0, alwaysWar, rawStrength)
	assert.Equal(t, 5, d.Danger(HexCoord{9, 5}), "move plus range")
	assert.Zero(t, d.Danger(HexCoord{1, 1}), "civilians carry no danger")

	peace := BuildDangerMap(s, 0, func(a, b PlayerID) bool { return false }, rawStrength)
	assert.Zero(t, peace.Danger(HexCoord{5, 5}))

	var missing *DangerMap
	assert.Zero(t, missing.Danger(HexCoord{5, 5}))
}

func TestDangerModel_CachesUntilInvalidated(t *testing.T) {
	s := newTestState(t, 12, 12, 2)
	u, _ := s.AddUnit(&Unit{Owner: 1, Class: ClassMelee, Coord: HexCoord{5, 5}, Strength: 10, Moves: 2})
	model := NewDangerModel(s, alwaysWar, rawStrength)

	assert.Equal(t, 40, model.Danger(0, HexCoord{5, 5}))
	u.Coord = HexCoord{1, 1}
	assert.Equal(t, 40, model.Danger(0, HexCoord{5, 5}), "cached for the turn")

	model.Invalidate()
	assert.Zero(t, model.Danger(0, HexCoord{5, 5}))
	assert.Equal(t, 40, model.Danger(0, HexCoord{1, 1}))

	u.Coord = HexCoord{8, 8}
	s.AdvanceTurn()
	assert.Equal(t, 40, model.Danger(0, HexCoord{8, 8}), "a new turn rebuilds")
}
