package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestState(t *testing.T, w, h, sides int) *State {
	t.Helper()
	m := NewMap(w, h)
	m.ComputeAreas()
	s := NewState(m)
	for i := 0; i < sides; i++ {
		_, err := s.AddPlayer(&Player{Name: "side", Kind: KindMajor})
		require.NoError(t, err)
	}
	return s
}

func TestComputeAreas(t *testing.T) {
	m := NewMap(7, 4)
	for r := 0; r < 4; r++ {
		m.Get(HexCoord{3, r}).Terrain = TerrainOcean
	}
	m.Get(HexCoord{0, 0}).Terrain = TerrainMountain

	assert.Equal(t, 4, m.ComputeAreas())
	left := m.Get(HexCoord{1, 1}).Area
	water := m.Get(HexCoord{3, 2}).Area
	right := m.Get(HexCoord{5, 1}).Area
	assert.NotEqual(t, left, right, "the strait splits the land")
	assert.NotEqual(t, left, water)
	assert.Equal(t, left, m.Get(HexCoord{2, 3}).Area)
	assert.NotEqual(t, left, m.Get(HexCoord{0, 0}).Area, "mountains stand alone")
}

func TestAddPlayer_Limit(t *testing.T) {
	s := newTestState(t, 2, 2, 64)
	_, err := s.AddPlayer(&Player{Name: "one too many"})
	assert.ErrorIs(t, err, ErrTooManySides)
	assert.Nil(t, s.Player(64))
	assert.Nil(t, s.Player(NoPlayer))
}

func TestAddUnit_Defaults(t *testing.T) {
	s := newTestState(t, 6, 6, 1)
	s.Map().Get(HexCoord{5, 5}).Terrain = TerrainShore

	u, err := s.AddUnit(&Unit{Class: ClassMelee, Coord: HexCoord{1, 1}})
	require.NoError(t, err)
	assert.Equal(t, UnitID(1), u.ID)
	assert.Equal(t, 100, u.Health)
	assert.Equal(t, 2, u.Moves)
	assert.Equal(t, DomainLand, u.Domain)

	boat, err := s.AddUnit(&Unit{Class: ClassNavalMelee, Coord: HexCoord{5, 5}})
	require.NoError(t, err)
	assert.Equal(t, DomainSea, boat.Domain)
	assert.False(t, boat.Embarked)

	swimmer, err := s.AddUnit(&Unit{Class: ClassMelee, Coord: HexCoord{5, 5}})
	require.NoError(t, err)
	assert.True(t, swimmer.Embarked)

	_, err = s.AddUnit(&Unit{Coord: HexCoord{9, 9}})
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestUnitLookups(t *testing.T) {
	s := newTestState(t, 6, 6, 2)
	c := HexCoord{2, 2}
	soldier, _ := s.AddUnit(&Unit{Owner: 0, Class: ClassMelee, Coord: c})
	worker, _ := s.AddUnit(&Unit{Owner: 0, Class: ClassWorker, Coord: c})
	s.AddUnit(&Unit{Owner: 1, Class: ClassMelee, Coord: HexCoord{4, 4}})

	assert.Len(t, s.UnitsAt(c), 2)
	assert.Equal(t, soldier, s.MilitaryUnitAt(c))
	assert.Equal(t, worker, s.CivilianUnitAt(c))
	assert.Len(t, s.UnitsOf(0), 2)

	require.NoError(t, s.RemoveUnit(soldier.ID))
	assert.Nil(t, s.Unit(soldier.ID))
	assert.Nil(t, s.MilitaryUnitAt(c))
	assert.ErrorIs(t, s.RemoveUnit(soldier.ID), ErrUnknownUnit)
}

func TestMoveUnit(t *testing.T) {
	s := newTestState(t, 6, 6, 1)
	s.Map().Get(HexCoord{3, 3}).Terrain = TerrainShore
	u, _ := s.AddUnit(&Unit{Class: ClassMelee, Coord: HexCoord{2, 3}, Fortified: true})

	require.NoError(t, s.MoveUnit(u.ID, HexCoord{3, 3}))
	assert.True(t, u.Embarked)
	assert.False(t, u.Fortified)
	require.NoError(t, s.MoveUnit(u.ID, HexCoord{4, 3}))
	assert.False(t, u.Embarked)

	assert.ErrorIs(t, s.MoveUnit(u.ID, HexCoord{-1, 0}), ErrOutOfBounds)
	assert.ErrorIs(t, s.MoveUnit(99, HexCoord{1, 1}), ErrUnknownUnit)
}

func TestAddCity_ClaimsRing(t *testing.T) {
	s := newTestState(t, 10, 10, 2)
	a, err := s.AddCity(&City{Owner: 0, Coord: HexCoord{3, 3}})
	require.NoError(t, err)
	assert.Equal(t, 200, a.Health)
	assert.Equal(t, 1, a.Population)
	assert.Equal(t, 9, a.Strength)

	owned := 0
	for _, tile := range s.Map().Tiles() {
		if tile.CityID == a.ID {
			owned++
		}
	}
	assert.Equal(t, 7, owned)

	b, err := s.AddCity(&City{Owner: 1, Coord: HexCoord{5, 3}})
	require.NoError(t, err)
	s.ClaimTerritory(b.ID, 2)
	assert.Equal(t, a.ID, s.Map().Get(HexCoord{4, 3}).CityID, "claims never steal")
	assert.Equal(t, PlayerID(1), s.Map().Get(HexCoord{7, 3}).Owner)

	_, err = s.AddCity(&City{Coord: HexCoord{20, 3}})
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestTransferCity(t *testing.T) {
	s := newTestState(t, 8, 8, 2)
	c, _ := s.AddCity(&City{Owner: 0, Coord: HexCoord{3, 3}, Capital: true})

	require.NoError(t, s.TransferCity(c.ID, 1))
	assert.Equal(t, PlayerID(1), c.Owner)
	assert.False(t, c.Capital)
	assert.Equal(t, PlayerID(1), s.Map().Get(HexCoord{4, 3}).Owner)
	assert.Len(t, s.CitiesOf(1), 1)
	assert.Empty(t, s.CitiesOf(0))
	assert.Equal(t, c, s.CityAt(HexCoord{3, 3}))

	assert.ErrorIs(t, s.TransferCity(42, 0), ErrUnknownCity)
}

func TestUpdateVisibility(t *testing.T) {
	s := newTestState(t, 12, 12, 1)
	s.AddUnit(&Unit{Owner: 0, Class: ClassScout, Coord: HexCoord{2, 2}})

	s.UpdateVisibility(0, 2)
	assert.True(t, s.Map().Get(HexCoord{4, 2}).IsVisible(0))
	assert.False(t, s.Map().Get(HexCoord{5, 2}).IsVisible(0))

	s.Unit(1).Coord = HexCoord{9, 9}
	s.UpdateVisibility(0, 2)
	near := s.Map().Get(HexCoord{3, 2})
	assert.False(t, near.IsVisible(0))
	assert.True(t, near.IsRevealed(0), "revealed tiles stay revealed")
}

func TestMissions(t *testing.T) {
	s := newTestState(t, 6, 6, 1)
	a, _ := s.AddUnit(&Unit{Class: ClassMelee, Coord: HexCoord{1, 1}})
	b, _ := s.AddUnit(&Unit{Class: ClassMelee, Coord: HexCoord{2, 2}})

	require.NoError(t, s.PushMission(a.ID, NewMission(MissionFortify, a.Coord, 1, "test")))
	require.NoError(t, s.PushMission(b.ID, NewMission(MissionSkip, b.Coord, 2, "test")))
	require.NoError(t, s.MarkProcessed(a.ID, 1))
	assert.ErrorIs(t, s.PushMission(77, Mission{}), ErrUnknownUnit)

	turn1 := s.MissionsForTurn(1)
	require.Len(t, turn1, 1)
	assert.Equal(t, MissionFortify, turn1[a.ID][0].Type)
	assert.Equal(t, 1, a.ProcessedTurn)

	m, ok := b.LastMission()
	require.True(t, ok)
	assert.NotEqual(t, m.ID, turn1[a.ID][0].ID, "every mission gets its own id")
	assert.Equal(t, []UnitID{a.ID, b.ID}, SortedUnitIDs([]*Unit{b, a}))
}

func TestNames(t *testing.T) {
	assert.Equal(t, "naval_ranged", ClassNavalRanged.String())
	class, ok := ParseUnitClass("great_person")
	assert.True(t, ok)
	assert.Equal(t, ClassGreatPerson, class)
	_, ok = ParseUnitClass("dragon")
	assert.False(t, ok)

	kind, ok := ParsePlayerKind("city_state")
	assert.True(t, ok)
	assert.Equal(t, KindCityState, kind)
	assert.Equal(t, "barbarian camp", ImprovementBarbarianCamp.String())
	assert.Equal(t, "range_attack", MissionRangeAttack.String())
}
