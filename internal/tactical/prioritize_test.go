package tactical

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hexwar/internal/entropy"
	"github.com/talgya/hexwar/internal/world"
)

func TestAgenda_ZeroEntropyFollowsBasePriority(t *testing.T) {
	sc := newScenario(t, 4, 4, world.KindMajor)
	ai := sc.newAI(DefaultConfig())

	agenda, err := ai.Agenda(0, 1)
	require.NoError(t, err)
	require.NotEmpty(t, agenda)

	assert.True(t, sort.SliceIsSorted(agenda, func(i, j int) bool {
		return agenda[i].Priority > agenda[j].Priority
	}))
	assert.Equal(t, MoveCaptureCity, agenda[0].Type)
	for _, mv := range agenda {
		assert.Equal(t, mv.Type.BasePriority(), mv.Priority, "move %s", mv.Type)
		assert.NotEqual(t, MoveAirSweep, mv.Type, "negative priorities never run")
		assert.NotEqual(t, MoveNone, mv.Type)
	}
}

func TestAgenda_TiesKeepCatalogueOrder(t *testing.T) {
	agenda := buildAgenda(majorCatalogue, entropy.Zero().For(0, 1), 2)
	pos := make(map[MoveType]int, len(agenda))
	for i, mv := range agenda {
		pos[mv.Type] = i
	}
	// Both carry priority 15; damage_city comes first in the catalogue.
	assert.Less(t, pos[MoveDamageCity], pos[MoveAttritMediumUnit])
	assert.Less(t, pos[MoveSafeBombards], pos[MovePostureCounterAttack])
}

func TestAgenda_CachedPerSideAndTurn(t *testing.T) {
	sc := newScenario(t, 4, 4, world.KindMajor, world.KindMajor)
	sc.deps.Random = entropy.NewStreams(42)
	ai := sc.newAI(DefaultConfig())

	first, err := ai.Agenda(0, 3)
	require.NoError(t, err)
	again, err := ai.Agenda(0, 3)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	other := sc.newAI(DefaultConfig())
	fresh, err := other.Agenda(0, 3)
	require.NoError(t, err)
	assert.Equal(t, first, fresh, "the same seed reproduces the agenda")

	for _, mv := range first {
		assert.InDelta(t, mv.Type.BasePriority(), mv.Priority, 2)
	}
	assert.True(t, sort.SliceIsSorted(first, func(i, j int) bool {
		return first[i].Priority > first[j].Priority
	}))

	_, err = ai.Agenda(1, 3)
	require.NoError(t, err)
	_, err = ai.Agenda(0, 6)
	require.NoError(t, err)
	_, stale := ai.agendas[agendaKey{side: 0, turn: 3}]
	assert.False(t, stale, "agendas from older turns are pruned")
}

func TestAgenda_UnknownSide(t *testing.T) {
	sc := newScenario(t, 4, 4, world.KindMajor)
	ai := sc.newAI(DefaultConfig())
	_, err := ai.Agenda(9, 1)
	require.ErrorIs(t, err, ErrUnknownSide)
}

func TestAgenda_BarbarianCatalogue(t *testing.T) {
	sc := newScenario(t, 4, 4, world.KindMajor, world.KindBarbarian)
	ai := sc.newAI(DefaultConfig())
	agenda, err := ai.Agenda(1, 1)
	require.NoError(t, err)
	assert.Len(t, agenda, len(barbarianCatalogue))
	assert.Equal(t, MoveBarbarianCaptureCity, agenda[0].Type)
	assert.Equal(t, MoveBarbarianDesperateAttack, agenda[len(agenda)-1].Type)
}

func TestStrategies_CoverEveryRunnableMove(t *testing.T) {
	s := buildStrategies()
	for _, cat := range [][]MoveType{majorCatalogue, barbarianCatalogue} {
		for _, mt := range cat {
			if mt.BasePriority() < 0 {
				continue
			}
			_, ok := s[mt]
			assert.True(t, ok, "no strategy for %s", mt)
		}
	}
}

func TestMoveType_Names(t *testing.T) {
	seen := make(map[string]MoveType)
	for mt := MoveNone; mt < moveTypeCount; mt++ {
		name := mt.String()
		require.NotEmpty(t, name, "move %d", mt)
		prev, dup := seen[name]
		assert.False(t, dup, "%s shared by %d and %d", name, prev, mt)
		seen[name] = mt
	}
	assert.Equal(t, "unknown", moveTypeCount.String())
	text, err := MoveCaptureCity.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "capture_city", string(text))
}
