package tactical

import (
	"sort"

	"github.com/talgya/hexwar/internal/entropy"
	"github.com/talgya/hexwar/internal/world"
)

// Move is one agenda entry: a move type with its jittered priority.
type Move struct {
	Type     MoveType `json:"type"`
	Priority int      `json:"priority"`
}

func (m Move) String() string {
	return m.Type.String()
}

type agendaKey struct {
	side world.PlayerID
	turn int
}

// buildAgenda drops negative moves, jitters the rest and sorts them by
// priority, descending. Equal priorities keep catalogue order.
func buildAgenda(catalogue []MoveType, stream *entropy.Stream, bound int) []Move {
	agenda := make([]Move, 0, len(catalogue))
	for _, mt := range catalogue {
		base := mt.BasePriority()
		if base < 0 {
			continue
		}
		agenda = append(agenda, Move{Type: mt, Priority: base + stream.Jitter(bound)})
	}
	sort.SliceStable(agenda, func(i, j int) bool {
		return agenda[i].Priority > agenda[j].Priority
	})
	return agenda
}

func catalogueFor(p *world.Player) []MoveType {
	if p.IsBarbarian() {
		return barbarianCatalogue
	}
	return majorCatalogue
}

// Agenda returns the side's move agenda for a turn. The first call for a
// (side, turn) computes it; later calls return the cached list.
func (ai *AI) Agenda(side world.PlayerID, turn int) ([]Move, error) {
	p := ai.deps.World.Player(side)
	if p == nil {
		return nil, ErrUnknownSide
	}
	key := agendaKey{side: side, turn: turn}
	if cached, ok := ai.agendas[key]; ok {
		return cached, nil
	}
	for k := range ai.agendas {
		if k.turn < turn-1 {
			delete(ai.agendas, k)
		}
	}
	stream := ai.deps.Random.For(int(side), turn)
	agenda := buildAgenda(ai.catalogue(p), stream, ai.cfg.PriorityJitter)
	ai.agendas[key] = agenda
	return agenda, nil
}
