package tactical

import (
	"sort"

	"github.com/talgya/hexwar/internal/world"
)

// RecruitPool is the set of units still awaiting orders this turn.
type RecruitPool struct {
	order   []world.UnitID
	members map[world.UnitID]*world.Unit
}

// newRecruitPool admits every living unit of the side that is not locked
// into an operation and has not yet been processed this turn.
func newRecruitPool(units []*world.Unit, turn int) *RecruitPool {
	p := &RecruitPool{members: make(map[world.UnitID]*world.Unit)}
	for _, u := range units {
		if !u.IsAlive() || u.LockedInOperation || u.ProcessedTurn == turn {
			continue
		}
		p.order = append(p.order, u.ID)
		p.members[u.ID] = u
	}
	sort.Slice(p.order, func(i, j int) bool { return p.order[i] < p.order[j] })
	return p
}

// Contains reports whether the unit is still available.
func (p *RecruitPool) Contains(id world.UnitID) bool {
	_, ok := p.members[id]
	return ok
}

// Len returns the number of available units.
func (p *RecruitPool) Len() int {
	return len(p.members)
}

// Units returns the available units in ID order.
func (p *RecruitPool) Units() []*world.Unit {
	out := make([]*world.Unit, 0, len(p.members))
	for _, id := range p.order {
		if u, ok := p.members[id]; ok {
			out = append(out, u)
		}
	}
	return out
}

func (p *RecruitPool) remove(id world.UnitID) {
	delete(p.members, id)
}

// candidate is the per-evaluation scratch record for one unit against one
// target. Candidates never outlive the move that built them.
type candidate struct {
	unit          *world.Unit
	strength      int
	healthPercent int
	turns         int  // Turns to get into attack position; 0 strikes from where it stands
	canAttack     bool // Able to strike this turn
	damage        int
	damageTaken   int
}

// lethal reports whether the unit would die attacking.
func (c candidate) lethal() bool {
	return c.damageTaken >= c.unit.Health
}

// rankCandidates orders by expected damage, then by unit ID.
func rankCandidates(cs []candidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].damage != cs[j].damage {
			return cs[i].damage > cs[j].damage
		}
		return cs[i].unit.ID < cs[j].unit.ID
	})
}
