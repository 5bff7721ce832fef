// Package diplomacy tracks war, open borders and the running war balance
// between sides. The tactical layer reads it; it never writes.
package diplomacy

import (
	"log/slog"

	"github.com/talgya/hexwar/internal/world"
)

// Trend summarizes how a side's wars are going overall.
type Trend uint8

const (
	TrendEven Trend = iota
	TrendWinning
	TrendLosing
	TrendDecisivelyWinning
	TrendDecisivelyLosing
)

// IsDecisive reports whether the trend is a decisive win or loss.
func (t Trend) IsDecisive() bool {
	return t == TrendDecisivelyWinning || t == TrendDecisivelyLosing
}

// String returns the trend's short name.
func (t Trend) String() string {
	switch t {
	case TrendWinning:
		return "winning"
	case TrendLosing:
		return "losing"
	case TrendDecisivelyWinning:
		return "decisively_winning"
	case TrendDecisivelyLosing:
		return "decisively_losing"
	default:
		return "even"
	}
}

type pair struct {
	a, b world.PlayerID
}

func key(a, b world.PlayerID) pair {
	if a > b {
		a, b = b, a
	}
	return pair{a, b}
}

// Table is the symmetric diplomacy state between sides.
type Table struct {
	barbarians  map[world.PlayerID]bool
	wars        map[pair]bool
	openBorders map[pair]bool

	// warScore accumulates per side: positive when inflicting more than
	// suffering.
	warScore map[world.PlayerID]int
}

// NewTable creates an empty table. Every barbarian side in players is at
// war with everyone.
func NewTable(players []*world.Player) *Table {
	t := &Table{
		barbarians:  make(map[world.PlayerID]bool),
		wars:        make(map[pair]bool),
		openBorders: make(map[pair]bool),
		warScore:    make(map[world.PlayerID]int),
	}
	for _, p := range players {
		if p.IsBarbarian() {
			t.barbarians[p.ID] = true
		}
	}
	return t
}

// DeclareWar puts two sides at war and cancels any open-border agreement.
func (t *Table) DeclareWar(a, b world.PlayerID) {
	if a == b {
		return
	}
	t.wars[key(a, b)] = true
	delete(t.openBorders, key(a, b))
	slog.Info("war declared", "a", a, "b", b)
}

// MakePeace ends a war.
func (t *Table) MakePeace(a, b world.PlayerID) {
	delete(t.wars, key(a, b))
	slog.Info("peace made", "a", a, "b", b)
}

// SetOpenBorders grants or revokes mutual passage.
func (t *Table) SetOpenBorders(a, b world.PlayerID, open bool) {
	if open {
		t.openBorders[key(a, b)] = true
		return
	}
	delete(t.openBorders, key(a, b))
}

// AtWar reports whether two sides are at war.
func (t *Table) AtWar(a, b world.PlayerID) bool {
	if a == b || a == world.NoPlayer || b == world.NoPlayer {
		return false
	}
	if t.barbarians[a] || t.barbarians[b] {
		return true
	}
	return t.wars[key(a, b)]
}

// OpenBorders reports whether two sides may cross each other's territory.
func (t *Table) OpenBorders(a, b world.PlayerID) bool {
	if a == b {
		return true
	}
	return t.openBorders[key(a, b)]
}

// Enemies returns every side in players at war with p.
func (t *Table) Enemies(p world.PlayerID, players []*world.Player) []world.PlayerID {
	var out []world.PlayerID
	for _, other := range players {
		if t.AtWar(p, other.ID) {
			out = append(out, other.ID)
		}
	}
	return out
}

// RecordLoss adjusts the war balance after winner destroyed value from loser.
func (t *Table) RecordLoss(winner, loser world.PlayerID, value int) {
	t.warScore[winner] += value
	t.warScore[loser] -= value
}

// Score returns a side's accumulated war balance.
func (t *Table) Score(p world.PlayerID) int {
	return t.warScore[p]
}

// Trend classifies a side's war balance. Thresholds are in destroyed
// strength points.
func (t *Table) Trend(p world.PlayerID) Trend {
	s := t.warScore[p]
	switch {
	case s >= 200:
		return TrendDecisivelyWinning
	case s >= 50:
		return TrendWinning
	case s <= -200:
		return TrendDecisivelyLosing
	case s <= -50:
		return TrendLosing
	default:
		return TrendEven
	}
}
