// Simulation ties the world and its collaborators together and plays turns.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hexwar/internal/combat"
	"github.com/talgya/hexwar/internal/diplomacy"
	"github.com/talgya/hexwar/internal/entropy"
	"github.com/talgya/hexwar/internal/pathing"
	"github.com/talgya/hexwar/internal/tactical"
	"github.com/talgya/hexwar/internal/world"
)

const (
	defaultSight   = 2
	maxEvents      = 1000
	cityRecovery   = 8 // City hit points regained per turn
	minCityCapture = 0 // A city falls when its health reaches this
)

// Simulation holds the complete skirmish state. All mutation happens in
// PlayTurn under the write lock; readers use View.
type Simulation struct {
	mu sync.RWMutex

	State     *world.State
	Diplomacy *diplomacy.Table
	Combat    *combat.Estimator
	Paths     *pathing.Finder
	Danger    *world.DangerModel
	AI        *tactical.AI

	Sight    int     // Vision radius of units and cities
	Events   []Event // Recent events, oldest first
	LastTurn int     // Most recent turn played
	Stats    SimStats
}

// Event is a notable occurrence during order resolution.
type Event struct {
	Turn        int            `json:"turn" db:"turn"`
	Side        world.PlayerID `json:"side" db:"side"`
	Category    string         `json:"category" db:"category"` // "combat", "city", "capture", "pillage", "explore", "pass"
	Description string         `json:"description" db:"description"`
}

// SimStats tracks aggregate skirmish statistics.
type SimStats struct {
	Units       int                    `json:"units"`
	Cities      int                    `json:"cities"`
	Kills       int                    `json:"kills"`
	CitiesTaken int                    `json:"cities_taken"`
	Strength    map[world.PlayerID]int `json:"strength"` // Current combat strength per side
}

// TurnResult is everything one turn produced.
type TurnResult struct {
	Turn    int                    `json:"turn"`
	Reports []*tactical.TurnReport `json:"reports"`
	Events  []Event                `json:"events"`
}

// NewSimulation wires the collaborators over a populated world.
func NewSimulation(state *world.State, dip *diplomacy.Table, cfg tactical.Config, random *entropy.Streams) (*Simulation, error) {
	est := combat.New(state)
	paths := pathing.New(state, dip)
	danger := world.NewDangerModel(state, dip.AtWar, est.Strength)
	ai, err := tactical.New(cfg, tactical.Deps{
		World:     state,
		Paths:     paths,
		Diplomacy: dip,
		Danger:    danger,
		Combat:    est,
		Random:    random,
	})
	if err != nil {
		return nil, fmt.Errorf("tactical ai: %w", err)
	}
	sim := &Simulation{
		State:     state,
		Diplomacy: dip,
		Combat:    est,
		Paths:     paths,
		Danger:    danger,
		AI:        ai,
		Sight:     defaultSight,
	}
	sim.updateStats()
	return sim, nil
}

// View runs fn with the simulation locked for reading.
func (s *Simulation) View(fn func()) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

// AddTemporaryZone forwards an objective to the tactical AI.
func (s *Simulation) AddTemporaryZone(c world.HexCoord, lifetime int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.State.Map().InBounds(c) {
		return fmt.Errorf("temporary zone at %s: %w", c, world.ErrOutOfBounds)
	}
	s.AI.AddTemporaryZone(c, lifetime)
	return nil
}

// PlayTurn runs every side's tactical pass in player order, resolving each
// side's orders before the next side decides, then advances the turn.
// A side whose pass aborts on a zone invariant still resolves its skip
// orders; the turn carries on with the other sides.
func (s *Simulation) PlayTurn() (*TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turn := s.State.Turn()
	res := &TurnResult{Turn: turn}
	for _, p := range s.State.Players() {
		s.State.UpdateVisibility(p.ID, s.Sight)
		report, err := s.AI.DoTurn(p.ID)
		if report != nil {
			res.Reports = append(res.Reports, report)
		}
		if err != nil {
			if !errors.Is(err, tactical.ErrInvalidZoneScore) {
				return res, fmt.Errorf("turn %d side %d: %w", turn, p.ID, err)
			}
			res.event(p.ID, "pass", fmt.Sprintf("%s tactical pass aborted: %v", p.Name, err))
		}
		s.resolveOrders(p, turn, res)
		s.Danger.Invalidate()
	}
	s.recoverCities()

	s.Events = append(s.Events, res.Events...)
	if len(s.Events) > maxEvents {
		s.Events = s.Events[len(s.Events)-maxEvents:]
	}
	s.LastTurn = turn
	s.updateStats()
	s.State.AdvanceTurn()

	orders := 0
	for _, r := range res.Reports {
		orders += len(r.Orders)
	}
	slog.Info("turn summary",
		"turn", humanize.Ordinal(turn),
		"orders", orders,
		"events", len(res.Events),
		"units", s.Stats.Units,
		"cities", s.Stats.Cities,
		"kills", humanize.Comma(int64(s.Stats.Kills)),
	)
	return res, nil
}

// resolveOrders applies the missions a side was issued this turn, in unit
// ID order.
func (s *Simulation) resolveOrders(p *world.Player, turn int, res *TurnResult) {
	units := s.State.UnitsOf(p.ID)
	for _, id := range world.SortedUnitIDs(units) {
		u := s.State.Unit(id)
		if u == nil || !u.IsAlive() || u.Owner != p.ID {
			continue
		}
		m, ok := u.LastMission()
		if !ok || m.Turn != turn {
			continue
		}
		s.apply(u, m, res)
	}
}

func (s *Simulation) recoverCities() {
	for _, c := range s.State.Cities() {
		c.Health = min(c.MaxHealth, c.Health+cityRecovery)
	}
}

func (s *Simulation) updateStats() {
	s.Stats.Units = len(s.State.Units())
	s.Stats.Cities = len(s.State.Cities())
	s.Stats.Strength = make(map[world.PlayerID]int)
	for _, u := range s.State.Units() {
		if u.IsCombat() {
			s.Stats.Strength[u.Owner] += s.Combat.Strength(u)
		}
	}
}

func (r *TurnResult) event(side world.PlayerID, category, description string) {
	r.Events = append(r.Events, Event{Turn: r.Turn, Side: side, Category: category, Description: description})
}

// Summary renders the per-side strength table for the end-of-run report.
func (s *Simulation) Summary() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var lines []string
	for _, p := range s.State.Players() {
		lines = append(lines, fmt.Sprintf("%-12s %-10s strength %6s  units %3d  cities %2d  war score %5d (%s)",
			p.Name, p.Kind, humanize.Comma(int64(s.Stats.Strength[p.ID])),
			len(s.State.UnitsOf(p.ID)), len(s.State.CitiesOf(p.ID)),
			s.Diplomacy.Score(p.ID), s.Diplomacy.Trend(p.ID)))
	}
	return lines
}
