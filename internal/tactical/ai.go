package tactical

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/talgya/hexwar/internal/entropy"
	"github.com/talgya/hexwar/internal/world"
)

// TemporaryZone is an objective zone that lives until ExpiresTurn.
type TemporaryZone struct {
	Coord       world.HexCoord `json:"coord"`
	ExpiresTurn int            `json:"expires_turn"` // Last turn the zone is live
}

// QueuedAttack reserves a target coordinate for one attack series.
type QueuedAttack struct {
	Series uuid.UUID      `json:"series"`
	Side   world.PlayerID `json:"side"`
	Turn   int            `json:"turn"`
	Target world.HexCoord `json:"target"`
}

// IssuedOrder is one mission committed during a pass.
type IssuedOrder struct {
	Unit    world.UnitID  `json:"unit"`
	Mission world.Mission `json:"mission"`
}

// TurnReport records what one side's pass decided.
type TurnReport struct {
	Side    world.PlayerID  `json:"side"`
	Turn    int             `json:"turn"`
	Agenda  []Move          `json:"agenda"`
	Zones   []DominanceZone `json:"zones"`
	Targets []Target        `json:"targets"`
	Orders  []IssuedOrder   `json:"orders"`
	Skipped int             `json:"skipped"`
}

type postureKey struct {
	side   world.PlayerID
	anchor world.HexCoord
}

// AI runs tactical passes. One AI serves every side; passes must not
// overlap because they share the dominance grid.
type AI struct {
	cfg  Config
	deps Deps
	grid *AnalysisMap

	agendas    map[agendaKey][]Move
	postures   map[postureKey]Posture
	queued     []QueuedAttack
	temps      []TemporaryZone
	strategies map[MoveType]strategy
	reports    map[world.PlayerID]*TurnReport

	// catalogueOverride replaces both move catalogues when set.
	catalogueOverride []MoveType
}

// New wires an AI to its collaborators.
func New(cfg Config, deps Deps) (*AI, error) {
	switch {
	case deps.Paths == nil:
		return nil, ErrNoPathfinder
	case deps.World == nil:
		return nil, fmt.Errorf("world: %w", ErrMissingDependency)
	case deps.Diplomacy == nil:
		return nil, fmt.Errorf("diplomacy: %w", ErrMissingDependency)
	case deps.Combat == nil:
		return nil, fmt.Errorf("combat: %w", ErrMissingDependency)
	}
	if deps.Random == nil {
		deps.Random = entropy.NewStreams(0)
	}
	return &AI{
		cfg:        cfg,
		deps:       deps,
		grid:       NewAnalysisMap(cfg),
		agendas:    make(map[agendaKey][]Move),
		postures:   make(map[postureKey]Posture),
		strategies: buildStrategies(),
		reports:    make(map[world.PlayerID]*TurnReport),
	}, nil
}

// Config returns the tuning in use.
func (ai *AI) Config() Config {
	return ai.cfg
}

// Grid exposes the dominance grid as last built.
func (ai *AI) Grid() *AnalysisMap {
	return ai.grid
}

// IsInEnemyDominatedZone classifies a point against the last built grid,
// which belongs to Grid().Side(): after a full turn that is usually the
// last side to pass. Use IsInEnemyDominatedZoneFor to ask for one side.
func (ai *AI) IsInEnemyDominatedZone(c world.HexCoord) bool {
	return ai.grid.IsInEnemyDominatedZone(c)
}

// IsInEnemyDominatedZoneFor classifies a point from side's point of view,
// rebuilding the shared grid for side when it is not already current.
// Sides that do not contest zones never see a dominated zone.
func (ai *AI) IsInEnemyDominatedZoneFor(side world.PlayerID, c world.HexCoord) (bool, error) {
	p := ai.deps.World.Player(side)
	if p == nil {
		return false, fmt.Errorf("dominated zone for side %d: %w", side, ErrUnknownSide)
	}
	if !p.ContestsZones() {
		return false, nil
	}
	if err := ai.grid.Refresh(side, ai.deps, ai.temps); err != nil {
		return false, err
	}
	return ai.grid.IsInEnemyDominatedZone(c), nil
}

// LastReport returns the most recent pass report for a side, or nil.
func (ai *AI) LastReport(side world.PlayerID) *TurnReport {
	return ai.reports[side]
}

func (ai *AI) catalogue(p *world.Player) []MoveType {
	if ai.catalogueOverride != nil {
		return ai.catalogueOverride
	}
	return catalogueFor(p)
}

// AddTemporaryZone registers an objective zone around c for lifetime
// turns (the configured default when lifetime is not positive).
func (ai *AI) AddTemporaryZone(c world.HexCoord, lifetime int) {
	if lifetime <= 0 {
		lifetime = ai.cfg.TempZoneLifetime
	}
	expires := ai.deps.World.Turn() + lifetime
	for i := range ai.temps {
		if ai.temps[i].Coord == c {
			ai.temps[i].ExpiresTurn = max(ai.temps[i].ExpiresTurn, expires)
			ai.grid.Invalidate()
			return
		}
	}
	ai.temps = append(ai.temps, TemporaryZone{Coord: c, ExpiresTurn: expires})
	ai.grid.Invalidate()
}

// TemporaryZones returns the live objective zones.
func (ai *AI) TemporaryZones() []TemporaryZone {
	return ai.temps
}

func (ai *AI) expireTemporaryZones(turn int) {
	ai.temps = slices.DeleteFunc(ai.temps, func(z TemporaryZone) bool {
		return z.ExpiresTurn < turn
	})
}

// QueuedAttacks returns the live attack reservations.
func (ai *AI) QueuedAttacks() []QueuedAttack {
	return ai.queued
}

func (ai *AI) queueAttack(side world.PlayerID, turn int, c world.HexCoord) uuid.UUID {
	q := QueuedAttack{Series: uuid.New(), Side: side, Turn: turn, Target: c}
	ai.queued = append(ai.queued, q)
	return q.Series
}

func (ai *AI) isQueued(side world.PlayerID, turn int, c world.HexCoord) bool {
	for _, q := range ai.queued {
		if q.Side == side && q.Turn == turn && q.Target == c {
			return true
		}
	}
	return false
}

func (ai *AI) pruneQueued(turn int) {
	ai.queued = slices.DeleteFunc(ai.queued, func(q QueuedAttack) bool {
		return q.Turn < turn
	})
}

// DoTurn runs the full tactical pipeline for one side. Every unit in the
// recruit pool leaves with exactly one mission; units nothing else claims
// are told to skip. A zone score breach aborts the pass after the skips.
func (ai *AI) DoTurn(side world.PlayerID) (*TurnReport, error) {
	w := ai.deps.World
	p := w.Player(side)
	if p == nil {
		return nil, fmt.Errorf("do turn for side %d: %w", side, ErrUnknownSide)
	}
	turn := w.Turn()
	ai.expireTemporaryZones(turn)
	ai.pruneQueued(turn)

	report := &TurnReport{Side: side, Turn: turn}
	pass := &turnPass{
		ai:      ai,
		cfg:     ai.cfg,
		deps:    ai.deps,
		player:  p,
		turn:    turn,
		pool:    newRecruitPool(w.UnitsOf(side), turn),
		report:  report,
		claimed: make(map[world.HexCoord]bool),
		targets: &Catalogue{},
	}
	ai.reports[side] = report

	if !p.ContestsZones() {
		pass.finish()
		return report, nil
	}
	if err := ai.grid.Refresh(side, ai.deps, ai.temps); err != nil {
		pass.finish()
		slog.Error("tactical pass aborted", "side", side, "turn", turn, "error", err)
		return report, err
	}
	pass.grid = ai.grid

	scanner := &targetScanner{
		cfg:    ai.cfg,
		deps:   ai.deps,
		grid:   ai.grid,
		player: p,
		turn:   turn,
		queued: func(c world.HexCoord) bool { return ai.isQueued(side, turn, c) },
	}
	pass.targets = scanner.scan()
	report.Targets = slices.Clone(pass.targets.All())

	agenda, err := ai.Agenda(side, turn)
	if err != nil {
		pass.finish()
		return report, err
	}
	report.Agenda = agenda
	ai.resolvePostures(side)

	pass.run(agenda)
	pass.finish()

	for _, z := range ai.grid.Zones() {
		report.Zones = append(report.Zones, *z)
	}
	slog.Info("tactical pass complete",
		"side", side, "turn", turn,
		"zones", len(report.Zones), "targets", len(report.Targets),
		"orders", len(report.Orders), "skipped", report.Skipped)
	return report, nil
}

// resolvePostures sets each zone's posture for the turn and remembers it
// for the next.
func (ai *AI) resolvePostures(side world.PlayerID) {
	for _, z := range ai.grid.Zones() {
		key := postureKey{side: side, anchor: z.Anchor}
		z.Posture = selectPosture(z, ai.postures[key])
		ai.postures[key] = z.Posture
	}
}
