// Package api provides the HTTP API for inspecting a running skirmish.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (admin control plane).
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/talgya/hexwar/internal/engine"
	"github.com/talgya/hexwar/internal/persistence"
	"github.com/talgya/hexwar/internal/tactical"
	"github.com/talgya/hexwar/internal/world"
)

const (
	defaultEventLimit = 50
	maxEventLimit     = 500
	defaultZoneLife   = 3
	maxZoneLife       = 50
)

// Server serves the skirmish state over HTTP.
type Server struct {
	Sim      *engine.Simulation
	Eng      *engine.Engine
	DB       *persistence.DB // Optional; journal endpoints return 404 without it
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.
}

// Handler builds the routed, CORS-wrapped handler.
func (s *Server) Handler() http.Handler {
	// Journal queries hit SQLite; admin writes take the simulation lock.
	journalLimiter := NewRateLimiter(120, time.Minute)
	adminLimiter := NewRateLimiter(30, time.Minute)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/sides", s.handleSides)
	mux.HandleFunc("/api/v1/zones", s.handleZones)
	mux.HandleFunc("/api/v1/agenda", s.handleAgenda)
	mux.HandleFunc("/api/v1/targets", s.handleTargets)
	mux.HandleFunc("/api/v1/orders", s.handleOrders)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/map", s.handleMapRoutes)
	mux.HandleFunc("/api/v1/map/", s.handleMapRoutes)

	mux.HandleFunc("/api/v1/journal/missions", RateLimitMiddleware(journalLimiter, s.handleJournalMissions))
	mux.HandleFunc("/api/v1/journal/moves", RateLimitMiddleware(journalLimiter, s.handleJournalMoves))

	mux.HandleFunc("/api/v1/temporary-zones", RateLimitMiddleware(adminLimiter, s.adminOnly(s.handleTemporaryZones)))

	return corsMiddleware(mux)
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "", "journal", s.DB != nil)

	handler := s.Handler()
	go func() {
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set HEXWAR_CORS_ORIGINS to a comma-separated list of extra origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("HEXWAR_CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth on POST requests.
// GET requests pass through.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if s.AdminKey == "" {
				http.Error(w, "admin endpoints disabled (no HEXWAR_ADMIN_KEY set)", http.StatusForbidden)
				return
			}
			if !s.checkBearerToken(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var status map[string]any
	s.Sim.View(func() {
		status = map[string]any{
			"name":         "hexwar",
			"turn":         s.Sim.State.Turn(),
			"last_turn":    s.Sim.LastTurn,
			"running":      s.Eng != nil && s.Eng.Running(),
			"max_turns":    0,
			"sides":        len(s.Sim.State.Players()),
			"units":        s.Sim.Stats.Units,
			"cities":       s.Sim.Stats.Cities,
			"kills":        s.Sim.Stats.Kills,
			"cities_taken": s.Sim.Stats.CitiesTaken,
			"zones":        len(s.Sim.AI.Grid().Zones()),
			"temp_zones":   len(s.Sim.AI.TemporaryZones()),
		}
	})
	if s.Eng != nil {
		status["max_turns"] = s.Eng.MaxTurns
	}
	writeJSON(w, status)
}

func (s *Server) handleSides(w http.ResponseWriter, r *http.Request) {
	type sideSummary struct {
		ID       world.PlayerID `json:"id"`
		Name     string         `json:"name"`
		Kind     string         `json:"kind"`
		Handicap string         `json:"handicap"`
		Units    int            `json:"units"`
		Cities   int            `json:"cities"`
		Strength int            `json:"strength"`
		WarScore int            `json:"war_score"`
		Trend    string         `json:"trend"`
		Enemies  []string       `json:"enemies"`
	}

	var out []sideSummary
	s.Sim.View(func() {
		players := s.Sim.State.Players()
		for _, p := range players {
			enemies := []string{}
			for _, e := range s.Sim.Diplomacy.Enemies(p.ID, players) {
				enemies = append(enemies, s.Sim.State.Player(e).Name)
			}
			out = append(out, sideSummary{
				ID:       p.ID,
				Name:     p.Name,
				Kind:     p.Kind.String(),
				Handicap: p.Handicap,
				Units:    len(s.Sim.State.UnitsOf(p.ID)),
				Cities:   len(s.Sim.State.CitiesOf(p.ID)),
				Strength: s.Sim.Stats.Strength[p.ID],
				WarScore: s.Sim.Diplomacy.Score(p.ID),
				Trend:    s.Sim.Diplomacy.Trend(p.ID).String(),
				Enemies:  enemies,
			})
		}
	})
	writeJSON(w, out)
}

// lastReport resolves ?side= and returns that side's most recent pass.
// It writes the error response itself and returns nil on failure.
func (s *Server) lastReport(w http.ResponseWriter, r *http.Request) *tactical.TurnReport {
	side, err := strconv.Atoi(r.URL.Query().Get("side"))
	if err != nil {
		http.Error(w, "side must be a player id", http.StatusBadRequest)
		return nil
	}
	var report *tactical.TurnReport
	var known bool
	s.Sim.View(func() {
		known = s.Sim.State.Player(world.PlayerID(side)) != nil
		report = s.Sim.AI.LastReport(world.PlayerID(side))
	})
	if !known {
		http.Error(w, "unknown side", http.StatusNotFound)
		return nil
	}
	if report == nil {
		http.Error(w, "no turn played yet", http.StatusNotFound)
		return nil
	}
	return report
}

// handleZones returns the side's dominance zones, strongest first.
// Without ?side= the live shared grid is returned instead.
func (s *Server) handleZones(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("side") == "" {
		var zones []tactical.DominanceZone
		s.Sim.View(func() {
			for _, z := range s.Sim.AI.Grid().Zones() {
				zones = append(zones, *z)
			}
		})
		writeJSON(w, zones)
		return
	}
	if report := s.lastReport(w, r); report != nil {
		writeJSON(w, map[string]any{"side": report.Side, "turn": report.Turn, "zones": report.Zones})
	}
}

func (s *Server) handleAgenda(w http.ResponseWriter, r *http.Request) {
	if report := s.lastReport(w, r); report != nil {
		writeJSON(w, map[string]any{"side": report.Side, "turn": report.Turn, "agenda": report.Agenda})
	}
}

func (s *Server) handleTargets(w http.ResponseWriter, r *http.Request) {
	if report := s.lastReport(w, r); report != nil {
		writeJSON(w, map[string]any{"side": report.Side, "turn": report.Turn, "targets": report.Targets})
	}
}

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	if report := s.lastReport(w, r); report != nil {
		writeJSON(w, map[string]any{
			"side":    report.Side,
			"turn":    report.Turn,
			"orders":  report.Orders,
			"skipped": report.Skipped,
		})
	}
}

// handleEvents returns recent events, newest first. ?limit= caps the count.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := defaultEventLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, maxEventLimit)
	}

	events := []engine.Event{}
	s.Sim.View(func() {
		for i := len(s.Sim.Events) - 1; i >= 0 && len(events) < limit; i-- {
			events = append(events, s.Sim.Events[i])
		}
	})
	writeJSON(w, events)
}

// handleMapRoutes dispatches between bulk map (GET /api/v1/map) and hex detail (GET /api/v1/map/:q/:r).
func (s *Server) handleMapRoutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/map")
	if path == "" || path == "/" {
		s.handleBulkMap(w, r)
		return
	}
	s.handleHexDetail(w, r, strings.Trim(path, "/"))
}

// handleBulkMap returns every tile plus unit and city positions.
func (s *Server) handleBulkMap(w http.ResponseWriter, r *http.Request) {
	type hexEntry struct {
		Q           int            `json:"q"`
		R           int            `json:"r"`
		Terrain     string         `json:"terrain"`
		Owner       world.PlayerID `json:"owner"`
		Improvement string         `json:"improvement,omitempty"`
		Pillaged    bool           `json:"pillaged,omitempty"`
		TradeRoutes int            `json:"trade_routes,omitempty"`
	}
	type unitEntry struct {
		ID     world.UnitID   `json:"id"`
		Owner  world.PlayerID `json:"owner"`
		Class  string         `json:"class"`
		Q      int            `json:"q"`
		R      int            `json:"r"`
		Health int            `json:"health"`
	}
	type cityEntry struct {
		ID         world.CityID   `json:"id"`
		Name       string         `json:"name"`
		Owner      world.PlayerID `json:"owner"`
		Q          int            `json:"q"`
		R          int            `json:"r"`
		Population int            `json:"population"`
		Health     int            `json:"health"`
	}

	var body map[string]any
	s.Sim.View(func() {
		m := s.Sim.State.Map()
		hexes := make([]hexEntry, 0, m.TileCount())
		for _, t := range m.Tiles() {
			entry := hexEntry{
				Q:           t.Coord.Q,
				R:           t.Coord.R,
				Terrain:     world.TerrainName(t.Terrain),
				Owner:       t.Owner,
				Pillaged:    t.Pillaged,
				TradeRoutes: t.TradeRoutes,
			}
			if t.Improvement != world.ImprovementNone {
				entry.Improvement = t.Improvement.String()
			}
			hexes = append(hexes, entry)
		}

		units := []unitEntry{}
		for _, u := range s.Sim.State.Units() {
			units = append(units, unitEntry{
				ID: u.ID, Owner: u.Owner, Class: u.Class.String(),
				Q: u.Coord.Q, R: u.Coord.R, Health: u.Health,
			})
		}
		cities := []cityEntry{}
		for _, c := range s.Sim.State.Cities() {
			cities = append(cities, cityEntry{
				ID: c.ID, Name: c.Name, Owner: c.Owner,
				Q: c.Coord.Q, R: c.Coord.R, Population: c.Population, Health: c.Health,
			})
		}
		body = map[string]any{
			"width":  m.Width,
			"height": m.Height,
			"hexes":  hexes,
			"units":  units,
			"cities": cities,
		}
	})
	writeJSON(w, body)
}

// handleHexDetail returns one tile with its occupants, danger per side, and
// the dominance zone covering it.
func (s *Server) handleHexDetail(w http.ResponseWriter, r *http.Request, path string) {
	parts := strings.Split(path, "/")
	if len(parts) != 2 {
		http.Error(w, "expected /api/v1/map/{q}/{r}", http.StatusBadRequest)
		return
	}
	q, errQ := strconv.Atoi(parts[0])
	rr, errR := strconv.Atoi(parts[1])
	if errQ != nil || errR != nil {
		http.Error(w, "invalid coordinates", http.StatusBadRequest)
		return
	}
	c := world.HexCoord{Q: q, R: rr}

	var body map[string]any
	s.Sim.View(func() {
		t := s.Sim.State.Map().Get(c)
		if t == nil {
			return
		}
		danger := make(map[string]int)
		for _, p := range s.Sim.State.Players() {
			if d := s.Sim.Danger.Danger(p.ID, c); d > 0 {
				danger[p.Name] = d
			}
		}
		units := []world.Unit{}
		for _, u := range s.Sim.State.UnitsAt(c) {
			units = append(units, *u)
		}
		body = map[string]any{
			"tile":   *t,
			"units":  units,
			"danger": danger,
		}
		if city := s.Sim.State.CityAt(c); city != nil {
			body["city"] = *city
		}
		if z := s.Sim.AI.Grid().ZoneAt(c); z != nil {
			body["zone"] = *z
		}
	})
	if body == nil {
		http.Error(w, "hex not found", http.StatusNotFound)
		return
	}
	writeJSON(w, body)
}

// handleJournalMissions returns every mission journaled for ?turn=.
func (s *Server) handleJournalMissions(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "no journal attached", http.StatusNotFound)
		return
	}
	turn, err := strconv.Atoi(r.URL.Query().Get("turn"))
	if err != nil {
		http.Error(w, "turn must be an integer", http.StatusBadRequest)
		return
	}
	rows, err := s.DB.Missions(turn)
	if err != nil {
		slog.Error("journal missions query failed", "turn", turn, "error", err)
		http.Error(w, "query failed", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []persistence.MissionRow{}
	}
	writeJSON(w, rows)
}

// handleJournalMoves returns how many orders each tactical move has issued.
func (s *Server) handleJournalMoves(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "no journal attached", http.StatusNotFound)
		return
	}
	usage, err := s.DB.MoveUsage()
	if err != nil {
		slog.Error("journal move usage query failed", "error", err)
		http.Error(w, "query failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, usage)
}

// handleTemporaryZones lists active temporary zones; POST adds one.
func (s *Server) handleTemporaryZones(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		var req struct {
			Q        int `json:"q"`
			R        int `json:"r"`
			Lifetime int `json:"lifetime"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.Lifetime == 0 {
			req.Lifetime = defaultZoneLife
		}
		if req.Lifetime < 0 || req.Lifetime > maxZoneLife {
			http.Error(w, fmt.Sprintf("lifetime must be 1-%d", maxZoneLife), http.StatusBadRequest)
			return
		}
		c := world.HexCoord{Q: req.Q, R: req.R}
		if err := s.Sim.AddTemporaryZone(c, req.Lifetime); err != nil {
			if errors.Is(err, world.ErrOutOfBounds) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "failed to add zone", http.StatusInternalServerError)
			return
		}
		slog.Info("temporary zone added", "coord", c, "lifetime", req.Lifetime)
	}

	zones := []tactical.TemporaryZone{}
	s.Sim.View(func() {
		zones = append(zones, s.Sim.AI.TemporaryZones()...)
	})
	writeJSON(w, zones)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
