// Package persistence provides the SQLite turn journal: what each side
// planned and ordered every turn, and what happened as a result.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/hexwar/internal/engine"
	"github.com/talgya/hexwar/internal/tactical"
	"github.com/talgya/hexwar/internal/world"
)

// DB wraps a SQLite connection for the turn journal.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS side_turns (
		turn INTEGER NOT NULL,
		side INTEGER NOT NULL,
		targets INTEGER NOT NULL,
		orders INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		PRIMARY KEY (turn, side)
	);

	CREATE TABLE IF NOT EXISTS agenda (
		turn INTEGER NOT NULL,
		side INTEGER NOT NULL,
		rank INTEGER NOT NULL,
		move TEXT NOT NULL,
		priority INTEGER NOT NULL,
		PRIMARY KEY (turn, side, rank)
	);

	CREATE TABLE IF NOT EXISTS zones (
		turn INTEGER NOT NULL,
		side INTEGER NOT NULL,
		zone_id INTEGER NOT NULL,
		anchor_q INTEGER NOT NULL,
		anchor_r INTEGER NOT NULL,
		city_id INTEGER NOT NULL,
		water INTEGER NOT NULL,
		temporary INTEGER NOT NULL,
		territory TEXT NOT NULL,
		dominance TEXT NOT NULL,
		posture TEXT NOT NULL,
		score INTEGER NOT NULL,
		friendly_strength INTEGER NOT NULL,
		enemy_strength INTEGER NOT NULL,
		PRIMARY KEY (turn, side, zone_id)
	);

	CREATE TABLE IF NOT EXISTS missions (
		id TEXT PRIMARY KEY,
		turn INTEGER NOT NULL,
		side INTEGER NOT NULL,
		unit_id INTEGER NOT NULL,
		type TEXT NOT NULL,
		target_q INTEGER NOT NULL,
		target_r INTEGER NOT NULL,
		source TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		turn INTEGER NOT NULL,
		side INTEGER NOT NULL,
		category TEXT NOT NULL,
		description TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_turn ON events(turn);
	CREATE INDEX IF NOT EXISTS idx_missions_turn ON missions(turn, side);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// AgendaRow is one journaled agenda entry.
type AgendaRow struct {
	Turn     int    `db:"turn" json:"turn"`
	Side     int    `db:"side" json:"side"`
	Rank     int    `db:"rank" json:"rank"`
	Move     string `db:"move" json:"move"`
	Priority int    `db:"priority" json:"priority"`
}

// ZoneRow is one journaled dominance zone verdict.
type ZoneRow struct {
	Turn             int    `db:"turn" json:"turn"`
	Side             int    `db:"side" json:"side"`
	ZoneID           int    `db:"zone_id" json:"zone_id"`
	AnchorQ          int    `db:"anchor_q" json:"anchor_q"`
	AnchorR          int    `db:"anchor_r" json:"anchor_r"`
	CityID           int64  `db:"city_id" json:"city_id"`
	Water            bool   `db:"water" json:"water"`
	Temporary        bool   `db:"temporary" json:"temporary"`
	Territory        string `db:"territory" json:"territory"`
	Dominance        string `db:"dominance" json:"dominance"`
	Posture          string `db:"posture" json:"posture"`
	Score            int    `db:"score" json:"score"`
	FriendlyStrength int    `db:"friendly_strength" json:"friendly_strength"`
	EnemyStrength    int    `db:"enemy_strength" json:"enemy_strength"`
}

// MissionRow is one journaled order.
type MissionRow struct {
	ID      string `db:"id" json:"id"`
	Turn    int    `db:"turn" json:"turn"`
	Side    int    `db:"side" json:"side"`
	UnitID  int64  `db:"unit_id" json:"unit_id"`
	Type    string `db:"type" json:"type"`
	TargetQ int    `db:"target_q" json:"target_q"`
	TargetR int    `db:"target_r" json:"target_r"`
	Source  string `db:"source" json:"source"`
}

// SaveTurn journals every side's report and the turn's events in one
// transaction.
func (db *DB) SaveTurn(res *engine.TurnResult) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, r := range res.Reports {
		if err := saveReport(tx, r); err != nil {
			return fmt.Errorf("save side %d turn %d: %w", r.Side, r.Turn, err)
		}
	}
	if err := saveEvents(tx, res.Events); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	if _, err := tx.Exec("INSERT OR REPLACE INTO world_meta (key, value) VALUES ('last_turn', ?)",
		strconv.Itoa(res.Turn)); err != nil {
		return err
	}
	return tx.Commit()
}

func saveReport(tx *sqlx.Tx, r *tactical.TurnReport) error {
	if _, err := tx.Exec(`INSERT OR REPLACE INTO side_turns (turn, side, targets, orders, skipped)
		VALUES (?, ?, ?, ?, ?)`, r.Turn, r.Side, len(r.Targets), len(r.Orders), r.Skipped); err != nil {
		return err
	}

	for rank, mv := range r.Agenda {
		if _, err := tx.Exec(`INSERT OR REPLACE INTO agenda (turn, side, rank, move, priority)
			VALUES (?, ?, ?, ?, ?)`, r.Turn, r.Side, rank, mv.Type.String(), mv.Priority); err != nil {
			return err
		}
	}

	for _, z := range r.Zones {
		_, err := tx.Exec(`INSERT OR REPLACE INTO zones
			(turn, side, zone_id, anchor_q, anchor_r, city_id, water, temporary,
			 territory, dominance, posture, score, friendly_strength, enemy_strength)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.Turn, r.Side, z.ID, z.Anchor.Q, z.Anchor.R, z.CityID, z.Water, z.Temporary,
			z.Territory.String(), z.Dominance.String(), z.Posture.String(), z.Score,
			z.FriendlyStrength, z.EnemyStrength,
		)
		if err != nil {
			return fmt.Errorf("insert zone %d: %w", z.ID, err)
		}
	}

	stmt, err := tx.Preparex(`INSERT OR REPLACE INTO missions
		(id, turn, side, unit_id, type, target_q, target_r, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, o := range r.Orders {
		m := o.Mission
		if _, err := stmt.Exec(m.ID.String(), r.Turn, r.Side, o.Unit, m.Type.String(),
			m.Target.Q, m.Target.R, m.Source); err != nil {
			return fmt.Errorf("insert mission for unit %d: %w", o.Unit, err)
		}
	}
	return nil
}

func saveEvents(tx *sqlx.Tx, events []engine.Event) error {
	for _, e := range events {
		_, err := tx.Exec(
			"INSERT INTO events (turn, side, category, description) VALUES (?, ?, ?, ?)",
			e.Turn, e.Side, e.Category, e.Description,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// SaveMeta stores a key-value pair in world metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}

// LastTurn returns the most recent journaled turn, or 0 for an empty
// journal.
func (db *DB) LastTurn() (int, error) {
	v, err := db.GetMeta("last_turn")
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(v)
}

// Agenda returns the journaled agenda of a side on a turn, best first.
func (db *DB) Agenda(side world.PlayerID, turn int) ([]AgendaRow, error) {
	var rows []AgendaRow
	err := db.conn.Select(&rows,
		"SELECT turn, side, rank, move, priority FROM agenda WHERE side = ? AND turn = ? ORDER BY rank",
		side, turn,
	)
	return rows, err
}

// Zones returns the journaled zone verdicts of a side on a turn.
func (db *DB) Zones(side world.PlayerID, turn int) ([]ZoneRow, error) {
	var rows []ZoneRow
	err := db.conn.Select(&rows, `SELECT turn, side, zone_id, anchor_q, anchor_r, city_id, water, temporary,
		territory, dominance, posture, score, friendly_strength, enemy_strength
		FROM zones WHERE side = ? AND turn = ? ORDER BY score DESC, zone_id`,
		side, turn,
	)
	return rows, err
}

// Missions returns every order issued on a turn, by side then unit.
func (db *DB) Missions(turn int) ([]MissionRow, error) {
	var rows []MissionRow
	err := db.conn.Select(&rows, `SELECT id, turn, side, unit_id, type, target_q, target_r, source
		FROM missions WHERE turn = ? ORDER BY side, unit_id`, turn)
	return rows, err
}

// MoveUsage counts how often each move issued orders across the journal.
func (db *DB) MoveUsage() (map[string]int, error) {
	var rows []struct {
		Source string `db:"source"`
		N      int    `db:"n"`
	}
	if err := db.conn.Select(&rows, "SELECT source, COUNT(*) AS n FROM missions GROUP BY source"); err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.Source] = r.N
	}
	return out, nil
}

// RecentEvents returns the most recent N events, newest first.
func (db *DB) RecentEvents(limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT turn, side, category, description FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err == nil {
		slog.Debug("events loaded", "count", len(events))
	}
	return events, err
}
