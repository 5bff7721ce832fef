// Command tacsim generates a skirmish scenario and lets the tactical AI
// fight it out, journaling every turn to SQLite.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hexwar/internal/api"
	"github.com/talgya/hexwar/internal/config"
	"github.com/talgya/hexwar/internal/engine"
	"github.com/talgya/hexwar/internal/persistence"
)

func main() {
	configPath := flag.String("config", "", "scenario YAML (built-in skirmish when empty)")
	turns := flag.Int("turns", 0, "turns to play (overrides the scenario)")
	seed := flag.Int64("seed", 0, "map and jitter seed (overrides the scenario)")
	dbPath := flag.String("db", "data/hexwar.db", "turn journal path (empty disables)")
	httpPort := flag.Int("http", 0, "serve the inspection API on this port (0 disables)")
	interval := flag.Duration("interval", 0, "pause between turns")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -log-level %q\n", *logLevel)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// ── Scenario ──────────────────────────────────────────────────────
	sc := config.Default()
	if *configPath != "" {
		var err error
		sc, err = config.Load(*configPath)
		if err != nil {
			slog.Error("failed to load scenario", "path", *configPath, "error", err)
			os.Exit(1)
		}
	}
	if *turns > 0 {
		sc.Turns = *turns
	}
	if *seed != 0 {
		sc.Seed = *seed
	}
	slog.Info("hexwar tactical skirmish", "scenario", sc.Name, "seed", sc.Seed, "turns", sc.Turns)

	sim, err := engine.Build(sc)
	if err != nil {
		slog.Error("failed to build scenario", "error", err)
		os.Exit(1)
	}

	// ── Journal ───────────────────────────────────────────────────────
	var db *persistence.DB
	if *dbPath != "" {
		if dir := filepath.Dir(*dbPath); dir != "." {
			os.MkdirAll(dir, 0755)
		}
		db, err = persistence.Open(*dbPath)
		if err != nil {
			slog.Error("failed to open journal", "path", *dbPath, "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if last, err := db.LastTurn(); err == nil && last > 0 {
			slog.Warn("journal already holds turns; replayed turns are overwritten", "last_turn", last)
		}
		db.SaveMeta("scenario", sc.Name)
		db.SaveMeta("seed", strconv.FormatInt(sc.Seed, 10))
		slog.Info("journal opened", "path", *dbPath)
	}

	// ── Engine ────────────────────────────────────────────────────────
	eng := engine.NewEngine()
	eng.MaxTurns = sc.Turns
	eng.Interval = *interval
	eng.OnTurn = func(turn int) error {
		res, err := sim.PlayTurn()
		if err != nil {
			return err
		}
		if db != nil {
			if err := db.SaveTurn(res); err != nil {
				return fmt.Errorf("journal turn %d: %w", turn, err)
			}
		}
		return nil
	}
	eng.OnCheckpoint = func(turn int) {
		for _, line := range sim.Summary() {
			slog.Info("standings", "turn", turn, "side", strings.TrimSpace(line))
		}
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	if *httpPort > 0 {
		adminKey := os.Getenv("HEXWAR_ADMIN_KEY")
		if adminKey == "" {
			slog.Warn("HEXWAR_ADMIN_KEY not set, admin POST endpoints will be disabled")
		}
		srv := &api.Server{Sim: sim, Eng: eng, DB: db, Port: *httpPort, AdminKey: adminKey}
		srv.Start()
		fmt.Printf("API: http://localhost:%d/api/v1/status\n", *httpPort)
	}

	// ── Run ───────────────────────────────────────────────────────────
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		eng.Stop()
		cancel()
	}()

	start := time.Now()
	runErr := eng.Run(ctx)

	fmt.Printf("\n%s after %s turn (%s)\n", sc.Name, humanize.Ordinal(eng.Turn),
		time.Since(start).Round(time.Millisecond))
	for _, line := range sim.Summary() {
		fmt.Println(line)
	}
	if runErr != nil {
		slog.Error("skirmish ended early", "turn", eng.Turn, "error", runErr)
		os.Exit(1)
	}
}
