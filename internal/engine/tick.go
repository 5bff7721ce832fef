// Package engine provides the turn loop and the simulation that plays a
// skirmish: every side's tactical pass, then the resolution of its orders.
package engine

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Engine drives the simulation forward one turn at a time.
type Engine struct {
	Turn     int           // Last turn played
	MaxTurns int           // Stop after this turn; 0 runs until Stop
	Interval time.Duration // Pause between turns; 0 runs flat out

	// CheckpointEvery fires OnCheckpoint every n turns (0 disables).
	CheckpointEvery int

	// Callbacks, populated during setup.
	OnTurn       func(turn int) error // Every turn
	OnCheckpoint func(turn int)       // Every CheckpointEvery turns
	OnStop       func(turn int)       // Once, when the loop exits

	running atomic.Bool
}

// NewEngine creates an engine with default settings.
func NewEngine() *Engine {
	return &Engine{CheckpointEvery: 10}
}

// Running reports whether Run is in progress.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// Run plays turns until MaxTurns is reached, Stop is called, the context
// ends, or OnTurn fails. It returns the OnTurn error, if any.
func (e *Engine) Run(ctx context.Context) error {
	e.running.Store(true)
	defer e.running.Store(false)
	slog.Info("turn engine started", "turn", e.Turn, "max_turns", e.MaxTurns)

	var err error
	for e.running.Load() {
		if e.MaxTurns > 0 && e.Turn >= e.MaxTurns {
			break
		}
		if ctx.Err() != nil {
			break
		}
		start := time.Now()
		if err = e.step(); err != nil {
			slog.Error("turn failed", "turn", e.Turn, "error", err)
			break
		}
		if e.Interval > 0 {
			if wait := e.Interval - time.Since(start); wait > 0 {
				select {
				case <-ctx.Done():
				case <-time.After(wait):
				}
			}
		}
	}

	if e.OnStop != nil {
		e.OnStop(e.Turn)
	}
	slog.Info("turn engine stopped", "turn", e.Turn)
	return err
}

// Stop halts the loop after the current turn.
func (e *Engine) Stop() {
	e.running.Store(false)
}

// step plays one turn.
func (e *Engine) step() error {
	e.Turn++
	if e.OnTurn != nil {
		if err := e.OnTurn(e.Turn); err != nil {
			return err
		}
	}
	if e.CheckpointEvery > 0 && e.Turn%e.CheckpointEvery == 0 && e.OnCheckpoint != nil {
		e.OnCheckpoint(e.Turn)
	}
	return nil
}
