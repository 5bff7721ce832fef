package tactical

import "errors"

var (
	// ErrInvalidZoneScore marks a live zone whose priority score is not
	// positive. It halts the side's pass for the turn.
	ErrInvalidZoneScore = errors.New("dominance zone score must be positive")
	// ErrUnknownSide is returned for a side the world does not know.
	ErrUnknownSide = errors.New("unknown side")
	// ErrNoPathfinder is returned by New when Deps carries no pathfinder.
	ErrNoPathfinder = errors.New("no pathfinder configured")
	// ErrMissingDependency is returned by New when another required
	// collaborator is nil.
	ErrMissingDependency = errors.New("missing tactical dependency")
)
