package world

import "github.com/google/uuid"

// MissionType enumerates orders a unit can receive for a turn.
type MissionType uint8

const (
	MissionSkip        MissionType = iota // Do nothing this turn
	MissionMoveTo                         // Move along a path toward Target
	MissionAttack                         // Melee attack into Target
	MissionRangeAttack                    // Ranged attack on Target
	MissionFortify                        // Dig in on the current tile
	MissionGarrison                       // Hold a city or defensive tile
	MissionHeal                           // Rest to recover health
	MissionPillage                        // Destroy the improvement on Target
	MissionCapture                        // Enter Target to seize a civilian or city
)

var missionNames = [...]string{
	MissionSkip:        "skip",
	MissionMoveTo:      "move_to",
	MissionAttack:      "attack",
	MissionRangeAttack: "range_attack",
	MissionFortify:     "fortify",
	MissionGarrison:    "garrison",
	MissionHeal:        "heal",
	MissionPillage:     "pillage",
	MissionCapture:     "capture",
}

// String returns the mission's short name.
func (m MissionType) String() string {
	if int(m) < len(missionNames) {
		return missionNames[m]
	}
	return "unknown"
}

// Mission is one order pushed onto a unit's queue.
type Mission struct {
	ID     uuid.UUID   `json:"id"`
	Type   MissionType `json:"type"`
	Target HexCoord    `json:"target"`
	Turn   int         `json:"turn"`
	// Source names the tactical move that issued the order.
	Source string `json:"source"`
}

// NewMission creates a mission with a fresh identifier.
func NewMission(t MissionType, target HexCoord, turn int, source string) Mission {
	return Mission{
		ID:     uuid.New(),
		Type:   t,
		Target: target,
		Turn:   turn,
		Source: source,
	}
}
