package world

// PlayerID identifies a side. Values index the per-tile visibility bitmask,
// so at most 64 sides are supported.
type PlayerID int

// NoPlayer marks unowned tiles.
const NoPlayer PlayerID = -1

// PlayerKind distinguishes how a side participates in the game.
type PlayerKind uint8

const (
	KindMajor     PlayerKind = iota // Full civilization
	KindCityState                   // Minor civilization
	KindBarbarian                   // At war with everyone, owns camps not cities
	KindObserver                    // Spectator, no territory
)

var kindNames = [...]string{
	KindMajor:     "major",
	KindCityState: "city_state",
	KindBarbarian: "barbarian",
	KindObserver:  "observer",
}

func (k PlayerKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParsePlayerKind maps a kind name back to its value.
func ParsePlayerKind(name string) (PlayerKind, bool) {
	for i, n := range kindNames {
		if n == name {
			return PlayerKind(i), true
		}
	}
	return 0, false
}

// Player is one side of the game.
type Player struct {
	ID       PlayerID   `json:"id"`
	Name     string     `json:"name"`
	Kind     PlayerKind `json:"kind"`
	Handicap string     `json:"handicap"`
}

// IsBarbarian reports whether the side is the barbarian faction.
func (p *Player) IsBarbarian() bool {
	return p.Kind == KindBarbarian
}

// ContestsZones reports whether the side has a territory concept and so
// takes part in dominance zone analysis.
func (p *Player) ContestsZones() bool {
	return p.Kind != KindObserver
}

// UnitID is a unique identifier for a unit. Zero is never issued.
type UnitID uint64

// CityID is a unique identifier for a city. Zero is never issued.
type CityID uint64

// Domain is the movement domain of a unit.
type Domain uint8

const (
	DomainLand Domain = iota
	DomainSea
)

// UnitClass is the broad combat role of a unit type.
type UnitClass uint8

const (
	ClassMelee UnitClass = iota
	ClassMounted
	ClassRanged
	ClassSiege
	ClassScout
	ClassNavalMelee
	ClassNavalRanged
	ClassSettler
	ClassWorker
	ClassGreatPerson
	ClassTrade
)

var classNames = [...]string{
	ClassMelee:       "melee",
	ClassMounted:     "mounted",
	ClassRanged:      "ranged",
	ClassSiege:       "siege",
	ClassScout:       "scout",
	ClassNavalMelee:  "naval_melee",
	ClassNavalRanged: "naval_ranged",
	ClassSettler:     "settler",
	ClassWorker:      "worker",
	ClassGreatPerson: "great_person",
	ClassTrade:       "trade",
}

func (c UnitClass) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return "unknown"
}

// ParseUnitClass maps a class name back to its value.
func ParseUnitClass(name string) (UnitClass, bool) {
	for i, n := range classNames {
		if n == name {
			return UnitClass(i), true
		}
	}
	return 0, false
}

// IsCombat reports whether units of this class can fight.
func (c UnitClass) IsCombat() bool {
	switch c {
	case ClassSettler, ClassWorker, ClassGreatPerson, ClassTrade:
		return false
	default:
		return true
	}
}

// IsRanged reports whether units of this class attack from range.
func (c UnitClass) IsRanged() bool {
	return c == ClassRanged || c == ClassSiege || c == ClassNavalRanged
}

// Promotion is an earned unit bonus.
type Promotion uint8

const (
	PromotionOpenTerrain  Promotion = iota // combat bonus in open terrain
	PromotionRoughTerrain                  // combat bonus in rough terrain
	PromotionCover                         // ranged defense bonus
	PromotionMedic                         // heals adjacent units
	PromotionCityAssault                   // bonus against cities
)

// Unit is a single military or civilian unit on the map.
type Unit struct {
	ID    UnitID    `json:"id"`
	Owner PlayerID  `json:"owner"`
	Name  string    `json:"name"`
	Class UnitClass `json:"class"`
	// Domain defaults from Class when the unit is added to State.
	Domain Domain   `json:"domain"`
	Coord  HexCoord `json:"coord"`

	Strength       int `json:"strength"`
	RangedStrength int `json:"ranged_strength"`
	Range          int `json:"range"`
	Moves          int `json:"moves"` // movement points per turn

	Health    int `json:"health"`
	MaxHealth int `json:"max_health"`

	Embarked   bool        `json:"embarked"`
	CanEmbark  bool        `json:"can_embark"`
	Fortified  bool        `json:"fortified"`
	Promotions []Promotion `json:"promotions,omitempty"`

	// ArmyID is non-zero when the unit belongs to an operation army.
	// LockedInOperation marks armies that must not be interrupted.
	ArmyID            int  `json:"army_id,omitempty"`
	LockedInOperation bool `json:"locked_in_operation,omitempty"`

	// ProcessedTurn is the last turn the unit received orders.
	ProcessedTurn int       `json:"processed_turn"`
	Missions      []Mission `json:"missions,omitempty"`
}

// IsCombat reports whether the unit can fight.
func (u *Unit) IsCombat() bool {
	return u.Class.IsCombat()
}

// CanRangeAttack reports whether the unit can make ranged attacks.
func (u *Unit) CanRangeAttack() bool {
	return u.RangedStrength > 0 && u.Range > 0 && !u.Embarked
}

// HasPromotion reports whether the unit has earned the given promotion.
func (u *Unit) HasPromotion(p Promotion) bool {
	for _, have := range u.Promotions {
		if have == p {
			return true
		}
	}
	return false
}

// HasTerrainCombatBonus reports whether any promotion ties the unit's
// strength to the terrain it stands on.
func (u *Unit) HasTerrainCombatBonus() bool {
	return u.HasPromotion(PromotionOpenTerrain) || u.HasPromotion(PromotionRoughTerrain)
}

// IsDamaged reports whether the unit is below full health.
func (u *Unit) IsDamaged() bool {
	return u.Health < u.MaxHealth
}

// HealthPercent returns current health as a percentage of maximum.
func (u *Unit) HealthPercent() int {
	if u.MaxHealth <= 0 {
		return 0
	}
	return u.Health * 100 / u.MaxHealth
}

// IsAlive reports whether the unit still exists on the map.
func (u *Unit) IsAlive() bool {
	return u.Health > 0
}

// LastMission returns the most recently pushed mission, if any.
func (u *Unit) LastMission() (Mission, bool) {
	if len(u.Missions) == 0 {
		return Mission{}, false
	}
	return u.Missions[len(u.Missions)-1], true
}

// City is a settled population center.
type City struct {
	ID         CityID   `json:"id"`
	Name       string   `json:"name"`
	Owner      PlayerID `json:"owner"`
	Coord      HexCoord `json:"coord"`
	Population int      `json:"population"`
	Capital    bool     `json:"capital"`

	Health    int `json:"health"`
	MaxHealth int `json:"max_health"`
	Strength  int `json:"strength"`
}

// Damage returns the hit points the city has lost.
func (c *City) Damage() int {
	return c.MaxHealth - c.Health
}
