package tactical

// MoveType is a category of tactical move.
type MoveType uint8

const (
	MoveNone MoveType = iota
	MoveCaptureCity
	MoveDamageCity
	MoveDestroyHighUnit
	MoveDestroyMediumUnit
	MoveDestroyLowUnit
	MoveToSafety
	MoveAttritHighUnit
	MoveAttritMediumUnit
	MoveAttritLowUnit
	MoveReposition
	MoveBarbarianCamp
	MovePillage
	MoveCivilianAttack
	MoveSafeBombards
	MoveHeal
	MoveAncientRuins
	MoveGarrisonAlreadyThere
	MoveBastionAlreadyThere
	MoveGuardImprovementAlreadyThere
	MoveGarrisonOneTurn
	MoveBastionOneTurn
	MoveGuardImprovementOneTurn
	MoveBlockadeResource
	MoveEmbarkedMilitary
	MoveEmbarkedCivilian
	MoveAirSweep
	MoveCloseOnTarget

	MovePostureWithdraw
	MovePostureSitAndBombard
	MovePostureAttritFromRange
	MovePostureExploitFlanks
	MovePostureSteamroll
	MovePostureSurgicalCityStrike
	MovePostureHedgehog
	MovePostureCounterAttack
	MovePostureShoreBombardment

	MoveBarbarianCaptureCity
	MoveBarbarianDamageCity
	MoveBarbarianDestroyHighUnit
	MoveBarbarianDestroyMediumUnit
	MoveBarbarianDestroyLowUnit
	MoveBarbarianToSafety
	MoveBarbarianAttritHighUnit
	MoveBarbarianAttritMediumUnit
	MoveBarbarianAttritLowUnit
	MoveBarbarianPillage
	MoveBarbarianPillageCitadel
	MoveBarbarianBlockadeResource
	MoveBarbarianCivilianAttack
	MoveBarbarianPlunderTradeUnit
	MoveBarbarianGuardCamp
	MoveBarbarianCampDefense
	MoveBarbarianEscortCivilian
	MoveBarbarianDesperateAttack
	MoveBarbarianAggressiveMove
	MoveBarbarianPassiveMove

	moveTypeCount
)

// moveInfo is the static metadata of a move type.
type moveInfo struct {
	name     string
	priority int     // Base priority; negative never runs
	zone     bool    // Runs once per dominance zone
	posture  Posture // Zone posture the move is gated on (PostureNone: not gated)
	recruit  bool    // May take units assigned to a non-locked operation
}

// dominanceZoneMove reports whether execution is gated on zone posture.
func (i moveInfo) dominanceZoneMove() bool {
	return i.zone && i.posture != PostureNone
}

var moveTable = [moveTypeCount]moveInfo{
	MoveNone:                         {name: "none", priority: -1},
	MoveCaptureCity:                  {name: "capture_city", priority: 150, recruit: true},
	MoveDamageCity:                   {name: "damage_city", priority: 15, recruit: true},
	MoveDestroyHighUnit:              {name: "destroy_high_unit", priority: 140, recruit: true},
	MoveDestroyMediumUnit:            {name: "destroy_medium_unit", priority: 120, recruit: true},
	MoveDestroyLowUnit:               {name: "destroy_low_unit", priority: 110, recruit: true},
	MoveToSafety:                     {name: "to_safety", priority: 11},
	MoveAttritHighUnit:               {name: "attrit_high_unit", priority: 17},
	MoveAttritMediumUnit:             {name: "attrit_medium_unit", priority: 15},
	MoveAttritLowUnit:                {name: "attrit_low_unit", priority: 12},
	MoveReposition:                   {name: "reposition", priority: 1},
	MoveBarbarianCamp:                {name: "barbarian_camp", priority: 10},
	MovePillage:                      {name: "pillage", priority: 40},
	MoveCivilianAttack:               {name: "civilian_attack", priority: 65, recruit: true},
	MoveSafeBombards:                 {name: "safe_bombards", priority: 60, recruit: true},
	MoveHeal:                         {name: "heal", priority: 8},
	MoveAncientRuins:                 {name: "ancient_ruins", priority: 25},
	MoveGarrisonAlreadyThere:         {name: "garrison_already_there", priority: 20},
	MoveBastionAlreadyThere:          {name: "bastion_already_there", priority: 7},
	MoveGuardImprovementAlreadyThere: {name: "guard_improvement_already_there", priority: 3},
	MoveGarrisonOneTurn:              {name: "garrison_1_turn", priority: 5},
	MoveBastionOneTurn:               {name: "bastion_1_turn", priority: 4},
	MoveGuardImprovementOneTurn:      {name: "guard_improvement_1_turn", priority: 2},
	MoveBlockadeResource:             {name: "blockade_resource", priority: 9},
	MoveEmbarkedMilitary:             {name: "embarked_military", priority: 130, recruit: true},
	MoveEmbarkedCivilian:             {name: "embarked_civilian", priority: 64, recruit: true},
	MoveAirSweep:                     {name: "air_sweep", priority: -1},
	MoveCloseOnTarget:                {name: "close_on_target", priority: 45, zone: true},

	MovePostureWithdraw:           {name: "posture_withdraw", priority: 70, zone: true, posture: PostureWithdraw},
	MovePostureSitAndBombard:      {name: "posture_sit_and_bombard", priority: 55, zone: true, posture: PostureSitAndBombard},
	MovePostureAttritFromRange:    {name: "posture_attrit_from_range", priority: 55, zone: true, posture: PostureAttritFromRange},
	MovePostureExploitFlanks:      {name: "posture_exploit_flanks", priority: 50, zone: true, posture: PostureExploitFlanks},
	MovePostureSteamroll:          {name: "posture_steamroll", priority: 90, zone: true, posture: PostureSteamroll},
	MovePostureSurgicalCityStrike: {name: "posture_surgical_city_strike", priority: 95, zone: true, posture: PostureSurgicalCityStrike},
	MovePostureHedgehog:           {name: "posture_hedgehog", priority: 50, zone: true, posture: PostureHedgehog},
	MovePostureCounterAttack:      {name: "posture_counterattack", priority: 60, zone: true, posture: PostureCounterAttack},
	MovePostureShoreBombardment:   {name: "posture_shore_bombardment", priority: 45, zone: true, posture: PostureShoreBombardment},

	// Barbarian priorities come from a community-tuned table rather than
	// from the major-side values above.
	MoveBarbarianCaptureCity:       {name: "barbarian_capture_city", priority: 150},
	MoveBarbarianDamageCity:        {name: "barbarian_damage_city", priority: 15},
	MoveBarbarianDestroyHighUnit:   {name: "barbarian_destroy_high_unit", priority: 140},
	MoveBarbarianDestroyMediumUnit: {name: "barbarian_destroy_medium_unit", priority: 120},
	MoveBarbarianDestroyLowUnit:    {name: "barbarian_destroy_low_unit", priority: 110},
	MoveBarbarianToSafety:          {name: "barbarian_to_safety", priority: 10},
	MoveBarbarianAttritHighUnit:    {name: "barbarian_attrit_high_unit", priority: 17},
	MoveBarbarianAttritMediumUnit:  {name: "barbarian_attrit_medium_unit", priority: 15},
	MoveBarbarianAttritLowUnit:     {name: "barbarian_attrit_low_unit", priority: 12},
	MoveBarbarianPillage:           {name: "barbarian_pillage", priority: 40},
	MoveBarbarianPillageCitadel:    {name: "barbarian_pillage_citadel", priority: 45},
	MoveBarbarianBlockadeResource:  {name: "barbarian_blockade_resource", priority: 35},
	MoveBarbarianCivilianAttack:    {name: "barbarian_civilian_attack", priority: 65},
	MoveBarbarianPlunderTradeUnit:  {name: "barbarian_plunder_trade_unit", priority: 50},
	MoveBarbarianGuardCamp:         {name: "barbarian_guard_camp", priority: 55},
	MoveBarbarianCampDefense:       {name: "barbarian_camp_defense", priority: 52},
	MoveBarbarianEscortCivilian:    {name: "barbarian_escort_civilian", priority: 30},
	MoveBarbarianDesperateAttack:   {name: "barbarian_desperate_attack", priority: 0},
	MoveBarbarianAggressiveMove:    {name: "barbarian_aggressive_move", priority: 5},
	MoveBarbarianPassiveMove:       {name: "barbarian_passive_move", priority: 1},
}

func (t MoveType) info() moveInfo {
	if t >= moveTypeCount {
		return moveInfo{name: "unknown", priority: -1}
	}
	return moveTable[t]
}

func (t MoveType) String() string {
	return t.info().name
}

// BasePriority returns the move's static priority.
func (t MoveType) BasePriority() int {
	return t.info().priority
}

// majorCatalogue is the move list for civilizations and city-states, in
// catalogue order (the stable tie-break order).
var majorCatalogue = []MoveType{
	MoveNone,
	MoveCaptureCity,
	MoveDamageCity,
	MoveDestroyHighUnit,
	MoveDestroyMediumUnit,
	MoveDestroyLowUnit,
	MoveToSafety,
	MoveAttritHighUnit,
	MoveAttritMediumUnit,
	MoveAttritLowUnit,
	MoveReposition,
	MoveBarbarianCamp,
	MovePillage,
	MoveCivilianAttack,
	MoveSafeBombards,
	MoveHeal,
	MoveAncientRuins,
	MoveGarrisonAlreadyThere,
	MoveBastionAlreadyThere,
	MoveGuardImprovementAlreadyThere,
	MoveGarrisonOneTurn,
	MoveBastionOneTurn,
	MoveGuardImprovementOneTurn,
	MoveBlockadeResource,
	MoveEmbarkedMilitary,
	MoveEmbarkedCivilian,
	MoveAirSweep,
	MoveCloseOnTarget,
	MovePostureWithdraw,
	MovePostureSitAndBombard,
	MovePostureAttritFromRange,
	MovePostureExploitFlanks,
	MovePostureSteamroll,
	MovePostureSurgicalCityStrike,
	MovePostureHedgehog,
	MovePostureCounterAttack,
	MovePostureShoreBombardment,
}

var barbarianCatalogue = []MoveType{
	MoveBarbarianCaptureCity,
	MoveBarbarianDamageCity,
	MoveBarbarianDestroyHighUnit,
	MoveBarbarianDestroyMediumUnit,
	MoveBarbarianDestroyLowUnit,
	MoveBarbarianToSafety,
	MoveBarbarianAttritHighUnit,
	MoveBarbarianAttritMediumUnit,
	MoveBarbarianAttritLowUnit,
	MoveBarbarianPillage,
	MoveBarbarianPillageCitadel,
	MoveBarbarianBlockadeResource,
	MoveBarbarianCivilianAttack,
	MoveBarbarianPlunderTradeUnit,
	MoveBarbarianGuardCamp,
	MoveBarbarianCampDefense,
	MoveBarbarianEscortCivilian,
	MoveBarbarianDesperateAttack,
	MoveBarbarianAggressiveMove,
	MoveBarbarianPassiveMove,
}

// MarshalText encodes the move type by name.
func (t MoveType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}
