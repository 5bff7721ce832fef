package tactical

// Posture is the stance a side takes in a dominance zone for a turn.
type Posture uint8

const (
	PostureNone Posture = iota
	PostureWithdraw
	PostureSitAndBombard
	PostureAttritFromRange
	PostureExploitFlanks
	PostureSteamroll
	PostureSurgicalCityStrike
	PostureHedgehog
	PostureCounterAttack
	PostureShoreBombardment
)

var postureNames = [...]string{
	PostureNone:               "none",
	PostureWithdraw:           "withdraw",
	PostureSitAndBombard:      "sit_and_bombard",
	PostureAttritFromRange:    "attrit_from_range",
	PostureExploitFlanks:      "exploit_flanks",
	PostureSteamroll:          "steamroll",
	PostureSurgicalCityStrike: "surgical_city_strike",
	PostureHedgehog:           "hedgehog",
	PostureCounterAttack:      "counterattack",
	PostureShoreBombardment:   "shore_bombardment",
}

func (p Posture) String() string {
	if int(p) < len(postureNames) {
		return postureNames[p]
	}
	return "unknown"
}

// rangedHeavy reports whether ranged units carry at least half of the
// side's strength in the zone.
func rangedHeavy(z *DominanceZone) bool {
	return z.FriendlyRangedStrength*2 >= z.FriendlyStrength && z.FriendlyRangedCount > 0
}

// selectPosture picks a zone's posture from its dominance balance and the
// posture it held last turn. Even fights keep their previous stance.
func selectPosture(z *DominanceZone, last Posture) Posture {
	if z.Water {
		return selectWaterPosture(z, last)
	}
	switch z.Territory {
	case TerritoryEnemy:
		return selectEnemyTerritoryPosture(z, last)
	case TerritoryFriendly:
		return selectFriendlyTerritoryPosture(z, last)
	default:
		return selectNeutralPosture(z, last)
	}
}

func selectWaterPosture(z *DominanceZone, last Posture) Posture {
	if z.FriendlyNavalCount == 0 {
		return PostureNone
	}
	switch {
	case z.Dominance == DominanceEnemy:
		return PostureWithdraw
	case z.CityID != 0 && z.Territory == TerritoryEnemy && z.FriendlyRangedCount > 0:
		return PostureShoreBombardment
	case z.EnemyUnitCount > 0 && z.Territory == TerritoryFriendly:
		return PostureCounterAttack
	case z.EnemyUnitCount > 0 && z.Dominance == DominanceEven && last == PostureWithdraw:
		return PostureWithdraw
	case z.EnemyUnitCount > 0:
		return PostureAttritFromRange
	}
	return PostureNone
}

func selectEnemyTerritoryPosture(z *DominanceZone, last Posture) Posture {
	if z.FriendlyUnitCount == 0 {
		return PostureNone
	}
	switch z.Dominance {
	case DominanceEnemy:
		if z.Objective {
			return PostureSitAndBombard
		}
		return PostureWithdraw
	case DominanceFriendly:
		if z.CityID != 0 && z.EnemyUnitCount == 0 {
			return PostureSurgicalCityStrike
		}
		return PostureSteamroll
	case DominanceNotVisible, DominanceNoUnits:
		return last
	}
	switch last {
	case PostureSteamroll, PostureSurgicalCityStrike, PostureSitAndBombard, PostureExploitFlanks:
		return last
	}
	if rangedHeavy(z) {
		return PostureSitAndBombard
	}
	return PostureExploitFlanks
}

func selectFriendlyTerritoryPosture(z *DominanceZone, last Posture) Posture {
	if z.EnemyUnitCount == 0 {
		return PostureNone
	}
	switch z.Dominance {
	case DominanceEnemy:
		return PostureHedgehog
	case DominanceEven:
		if last == PostureHedgehog {
			return PostureHedgehog
		}
		return PostureCounterAttack
	}
	return PostureCounterAttack
}

func selectNeutralPosture(z *DominanceZone, last Posture) Posture {
	if z.EnemyUnitCount == 0 || z.FriendlyUnitCount == 0 {
		return PostureNone
	}
	switch z.Dominance {
	case DominanceEnemy:
		return PostureWithdraw
	case DominanceFriendly:
		return PostureSteamroll
	}
	if last == PostureWithdraw {
		return PostureWithdraw
	}
	if rangedHeavy(z) {
		return PostureAttritFromRange
	}
	return PostureExploitFlanks
}

// MarshalText encodes the posture by name.
func (p Posture) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
