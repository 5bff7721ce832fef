package tactical

// Config holds every tunable of the tactical pipeline.
type Config struct {
	RecruitRange        int `yaml:"recruit_range"`        // Max hex distance a unit contributes to a zone
	DominancePercentage int `yaml:"dominance_percentage"` // Strength margin before a side dominates
	PriorityJitter      int `yaml:"priority_jitter"`      // Symmetric bound on agenda jitter

	// Barbarians ignore owned territory until this turn.
	BarbarianEarlyTurn int `yaml:"barbarian_early_turn"`
	// Barbarian wander steering range keyed by the side's handicap name.
	BarbarianTargetRange        map[string]int `yaml:"barbarian_target_range"`
	DefaultBarbarianTargetRange int            `yaml:"default_barbarian_target_range"`

	TempZoneRadius   int `yaml:"temp_zone_radius"`
	TempZoneLifetime int `yaml:"temp_zone_lifetime"` // Default lifetime in turns

	FleeDanger        int `yaml:"flee_danger"`         // Danger above which hurt units flee
	FleeHealthPercent int `yaml:"flee_health_percent"` // Units below this health are "hurt"
	HealHealthPercent int `yaml:"heal_health_percent"` // Units below this health may heal
	BastionDanger     int `yaml:"bastion_danger"`      // Danger marking a friendly tile a bastion
	BastionDefense    int `yaml:"bastion_defense"`     // Minimum tile defense for a bastion

	AttritionPercent int `yaml:"attrition_percent"`  // Opportunistic attack threshold
	CitySiegeDivisor int `yaml:"city_siege_divisor"` // City siege throttle divisor

	PillageTurns     int `yaml:"pillage_turns"`      // Second-pass reach for pillage
	CloseOnDistance  int `yaml:"close_on_distance"`  // Distance melee units stage from a city
	ExploreRadius    int `yaml:"explore_radius"`     // Radius scored by the wander explorer
	OwnedTileBonus   int `yaml:"owned_tile_bonus"`   // Wander bonus for owned tiles
	RepositionTurns  int `yaml:"reposition_turns"`   // Reach for reposition moves
	CampGuardRadius  int `yaml:"camp_guard_radius"`  // Enemy distance that threatens a camp
	EscortSearchTurn int `yaml:"escort_search_turn"` // Reach for escort pickups
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		RecruitRange:        10,
		DominancePercentage: 25,
		PriorityJitter:      2,
		BarbarianEarlyTurn:  20,
		BarbarianTargetRange: map[string]int{
			"settler":   2,
			"chieftain": 3,
			"warlord":   4,
			"prince":    5,
			"king":      6,
			"emperor":   7,
			"immortal":  8,
			"deity":     9,
		},
		DefaultBarbarianTargetRange: 5,
		TempZoneRadius:              2,
		TempZoneLifetime:            5,
		FleeDanger:                  40,
		FleeHealthPercent:           50,
		HealHealthPercent:           80,
		BastionDanger:               60,
		BastionDefense:              25,
		AttritionPercent:            40,
		CitySiegeDivisor:            8,
		PillageTurns:                2,
		CloseOnDistance:             2,
		ExploreRadius:               2,
		OwnedTileBonus:              200,
		RepositionTurns:             2,
		CampGuardRadius:             3,
		EscortSearchTurn:            1,
	}
}

// barbarianRange returns the wander steering range for a handicap.
func (c Config) barbarianRange(handicap string) int {
	if r, ok := c.BarbarianTargetRange[handicap]; ok {
		return r
	}
	return c.DefaultBarbarianTargetRange
}
