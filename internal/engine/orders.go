package engine

import (
	"fmt"

	"github.com/talgya/hexwar/internal/world"
)

// Healing rates per turn of rest, by where the unit rests.
const (
	healInCity     = 25
	healOwnLand    = 20
	healNeutral    = 10
	healEnemyLand  = 5
	pillageHeal    = 25
	cityLossValue  = 50 // War score for taking a city, plus 10 per pop
	pillageValue   = 5
	campClearValue = 20
)

// apply resolves one mission. Orders that cannot complete this turn make
// what progress they can.
func (s *Simulation) apply(u *world.Unit, m world.Mission, res *TurnResult) {
	switch m.Type {
	case world.MissionMoveTo:
		s.advance(u, m.Target, false, res)
	case world.MissionAttack:
		s.applyAttack(u, m.Target, res)
	case world.MissionRangeAttack:
		s.applyRangeAttack(u, m.Target, res)
	case world.MissionFortify, world.MissionGarrison:
		u.Fortified = true
	case world.MissionHeal:
		s.applyHeal(u)
	case world.MissionPillage:
		s.applyPillage(u, m.Target, res)
	case world.MissionCapture:
		s.applyCapture(u, m.Target, res)
	}
}

// advance moves the unit toward target for one turn and handles what it
// finds where it stops.
func (s *Simulation) advance(u *world.Unit, target world.HexCoord, stopShort bool, res *TurnResult) {
	if u.Coord == target {
		return
	}
	dest, ok := s.Paths.Advance(u, target, stopShort)
	if !ok || dest == u.Coord {
		return
	}
	if err := s.State.MoveUnit(u.ID, dest); err != nil {
		return
	}
	s.arrive(u, res)
}

// arrive handles ruins and barbarian camps under a unit that just moved.
func (s *Simulation) arrive(u *world.Unit, res *TurnResult) {
	t := s.State.Map().Get(u.Coord)
	if t == nil || !u.IsCombat() {
		return
	}
	p := s.State.Player(u.Owner)
	switch t.Improvement {
	case world.ImprovementAncientRuins:
		t.Improvement = world.ImprovementNone
		u.Health = u.MaxHealth
		res.event(u.Owner, "explore", fmt.Sprintf("%s %s explored ruins at %s", p.Name, u.Class, u.Coord))
	case world.ImprovementBarbarianCamp:
		if p.IsBarbarian() {
			return
		}
		t.Improvement = world.ImprovementNone
		if barb := s.State.Barbarian(); barb != nil {
			s.Diplomacy.RecordLoss(u.Owner, barb.ID, campClearValue)
		}
		res.event(u.Owner, "capture", fmt.Sprintf("%s cleared a barbarian camp at %s", p.Name, u.Coord))
	}
}

// hostileAt returns what defends target against u: a foreign city or a
// foreign military unit.
func (s *Simulation) hostileAt(u *world.Unit, target world.HexCoord) (*world.City, *world.Unit) {
	if c := s.State.CityAt(target); c != nil && c.Owner != u.Owner {
		return c, nil
	}
	if d := s.State.MilitaryUnitAt(target); d != nil && d.Owner != u.Owner {
		return nil, d
	}
	return nil, nil
}

func (s *Simulation) applyAttack(u *world.Unit, target world.HexCoord, res *TurnResult) {
	city, defender := s.hostileAt(u, target)
	if city == nil && defender == nil {
		s.applyCapture(u, target, res)
		return
	}
	if !u.Coord.Adjacent(target) {
		s.advance(u, target, true, res)
		if !u.Coord.Adjacent(target) {
			return
		}
	}
	dealt := s.Combat.ExpectedDamage(u, target)
	taken := s.Combat.ExpectedDamageTaken(u, target)
	u.Health -= taken
	u.Fortified = false

	if city != nil {
		city.Health -= dealt
		if city.Health <= minCityCapture && u.IsAlive() && u.Domain == world.DomainLand {
			s.captureCity(u, city, res)
		} else {
			city.Health = max(city.Health, 1)
		}
	} else {
		defender.Health -= dealt
		if !defender.IsAlive() {
			s.kill(defender, u.Owner, res)
			if u.IsAlive() && u.Domain == world.DomainLand && s.State.MilitaryUnitAt(target) == nil {
				s.enter(u, target, res)
			}
		}
	}
	if !u.IsAlive() {
		owner := world.NoPlayer
		if city != nil {
			owner = city.Owner
		} else if defender != nil {
			owner = defender.Owner
		}
		s.kill(u, owner, res)
	}
}

func (s *Simulation) applyRangeAttack(u *world.Unit, target world.HexCoord, res *TurnResult) {
	if !u.CanRangeAttack() {
		return
	}
	if world.Distance(u.Coord, target) > u.Range {
		s.advance(u, target, true, res)
		return
	}
	city, defender := s.hostileAt(u, target)
	dealt := s.Combat.ExpectedDamage(u, target)
	u.Fortified = false
	switch {
	case city != nil:
		// Ranged fire never takes a city.
		city.Health = max(city.Health-dealt, 1)
	case defender != nil:
		defender.Health -= dealt
		if !defender.IsAlive() {
			s.kill(defender, u.Owner, res)
		}
	}
}

func (s *Simulation) applyHeal(u *world.Unit) {
	amount := healNeutral
	t := s.State.Map().Get(u.Coord)
	switch {
	case s.State.CityAt(u.Coord) != nil && s.State.CityAt(u.Coord).Owner == u.Owner:
		amount = healInCity
	case t != nil && t.Owner == u.Owner:
		amount = healOwnLand
	case t != nil && t.Owner != world.NoPlayer:
		amount = healEnemyLand
	}
	u.Health = min(u.MaxHealth, u.Health+amount)
}

func (s *Simulation) applyPillage(u *world.Unit, target world.HexCoord, res *TurnResult) {
	if u.Coord != target {
		s.advance(u, target, false, res)
		if u.Coord != target {
			return
		}
	}
	t := s.State.Map().Get(target)
	if t == nil || t.Pillaged || !t.Improvement.IsPillageable() || t.Owner == u.Owner {
		return
	}
	t.Pillaged = true
	u.Health = min(u.MaxHealth, u.Health+pillageHeal)
	if t.Owner != world.NoPlayer {
		s.Diplomacy.RecordLoss(u.Owner, t.Owner, pillageValue)
	}
	res.event(u.Owner, "pillage", fmt.Sprintf("%s pillaged the %s at %s", s.State.Player(u.Owner).Name, t.Improvement, target))
}

// applyCapture walks into an undefended target, seizing civilians or an
// emptied city on arrival.
func (s *Simulation) applyCapture(u *world.Unit, target world.HexCoord, res *TurnResult) {
	city, _ := s.hostileAt(u, target)
	if d := s.State.MilitaryUnitAt(target); d != nil && d.Owner != u.Owner {
		return
	}
	if !u.Coord.Adjacent(target) && u.Coord != target {
		s.advance(u, target, true, res)
		if !u.Coord.Adjacent(target) {
			return
		}
	}
	if city != nil {
		if city.Health <= minCityCapture+1 && u.IsCombat() && u.Domain == world.DomainLand {
			s.captureCity(u, city, res)
		}
		return
	}
	if u.Coord != target {
		s.enter(u, target, res)
	}
}

// enter moves u onto target and seizes any foreign civilians there.
func (s *Simulation) enter(u *world.Unit, target world.HexCoord, res *TurnResult) {
	var captives []*world.Unit
	for _, other := range s.State.UnitsAt(target) {
		if other.Owner != u.Owner && !other.IsCombat() {
			captives = append(captives, other)
		}
	}
	if len(captives) > 0 && !u.IsCombat() {
		return
	}
	if err := s.State.MoveUnit(u.ID, target); err != nil {
		return
	}
	for _, c := range captives {
		s.captureCivilian(u, c, res)
	}
	s.arrive(u, res)
}

// captureCivilian converts a civilian to the captor's side. Great people
// are lost and settlers are reduced to workers.
func (s *Simulation) captureCivilian(captor, civ *world.Unit, res *TurnResult) {
	victim := s.State.Player(civ.Owner)
	if civ.Class == world.ClassGreatPerson {
		s.kill(civ, captor.Owner, res)
		return
	}
	if civ.Class == world.ClassSettler {
		civ.Class = world.ClassWorker
	}
	s.Diplomacy.RecordLoss(captor.Owner, civ.Owner, max(civ.Strength, pillageValue))
	civ.Owner = captor.Owner
	civ.ProcessedTurn = s.State.Turn()
	res.event(captor.Owner, "capture", fmt.Sprintf("%s captured a %s %s at %s",
		s.State.Player(captor.Owner).Name, victim.Name, civ.Class, civ.Coord))
}

// captureCity hands the city to the captor's side and moves the captor in.
func (s *Simulation) captureCity(u *world.Unit, c *world.City, res *TurnResult) {
	prev := s.State.Player(c.Owner)
	if err := s.State.TransferCity(c.ID, u.Owner); err != nil {
		return
	}
	s.Diplomacy.RecordLoss(u.Owner, prev.ID, cityLossValue+10*c.Population)
	c.Population = max(1, c.Population-1)
	c.Health = c.MaxHealth / 4
	s.Stats.CitiesTaken++
	res.event(u.Owner, "city", fmt.Sprintf("%s took %s from %s", s.State.Player(u.Owner).Name, c.Name, prev.Name))
	s.enter(u, c.Coord, res)
}

// kill removes a unit, crediting killer's war score.
func (s *Simulation) kill(victim *world.Unit, killer world.PlayerID, res *TurnResult) {
	if err := s.State.RemoveUnit(victim.ID); err != nil {
		return
	}
	victim.Health = 0
	s.Stats.Kills++
	if killer != world.NoPlayer {
		s.Diplomacy.RecordLoss(killer, victim.Owner, max(victim.Strength, pillageValue))
	}
	name := "nature"
	if p := s.State.Player(killer); p != nil {
		name = p.Name
	}
	res.event(killer, "combat", fmt.Sprintf("%s destroyed a %s %s at %s",
		name, s.State.Player(victim.Owner).Name, victim.Class, victim.Coord))
}
