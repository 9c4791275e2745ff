package engine

import (
	"fmt"

	"github.com/talgya/chronica/internal/city"
	"github.com/talgya/chronica/internal/event"
	"github.com/talgya/chronica/internal/person"
	"github.com/talgya/chronica/internal/tuning"
)

// Tick advances the world by one sim-hour. A paused world refuses to
// advance and returns ErrPaused.
func (s *Simulation) Tick() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paused {
		return ErrPaused
	}
	s.advance(1)
	return nil
}

// Skip advances the world by n sim-hours under one lock acquisition.
// Skip(n) is behaviorally identical to n calls to Tick, and refuses to
// run while paused.
func (s *Simulation) Skip(n uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paused {
		return ErrPaused
	}
	s.advance(n)
	return nil
}

// Toggle flips the paused flag and reports the new value. A paused world
// refuses both autotick catch-up and manual ticking.
func (s *Simulation) Toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = !s.paused
	return s.paused
}

// advance is the single mutation entry point. Callers hold the write lock.
func (s *Simulation) advance(hours uint64) {
	for i := uint64(0); i < hours; i++ {
		s.step()
	}
}

// step runs one sim-hour: the clock, then every person in insertion
// order, then the daily and weekly cascades when their boundary passes.
func (s *Simulation) step() {
	s.clock.Advance(1)
	now := s.clock.Hour
	season := s.seasonFactors()

	for _, p := range s.persons {
		s.stepPerson(p, now, season)
	}

	if now%HoursPerDay == 0 {
		for _, c := range s.cities {
			s.propagateBuildings(c, now)
		}
	}
	if now%HoursPerWeek == 0 {
		for _, c := range s.cities {
			s.propagateCity(c, now)
		}
		s.logWeekly(now)
	}
}

func (s *Simulation) seasonFactors() tuning.SeasonFactors {
	switch s.clock.Time().Season {
	case SeasonSummer:
		return s.tun.Seasons.Summer
	case SeasonAutumn:
		return s.tun.Seasons.Autumn
	case SeasonWinter:
		return s.tun.Seasons.Winter
	default:
		return s.tun.Seasons.Spring
	}
}

func (s *Simulation) stepPerson(p *person.Person, now uint64, season tuning.SeasonFactors) {
	if !p.Alive {
		return
	}

	// Arrivals and expired statuses resolve before depletion so the hour
	// is spent in the new state.
	if p.Status == person.StatusInTransit && now >= p.StatusUntil {
		s.arrive(p, now)
	} else if p.Status != person.StatusIdle && now >= p.StatusUntil {
		p.Status = person.StatusIdle
	}

	loc := s.buildingByID[p.LocationID]
	var cap city.Capability
	if loc != nil {
		cap = loc.Capability()
	}
	s.calc.AdvanceNeeds(p, cap, season, 1)

	evs := s.exec.CheckThresholds(p, now)
	s.record(evs...)
	if !p.Alive {
		if loc != nil && loc.Occupants > 0 {
			loc.Occupants--
		}
		return
	}

	if p.Status != person.StatusIdle {
		return
	}

	if s.payRentIfDue(p, now) {
		return
	}

	action, ok := s.res.SelectAction(p, loc, s.cityBuildings[p.CityID])
	if !ok {
		return
	}
	target := s.buildingByID[action.BuildingID]
	s.record(s.exec.Apply(p, action, target, now)...)
}

// arrive completes a transit: occupancy moves to the destination unless it
// filled up while the person was traveling.
func (s *Simulation) arrive(p *person.Person, now uint64) {
	dest := s.buildingByID[p.TravelTarget]
	p.Status = person.StatusIdle
	p.TravelTarget = 0
	if dest == nil || !dest.HasRoom() {
		return
	}
	if from := s.buildingByID[p.LocationID]; from != nil && from.Occupants > 0 {
		from.Occupants--
	}
	dest.Occupants++
	p.LocationID = dest.ID
	s.record(event.New(now, event.KindMovement, event.EntityPerson, p.ID, "arrived").At(dest.ID))
}

// payRentIfDue settles an overdue rent balance before anything else this
// hour. Settling counts as the hour's action.
func (s *Simulation) payRentIfDue(p *person.Person, now uint64) bool {
	if p.HomeID == 0 {
		return false
	}
	home := s.buildingByID[p.HomeID]
	if home == nil || home.Home == nil || home.Home.RentBalance >= 0 {
		return false
	}
	if p.Needs.Income < s.tun.Actions.EatMealCost {
		return false
	}
	evs := s.exec.Apply(p, person.Action{Kind: person.ActionPayRent, BuildingID: home.ID}, home, now)
	s.record(evs...)
	return len(evs) > 0
}

func (s *Simulation) logWeekly(now uint64) {
	t := s.clock.Time()
	alive := 0
	for _, p := range s.persons {
		if p.Alive {
			alive++
		}
	}
	s.log.Info("weekly summary",
		"hour", now,
		"time", fmt.Sprintf("%s day %d, year %d", t.Season, t.DayOfYear, t.Year),
		"alive", alive,
		"deaths", s.stats.TotalDeaths,
		"evictions", s.stats.TotalEvictions,
		"events", s.stats.TotalEvents,
	)
}
