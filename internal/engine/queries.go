package engine

import (
	"fmt"

	"github.com/talgya/chronica/internal/city"
	"github.com/talgya/chronica/internal/event"
	"github.com/talgya/chronica/internal/person"
)

// Queries share-lock the world and return copies, so callers never hold a
// reference into live state.

// CurrentHour returns the raw monotonic sim-hour.
func (s *Simulation) CurrentHour() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clock.Hour
}

// Time returns the derived calendar snapshot.
func (s *Simulation) Time() SimTime {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clock.Time()
}

// Paused reports whether the world ignores autotick catch-up.
func (s *Simulation) Paused() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.paused
}

// StatsSnapshot returns the running totals.
func (s *Simulation) StatsSnapshot() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// CityStatus returns a copy of one city.
func (s *Simulation) CityStatus(id uint64) (city.City, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cityByID[id]
	if !ok {
		return city.City{}, fmt.Errorf("city %d: %w", id, ErrNotFound)
	}
	return *c, nil
}

// PersonNeeds returns a copy of one person.
func (s *Simulation) PersonNeeds(id uint64) (person.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.personByID[id]
	if !ok {
		return person.Person{}, fmt.Errorf("person %d: %w", id, ErrNotFound)
	}
	return *p, nil
}

// BuildingStatus returns a copy of one building.
func (s *Simulation) BuildingStatus(id uint64) (city.Building, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.buildingByID[id]
	if !ok {
		return city.Building{}, fmt.Errorf("building %d: %w", id, ErrNotFound)
	}
	out := *b
	if b.Home != nil {
		h := *b.Home
		out.Home = &h
	}
	if b.Work != nil {
		w := *b.Work
		out.Work = &w
	}
	return out, nil
}

// Cities returns copies of every city in insertion order.
func (s *Simulation) Cities() []city.City {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]city.City, len(s.cities))
	for i, c := range s.cities {
		out[i] = *c
	}
	return out
}

// Persons returns copies of every person in insertion order.
func (s *Simulation) Persons() []person.Person {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]person.Person, len(s.persons))
	for i, p := range s.persons {
		out[i] = *p
	}
	return out
}

// Buildings returns deep copies of every building in insertion order.
func (s *Simulation) Buildings() []city.Building {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]city.Building, len(s.buildings))
	for i, b := range s.buildings {
		out[i] = *b
		if b.Home != nil {
			h := *b.Home
			out[i].Home = &h
		}
		if b.Work != nil {
			w := *b.Work
			out[i].Work = &w
		}
	}
	return out
}

// RecentEvents returns up to limit of the newest buffered events, newest
// last. A non-positive limit returns everything buffered.
func (s *Simulation) RecentEvents(limit int) []event.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.events)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]event.Event, n)
	copy(out, s.events[len(s.events)-n:])
	return out
}

// ClockSnapshot returns the clock state for persistence.
func (s *Simulation) ClockSnapshot() Clock {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clock
}
