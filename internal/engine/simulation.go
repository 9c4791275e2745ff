// Package engine owns the simulation world: the entity arena, the tick
// scheduler that drives persons hourly and cascades buildings daily and
// cities weekly, the sim calendar, and the real-time autoticker.
package engine

import (
	"log/slog"
	"sync"

	"github.com/talgya/chronica/internal/city"
	"github.com/talgya/chronica/internal/event"
	"github.com/talgya/chronica/internal/person"
	"github.com/talgya/chronica/internal/tuning"
)

// eventRingSize bounds the in-memory event log. Older events survive only
// in the persistent store.
const eventRingSize = 10000

// Stats tracks aggregate world statistics.
type Stats struct {
	TotalDeaths        uint64 `json:"total_deaths"`
	TotalEvictions     uint64 `json:"total_evictions"`
	TotalCondemnations uint64 `json:"total_condemnations"`
	TotalEvents        uint64 `json:"total_events"`
}

// Simulation holds one complete world and wires its systems together. A
// single mutex serializes every mutation; queries share-lock and observe
// only pre- or post-tick state.
type Simulation struct {
	mu sync.RWMutex

	tun   *tuning.Tuning
	log   *slog.Logger
	clock Clock

	paused bool

	// Entity arena. Slices keep insertion order for deterministic passes;
	// maps are the id lookups.
	persons      []*person.Person
	personByID   map[uint64]*person.Person
	buildings    []*city.Building
	buildingByID map[uint64]*city.Building
	cities       []*city.City
	cityByID     map[uint64]*city.City

	// Buildings grouped by city, in insertion order.
	cityBuildings map[uint64][]*city.Building

	calc *person.Calculator
	res  *person.Resolver
	exec *person.Executor

	events []event.Event
	stats  Stats

	auto Autoticker
}

// New creates an empty world over the given tuning table.
func New(t *tuning.Tuning, log *slog.Logger) *Simulation {
	if log == nil {
		log = slog.Default()
	}
	return &Simulation{
		tun:           t,
		log:           log,
		personByID:    make(map[uint64]*person.Person),
		buildingByID:  make(map[uint64]*city.Building),
		cityByID:      make(map[uint64]*city.City),
		cityBuildings: make(map[uint64][]*city.Building),
		calc:          person.NewCalculator(t),
		res:           person.NewResolver(t),
		exec:          person.NewExecutor(t),
		auto:          NewAutoticker(),
	}
}

// Tuning exposes the active tuning table.
func (s *Simulation) Tuning() *tuning.Tuning { return s.tun }

// SetPicker swaps the location-selection strategy.
func (s *Simulation) SetPicker(p person.LocationPicker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.res.Picker = p
}

// AddCity registers a city. Ids must be unique and non-zero.
func (s *Simulation) AddCity(c *city.City) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		return &ValidationError{Field: "city.id", Reason: "must be non-zero"}
	}
	if _, dup := s.cityByID[c.ID]; dup {
		return &ValidationError{Field: "city.id", Reason: "already registered"}
	}
	s.cities = append(s.cities, c)
	s.cityByID[c.ID] = c
	return nil
}

// AddBuilding registers a building under an existing city.
func (s *Simulation) AddBuilding(b *city.Building) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == 0 {
		return &ValidationError{Field: "building.id", Reason: "must be non-zero"}
	}
	if _, dup := s.buildingByID[b.ID]; dup {
		return &ValidationError{Field: "building.id", Reason: "already registered"}
	}
	if _, ok := s.cityByID[b.CityID]; !ok {
		return &ValidationError{Field: "building.city_id", Reason: "unknown city"}
	}
	s.buildings = append(s.buildings, b)
	s.buildingByID[b.ID] = b
	s.cityBuildings[b.CityID] = append(s.cityBuildings[b.CityID], b)
	return nil
}

// AddPerson registers a person. Home, workplace, and location must refer
// to known buildings when set. The person occupies its starting location.
func (s *Simulation) AddPerson(p *person.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		return &ValidationError{Field: "person.id", Reason: "must be non-zero"}
	}
	if _, dup := s.personByID[p.ID]; dup {
		return &ValidationError{Field: "person.id", Reason: "already registered"}
	}
	if _, ok := s.cityByID[p.CityID]; !ok {
		return &ValidationError{Field: "person.city_id", Reason: "unknown city"}
	}
	for _, ref := range []struct {
		field string
		id    uint64
	}{
		{"person.home_id", p.HomeID},
		{"person.workplace_id", p.WorkplaceID},
		{"person.location_id", p.LocationID},
	} {
		if ref.id == 0 {
			continue
		}
		if _, ok := s.buildingByID[ref.id]; !ok {
			return &ValidationError{Field: ref.field, Reason: "unknown building"}
		}
	}
	s.persons = append(s.persons, p)
	s.personByID[p.ID] = p
	if b, ok := s.buildingByID[p.LocationID]; ok && p.Alive {
		b.Occupants++
	}
	return nil
}

// RestoreClock replaces the clock, used when loading a saved world.
func (s *Simulation) RestoreClock(c Clock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = c
}

// RestoreAutoticker replaces the autoticker state from a saved world.
func (s *Simulation) RestoreAutoticker(a Autoticker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auto = a
}

// record appends events to the bounded in-memory log and updates totals.
func (s *Simulation) record(evs ...event.Event) {
	for _, ev := range evs {
		s.stats.TotalEvents++
		switch ev.Kind {
		case event.KindDeath:
			s.stats.TotalDeaths++
		case event.KindEviction:
			s.stats.TotalEvictions++
		case event.KindCondemnation:
			s.stats.TotalCondemnations++
		}
		s.events = append(s.events, ev)
	}
	if over := len(s.events) - eventRingSize; over > 0 {
		s.events = append(s.events[:0], s.events[over:]...)
	}
}

// DrainEvents returns and clears the buffered events so the persistence
// layer can flush them to the append-only log.
func (s *Simulation) DrainEvents() []event.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.events
	s.events = nil
	return out
}

// RequeueEvents puts drained events back at the front of the buffer when a
// save fails before committing. Stats totals already counted them.
func (s *Simulation) RequeueEvents(evs []event.Event) {
	if len(evs) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(evs, s.events...)
	if over := len(s.events) - eventRingSize; over > 0 {
		s.events = append(s.events[:0], s.events[over:]...)
	}
}
