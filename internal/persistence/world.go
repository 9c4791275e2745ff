package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/talgya/chronica/internal/city"
	"github.com/talgya/chronica/internal/engine"
	"github.com/talgya/chronica/internal/event"
	"github.com/talgya/chronica/internal/person"
)

// SaveWorld replaces the stored world with the simulation's current state
// and flushes buffered events, all in one transaction. On failure nothing
// is written, the drained events go back to the buffer, and the error
// wraps ErrStorageUnavailable.
func (s *Store) SaveWorld(sim *engine.Simulation) error {
	persons := sim.Persons()
	buildings := sim.Buildings()
	cities := sim.Cities()
	clock := sim.ClockSnapshot()
	auto := sim.AutotickerStatus()
	events := sim.DrainEvents()

	slog.Info("saving world state",
		"persons", len(persons), "buildings", len(buildings),
		"cities", len(cities), "events", len(events), "hour", clock.Hour)

	if err := s.saveTx(persons, buildings, cities, clock, auto, events); err != nil {
		sim.RequeueEvents(events)
		return fmt.Errorf("%w: %v", engine.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *Store) saveTx(persons []person.Person, buildings []city.Building, cities []city.City, clock engine.Clock, auto engine.Autoticker, events []event.Event) error {
	tx, err := s.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"persons", "buildings", "cities", "sim_clock", "autoticker"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}

	insPerson := tx.Rebind(`INSERT INTO persons
		(id, name, city_id, role, home_id, workplace_id, location_id, alive,
		 status, status_until, travel_target, zero_food_hours, zero_rest_hours,
		 negative_income_hours, needs_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	for _, p := range persons {
		needsJSON, err := json.Marshal(p.Needs)
		if err != nil {
			return fmt.Errorf("marshal needs for person %d: %w", p.ID, err)
		}
		_, err = tx.Exec(insPerson,
			p.ID, p.Name, p.CityID, p.Role, p.HomeID, p.WorkplaceID, p.LocationID,
			boolInt(p.Alive), p.Status, p.StatusUntil, p.TravelTarget,
			p.ZeroFoodHours, p.ZeroRestHours, p.NegativeIncomeHours, string(needsJSON))
		if err != nil {
			return fmt.Errorf("insert person %d: %w", p.ID, err)
		}
	}

	insBuilding := tx.Rebind(`INSERT INTO buildings
		(id, city_id, type, name, x, y, capacity, occupants, maintenance,
		 cleanliness, efficiency, prestige, condemned, zero_maintenance_days,
		 quality, home_json, work_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	for _, b := range buildings {
		var homeJSON, workJSON sql.NullString
		if b.Home != nil {
			if homeJSON, err = marshalNullable(b.Home); err != nil {
				return fmt.Errorf("marshal home for building %d: %w", b.ID, err)
			}
		}
		if b.Work != nil {
			if workJSON, err = marshalNullable(b.Work); err != nil {
				return fmt.Errorf("marshal work for building %d: %w", b.ID, err)
			}
		}
		_, err = tx.Exec(insBuilding,
			b.ID, b.CityID, b.Type, b.Name, b.X, b.Y, b.Capacity, b.Occupants,
			b.Maintenance, b.Cleanliness, b.Efficiency, b.Prestige,
			boolInt(b.Condemned), b.ZeroMaintenanceDays, b.Quality, homeJSON, workJSON)
		if err != nil {
			return fmt.Errorf("insert building %d: %w", b.ID, err)
		}
	}

	insCity := tx.Rebind(`INSERT INTO cities
		(id, name, public_works, tax_base, tax_reserve, import_rate, export_rate,
		 stability, health, safety, culture, science, prestige, population,
		 unemployment, average_happiness, in_decline, in_unrest,
		 negative_reserve_weeks, low_stability_weeks)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	for _, c := range cities {
		_, err = tx.Exec(insCity,
			c.ID, c.Name, c.PublicWorks, c.TaxBase, c.TaxReserve, c.ImportRate,
			c.ExportRate, c.Stability, c.Health, c.Safety, c.Culture, c.Science,
			c.Prestige, c.Population, c.Unemployment, c.AverageHappiness,
			boolInt(c.InDecline), boolInt(c.InUnrest),
			c.NegativeReserveWeeks, c.LowStabilityWeeks)
		if err != nil {
			return fmt.Errorf("insert city %d: %w", c.ID, err)
		}
	}

	_, err = tx.Exec(tx.Rebind(
		"INSERT INTO sim_clock (id, hour, calendar_hour, freeze_remaining) VALUES (1, ?, ?, ?)"),
		clock.Hour, clock.CalendarHour, clock.FreezeRemaining)
	if err != nil {
		return fmt.Errorf("insert clock: %w", err)
	}

	_, err = tx.Exec(tx.Rebind(
		"INSERT INTO autoticker (id, enabled, interval_ms, last_check_ms, next_due_ms) VALUES (1, ?, ?, ?, ?)"),
		boolInt(auto.Enabled), auto.IntervalMS, auto.LastCheckMS, auto.NextDueMS)
	if err != nil {
		return fmt.Errorf("insert autoticker: %w", err)
	}

	insEvent := tx.Rebind(`INSERT INTO events
		(id, hour, kind, entity_kind, entity_id, location_id, amount, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	for _, e := range events {
		if _, err := tx.Exec(insEvent,
			e.ID, e.Hour, e.Kind, e.EntityKind, e.EntityID, e.LocationID, e.Amount, e.Detail); err != nil {
			return fmt.Errorf("insert event %s: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

// HasWorld reports whether a saved world exists.
func (s *Store) HasWorld() (bool, error) {
	var n int
	if err := s.conn.Get(&n, "SELECT COUNT(*) FROM sim_clock"); err != nil {
		return false, fmt.Errorf("check saved world: %w", err)
	}
	return n > 0, nil
}

// LoadWorld rebuilds a simulation from storage. Building occupancy is
// recounted from person locations on the way in.
func (s *Store) LoadWorld(sim *engine.Simulation) error {
	var cities []city.City
	if err := s.conn.Select(&cities, "SELECT * FROM cities ORDER BY id"); err != nil {
		return fmt.Errorf("load cities: %w", err)
	}
	for i := range cities {
		c := cities[i]
		if err := sim.AddCity(&c); err != nil {
			return fmt.Errorf("restore city %d: %w", c.ID, err)
		}
	}

	type buildingRow struct {
		city.Building
		HomeJSON sql.NullString `db:"home_json"`
		WorkJSON sql.NullString `db:"work_json"`
	}
	var brows []buildingRow
	if err := s.conn.Select(&brows, "SELECT * FROM buildings ORDER BY id"); err != nil {
		return fmt.Errorf("load buildings: %w", err)
	}
	for i := range brows {
		b := brows[i].Building
		b.Occupants = 0
		if brows[i].HomeJSON.Valid {
			b.Home = &city.HomeData{}
			if err := json.Unmarshal([]byte(brows[i].HomeJSON.String), b.Home); err != nil {
				return fmt.Errorf("decode home for building %d: %w", b.ID, err)
			}
		}
		if brows[i].WorkJSON.Valid {
			b.Work = &city.WorkData{}
			if err := json.Unmarshal([]byte(brows[i].WorkJSON.String), b.Work); err != nil {
				return fmt.Errorf("decode work for building %d: %w", b.ID, err)
			}
		}
		if err := sim.AddBuilding(&b); err != nil {
			return fmt.Errorf("restore building %d: %w", b.ID, err)
		}
	}

	type personRow struct {
		person.Person
		NeedsJSON string `db:"needs_json"`
	}
	var prows []personRow
	if err := s.conn.Select(&prows, "SELECT * FROM persons ORDER BY id"); err != nil {
		return fmt.Errorf("load persons: %w", err)
	}
	for i := range prows {
		p := prows[i].Person
		if err := json.Unmarshal([]byte(prows[i].NeedsJSON), &p.Needs); err != nil {
			return fmt.Errorf("decode needs for person %d: %w", p.ID, err)
		}
		if err := sim.AddPerson(&p); err != nil {
			return fmt.Errorf("restore person %d: %w", p.ID, err)
		}
	}

	var clock engine.Clock
	err := s.conn.Get(&clock, "SELECT hour, calendar_hour, freeze_remaining FROM sim_clock WHERE id = 1")
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("load clock: %w", err)
	}
	sim.RestoreClock(clock)

	var auto struct {
		Enabled     int   `db:"enabled"`
		IntervalMS  int64 `db:"interval_ms"`
		LastCheckMS int64 `db:"last_check_ms"`
		NextDueMS   int64 `db:"next_due_ms"`
	}
	err = s.conn.Get(&auto, "SELECT enabled, interval_ms, last_check_ms, next_due_ms FROM autoticker WHERE id = 1")
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("load autoticker: %w", err)
	}
	if err == nil {
		sim.RestoreAutoticker(engine.Autoticker{
			Enabled:     auto.Enabled != 0,
			IntervalMS:  auto.IntervalMS,
			LastCheckMS: auto.LastCheckMS,
			NextDueMS:   auto.NextDueMS,
		})
	}

	return nil
}

// EventsSince returns stored events at or after the given hour, oldest
// first, capped at limit.
func (s *Store) EventsSince(hour uint64, limit int) ([]event.Event, error) {
	var out []event.Event
	q := s.conn.Rebind("SELECT * FROM events WHERE hour >= ? ORDER BY hour, id LIMIT ?")
	if err := s.conn.Select(&out, q, hour, limit); err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	return out, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func marshalNullable(v any) (sql.NullString, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}
