// Package persistence stores full world state in SQL. Two dialects share
// one schema: embedded SQLite by default, PostgreSQL when configured.
// Saves replace the world tables inside a single transaction; the event
// log is append-only.
package persistence

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect selects the SQL backend.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Store wraps the database connection.
type Store struct {
	conn    *sqlx.DB
	dialect Dialect
}

// Open connects and migrates. For sqlite the DSN is a file path; for
// postgres a connection string.
func Open(dialect Dialect, dsn string) (*Store, error) {
	var conn *sqlx.DB
	var err error
	switch dialect {
	case DialectSQLite:
		conn, err = sqlx.Open("sqlite", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	case DialectPostgres:
		conn, err = sqlx.Open("pgx", dsn)
	default:
		return nil, fmt.Errorf("unknown dialect %q", dialect)
	}
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{conn: conn, dialect: dialect}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS persons (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		city_id BIGINT NOT NULL,
		role TEXT NOT NULL,
		home_id BIGINT NOT NULL,
		workplace_id BIGINT NOT NULL,
		location_id BIGINT NOT NULL,
		alive INTEGER NOT NULL,
		status TEXT NOT NULL,
		status_until BIGINT NOT NULL,
		travel_target BIGINT NOT NULL,
		zero_food_hours BIGINT NOT NULL,
		zero_rest_hours BIGINT NOT NULL,
		negative_income_hours BIGINT NOT NULL,
		needs_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS buildings (
		id BIGINT PRIMARY KEY,
		city_id BIGINT NOT NULL,
		type TEXT NOT NULL,
		name TEXT NOT NULL,
		x DOUBLE PRECISION NOT NULL,
		y DOUBLE PRECISION NOT NULL,
		capacity INTEGER NOT NULL,
		occupants INTEGER NOT NULL,
		maintenance DOUBLE PRECISION NOT NULL,
		cleanliness DOUBLE PRECISION NOT NULL,
		efficiency INTEGER NOT NULL,
		prestige INTEGER NOT NULL,
		condemned INTEGER NOT NULL,
		zero_maintenance_days BIGINT NOT NULL,
		quality DOUBLE PRECISION NOT NULL,
		home_json TEXT,
		work_json TEXT
	);

	CREATE TABLE IF NOT EXISTS cities (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		public_works DOUBLE PRECISION NOT NULL,
		tax_base DOUBLE PRECISION NOT NULL,
		tax_reserve DOUBLE PRECISION NOT NULL,
		import_rate DOUBLE PRECISION NOT NULL,
		export_rate DOUBLE PRECISION NOT NULL,
		stability DOUBLE PRECISION NOT NULL,
		health DOUBLE PRECISION NOT NULL,
		safety DOUBLE PRECISION NOT NULL,
		culture DOUBLE PRECISION NOT NULL,
		science DOUBLE PRECISION NOT NULL,
		prestige DOUBLE PRECISION NOT NULL,
		population INTEGER NOT NULL,
		unemployment DOUBLE PRECISION NOT NULL,
		average_happiness DOUBLE PRECISION NOT NULL,
		in_decline INTEGER NOT NULL,
		in_unrest INTEGER NOT NULL,
		negative_reserve_weeks BIGINT NOT NULL,
		low_stability_weeks BIGINT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sim_clock (
		id INTEGER PRIMARY KEY,
		hour BIGINT NOT NULL,
		calendar_hour BIGINT NOT NULL,
		freeze_remaining BIGINT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS autoticker (
		id INTEGER PRIMARY KEY,
		enabled INTEGER NOT NULL,
		interval_ms BIGINT NOT NULL,
		last_check_ms BIGINT NOT NULL,
		next_due_ms BIGINT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		hour BIGINT NOT NULL,
		kind TEXT NOT NULL,
		entity_kind TEXT NOT NULL,
		entity_id BIGINT NOT NULL,
		location_id BIGINT NOT NULL,
		amount DOUBLE PRECISION NOT NULL,
		detail TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_hour ON events(hour);
	CREATE INDEX IF NOT EXISTS idx_events_entity ON events(entity_kind, entity_id);
	CREATE INDEX IF NOT EXISTS idx_persons_city ON persons(city_id);
	CREATE INDEX IF NOT EXISTS idx_buildings_city ON buildings(city_id);
	`
	_, err := s.conn.Exec(schema)
	return err
}
