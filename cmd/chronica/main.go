// Command chronica runs the Chronica layered population simulation.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/talgya/chronica/internal/api"
	"github.com/talgya/chronica/internal/engine"
	"github.com/talgya/chronica/internal/persistence"
	"github.com/talgya/chronica/internal/seed"
	"github.com/talgya/chronica/internal/tuning"
)

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		slog.Warn("ignoring invalid env value", "key", key, "value", v)
	}
	return def
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Chronica: Layered Population Simulation")

	dialect := persistence.Dialect(envStr("CHRONICA_DB_DIALECT", string(persistence.DialectSQLite)))
	dsn := envStr("CHRONICA_DB_DSN", "data/chronica.db")
	apiPort := envInt("CHRONICA_PORT", 8080)
	adminKey := os.Getenv("CHRONICA_ADMIN_KEY")
	tuningPath := os.Getenv("CHRONICA_TUNING")

	// ── Tuning ───────────────────────────────────────────────────────
	tun := tuning.Default()
	if tuningPath != "" {
		var err error
		tun, err = tuning.Load(tuningPath)
		if err != nil {
			slog.Error("failed to load tuning file", "path", tuningPath, "error", err)
			os.Exit(1)
		}
		slog.Info("tuning loaded", "path", tuningPath)
	}

	// ── Database ──────────────────────────────────────────────────────
	if dialect == persistence.DialectSQLite {
		os.MkdirAll(filepath.Dir(dsn), 0755)
	}
	store, err := persistence.Open(dialect, dsn)
	if err != nil {
		slog.Error("failed to open database", "dialect", dialect, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("database opened", "dialect", dialect)

	// ── Load or Seed World ───────────────────────────────────────────
	sim := engine.New(tun, logger)

	hasWorld, err := store.HasWorld()
	if err != nil {
		slog.Error("failed to check saved state", "error", err)
		os.Exit(1)
	}

	if hasWorld {
		slog.Info("found saved world state, loading...")
		if err := store.LoadWorld(sim); err != nil {
			slog.Error("failed to load world", "error", err)
			os.Exit(1)
		}
		t := sim.Time()
		slog.Info("world restored",
			"hour", t.Hour,
			"year", t.Year,
			"season", t.Season,
			"cities", len(sim.Cities()),
			"persons", len(sim.Persons()),
		)
	} else {
		cfg := seed.DefaultConfig()
		cfg.Cities = envInt("CHRONICA_SEED_CITIES", cfg.Cities)
		cfg.PeoplePerCity = envInt("CHRONICA_SEED_PEOPLE", cfg.PeoplePerCity)
		cfg.Seed = int64(envInt("CHRONICA_SEED", int(cfg.Seed)))

		slog.Info("no saved state found, seeding new world",
			"cities", cfg.Cities,
			"people_per_city", cfg.PeoplePerCity,
			"seed", cfg.Seed,
		)
		if err := seed.Populate(sim, cfg); err != nil {
			slog.Error("seeding failed", "error", err)
			os.Exit(1)
		}
		if err := store.SaveWorld(sim); err != nil {
			slog.Error("initial save failed", "error", err)
		}
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	if adminKey == "" {
		slog.Warn("CHRONICA_ADMIN_KEY not set, admin POST endpoints will be disabled")
	}

	clock := engine.RealClock{}
	apiServer := &api.Server{
		Sim:      sim,
		Store:    store,
		Clock:    clock,
		Port:     apiPort,
		AdminKey: adminKey,
	}
	apiServer.Start()

	// ── Autotick + Save Loops ─────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	pollTicker := time.NewTicker(time.Second)
	defer pollTicker.Stop()
	saveTicker := time.NewTicker(5 * time.Minute)
	defer saveTicker.Stop()

	fmt.Printf("Chronica is alive: %d souls across %d cities.\n",
		len(sim.Persons()), len(sim.Cities()))
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", apiPort)
	fmt.Println("Running... (Ctrl+C to stop)")

	for running := true; running; {
		select {
		case <-pollTicker.C:
			if _, err := sim.CheckAutotick(clock); err != nil {
				// Concurrent tick won the race; next poll catches up.
				slog.Debug("autotick check lost race", "error", err)
			}
		case <-saveTicker.C:
			if err := store.SaveWorld(sim); err != nil {
				slog.Error("periodic save failed", "error", err)
			}
		case sig := <-sigCh:
			slog.Info("received signal, shutting down", "signal", sig)
			running = false
		}
	}

	slog.Info("final save...")
	if err := store.SaveWorld(sim); err != nil {
		slog.Error("final save failed", "error", err)
	}
	fmt.Println("Simulation stopped. World state saved.")
}
