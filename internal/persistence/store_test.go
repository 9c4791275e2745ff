package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/chronica/internal/engine"
	"github.com/talgya/chronica/internal/seed"
	"github.com/talgya/chronica/internal/tuning"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(DialectSQLite, filepath.Join(t.TempDir(), "world.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seededSim(t *testing.T) *engine.Simulation {
	t.Helper()
	sim := engine.New(tuning.Default(), nil)
	require.NoError(t, seed.Populate(sim, seed.Config{Cities: 1, PeoplePerCity: 10, Seed: 99}))
	return sim
}

func TestOpen_UnknownDialect(t *testing.T) {
	_, err := Open(Dialect("oracle"), "dsn")
	assert.Error(t, err)
}

func TestHasWorld_FalseOnFreshDatabase(t *testing.T) {
	s := openTestStore(t)
	has, err := s.HasWorld()
	require.NoError(t, err)
	assert.False(t, has)
}

func TestSaveLoad_RoundTripsWorldState(t *testing.T) {
	s := openTestStore(t)
	sim := seededSim(t)
	sim.Skip(30)

	wantPersons := sim.Persons()
	wantBuildings := sim.Buildings()
	wantCities := sim.Cities()
	wantClock := sim.ClockSnapshot()

	require.NoError(t, s.SaveWorld(sim))

	has, err := s.HasWorld()
	require.NoError(t, err)
	require.True(t, has)

	restored := engine.New(tuning.Default(), nil)
	require.NoError(t, s.LoadWorld(restored))

	assert.Equal(t, wantPersons, restored.Persons())
	assert.Equal(t, wantBuildings, restored.Buildings())
	assert.Equal(t, wantCities, restored.Cities())
	assert.Equal(t, wantClock, restored.ClockSnapshot())
}

func TestSaveLoad_RecountsOccupancy(t *testing.T) {
	s := openTestStore(t)
	sim := seededSim(t)
	sim.Skip(12)

	require.NoError(t, s.SaveWorld(sim))

	restored := engine.New(tuning.Default(), nil)
	require.NoError(t, s.LoadWorld(restored))

	// Occupancy is derived from person locations, not trusted from the
	// stored rows.
	wantOcc := map[uint64]int{}
	for _, p := range restored.Persons() {
		if p.Alive && p.LocationID != 0 {
			wantOcc[p.LocationID]++
		}
	}
	for _, b := range restored.Buildings() {
		assert.Equal(t, wantOcc[b.ID], b.Occupants, "building %d", b.ID)
	}
}

func TestSaveLoad_AutotickerState(t *testing.T) {
	s := openTestStore(t)
	sim := seededSim(t)
	clk := engine.RealClock{}
	require.NoError(t, sim.SetTickRate(engine.RateSlow, clk))
	sim.StartAutoticker(clk)
	want := sim.AutotickerStatus()

	require.NoError(t, s.SaveWorld(sim))

	restored := engine.New(tuning.Default(), nil)
	require.NoError(t, s.LoadWorld(restored))
	assert.Equal(t, want, restored.AutotickerStatus())
}

func TestSaveWorld_FlushesEvents(t *testing.T) {
	s := openTestStore(t)
	sim := seededSim(t)
	sim.Skip(48)

	require.NoError(t, s.SaveWorld(sim))
	assert.Empty(t, sim.RecentEvents(0))

	evs, err := s.EventsSince(0, 1000)
	require.NoError(t, err)
	assert.NotEmpty(t, evs)

	// A second save appends without duplicating.
	n := len(evs)
	sim.Skip(24)
	require.NoError(t, s.SaveWorld(sim))
	evs, err = s.EventsSince(0, 10000)
	require.NoError(t, err)
	assert.Greater(t, len(evs), n)
}

func TestSaveWorld_FailureKeepsEventBuffer(t *testing.T) {
	s := openTestStore(t)
	sim := seededSim(t)
	sim.Skip(48)

	buffered := sim.RecentEvents(0)
	require.NotEmpty(t, buffered)

	require.NoError(t, s.Close())

	err := s.SaveWorld(sim)
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrStorageUnavailable)

	// The drained events went back; nothing was lost to the failed save.
	assert.Equal(t, buffered, sim.RecentEvents(0))
}

func TestEventsSince_FiltersByHour(t *testing.T) {
	s := openTestStore(t)
	sim := seededSim(t)
	sim.Skip(48)
	require.NoError(t, s.SaveWorld(sim))

	evs, err := s.EventsSince(40, 1000)
	require.NoError(t, err)
	for _, ev := range evs {
		assert.GreaterOrEqual(t, ev.Hour, uint64(40))
	}
}

func TestSaveWorld_OverwritesPreviousSnapshot(t *testing.T) {
	s := openTestStore(t)
	sim := seededSim(t)

	require.NoError(t, s.SaveWorld(sim))
	sim.Skip(24)
	require.NoError(t, s.SaveWorld(sim))

	restored := engine.New(tuning.Default(), nil)
	require.NoError(t, s.LoadWorld(restored))
	assert.Equal(t, sim.CurrentHour(), restored.CurrentHour())
	assert.Len(t, restored.Persons(), len(sim.Persons()))
}
