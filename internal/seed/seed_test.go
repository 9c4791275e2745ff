package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/chronica/internal/city"
	"github.com/talgya/chronica/internal/engine"
	"github.com/talgya/chronica/internal/tuning"
)

func TestPopulate_DefaultWorldShape(t *testing.T) {
	sim := engine.New(tuning.Default(), nil)
	require.NoError(t, Populate(sim, DefaultConfig()))

	cities := sim.Cities()
	require.Len(t, cities, 2)
	assert.Equal(t, "Guild", cities[0].Name)
	assert.Equal(t, "Mahyapak", cities[1].Name)

	persons := sim.Persons()
	assert.Len(t, persons, 80)

	var homes, works, civic int
	for _, b := range sim.Buildings() {
		switch b.Type {
		case city.TypeHome:
			homes++
			require.NotNil(t, b.Home)
			// Rent is the positive side of the configured base charge.
			assert.InDelta(t, -tuning.Default().Building.RentBase, b.Home.Rent, 0.001)
		case city.TypeWorkplace:
			works++
			require.NotNil(t, b.Work)
		case city.TypeHospital, city.TypeSchool, city.TypeCultureCenter:
			civic++
		}
	}
	assert.Equal(t, 24, homes) // 4 blocks of 3 per city
	assert.Equal(t, 16, works)
	assert.Equal(t, 6, civic) // one of each per city
}

func TestPopulate_EveryPersonIsHousedAndEmployed(t *testing.T) {
	sim := engine.New(tuning.Default(), nil)
	require.NoError(t, Populate(sim, DefaultConfig()))

	byID := map[uint64]city.Building{}
	for _, b := range sim.Buildings() {
		byID[b.ID] = b
	}

	for _, p := range sim.Persons() {
		require.True(t, p.Alive)
		home, ok := byID[p.HomeID]
		require.True(t, ok, "person %d home", p.ID)
		assert.Equal(t, city.TypeHome, home.Type)
		work, ok := byID[p.WorkplaceID]
		require.True(t, ok, "person %d workplace", p.ID)
		assert.Equal(t, city.TypeWorkplace, work.Type)
		assert.Equal(t, p.HomeID, p.LocationID)
	}
}

func TestPopulate_RespectsHomeCapacity(t *testing.T) {
	sim := engine.New(tuning.Default(), nil)
	require.NoError(t, Populate(sim, Config{Cities: 1, PeoplePerCity: 30, Seed: 7}))

	for _, b := range sim.Buildings() {
		assert.LessOrEqual(t, b.Occupants, b.Capacity, "building %d", b.ID)
	}
}

func TestPopulate_Deterministic(t *testing.T) {
	a := engine.New(tuning.Default(), nil)
	b := engine.New(tuning.Default(), nil)
	cfg := DefaultConfig()
	require.NoError(t, Populate(a, cfg))
	require.NoError(t, Populate(b, cfg))

	assert.Equal(t, a.Persons(), b.Persons())
	assert.Equal(t, a.Buildings(), b.Buildings())
	assert.Equal(t, a.Cities(), b.Cities())
}

func TestPopulate_SeedShapesQuality(t *testing.T) {
	a := engine.New(tuning.Default(), nil)
	b := engine.New(tuning.Default(), nil)
	require.NoError(t, Populate(a, Config{Cities: 1, PeoplePerCity: 20, Seed: 1}))
	require.NoError(t, Populate(b, Config{Cities: 1, PeoplePerCity: 20, Seed: 2}))

	var differs bool
	ab, bb := a.Buildings(), b.Buildings()
	require.Equal(t, len(ab), len(bb))
	for i := range ab {
		if ab[i].Quality != bb[i].Quality {
			differs = true
			break
		}
	}
	assert.True(t, differs)
}

func TestPopulate_RejectsBadConfig(t *testing.T) {
	sim := engine.New(tuning.Default(), nil)
	assert.Error(t, Populate(sim, Config{Cities: 0, PeoplePerCity: 10}))
	assert.Error(t, Populate(sim, Config{Cities: 99, PeoplePerCity: 10}))
	assert.Error(t, Populate(sim, Config{Cities: 1, PeoplePerCity: 0}))
}

func TestPopulate_AssignsSpecialistRoles(t *testing.T) {
	sim := engine.New(tuning.Default(), nil)
	require.NoError(t, Populate(sim, DefaultConfig()))

	roles := map[string]int{}
	for _, p := range sim.Persons() {
		roles[string(p.Role)]++
	}
	assert.Greater(t, roles["artist"], 0)
	assert.Greater(t, roles["scientist"], 0)
	assert.Greater(t, roles["worker"], roles["artist"])
}
