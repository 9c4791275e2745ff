package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/chronica/internal/city"
	"github.com/talgya/chronica/internal/event"
	"github.com/talgya/chronica/internal/person"
	"github.com/talgya/chronica/internal/tuning"
)

// newTestWorld is one city with a home, a workplace, a restaurant, and a
// park, plus one resident wired to the home and workplace.
func newTestWorld(t *testing.T) *Simulation {
	t.Helper()
	sim := New(tuning.Default(), nil)

	require.NoError(t, sim.AddCity(&city.City{
		ID: 1, Name: "Guild",
		PublicWorks: 80, TaxReserve: 500, Stability: 75,
	}))

	buildings := []*city.Building{
		{ID: 1, CityID: 1, Type: city.TypeHome, Name: "Rowhouse", Capacity: 6,
			Maintenance: 90, Cleanliness: 85, Quality: 0.5,
			Home: &city.HomeData{Rent: 10}},
		{ID: 2, CityID: 1, Type: city.TypeWorkplace, Name: "Mill", Capacity: 12, X: 20,
			Maintenance: 90, Cleanliness: 85, Quality: -0.5,
			Work: &city.WorkData{Inventory: 500, StockpileCap: 1000}},
		{ID: 3, CityID: 1, Type: city.TypeRestaurant, Name: "Tavern", Capacity: 10, X: 40,
			Maintenance: 90, Cleanliness: 85, Quality: 0.5},
		{ID: 4, CityID: 1, Type: city.TypePark, Name: "Green", Capacity: 30, X: 60,
			Maintenance: 90, Cleanliness: 85, Quality: 1.5},
	}
	for _, b := range buildings {
		require.NoError(t, sim.AddBuilding(b))
	}

	require.NoError(t, sim.AddPerson(&person.Person{
		ID: 1, Name: "Aerin Ashford", CityID: 1, Role: person.RoleWorker,
		HomeID: 1, WorkplaceID: 2, LocationID: 1,
		Alive: true, Status: person.StatusIdle,
		Needs: person.Needs{
			Consumption: 80, Environment: 70, Connection: 60, Rest: 80,
			Waste: 10, Stress: 20, Safety: 70, Income: 50,
			Relationship: 15, Social: 15, Community: 15,
		},
	}))
	return sim
}

func TestAddEntities_Validation(t *testing.T) {
	sim := New(tuning.Default(), nil)

	var verr *ValidationError
	require.ErrorAs(t, sim.AddCity(&city.City{ID: 0}), &verr)

	require.NoError(t, sim.AddCity(&city.City{ID: 1}))
	require.ErrorAs(t, sim.AddCity(&city.City{ID: 1}), &verr)

	require.ErrorAs(t, sim.AddBuilding(&city.Building{ID: 1, CityID: 99}), &verr)
	require.ErrorAs(t, sim.AddPerson(&person.Person{ID: 1, CityID: 1, HomeID: 42, Alive: true}), &verr)
}

func TestAddPerson_OccupiesStartingLocation(t *testing.T) {
	sim := newTestWorld(t)
	b, err := sim.BuildingStatus(1)
	require.NoError(t, err)
	assert.Equal(t, 1, b.Occupants)
}

func TestQueries_UnknownIDsReturnNotFound(t *testing.T) {
	sim := newTestWorld(t)

	_, err := sim.PersonNeeds(99)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = sim.BuildingStatus(99)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = sim.CityStatus(99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSkip_MatchesRepeatedTicks(t *testing.T) {
	a := newTestWorld(t)
	b := newTestWorld(t)

	for i := 0; i < 72; i++ {
		a.Tick()
	}
	b.Skip(72)

	assert.Equal(t, a.CurrentHour(), b.CurrentHour())
	assert.Equal(t, a.Persons(), b.Persons())
	assert.Equal(t, a.Buildings(), b.Buildings())
	assert.Equal(t, a.Cities(), b.Cities())
}

func TestTick_PersonSurvivesAndWorks(t *testing.T) {
	sim := newTestWorld(t)
	sim.Skip(24 * 6)

	p, err := sim.PersonNeeds(1)
	require.NoError(t, err)
	assert.True(t, p.Alive)

	// Over six days the resident must have worked at least once; worker
	// hours only accrue through shifts.
	mill, err := sim.BuildingStatus(2)
	require.NoError(t, err)
	assert.Greater(t, mill.Work.WorkerHours, 0.0)
}

func TestStarvation_KillsAndFreesOccupancy(t *testing.T) {
	sim := newTestWorld(t)
	p, _ := sim.PersonNeeds(1)
	raw := p

	// Broke and starving: eating costs money, so the food counter runs out.
	raw.Needs.Consumption = 0
	raw.Needs.Income = -100
	sim.mu.Lock()
	*sim.personByID[1] = raw
	sim.mu.Unlock()

	sim.Skip(30)

	got, err := sim.PersonNeeds(1)
	require.NoError(t, err)
	assert.False(t, got.Alive)
	assert.Equal(t, uint64(1), sim.StatsSnapshot().TotalDeaths)

	var sawDeath bool
	for _, ev := range sim.RecentEvents(0) {
		if ev.Kind == event.KindDeath {
			sawDeath = true
		}
	}
	assert.True(t, sawDeath)

	home, err := sim.BuildingStatus(1)
	require.NoError(t, err)
	assert.Equal(t, 0, home.Occupants)
}

func TestDailyCascade_CondemnsNeglectedBuilding(t *testing.T) {
	sim := New(tuning.Default(), nil)
	require.NoError(t, sim.AddCity(&city.City{ID: 1, PublicWorks: 80, Stability: 75}))
	require.NoError(t, sim.AddBuilding(&city.Building{
		ID: 1, CityID: 1, Type: city.TypeWorkplace, Capacity: 12,
		Maintenance: 0, Cleanliness: 50,
		Work: &city.WorkData{Inventory: 100, StockpileCap: 500},
	}))

	sim.Skip(24 * 30)

	b, err := sim.BuildingStatus(1)
	require.NoError(t, err)
	assert.True(t, b.Condemned)
	assert.Equal(t, uint64(1), sim.StatsSnapshot().TotalCondemnations)
}

func TestDailyCascade_RecomputesOperatingCost(t *testing.T) {
	sim := New(tuning.Default(), nil)
	require.NoError(t, sim.AddCity(&city.City{ID: 1, PublicWorks: 80, Stability: 75}))
	require.NoError(t, sim.AddBuilding(&city.Building{
		ID: 1, CityID: 1, Type: city.TypeWorkplace, Capacity: 12,
		Maintenance: 90, Cleanliness: 85,
		Work: &city.WorkData{Inventory: 100, StockpileCap: 500},
	}))
	require.NoError(t, sim.AddPerson(&person.Person{
		ID: 1, CityID: 1, LocationID: 1, Alive: true, Status: person.StatusIdle,
		Needs: person.Needs{
			Consumption: 80, Environment: 70, Connection: 60, Rest: 80,
			Waste: 10, Stress: 20, Safety: 70, Income: 50,
			Relationship: 15, Social: 15, Community: 15,
		},
	}))

	sim.Skip(24)

	b, err := sim.BuildingStatus(1)
	require.NoError(t, err)
	// Base cost plus one occupant's share.
	assert.InDelta(t, -55.0, b.Work.OperatingCost, 0.001)
}

func TestDailyCascade_RentAccruesAndGetsPaid(t *testing.T) {
	sim := newTestWorld(t)
	sim.Skip(26)

	var sawRent bool
	for _, ev := range sim.RecentEvents(0) {
		if ev.Detail == "rent_paid" {
			sawRent = true
		}
	}
	assert.True(t, sawRent)
}

func TestWeeklyCascade_UnrestAfterSustainedInstability(t *testing.T) {
	sim := New(tuning.Default(), nil)
	require.NoError(t, sim.AddCity(&city.City{ID: 1, Stability: 0, TaxReserve: 100}))

	sim.Skip(HoursPerWeek * 2)

	c, err := sim.CityStatus(1)
	require.NoError(t, err)
	assert.True(t, c.InUnrest)

	var sawUnrest bool
	for _, ev := range sim.RecentEvents(0) {
		if ev.Kind == event.KindUnrest {
			sawUnrest = true
		}
	}
	assert.True(t, sawUnrest)
}

func TestWeeklyCascade_DeclineAfterSustainedDeficit(t *testing.T) {
	sim := New(tuning.Default(), nil)
	require.NoError(t, sim.AddCity(&city.City{ID: 1, Stability: 75, TaxReserve: -10}))

	sim.Skip(HoursPerWeek * 4)

	c, err := sim.CityStatus(1)
	require.NoError(t, err)
	assert.True(t, c.InDecline)
	assert.Greater(t, c.ImportRate, 0.0)
}

func TestWeeklyCascade_PopulationBookkeeping(t *testing.T) {
	sim := newTestWorld(t)
	sim.Skip(HoursPerWeek)

	c, err := sim.CityStatus(1)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Population)
	assert.InDelta(t, 0.0, c.Unemployment, 0.001)
}

func TestRecentEvents_LimitAndOrder(t *testing.T) {
	sim := newTestWorld(t)
	sim.Skip(48)

	all := sim.RecentEvents(0)
	require.NotEmpty(t, all)

	two := sim.RecentEvents(2)
	require.Len(t, two, 2)
	assert.Equal(t, all[len(all)-2:], two)
}

func TestDrainEvents_EmptiesBuffer(t *testing.T) {
	sim := newTestWorld(t)
	sim.Skip(48)

	drained := sim.DrainEvents()
	assert.NotEmpty(t, drained)
	assert.Empty(t, sim.RecentEvents(0))

	// Totals survive the drain.
	assert.Equal(t, uint64(len(drained)), sim.StatsSnapshot().TotalEvents)
}
