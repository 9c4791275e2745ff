// Package seed builds a deterministic demo world: a handful of cities with
// districts of mixed buildings and a starting population wired to homes and
// workplaces. The same config always produces the same world.
package seed

import (
	"fmt"

	"github.com/ojrac/opensimplex-go"

	"github.com/talgya/chronica/internal/city"
	"github.com/talgya/chronica/internal/engine"
	"github.com/talgya/chronica/internal/person"
)

// Config controls the generated world.
type Config struct {
	Cities        int
	PeoplePerCity int
	Seed          int64
}

// DefaultConfig is a small world suitable for demos and tests.
func DefaultConfig() Config {
	return Config{Cities: 2, PeoplePerCity: 40, Seed: 1848}
}

var cityNames = []string{
	"Guild", "Mahyapak", "Chingsan", "Pranos", "Jeong",
	"Aira", "Palwede", "Zadardelen", "Engar", "Alebuo",
}

var districtNames = []string{
	"Old Town", "Market District", "Noble Quarter", "Artisan Ward",
	"Port District", "Temple Quarter", "Trade Quarter", "Residential Area",
}

var firstNames = []string{
	"Aerin", "Brix", "Cala", "Dero", "Elyn", "Fynn", "Gira", "Hale",
	"Iska", "Jeth", "Kira", "Lann", "Mira", "Noel", "Oren", "Peri",
	"Quin", "Rava", "Senn", "Tara", "Ulix", "Vera", "Wynn", "Xara",
	"Ysel", "Zara", "Alec", "Bren", "Cora", "Dain", "Ella", "Fren",
}

var lastNames = []string{
	"Ashford", "Blake", "Cross", "Dorne", "Ember", "Flint", "Gray", "Hunt",
	"Iron", "Kane", "Lane", "Moon", "North", "Oak", "Pike", "Quinn",
	"Reed", "Stone", "Thorne", "Vale", "Ward", "York", "Ash", "Bell",
	"Clay", "Dale", "Fox", "Glen", "Hill", "Marsh", "Rivers", "Woods",
}

func personName(index int) string {
	first := firstNames[index%len(firstNames)]
	last := lastNames[(index/len(firstNames))%len(lastNames)]
	return first + " " + last
}

// Populate fills an empty simulation from the config. Ids are allocated
// densely from 1 in generation order, so entity identity is stable across
// runs with the same config.
func Populate(sim *engine.Simulation, cfg Config) error {
	if cfg.Cities < 1 || cfg.Cities > len(cityNames) {
		return fmt.Errorf("seed: cities must be 1..%d", len(cityNames))
	}
	if cfg.PeoplePerCity < 1 {
		return fmt.Errorf("seed: people per city must be positive")
	}

	noise := opensimplex.NewNormalized(cfg.Seed)
	var nextBuilding, nextPerson uint64 = 1, 1
	personIndex := 0

	for ci := 0; ci < cfg.Cities; ci++ {
		cityID := uint64(ci + 1)
		c := &city.City{
			ID:          cityID,
			Name:        cityNames[ci],
			PublicWorks: 80,
			TaxReserve:  500,
			ExportRate:  2,
			Stability:   75,
			Health:      70,
			Safety:      70,
		}
		if err := sim.AddCity(c); err != nil {
			return err
		}

		buildings, err := seedBuildings(sim, noise, cityID, ci, cfg.PeoplePerCity, &nextBuilding)
		if err != nil {
			return err
		}
		if err := seedPeople(sim, cityID, buildings, cfg.PeoplePerCity, &nextPerson, &personIndex); err != nil {
			return err
		}
	}
	return nil
}

// district building mix per block of roughly ten residents.
var blockTypes = []city.BuildingType{
	city.TypeHome, city.TypeHome, city.TypeHome,
	city.TypeWorkplace, city.TypeWorkplace,
	city.TypeRestaurant, city.TypePark,
}

// Civic buildings, one of each per city.
var civicTypes = []city.BuildingType{
	city.TypeHospital, city.TypeSchool, city.TypeCultureCenter,
}

func seedBuildings(sim *engine.Simulation, noise opensimplex.Noise, cityID uint64, ci, population int, nextID *uint64) ([]*city.Building, error) {
	blocks := (population + 9) / 10
	var out []*city.Building

	add := func(t city.BuildingType, district string, slot int) error {
		id := *nextID
		*nextID++
		x := float64(ci)*200 + float64(slot%12)*8
		y := float64(slot/12) * 8
		// Noise shapes the environmental gradient across the map into the
		// capability quality range.
		q := noise.Eval2(x/40, y/40)*5 - 3 // -3..+2
		b := &city.Building{
			ID:          id,
			CityID:      cityID,
			Type:        t,
			Name:        fmt.Sprintf("%s %s %d", district, t, id),
			X:           x,
			Y:           y,
			Capacity:    10,
			Maintenance: 90,
			Cleanliness: 85,
			Quality:     q,
		}
		switch t {
		case city.TypeHome:
			b.Capacity = 6
			// RentBase carries the depletion sign; rent owed is positive.
			b.Home = &city.HomeData{Rent: -sim.Tuning().Building.RentBase}
		case city.TypeWorkplace:
			b.Capacity = 12
			b.Work = &city.WorkData{
				ConsumptionRate: 10,
				ProductionRate:  15,
				Inventory:       500,
				StockpileCap:    1000,
				BaseWage:        40,
			}
		case city.TypePark:
			b.Capacity = 30
			if b.Quality < 0.5 {
				b.Quality = 1.5
			}
		}
		if err := sim.AddBuilding(b); err != nil {
			return err
		}
		out = append(out, b)
		return nil
	}

	slot := 0
	for blk := 0; blk < blocks; blk++ {
		district := districtNames[blk%len(districtNames)]
		for _, t := range blockTypes {
			if err := add(t, district, slot); err != nil {
				return nil, err
			}
			slot++
		}
	}
	for _, t := range civicTypes {
		if err := add(t, "Civic Quarter", slot); err != nil {
			return nil, err
		}
		slot++
	}
	return out, nil
}

func seedPeople(sim *engine.Simulation, cityID uint64, buildings []*city.Building, count int, nextID *uint64, nameIndex *int) error {
	var homes, works []*city.Building
	for _, b := range buildings {
		switch b.Type {
		case city.TypeHome:
			homes = append(homes, b)
		case city.TypeWorkplace:
			works = append(works, b)
		}
	}
	if len(homes) == 0 || len(works) == 0 {
		return fmt.Errorf("seed: city %d has no homes or workplaces", cityID)
	}

	hi, wi := 0, 0
	for i := 0; i < count; i++ {
		home := homes[hi%len(homes)]
		// Respect capacity: walk forward until a home has room.
		for tries := 0; !home.HasRoom() && tries < len(homes); tries++ {
			hi++
			home = homes[hi%len(homes)]
		}
		work := works[wi%len(works)]
		wi++

		role := person.RoleWorker
		switch {
		case i%15 == 14:
			role = person.RoleScientist
		case i%10 == 9:
			role = person.RoleArtist
		}

		p := &person.Person{
			ID:          *nextID,
			Name:        personName(*nameIndex),
			CityID:      cityID,
			Role:        role,
			HomeID:      home.ID,
			WorkplaceID: work.ID,
			LocationID:  home.ID,
			Alive:       true,
			Status:      person.StatusIdle,
			Needs: person.Needs{
				Consumption: 80, Environment: 70, Connection: 60, Rest: 80,
				Waste: 10, Stress: 20, Safety: 70, Income: 50,
				Relationship: 15, Social: 15, Community: 15,
			},
		}
		*nextID++
		*nameIndex++
		hi++
		if err := sim.AddPerson(p); err != nil {
			return err
		}
	}
	return nil
}
