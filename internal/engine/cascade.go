package engine

import (
	"math"

	"github.com/talgya/chronica/internal/city"
	"github.com/talgya/chronica/internal/event"
	"github.com/talgya/chronica/internal/person"
)

// propagateBuildings runs the daily cascade over one city's buildings.
// Occupancy wears buildings down, workplaces convert inventory to
// stockpile, homes accrue rent, and sustained zero maintenance condemns.
func (s *Simulation) propagateBuildings(c *city.City, now uint64) {
	r := s.tun.Building
	infra := c.InfrastructureMultiplier()

	for _, b := range s.cityBuildings[c.ID] {
		if b.Condemned {
			continue
		}
		occ := float64(b.Occupants)

		b.Maintenance += (r.MaintenanceBase + r.MaintenancePerOccupant*occ) * infra
		b.Cleanliness += r.CleanlinessBase + r.CleanlinessPerOccupant*occ
		b.Maintenance = clampChannel(b.Maintenance)
		b.Cleanliness = clampChannel(b.Cleanliness)

		switch {
		case b.Home != nil:
			rent := b.Home.Rent * math.Pow(s.tun.Upgrades.PrestigeRentMultiplier, float64(b.Prestige))
			if b.Occupants > 0 {
				b.Home.RentBalance -= rent / 30
			}
		case b.Work != nil:
			b.Work.OperatingCost = r.OperationalCostBase + r.OperationalCostPerWorker*occ
			s.produceDaily(b)
		}

		if b.Maintenance <= 0 {
			b.ZeroMaintenanceDays++
			if b.ZeroMaintenanceDays >= s.tun.Thresholds.CondemnDays {
				b.Condemned = true
				s.record(event.New(now, event.KindCondemnation, event.EntityBuilding, b.ID, "condemned").At(b.ID))
			}
		} else {
			b.ZeroMaintenanceDays = 0
		}
	}
}

// produceDaily converts a workplace's inventory into stockpile. Efficiency
// stages raise output and cut input.
func (s *Simulation) produceDaily(b *city.Building) {
	r := s.tun.Building
	up := s.tun.Upgrades
	workers := float64(s.workerCount(b.ID))

	production := (r.ProductionBase + r.ProductionPerWorker*workers) *
		(1 + up.EfficiencyProductionBonus*float64(b.Efficiency))
	consumption := (r.ConsumptionBase + r.ConsumptionPerWorker*workers) *
		(1 - up.EfficiencyConsumptionReduction*float64(b.Efficiency))

	if consumption > b.Work.Inventory {
		// Starved of input, output scales down with what was available.
		if consumption > 0 {
			production *= b.Work.Inventory / consumption
		}
		b.Work.Inventory = 0
	} else {
		b.Work.Inventory -= consumption
	}
	b.Work.Stockpile = math.Min(b.Work.Stockpile+production, b.Work.StockpileCap)
}

func (s *Simulation) workerCount(buildingID uint64) int {
	n := 0
	for _, p := range s.persons {
		if p.Alive && p.WorkplaceID == buildingID {
			n++
		}
	}
	return n
}

// propagateCity runs the weekly cascade: population bookkeeping, the tax
// and trade ledger, stability, and the decline and unrest thresholds.
func (s *Simulation) propagateCity(c *city.City, now uint64) {
	r := s.tun.City
	th := s.tun.Thresholds

	var (
		alive, employed, stressed   int
		artists, scientists         int
		sumSafety, sumL1, sumHappy  float64
		sumAchievements              float64
	)
	for _, p := range s.persons {
		if p.CityID != c.ID || !p.Alive {
			continue
		}
		alive++
		if p.WorkplaceID != 0 {
			employed++
		}
		if p.Needs.Stress > th.StressCritical {
			stressed++
		}
		switch p.Role {
		case person.RoleArtist:
			artists++
		case person.RoleScientist:
			scientists++
		}
		sumSafety += p.Needs.Safety
		sumL1 += p.Needs.AdequacyL1()
		sumHappy += (p.Needs.AdequacyL1() + p.Needs.AdequacyL2()) / 2
		sumAchievements += p.Needs.Achievements
	}
	c.Population = alive

	pop := float64(alive)
	c.PublicWorks += r.PublicWorksPerCitizen * pop
	c.PublicWorks = clampChannel(c.PublicWorks)

	// Tax base follows what the workplaces stockpiled; reserve takes tax
	// income, services, and the trade balance.
	var prestigeStages float64
	c.TaxBase = 0
	for _, b := range s.cityBuildings[c.ID] {
		prestigeStages += float64(b.Prestige)
		if b.Work != nil {
			c.TaxBase += b.Work.Stockpile
		}
	}
	c.TaxReserve += c.TaxBase * r.TaxRate
	c.TaxReserve += r.ServiceCostPer100 * pop / 100
	c.TaxReserve += r.ExportRevenue*c.ExportRate + r.ImportCost*c.ImportRate

	// A starved reserve pulls imports up; a healthy one lets them lapse.
	if c.TaxReserve < 0 {
		c.ImportRate++
	} else if c.ImportRate > 0 {
		c.ImportRate--
	}

	c.Stability += r.StabilityPerStressed * float64(stressed)
	c.Stability = clampChannel(c.Stability)
	if alive > 0 {
		c.Health = sumL1 / pop
		c.Safety = sumSafety / pop
		c.AverageHappiness = sumHappy / pop
		c.Unemployment = 1 - float64(employed)/pop
	}
	c.Prestige = prestigeStages + sumAchievements/20
	c.Culture += r.ArtistCultureRate * float64(artists)
	c.Science += r.ScientistScienceRate * float64(scientists)

	if c.TaxReserve < 0 {
		c.NegativeReserveWeeks++
	} else {
		c.NegativeReserveWeeks = 0
	}
	if !c.InDecline && c.NegativeReserveWeeks >= th.DeclineWeeks {
		c.InDecline = true
		s.record(event.New(now, event.KindDecline, event.EntityCity, c.ID, "decline"))
	} else if c.InDecline && c.NegativeReserveWeeks == 0 {
		c.InDecline = false
		s.record(event.New(now, event.KindCityMilestone, event.EntityCity, c.ID, "recovered"))
	}

	if c.Stability < th.StabilityUnrest {
		c.LowStabilityWeeks++
	} else {
		c.LowStabilityWeeks = 0
	}
	if !c.InUnrest && c.LowStabilityWeeks >= th.UnrestWeeks {
		c.InUnrest = true
		s.record(event.New(now, event.KindUnrest, event.EntityCity, c.ID, "unrest"))
	} else if c.InUnrest && c.LowStabilityWeeks == 0 {
		c.InUnrest = false
		s.record(event.New(now, event.KindCityMilestone, event.EntityCity, c.ID, "calmed"))
	}
}

func clampChannel(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
