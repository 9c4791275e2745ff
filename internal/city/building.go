package city

import "math"

// BuildingType is the closed set of location kinds. Capability dispatch
// switches on it; adding a type means extending CapabilityFor.
type BuildingType string

const (
	TypeHome          BuildingType = "home"
	TypeWorkplace     BuildingType = "workplace"
	TypeRestaurant    BuildingType = "restaurant"
	TypePark          BuildingType = "park"
	TypeHospital      BuildingType = "hospital"
	TypeSchool        BuildingType = "school"
	TypeCultureCenter BuildingType = "culture_center"
)

// Capability describes what needs a location can serve and how its
// environment reads. Quality runs roughly -3.0 (hazardous) to +2.0 (healing).
type Capability struct {
	ServesConsumption bool
	ServesRest        bool
	ServesSocial      bool
	ServesFacilities  bool
	ServesHealth      bool
	ServesEducation   bool
	ServesCulture     bool
	Quality           float64
}

// CapabilityFor maps a building type to its base capability.
func CapabilityFor(t BuildingType) Capability {
	switch t {
	case TypeHome:
		return Capability{ServesConsumption: true, ServesRest: true, ServesFacilities: true, Quality: 0.5}
	case TypeWorkplace:
		return Capability{ServesFacilities: true, Quality: -0.5}
	case TypeRestaurant:
		return Capability{ServesConsumption: true, ServesSocial: true, Quality: 0.5}
	case TypePark:
		return Capability{ServesSocial: true, Quality: 1.5}
	case TypeHospital:
		return Capability{ServesHealth: true, ServesRest: true, Quality: 1.0}
	case TypeSchool:
		return Capability{ServesEducation: true, ServesSocial: true, Quality: 0.5}
	case TypeCultureCenter:
		return Capability{ServesSocial: true, ServesCulture: true, Quality: 1.0}
	default:
		return Capability{}
	}
}

// HomeData is present only on TypeHome buildings.
type HomeData struct {
	Rent        float64 `json:"rent" db:"rent"`
	RentBalance float64 `json:"rent_balance" db:"rent_balance"`
}

// WorkData is present only on TypeWorkplace buildings.
type WorkData struct {
	ConsumptionRate float64 `json:"consumption_rate" db:"consumption_rate"`
	ProductionRate  float64 `json:"production_rate" db:"production_rate"`
	Inventory       float64 `json:"inventory" db:"inventory"`
	Stockpile       float64 `json:"stockpile" db:"stockpile"`
	StockpileCap    float64 `json:"stockpile_cap" db:"stockpile_cap"`
	BaseWage        float64 `json:"base_wage" db:"base_wage"`
	WorkerHours     float64 `json:"worker_hours" db:"worker_hours"`

	// Daily running cost, recomputed by the daily cascade from occupancy.
	// Negative, matching the depletion sign convention.
	OperatingCost float64 `json:"operating_cost" db:"operating_cost"`
}

// Building is one location in a city. Shared channels plus optional
// home/work payloads keyed by Type.
type Building struct {
	ID     uint64       `json:"id" db:"id"`
	CityID uint64       `json:"city_id" db:"city_id"`
	Type   BuildingType `json:"type" db:"type"`
	Name   string       `json:"name" db:"name"`
	X      float64      `json:"x" db:"x"`
	Y      float64      `json:"y" db:"y"`

	Capacity  int `json:"capacity" db:"capacity"`
	Occupants int `json:"occupants" db:"occupants"`

	Maintenance float64 `json:"maintenance" db:"maintenance"`
	Cleanliness float64 `json:"cleanliness" db:"cleanliness"`

	// Upgrade stages, earned from accumulated worker-hours.
	Efficiency int `json:"efficiency" db:"efficiency"`
	Prestige   int `json:"prestige" db:"prestige"`

	Condemned bool `json:"condemned" db:"condemned"`

	// Consecutive days at Maintenance 0, for the condemnation threshold.
	ZeroMaintenanceDays uint64 `json:"zero_maintenance_days" db:"zero_maintenance_days"`

	// Per-building override of the type's base quality, set at creation.
	Quality float64 `json:"quality" db:"quality"`

	Home *HomeData `json:"home,omitempty"`
	Work *WorkData `json:"work,omitempty"`
}

// Capability returns the type capability with this building's own quality.
func (b *Building) Capability() Capability {
	c := CapabilityFor(b.Type)
	c.Quality = b.Quality
	return c
}

// HasRoom reports whether another occupant fits.
func (b *Building) HasRoom() bool {
	return !b.Condemned && b.Occupants < b.Capacity
}

// AccrueWorkerHours adds hours to a workplace and bumps upgrade stages when
// cumulative totals cross the per-stage thresholds. Returns how many stages
// of each kind were gained.
func (b *Building) AccrueWorkerHours(hours, perEfficiency, perPrestige float64) (effGained, presGained int) {
	if b.Work == nil {
		return 0, 0
	}
	b.Work.WorkerHours += hours
	for b.Efficiency < MaxUpgradeStage && b.Work.WorkerHours >= perEfficiency*float64(b.Efficiency+1) {
		b.Efficiency++
		effGained++
	}
	for b.Prestige < MaxUpgradeStage && b.Work.WorkerHours >= perPrestige*float64(b.Prestige+1) {
		b.Prestige++
		presGained++
	}
	return effGained, presGained
}

// MaxUpgradeStage caps Efficiency and Prestige.
const MaxUpgradeStage = 5

// Distance is the straight-line distance between two buildings. A nil
// building reads as the origin.
func Distance(a, b *Building) float64 {
	if a == nil || b == nil {
		return 0
	}
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// TravelTime converts distance to whole sim-hours, never less than one.
func TravelTime(distance float64) uint64 {
	h := uint64(math.Ceil(distance / 10.0))
	if h < 1 {
		return 1
	}
	return h
}
