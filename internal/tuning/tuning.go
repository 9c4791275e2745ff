// Package tuning holds every balance constant the simulation consumes:
// depletion rates, priority weights, action tables, threshold durations.
// Defaults are compiled in; a YAML file can override any subset so the
// numbers can be tuned without touching engine code.
package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning is the full table of simulation constants.
type Tuning struct {
	Person     PersonRates     `yaml:"person"`
	Building   BuildingRates   `yaml:"building"`
	City       CityRates       `yaml:"city"`
	Actions    ActionTable     `yaml:"actions"`
	Priority   PriorityWeights `yaml:"priority"`
	Thresholds Thresholds      `yaml:"thresholds"`
	Upgrades   UpgradeRates    `yaml:"upgrades"`
	Seasons    SeasonTable     `yaml:"seasons"`
}

// PersonRates are per-hour signed rates applied by the needs calculator.
// Negative depletes, positive replenishes.
type PersonRates struct {
	ConsumptionIdle     float64 `yaml:"consumption_idle"`
	ConsumptionWorking  float64 `yaml:"consumption_working"`
	ConsumptionSleeping float64 `yaml:"consumption_sleeping"`

	EnvironmentNeutral   float64 `yaml:"environment_neutral"`
	EnvironmentHazardous float64 `yaml:"environment_hazardous"`
	EnvironmentHealing   float64 `yaml:"environment_healing"`

	ConnectionIdle float64 `yaml:"connection_idle"`

	RestIdle     float64 `yaml:"rest_idle"`
	RestWorking  float64 `yaml:"rest_working"`
	RestSleeping float64 `yaml:"rest_sleeping"`
	StressToRest float64 `yaml:"stress_to_rest"` // Extra rest drain per 10 stress

	WasteAccumulation float64 `yaml:"waste_accumulation"`

	ThreatIdle      float64 `yaml:"threat_idle"`
	ThreatHazardous float64 `yaml:"threat_hazardous"`
	ThreatSafe      float64 `yaml:"threat_safe"`

	IncomeLivingCost float64 `yaml:"income_living_cost"`

	StressIdle        float64 `yaml:"stress_idle"`
	StressWorking     float64 `yaml:"stress_working"`
	StressSocializing float64 `yaml:"stress_socializing"`
	StressLowIncome   float64 `yaml:"stress_low_income"`

	SafetyIdle   float64 `yaml:"safety_idle"`
	SafetyAtHome float64 `yaml:"safety_at_home"`
	SafetySafe   float64 `yaml:"safety_safe"`
	SafetyUnsafe float64 `yaml:"safety_unsafe"`

	CommunityIdle        float64 `yaml:"community_idle"`
	ProgressionAtWork    float64 `yaml:"progression_at_work"`
}

// BuildingRates are per-day rates applied by the daily cascade.
type BuildingRates struct {
	RentBase               float64 `yaml:"rent_base"`
	MaintenanceBase        float64 `yaml:"maintenance_base"`
	MaintenancePerOccupant float64 `yaml:"maintenance_per_occupant"`
	CleanlinessBase        float64 `yaml:"cleanliness_base"`
	CleanlinessPerOccupant float64 `yaml:"cleanliness_per_occupant"`

	OperationalCostBase      float64 `yaml:"operational_cost_base"`
	OperationalCostPerWorker float64 `yaml:"operational_cost_per_worker"`
	ConsumptionBase          float64 `yaml:"consumption_base"`
	ConsumptionPerWorker     float64 `yaml:"consumption_per_worker"`
	ProductionBase           float64 `yaml:"production_base"`
	ProductionPerWorker      float64 `yaml:"production_per_worker"`
}

// CityRates are per-week rates applied by the weekly cascade.
type CityRates struct {
	PublicWorksPerCitizen float64 `yaml:"public_works_per_citizen"`
	ServiceCostPer100     float64 `yaml:"service_cost_per_100"`
	ImportCost            float64 `yaml:"import_cost"`
	ExportRevenue         float64 `yaml:"export_revenue"`
	StabilityPerStressed  float64 `yaml:"stability_per_stressed"`
	ArtistCultureRate     float64 `yaml:"artist_culture_rate"`
	ScientistScienceRate  float64 `yaml:"scientist_science_rate"`
	TaxRate               float64 `yaml:"tax_rate"`
}

// ActionTable defines durations (sim-hours) and channel deltas per action.
type ActionTable struct {
	MoveRestCostPerHour float64 `yaml:"move_rest_cost_per_hour"`

	WorkDuration   uint64  `yaml:"work_duration"`
	WorkRestCost   float64 `yaml:"work_rest_cost"`
	WorkStressGain float64 `yaml:"work_stress_gain"`
	WorkIncomeGain float64 `yaml:"work_income_gain"`

	SleepDuration uint64  `yaml:"sleep_duration"`
	SleepRestGain float64 `yaml:"sleep_rest_gain"`

	EatDuration uint64  `yaml:"eat_duration"`
	EatFoodGain float64 `yaml:"eat_food_gain"`
	EatMealCost float64 `yaml:"eat_meal_cost"`

	SocializeDuration   uint64  `yaml:"socialize_duration"`
	SocializeSocialGain float64 `yaml:"socialize_social_gain"`
	SocializeStressLoss float64 `yaml:"socialize_stress_loss"`

	FacilitiesDuration  uint64  `yaml:"facilities_duration"`
	FacilitiesWasteLoss float64 `yaml:"facilities_waste_loss"`

	MaintainDuration uint64  `yaml:"maintain_duration"`
	MaintainGain     float64 `yaml:"maintain_gain"`

	CleanDuration uint64  `yaml:"clean_duration"`
	CleanGain     float64 `yaml:"clean_gain"`
}

// PriorityWeights rank unmet needs. Higher wins; ties break toward the
// lower Maslow level.
type PriorityWeights struct {
	Waste       float64 `yaml:"waste"`
	Consumption float64 `yaml:"consumption"`
	Rest        float64 `yaml:"rest"`
	Safety      float64 `yaml:"safety"`
	Income      float64 `yaml:"income"`
	Environment float64 `yaml:"environment"`
	Stress      float64 `yaml:"stress"`
	Social      float64 `yaml:"social"`
	Higher      float64 `yaml:"higher"`
}

// Thresholds are trigger points and bounds shared across components.
type Thresholds struct {
	NeedMax       float64 `yaml:"need_max"`
	CriticalLow   float64 `yaml:"critical_low"`
	Adequate      float64 `yaml:"adequate"`
	Urgent        float64 `yaml:"urgent"`
	SubChannelCap float64 `yaml:"sub_channel_cap"`

	IncomeMin       float64 `yaml:"income_min"`
	IncomeMax       float64 `yaml:"income_max"`
	IncomeCritical  float64 `yaml:"income_critical"`
	WasteCritical   float64 `yaml:"waste_critical"`
	StressCritical  float64 `yaml:"stress_critical"`
	StabilityUnrest float64 `yaml:"stability_unrest"`

	StarvationHours uint64 `yaml:"starvation_hours"`
	ForcedRestHours uint64 `yaml:"forced_rest_hours"`
	EvictionDays    uint64 `yaml:"eviction_days"`
	CondemnDays     uint64 `yaml:"condemn_days"`
	DeclineWeeks    uint64 `yaml:"decline_weeks"`
	UnrestWeeks     uint64 `yaml:"unrest_weeks"`
}

// UpgradeRates scale building output by upgrade stage.
type UpgradeRates struct {
	EfficiencyProductionBonus      float64 `yaml:"efficiency_production_bonus"`
	EfficiencyConsumptionReduction float64 `yaml:"efficiency_consumption_reduction"`
	PrestigeRentMultiplier         float64 `yaml:"prestige_rent_multiplier"`
	WorkHoursEfficiency            float64 `yaml:"work_hours_efficiency"`
	WorkHoursPrestige              float64 `yaml:"work_hours_prestige"`
}

// SeasonFactors multiply depletion rates for one season. 1.0 = neutral.
type SeasonFactors struct {
	Consumption float64 `yaml:"consumption"`
	Environment float64 `yaml:"environment"`
}

// SeasonTable holds one factor set per season of the 360-day year.
type SeasonTable struct {
	Spring SeasonFactors `yaml:"spring"`
	Summer SeasonFactors `yaml:"summer"`
	Autumn SeasonFactors `yaml:"autumn"`
	Winter SeasonFactors `yaml:"winter"`
}

// Default returns the compiled-in balance table.
func Default() *Tuning {
	return &Tuning{
		Person: PersonRates{
			ConsumptionIdle:      -2.0,
			ConsumptionWorking:   -3.0,
			ConsumptionSleeping:  -1.5,
			EnvironmentNeutral:   -1.0,
			EnvironmentHazardous: -3.0,
			EnvironmentHealing:   0.5,
			ConnectionIdle:       -0.5,
			RestIdle:             -1.5,
			RestWorking:          -2.5,
			RestSleeping:         8.0,
			StressToRest:         -0.1,
			WasteAccumulation:    2.0,
			ThreatIdle:           -0.5,
			ThreatHazardous:      2.0,
			ThreatSafe:           -1.0,
			IncomeLivingCost:     -0.2,
			StressIdle:           -0.3,
			StressWorking:        1.0,
			StressSocializing:    -2.0,
			StressLowIncome:      0.5,
			SafetyIdle:           -0.2,
			SafetyAtHome:         1.0,
			SafetySafe:           0.5,
			SafetyUnsafe:         -2.0,
			CommunityIdle:        -0.3,
			ProgressionAtWork:    0.5,
		},
		Building: BuildingRates{
			RentBase:               -10.0,
			MaintenanceBase:        -2.0,
			MaintenancePerOccupant: -0.5,
			CleanlinessBase:        -3.0,
			CleanlinessPerOccupant: -1.0,

			OperationalCostBase:      -50.0,
			OperationalCostPerWorker: -5.0,
			ConsumptionBase:          10.0,
			ConsumptionPerWorker:     5.0,
			ProductionBase:           5.0,
			ProductionPerWorker:      10.0,
		},
		City: CityRates{
			PublicWorksPerCitizen: -0.01,
			ServiceCostPer100:     -1.0,
			ImportCost:            -10.0,
			ExportRevenue:         15.0,
			StabilityPerStressed:  -0.1,
			ArtistCultureRate:     0.5,
			ScientistScienceRate:  0.3,
			TaxRate:               0.2,
		},
		Actions: ActionTable{
			MoveRestCostPerHour: -2.0,

			WorkDuration:   8,
			WorkRestCost:   -16.0,
			WorkStressGain: 5.0,
			WorkIncomeGain: 40.0,

			SleepDuration: 8,
			SleepRestGain: 64.0,

			EatDuration: 1,
			EatFoodGain: 25.0,
			EatMealCost: 5.0,

			SocializeDuration:   2,
			SocializeSocialGain: 10.0,
			SocializeStressLoss: -5.0,

			FacilitiesDuration:  1,
			FacilitiesWasteLoss: -50.0,

			MaintainDuration: 4,
			MaintainGain:     20.0,

			CleanDuration: 2,
			CleanGain:     30.0,
		},
		Priority: PriorityWeights{
			Waste:       10,
			Consumption: 8,
			Rest:        7,
			Safety:      6,
			Income:      5,
			Environment: 4,
			Stress:      3,
			Social:      2,
			Higher:      1,
		},
		Thresholds: Thresholds{
			NeedMax:       100.0,
			CriticalLow:   20.0,
			Adequate:      50.0,
			Urgent:        60.0,
			SubChannelCap: 33.3,

			IncomeMin:       -100.0,
			IncomeMax:       1000.0,
			IncomeCritical:  10.0,
			WasteCritical:   80.0,
			StressCritical:  70.0,
			StabilityUnrest: 20.0,

			StarvationHours: 24,
			ForcedRestHours: 48,
			EvictionDays:    7,
			CondemnDays:     30,
			DeclineWeeks:    4,
			UnrestWeeks:     2,
		},
		Upgrades: UpgradeRates{
			EfficiencyProductionBonus:      0.2,
			EfficiencyConsumptionReduction: 0.1,
			PrestigeRentMultiplier:         1.2,
			WorkHoursEfficiency:            100.0,
			WorkHoursPrestige:              200.0,
		},
		Seasons: SeasonTable{
			Spring: SeasonFactors{Consumption: 1.0, Environment: 0.9},
			Summer: SeasonFactors{Consumption: 1.0, Environment: 1.0},
			Autumn: SeasonFactors{Consumption: 1.1, Environment: 1.0},
			Winter: SeasonFactors{Consumption: 1.25, Environment: 1.2},
		},
	}
}

// Load reads a YAML override file on top of the defaults. Any key the file
// omits keeps its default value.
func Load(path string) (*Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tuning: %w", err)
	}
	if err := yaml.Unmarshal(raw, t); err != nil {
		return nil, fmt.Errorf("parse tuning %s: %w", path, err)
	}
	return t, nil
}
