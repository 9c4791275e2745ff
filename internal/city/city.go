package city

// City aggregates the economic and social channels the weekly cascade moves.
type City struct {
	ID   uint64 `json:"id" db:"id"`
	Name string `json:"name" db:"name"`

	// Economy.
	PublicWorks float64 `json:"public_works" db:"public_works"`
	TaxBase     float64 `json:"tax_base" db:"tax_base"`
	TaxReserve  float64 `json:"tax_reserve" db:"tax_reserve"`
	ImportRate  float64 `json:"import_rate" db:"import_rate"`
	ExportRate  float64 `json:"export_rate" db:"export_rate"`

	// Society.
	Stability float64 `json:"stability" db:"stability"`
	Health    float64 `json:"health" db:"health"`
	Safety    float64 `json:"safety" db:"safety"`

	// Identity.
	Culture  float64 `json:"culture" db:"culture"`
	Science  float64 `json:"science" db:"science"`
	Prestige float64 `json:"prestige" db:"prestige"`

	// Recomputed every weekly pass from resident alive persons.
	Population int `json:"population" db:"population"`

	Unemployment     float64 `json:"unemployment" db:"unemployment"`
	AverageHappiness float64 `json:"average_happiness" db:"average_happiness"`

	InDecline bool `json:"in_decline" db:"in_decline"`
	InUnrest  bool `json:"in_unrest" db:"in_unrest"`

	// Consecutive weekly checks toward the decline and unrest thresholds.
	NegativeReserveWeeks uint64 `json:"negative_reserve_weeks" db:"negative_reserve_weeks"`
	LowStabilityWeeks    uint64 `json:"low_stability_weeks" db:"low_stability_weeks"`
}

// InfrastructureMultiplier scales building maintenance depletion by how
// degraded the city's public works are. 100 public works gives 1.0, zero
// gives 2.0.
func (c *City) InfrastructureMultiplier() float64 {
	m := 2.0 - c.PublicWorks/100.0
	if m < 1.0 {
		return 1.0
	}
	return m
}
