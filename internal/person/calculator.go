package person

import (
	"github.com/talgya/chronica/internal/city"
	"github.com/talgya/chronica/internal/tuning"
)

// Calculator applies per-hour depletion and replenishment to a person's
// needs. Rates come from the tuning table; the occupied location's
// capability and the current season modify them.
type Calculator struct {
	T *tuning.Tuning
}

// NewCalculator builds a calculator over the given tuning table.
func NewCalculator(t *tuning.Tuning) *Calculator {
	return &Calculator{T: t}
}

// AdvanceNeeds moves the person's needs forward by the given number of
// sim-hours. Depletion always applies; replenishment to a level only lands
// while that level is active. Channels are clamped after every hour and the
// threshold counters are updated from the clamped values.
func (c *Calculator) AdvanceNeeds(p *Person, cap city.Capability, season tuning.SeasonFactors, hours uint64) {
	for i := uint64(0); i < hours; i++ {
		c.advanceHour(p, cap, season)
	}
}

func (c *Calculator) advanceHour(p *Person, cap city.Capability, season tuning.SeasonFactors) {
	if !p.Alive {
		return
	}
	r := c.T.Person
	th := c.T.Thresholds
	n := &p.Needs

	n.Consumption += c.consumptionRate(p.Status) * season.Consumption

	n.Environment += c.seasonal(c.environmentRate(cap.Quality), season.Environment)

	n.Connection += r.ConnectionIdle

	rest := c.restRate(p.Status)
	rest += r.StressToRest * (n.Stress / 10)
	c.apply(&n.Rest, rest, 1, n, th)

	n.Waste += r.WasteAccumulation

	// Level 2. High Threat and Stress are bad, so a negative rate is the
	// improving direction and gets gated.
	c.applyInverted(&n.Threat, c.threatRate(cap.Quality), 2, n, th)
	c.applyInverted(&n.Stress, c.stressRate(p), 2, n, th)
	c.apply(&n.Safety, c.safetyRate(p, cap.Quality), 2, n, th)
	n.Income += r.IncomeLivingCost

	// Level 3. Relationship and Social only move through actions.
	n.Community += r.CommunityIdle

	// Level 5. Specialists grow through their craft; anyone can study at an
	// education-serving location.
	switch {
	case p.Status == StatusWorking && p.Role != RoleNone && p.Role != RoleWorker:
		c.apply(&n.Progression, r.ProgressionAtWork, 5, n, th)
	case p.Status == StatusIdle && cap.ServesEducation:
		c.apply(&n.Progression, r.ProgressionAtWork, 5, n, th)
	}

	n.Clamp(th)
	c.updateCounters(p)
}

// apply adds a rate to a grow-up channel, dropping improvement when the
// channel's level is inactive.
func (c *Calculator) apply(ch *float64, rate float64, level int, n *Needs, th tuning.Thresholds) {
	if rate > 0 && !n.LevelActive(level, th.Adequate) {
		return
	}
	*ch += rate
}

// applyInverted is apply for channels where lower is better.
func (c *Calculator) applyInverted(ch *float64, rate float64, level int, n *Needs, th tuning.Thresholds) {
	if rate < 0 && !n.LevelActive(level, th.Adequate) {
		return
	}
	*ch += rate
}

// seasonal scales depletion by the season factor, leaving gains untouched.
func (c *Calculator) seasonal(rate, factor float64) float64 {
	if rate < 0 {
		return rate * factor
	}
	return rate
}

func (c *Calculator) consumptionRate(s Status) float64 {
	switch s {
	case StatusWorking:
		return c.T.Person.ConsumptionWorking
	case StatusSleeping:
		return c.T.Person.ConsumptionSleeping
	default:
		return c.T.Person.ConsumptionIdle
	}
}

func (c *Calculator) environmentRate(quality float64) float64 {
	switch {
	case quality < -1:
		return c.T.Person.EnvironmentHazardous
	case quality > 0:
		return c.T.Person.EnvironmentHealing
	default:
		return c.T.Person.EnvironmentNeutral
	}
}

func (c *Calculator) restRate(s Status) float64 {
	switch s {
	case StatusWorking:
		return c.T.Person.RestWorking
	case StatusSleeping:
		return c.T.Person.RestSleeping
	default:
		return c.T.Person.RestIdle
	}
}

func (c *Calculator) threatRate(quality float64) float64 {
	switch {
	case quality < -1:
		return c.T.Person.ThreatHazardous
	case quality > 0:
		return c.T.Person.ThreatSafe
	default:
		return c.T.Person.ThreatIdle
	}
}

func (c *Calculator) stressRate(p *Person) float64 {
	var rate float64
	switch p.Status {
	case StatusWorking:
		rate = c.T.Person.StressWorking
	case StatusSocializing:
		rate = c.T.Person.StressSocializing
	default:
		rate = c.T.Person.StressIdle
	}
	if p.Needs.Income < c.T.Thresholds.IncomeCritical {
		rate += c.T.Person.StressLowIncome
	}
	return rate
}

func (c *Calculator) safetyRate(p *Person, quality float64) float64 {
	if p.HomeID != 0 && p.LocationID == p.HomeID {
		return c.T.Person.SafetyAtHome
	}
	switch {
	case quality < -1:
		return c.T.Person.SafetyUnsafe
	case quality > 0:
		return c.T.Person.SafetySafe
	default:
		return c.T.Person.SafetyIdle
	}
}

func (c *Calculator) updateCounters(p *Person) {
	if p.Needs.Consumption <= 0 {
		p.ZeroFoodHours++
	} else {
		p.ZeroFoodHours = 0
	}
	if p.Needs.Rest <= 0 {
		p.ZeroRestHours++
	} else {
		p.ZeroRestHours = 0
	}
	if p.Needs.Income < 0 {
		p.NegativeIncomeHours++
	} else {
		p.NegativeIncomeHours = 0
	}
}
