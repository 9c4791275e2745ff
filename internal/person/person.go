// Package person holds the person entity, its layered need vector, and the
// three per-person passes the hourly tick runs: the depletion calculator,
// the priority resolver, and the action executor.
package person

import "github.com/talgya/chronica/internal/tuning"

// Status is what a person is doing right now. Multi-hour statuses carry an
// until-hour; the resolver is only consulted when Idle.
type Status string

const (
	StatusIdle            Status = "idle"
	StatusWorking         Status = "working"
	StatusSleeping        Status = "sleeping"
	StatusEating          Status = "eating"
	StatusSocializing     Status = "socializing"
	StatusInTransit       Status = "in_transit"
	StatusMaintaining     Status = "maintaining"
	StatusUsingFacilities Status = "using_facilities"
)

// Role marks a specialization that feeds city-level channels.
type Role string

const (
	RoleNone      Role = "none"
	RoleWorker    Role = "worker"
	RoleArtist    Role = "artist"
	RoleScientist Role = "scientist"
)

// Needs is the layered channel vector. Lower levels gate the upper ones:
// fulfillment of level N only lands while level N-1 is adequate.
type Needs struct {
	// Level 1, physiological.
	Consumption float64 `json:"consumption" db:"consumption"`
	Environment float64 `json:"environment" db:"environment"`
	Connection  float64 `json:"connection" db:"connection"`
	Rest        float64 `json:"rest" db:"rest"`
	Waste       float64 `json:"waste" db:"waste"`

	// Level 2, security. Income ranges below zero (debt) and above 100
	// (savings); the rest are 0..100 where high Threat/Stress is bad.
	Threat float64 `json:"threat" db:"threat"`
	Stress float64 `json:"stress" db:"stress"`
	Safety float64 `json:"safety" db:"safety"`
	Income float64 `json:"income" db:"income"`

	// Level 3, belonging. Each sub-channel caps at a third of the level.
	Relationship float64 `json:"relationship" db:"relationship"`
	Social       float64 `json:"social" db:"social"`
	Community    float64 `json:"community" db:"community"`

	// Level 4, esteem. 20 points per achievement.
	Achievements float64 `json:"achievements" db:"achievements"`

	// Level 5, actualization.
	Progression float64 `json:"progression" db:"progression"`
}

// AdequacyL1 averages the physiological channels, counting waste inverted.
func (n *Needs) AdequacyL1() float64 {
	return (n.Consumption + n.Environment + n.Connection + n.Rest + (100 - n.Waste)) / 5
}

// AdequacyL2 averages the security channels. Income counts at most 100 so
// savings cannot mask a threat.
func (n *Needs) AdequacyL2() float64 {
	income := n.Income
	if income > 100 {
		income = 100
	}
	return (n.Safety + (100 - n.Threat) + income + (100 - n.Stress)) / 4
}

// AdequacyL3 sums the three capped sub-channels, giving 0..100.
func (n *Needs) AdequacyL3() float64 {
	return n.Relationship + n.Social + n.Community
}

// AdequacyL4 is the achievement score directly.
func (n *Needs) AdequacyL4() float64 {
	return n.Achievements
}

// LevelActive reports whether fulfillment lands on the given level. Level 1
// is always active; each higher level requires every level below it to be
// adequate.
func (n *Needs) LevelActive(level int, adequate float64) bool {
	switch level {
	case 1:
		return true
	case 2:
		return n.AdequacyL1() >= adequate
	case 3:
		return n.LevelActive(2, adequate) && n.AdequacyL2() >= adequate
	case 4:
		return n.LevelActive(3, adequate) && n.AdequacyL3() >= adequate
	case 5:
		return n.LevelActive(4, adequate) && n.AdequacyL4() >= adequate
	default:
		return false
	}
}

// Clamp forces every channel back into its declared bounds.
func (n *Needs) Clamp(th tuning.Thresholds) {
	n.Consumption = clamp(n.Consumption, 0, th.NeedMax)
	n.Environment = clamp(n.Environment, 0, th.NeedMax)
	n.Connection = clamp(n.Connection, 0, th.NeedMax)
	n.Rest = clamp(n.Rest, 0, th.NeedMax)
	n.Waste = clamp(n.Waste, 0, th.NeedMax)
	n.Threat = clamp(n.Threat, 0, th.NeedMax)
	n.Stress = clamp(n.Stress, 0, th.NeedMax)
	n.Safety = clamp(n.Safety, 0, th.NeedMax)
	n.Income = clamp(n.Income, th.IncomeMin, th.IncomeMax)
	n.Relationship = clamp(n.Relationship, 0, th.SubChannelCap)
	n.Social = clamp(n.Social, 0, th.SubChannelCap)
	n.Community = clamp(n.Community, 0, th.SubChannelCap)
	n.Achievements = clamp(n.Achievements, 0, th.NeedMax)
	n.Progression = clamp(n.Progression, 0, th.NeedMax)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Person is one simulated resident.
type Person struct {
	ID     uint64 `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	CityID uint64 `json:"city_id" db:"city_id"`
	Role   Role   `json:"role" db:"role"`

	// Building ids; zero means none.
	HomeID      uint64 `json:"home_id" db:"home_id"`
	WorkplaceID uint64 `json:"workplace_id" db:"workplace_id"`
	LocationID  uint64 `json:"location_id" db:"location_id"`

	Alive bool `json:"alive" db:"alive"`

	Needs Needs `json:"needs"`

	Status      Status `json:"status" db:"status"`
	StatusUntil uint64 `json:"status_until" db:"status_until"`

	// Destination while in transit.
	TravelTarget uint64 `json:"travel_target" db:"travel_target"`

	// Consecutive hours spent at the critical floor of each threshold
	// channel. The executor turns these into deaths, forced rest, and
	// evictions.
	ZeroFoodHours       uint64 `json:"zero_food_hours" db:"zero_food_hours"`
	ZeroRestHours       uint64 `json:"zero_rest_hours" db:"zero_rest_hours"`
	NegativeIncomeHours uint64 `json:"negative_income_hours" db:"negative_income_hours"`
}

// Busy reports whether a timed status still holds at the given hour. A
// status whose until-hour has passed reverts to Idle.
func (p *Person) Busy(hour uint64) bool {
	return p.Status != StatusIdle && hour < p.StatusUntil
}

// SetStatus enters a timed status lasting the given number of hours.
func (p *Person) SetStatus(s Status, now, hours uint64) {
	p.Status = s
	p.StatusUntil = now + hours
}
