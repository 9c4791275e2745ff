package person

import (
	"math"

	"github.com/talgya/chronica/internal/city"
	"github.com/talgya/chronica/internal/event"
	"github.com/talgya/chronica/internal/tuning"
)

// Executor applies a resolved action to a person and its target building,
// and turns threshold breaches into lifecycle events. Deltas land
// immediately; the timed status then occupies the person for the action's
// duration.
type Executor struct {
	T *tuning.Tuning
}

// NewExecutor builds an executor over the given tuning table.
func NewExecutor(t *tuning.Tuning) *Executor {
	return &Executor{T: t}
}

// Apply performs the action at the given hour. target is the building the
// action runs against; nil is only valid for ActionNone. Returns the events
// the action produced.
func (e *Executor) Apply(p *Person, a Action, target *city.Building, now uint64) []event.Event {
	act := e.T.Actions
	th := e.T.Thresholds
	n := &p.Needs
	var out []event.Event

	switch a.Kind {
	case ActionNone:
		return nil

	case ActionMove:
		p.SetStatus(StatusInTransit, now, a.TravelHours)
		p.TravelTarget = a.BuildingID
		n.Rest += act.MoveRestCostPerHour * float64(a.TravelHours)
		out = append(out, event.New(now, event.KindMovement, event.EntityPerson, p.ID, "departed").At(a.BuildingID))

	case ActionWork:
		p.SetStatus(StatusWorking, now, act.WorkDuration)
		n.Rest += act.WorkRestCost
		n.Stress += act.WorkStressGain
		wage := act.WorkIncomeGain
		if target != nil && target.Work != nil && target.Work.BaseWage > 0 {
			wage = target.Work.BaseWage
		}
		if n.LevelActive(2, th.Adequate) {
			n.Income += wage
		}
		if target != nil {
			target.AccrueWorkerHours(float64(act.WorkDuration),
				e.T.Upgrades.WorkHoursEfficiency, e.T.Upgrades.WorkHoursPrestige)
		}
		out = append(out, event.New(now, event.KindWork, event.EntityPerson, p.ID, "shift").At(a.BuildingID).WithAmount(float64(act.WorkDuration)))

	case ActionSleep:
		p.SetStatus(StatusSleeping, now, act.SleepDuration)
		n.Rest += act.SleepRestGain
		out = append(out, event.New(now, event.KindNeedFulfillment, event.EntityPerson, p.ID, "sleep").At(a.BuildingID).WithAmount(act.SleepRestGain))

	case ActionEat:
		p.SetStatus(StatusEating, now, act.EatDuration)
		n.Consumption += act.EatFoodGain
		n.Income -= act.EatMealCost
		out = append(out, event.New(now, event.KindNeedFulfillment, event.EntityPerson, p.ID, "meal").At(a.BuildingID).WithAmount(act.EatFoodGain))

	case ActionSocialize:
		p.SetStatus(StatusSocializing, now, act.SocializeDuration)
		if n.LevelActive(3, th.Adequate) {
			n.Social += act.SocializeSocialGain
		}
		if n.LevelActive(2, th.Adequate) {
			n.Stress += act.SocializeStressLoss
		}
		out = append(out, event.New(now, event.KindSocial, event.EntityPerson, p.ID, "gathering").At(a.BuildingID))

	case ActionUseFacilities:
		p.SetStatus(StatusUsingFacilities, now, act.FacilitiesDuration)
		n.Waste += act.FacilitiesWasteLoss
		out = append(out, event.New(now, event.KindNeedFulfillment, event.EntityPerson, p.ID, "facilities").At(a.BuildingID))

	case ActionMaintain:
		p.SetStatus(StatusMaintaining, now, act.MaintainDuration)
		if target != nil {
			target.Maintenance = math.Min(target.Maintenance+act.MaintainGain, th.NeedMax)
			out = append(out, event.New(now, event.KindBuilding, event.EntityBuilding, target.ID, "maintained").At(target.ID).WithAmount(act.MaintainGain))
		}

	case ActionClean:
		p.SetStatus(StatusMaintaining, now, act.CleanDuration)
		if target != nil {
			target.Cleanliness = math.Min(target.Cleanliness+act.CleanGain, th.NeedMax)
			out = append(out, event.New(now, event.KindBuilding, event.EntityBuilding, target.ID, "cleaned").At(target.ID).WithAmount(act.CleanGain))
		}

	case ActionPayRent:
		if target != nil && target.Home != nil && target.Home.RentBalance < 0 {
			owed := -target.Home.RentBalance
			pay := math.Min(math.Max(n.Income, 0), owed)
			n.Income -= pay
			target.Home.RentBalance += pay
			out = append(out, event.New(now, event.KindBuilding, event.EntityBuilding, target.ID, "rent_paid").At(target.ID).WithAmount(pay))
		}
	}

	n.Clamp(th)
	return out
}

// CheckThresholds converts sustained critical states into lifecycle
// transitions. Runs once per person per hour, after depletion.
func (e *Executor) CheckThresholds(p *Person, now uint64) []event.Event {
	if !p.Alive {
		return nil
	}
	th := e.T.Thresholds
	var out []event.Event

	if p.ZeroFoodHours >= th.StarvationHours {
		p.Alive = false
		p.Status = StatusIdle
		p.StatusUntil = now
		out = append(out, event.New(now, event.KindDeath, event.EntityPerson, p.ID, "starvation").At(p.LocationID))
		return out
	}

	if p.ZeroRestHours >= th.ForcedRestHours && p.Status != StatusSleeping {
		p.SetStatus(StatusSleeping, now, e.T.Actions.SleepDuration)
		p.Needs.Rest += e.T.Actions.SleepRestGain
		p.Needs.Clamp(th)
		p.ZeroRestHours = 0
		out = append(out, event.New(now, event.KindForcedRest, event.EntityPerson, p.ID, "collapsed").At(p.LocationID))
	}

	if p.NegativeIncomeHours >= th.EvictionDays*24 && p.HomeID != 0 {
		evictedFrom := p.HomeID
		p.HomeID = 0
		p.NegativeIncomeHours = 0
		out = append(out, event.New(now, event.KindEviction, event.EntityPerson, p.ID, "evicted").At(evictedFrom))
	}

	return out
}
