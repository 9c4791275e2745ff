package person

import (
	"math"

	"github.com/talgya/chronica/internal/city"
	"github.com/talgya/chronica/internal/tuning"
)

// Need names the channel group a resolver candidate addresses.
type Need string

const (
	NeedWaste       Need = "waste"
	NeedConsumption Need = "consumption"
	NeedRest        Need = "rest"
	NeedSafety      Need = "safety"
	NeedIncome      Need = "income"
	NeedEnvironment Need = "environment"
	NeedStress      Need = "stress"
	NeedSocial      Need = "social"
	NeedHigher      Need = "higher"
)

// ActionKind is the closed set of things a person can decide to do.
type ActionKind string

const (
	ActionNone          ActionKind = "none"
	ActionMove          ActionKind = "move"
	ActionWork          ActionKind = "work"
	ActionSleep         ActionKind = "sleep"
	ActionEat           ActionKind = "eat"
	ActionSocialize     ActionKind = "socialize"
	ActionUseFacilities ActionKind = "use_facilities"
	ActionMaintain      ActionKind = "maintain"
	ActionClean         ActionKind = "clean"
	ActionPayRent       ActionKind = "pay_rent"
)

// Action is a resolved decision: what to do and where.
type Action struct {
	Kind        ActionKind
	BuildingID  uint64
	TravelHours uint64
}

// LocationPicker chooses a destination that can serve a need. Injectable so
// alternative movement strategies can be swapped in.
type LocationPicker interface {
	Pick(p *Person, need Need, current *city.Building, all []*city.Building) (*city.Building, bool)
}

// Resolver turns a person's current needs into the single most urgent
// action. Urgency is deficit times a per-need weight; only candidates past
// their critical threshold compete, and a weighted score must clear the
// urgency floor before any action is taken.
type Resolver struct {
	T      *tuning.Tuning
	Picker LocationPicker
}

// NewResolver builds a resolver with the default score-based picker.
func NewResolver(t *tuning.Tuning) *Resolver {
	return &Resolver{T: t, Picker: &ScorePicker{}}
}

type candidate struct {
	need    Need
	urgency float64
	level   int
}

// MostPressing returns the highest-urgency need, or false when nothing
// clears the urgency floor. Ties break toward the lower need level.
func (r *Resolver) MostPressing(p *Person) (Need, float64, bool) {
	th := r.T.Thresholds
	w := r.T.Priority
	n := &p.Needs

	var cands []candidate
	if n.Waste > th.WasteCritical {
		cands = append(cands, candidate{NeedWaste, n.Waste * w.Waste, 1})
	}
	if n.Consumption < th.CriticalLow {
		cands = append(cands, candidate{NeedConsumption, (th.NeedMax - n.Consumption) * w.Consumption, 1})
	}
	if n.Rest < th.CriticalLow {
		cands = append(cands, candidate{NeedRest, (th.NeedMax - n.Rest) * w.Rest, 1})
	}
	if n.Environment < th.CriticalLow {
		cands = append(cands, candidate{NeedEnvironment, (th.NeedMax - n.Environment) * w.Environment, 1})
	}
	if n.LevelActive(2, th.Adequate) {
		if n.Safety < th.CriticalLow {
			cands = append(cands, candidate{NeedSafety, (th.NeedMax - n.Safety) * w.Safety, 2})
		}
		if n.Income < th.IncomeCritical {
			income := math.Min(n.Income, th.NeedMax)
			cands = append(cands, candidate{NeedIncome, (th.NeedMax - income) * w.Income, 2})
		}
		if n.Stress > th.StressCritical {
			cands = append(cands, candidate{NeedStress, n.Stress * w.Stress, 2})
		}
	}
	if n.LevelActive(3, th.Adequate) && n.Community < 10 {
		cands = append(cands, candidate{NeedSocial, (th.SubChannelCap - n.Community) * w.Social, 3})
	}
	if n.LevelActive(5, th.Adequate) && n.Progression < th.Adequate {
		cands = append(cands, candidate{NeedHigher, (th.NeedMax - n.Progression) * w.Higher, 5})
	}

	var best candidate
	found := false
	for _, c := range cands {
		if c.urgency <= th.Urgent {
			continue
		}
		switch {
		case !found,
			c.urgency > best.urgency,
			c.urgency == best.urgency && c.level < best.level:
			best = c
			found = true
		}
	}
	if !found {
		return "", 0, false
	}
	return best.need, best.urgency, true
}

// SelectAction resolves the most pressing need to a concrete action. When
// the chosen location differs from the current one, the action is a Move
// toward it and the real fulfillment happens on arrival.
func (r *Resolver) SelectAction(p *Person, current *city.Building, all []*city.Building) (Action, bool) {
	need, _, ok := r.MostPressing(p)
	if !ok {
		return Action{Kind: ActionNone}, false
	}
	target, ok := r.Picker.Pick(p, need, current, all)
	if !ok {
		return Action{Kind: ActionNone}, false
	}
	if target.ID != p.LocationID {
		dist := city.Distance(current, target)
		return Action{Kind: ActionMove, BuildingID: target.ID, TravelHours: city.TravelTime(dist)}, true
	}
	kind, ok := r.actionFor(p, need, target)
	if !ok {
		return Action{Kind: ActionNone}, false
	}
	return Action{Kind: kind, BuildingID: target.ID}, true
}

func (r *Resolver) actionFor(p *Person, need Need, target *city.Building) (ActionKind, bool) {
	switch need {
	case NeedWaste:
		return ActionUseFacilities, true
	case NeedConsumption:
		if p.Needs.Income < r.T.Actions.EatMealCost {
			return ActionNone, false
		}
		return ActionEat, true
	case NeedRest:
		return ActionSleep, true
	case NeedSafety, NeedEnvironment:
		if p.HomeID != 0 && target.ID == p.HomeID {
			return ActionSleep, true
		}
		// Being at a good location is the fulfillment.
		return ActionNone, false
	case NeedIncome, NeedHigher:
		if p.WorkplaceID == 0 || target.ID != p.WorkplaceID {
			return ActionNone, false
		}
		return ActionWork, true
	case NeedStress, NeedSocial:
		return ActionSocialize, true
	default:
		return ActionNone, false
	}
}

// ScorePicker scores every candidate that can serve the need and still has
// room, then takes the best. Score favors quality and prestige, gives a
// bonus to the person's own home and workplace, and penalizes distance.
type ScorePicker struct{}

func (s *ScorePicker) Pick(p *Person, need Need, current *city.Building, all []*city.Building) (*city.Building, bool) {
	var best *city.Building
	bestScore := math.Inf(-1)
	for _, b := range all {
		if !b.HasRoom() && b.ID != p.LocationID {
			continue
		}
		if !s.serves(p, need, b) {
			continue
		}
		dist := city.Distance(current, b)
		score := b.Quality + float64(b.Prestige)*0.2 - dist*0.1
		if p.HomeID != 0 && b.ID == p.HomeID {
			score += 2.0
		}
		if p.WorkplaceID != 0 && b.ID == p.WorkplaceID {
			score += 1.0
		}
		if score > bestScore {
			best = b
			bestScore = score
		}
	}
	return best, best != nil
}

func (s *ScorePicker) serves(p *Person, need Need, b *city.Building) bool {
	cap := b.Capability()
	switch need {
	case NeedWaste:
		return cap.ServesFacilities
	case NeedConsumption:
		return cap.ServesConsumption
	case NeedRest:
		return cap.ServesRest && p.HomeID != 0 && b.ID == p.HomeID
	case NeedSafety, NeedEnvironment:
		return cap.Quality > 0 || cap.ServesHealth ||
			(p.HomeID != 0 && b.ID == p.HomeID && cap.ServesRest)
	case NeedIncome, NeedHigher:
		return p.WorkplaceID != 0 && b.ID == p.WorkplaceID
	case NeedStress, NeedSocial:
		return cap.ServesSocial || cap.ServesCulture
	default:
		return false
	}
}
