// Package event defines the discrete event records the simulation emits for
// downstream narrative consumers. Events are append-only and keyed by
// (entity, hour); the engine never reads them back.
package event

import "github.com/google/uuid"

// Kind categorizes an event for the narrative layer.
type Kind string

const (
	KindMovement        Kind = "movement"
	KindWork            Kind = "work"
	KindSocial          Kind = "social"
	KindBuilding        Kind = "building"
	KindNeedFulfillment Kind = "need_fulfillment"
	KindDeath           Kind = "death"
	KindForcedRest      Kind = "forced_rest"
	KindEviction        Kind = "eviction"
	KindCondemnation    Kind = "condemnation"
	KindDecline         Kind = "decline"
	KindUnrest          Kind = "unrest"
	KindCityMilestone   Kind = "city_milestone"
)

// EntityKind says which table the EntityID refers to.
type EntityKind string

const (
	EntityPerson   EntityKind = "person"
	EntityBuilding EntityKind = "building"
	EntityCity     EntityKind = "city"
)

// Event is one notable occurrence in the world.
type Event struct {
	ID         string     `json:"id" db:"id"`
	Hour       uint64     `json:"hour" db:"hour"`
	Kind       Kind       `json:"kind" db:"kind"`
	EntityKind EntityKind `json:"entity_kind" db:"entity_kind"`
	EntityID   uint64     `json:"entity_id" db:"entity_id"`
	LocationID uint64     `json:"location_id,omitempty" db:"location_id"`
	Amount     float64    `json:"amount,omitempty" db:"amount"`
	Detail     string     `json:"detail" db:"detail"`
}

// New builds an event with a fresh row id.
func New(hour uint64, kind Kind, ek EntityKind, entityID uint64, detail string) Event {
	return Event{
		ID:         uuid.NewString(),
		Hour:       hour,
		Kind:       kind,
		EntityKind: ek,
		EntityID:   entityID,
		Detail:     detail,
	}
}

// At returns a copy of the event tagged with a location.
func (e Event) At(locationID uint64) Event {
	e.LocationID = locationID
	return e
}

// WithAmount returns a copy of the event carrying a magnitude.
func (e Event) WithAmount(v float64) Event {
	e.Amount = v
	return e
}
