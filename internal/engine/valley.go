package engine

// Valley is a named region whose time-of-day is offset from the base
// region on a four-step cycle, six hours per step. Dawn runs one step
// ahead of Day; Night sits on the opposite side of the cycle.
type Valley string

const (
	ValleyDay   Valley = "day"
	ValleyDawn  Valley = "dawn"
	ValleyNight Valley = "night"
	ValleyDusk  Valley = "dusk"

	valleyStep = HoursPerDay / 4
)

// Offset is the valley's fixed hour offset from the Day valley.
func (v Valley) Offset() uint64 {
	switch v {
	case ValleyDawn:
		return valleyStep
	case ValleyNight:
		return 2 * valleyStep
	case ValleyDusk:
		return 3 * valleyStep
	default:
		return 0
	}
}

// LocalHour converts a base hour-of-day to this valley's local hour.
func (v Valley) LocalHour(baseHour uint64) uint64 {
	return (baseHour + v.Offset()) % HoursPerDay
}
