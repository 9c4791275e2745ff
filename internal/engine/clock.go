package engine

// Sim calendar: 24-hour days, 6-day weeks, 30-day months, 12 months per
// year. Entering day-of-year 120 or 240 opens a leap occurrence that holds
// the calendar still while the raw hour counter keeps climbing.
const (
	HoursPerDay   = 24
	DaysPerWeek   = 6
	DaysPerMonth  = 30
	MonthsPerYear = 12
	DaysPerYear   = DaysPerMonth * MonthsPerYear
	HoursPerWeek  = HoursPerDay * DaysPerWeek
	HoursPerYear  = HoursPerDay * DaysPerYear

	leapDayFirst   = 120
	leapDaySecond  = 240
	leapHours      = 60
	leapHoursLong  = 72
	leapLongEvery  = 4
)

// Season is one of the four 90-day stretches of the year.
type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
	SeasonWinter Season = "winter"
)

// Clock tracks raw simulation hours and the derived calendar. The raw Hour
// is monotonic and never pauses; CalendarHour lags behind it by the total
// length of every leap occurrence seen so far.
type Clock struct {
	Hour         uint64 `json:"hour" db:"hour"`
	CalendarHour uint64 `json:"calendar_hour" db:"calendar_hour"`

	// Hours left in the open leap occurrence; zero when none is open.
	FreezeRemaining uint64 `json:"freeze_remaining" db:"freeze_remaining"`
}

// SimTime is a snapshot of the derived calendar.
type SimTime struct {
	Hour      uint64 `json:"hour"`
	Year      uint64 `json:"year"`
	Month     uint64 `json:"month"`
	DayOfYear uint64 `json:"day_of_year"`
	DayOfMonth uint64 `json:"day_of_month"`
	Weekday   uint64 `json:"weekday"`
	HourOfDay uint64 `json:"hour_of_day"`
	Season    Season `json:"season"`
	InLeap    bool   `json:"in_leap"`
}

// Advance moves the clock forward by the given number of sim-hours,
// opening and draining leap occurrences along the way.
func (c *Clock) Advance(hours uint64) {
	for i := uint64(0); i < hours; i++ {
		c.tick()
	}
}

func (c *Clock) tick() {
	c.Hour++
	if c.FreezeRemaining > 0 {
		c.FreezeRemaining--
		return
	}
	c.CalendarHour++
	if c.CalendarHour%HoursPerDay != 0 {
		return
	}
	day := c.dayOfYear()
	if day == leapDayFirst || day == leapDaySecond {
		c.FreezeRemaining = leapHours
		if c.Year()%leapLongEvery == 0 {
			c.FreezeRemaining = leapHoursLong
		}
	}
}

// Year is 1-based.
func (c *Clock) Year() uint64 {
	return c.CalendarHour/HoursPerYear + 1
}

func (c *Clock) dayOfYear() uint64 {
	return (c.CalendarHour%HoursPerYear)/HoursPerDay + 1
}

// Time derives the full calendar snapshot.
func (c *Clock) Time() SimTime {
	day := c.dayOfYear()
	return SimTime{
		Hour:       c.Hour,
		Year:       c.Year(),
		Month:      (day-1)/DaysPerMonth + 1,
		DayOfYear:  day,
		DayOfMonth: (day-1)%DaysPerMonth + 1,
		Weekday:    (c.CalendarHour / HoursPerDay) % DaysPerWeek,
		HourOfDay:  c.CalendarHour % HoursPerDay,
		Season:     SeasonFor(day),
		InLeap:     c.FreezeRemaining > 0,
	}
}

// SeasonFor maps a day of year to its season.
func SeasonFor(dayOfYear uint64) Season {
	switch {
	case dayOfYear <= 90:
		return SeasonSpring
	case dayOfYear <= 180:
		return SeasonSummer
	case dayOfYear <= 270:
		return SeasonAutumn
	default:
		return SeasonWinter
	}
}
