package engine

import "time"

// WallClock abstracts wall time so the synchronizer can be tested against
// a fake clock.
type WallClock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// Named tick rates, milliseconds of wall time per sim-hour.
const (
	RateRealtime = "realtime"
	RateSlow     = "slow"
	RateFast     = "fast"
	RateVeryFast = "very_fast"
	RateTest     = "test"
)

// TickRates maps rate names to their interval.
var TickRates = map[string]int64{
	RateRealtime: 3600000,
	RateSlow:     300000,
	RateFast:     60000,
	RateVeryFast: 10000,
	RateTest:     1000,
}

// Autoticker maps elapsed wall time to sim-hours at a configured rate.
// State only moves through start, stop, rate changes, and the check
// routine; a missed check lags and catches up, it never fails.
type Autoticker struct {
	Enabled     bool  `json:"enabled" db:"enabled"`
	IntervalMS  int64 `json:"interval_ms" db:"interval_ms"`
	LastCheckMS int64 `json:"last_check_ms" db:"last_check_ms"`
	NextDueMS   int64 `json:"next_due_ms" db:"next_due_ms"`
}

// NewAutoticker returns a disabled ticker at the fast rate.
func NewAutoticker() Autoticker {
	return Autoticker{IntervalMS: TickRates[RateFast]}
}

// StartAutoticker enables real-time advancement, scheduling the first due
// time one interval out.
func (s *Simulation) StartAutoticker(clk WallClock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := clk.Now().UnixMilli()
	s.auto.Enabled = true
	s.auto.LastCheckMS = now
	s.auto.NextDueMS = now + s.auto.IntervalMS
}

// StopAutoticker disables real-time advancement.
func (s *Simulation) StopAutoticker() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auto.Enabled = false
}

// SetTickRate switches to a named rate. Unknown names are rejected.
func (s *Simulation) SetTickRate(name string, clk WallClock) error {
	interval, ok := TickRates[name]
	if !ok {
		return &ValidationError{Field: "rate", Reason: "unknown rate name"}
	}
	return s.SetTickInterval(interval, clk)
}

// SetTickInterval switches to a custom interval in milliseconds per
// sim-hour and reschedules the next due time from now.
func (s *Simulation) SetTickInterval(ms int64, clk WallClock) error {
	if ms <= 0 {
		return &ValidationError{Field: "interval_ms", Reason: "must be positive"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auto.IntervalMS = ms
	if s.auto.Enabled {
		s.auto.NextDueMS = clk.Now().UnixMilli() + ms
	}
	return nil
}

// AutotickerStatus returns a copy of the ticker state.
func (s *Simulation) AutotickerStatus() Autoticker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.auto
}

// CheckAutotick applies however many sim-hours have fallen due since the
// last check, catching up in one batch. The due time is re-verified under
// the write lock; losing that race twice returns ErrConflict.
func (s *Simulation) CheckAutotick(clk WallClock) (uint64, error) {
	for attempt := 0; attempt < 2; attempt++ {
		s.mu.RLock()
		enabled := s.auto.Enabled
		interval := s.auto.IntervalMS
		due := s.auto.NextDueMS
		paused := s.paused
		s.mu.RUnlock()

		now := clk.Now().UnixMilli()
		if !enabled || paused || now < due {
			s.mu.Lock()
			s.auto.LastCheckMS = now
			s.mu.Unlock()
			return 0, nil
		}

		n := 1 + uint64((now-due)/interval)

		s.mu.Lock()
		if s.auto.NextDueMS != due || s.auto.IntervalMS != interval {
			s.mu.Unlock()
			continue
		}
		s.auto.NextDueMS = due + int64(n)*interval
		s.auto.LastCheckMS = now
		s.advance(n)
		s.mu.Unlock()
		return n, nil
	}
	return 0, ErrConflict
}
