package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/chronica/internal/tuning"
)

type fakeClock struct {
	ms int64
}

func (f *fakeClock) Now() time.Time { return time.UnixMilli(f.ms) }

func newEmptySim() *Simulation {
	return New(tuning.Default(), nil)
}

func TestAutotick_DisabledByDefault(t *testing.T) {
	sim := newEmptySim()
	clk := &fakeClock{ms: 5000}

	applied, err := sim.CheckAutotick(clk)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), applied)
	assert.Equal(t, uint64(0), sim.CurrentHour())
	assert.Equal(t, int64(5000), sim.AutotickerStatus().LastCheckMS)
}

func TestAutotick_OneHourPerInterval(t *testing.T) {
	sim := newEmptySim()
	clk := &fakeClock{}
	require.NoError(t, sim.SetTickRate(RateTest, clk))
	sim.StartAutoticker(clk)

	clk.ms = 999
	applied, err := sim.CheckAutotick(clk)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), applied)

	clk.ms = 1000
	applied, err = sim.CheckAutotick(clk)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), applied)
	assert.Equal(t, uint64(1), sim.CurrentHour())
	assert.Equal(t, int64(2000), sim.AutotickerStatus().NextDueMS)
}

func TestAutotick_CatchesUpMissedIntervals(t *testing.T) {
	sim := newEmptySim()
	clk := &fakeClock{}
	require.NoError(t, sim.SetTickRate(RateTest, clk))
	sim.StartAutoticker(clk)

	// 5.5 intervals pass unobserved; one check applies all of them.
	clk.ms = 5500
	applied, err := sim.CheckAutotick(clk)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), applied)
	assert.Equal(t, uint64(5), sim.CurrentHour())
	assert.Equal(t, int64(6000), sim.AutotickerStatus().NextDueMS)
}

func TestAutotick_PausedWorldHoldsStill(t *testing.T) {
	sim := newEmptySim()
	clk := &fakeClock{}
	require.NoError(t, sim.SetTickRate(RateTest, clk))
	sim.StartAutoticker(clk)
	require.True(t, sim.Toggle())

	clk.ms = 10000
	applied, err := sim.CheckAutotick(clk)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), applied)
	assert.Equal(t, uint64(0), sim.CurrentHour())

	// Manual ticking is refused until the world resumes.
	assert.ErrorIs(t, sim.Tick(), ErrPaused)
	assert.ErrorIs(t, sim.Skip(5), ErrPaused)
	assert.Equal(t, uint64(0), sim.CurrentHour())

	require.False(t, sim.Toggle())
	require.NoError(t, sim.Tick())
	assert.Equal(t, uint64(1), sim.CurrentHour())
}

func TestAutotick_StopPreventsAdvancement(t *testing.T) {
	sim := newEmptySim()
	clk := &fakeClock{}
	require.NoError(t, sim.SetTickRate(RateTest, clk))
	sim.StartAutoticker(clk)
	sim.StopAutoticker()

	clk.ms = 3000
	applied, err := sim.CheckAutotick(clk)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), applied)
}

func TestSetTickRate_RejectsUnknownNames(t *testing.T) {
	sim := newEmptySim()
	clk := &fakeClock{}

	err := sim.SetTickRate("ludicrous", clk)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "rate", verr.Field)
}

func TestSetTickInterval_RejectsNonPositive(t *testing.T) {
	sim := newEmptySim()
	clk := &fakeClock{}

	var verr *ValidationError
	require.ErrorAs(t, sim.SetTickInterval(0, clk), &verr)
	require.ErrorAs(t, sim.SetTickInterval(-50, clk), &verr)
}

func TestSetTickInterval_ReschedulesWhileRunning(t *testing.T) {
	sim := newEmptySim()
	clk := &fakeClock{ms: 1000}
	sim.StartAutoticker(clk)

	clk.ms = 2000
	require.NoError(t, sim.SetTickInterval(500, clk))
	assert.Equal(t, int64(2500), sim.AutotickerStatus().NextDueMS)
}

func TestNamedRates(t *testing.T) {
	assert.Equal(t, int64(3600000), TickRates[RateRealtime])
	assert.Equal(t, int64(300000), TickRates[RateSlow])
	assert.Equal(t, int64(60000), TickRates[RateFast])
	assert.Equal(t, int64(10000), TickRates[RateVeryFast])
	assert.Equal(t, int64(1000), TickRates[RateTest])
}
