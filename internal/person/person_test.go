package person

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/chronica/internal/tuning"
)

func TestAdequacyL1_CountsWasteInverted(t *testing.T) {
	n := Needs{Consumption: 80, Environment: 70, Connection: 60, Rest: 90, Waste: 20}
	// (80 + 70 + 60 + 90 + 80) / 5
	assert.InDelta(t, 76.0, n.AdequacyL1(), 0.001)
}

func TestAdequacyL2_CapsIncomeAtHundred(t *testing.T) {
	n := Needs{Safety: 80, Threat: 10, Stress: 20, Income: 500}
	// (80 + 90 + 100 + 80) / 4; savings beyond 100 do not raise adequacy.
	assert.InDelta(t, 87.5, n.AdequacyL2(), 0.001)

	n.Income = 40
	assert.InDelta(t, 72.5, n.AdequacyL2(), 0.001)
}

func TestAdequacyL3_SumsCappedSubChannels(t *testing.T) {
	n := Needs{Relationship: 33.3, Social: 33.3, Community: 33.3}
	assert.InDelta(t, 99.9, n.AdequacyL3(), 0.001)
}

func TestLevelActive_GatesOnEveryLowerLevel(t *testing.T) {
	adequate := 50.0

	n := Needs{
		Consumption: 80, Environment: 80, Connection: 80, Rest: 80, Waste: 10,
		Safety: 80, Threat: 10, Stress: 10, Income: 80,
		Relationship: 25, Social: 25, Community: 25,
		Achievements: 60,
	}
	for level := 1; level <= 5; level++ {
		assert.True(t, n.LevelActive(level, adequate), "level %d", level)
	}

	// Tanking level 1 deactivates everything above it, even though the
	// upper channels themselves are untouched.
	n.Consumption, n.Environment, n.Connection, n.Rest = 0, 0, 0, 0
	n.Waste = 90
	assert.True(t, n.LevelActive(1, adequate))
	for level := 2; level <= 5; level++ {
		assert.False(t, n.LevelActive(level, adequate), "level %d", level)
	}
}

func TestClamp_EnforcesChannelBounds(t *testing.T) {
	th := tuning.Default().Thresholds
	n := Needs{
		Consumption: 150, Rest: -10, Waste: 200,
		Income: -500, Relationship: 80, Social: 50, Community: -3,
	}
	n.Clamp(th)

	assert.Equal(t, 100.0, n.Consumption)
	assert.Equal(t, 0.0, n.Rest)
	assert.Equal(t, 100.0, n.Waste)
	assert.Equal(t, -100.0, n.Income)
	assert.Equal(t, 33.3, n.Relationship)
	assert.Equal(t, 33.3, n.Social)
	assert.Equal(t, 0.0, n.Community)

	// Savings above 100 are legal up to the income ceiling.
	n.Income = 2000
	n.Clamp(th)
	assert.Equal(t, 1000.0, n.Income)
}

func TestBusyAndSetStatus(t *testing.T) {
	p := &Person{Status: StatusIdle}
	require.False(t, p.Busy(10))

	p.SetStatus(StatusSleeping, 10, 8)
	assert.True(t, p.Busy(12))
	assert.True(t, p.Busy(17))
	assert.False(t, p.Busy(18))
}
