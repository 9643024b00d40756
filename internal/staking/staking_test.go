package staking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleRewards(t *testing.T) {
	// $1000 at 12% APR for a full year.
	assert.InDelta(t, 120.0, SimpleRewards(1000, 12, 365), 1e-9)

	// Proportional to days.
	assert.InDelta(t, 60.0, SimpleRewards(1000, 12, 182.5), 1e-9)

	assert.Equal(t, 0.0, SimpleRewards(0, 12, 365))
	assert.Equal(t, 0.0, SimpleRewards(1000, -1, 365))
	assert.Equal(t, 0.0, SimpleRewards(1000, 12, 0))
}

func TestCompoundedRewards_None(t *testing.T) {
	p := CompoundedRewards(1000, 12, 365, CompoundNone)

	assert.InDelta(t, 120.0, p.Rewards, 1e-9)
	assert.InDelta(t, 1120.0, p.FinalBalance, 1e-9)
	assert.Equal(t, 12.0, p.EffectiveAPY, "no compounding reports the APR itself")

	// Must agree with SimpleRewards exactly.
	assert.Equal(t, SimpleRewards(1000, 12, 365), p.Rewards)
}

func TestCompoundedRewards_Daily(t *testing.T) {
	p := CompoundedRewards(1000, 12, 365, CompoundDaily)

	// (1 + 0.12/365)^365 - 1 is about 12.7475%.
	assert.InDelta(t, 12.7475, p.EffectiveAPY, 0.001)
	assert.InDelta(t, 127.475, p.Rewards, 0.01)
	assert.InDelta(t, p.FinalBalance, 1000+p.Rewards, 1e-9)
}

func TestCompoundedRewards_FrequencyOrdering(t *testing.T) {
	daily := CompoundedRewards(1000, 12, 365, CompoundDaily)
	weekly := CompoundedRewards(1000, 12, 365, CompoundWeekly)
	monthly := CompoundedRewards(1000, 12, 365, CompoundMonthly)
	yearly := CompoundedRewards(1000, 12, 365, CompoundYearly)
	simple := CompoundedRewards(1000, 12, 365, CompoundNone)

	assert.Greater(t, daily.Rewards, weekly.Rewards)
	assert.Greater(t, weekly.Rewards, monthly.Rewards)
	assert.Greater(t, monthly.Rewards, yearly.Rewards)

	// One yearly compounding period over one year equals simple interest.
	assert.InDelta(t, simple.Rewards, yearly.Rewards, 1e-9)
}

func TestCompoundedRewards_InvalidInput(t *testing.T) {
	for _, p := range []Projection{
		CompoundedRewards(0, 12, 365, CompoundDaily),
		CompoundedRewards(-5, 12, 365, CompoundDaily),
		CompoundedRewards(1000, -1, 365, CompoundDaily),
		CompoundedRewards(1000, 12, 0, CompoundDaily),
	} {
		assert.Zero(t, p.Rewards)
		assert.Zero(t, p.EffectiveAPY)
	}

	// The invalid-input projection still reports the principal when it is
	// positive.
	p := CompoundedRewards(1000, -1, 365, CompoundDaily)
	assert.Equal(t, 1000.0, p.FinalBalance)
}

func TestWithLockup(t *testing.T) {
	locked := WithLockup(1000, 12, 30, 90, CompoundDaily)
	assert.True(t, locked.IsLocked)
	assert.Equal(t, 60.0, locked.DaysUntilUnlock)
	assert.Greater(t, locked.Rewards, 0.0, "lockup does not gate accrual")

	unlocked := WithLockup(1000, 12, 90, 90, CompoundDaily)
	assert.False(t, unlocked.IsLocked)
	assert.Equal(t, 0.0, unlocked.DaysUntilUnlock)

	past := WithLockup(1000, 12, 365, 30, CompoundDaily)
	assert.False(t, past.IsLocked)
	assert.Equal(t, 0.0, past.DaysUntilUnlock)
}

func TestCompareFrequencies(t *testing.T) {
	results := CompareFrequencies(1000, 12, 365)
	require.Len(t, results, 5)

	for _, f := range Frequencies() {
		p, ok := results[f]
		require.True(t, ok, f.String())
		assert.Equal(t, CompoundedRewards(1000, 12, 365, f), p)
	}
}

func TestParseFrequency(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Frequency
	}{
		{"none", CompoundNone},
		{"", CompoundNone},
		{"daily", CompoundDaily},
		{"weekly", CompoundWeekly},
		{"monthly", CompoundMonthly},
		{"yearly", CompoundYearly},
	} {
		got, err := ParseFrequency(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	_, err := ParseFrequency("hourly")
	assert.Error(t, err)
}
