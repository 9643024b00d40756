// Package staking projects staking rewards under selectable compounding
// frequencies, with lockup-period gating and a frequency comparison table.
// All functions are pure and deterministic.
package staking

import (
	"fmt"
	"math"
)

// Frequency selects how often staking rewards are compounded.
type Frequency int

const (
	CompoundNone Frequency = iota
	CompoundDaily
	CompoundWeekly
	CompoundMonthly
	CompoundYearly
)

// Frequencies lists every supported frequency in comparison order.
func Frequencies() []Frequency {
	return []Frequency{CompoundNone, CompoundDaily, CompoundWeekly, CompoundMonthly, CompoundYearly}
}

// String returns the wire form of the frequency.
func (f Frequency) String() string {
	switch f {
	case CompoundNone:
		return "none"
	case CompoundDaily:
		return "daily"
	case CompoundWeekly:
		return "weekly"
	case CompoundMonthly:
		return "monthly"
	case CompoundYearly:
		return "yearly"
	default:
		return "unknown"
	}
}

// ParseFrequency parses the wire form of a compounding frequency.
func ParseFrequency(s string) (Frequency, error) {
	switch s {
	case "none", "":
		return CompoundNone, nil
	case "daily":
		return CompoundDaily, nil
	case "weekly":
		return CompoundWeekly, nil
	case "monthly":
		return CompoundMonthly, nil
	case "yearly":
		return CompoundYearly, nil
	default:
		return CompoundNone, fmt.Errorf("invalid compounding frequency: %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Frequency) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Frequency) UnmarshalText(data []byte) error {
	parsed, err := ParseFrequency(string(data))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

func (f Frequency) periodsPerYear() float64 {
	switch f {
	case CompoundDaily:
		return 365
	case CompoundWeekly:
		return 52
	case CompoundMonthly:
		return 12
	case CompoundYearly:
		return 1
	default:
		return 365
	}
}

// Projection holds the outcome of a reward calculation. EffectiveAPY is the
// one-year-equivalent rate of the chosen frequency, independent of the
// actual days requested.
type Projection struct {
	Rewards      float64 `json:"rewards"`
	FinalBalance float64 `json:"finalBalance"`
	EffectiveAPY float64 `json:"effectiveApy"`
}

// SimpleRewards computes linear (non-compounding) rewards. Invalid inputs
// (principal <= 0, apr < 0, days <= 0) yield 0.
func SimpleRewards(principal, apr, days float64) float64 {
	if principal <= 0 || apr < 0 || days <= 0 {
		return 0
	}
	dailyRate := apr / 100 / 365
	return principal * dailyRate * days
}

// CompoundedRewards computes rewards with periodic compounding.
// CompoundNone delegates to SimpleRewards with effectiveApy == apr.
func CompoundedRewards(principal, apr, days float64, frequency Frequency) Projection {
	if principal <= 0 || apr < 0 || days <= 0 {
		return Projection{FinalBalance: principal}
	}

	if frequency == CompoundNone {
		rewards := SimpleRewards(principal, apr, days)
		return Projection{
			Rewards:      rewards,
			FinalBalance: principal + rewards,
			EffectiveAPY: apr,
		}
	}

	periodsPerYear := frequency.periodsPerYear()
	totalPeriods := days / 365 * periodsPerYear
	ratePerPeriod := apr / 100 / periodsPerYear

	finalBalance := principal * math.Pow(1+ratePerPeriod, totalPeriods)
	return Projection{
		Rewards:      finalBalance - principal,
		FinalBalance: finalBalance,
		EffectiveAPY: (math.Pow(1+ratePerPeriod, periodsPerYear) - 1) * 100,
	}
}

// LockupProjection extends a Projection with lockup-period display flags.
// The lockup gates nothing numerically; it only reports whether the stake
// would still be locked at the end of the staking period.
type LockupProjection struct {
	Projection
	IsLocked        bool    `json:"isLocked"`
	DaysUntilUnlock float64 `json:"daysUntilUnlock"`
}

// WithLockup wraps CompoundedRewards with lockup information.
func WithLockup(principal, apr, stakingDays, lockupDays float64, frequency Frequency) LockupProjection {
	return LockupProjection{
		Projection:      CompoundedRewards(principal, apr, stakingDays, frequency),
		IsLocked:        stakingDays < lockupDays,
		DaysUntilUnlock: math.Max(0, lockupDays-stakingDays),
	}
}

// CompareFrequencies computes CompoundedRewards for every supported
// frequency, keyed by frequency, for side-by-side comparison.
func CompareFrequencies(principal, apr, days float64) map[Frequency]Projection {
	results := make(map[Frequency]Projection, len(Frequencies()))
	for _, frequency := range Frequencies() {
		results[frequency] = CompoundedRewards(principal, apr, days, frequency)
	}
	return results
}
