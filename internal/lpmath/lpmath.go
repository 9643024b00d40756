// Package lpmath provides closed-form calculators for constant-product
// liquidity pool positions: impermanent loss, fee accrual, and net-outcome
// comparison against a buy-and-hold baseline. All functions are pure and
// deterministic.
package lpmath

import (
	"fmt"
	"math"
)

// Frequency selects how often pool fees are compounded.
type Frequency int

const (
	CompoundNone Frequency = iota
	CompoundDaily
	CompoundWeekly
	CompoundMonthly
)

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
	default:
		return 365
	}
}

// ImpermanentLoss returns the IL percentage for a 50/50 constant-product
// pool given finalPrice/initialPrice. The result is negative for any
// divergence and 0 for non-positive or non-finite ratios.
func ImpermanentLoss(priceRatio float64) float64 {
	if priceRatio <= 0 || math.IsInf(priceRatio, 0) || math.IsNaN(priceRatio) {
		return 0
	}
	il := 2*math.Sqrt(priceRatio)/(1+priceRatio) - 1
	return il * 100
}

// Comparison holds the LP-versus-hold valuation of a pool position.
type Comparison struct {
	LPValue                float64 `json:"lpValue"`
	HoldValue              float64 `json:"holdValue"`
	ImpermanentLoss        float64 `json:"impermanentLoss"`
	ImpermanentLossPercent float64 `json:"impermanentLossPercent"`
}

// LPVsHold models a 50/50 pool seeded with initialTokenAmount of the risk
// asset plus an equal USD value of a numeraire, then compares the pool
// position against simply holding both sides after the price moves. The
// constant-product invariant uses the initial reserves:
// k = amount * (amount * initialPrice), lpValue = 2*sqrt(k * finalPrice).
// Any non-positive input yields an all-zero result.
func LPVsHold(initialPrice, finalPrice, initialTokenAmount float64) Comparison {
	if initialPrice <= 0 || finalPrice <= 0 || initialTokenAmount <= 0 {
		return Comparison{}
	}

	initialValuePerToken := initialTokenAmount * initialPrice
	k := initialTokenAmount * initialValuePerToken
	lpValue := 2 * math.Sqrt(k*finalPrice)
	holdValue := initialTokenAmount*finalPrice + initialValuePerToken

	loss := lpValue - holdValue
	return Comparison{
		LPValue:                lpValue,
		HoldValue:              holdValue,
		ImpermanentLoss:        loss,
		ImpermanentLossPercent: loss / holdValue * 100,
	}
}

// FeesEarned estimates pool fees over a period from an annual fee APR
// (percentage, e.g. 25 for 25%). CompoundNone uses simple daily interest;
// the other frequencies compound per period.
func FeesEarned(liquidityValue, feeAPR, days float64, frequency Frequency) float64 {
	if liquidityValue <= 0 || feeAPR < 0 || days <= 0 {
		return 0
	}

	annualRate := feeAPR / 100
	if frequency == CompoundNone {
		return liquidityValue * (annualRate / 365) * days
	}

	periodsPerYear := frequency.periodsPerYear()
	ratePerPeriod := annualRate / periodsPerYear
	periodsElapsed := days / 365 * periodsPerYear
	return liquidityValue*math.Pow(1+ratePerPeriod, periodsElapsed) - liquidityValue
}

// NetOutcome describes the LP position net of fees versus holding.
type NetOutcome struct {
	NetDifference        float64 `json:"netDifference"`
	NetDifferencePercent float64 `json:"netDifferencePercent"`
	IsProfitable         bool    `json:"isProfitable"`
}

// NetWithFees folds earned fees into the LP-versus-hold comparison. A tie
// counts as profitable.
func NetWithFees(lpValue, holdValue, feesEarned float64) NetOutcome {
	net := lpValue + feesEarned - holdValue
	return NetOutcome{
		NetDifference:        net,
		NetDifferencePercent: net / holdValue * 100,
		IsProfitable:         net >= 0,
	}
}
