// Package simulation implements the deterministic numeric core: the
// portfolio risk engine, the day-stepped scenario projector, and the
// yield/return decomposition. Every function here is a pure computation
// over its arguments; malformed portfolios degrade to neutral values
// instead of raising errors.
package simulation

import (
	"math"

	"defisim/internal/core"
)

// ApplyPriceShock returns a copy of positions with every asset price scaled
// by (1 + pct/100). The input slice is never mutated.
func ApplyPriceShock(positions []core.Position, pct float64) []core.Position {
	shocked := make([]core.Position, len(positions))
	for i, p := range positions {
		p.Asset.PriceUSD *= 1 + pct/100
		shocked[i] = p
	}
	return shocked
}

// ComputeRisk evaluates collateralization, health factor, liquidation
// proximity and price sensitivity for a position set under an optional
// uniform price shock. A portfolio with no borrows reports the
// InfiniteSafety sentinel rather than dividing by zero.
func ComputeRisk(positions []core.Position, priceShockPct float64) core.RiskResult {
	shocked := ApplyPriceShock(positions, priceShockPct)

	var (
		totalDepositValue float64
		totalBorrowValue  float64
		collateralValue   float64
		thresholdSum      float64
		depositCount      int
	)
	for _, p := range shocked {
		value := p.Value()
		switch p.Type {
		case core.PositionDeposit:
			totalDepositValue += value
			collateralValue += value * p.Asset.LiquidationThreshold
			thresholdSum += p.Asset.LiquidationThreshold
			depositCount++
		case core.PositionBorrow:
			totalBorrowValue += value
		}
	}

	// Guard the mean's denominator: an empty deposit set yields 0.
	avgThreshold := thresholdSum / math.Max(float64(depositCount), 1)

	result := core.RiskResult{
		HealthFactor:         core.InfiniteSafety,
		CollateralRatio:      core.InfiniteSafety,
		LiquidationThreshold: avgThreshold,
	}
	if totalBorrowValue > 0 {
		result.CollateralRatio = totalDepositValue / totalBorrowValue
		result.HealthFactor = collateralValue / totalBorrowValue
		// A simplified price index relative to current, not a dollar price.
		result.LiquidationPrice = totalBorrowValue / (totalDepositValue * avgThreshold)
		// Approximate health-factor delta per 1% price move.
		result.PriceSensitivity = collateralValue / totalBorrowValue / 100
	}
	result.RiskLevel = ClassifyHealthFactor(result.HealthFactor)
	return result
}

// ClassifyHealthFactor maps a health factor onto the risk tiers. Boundaries
// are half-open: exactly 1.0 is At Risk, exactly 1.5 is Safe.
func ClassifyHealthFactor(hf float64) core.RiskLevel {
	switch {
	case hf < 1.0:
		return core.RiskLiquidation
	case hf < 1.5:
		return core.RiskAtRisk
	default:
		return core.RiskSafe
	}
}
