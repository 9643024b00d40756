package simulation

import (
	"math"
	"time"

	"defisim/internal/core"
)

const millisPerDay = 24 * 60 * 60 * 1000

// RunSimulation projects a shocked portfolio across a day-indexed horizon.
// The shock is applied once up front; each day's valuation recomputes simple
// interest from the original principal; interest never compounds here.
// Step timestamps are derived from the wall clock at call time and are the
// only non-deterministic field of the result.
func RunSimulation(positions []core.Position, cfg core.ScenarioConfig) core.SimulationResult {
	return runSimulationAt(positions, cfg, time.Now())
}

func runSimulationAt(positions []core.Position, cfg core.ScenarioConfig, start time.Time) core.SimulationResult {
	timeframe := cfg.TimeframeDays
	if timeframe < 0 {
		timeframe = 0
	}

	shocked := ApplyPriceShock(positions, cfg.PriceShockPct)
	var deposits, borrows []core.Position
	for _, p := range shocked {
		switch p.Type {
		case core.PositionDeposit:
			deposits = append(deposits, p)
		case core.PositionBorrow:
			borrows = append(borrows, p)
		}
	}

	startMillis := start.UnixMilli()
	steps := make([]core.ScenarioStep, 0, timeframe+1)
	for day := 0; day <= timeframe; day++ {
		dayFraction := float64(day) / core.DaysPerYear

		var depositValue, collateralValue, depositDaily float64
		for _, p := range deposits {
			principal := p.Value()
			interest := principal * p.Asset.InterestRate * dayFraction
			depositValue += principal + interest
			collateralValue += (principal + interest) * p.Asset.LiquidationThreshold
			depositDaily += principal * p.Asset.InterestRate / core.DaysPerYear
		}

		var borrowValue, borrowDaily float64
		for _, p := range borrows {
			principal := p.Value()
			borrowValue += principal + principal*p.Asset.InterestRate*dayFraction
			borrowDaily += principal * p.Asset.InterestRate / core.DaysPerYear
		}

		healthFactor := core.InfiniteSafety
		if borrowValue > 0 {
			healthFactor = collateralValue / borrowValue
		}

		steps = append(steps, core.ScenarioStep{
			Day:             day,
			Timestamp:       startMillis + int64(day)*millisPerDay,
			DepositValue:    depositValue,
			BorrowValue:     borrowValue,
			NetValue:        depositValue - borrowValue,
			InterestAccrued: depositDaily - borrowDaily,
			HealthFactor:    healthFactor,
		})
	}

	final := steps[len(steps)-1]

	var thresholdSum float64
	for _, p := range deposits {
		thresholdSum += p.Asset.LiquidationThreshold
	}
	avgThreshold := thresholdSum / math.Max(float64(len(deposits)), 1)

	var liquidationPrice float64
	if final.BorrowValue > 0 {
		liquidationPrice = final.BorrowValue / (final.DepositValue * avgThreshold)
	}

	return core.SimulationResult{
		Steps: steps,
		FinalTotals: core.FinalTotals{
			TotalDeposits:    final.DepositValue,
			TotalBorrows:     final.BorrowValue,
			NetValue:         final.NetValue,
			HealthFactor:     final.HealthFactor,
			LiquidationPrice: liquidationPrice,
		},
	}
}
