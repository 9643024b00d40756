package simulation

import (
	"math"

	"defisim/internal/core"
)

// ComputeReturns decomposes the portfolio's interest flows over a horizon
// into per-position breakdowns, net return, simple APR, and a
// daily-compounded APY. Price shocks do not apply here; returns are always
// evaluated at the snapshotted prices.
func ComputeReturns(positions []core.Position, timeframeDays int) core.ReturnResult {
	yearFraction := float64(timeframeDays) / core.DaysPerYear

	deposits := make([]core.InterestLine, 0)
	borrows := make([]core.InterestLine, 0)
	var totalDepositInterest, totalBorrowInterest float64
	var depositPrincipal, borrowPrincipal float64

	for _, p := range positions {
		principal := p.Value()
		interest := principal * p.Asset.InterestRate * yearFraction
		line := core.InterestLine{Asset: p.Asset.Symbol, Interest: interest}
		switch p.Type {
		case core.PositionDeposit:
			deposits = append(deposits, line)
			totalDepositInterest += interest
			depositPrincipal += principal
		case core.PositionBorrow:
			borrows = append(borrows, line)
			totalBorrowInterest += interest
			borrowPrincipal += principal
		}
	}

	netReturn := totalDepositInterest - totalBorrowInterest
	// Net notional; can be zero or negative, in which case the annualized
	// rates are reported as 0 rather than dividing by it.
	totalPrincipal := depositPrincipal - borrowPrincipal

	var apr, apy float64
	if totalPrincipal > 0 && timeframeDays > 0 {
		apr = netReturn / totalPrincipal / yearFraction * 100
		dailyRate := netReturn / totalPrincipal / float64(timeframeDays)
		apy = (math.Pow(1+dailyRate, core.DaysPerYear) - 1) * 100
	}

	return core.ReturnResult{
		TotalDepositInterest: totalDepositInterest,
		TotalBorrowInterest:  totalBorrowInterest,
		NetReturn:            netReturn,
		APR:                  apr,
		APY:                  apy,
		Breakdown: core.ReturnBreakdown{
			Deposits: deposits,
			Borrows:  borrows,
		},
	}
}
