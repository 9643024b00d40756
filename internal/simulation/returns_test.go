package simulation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"defisim/internal/core"
)

func TestComputeReturns_OneYear(t *testing.T) {
	positions := []core.Position{
		depositPosition("ETH", 10, 100, 0.05, 0.8),
		borrowPosition("USDC", 5, 100, 0.03),
	}

	result := ComputeReturns(positions, 365)

	assert.InDelta(t, 50.0, result.TotalDepositInterest, 1e-9)
	assert.InDelta(t, 15.0, result.TotalBorrowInterest, 1e-9)
	assert.InDelta(t, 35.0, result.NetReturn, 1e-9)

	// Net principal is 500, so APR = 35/500 = 7%; daily compounding lifts
	// the APY slightly above that.
	assert.InDelta(t, 7.0, result.APR, 1e-9)
	assert.InDelta(t, 7.25, result.APY, 0.01)
	assert.Greater(t, result.APY, result.APR)
}

func TestComputeReturns_BreakdownKeepsPositionsSeparate(t *testing.T) {
	positions := []core.Position{
		depositPosition("ETH", 10, 100, 0.05, 0.8),
		depositPosition("ETH", 2, 100, 0.05, 0.8),
		borrowPosition("DAI", 100, 1, 0.08),
	}

	result := ComputeReturns(positions, 365)

	require.Len(t, result.Breakdown.Deposits, 2)
	require.Len(t, result.Breakdown.Borrows, 1)
	assert.Equal(t, "ETH", result.Breakdown.Deposits[0].Asset)
	assert.InDelta(t, 50.0, result.Breakdown.Deposits[0].Interest, 1e-9)
	assert.InDelta(t, 10.0, result.Breakdown.Deposits[1].Interest, 1e-9)
	assert.InDelta(t, 8.0, result.Breakdown.Borrows[0].Interest, 1e-9)

	var sum float64
	for _, line := range result.Breakdown.Deposits {
		sum += line.Interest
	}
	for _, line := range result.Breakdown.Borrows {
		sum -= line.Interest
	}
	assert.InDelta(t, result.NetReturn, sum, 1e-9)
}

func TestComputeReturns_ZeroNetPrincipal(t *testing.T) {
	positions := []core.Position{
		depositPosition("ETH", 5, 100, 0.05, 0.8),
		borrowPosition("USDC", 5, 100, 0.03),
	}

	result := ComputeReturns(positions, 30)

	assert.Equal(t, 0.0, result.APR)
	assert.Equal(t, 0.0, result.APY)
	assert.NotZero(t, result.NetReturn)
}

func TestComputeReturns_BorrowCostsDominate(t *testing.T) {
	positions := []core.Position{
		depositPosition("USDC", 1000, 1, 0.01, 0.85),
		borrowPosition("ETH", 5, 100, 0.10),
	}

	result := ComputeReturns(positions, 365)

	assert.InDelta(t, 10.0, result.TotalDepositInterest, 1e-9)
	assert.InDelta(t, 50.0, result.TotalBorrowInterest, 1e-9)
	assert.InDelta(t, -40.0, result.NetReturn, 1e-9)
	assert.Less(t, result.APR, 0.0)
}

func TestComputeReturns_Empty(t *testing.T) {
	result := ComputeReturns(nil, 30)

	assert.Zero(t, result.NetReturn)
	assert.Zero(t, result.APR)
	assert.Zero(t, result.APY)
	assert.Empty(t, result.Breakdown.Deposits)
	assert.Empty(t, result.Breakdown.Borrows)
}

func TestComputeReturns_ZeroDayHorizon(t *testing.T) {
	positions := []core.Position{
		depositPosition("ETH", 10, 100, 0.07, 0.8),
	}

	result := ComputeReturns(positions, 0)

	assert.Zero(t, result.NetReturn)
	assert.False(t, math.IsNaN(result.APR))
	assert.False(t, math.IsNaN(result.APY))
	assert.Zero(t, result.APR)
	assert.Zero(t, result.APY)
}
