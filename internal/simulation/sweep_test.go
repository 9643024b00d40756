package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"defisim/internal/core"
	"defisim/pkg/concurrency"
)

func TestShockGrid(t *testing.T) {
	grid := ShockGrid(-20, 20, 10)
	assert.Equal(t, []float64{-20, -10, 0, 10, 20}, grid)

	assert.Nil(t, ShockGrid(0, 10, 0), "non-positive step")
	assert.Nil(t, ShockGrid(0, 10, -1), "negative step")
	assert.Nil(t, ShockGrid(10, 0, 1), "inverted bounds")

	single := ShockGrid(5, 5, 1)
	assert.Equal(t, []float64{5}, single)
}

func TestSweepShocks_Sequential(t *testing.T) {
	positions := []core.Position{
		depositPosition("ETH", 10, 100, 0.05, 0.8),
		borrowPosition("USDC", 5, 100, 0.03),
	}
	shocks := []float64{-30, -15, 0, 15, 30}

	points := SweepShocks(nil, positions, shocks)
	require.Len(t, points, len(shocks))
	for i, shock := range shocks {
		assert.Equal(t, shock, points[i].ShockPct)
		assert.Equal(t, ComputeRisk(positions, shock), points[i].Risk)
	}
}

func TestSweepShocks_PoolMatchesSequential(t *testing.T) {
	positions := []core.Position{
		depositPosition("ETH", 10, 100, 0.05, 0.8),
		depositPosition("WBTC", 0.5, 40000, 0.01, 0.7),
		borrowPosition("DAI", 9000, 1, 0.08),
	}
	shocks := ShockGrid(-50, 50, 5)
	require.NotEmpty(t, shocks)

	pool := concurrency.NewWorkerPool(concurrency.PoolConfig{
		Name:       "sweep-test",
		MaxWorkers: 4,
	}, &testLogger{})
	defer pool.Stop()

	sequential := SweepShocks(nil, positions, shocks)
	parallel := SweepShocks(pool, positions, shocks)

	assert.Equal(t, sequential, parallel)
}

func TestSweepShocks_Empty(t *testing.T) {
	points := SweepShocks(nil, nil, nil)
	assert.Empty(t, points)
}
