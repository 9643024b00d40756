package simulation

import (
	"sync"

	"defisim/internal/core"
	"defisim/pkg/concurrency"
)

// ShockPoint pairs a shock percentage with the risk metrics it produces.
type ShockPoint struct {
	ShockPct float64         `json:"shockPct"`
	Risk     core.RiskResult `json:"risk"`
}

// SweepShocks evaluates ComputeRisk across a grid of price shocks. Points
// are computed on the worker pool but returned in input order, so the
// output is deterministic regardless of scheduling. A nil pool degrades to
// sequential evaluation.
func SweepShocks(pool *concurrency.WorkerPool, positions []core.Position, shocks []float64) []ShockPoint {
	points := make([]ShockPoint, len(shocks))
	if pool == nil {
		for i, shock := range shocks {
			points[i] = ShockPoint{ShockPct: shock, Risk: ComputeRisk(positions, shock)}
		}
		return points
	}

	var wg sync.WaitGroup
	for i, shock := range shocks {
		i, shock := i, shock
		wg.Add(1)
		task := func() {
			defer wg.Done()
			points[i] = ShockPoint{ShockPct: shock, Risk: ComputeRisk(positions, shock)}
		}
		if err := pool.Submit(task); err != nil {
			// Pool saturated; run inline rather than dropping the point.
			task()
		}
	}
	wg.Wait()
	return points
}

// ShockGrid builds an inclusive [from, to] grid with the given step. It
// returns nil when the step is non-positive or the bounds are inverted.
func ShockGrid(from, to, step float64) []float64 {
	if step <= 0 || to < from {
		return nil
	}
	var grid []float64
	for shock := from; shock <= to; shock += step {
		grid = append(grid, shock)
	}
	return grid
}
