// Package portfolio owns the mutable strategy state around the numeric
// core: the position list, the selected protocol and scenario parameters,
// and the cached results of the last recalculation. The core itself never
// sees this state; it receives read-only snapshots per call.
package portfolio

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"defisim/internal/core"
	"defisim/internal/marketdata"
	"defisim/internal/simulation"
	"defisim/pkg/telemetry"

	"github.com/google/uuid"
)

var (
	ErrInvalidAmount    = errors.New("portfolio: amount must be positive")
	ErrInvalidAsset     = errors.New("portfolio: asset has invalid market parameters")
	ErrPositionNotFound = errors.New("portfolio: position not found")
)

// MaxPriceShockPct bounds the accepted price shock in both directions.
const MaxPriceShockPct = 50.0

// Results bundles the cached outputs of the last recalculation. Nil fields
// mean no simulation has run since the portfolio last changed.
type Results struct {
	Risk       *core.RiskResult
	Returns    *core.ReturnResult
	Simulation *core.SimulationResult
}

// Manager is the portfolio state container. All methods are safe for
// concurrent use; every recalculation invokes the synchronous pure core.
type Manager struct {
	mu sync.RWMutex

	logger  core.ILogger
	metrics *telemetry.MetricsHolder

	positions     []core.Position
	protocol      marketdata.Protocol
	liveData      bool
	timeframeDays int
	priceShockPct float64

	results Results
}

// NewManager creates a manager with the default 30-day timeframe and no
// price shock.
func NewManager(logger core.ILogger) *Manager {
	return &Manager{
		logger:        logger.WithField("component", "portfolio"),
		metrics:       telemetry.GetGlobalMetrics(),
		protocol:      marketdata.ProtocolAave,
		timeframeDays: 30,
	}
}

// AddPosition validates and appends a position snapshotting the asset's
// current fields. The numeric core assumes amount > 0, so rejection happens
// here at the boundary.
func (m *Manager) AddPosition(asset core.Asset, positionType core.PositionType, amount float64) (core.Position, error) {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return core.Position{}, ErrInvalidAmount
	}
	if asset.PriceUSD <= 0 || asset.LiquidationThreshold <= 0 || asset.LiquidationThreshold > 1 || asset.InterestRate < 0 {
		return core.Position{}, ErrInvalidAsset
	}

	position := core.Position{
		ID:        uuid.NewString(),
		Asset:     asset,
		Type:      positionType,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}

	m.mu.Lock()
	m.positions = append(m.positions, position)
	m.results = Results{}
	count := len(m.positions)
	m.mu.Unlock()

	m.metrics.SetPortfolioSize(count)
	m.logger.Info("Position added",
		"id", position.ID, "asset", asset.Symbol, "type", positionType.String(), "amount", amount)
	return position, nil
}

// RemovePosition deletes a position by id.
func (m *Manager) RemovePosition(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.positions {
		if p.ID == id {
			m.positions = append(m.positions[:i], m.positions[i+1:]...)
			m.results = Results{}
			m.metrics.SetPortfolioSize(len(m.positions))
			return nil
		}
	}
	return ErrPositionNotFound
}

// Clear removes every position and drops cached results.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions = nil
	m.results = Results{}
	m.metrics.SetPortfolioSize(0)
}

// Positions returns a copy of the position list; callers may not mutate
// manager state through it.
func (m *Manager) Positions() []core.Position {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]core.Position, len(m.positions))
	copy(out, m.positions)
	return out
}

// SetTimeframe updates the horizon, clamped to at least one day.
func (m *Manager) SetTimeframe(days int) {
	if days < 1 {
		days = 1
	}
	m.mu.Lock()
	m.timeframeDays = days
	m.mu.Unlock()
}

// SetPriceShock updates the shock percentage. Non-finite input is coerced
// to 0 and the value is clamped to [-MaxPriceShockPct, MaxPriceShockPct].
func (m *Manager) SetPriceShock(pct float64) {
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		pct = 0
	}
	pct = math.Max(-MaxPriceShockPct, math.Min(MaxPriceShockPct, pct))

	m.mu.Lock()
	m.priceShockPct = pct
	positions := make([]core.Position, len(m.positions))
	copy(positions, m.positions)
	m.mu.Unlock()

	// Refresh risk immediately so shock sliders feel live.
	if len(positions) > 0 {
		risk := simulation.ComputeRisk(positions, pct)
		m.mu.Lock()
		m.results.Risk = &risk
		m.mu.Unlock()
		m.metrics.SetHealthFactor(risk.HealthFactor)
		m.metrics.RecordRiskComputation(context.Background())
	}
}

// SetProtocol records the protocol whose assets the portfolio draws from.
func (m *Manager) SetProtocol(p marketdata.Protocol) {
	m.mu.Lock()
	m.protocol = p
	m.mu.Unlock()
}

// SetLiveData toggles between live and sample market data.
func (m *Manager) SetLiveData(live bool) {
	m.mu.Lock()
	m.liveData = live
	m.mu.Unlock()
}

// Protocol returns the selected protocol and data-source flag.
func (m *Manager) Protocol() (marketdata.Protocol, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.protocol, m.liveData
}

// Config returns the current scenario parameters.
func (m *Manager) Config() core.ScenarioConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return core.ScenarioConfig{TimeframeDays: m.timeframeDays, PriceShockPct: m.priceShockPct}
}

// Recalculate runs the full core pipeline (risk, returns, simulation) over
// the current snapshot and caches the results.
func (m *Manager) Recalculate(ctx context.Context) Results {
	positions := m.Positions()
	cfg := m.Config()

	risk := simulation.ComputeRisk(positions, cfg.PriceShockPct)
	returns := simulation.ComputeReturns(positions, cfg.TimeframeDays)
	sim := simulation.RunSimulation(positions, cfg)

	results := Results{Risk: &risk, Returns: &returns, Simulation: &sim}

	m.mu.Lock()
	m.results = results
	m.mu.Unlock()

	m.metrics.RecordSimulation(ctx)
	m.metrics.RecordRiskComputation(ctx)
	m.metrics.SetHealthFactor(risk.HealthFactor)
	m.logger.Debug("Recalculated strategy",
		"positions", len(positions),
		"timeframeDays", cfg.TimeframeDays,
		"priceShockPct", cfg.PriceShockPct,
		"healthFactor", risk.HealthFactor)
	return results
}

// Results returns the cached outputs of the last recalculation.
func (m *Manager) Results() Results {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.results
}
