package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names
const (
	MetricSimulationsTotal        = "defisim_simulations_total"
	MetricRiskComputationsTotal   = "defisim_risk_computations_total"
	MetricMarketDataRequestsTotal = "defisim_marketdata_requests_total"
	MetricMarketDataFallbackTotal = "defisim_marketdata_fallback_total"
	MetricRequestDuration         = "defisim_request_duration_seconds"
	MetricPortfolioPositions      = "defisim_portfolio_positions"
	MetricHealthFactor            = "defisim_health_factor"
)

// MetricsHolder owns the simulator's OTel instruments
type MetricsHolder struct {
	SimulationsTotal        metric.Int64Counter
	RiskComputationsTotal   metric.Int64Counter
	MarketDataRequestsTotal metric.Int64Counter
	MarketDataFallbackTotal metric.Int64Counter
	RequestDuration         metric.Float64Histogram
	PortfolioPositions      metric.Int64ObservableGauge
	HealthFactor            metric.Float64ObservableGauge

	mu            sync.RWMutex
	positionCount int64
	healthFactor  float64
	initialized   bool
}

var (
	globalMetrics *MetricsHolder
	initOnce      sync.Once
)

// GetGlobalMetrics returns the singleton metrics holder
func GetGlobalMetrics() *MetricsHolder {
	initOnce.Do(func() {
		globalMetrics = &MetricsHolder{}
	})
	return globalMetrics
}

// InitMetrics initializes instruments using the meter
func (m *MetricsHolder) InitMetrics(meter metric.Meter) error {
	var err error

	m.SimulationsTotal, err = meter.Int64Counter(MetricSimulationsTotal,
		metric.WithDescription("Total scenario simulations run"))
	if err != nil {
		return err
	}

	m.RiskComputationsTotal, err = meter.Int64Counter(MetricRiskComputationsTotal,
		metric.WithDescription("Total risk metric computations"))
	if err != nil {
		return err
	}

	m.MarketDataRequestsTotal, err = meter.Int64Counter(MetricMarketDataRequestsTotal,
		metric.WithDescription("Total market data requests by protocol and source"))
	if err != nil {
		return err
	}

	m.MarketDataFallbackTotal, err = meter.Int64Counter(MetricMarketDataFallbackTotal,
		metric.WithDescription("Live market data failures that fell back to sample data"))
	if err != nil {
		return err
	}

	m.RequestDuration, err = meter.Float64Histogram(MetricRequestDuration,
		metric.WithDescription("API request latency"), metric.WithUnit("s"))
	if err != nil {
		return err
	}

	m.PortfolioPositions, err = meter.Int64ObservableGauge(MetricPortfolioPositions,
		metric.WithDescription("Number of positions in the active portfolio"),
		metric.WithInt64Callback(func(ctx context.Context, obs metric.Int64Observer) error {
			m.mu.RLock()
			defer m.mu.RUnlock()
			obs.Observe(m.positionCount)
			return nil
		}))
	if err != nil {
		return err
	}

	m.HealthFactor, err = meter.Float64ObservableGauge(MetricHealthFactor,
		metric.WithDescription("Health factor of the last risk computation"),
		metric.WithFloat64Callback(func(ctx context.Context, obs metric.Float64Observer) error {
			m.mu.RLock()
			defer m.mu.RUnlock()
			obs.Observe(m.healthFactor)
			return nil
		}))
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.initialized = true
	m.mu.Unlock()
	return nil
}

func (m *MetricsHolder) ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// RecordSimulation increments the simulation counter
func (m *MetricsHolder) RecordSimulation(ctx context.Context) {
	if !m.ready() {
		return
	}
	m.SimulationsTotal.Add(ctx, 1)
}

// RecordRiskComputation increments the risk computation counter
func (m *MetricsHolder) RecordRiskComputation(ctx context.Context) {
	if !m.ready() {
		return
	}
	m.RiskComputationsTotal.Add(ctx, 1)
}

// RecordMarketDataRequest counts a market data request by protocol and source
func (m *MetricsHolder) RecordMarketDataRequest(ctx context.Context, protocol, source string) {
	if !m.ready() {
		return
	}
	m.MarketDataRequestsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("protocol", protocol),
		attribute.String("source", source),
	))
}

// RecordMarketDataFallback counts a live-to-sample fallback
func (m *MetricsHolder) RecordMarketDataFallback(ctx context.Context, protocol string) {
	if !m.ready() {
		return
	}
	m.MarketDataFallbackTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("protocol", protocol),
	))
}

// RecordRequestDuration records an API request latency
func (m *MetricsHolder) RecordRequestDuration(ctx context.Context, route string, seconds float64) {
	if !m.ready() {
		return
	}
	m.RequestDuration.Record(ctx, seconds, metric.WithAttributes(
		attribute.String("route", route),
	))
}

// SetPortfolioSize updates the observed position count
func (m *MetricsHolder) SetPortfolioSize(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positionCount = int64(n)
}

// SetHealthFactor updates the observed health factor
func (m *MetricsHolder) SetHealthFactor(hf float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthFactor = hf
}
