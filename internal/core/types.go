// Package core defines the shared data model for the DeFi strategy simulator
package core

import (
	"fmt"
	"time"
)

// DaysPerYear is the day-count convention used by every interest formula.
const DaysPerYear = 365.0

// InfiniteSafety is the sentinel reported for health factor and collateral
// ratio when a portfolio carries no borrows. Downstream guidance text keys
// off the same value, so it must not change.
const InfiniteSafety = 999.0

// Asset is immutable reference data owned by the market-data provider.
type Asset struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	// PriceUSD is the current spot price. Always positive.
	PriceUSD float64 `json:"priceUSD"`
	// InterestRate is the fractional annual rate (0.05 = 5%).
	InterestRate float64 `json:"interestRate"`
	// LiquidationThreshold is the portion of collateral value creditable
	// toward borrowing power, in (0, 1].
	LiquidationThreshold float64 `json:"liquidationThreshold"`
}

// PositionType discriminates deposit and borrow legs of a portfolio.
type PositionType int

const (
	PositionDeposit PositionType = iota
	PositionBorrow
)

// String returns the wire representation of the position type.
func (t PositionType) String() string {
	switch t {
	case PositionDeposit:
		return "deposit"
	case PositionBorrow:
		return "borrow"
	default:
		return "unknown"
	}
}

// ParsePositionType parses the wire representation of a position type.
func ParsePositionType(s string) (PositionType, error) {
	switch s {
	case "deposit":
		return PositionDeposit, nil
	case "borrow":
		return PositionBorrow, nil
	default:
		return PositionDeposit, fmt.Errorf("invalid position type: %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t PositionType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *PositionType) UnmarshalText(data []byte) error {
	parsed, err := ParsePositionType(string(data))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Position is a single deposit or borrow entry. The asset is embedded by
// value: a position snapshots the asset's fields at add-time and is never
// mutated afterwards.
type Position struct {
	ID        string       `json:"id"`
	Asset     Asset        `json:"asset"`
	Type      PositionType `json:"positionType"`
	Amount    float64      `json:"amount"`
	CreatedAt time.Time    `json:"createdAt"`
}

// Value returns the notional USD value of the position.
func (p Position) Value() float64 {
	return p.Amount * p.Asset.PriceUSD
}

// ScenarioConfig carries the transient parameters of a simulation run.
type ScenarioConfig struct {
	TimeframeDays int     `json:"timeframeDays"`
	PriceShockPct float64 `json:"priceShockPct"`
}

// RiskLevel is the classification tier derived from the health factor.
type RiskLevel int

const (
	RiskSafe RiskLevel = iota
	RiskAtRisk
	RiskLiquidation
)

// String returns the display form of the risk level. The exact strings are
// load-bearing: guidance text and the UI switch on them.
func (r RiskLevel) String() string {
	switch r {
	case RiskSafe:
		return "Safe"
	case RiskAtRisk:
		return "At Risk"
	case RiskLiquidation:
		return "Liquidation"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r RiskLevel) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *RiskLevel) UnmarshalText(data []byte) error {
	switch string(data) {
	case "Safe":
		*r = RiskSafe
	case "At Risk":
		*r = RiskAtRisk
	case "Liquidation":
		*r = RiskLiquidation
	default:
		return fmt.Errorf("invalid risk level: %q", string(data))
	}
	return nil
}

// RiskResult is the output of the risk engine. Pure value object, fully
// derived from (positions, shock); identical inputs yield identical outputs.
type RiskResult struct {
	HealthFactor         float64   `json:"healthFactor"`
	CollateralRatio      float64   `json:"collateralRatio"`
	LiquidationThreshold float64   `json:"liquidationThreshold"`
	LiquidationPrice     float64   `json:"liquidationPrice"`
	RiskLevel            RiskLevel `json:"riskLevel"`
	PriceSensitivity     float64   `json:"priceSensitivity"`
}

// InterestLine is one position's interest contribution over the horizon.
// Multiple positions in the same asset are not pre-aggregated.
type InterestLine struct {
	Asset    string  `json:"asset"`
	Interest float64 `json:"interest"`
}

// ReturnBreakdown lists per-position interest for both legs.
type ReturnBreakdown struct {
	Deposits []InterestLine `json:"deposits"`
	Borrows  []InterestLine `json:"borrows"`
}

// ReturnResult is the output of the return decomposition.
type ReturnResult struct {
	TotalDepositInterest float64         `json:"totalDepositInterest"`
	TotalBorrowInterest  float64         `json:"totalBorrowInterest"`
	NetReturn            float64         `json:"netReturn"`
	APR                  float64         `json:"apr"`
	APY                  float64         `json:"apy"`
	Breakdown            ReturnBreakdown `json:"breakdown"`
}

// ScenarioStep is a single day of a scenario projection. InterestAccrued is
// that day's marginal interest delta, not a running total.
type ScenarioStep struct {
	Day             int     `json:"day"`
	Timestamp       int64   `json:"timestamp"`
	DepositValue    float64 `json:"depositValue"`
	BorrowValue     float64 `json:"borrowValue"`
	NetValue        float64 `json:"netValue"`
	InterestAccrued float64 `json:"interestAccrued"`
	HealthFactor    float64 `json:"healthFactor"`
}

// FinalTotals aggregates the terminal step of a simulation.
type FinalTotals struct {
	TotalDeposits    float64 `json:"totalDeposits"`
	TotalBorrows     float64 `json:"totalBorrows"`
	NetValue         float64 `json:"netValue"`
	HealthFactor     float64 `json:"healthFactor"`
	LiquidationPrice float64 `json:"liquidationPrice"`
}

// SimulationResult is the output of the scenario projector.
type SimulationResult struct {
	Steps       []ScenarioStep `json:"steps"`
	FinalTotals FinalTotals    `json:"finalTotals"`
}
