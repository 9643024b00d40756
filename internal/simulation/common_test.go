package simulation

import (
	"defisim/internal/core"
)

type testLogger struct{}

func (l *testLogger) Debug(msg string, f ...interface{})               {}
func (l *testLogger) Info(msg string, f ...interface{})                {}
func (l *testLogger) Warn(msg string, f ...interface{})                {}
func (l *testLogger) Error(msg string, f ...interface{})               {}
func (l *testLogger) Fatal(msg string, f ...interface{})               {}
func (l *testLogger) WithField(k string, v interface{}) core.ILogger   { return l }
func (l *testLogger) WithFields(f map[string]interface{}) core.ILogger { return l }

func depositPosition(symbol string, amount, price, rate, threshold float64) core.Position {
	return core.Position{
		ID:     symbol + "-deposit",
		Type:   core.PositionDeposit,
		Amount: amount,
		Asset: core.Asset{
			ID:                   symbol,
			Symbol:               symbol,
			Name:                 symbol,
			PriceUSD:             price,
			InterestRate:         rate,
			LiquidationThreshold: threshold,
		},
	}
}

func borrowPosition(symbol string, amount, price, rate float64) core.Position {
	return core.Position{
		ID:     symbol + "-borrow",
		Type:   core.PositionBorrow,
		Amount: amount,
		Asset: core.Asset{
			ID:                   symbol,
			Symbol:               symbol,
			Name:                 symbol,
			PriceUSD:             price,
			InterestRate:         rate,
			LiquidationThreshold: 0.8,
		},
	}
}
