package marketdata

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

const validLivePayload = `{
  "assets": [
    {
      "id": "eth",
      "symbol": "ETH",
      "name": "Ethereum",
      "priceUSD": "2000.50",
      "interestRate": "0.045",
      "liquidationThreshold": "0.825"
    },
    {
      "id": "usdc",
      "symbol": "USDC",
      "name": "USD Coin",
      "priceUSD": "1.00",
      "interestRate": "0.031",
      "liquidationThreshold": "0.85"
    }
  ]
}`
