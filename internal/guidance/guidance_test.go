package guidance

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"defisim/internal/core"
)

func TestGenerate_NoSimulationYet(t *testing.T) {
	content := Generate(nil, nil)

	assert.Contains(t, content.RiskAnalysis, "Run a simulation")
	assert.Empty(t, content.ParameterSuggestions)
	assert.Empty(t, content.KeyInsights)

	partial := Generate(&core.RiskResult{}, nil)
	assert.Contains(t, partial.RiskAnalysis, "Run a simulation")
}

func TestGenerate_LiquidationTier(t *testing.T) {
	risk := &core.RiskResult{
		HealthFactor: 0.9,
		RiskLevel:    core.RiskLiquidation,
	}
	returns := &core.ReturnResult{NetReturn: 10}

	content := Generate(risk, returns)

	assert.Contains(t, content.RiskAnalysis, "Critical Risk")
	require.NotEmpty(t, content.ParameterSuggestions)
	assert.Contains(t, content.ParameterSuggestions[0], "Add more collateral")
}

func TestGenerate_AtRiskTier(t *testing.T) {
	risk := &core.RiskResult{
		HealthFactor: 1.3,
		RiskLevel:    core.RiskAtRisk,
	}
	returns := &core.ReturnResult{NetReturn: 10}

	content := Generate(risk, returns)

	assert.Contains(t, content.RiskAnalysis, "Elevated Risk")

	// Health factor in [1, 2) also triggers the buffer nudge.
	joined := strings.Join(content.ParameterSuggestions, "\n")
	assert.Contains(t, joined, "Your health factor is 1.30")
}

func TestGenerate_SafeTier(t *testing.T) {
	risk := &core.RiskResult{
		HealthFactor: core.InfiniteSafety,
		RiskLevel:    core.RiskSafe,
	}
	returns := &core.ReturnResult{
		NetReturn: 35,
		APR:       7,
		APY:       7.25,
	}

	content := Generate(risk, returns)

	assert.Contains(t, content.RiskAnalysis, "Safe Position")

	joined := strings.Join(content.KeyInsights, "\n")
	assert.Contains(t, joined, "net positive return of 35.00 USD")
	assert.Contains(t, joined, "APR: 7.00%")

	// No health-factor nudge above 2.0.
	for _, s := range content.ParameterSuggestions {
		assert.NotContains(t, s, "Aim for at least 2.0")
	}
}

func TestGenerate_NegativeNetReturn(t *testing.T) {
	risk := &core.RiskResult{
		HealthFactor: 2.5,
		RiskLevel:    core.RiskSafe,
	}
	returns := &core.ReturnResult{
		NetReturn:            -40,
		TotalDepositInterest: 10,
		TotalBorrowInterest:  50,
	}

	content := Generate(risk, returns)

	joined := strings.Join(content.KeyInsights, "\n")
	assert.Contains(t, joined, "borrow costs (50.00 USD) exceed deposit earnings (10.00 USD)")

	suggestions := strings.Join(content.ParameterSuggestions, "\n")
	assert.Contains(t, suggestions, "borrowing strategy")
}

func TestGenerate_PriceSensitivityInsight(t *testing.T) {
	risk := &core.RiskResult{
		HealthFactor:     1.6,
		RiskLevel:        core.RiskSafe,
		PriceSensitivity: 0.016,
	}
	returns := &core.ReturnResult{NetReturn: 5}

	content := Generate(risk, returns)

	joined := strings.Join(content.KeyInsights, "\n")
	assert.Contains(t, joined, "10% price drop")
	assert.Contains(t, joined, "0.16")
}
