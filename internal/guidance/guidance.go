// Package guidance derives human-readable strategy guidance from risk and
// return results. It is a presentation-layer consumer of the numeric core:
// it thresholds the same risk tiers and sign-checks net return, but
// performs no portfolio math of its own.
package guidance

import (
	"fmt"

	"defisim/internal/core"
)

// Content is the generated guidance for the current strategy.
type Content struct {
	RiskAnalysis         string   `json:"riskAnalysis"`
	ParameterSuggestions []string `json:"parameterSuggestions"`
	KeyInsights          []string `json:"keyInsights"`
}

// Generate builds guidance text from the latest risk and return results.
// Either input being nil means no simulation has run yet.
func Generate(risk *core.RiskResult, returns *core.ReturnResult) Content {
	if risk == nil || returns == nil {
		return Content{
			RiskAnalysis:         "Run a simulation to see personalized guidance based on your strategy.",
			ParameterSuggestions: []string{},
			KeyInsights:          []string{},
		}
	}

	suggestions := []string{}
	insights := []string{}
	var riskAnalysis string

	switch risk.RiskLevel {
	case core.RiskLiquidation:
		riskAnalysis = "Critical Risk: Your position is at or below the liquidation threshold. Immediate action is required to avoid liquidation."
		suggestions = append(suggestions,
			"Add more collateral to increase your health factor above 1.0",
			"Reduce your borrow amount to lower liquidation risk",
			"Consider closing risky positions and rebalancing your portfolio")
	case core.RiskAtRisk:
		riskAnalysis = "Elevated Risk: Your health factor is below 1.5, which means you are vulnerable to liquidation if asset prices move against you."
		suggestions = append(suggestions,
			"Increase collateral to improve your health factor to at least 2.0",
			"Monitor price movements closely and be prepared to adjust positions",
			"Consider reducing leverage to create a safety buffer")
	case core.RiskSafe:
		riskAnalysis = "Safe Position: Your health factor is healthy, indicating good collateralization. Continue monitoring market conditions."
		insights = append(insights, "Your current collateral ratio provides a good safety margin")
	}

	if returns.NetReturn < 0 {
		insights = append(insights, fmt.Sprintf(
			"Your borrow costs (%.2f USD) exceed deposit earnings (%.2f USD)",
			returns.TotalBorrowInterest, returns.TotalDepositInterest))
		suggestions = append(suggestions,
			"Review if your borrowing strategy is generating sufficient returns elsewhere",
			"Consider reducing borrow amounts or finding higher-yield deposit opportunities")
	} else {
		insights = append(insights, fmt.Sprintf(
			"Your strategy generates a net positive return of %.2f USD over the simulation period",
			returns.NetReturn))
		insights = append(insights, fmt.Sprintf(
			"Annualized APR: %.2f%%, APY: %.2f%%", returns.APR, returns.APY))
	}

	if risk.HealthFactor >= 1.0 && risk.HealthFactor < 2.0 {
		suggestions = append(suggestions, fmt.Sprintf(
			"Your health factor is %.2f. Aim for at least 2.0 for better safety", risk.HealthFactor))
	}

	if risk.PriceSensitivity > 0 {
		insights = append(insights, fmt.Sprintf(
			"A 10%% price drop would reduce your health factor by approximately %.2f",
			risk.PriceSensitivity*10))
	}

	return Content{
		RiskAnalysis:         riskAnalysis,
		ParameterSuggestions: suggestions,
		KeyInsights:          insights,
	}
}
