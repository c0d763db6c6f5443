package chat

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FinancialContext is the account snapshot the classifier sees next to the
// user's message.
type FinancialContext struct {
	Balance         decimal.Decimal `json:"balance"`
	MonthlySpending decimal.Decimal `json:"monthly_spending"`
	AnomalyCount    int             `json:"anomaly_count"`
	Categories      []string        `json:"categories"`
}

func classifyPrompt(message string, fc FinancialContext) string {
	return fmt.Sprintf(`Financial Context:
- Current Balance: $%s
- Monthly Spending: $%s
- Recent Anomalies: %d
- Available Categories: %s

User Query: %s

Classify the intent and extract parameters.
Possible intents: %s, %s, %s, %s, %s

Return only JSON in this format:
{
    "intent": "<intent_type>",
    "category": "<category_name or null>",
    "time_range": <days or null>,
    "amount": <number or null>,
    "scenario": "<description or null>"
}`,
		fc.Balance.StringFixed(2),
		fc.MonthlySpending.StringFixed(2),
		fc.AnomalyCount,
		strings.Join(fc.Categories, ", "),
		message,
		IntentForecast, IntentAnomalyCheck, IntentSpendingSummary, IntentBudgetAdvice, IntentWhatIf,
	)
}

func renderPrompt(data []byte, query string) string {
	return fmt.Sprintf(`User asked: %s

System data: %s

Generate concise response. No filler. Direct answer only.`, query, data)
}
