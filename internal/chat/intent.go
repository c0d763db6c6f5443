package chat

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	IntentForecast        = "forecast"
	IntentAnomalyCheck    = "anomaly_check"
	IntentSpendingSummary = "spending_summary"
	IntentBudgetAdvice    = "budget_advice"
	IntentWhatIf          = "whatif"
)

// Intent is the classifier's reading of a user message.
type Intent struct {
	Name      string   `json:"intent"`
	Category  *string  `json:"category"`
	TimeRange *int     `json:"time_range"`
	Amount    *float64 `json:"amount"`
	Scenario  *string  `json:"scenario"`
}

// Days returns the requested horizon, or fallback when none was given.
func (i *Intent) Days(fallback int) int {
	if i.TimeRange == nil || *i.TimeRange < 1 {
		return fallback
	}
	return *i.TimeRange
}

// CategoryName returns the requested category, or "" for all categories.
func (i *Intent) CategoryName() string {
	if i.Category == nil {
		return ""
	}
	return *i.Category
}

// rawIntent mirrors Intent with loosely typed fields; models return
// "30", "30 days", 30 or null for time_range and "null" for missing strings.
type rawIntent struct {
	Name      string          `json:"intent"`
	Category  *string         `json:"category"`
	TimeRange json.RawMessage `json:"time_range"`
	Amount    json.RawMessage `json:"amount"`
	Scenario  *string         `json:"scenario"`
}

// ParseIntent decodes the model's JSON reply, tolerating markdown fences and
// surrounding prose.
func ParseIntent(raw string) (*Intent, error) {
	var r rawIntent
	if err := json.Unmarshal([]byte(CleanModelJSON(raw)), &r); err != nil {
		return nil, fmt.Errorf("chat: parse intent: %w", err)
	}

	intent := &Intent{
		Name:     strings.ToLower(strings.TrimSpace(r.Name)),
		Category: nullableString(r.Category),
		Scenario: nullableString(r.Scenario),
	}
	if intent.Name == "" {
		return nil, fmt.Errorf("chat: parse intent: missing intent in %q", raw)
	}

	if n, ok := leadingNumber(r.TimeRange); ok {
		days := int(n)
		intent.TimeRange = &days
	}
	if n, ok := leadingNumber(r.Amount); ok {
		intent.Amount = &n
	}
	return intent, nil
}

func nullableString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" || strings.EqualFold(trimmed, "null") || strings.EqualFold(trimmed, "none") {
		return nil
	}
	return &trimmed
}

// leadingNumber reads a JSON number, or the first whitespace separated token
// of a JSON string, as a float.
func leadingNumber(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimPrefix(fields[0], "$"), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// CleanModelJSON strips markdown code fences and any text around the outermost
// JSON object.
func CleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		idx := strings.Index(s, "\n")
		if idx == -1 {
			return s
		}
		s = strings.TrimSpace(s[idx+1:])
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
