package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIntent(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		intent    string
		category  string
		timeRange int
	}{
		{
			name:      "plain json",
			raw:       `{"intent": "forecast", "category": "Food", "time_range": 14, "amount": null, "scenario": null}`,
			intent:    IntentForecast,
			category:  "Food",
			timeRange: 14,
		},
		{
			name:      "fenced with string range",
			raw:       "```json\n{\"intent\": \"Forecast\", \"category\": \"null\", \"time_range\": \"30 days\"}\n```",
			intent:    IntentForecast,
			timeRange: 30,
		},
		{
			name:   "prose around object",
			raw:    `Sure! {"intent": "anomaly_check", "category": null, "time_range": null} Hope that helps.`,
			intent: IntentAnomalyCheck,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent, err := ParseIntent(tt.raw)
			require.NoError(t, err)

			assert.Equal(t, tt.intent, intent.Name)
			assert.Equal(t, tt.category, intent.CategoryName())
			if tt.timeRange == 0 {
				assert.Nil(t, intent.TimeRange)
			} else {
				require.NotNil(t, intent.TimeRange)
				assert.Equal(t, tt.timeRange, *intent.TimeRange)
			}
		})
	}
}

func TestParseIntent_Amount(t *testing.T) {
	intent, err := ParseIntent(`{"intent": "whatif", "amount": "$250 per month", "scenario": "cancel gym"}`)
	require.NoError(t, err)

	require.NotNil(t, intent.Amount)
	assert.Equal(t, 250.0, *intent.Amount)
	require.NotNil(t, intent.Scenario)
	assert.Equal(t, "cancel gym", *intent.Scenario)
}

func TestParseIntent_Invalid(t *testing.T) {
	_, err := ParseIntent("I could not decide")
	assert.Error(t, err)

	_, err = ParseIntent(`{"category": "Food"}`)
	assert.Error(t, err)
}

func TestIntent_Days(t *testing.T) {
	zero, week := 0, 7

	assert.Equal(t, 30, (&Intent{}).Days(30))
	assert.Equal(t, 30, (&Intent{TimeRange: &zero}).Days(30))
	assert.Equal(t, 7, (&Intent{TimeRange: &week}).Days(30))
}

func TestCleanModelJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, CleanModelJSON("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, CleanModelJSON("  {\"a\":1}  "))
	assert.Equal(t, "```", CleanModelJSON("```"))
}
