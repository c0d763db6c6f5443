package insights

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-insights/internal/logging"
)

// ForecastInput bounds daysAhead by analysis.MaxForecastDays.
type ForecastInput struct {
	UserPath
	DaysAhead int    `query:"daysAhead" minimum:"0" maximum:"365" doc:"Days to forecast, 0 uses the server default"`
	Category  string `query:"category" doc:"Only forecast this category"`
}

type ForecastDay struct {
	Date            string  `json:"date" doc:"Forecast date, YYYY-MM-DD"`
	PredictedAmount float64 `json:"predictedAmount" doc:"Point estimate"`
	LowerBound      float64 `json:"lowerBound" doc:"Lower edge of the interval"`
	UpperBound      float64 `json:"upperBound" doc:"Upper edge of the interval"`
}

type ForecastOutput struct {
	Body struct {
		Availability
		Category       string        `json:"category,omitempty" doc:"Forecast category, empty for all spending"`
		IntervalWidth  float64       `json:"intervalWidth,omitempty" doc:"Coverage of the prediction interval"`
		Days           []ForecastDay `json:"days" doc:"One entry per future day"`
		TotalPredicted float64       `json:"totalPredicted" doc:"Sum of predicted amounts"`
	}
}

func (h *Handlers) registerForecast(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "forecast-expenses",
		Method:      http.MethodGet,
		Path:        "/v1/users/{userID}/forecast",
		Summary:     "Forecast expenses",
		Description: "Predicts daily spending after the user's last recorded expense.",
		Tags:        []string{"Insights"},
	}, h.forecast)
}

func (h *Handlers) forecast(ctx context.Context, input *ForecastInput) (*ForecastOutput, error) {
	userID, err := input.parse()
	if err != nil {
		return nil, err
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("userID", userID.String())
		logData.AddData("daysAhead", input.DaysAhead)
		defer logData.AddTiming("forecastMs")()
	}

	out := &ForecastOutput{}
	out.Body.Days = []ForecastDay{}
	result, err := h.Analysis.ForecastExpenses(ctx, userID, input.DaysAhead, input.Category)
	if err != nil {
		availability, err := unavailable(err, "failed to forecast expenses")
		if err != nil {
			return nil, err
		}
		out.Body.Availability = *availability
		out.Body.Category = input.Category
		return out, nil
	}

	out.Body.Available = true
	out.Body.Category = result.Category
	out.Body.IntervalWidth = result.IntervalWidth
	out.Body.TotalPredicted = result.TotalPredicted
	for i, d := range result.Dates {
		out.Body.Days = append(out.Body.Days, ForecastDay{
			Date:            formatDay(d),
			PredictedAmount: result.PredictedAmount[i],
			LowerBound:      result.LowerBound[i],
			UpperBound:      result.UpperBound[i],
		})
	}
	return out, nil
}
