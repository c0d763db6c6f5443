package insights

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

type TrendPoint struct {
	Category  string `json:"category" doc:"Expense category"`
	WeekStart string `json:"weekStart" doc:"Monday of the ISO week, YYYY-MM-DD"`
	Amount    string `json:"amount" doc:"Total spent in the week"`
}

type TrendsOutput struct {
	Body struct {
		Trends []TrendPoint `json:"trends" doc:"Weekly totals ordered by category then week"`
	}
}

type SummaryOutput struct {
	Body struct {
		TotalSpent      string            `json:"totalSpent" doc:"All expenses"`
		ByCategory      map[string]string `json:"byCategory" doc:"Expenses per category"`
		Balance         string            `json:"balance" doc:"Income minus expenses"`
		MonthlySpending string            `json:"monthlySpending" doc:"Expenses in the 30 days up to the latest transaction"`
		AnomalyCount    int               `json:"anomalyCount" doc:"Currently flagged expenses"`
	}
}

func (h *Handlers) registerTrends(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "spending-trends",
		Method:      http.MethodGet,
		Path:        "/v1/users/{userID}/trends",
		Summary:     "Spending trends",
		Description: "Weekly expense totals per category.",
		Tags:        []string{"Insights"},
	}, h.trends)

	huma.Register(api, huma.Operation{
		OperationID: "spending-summary",
		Method:      http.MethodGet,
		Path:        "/v1/users/{userID}/summary",
		Summary:     "Spending summary",
		Description: "Totals per category plus the account snapshot used by chat.",
		Tags:        []string{"Insights"},
	}, h.summary)
}

func (h *Handlers) trends(ctx context.Context, input *UserPath) (*TrendsOutput, error) {
	userID, err := input.parse()
	if err != nil {
		return nil, err
	}

	points, err := h.Analysis.SpendingTrends(ctx, userID)
	if err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to compute trends", err)
	}

	out := &TrendsOutput{}
	out.Body.Trends = make([]TrendPoint, len(points))
	for i, p := range points {
		out.Body.Trends[i] = TrendPoint{
			Category:  p.Category,
			WeekStart: formatDay(p.WeekStart),
			Amount:    p.Amount.StringFixed(2),
		}
	}
	return out, nil
}

func (h *Handlers) summary(ctx context.Context, input *UserPath) (*SummaryOutput, error) {
	userID, err := input.parse()
	if err != nil {
		return nil, err
	}

	summary, err := h.Analysis.SpendingSummary(ctx, userID)
	if err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to summarise spending", err)
	}
	fc, err := h.Analysis.UserContext(ctx, userID)
	if err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to summarise spending", err)
	}

	out := &SummaryOutput{}
	out.Body.TotalSpent = summary.TotalSpent.StringFixed(2)
	out.Body.ByCategory = make(map[string]string, len(summary.ByCategory))
	for category, amount := range summary.ByCategory {
		out.Body.ByCategory[category] = amount.StringFixed(2)
	}
	out.Body.Balance = fc.Balance.StringFixed(2)
	out.Body.MonthlySpending = fc.MonthlySpending.StringFixed(2)
	out.Body.AnomalyCount = fc.AnomalyCount
	return out, nil
}
