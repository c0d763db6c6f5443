package insights

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-insights/internal/logging"
)

type Anomaly struct {
	TransactionID string  `json:"transactionID" doc:"Flagged transaction UUID"`
	Date          string  `json:"date" doc:"Transaction date, YYYY-MM-DD"`
	Amount        string  `json:"amount" doc:"Transaction amount"`
	Category      string  `json:"category" doc:"Transaction category"`
	AnomalyScore  float64 `json:"anomalyScore" doc:"Lower is more anomalous"`
	Reason        string  `json:"reason" doc:"Human readable explanation"`
	Rule          string  `json:"rule,omitempty" doc:"Which explanation rule produced the reason"`
	DetectedAt    string  `json:"detectedAt,omitempty" doc:"RFC3339 time the anomaly was logged"`
}

type DetectAnomaliesOutput struct {
	Body struct {
		Availability
		Anomalies []Anomaly `json:"anomalies" doc:"Flagged expenses in history order"`
	}
}

type AnomalyHistoryInput struct {
	UserPath
	Limit int `query:"limit" default:"10" minimum:"1" maximum:"100" doc:"Number of anomalies to return"`
}

type AnomalyHistoryOutput struct {
	Body struct {
		Anomalies []Anomaly `json:"anomalies" doc:"Logged anomalies, newest first"`
	}
}

func (h *Handlers) registerAnomalies(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "detect-anomalies",
		Method:      http.MethodGet,
		Path:        "/v1/users/{userID}/anomalies",
		Summary:     "Detect anomalies",
		Description: "Scores the user's expenses and returns the unusual ones. Flagged expenses are also logged.",
		Tags:        []string{"Insights"},
	}, h.detectAnomalies)

	huma.Register(api, huma.Operation{
		OperationID: "anomaly-history",
		Method:      http.MethodGet,
		Path:        "/v1/users/{userID}/anomalies/history",
		Summary:     "Anomaly history",
		Description: "Returns previously logged anomalies.",
		Tags:        []string{"Insights"},
	}, h.anomalyHistory)
}

func (h *Handlers) detectAnomalies(ctx context.Context, input *UserPath) (*DetectAnomaliesOutput, error) {
	userID, err := input.parse()
	if err != nil {
		return nil, err
	}

	logData := logging.GetLogData(ctx)
	if logData != nil {
		logData.AddData("userID", userID.String())
		defer logData.AddTiming("detectAnomaliesMs")()
	}

	records, err := h.Analysis.DetectAnomalies(ctx, userID)
	out := &DetectAnomaliesOutput{}
	out.Body.Anomalies = []Anomaly{}
	if err != nil {
		availability, err := unavailable(err, "failed to detect anomalies")
		if err != nil {
			return nil, err
		}
		out.Body.Availability = *availability
		return out, nil
	}

	out.Body.Available = true
	for _, r := range records {
		out.Body.Anomalies = append(out.Body.Anomalies, Anomaly{
			TransactionID: r.TransactionID.String(),
			Date:          formatDay(r.Date),
			Amount:        r.Amount.StringFixed(2),
			Category:      r.Category,
			AnomalyScore:  r.AnomalyScore,
			Reason:        r.Reason,
			Rule:          string(r.Rule),
		})
	}
	if logData != nil {
		logData.AddData("anomalyCount", len(records))
	}
	return out, nil
}

func (h *Handlers) anomalyHistory(ctx context.Context, input *AnomalyHistoryInput) (*AnomalyHistoryOutput, error) {
	userID, err := input.parse()
	if err != nil {
		return nil, err
	}

	logged, err := h.Analysis.RecentAnomalies(ctx, userID, input.Limit)
	if err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to list anomalies", err)
	}

	out := &AnomalyHistoryOutput{}
	out.Body.Anomalies = make([]Anomaly, len(logged))
	for i, a := range logged {
		out.Body.Anomalies[i] = Anomaly{
			TransactionID: a.TransactionID.String(),
			Date:          formatDay(a.Date),
			Amount:        a.Amount.StringFixed(2),
			Category:      a.Category,
			AnomalyScore:  a.AnomalyScore,
			Reason:        a.Reason,
			DetectedAt:    a.DetectedAt.Format(time.RFC3339),
		}
	}
	return out, nil
}
