package insights

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-insights/internal/analysis"
	"github.com/carson-networks/finance-insights/internal/chat"
	"github.com/carson-networks/finance-insights/internal/service"
)

const dateLayout = "2006-01-02"

// analyzer is the slice of the analysis service the insight endpoints need.
type analyzer interface {
	DetectAnomalies(ctx context.Context, userID uuid.UUID) ([]analysis.AnomalyRecord, error)
	RecentAnomalies(ctx context.Context, userID uuid.UUID, limit int) ([]service.LoggedAnomaly, error)
	ForecastExpenses(ctx context.Context, userID uuid.UUID, daysAhead int, category string) (*analysis.ForecastResult, error)
	SpendingTrends(ctx context.Context, userID uuid.UUID) ([]analysis.TrendPoint, error)
	SpendingSummary(ctx context.Context, userID uuid.UUID) (*analysis.SpendingSummary, error)
	UserContext(ctx context.Context, userID uuid.UUID) (chat.FinancialContext, error)
}

// UserPath is the path input shared by every per-user endpoint.
type UserPath struct {
	UserID string `path:"userID" format:"uuid" doc:"User UUID"`
}

func (p UserPath) parse() (uuid.UUID, error) {
	userID, err := uuid.FromString(p.UserID)
	if err != nil {
		return uuid.Nil, huma.NewError(http.StatusBadRequest, "invalid userID", err)
	}
	return userID, nil
}

// Availability tells the client whether the analysis had enough history.
type Availability struct {
	Available bool   `json:"available" doc:"False when the history is too small to analyse"`
	Reason    string `json:"reason,omitempty" doc:"Why the analysis is unavailable"`
}

// unavailable reports whether err means there was too little history, and
// maps every other error to an HTTP error.
func unavailable(err error, message string) (*Availability, error) {
	var insufficient *analysis.InsufficientDataError
	if errors.As(err, &insufficient) {
		return &Availability{Available: false, Reason: err.Error()}, nil
	}
	var malformed *analysis.MalformedInputError
	if errors.As(err, &malformed) {
		return nil, huma.NewError(http.StatusInternalServerError, "stored history is malformed", err)
	}
	return nil, huma.NewError(http.StatusInternalServerError, message, err)
}

func formatDay(t time.Time) string {
	return t.Format(dateLayout)
}

// Handlers registers every insight endpoint.
type Handlers struct {
	Analysis analyzer
}

func NewHandlers(svc analyzer) *Handlers {
	return &Handlers{Analysis: svc}
}

func (h *Handlers) Register(api huma.API) {
	h.registerAnomalies(api)
	h.registerForecast(api)
	h.registerTrends(api)
}
