package service

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-insights/internal/analysis"
	"github.com/carson-networks/finance-insights/internal/chat"
	"github.com/carson-networks/finance-insights/internal/storage/anomaly"
)

// monthlyWindow is the number of days counted as "monthly" spending.
const monthlyWindow = 30

type anomalyReader interface {
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*anomaly.Anomaly, error)
}

// AnalysisOptions holds the request-independent analysis settings.
type AnalysisOptions struct {
	DefaultForecastDays int
	Timeout             time.Duration
	ContextCacheTTL     time.Duration
}

// LoggedAnomaly is a previously detected anomaly read back from storage.
type LoggedAnomaly struct {
	ID            uuid.UUID
	TransactionID uuid.UUID
	Date          time.Time
	Amount        decimal.Decimal
	Category      string
	AnomalyScore  float64
	Reason        string
	DetectedAt    time.Time
}

// AnalysisService runs the analysis engines over a user's stored history.
type AnalysisService struct {
	transactions   transactionReader
	anomalies      anomalyReader
	anomalyEngine  *analysis.AnomalyEngine
	forecastEngine *analysis.ForecastEngine
	options        AnalysisOptions
	contextCache   *cache.Cache
}

func NewAnalysisService(
	transactions transactionReader,
	anomalies anomalyReader,
	anomalyEngine *analysis.AnomalyEngine,
	forecastEngine *analysis.ForecastEngine,
	options AnalysisOptions,
) *AnalysisService {
	s := &AnalysisService{
		transactions:   transactions,
		anomalies:      anomalies,
		anomalyEngine:  anomalyEngine,
		forecastEngine: forecastEngine,
		options:        options,
	}
	if options.ContextCacheTTL > 0 {
		s.contextCache = cache.New(options.ContextCacheTTL, 2*options.ContextCacheTTL)
	}
	return s
}

func (s *AnalysisService) history(ctx context.Context, userID uuid.UUID) ([]analysis.Transaction, error) {
	rows, err := s.transactions.GetUserTransactions(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	return toAnalysis(rows), nil
}

// DetectAnomalies flags unusual expenses and queues them for storage.
func (s *AnalysisService) DetectAnomalies(ctx context.Context, userID uuid.UUID) ([]analysis.AnomalyRecord, error) {
	txs, err := s.history(ctx, userID)
	if err != nil {
		return nil, err
	}

	return withTimeout(ctx, s.options.Timeout, "detect_anomalies", func(ctx context.Context) ([]analysis.AnomalyRecord, error) {
		return s.anomalyEngine.DetectAnomalies(ctx, txs)
	})
}

// ForecastExpenses predicts daily spending. daysAhead < 1 uses the configured
// default and anything past analysis.MaxForecastDays is capped.
func (s *AnalysisService) ForecastExpenses(ctx context.Context, userID uuid.UUID, daysAhead int, category string) (*analysis.ForecastResult, error) {
	if daysAhead < 1 {
		daysAhead = s.options.DefaultForecastDays
	}
	daysAhead = min(daysAhead, analysis.MaxForecastDays)

	txs, err := s.history(ctx, userID)
	if err != nil {
		return nil, err
	}

	return withTimeout(ctx, s.options.Timeout, "forecast_expenses", func(context.Context) (*analysis.ForecastResult, error) {
		return s.forecastEngine.ForecastExpenses(txs, daysAhead, category)
	})
}

func (s *AnalysisService) SpendingTrends(ctx context.Context, userID uuid.UUID) ([]analysis.TrendPoint, error) {
	txs, err := s.history(ctx, userID)
	if err != nil {
		return nil, err
	}
	return analysis.SpendingTrends(txs)
}

func (s *AnalysisService) SpendingSummary(ctx context.Context, userID uuid.UUID) (*analysis.SpendingSummary, error) {
	txs, err := s.history(ctx, userID)
	if err != nil {
		return nil, err
	}
	return analysis.SummarizeSpending(txs)
}

// RecentAnomalies returns logged anomalies, newest first.
func (s *AnalysisService) RecentAnomalies(ctx context.Context, userID uuid.UUID, limit int) ([]LoggedAnomaly, error) {
	rows, err := s.anomalies.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	result := make([]LoggedAnomaly, len(rows))
	for i, row := range rows {
		result[i] = LoggedAnomaly{
			ID:            row.ID,
			TransactionID: row.TransactionID,
			Date:          row.Date,
			Amount:        row.Amount,
			Category:      row.Category,
			AnomalyScore:  row.AnomalyScore,
			Reason:        row.Reason,
			DetectedAt:    row.DetectedAt,
		}
	}
	return result, nil
}

// UserContext summarises the account for the chat classifier. The anomaly
// count is computed without logging so repeated chats do not duplicate rows.
func (s *AnalysisService) UserContext(ctx context.Context, userID uuid.UUID) (chat.FinancialContext, error) {
	key := userID.String()
	if s.contextCache != nil {
		if cached, found := s.contextCache.Get(key); found {
			return cached.(chat.FinancialContext), nil
		}
	}

	txs, err := s.history(ctx, userID)
	if err != nil {
		return chat.FinancialContext{}, err
	}

	anomalies, err := withTimeout(ctx, s.options.Timeout, "user_context", func(ctx context.Context) ([]analysis.AnomalyRecord, error) {
		return s.anomalyEngine.WithoutLogging().DetectAnomalies(ctx, txs)
	})
	var insufficient *analysis.InsufficientDataError
	if err != nil && !errors.As(err, &insufficient) {
		return chat.FinancialContext{}, err
	}

	fc := chat.FinancialContext{
		Balance:         analysis.Balance(txs),
		MonthlySpending: analysis.RecentSpending(txs, monthlyWindow),
		AnomalyCount:    len(anomalies),
		Categories:      analysis.Categories(txs),
	}
	if s.contextCache != nil {
		s.contextCache.SetDefault(key, fc)
	}
	return fc, nil
}

// withTimeout runs fn under timeout and reports an expired deadline as
// insufficient data. A non-positive timeout runs fn directly. fn must stop
// writing anything once its ctx is done, since it may outlive the call.
func withTimeout[T any](ctx context.Context, timeout time.Duration, operation string, fn func(context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return fn(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		value, err := fn(ctx)
		done <- result{value: value, err: err}
	}()

	var zero T
	select {
	case r := <-done:
		if r.err != nil && errors.Is(r.err, context.DeadlineExceeded) {
			return zero, timedOut(operation)
		}
		return r.value, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, timedOut(operation)
		}
		return zero, ctx.Err()
	}
}

func timedOut(operation string) error {
	return &analysis.InsufficientDataError{Operation: operation, Reason: "analysis timed out"}
}
