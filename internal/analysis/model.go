package analysis

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction is a single entry of a user's history as the engines see it.
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Date        time.Time
	Amount      decimal.Decimal
	Category    string
	Type        TransactionType
	Description string
	Source      string
}

// FeatureVector is the engineered representation of one expense.
type FeatureVector struct {
	Amount          float64
	DayOfWeek       int
	DayOfMonth      int
	CategoryEncoded int
}

// ReasonRule identifies which explanation was attached to an anomaly.
type ReasonRule string

const (
	ReasonCategoryAverage ReasonRule = "category_average"
	ReasonOverallAverage  ReasonRule = "overall_average"
	ReasonUnusualPattern  ReasonRule = "unusual_pattern"
)

// AnomalyRecord is a flagged expense together with its score and explanation.
type AnomalyRecord struct {
	TransactionID uuid.UUID
	Date          time.Time
	Amount        decimal.Decimal
	Category      string
	AnomalyScore  float64
	Reason        string
	Rule          ReasonRule
}

// ForecastResult holds projected daily expense totals. The slices are parallel,
// one entry per projected day.
type ForecastResult struct {
	Category        string
	IntervalWidth   float64
	Dates           []time.Time
	PredictedAmount []float64
	LowerBound      []float64
	UpperBound      []float64
	TotalPredicted  float64
}

// TrendPoint is the amount spent in one category during one ISO week.
type TrendPoint struct {
	Category  string
	WeekStart time.Time
	Amount    decimal.Decimal
}

// SpendingSummary totals expenses overall and per category.
type SpendingSummary struct {
	TotalSpent decimal.Decimal
	ByCategory map[string]decimal.Decimal
}
