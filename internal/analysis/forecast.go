package analysis

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ForecastConfig tunes the expense forecaster.
type ForecastConfig struct {
	// IntervalWidth is the probability mass covered by [LowerBound, UpperBound].
	IntervalWidth float64
	// WeeklySeasonality enables day-of-week effects.
	WeeklySeasonality bool
	// SeasonalityMinDays is the shortest daily grid weekly effects are fitted on.
	SeasonalityMinDays int
}

func DefaultForecastConfig() ForecastConfig {
	return ForecastConfig{
		IntervalWidth:      0.8,
		WeeklySeasonality:  true,
		SeasonalityMinDays: 14,
	}
}

// ForecastEngine projects daily expense totals. It keeps no state between calls.
type ForecastEngine struct {
	config ForecastConfig
}

func NewForecastEngine(config ForecastConfig) *ForecastEngine {
	return &ForecastEngine{config: config}
}

// MaxForecastDays is the longest horizon ForecastExpenses accepts.
const MaxForecastDays = 365

// ForecastExpenses fits an additive trend + day-of-week model to the daily
// expense totals and projects daysAhead days past the last observed day.
// An empty category forecasts all expenses.
func (e *ForecastEngine) ForecastExpenses(transactions []Transaction, daysAhead int, category string) (*ForecastResult, error) {
	if daysAhead < 1 {
		return nil, &MalformedInputError{Field: "days_ahead", Reason: fmt.Sprintf("must be at least 1, got %d", daysAhead)}
	}
	if daysAhead > MaxForecastDays {
		return nil, &MalformedInputError{Field: "days_ahead", Reason: fmt.Sprintf("must be at most %d, got %d", MaxForecastDays, daysAhead)}
	}
	if err := validateTransactions(transactions); err != nil {
		return nil, err
	}

	expenses := expensesOf(transactions)
	if len(expenses) == 0 {
		return nil, &InsufficientDataError{Operation: "forecast", Reason: "no expense history"}
	}
	if category != "" {
		expenses = inCategory(expenses, category)
		if len(expenses) == 0 {
			return nil, &InvalidCategoryError{Operation: "forecast", Category: category}
		}
	}

	series := newDailySeries(expenses)
	if series.observedDays < 2 {
		return nil, &InsufficientDataError{
			Operation: "forecast",
			Reason:    fmt.Sprintf("need at least 2 distinct dates, have %d", series.observedDays),
		}
	}

	weekly := e.config.WeeklySeasonality && len(series.values) >= e.config.SeasonalityMinDays
	model, err := fitAdditiveModel(series, weekly)
	if err != nil {
		return nil, fmt.Errorf("forecast: fit model: %w", err)
	}

	z := distuv.UnitNormal.Quantile(0.5 + e.config.IntervalWidth/2)

	result := &ForecastResult{
		Category:        category,
		IntervalWidth:   e.config.IntervalWidth,
		Dates:           make([]time.Time, daysAhead),
		PredictedAmount: make([]float64, daysAhead),
		LowerBound:      make([]float64, daysAhead),
		UpperBound:      make([]float64, daysAhead),
	}
	last := len(series.values) - 1
	for h := 1; h <= daysAhead; h++ {
		day := series.start.AddDate(0, 0, last+h)
		point, spread := model.predict(last+h, dayOfWeek(day))
		margin := z * spread

		predicted := math.Max(0, point)
		lower := math.Min(math.Max(0, point-margin), predicted)
		upper := math.Max(point+margin, predicted)

		i := h - 1
		result.Dates[i] = day
		result.PredictedAmount[i] = predicted
		result.LowerBound[i] = lower
		result.UpperBound[i] = upper
		result.TotalPredicted += predicted
	}
	return result, nil
}

func inCategory(transactions []Transaction, category string) []Transaction {
	var matched []Transaction
	for _, tx := range transactions {
		if tx.Category == category {
			matched = append(matched, tx)
		}
	}
	return matched
}

// dailySeries is a gap-free grid of daily totals; days without expenses are zero.
type dailySeries struct {
	start        time.Time
	values       []float64
	observedDays int
}

func newDailySeries(expenses []Transaction) dailySeries {
	totals := make(map[time.Time]decimal.Decimal)
	var first, last time.Time
	for _, tx := range expenses {
		day := calendarDay(tx.Date)
		totals[day] = totals[day].Add(tx.Amount)
		if first.IsZero() || day.Before(first) {
			first = day
		}
		if day.After(last) {
			last = day
		}
	}

	n := daysBetween(first, last) + 1
	values := make([]float64, n)
	for day, total := range totals {
		values[daysBetween(first, day)] = total.InexactFloat64()
	}
	return dailySeries{start: first, values: values, observedDays: len(totals)}
}

func daysBetween(from, to time.Time) int {
	return int(math.Round(to.Sub(from).Hours() / 24))
}

// additiveModel is y(t) = intercept + slope*t + weekday effect, with t scaled to [0, 1]
// over the observed grid and Monday as the reference weekday.
type additiveModel struct {
	coef   []float64
	weekly bool
	scale  float64
	sigma  float64
	tMean  float64
	tSxx   float64
	n      int
}

func fitAdditiveModel(series dailySeries, weekly bool) (*additiveModel, error) {
	n := len(series.values)
	m := &additiveModel{weekly: weekly, scale: float64(n - 1), n: n}

	cols := 2
	if weekly {
		cols += 6
	}
	x := mat.NewDense(n, cols, nil)
	for i := 0; i < n; i++ {
		copy(x.RawRowView(i), m.regressors(i, dayOfWeek(series.start.AddDate(0, 0, i))))
	}
	y := mat.NewVecDense(n, series.values)

	var beta mat.VecDense
	if err := beta.SolveVec(x, y); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, err
		}
	}
	m.coef = mat.Col(nil, 0, &beta)

	var fitted mat.VecDense
	fitted.MulVec(x, &beta)
	var sse float64
	for i := 0; i < n; i++ {
		r := series.values[i] - fitted.AtVec(i)
		sse += r * r
	}
	if dof := n - cols; dof > 0 {
		m.sigma = math.Sqrt(sse / float64(dof))
	}

	for i := 0; i < n; i++ {
		m.tMean += m.time(i)
	}
	m.tMean /= float64(n)
	for i := 0; i < n; i++ {
		d := m.time(i) - m.tMean
		m.tSxx += d * d
	}
	return m, nil
}

func (m *additiveModel) time(i int) float64 {
	return float64(i) / m.scale
}

func (m *additiveModel) regressors(i, weekday int) []float64 {
	row := []float64{1, m.time(i)}
	if m.weekly {
		dummies := make([]float64, 6)
		if weekday > 0 {
			dummies[weekday-1] = 1
		}
		row = append(row, dummies...)
	}
	return row
}

// predict returns the point estimate for grid index i and the standard error of
// a new observation there, which widens as i moves away from the fitted range.
func (m *additiveModel) predict(i, weekday int) (float64, float64) {
	var point float64
	for j, r := range m.regressors(i, weekday) {
		point += m.coef[j] * r
	}
	d := m.time(i) - m.tMean
	spread := m.sigma * math.Sqrt(1+1/float64(m.n)+d*d/m.tSxx)
	return point, spread
}
