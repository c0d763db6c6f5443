package analysis

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type categoryWeek struct {
	category string
	year     int
	week     int
}

// SpendingTrends sums expenses per category and ISO week. Points are sorted by
// category then week so repeated calls compare equal.
func SpendingTrends(transactions []Transaction) ([]TrendPoint, error) {
	if err := validateTransactions(transactions); err != nil {
		return nil, err
	}

	sums := make(map[categoryWeek]decimal.Decimal)
	starts := make(map[categoryWeek]time.Time)
	for _, tx := range expensesOf(transactions) {
		day := calendarDay(tx.Date)
		year, week := day.ISOWeek()
		key := categoryWeek{category: tx.Category, year: year, week: week}
		sums[key] = sums[key].Add(tx.Amount)
		starts[key] = day.AddDate(0, 0, -dayOfWeek(day))
	}

	points := make([]TrendPoint, 0, len(sums))
	for key, sum := range sums {
		points = append(points, TrendPoint{Category: key.category, WeekStart: starts[key], Amount: sum})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Category != points[j].Category {
			return points[i].Category < points[j].Category
		}
		return points[i].WeekStart.Before(points[j].WeekStart)
	})
	return points, nil
}

// SummarizeSpending totals expenses overall and per category.
func SummarizeSpending(transactions []Transaction) (*SpendingSummary, error) {
	if err := validateTransactions(transactions); err != nil {
		return nil, err
	}

	summary := &SpendingSummary{ByCategory: make(map[string]decimal.Decimal)}
	for _, tx := range expensesOf(transactions) {
		summary.TotalSpent = summary.TotalSpent.Add(tx.Amount)
		summary.ByCategory[tx.Category] = summary.ByCategory[tx.Category].Add(tx.Amount)
	}
	return summary, nil
}

// Balance is total income minus total expenses.
func Balance(transactions []Transaction) decimal.Decimal {
	var balance decimal.Decimal
	for _, tx := range transactions {
		switch tx.Type {
		case TransactionTypeIncome:
			balance = balance.Add(tx.Amount)
		case TransactionTypeExpense:
			balance = balance.Sub(tx.Amount)
		}
	}
	return balance
}

// RecentSpending sums expenses dated within window days of the latest transaction.
func RecentSpending(transactions []Transaction, window int) decimal.Decimal {
	var latest time.Time
	for _, tx := range transactions {
		if day := calendarDay(tx.Date); day.After(latest) {
			latest = day
		}
	}
	cutoff := latest.AddDate(0, 0, -window)

	var total decimal.Decimal
	for _, tx := range expensesOf(transactions) {
		if calendarDay(tx.Date).After(cutoff) {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// Categories lists distinct categories in first-seen order.
func Categories(transactions []Transaction) []string {
	seen := make(map[string]bool)
	categories := []string{}
	for _, tx := range transactions {
		if !seen[tx.Category] {
			seen[tx.Category] = true
			categories = append(categories, tx.Category)
		}
	}
	return categories
}
