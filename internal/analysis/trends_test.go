package analysis

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -- SpendingTrends tests --

func TestSpendingTrends_GroupsByCategoryAndISOWeek(t *testing.T) {
	txs := []Transaction{
		expense(0, "10", "Food"),        // Mon 2025-03-03
		expense(6, "15", "Food"),        // Sun 2025-03-09, same ISO week
		expense(7, "20", "Food"),        // Mon 2025-03-10, next week
		expense(2, "100", "Rent"),       // Wed 2025-03-05
		expense(3, "5.50", "Transport"), // Thu 2025-03-06
		income(1, "3000"),
	}

	points, err := SpendingTrends(txs)
	require.NoError(t, err)

	require.Len(t, points, 4)
	assert.Equal(t, "Food", points[0].Category)
	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), points[0].WeekStart)
	assert.True(t, points[0].Amount.Equal(decimal.RequireFromString("25")))
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), points[1].WeekStart)
	assert.True(t, points[1].Amount.Equal(decimal.RequireFromString("20")))
	assert.Equal(t, "Rent", points[2].Category)
	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), points[2].WeekStart)
	assert.Equal(t, "Transport", points[3].Category)
	assert.True(t, points[3].Amount.Equal(decimal.RequireFromString("5.50")))
}

func TestSpendingTrends_YearBoundaryUsesISOWeek(t *testing.T) {
	// 2024-12-30 (Mon) and 2025-01-02 (Thu) are both in ISO week 1 of 2025.
	txs := []Transaction{
		newTx(TransactionTypeExpense, time.Date(2024, 12, 30, 9, 0, 0, 0, time.UTC), "10", "Food"),
		newTx(TransactionTypeExpense, time.Date(2025, 1, 2, 18, 0, 0, 0, time.UTC), "10", "Food"),
	}

	points, err := SpendingTrends(txs)
	require.NoError(t, err)

	require.Len(t, points, 1)
	assert.Equal(t, time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC), points[0].WeekStart)
	assert.True(t, points[0].Amount.Equal(decimal.RequireFromString("20")))
}

func TestSpendingTrends_Idempotent(t *testing.T) {
	txs := noisyHistory(120, 9)
	txs = append(txs, constantHistory(40, "12.30", "Transport")...)

	first, err := SpendingTrends(txs)
	require.NoError(t, err)
	second, err := SpendingTrends(txs)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSpendingTrends_NoExpenses(t *testing.T) {
	points, err := SpendingTrends([]Transaction{income(0, "10")})

	assert.NoError(t, err)
	assert.Empty(t, points)
}

// -- summary helper tests --

func TestSummarizeSpending(t *testing.T) {
	txs := []Transaction{
		expense(0, "10.10", "Food"),
		expense(1, "4.90", "Food"),
		expense(2, "100", "Rent"),
		income(3, "2000"),
	}

	summary, err := SummarizeSpending(txs)
	require.NoError(t, err)

	assert.True(t, summary.TotalSpent.Equal(decimal.RequireFromString("115")))
	assert.Len(t, summary.ByCategory, 2)
	assert.True(t, summary.ByCategory["Food"].Equal(decimal.RequireFromString("15")))
	assert.True(t, summary.ByCategory["Rent"].Equal(decimal.RequireFromString("100")))
}

func TestBalance(t *testing.T) {
	txs := []Transaction{income(0, "2000"), expense(1, "150.25", "Food"), expense(2, "49.75", "Rent")}

	assert.True(t, Balance(txs).Equal(decimal.RequireFromString("1800")))
	assert.True(t, Balance(nil).IsZero())
}

func TestRecentSpending(t *testing.T) {
	txs := []Transaction{
		expense(0, "500", "Rent"),
		expense(40, "20", "Food"),
		expense(60, "30", "Food"),
		income(61, "1000"),
	}

	// Window runs back 30 days from day 61, so only day 40 onwards counts.
	assert.True(t, RecentSpending(txs, 30).Equal(decimal.RequireFromString("50")))
}

func TestCategories(t *testing.T) {
	txs := []Transaction{expense(0, "1", "Rent"), income(1, "5"), expense(2, "1", "Food"), expense(3, "1", "Rent")}

	assert.Equal(t, []string{"Rent", "Salary", "Food"}, Categories(txs))
}
