package analysis

import (
	"time"
)

// validateTransactions rejects anything that would force the engines to guess a figure.
func validateTransactions(transactions []Transaction) error {
	for _, tx := range transactions {
		if tx.Date.IsZero() {
			return &MalformedInputError{TransactionID: tx.ID, Field: "date", Reason: "missing"}
		}
		if !tx.Amount.IsPositive() {
			return &MalformedInputError{TransactionID: tx.ID, Field: "amount", Reason: "must be positive, got " + tx.Amount.String()}
		}
		if !tx.Type.Valid() {
			return &MalformedInputError{TransactionID: tx.ID, Field: "type", Reason: "unknown type " + string(tx.Type)}
		}
	}
	return nil
}

// expensesOf returns the expense subset in input order.
func expensesOf(transactions []Transaction) []Transaction {
	expenses := make([]Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if tx.Type == TransactionTypeExpense {
			expenses = append(expenses, tx)
		}
	}
	return expenses
}

// calendarDay drops the time of day, keeping the date as written in t's location.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dayOfWeek numbers days from Monday = 0 to Sunday = 6.
func dayOfWeek(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// categoryIndex maps each category to its zero-based position of first appearance.
// Built per call; the numbering is meaningless outside the batch it came from.
type categoryIndex map[string]int

func newCategoryIndex(transactions []Transaction) categoryIndex {
	index := make(categoryIndex)
	for _, tx := range transactions {
		if _, ok := index[tx.Category]; !ok {
			index[tx.Category] = len(index)
		}
	}
	return index
}

func buildFeatures(expenses []Transaction) []FeatureVector {
	index := newCategoryIndex(expenses)
	features := make([]FeatureVector, len(expenses))
	for i, tx := range expenses {
		day := calendarDay(tx.Date)
		features[i] = FeatureVector{
			Amount:          tx.Amount.InexactFloat64(),
			DayOfWeek:       dayOfWeek(day),
			DayOfMonth:      day.Day(),
			CategoryEncoded: index[tx.Category],
		}
	}
	return features
}

// modelMatrix selects the columns the outlier model is fitted on.
func modelMatrix(features []FeatureVector) [][]float64 {
	rows := make([][]float64, len(features))
	for i, f := range features {
		rows[i] = []float64{f.Amount, float64(f.DayOfWeek), float64(f.CategoryEncoded)}
	}
	return rows
}
