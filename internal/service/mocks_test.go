package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/finance-insights/internal/chat"
	"github.com/carson-networks/finance-insights/internal/operator/actions"
	"github.com/carson-networks/finance-insights/internal/storage/anomaly"
	"github.com/carson-networks/finance-insights/internal/storage/transaction"
)

type mockTransactionReader struct {
	mock.Mock
}

func (m *mockTransactionReader) GetUserTransactions(ctx context.Context, userID uuid.UUID, filter *transaction.TransactionFilter) ([]*transaction.Transaction, error) {
	args := m.Called(ctx, userID, filter)
	rows, _ := args.Get(0).([]*transaction.Transaction)
	return rows, args.Error(1)
}

type mockActionProcessor struct {
	mock.Mock
}

func (m *mockActionProcessor) Process(ctx context.Context, action actions.IAction) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

type mockAnomalyReader struct {
	mock.Mock
}

func (m *mockAnomalyReader) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*anomaly.Anomaly, error) {
	args := m.Called(ctx, userID, limit)
	rows, _ := args.Get(0).([]*anomaly.Anomaly)
	return rows, args.Error(1)
}

type mockAnomalyLogger struct {
	mock.Mock
}

func (m *mockAnomalyLogger) LogAnomaly(ctx context.Context, transactionID uuid.UUID, score float64, reason string) error {
	args := m.Called(ctx, transactionID, score, reason)
	return args.Error(0)
}

type mockAssistant struct {
	mock.Mock
}

func (m *mockAssistant) Classify(ctx context.Context, message string, fc chat.FinancialContext) (*chat.Intent, error) {
	args := m.Called(ctx, message, fc)
	intent, _ := args.Get(0).(*chat.Intent)
	return intent, args.Error(1)
}

func (m *mockAssistant) Render(ctx context.Context, data any, query string) (string, error) {
	args := m.Called(ctx, data, query)
	return args.String(0), args.Error(1)
}

var historyStart = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

func storageRow(userID uuid.UUID, day int, amount, category, txType string) *transaction.Transaction {
	date := historyStart.AddDate(0, 0, day)
	return &transaction.Transaction{
		ID:        uuid.Must(uuid.NewV4()),
		UserID:    userID,
		Date:      date,
		Amount:    decimal.RequireFromString(amount),
		Category:  category,
		Type:      txType,
		CreatedAt: date.Add(time.Hour),
	}
}

// spendingHistory is 40 days of steady food spending, one salary and one
// large electronics purchase, newest first like the storage reader returns it.
func spendingHistory(userID uuid.UUID) []*transaction.Transaction {
	var rows []*transaction.Transaction
	rows = append(rows, storageRow(userID, 0, "3000", "Salary", "income"))
	for day := 0; day < 40; day++ {
		amount := []string{"42.10", "55.00", "48.75", "51.20"}[day%4]
		rows = append(rows, storageRow(userID, day, amount, "Food", "expense"))
	}
	rows = append(rows, storageRow(userID, 39, "1800", "Electronics", "expense"))

	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows
}
