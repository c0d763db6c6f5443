package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-insights/internal/analysis"
	"github.com/carson-networks/finance-insights/internal/operator/actions"
	"github.com/carson-networks/finance-insights/internal/storage/transaction"
)

const defaultLimit = 20

type transactionReader interface {
	GetUserTransactions(ctx context.Context, userID uuid.UUID, filter *transaction.TransactionFilter) ([]*transaction.Transaction, error)
}

type actionProcessor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// TransactionService handles transaction business logic.
type TransactionService struct {
	transactions transactionReader
	operator     actionProcessor
	now          func() time.Time
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(transactions transactionReader, op actionProcessor) *TransactionService {
	return &TransactionService{transactions: transactions, operator: op, now: time.Now}
}

// CreateTransaction creates a new transaction and returns its ID.
func (s *TransactionService) CreateTransaction(ctx context.Context, tx analysis.Transaction) (uuid.UUID, error) {
	action := &actions.CreateTransaction{
		UserID:      tx.UserID,
		Date:        tx.Date,
		Amount:      tx.Amount,
		Category:    tx.Category,
		Type:        string(tx.Type),
		Description: tx.Description,
		Source:      tx.Source,
	}

	if err := s.operator.Process(ctx, action); err != nil {
		return uuid.Nil, err
	}
	return action.CreatedID, nil
}

// ListTransactions returns a page of the user's transactions using cursor-based pagination.
func (s *TransactionService) ListTransactions(ctx context.Context, userID uuid.UUID, filter *TransactionFilter, cursor *TransactionCursor) ([]Transaction, *TransactionCursor, error) {
	limit := defaultLimit
	offset := 0
	var maxCreationTime *time.Time
	if cursor != nil {
		if cursor.Limit > 0 {
			limit = cursor.Limit
		}
		offset = cursor.Position
		maxCreationTime = &cursor.MaxCreationTime
	}

	storageFilter := &transaction.TransactionFilter{
		Limit:           limit + 1,
		Offset:          offset,
		MaxCreationTime: maxCreationTime,
	}
	if filter != nil {
		storageFilter.StartDate = filter.StartDate
		storageFilter.EndDate = filter.EndDate
		storageFilter.Category = filter.Category
	}

	// Later pages only see rows that existed when the first page was read.
	readAt := s.now()
	rows, err := s.transactions.GetUserTransactions(ctx, userID, storageFilter)
	if err != nil {
		return nil, nil, err
	}

	if len(rows) == 0 {
		return nil, nil, nil
	}

	var nextCursor *TransactionCursor
	if len(rows) > limit {
		rows = rows[:limit]

		cursorMaxCreationTime := readAt
		if maxCreationTime != nil {
			cursorMaxCreationTime = *maxCreationTime
		}

		nextCursor = &TransactionCursor{
			Position:        offset + limit,
			Limit:           limit,
			MaxCreationTime: cursorMaxCreationTime,
		}
	}

	convertedTransactions := make([]Transaction, len(rows))
	for i, row := range rows {
		convertedTransactions[i] = fromStorage(row)
	}

	return convertedTransactions, nextCursor, nil
}

// Balance is total income minus total expenses over the user's whole history.
func (s *TransactionService) Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	rows, err := s.transactions.GetUserTransactions(ctx, userID, nil)
	if err != nil {
		return decimal.Zero, err
	}
	return analysis.Balance(toAnalysis(rows)), nil
}
