package service

import (
	"time"

	"github.com/carson-networks/finance-insights/internal/analysis"
	"github.com/carson-networks/finance-insights/internal/storage/transaction"
)

// Transaction is a stored transaction as the service layer sees it.
type Transaction struct {
	analysis.Transaction
	CreatedAt time.Time
}

// TransactionCursor identifies a position in a paginated result set
// and carries the limit and maxCreationTime so subsequent pages are consistent.
type TransactionCursor struct {
	Position        int
	Limit           int
	MaxCreationTime time.Time
}

// TransactionFilter narrows a listing to a date range or category.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Category  *string
}

func fromStorage(row *transaction.Transaction) Transaction {
	return Transaction{
		Transaction: analysis.Transaction{
			ID:          row.ID,
			UserID:      row.UserID,
			Date:        row.Date,
			Amount:      row.Amount,
			Category:    row.Category,
			Type:        analysis.TransactionType(row.Type),
			Description: row.Description,
			Source:      row.Source,
		},
		CreatedAt: row.CreatedAt,
	}
}

func toAnalysis(rows []*transaction.Transaction) []analysis.Transaction {
	txs := make([]analysis.Transaction, len(rows))
	for i, row := range rows {
		txs[i] = fromStorage(row).Transaction
	}
	return txs
}
