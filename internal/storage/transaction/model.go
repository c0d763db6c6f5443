package transaction

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

const tableName = "transactions"

var columns = []string{"id", "user_id", "date", "amount", "category", "type", "description", "source", "created_at"}

// Transaction represents a transaction record.
type Transaction struct {
	ID          uuid.UUID       `db:"id"`
	UserID      uuid.UUID       `db:"user_id"`
	Date        time.Time       `db:"date"`
	Amount      decimal.Decimal `db:"amount"`
	Category    string          `db:"category"`
	Type        string          `db:"type"`
	Description string          `db:"description"`
	Source      string          `db:"source"`
	CreatedAt   time.Time       `db:"created_at"`
}

// TransactionCreate is the input for creating a new transaction.
type TransactionCreate struct {
	UserID      uuid.UUID
	Date        time.Time
	Amount      decimal.Decimal
	Category    string
	Type        string
	Description string
	Source      string
}

// TransactionFilter narrows GetUserTransactions. Nil fields and a zero Limit
// are not applied.
type TransactionFilter struct {
	StartDate       *time.Time
	EndDate         *time.Time
	Category        *string
	MaxCreationTime *time.Time
	Limit           int
	Offset          int
}
