package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-insights/internal/storage"
	"github.com/carson-networks/finance-insights/internal/storage/transaction"
)

type CreateTransaction struct {
	UserID      uuid.UUID
	Date        time.Time
	Amount      decimal.Decimal
	Category    string
	Type        string
	Description string
	Source      string

	// CreatedID is set once Perform succeeds.
	CreatedID uuid.UUID

	IAction
}

func (t *CreateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	storageCreate := &transaction.TransactionCreate{
		UserID:      t.UserID,
		Date:        t.Date,
		Amount:      t.Amount,
		Category:    t.Category,
		Type:        t.Type,
		Description: t.Description,
		Source:      t.Source,
	}
	id, err := writer.Transaction.Insert(ctx, storageCreate)
	if err != nil {
		return err
	}

	t.CreatedID = id
	return nil
}
