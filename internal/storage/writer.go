package storage

import (
	"context"

	"github.com/stephenafamo/bob"

	"github.com/carson-networks/finance-insights/internal/storage/anomaly"
	"github.com/carson-networks/finance-insights/internal/storage/transaction"
)

type Writer struct {
	tx          bob.Tx
	Transaction *transaction.Writer
	Anomaly     *anomaly.Writer
}

func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		tx:          tx,
		Transaction: transaction.NewWriter(tx),
		Anomaly:     anomaly.NewWriter(tx),
	}
}

func (w *Writer) Commit(ctx context.Context) error {
	return w.tx.Commit(ctx)
}

func (w *Writer) Rollback(ctx context.Context) error {
	return w.tx.Rollback(ctx)
}
