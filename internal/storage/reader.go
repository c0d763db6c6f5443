package storage

import (
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/finance-insights/internal/storage/anomaly"
	"github.com/carson-networks/finance-insights/internal/storage/transaction"
)

type Reader struct {
	Transactions *transaction.Reader
	Anomalies    *anomaly.Reader
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{
		Transactions: transaction.NewReader(exec),
		Anomalies:    anomaly.NewReader(exec),
	}
}
