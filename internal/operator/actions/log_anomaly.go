package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-insights/internal/storage"
)

type LogAnomaly struct {
	TransactionID uuid.UUID
	Score         float64
	Reason        string

	IAction
}

func (l *LogAnomaly) Perform(ctx context.Context, writer *storage.Writer) error {
	_, err := writer.Anomaly.Insert(ctx, l.TransactionID, l.Score, l.Reason)
	return err
}
