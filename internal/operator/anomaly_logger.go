package operator

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-insights/internal/operator/actions"
)

// AnomalyLogger persists detected anomalies through the write queue without
// holding up the caller.
type AnomalyLogger struct {
	Delegator *OperatorDelegator
}

func NewAnomalyLogger(d *OperatorDelegator) *AnomalyLogger {
	return &AnomalyLogger{Delegator: d}
}

// LogAnomaly queues the insert detached from ctx's cancellation, so the row is
// written even after the request that found it has returned.
func (l *AnomalyLogger) LogAnomaly(ctx context.Context, transactionID uuid.UUID, score float64, reason string) error {
	return l.Delegator.Enqueue(context.WithoutCancel(ctx), &actions.LogAnomaly{
		TransactionID: transactionID,
		Score:         score,
		Reason:        reason,
	})
}
