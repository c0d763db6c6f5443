package anomaly

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

const tableName = "anomalies"

// Anomaly is a logged anomaly joined with the transaction it flags.
type Anomaly struct {
	ID            uuid.UUID       `db:"id"`
	TransactionID uuid.UUID       `db:"transaction_id"`
	AnomalyScore  float64         `db:"anomaly_score"`
	Reason        string          `db:"reason"`
	DetectedAt    time.Time       `db:"detected_at"`
	Date          time.Time       `db:"date"`
	Amount        decimal.Decimal `db:"amount"`
	Category      string          `db:"category"`
}
