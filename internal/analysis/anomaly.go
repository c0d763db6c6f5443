package analysis

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

// AnomalyConfig tunes the outlier model.
type AnomalyConfig struct {
	// Contamination is the expected share of anomalous expenses.
	Contamination float64
	// MinTransactions is the smallest expense history worth fitting a model on.
	MinTransactions int
	// Seed drives every random split so repeated runs agree.
	Seed       uint64
	Trees      int
	MaxSamples int
}

func DefaultAnomalyConfig() AnomalyConfig {
	return AnomalyConfig{
		Contamination:   0.1,
		MinTransactions: 10,
		Seed:            42,
		Trees:           100,
		MaxSamples:      256,
	}
}

// AnomalyLogger persists detected anomalies. Implementations should not block.
type AnomalyLogger interface {
	LogAnomaly(ctx context.Context, transactionID uuid.UUID, score float64, reason string) error
}

// AnomalyEngine flags unusual expenses in a single user's history.
// It keeps no state between calls and is safe for concurrent use.
type AnomalyEngine struct {
	config        AnomalyConfig
	anomalyLogger AnomalyLogger
	log           logrus.FieldLogger
}

// NewAnomalyEngine creates an AnomalyEngine. anomalyLogger may be nil, in which
// case detected anomalies are only returned.
func NewAnomalyEngine(config AnomalyConfig, anomalyLogger AnomalyLogger, log logrus.FieldLogger) *AnomalyEngine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &AnomalyEngine{config: config, anomalyLogger: anomalyLogger, log: log}
}

// WithoutLogging returns an engine with the same configuration that does not persist anomalies.
func (e *AnomalyEngine) WithoutLogging() *AnomalyEngine {
	return &AnomalyEngine{config: e.config, log: e.log}
}

// DetectAnomalies scores every expense and returns the flagged ones in input order.
// Histories smaller than MinTransactions yield an empty result. Once ctx is done
// it returns ctx's error and logs nothing.
func (e *AnomalyEngine) DetectAnomalies(ctx context.Context, transactions []Transaction) ([]AnomalyRecord, error) {
	if err := validateTransactions(transactions); err != nil {
		return nil, err
	}

	expenses := expensesOf(transactions)
	if len(expenses) < e.config.MinTransactions {
		return []AnomalyRecord{}, nil
	}

	matrix := modelMatrix(buildFeatures(expenses))
	forest, err := fitIsolationForest(ctx, matrix, e.config.Trees, e.config.MaxSamples, e.config.Seed)
	if err != nil {
		return nil, err
	}
	scores := forest.scoreSamples(matrix)
	threshold := percentile(scores, e.config.Contamination)

	baseline := newAmountBaseline(expenses)
	anomalies := []AnomalyRecord{}
	for i, tx := range expenses {
		if scores[i] >= threshold {
			continue
		}
		rule, reason := baseline.explain(tx)
		anomalies = append(anomalies, AnomalyRecord{
			TransactionID: tx.ID,
			Date:          calendarDay(tx.Date),
			Amount:        tx.Amount,
			Category:      tx.Category,
			AnomalyScore:  scores[i],
			Reason:        reason,
			Rule:          rule,
		})
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.logAnomalies(ctx, anomalies)
	return anomalies, nil
}

func (e *AnomalyEngine) logAnomalies(ctx context.Context, anomalies []AnomalyRecord) {
	if e.anomalyLogger == nil {
		return
	}
	for _, a := range anomalies {
		err := e.anomalyLogger.LogAnomaly(ctx, a.TransactionID, a.AnomalyScore, a.Reason)
		if err != nil {
			failure := &LoggingFailure{TransactionID: a.TransactionID, Cause: err}
			e.log.WithError(failure).
				WithField("transactionID", a.TransactionID.String()).
				Warn("AnomalyEngine.DetectAnomalies.logAnomaly failed")
		}
	}
}

// amountBaseline holds the averages reasons are measured against.
type amountBaseline struct {
	overall    float64
	byCategory map[string]float64
}

func newAmountBaseline(expenses []Transaction) amountBaseline {
	all := make([]float64, len(expenses))
	grouped := make(map[string][]float64)
	for i, tx := range expenses {
		amount := tx.Amount.InexactFloat64()
		all[i] = amount
		grouped[tx.Category] = append(grouped[tx.Category], amount)
	}

	byCategory := make(map[string]float64, len(grouped))
	for category, amounts := range grouped {
		byCategory[category] = stat.Mean(amounts, nil)
	}
	return amountBaseline{overall: stat.Mean(all, nil), byCategory: byCategory}
}

// explain applies the reason rules in order; the first match wins.
func (b amountBaseline) explain(tx Transaction) (ReasonRule, string) {
	amount := tx.Amount.InexactFloat64()
	categoryAvg := b.byCategory[tx.Category]

	if amount > 2*categoryAvg {
		return ReasonCategoryAverage, fmt.Sprintf("Amount $%.2f is %.1fx category average", amount, amount/categoryAvg)
	}
	if amount > 3*b.overall {
		return ReasonOverallAverage, fmt.Sprintf("Unusually high spending: %.1fx overall average", amount/b.overall)
	}
	return ReasonUnusualPattern, "Unusual pattern detected"
}
