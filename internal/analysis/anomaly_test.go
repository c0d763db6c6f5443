package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAnomalyLogger struct {
	mock.Mock
}

func (m *mockAnomalyLogger) LogAnomaly(ctx context.Context, transactionID uuid.UUID, score float64, reason string) error {
	args := m.Called(ctx, transactionID, score, reason)
	return args.Error(0)
}

var historyStart = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

func newTx(txType TransactionType, date time.Time, amount, category string) Transaction {
	return Transaction{
		ID:       uuid.Must(uuid.NewV4()),
		UserID:   uuid.Must(uuid.FromString("6f1c2d4e-0b7a-4c55-9d7e-2f0e3b1a9c11")),
		Date:     date,
		Amount:   decimal.RequireFromString(amount),
		Category: category,
		Type:     txType,
	}
}

func expense(day int, amount, category string) Transaction {
	return newTx(TransactionTypeExpense, historyStart.AddDate(0, 0, day), amount, category)
}

func income(day int, amount string) Transaction {
	return newTx(TransactionTypeIncome, historyStart.AddDate(0, 0, day), amount, "Salary")
}

// foodHistoryWithSpike is twenty 100.00 Food expenses on consecutive days plus one 5000.00 Food expense.
func foodHistoryWithSpike() ([]Transaction, Transaction) {
	var txs []Transaction
	for i := 0; i < 20; i++ {
		txs = append(txs, expense(i, "100", "Food"))
	}
	spike := expense(20, "5000", "Food")
	return append(txs, spike), spike
}

func newTestAnomalyEngine(anomalyLogger AnomalyLogger) *AnomalyEngine {
	logger, _ := logtest.NewNullLogger()
	return NewAnomalyEngine(DefaultAnomalyConfig(), anomalyLogger, logger)
}

// -- sparse history tests --

func TestDetectAnomalies_FiveTransactionsReturnsEmpty(t *testing.T) {
	var txs []Transaction
	for i := 0; i < 5; i++ {
		txs = append(txs, expense(i, "25.00", "Food"))
	}

	anomalies, err := newTestAnomalyEngine(nil).DetectAnomalies(context.Background(), txs)

	assert.NoError(t, err)
	assert.NotNil(t, anomalies)
	assert.Empty(t, anomalies)
}

func TestDetectAnomalies_BelowMinimumAlwaysEmpty(t *testing.T) {
	engine := newTestAnomalyEngine(nil)
	for n := 0; n < DefaultAnomalyConfig().MinTransactions; n++ {
		var txs []Transaction
		for i := 0; i < n; i++ {
			txs = append(txs, expense(i, "10", "Food"))
		}
		if n > 0 {
			txs[n-1] = expense(n-1, "99999", "Travel")
		}

		anomalies, err := engine.DetectAnomalies(context.Background(), txs)

		assert.NoError(t, err)
		assert.Empty(t, anomalies, "history of %d expenses", n)
	}
}

func TestDetectAnomalies_IncomeDoesNotCountTowardsMinimum(t *testing.T) {
	var txs []Transaction
	for i := 0; i < 9; i++ {
		txs = append(txs, expense(i, "40", "Food"))
	}
	for i := 0; i < 20; i++ {
		txs = append(txs, income(i, "50000"))
	}

	anomalies, err := newTestAnomalyEngine(nil).DetectAnomalies(context.Background(), txs)

	assert.NoError(t, err)
	assert.Empty(t, anomalies)
}

// -- detection tests --

func TestDetectAnomalies_FlagsCategorySpike(t *testing.T) {
	txs, spike := foodHistoryWithSpike()

	anomalies, err := newTestAnomalyEngine(nil).DetectAnomalies(context.Background(), txs)
	require.NoError(t, err)

	var found *AnomalyRecord
	for i := range anomalies {
		if anomalies[i].TransactionID == spike.ID {
			found = &anomalies[i]
		}
	}
	require.NotNil(t, found, "spike not flagged: %s", spew.Sdump(anomalies))
	assert.Equal(t, ReasonCategoryAverage, found.Rule)
	assert.Contains(t, found.Reason, "category average")
	assert.Equal(t, "Amount $5000.00 is 15.0x category average", found.Reason)
	assert.True(t, found.Amount.Equal(decimal.RequireFromString("5000")))
	assert.Equal(t, "Food", found.Category)
	assert.Equal(t, spike.Date, found.Date)

	for _, a := range anomalies {
		assert.LessOrEqual(t, found.AnomalyScore, a.AnomalyScore, "spike should be the most anomalous")
	}
}

func TestDetectAnomalies_FlagsRoughlyContaminationShare(t *testing.T) {
	var txs []Transaction
	categories := []string{"Food", "Transport", "Health"}
	for i := 0; i < 100; i++ {
		amount := decimal.NewFromInt(int64(50 + (i*37)%60))
		txs = append(txs, Transaction{
			ID:       uuid.Must(uuid.NewV4()),
			Date:     historyStart.AddDate(0, 0, i),
			Amount:   amount,
			Category: categories[i%len(categories)],
			Type:     TransactionTypeExpense,
		})
	}

	anomalies, err := newTestAnomalyEngine(nil).DetectAnomalies(context.Background(), txs)

	assert.NoError(t, err)
	assert.LessOrEqual(t, len(anomalies), 10)
	assert.GreaterOrEqual(t, len(anomalies), 5)
}

func TestDetectAnomalies_Deterministic(t *testing.T) {
	txs, _ := foodHistoryWithSpike()
	txs = append(txs,
		expense(3, "900", "Travel"),
		expense(5, "12", "Transport"),
		expense(6, "14", "Transport"),
	)
	engine := newTestAnomalyEngine(nil)

	first, err := engine.DetectAnomalies(context.Background(), txs)
	require.NoError(t, err)
	second, err := engine.DetectAnomalies(context.Background(), txs)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDetectAnomalies_SeedIsConfigurable(t *testing.T) {
	txs, _ := foodHistoryWithSpike()
	config := DefaultAnomalyConfig()
	config.Seed = 7
	logger, _ := logtest.NewNullLogger()

	a, err := NewAnomalyEngine(config, nil, logger).DetectAnomalies(context.Background(), txs)
	require.NoError(t, err)
	b, err := NewAnomalyEngine(config, nil, logger).DetectAnomalies(context.Background(), txs)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestDetectAnomalies_EveryReasonComesFromARule(t *testing.T) {
	txs, _ := foodHistoryWithSpike()
	txs = append(txs, expense(21, "800", "Rent"), expense(22, "15", "Transport"))

	anomalies, err := newTestAnomalyEngine(nil).DetectAnomalies(context.Background(), txs)
	require.NoError(t, err)

	for _, a := range anomalies {
		switch a.Rule {
		case ReasonCategoryAverage:
			assert.Contains(t, a.Reason, "category average")
		case ReasonOverallAverage:
			assert.Contains(t, a.Reason, "overall average")
		case ReasonUnusualPattern:
			assert.Equal(t, "Unusual pattern detected", a.Reason)
		default:
			t.Errorf("unexpected rule %q", a.Rule)
		}
	}
}

func TestDetectAnomalies_MalformedAmount(t *testing.T) {
	txs, _ := foodHistoryWithSpike()
	bad := expense(30, "0", "Food")
	txs = append(txs, bad)

	anomalies, err := newTestAnomalyEngine(nil).DetectAnomalies(context.Background(), txs)

	var malformed *MalformedInputError
	assert.True(t, errors.As(err, &malformed))
	assert.Equal(t, bad.ID, malformed.TransactionID)
	assert.Equal(t, "amount", malformed.Field)
	assert.Nil(t, anomalies)
}

func TestDetectAnomalies_MalformedTypeAndDate(t *testing.T) {
	engine := newTestAnomalyEngine(nil)

	unknown := expense(0, "10", "Food")
	unknown.Type = "refund"
	_, err := engine.DetectAnomalies(context.Background(), []Transaction{unknown})
	var malformed *MalformedInputError
	assert.True(t, errors.As(err, &malformed))
	assert.Equal(t, "type", malformed.Field)

	undated := expense(0, "10", "Food")
	undated.Date = time.Time{}
	_, err = engine.DetectAnomalies(context.Background(), []Transaction{undated})
	assert.True(t, errors.As(err, &malformed))
	assert.Equal(t, "date", malformed.Field)
}

// -- anomaly logging tests --

func TestDetectAnomalies_LogsEveryFlaggedTransaction(t *testing.T) {
	txs, spike := foodHistoryWithSpike()
	anomalyLogger := new(mockAnomalyLogger)
	anomalyLogger.On("LogAnomaly", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	anomalies, err := newTestAnomalyEngine(anomalyLogger).DetectAnomalies(context.Background(), txs)

	require.NoError(t, err)
	anomalyLogger.AssertNumberOfCalls(t, "LogAnomaly", len(anomalies))
	anomalyLogger.AssertCalled(t, "LogAnomaly", mock.Anything, spike.ID, mock.Anything, "Amount $5000.00 is 15.0x category average")
}

func TestDetectAnomalies_LoggingFailureIsNotPropagated(t *testing.T) {
	txs, _ := foodHistoryWithSpike()
	anomalyLogger := new(mockAnomalyLogger)
	anomalyLogger.On("LogAnomaly", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("database unavailable"))
	logger, hook := logtest.NewNullLogger()

	withLogger, err := NewAnomalyEngine(DefaultAnomalyConfig(), anomalyLogger, logger).
		DetectAnomalies(context.Background(), txs)
	require.NoError(t, err)
	without, err := newTestAnomalyEngine(nil).DetectAnomalies(context.Background(), txs)
	require.NoError(t, err)

	assert.Equal(t, without, withLogger)
	require.NotEmpty(t, hook.AllEntries())
	entry := hook.LastEntry()
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "AnomalyEngine.DetectAnomalies.logAnomaly failed", entry.Message)
	var failure *LoggingFailure
	assert.True(t, errors.As(entry.Data[logrus.ErrorKey].(error), &failure))
}

func TestDetectAnomalies_DoneContextLogsNothing(t *testing.T) {
	txs, _ := foodHistoryWithSpike()
	anomalyLogger := new(mockAnomalyLogger)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	anomalies, err := newTestAnomalyEngine(anomalyLogger).DetectAnomalies(ctx, txs)

	assert.Nil(t, anomalies)
	assert.ErrorIs(t, err, context.Canceled)
	anomalyLogger.AssertNotCalled(t, "LogAnomaly", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWithoutLogging_SkipsAnomalyLogger(t *testing.T) {
	txs, _ := foodHistoryWithSpike()
	anomalyLogger := new(mockAnomalyLogger)

	anomalies, err := newTestAnomalyEngine(anomalyLogger).WithoutLogging().DetectAnomalies(context.Background(), txs)

	require.NoError(t, err)
	assert.NotEmpty(t, anomalies)
	anomalyLogger.AssertNotCalled(t, "LogAnomaly", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// -- reason rule tests --

func TestExplain_CategoryRuleWinsOverOverallRule(t *testing.T) {
	history := []Transaction{
		expense(0, "10", "Food"), expense(1, "10", "Food"), expense(2, "10", "Food"),
	}
	for i := 0; i < 10; i++ {
		history = append(history, expense(i, "10", "Transport"))
	}
	spike := expense(3, "100", "Food")
	history = append(history, spike)

	baseline := newAmountBaseline(history)
	assert.Greater(t, 100.0, 3*baseline.overall, "overall rule also holds")

	rule, reason := baseline.explain(spike)

	assert.Equal(t, ReasonCategoryAverage, rule)
	assert.Equal(t, "Amount $100.00 is 3.1x category average", reason)
}

func TestExplain_OverallRule(t *testing.T) {
	var history []Transaction
	for i := 0; i < 20; i++ {
		history = append(history, expense(i, "10", "Food"))
	}
	rent := expense(0, "1000", "Rent")
	history = append(history, rent, expense(30, "1000", "Rent"), expense(60, "1000", "Rent"))

	rule, reason := newAmountBaseline(history).explain(rent)

	assert.Equal(t, ReasonOverallAverage, rule)
	assert.Equal(t, "Unusually high spending: 7.2x overall average", reason)
}

func TestExplain_UnusualPattern(t *testing.T) {
	history := []Transaction{
		expense(0, "10", "Food"), expense(1, "12", "Food"), expense(2, "11", "Food"),
	}

	rule, reason := newAmountBaseline(history).explain(history[1])

	assert.Equal(t, ReasonUnusualPattern, rule)
	assert.Equal(t, "Unusual pattern detected", reason)
}

// -- feature tests --

func TestBuildFeatures_CategoryEncodingFollowsFirstAppearance(t *testing.T) {
	txs := []Transaction{
		expense(0, "1", "Transport"),
		expense(1, "1", "Food"),
		expense(2, "1", "Transport"),
		expense(3, "1", "Health"),
	}

	features := buildFeatures(txs)

	assert.Equal(t, []int{0, 1, 0, 2}, []int{
		features[0].CategoryEncoded, features[1].CategoryEncoded,
		features[2].CategoryEncoded, features[3].CategoryEncoded,
	})
	// 2025-03-03 is a Monday.
	assert.Equal(t, 0, features[0].DayOfWeek)
	assert.Equal(t, 3, features[0].DayOfMonth)
	assert.Equal(t, 3, features[3].DayOfWeek)
}

func TestBuildFeatures_EncodingIsPerBatch(t *testing.T) {
	first := buildFeatures([]Transaction{expense(0, "1", "Food"), expense(1, "1", "Rent")})
	second := buildFeatures([]Transaction{expense(0, "1", "Rent"), expense(1, "1", "Food")})

	assert.Equal(t, 1, first[1].CategoryEncoded)
	assert.Equal(t, 0, second[0].CategoryEncoded)
}
