package service

import (
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-insights/internal/analysis"
	"github.com/carson-networks/finance-insights/internal/config"
	"github.com/carson-networks/finance-insights/internal/operator"
	"github.com/carson-networks/finance-insights/internal/storage"
)

// Service holds all business logic services.
type Service struct {
	Transaction *TransactionService
	Analysis    *AnalysisService
	Chat        *ChatService
}

// NewService wires the services over storage and the write queue. a may be
// nil when no chat model is configured.
func NewService(store *storage.Storage, op *operator.OperatorDelegator, a Assistant, env *config.Config, log logrus.FieldLogger) *Service {
	reader := store.Read()

	anomalyConfig := analysis.DefaultAnomalyConfig()
	anomalyConfig.Contamination = env.AnomalyContamination
	anomalyConfig.Seed = env.AnomalySeed
	anomalyConfig.MinTransactions = env.MinTransactionsForScan

	forecastConfig := analysis.DefaultForecastConfig()
	forecastConfig.IntervalWidth = env.ForecastIntervalWidth

	analysisService := NewAnalysisService(
		reader.Transactions,
		reader.Anomalies,
		analysis.NewAnomalyEngine(anomalyConfig, operator.NewAnomalyLogger(op), log),
		analysis.NewForecastEngine(forecastConfig),
		AnalysisOptions{
			DefaultForecastDays: env.ForecastDefaultDays,
			Timeout:             env.AnalysisTimeout,
			ContextCacheTTL:     env.ContextCacheTTL,
		},
	)

	return &Service{
		Transaction: NewTransactionService(reader.Transactions, op),
		Analysis:    analysisService,
		Chat:        NewChatService(analysisService, a),
	}
}
