package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-insights/api"
	"github.com/carson-networks/finance-insights/internal/chat"
	"github.com/carson-networks/finance-insights/internal/config"
	"github.com/carson-networks/finance-insights/internal/logging"
	"github.com/carson-networks/finance-insights/internal/operator"
	"github.com/carson-networks/finance-insights/internal/service"
	"github.com/carson-networks/finance-insights/internal/storage"
)

func main() {
	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	logger := logging.SetupLogging(envConfig.LogLevel)
	logger.Info("finance-insights starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbStorage, err := storage.NewStorage(envConfig)
	if err != nil {
		logger.WithError(err).Fatal("storage.NewStorage")
		return
	}
	defer dbStorage.Close()

	delegator := operator.NewOperatorDelegator(dbStorage, envConfig.OperatorWorkers, logger)
	delegator.Start()
	defer delegator.Stop()

	var assistant service.Assistant
	if envConfig.GeminiAPIKey != "" {
		client, err := chat.NewGeminiClient(ctx, envConfig.GeminiAPIKey, envConfig.GeminiModel, logger)
		if err != nil {
			logger.WithError(err).Fatal("chat.NewGeminiClient")
			return
		}
		assistant = client
	} else {
		logger.Warn("GEMINI_API_KEY not set, chat is disabled")
	}

	svc := service.NewService(dbStorage, delegator, assistant, envConfig, logger)

	httpRest := api.Rest{
		Logger:      logger,
		Port:        envConfig.Port,
		CORSOrigins: envConfig.CORSOrigins,
		Service:     svc,
		Storage:     dbStorage,
	}
	httpRest.Serve(ctx)
}
