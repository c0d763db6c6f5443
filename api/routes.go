package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	chathandler "github.com/carson-networks/finance-insights/internal/handlers/v1/chat"
	"github.com/carson-networks/finance-insights/internal/handlers/v1/insights"
	"github.com/carson-networks/finance-insights/internal/handlers/v1/status"
	"github.com/carson-networks/finance-insights/internal/handlers/v1/transaction"
	"github.com/carson-networks/finance-insights/internal/logging"
	"github.com/carson-networks/finance-insights/internal/service"
	"github.com/carson-networks/finance-insights/internal/storage"
)

type Rest struct {
	Logger      *logrus.Logger
	Port        string
	CORSOrigins []string
	Service     *service.Service
	Storage     *storage.Storage
}

// Routes builds the full handler tree. It is split out from Serve so tests
// can drive it with httptest.
func (r *Rest) Routes() http.Handler {
	mux := http.NewServeMux()

	statusHandler := status.NewHandler(r.Storage.DB)
	mux.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	api := humago.New(mux, huma.DefaultConfig("Finance Insights", "1.0.0"))
	api.UseMiddleware(logging.Middleware(r.Logger))

	transaction.NewCreateTransactionHandler(r.Service.Transaction).Register(api)
	transaction.NewListTransactionsHandler(r.Service.Transaction).Register(api)
	transaction.NewBalanceHandler(r.Service.Transaction).Register(api)
	insights.NewHandlers(r.Service.Analysis).Register(api)
	chathandler.NewHandler(r.Service.Chat).Register(api)

	return cors.New(cors.Options{
		AllowedOrigins: r.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(mux)
}

// Serve blocks until the server stops. Cancelling ctx shuts it down gracefully.
func (r *Rest) Serve(ctx context.Context) {
	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.Routes(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			r.Logger.WithError(err).Error("HttpServer.Serve.shutdown error")
		}
	}()

	r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
	}
	r.Logger.Info("HttpServer.Serve.shutting down")
}
