package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/carson-networks/finance-insights/internal/config"
	"github.com/carson-networks/finance-insights/internal/logging"
	"github.com/carson-networks/finance-insights/internal/operator"
	"github.com/carson-networks/finance-insights/internal/service"
	"github.com/carson-networks/finance-insights/internal/storage"
)

type app struct {
	log       *logrus.Logger
	store     *storage.Storage
	delegator *operator.OperatorDelegator
	svc       *service.Service
}

func main() {
	var a app
	userFlag := &cli.StringFlag{Name: "user", Usage: "user UUID", Required: true}

	cliApp := &cli.App{
		Name:  "insights",
		Usage: "seed and inspect finance insights against the configured database",
		Before: func(c *cli.Context) error {
			return a.open()
		},
		After: func(c *cli.Context) error {
			a.close()
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "seed",
				Usage: "insert generated history with two planted anomalies",
				Flags: []cli.Flag{
					userFlag,
					&cli.IntFlag{Name: "days", Value: 60, Usage: "days of history"},
					&cli.Uint64Flag{Name: "seed", Value: 42, Usage: "random seed"},
				},
				Action: a.seed,
			},
			{
				Name:   "detect",
				Usage:  "detect and log anomalies",
				Flags:  []cli.Flag{userFlag},
				Action: a.detect,
			},
			{
				Name:  "forecast",
				Usage: "forecast daily expenses",
				Flags: []cli.Flag{
					userFlag,
					&cli.IntFlag{Name: "days", Value: 0, Usage: "days ahead, 0 uses FORECAST_DEFAULT_DAYS"},
					&cli.StringFlag{Name: "category", Usage: "only forecast this category"},
				},
				Action: a.forecast,
			},
			{
				Name:   "trends",
				Usage:  "print weekly spending per category",
				Flags:  []cli.Flag{userFlag},
				Action: a.trends,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("insights")
	}
}

func (a *app) open() error {
	env, err := config.ProcessEnvironmentVariables()
	if err != nil {
		return err
	}
	a.log = logging.SetupLogging(env.LogLevel)

	a.store, err = storage.NewStorage(env)
	if err != nil {
		return err
	}
	a.delegator = operator.NewOperatorDelegator(a.store, env.OperatorWorkers, a.log)
	a.delegator.Start()

	// No assistant: chat is not exposed here.
	a.svc = service.NewService(a.store, a.delegator, nil, env, a.log)
	return nil
}

func (a *app) close() {
	if a.delegator != nil {
		a.delegator.Stop()
	}
	if a.store != nil {
		_ = a.store.Close()
	}
}

func userID(c *cli.Context) (uuid.UUID, error) {
	id, err := uuid.FromString(c.String("user"))
	if err != nil {
		return uuid.Nil, cli.Exit(fmt.Sprintf("invalid --user: %v", err), 2)
	}
	return id, nil
}

func (a *app) seed(c *cli.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	txs := seedHistory(id, time.Now().UTC(), c.Int("days"), c.Uint64("seed"))
	for _, tx := range txs {
		if _, err := a.svc.Transaction.CreateTransaction(c.Context, tx); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}
	a.log.WithFields(logrus.Fields{"userID": id.String(), "transactions": len(txs)}).Info("Insights.seed.complete")
	return nil
}

func (a *app) detect(c *cli.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	records, err := a.svc.Analysis.DetectAnomalies(c.Context, id)
	if err != nil {
		return err
	}
	for _, r := range records {
		fmt.Fprintf(c.App.Writer, "%s  %-14s %10s  %.3f  %s\n",
			r.Date.Format(time.DateOnly), r.Category, r.Amount.StringFixed(2), r.AnomalyScore, r.Reason)
	}
	return nil
}

func (a *app) forecast(c *cli.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	result, err := a.svc.Analysis.ForecastExpenses(c.Context, id, c.Int("days"), c.String("category"))
	if err != nil {
		return err
	}
	for i, d := range result.Dates {
		fmt.Fprintf(c.App.Writer, "%s  %8.2f  [%8.2f, %8.2f]\n",
			d.Format(time.DateOnly), result.PredictedAmount[i], result.LowerBound[i], result.UpperBound[i])
	}
	fmt.Fprintf(c.App.Writer, "total  %.2f\n", result.TotalPredicted)
	return nil
}

func (a *app) trends(c *cli.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	points, err := a.svc.Analysis.SpendingTrends(c.Context, id)
	if err != nil {
		return err
	}
	for _, p := range points {
		fmt.Fprintf(c.App.Writer, "%-14s %s  %10s\n", p.Category, p.WeekStart.Format(time.DateOnly), p.Amount.StringFixed(2))
	}
	return nil
}
