package main

import (
	"math/rand/v2"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-insights/internal/analysis"
)

type spendProfile struct {
	category string
	chance   float64
	min, max float64
}

var dailyProfiles = []spendProfile{
	{category: "Food", chance: 0.9, min: 8, max: 45},
	{category: "Transport", chance: 0.5, min: 3, max: 20},
	{category: "Entertainment", chance: 0.2, min: 15, max: 60},
}

// plantedAnomaly is an expense far outside the generated profiles.
type plantedAnomaly struct {
	daysFromEnd int
	category    string
	amount      string
}

var plantedAnomalies = []plantedAnomaly{
	{daysFromEnd: 10, category: "Food", amount: "950.00"},
	{daysFromEnd: 3, category: "Electronics", amount: "2400.00"},
}

// seedHistory generates days of plausible history ending the day before end.
// The same seed always produces the same amounts.
func seedHistory(userID uuid.UUID, end time.Time, days int, seed uint64) []analysis.Transaction {
	rng := rand.New(rand.NewPCG(seed, seed^0x5eed))
	start := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -days)

	var txs []analysis.Transaction
	add := func(date time.Time, txType analysis.TransactionType, category string, amount decimal.Decimal, description string) {
		txs = append(txs, analysis.Transaction{
			ID:          uuid.Must(uuid.NewV4()),
			UserID:      userID,
			Date:        date,
			Amount:      amount,
			Category:    category,
			Type:        txType,
			Description: description,
			Source:      "seed",
		})
	}

	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		if i%30 == 0 {
			add(date, analysis.TransactionTypeIncome, "Salary", decimal.NewFromInt(3200), "Monthly salary")
		}
		for _, p := range dailyProfiles {
			if rng.Float64() >= p.chance {
				continue
			}
			amount := decimal.NewFromFloat(p.min + rng.Float64()*(p.max-p.min)).Round(2)
			if !amount.IsPositive() {
				amount = decimal.NewFromInt(1)
			}
			add(date, analysis.TransactionTypeExpense, p.category, amount, "")
		}
	}

	for _, a := range plantedAnomalies {
		if a.daysFromEnd > days {
			continue
		}
		add(start.AddDate(0, 0, days-a.daysFromEnd), analysis.TransactionTypeExpense, a.category, decimal.RequireFromString(a.amount), "Planted anomaly")
	}
	return txs
}
