package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/carson-networks/finance-insights/internal/analysis"
)

type Config struct {
	Port     string
	LogLevel string

	PostgresAddress  string
	PostgresPort     string
	PostgresDB       string
	PostgresUsername string
	PostgresPassword string

	CORSOrigins []string

	GeminiAPIKey string
	GeminiModel  string

	AnomalyContamination   float64
	AnomalySeed            uint64
	MinTransactionsForScan int
	ForecastDefaultDays    int
	ForecastIntervalWidth  float64
	AnalysisTimeout        time.Duration
	ContextCacheTTL        time.Duration

	OperatorWorkers int
}

// PostgresURL builds the lib/pq connection string.
func (c *Config) PostgresURL() string {
	return "postgres://" + c.PostgresUsername + ":" + c.PostgresPassword + "@" +
		c.PostgresAddress + ":" + c.PostgresPort + "/" + c.PostgresDB + "?sslmode=disable"
}

func ProcessEnvironmentVariables() (*Config, error) {
	// A missing .env file is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	// In all cases the default behavior should be for the docker compose setup
	env := Config{
		Port:     "9446",
		LogLevel: "info",

		PostgresAddress:  "localhost",
		PostgresPort:     "5433",
		PostgresDB:       "postgres",
		PostgresUsername: "postgres",
		PostgresPassword: "testpassword",

		CORSOrigins: []string{"http://localhost:3000"},

		GeminiModel: "gemini-2.0-flash",

		AnomalyContamination:   0.1,
		AnomalySeed:            42,
		MinTransactionsForScan: 10,
		ForecastDefaultDays:    30,
		ForecastIntervalWidth:  0.8,
		AnalysisTimeout:        10 * time.Second,
		ContextCacheTTL:        time.Minute,

		OperatorWorkers: 2,
	}

	setString(&env.Port, "PORT")
	setString(&env.LogLevel, "LOG_LEVEL")
	setString(&env.PostgresAddress, "POSTGRES_ADDRESS")
	setString(&env.PostgresPort, "POSTGRES_PORT")
	setString(&env.PostgresDB, "POSTGRES_DB")
	setString(&env.PostgresUsername, "POSTGRES_USERNAME")
	setString(&env.PostgresPassword, "POSTGRES_PASSWORD")
	setString(&env.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&env.GeminiModel, "GEMINI_MODEL")

	if origins := os.Getenv("CORS_ORIGINS"); len(origins) != 0 {
		env.CORSOrigins = nil
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				env.CORSOrigins = append(env.CORSOrigins, origin)
			}
		}
	}

	var errs []error
	errs = append(errs,
		setFloat(&env.AnomalyContamination, "ANOMALY_CONTAMINATION"),
		setUint(&env.AnomalySeed, "ANOMALY_SEED"),
		setInt(&env.MinTransactionsForScan, "MIN_TRANSACTIONS_FOR_ANALYSIS"),
		setInt(&env.ForecastDefaultDays, "FORECAST_DEFAULT_DAYS"),
		setFloat(&env.ForecastIntervalWidth, "FORECAST_INTERVAL_WIDTH"),
		setDuration(&env.AnalysisTimeout, "ANALYSIS_TIMEOUT"),
		setDuration(&env.ContextCacheTTL, "CONTEXT_CACHE_TTL"),
		setInt(&env.OperatorWorkers, "OPERATOR_WORKERS"),
	)
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	if err := env.validate(); err != nil {
		return nil, err
	}
	return &env, nil
}

func (c *Config) validate() error {
	if c.AnomalyContamination <= 0 || c.AnomalyContamination > 0.5 {
		return fmt.Errorf("config: ANOMALY_CONTAMINATION must be in (0, 0.5], got %v", c.AnomalyContamination)
	}
	if c.MinTransactionsForScan < 2 {
		return fmt.Errorf("config: MIN_TRANSACTIONS_FOR_ANALYSIS must be at least 2, got %d", c.MinTransactionsForScan)
	}
	if c.ForecastDefaultDays < 1 || c.ForecastDefaultDays > analysis.MaxForecastDays {
		return fmt.Errorf("config: FORECAST_DEFAULT_DAYS must be in [1, %d], got %d", analysis.MaxForecastDays, c.ForecastDefaultDays)
	}
	if c.ForecastIntervalWidth <= 0 || c.ForecastIntervalWidth >= 1 {
		return fmt.Errorf("config: FORECAST_INTERVAL_WIDTH must be in (0, 1), got %v", c.ForecastIntervalWidth)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); len(v) != 0 {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if len(v) == 0 {
		return nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = parsed
	return nil
}

func setUint(dst *uint64, key string) error {
	v := os.Getenv(key)
	if len(v) == 0 {
		return nil
	}
	parsed, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = parsed
	return nil
}

func setFloat(dst *float64, key string) error {
	v := os.Getenv(key)
	if len(v) == 0 {
		return nil
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = parsed
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if len(v) == 0 {
		return nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = parsed
	return nil
}
