package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DatabaseURL string

	// Kafka
	KafkaBrokers string

	// API Configuration
	APIPort string
	APIHost string

	// Catalog source selection: true = Square point-of-sale API,
	// false = legacy spreadsheet export
	UseSquare bool

	// Square
	SquareApplicationID string
	SquareAccessToken   string
	SquareLocationID    string
	SquareBaseURL       string

	// Legacy spreadsheet export
	SheetExportURL string

	// Sync triggers
	SyncAPIKey     string
	CronSecret     string
	SyncSchedule   string
	SyncWorkers    int
	StaleAfterMins int

	// Trigger worker
	SyncEndpoint string

	// Environment
	Env      string
	LogLevel string
}

func Load() (*Config, error) {
	// Load .env file
	godotenv.Load()

	return &Config{
		DatabaseURL:         getEnv("DATABASE_URL", "sqlite://storesync.db"),
		KafkaBrokers:        getEnv("KAFKA_BROKERS", "localhost:9092"),
		APIPort:             getEnv("API_PORT", "8080"),
		APIHost:             getEnv("API_HOST", "0.0.0.0"),
		UseSquare:           getEnvAsBool("USE_SQUARE_API", true),
		SquareApplicationID: getEnv("SQUARE_APPLICATION_ID", ""),
		SquareAccessToken:   getEnv("SQUARE_ACCESS_TOKEN", ""),
		SquareLocationID:    getEnv("SQUARE_LOCATION_ID", ""),
		SquareBaseURL:       getEnv("SQUARE_BASE_URL", "https://connect.squareup.com"),
		SheetExportURL:      getEnv("SHEET_EXPORT_URL", ""),
		SyncAPIKey:          getEnv("SYNC_API_KEY", ""),
		CronSecret:          getEnv("CRON_SECRET", ""),
		SyncSchedule:        getEnv("SYNC_SCHEDULE", "0 */6 * * *"),
		SyncWorkers:         getEnvAsInt("SYNC_WORKERS", 5),
		StaleAfterMins:      getEnvAsInt("SYNC_STALE_AFTER_MINUTES", 360),
		SyncEndpoint:        getEnv("SYNC_ENDPOINT", "http://localhost:8080/api/v1/sync"),
		Env:                 getEnv("ENV", "development"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
