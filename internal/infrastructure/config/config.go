// internal/infrastructure/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultOpenFlightsURL is the upstream airport database
const DefaultOpenFlightsURL = "https://raw.githubusercontent.com/jpatokal/openflights/master/data/airports.dat"

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion     string
	LogLevel       string
	RequestTimeout time.Duration

	// MongoDB
	MongoURI        string
	MongoDB         string
	MongoCollection string
	MongoUser       string
	MongoPassword   string

	// Gmail
	GmailClientID     string
	GmailClientSecret string
	GmailRefreshToken string
	GmailFolder       string
	LogbookSubject    string
	TrashProcessed    bool

	// Reference data
	AirportsCSV         string
	AircraftCSV         string
	AirportsPostgresDSN string
	OpenFlightsURL      string

	// Workbook
	LogbookXLSX     string
	LogbookTemplate string

	// Metrics
	PushgatewayURL string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	config := &Config{
		AppVersion:     getEnv("APP_VERSION", "1.0.0"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		RequestTimeout: time.Duration(getEnvAsInt("REQUEST_TIMEOUT", 30)) * time.Second,

		MongoURI:        getEnv("DB_LINK", ""),
		MongoDB:         getEnv("MONGO_DB", "logbook"),
		MongoCollection: getEnv("MONGO_COLLECTION", "flights"),
		MongoUser:       getEnv("MONGO_USER", ""),
		MongoPassword:   getEnv("MONGO_PASSWORD", ""),

		GmailClientID:     getEnv("GMAIL_CLIENT_ID", ""),
		GmailClientSecret: getEnv("GMAIL_CLIENT_SECRET", ""),
		GmailRefreshToken: getEnv("GMAIL_REFRESH_TOKEN", ""),
		GmailFolder:       getEnv("GMAIL_FOLDER", "INBOX"),
		LogbookSubject:    getEnv("LOGBOOK_SUBJECT", "logbook"),
		TrashProcessed:    getEnvAsBool("TRASH_PROCESSED", true),

		AirportsCSV:         getEnv("AIRPORTS_CSV", "_internal/iata_to_icao_coords.csv"),
		AircraftCSV:         getEnv("AIRCRAFT_CSV", "_internal/ryanair_aircrafts.csv"),
		AirportsPostgresDSN: getEnv("AIRPORTS_POSTGRES_DSN", ""),
		OpenFlightsURL:      getEnv("OPENFLIGHTS_URL", DefaultOpenFlightsURL),

		LogbookXLSX:     getEnv("LOGBOOK_XLSX", "logbook.xlsx"),
		LogbookTemplate: getEnv("LOGBOOK_TEMPLATE", "_internal/logbook_template.xlsx"),

		PushgatewayURL: getEnv("PUSHGATEWAY_URL", ""),
	}

	return config, nil
}

// Validate checks the settings the mailbox pipeline cannot run without
func (c *Config) Validate() error {
	var missing []string
	if c.MongoURI == "" {
		missing = append(missing, "DB_LINK")
	}
	if c.GmailClientID == "" {
		missing = append(missing, "GMAIL_CLIENT_ID")
	}
	if c.GmailClientSecret == "" {
		missing = append(missing, "GMAIL_CLIENT_SECRET")
	}
	if c.GmailRefreshToken == "" {
		missing = append(missing, "GMAIL_REFRESH_TOKEN")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
