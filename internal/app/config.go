package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds application configuration
type Config struct {
	ClanTag          string
	BackendURL       string
	BackendToken     string
	SpreadsheetID    string
	CredentialsFile  string
	RequiredAttacks  int
	ArmyWindowDays   int
	WarLogWindowDays int
	BigQueryProject  string
	BigQueryDataset  string
	DeployURL        string
	DeployKeyFile    string
	ReportFile       string
	UpdateInterval   time.Duration
}

// Defaults applied when the corresponding environment variable is unset
const (
	DefaultCredentialsFile  = "credentials.json"
	DefaultRequiredAttacks  = 2
	DefaultArmyWindowDays   = 30
	DefaultWarLogWindowDays = 30
	DefaultReportFile       = "clan_report.json"
	DefaultDeployKeyFile    = "deploy.pem"
)

// SetupEnvironment loads .env file and configures zerolog output and log level.
func SetupEnvironment() {
	// Load .env file if it exists
	err := godotenv.Load()

	if os.Getenv("ENV") == "production" {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	levelStr := strings.ToLower(os.Getenv("LOGLEVEL"))
	switch levelStr {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "disabled":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	case "":
		if os.Getenv("ENV") == "production" {
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Warn().Msgf("Unknown LOGLEVEL '%s', defaulting to info.", levelStr)
	}

	// wait until now to report on the .env file so we have the chance to set up logging first
	if err == nil {
		log.Debug().Msg("Loaded environment variables from .env file.")
	} else {
		log.Debug().Msg("No .env file found; proceeding with existing environment variables.")
	}
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	clanTag := strings.TrimSpace(os.Getenv("CLAN_TAG"))
	if clanTag == "" {
		return nil, fmt.Errorf("CLAN_TAG environment variable is required")
	}

	backendURL := strings.TrimRight(os.Getenv("BACKEND_URL"), "/")
	if backendURL == "" {
		return nil, fmt.Errorf("BACKEND_URL environment variable is required")
	}

	requiredAttacks, err := getEnvInt("REQUIRED_ATTACKS", DefaultRequiredAttacks)
	if err != nil {
		return nil, err
	}

	armyWindowDays, err := getEnvInt("ARMY_WINDOW_DAYS", DefaultArmyWindowDays)
	if err != nil {
		return nil, err
	}

	warLogWindowDays, err := getEnvInt("WARLOG_WINDOW_DAYS", DefaultWarLogWindowDays)
	if err != nil {
		return nil, err
	}

	bigQueryProject := os.Getenv("BIGQUERY_PROJECT")
	bigQueryDataset := os.Getenv("BIGQUERY_DATASET")
	if (bigQueryProject == "") != (bigQueryDataset == "") {
		return nil, fmt.Errorf("BIGQUERY_PROJECT and BIGQUERY_DATASET must be set together")
	}

	return &Config{
		ClanTag:          normalizeClanTag(clanTag),
		BackendURL:       backendURL,
		BackendToken:     os.Getenv("BACKEND_TOKEN"),
		SpreadsheetID:    os.Getenv("SPREADSHEET_ID"),
		CredentialsFile:  getEnv("GOOGLE_CREDENTIALS_FILE", DefaultCredentialsFile),
		RequiredAttacks:  requiredAttacks,
		ArmyWindowDays:   armyWindowDays,
		WarLogWindowDays: warLogWindowDays,
		BigQueryProject:  bigQueryProject,
		BigQueryDataset:  bigQueryDataset,
		DeployURL:        os.Getenv("DEPLOY_URL"),
		DeployKeyFile:    getEnv("DEPLOY_KEY_FILE", DefaultDeployKeyFile),
		ReportFile:       getEnv("REPORT_FILE", DefaultReportFile),
	}, nil
}

// GetRequiredEnv gets an environment variable or exits if not found
func GetRequiredEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatal().Str("key", key).Msg("Required environment variable not set")
	}
	return value
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", key, raw)
	}
	return value, nil
}

// normalizeClanTag upper-cases the tag and ensures the leading '#'
func normalizeClanTag(tag string) string {
	tag = strings.ToUpper(tag)
	if !strings.HasPrefix(tag, "#") {
		tag = "#" + tag
	}
	return tag
}
