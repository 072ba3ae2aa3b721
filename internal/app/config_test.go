package app

import (
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

var configEnvKeys = []string{
	"CLAN_TAG", "BACKEND_URL", "BACKEND_TOKEN", "SPREADSHEET_ID", "GOOGLE_CREDENTIALS_FILE",
	"REQUIRED_ATTACKS", "ARMY_WINDOW_DAYS", "WARLOG_WINDOW_DAYS",
	"BIGQUERY_PROJECT", "BIGQUERY_DATASET", "DEPLOY_URL", "DEPLOY_KEY_FILE", "REPORT_FILE",
}

func TestLoadConfig(t *testing.T) {
	// Save original environment
	original := make(map[string]string)
	for _, key := range configEnvKeys {
		original[key] = os.Getenv(key)
	}

	defer func() {
		for key, value := range original {
			setOrUnset(key, value)
		}
	}()

	reset := func() {
		for _, key := range configEnvKeys {
			os.Unsetenv(key)
		}
	}

	t.Run("ValidConfiguration", func(t *testing.T) {
		reset()
		os.Setenv("CLAN_TAG", "2pp0jccl")
		os.Setenv("BACKEND_URL", "https://clan.example.com/api/")
		os.Setenv("SPREADSHEET_ID", "test_spreadsheet_id")
		os.Setenv("GOOGLE_CREDENTIALS_FILE", "test_credentials.json")
		os.Setenv("REQUIRED_ATTACKS", "1")

		config, err := LoadConfig()

		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if config.ClanTag != "#2PP0JCCL" {
			t.Errorf("Expected ClanTag to be normalized to '#2PP0JCCL', got '%s'", config.ClanTag)
		}

		if config.BackendURL != "https://clan.example.com/api" {
			t.Errorf("Expected trailing slash trimmed from BackendURL, got '%s'", config.BackendURL)
		}

		if config.SpreadsheetID != "test_spreadsheet_id" {
			t.Errorf("Expected SpreadsheetID to be 'test_spreadsheet_id', got '%s'", config.SpreadsheetID)
		}

		if config.CredentialsFile != "test_credentials.json" {
			t.Errorf("Expected CredentialsFile to be 'test_credentials.json', got '%s'", config.CredentialsFile)
		}

		if config.RequiredAttacks != 1 {
			t.Errorf("Expected RequiredAttacks 1, got %d", config.RequiredAttacks)
		}
	})

	t.Run("Defaults", func(t *testing.T) {
		reset()
		os.Setenv("CLAN_TAG", "#ABC")
		os.Setenv("BACKEND_URL", "http://localhost:8080")

		config, err := LoadConfig()

		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if config.CredentialsFile != DefaultCredentialsFile {
			t.Errorf("Expected CredentialsFile to default to '%s', got '%s'", DefaultCredentialsFile, config.CredentialsFile)
		}
		if config.RequiredAttacks != DefaultRequiredAttacks {
			t.Errorf("Expected RequiredAttacks default %d, got %d", DefaultRequiredAttacks, config.RequiredAttacks)
		}
		if config.ArmyWindowDays != DefaultArmyWindowDays || config.WarLogWindowDays != DefaultWarLogWindowDays {
			t.Errorf("Expected default windows, got %d/%d", config.ArmyWindowDays, config.WarLogWindowDays)
		}
		if config.ReportFile != DefaultReportFile {
			t.Errorf("Expected ReportFile default '%s', got '%s'", DefaultReportFile, config.ReportFile)
		}
		if config.DeployKeyFile != DefaultDeployKeyFile {
			t.Errorf("Expected DeployKeyFile default '%s', got '%s'", DefaultDeployKeyFile, config.DeployKeyFile)
		}
	})

	t.Run("MissingClanTag", func(t *testing.T) {
		reset()
		os.Setenv("BACKEND_URL", "http://localhost:8080")

		_, err := LoadConfig()

		if err == nil {
			t.Fatal("Expected error for missing CLAN_TAG, got nil")
		}

		if !strings.Contains(err.Error(), "CLAN_TAG") {
			t.Errorf("Expected error message to contain 'CLAN_TAG', got '%s'", err.Error())
		}
	})

	t.Run("MissingBackendURL", func(t *testing.T) {
		reset()
		os.Setenv("CLAN_TAG", "#ABC")

		_, err := LoadConfig()

		if err == nil {
			t.Fatal("Expected error for missing BACKEND_URL, got nil")
		}

		if !strings.Contains(err.Error(), "BACKEND_URL") {
			t.Errorf("Expected error message to contain 'BACKEND_URL', got '%s'", err.Error())
		}
	})

	t.Run("InvalidRequiredAttacks", func(t *testing.T) {
		reset()
		os.Setenv("CLAN_TAG", "#ABC")
		os.Setenv("BACKEND_URL", "http://localhost:8080")
		os.Setenv("REQUIRED_ATTACKS", "two")

		_, err := LoadConfig()

		if err == nil || !strings.Contains(err.Error(), "REQUIRED_ATTACKS") {
			t.Errorf("Expected REQUIRED_ATTACKS error, got %v", err)
		}
	})

	t.Run("PartialBigQueryConfig", func(t *testing.T) {
		reset()
		os.Setenv("CLAN_TAG", "#ABC")
		os.Setenv("BACKEND_URL", "http://localhost:8080")
		os.Setenv("BIGQUERY_PROJECT", "my-project")

		_, err := LoadConfig()

		if err == nil {
			t.Fatal("Expected error when only BIGQUERY_PROJECT is set")
		}
	})
}

func TestSetupEnvironment(t *testing.T) {
	// Save original environment
	originalENV := os.Getenv("ENV")
	originalLOGLEVEL := os.Getenv("LOGLEVEL")
	originalLevel := zerolog.GlobalLevel()

	defer func() {
		setOrUnset("ENV", originalENV)
		setOrUnset("LOGLEVEL", originalLOGLEVEL)
		zerolog.SetGlobalLevel(originalLevel)
	}()

	testCases := []struct {
		name          string
		env           string
		logLevel      string
		expectedLevel zerolog.Level
	}{
		{"ProductionDebug", "production", "debug", zerolog.DebugLevel},
		{"ProductionInfo", "production", "info", zerolog.InfoLevel},
		{"ProductionWarn", "production", "warn", zerolog.WarnLevel},
		{"ProductionWarning", "production", "warning", zerolog.WarnLevel},
		{"ProductionError", "production", "error", zerolog.ErrorLevel},
		{"ProductionDisabled", "production", "disabled", zerolog.Disabled},
		{"ProductionDefault", "production", "", zerolog.WarnLevel},
		{"ProductionUnknown", "production", "unknown", zerolog.InfoLevel},
		{"DevelopmentDebug", "development", "debug", zerolog.DebugLevel},
		{"DevelopmentDefault", "development", "", zerolog.InfoLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			setOrUnset("ENV", tc.env)
			setOrUnset("LOGLEVEL", tc.logLevel)

			SetupEnvironment()

			if zerolog.GlobalLevel() != tc.expectedLevel {
				t.Errorf("Expected log level %v, got %v", tc.expectedLevel, zerolog.GlobalLevel())
			}
		})
	}
}

// Helper function to set environment variable or unset if value is empty
func setOrUnset(key, value string) {
	if value == "" {
		os.Unsetenv(key)
	} else {
		os.Setenv(key, value)
	}
}
