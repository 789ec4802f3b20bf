// Package config loads application configuration from environment
// variables, with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Storage
	Storage StorageConfig

	// Logging
	Log LogConfig
}

// StorageConfig holds the flat-file persistence settings.
type StorageConfig struct {
	// DataPath is the main JSON data file.
	DataPath string

	// AttendancePath is the attendance JSON file, kept separate from the
	// main data file so a large attendance history does not bloat every
	// roster save.
	AttendancePath string

	// BackupRetention is how many timestamped backups to keep.
	BackupRetention int
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string

	// Path is the log file; empty means stderr.
	Path string
}

// Load reads configuration from the environment. A .env file in the working
// directory is honored when present but never required.
func Load() (*Config, error) {
	// Ignore the error: a missing .env file is the normal case.
	_ = godotenv.Load()

	cfg := &Config{
		Storage: StorageConfig{
			DataPath:        getEnv("SCHOOL_DATA_FILE", "school_data.json"),
			AttendancePath:  getEnv("SCHOOL_ATTENDANCE_FILE", "attendance.json"),
			BackupRetention: getEnvInt("SCHOOL_BACKUP_RETENTION", 5),
		},
		Log: LogConfig{
			Level: getEnv("SCHOOL_LOG_LEVEL", "info"),
			Path:  getEnv("SCHOOL_LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// Validate checks the loaded configuration for usable values.
func (c *Config) Validate() error {
	var errs []string

	if c.Storage.DataPath == "" {
		errs = append(errs, "SCHOOL_DATA_FILE must not be empty")
	}
	if c.Storage.AttendancePath == "" {
		errs = append(errs, "SCHOOL_ATTENDANCE_FILE must not be empty")
	}
	if c.Storage.DataPath == c.Storage.AttendancePath {
		errs = append(errs, "SCHOOL_DATA_FILE and SCHOOL_ATTENDANCE_FILE must differ")
	}
	if c.Storage.BackupRetention < 1 {
		errs = append(errs, "SCHOOL_BACKUP_RETENTION must be at least 1")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, "SCHOOL_LOG_LEVEL must be debug, info, warn or error")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// --- Helper functions for environment variable parsing ---

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}
