// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Platform identifies which storage backend the host environment provides.
// It is supplied by the environment, not by callers of the storage layer.
type Platform string

const (
	// PlatformNative - device filesystem is available, data lives in a JSON document
	PlatformNative Platform = "native"
	// PlatformWeb - no stable filesystem contract, data lives in the embedded store
	PlatformWeb Platform = "web"
)

// Config holds application configuration
type Config struct {
	Platform     Platform // Storage platform flag ("native" or "web")
	DataDir      string   // Primary storage location (always absolute)
	DocumentsDir string   // First fallback storage location
	CacheDir     string   // Last-resort storage location
	DatabasePath string   // Embedded store path (web platform)
	PhotosDir    string   // Attachment blob store location

	BackupEnabled   bool   // Enable scheduled snapshot backups
	BackupDir       string // Where backup archives are written
	BackupSchedule  string // Cron schedule for backups
	BackupRetention int    // Number of backup archives to keep

	LogLevel string
	Port     int
	DevMode  bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Determine data directory with fallback logic:
	// 1. Check TRACKER_DATA_DIR environment variable
	// 2. If not set, default to ~/.money-tracker/data
	// 3. Always resolve to absolute path
	// 4. Ensure directory exists
	dataDir := getEnv("TRACKER_DATA_DIR", "")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dataDir = filepath.Join(home, ".money-tracker", "data")
	}

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	baseDir := filepath.Dir(absDataDir)

	cfg := &Config{
		Platform:     Platform(getEnv("TRACKER_PLATFORM", string(PlatformWeb))),
		DataDir:      absDataDir,
		DocumentsDir: getEnv("TRACKER_DOCUMENTS_DIR", filepath.Join(baseDir, "documents")),
		CacheDir:     getEnv("TRACKER_CACHE_DIR", filepath.Join(baseDir, "cache")),
		DatabasePath: getEnv("TRACKER_DB_PATH", filepath.Join(absDataDir, "tracker.db")),
		PhotosDir:    getEnv("TRACKER_PHOTOS_DIR", filepath.Join(absDataDir, "photos")),

		BackupEnabled:   getEnvAsBool("TRACKER_BACKUP_ENABLED", false),
		BackupDir:       getEnv("TRACKER_BACKUP_DIR", filepath.Join(baseDir, "backups")),
		BackupSchedule:  getEnv("TRACKER_BACKUP_SCHEDULE", "@daily"),
		BackupRetention: getEnvAsInt("TRACKER_BACKUP_RETENTION", 14),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		Port:     getEnvAsInt("TRACKER_PORT", 8080),
		DevMode:  getEnvAsBool("DEV_MODE", false),
	}

	if cfg.Platform != PlatformNative && cfg.Platform != PlatformWeb {
		return nil, fmt.Errorf("unknown platform %q (expected %q or %q)", cfg.Platform, PlatformNative, PlatformWeb)
	}

	return cfg, nil
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvAsInt retrieves an environment variable as an integer with a fallback default
func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// getEnvAsBool retrieves an environment variable as a boolean with a fallback default
func getEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
