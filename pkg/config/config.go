// Package config loads runtime settings from the environment and an optional .env file
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Environment string
	Port        int

	// DBPath is the SQLite file holding bundle state and visits
	DBPath string

	LogLevel  string
	LogFormat string // "text" or "json"

	DefaultKey string
	// FileNumber is the default 1-based number for single-set exports
	FileNumber int
}

// LoadEnvFile loads .env files into the environment. Missing files are not an error.
func LoadEnvFile(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// Load reads the configuration from environment variables
func Load() *Config {
	return &Config{
		Environment: getEnv("CHORDS_ENV", "development"),
		Port:        getEnvInt("PORT", 3001),
		DBPath:      getEnv("CHORDS_DB_PATH", defaultDBPath()),
		LogLevel:    getEnv("CHORDS_LOG_LEVEL", "info"),
		LogFormat:   getEnv("CHORDS_LOG_FORMAT", "text"),
		DefaultKey:  getEnv("CHORDS_DEFAULT_KEY", "C"),
		FileNumber:  getEnvInt("CHORDS_FILE_NUMBER", 1),
	}
}

// IsProduction reports whether the server should run gin in release mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ConfigDir returns ~/.config/chords2maschine
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "chords2maschine"), nil
}

func defaultDBPath() string {
	dir, err := ConfigDir()
	if err != nil {
		return "chords2maschine.db"
	}
	return filepath.Join(dir, "state.db")
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
