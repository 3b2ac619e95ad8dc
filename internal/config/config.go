// Package config reads server settings from the environment. main loads a
// .env file with godotenv before calling Load, so both sources apply.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// Config is the full set of server settings.
type Config struct {
	Port         string        // PORT
	LogLevel     string        // LOG_LEVEL
	Production   bool          // NODE_ENV == "production"
	DBPath       string        // DB_PATH
	GridSize     int           // GRID_SIZE
	JWTSecret    string        // JWT_SECRET
	SessionTTL   time.Duration // SESSION_TTL_HOURS
	CookieName   string        // COOKIE_NAME
	ClientOrigin string        // CLIENT_ORIGIN
	DailySalt    string        // DAILY_SALT
	WordsFile    string        // WORDS_FILE
	GCPProject   string        // GCP_PROJECT_ID
	GCPRegion    string        // GCP_REGION
}

const (
	MinGridSize = 5
	MaxGridSize = 30
)

// Load builds a Config from the environment, applying defaults for unset
// or invalid values.
func Load() Config {
	c := Config{
		Port:         getEnv("PORT", "5175"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Production:   os.Getenv("NODE_ENV") == "production",
		DBPath:       getEnv("DB_PATH", "./data/wordsearch.db"),
		GridSize:     envInt("GRID_SIZE", 14),
		JWTSecret:    getEnv("JWT_SECRET", "dev_secret_change_me"),
		SessionTTL:   time.Duration(envInt("SESSION_TTL_HOURS", 24)) * time.Hour,
		CookieName:   getEnv("COOKIE_NAME", "wordsearch_session"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		DailySalt:    getEnv("DAILY_SALT", "local_dev_salt"),
		WordsFile:    os.Getenv("WORDS_FILE"),
		GCPProject:   os.Getenv("GCP_PROJECT_ID"),
		GCPRegion:    os.Getenv("GCP_REGION"),
	}
	if c.GridSize < MinGridSize || c.GridSize > MaxGridSize {
		log.Warn().Int("gridSize", c.GridSize).Msg("GRID_SIZE out of range, using 14")
		c.GridSize = 14
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = 24 * time.Hour
	}
	if c.Production && c.JWTSecret == "dev_secret_change_me" {
		log.Warn().Msg("JWT_SECRET not set in production")
	}
	return c
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// envInt parses k as an int, falling back to def with a warning.
func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Msg("invalid integer, using default")
		return def
	}
	return n
}
