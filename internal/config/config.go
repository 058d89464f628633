package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"cha-ching/internal/log"
	"cha-ching/internal/storage"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config holds all application configuration.
type Config struct {
	DataPath   string // document location
	Backend    string // json or sqlite
	LogLevel   string
	BcryptCost int
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cost, err := getEnvInt("CHACHING_BCRYPT_COST", bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		DataPath:   getEnv("CHACHING_DATA", "chaching.json"),
		Backend:    getEnv("CHACHING_BACKEND", storage.BackendJSON),
		LogLevel:   getEnv("CHACHING_LOG_LEVEL", "info"),
		BcryptCost: cost,
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.DataPath) == "" {
		problems = append(problems, "data path cannot be empty")
	}
	if c.Backend != storage.BackendJSON && c.Backend != storage.BackendSQLite {
		problems = append(problems, fmt.Sprintf("invalid backend %q: must be %s or %s", c.Backend, storage.BackendJSON, storage.BackendSQLite))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, err.Error())
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		problems = append(problems, fmt.Sprintf("bcrypt cost %d out of range [%d, %d]", c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Level returns the parsed log level, defaulting to info.
func (c *Config) Level() slog.Level {
	lvl, _ := log.ParseLevel(c.LogLevel)
	return lvl
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
	}
	return n, nil
}
