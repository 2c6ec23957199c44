// Package config provides functionality for loading, saving, and managing
// application configuration settings.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"notation/local-app/internal/model"
	"notation/local-app/internal/storage"
)

// DefaultPath is where the configuration lives unless told otherwise.
const DefaultPath = "./data/config.json"

// Global variables to store the current configuration and its file path.
var (
	currentConfig *model.Config
	configPath    = DefaultPath
)

// Default returns the built-in configuration.
func Default() *model.Config {
	return &model.Config{
		DatabaseType:  "sqlite",
		DatabaseDir:   "./data",
		DatabaseFile:  "notation.db",
		MaxOpenConns:  8,
		QueryStrategy: "recursive",
		LogFolder:     "./logs",
		InfoLog:       "info.log",
		ErrorLog:      "errors.log",
		CommandLog:    "commands.log",
		HistoryFile:   "./data/history",
		Color:         true,
	}
}

// SetPath changes the configuration file used by ConfigLoad and ConfigSave.
func SetPath(path string) {
	if path != "" {
		configPath = path
	}
}

// ConfigLoad loads the configuration file, applies .env and environment
// overrides, and fills unset fields from the defaults. If the file doesn't
// exist, it is created with the default configuration.
func ConfigLoad() error {
	// .env is optional
	_ = godotenv.Load()

	dataDir := filepath.Dir(configPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := Default()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := ConfigSave(cfg); err != nil {
			return fmt.Errorf("failed to create default config: %w", err)
		}
	} else {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("error reading config file: %w", err)
		}
		if err := unmarshal(configPath, file, cfg); err != nil {
			return fmt.Errorf("error parsing config file: %w", err)
		}
	}

	applyEnv(cfg)
	if err := Validate(cfg); err != nil {
		return err
	}
	currentConfig = cfg
	return nil
}

// ConfigSave saves the provided configuration to the configuration file.
func ConfigSave(cfg *model.Config) error {
	data, err := marshal(configPath, cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

// ConfigGet returns the current configuration.
func ConfigGet() *model.Config {
	return currentConfig
}

// Validate checks the fields that select behaviour.
func Validate(cfg *model.Config) error {
	switch cfg.DatabaseType {
	case "sqlite":
	case "postgres":
		if cfg.DatabaseDSN == "" {
			return fmt.Errorf("database_dsn is required for postgres")
		}
	default:
		return fmt.Errorf("unsupported database type: %s", cfg.DatabaseType)
	}
	if _, err := storage.ParseQueryStrategy(cfg.QueryStrategy); err != nil {
		return err
	}
	if cfg.MaxOpenConns < 0 {
		return fmt.Errorf("max_open_conns must not be negative")
	}
	return nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func unmarshal(path string, data []byte, cfg *model.Config) error {
	if isYAML(path) {
		return yaml.Unmarshal(data, cfg)
	}
	return json.Unmarshal(data, cfg)
}

func marshal(path string, cfg *model.Config) ([]byte, error) {
	if isYAML(path) {
		return yaml.Marshal(cfg)
	}
	return json.MarshalIndent(cfg, "", "  ")
}

func applyEnv(cfg *model.Config) {
	if v := os.Getenv("NOTATION_DATABASE_TYPE"); v != "" {
		cfg.DatabaseType = v
	}
	if v := os.Getenv("NOTATION_DATABASE_DSN"); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := os.Getenv("NOTATION_DATABASE_DIR"); v != "" {
		cfg.DatabaseDir = v
	}
	if v := os.Getenv("NOTATION_DATABASE_FILE"); v != "" {
		cfg.DatabaseFile = v
	}
	if v := os.Getenv("NOTATION_LOG_FOLDER"); v != "" {
		cfg.LogFolder = v
	}
	if v := os.Getenv("NOTATION_QUERY_STRATEGY"); v != "" {
		cfg.QueryStrategy = v
	}
	if v := os.Getenv("NOTATION_MAX_OPEN_CONNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxOpenConns = n
		}
	}
}
