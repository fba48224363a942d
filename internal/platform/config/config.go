package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	errInvalidPort        = errors.New("config: invalid PORT number")
	errWorkersOutOfRange  = errors.New("config: WORKER_COUNT must be 1-64")
	errQueueOutOfRange    = errors.New("config: QUEUE_SIZE must be 1-10000")
	errDatabasePathNeeded = errors.New("config: DATABASE_PATH is required")
	errInvalidTimeout     = errors.New("config: timeouts must be positive")
)

const configPathEnv = "CONFIG_PATH"

// Config holds all application configuration. Values come from an optional
// YAML file named by CONFIG_PATH and are then overridden by environment
// variables.
type Config struct {
	Port            string          `yaml:"port"`
	LogLevel        string          `yaml:"logLevel"`
	DatabasePath    string          `yaml:"databasePath"`
	WorkerCount     int             `yaml:"workerCount"`
	QueueSize       int             `yaml:"queueSize"`
	ShutdownTimeout time.Duration   `yaml:"shutdownTimeout"`
	PageSpeed       PageSpeedConfig `yaml:"pagespeed"`
	Narrative       NarrativeConfig `yaml:"narrative"`
}

// PageSpeedConfig describes the performance-audit service.
type PageSpeedConfig struct {
	APIKey   string        `yaml:"apiKey"`
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// NarrativeConfig describes the language-model service. An empty APIKey
// keeps the enricher on its fallback payloads; Enabled=false drops the
// narrative from records altogether.
type NarrativeConfig struct {
	Enabled bool          `yaml:"enabled"`
	APIKey  string        `yaml:"apiKey"`
	BaseURL string        `yaml:"baseUrl"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// Load reads configuration from the optional YAML file and environment
// variables with sensible defaults.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv(configPathEnv); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return cfg, err
		}
	}

	cfg.applyEnv()
	return cfg, cfg.validate()
}

func defaults() Config {
	return Config{
		Port:            "8080",
		LogLevel:        "ERROR",
		DatabasePath:    "site-health.db",
		WorkerCount:     4,
		QueueSize:       64,
		ShutdownTimeout: 30 * time.Second,
		PageSpeed: PageSpeedConfig{
			Timeout: 60 * time.Second,
		},
		Narrative: NarrativeConfig{
			Enabled: true,
			BaseURL: "https://generativelanguage.googleapis.com/v1beta/openai",
			Model:   "gemini-2.5-pro",
			Timeout: 120 * time.Second,
		},
	}
}

// mergeFile decodes the YAML file over the current values, so keys absent
// from the file keep their defaults.
func (c *Config) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.DatabasePath = getEnv("DATABASE_PATH", c.DatabasePath)
	c.WorkerCount = getEnvAsInt("WORKER_COUNT", c.WorkerCount)
	c.QueueSize = getEnvAsInt("QUEUE_SIZE", c.QueueSize)
	c.ShutdownTimeout = getEnvAsDuration("SHUTDOWN_TIMEOUT", c.ShutdownTimeout)

	c.PageSpeed.APIKey = getEnv("PAGESPEED_API_KEY", c.PageSpeed.APIKey)
	c.PageSpeed.Endpoint = getEnv("PAGESPEED_ENDPOINT", c.PageSpeed.Endpoint)
	c.PageSpeed.Timeout = getEnvAsDuration("PAGESPEED_TIMEOUT", c.PageSpeed.Timeout)

	c.Narrative.Enabled = getEnvAsBool("NARRATIVE_ENABLED", c.Narrative.Enabled)
	c.Narrative.APIKey = getEnv("GEMINI_API_KEY", c.Narrative.APIKey)
	c.Narrative.APIKey = getEnv("LLM_API_KEY", c.Narrative.APIKey)
	c.Narrative.BaseURL = getEnv("LLM_BASE_URL", c.Narrative.BaseURL)
	c.Narrative.Model = getEnv("LLM_MODEL", c.Narrative.Model)
	c.Narrative.Timeout = getEnvAsDuration("LLM_TIMEOUT", c.Narrative.Timeout)
}

func (c Config) validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: %q", errInvalidPort, c.Port)
	}

	if c.WorkerCount < 1 || c.WorkerCount > 64 {
		return fmt.Errorf("%w: got %d", errWorkersOutOfRange, c.WorkerCount)
	}

	if c.QueueSize < 1 || c.QueueSize > 10000 {
		return fmt.Errorf("%w: got %d", errQueueOutOfRange, c.QueueSize)
	}

	if c.DatabasePath == "" {
		return errDatabasePathNeeded
	}

	if c.ShutdownTimeout <= 0 || c.PageSpeed.Timeout <= 0 || c.Narrative.Timeout <= 0 {
		return errInvalidTimeout
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsBool(key string, fallback bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return v
}
