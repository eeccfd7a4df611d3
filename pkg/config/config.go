package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v4"
)

type Config struct {
	Port        string `yaml:"port"`
	DatabaseURL string `yaml:"database_url"`
	DBMaxConns  int    `yaml:"db_max_conns"`

	OllamaURL            string  `yaml:"ollama_url"`
	OllamaModel          string  `yaml:"ollama_model"`
	OllamaTimeoutSeconds int     `yaml:"ollama_timeout_seconds"`
	OllamaRPS            float64 `yaml:"ollama_rps"`
	MaxPromptChars       int     `yaml:"max_prompt_chars"`

	// IdentityPolicy is "permissive" or "strict".
	IdentityPolicy string `yaml:"identity_policy"`

	UploadDir      string `yaml:"upload_dir"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`

	RedisURL    string `yaml:"redis_url"`
	RabbitMQURL string `yaml:"rabbitmq_url"`
	EventsQueue string `yaml:"events_queue"`

	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"`
	BcryptCost int    `yaml:"bcrypt_cost"`
}

func defaults() Config {
	return Config{
		Port:                 "8080",
		DBMaxConns:           10,
		OllamaURL:            "http://localhost:11434",
		OllamaModel:          "llama3.1",
		OllamaTimeoutSeconds: 120,
		OllamaRPS:            2,
		MaxPromptChars:       12000,
		IdentityPolicy:       "permissive",
		UploadDir:            "uploads",
		MaxUploadBytes:       15 << 20,
		EventsQueue:          "portfolio.updated",
		LogLevel:             "info",
		LogFormat:            "text",
		BcryptCost:           12,
	}
}

// Load reads configuration: defaults, then the YAML file named by CONFIG_FILE
// (if any), then environment variables (optionally from a .env file).
func Load() (Config, error) {
	// Try to load .env if it exists; ignore error if file not found
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadYAML(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.DBMaxConns = getEnvInt("DB_MAX_CONNS", cfg.DBMaxConns)
	cfg.OllamaURL = getEnv("OLLAMA_URL", cfg.OllamaURL)
	cfg.OllamaModel = getEnv("OLLAMA_MODEL", cfg.OllamaModel)
	cfg.OllamaTimeoutSeconds = getEnvInt("OLLAMA_TIMEOUT_SECONDS", cfg.OllamaTimeoutSeconds)
	cfg.OllamaRPS = getEnvFloat("OLLAMA_RPS", cfg.OllamaRPS)
	cfg.MaxPromptChars = getEnvInt("MAX_PROMPT_CHARS", cfg.MaxPromptChars)
	cfg.IdentityPolicy = strings.ToLower(getEnv("IDENTITY_POLICY", cfg.IdentityPolicy))
	cfg.UploadDir = getEnv("UPLOAD_DIR", cfg.UploadDir)
	cfg.MaxUploadBytes = int64(getEnvInt("MAX_UPLOAD_BYTES", int(cfg.MaxUploadBytes)))
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.RabbitMQURL = getEnv("RABBITMQ_URL", cfg.RabbitMQURL)
	cfg.EventsQueue = getEnv("EVENTS_QUEUE", cfg.EventsQueue)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.BcryptCost = getEnvInt("BCRYPT_COST", cfg.BcryptCost)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that have no safe fallback.
func (c Config) Validate() error {
	switch c.IdentityPolicy {
	case "permissive", "strict":
	default:
		return fmt.Errorf("IDENTITY_POLICY must be permissive or strict, got %q", c.IdentityPolicy)
	}
	if c.DBMaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if c.OllamaTimeoutSeconds <= 0 {
		return fmt.Errorf("OLLAMA_TIMEOUT_SECONDS must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if c.MaxPromptChars <= 0 {
		return fmt.Errorf("MAX_PROMPT_CHARS must be positive")
	}
	// bcrypt accepts 4..31; keep the range sane for request latency
	if c.BcryptCost < 10 || c.BcryptCost > 14 {
		return fmt.Errorf("BCRYPT_COST must be between 10 and 14")
	}
	return nil
}

func (c Config) OllamaTimeout() time.Duration {
	return time.Duration(c.OllamaTimeoutSeconds) * time.Second
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
