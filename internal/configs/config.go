package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type RabbitMQConfig struct {
	URL string
}

type DBconfig struct {
	URL      string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	URL string
	// DraftTTL is how long per-user extraction results are kept before submit
	DraftTTL time.Duration
}

type RestConfig struct {
	Port           int
	AllowedOrigins []string
}

type AIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type SMTPConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type MatchingConfig struct {
	// Workers bounds the goroutines evaluating criteria for one listing
	Workers int
	// SweepLimit is how many recent listings a new wanted request is checked against
	SweepLimit int
}

type SchedulerConfig struct {
	ExpirySpec string
}

type MetricsConfig struct {
	Enabled bool
}

type StdoutLogConfig struct {
	Level string
	Color bool
}

type FluentBitConfig struct {
	Host      string
	Port      int
	Enabled   bool
	Level     string
	TagPrefix string
}

// AppConfig is the whole service configuration.
type AppConfig struct {
	AppName      string
	Database     DBconfig
	RabbitMQ     RabbitMQConfig
	Redis        RedisConfig
	Rest         RestConfig
	AI           AIConfig
	SMTP         SMTPConfig
	Matching     MatchingConfig
	Scheduler    SchedulerConfig
	Metrics      MetricsConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
}

// LoadConfig reads the configuration from the environment. A .env file is
// loaded first when present; variables already set take precedence.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Printf("Info: could not load .env file (path: %v): %v. Using process environment.\n", envPath, err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "listing-service")

	cfg.Database.URL = os.Getenv("DATABASE_URL")
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	cfg.Database.MaxConns = getEnvAsInt("DATABASE_MAX_CONNS", 10)
	cfg.Database.MinConns = getEnvAsInt("DATABASE_MIN_CONNS", 2)

	cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
	if cfg.RabbitMQ.URL == "" {
		return nil, fmt.Errorf("RABBITMQ_URL environment variable is required")
	}

	cfg.Redis.URL = os.Getenv("REDIS_URL")
	if cfg.Redis.URL == "" {
		return nil, fmt.Errorf("REDIS_URL environment variable is required")
	}
	cfg.Redis.DraftTTL = getEnvAsDuration("REDIS_DRAFT_TTL", 24*time.Hour)

	cfg.Rest.Port = getEnvAsInt("REST_SERVER_PORT", 8080)
	cfg.Rest.AllowedOrigins = getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"})

	cfg.AI.APIKey = os.Getenv("GEMINI_API_KEY")
	if cfg.AI.APIKey == "" {
		log.Println("WARNING: GEMINI_API_KEY is not set. Classification and extraction will use keyword rules only.")
	}
	cfg.AI.Model = getEnvAsString("GEMINI_MODEL", "gemini-2.5-flash-lite")
	cfg.AI.BaseURL = getEnvAsString("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta")
	cfg.AI.Timeout = getEnvAsDuration("AI_TIMEOUT", 8*time.Second)

	cfg.SMTP.Enabled = getEnvAsBool("SMTP_ENABLED", false)
	if cfg.SMTP.Enabled {
		cfg.SMTP.Host = os.Getenv("SMTP_HOST")
		if cfg.SMTP.Host == "" {
			log.Println("WARNING: SMTP_ENABLED is true, but SMTP_HOST is not set. E-mails will only be logged.")
			cfg.SMTP.Enabled = false
		}
		cfg.SMTP.Port = getEnvAsInt("SMTP_PORT", 587)
		cfg.SMTP.Username = os.Getenv("SMTP_USERNAME")
		cfg.SMTP.Password = os.Getenv("SMTP_PASSWORD")
		cfg.SMTP.From = getEnvAsString("SMTP_FROM", cfg.SMTP.Username)
	}

	cfg.Matching.Workers = getEnvAsInt("MATCH_WORKERS", 8)
	if cfg.Matching.Workers < 1 {
		cfg.Matching.Workers = 1
	}
	cfg.Matching.SweepLimit = getEnvAsInt("WANTED_SWEEP_LIMIT", 1000)

	cfg.Scheduler.ExpirySpec = getEnvAsString("EXPIRY_SCHEDULE", "@every 1h")
	cfg.Metrics.Enabled = getEnvAsBool("METRICS_ENABLED", true)

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
		cfg.FluentBit.TagPrefix = getEnvAsString("FLUENTBIT_TAG_PREFIX", cfg.AppName)
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")
	cfg.StdoutLogger.Color = getEnvAsBool("STDOUT_LOG_COLOR", true)

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt logs and falls back to defaultValue when the variable is not an int.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as duration: %v. Using default value: %s\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return d
}

// getEnvAsList splits a comma separated variable, dropping blank items.
func getEnvAsList(key string, defaultValue []string) []string {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(valStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
