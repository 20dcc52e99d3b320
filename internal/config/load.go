package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. CARDS_SERVER_PORT.
const EnvPrefix = "CARDS"

// keys lists every configuration key so each can be bound to its environment
// variable. Viper only consults the environment for keys it knows about.
var keys = []string{
	"server.port",
	"server.log_level",
	"server.environment",
	"database.url",
	"database.auto_migrate",
	"database.max_open_conns",
	"auth.jwt_secret",
	"auth.issuer",
	"auth.audience",
	"auth.token_lifetime_minutes",
	"idgen.node_id",
	"idgen.max_clock_drift_ms",
	"cache.redis_addr",
	"cache.redis_password",
	"cache.redis_db",
	"cache.status_ttl_seconds",
	"events.kafka_brokers",
	"events.kafka_topic",
	"seed.enabled",
	"seed.default_password",
}

// Load reads configuration from a .env file (if present), an optional
// config.yaml in the working directory, and CARDS_* environment variables.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	return LoadFile("")
}

// LoadFile is Load with an explicit config file path. An empty path searches
// the working directory for config.yaml. No .env file is read.
func LoadFile(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(configPath == "" && errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.environment", "production")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("auth.issuer", "cards-api")
	v.SetDefault("auth.audience", "cards-api")
	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("idgen.node_id", 0)
	v.SetDefault("idgen.max_clock_drift_ms", 10)
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.status_ttl_seconds", 300)
	v.SetDefault("events.kafka_topic", "card-events")
	v.SetDefault("seed.enabled", false)
}

// loadDotEnv populates the process environment from path without overriding
// variables that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
