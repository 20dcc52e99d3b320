package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	IDGen    IDGenConfig    `mapstructure:"idgen"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Events   EventsConfig   `mapstructure:"events"`
	Seed     SeedConfig     `mapstructure:"seed"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// Environment controls how much error detail reaches API callers.
	Environment string `mapstructure:"environment" validate:"required,oneof=development production test"`
}

// IsDevelopment reports whether detailed errors may be returned to clients.
func (c ServerConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"required,url"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	Issuer               string `mapstructure:"issuer" validate:"required"`
	Audience             string `mapstructure:"audience" validate:"required"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// IDGenConfig configures the card id generator.
type IDGenConfig struct {
	NodeID          int `mapstructure:"node_id" validate:"gte=0,lte=3"`
	MaxClockDriftMs int `mapstructure:"max_clock_drift_ms" validate:"gte=0"`
}

// MaxClockDrift returns the tolerated clock regression as a duration.
func (c IDGenConfig) MaxClockDrift() time.Duration {
	return time.Duration(c.MaxClockDriftMs) * time.Millisecond
}

// CacheConfig configures the status cache. An empty RedisAddr selects the
// in-process cache.
type CacheConfig struct {
	RedisAddr        string `mapstructure:"redis_addr"`
	RedisPassword    string `mapstructure:"redis_password"`
	RedisDB          int    `mapstructure:"redis_db" validate:"gte=0"`
	StatusTTLSeconds int    `mapstructure:"status_ttl_seconds" validate:"gte=0"`
}

// StatusTTL returns how long the status list is cached.
func (c CacheConfig) StatusTTL() time.Duration {
	return time.Duration(c.StatusTTLSeconds) * time.Second
}

// EventsConfig configures card lifecycle event publishing. With no brokers,
// events are only logged.
type EventsConfig struct {
	KafkaBrokers []string `mapstructure:"kafka_brokers"`
	KafkaTopic   string   `mapstructure:"kafka_topic" validate:"required_with=KafkaBrokers"`
}

// SeedConfig controls startup seeding of the default accounts.
type SeedConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	DefaultPassword string `mapstructure:"default_password" validate:"required_if=Enabled true"`
}
