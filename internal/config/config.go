package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Auth       AuthConfig
	Prediction PredictionConfig
	MQTT       MQTTConfig
	Analytics  AnalyticsConfig
	Retention  RetentionConfig
	PublicURL  string `mapstructure:"public_url"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	TimescaleDB PostgresConfig `mapstructure:"timescaledb"`
	AppDB       PostgresConfig `mapstructure:"postgres_app"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type AuthConfig struct {
	AdminPassword string `mapstructure:"admin_password"`
	TokenPrefix   string `mapstructure:"token_prefix"`
}

type PredictionConfig struct {
	URL          string        `mapstructure:"url"`
	APIKey       string        `mapstructure:"api_key"`
	Timeout      time.Duration `mapstructure:"timeout"`
	DefaultHours int           `mapstructure:"default_hours"`
}

type MQTTConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	BrokerURL string `mapstructure:"broker_url"`
	Topic     string `mapstructure:"topic"`
	ClientID  string `mapstructure:"client_id"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	QoS       int    `mapstructure:"qos"`
}

type AnalyticsConfig struct {
	// IANA name of the timezone hour buckets are truncated in. The original
	// dashboard bucketed in server-local time; we default to UTC explicitly.
	BucketTimezone string `mapstructure:"bucket_timezone"`
}

type RetentionConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	MaxAge   time.Duration `mapstructure:"max_age"`
	Schedule string        `mapstructure:"schedule"`
}

// Load initializes configuration from environment variables and config file
func Load() (*Config, error) {
	viper.SetEnvPrefix("BREEV")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Load config file if exists
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "15s")
	viper.SetDefault("server.shutdown_timeout", "30s")

	// Database defaults
	viper.SetDefault("database.timescaledb.sslmode", "disable")
	viper.SetDefault("database.postgres_app.sslmode", "disable")

	// Redis defaults
	viper.SetDefault("redis.db", 0)

	// Auth defaults
	viper.SetDefault("auth.token_prefix", "breev-")

	// Prediction service defaults
	viper.SetDefault("prediction.timeout", "10s")
	viper.SetDefault("prediction.default_hours", 6)

	// MQTT ingest defaults
	viper.SetDefault("mqtt.enabled", false)
	viper.SetDefault("mqtt.topic", "aqi/sensor/#")
	viper.SetDefault("mqtt.client_id", "aqhub_ingest")
	viper.SetDefault("mqtt.qos", 1)

	// Analytics defaults
	viper.SetDefault("analytics.bucket_timezone", "UTC")

	// Retention defaults
	viper.SetDefault("retention.enabled", true)
	viper.SetDefault("retention.max_age", "8760h") // 1 year
	viper.SetDefault("retention.schedule", "0 3 * * *")

	viper.SetDefault("public_url", "http://localhost:3001")
}

func validateConfig(config *Config) error {
	if config.Database.TimescaleDB.Host == "" {
		return fmt.Errorf("timescaledb host is required")
	}
	if config.Database.AppDB.Host == "" {
		return fmt.Errorf("postgres app host is required")
	}
	if config.Auth.AdminPassword == "" {
		return fmt.Errorf("admin password is required")
	}
	if _, err := time.LoadLocation(config.Analytics.BucketTimezone); err != nil {
		return fmt.Errorf("invalid bucket timezone %q: %w", config.Analytics.BucketTimezone, err)
	}
	return nil
}
