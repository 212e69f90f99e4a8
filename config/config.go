package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion       string `mapstructure:"GENERAL_VERSION"`
	Environment          string `mapstructure:"ENVIRONMENT"`
	ServerPort           int    `mapstructure:"SERVER_PORT"`
	CorsAllowOrigins     string `mapstructure:"CORS_ALLOW_ORIGINS"`
	DatabaseDriver       string `mapstructure:"DATABASE_DRIVER"`
	DatabaseDbPath       string `mapstructure:"DATABASE_DB_PATH"`
	DatabaseDSN          string `mapstructure:"DATABASE_DSN"`
	DatabaseCacheAddress string `mapstructure:"DATABASE_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DATABASE_CACHE_PORT"`
	KafkaBroker          string `mapstructure:"KAFKA_BROKER"`
	KafkaTopic           string `mapstructure:"KAFKA_TOPIC"`
	SentryDSN            string `mapstructure:"SENTRY_DSN"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var keys = []string{
	"GENERAL_VERSION",
	"ENVIRONMENT",
	"SERVER_PORT",
	"CORS_ALLOW_ORIGINS",
	"DATABASE_DRIVER",
	"DATABASE_DB_PATH",
	"DATABASE_DSN",
	"DATABASE_CACHE_ADDRESS",
	"DATABASE_CACHE_PORT",
	"KAFKA_BROKER",
	"KAFKA_TOPIC",
	"SENTRY_DSN",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("GENERAL_VERSION", "dev")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("SERVER_PORT", 8288)
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:3000")
	v.SetDefault("DATABASE_DRIVER", DriverSQLite)
	v.SetDefault("DATABASE_DB_PATH", "data/patients.db")
	v.SetDefault("DATABASE_CACHE_PORT", 6379)
	v.SetDefault("KAFKA_TOPIC", "patient_events")
}

// InitConfig reads .env from the working directory when present and lets the
// environment override every key.
func InitConfig() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	return load(v)
}

func load(v *viper.Viper) (Config, error) {
	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return Config{}, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, err
	}

	config.DatabaseDriver = strings.ToLower(config.DatabaseDriver)
	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabaseDbPath == "" {
			return errors.New("DATABASE_DB_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.DatabaseDSN == "" {
			return errors.New("DATABASE_DSN is required for the postgres driver")
		}
	default:
		return errors.New("unsupported DATABASE_DRIVER: " + c.DatabaseDriver)
	}

	if c.ServerPort <= 0 {
		return errors.New("SERVER_PORT must be positive")
	}

	return nil
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}
