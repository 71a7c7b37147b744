package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	structValidator "github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/yaml.v3"
)

const (
	CONFIG_PATH = "./res/config.yaml"

	DatabaseMongo    = "mongo"
	DatabasePostgres = "postgres"
	DatabaseSQLite   = "sqlite"
	DatabaseMemory   = "memory"
)

// ServiceConfig holds the configuration for the service.
// Values read from the YAML file can be overridden with SIGNUP_* environment variables.
type ServiceConfig struct {
	ServiceName     string        `yaml:"service_name" env:"SIGNUP_SERVICE_NAME" validate:"required"`
	LogLevel        string        `yaml:"loglevel" env:"SIGNUP_LOG_LEVEL" validate:"required"`
	Host            string        `yaml:"host" env:"SIGNUP_HOST" validate:"required"`
	Port            string        `yaml:"port" env:"SIGNUP_PORT" validate:"required"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SIGNUP_SHUTDOWN_TIMEOUT"`
	Database        Database      `yaml:"database" validate:"required"`
}

type Database struct {
	Type string `yaml:"type" env:"SIGNUP_DATABASE_TYPE" validate:"required,oneof=mongo postgres sqlite memory"`
	// For MongoDB
	MongoDB MongoDBConfig `yaml:"mongodb_config" validate:"-"`
	// For PostgreSQL
	Postgres PostgresConfig `yaml:"postgres_config" validate:"-"`
	// For SQLite
	SQLite SQLiteConfig `yaml:"sqlite_config" validate:"-"`
}

// MongoDBConfig holds the MongoDB connection settings.
type MongoDBConfig struct {
	DSN              string             `yaml:"dsn" env:"SIGNUP_MONGODB_DSN" validate:"required"`
	DatabaseName     string             `yaml:"database_name" validate:"required"`
	Timeout          time.Duration      `yaml:"timeout"`
	Options          MongoServerOptions `yaml:"mongo_server_options"`
	ValidCollections []string           `yaml:"valid_collections" validate:"required"`
	ValidFields      []string           `yaml:"valid_fields" validate:"required"`
}

type PostgresConfig struct {
	DSN     string                `yaml:"dsn" env:"SIGNUP_POSTGRES_DSN" validate:"required"`
	Options PostgresServerOptions `yaml:"postgres_server_options"`
}

type SQLiteConfig struct {
	Path string `yaml:"path" env:"SIGNUP_SQLITE_PATH" validate:"required"`
}

type MongoServerOptions struct {
	APIVersion           string `yaml:"api_version"`
	SetStrict            bool   `yaml:"set_strict"`
	SetDeprecationErrors bool   `yaml:"set_deprecation_errors"`
}

type PostgresServerOptions struct {
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// ReadLocalConfig reads the service configuration from a YAML file at the specified path.
// It unmarshals the YAML content into a ServiceConfig struct, applies any
// environment overrides and returns it.
// If there is an error reading the file or unmarshaling the content, it returns an error.
func ReadLocalConfig(configPath string) (*ServiceConfig, error) {
	config := &ServiceConfig{}

	yamlFile, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(yamlFile, config)
	if err != nil {
		return nil, err
	}

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return config, nil
}

// Validate checks the service configuration and the settings of the selected database.
func Validate(validator *structValidator.Validate, cfg *ServiceConfig) error {
	if err := validator.Struct(cfg); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	var dbConfig interface{}
	switch cfg.Database.Type {
	case DatabaseMongo:
		dbConfig = &cfg.Database.MongoDB
	case DatabasePostgres:
		dbConfig = &cfg.Database.Postgres
	case DatabaseSQLite:
		dbConfig = &cfg.Database.SQLite
	default:
		return nil
	}

	if err := validator.Struct(dbConfig); err != nil {
		return fmt.Errorf("%s configuration validation error: %w", cfg.Database.Type, err)
	}
	return nil
}

func BuildServerAPIOptions(cfg MongoServerOptions) *options.ServerAPIOptions {
	opts := options.ServerAPI(options.ServerAPIVersion(cfg.APIVersion))
	opts.SetStrict(cfg.SetStrict)
	opts.SetDeprecationErrors(cfg.SetDeprecationErrors)

	return opts
}

func ListToMap(list []string) map[string]bool {
	result := make(map[string]bool)
	for _, item := range list {
		result[item] = true
	}
	return result
}
