package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

const (
	BackendDynamoDB = "dynamodb"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

type Config struct {
	Region           string
	TableName        string
	DynamoDBEndpoint string
	Backend          string
	SQLitePath       string
	HTTPAddr         string
	Env              string
	ScanPageSize     int32
}

func (c Config) IsProd() bool {
	return c.Env == "prod"
}

// Load reads settings from the environment, optionally seeded by the file at
// path. A missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("AWS_REGION", "ap-southeast-1")
	v.SetDefault("PAYMENTS_TABLE", "TB_PAYMENTS")
	v.SetDefault("DYNAMODB_ENDPOINT", "")
	v.SetDefault("STORE_BACKEND", BackendDynamoDB)
	v.SetDefault("SQLITE_PATH", "payments.db")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("APP_ENV", "prod")
	v.SetDefault("SCAN_PAGE_SIZE", 0)

	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	cfg := &Config{
		Region:           v.GetString("AWS_REGION"),
		TableName:        v.GetString("PAYMENTS_TABLE"),
		DynamoDBEndpoint: v.GetString("DYNAMODB_ENDPOINT"),
		Backend:          strings.ToLower(v.GetString("STORE_BACKEND")),
		SQLitePath:       v.GetString("SQLITE_PATH"),
		HTTPAddr:         v.GetString("HTTP_ADDR"),
		Env:              strings.ToLower(v.GetString("APP_ENV")),
		ScanPageSize:     v.GetInt32("SCAN_PAGE_SIZE"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendDynamoDB, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Backend)
	}

	if c.Backend == BackendDynamoDB && c.TableName == "" {
		return errors.New("PAYMENTS_TABLE is required")
	}

	if c.ScanPageSize < 0 {
		return errors.New("SCAN_PAGE_SIZE must not be negative")
	}

	return nil
}
