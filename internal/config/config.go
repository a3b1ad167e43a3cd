// Package config loads application configuration from environment variables
// and an optional .env file, with sane defaults for local development.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config groups the application's configuration.
type Config struct {
	App       AppConfig
	AWS       AWSConfig
	HTTP      HTTPConfig
	JWT       JWTConfig
	Log       LogConfig
	Inventory InventoryConfig
}

// AppConfig is general application settings.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// AWSConfig configures the DynamoDB client. Endpoint overrides the SDK's
// resolved endpoint, for DynamoDB Local.
type AWSConfig struct {
	Region   string
	Endpoint string
	Table    string
}

// HTTPConfig is the HTTP listener settings.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr returns the listen address (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// JWTConfig is the token verification settings.
type JWTConfig struct {
	Secret string
	Issuer string
}

// LogConfig is the logging settings.
type LogConfig struct {
	Level string
}

// InventoryConfig carries the domain policies.
type InventoryConfig struct {
	AllowNegativeAdjustment bool
	StockRetries            int
}

// Load reads configuration from environment variables, with an optional
// .env file underneath. Environment variables win. Expected names:
// APP_ENV, AWS_REGION, DYNAMODB_TABLE, HTTP_PORT, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "stockroom"),
		},
		AWS: AWSConfig{
			Region:   getString(v, "AWS_REGION", "us-east-1"),
			Endpoint: getString(v, "DYNAMODB_ENDPOINT", ""),
			Table:    getString(v, "DYNAMODB_TABLE", "stockroom"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		JWT: JWTConfig{
			Secret: getString(v, "JWT_SECRET", ""),
			Issuer: getString(v, "JWT_ISSUER", "stockroom"),
		},
		Log: LogConfig{
			Level: getString(v, "LOG_LEVEL", "info"),
		},
		Inventory: InventoryConfig{
			AllowNegativeAdjustment: getBool(v, "ALLOW_NEGATIVE_ADJUSTMENT", false),
			StockRetries:            getInt(v, "STOCK_RETRIES", 3),
		},
	}

	if cfg.App.Env != "development" && cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required outside development")
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
