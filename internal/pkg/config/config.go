package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=3000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Mongo    MongoConfig
	Redis    RedisConfig
	CatAPI   CatAPIConfig
	Security SecurityConfig
	Audit    AuditConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, required"`
	Database string `env:"MONGO_DB,  default=catapi"`
	// Timeout bounds the startup connect and server selection.
	Timeout     time.Duration `env:"MONGO_TIMEOUT,       default=10s"`
	MaxPoolSize uint64        `env:"MONGO_MAX_POOL_SIZE, default=0"`
}

// RedisConfig is optional: an empty Addr disables registration idempotency.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,   default=0"`
	Timeout  time.Duration `env:"REDIS_TIMEOUT, default=5s"`
}

func (r RedisConfig) Enabled() bool { return r.Addr != "" }

type CatAPIConfig struct {
	BaseURL string `env:"CAT_API_URL, default=https://api.thecatapi.com/v1"`
	APIKey  string `env:"CAT_API_KEY"`
	// Timeout of zero leaves upstream calls bounded only by the request context.
	Timeout time.Duration `env:"CAT_API_TIMEOUT, default=0s"`
}

type SecurityConfig struct {
	BcryptCost int `env:"BCRYPT_COST, default=10"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

// IsDevelopment enables human-readable console logs.
func (c *Config) IsDevelopment() bool { return c.Env == "development" }

// Load reads an optional .env file, then configuration from environment
// variables using go-envconfig. It panics when a required value is missing.
func Load() *Config {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith resolves configuration from lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	return &cfg, nil
}
