package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Storage drivers for the persisted session.
const (
	StorageFile   = "file"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

type Config struct {
	Env       string `env:"STOREFRONT_ENV,  default=development"`
	LogLevel  string `env:"LOG_LEVEL,       default=warn"`
	LogPretty bool   `env:"LOG_PRETTY,      default=true"`

	API       APIConfig
	Storage   StorageConfig
	Redis     RedisConfig
	DevServer DevServerConfig
}

type APIConfig struct {
	BaseURL string        `env:"STOREFRONT_API_URL,     default=http://localhost:8080"`
	Timeout time.Duration `env:"STOREFRONT_API_TIMEOUT, default=30s"`
}

type StorageConfig struct {
	Driver string `env:"STOREFRONT_STORAGE,      default=file"`
	Path   string `env:"STOREFRONT_SESSION_FILE"`
}

type RedisConfig struct {
	Addr      string        `env:"REDIS_ADDR,        default=localhost:6379"`
	Password  string        `env:"REDIS_PASSWORD"`
	DB        int           `env:"REDIS_DB,          default=0"`
	KeyPrefix string        `env:"REDIS_KEY_PREFIX,  default=storefront:session:"`
	TTL       time.Duration `env:"REDIS_SESSION_TTL, default=0s"`
}

type DevServerConfig struct {
	Port          string        `env:"PORT,               default=8080"`
	JWTSecret     string        `env:"JWT_SECRET,         default=dev-secret-change-me"`
	TokenTTL      time.Duration `env:"JWT_TTL,            default=24h"`
	Seed          bool          `env:"DEV_SEED,           default=true"`
	AdminPassword string        `env:"DEV_ADMIN_PASSWORD, default=admin"`
}

// Load reads a .env file when one exists and then the process environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("load .env file: %w", err)
		}
	}
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from lookuper using go-envconfig.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot express as tags.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageFile, StorageRedis, StorageMemory:
	default:
		return fmt.Errorf("config: unknown storage driver %q (want file, redis or memory)", c.Storage.Driver)
	}
	if c.API.BaseURL == "" {
		return errors.New("config: STOREFRONT_API_URL must not be empty")
	}
	return nil
}
