package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("LoadWith returned error: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:8080" {
		t.Fatalf("unexpected base url: %s", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.API.Timeout)
	}
	if cfg.Storage.Driver != StorageFile {
		t.Fatalf("unexpected storage driver: %s", cfg.Storage.Driver)
	}
	if cfg.Redis.KeyPrefix != "storefront:session:" {
		t.Fatalf("unexpected key prefix: %s", cfg.Redis.KeyPrefix)
	}
	if cfg.DevServer.TokenTTL != 24*time.Hour || !cfg.DevServer.Seed {
		t.Fatalf("unexpected dev server config: %+v", cfg.DevServer)
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"STOREFRONT_API_URL":     "https://shop.example.com",
		"STOREFRONT_API_TIMEOUT": "5s",
		"STOREFRONT_STORAGE":     "redis",
		"REDIS_ADDR":             "cache:6380",
		"REDIS_DB":               "3",
		"LOG_LEVEL":              "debug",
	}))
	if err != nil {
		t.Fatalf("LoadWith returned error: %v", err)
	}
	if cfg.API.BaseURL != "https://shop.example.com" || cfg.API.Timeout != 5*time.Second {
		t.Fatalf("unexpected api config: %+v", cfg.API)
	}
	if cfg.Storage.Driver != StorageRedis || cfg.Redis.Addr != "cache:6380" || cfg.Redis.DB != 3 {
		t.Fatalf("unexpected storage config: %+v %+v", cfg.Storage, cfg.Redis)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel)
	}
}

func TestLoadWith_UnknownStorage(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"STOREFRONT_STORAGE": "sqlite",
	}))
	if err == nil || !strings.Contains(err.Error(), "unknown storage driver") {
		t.Fatalf("expected storage driver error, got %v", err)
	}
}

func TestLoadWith_BadDuration(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"STOREFRONT_API_TIMEOUT": "soon",
	}))
	if err == nil {
		t.Fatal("expected parse error")
	}
}
