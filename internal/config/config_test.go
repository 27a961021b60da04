package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-registry-cache/airtable"
	"github.com/goliatone/go-registry-cache/cache"
	"github.com/goliatone/go-registry-cache/internal/throttle"
)

func TestLoad_Defaults(t *testing.T) {
	v := New()
	v.Set(KeyAirtableBaseID, "appBASE")
	v.Set(KeyAirtableAPIKey, "key")

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Airtable.BaseURL != airtable.DefaultBaseURL {
		t.Errorf("BaseURL = %q", cfg.Airtable.BaseURL)
	}
	if cfg.Cache != cache.DefaultConfig() {
		t.Errorf("Cache = %+v, want defaults", cfg.Cache)
	}
	if cfg.Throttle != throttle.DefaultConfig() {
		t.Errorf("Throttle = %+v, want defaults", cfg.Throttle)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("REGISTRY_AIRTABLE_BASE_ID", "appENV")
	t.Setenv("REGISTRY_AIRTABLE_API_KEY", "secret")
	t.Setenv("REGISTRY_CACHE_TTL", "90s")
	t.Setenv("REGISTRY_THROTTLE_MAX_RETRIES", "-1")
	t.Setenv("REGISTRY_LOG_LEVEL", "DEBUG")

	cfg, err := Load(New())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Airtable.BaseID != "appENV" || cfg.Airtable.APIKey != "secret" {
		t.Errorf("Airtable = %+v", cfg.Airtable)
	}
	if cfg.Cache.TTL != 90*time.Second {
		t.Errorf("TTL = %v", cfg.Cache.TTL)
	}
	if cfg.Throttle.MaxRetries != -1 {
		t.Errorf("MaxRetries = %d", cfg.Throttle.MaxRetries)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")
	body := `
airtable:
  base_id: appFILE
  api_key: filekey
  base_url: http://localhost:9999/v0
throttle:
  requests_per_second: 2
cache:
  ttl: 1m
  capacity: 50
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	v := New()
	if err := ReadFile(v, path); err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := cfg.Airtable.Client(); got.BaseID != "appFILE" || got.BaseURL != "http://localhost:9999/v0" {
		t.Errorf("Client() = %+v", got)
	}
	if cfg.Throttle.MaxRequestsPerSecond != 2 {
		t.Errorf("rps = %v", cfg.Throttle.MaxRequestsPerSecond)
	}
	if cfg.Cache.TTL != time.Minute || cfg.Cache.Capacity != 50 {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Cache.NumShards != cache.DefaultConfig().NumShards {
		t.Errorf("unset key should keep its default, got %d", cfg.Cache.NumShards)
	}
}

func TestReadFile_Missing(t *testing.T) {
	if err := ReadFile(New(), filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		set   map[string]any
		field string
	}{
		{"missing base id", map[string]any{KeyAirtableAPIKey: "k"}, "BaseID"},
		{"missing api key", map[string]any{KeyAirtableBaseID: "b"}, "APIKey"},
		{"bad url", map[string]any{KeyAirtableBaseID: "b", KeyAirtableAPIKey: "k", KeyAirtableBaseURL: "not a url"}, "BaseURL"},
		{"zero capacity", map[string]any{KeyAirtableBaseID: "b", KeyAirtableAPIKey: "k", KeyCacheCapacity: 0}, "Capacity"},
		{"eviction over 100", map[string]any{KeyAirtableBaseID: "b", KeyAirtableAPIKey: "k", KeyCacheEvictPercent: 150}, "EvictionPercentage"},
		{"negative rps", map[string]any{KeyAirtableBaseID: "b", KeyAirtableAPIKey: "k", KeyThrottleRPS: -1.0}, "MaxRequestsPerSecond"},
		{"unknown level", map[string]any{KeyAirtableBaseID: "b", KeyAirtableAPIKey: "k", KeyLogLevel: "chatty"}, "LogLevel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			for k, val := range tt.set {
				v.Set(k, val)
			}
			_, err := Load(v)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name %s", err, tt.field)
			}
		})
	}
}
