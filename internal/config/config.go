package config

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/goliatone/go-registry-cache/airtable"
	"github.com/goliatone/go-registry-cache/cache"
	"github.com/goliatone/go-registry-cache/internal/throttle"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. REGISTRY_AIRTABLE_API_KEY.
const EnvPrefix = "REGISTRY"

// Keys read by Load.
const (
	KeyAirtableBaseURL   = "airtable.base_url"
	KeyAirtableBaseID    = "airtable.base_id"
	KeyAirtableAPIKey    = "airtable.api_key"
	KeyAirtableTimeout   = "airtable.timeout"
	KeyThrottleRPS       = "throttle.requests_per_second"
	KeyThrottleDelay     = "throttle.retry_delay"
	KeyThrottleMult      = "throttle.retry_multiplier"
	KeyThrottleMaxDelay  = "throttle.max_retry_delay"
	KeyThrottleRetries   = "throttle.max_retries"
	KeyCacheTTL          = "cache.ttl"
	KeyCacheCapacity     = "cache.capacity"
	KeyCacheShards       = "cache.num_shards"
	KeyCacheEvictPercent = "cache.eviction_percentage"
	KeyLogLevel          = "log.level"
)

// Config is the full runtime configuration.
type Config struct {
	Airtable AirtableConfig
	Throttle throttle.Config
	Cache    cache.Config
	LogLevel string
}

// AirtableConfig holds the upstream connection settings.
type AirtableConfig struct {
	BaseURL string
	BaseID  string
	APIKey  string
	Timeout time.Duration
}

// Client returns the settings in the shape the upstream client takes.
func (a AirtableConfig) Client() airtable.Config {
	return airtable.Config{BaseURL: a.BaseURL, BaseID: a.BaseID, APIKey: a.APIKey, Timeout: a.Timeout}
}

// Validate checks the upstream settings.
func (a AirtableConfig) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.BaseURL, validation.Required, is.URL),
		validation.Field(&a.BaseID, validation.Required),
		validation.Field(&a.APIKey, validation.Required),
		validation.Field(&a.Timeout, validation.Min(time.Duration(0))),
	)
}

// Validate checks every section.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Airtable),
		validation.Field(&c.Throttle),
		validation.Field(&c.Cache),
		validation.Field(&c.LogLevel, validation.In("trace", "debug", "info", "warn", "error", "disabled")),
	)
}

// New returns a viper instance with defaults and REGISTRY_* environment overrides.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults registers the default of every key.
func SetDefaults(v *viper.Viper) {
	cacheDefaults := cache.DefaultConfig()
	throttleDefaults := throttle.DefaultConfig()

	v.SetDefault(KeyAirtableBaseURL, airtable.DefaultBaseURL)
	v.SetDefault(KeyAirtableBaseID, "")
	v.SetDefault(KeyAirtableAPIKey, "")
	v.SetDefault(KeyAirtableTimeout, 30*time.Second)

	v.SetDefault(KeyThrottleRPS, throttleDefaults.MaxRequestsPerSecond)
	v.SetDefault(KeyThrottleDelay, throttleDefaults.RetryDelay)
	v.SetDefault(KeyThrottleMult, throttleDefaults.RetryMultiplier)
	v.SetDefault(KeyThrottleMaxDelay, throttleDefaults.MaxRetryDelay)
	v.SetDefault(KeyThrottleRetries, throttleDefaults.MaxRetries)

	v.SetDefault(KeyCacheTTL, cacheDefaults.TTL)
	v.SetDefault(KeyCacheCapacity, cacheDefaults.Capacity)
	v.SetDefault(KeyCacheShards, cacheDefaults.NumShards)
	v.SetDefault(KeyCacheEvictPercent, cacheDefaults.EvictionPercentage)

	v.SetDefault(KeyLogLevel, "info")
}

// ReadFile merges a config file into v. The format follows the file extension.
func ReadFile(v *viper.Viper, path string) error {
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "failed to read config file %s", path)
	}
	return nil
}

// Load builds and validates a Config from v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Airtable: AirtableConfig{
			BaseURL: v.GetString(KeyAirtableBaseURL),
			BaseID:  v.GetString(KeyAirtableBaseID),
			APIKey:  v.GetString(KeyAirtableAPIKey),
			Timeout: v.GetDuration(KeyAirtableTimeout),
		},
		Throttle: throttle.Config{
			MaxRequestsPerSecond: v.GetFloat64(KeyThrottleRPS),
			RetryDelay:           v.GetDuration(KeyThrottleDelay),
			RetryMultiplier:      v.GetFloat64(KeyThrottleMult),
			MaxRetryDelay:        v.GetDuration(KeyThrottleMaxDelay),
			MaxRetries:           v.GetInt(KeyThrottleRetries),
		},
		Cache: cache.Config{
			TTL:                v.GetDuration(KeyCacheTTL),
			Capacity:           v.GetInt(KeyCacheCapacity),
			NumShards:          v.GetInt(KeyCacheShards),
			EvictionPercentage: v.GetInt(KeyCacheEvictPercent),
		},
		LogLevel: strings.ToLower(v.GetString(KeyLogLevel)),
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}
