package cache

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DefaultTTL is how long an entry is served before it is treated as absent.
const DefaultTTL = 5 * time.Minute

// Config exposes cache configuration options for consumers of the cache package.
type Config struct {
	// Capacity is the maximum number of entries held before the store evicts.
	Capacity int
	// NumShards is the number of independently locked shards.
	NumShards int
	// TTL is how long an entry stays fresh. Expiry is lazy: stale entries are
	// ignored on read, nothing sweeps them in the background.
	TTL time.Duration
	// EvictionPercentage is the share of entries dropped when Capacity is reached.
	EvictionPercentage int
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          64,
		TTL:                DefaultTTL,
		EvictionPercentage: 10,
	}
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Capacity, validation.Required, validation.Min(1)),
		validation.Field(&c.NumShards, validation.Required, validation.Min(1)),
		validation.Field(&c.TTL, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.EvictionPercentage, validation.Required, validation.Min(1), validation.Max(100)),
	)
}
