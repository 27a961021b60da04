package di

import (
	"net/http"
	"time"

	"github.com/goliatone/go-registry-cache/airtable"
	"github.com/goliatone/go-registry-cache/dataaccess"
	"github.com/goliatone/go-registry-cache/internal/cacheinfra"
	"github.com/goliatone/go-registry-cache/internal/config"
	"github.com/goliatone/go-registry-cache/internal/logger"
	"github.com/goliatone/go-registry-cache/internal/throttle"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Container provides dependency injection for the registry data layer.
// It owns one upstream client, one rate gate and one cache store, and hands out
// a hook client and a mutator that share them, so reads and writes made through
// the same container see the same cache and the same request budget.
type Container struct {
	config   config.Config
	log      zerolog.Logger
	upstream *airtable.Client
	gate     *throttle.Gate
	store    *cacheinfra.Store
	client   *dataaccess.Client
	mutator  *dataaccess.Mutator
}

type options struct {
	log        *zerolog.Logger
	httpClient *http.Client
	clock      func() time.Time
}

// Option customizes a Container.
type Option func(*options)

// WithLogger overrides the logger built from the configured level.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = &log }
}

// WithHTTPClient sets the HTTP client used for upstream calls.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithClock sets the clock the cache store uses for expiry.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.clock = now }
}

// NewContainer validates cfg and wires the upstream client, gate, store, hook
// client and mutator.
func NewContainer(cfg config.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	log := logger.NewLoggerWithLevel(cfg.LogLevel)
	if o.log != nil {
		log = *o.log
	}

	storeOpts := []cacheinfra.Option{cacheinfra.WithLogger(log)}
	if o.clock != nil {
		storeOpts = append(storeOpts, cacheinfra.WithClock(o.clock))
	}
	store, err := cacheinfra.NewStore(cfg.Cache, storeOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cache store")
	}

	upstream := airtable.NewClient(cfg.Airtable.Client(), log, o.httpClient)
	gate := throttle.New(cfg.Throttle, throttle.WithLogger(log))

	return &Container{
		config:   cfg,
		log:      log,
		upstream: upstream,
		gate:     gate,
		store:    store,
		client:   dataaccess.NewClient(store, upstream, gate, dataaccess.WithLogger(log)),
		mutator:  dataaccess.NewMutator(store, upstream, gate, dataaccess.WithLogger(log)),
	}, nil
}

// NewContainerFromViper loads the configuration from v and builds a Container.
func NewContainerFromViper(v *viper.Viper, opts ...Option) (*Container, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	return NewContainer(*cfg, opts...)
}

// Config returns a copy of the configuration used by this container.
func (c *Container) Config() config.Config {
	return c.config
}

// Logger returns the shared logger.
func (c *Container) Logger() zerolog.Logger {
	return c.log
}

// Upstream returns the upstream API client. Calls made on it directly bypass the
// gate and the cache.
func (c *Container) Upstream() *airtable.Client {
	return c.upstream
}

// Gate returns the shared rate gate.
func (c *Container) Gate() *throttle.Gate {
	return c.gate
}

// Store returns the shared cache store.
func (c *Container) Store() *cacheinfra.Store {
	return c.store
}

// Client returns the hook client.
func (c *Container) Client() *dataaccess.Client {
	return c.client
}

// Mutator returns the invalidating mutator.
func (c *Container) Mutator() *dataaccess.Mutator {
	return c.mutator
}
