// Package throttle serializes outbound upstream calls behind a fixed request rate.
//
// Operations are queued FIFO and dispatched one at a time by a single drain loop, at
// most MaxRequestsPerSecond per second. An operation that fails with a throttling
// error (HTTP 429) is put back at the front of the queue after a backoff, so it is the
// next one dispatched. Every other failure goes straight back to the caller.
package throttle

import (
	"context"
	"fmt"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// ErrRetriesExhausted is matched by the error returned when an operation is still
// throttled after MaxRetries. That error also matches the last throttling error.
var ErrRetriesExhausted = errors.New("throttle: retries exhausted")

// retriesExhaustedError matches both ErrRetriesExhausted and the last throttling error.
type retriesExhaustedError struct {
	attempts int
	last     error
}

func (e *retriesExhaustedError) Error() string {
	return fmt.Sprintf("%v after %d retries: %v", ErrRetriesExhausted, e.attempts, e.last)
}

func (e *retriesExhaustedError) Unwrap() []error {
	return []error{ErrRetriesExhausted, e.last}
}

// Op is a unit of work dispatched by the gate.
type Op func(ctx context.Context) error

// Config controls spacing and throttling retries.
type Config struct {
	// MaxRequestsPerSecond bounds dispatches. Requests are spaced 1s/MaxRequestsPerSecond apart.
	MaxRequestsPerSecond float64
	// RetryDelay is the backoff before the first retry of a throttled op.
	RetryDelay time.Duration
	// RetryMultiplier grows the backoff between consecutive retries of the same op.
	RetryMultiplier float64
	// MaxRetryDelay caps the backoff.
	MaxRetryDelay time.Duration
	// MaxRetries bounds retries per op. A negative value retries forever.
	MaxRetries int
}

// DefaultConfig returns the upstream's documented quota with a bounded retry policy.
func DefaultConfig() Config {
	return Config{
		MaxRequestsPerSecond: 4,
		RetryDelay:           time.Second,
		RetryMultiplier:      2,
		MaxRetryDelay:        10 * time.Second,
		MaxRetries:           5,
	}
}

// Validate checks the spacing and backoff settings. MaxRetries is not bounded.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.MaxRequestsPerSecond, validation.Min(0.0)),
		validation.Field(&c.RetryDelay, validation.Min(time.Duration(0))),
		validation.Field(&c.RetryMultiplier, validation.Min(0.0)),
		validation.Field(&c.MaxRetryDelay, validation.Min(time.Duration(0))),
	)
}

// Backoff returns the delay before retry number attempt (zero based).
func (c Config) Backoff(attempt int) time.Duration {
	delay := float64(c.RetryDelay)
	for i := 0; i < attempt; i++ {
		delay *= c.RetryMultiplier
		if c.MaxRetryDelay > 0 && time.Duration(delay) >= c.MaxRetryDelay {
			return c.MaxRetryDelay
		}
	}
	return time.Duration(delay)
}

// Throttler is implemented by errors that signal an upstream rate limit.
type Throttler interface {
	Throttled() bool
}

// IsThrottled reports whether err, or anything it wraps, is a throttling error.
func IsThrottled(err error) bool {
	var t Throttler
	return errors.As(err, &t) && t.Throttled()
}

type job struct {
	ctx      context.Context
	op       Op
	done     chan error
	attempts int
}

// Gate is a FIFO, rate limited dispatcher.
type Gate struct {
	cfg       Config
	limiter   *rate.Limiter
	throttled func(error) bool
	sleep     func(ctx context.Context, d time.Duration) error
	log       zerolog.Logger

	mu         sync.Mutex
	queue      []*job
	processing bool
}

// Option customizes a Gate.
type Option func(*Gate)

// WithLogger sets the gate logger.
func WithLogger(log zerolog.Logger) Option {
	return func(g *Gate) {
		g.log = log.With().Str("module", "throttle").Logger()
	}
}

// WithClassifier replaces IsThrottled as the test for retryable failures.
func WithClassifier(fn func(error) bool) Option {
	return func(g *Gate) {
		if fn != nil {
			g.throttled = fn
		}
	}
}

// New builds a Gate. A non-positive MaxRequestsPerSecond disables spacing.
func New(cfg Config, opts ...Option) *Gate {
	limit := rate.Inf
	if cfg.MaxRequestsPerSecond > 0 {
		limit = rate.Limit(cfg.MaxRequestsPerSecond)
	}
	if cfg.RetryMultiplier < 1 {
		cfg.RetryMultiplier = 1
	}

	g := &Gate{
		cfg:       cfg,
		limiter:   rate.NewLimiter(limit, 1),
		throttled: IsThrottled,
		sleep:     sleepCtx,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Do queues op and blocks until it has run, failed, or ctx is done.
func (g *Gate) Do(ctx context.Context, op Op) error {
	j := &job{ctx: ctx, op: op, done: make(chan error, 1)}

	g.mu.Lock()
	g.queue = append(g.queue, j)
	start := !g.processing
	g.processing = true
	g.mu.Unlock()

	if start {
		go g.drain()
	}

	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Doer dispatches ops. *Gate is the production implementation.
type Doer interface {
	Do(ctx context.Context, op Op) error
}

// Run queues a value-returning op on g.
func Run[R any](ctx context.Context, g Doer, op func(ctx context.Context) (R, error)) (R, error) {
	var out R
	err := g.Do(ctx, func(ctx context.Context) error {
		r, err := op(ctx)
		if err != nil {
			return err
		}
		out = r
		return nil
	})
	if err != nil {
		// Do may return on ctx before op has finished writing out.
		var zero R
		return zero, err
	}
	return out, nil
}

// Pending reports how many ops are waiting to be dispatched.
func (g *Gate) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.queue)
}

func (g *Gate) next() (*job, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.queue) == 0 {
		g.processing = false
		return nil, false
	}
	j := g.queue[0]
	g.queue[0] = nil
	g.queue = g.queue[1:]
	return j, true
}

func (g *Gate) pushFront(j *job) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.queue = append([]*job{j}, g.queue...)
}

func (g *Gate) drain() {
	for {
		j, ok := g.next()
		if !ok {
			return
		}

		if err := j.ctx.Err(); err != nil {
			j.done <- err
			continue
		}

		if err := g.limiter.Wait(j.ctx); err != nil {
			j.done <- err
			continue
		}

		err := j.op(j.ctx)
		if err == nil || !g.throttled(err) {
			j.done <- err
			continue
		}

		if g.cfg.MaxRetries >= 0 && j.attempts >= g.cfg.MaxRetries {
			g.log.Error().Err(err).Int("attempts", j.attempts).Msg("throttled operation gave up")
			j.done <- &retriesExhaustedError{attempts: j.attempts, last: err}
			continue
		}

		delay := g.cfg.Backoff(j.attempts)
		j.attempts++
		g.log.Warn().Err(err).Int("attempt", j.attempts).Dur("delay", delay).Msg("throttled, retrying")

		if err := g.sleep(j.ctx, delay); err != nil {
			j.done <- err
			continue
		}
		g.pushFront(j)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
