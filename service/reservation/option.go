package reservation

import (
	"github.com/prometheus/client_golang/prometheus"
	"time"
)

type serviceOptions struct {
	lockTimeout  time.Duration
	fundCacheTTL int

	targeting Targeting
	fundCache FundCache
	metrics   *Metrics
	now       func() time.Time
}

func defaultServiceOptions() serviceOptions {
	return serviceOptions{
		lockTimeout:  3 * time.Second,
		fundCacheTTL: 2,

		targeting: AllowAllTargeting{},
		fundCache: noopFundCache{},
		now:       time.Now,
	}
}

func newServiceOptions(options ...Option) serviceOptions {
	opts := defaultServiceOptions()
	for _, fn := range options {
		fn(&opts)
	}
	if opts.metrics == nil {
		opts.metrics = NewMetrics(prometheus.NewRegistry())
	}
	return opts
}

// Option ...
type Option func(opts *serviceOptions)

// WithLockTimeout bounds the wait for the campaign lock, after that ErrReservationBusy is returned
func WithLockTimeout(d time.Duration) Option {
	return func(opts *serviceOptions) {
		opts.lockTimeout = d
	}
}

// WithTargeting ...
func WithTargeting(t Targeting) Option {
	return func(opts *serviceOptions) {
		opts.targeting = t
	}
}

// WithFundCache caches fund progress for ttlSeconds, reads may be stale up to that long
func WithFundCache(cache FundCache, ttlSeconds int) Option {
	return func(opts *serviceOptions) {
		opts.fundCache = cache
		opts.fundCacheTTL = ttlSeconds
	}
}

// WithMetrics ...
func WithMetrics(m *Metrics) Option {
	return func(opts *serviceOptions) {
		opts.metrics = m
	}
}

// WithClock ...
func WithClock(now func() time.Time) Option {
	return func(opts *serviceOptions) {
		opts.now = now
	}
}
