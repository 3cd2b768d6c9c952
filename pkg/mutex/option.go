package mutex

import "time"

type backendOptions struct {
	ttl      time.Duration
	retryMin time.Duration
	retryMax time.Duration
}

func defaultBackendOptions() backendOptions {
	return backendOptions{
		ttl:      10 * time.Second,
		retryMin: 5 * time.Millisecond,
		retryMax: 100 * time.Millisecond,
	}
}

func newBackendOptions(options ...Option) backendOptions {
	opts := defaultBackendOptions()
	for _, fn := range options {
		fn(&opts)
	}
	return opts
}

// Option ...
type Option func(opts *backendOptions)

// WithTTL sets the expiry of a held lock so that a crashed holder can not block forever
func WithTTL(ttl time.Duration) Option {
	return func(opts *backendOptions) {
		opts.ttl = ttl
	}
}

// WithRetryDurations sets the exponential backoff bounds between acquire attempts
func WithRetryDurations(min time.Duration, max time.Duration) Option {
	return func(opts *backendOptions) {
		opts.retryMin = min
		opts.retryMax = max
	}
}
