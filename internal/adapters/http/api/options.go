package api

import "github.com/okian/wordscore/pkg/logger"

type options struct {
	maxLetters     int
	rateLimitRPS   float64
	rateLimitBurst int
	trustProxy     bool
	logger         logger.Logger
}

func defaultOptions() options {
	return options{
		maxLetters:     10,
		rateLimitBurst: 1,
		logger:         logger.Nop(),
	}
}

// Option configures a Server.
type Option func(*options)

// WithMaxLetters caps the length of a submitted word.
func WithMaxLetters(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxLetters = n
		}
	}
}

// WithRateLimit enables per-client limiting of POST and DELETE requests.
// A non-positive rps leaves limiting off.
func WithRateLimit(rps float64, burst int) Option {
	return func(o *options) {
		o.rateLimitRPS = rps
		if burst > 0 {
			o.rateLimitBurst = burst
		}
	}
}

// WithTrustedProxyHeaders makes the rate limiter key clients by
// X-Forwarded-For and X-Real-IP. Leave it off unless a reverse proxy in front
// of the service rewrites those headers.
func WithTrustedProxyHeaders(trust bool) Option {
	return func(o *options) {
		o.trustProxy = trust
	}
}

// WithLogger sets the logger for handler failures.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
