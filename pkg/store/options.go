package store

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/redkeep/pkg/logger"
)

// Option configures a Store.
type Option func(*options)

type options struct {
	log          *slog.Logger
	encoder      Encoder
	poolSize     int
	minIdleConns int
	dialTimeout  time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
	backoffBase  time.Duration
	backoffMax   time.Duration
	deferWait    time.Duration
	scanCount    int64
}

func defaultOptions() *options {
	return &options{
		log:          logger.NewNope(),
		encoder:      JSONEncoder{},
		poolSize:     10,
		minIdleConns: 2,
		dialTimeout:  5 * time.Second,
		readTimeout:  3 * time.Second,
		writeTimeout: 3 * time.Second,
		backoffBase:  2 * time.Second,
		backoffMax:   10 * time.Second,
		deferWait:    100 * time.Millisecond,
		scanCount:    100,
	}
}

// WithLogger sets the logger for connection and reconnection events.
// Default: a no-op logger.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithEncoder sets the value encoder used by Set and SetIfAbsent.
// Default: JSONEncoder.
func WithEncoder(enc Encoder) Option {
	return func(o *options) {
		if enc != nil {
			o.encoder = enc
		}
	}
}

// WithPoolSize sets the maximum number of connections in the pool.
// Default: 10
func WithPoolSize(n int) Option {
	return func(o *options) {
		o.poolSize = n
	}
}

// WithMinIdleConns sets the minimum number of idle connections kept open.
// Default: 2
func WithMinIdleConns(n int) Option {
	return func(o *options) {
		o.minIdleConns = n
	}
}

// WithDialTimeout sets the timeout for establishing new connections.
// Default: 5 seconds
func WithDialTimeout(d time.Duration) Option {
	return func(o *options) {
		o.dialTimeout = d
	}
}

// WithReadTimeout sets the timeout for read operations.
// Default: 3 seconds
func WithReadTimeout(d time.Duration) Option {
	return func(o *options) {
		o.readTimeout = d
	}
}

// WithWriteTimeout sets the timeout for write operations.
// Default: 3 seconds
func WithWriteTimeout(d time.Duration) Option {
	return func(o *options) {
		o.writeTimeout = d
	}
}

// WithBackoff configures the reconnection backoff schedule. The n-th failed
// attempt sleeps for min(n*base, max).
// Default: base 2s, max 10s.
func WithBackoff(base, max time.Duration) Option {
	return func(o *options) {
		if base > 0 {
			o.backoffBase = base
		}
		if max > 0 {
			o.backoffMax = max
		}
	}
}

// WithScanCount sets the page-size hint for Scan.
// Default: 100
func WithScanCount(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.scanCount = n
		}
	}
}
