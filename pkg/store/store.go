package store

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/redkeep/pkg/descriptor"
)

// Store is a resilient key-value persistence client. One instance owns one
// logical connection to the store; operations are safe for concurrent use.
//
// Every operation follows the same recovery pattern: attempt once against the
// current connection, and on a connection-level failure run a reconnection
// episode to completion and retry exactly once. Application-level errors are
// surfaced immediately and never trigger reconnection.
type Store struct {
	desc descriptor.Descriptor
	res  resolver
	enc  Encoder
	log  *slog.Logger
	opts *options

	mu     sync.RWMutex
	cur    conn
	closed bool

	reconnecting atomic.Bool

	// sleep is swapped out in tests to observe the backoff schedule.
	sleep func(ctx context.Context, d time.Duration) error
}

// New connects to the store described by rawURL and returns a ready Store.
//
// Direct descriptors (redis://, rediss://) dial the endpoint as-is. Sentinel
// descriptors (redis+sentinel://, rediss+sentinel://) query the configured
// sentinels for the current master first. The initial connection is probed
// with a ping; construction fails rather than entering the backoff loop.
func New(ctx context.Context, rawURL string, opts ...Option) (*Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	desc, err := descriptor.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	o.log.InfoContext(ctx, "connecting to store",
		slog.String("url", descriptor.Mask(rawURL)),
		slog.String("topology", desc.Kind.String()))

	res, err := newResolver(desc, o)
	if err != nil {
		return nil, err
	}

	s := &Store{
		desc:  desc,
		res:   res,
		enc:   o.encoder,
		log:   o.log,
		opts:  o,
		sleep: wait,
	}

	cn, err := res.Resolve(ctx)
	if err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}
	if err := cn.Ping(ctx).Err(); err != nil {
		_ = cn.Close()
		return nil, errors.Join(ErrConnectionFailed, err)
	}
	s.cur = cn

	return s, nil
}

// Set serializes value with the configured encoder and writes it
// unconditionally under key.
func (s *Store) Set(ctx context.Context, key string, value any) error {
	data, err := s.enc.Encode(value)
	if err != nil {
		return err
	}

	_, err = withRetry(ctx, s, func(cn conn) (struct{}, error) {
		return struct{}{}, cn.Set(ctx, key, data, 0).Err()
	})
	return err
}

// SetIfAbsent writes value only if key does not already exist and reports
// whether the write happened.
func (s *Store) SetIfAbsent(ctx context.Context, key string, value any) (bool, error) {
	data, err := s.enc.Encode(value)
	if err != nil {
		return false, err
	}

	return withRetry(ctx, s, func(cn conn) (bool, error) {
		return cn.SetNX(ctx, key, data, 0).Result()
	})
}

// Get returns the raw bytes stored under key, or ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := withRetry(ctx, s, func(cn conn) ([]byte, error) {
		return cn.Get(ctx, key).Bytes()
	})
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return data, err
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := withRetry(ctx, s, func(cn conn) (struct{}, error) {
		return struct{}{}, cn.Del(ctx, key).Err()
	})
	return err
}

// Scan yields the value of every key matching the glob-style pattern,
// paginating with the store's cursor protocol. Order is not guaranteed.
//
// A scan is not restartable mid-iteration: if a connection-level failure
// occurs partway through, the whole scan restarts from the beginning against
// the freshly resolved connection (once), so values emitted before the
// failure may be yielded again. Keys deleted between the key page and the
// value fetch are skipped.
func (s *Store) Scan(ctx context.Context, pattern string) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		for pass := 0; ; pass++ {
			err := s.scanPass(ctx, pattern, yield)
			if err == nil {
				return
			}
			if isTransient(err) && pass == 0 {
				if rerr := s.reconnect(ctx); rerr != nil {
					yield(nil, rerr)
					return
				}
				continue
			}
			yield(nil, err)
			return
		}
	}
}

// scanPass runs one full scan from cursor 0. It returns nil when the scan
// completed or the consumer stopped early, and the underlying error otherwise.
func (s *Store) scanPass(ctx context.Context, pattern string, yield func([]byte, error) bool) error {
	var cursor uint64

	for {
		cn, err := s.current()
		if err != nil {
			return err
		}

		keys, next, err := cn.Scan(ctx, cursor, pattern, s.opts.scanCount).Result()
		if err != nil {
			return err
		}

		for _, key := range keys {
			data, err := cn.Get(ctx, key).Bytes()
			if errors.Is(err, redis.Nil) {
				continue
			}
			if err != nil {
				return err
			}
			if !yield(data, nil) {
				return nil
			}
		}

		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Healthcheck returns a closure that probes the current connection, suitable
// for readiness endpoints expecting func(context.Context) error.
func (s *Store) Healthcheck() func(context.Context) error {
	return func(ctx context.Context) error {
		cn, err := s.current()
		if err != nil {
			return err
		}
		return cn.Ping(ctx).Err()
	}
}

// Close releases the live connection. It is idempotent; operations on a
// closed store fail with ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var err error
	if s.cur != nil {
		err = s.cur.Close()
		s.cur = nil
	}

	s.log.Info("store connection closed")
	return err
}

// current returns the live connection handle.
func (s *Store) current() (conn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}
	return s.cur, nil
}

// swap installs a fresh connection as the live handle. If the store was
// closed while an episode was in flight, the fresh connection is released
// instead of resurrecting the store.
func (s *Store) swap(next conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		_ = next.Close()
		return ErrClosed
	}
	s.cur = next
	return nil
}

// withRetry runs op once against the current connection and, on a transient
// failure, reconnects to completion and retries op exactly once. The second
// outcome is returned unmodified.
func withRetry[T any](ctx context.Context, s *Store, op func(conn) (T, error)) (T, error) {
	var zero T

	cn, err := s.current()
	if err != nil {
		return zero, err
	}

	v, err := op(cn)
	if err == nil || !isTransient(err) {
		return v, err
	}

	if rerr := s.reconnect(ctx); rerr != nil {
		return zero, rerr
	}

	cn, err = s.current()
	if err != nil {
		return zero, err
	}
	return op(cn)
}
