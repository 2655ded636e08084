package store

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/redkeep/pkg/descriptor"
	"github.com/dmitrymomot/redkeep/pkg/tlsconf"
)

// reconnect restores the live connection after a connection-level failure.
//
// At most one episode performs resolution work per Store at any time. A
// caller that finds an episode already in flight waits a short fixed delay
// and returns nil so its operation can retry against whatever handle is
// current by then; it does not start a second episode.
//
// The winning episode loops without an attempt limit: close the previous
// handle, resolve a fresh one, probe it with a ping, and on failure sleep
// min(attempt*base, max) before trying again. An outage of unknown duration
// must eventually heal; callers needing an upper bound put a deadline on ctx.
// Only non-recoverable errors (broken TLS material, malformed descriptor,
// cancelled context) abort the episode.
func (s *Store) reconnect(ctx context.Context) error {
	if !s.reconnecting.CompareAndSwap(false, true) {
		return s.sleep(ctx, s.opts.deferWait)
	}
	defer s.reconnecting.Store(false)

	s.log.WarnContext(ctx, "store connection lost, reconnecting",
		slog.String("url", descriptor.Mask(s.desc.Raw)),
		slog.String("topology", s.desc.Kind.String()))

	attempt := 0
	for {
		if err := ctx.Err(); err != nil {
			return errors.Join(ErrReconnectFailed, err)
		}

		err := s.attemptReconnect(ctx)
		if err == nil {
			s.log.InfoContext(ctx, "store connection restored",
				slog.Int("attempts", attempt+1))
			return nil
		}
		if errors.Is(err, ErrClosed) {
			// Store was closed while the episode ran; nothing to restore.
			return err
		}
		if isFatal(err) {
			s.log.ErrorContext(ctx, "reconnection aborted",
				slog.String("error", err.Error()))
			return errors.Join(ErrReconnectFailed, err)
		}

		attempt++
		delay := min(time.Duration(attempt)*s.opts.backoffBase, s.opts.backoffMax)
		s.log.WarnContext(ctx, "reconnection attempt failed",
			slog.Int("attempt", attempt),
			slog.Duration("retry_in", delay),
			slog.String("error", err.Error()))

		if werr := s.sleep(ctx, delay); werr != nil {
			return errors.Join(ErrReconnectFailed, werr)
		}
	}
}

// attemptReconnect performs a single resolve-and-probe cycle, swapping the
// live handle on success.
func (s *Store) attemptReconnect(ctx context.Context) error {
	// Release the previous handle before resolving; a close failure on an
	// already-broken connection carries no information.
	if cn, err := s.current(); err == nil && cn != nil {
		_ = cn.Close()
	}

	next, err := s.res.Resolve(ctx)
	if err != nil {
		return err
	}

	if err := next.Ping(ctx).Err(); err != nil {
		_ = next.Close()
		return err
	}

	return s.swap(next)
}

// isFatal reports whether err belongs to the non-recoverable category that
// aborts an episode instead of backing off.
func isFatal(err error) bool {
	return errors.Is(err, tlsconf.ErrTransportConfig) ||
		errors.Is(err, descriptor.ErrMalformedDescriptor) ||
		errors.Is(err, context.Canceled)
}
