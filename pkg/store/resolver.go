package store

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/redkeep/pkg/descriptor"
	"github.com/dmitrymomot/redkeep/pkg/tlsconf"
)

// resolver produces a fresh connection to the currently writable endpoint.
// Resolve never caches: for sentinel topologies the authoritative master may
// change between calls, so every call re-queries.
type resolver interface {
	Resolve(ctx context.Context) (conn, error)
}

func newResolver(desc descriptor.Descriptor, o *options) (resolver, error) {
	switch desc.Kind {
	case descriptor.KindSentinel:
		return &sentinelResolver{desc: desc, opts: o, log: o.log}, nil
	default:
		return newDirectResolver(desc.Raw, o)
	}
}

// directResolver dials a fixed endpoint. The raw URL is parsed once by the
// underlying client's own grammar; topology detection happened earlier.
type directResolver struct {
	clientOpts *redis.Options
}

func newDirectResolver(raw string, o *options) (*directResolver, error) {
	clientOpts, err := redis.ParseURL(raw)
	if err != nil {
		return nil, errors.Join(descriptor.ErrMalformedDescriptor, err)
	}

	clientOpts.PoolSize = o.poolSize
	clientOpts.MinIdleConns = o.minIdleConns
	clientOpts.DialTimeout = o.dialTimeout
	clientOpts.ReadTimeout = o.readTimeout
	clientOpts.WriteTimeout = o.writeTimeout

	return &directResolver{clientOpts: clientOpts}, nil
}

func (r *directResolver) Resolve(ctx context.Context) (conn, error) {
	return redis.NewClient(r.clientOpts), nil
}

// sentinelResolver asks the configured sentinels which endpoint currently
// holds the master role and connects to it.
type sentinelResolver struct {
	desc descriptor.Descriptor
	opts *options
	log  *slog.Logger
}

func (r *sentinelResolver) Resolve(ctx context.Context) (conn, error) {
	// TLS material is rebuilt on every resolution so a rotated CA bundle is
	// picked up; a broken bundle is a fatal configuration error.
	var tlsCfg *tls.Config
	if r.desc.TLS {
		cfg, err := tlsconf.Build(r.desc.TLSVerify, r.desc.CACert)
		if err != nil {
			return nil, err
		}
		tlsCfg = cfg
	}

	addr, err := r.masterAddr(ctx, tlsCfg)
	if err != nil {
		return nil, err
	}

	clientOpts := &redis.Options{
		Addr:         addr,
		Password:     r.desc.Password,
		TLSConfig:    tlsCfg,
		PoolSize:     r.opts.poolSize,
		MinIdleConns: r.opts.minIdleConns,
		DialTimeout:  r.opts.dialTimeout,
		ReadTimeout:  r.opts.readTimeout,
		WriteTimeout: r.opts.writeTimeout,
	}

	return redis.NewClient(clientOpts), nil
}

// masterAddr walks the sentinel endpoints in order and returns the first
// answer for the master group.
func (r *sentinelResolver) masterAddr(ctx context.Context, tlsCfg *tls.Config) (string, error) {
	var lastErr error

	for _, ep := range r.desc.Endpoints {
		sentinel := redis.NewSentinelClient(&redis.Options{
			Addr:        ep.String(),
			Password:    r.desc.SentinelPassword,
			TLSConfig:   tlsCfg,
			DialTimeout: r.opts.dialTimeout,
			ReadTimeout: r.opts.readTimeout,
		})

		addr, err := sentinel.GetMasterAddrByName(ctx, r.desc.Master).Result()
		_ = sentinel.Close()

		if err != nil {
			lastErr = err
			r.log.WarnContext(ctx, "sentinel query failed",
				slog.String("sentinel", ep.String()),
				slog.String("master", r.desc.Master),
				slog.String("error", err.Error()))
			continue
		}
		if len(addr) != 2 {
			lastErr = fmt.Errorf("unexpected master address %v from sentinel %s", addr, ep)
			continue
		}

		return net.JoinHostPort(addr[0], addr[1]), nil
	}

	if lastErr == nil {
		lastErr = errors.New("no sentinel endpoints configured")
	}
	return "", errors.Join(ErrResolveMaster, lastErr)
}
