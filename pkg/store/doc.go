// Package store provides a resilient key-value persistence client with
// transparent reconnection and sentinel-based master discovery.
//
// This package wraps [github.com/redis/go-redis/v9] with the connection
// lifecycle a long-lived service needs: connection-string driven topology
// (direct or sentinel), TLS transport construction, and automatic recovery
// from connection-level failures.
//
// # Topologies
//
// The connection string selects the topology:
//
//	redis://localhost:6379/0                         // direct
//	rediss://:password@redis.internal:6380           // direct with TLS
//	redis+sentinel://s1:26379,s2,s3/mymaster?ssl=true // sentinel discovery
//
// For sentinel descriptors the client queries the listed sentinels for the
// endpoint currently holding the master role and connects there. The master
// is re-resolved on every reconnection, so failovers are followed
// transparently.
//
// # Failure handling
//
// Each operation is attempted once; on a connection-level error the client
// runs a reconnection episode (unbounded retries with capped linear backoff:
// 2s, 4s, 6s, 8s, 10s, 10s, ...) and then retries the operation exactly
// once. Concurrent failures collapse into a single episode. Application
// errors (missing key, encoding failure) surface immediately.
//
// # Usage
//
//	s, err := store.New(ctx, os.Getenv("REDKEEP_URL"),
//	    store.WithLogger(log),
//	    store.WithBackoff(2*time.Second, 10*time.Second),
//	)
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	if err := s.Set(ctx, "user:42", profile); err != nil {
//	    return err
//	}
//
//	for data, err := range s.Scan(ctx, "user:*") {
//	    if err != nil {
//	        return err
//	    }
//	    // decode data
//	}
//
// # Error Handling
//
// The package defines sentinel errors for common failure modes:
//
//   - [ErrConnectionFailed] - Initial connection could not be established
//   - [ErrReconnectFailed] - Reconnection aborted on a non-recoverable error
//   - [ErrResolveMaster] - No sentinel could name a master endpoint
//   - [ErrNotFound] - Key does not exist
//   - [ErrClosed] - Operation on a closed store
//   - [ErrEncode] - Value serialization failed
//
// Errors are wrapped using [errors.Join] to preserve the original error context.
package store
