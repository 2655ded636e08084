package store

import "errors"

var (
	// ErrConnectionFailed is returned when the initial connection cannot be
	// established at construction time.
	ErrConnectionFailed = errors.New("store: failed to establish connection")

	// ErrReconnectFailed is returned when a reconnection episode aborts on a
	// non-recoverable error (bad TLS material, cancelled context). Transient
	// failures never surface as this error; the episode retries them forever.
	ErrReconnectFailed = errors.New("store: reconnection aborted")

	// ErrResolveMaster is returned when no configured sentinel can name a
	// master endpoint for the group.
	ErrResolveMaster = errors.New("store: failed to resolve master endpoint")

	// ErrNotFound is returned by Get when the key does not exist.
	ErrNotFound = errors.New("store: key not found")

	// ErrClosed is returned when an operation is attempted on a closed store.
	ErrClosed = errors.New("store: closed")

	// ErrEncode is returned when value serialization fails.
	ErrEncode = errors.New("store: failed to encode value")
)
