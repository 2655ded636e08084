package tlsconf

import "errors"

var (
	ErrTransportConfig = errors.New("tlsconf: failed to build transport config")
)
