// Package tlsconf builds TLS client configurations for secure store transports.
//
// The package maps a verification mode plus an optional CA bundle path to a
// ready-to-use [crypto/tls.Config]:
//
//   - VerifyNone — no hostname check, no certificate verification
//   - VerifyOptional — verify the peer chain only if the peer presented one
//   - VerifyRequired — standard verification (default)
//
// Build is a pure function except for reading the CA bundle from disk. An
// unreadable or malformed bundle fails with [ErrTransportConfig]; callers
// must treat that as a configuration error rather than retrying.
//
// # Usage
//
//	cfg, err := tlsconf.Build(tlsconf.VerifyRequired, "/etc/ssl/store-ca.pem")
//	if err != nil {
//		return err
//	}
//	opts.TLSConfig = cfg
package tlsconf
