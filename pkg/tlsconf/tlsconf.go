package tlsconf

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Verify controls how the peer certificate is validated.
type Verify string

const (
	// VerifyNone disables hostname checks and certificate verification.
	VerifyNone Verify = "none"

	// VerifyOptional verifies the peer chain only when the peer presents one.
	VerifyOptional Verify = "optional"

	// VerifyRequired mandates full certificate verification.
	VerifyRequired Verify = "required"
)

// ParseVerify converts a descriptor-level string into a Verify mode.
// Matching is case-insensitive. An empty string yields VerifyRequired.
func ParseVerify(s string) (Verify, error) {
	switch strings.ToLower(s) {
	case "", string(VerifyRequired):
		return VerifyRequired, nil
	case string(VerifyNone):
		return VerifyNone, nil
	case string(VerifyOptional):
		return VerifyOptional, nil
	default:
		return "", errors.Join(ErrTransportConfig, fmt.Errorf("unknown verification mode %q", s))
	}
}

// Build constructs a TLS client configuration for the given verification mode.
// If caPath is non-empty, the PEM bundle at that path becomes the root CA pool.
// An unreadable or certificate-free bundle fails with ErrTransportConfig.
func Build(mode Verify, caPath string) (*tls.Config, error) {
	cfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	if caPath != "" {
		pem, err := os.ReadFile(caPath)
		if err != nil {
			return nil, errors.Join(ErrTransportConfig, err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, errors.Join(ErrTransportConfig, fmt.Errorf("no certificates found in %s", caPath))
		}
		cfg.RootCAs = pool
	}

	switch mode {
	case VerifyNone:
		cfg.InsecureSkipVerify = true
	case VerifyOptional:
		// Skip the built-in verification and run our own, which passes
		// when the peer presents no certificate at all.
		cfg.InsecureSkipVerify = true
		cfg.VerifyConnection = verifyIfPresented(cfg)
	case VerifyRequired:
		// Standard verification, nothing to override.
	default:
		return nil, errors.Join(ErrTransportConfig, fmt.Errorf("unknown verification mode %q", mode))
	}

	return cfg, nil
}

// verifyIfPresented returns a VerifyConnection callback that validates the
// peer chain against cfg.RootCAs, but accepts connections where the peer
// presented no certificate.
func verifyIfPresented(cfg *tls.Config) func(tls.ConnectionState) error {
	return func(cs tls.ConnectionState) error {
		if len(cs.PeerCertificates) == 0 {
			return nil
		}

		opts := x509.VerifyOptions{
			DNSName:       cs.ServerName,
			Roots:         cfg.RootCAs,
			Intermediates: x509.NewCertPool(),
		}
		for _, cert := range cs.PeerCertificates[1:] {
			opts.Intermediates.AddCert(cert)
		}

		_, err := cs.PeerCertificates[0].Verify(opts)
		return err
	}
}
