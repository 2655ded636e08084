package descriptor

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrymomot/redkeep/pkg/tlsconf"
)

// DefaultSentinelPort is used for sentinel endpoints without an explicit port.
const DefaultSentinelPort = 26379

// DefaultMaster is the master group name used when the descriptor path is empty.
const DefaultMaster = "mymaster"

// Kind identifies how the store is reached.
type Kind int

const (
	// KindDirect connects straight to a single store endpoint.
	KindDirect Kind = iota

	// KindSentinel discovers the writable endpoint through sentinels.
	KindSentinel
)

func (k Kind) String() string {
	switch k {
	case KindDirect:
		return "direct"
	case KindSentinel:
		return "sentinel"
	default:
		return "unknown"
	}
}

// Endpoint is a single sentinel address.
type Endpoint struct {
	Host string
	Port int
}

func (e Endpoint) String() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// Descriptor is the parsed, immutable form of a connection string.
type Descriptor struct {
	// Raw is the original connection string, kept verbatim so direct
	// descriptors can be handed to the underlying client unmodified.
	Raw string

	Kind Kind

	// Sentinel topology only.
	Endpoints        []Endpoint
	Master           string
	Password         string
	SentinelPassword string
	TLS              bool
	TLSVerify        tlsconf.Verify
	CACert           string
}

// Parse converts a connection string into a Descriptor.
//
// Direct schemes (redis, rediss) are detected but not re-parsed beyond the
// scheme; the underlying client owns that grammar. Sentinel schemes
// (redis+sentinel, rediss+sentinel) are parsed fully.
//
// The sentinel authority cannot go through net/url: its multi-host
// comma-separated form fails the standard library's port validation, so the
// authority, path, and query segments are split by hand here.
func Parse(raw string) (Descriptor, error) {
	if raw == "" {
		return Descriptor{}, ErrEmptyDescriptor
	}

	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return Descriptor{}, errors.Join(ErrMalformedDescriptor, fmt.Errorf("missing scheme in %q", Mask(raw)))
	}

	switch scheme {
	case "redis", "rediss":
		return Descriptor{Raw: raw, Kind: KindDirect}, nil
	case "redis+sentinel", "rediss+sentinel":
		return parseSentinel(raw, scheme, rest)
	default:
		return Descriptor{}, errors.Join(ErrMalformedDescriptor, fmt.Errorf("unsupported scheme %q", scheme))
	}
}

func parseSentinel(raw, scheme, rest string) (Descriptor, error) {
	rest, rawQuery, _ := strings.Cut(rest, "?")
	authority, path, _ := strings.Cut(rest, "/")

	endpoints, err := parseEndpoints(authority)
	if err != nil {
		return Descriptor{}, err
	}

	master := path
	if master == "" {
		master = DefaultMaster
	}

	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		return Descriptor{}, errors.Join(ErrMalformedDescriptor, err)
	}

	verify, err := tlsconf.ParseVerify(q.Get("ssl_cert_reqs"))
	if err != nil {
		return Descriptor{}, errors.Join(ErrMalformedDescriptor, err)
	}

	d := Descriptor{
		Raw:              raw,
		Kind:             KindSentinel,
		Endpoints:        endpoints,
		Master:           master,
		Password:         q.Get("password"),
		SentinelPassword: q.Get("sentinel_password"),
		TLS:              strings.EqualFold(q.Get("ssl"), "true") || scheme == "rediss+sentinel",
		TLSVerify:        verify,
		CACert:           q.Get("ssl_ca_certs"),
	}

	return d, nil
}

// parseEndpoints splits a comma-separated "host[:port]" authority list,
// substituting DefaultSentinelPort where no port is given.
func parseEndpoints(authority string) ([]Endpoint, error) {
	if authority == "" {
		return nil, errors.Join(ErrMalformedDescriptor, errors.New("sentinel descriptor requires at least one endpoint"))
	}

	parts := strings.Split(authority, ",")
	endpoints := make([]Endpoint, 0, len(parts))

	for _, part := range parts {
		if part == "" {
			return nil, errors.Join(ErrMalformedDescriptor, fmt.Errorf("empty endpoint in authority %q", authority))
		}

		host, port := part, DefaultSentinelPort
		if i := strings.LastIndex(part, ":"); i >= 0 {
			host = part[:i]
			p, err := strconv.Atoi(part[i+1:])
			if err != nil || p <= 0 || p > 65535 {
				return nil, errors.Join(ErrMalformedDescriptor, fmt.Errorf("invalid port in endpoint %q", part))
			}
			port = p
		}
		if host == "" {
			return nil, errors.Join(ErrMalformedDescriptor, fmt.Errorf("empty host in endpoint %q", part))
		}

		endpoints = append(endpoints, Endpoint{Host: host, Port: port})
	}

	return endpoints, nil
}
