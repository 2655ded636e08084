// Package descriptor parses store connection strings into an immutable
// connection descriptor and provides credential masking for log output.
//
// Two families of schemes are supported:
//
//   - Direct: redis:// and rediss:// — the string is kept verbatim and handed
//     to the underlying client's own URL parser.
//   - Sentinel: redis+sentinel:// and rediss+sentinel:// — the authority is a
//     comma-separated list of sentinel endpoints, the path names the master
//     group, and query parameters carry credentials and TLS options.
//
// # Sentinel grammar
//
//	redis+sentinel://host1[:port1],host2[:port2],.../master?password=P&sentinel_password=SP&ssl=true&ssl_cert_reqs=required&ssl_ca_certs=/path/ca.pem
//
// Endpoints without an explicit port default to 26379. An empty path defaults
// the master group to "mymaster". The rediss+sentinel scheme implies ssl=true.
//
// # Masking
//
// Connection strings frequently end up in logs. [Mask] replaces a userinfo
// password and every password-carrying query value with a fixed token while
// leaving the rest of the string untouched:
//
//	descriptor.Mask("redis+sentinel://s1/m?password=hunter2&ssl=true")
//	// redis+sentinel://s1/m?password=****&ssl=true
package descriptor
