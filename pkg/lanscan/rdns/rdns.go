// Package rdns provides reverse DNS (PTR) hostname enrichment for
// discovered devices. Queries go unicast to the system resolver using
// github.com/miekg/dns for packet handling. Lookups are best-effort:
// a device without a PTR record simply stays nameless.
package rdns

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"
)

// DebugLogger is a callback for debug logging.
// Set this to receive debug messages from PTR lookups.
var DebugLogger func(format string, args ...interface{})

func debugLog(format string, args ...interface{}) {
	if DebugLogger != nil {
		DebugLogger(format, args...)
	}
}

// DefaultTimeout is the default timeout for one PTR exchange.
const DefaultTimeout = 2 * time.Second

// Resolver performs reverse DNS lookups against one nameserver.
type Resolver struct {
	// Server is the nameserver address, with an optional port
	// (default 53). Empty disables lookups entirely (every lookup
	// misses).
	Server  string
	Timeout time.Duration
}

// New creates a resolver pointed at the system's configured nameserver.
// When no resolver configuration can be read (e.g. on Windows), the
// returned Resolver has no server and all lookups miss.
func New() *Resolver {
	r := &Resolver{Timeout: DefaultTimeout}
	conf, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err == nil && len(conf.Servers) > 0 {
		r.Server = conf.Servers[0]
	} else {
		debugLog("no resolver configuration: %v", err)
	}
	return r
}

// LookupAddr resolves the PTR name for an IPv4 address. The trailing
// dot is stripped from the result.
func (r *Resolver) LookupAddr(ctx context.Context, addr string) (string, bool) {
	if r.Server == "" {
		return "", false
	}
	ip := net.ParseIP(addr)
	if ip == nil || ip.To4() == nil {
		return "", false
	}

	reverseName, err := dns.ReverseAddr(addr)
	if err != nil {
		return "", false
	}

	msg := new(dns.Msg)
	msg.SetQuestion(reverseName, dns.TypePTR)
	msg.RecursionDesired = true

	server := r.Server
	if _, _, splitErr := net.SplitHostPort(server); splitErr != nil {
		server = net.JoinHostPort(server, "53")
	}

	client := &dns.Client{Timeout: r.Timeout}
	in, _, err := client.ExchangeContext(ctx, msg, server)
	if err != nil {
		debugLog("%s: lookup failed: %v", addr, err)
		return "", false
	}

	for _, rr := range in.Answer {
		if ptr, ok := rr.(*dns.PTR); ok {
			hostname := strings.TrimSuffix(ptr.Ptr, ".")
			debugLog("%s -> %s", addr, hostname)
			return hostname, true
		}
	}
	return "", false
}
