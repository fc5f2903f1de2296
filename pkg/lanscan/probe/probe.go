// Package probe provides the host probe backend: ICMP reachability
// checks and address-resolution-table dumps via the OS ping and arp
// tools. The backend is a capability interface so the scanning layers
// can be tested without spawning processes, and so callers can tell
// "zero hosts found" apart from "backend broken".
package probe

import (
	"context"
	"errors"
	"time"
)

// DebugLogger is a callback for debug logging.
// Set this to receive debug messages from backend operations.
var DebugLogger func(format string, args ...interface{})

func debugLog(format string, args ...interface{}) {
	if DebugLogger != nil {
		DebugLogger(format, args...)
	}
}

// ErrUnavailable indicates the OS tooling behind a backend call is
// missing or failed to run at all. Callers treat it as a degraded-scan
// warning, never as fatal.
var ErrUnavailable = errors.New("probe backend unavailable")

// Backend performs reachability probes and address-table dumps.
//
// Probe never returns an error: any failure, timeout or missing tool is
// reported as not reachable. The dump methods return text to be parsed
// by the arptable package, or an error wrapping ErrUnavailable when the
// arp tool cannot be invoked.
type Backend interface {
	// Probe sends one ICMP echo request and reports whether the host
	// replied.
	Probe(ctx context.Context, addr string) bool
	// DumpAddressTable returns the full address-resolution table as raw
	// text in the platform's native format.
	DumpAddressTable(ctx context.Context) (string, error)
	// DumpAddressTableFor returns the address-table text filtered to a
	// single address.
	DumpAddressTableFor(ctx context.Context, addr string) (string, error)
	// Platform returns the platform tag ("windows" or a Unix GOOS value)
	// that selects the dump text format.
	Platform() string
}

// Default timeouts for a single reachability probe: the ping tool is
// told to wait about one second for a reply, and the whole invocation is
// cut off after two.
const (
	DefaultPingWait     = 1 * time.Second
	DefaultProbeTimeout = 2 * time.Second
)

// DefaultDumpTimeout bounds one arp invocation.
const DefaultDumpTimeout = 10 * time.Second
