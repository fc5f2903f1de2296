// Package resolve recovers hardware addresses for hosts that were not
// present in the passively parsed address table. It provokes the OS
// resolution cache with a reachability probe, waits briefly for the
// cache to settle, then re-reads the table filtered to the one address.
// On Linux and the BSDs an active ARP ping is attempted first, which is
// faster and works for hosts that drop ICMP.
//
// Resolution is best-effort enrichment: every failure mode yields
// "unresolved", never an error, and the device stays in the inventory
// without vendor identification.
package resolve

import (
	"context"
	"time"

	"github.com/marcuoli/go-lanscan/pkg/lanscan/arptable"
	"github.com/marcuoli/go-lanscan/pkg/lanscan/probe"
)

// DebugLogger is a callback for debug logging.
// Set this to receive debug messages from resolver operations.
var DebugLogger func(format string, args ...interface{})

func debugLog(format string, args ...interface{}) {
	if DebugLogger != nil {
		DebugLogger(format, args...)
	}
}

// DefaultSettleDelay is how long to wait after the provoking probe for
// the OS resolution cache to populate.
const DefaultSettleDelay = 100 * time.Millisecond

// DefaultActiveTimeout bounds one active ARP ping.
const DefaultActiveTimeout = 1 * time.Second

// Resolver recovers hardware addresses one host at a time.
type Resolver struct {
	backend     probe.Backend
	settleDelay time.Duration
	// activeARP can be disabled for tests or when raw sockets are
	// unavailable; the stub on unsupported platforms never answers.
	activeARP bool
}

// New creates a resolver over the given backend.
func New(backend probe.Backend) *Resolver {
	return &Resolver{
		backend:     backend,
		settleDelay: DefaultSettleDelay,
		activeARP:   true,
	}
}

// WithSettleDelay overrides the cache settle delay.
func (r *Resolver) WithSettleDelay(d time.Duration) *Resolver {
	r.settleDelay = d
	return r
}

// WithoutActiveARP disables the raw-socket ARP attempt, leaving only the
// ping-and-reread path.
func (r *Resolver) WithoutActiveARP() *Resolver {
	r.activeARP = false
	return r
}

// Resolve returns the hardware address for addr in canonical upper-case
// colon form, or ok=false when the host could not be resolved.
func (r *Resolver) Resolve(ctx context.Context, addr string) (hw string, ok bool) {
	if r.activeARP {
		if hw, ok := activeProbe(ctx, addr, DefaultActiveTimeout); ok {
			debugLog("%s -> %s (active)", addr, hw)
			return hw, true
		}
	}

	// Provoke the resolution cache, then give the OS a moment to
	// record the reply before re-reading.
	r.backend.Probe(ctx, addr)
	select {
	case <-time.After(r.settleDelay):
	case <-ctx.Done():
		return "", false
	}

	raw, err := r.backend.DumpAddressTableFor(ctx, addr)
	if err != nil {
		debugLog("%s: address table query failed: %v", addr, err)
		return "", false
	}
	hw, ok = arptable.ExtractHardwareAddr(raw)
	if !ok {
		debugLog("%s: no cache entry appeared", addr)
		return "", false
	}
	debugLog("%s -> %s", addr, hw)
	return hw, true
}
