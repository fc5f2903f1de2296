package probe

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"
)

// DefaultConnectPorts are the ports a TCPBackend tries when none are
// configured. A host accepting any of them counts as reachable.
var DefaultConnectPorts = []int{80, 443, 22, 445}

// TCPBackend implements Backend with plain TCP connection attempts.
// It needs no raw sockets, no admin privileges and no external tools,
// at the cost of missing hosts that expose none of the candidate ports.
// It cannot read the address table, so both dump operations report
// ErrUnavailable and hardware addresses stay unresolved.
type TCPBackend struct {
	ports   []int
	timeout time.Duration
	dialer  *net.Dialer
}

// NewTCPBackend creates a connect-based backend. A zero ports slice uses
// DefaultConnectPorts; a zero timeout uses DefaultPingWait.
func NewTCPBackend(ports []int, timeout time.Duration) *TCPBackend {
	if len(ports) == 0 {
		ports = DefaultConnectPorts
	}
	if timeout <= 0 {
		timeout = DefaultPingWait
	}
	return &TCPBackend{
		ports:   ports,
		timeout: timeout,
		dialer:  &net.Dialer{Timeout: timeout},
	}
}

// Platform returns the Unix platform tag; TCPBackend produces no dump
// text, so the tag only selects downstream parsing defaults.
func (b *TCPBackend) Platform() string { return "tcp" }

// Probe reports whether any candidate port accepted a connection.
// Ports are tried in order; the first accept wins.
func (b *TCPBackend) Probe(ctx context.Context, addr string) bool {
	for _, port := range b.ports {
		if err := ctx.Err(); err != nil {
			return false
		}
		conn, err := b.dialer.DialContext(ctx, "tcp", net.JoinHostPort(addr, strconv.Itoa(port)))
		if err != nil {
			continue
		}
		conn.Close()
		debugLog("%s: port %d accepted", addr, port)
		return true
	}
	return false
}

// DumpAddressTable is unsupported for connect-based probing.
func (b *TCPBackend) DumpAddressTable(ctx context.Context) (string, error) {
	return "", fmt.Errorf("tcp backend has no address table: %w", ErrUnavailable)
}

// DumpAddressTableFor is unsupported for connect-based probing.
func (b *TCPBackend) DumpAddressTableFor(ctx context.Context, addr string) (string, error) {
	return "", fmt.Errorf("tcp backend has no address table: %w", ErrUnavailable)
}
