package probe

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"time"
)

// runner invokes an external command and returns its combined output.
// Injectable so tests never spawn processes.
type runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// ExecBackend implements Backend by shelling out to the platform ping
// and arp tools.
type ExecBackend struct {
	platform     string
	pingWait     time.Duration
	probeTimeout time.Duration
	dumpTimeout  time.Duration
	run          runner
}

// Option configures an ExecBackend.
type Option func(*ExecBackend)

// WithPlatform overrides the platform tag (default runtime.GOOS).
func WithPlatform(platform string) Option {
	return func(b *ExecBackend) { b.platform = platform }
}

// WithTimeouts overrides the per-reply ping wait and the overall
// per-probe timeout.
func WithTimeouts(pingWait, probeTimeout time.Duration) Option {
	return func(b *ExecBackend) {
		b.pingWait = pingWait
		b.probeTimeout = probeTimeout
	}
}

// WithRunner replaces the command runner. Intended for tests.
func WithRunner(run func(ctx context.Context, name string, args ...string) ([]byte, error)) Option {
	return func(b *ExecBackend) { b.run = run }
}

// NewExecBackend creates a backend using the OS ping and arp commands.
func NewExecBackend(opts ...Option) *ExecBackend {
	b := &ExecBackend{
		platform:     runtime.GOOS,
		pingWait:     DefaultPingWait,
		probeTimeout: DefaultProbeTimeout,
		dumpTimeout:  DefaultDumpTimeout,
		run:          execRunner,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Platform returns the platform tag used to select ping/arp argument
// conventions and dump text format.
func (b *ExecBackend) Platform() string { return b.platform }

// Probe runs one ping and reports whether the host answered. A missing
// ping tool, a non-zero exit or a timeout all count as not reachable.
func (b *ExecBackend) Probe(ctx context.Context, addr string) bool {
	ctx, cancel := context.WithTimeout(ctx, b.probeTimeout)
	defer cancel()

	var args []string
	if b.platform == "windows" {
		args = []string{"-n", "1", "-w", strconv.Itoa(int(b.pingWait.Milliseconds())), addr}
	} else {
		secs := int(b.pingWait.Seconds())
		if secs < 1 {
			secs = 1
		}
		args = []string{"-c", "1", "-W", strconv.Itoa(secs), addr}
	}

	_, err := b.run(ctx, "ping", args...)
	if err != nil {
		debugLog("%s: ping failed: %v", addr, err)
		return false
	}
	return true
}

// DumpAddressTable runs "arp -a" and returns its raw output.
func (b *ExecBackend) DumpAddressTable(ctx context.Context) (string, error) {
	return b.dump(ctx, "-a")
}

// DumpAddressTableFor queries the address table for a single address.
// Windows arp takes the address after -a; Unix arp uses -n.
func (b *ExecBackend) DumpAddressTableFor(ctx context.Context, addr string) (string, error) {
	if b.platform == "windows" {
		return b.dump(ctx, "-a", addr)
	}
	return b.dump(ctx, "-n", addr)
}

func (b *ExecBackend) dump(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.dumpTimeout)
	defer cancel()

	out, err := b.run(ctx, "arp", args...)
	if err != nil {
		debugLog("arp %v failed: %v", args, err)
		return "", fmt.Errorf("arp %v: %w", args, ErrUnavailable)
	}
	return string(out), nil
}
