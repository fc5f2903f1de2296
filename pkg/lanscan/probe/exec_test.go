// Package probe tests for the exec backend.
package probe

import (
	"context"
	"errors"
	"testing"
	"time"
)

// recordingRunner captures command invocations and plays back a scripted
// response.
type recordingRunner struct {
	name string
	args []string

	out []byte
	err error
}

func (r *recordingRunner) run(_ context.Context, name string, args ...string) ([]byte, error) {
	r.name = name
	r.args = args
	return r.out, r.err
}

func equalArgs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestProbe_Args(t *testing.T) {
	tests := []struct {
		platform string
		expected []string
	}{
		{"windows", []string{"-n", "1", "-w", "1000", "192.168.1.5"}},
		{"linux", []string{"-c", "1", "-W", "1", "192.168.1.5"}},
		{"darwin", []string{"-c", "1", "-W", "1", "192.168.1.5"}},
	}

	for _, tt := range tests {
		t.Run(tt.platform, func(t *testing.T) {
			rec := &recordingRunner{}
			b := NewExecBackend(WithPlatform(tt.platform), WithRunner(rec.run))

			if !b.Probe(context.Background(), "192.168.1.5") {
				t.Error("Expected probe to succeed")
			}
			if rec.name != "ping" {
				t.Errorf("Expected ping, got %q", rec.name)
			}
			if !equalArgs(rec.args, tt.expected) {
				t.Errorf("Expected args %v, got %v", tt.expected, rec.args)
			}
		})
	}
}

func TestProbe_FailureIsNotReachable(t *testing.T) {
	rec := &recordingRunner{err: errors.New("exit status 1")}
	b := NewExecBackend(WithRunner(rec.run))

	if b.Probe(context.Background(), "192.168.1.5") {
		t.Error("Expected probe failure to report not reachable")
	}
}

func TestDumpAddressTable(t *testing.T) {
	rec := &recordingRunner{out: []byte("? (192.168.1.1) at 11:22:33:44:55:66 on eth0\n")}
	b := NewExecBackend(WithPlatform("linux"), WithRunner(rec.run))

	out, err := b.DumpAddressTable(context.Background())
	if err != nil {
		t.Fatalf("DumpAddressTable failed: %v", err)
	}
	if rec.name != "arp" || !equalArgs(rec.args, []string{"-a"}) {
		t.Errorf("Expected arp -a, got %s %v", rec.name, rec.args)
	}
	if out == "" {
		t.Error("Expected raw dump output")
	}
}

func TestDumpAddressTableFor_Args(t *testing.T) {
	tests := []struct {
		platform string
		expected []string
	}{
		{"windows", []string{"-a", "192.168.1.5"}},
		{"linux", []string{"-n", "192.168.1.5"}},
	}

	for _, tt := range tests {
		t.Run(tt.platform, func(t *testing.T) {
			rec := &recordingRunner{out: []byte("dump")}
			b := NewExecBackend(WithPlatform(tt.platform), WithRunner(rec.run))

			if _, err := b.DumpAddressTableFor(context.Background(), "192.168.1.5"); err != nil {
				t.Fatalf("DumpAddressTableFor failed: %v", err)
			}
			if !equalArgs(rec.args, tt.expected) {
				t.Errorf("Expected args %v, got %v", tt.expected, rec.args)
			}
		})
	}
}

func TestDump_FailureWrapsErrUnavailable(t *testing.T) {
	rec := &recordingRunner{err: errors.New("arp: command not found")}
	b := NewExecBackend(WithRunner(rec.run))

	_, err := b.DumpAddressTable(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable, got %v", err)
	}

	_, err = b.DumpAddressTableFor(context.Background(), "192.168.1.5")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable, got %v", err)
	}
}

func TestWithTimeouts(t *testing.T) {
	b := NewExecBackend(WithTimeouts(500*time.Millisecond, time.Second))
	if b.pingWait != 500*time.Millisecond {
		t.Errorf("Expected ping wait 500ms, got %v", b.pingWait)
	}
	if b.probeTimeout != time.Second {
		t.Errorf("Expected probe timeout 1s, got %v", b.probeTimeout)
	}
}

func TestProbe_SubSecondWaitRoundsUp(t *testing.T) {
	rec := &recordingRunner{}
	b := NewExecBackend(WithPlatform("linux"), WithTimeouts(200*time.Millisecond, time.Second), WithRunner(rec.run))

	b.Probe(context.Background(), "192.168.1.5")
	if !equalArgs(rec.args, []string{"-c", "1", "-W", "1", "192.168.1.5"}) {
		t.Errorf("Expected -W 1 for sub-second wait, got %v", rec.args)
	}
}
