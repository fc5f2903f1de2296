// Package lanscan: scan orchestration and device aggregation.
package lanscan

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/marcuoli/go-lanscan/pkg/lanscan/arptable"
	"github.com/marcuoli/go-lanscan/pkg/lanscan/probe"
	"github.com/marcuoli/go-lanscan/pkg/lanscan/rdns"
	"github.com/marcuoli/go-lanscan/pkg/lanscan/resolve"
	"github.com/marcuoli/go-lanscan/pkg/lanscan/sweep"
	"github.com/marcuoli/go-lanscan/pkg/lanscan/vendor"
	"github.com/marcuoli/go-lanscan/pkg/lanscan/webprobe"
)

// Options configures a Scanner. The zero value gets usable defaults:
// the exec backend, the builtin vendor table and the standard pool
// sizes.
type Options struct {
	// Backend performs reachability probes and address-table dumps.
	// Defaults to the exec backend (OS ping/arp commands).
	Backend probe.Backend
	// Vendors is the OUI-to-vendor table. Defaults to the builtin table.
	Vendors *vendor.Table
	// Hostnames enables reverse-DNS enrichment when non-nil.
	Hostnames *rdns.Resolver
	// Ports overrides the candidate web port set.
	Ports []int
	// SweepWorkers bounds concurrent reachability probes (default 50).
	SweepWorkers int
	// DeviceWorkers bounds devices probed for services at once (default 5).
	DeviceWorkers int
	// PortWorkers bounds concurrent port probes per device (default 10).
	PortWorkers int
	// DisableActiveARP skips the raw-socket ARP attempt during gap
	// resolution (it needs privileges and is pointless in tests).
	DisableActiveARP bool
	// OnPhase, if set, is invoked on every phase transition.
	OnPhase func(Phase)
	// Progress, if set, receives completed/total counts during the
	// sweeping and service-probing phases.
	Progress func(phase Phase, done, total int)
}

// Scanner runs one discovery-and-fingerprint scan over a /24 subnet.
// A Scanner is single-use: create a new one per scan. The inventory
// returned by Scan is read-only once the scan completes.
type Scanner struct {
	opts      Options
	subnet    SubnetRange
	localAddr string

	phase     atomic.Int32
	started   atomic.Bool
	resolver  *resolve.Resolver
	prober    *webprobe.Prober
	inventory []*Device
}

// New creates a Scanner for the subnet containing localAddr. An address
// that cannot be parsed is the one fatal error: without a subnet range
// there is nothing to scan.
func New(localAddr string, opts Options) (*Scanner, error) {
	subnet, err := DeriveSubnet(localAddr)
	if err != nil {
		return nil, err
	}

	if opts.Backend == nil {
		opts.Backend = probe.NewExecBackend()
	}
	if opts.Vendors == nil {
		opts.Vendors = vendor.NewBuiltin()
	}
	if opts.SweepWorkers <= 0 {
		opts.SweepWorkers = DefaultSweepWorkers
	}
	if opts.DeviceWorkers <= 0 {
		opts.DeviceWorkers = DefaultDeviceWorkers
	}
	if opts.PortWorkers <= 0 {
		opts.PortWorkers = DefaultPortWorkers
	}

	resolver := resolve.New(opts.Backend)
	if opts.DisableActiveARP {
		resolver = resolver.WithoutActiveARP()
	}

	return &Scanner{
		opts:      opts,
		subnet:    subnet,
		localAddr: localAddr,
		resolver:  resolver,
		prober: webprobe.New(webprobe.Options{
			Ports:   opts.Ports,
			Workers: opts.PortWorkers,
		}),
	}, nil
}

// Subnet returns the derived /24 range.
func (s *Scanner) Subnet() SubnetRange { return s.subnet }

// LocalAddress returns the address the subnet was derived from.
func (s *Scanner) LocalAddress() string { return s.localAddr }

// Phase returns the current orchestration phase. Safe to call from any
// goroutine while a scan runs.
func (s *Scanner) Phase() Phase { return Phase(s.phase.Load()) }

// Inventory returns the final device list, or nil before the scan
// completes.
func (s *Scanner) Inventory() []*Device {
	if s.Phase() != PhaseComplete {
		return nil
	}
	return s.inventory
}

func (s *Scanner) setPhase(p Phase) {
	s.phase.Store(int32(p))
	debugLog(ComponentScan, "phase: %s", p)
	if s.opts.OnPhase != nil {
		s.opts.OnPhase(p)
	}
}

// Scan runs the five phases in order and returns the final inventory,
// sorted ascending by numeric address. Partial failures (missing arp
// tool, unreachable hosts, hostile web endpoints) degrade to a smaller
// result; the scan itself only fails when called twice or when the
// context is cancelled before completion.
func (s *Scanner) Scan(ctx context.Context) ([]*Device, error) {
	if !s.started.CompareAndSwap(false, true) {
		return nil, ErrScanConsumed
	}

	// Phase 1: passive address-table inspection.
	s.setPhase(PhaseResolvingPassive)
	hardware := s.resolvePassive(ctx)

	// Phase 2: active ping sweep.
	s.setPhase(PhaseSweeping)
	engine := sweep.New(s.opts.Backend, sweep.Options{
		Workers:  s.opts.SweepWorkers,
		Progress: s.progressFor(PhaseSweeping),
	})
	alive := engine.Sweep(ctx, s.subnet.Hosts())
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Phase 3: recover hardware addresses the passive pass missed.
	s.setPhase(PhaseResolvingGaps)
	for _, addr := range alive {
		if _, ok := hardware[addr]; ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if hw, ok := s.resolver.Resolve(ctx, addr); ok {
			hardware[addr] = hw
		} else {
			hardware[addr] = ""
		}
	}

	// Phase 4: merge into one canonical, vendor-annotated list.
	s.setPhase(PhaseAggregating)
	devices := Aggregate(hardware, alive, s.opts.Vendors)
	debugLog(ComponentScan, "aggregated %d devices", len(devices))

	// Phase 5: fingerprint web services, a few devices at a time.
	// Failures isolate per device.
	s.setPhase(PhaseProbingServices)
	s.probeServices(ctx, devices)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.inventory = devices
	s.setPhase(PhaseComplete)
	return devices, nil
}

// resolvePassive dumps and parses the address table. Backend failure
// degrades to an empty map with a warning: the sweep still finds hosts.
func (s *Scanner) resolvePassive(ctx context.Context) map[string]string {
	hardware := make(map[string]string)
	raw, err := s.opts.Backend.DumpAddressTable(ctx)
	if err != nil {
		debugLog(ComponentScan, "warning: address table unavailable, relying on sweep only: %v", err)
		return hardware
	}
	for _, entry := range arptable.Parse(raw, s.opts.Backend.Platform()) {
		hardware[entry.Address] = entry.HardwareAddress
	}
	debugLog(ComponentScan, "passive table: %d entries", len(hardware))
	return hardware
}

func (s *Scanner) probeServices(ctx context.Context, devices []*Device) {
	var g errgroup.Group
	g.SetLimit(s.opts.DeviceWorkers)

	var mu sync.Mutex
	done := 0
	total := len(devices)

	for _, dev := range devices {
		dev := dev
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					debugLog(ComponentWeb, "warning: %s: service probe panicked: %v", dev.Address, r)
				}
				mu.Lock()
				done++
				d := done
				mu.Unlock()
				if s.opts.Progress != nil {
					s.opts.Progress(PhaseProbingServices, d, total)
				}
			}()
			if s.opts.Hostnames != nil {
				if name, ok := s.opts.Hostnames.LookupAddr(ctx, dev.Address); ok {
					dev.Hostname = name
				}
			}
			dev.Services = s.prober.Probe(ctx, dev.Address)
			debugLogVerbose(ComponentWeb, "%s: %d services", dev.Address, len(dev.Services))
			return nil
		})
	}
	// Workers never return errors; failures are per-device and logged.
	_ = g.Wait()
}

func (s *Scanner) progressFor(phase Phase) func(done, total int) {
	if s.opts.Progress == nil {
		return nil
	}
	return func(done, total int) {
		s.opts.Progress(phase, done, total)
	}
}

// Aggregate merges the passively resolved address-to-hardware map and
// the actively discovered alive set into one deduplicated, vendor
// annotated device list, sorted ascending by numeric dotted-quad value.
// Aggregation is pure: running it twice on the same inputs produces an
// identical ordered list.
func Aggregate(hardware map[string]string, alive []string, vendors *vendor.Table) []*Device {
	byAddr := make(map[string]*Device, len(hardware)+len(alive))

	add := func(addr, hw string) {
		if _, ok := byAddr[addr]; ok {
			return
		}
		byAddr[addr] = &Device{
			Address:         addr,
			HardwareAddress: hw,
			Vendor:          vendors.Lookup(hw),
		}
	}

	for addr, hw := range hardware {
		add(addr, hw)
	}
	for _, addr := range alive {
		add(addr, "")
	}

	devices := make([]*Device, 0, len(byAddr))
	for _, dev := range byAddr {
		devices = append(devices, dev)
	}
	sort.Slice(devices, func(i, j int) bool {
		return lessAddress(devices[i].Address, devices[j].Address)
	})
	return devices
}
