// Command lanscan discovers devices on the local /24 subnet and
// fingerprints their web services, printing a summary table and
// optionally saving a text report.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"runtime"
	"time"

	"github.com/marcuoli/go-lanscan/internal/report"
	"github.com/marcuoli/go-lanscan/pkg/lanscan"
	"github.com/marcuoli/go-lanscan/pkg/lanscan/probe"
	"github.com/marcuoli/go-lanscan/pkg/lanscan/rdns"
	"github.com/marcuoli/go-lanscan/pkg/lanscan/vendor"
)

func main() {
	var (
		localAddr     string
		sweepWorkers  int
		deviceWorkers int
		portWorkers   int
		deadline      time.Duration
		lookupNames   bool
		ieeeFallback  bool
		tcpDiscovery  bool
		outFile       string
		saveReport    bool
		verbose       bool
		veryVerbose   bool
		showVersion   bool
	)

	flag.StringVar(&localAddr, "local", "", "Local IPv4 address to derive the subnet from (default: autodetect)")
	flag.IntVar(&sweepWorkers, "sweep-workers", lanscan.DefaultSweepWorkers, "Concurrent reachability probes")
	flag.IntVar(&deviceWorkers, "device-workers", lanscan.DefaultDeviceWorkers, "Devices probed for web services at once")
	flag.IntVar(&portWorkers, "port-workers", lanscan.DefaultPortWorkers, "Concurrent port probes per device")
	flag.DurationVar(&deadline, "deadline", 0, "Overall scan deadline (0 = none)")
	flag.BoolVar(&lookupNames, "rdns", false, "Resolve hostnames via reverse DNS")
	flag.BoolVar(&ieeeFallback, "ieee", false, "Fall back to the embedded IEEE OUI database for vendor lookups")
	flag.BoolVar(&tcpDiscovery, "tcp", false, "Discover hosts with TCP connects instead of ping/arp (no privileges needed, no MAC resolution)")
	flag.StringVar(&outFile, "o", "", "Report file path (default: timestamped name)")
	flag.BoolVar(&saveReport, "save", false, "Save a text report")
	flag.BoolVar(&verbose, "v", false, "Verbose output")
	flag.BoolVar(&veryVerbose, "vv", false, "Very verbose output (per-host detail)")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(lanscan.VersionInfo())
		return
	}

	switch {
	case veryVerbose:
		lanscan.SetDebugLevel(lanscan.DebugVerbose)
	case verbose:
		lanscan.SetDebugLevel(lanscan.DebugBasic)
	}
	lanscan.SetDebugLogger(func(component lanscan.Component, format string, args ...interface{}) {
		fmt.Fprintf(os.Stderr, "%s %s\n", lanscan.ComponentToPrefix(component), fmt.Sprintf(format, args...))
	})

	if localAddr == "" {
		localAddr = lanscan.LocalAddress()
	}
	if net.ParseIP(localAddr) == nil {
		fmt.Fprintf(os.Stderr, "invalid local address: %q\n", localAddr)
		os.Exit(2)
	}

	vendors := vendor.NewBuiltin()
	if ieeeFallback {
		vendors = vendors.WithIEEEFallback()
	}

	var backend probe.Backend
	if tcpDiscovery {
		backend = probe.NewTCPBackend(nil, 0)
	}

	opts := lanscan.Options{
		Vendors:       vendors,
		Backend:       backend,
		SweepWorkers:  sweepWorkers,
		DeviceWorkers: deviceWorkers,
		PortWorkers:   portWorkers,
		OnPhase: func(phase lanscan.Phase) {
			fmt.Fprintf(os.Stderr, "\n[*] %s\n", phase)
		},
		Progress: func(phase lanscan.Phase, done, total int) {
			if done%10 == 0 || done == total {
				fmt.Fprintf(os.Stderr, "\r[*] %s: %d/%d", phase, done, total)
				if done == total {
					fmt.Fprintln(os.Stderr)
				}
			}
		},
	}
	if lookupNames {
		opts.Hostnames = rdns.New()
	}

	scanner, err := lanscan.New(localAddr, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scan setup failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Local address: %s\n", localAddr)
	fmt.Fprintf(os.Stderr, "Subnet:        %s\n", scanner.Subnet().CIDR())

	ctx := context.Background()
	if deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, deadline)
		defer cancel()
	}

	started := time.Now()
	devices, err := scanner.Scan(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scan failed: %v\n", err)
		os.Exit(1)
	}
	elapsed := time.Since(started)

	meta := report.Meta{
		LocalAddress: localAddr,
		Subnet:       scanner.Subnet().CIDR(),
		Platform:     runtime.GOOS,
		Started:      started,
		Duration:     elapsed,
	}
	report.Render(os.Stdout, devices, meta)
	fmt.Printf("\nScan completed in %s\n", elapsed.Round(time.Millisecond))

	if saveReport || outFile != "" {
		path, err := report.Save(outFile, devices, meta)
		if err != nil {
			fmt.Fprintf(os.Stderr, "saving report failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Report saved to %s\n", path)
	}
}
