// Package lanscan discovers hosts on a local IPv4 /24 subnet and
// fingerprints the HTTP(S) services they expose. Discovery merges two
// independent strategies: passive inspection of the OS address-resolution
// (ARP) table and an active ICMP ping sweep. Discovered devices are
// annotated with their hardware address and vendor (OUI lookup) and
// probed on a fixed set of common web ports.
//
// The package performs no SNMP, mDNS or UPnP discovery and never writes
// to the hosts it probes beyond a single GET per candidate URL.
package lanscan

import (
	"time"

	"github.com/marcuoli/go-lanscan/pkg/lanscan/webprobe"
)

// Component identifies the part of the scanner that produced a log
// message or error.
type Component string

const (
	ComponentScan     Component = "scan"
	ComponentARPTable Component = "arptable"
	ComponentSweep    Component = "sweep"
	ComponentResolve  Component = "resolve"
	ComponentVendor   Component = "vendor"
	ComponentWeb      Component = "web"
	ComponentRDNS     Component = "rdns"
)

// ServiceRecord describes one responding web endpoint on a device.
type ServiceRecord = webprobe.Service

// Device is one entry in the scan inventory. Identity is the IPv4
// address; HardwareAddress is empty when it could not be resolved and
// Vendor is "Unknown" in that case. Services is populated during the
// service-probing phase and the whole inventory is read-only once the
// scan completes.
type Device struct {
	Address         string
	HardwareAddress string
	Vendor          string
	Hostname        string
	Services        []ServiceRecord
}

// Phase is the orchestrator state. Transitions are strictly sequential
// and a Scanner is single-use.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseResolvingPassive
	PhaseSweeping
	PhaseResolvingGaps
	PhaseAggregating
	PhaseProbingServices
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseResolvingPassive:
		return "resolving-passive"
	case PhaseSweeping:
		return "sweeping"
	case PhaseResolvingGaps:
		return "resolving-gaps"
	case PhaseAggregating:
		return "aggregating"
	case PhaseProbingServices:
		return "probing-services"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// ScanError represents an error from a scanner component.
type ScanError struct {
	Component Component
	Message   string
}

func (e *ScanError) Error() string {
	return string(e.Component) + ": " + e.Message
}

// ErrInvalidAddress is returned when a local address cannot be parsed
// into a subnet range. This is the only fatal error class: everything
// else degrades to a partial result.
var ErrInvalidAddress = &ScanError{Component: ComponentScan, Message: "invalid IPv4 address"}

// ErrScanConsumed is returned when Scan is called twice on one Scanner.
var ErrScanConsumed = &ScanError{Component: ComponentScan, Message: "scanner is single-use; create a new one per scan"}

// Default concurrency limits for the three worker pools.
const (
	DefaultSweepWorkers  = 50
	DefaultDeviceWorkers = 5
	DefaultPortWorkers   = 10
)

// DefaultSettleDelay is how long the gap resolver waits after a
// provoking ping before re-reading the address table.
const DefaultSettleDelay = 100 * time.Millisecond
