// Package lanscan: Log prefix constants for consistent log tagging.
// Consumers can use these in a SetDebugLogger callback, but they are not
// required.
package lanscan

// Log prefix constants per scanner component.
// Format follows [Scan] or [Scan:Component] pattern.
const (
	LogPrefixScan     = "[Scan]"
	LogPrefixARPTable = "[Scan:ARPTable]"
	LogPrefixSweep    = "[Scan:Sweep]"
	LogPrefixResolve  = "[Scan:Resolve]"
	LogPrefixVendor   = "[Scan:Vendor]"
	LogPrefixWeb      = "[Scan:Web]"
	LogPrefixRDNS     = "[Scan:RDNS]"
)

// ComponentToPrefix returns the log prefix for a given component.
func ComponentToPrefix(component Component) string {
	switch component {
	case ComponentARPTable:
		return LogPrefixARPTable
	case ComponentSweep:
		return LogPrefixSweep
	case ComponentResolve:
		return LogPrefixResolve
	case ComponentVendor:
		return LogPrefixVendor
	case ComponentWeb:
		return LogPrefixWeb
	case ComponentRDNS:
		return LogPrefixRDNS
	default:
		return LogPrefixScan
	}
}
