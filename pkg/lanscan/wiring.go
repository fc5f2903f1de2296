// Package lanscan: debug logging wiring for subpackages.
package lanscan

import (
	"github.com/marcuoli/go-lanscan/pkg/lanscan/arptable"
	"github.com/marcuoli/go-lanscan/pkg/lanscan/probe"
	"github.com/marcuoli/go-lanscan/pkg/lanscan/rdns"
	"github.com/marcuoli/go-lanscan/pkg/lanscan/resolve"
	"github.com/marcuoli/go-lanscan/pkg/lanscan/sweep"
	"github.com/marcuoli/go-lanscan/pkg/lanscan/vendor"
	"github.com/marcuoli/go-lanscan/pkg/lanscan/webprobe"
)

// init wires the subpackage debug callbacks into the component-tagged
// logger. Chatty per-host sources only emit at Verbose.
func init() {
	arptable.DebugLogger = func(format string, args ...interface{}) {
		debugLog(ComponentARPTable, format, args...)
	}
	sweep.DebugLogger = func(format string, args ...interface{}) {
		debugLog(ComponentSweep, format, args...)
	}
	resolve.DebugLogger = func(format string, args ...interface{}) {
		debugLog(ComponentResolve, format, args...)
	}
	probe.DebugLogger = func(format string, args ...interface{}) {
		debugLogVerbose(ComponentSweep, format, args...)
	}
	vendor.DebugLogger = func(format string, args ...interface{}) {
		debugLogVerbose(ComponentVendor, format, args...)
	}
	webprobe.DebugLogger = func(format string, args ...interface{}) {
		debugLogVerbose(ComponentWeb, format, args...)
	}
	rdns.DebugLogger = func(format string, args ...interface{}) {
		debugLogVerbose(ComponentRDNS, format, args...)
	}
}
