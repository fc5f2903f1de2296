// Package arptable parses OS address-resolution-table dumps into
// address/hardware-address pairs. Parsing is best effort: lines that do
// not match a known format are skipped, so a truncated or malformed dump
// never aborts a scan. Two textual shapes are recognized:
//
//	Windows:  "  192.168.1.5    aa-bb-cc-dd-ee-ff     dynamic"
//	Unix:     "router.local (192.168.1.1) at 11:22:33:44:55:66 on eth0"
//
// Hardware addresses are normalized to upper-case, colon-separated form
// regardless of the input separator.
package arptable

import (
	"regexp"
	"strings"
)

// DebugLogger is a callback for debug logging.
// Set this to receive debug messages from parsing operations.
var DebugLogger func(format string, args ...interface{})

func debugLog(format string, args ...interface{}) {
	if DebugLogger != nil {
		DebugLogger(format, args...)
	}
}

// Entry is one parsed address-table row.
type Entry struct {
	Address         string
	HardwareAddress string
}

var (
	windowsLine = regexp.MustCompile(`(?i)(\d+\.\d+\.\d+\.\d+)\s+([0-9a-f-]{17})`)
	unixLine    = regexp.MustCompile(`(?i)\((\d+\.\d+\.\d+\.\d+)\)\s+at\s+([0-9a-f:]{17})`)
	bareHWAddr  = regexp.MustCompile(`(?i)([0-9a-f]{2}(?:[:-][0-9a-f]{2}){5})`)
)

// Parse extracts all address/hardware-address pairs from a raw dump.
// The platform tag selects the expected line shape: "windows" for the
// hyphen-separated tabular format, anything else for the Unix
// "host (ip) at mac" format.
func Parse(raw, platform string) []Entry {
	var entries []Entry
	pattern := unixLine
	if platform == "windows" {
		pattern = windowsLine
	}

	for _, line := range strings.Split(raw, "\n") {
		m := pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		entries = append(entries, Entry{
			Address:         m[1],
			HardwareAddress: NormalizeHardwareAddr(m[2]),
		})
	}

	debugLog("parsed %d entries from %s-format table", len(entries), platform)
	return entries
}

// ExtractHardwareAddr pulls the first hardware address out of a
// single-address table query. Used by the gap resolver, where the dump
// is already filtered to one host.
func ExtractHardwareAddr(raw string) (string, bool) {
	m := bareHWAddr.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	return NormalizeHardwareAddr(m[1]), true
}

// NormalizeHardwareAddr converts a 17-character hardware address to the
// canonical upper-case, colon-separated form.
func NormalizeHardwareAddr(hw string) string {
	return strings.ToUpper(strings.ReplaceAll(hw, "-", ":"))
}
