// Package lanscan: subnet derivation and IPv4 ordering utilities.
package lanscan

import (
	"fmt"
	"net"
)

// SubnetRange is the /24-style host range derived from the local
// address: the first three octets are fixed and the last octet is
// enumerated 1-254. The scanning host's own address is included.
type SubnetRange struct {
	prefix [3]byte
}

// DeriveSubnet computes the SubnetRange for a dotted-quad local address.
// Failure here is fatal for a scan: without a range there is nothing to
// enumerate.
func DeriveSubnet(localAddr string) (SubnetRange, error) {
	ip := net.ParseIP(localAddr)
	if ip == nil {
		return SubnetRange{}, fmt.Errorf("derive subnet from %q: %w", localAddr, ErrInvalidAddress)
	}
	ip4 := ip.To4()
	if ip4 == nil {
		return SubnetRange{}, fmt.Errorf("derive subnet from %q: %w", localAddr, ErrInvalidAddress)
	}
	return SubnetRange{prefix: [3]byte{ip4[0], ip4[1], ip4[2]}}, nil
}

// CIDR returns the range in CIDR notation, e.g. "192.168.1.0/24".
func (r SubnetRange) CIDR() string {
	return fmt.Sprintf("%d.%d.%d.0/24", r.prefix[0], r.prefix[1], r.prefix[2])
}

// Hosts enumerates every host address in the range (.1 through .254).
// Network and broadcast addresses are excluded.
func (r SubnetRange) Hosts() []string {
	hosts := make([]string, 0, 254)
	for last := 1; last <= 254; last++ {
		hosts = append(hosts, fmt.Sprintf("%d.%d.%d.%d", r.prefix[0], r.prefix[1], r.prefix[2], last))
	}
	return hosts
}

// Contains reports whether addr lies within the range.
func (r SubnetRange) Contains(addr string) bool {
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	ip4 := ip.To4()
	if ip4 == nil {
		return false
	}
	return ip4[0] == r.prefix[0] && ip4[1] == r.prefix[1] && ip4[2] == r.prefix[2] &&
		ip4[3] >= 1 && ip4[3] <= 254
}

// LocalAddress returns the primary IPv4 address of this machine using
// the outbound-socket trick: dialing a UDP "connection" to a public
// address selects the default route's source address without sending
// any packets. Falls back to loopback when no route exists.
func LocalAddress() string {
	conn, err := net.Dial("udp4", "8.8.8.8:80")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()
	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.IP.String()
	}
	return "127.0.0.1"
}

// addressKey converts a dotted quad to a sortable uint32. Reports false
// for anything that is not an IPv4 address.
func addressKey(addr string) (uint32, bool) {
	ip := net.ParseIP(addr)
	if ip == nil {
		return 0, false
	}
	ip4 := ip.To4()
	if ip4 == nil {
		return 0, false
	}
	return uint32(ip4[0])<<24 | uint32(ip4[1])<<16 | uint32(ip4[2])<<8 | uint32(ip4[3]), true
}

// lessAddress orders dotted quads by their numeric octet value, not
// lexicographically, so 192.168.1.9 sorts before 192.168.1.10.
func lessAddress(a, b string) bool {
	ka, _ := addressKey(a)
	kb, _ := addressKey(b)
	return ka < kb
}
