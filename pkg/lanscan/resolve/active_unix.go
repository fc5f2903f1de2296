//go:build linux || darwin || freebsd || netbsd || openbsd

package resolve

import (
	"context"
	"net"
	"time"

	"github.com/j-keck/arping"

	"github.com/marcuoli/go-lanscan/pkg/lanscan/arptable"
)

// activeProbe sends one ARP request directly and returns the responding
// hardware address. arping needs raw sockets, so on unprivileged runs
// this simply fails and the caller falls back to the ping-and-reread
// path. The blocking arping call is wrapped in a goroutine so context
// cancellation is honored.
func activeProbe(ctx context.Context, addr string, timeout time.Duration) (string, bool) {
	ip := net.ParseIP(addr)
	if ip == nil || ip.To4() == nil {
		return "", false
	}

	arping.SetTimeout(timeout)

	type response struct {
		mac net.HardwareAddr
		err error
	}
	ch := make(chan response, 1)
	go func() {
		mac, _, err := arping.Ping(ip)
		ch <- response{mac: mac, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", false
	case resp := <-ch:
		if resp.err != nil {
			return "", false
		}
		return arptable.NormalizeHardwareAddr(resp.mac.String()), true
	}
}
