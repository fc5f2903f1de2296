//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd

package resolve

import (
	"context"
	"time"
)

// activeProbe is not supported on this platform; resolution falls back
// to the ping-and-reread path.
func activeProbe(ctx context.Context, addr string, timeout time.Duration) (string, bool) {
	return "", false
}
