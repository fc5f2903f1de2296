// Package sweep performs a bounded-concurrency ICMP reachability sweep
// over a list of host addresses. Probes run in a fixed worker pool;
// completion order is unspecified but the resulting alive set is
// order-independent. Progress is reported through an optional callback
// as a monotonically increasing completed/total counter.
package sweep

import (
	"context"
	"sync"
)

// DebugLogger is a callback for debug logging.
// Set this to receive debug messages from sweep operations.
var DebugLogger func(format string, args ...interface{})

func debugLog(format string, args ...interface{}) {
	if DebugLogger != nil {
		DebugLogger(format, args...)
	}
}

// DefaultWorkers is the default concurrency level for the sweep pool.
const DefaultWorkers = 50

// Prober issues one reachability check. Implementations must treat
// every failure as "not reachable" and never panic across the call.
type Prober interface {
	Probe(ctx context.Context, addr string) bool
}

// Options configures the sweep behavior.
type Options struct {
	// Workers controls the concurrency level (default 50).
	Workers int
	// Progress, if set, is invoked from the collecting goroutine as
	// probes finish. done increases monotonically up to total.
	Progress func(done, total int)
}

// Engine runs reachability sweeps.
type Engine struct {
	prober Prober
	opts   Options
}

// New creates a sweep engine.
func New(prober Prober, opts Options) *Engine {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	return &Engine{prober: prober, opts: opts}
}

type outcome struct {
	addr  string
	alive bool
}

// Sweep probes every address and returns the subset that responded.
// The returned order is the order probes completed in; callers that need
// determinism must sort. Cancelling the context stops dispatching new
// probes; probes already in flight run to their own timeout.
func (e *Engine) Sweep(ctx context.Context, addrs []string) []string {
	if len(addrs) == 0 {
		return nil
	}

	jobs := make(chan string, len(addrs))
	results := make(chan outcome, len(addrs))
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for addr := range jobs {
			results <- outcome{addr: addr, alive: e.probe(ctx, addr)}
		}
	}

	workers := e.opts.Workers
	if workers > len(addrs) {
		workers = len(addrs)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go worker()
	}

	total := len(addrs)
	dispatched := 0
enqueue:
	for _, addr := range addrs {
		select {
		case <-ctx.Done():
			break enqueue
		case jobs <- addr:
			dispatched++
		}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	var alive []string
	done := 0
	for res := range results {
		done++
		if e.opts.Progress != nil {
			e.opts.Progress(done, total)
		}
		if res.alive {
			debugLog("%s is alive", res.addr)
			alive = append(alive, res.addr)
		}
	}

	debugLog("sweep complete: %d/%d hosts responded (%d probed)", len(alive), total, dispatched)
	return alive
}

// probe shields the pool from a misbehaving backend: a panic inside one
// probe must not take down the collection of the others.
func (e *Engine) probe(ctx context.Context, addr string) (alive bool) {
	defer func() {
		if r := recover(); r != nil {
			debugLog("%s: probe panicked: %v", addr, r)
			alive = false
		}
	}()
	return e.prober.Probe(ctx, addr)
}
