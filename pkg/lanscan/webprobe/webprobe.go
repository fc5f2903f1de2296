// Package webprobe fingerprints web services on a single device. It
// issues one GET per candidate port (HTTPS first on the TLS port, with a
// plain-HTTP fallback) and extracts the status code, Server header and
// page title. Probing is discovery-mode: certificate validation is
// disabled because self-signed and expired certs are the norm on LAN
// devices, redirects are followed, and every failure silently excludes
// the URL rather than aborting the device.
package webprobe

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"
)

// DebugLogger is a callback for debug logging.
// Set this to receive debug messages from web probing operations.
var DebugLogger func(format string, args ...interface{})

func debugLog(format string, args ...interface{}) {
	if DebugLogger != nil {
		DebugLogger(format, args...)
	}
}

// DefaultPorts are the candidate web ports probed on every device.
var DefaultPorts = []int{80, 443, 8080, 8000, 8443, 8888, 3000, 5000, 9090}

const (
	// DefaultWorkers bounds concurrent port probes per device.
	DefaultWorkers = 10
	// DefaultTimeout bounds one GET including body read.
	DefaultTimeout = 3 * time.Second
	// maxTitleLen caps the extracted page title.
	maxTitleLen = 100
	// maxBodyRead caps how much of a response body is read for the
	// title search.
	maxBodyRead = 64 * 1024
)

// Sentinel values for fields a response did not provide.
const (
	NoTitle       = "No Title"
	UnknownServer = "Unknown"
)

// defaultTLSPort is probed over HTTPS first, falling back to HTTP.
const defaultTLSPort = 443

var titlePattern = regexp.MustCompile(`(?is)<title>(.*?)</title>`)

// Service describes one responding port/protocol combination.
type Service struct {
	URL        string
	StatusCode int
	Server     string
	Title      string
}

// Options configures a Prober.
type Options struct {
	// Ports to probe (default DefaultPorts).
	Ports []int
	// Workers bounds concurrent port probes (default 10).
	Workers int
	// Timeout per GET (default 3s).
	Timeout time.Duration
}

// Prober fingerprints the web ports of devices.
type Prober struct {
	opts    Options
	client  *http.Client
	tlsPort int
}

// New creates a prober. The underlying HTTP client skips certificate
// verification and follows redirects.
func New(opts Options) *Prober {
	if len(opts.Ports) == 0 {
		opts.Ports = DefaultPorts
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Prober{
		opts:    opts,
		tlsPort: defaultTLSPort,
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
	}
}

// Probe checks every candidate port on addr concurrently and returns the
// services that answered, in port order. A device with no open web ports
// yields an empty result, not an error.
func (p *Prober) Probe(ctx context.Context, addr string) []Service {
	found := make([]*Service, len(p.opts.Ports))
	sem := make(chan struct{}, p.opts.Workers)
	var wg sync.WaitGroup

	for i, port := range p.opts.Ports {
		wg.Add(1)
		go func(idx, port int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			defer func() {
				if r := recover(); r != nil {
					debugLog("%s:%d: probe panicked: %v", addr, port, r)
				}
			}()
			found[idx] = p.probePort(ctx, addr, port)
		}(i, port)
	}
	wg.Wait()

	var services []Service
	for _, svc := range found {
		if svc != nil {
			services = append(services, *svc)
		}
	}
	return services
}

// probePort tries each protocol for the port in order and returns the
// first successful fingerprint. On the TLS port a handshake failure
// falls back to plain HTTP on the same port; at most one record is ever
// produced per port.
func (p *Prober) probePort(ctx context.Context, addr string, port int) *Service {
	schemes := []string{"http"}
	if port == p.tlsPort {
		schemes = []string{"https", "http"}
	}

	for _, scheme := range schemes {
		url := fmt.Sprintf("%s://%s:%d", scheme, addr, port)
		svc, err := p.fetch(ctx, url)
		if err == nil {
			debugLog("%s: %d (%s)", url, svc.StatusCode, svc.Server)
			return svc
		}
		if isSecureTransportError(err) {
			debugLog("%s: TLS handshake failed, falling back: %v", url, err)
		} else {
			debugLog("%s: %v", url, err)
		}
	}
	return nil
}

func (p *Prober) fetch(ctx context.Context, url string) (*Service, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	svc := &Service{
		URL:        url,
		StatusCode: resp.StatusCode,
		Server:     UnknownServer,
		Title:      NoTitle,
	}
	if server := resp.Header.Get("Server"); server != "" {
		svc.Server = server
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyRead))
	if m := titlePattern.FindSubmatch(body); m != nil {
		if title := truncateTitle(string(m[1])); title != "" {
			svc.Title = title
		}
	}
	return svc, nil
}

// truncateTitle trims surrounding whitespace and caps the title length.
func truncateTitle(title string) string {
	title = strings.TrimSpace(title)
	if runes := []rune(title); len(runes) > maxTitleLen {
		return string(runes[:maxTitleLen])
	}
	return title
}

// isSecureTransportError reports whether an HTTP client error stems from
// the TLS layer rather than the connection or the request itself.
func isSecureTransportError(err error) bool {
	if err == nil {
		return false
	}
	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "tls:") ||
		strings.Contains(msg, "x509:") ||
		strings.Contains(msg, "handshake failure")
}
