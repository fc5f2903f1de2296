// Package webprobe tests for web service fingerprinting.
package webprobe

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"
)

// serverPort extracts the host and port a test server is listening on.
func serverPort(t *testing.T, srv *httptest.Server) (string, int) {
	t.Helper()
	host, portStr, err := net.SplitHostPort(strings.TrimPrefix(strings.TrimPrefix(srv.URL, "https://"), "http://"))
	if err != nil {
		t.Fatalf("Cannot parse server URL %q: %v", srv.URL, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("Cannot parse port %q: %v", portStr, err)
	}
	return host, port
}

func TestProbe_Fingerprint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", "nginx/1.24")
		fmt.Fprint(w, "<html><head><title>Device Admin</title></head><body></body></html>")
	}))
	defer srv.Close()
	host, port := serverPort(t, srv)

	p := New(Options{Ports: []int{port}, Timeout: 2 * time.Second})
	services := p.Probe(context.Background(), host)

	if len(services) != 1 {
		t.Fatalf("Expected 1 service, got %d", len(services))
	}
	svc := services[0]
	if svc.URL != fmt.Sprintf("http://%s:%d", host, port) {
		t.Errorf("Unexpected URL %q", svc.URL)
	}
	if svc.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", svc.StatusCode)
	}
	if svc.Server != "nginx/1.24" {
		t.Errorf("Expected Server nginx/1.24, got %q", svc.Server)
	}
	if svc.Title != "Device Admin" {
		t.Errorf("Expected title Device Admin, got %q", svc.Title)
	}
}

func TestProbe_Sentinels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "no markup here")
	}))
	defer srv.Close()
	host, port := serverPort(t, srv)

	p := New(Options{Ports: []int{port}, Timeout: 2 * time.Second})
	services := p.Probe(context.Background(), host)

	if len(services) != 1 {
		t.Fatalf("Expected 1 service, got %d", len(services))
	}
	// Go's test server always sets Date but not Server; the title is
	// absent from the body.
	if services[0].Server != UnknownServer {
		t.Errorf("Expected Server %q, got %q", UnknownServer, services[0].Server)
	}
	if services[0].Title != NoTitle {
		t.Errorf("Expected title %q, got %q", NoTitle, services[0].Title)
	}
}

func TestProbe_TitleHandling(t *testing.T) {
	long := strings.Repeat("x", 150)
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"truncated", "<title>" + long + "</title>", strings.Repeat("x", 100)},
		{"whitespace trimmed", "<title>\n  Router \t</title>", "Router"},
		{"case insensitive tag", "<TITLE>Shouty</TITLE>", "Shouty"},
		{"multiline", "<title>line one\nline two</title>", "line one\nline two"},
		{"empty title", "<title>   </title>", NoTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()
			host, port := serverPort(t, srv)

			p := New(Options{Ports: []int{port}, Timeout: 2 * time.Second})
			services := p.Probe(context.Background(), host)
			if len(services) != 1 {
				t.Fatalf("Expected 1 service, got %d", len(services))
			}
			if services[0].Title != tt.expected {
				t.Errorf("Expected title %q, got %q", tt.expected, services[0].Title)
			}
		})
	}
}

func TestProbe_ClosedPort(t *testing.T) {
	// Reserve a port, then close it so nothing listens there.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	p := New(Options{Ports: []int{port}, Timeout: time.Second})
	if services := p.Probe(context.Background(), "127.0.0.1"); len(services) != 0 {
		t.Errorf("Expected no services on closed port, got %v", services)
	}
}

func TestProbe_SelfSignedTLS(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", "lighttpd")
		fmt.Fprint(w, "<title>Secure</title>")
	}))
	defer srv.Close()
	host, port := serverPort(t, srv)

	// Treat the test server's port as the TLS-first port so the probe
	// goes HTTPS despite the self-signed certificate.
	p := New(Options{Ports: []int{port}, Timeout: 2 * time.Second})
	p.tlsPort = port

	services := p.Probe(context.Background(), host)
	if len(services) != 1 {
		t.Fatalf("Expected 1 service, got %d", len(services))
	}
	if !strings.HasPrefix(services[0].URL, "https://") {
		t.Errorf("Expected https URL, got %q", services[0].URL)
	}
	if services[0].Title != "Secure" {
		t.Errorf("Expected title Secure, got %q", services[0].Title)
	}
}

func TestProbe_TLSPortFallsBackToHTTP(t *testing.T) {
	// Plain HTTP server on the port designated TLS-first: the HTTPS
	// attempt fails the handshake and the HTTP fallback must yield
	// exactly one record.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<title>Plain</title>")
	}))
	defer srv.Close()
	host, port := serverPort(t, srv)

	p := New(Options{Ports: []int{port}, Timeout: 2 * time.Second})
	p.tlsPort = port

	services := p.Probe(context.Background(), host)
	if len(services) != 1 {
		t.Fatalf("Expected exactly 1 service, got %d", len(services))
	}
	if !strings.HasPrefix(services[0].URL, "http://") {
		t.Errorf("Expected http fallback URL, got %q", services[0].URL)
	}
	if services[0].Title != "Plain" {
		t.Errorf("Expected title Plain, got %q", services[0].Title)
	}
}

func TestProbe_ResultsInPortOrder(t *testing.T) {
	var servers []*httptest.Server
	var ports []int
	host := ""
	for i := 0; i < 3; i++ {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "ok")
		}))
		defer srv.Close()
		servers = append(servers, srv)
		h, port := serverPort(t, srv)
		host = h
		ports = append(ports, port)
	}

	p := New(Options{Ports: ports, Workers: 3, Timeout: 2 * time.Second})
	services := p.Probe(context.Background(), host)
	if len(services) != len(ports) {
		t.Fatalf("Expected %d services, got %d", len(ports), len(services))
	}
	for i, svc := range services {
		expected := fmt.Sprintf("http://%s:%d", host, ports[i])
		if svc.URL != expected {
			t.Errorf("Service %d out of order: expected %s, got %s", i, expected, svc.URL)
		}
	}
}

func TestIsSecureTransportError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"plain refusal", fmt.Errorf("dial tcp: connection refused"), false},
		{"tls message", fmt.Errorf(`Get "https://x": tls: first record does not look like a TLS handshake`), true},
		{"x509 message", fmt.Errorf("x509: certificate signed by unknown authority"), true},
		{"handshake failure", fmt.Errorf("remote error: handshake failure"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isSecureTransportError(tt.err); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	p := New(Options{})
	if len(p.opts.Ports) != len(DefaultPorts) {
		t.Errorf("Expected default ports, got %v", p.opts.Ports)
	}
	if p.opts.Workers != DefaultWorkers {
		t.Errorf("Expected %d workers, got %d", DefaultWorkers, p.opts.Workers)
	}
	if p.opts.Timeout != DefaultTimeout {
		t.Errorf("Expected timeout %v, got %v", DefaultTimeout, p.opts.Timeout)
	}
	if p.tlsPort != defaultTLSPort {
		t.Errorf("Expected TLS port %d, got %d", defaultTLSPort, p.tlsPort)
	}
}
