// Package report renders scan inventories for the console and for
// plain-text report files. The scanning core never prints or writes
// files; all presentation lives here.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/marcuoli/go-lanscan/pkg/lanscan"
)

// Meta carries scan-level information for report headers.
type Meta struct {
	LocalAddress string
	Subnet       string
	Platform     string
	Started      time.Time
	Duration     time.Duration
}

// Render writes a console summary table of the inventory.
func Render(w io.Writer, devices []*lanscan.Device, meta Meta) {
	withServices := 0
	for _, dev := range devices {
		if len(dev.Services) > 0 {
			withServices++
		}
	}

	fmt.Fprintf(w, "\nScan results for %s\n", meta.Subnet)
	fmt.Fprintf(w, "Devices found: %d (%d with web services)\n\n", len(devices), withServices)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "IP ADDRESS\tMAC ADDRESS\tVENDOR\tHOSTNAME\tWEB SERVICES")
	for _, dev := range devices {
		mac := dev.HardwareAddress
		if mac == "" {
			mac = "-"
		}
		hostname := dev.Hostname
		if hostname == "" {
			hostname = "-"
		}
		services := "none"
		if n := len(dev.Services); n > 0 {
			services = fmt.Sprintf("%d", n)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", dev.Address, mac, dev.Vendor, hostname, services)
	}
	tw.Flush()

	for _, dev := range devices {
		for _, svc := range dev.Services {
			fmt.Fprintf(w, "  %s\n    status: %d  server: %s\n    title: %s\n",
				svc.URL, svc.StatusCode, svc.Server, svc.Title)
		}
	}
}

// Save writes a full text report. An empty filename generates a
// timestamped one in the current directory. Returns the path written.
func Save(filename string, devices []*lanscan.Device, meta Meta) (string, error) {
	if filename == "" {
		filename = fmt.Sprintf("lanscan_%s.txt", meta.Started.Format("20060102_150405"))
	}
	path, err := filepath.Abs(filename)
	if err != nil {
		path = filename
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	defer f.Close()

	if err := Write(f, devices, meta); err != nil {
		return "", err
	}
	return path, nil
}

// Write renders the full report to w.
func Write(w io.Writer, devices []*lanscan.Device, meta Meta) error {
	withServices := 0
	for _, dev := range devices {
		if len(dev.Services) > 0 {
			withServices++
		}
	}

	fmt.Fprintln(w, "LAN SCAN REPORT")
	fmt.Fprintf(w, "Scan date:     %s\n", meta.Started.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Local address: %s\n", meta.LocalAddress)
	fmt.Fprintf(w, "Subnet:        %s\n", meta.Subnet)
	fmt.Fprintf(w, "Platform:      %s\n", meta.Platform)
	fmt.Fprintf(w, "Duration:      %s\n", meta.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "\nDevices found: %d\n", len(devices))
	fmt.Fprintf(w, "Devices with web services: %d\n\n", withServices)

	for i, dev := range devices {
		fmt.Fprintf(w, "Device #%d\n", i+1)
		fmt.Fprintf(w, "  IP address:   %s\n", dev.Address)
		if dev.HardwareAddress != "" {
			fmt.Fprintf(w, "  MAC address:  %s\n", dev.HardwareAddress)
		}
		fmt.Fprintf(w, "  Vendor:       %s\n", dev.Vendor)
		if dev.Hostname != "" {
			fmt.Fprintf(w, "  Hostname:     %s\n", dev.Hostname)
		}
		fmt.Fprintf(w, "  Web services: %d\n", len(dev.Services))
		for _, svc := range dev.Services {
			fmt.Fprintf(w, "    - %s\n", svc.URL)
			fmt.Fprintf(w, "      status: %d\n", svc.StatusCode)
			fmt.Fprintf(w, "      server: %s\n", svc.Server)
			fmt.Fprintf(w, "      title:  %s\n", svc.Title)
		}
		fmt.Fprintln(w)
	}
	return nil
}
