// Package main provides the glazewm CLI entrypoint.
package main

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/stianeklund/glazewm/internal/dpi"
	"github.com/stianeklund/glazewm/internal/monitor"
)

// printMonitors enumerates displays directly and writes one line per
// monitor.
func printMonitors(w io.Writer) error {
	var (
		list []monitor.Descriptor
		err  error
	)
	dpi.WithPerMonitorContext(func() {
		list, err = monitor.NewEnumerator().Enumerate()
	})
	if err != nil {
		return err
	}
	for i, m := range list {
		primary := ""
		if m.Primary {
			primary = " (primary)"
		}
		fmt.Fprintf(w, "%d: %s %dx%d at (%d,%d), work %dx%d, %d DPI (%.2fx)%s\n",
			i+1, m.Device,
			m.Rect.Width, m.Rect.Height, m.Rect.X, m.Rect.Y,
			m.WorkRect.Width, m.WorkRect.Height,
			m.DPI, monitor.ScaleFactor(m.DPI), primary)
	}
	return nil
}

// runQuery fetches a read-only snapshot from a running instance.
func runQuery(w io.Writer, addr, what string) error {
	client := &http.Client{Timeout: 5 * time.Second}
	url := fmt.Sprintf("http://%s/api/%s", addr, what)
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("is glazewm running? %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("query failed: %s", resp.Status)
	}
	_, err = io.Copy(w, resp.Body)
	return err
}
