// Package main provides a CI-friendly smoke test for a running warden
// daemon.
//
// It validates:
//   - /healthz liveness
//   - /readyz readiness (including the archive DB when required)
//   - /metrics exposure of the session gauges and counters
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

func main() {
	base := flag.String("base", "http://127.0.0.1:8080", "base URL of the warden daemon")
	timeout := flag.Duration("timeout", 10*time.Second, "overall deadline")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := &http.Client{}

	if err := expectStatus(ctx, client, *base+"/healthz", http.StatusOK); err != nil {
		fail("healthz: %v", err)
	}
	if err := expectStatus(ctx, client, *base+"/readyz", http.StatusOK); err != nil {
		fail("readyz: %v", err)
	}

	body, err := fetch(ctx, client, *base+"/metrics")
	if err != nil {
		fail("metrics: %v", err)
	}
	for _, metric := range []string{
		"warden_sessions_active",
		"warden_scheduler_ticks_total",
		"go_goroutines",
	} {
		if !strings.Contains(body, metric) {
			fail("metrics: %s not exposed", metric)
		}
	}

	fmt.Println("smoke ok")
}

func expectStatus(ctx context.Context, client *http.Client, url string, want int) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != want {
		return fmt.Errorf("status %d, want %d", resp.StatusCode, want)
	}
	return nil
}

func fetch(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}
	b, err := io.ReadAll(resp.Body)
	return string(b), err
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "smoke failed: "+format+"\n", args...)
	os.Exit(1)
}
