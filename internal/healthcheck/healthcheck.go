// Package healthcheck probes the /health endpoint of a serving instance.
// It backs the documented smoke test: after starting a container, poll the
// chosen external port until the server inside reports liveness.
package healthcheck

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultInterval = 1 * time.Second

// Check performs a single GET /health against baseURL and returns the
// status code.
func Check(ctx context.Context, baseURL string) (int, error) {
	url := strings.TrimRight(baseURL, "/") + "/health"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

// Wait polls /health until it answers 200 or the timeout elapses. Interval
// zero polls once a second. If the parent context ends first (operator
// Ctrl-C), its error is returned instead of a timeout.
func Wait(parent context.Context, baseURL string, timeout, interval time.Duration) error {
	if interval <= 0 {
		interval = defaultInterval
	}
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()
	for {
		code, err := Check(ctx, baseURL)
		if err == nil && code == http.StatusOK {
			return nil
		}
		select {
		case <-time.After(interval):
		case <-ctx.Done():
			if err := parent.Err(); err != nil {
				return err
			}
			return fmt.Errorf("timed out waiting for %s/health to return 200", strings.TrimRight(baseURL, "/"))
		}
	}
}
