package healthcheck

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestCheck(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" { t.Errorf("path=%s", r.URL.Path) }
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	code, err := Check(context.Background(), ts.URL+"/")
	if err != nil { t.Fatalf("check: %v", err) }
	if code != http.StatusOK { t.Fatalf("code=%d", code) }
}

func TestWaitEventuallyHealthy(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	if err := Wait(context.Background(), ts.URL, 5*time.Second, 10*time.Millisecond); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if atomic.LoadInt32(&calls) < 3 { t.Fatalf("calls=%d", calls) }
}

func TestWaitTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	if err := Wait(context.Background(), ts.URL, 100*time.Millisecond, 10*time.Millisecond); err == nil {
		t.Fatalf("expected timeout")
	}
}

func TestWaitParentCanceled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()
	err := Wait(ctx, ts.URL, 5*time.Second, 10*time.Millisecond)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWaitServerDown(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	if err := Wait(context.Background(), url, 100*time.Millisecond, 10*time.Millisecond); err == nil {
		t.Fatalf("expected timeout against closed server")
	}
}
