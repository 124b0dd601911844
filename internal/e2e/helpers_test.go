package e2e

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"mlserve/internal/httpapi"
	"mlserve/internal/router"
	"mlserve/internal/routes"
	"mlserve/internal/serving"
)

// newBackend starts a serving instance around the given predictor and
// returns its base URL.
func newBackend(t *testing.T, name string, pred serving.Predictor) string {
	t.Helper()
	ctl := serving.NewController(name, "1.0.0", pred, zerolog.Nop())
	if err := ctl.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize %s: %v", name, err)
	}
	srv := httptest.NewServer(ctl.Handler())
	t.Cleanup(srv.Close)
	return srv.URL
}

// newRouterServer starts a router over the given static route table.
func newRouterServer(t *testing.T, table map[string]string) *httptest.Server {
	t.Helper()
	r := router.New(routes.NewStatic(table), 5*time.Second, 2*time.Second, zerolog.Nop())
	srv := httptest.NewServer(httpapi.NewMux(r))
	t.Cleanup(srv.Close)
	return srv
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func httpPostJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}
