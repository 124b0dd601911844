package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestItoa(t *testing.T) {
	cases := map[int]string{0: "0", 200: "200", 404: "404", 502: "502"}
	for n, want := range cases {
		if got := itoa(n); got != want { t.Fatalf("itoa(%d)=%q want %q", n, got, want) }
	}
}

func TestStatusRecorder(t *testing.T) {
	w := httptest.NewRecorder()
	sr := &statusRecorder{ResponseWriter: w, status: 200}
	sr.WriteHeader(http.StatusTeapot)
	if sr.status != http.StatusTeapot { t.Fatalf("status=%d", sr.status) }
	if w.Code != http.StatusTeapot { t.Fatalf("code=%d", w.Code) }
}

func TestRoutePatternOrPathFallback(t *testing.T) {
	r := httptest.NewRequest("GET", "/plain/path", nil)
	if got := routePatternOrPath(r); got != "/plain/path" { t.Fatalf("got %q", got) }
}

func TestErrorTypeForStatus(t *testing.T) {
	cases := map[int]string{
		400: "bad_request",
		404: "unknown_model",
		415: "unsupported_media_type",
		429: "too_busy",
		502: "upstream_unavailable",
		503: "not_ready",
		500: "internal",
		418: "internal",
	}
	for status, want := range cases {
		if got := errorTypeForStatus(status); got != want {
			t.Fatalf("errorTypeForStatus(%d)=%q want %q", status, got, want)
		}
	}
}
