package httpapi

import (
	"net/http/httptest"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want LogLevel
	}{
		{"", LevelOff},
		{"off", LevelOff},
		{"error", LevelError},
		{"info", LevelInfo},
		{"debug", LevelDebug},
		{"bogus", LevelInfo},
	}
	for _, c := range cases {
		if got := parseLevel(c.in); got != c.want {
			t.Fatalf("parseLevel(%q)=%d want %d", c.in, got, c.want)
		}
	}
}

func TestRequestLogLevelOverrides(t *testing.T) {
	r := httptest.NewRequest("GET", "/predict?log=debug", nil)
	if got := requestLogLevel(r); got != LevelDebug { t.Fatalf("query override: %d", got) }

	r = httptest.NewRequest("GET", "/predict?log=1", nil)
	if got := requestLogLevel(r); got != LevelDebug { t.Fatalf("legacy query: %d", got) }

	r = httptest.NewRequest("GET", "/predict", nil)
	r.Header.Set("X-Log-Level", "error")
	if got := requestLogLevel(r); got != LevelError { t.Fatalf("header override: %d", got) }

	r = httptest.NewRequest("GET", "/predict", nil)
	if got := requestLogLevel(r); got != defaultLogLevel { t.Fatalf("default: %d", got) }
}
