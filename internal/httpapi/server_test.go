package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mlserve/internal/routes"
	"mlserve/pkg/types"
)

type mockService struct {
	ready      bool
	predictErr error
	result     Result
	table      map[string]string
	custom     []Route
}

func (m *mockService) Info() types.InfoResponse {
	return types.InfoResponse{Name: "mock", Version: "0.1.0", Endpoint: "/predict"}
}
func (m *mockService) Ready() bool { return m.ready }
func (m *mockService) Predict(ctx context.Context, req types.PredictRequest) (Result, error) {
	if m.predictErr != nil {
		return Result{}, m.predictErr
	}
	if m.result.Body == nil {
		return Result{Body: json.RawMessage(`{"ok":true}`)}, nil
	}
	return m.result, nil
}
func (m *mockService) RouteTable(ctx context.Context) (map[string]string, error) {
	return m.table, nil
}
func (m *mockService) CustomRoutes() []Route { return m.custom }

type mockHTTPError struct {
	msg  string
	code int
}

func (e mockHTTPError) Error() string   { return e.msg }
func (e mockHTTPError) StatusCode() int { return e.code }

func postPredict(t *testing.T, h http.Handler, body string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/predict", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestInfoHandler(t *testing.T) {
	r := NewMux(&mockService{ready: true})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK { t.Fatalf("status=%d", w.Code) }
	var info types.InfoResponse
	if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil { t.Fatalf("json: %v", err) }
	if info.Name != "mock" || info.Endpoint != "/predict" { t.Fatalf("info=%+v", info) }
}

func TestHealthAlwaysOK(t *testing.T) {
	// Liveness does not depend on readiness.
	r := NewMux(&mockService{ready: false})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK { t.Fatalf("status=%d", w.Code) }
	if w.Body.String() != "ok" { t.Fatalf("body=%q", w.Body.String()) }
}

func TestReadyHandler(t *testing.T) {
	r := NewMux(&mockService{ready: false})
	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable { t.Fatalf("status=%d", w.Code) }

	r = NewMux(&mockService{ready: true})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK { t.Fatalf("status=%d", w.Code) }
}

func TestPredictSuccess(t *testing.T) {
	r := NewMux(&mockService{ready: true})
	w := postPredict(t, r, `{"model_data":{"text":"hi"}}`, nil)
	if w.Code != http.StatusOK { t.Fatalf("status=%d body=%s", w.Code, w.Body.String()) }
	if !strings.Contains(w.Body.String(), `"ok":true`) { t.Fatalf("body=%s", w.Body.String()) }
}

func TestPredictRelayedStatus(t *testing.T) {
	svc := &mockService{ready: true, result: Result{Status: 422, Body: json.RawMessage(`{"success":false}`)}}
	w := postPredict(t, NewMux(svc), `{"model_data":{}}`, nil)
	if w.Code != 422 { t.Fatalf("status=%d", w.Code) }
}

func TestPredictContentTypeRequired(t *testing.T) {
	r := NewMux(&mockService{ready: true})
	req := httptest.NewRequest(http.MethodPost, "/predict", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnsupportedMediaType { t.Fatalf("status=%d", w.Code) }
}

func TestPredictInvalidJSON(t *testing.T) {
	w := postPredict(t, NewMux(&mockService{ready: true}), `{`, nil)
	if w.Code != http.StatusBadRequest { t.Fatalf("status=%d", w.Code) }
	var er types.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil { t.Fatalf("json: %v", err) }
	if er.Success || er.ErrorType != "bad_request" { t.Fatalf("resp=%+v", er) }
}

func TestPredictMissingModelData(t *testing.T) {
	w := postPredict(t, NewMux(&mockService{ready: true}), `{"model":"m"}`, nil)
	if w.Code != http.StatusBadRequest { t.Fatalf("status=%d", w.Code) }
}

func TestPredictErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{routes.ErrUnknownModel("ghost"), http.StatusNotFound},
		{mockHTTPError{msg: "backend down", code: http.StatusBadGateway}, http.StatusBadGateway},
		{mockHTTPError{msg: "loading", code: http.StatusServiceUnavailable}, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		w := postPredict(t, NewMux(&mockService{ready: true, predictErr: c.err}), `{"model_data":{}}`, nil)
		if w.Code != c.want { t.Fatalf("err=%v status=%d want=%d", c.err, w.Code, c.want) }
	}
}

func TestPredictInternalErrorMasked(t *testing.T) {
	w := postPredict(t, NewMux(&mockService{ready: true, predictErr: errors.New("secret database password wrong")}), `{"model_data":{}}`, nil)
	var er types.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil { t.Fatalf("json: %v", err) }
	if strings.Contains(er.Error, "secret") { t.Fatalf("leaked internals: %+v", er) }
	if er.ErrorType != "internal" { t.Fatalf("error_type=%s", er.ErrorType) }
}

func TestPredictBodyLimit(t *testing.T) {
	SetMaxBodyBytes(64)
	defer SetMaxBodyBytes(0)
	big := `{"model_data":{"blob":"` + strings.Repeat("x", 256) + `"}}`
	w := postPredict(t, NewMux(&mockService{ready: true}), big, nil)
	if w.Code != http.StatusBadRequest { t.Fatalf("status=%d", w.Code) }
}

func TestRoutesEndpoint(t *testing.T) {
	svc := &mockService{ready: true, table: map[string]string{"m1": "http://a:8001"}}
	r := NewMux(svc)
	req := httptest.NewRequest(http.MethodGet, "/routes", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK { t.Fatalf("status=%d", w.Code) }
	var rr types.RoutesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &rr); err != nil { t.Fatalf("json: %v", err) }
	if rr.Routes["m1"] != "http://a:8001" { t.Fatalf("routes=%v", rr.Routes) }
}

func TestCustomRoutesMounted(t *testing.T) {
	svc := &mockService{ready: true, custom: []Route{{
		Method:  http.MethodGet,
		Pattern: "/version-info",
		Handler: func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("v1")) },
	}}}
	r := NewMux(svc)
	req := httptest.NewRequest(http.MethodGet, "/version-info", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "v1" { t.Fatalf("code=%d body=%q", w.Code, w.Body.String()) }
}

func TestMetricsEndpoint(t *testing.T) {
	r := NewMux(&mockService{ready: true})
	// Drive one request through the middleware so the vectors have samples.
	hw := httptest.NewRecorder()
	r.ServeHTTP(hw, httptest.NewRequest(http.MethodGet, "/health", nil))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK { t.Fatalf("status=%d", w.Code) }
	if !strings.Contains(w.Body.String(), "mlserve_http_requests_total") {
		t.Fatalf("expected mlserve metrics in output")
	}
}
