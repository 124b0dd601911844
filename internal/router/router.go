// Package router implements the forwarding service: it resolves the model
// named in each predict request through the route registry and relays the
// payload to the serving instance that hosts that model.
package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"mlserve/internal/httpapi"
	"mlserve/internal/routes"
	"mlserve/pkg/types"
)

// Router forwards predict requests to per-model backends.
type Router struct {
	name         string
	version      string
	store        routes.Store
	client       *http.Client
	reqTimeout   time.Duration
	defaultModel string
	log          zerolog.Logger
}

// maxRelayBytes caps how much of a backend response is buffered before
// relaying, so a misbehaving backend cannot exhaust router memory.
const maxRelayBytes = 16 << 20

// New constructs a Router over the given route store. Timeouts of zero fall
// back to 60s request / 5s connect.
func New(store routes.Store, reqTimeout, connectTimeout time.Duration, log zerolog.Logger) *Router {
	if reqTimeout <= 0 {
		reqTimeout = 60 * time.Second
	}
	if connectTimeout <= 0 {
		connectTimeout = 5 * time.Second
	}
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	// Timeout stays 0 on the client: every request carries its own
	// context deadline instead, so caller cancellation keeps working.
	cli := &http.Client{Transport: tr, Timeout: 0}
	return &Router{
		name:       "mlrouter",
		version:    "1.0.0",
		store:      store,
		client:     cli,
		reqTimeout: reqTimeout,
		log:        log,
	}
}

// SetDefaultModel makes requests without a model field resolve to model.
func (r *Router) SetDefaultModel(model string) { r.defaultModel = model }

func (r *Router) Info() types.InfoResponse {
	return types.InfoResponse{Name: r.name, Version: r.version, Endpoint: "/predict"}
}

// Ready is immediate: the router holds no model state of its own.
func (r *Router) Ready() bool { return true }

// RouteTable exposes the current route table for GET /routes.
func (r *Router) RouteTable(ctx context.Context) (map[string]string, error) {
	return r.store.List(ctx)
}

// Predict resolves the model route and relays model_data to the backend's
// /predict, passing the backend's status code and JSON body through.
func (r *Router) Predict(ctx context.Context, req types.PredictRequest) (httpapi.Result, error) {
	if strings.TrimSpace(req.Model) == "" {
		if r.defaultModel == "" {
			return httpapi.Result{}, badRequestError{msg: "model is required"}
		}
		req.Model = r.defaultModel
	}
	base, err := r.store.Lookup(ctx, req.Model)
	if err != nil {
		return httpapi.Result{}, err
	}

	url := strings.TrimRight(base, "/") + "/predict"
	r.log.Debug().Str("model", req.Model).Str("url", url).Msg("forwarding predict")

	// The backend serves a single model, so the forwarded request carries
	// only the payload.
	payload, err := json.Marshal(types.PredictRequest{ModelData: req.ModelData})
	if err != nil {
		return httpapi.Result{}, fmt.Errorf("encode forward request: %w", err)
	}

	fwdCtx, cancel := context.WithTimeout(ctx, r.reqTimeout)
	defer cancel()
	httpReq, err := http.NewRequestWithContext(fwdCtx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return httpapi.Result{}, fmt.Errorf("build forward request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return httpapi.Result{}, ctx.Err()
		}
		r.log.Warn().Err(err).Str("model", req.Model).Msg("backend unreachable")
		return httpapi.Result{}, upstreamUnavailableError{model: req.Model}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRelayBytes))
	if err != nil {
		return httpapi.Result{}, upstreamUnavailableError{model: req.Model}
	}
	return httpapi.Result{Status: resp.StatusCode, Body: body}, nil
}

// upstreamUnavailableError signals an unreachable backend for 502 mapping.
type upstreamUnavailableError struct{ model string }

func (e upstreamUnavailableError) Error() string {
	return "backend for model '" + e.model + "' is unavailable"
}
func (e upstreamUnavailableError) StatusCode() int { return http.StatusBadGateway }

// IsUpstreamUnavailable reports whether err indicates an unreachable backend.
func IsUpstreamUnavailable(err error) bool {
	_, ok := err.(upstreamUnavailableError)
	return ok
}

type badRequestError struct{ msg string }

func (e badRequestError) Error() string   { return e.msg }
func (e badRequestError) StatusCode() int { return http.StatusBadRequest }
