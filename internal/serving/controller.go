package serving

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"mlserve/internal/httpapi"
	"mlserve/pkg/types"
)

// DefaultAddr is where a controller listens unless told otherwise. The port
// must match the internal side of the container port mapping; keeping the
// default here and in the scaffolded Dockerfile makes that hold without
// operator effort.
const DefaultAddr = ":8000"

// Controller wires a Predictor to the HTTP surface. Construct it, register
// any custom routes, then call Run. Route registration is only allowed
// before the mux is built; this mirrors the contract users already rely on.
type Controller struct {
	name    string
	version string
	pred    Predictor

	mu     sync.RWMutex
	ready  bool
	built  bool
	custom []httpapi.Route

	log zerolog.Logger
}

// NewController builds a controller for the given predictor.
func NewController(name, version string, pred Predictor, log zerolog.Logger) *Controller {
	return &Controller{name: name, version: version, pred: pred, log: log}
}

// AddRoute mounts an extra endpoint next to the standard surface.
// It must be called before Run (or Handler); afterwards it fails.
func (c *Controller) AddRoute(method, pattern string, h http.HandlerFunc) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.built {
		return errors.New("cannot add routes after the server has been built; add routes before Run")
	}
	if method == "" {
		method = http.MethodGet
	}
	c.custom = append(c.custom, httpapi.Route{Method: method, Pattern: pattern, Handler: h})
	c.log.Debug().Str("method", method).Str("pattern", pattern).Msg("registered custom route")
	return nil
}

// CustomRoutes hands the registered routes to the HTTP layer and seals the
// route set.
func (c *Controller) CustomRoutes() []httpapi.Route {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.built = true
	return append([]httpapi.Route(nil), c.custom...)
}

// Initialize loads the predictor. Readiness flips only after Load returns.
func (c *Controller) Initialize(ctx context.Context) error {
	// The logger arrives already tagged with the service name.
	c.log.Info().Msg("loading predictor")
	if err := c.pred.Load(ctx); err != nil {
		return fmt.Errorf("load predictor: %w", err)
	}
	c.mu.Lock()
	c.ready = true
	c.mu.Unlock()
	c.log.Info().Msg("predictor loaded")
	return nil
}

func (c *Controller) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

func (c *Controller) Info() types.InfoResponse {
	return types.InfoResponse{Name: c.name, Version: c.version, Endpoint: "/predict"}
}

// Predict runs the pre-transform, the model, and the post-transform.
// The Model field of the request is ignored: a controller serves one model.
func (c *Controller) Predict(ctx context.Context, req types.PredictRequest) (httpapi.Result, error) {
	if !c.Ready() {
		return httpapi.Result{}, notReadyError{}
	}
	input := req.ModelData
	if pre, ok := c.pred.(PreProcessor); ok {
		var err error
		if input, err = pre.PreProcess(ctx, input); err != nil {
			return httpapi.Result{}, err
		}
	}
	out, err := c.pred.Predict(ctx, input)
	if err != nil {
		return httpapi.Result{}, err
	}
	if post, ok := c.pred.(PostProcessor); ok {
		if out, err = post.PostProcess(ctx, out); err != nil {
			return httpapi.Result{}, err
		}
	}
	return httpapi.Result{Body: out}, nil
}

// Handler builds the HTTP surface. Exposed separately from Run for tests
// and for embedding into an existing server.
func (c *Controller) Handler() http.Handler {
	return httpapi.NewMux(c)
}

// Run loads the predictor and serves until ctx is canceled.
func (c *Controller) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	if err := c.Initialize(ctx); err != nil {
		return err
	}

	httpapi.SetBaseContext(ctx)
	srv := &http.Server{Addr: addr, Handler: c.Handler()}

	errCh := make(chan error, 1)
	go func() {
		c.log.Info().Str("addr", addr).Msg("serving")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		c.log.Warn().Err(err).Msg("graceful shutdown error")
		return err
	}
	return nil
}

// notReadyError maps to 503 while the predictor is still loading.
type notReadyError struct{}

func (notReadyError) Error() string   { return "predictor is still loading" }
func (notReadyError) StatusCode() int { return 503 }
