package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mlserve/internal/routes"
	"mlserve/pkg/types"
)

// Result is the outcome of a predict call. Status 0 means 200.
// The router relays the backend's status code through here; a controller
// always answers 200 on success.
type Result struct {
	Status int
	Body   json.RawMessage
}

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Info() types.InfoResponse
	Ready() bool
	Predict(ctx context.Context, req types.PredictRequest) (Result, error)
}

// Route is an extra endpoint mounted next to the standard surface.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// RouteProvider is implemented by services that register custom routes
// before the mux is built.
type RouteProvider interface {
	CustomRoutes() []Route
}

// RouteTable is implemented by services that expose a model route table
// (the router). When present, GET /routes is mounted.
type RouteTable interface {
	RouteTable(ctx context.Context) (map[string]string, error)
}

// NewMux builds the HTTP surface: /, /health, /ready, /predict, /metrics,
// plus /routes and any custom routes the service provides.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	r.Use(MetricsMiddleware)

	// Root info endpoint
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(svc.Info()); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
			return
		}
	})

	// Liveness. Containers publish <external>:<serving port> and operators
	// smoke-test this path, so it must answer as soon as the listener is up.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("loading"))
	})

	r.Post("/predict", predictHandler(svc))

	if rt, ok := svc.(RouteTable); ok {
		r.Get("/routes", func(w http.ResponseWriter, r *http.Request) {
			table, err := rt.RouteTable(r.Context())
			if err != nil {
				writeJSONError(w, http.StatusInternalServerError, err.Error())
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(types.RoutesResponse{Routes: table})
		})
	}

	if rp, ok := svc.(RouteProvider); ok {
		for _, cr := range rp.CustomRoutes() {
			r.Method(cr.Method, cr.Pattern, cr.Handler)
		}
	}

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

func predictHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Content-Type check
		ct := r.Header.Get("Content-Type")
		if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		// Limit body size (configurable, default 1MiB)
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var req types.PredictRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if len(req.ModelData) == 0 {
			writeJSONError(w, http.StatusBadRequest, "model_data is required")
			return
		}

		start := time.Now()
		lvl := requestLogLevel(r)
		rid := middleware.GetReqID(r.Context())
		if lvl >= LevelInfo && zlog != nil {
			z := zlog.Info().Str("path", r.URL.Path).Str("model", req.Model)
			if rid != "" {
				z = z.Str("request_id", rid)
			}
			z.Msg("predict start")
		}

		// Join server base context with request context so shutdown cancels work too.
		joinedCtx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		if predictTimeout > 0 {
			var tcancel context.CancelFunc
			joinedCtx, tcancel = context.WithTimeout(joinedCtx, time.Duration(predictTimeout)*time.Second)
			defer tcancel()
		}

		res, err := svc.Predict(joinedCtx, req)
		if err != nil {
			// If context was canceled (client disconnect or shutdown), just return.
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				return
			}
			status := http.StatusInternalServerError
			msg := err.Error()
			switch {
			case routes.IsUnknownModel(err):
				status = http.StatusNotFound
			case joinedCtx.Err() == context.DeadlineExceeded:
				status = http.StatusGatewayTimeout
				msg = "predict timed out"
			default:
				if he, ok := err.(HTTPError); ok {
					status = he.StatusCode()
				} else {
					// Do not leak internals for unexpected failures.
					msg = "unexpected error"
				}
			}
			IncrementPredictFailure(errorTypeForStatus(status))
			writeJSONError(w, status, msg)
			logPredictEnd(r, lvl, rid, status, start, err)
			return
		}

		status := res.Status
		if status == 0 {
			status = http.StatusOK
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write(res.Body)
		logPredictEnd(r, lvl, rid, status, start, nil)
	}
}

func logPredictEnd(r *http.Request, lvl LogLevel, rid string, status int, start time.Time, err error) {
	if lvl < LevelInfo || zlog == nil {
		return
	}
	z := zlog.Info().Int("status", status).Dur("dur", time.Since(start))
	if rid != "" {
		z = z.Str("request_id", rid)
	}
	if err != nil {
		z = z.Err(err)
	}
	z.Msg("predict end")
}
