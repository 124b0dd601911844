package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"mlserve/internal/common/fsutil"
	"mlserve/internal/config"
	"mlserve/internal/httpapi"
	"mlserve/internal/router"
	"mlserve/internal/routes"
	"mlserve/internal/serving"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// splitCSV turns "a, b,c" into ["a","b","c"], dropping empties.
func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// options holds the daemon's flag values before they are merged with the
// config file.
type options struct {
	addr         string
	mode         string
	configPath   string
	routesFile   string
	redisAddr    string
	defaultModel string
	logLevel     string
}

func registerFlags(fs *flag.FlagSet) *options {
	o := &options{}
	fs.StringVar(&o.addr, "addr", envOr("MLSERVE_ADDR", ":8000"), "HTTP listen address, e.g. :8000")
	fs.StringVar(&o.mode, "mode", envOr("MLSERVE_MODE", "router"), "Serving mode: router or echo")
	fs.StringVar(&o.configPath, "config", os.Getenv("MLSERVE_CONFIG"), "Optional config file (.yaml, .json or .toml)")
	fs.StringVar(&o.routesFile, "routes-file", envOr("MLSERVE_ROUTES_FILE", config.DefaultRoutesFile), "Route table file for router mode")
	fs.StringVar(&o.redisAddr, "redis-addr", os.Getenv("MLSERVE_REDIS_ADDR"), "Redis address for the route table (overrides -routes-file)")
	fs.StringVar(&o.defaultModel, "default-model", os.Getenv("MLSERVE_DEFAULT_MODEL"), "Model used when a request omits model")
	fs.StringVar(&o.logLevel, "log-level", envOr("MLSERVE_LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	return o
}

// mergeConfig layers flag values over the file config. A flag the user set
// explicitly wins over the file; flag defaults only fill fields the file
// left empty.
func mergeConfig(cfg config.Config, fs *flag.FlagSet, o *options) config.Config {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["addr"] || cfg.Addr == "" {
		cfg.Addr = o.addr
	}
	if set["routes-file"] || cfg.RoutesFile == "" {
		cfg.RoutesFile = o.routesFile
	}
	if set["redis-addr"] || cfg.RedisAddr == "" {
		cfg.RedisAddr = o.redisAddr
	}
	if set["default-model"] || cfg.DefaultModel == "" {
		cfg.DefaultModel = o.defaultModel
	}
	if set["log-level"] || cfg.LogLevel == "" {
		cfg.LogLevel = o.logLevel
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "mlrouter"
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = "1.0.0"
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = splitCSV(os.Getenv("MLSERVE_CORS_ORIGINS"))
		cfg.CORSEnabled = cfg.CORSEnabled || len(cfg.CORSOrigins) > 0
	}
	return cfg
}

func main() {
	opts := registerFlags(flag.CommandLine)
	flag.Parse()

	var cfg config.Config
	if opts.configPath != "" {
		var err error
		cfg, err = config.Load(opts.configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg = mergeConfig(cfg, flag.CommandLine, opts)

	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Str("service", cfg.ServiceName).Logger()

	httpapi.SetLogger(log)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetPredictTimeoutSeconds(cfg.PredictTimeout)
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins, cfg.CORSMethods, cfg.CORSHeaders)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var handler http.Handler
	switch opts.mode {
	case "router":
		var store routes.Store
		if cfg.RedisAddr != "" {
			rs, err := routes.NewRedisStore(ctx, cfg.RedisAddr)
			if err != nil {
				log.Fatal().Err(err).Str("redis_addr", cfg.RedisAddr).Msg("connect to redis")
			}
			defer rs.Close()
			store = rs
			log.Info().Str("redis_addr", cfg.RedisAddr).Msg("using redis route table")
		} else {
			path, err := fsutil.ExpandHome(cfg.RoutesFile)
			if err != nil {
				log.Fatal().Err(err).Msg("resolve routes file")
			}
			store = routes.NewFileStore(path)
			log.Info().Str("routes_file", path).Msg("using file route table")
		}
		rt := router.New(store, time.Duration(cfg.PredictTimeout)*time.Second, 0, log)
		if cfg.DefaultModel != "" {
			rt.SetDefaultModel(cfg.DefaultModel)
		}
		handler = httpapi.NewMux(rt)
	case "echo":
		ctl := serving.NewController(cfg.ServiceName, cfg.ServiceVersion, serving.EchoPredictor{}, log)
		if err := ctl.Initialize(ctx); err != nil {
			log.Fatal().Err(err).Msg("initialize predictor")
		}
		handler = ctl.Handler()
	default:
		log.Fatal().Str("mode", opts.mode).Msg("unknown mode, want router or echo")
	}

	httpapi.SetBaseContext(ctx)
	srv := &http.Server{Addr: cfg.Addr, Handler: handler}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("mode", opts.mode).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.Fatal().Err(err).Msg("server error")
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
	}
}
