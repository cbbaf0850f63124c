package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/on-the-ground/composable_go/effects"
	"github.com/on-the-ground/composable_go/effects/log"
	"github.com/on-the-ground/composable_go/effects/scheduler"
	"github.com/on-the-ground/composable_go/examples/primetime/fileclient"
	"github.com/on-the-ground/composable_go/examples/primetime/primes"
	"github.com/on-the-ground/composable_go/examples/primetime/wolfram"
	"github.com/on-the-ground/composable_go/internal/config"
	"github.com/on-the-ground/composable_go/reducer"
	"github.com/on-the-ground/composable_go/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const tracerName = "github.com/on-the-ground/composable_go/cmd/primetime"

// session owns everything a command needs besides its store.
type session struct {
	cfg        *config.Config
	logger     *zap.Logger
	logActions bool
	mainQueue  *scheduler.Serial
	blobs      fileclient.Blobs
	registry   *prometheus.Registry
	server     *http.Server
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func newSession(ctx context.Context, flags *rootFlags) (*session, error) {
	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}

	blobs, err := fileclient.Open(fileclient.Options{
		Backend:   fileclient.Backend(cfg.Storage.Backend),
		Path:      cfg.Storage.Path,
		CacheSize: cfg.Storage.CacheSize,
	})
	if err != nil {
		log.Sync(logger)
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	s := &session{
		cfg:        cfg,
		logger:     logger,
		logActions: flags.logActions,
		mainQueue:  scheduler.NewSerial(ctx),
		blobs:      blobs,
	}
	if cfg.Metrics.Enabled {
		if err := s.serveMetrics(); err != nil {
			return nil, multierr.Append(err, s.Close())
		}
	}
	return s, nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	if cfg.Format == "json" {
		zc = zap.NewProductionConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing logging.level: %w", err)
	}
	zc.Level = level
	return zc.Build()
}

// serveMetrics exposes the store metrics of this session over HTTP.
func (s *session) serveMetrics() error {
	s.registry = prometheus.NewRegistry()

	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	ln, err := net.Listen("tcp", s.cfg.Metrics.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Metrics.Addr, err)
	}
	s.server = &http.Server{Handler: r, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics server stopped", zap.Error(err))
		}
	}()
	s.logger.Info("serving metrics", zap.String("addr", ln.Addr().String()))
	return nil
}

// storeOptions wires logging, tracing and, when enabled, metrics into a root store.
func storeOptions[S any](s *session, subsystem string) []store.Option[S] {
	opts := []store.Option[S]{
		store.WithLogger[S](s.logger),
		store.WithTracer[S](otel.Tracer(tracerName)),
	}
	if s.registry != nil {
		opts = append(opts, store.WithMetrics[S](
			store.WithNamespace("primetime"),
			store.WithSubsystem(subsystem),
			store.WithRegistry(s.registry),
		))
	}
	return opts
}

// decorate adds the debug and logging reducers the session is configured for.
func decorate[S, A, E any](s *session, r reducer.Reducer[S, A, E]) reducer.Reducer[S, A, E] {
	if s.logger.Core().Enabled(zap.DebugLevel) {
		r = reducer.Debug(r, s.logger)
	}
	if s.logActions {
		r = reducer.Logging(r, s.logger)
	}
	return r
}

// nthPrime picks the live or offline lookup.
func (s *session) nthPrime() func(int) effects.Effect[*int] {
	if s.cfg.Primes.Offline {
		return primes.Offline
	}
	return wolfram.New(s.cfg.Primes.AppID, s.cfg.Primes.Timeout, s.logger).NthPrime
}

func (s *session) Close() error {
	var err error
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = multierr.Append(err, s.server.Shutdown(ctx))
	}
	err = multierr.Append(err, s.blobs.Close())
	log.Sync(s.logger)
	return err
}
