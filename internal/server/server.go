// ABOUTME: Server that wires the store, auth gate, and resources behind one HTTP listener
// ABOUTME: Manages database, idempotency cache, metrics, and health endpoints lifecycle

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"tailscale.com/tsnet"

	"github.com/cs156/campus-api/internal/api"
	"github.com/cs156/campus-api/internal/auth"
	"github.com/cs156/campus-api/internal/config"
	"github.com/cs156/campus-api/internal/entities"
	"github.com/cs156/campus-api/internal/idempotency"
	"github.com/cs156/campus-api/internal/store"
)

// overridden during build with ldflags
var version = "dev"

// Version reports the build version.
func Version() string { return version }

// openTimeout bounds opening and migrating the database at startup.
const openTimeout = 30 * time.Second

// Server owns the HTTP listener and everything behind it.
type Server struct {
	config      *config.Config
	db          *store.DB
	idem        *idempotency.Cache
	verifier    *auth.JWTVerifier
	httpServer  *http.Server
	tsnetServer *tsnet.Server
	rateLimiter *rate.Limiter
	registry    *prometheus.Registry
	metrics     *metrics
	logger      *slog.Logger
	startedAt   time.Time

	closeOnce sync.Once
}

// OpenStore opens and migrates the database named by cfg. The CLI uses it
// for principal and token management outside a running server.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*store.DB, error) {
	dialect, err := store.ParseDialect(cfg.Driver)
	if err != nil {
		return nil, err
	}

	dsn := cfg.Path
	if dialect == store.DialectPostgres {
		dsn = cfg.DSN
	}

	db, err := store.Open(ctx, dialect, dsn, logger)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx, entities.Tables()...); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return db, nil
}

// newResource builds the storage table and handler for one kind.
func newResource[T any](db *store.DB, kind api.Kind[T], idem *idempotency.Cache, logger *slog.Logger) (api.Routes, error) {
	table, err := store.NewTable(db, kind.Schema)
	if err != nil {
		return nil, fmt.Errorf("creating %s table: %w", kind.Name(), err)
	}
	return api.NewResource(kind, table, idem, logger), nil
}

func buildResources(db *store.DB, idem *idempotency.Cache, logger *slog.Logger) ([]api.Routes, error) {
	builders := []func() (api.Routes, error){
		func() (api.Routes, error) { return newResource(db, api.HelpRequests, idem, logger) },
		func() (api.Routes, error) { return newResource(db, api.MenuItemReviews, idem, logger) },
		func() (api.Routes, error) { return newResource(db, api.DiningCommonsMenuItems, idem, logger) },
		func() (api.Routes, error) { return newResource(db, api.Articles, idem, logger) },
		func() (api.Routes, error) { return newResource(db, api.Organizations, idem, logger) },
		func() (api.Routes, error) { return newResource(db, api.RecommendationRequests, idem, logger) },
	}

	routes := make([]api.Routes, 0, len(builders))
	for _, build := range builders {
		r, err := build()
		if err != nil {
			return nil, err
		}
		routes = append(routes, r)
	}
	return routes, nil
}

// New creates a Server: it opens and migrates the database and registers
// every route. Nothing listens until Run.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	verifier, err := auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("creating JWT verifier: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), openTimeout)
	defer cancel()
	db, err := OpenStore(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	idem := idempotency.New(cfg.Idempotency.TTL, cfg.Idempotency.MaxEntries)

	resources, err := buildResources(db, idem, logger)
	if err != nil {
		idem.Close()
		_ = db.Close()
		return nil, err
	}

	registry := prometheus.NewRegistry()
	s := &Server{
		config:    cfg,
		db:        db,
		idem:      idem,
		verifier:  verifier,
		registry:  registry,
		metrics:   newMetrics(registry),
		logger:    logger.With("component", "server"),
		startedAt: time.Now().UTC(),
	}
	if cfg.Server.RateLimit > 0 {
		s.rateLimiter = rate.NewLimiter(rate.Limit(cfg.Server.RateLimit), cfg.Server.RateLimitBurst)
	}

	gate := auth.NewGate(db, db, verifier, logger.With("component", "auth"))

	apiMux := http.NewServeMux()
	api.RegisterSystem(apiMux, gate, api.SystemInfo{
		Version:        version,
		Database:       string(db.Dialect()),
		MetricsEnabled: cfg.Metrics.Enabled,
		StartedAt:      s.startedAt,
	})
	for _, r := range resources {
		r.Register(apiMux, gate)
	}

	// System endpoints skip rate limiting and request logging.
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /health/ready", s.handleReady)
	if cfg.Metrics.Enabled {
		mux.Handle("GET "+cfg.Metrics.Path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}
	mux.Handle("/", s.withMiddleware(apiMux))

	s.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	return s, nil
}

// Handler returns the root handler with all routes and middleware.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// Store returns the underlying database.
func (s *Server) Store() *store.DB { return s.db }

// setupListener creates the HTTP listener based on configuration (Tailscale or TCP).
func (s *Server) setupListener(ctx context.Context) (net.Listener, error) {
	if s.config.Tailscale.Enabled {
		if s.config.Server.HTTPAddr != "" {
			s.logger.Warn("server.http_addr is ignored when tailscale is enabled", "http_addr", s.config.Server.HTTPAddr)
		}
		return s.setupTailscaleListener(ctx)
	}

	ln, err := net.Listen("tcp", s.config.Server.HTTPAddr)
	if err != nil {
		return nil, fmt.Errorf("listening on HTTP address: %w", err)
	}
	return ln, nil
}

// Run serves until ctx is canceled or the listener fails, then shuts down.
// Returns nil on graceful shutdown.
func (s *Server) Run(ctx context.Context) error {
	ln, err := s.setupListener(ctx)
	if err != nil {
		s.closeResources()
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("HTTP server listening", "addr", ln.Addr().String(), "version", version)
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("context canceled, initiating shutdown")
		// The parent context is already done; shutdown gets its own deadline.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// appendCloseError appends an error with label if err is non-nil.
func appendCloseError(errs []error, label string, err error) []error {
	if err != nil {
		return append(errs, fmt.Errorf("%s: %w", label, err))
	}
	return errs
}

// Shutdown stops the HTTP server and releases the store, cache, and
// tailnet node.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")

	var errs []error
	errs = appendCloseError(errs, "HTTP shutdown", s.httpServer.Shutdown(ctx))
	errs = append(errs, s.closeResources()...)

	return errors.Join(errs...)
}

func (s *Server) closeResources() []error {
	var errs []error
	s.closeOnce.Do(func() {
		if s.tsnetServer != nil {
			errs = appendCloseError(errs, "tailscale shutdown", s.tsnetServer.Close())
		}
		errs = appendCloseError(errs, "store close", s.db.Close())
		s.idem.Close()
	})
	return errs
}

// handleHealth returns 200 OK if the process is alive.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleReady returns 200 OK when the database answers a ping.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn("readiness check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("database unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "ready (%s)", s.db.Dialect())
}
