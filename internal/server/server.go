package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/enbility/zeroconf/v3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/groupkit/internal/config"
	kiterrors "github.com/vango-dev/groupkit/internal/errors"
	"github.com/vango-dev/groupkit/pkg/persist"
	"github.com/vango-dev/groupkit/pkg/telemetry"
)

const (
	// ServiceType is the mDNS service type the server advertises.
	ServiceType = "_groupkit._tcp"

	mdnsDomain      = "local."
	shutdownTimeout = 10 * time.Second
)

// Server is the HTTP and WebSocket host of a Hub.
type Server struct {
	config   *config.Config
	hub      *Hub
	store    persist.Store
	ownStore bool
	registry *prometheus.Registry
	router   chi.Router
	upgrader websocket.Upgrader
	logger   *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

// Option configures a Server.
type Option func(*options)

type options struct {
	logger         *slog.Logger
	store          persist.Store
	registry       *prometheus.Registry
	tracerProvider trace.TracerProvider
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSnapshotStore overrides the store built from the configuration.
func WithSnapshotStore(store persist.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithRegistry sets the registry served on /metrics.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(o *options) {
		o.registry = registry
	}
}

// WithTracerProvider sets the provider used when tracing is enabled.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

// New builds the hub and routes for cfg.
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		config: cfg,
		logger: o.logger.With("component", "server"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}

	s.store = o.store
	if s.store == nil {
		store, err := persist.Open(context.Background(), cfg.StoreOptions())
		if err != nil {
			return nil, err
		}
		s.store = store
		s.ownStore = true
	}

	hubOpts := []HubOption{WithHubLogger(o.logger), WithStore(s.store)}
	if cfg.Metrics.Enabled {
		s.registry = o.registry
		if s.registry == nil {
			s.registry = prometheus.NewRegistry()
			s.registry.MustRegister(collectors.NewGoCollector())
		}
		hubOpts = append(hubOpts, WithGroupObserver(telemetry.NewObserver(
			telemetry.WithNamespace(cfg.Metrics.Namespace),
			telemetry.WithRegistry(s.registry),
		)))
	}
	if cfg.Tracing.Enabled {
		traceOpts := []telemetry.TraceOption{telemetry.WithTracerName(cfg.Tracing.TracerName)}
		if o.tracerProvider != nil {
			traceOpts = append(traceOpts, telemetry.WithTracerProvider(o.tracerProvider))
		}
		hubOpts = append(hubOpts, WithTracer(telemetry.NewTracer(traceOpts...)))
	}

	hub, err := NewHub(cfg.Groups, hubOpts...)
	if err != nil {
		if s.ownStore {
			s.store.Close()
		}
		return nil, err
	}
	s.hub = hub
	s.router = s.routes()
	return s, nil
}

// Hub returns the server's rooms.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "groups": len(s.hub.Names())})
	})
	if s.registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	r.Route("/groups", s.groupRoutes)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		ke := kiterrors.New("G042").WithDetailf("no route for %s %s", r.Method, r.URL.Path)
		writeJSON(w, http.StatusNotFound, map[string]any{"error": ke})
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	room, ok := s.room(w, r)
	if !ok {
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := newClient(room, conn, s.config.Server.ReadTimeoutDuration())
	if err := room.attach(c); err != nil {
		c.close()
		return
	}
	go c.writeLoop()
	go c.readLoop()
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Server.Addr)
	if err != nil {
		return kiterrors.New("G050").WithDetailf("listen on %s", s.config.Server.Addr).Wrap(err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.config.Server.ReadTimeoutDuration(),
	}

	if s.config.Server.Advertise {
		mdns, err := s.advertise(ln.Addr())
		if err != nil {
			s.logger.Warn("mdns advertisement failed", "error", err)
		} else {
			defer mdns.Shutdown()
		}
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", ln.Addr().String(), "groups", s.hub.Names())
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		s.close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := httpServer.Shutdown(shutdownCtx)
	s.close()
	return err
}

// Close releases the rooms and, when the server opened it, the snapshot store.
func (s *Server) Close() error {
	return s.close()
}

func (s *Server) close() error {
	s.closeOnce.Do(func() {
		s.hub.Close()
		if s.ownStore {
			s.closeErr = s.store.Close()
		}
	})
	return s.closeErr
}

// advertise announces the server as _groupkit._tcp on the local network.
func (s *Server) advertise(addr net.Addr) (*zeroconf.Server, error) {
	tcp, ok := addr.(*net.TCPAddr)
	if !ok {
		return nil, fmt.Errorf("cannot advertise %s address", addr.Network())
	}

	host, _ := os.Hostname()
	if host == "" {
		host = "groupkit"
	}
	txt := []string{"groups=" + strings.Join(s.hub.Names(), ",")}

	server, err := zeroconf.Register("groupkit-"+host, ServiceType, mdnsDomain, tcp.Port, txt, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register %s: %w", ServiceType, err)
	}
	s.logger.Info("advertising", "service", ServiceType, "port", tcp.Port)
	return server, nil
}
