// Package server wires the site together: pages embedding the server rendered
// navbar, the live endpoint, metrics, health probes and graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/consenterra/website/client"
	"github.com/consenterra/website/internal/config"
	"github.com/consenterra/website/internal/nav"
	"github.com/consenterra/website/internal/website"
	"github.com/consenterra/website/internal/website/icons"
	"github.com/consenterra/website/internal/website/landing"
	"github.com/consenterra/website/pkg/core"
	"github.com/consenterra/website/pkg/health"
	"github.com/consenterra/website/pkg/limits"
	"github.com/consenterra/website/pkg/logging"
	"github.com/consenterra/website/pkg/metrics"
	"github.com/consenterra/website/pkg/router"
	"github.com/consenterra/website/pkg/shutdown"
)

// MetricsNamespace prefixes every exported collector.
const MetricsNamespace = "consenterra"

// Server serves the ConsenTerra site.
type Server struct {
	cfg     config.Config
	logger  logging.Logger
	metrics *metrics.Metrics
	version string

	live    *router.Router
	health  *health.Checker
	navOpts []nav.Option
	page    landing.Options
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics sets the metrics sink instead of a fresh registry.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithVersion sets the version reported by the health endpoint.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// New builds the server and registers every route.
func New(cfg config.Config, opts ...Option) *Server {
	s := &Server{
		cfg:     cfg,
		logger:  logging.NopLogger{},
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.NewMetrics(MetricsNamespace)
	}

	s.navOpts = []nav.Option{
		nav.WithIcons(icons.Lucide{}),
		nav.WithBrand(cfg.Site.Brand),
	}

	s.page = landing.DefaultOptions()
	s.page.BaseURL = cfg.Site.BaseURL
	s.page.LivePath = cfg.Live.Path
	s.page.Config.SiteName = cfg.Site.Brand
	s.page.Footer.LogoText = cfg.Site.Brand

	routerOpts := []router.Option{
		router.WithLogger(s.logger),
		router.WithMetrics(s.metrics),
		router.WithWebSocketConfig(cfg.Live.WebSocketConfig()),
		router.WithTransportConfig(cfg.Live.TransportConfig()),
		router.WithTimeouts(cfg.Timeouts()),
	}
	if events := cfg.Live.EventLimiter(); events != nil {
		routerOpts = append(routerOpts, router.WithEventLimiter(events))
	}
	s.live = router.New(routerOpts...)
	s.live.Mount(nav.ViewName, nav.Factory(s.navOpts...))

	s.health = s.newChecker()
	s.routes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.live.ServeHTTP(w, r)
}

// Live returns the live component router.
func (s *Server) Live() *router.Router {
	return s.live
}

// Health returns the health checker.
func (s *Server) Health() *health.Checker {
	return s.health
}

func (s *Server) routes() {
	r := s.live

	r.Use(router.RequestID())
	r.Use(router.Logger(s.logger))
	r.Use(router.Recovery(s.logger, s.metrics))
	r.Use(router.SecureHeaders())
	r.Use(router.PageViews(s.metrics))
	if s.cfg.Server.Compress {
		r.Use(router.Compress(router.CompressMinSize))
	}

	capacity := limits.Capacity(r.SocketManager().Count, s.cfg.Live.MaxConnections, func() {
		s.metrics.RecordError("socket_limit")
	})
	r.Handle("GET "+s.cfg.Live.Path, capacity(r.SocketHandler()))
	r.Handle("GET /_live/"+client.ScriptName, http.StripPrefix("/_live", client.Handler()))

	for _, page := range website.Pages() {
		pattern := "GET " + page.Path
		if page.Path == "/" {
			pattern = "GET /{$}"
		}
		r.Handle(pattern, s.pageHandler(page))
	}
	r.HandleFunc("/", s.notFound)

	r.HandleFunc("GET /robots.txt", s.robots)
	r.HandleFunc("GET /sitemap.xml", s.sitemap)

	r.Handle("GET /metrics", s.metrics.Handler())
	r.Handle("GET /healthz", s.health.HealthHandler())
	r.Handle("GET /livez", s.health.LivenessHandler())
	r.Handle("GET /readyz", s.health.ReadinessHandler())
}

func (s *Server) newChecker() *health.Checker {
	hc := health.NewChecker(s.version)
	sockets := s.live.SocketManager()

	hc.Register("navbar_render", health.RenderProbe(func(ctx context.Context) (string, error) {
		return s.renderNavbar(ctx, "/")
	}), health.Critical(), health.Timeout(2*time.Second))
	hc.Register("live_accepting", health.AcceptingProbe(sockets.IsShutdown), health.Critical(), health.Timeout(time.Second))
	hc.Register("live_sockets", health.CapacityProbe(sockets.Count, s.cfg.Live.MaxConnections), health.Timeout(time.Second))

	return hc
}

// renderNavbar server renders the navbar for path.
func (s *Server) renderNavbar(ctx context.Context, path string) (string, error) {
	return s.live.RenderStatic(ctx, nav.Factory(s.navOpts...), core.Params{"path": path})
}

func (s *Server) pageHandler(page website.Page) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderPage(w, r, page, http.StatusOK)
	}
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	page := website.NotFoundPage
	page.Path = r.URL.Path
	s.renderPage(w, r, page, http.StatusNotFound)
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, page website.Page, status int) {
	navbar, err := s.renderNavbar(r.Context(), page.Path)
	if err != nil {
		logging.L(r.Context()).Error("navbar render failed",
			logging.String("path", page.Path),
			logging.Err(err),
		)
		s.metrics.RecordError("page_render")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	doc, err := landing.RenderPage(page, navbar, s.page)
	if err != nil {
		logging.L(r.Context()).Error("page render failed",
			logging.String("path", page.Path),
			logging.Err(err),
		)
		s.metrics.RecordError("page_render")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprint(w, doc)
}

// Run listens on the configured address and serves until ctx is cancelled or
// a shutdown signal arrives.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Server.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln. Shutdown closes live sockets first, then drains the
// HTTP server.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: s.cfg.Server.ReadTimeout,
		ReadTimeout:       s.cfg.Server.ReadTimeout,
		WriteTimeout:      s.cfg.Server.WriteTimeout,
		IdleTimeout:       s.cfg.Server.IdleTimeout,
	}

	reaperCtx, stopReaper := context.WithCancel(context.Background())
	defer stopReaper()
	go s.live.RunReaper(reaperCtx)

	sd := shutdown.New(
		shutdown.WithTimeout(s.cfg.Server.ShutdownTimeout),
		shutdown.WithLogger(s.logger),
	)
	sd.Add("live", shutdown.PriorityLive, s.live.Shutdown)
	sd.Add("http", shutdown.PriorityHTTP, srv.Shutdown)
	sd.Add("reaper", shutdown.PriorityLast, func(context.Context) error {
		stopReaper()
		return nil
	})

	serveErr := make(chan error, 1)
	go func() {
		err := srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		serveErr <- err
	}()

	s.logger.Info("server listening",
		logging.String("addr", ln.Addr().String()),
		logging.String("version", s.version),
		logging.Bool("dev", s.cfg.Dev),
	)

	waitErr := make(chan error, 1)
	go func() { waitErr <- sd.Wait(ctx) }()

	select {
	case err := <-serveErr:
		if err != nil {
			s.logger.Error("server stopped", logging.Err(err))
			_ = sd.Stop()
			<-waitErr
			return err
		}
		return <-waitErr
	case err := <-waitErr:
		<-serveErr
		s.logger.Info("server stopped")
		return err
	}
}
