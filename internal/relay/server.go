// Package relay serves a same-origin HTTP relay in front of the Toggl API.
// Only the paths in AllowedPaths are forwarded; everything else is refused
// before any upstream request is made.
package relay

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const (
	defaultShutdownTimeout = 10 * time.Second
	defaultUpstreamTimeout = 30 * time.Second
)

// Config configures a relay Server.
type Config struct {
	Addr            string
	Upstream        string
	ShutdownTimeout time.Duration
	UpstreamTimeout time.Duration
}

// Server is the relay HTTP server.
type Server struct {
	router   *chi.Mux
	logger   *zerolog.Logger
	server   *http.Server
	upstream *url.URL
	client   *http.Client
	shutdown time.Duration
}

// NewServer builds the relay router.
func NewServer(logger zerolog.Logger, cfg Config) (*Server, error) {
	upstream, err := url.Parse(cfg.Upstream)
	if err != nil || upstream.Scheme == "" || upstream.Host == "" {
		return nil, fmt.Errorf("invalid upstream url %q", cfg.Upstream)
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	if cfg.UpstreamTimeout <= 0 {
		cfg.UpstreamTimeout = defaultUpstreamTimeout
	}

	s := &Server{
		logger:   &logger,
		upstream: upstream,
		client:   &http.Client{Timeout: cfg.UpstreamTimeout},
		shutdown: cfg.ShutdownTimeout,
	}

	router := chi.NewRouter()
	router.Use(Logger(&logger))
	router.Use(middleware.Recoverer)
	router.Use(CORS)

	router.HandleFunc("/", s.handleProxy)
	router.HandleFunc("/api-proxy", s.handleProxy)

	s.router = router
	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is done or SIGINT/SIGTERM arrives, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	go func() {
		s.logger.Info().Str("addr", s.server.Addr).Str("upstream", s.upstream.String()).Msg("starting relay")
		serverErrors <- s.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
	case <-ctx.Done():
	}
	s.logger.Info().Msg("shutdown initiated")

	sctx, cancel := context.WithTimeout(context.Background(), s.shutdown)
	defer cancel()

	err := s.server.Shutdown(sctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("graceful shutdown failed")
		err = s.server.Close()
	}
	return err
}

// ListenAddr resolves the listen address. RELAY_HOST and RELAY_PORT from the
// environment or from envFile override the parts of fallback.
func ListenAddr(envFile, fallback string) (string, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return "", fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	host, port, err := net.SplitHostPort(fallback)
	if err != nil {
		return "", fmt.Errorf("invalid relay address %q: %w", fallback, err)
	}
	if v := os.Getenv("RELAY_HOST"); v != "" {
		host = v
	}
	if v := os.Getenv("RELAY_PORT"); v != "" {
		port = v
	}
	return net.JoinHostPort(host, port), nil
}
