// Package server exposes the stamp orchestrator over a small loopback HTTP API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"kanstamp/internal/docstore"
	"kanstamp/internal/journal"
	"kanstamp/internal/kanban"
	"kanstamp/internal/stamper"
)

const (
	apiTokenEnvKey     = "KANSTAMP_API_TOKEN"
	allowRemoteEnvKey  = "KANSTAMP_ALLOW_REMOTE"
	readHeaderTimeout  = 5 * time.Second
	readTimeout        = 30 * time.Second
	writeTimeout       = 60 * time.Second
	idleTimeout        = 60 * time.Second
	shutdownTimeout    = 5 * time.Second
	stampConcurrency   = 4
	defaultJSONMaxBody = 64 * 1024
)

// Stamper runs one stamp cycle.
type Stamper interface {
	Stamp(ctx context.Context, path string, trigger stamper.Trigger) (stamper.Result, error)
}

// RunLister lists recorded runs.
type RunLister interface {
	Recent(ctx context.Context, limit int) ([]journal.Run, error)
}

// Deps are the collaborators the handlers use. Runs may be nil when the
// journal is disabled.
type Deps struct {
	Stamper      Stamper
	Store        docstore.Store
	Runs         RunLister
	BoardOptions kanban.Options
	BoardPath    string
	Now          func() time.Time
}

// Server wraps HTTP handlers for the kanstamp API.
type Server struct {
	addr         string
	stamper      Stamper
	store        docstore.Store
	runs         RunLister
	opts         kanban.Options
	boardPath    string
	now          func() time.Time
	logger       *slog.Logger
	apiToken     string
	stampLimiter chan struct{}
}

// New creates a new server instance.
func New(addr string, deps Deps, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Server{
		addr:         addr,
		stamper:      deps.Stamper,
		store:        deps.Store,
		runs:         deps.Runs,
		opts:         deps.BoardOptions,
		boardPath:    deps.BoardPath,
		now:          now,
		logger:       logger.With("component", "server"),
		apiToken:     strings.TrimSpace(os.Getenv(apiTokenEnvKey)),
		stampLimiter: make(chan struct{}, stampConcurrency),
	}
}

// Handler returns the routed handler with auth applied. Request logging runs
// as router middleware so the matched route template is known.
func (s *Server) Handler() http.Handler {
	return s.withAuth(s.routes())
}

// ListenAndServe starts the HTTP server and shuts it down when ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.log().Info("starting server", "addr", s.addr)
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log().Info("stopping server", "addr", s.addr)
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

// ListenAddr converts a base API URL into a listen address.
func ListenAddr(apiURL string) (string, error) {
	if apiURL == "" {
		return "", fmt.Errorf("api url is required")
	}
	if u, err := url.Parse(apiURL); err == nil && u.Host != "" {
		host := u.Hostname()
		if !isAllowedListenHost(host) {
			return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
		}
		return u.Host, nil
	}

	host, _, err := net.SplitHostPort(apiURL)
	if err == nil && !isAllowedListenHost(host) {
		return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
	}

	return apiURL, nil
}

func isAllowedListenHost(host string) bool {
	if host == "" {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv(allowRemoteEnvKey)), "true") {
		return true
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func (s *Server) acquireLimiter(limiter chan struct{}, w http.ResponseWriter, r *http.Request, name string) bool {
	if limiter == nil {
		return true
	}
	select {
	case limiter <- struct{}{}:
		return true
	default:
		err := apiError{
			status:  http.StatusTooManyRequests,
			code:    "resource_exhausted",
			errCode: ErrCodeResourceExhausted,
			err:     fmt.Errorf("too many concurrent %s requests", name),
		}
		s.writeErrorReq(w, r, http.StatusTooManyRequests, err)
		return false
	}
}

func (s *Server) releaseLimiter(limiter chan struct{}) {
	if limiter == nil {
		return
	}
	select {
	case <-limiter:
	default:
	}
}

func (s *Server) log() *slog.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
