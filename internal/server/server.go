// Package server runs the leapnav HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/graphql-go/graphql"
	"github.com/leapstack-labs/leapnav/internal/api"
	"github.com/leapstack-labs/leapnav/internal/navigator"
	"github.com/leapstack-labs/leapnav/internal/session"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout bounds graceful shutdown of in-flight requests.
const shutdownTimeout = 5 * time.Second

// Server serves the GraphQL API over HTTP.
type Server struct {
	tree         *navigator.Tree
	sessions     *session.Manager
	schema       graphql.Schema
	sessionStore *sessions.CookieStore
	port         int
	watch        bool
	configFile   string
	reload       ReloadFunc
	logger       *slog.Logger
}

// ReloadFunc re-reads the configuration after the config file changed.
type ReloadFunc func() (navigator.Config, error)

// Config holds configuration for the server.
type Config struct {
	Tree          *navigator.Tree
	Sessions      *session.Manager
	Schema        graphql.Schema
	Port          int
	SessionSecret string
	// Watch reloads connections when ConfigFile changes.
	Watch      bool
	ConfigFile string
	Reload     ReloadFunc
	Logger     *slog.Logger
}

// New creates a server.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(int(cfg.Sessions.TTL().Seconds()))
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	return &Server{
		tree:         cfg.Tree,
		sessions:     cfg.Sessions,
		schema:       cfg.Schema,
		sessionStore: sessionStore,
		port:         cfg.Port,
		watch:        cfg.Watch,
		configFile:   cfg.ConfigFile,
		reload:       cfg.Reload,
		logger:       logger,
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requestLogger, s.withSession)
		r.Handle("/api/graphql", api.NewHandler(s.schema, s.logger))
		r.Post("/api/logout", s.logout)
	})

	return r
}

// Serve starts the server and blocks until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled, then shuts down
// gracefully, ends every session and closes all connections.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting server", "addr", "http://"+ln.Addr().String()+"/api/graphql")

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		return s.sessions.Run(egctx, 0)
	})

	if s.watch && s.configFile != "" && s.reload != nil {
		eg.Go(func() error {
			return s.watchConfig(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down server...")
		return srv.Shutdown(shutdownCtx)
	})

	err := eg.Wait()
	if cerr := s.tree.Close(); cerr != nil {
		s.logger.Error("failed to close connections", "error", cerr)
	}
	return err
}

// requestLogger logs each request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
