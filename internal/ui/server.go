// Package ui provides the web dashboard for reference spectra.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/refdash/internal/charts"
	"github.com/leapstack-labs/refdash/internal/export"
	"github.com/leapstack-labs/refdash/internal/metrics"
	"github.com/leapstack-labs/refdash/internal/reference"
	"github.com/leapstack-labs/refdash/internal/seed"
	"github.com/leapstack-labs/refdash/internal/ui/features/common"
	"github.com/leapstack-labs/refdash/internal/ui/notifier"
	"github.com/leapstack-labs/refdash/internal/ui/router"
)

// debounce collapses bursts of file events into one reseed.
const debounce = 100 * time.Millisecond

// Server is the dashboard HTTP server.
type Server struct {
	deps          common.Deps
	seeder        *seed.Seeder
	seedsDir      string
	port          int
	watch         bool
	statusRefresh time.Duration
	logger        *slog.Logger
}

// Config holds configuration for the UI server.
type Config struct {
	Repository    *reference.Repository
	Exporter      *export.Exporter
	Charts        charts.Renderer
	Metrics       *metrics.Metrics
	Seeder        *seed.Seeder
	SeedsDir      string
	Port          int
	Watch         bool
	SessionSecret string
	StatusRefresh time.Duration
	QueryTimeout  time.Duration
	Logger        *slog.Logger
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	deps := common.Deps{
		Repository:   cfg.Repository,
		Exporter:     cfg.Exporter,
		Charts:       cfg.Charts,
		Sessions:     sessionStore,
		Notifier:     notifier.New(),
		Metrics:      cfg.Metrics,
		QueryTimeout: cfg.QueryTimeout,
		Logger:       logger,
	}

	return &Server{
		deps:          deps.WithDefaults(),
		seeder:        cfg.Seeder,
		seedsDir:      cfg.SeedsDir,
		port:          cfg.Port,
		watch:         cfg.Watch,
		statusRefresh: cfg.StatusRefresh,
		logger:        logger,
	}
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.deps.Notifier
}

// Handler builds the routed handler with the standard middleware.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	if err := router.SetupRoutes(r, s.deps); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting UI server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	handler, err := s.Handler()
	if err != nil {
		return err
	}

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch {
		watcher, err := s.newWatcher()
		if err != nil {
			s.logger.Error("failed to watch seeds directory", "dir", s.seedsDir, "error", err)
		} else {
			eg.Go(func() error {
				return s.watchLoop(egctx, watcher)
			})
		}
	}

	if s.statusRefresh > 0 {
		eg.Go(func() error {
			return s.refreshStatus(egctx)
		})
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// refreshStatus periodically asks every open board to re-render.
func (s *Server) refreshStatus(ctx context.Context) error {
	ticker := time.NewTicker(s.statusRefresh)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.deps.Notifier.Broadcast(notifier.EventStatus)
		}
	}
}

// Reseed reloads the seeds directory, drops cached results, and tells
// every open page to reload.
func (s *Server) Reseed(ctx context.Context) error {
	if s.seeder == nil {
		return seed.ErrUnsupportedBackend
	}
	results, err := s.seeder.LoadDir(ctx, s.seedsDir)
	if err != nil {
		return err
	}
	s.deps.Repository.Cache().Flush()
	s.logger.Info("reseeded", "files", len(results))
	s.deps.Notifier.Broadcast(notifier.EventReload)
	return nil
}

func (s *Server) newWatcher() (*fsnotify.Watcher, error) {
	if s.seeder == nil {
		return nil, seed.ErrUnsupportedBackend
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(s.seedsDir); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	return watcher, nil
}

// watchLoop reseeds after fixture files in the seeds directory change.
func (s *Server) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) error {
	defer func() { _ = watcher.Close() }()

	// Debounce timer
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Ext(event.Name) != seed.FileExt {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			name := event.Name
			debounceTimer = time.AfterFunc(debounce, func() {
				s.logger.Debug("seed file changed, reloading", "file", name)
				if err := s.Reseed(ctx); err != nil {
					s.logger.Error("reseed failed", "error", err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}
