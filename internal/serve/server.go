// Package serve provides a local gallery server for browsing built charts,
// with watch mode that rebuilds when the underlying datasets change.
package serve

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/scalelab/scalecharts/internal/build"
)

// Config holds configuration for the gallery server.
type Config struct {
	Builder *build.Builder
	Port    int
	Watch   bool
	Logger  *slog.Logger
}

// Server renders a gallery of the registered charts and serves their
// artifacts. In watch mode it rebuilds on dataset changes and pushes a
// reload event to connected browsers.
type Server struct {
	builder *build.Builder
	port    int
	watch   bool
	logger  *slog.Logger

	mu      sync.RWMutex
	summary *build.Summary

	clientsMu sync.Mutex
	clients   map[chan struct{}]struct{}
}

// NewServer creates a gallery server.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		builder: cfg.Builder,
		port:    cfg.Port,
		watch:   cfg.Watch,
		logger:  logger,
		clients: make(map[chan struct{}]struct{}),
	}
}

// Serve builds the charts once, then blocks serving the gallery until the
// context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.rebuild(ctx); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("gallery server running", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	r := chi.NewMux()
	r.Use(
		middleware.Recoverer,
		middleware.Compress(5),
	)
	r.Get("/", s.handleIndex)
	r.Get("/__reload", s.handleSSE)
	r.Handle("/charts/*", http.StripPrefix("/charts/",
		http.FileServer(http.Dir(s.builder.OutDir))))

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch {
		eg.Go(func() error {
			return s.watchDatasets(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down gallery server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// rebuild runs the builder and swaps in the new summary.
func (s *Server) rebuild(ctx context.Context) error {
	summary, err := s.builder.Build(ctx, nil)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.summary = summary
	s.mu.Unlock()

	for _, res := range summary.Results {
		if res.Err != nil {
			s.logger.Warn("chart failed", "chart", res.Chart, "error", res.Err)
		}
	}
	s.logger.Debug("rebuild complete",
		"run_id", summary.RunID, "succeeded", summary.Succeeded, "failed", summary.Failed)
	return nil
}

// watchDatasets rebuilds when a CSV under the data directory changes.
func (s *Server) watchDatasets(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(s.builder.DataDir); err != nil {
		return fmt.Errorf("failed to watch data directory: %w", err)
	}
	s.logger.Info("watching for dataset changes", "dir", s.builder.DataDir)

	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if filepath.Ext(event.Name) != ".csv" {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				s.logger.Debug("dataset changed", "file", filepath.Base(event.Name))
				if err := s.rebuild(ctx); err != nil {
					s.logger.Error("rebuild failed", "error", err)
					return
				}
				s.notifyClients()
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// handleSSE streams reload events to the browser.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	ch := make(chan struct{}, 1)
	s.clientsMu.Lock()
	s.clients[ch] = struct{}{}
	s.clientsMu.Unlock()

	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, ch)
		s.clientsMu.Unlock()
		close(ch)
	}()

	_, _ = fmt.Fprintf(w, "data: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ch:
			_, _ = fmt.Fprintf(w, "data: reload\n\n")
			flusher.Flush()
		}
	}
}

// notifyClients signals every connected SSE client.
func (s *Server) notifyClients() {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	for ch := range s.clients {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
