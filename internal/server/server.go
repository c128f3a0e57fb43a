// Package server implements the preview development server: it loads
// definitions, serves the preview shell, and keeps browsers in sync over
// WebSocket as definition files change on disk.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/protofab/protofab/internal/config"
	"github.com/protofab/protofab/internal/errors"
	"github.com/protofab/protofab/internal/icons"
	"github.com/protofab/protofab/internal/logging"
	"github.com/protofab/protofab/internal/registry"
	"github.com/protofab/protofab/internal/renderer"
	"github.com/protofab/protofab/internal/watcher"
)

// PreviewServer serves component previews with live reload capability
type PreviewServer struct {
	config      *config.Config
	logger      logging.Logger
	registry    *registry.DefinitionRegistry
	loader      *registry.Loader
	renderer    *renderer.Renderer
	watcher     *watcher.FileWatcher
	httpServer  *http.Server
	serverMutex sync.RWMutex

	clients      map[*websocket.Conn]*Client
	clientsMutex sync.RWMutex
	broadcast    chan []byte
	register     chan *Client
	unregister   chan *websocket.Conn
}

// UpdateMessage represents a message pushed to every connected browser
type UpdateMessage struct {
	Type      string    `json:"type"`
	Target    string    `json:"target,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// New creates a new preview server
func New(cfg *config.Config, logger logging.Logger) (*PreviewServer, error) {
	if logger == nil {
		logger = logging.NopLogger{}
	}

	fileWatcher, err := watcher.NewFileWatcher(300*time.Millisecond, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	reg := registry.NewDefinitionRegistry()

	return &PreviewServer{
		config:     cfg,
		logger:     logger.WithComponent("server"),
		registry:   reg,
		loader:     registry.NewLoader(reg, errors.NewErrorCollector(), logger),
		renderer:   renderer.New(icons.NewRegistry()),
		watcher:    fileWatcher,
		clients:    make(map[*websocket.Conn]*Client),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *websocket.Conn),
	}, nil
}

// Registry exposes the definition registry, mainly for tests.
func (s *PreviewServer) Registry() *registry.DefinitionRegistry {
	return s.registry
}

// Start starts the preview server and blocks until it stops.
func (s *PreviewServer) Start(ctx context.Context) error {
	loaded, err := s.loader.LoadPaths(ctx, s.config.Components.Paths)
	if err != nil {
		return fmt.Errorf("initial definition load: %w", err)
	}
	s.logger.Info(ctx, "definitions loaded", "count", loaded)
	for _, defErr := range s.loader.Collector().GetErrors() {
		s.logger.Warn(ctx, nil, "invalid definition", "detail", defErr.Error())
	}

	if s.config.Development.HotReload {
		s.setupFileWatcher(ctx)
	}

	go s.runWebSocketHub(ctx)
	go s.watchRegistry(ctx)

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.serverMutex.Lock()
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
	srv := s.httpServer
	s.serverMutex.Unlock()

	if s.config.Server.Open {
		go s.openBrowser(fmt.Sprintf("http://%s", addr))
	}

	s.logger.Info(ctx, "preview server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Handler builds the HTTP route table.
func (s *PreviewServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/definitions", s.handleDefinitions)
	mux.HandleFunc("/api/definitions/", s.handleDefinition)
	mux.HandleFunc("/preview/", s.handlePreview)
	mux.HandleFunc("/", s.handleIndex)
	return s.withLogging(mux)
}

// Shutdown gracefully stops the HTTP server and the file watcher.
func (s *PreviewServer) Shutdown(ctx context.Context) error {
	if err := s.watcher.Stop(); err != nil {
		s.logger.Warn(ctx, err, "stopping file watcher")
	}

	s.serverMutex.RLock()
	srv := s.httpServer
	s.serverMutex.RUnlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *PreviewServer) setupFileWatcher(ctx context.Context) {
	s.watcher.AddFilter(watcher.DefinitionFilter)
	s.watcher.AddFilter(watcher.NoHiddenFilter)
	if len(s.config.Components.ExcludePatterns) > 0 {
		s.watcher.AddFilter(watcher.ExcludePatternFilter(s.config.Components.ExcludePatterns))
	}

	s.watcher.AddHandler(s.handleFileChange)

	for _, path := range s.config.Components.Paths {
		if err := s.watcher.AddRecursive(path); err != nil {
			s.logger.Warn(ctx, err, "failed to watch path", "path", path)
		}
	}

	if err := s.watcher.Start(ctx); err != nil {
		s.logger.Warn(ctx, err, "failed to start file watcher")
	}
}

func (s *PreviewServer) handleFileChange(events []watcher.ChangeEvent) error {
	ctx := context.Background()

	for _, event := range events {
		s.logger.Debug(ctx, "file changed",
			"path", event.Path,
			"type", event.Type.String())

		switch event.Type {
		case watcher.EventTypeDeleted, watcher.EventTypeRenamed:
			if name, ok := s.loader.DefinitionForFile(event.Path); ok {
				s.registry.Remove(name)
				s.loader.Forget(event.Path)
			}
		default:
			if err := s.loader.LoadFile(ctx, event.Path); err != nil {
				s.logger.Warn(ctx, err, "reload failed", "path", event.Path)
			}
		}
	}
	return nil
}

// watchRegistry pushes a reload message to every browser whenever the
// definition set changes. Sessions re-select their definition in response,
// which rebuilds their instance against the new version.
func (s *PreviewServer) watchRegistry(ctx context.Context) {
	events := s.registry.Watch()
	defer s.registry.UnWatch(events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			target := ""
			if event.Definition != nil {
				target = event.Definition.Name
			}
			s.broadcastMessage(UpdateMessage{
				Type:      "reload",
				Target:    target,
				Timestamp: event.Timestamp,
			})
		}
	}
}

func (s *PreviewServer) openBrowser(url string) {
	time.Sleep(100 * time.Millisecond) // Give server time to start

	var err error
	switch runtime.GOOS {
	case "linux":
		err = exec.Command("xdg-open", url).Start()
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		err = exec.Command("open", url).Start()
	default:
		err = fmt.Errorf("unsupported platform")
	}

	if err != nil {
		s.logger.Warn(context.Background(), err, "failed to open browser")
	}
}

func (s *PreviewServer) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start).String())
	})
}
