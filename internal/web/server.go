package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"github.com/inovacc/journal/internal/form"
	"github.com/inovacc/journal/internal/journal"
	"github.com/inovacc/journal/internal/metrics"
	"github.com/inovacc/journal/internal/notify"
	"github.com/inovacc/journal/internal/reflections"
	"github.com/inovacc/journal/internal/render"
	"github.com/inovacc/journal/internal/store"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Config holds the web server configuration
type Config struct {
	Port        int
	Host        string
	OpenBrowser bool
}

// DefaultConfig returns the default web server configuration
func DefaultConfig() Config {
	return Config{
		Port:        8080,
		Host:        "127.0.0.1",
		OpenBrowser: false,
	}
}

// Deps are the components the server renders and mutates. Journal, Local and
// Form are required.
type Deps struct {
	Journal *journal.Journal
	Local   *store.Local

	// Form is copied for every submission and only the Notifier is filled in per
	// request. The list re-renders through the redirect back to /journal.
	Form form.Config

	// Native is the server-side notification channel, may be nil.
	Native notify.Native

	// Reflections, when set, is mounted at /api/reflections.
	Reflections *reflections.API

	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// Server represents the web server
type Server struct {
	config     Config
	deps       Deps
	logger     *slog.Logger
	templates  map[string]*template.Template
	cards      *render.HTML
	httpServer *http.Server
	listener   net.Listener
}

// New creates a new web server
func New(config Config, deps Deps) (*Server, error) {
	if deps.Journal == nil || deps.Local == nil {
		return nil, errors.New("web: journal and local store are required")
	}

	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	if deps.Form.Mode == form.ModeRemote && deps.Form.Remote == nil {
		return nil, errors.New("web: remote mode needs a publisher")
	}

	deps.Form.Local = deps.Local
	deps.Form.Metrics = deps.Metrics
	deps.Form.Logger = deps.Logger

	if deps.Form.Mode == "" {
		deps.Form.Mode = form.ModeLocal
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	cards, err := render.NewHTML()
	if err != nil {
		return nil, err
	}

	return &Server{
		config:    config,
		deps:      deps,
		logger:    deps.Logger,
		templates: tmpl,
		cards:     cards,
	}, nil
}

// parseTemplates parses all embedded HTML templates
// Each page gets its own template instance to avoid content block conflicts
func parseTemplates() (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template)

	for _, page := range []string{"journal.html", "about.html"} {
		tmpl, err := template.New("").Funcs(render.FuncMap()).ParseFS(templatesFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", page, err)
		}

		templates[page] = tmpl
	}

	return templates, nil
}

// Listen binds the configured address. Port 0 picks a free port.
func (s *Server) Listen() (net.Addr, error) {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to start server: %w", err)
	}

	s.listener = listener

	return listener.Addr(), nil
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	if s.listener == nil {
		if _, err := s.Listen(); err != nil {
			return err
		}
	}

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	url := "http://" + s.listener.Addr().String()

	if s.config.OpenBrowser {
		go func() {
			// Small delay to ensure server is ready
			time.Sleep(100 * time.Millisecond)

			if err := openBrowser(url); err != nil {
				s.logger.Warn("failed to open browser, open manually", "url", url, "error", err)
			}
		}()
	}

	s.logger.Info("web server starting", "url", url)

	errCh := make(chan error, 1)

	go func() {
		if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	return s.Shutdown(context.Background()) //nolint:contextcheck // parent context cancelled, use background for shutdown
}

// Shutdown gracefully shuts down the web server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	s.logger.Info("shutting down web server")

	return s.httpServer.Shutdown(shutdownCtx)
}

// openBrowser opens the default browser to the given URL
func openBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
