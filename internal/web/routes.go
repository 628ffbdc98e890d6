package web

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.loggingMiddleware)

	// Static files
	staticSubFS, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticSubFS))))
	r.Get("/sw.js", s.serveAsset("sw.js", "application/javascript"))
	r.Get("/manifest.json", s.serveAsset("manifest.json", "application/manifest+json"))

	// Pages
	r.Get("/", s.handleJournal)
	r.Get("/journal", s.handleJournal)
	r.Get("/about", s.handleAbout)

	// Form actions
	r.Post("/entries", s.handleSubmit)
	r.Post("/entries/{id}/delete", s.handleDelete)
	r.Post("/entries/clear", s.handleClear)

	// JSON API
	r.Get("/api/entries", s.handleListEntries)
	r.Get("/api/stats", s.handleStats)
	r.Get("/export.{format}", s.handleExport)

	if s.deps.Reflections != nil {
		r.Mount("/api/reflections", s.deps.Reflections.Routes())
	}

	// System
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", s.deps.Metrics.Handler())

	return r
}

// loggingMiddleware logs HTTP requests and records their metrics
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		elapsed := time.Since(start)
		s.deps.Metrics.ObserveHTTP(r.Method, route, status, elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", elapsed,
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
