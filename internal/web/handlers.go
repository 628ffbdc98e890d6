package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/inovacc/journal/internal/export"
	"github.com/inovacc/journal/internal/form"
	"github.com/inovacc/journal/internal/journal"
	"github.com/inovacc/journal/internal/model"
	"github.com/inovacc/journal/internal/notify"
)

// Notices shown on the journal page.
const (
	RefreshedMessage    = "Data refreshed successfully!"
	DeletedMessage      = "Entry deleted!"
	ClearDisabledNotice = "Clearing all entries is disabled. Please delete individual entries."
	NoMatchesMessage    = "No entries match your search."
)

// Notice kinds understood by app.js.
const (
	kindInfo    = "info"
	kindConfirm = "confirm"
	kindAlert   = "alert"
)

// PageData holds data passed to templates
type PageData struct {
	Title      string
	ActivePage string
	Entries    template.HTML
	Stats      model.Stats
	Query      string
	Input      string
	FormTitle  string
	Notice     string
	NoticeKind string
	MinLength  int
	Mode       form.Mode
}

// render renders a template with the given data
func (s *Server) render(w http.ResponseWriter, status int, name string, data PageData) {
	tmpl, ok := s.templates[name]
	if !ok {
		s.logger.Error("template not found", "name", name)
		http.Error(w, "Template not found", http.StatusInternalServerError)

		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		s.logger.Error("template error", "name", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// journalPage merges, filters and renders the entry list into a PageData.
// The cards and the stats come from a single merge.
func (s *Server) journalPage(ctx context.Context, query string) (PageData, error) {
	merged := s.deps.Journal.MergeAll(ctx)
	entries := journal.Filter(merged, query)

	empty := ""
	if query != "" {
		empty = NoMatchesMessage
	}

	var buf bytes.Buffer
	if err := s.cards.RenderEmpty(&buf, entries, empty); err != nil {
		return PageData{}, err
	}

	minLength := s.deps.Form.MinLength
	if minLength <= 0 {
		minLength = model.DefaultMinLength
	}

	return PageData{
		Title:      "Journal",
		ActivePage: "journal",
		Entries:    template.HTML(buf.String()), //nolint:gosec // produced by html/template
		Stats:      journal.Summarize(merged),
		Query:      query,
		MinLength:  minLength,
		Mode:       s.deps.Form.Mode,
	}, nil
}

func (s *Server) handleJournal(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	data, err := s.journalPage(r.Context(), strings.TrimSpace(q.Get("q")))
	if err != nil {
		s.logger.Error("failed to render entries", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)

		return
	}

	switch {
	case q.Get("refresh") != "":
		data.Notice = RefreshedMessage
		data.NoticeKind = kindConfirm
	case q.Get("notice") != "":
		data.Notice = q.Get("notice")
		data.NoticeKind = noticeKind(q.Get("kind"))
	}

	s.render(w, http.StatusOK, "journal.html", data)
}

func (s *Server) handleAbout(w http.ResponseWriter, _ *http.Request) {
	s.render(w, http.StatusOK, "about.html", PageData{
		Title:      "About",
		ActivePage: "about",
	})
}

// handleSubmit runs one submission through a form.Controller. On success it
// redirects back to the journal page; otherwise the page is re-rendered with
// the input kept and the alert shown.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	alerts := &notify.Recorder{}

	cfg := s.deps.Form
	cfg.Notifier = notify.New(s.deps.Native, alerts, notify.WithLogger(s.logger))

	ctrl, err := form.New(cfg)
	if err != nil {
		s.logger.Error("failed to build form controller", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)

		return
	}

	title := r.PostFormValue("title")
	content := r.PostFormValue("content")
	ctrl.SetInput(content)

	res, err := ctrl.Submit(r.Context(), title)
	if err == nil {
		kind := kindInfo
		if res.Channel == notify.ChannelAlert {
			kind = kindConfirm
		}

		s.redirectNotice(w, r, res.Message, kind)

		return
	}

	status := http.StatusBadGateway

	var ve *model.ValidationError
	if errors.As(err, &ve) {
		status = http.StatusUnprocessableEntity
	}

	data, rerr := s.journalPage(r.Context(), "")
	if rerr != nil {
		s.logger.Error("failed to render entries", "error", rerr)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)

		return
	}

	data.Input = ctrl.Input()
	data.FormTitle = title
	data.Notice = res.Message
	data.NoticeKind = kindAlert

	s.render(w, status, "journal.html", data)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid entry id", http.StatusBadRequest)
		return
	}

	if id >= model.RemoteIDOffset {
		http.Error(w, "Server entries cannot be deleted", http.StatusBadRequest)
		return
	}

	if err := s.deps.Local.Delete(r.Context(), id); err != nil {
		s.logger.Error("failed to delete entry", "id", id, "error", err)
		http.Error(w, "Failed to delete entry", http.StatusInternalServerError)

		return
	}

	s.deps.Metrics.EntryDeleted()
	s.logger.Info("entry deleted", "id", id)
	s.redirectNotice(w, r, DeletedMessage, kindConfirm)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.redirectNotice(w, r, ClearDisabledNotice, kindAlert)
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	entries := s.deps.Journal.Search(r.Context(), strings.TrimSpace(r.URL.Query().Get("q")))
	s.jsonResponse(w, http.StatusOK, entries)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.deps.Journal.Stats(r.Context()))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	f, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		s.jsonError(w, http.StatusNotFound, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, f, s.deps.Journal.MergeAll(r.Context())); err != nil {
		s.logger.Error("export failed", "format", f, "error", err)
		s.jsonError(w, http.StatusInternalServerError, "export failed")

		return
	}

	w.Header().Set("Content-Type", export.ContentType(f))
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(f, time.Now())+`"`)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// serveAsset serves a static file from the site root.
func (s *Server) serveAsset(name, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := staticFS.ReadFile("static/" + name)
		if err != nil {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write(data)
	}
}

func (s *Server) redirectNotice(w http.ResponseWriter, r *http.Request, msg, kind string) {
	v := url.Values{}
	v.Set("notice", msg)
	v.Set("kind", kind)

	http.Redirect(w, r, "/journal?"+v.Encode(), http.StatusSeeOther)
}

func noticeKind(kind string) string {
	switch kind {
	case kindConfirm, kindAlert:
		return kind
	default:
		return kindInfo
	}
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// jsonError writes a JSON error response
func (s *Server) jsonError(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
