package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/inovacc/journal/internal/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

// HTML renders entries as the cards of the journal page.
type HTML struct {
	tmpl *template.Template

	// DeleteAction is the path prefix delete forms post to (default "/entries").
	DeleteAction string

	// Empty replaces EmptyMessage, e.g. for search results.
	Empty string
}

type htmlData struct {
	Entries      []model.Entry
	DeleteAction string
	Empty        string
}

// FuncMap returns the template helpers used by the entry cards.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"wordCount": WordCount,
		"cardClass": func(e model.Entry) string {
			if e.Source == model.SourceRemote {
				return "remote-entry"
			}

			return "local-entry"
		},
		"badgeClass": func(e model.Entry) string {
			if e.Source == model.SourceRemote {
				return "remote-badge"
			}

			return "local-badge"
		},
	}
}

func NewHTML() (*HTML, error) {
	tmpl, err := template.New("").Funcs(FuncMap()).ParseFS(templatesFS, "templates/entries.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse entry templates: %w", err)
	}

	return &HTML{tmpl: tmpl, DeleteAction: "/entries"}, nil
}

// Render writes the whole entries region; callers replace the previous region with it.
func (h *HTML) Render(w io.Writer, entries []model.Entry) error {
	return h.render(w, entries, h.Empty)
}

// RenderEmpty is Render with a custom empty-state message.
func (h *HTML) RenderEmpty(w io.Writer, entries []model.Entry, empty string) error {
	return h.render(w, entries, empty)
}

func (h *HTML) render(w io.Writer, entries []model.Entry, empty string) error {
	if empty == "" {
		empty = EmptyMessage
	}

	return h.tmpl.ExecuteTemplate(w, "entries", htmlData{
		Entries:      entries,
		DeleteAction: h.DeleteAction,
		Empty:        empty,
	})
}
