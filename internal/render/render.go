// Package render turns a merged entry list into HTML cards for the web page
// and styled cards for the terminal.
package render

import (
	"io"
	"strings"

	"github.com/inovacc/journal/internal/model"
)

// Renderer writes the complete entries region for a list of entries.
type Renderer interface {
	Render(w io.Writer, entries []model.Entry) error
}

// WordCount returns the number of whitespace-delimited tokens in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// EmptyMessage is shown when there is nothing to list.
const EmptyMessage = "No entries saved yet. Add one using the form above or the reflect command!"
