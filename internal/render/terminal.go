package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/inovacc/journal/internal/model"
	"golang.org/x/term"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			MarginBottom(1)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	metaStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	localBadge  = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	remoteBadge = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
)

// Terminal renders entries as cards for a terminal. Without Styled it emits
// plain text suitable for pipes.
type Terminal struct {
	Styled bool
	Width  int
}

// NewTerminal inspects f and enables styling when it is a terminal.
func NewTerminal(f *os.File) *Terminal {
	t := &Terminal{Width: 80}

	fd := int(f.Fd())
	if term.IsTerminal(fd) {
		t.Styled = true

		if w, _, err := term.GetSize(fd); err == nil && w > 20 {
			t.Width = w
		}
	}

	return t
}

func (t *Terminal) Render(w io.Writer, entries []model.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, EmptyMessage)
		return err
	}

	for _, e := range entries {
		var card string
		if t.Styled {
			card = t.styledCard(e)
		} else {
			card = plainCard(e)
		}

		if _, err := fmt.Fprintln(w, card); err != nil {
			return err
		}
	}

	return nil
}

func (t *Terminal) styledCard(e model.Entry) string {
	badge := localBadge.Render(e.Source.Label())
	hint := hintStyle.Render(fmt.Sprintf("id %d", e.ID))

	if !e.Deletable() {
		badge = remoteBadge.Render(e.Source.Label())
		hint = hintStyle.Render("(Server entry)")
	}

	meta := metaStyle.Render(fmt.Sprintf("%s  ·  %d words", e.Timestamp(), WordCount(e.Content)))

	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(e.Title),
		meta+"  "+badge,
		"",
		e.Content,
		"",
		hint,
	)

	return cardStyle.Width(t.Width - 4).Render(body)
}

func plainCard(e model.Entry) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%d] %s\n", e.ID, e.Title)
	fmt.Fprintf(&b, "    %s | %s | %d words\n", e.Timestamp(), e.Source.Label(), WordCount(e.Content))

	for _, line := range strings.Split(e.Content, "\n") {
		fmt.Fprintf(&b, "    %s\n", line)
	}

	return b.String()
}
