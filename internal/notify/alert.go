package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var alertStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)

// TerminalAlerter prints alerts as a highlighted line.
type TerminalAlerter struct {
	W io.Writer
}

func (a TerminalAlerter) Alert(_ context.Context, msg string) error {
	_, err := fmt.Fprintln(a.W, alertStyle.Render("! "+msg))
	return err
}

// Recorder collects alerts so a caller can show them later, e.g. on the next page.
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

func (r *Recorder) Alert(_ context.Context, msg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages = append(r.messages, msg)

	return nil
}

// Messages returns the recorded alerts in order.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.messages...)
}

// Last returns the newest alert, or "".
func (r *Recorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.messages) == 0 {
		return ""
	}

	return r.messages[len(r.messages)-1]
}
