package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/inovacc/journal/internal/form"
	"github.com/inovacc/journal/internal/model"
	"github.com/inovacc/journal/internal/render"
)

// Status lines.
const (
	CopiedMessage  = "Copied to clipboard!"
	DeletedMessage = "Entry deleted!"
)

var (
	docStyle    = lipgloss.NewStyle().Margin(1, 2)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

// Merger lists the merged entries.
type Merger interface {
	MergeAll(ctx context.Context) []model.Entry
}

// Deleter removes a local entry.
type Deleter interface {
	Delete(ctx context.Context, id int64) error
}

// Submitter is the form controller the compose view writes through.
type Submitter interface {
	SetInput(s string)
	Submit(ctx context.Context, title string) (form.Result, error)
}

// Deps wires a Model.
type Deps struct {
	Journal Merger
	Local   Deleter
	Form    Submitter

	// Copy writes to the clipboard; defaults to clipboard.WriteAll.
	Copy func(string) error
}

type entryItem struct {
	entry model.Entry
}

func (i entryItem) Title() string {
	return i.entry.Title
}

func (i entryItem) Description() string {
	return fmt.Sprintf("%s | %s | %d words", i.entry.Timestamp(), i.entry.Source.Label(), render.WordCount(i.entry.Content))
}

func (i entryItem) FilterValue() string {
	return i.entry.Title + " " + i.entry.Content
}

type mode int

const (
	browsing mode = iota
	confirming
	composing
)

type (
	entriesMsg []model.Entry
	statusMsg  string
	errMsg     struct{ err error }
	savedMsg   form.Result
	deletedMsg int64
)

// Model is the journal browser.
type Model struct {
	deps Deps
	ctx  context.Context

	list    list.Model
	title   textinput.Model
	content textarea.Model

	mode     mode
	pending  *model.Entry
	status   string
	err      error
	quitting bool
}

// New builds the browser. Entries are loaded by Init.
func New(ctx context.Context, deps Deps) Model {
	if deps.Copy == nil {
		deps.Copy = clipboard.WriteAll
	}

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Learning Journal"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)

	ti := textinput.New()
	ti.Placeholder = "Title"
	ti.CharLimit = 200

	ta := textarea.New()
	ta.Placeholder = "What did you learn today?"
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetWidth(72)
	ta.SetHeight(10)

	return Model{
		deps:    deps,
		ctx:     ctx,
		list:    l,
		title:   ti,
		content: ta,
	}
}

func (m Model) Init() tea.Cmd {
	return m.load
}

func (m Model) load() tea.Msg {
	return entriesMsg(m.deps.Journal.MergeAll(m.ctx))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-1)
		m.content.SetWidth(min(72, max(20, msg.Width-h)))

		return m, nil

	case entriesMsg:
		items := make([]list.Item, len(msg))
		for i, e := range msg {
			items[i] = entryItem{entry: e}
		}

		return m, m.list.SetItems(items)

	case statusMsg:
		m.status, m.err = string(msg), nil
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil

	case deletedMsg:
		m.status, m.err = DeletedMessage, nil
		return m, m.load

	case savedMsg:
		m.mode = browsing
		m.status, m.err = msg.Message, nil
		m.title.Reset()
		m.content.Reset()

		return m, m.load

	case tea.KeyMsg:
		switch m.mode {
		case composing:
			return m.updateCompose(msg)
		case confirming:
			return m.updateConfirm(msg)
		}

		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit

		case "c":
			if e, ok := m.selected(); ok {
				return m, m.copy(e.Content)
			}

			return m, nil

		case "d":
			e, ok := m.selected()
			if !ok {
				return m, nil
			}

			if !e.Deletable() {
				m.err = errors.New("server entries cannot be deleted")
				return m, nil
			}

			m.pending = &e
			m.mode = confirming

			return m, nil

		case "n":
			m.mode = composing
			m.status, m.err = "", nil
			m.content.Blur()

			return m, m.title.Focus()

		case "r":
			m.status, m.err = "", nil
			return m, m.load
		}
	}

	var cmd tea.Cmd

	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := m.pending
	m.pending = nil
	m.mode = browsing

	if e == nil || (msg.String() != "y" && msg.String() != "Y") {
		m.status = "Delete cancelled."
		return m, nil
	}

	id := e.ID

	return m, func() tea.Msg {
		if err := m.deps.Local.Delete(m.ctx, id); err != nil {
			return errMsg{err}
		}

		return deletedMsg(id)
	}
}

func (m Model) updateCompose(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = browsing
		m.title.Blur()
		m.content.Blur()

		return m, nil

	case "tab", "shift+tab":
		if m.title.Focused() {
			m.title.Blur()
			return m, m.content.Focus()
		}

		m.content.Blur()

		return m, m.title.Focus()

	case "ctrl+s":
		title, content := m.title.Value(), m.content.Value()

		return m, func() tea.Msg {
			m.deps.Form.SetInput(content)

			res, err := m.deps.Form.Submit(m.ctx, title)
			if err != nil {
				if res.Message == "" {
					return errMsg{err}
				}

				return errMsg{errors.New(res.Message)}
			}

			return savedMsg(res)
		}
	}

	var cmd tea.Cmd
	if m.title.Focused() {
		m.title, cmd = m.title.Update(msg)
	} else {
		m.content, cmd = m.content.Update(msg)
	}

	return m, cmd
}

func (m Model) copy(text string) tea.Cmd {
	return func() tea.Msg {
		if err := m.deps.Copy(text); err != nil {
			return errMsg{fmt.Errorf("copy failed: %w", err)}
		}

		return statusMsg(CopiedMessage)
	}
}

func (m Model) selected() (model.Entry, bool) {
	i, ok := m.list.SelectedItem().(entryItem)
	if !ok {
		return model.Entry{}, false
	}

	return i.entry, true
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string

	switch m.mode {
	case composing:
		body = lipgloss.JoinVertical(lipgloss.Left,
			labelStyle.Render("New entry"),
			"",
			m.title.View(),
			"",
			m.content.View(),
			"",
			helpStyle.Render("tab: switch field • ctrl+s: save • esc: cancel"),
		)
	case confirming:
		body = m.list.View() + "\n" + errorStyle.Render(fmt.Sprintf("Delete %q? (y/N)", m.pending.Title))
	default:
		body = m.list.View()
	}

	switch {
	case m.err != nil:
		body += "\n" + errorStyle.Render(m.err.Error())
	case m.status != "":
		body += "\n" + statusStyle.Render(m.status)
	}

	return docStyle.Render(body)
}

// Status returns the last status line, for callers printing after quit.
func (m Model) Status() string {
	return m.status
}
