// Package form implements the entry form: validation, submission to the local
// store or the remote API, and the confirmation that follows.
package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/inovacc/journal/internal/metrics"
	"github.com/inovacc/journal/internal/model"
	"github.com/inovacc/journal/internal/notify"
)

// ErrBusy is returned when a submission is already in progress.
var ErrBusy = errors.New("a submission is already in progress")

// State of the form.
type State int

const (
	Idle State = iota
	Submitting
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Mode selects where submissions go.
type Mode string

const (
	ModeLocal  Mode = "local"
	ModeRemote Mode = "remote"
)

// Messages shown after a submission.
const (
	SavedLocalMessage   = "Entry saved!"
	SavedRemoteMessage  = "Server entry saved!"
	LocalFailedMessage  = "Failed to save the entry."
	RejectedMessage     = "Failed to save to the server."
	UnreachableMessage  = "An error occurred while communicating with the server."
	DefaultRemoteAuthor = "Browser Submission"
)

// Saver persists an entry locally.
type Saver interface {
	Save(ctx context.Context, title, content string) (model.Entry, error)
}

// Publisher sends a reflection to the remote API.
type Publisher interface {
	Publish(ctx context.Context, name, reflection string) error
}

// Notifier delivers confirmations and alerts.
type Notifier interface {
	Confirm(ctx context.Context, msg string) notify.Channel
	Alert(ctx context.Context, msg string)
}

// Config wires a Controller.
type Config struct {
	Mode      Mode
	MinLength int

	Local    Saver
	Remote   Publisher
	Notifier Notifier

	// OnSaved re-renders the entry list after a successful submission.
	OnSaved func(ctx context.Context)

	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// Result describes a finished submission.
type Result struct {
	// Entry is the saved entry in local mode.
	Entry model.Entry

	// Message is what the user was told.
	Message string

	// Channel carried Message.
	Channel notify.Channel
}

// Controller holds the form's input and state. It is safe for concurrent use;
// overlapping submissions are rejected with ErrBusy.
type Controller struct {
	cfg Config

	mu    sync.Mutex
	state State
	input string
}

func New(cfg Config) (*Controller, error) {
	if cfg.Mode == "" {
		cfg.Mode = ModeLocal
	}

	if cfg.MinLength <= 0 {
		cfg.MinLength = model.DefaultMinLength
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	if cfg.Notifier == nil {
		cfg.Notifier = notify.New(nil, nil, notify.WithLogger(cfg.Logger))
	}

	switch cfg.Mode {
	case ModeLocal:
		if cfg.Local == nil {
			return nil, errors.New("form: local mode needs a store")
		}
	case ModeRemote:
		if cfg.Remote == nil {
			return nil, errors.New("form: remote mode needs a publisher")
		}
	default:
		return nil, fmt.Errorf("form: unknown mode %q", cfg.Mode)
	}

	return &Controller{cfg: cfg, state: Idle}, nil
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

func (c *Controller) SetInput(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.input = s
}

func (c *Controller) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.input
}

// Submit validates and persists the current input under title.
//
// Too-short input returns a *model.ValidationError and leaves everything as it
// was. A failed remote call returns a *model.TransportError and keeps the input.
// On success the input is cleared, OnSaved runs and a confirmation goes out.
func (c *Controller) Submit(ctx context.Context, title string) (Result, error) {
	c.mu.Lock()

	if c.state == Submitting {
		c.mu.Unlock()
		return Result{}, ErrBusy
	}

	content := strings.TrimSpace(c.input)
	if n := utf8.RuneCountInString(content); n < c.cfg.MinLength {
		c.mu.Unlock()

		err := &model.ValidationError{Min: c.cfg.MinLength, Got: n}
		c.cfg.Metrics.Submission("invalid")
		c.cfg.Notifier.Alert(ctx, err.Error())

		return Result{Message: err.Error(), Channel: notify.ChannelAlert}, err
	}

	c.state = Submitting
	c.mu.Unlock()

	entry, msg, err := c.persist(ctx, title, content)
	if err != nil {
		return c.fail(ctx, err)
	}

	c.mu.Lock()
	c.input = ""
	c.state = Idle
	c.mu.Unlock()

	c.cfg.Metrics.Submission("ok")
	c.cfg.Metrics.EntrySaved()

	if c.cfg.OnSaved != nil {
		c.cfg.OnSaved(ctx)
	}

	ch := c.cfg.Notifier.Confirm(ctx, msg)

	return Result{Entry: entry, Message: msg, Channel: ch}, nil
}

func (c *Controller) persist(ctx context.Context, title, content string) (model.Entry, string, error) {
	if c.cfg.Mode == ModeRemote {
		name := strings.TrimSpace(title)
		if name == "" {
			name = DefaultRemoteAuthor
		}

		if err := c.cfg.Remote.Publish(ctx, name, content); err != nil {
			return model.Entry{}, "", err
		}

		return model.Entry{}, SavedRemoteMessage, nil
	}

	entry, err := c.cfg.Local.Save(ctx, title, content)
	if err != nil {
		return model.Entry{}, "", err
	}

	return entry, SavedLocalMessage, nil
}

func (c *Controller) fail(ctx context.Context, err error) (Result, error) {
	c.mu.Lock()
	c.state = Error
	c.mu.Unlock()

	msg := RejectedMessage

	var te *model.TransportError
	switch {
	case c.cfg.Mode == ModeLocal:
		msg = LocalFailedMessage
	case errors.As(err, &te) && te.Status == 0:
		msg = UnreachableMessage
	}

	c.cfg.Logger.Error("submission failed", "mode", c.cfg.Mode, "error", err)
	c.cfg.Metrics.Submission("failed")
	c.cfg.Notifier.Alert(ctx, msg)

	c.mu.Lock()
	c.state = Idle
	c.mu.Unlock()

	return Result{Message: msg, Channel: notify.ChannelAlert}, err
}
