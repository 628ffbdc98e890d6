package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/inovacc/journal/internal/application"
	"github.com/inovacc/journal/internal/config"
	"github.com/inovacc/journal/internal/form"
	"github.com/inovacc/journal/internal/journal"
	"github.com/inovacc/journal/internal/kv"
	"github.com/inovacc/journal/internal/metrics"
	"github.com/inovacc/journal/internal/model"
	"github.com/inovacc/journal/internal/notify"
	"github.com/inovacc/journal/internal/remote"
	"github.com/inovacc/journal/internal/store"
)

// app holds the components one command invocation works with.
type app struct {
	cfgPath string
	cfg     model.Config
	logger  *slog.Logger
	metrics *metrics.Metrics

	kv      kv.Store
	local   *store.Local
	source  remote.Source
	journal *journal.Journal
}

// resolvedConfigPath returns --config or the default location.
func resolvedConfigPath() string {
	if configPath != "" {
		return configPath
	}

	return config.Path()
}

// loadApp loads the config and opens the local store. Callers must Close it.
func loadApp(ctx context.Context) (*app, error) {
	path := resolvedConfigPath()

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	logger := slog.Default()

	db, err := kv.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Storage.Backend, err)
	}

	m := metrics.New()
	local := newLocal(db, cfg, logger)

	var src remote.Source
	if cfg.Remote.URL != "" {
		src = remote.New(cfg.Remote)
	}

	return &app{
		cfgPath: path,
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		kv:      db,
		local:   local,
		source:  src,
		journal: journal.New(local, src, journal.WithLogger(logger), journal.WithMetrics(m)),
	}, nil
}

func newLocal(s kv.Store, cfg model.Config, logger *slog.Logger) *store.Local {
	return store.New(s, store.WithKey(cfg.Storage.Key), store.WithLogger(logger))
}

func (a *app) Close() {
	if err := a.kv.Close(); err != nil {
		a.logger.Warn("failed to close store", "error", err)
	}
}

// formConfig returns the form settings from config. The notifier is left to the caller.
func (a *app) formConfig() form.Config {
	cfg := form.Config{
		Mode:      form.Mode(a.cfg.Remote.Mode),
		MinLength: a.cfg.Form.MinLength,
		Local:     a.local,
		Metrics:   a.metrics,
		Logger:    a.logger,
	}

	if cfg.Mode == form.ModeRemote {
		cfg.Remote = remote.NewPublisher(a.cfg.Remote.URL, a.cfg.Remote.Timeout)
	}

	return cfg
}

// webhook returns the configured native channel, or nil when none is set.
// With in set, a pending permission is asked for on the terminal.
func (a *app) webhook(in io.Reader) *notify.WebhookSender {
	if a.cfg.Notify.WebhookURL == "" {
		return nil
	}

	opts := []notify.WebhookOption{
		notify.WithWebhook(a.cfg.Notify.WebhookURL),
		notify.WithPermission(notify.ParsePermission(a.cfg.Notify.Permission)),
	}

	if in != nil {
		r := bufio.NewReader(in)
		opts = append(opts, notify.WithPrompt(func(_ context.Context, target string) (bool, error) {
			_, _ = fmt.Fprintf(os.Stdout, "Send confirmations to %s? [y/N]: ", target)

			line, err := r.ReadString('\n')
			if err != nil && line == "" {
				return false, err
			}

			return isYes(line), nil
		}))
	}

	return notify.NewWebhookSender(opts...)
}

// notifier routes confirmations to native when set, else to alert.
func (a *app) notifier(native *notify.WebhookSender, alert notify.Alerter) *notify.Confirmer {
	if native == nil {
		return notify.New(nil, alert, notify.WithLogger(a.logger))
	}

	return notify.New(native, alert, notify.WithLogger(a.logger))
}

// rememberPermission stores an answered permission request in the config file.
func (a *app) rememberPermission(sender *notify.WebhookSender) {
	if sender == nil {
		return
	}

	p := sender.Permission()
	if string(p) == a.cfg.Notify.Permission {
		return
	}

	a.cfg.Notify.Permission = string(p)
	if err := config.Save(a.cfgPath, a.cfg); err != nil {
		a.logger.Warn("failed to save notification permission", "error", err)
	}
}

func isYes(s string) bool {
	s = strings.TrimSpace(s)
	return s == "y" || s == "Y"
}

// promptConfirm asks the user for confirmation and returns true if they confirm
// prompt should include the question (e.g., "Delete this file? [y/N]: ")
func promptConfirm(prompt string) bool {
	_, _ = fmt.Fprint(os.Stdout, prompt)

	var response string

	_, _ = fmt.Scanln(&response)

	return isYes(response)
}

// expandPath expands ~ to the user's home directory and returns an absolute path
func expandPath(path string) (string, error) {
	if len(path) == 0 {
		return "", fmt.Errorf("path is empty")
	}

	// Expand ~ to home directory
	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}

		path = filepath.Join(home, path[1:])
	}

	// Make path absolute
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	return absPath, nil
}

// truncateString truncates a string to the specified length with ellipsis
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return string(r[:maxLen])
	}

	return string(r[:maxLen-3]) + "..."
}

// printEmptyResult prints a "no results" message with a create hint
func printEmptyResult(w io.Writer, what, createCmd string) {
	_, _ = fmt.Fprintf(w, "No %s yet.\n", what)
	_, _ = fmt.Fprintf(w, "Create one with: %s\n", createCmd)
}

// centerString centers a string in a field of given width
func centerString(s string, width int) string {
	if len(s) >= width {
		return s
	}

	padding := (width - len(s)) / 2

	return fmt.Sprintf("%*s%s%*s", padding, "", s, width-len(s)-padding, "")
}

// boxWidth is the standard width for info boxes
const boxWidth = 64

// printInfoBox prints a complete info box with title and key-value pairs
func printInfoBox(w io.Writer, title string, items [][2]string) {
	_, _ = fmt.Fprintln(w, "╔"+strings.Repeat("═", boxWidth-2)+"╗")
	_, _ = fmt.Fprintf(w, "║%s║\n", centerString(title, boxWidth-2))
	_, _ = fmt.Fprintln(w, "╠"+strings.Repeat("═", boxWidth-2)+"╣")

	for _, item := range items {
		content := truncateString(fmt.Sprintf("  %s: %s", item[0], item[1]), boxWidth-2)
		padding := boxWidth - 2 - len([]rune(content))

		_, _ = fmt.Fprintf(w, "║%s%*s║\n", content, padding, "")
	}

	_, _ = fmt.Fprintln(w, "╚"+strings.Repeat("═", boxWidth-2)+"╝")
}

// withSignals returns a context cancelled on Ctrl+C or SIGTERM.
func withSignals(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)

		select {
		case <-sigChan:
			_, _ = fmt.Fprintln(os.Stdout, "\nShutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// reflectionsPath is where the reflections backend keeps its records.
func reflectionsPath() string {
	return application.Path("backend", "reflections.json")
}
