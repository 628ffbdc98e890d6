package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/inovacc/journal/internal/model"
)

// Confirmer routes confirmations to the native channel when permitted and to
// the alert channel otherwise.
type Confirmer struct {
	native  Native
	alert   Alerter
	logger  *slog.Logger
	timeout time.Duration
}

type Option func(*Confirmer)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Confirmer) {
		c.logger = logger
	}
}

// WithTimeout bounds one native delivery (default 10s).
func WithTimeout(d time.Duration) Option {
	return func(c *Confirmer) {
		c.timeout = d
	}
}

// New creates a Confirmer. native may be nil.
func New(native Native, alert Alerter, opts ...Option) *Confirmer {
	c := &Confirmer{
		native:  native,
		alert:   alert,
		logger:  slog.Default(),
		timeout: 10 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Confirm delivers msg and reports which channel carried it. It never fails;
// problems with the native channel are logged and the alert channel is used.
func (c *Confirmer) Confirm(ctx context.Context, msg string) Channel {
	if err := c.showNative(ctx, msg); err != nil {
		c.logger.Debug("native notification skipped", "error", err)
		c.Alert(ctx, msg)

		return ChannelAlert
	}

	return ChannelNative
}

// Alert sends msg straight to the alert channel.
func (c *Confirmer) Alert(ctx context.Context, msg string) {
	if c.alert == nil {
		c.logger.Info(msg)
		return
	}

	if err := c.alert.Alert(ctx, msg); err != nil {
		c.logger.Warn("alert failed", "error", err)
	}
}

func (c *Confirmer) showNative(ctx context.Context, msg string) (err error) {
	if c.native == nil || !c.native.Available() {
		return model.ErrNotificationUnavailable
	}

	perm := c.native.Permission()
	if perm == PermissionDefault {
		perm, err = c.native.RequestPermission(ctx)
		if err != nil {
			return fmt.Errorf("%w: %w", model.ErrNotificationUnavailable, err)
		}
	}

	if perm != PermissionGranted {
		return fmt.Errorf("%w: permission %s", model.ErrNotificationUnavailable, perm)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("notify: panic in %s: %v", c.native.Name(), r)
		}
	}()

	showCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.native.Show(showCtx, msg); err != nil {
		return fmt.Errorf("notify: %s: %w", c.native.Name(), err)
	}

	return nil
}
