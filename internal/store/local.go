package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/inovacc/journal/internal/kv"
	"github.com/inovacc/journal/internal/model"
)

// Local is the store for entries created through this app.
type Local struct {
	kv     kv.Store
	key    string
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Local store.
type Option func(*Local)

// WithKey overrides the key holding the entry list.
func WithKey(key string) Option {
	return func(l *Local) {
		if key != "" {
			l.key = key
		}
	}
}

// WithClock overrides the time source used for ids and stamps.
func WithClock(now func() time.Time) Option {
	return func(l *Local) {
		l.now = now
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Local) {
		l.logger = logger
	}
}

// New creates a Local store on top of kv.
func New(store kv.Store, opts ...Option) *Local {
	l := &Local{
		kv:     store,
		key:    model.DefaultStorageKey,
		now:    time.Now,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Key returns the key the entries are stored under.
func (l *Local) Key() string {
	return l.key
}

// List returns the stored entries, most recent first.
func (l *Local) List(ctx context.Context) []model.Entry {
	raw, err := l.kv.Get(ctx, l.key)
	if err != nil {
		l.logReadError(&model.PersistenceReadError{Key: l.key, Err: err})
		return []model.Entry{}
	}

	entries, err := decode(raw)
	if err != nil {
		l.logReadError(&model.PersistenceReadError{Key: l.key, Err: err})
		return []model.Entry{}
	}

	return entries
}

// Save creates an entry and puts it at the front of the list.
func (l *Local) Save(ctx context.Context, title, content string) (model.Entry, error) {
	var saved model.Entry

	err := l.kv.Update(ctx, l.key, func(old []byte) ([]byte, error) {
		entries := l.decodeForWrite(old)

		now := l.now()
		saved = model.NewLocalEntry(nextID(entries, now), title, content, now)

		return json.Marshal(append([]model.Entry{saved}, entries...))
	})
	if err != nil {
		return model.Entry{}, fmt.Errorf("saving entry: %w", err)
	}

	l.logger.Debug("entry saved", "id", saved.ID, "key", l.key)

	return saved, nil
}

// Delete removes the entry with id. Unknown ids are not an error.
func (l *Local) Delete(ctx context.Context, id int64) error {
	errNotFound := errors.New("not found")

	err := l.kv.Update(ctx, l.key, func(old []byte) ([]byte, error) {
		entries := l.decodeForWrite(old)

		kept := entries[:0]
		for _, e := range entries {
			if e.ID != id {
				kept = append(kept, e)
			}
		}

		if len(kept) == len(entries) {
			return nil, errNotFound
		}

		return json.Marshal(kept)
	})

	switch {
	case errors.Is(err, errNotFound):
		l.logger.Debug("delete: no such entry", "id", id)
		return nil
	case err != nil:
		return fmt.Errorf("deleting entry %d: %w", id, err)
	}

	l.logger.Debug("entry deleted", "id", id)

	return nil
}

// Clear removes every local entry.
func (l *Local) Clear(ctx context.Context) error {
	if err := l.kv.Update(ctx, l.key, func([]byte) ([]byte, error) {
		return []byte("[]"), nil
	}); err != nil {
		return fmt.Errorf("clearing entries: %w", err)
	}

	return nil
}

// decodeForWrite treats unreadable data as empty so a save can recover the key.
func (l *Local) decodeForWrite(raw []byte) []model.Entry {
	entries, err := decode(raw)
	if err != nil {
		l.logReadError(&model.PersistenceReadError{Key: l.key, Err: err})
		return []model.Entry{}
	}

	return entries
}

func (l *Local) logReadError(err error) {
	l.logger.Warn("stored entries unreadable, using empty list", "error", err)
}

func decode(raw []byte) ([]model.Entry, error) {
	if len(raw) == 0 {
		return []model.Entry{}, nil
	}

	var entries []model.Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}

	if entries == nil {
		// stored literal null
		return []model.Entry{}, nil
	}

	for i := range entries {
		if entries[i].Source == "" {
			entries[i].Source = model.SourceLocal
		}
	}

	return entries, nil
}

// nextID returns the creation time in milliseconds, bumped past the newest
// stored id when the clock has not moved on.
func nextID(entries []model.Entry, now time.Time) int64 {
	id := now.UnixMilli()

	for _, e := range entries {
		if e.Source == model.SourceLocal && e.ID >= id {
			id = e.ID + 1
		}
	}

	return id
}
