// Package reflections is the reflections backend: a JSON file of records and
// the HTTP API that reads and appends to it.
package reflections

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/inovacc/journal/internal/encoding"
	"github.com/inovacc/journal/internal/model"
)

// Date layouts stamped on new records.
const (
	APIDateLayout    = "Mon Jan 02 2006"
	ScriptDateLayout = "2006-01-02 15:04:05"
)

// ErrEmptyReflection rejects a record without text.
var ErrEmptyReflection = errors.New("reflection text is required")

// FileStore keeps reflections as one JSON array in a file. Each write replaces
// the whole file.
type FileStore struct {
	path   string
	now    func() time.Time
	logger *slog.Logger

	mu sync.Mutex
}

type StoreOption func(*FileStore)

func WithClock(now func() time.Time) StoreOption {
	return func(s *FileStore) {
		s.now = now
	}
}

func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *FileStore) {
		s.logger = logger
	}
}

func NewFileStore(path string, opts ...StoreOption) *FileStore {
	s := &FileStore{
		path:   path,
		now:    time.Now,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *FileStore) Path() string {
	return s.path
}

// List returns all records. A missing or unreadable file reads as empty.
func (s *FileStore) List() []model.Reflection {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

// Add appends a record the way the API does: dated like "Mon Jan 02 2006",
// named "Anonymous" when name is blank.
func (s *FileStore) Add(name, reflection string) (model.Reflection, error) {
	if strings.TrimSpace(reflection) == "" {
		return model.Reflection{}, ErrEmptyReflection
	}

	if strings.TrimSpace(name) == "" {
		name = model.DefaultReflectorName
	}

	rec := model.Reflection{
		UID:        uuid.NewString(),
		Name:       name,
		Date:       s.now().Format(APIDateLayout),
		Reflection: reflection,
	}

	return rec, s.append(rec)
}

// AppendText appends a script-style record: a "text" field and a
// "2006-01-02 15:04:05" date.
func (s *FileStore) AppendText(text string) (model.Reflection, error) {
	if strings.TrimSpace(text) == "" {
		return model.Reflection{}, ErrEmptyReflection
	}

	rec := model.Reflection{
		Date: s.now().Format(ScriptDateLayout),
		Text: text,
	}

	return rec, s.append(rec)
}

func (s *FileStore) append(rec model.Reflection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := append(s.load(), rec)

	if err := encoding.SaveJSON(s.path, records); err != nil {
		return fmt.Errorf("saving reflections: %w", err)
	}

	return nil
}

func (s *FileStore) load() []model.Reflection {
	records, err := encoding.LoadJSON[[]model.Reflection](s.path)
	if err != nil {
		s.logger.Warn("reflections file unreadable, using empty list", "path", s.path, "error", err)
		return []model.Reflection{}
	}

	if records == nil || *records == nil {
		return []model.Reflection{}
	}

	return *records
}
