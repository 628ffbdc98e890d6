// Package journal merges local and remote entries into the single list the
// renderers display, and derives search results and statistics from it.
package journal

import (
	"context"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/inovacc/journal/internal/metrics"
	"github.com/inovacc/journal/internal/model"
	"github.com/inovacc/journal/internal/remote"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// LocalLister is the read side of the local store.
type LocalLister interface {
	List(ctx context.Context) []model.Entry
}

type Journal struct {
	local   LocalLister
	remote  remote.Source
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Journal)

func WithLogger(logger *slog.Logger) Option {
	return func(j *Journal) {
		j.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(j *Journal) {
		j.metrics = m
	}
}

// New creates a Journal. remote may be nil, in which case only local entries are shown.
func New(local LocalLister, src remote.Source, opts ...Option) *Journal {
	j := &Journal{
		local:  local,
		remote: src,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(j)
	}

	return j
}

// MergeAll returns local and remote entries sorted by id, newest first. A failing
// remote source is logged and contributes nothing; MergeAll itself never fails.
func (j *Journal) MergeAll(ctx context.Context) []model.Entry {
	ctx, span := otel.Tracer("journal").Start(ctx, "journal.MergeAll")
	defer span.End()

	local := j.local.List(ctx)
	remoteEntries := j.fetchRemote(ctx)

	merged := make([]model.Entry, 0, len(local)+len(remoteEntries))
	merged = append(merged, local...)
	merged = append(merged, remoteEntries...)

	// stable: equal ids keep local-before-remote order
	slices.SortStableFunc(merged, func(a, b model.Entry) int {
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		default:
			return 0
		}
	})

	span.SetAttributes(
		attribute.Int("journal.local_entries", len(local)),
		attribute.Int("journal.remote_entries", len(remoteEntries)),
	)
	j.metrics.Merged(len(local), len(remoteEntries))

	return merged
}

func (j *Journal) fetchRemote(ctx context.Context) []model.Entry {
	if j.remote == nil {
		return nil
	}

	start := time.Now()
	entries, err := j.remote.Fetch(ctx)
	j.metrics.ObserveRemoteFetch(time.Since(start))

	if err != nil {
		j.metrics.RemoteFetchFailed()
		j.logger.Warn("remote entries unavailable, showing local entries only", "error", err)

		return nil
	}

	return entries
}

// Search returns merged entries whose content contains term, ignoring case.
// An empty term returns everything.
func (j *Journal) Search(ctx context.Context, term string) []model.Entry {
	return Filter(j.MergeAll(ctx), term)
}

// Filter keeps the entries whose content contains term, ignoring case.
func Filter(entries []model.Entry, term string) []model.Entry {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return entries
	}

	out := make([]model.Entry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Content), term) {
			out = append(out, e)
		}
	}

	return out
}

// Stats summarises the merged list.
func (j *Journal) Stats(ctx context.Context) model.Stats {
	return Summarize(j.MergeAll(ctx))
}

// Summarize computes statistics for entries sorted newest first.
func Summarize(entries []model.Entry) model.Stats {
	var s model.Stats

	s.TotalEntries = len(entries)

	for _, e := range entries {
		if e.Source == model.SourceRemote {
			s.RemoteEntries++
		} else {
			s.LocalEntries++
		}

		s.TotalWords += len(strings.Fields(e.Content))
	}

	if s.TotalEntries > 0 {
		s.AverageWords = int(math.Round(float64(s.TotalWords) / float64(s.TotalEntries)))
		s.LatestEntry = entries[0].Date
		s.EarliestEntry = entries[len(entries)-1].Date
	}

	return s
}
