package journal

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/inovacc/journal/internal/kv"
	"github.com/inovacc/journal/internal/metrics"
	"github.com/inovacc/journal/internal/model"
	"github.com/inovacc/journal/internal/remote"
	"github.com/inovacc/journal/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticLocal []model.Entry

func (s staticLocal) List(context.Context) []model.Entry { return s }

type stubRemote struct {
	entries []model.Entry
	err     error
	calls   int
}

func (s *stubRemote) Fetch(context.Context) ([]model.Entry, error) {
	s.calls++
	return s.entries, s.err
}

func local(id int64, content string) model.Entry {
	return model.Entry{ID: id, Title: "t", Content: content, Date: "2024-01-02", Source: model.SourceLocal}
}

func TestMergeAll_SortedDescending(t *testing.T) {
	rem := &stubRemote{entries: []model.Entry{
		model.RemoteRecord{Date: "2024-01-01", Text: "remote one"}.ToEntry(0),
		model.RemoteRecord{Date: "2024-01-03", Text: "remote two"}.ToEntry(1),
	}}

	j := New(staticLocal{local(2000, "newer local"), local(1000, "older local")}, rem)

	merged := j.MergeAll(context.Background())
	require.Len(t, merged, 4)

	for i := 1; i < len(merged); i++ {
		assert.GreaterOrEqual(t, merged[i-1].ID, merged[i].ID)
	}

	assert.Equal(t, model.RemoteIDOffset+1, merged[0].ID)
	assert.Equal(t, int64(1000), merged[3].ID)
}

func TestMergeAll_StableOnEqualIDs(t *testing.T) {
	a := local(5, "first")
	b := local(5, "second")

	merged := New(staticLocal{a, b}, nil).MergeAll(context.Background())
	require.Len(t, merged, 2)
	assert.Equal(t, "first", merged[0].Content)
	assert.Equal(t, "second", merged[1].Content)
}

func TestMergeAll_RemoteFailure(t *testing.T) {
	var logs bytes.Buffer

	m := metrics.New()
	locals := staticLocal{local(3, "c"), local(2, "b"), local(1, "a")}
	rem := &stubRemote{err: &model.TransportError{Op: "GET", URL: "http://x", Status: 503}}

	j := New(locals, rem,
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
		WithMetrics(m),
	)

	merged := j.MergeAll(context.Background())
	assert.Equal(t, []model.Entry(locals), merged)
	assert.Contains(t, logs.String(), "remote entries unavailable")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "journal_remote_fetch_failures_total 1")
}

func TestMergeAll_ScenarioRemoteOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"date":"2024-01-01","text":"hello"}]`))
	}))
	defer srv.Close()

	st := store.New(kv.NewMemory())
	j := New(st, remote.NewHTTPSource(srv.URL, time.Second))

	merged := j.MergeAll(context.Background())
	require.Len(t, merged, 1)
	assert.Equal(t, "hello", merged[0].Content)
	assert.Equal(t, model.SourceRemote, merged[0].Source)
	assert.False(t, merged[0].Deletable())
}

func TestMergeAll_UnreachableRemote(t *testing.T) {
	ctx := context.Background()
	st := store.New(kv.NewMemory())

	_, err := st.Save(ctx, "t", "only local survives")
	require.NoError(t, err)

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	merged := New(st, remote.NewHTTPSource(url, time.Second)).MergeAll(ctx)
	require.Len(t, merged, 1)
	assert.Equal(t, "only local survives", merged[0].Content)
}

func TestSearch(t *testing.T) {
	j := New(staticLocal{local(2, "Learning Go Channels"), local(1, "html forms")},
		&stubRemote{entries: []model.Entry{model.RemoteRecord{Text: "more GO notes"}.ToEntry(0)}})

	tests := []struct {
		term string
		want int
	}{
		{term: "", want: 3},
		{term: "go", want: 2},
		{term: "FORMS", want: 1},
		{term: "  channels ", want: 1},
		{term: "rust", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			assert.Len(t, j.Search(context.Background(), tt.term), tt.want)
		})
	}
}

func TestStats(t *testing.T) {
	j := New(
		staticLocal{
			{ID: 20, Content: "one two three", Date: "2024-02-01", Source: model.SourceLocal},
			{ID: 10, Content: "four five", Date: "2024-01-01", Source: model.SourceLocal},
		},
		&stubRemote{entries: []model.Entry{model.RemoteRecord{Date: "2024-03-01", Text: "six"}.ToEntry(0)}},
	)

	s := j.Stats(context.Background())
	assert.Equal(t, model.Stats{
		TotalEntries:  3,
		LocalEntries:  2,
		RemoteEntries: 1,
		TotalWords:    6,
		AverageWords:  2,
		LatestEntry:   "2024-03-01",
		EarliestEntry: "2024-01-01",
	}, s)

	assert.Equal(t, model.Stats{}, Summarize(nil))
}

func TestMergeAll_RemoteCalledOncePerMerge(t *testing.T) {
	rem := &stubRemote{err: errors.New("down")}
	j := New(staticLocal{}, rem)

	j.MergeAll(context.Background())
	j.MergeAll(context.Background())
	assert.Equal(t, 2, rem.calls)
}
