// Package remote reads entries from, and publishes reflections to, a remote endpoint.
//
// A [Source] only reports what happened: it returns the entries or an error and never
// substitutes an empty list itself. Callers decide whether to degrade.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/inovacc/journal/internal/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "journal"

// maxBody caps how much of a response is read.
const maxBody = 8 << 20

// Source yields remote entries in the order the endpoint lists them.
type Source interface {
	Fetch(ctx context.Context) ([]model.Entry, error)
}

// HTTPSource fetches a JSON array of records with GET.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// NewHTTPSource creates an HTTPSource whose client gives up after timeout.
// A zero timeout leaves requests bounded only by the caller's context.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

// New picks an HTTP source for http(s) URLs and a file source for anything else.
func New(cfg model.RemoteConfig) Source {
	if isHTTP(cfg.URL) {
		return NewHTTPSource(cfg.URL, cfg.Timeout)
	}

	return &FileSource{Path: strings.TrimPrefix(cfg.URL, "file://")}
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]model.Entry, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "remote.Fetch",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.url", s.URL)),
	)
	defer span.End()

	entries, err := s.fetch(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	span.SetAttributes(attribute.Int("journal.remote_entries", len(entries)))
	span.SetStatus(codes.Ok, "")

	return entries, nil
}

func (s *HTTPSource) fetch(ctx context.Context) ([]model.Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, &model.TransportError{Op: http.MethodGet, URL: s.URL, Err: err}
	}

	req.Header.Set("Accept", "application/json")

	resp, err := s.client().Do(req)
	if err != nil {
		return nil, &model.TransportError{Op: http.MethodGet, URL: s.URL, Err: err}
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &model.TransportError{Op: http.MethodGet, URL: s.URL, Status: resp.StatusCode}
	}

	entries, err := Decode(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &model.TransportError{Op: http.MethodGet, URL: s.URL, Err: err}
	}

	return entries, nil
}

func (s *HTTPSource) client() *http.Client {
	if s.Client != nil {
		return s.Client
	}

	return http.DefaultClient
}

// Decode reads a JSON array of remote records and maps each onto an entry.
func Decode(r io.Reader) ([]model.Entry, error) {
	var records []model.RemoteRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding remote records: %w", err)
	}

	entries := make([]model.Entry, 0, len(records))
	for i, rec := range records {
		entries = append(entries, rec.ToEntry(i))
	}

	return entries, nil
}

func isHTTP(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}
