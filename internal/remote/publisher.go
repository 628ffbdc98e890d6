package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/inovacc/journal/internal/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Publisher posts new reflections to a reflections API.
type Publisher struct {
	URL    string
	Client *http.Client
}

func NewPublisher(url string, timeout time.Duration) *Publisher {
	return &Publisher{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

type publishRequest struct {
	Name       string `json:"name"`
	Reflection string `json:"reflection"`
}

// Publish sends one reflection. Any non-2xx answer is a *model.TransportError.
func (p *Publisher) Publish(ctx context.Context, name, reflection string) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "remote.Publish",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.url", p.URL)),
	)
	defer span.End()

	if err := p.publish(ctx, name, reflection); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return err
	}

	span.SetStatus(codes.Ok, "")

	return nil
}

func (p *Publisher) publish(ctx context.Context, name, reflection string) error {
	body, err := json.Marshal(publishRequest{Name: name, Reflection: reflection})
	if err != nil {
		return &model.TransportError{Op: http.MethodPost, URL: p.URL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL, bytes.NewReader(body))
	if err != nil {
		return &model.TransportError{Op: http.MethodPost, URL: p.URL, Err: err}
	}

	req.Header.Set("Content-Type", "application/json")

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return &model.TransportError{Op: http.MethodPost, URL: p.URL, Err: err}
	}

	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &model.TransportError{Op: http.MethodPost, URL: p.URL, Status: resp.StatusCode}
	}

	return nil
}
