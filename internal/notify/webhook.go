package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// WebhookSender is a native channel posting messages to an incoming webhook
// (Slack, Mattermost and compatible services accept the payload).
type WebhookSender struct {
	webhookURL string
	username   string
	httpClient *http.Client
	prompt     func(ctx context.Context, target string) (bool, error)

	mu         sync.Mutex
	permission Permission
}

// WebhookOption configures a WebhookSender.
type WebhookOption func(*WebhookSender)

func WithWebhook(url string) WebhookOption {
	return func(s *WebhookSender) {
		s.webhookURL = url
	}
}

// WithUsername sets the display name sent along with each message.
func WithUsername(name string) WebhookOption {
	return func(s *WebhookSender) {
		s.username = name
	}
}

func WithHTTPClient(client *http.Client) WebhookOption {
	return func(s *WebhookSender) {
		s.httpClient = client
	}
}

// WithPermission sets the initial permission, usually from config.
func WithPermission(p Permission) WebhookOption {
	return func(s *WebhookSender) {
		s.permission = p
	}
}

// WithPrompt sets how the user is asked for permission. Without a prompt a
// permission request is answered with denied.
func WithPrompt(prompt func(ctx context.Context, target string) (bool, error)) WebhookOption {
	return func(s *WebhookSender) {
		s.prompt = prompt
	}
}

func NewWebhookSender(opts ...WebhookOption) *WebhookSender {
	s := &WebhookSender{
		username:   "journal",
		permission: PermissionDefault,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *WebhookSender) Name() string {
	return "webhook"
}

func (s *WebhookSender) Available() bool {
	return s.webhookURL != ""
}

func (s *WebhookSender) Permission() Permission {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.permission
}

func (s *WebhookSender) RequestPermission(ctx context.Context) (Permission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.permission != PermissionDefault {
		return s.permission, nil
	}

	if s.prompt == nil {
		s.permission = PermissionDenied
		return s.permission, nil
	}

	ok, err := s.prompt(ctx, s.webhookURL)
	if err != nil {
		// an unanswerable prompt is not asked again
		s.permission = PermissionDenied
		return s.permission, err
	}

	if ok {
		s.permission = PermissionGranted
	} else {
		s.permission = PermissionDenied
	}

	return s.permission, nil
}

type webhookMessage struct {
	Text     string `json:"text"`
	Username string `json:"username,omitempty"`
}

func (s *WebhookSender) Show(ctx context.Context, msg string) error {
	if !s.Available() {
		return errors.New("no webhook URL configured")
	}

	body, err := json.Marshal(webhookMessage{Text: msg, Username: s.username})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// ValidateWebhookURL checks that url is an absolute http(s) URL.
func ValidateWebhookURL(raw string) error {
	if raw == "" {
		return errors.New("webhook URL is required")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid webhook URL: %w", err)
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid webhook URL %q: must be an absolute http(s) URL", raw)
	}

	return nil
}
