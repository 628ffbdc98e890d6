package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNative struct {
	available  bool
	permission Permission
	answer     Permission
	requests   int
	shown      []string
	showErr    error
	panics     bool
}

func (f *fakeNative) Name() string           { return "fake" }
func (f *fakeNative) Available() bool        { return f.available }
func (f *fakeNative) Permission() Permission { return f.permission }
func (f *fakeNative) RequestPermission(context.Context) (Permission, error) {
	f.requests++
	f.permission = f.answer

	return f.answer, nil
}

func (f *fakeNative) Show(_ context.Context, msg string) error {
	if f.panics {
		panic("boom")
	}

	f.shown = append(f.shown, msg)

	return f.showErr
}

func TestConfirmer_Routing(t *testing.T) {
	tests := []struct {
		name         string
		native       *fakeNative
		wantChannel  Channel
		wantRequests int
	}{
		{
			name:        "granted",
			native:      &fakeNative{available: true, permission: PermissionGranted},
			wantChannel: ChannelNative,
		},
		{
			name:        "denied",
			native:      &fakeNative{available: true, permission: PermissionDenied},
			wantChannel: ChannelAlert,
		},
		{
			name:        "unavailable",
			native:      &fakeNative{available: false, permission: PermissionGranted},
			wantChannel: ChannelAlert,
		},
		{
			name:         "default then granted",
			native:       &fakeNative{available: true, permission: PermissionDefault, answer: PermissionGranted},
			wantChannel:  ChannelNative,
			wantRequests: 1,
		},
		{
			name:         "default then denied",
			native:       &fakeNative{available: true, permission: PermissionDefault, answer: PermissionDenied},
			wantChannel:  ChannelAlert,
			wantRequests: 1,
		},
		{
			name:        "show fails",
			native:      &fakeNative{available: true, permission: PermissionGranted, showErr: errors.New("down")},
			wantChannel: ChannelAlert,
		},
		{
			name:        "show panics",
			native:      &fakeNative{available: true, permission: PermissionGranted, panics: true},
			wantChannel: ChannelAlert,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &Recorder{}
			c := New(tt.native, rec)

			got := c.Confirm(context.Background(), "Entry saved!")
			assert.Equal(t, tt.wantChannel, got)
			assert.Equal(t, tt.wantRequests, tt.native.requests)

			if got == ChannelAlert {
				assert.Equal(t, []string{"Entry saved!"}, rec.Messages())
			} else {
				assert.Empty(t, rec.Messages())
			}
		})
	}
}

func TestConfirmer_PermissionRequestedOnce(t *testing.T) {
	native := &fakeNative{available: true, permission: PermissionDefault, answer: PermissionDenied}
	c := New(native, &Recorder{})

	assert.Zero(t, native.requests, "no request before the first confirmation")

	c.Confirm(context.Background(), "one")
	c.Confirm(context.Background(), "two")
	assert.Equal(t, 1, native.requests)
}

func TestConfirmer_NilNative(t *testing.T) {
	rec := &Recorder{}

	assert.Equal(t, ChannelAlert, New(nil, rec).Confirm(context.Background(), "saved"))
	assert.Equal(t, "saved", rec.Last())
}

func TestWebhookSender_Show(t *testing.T) {
	var got webhookMessage

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewWebhookSender(WithWebhook(srv.URL), WithPermission(PermissionGranted))
	ch := New(s, &Recorder{}).Confirm(context.Background(), "Entry saved!")

	assert.Equal(t, ChannelNative, ch)
	assert.Equal(t, "Entry saved!", got.Text)
	assert.Equal(t, "journal", got.Username)
}

func TestWebhookSender_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invalid_payload", http.StatusBadRequest)
	}))
	defer srv.Close()

	err := NewWebhookSender(WithWebhook(srv.URL)).Show(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestWebhookSender_RequestPermission(t *testing.T) {
	var asked atomic.Int32

	prompt := func(context.Context, string) (bool, error) {
		asked.Add(1)
		return true, nil
	}

	s := NewWebhookSender(WithWebhook("http://127.0.0.1:1"), WithPrompt(prompt))
	assert.Equal(t, PermissionDefault, s.Permission())

	for range 3 {
		p, err := s.RequestPermission(context.Background())
		require.NoError(t, err)
		assert.Equal(t, PermissionGranted, p)
	}

	assert.Equal(t, int32(1), asked.Load())

	noPrompt := NewWebhookSender(WithWebhook("http://127.0.0.1:1"))
	p, err := noPrompt.RequestPermission(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PermissionDenied, p)
}

func TestValidateWebhookURL(t *testing.T) {
	assert.NoError(t, ValidateWebhookURL("https://hooks.slack.com/services/T/B/X"))
	assert.Error(t, ValidateWebhookURL(""))
	assert.Error(t, ValidateWebhookURL("hooks.slack.com/services"))
	assert.Error(t, ValidateWebhookURL("ftp://example.com/hook"))
}

func TestParsePermission(t *testing.T) {
	assert.Equal(t, PermissionGranted, ParsePermission("granted"))
	assert.Equal(t, PermissionDenied, ParsePermission("denied"))
	assert.Equal(t, PermissionDefault, ParsePermission(""))
	assert.Equal(t, PermissionDefault, ParsePermission("maybe"))
}

func TestTerminalAlerter(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, TerminalAlerter{W: &buf}.Alert(context.Background(), "Please write at least 10 characters."))
	assert.Contains(t, buf.String(), "Please write at least 10 characters.")
}
