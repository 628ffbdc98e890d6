package model

import (
	"time"

	"github.com/inovacc/journal/internal/application"
)

// StorageConfig selects and configures the local store backend.
type StorageConfig struct {
	// Backend is one of "bolt", "sqlite", "postgres" or "memory"
	Backend string `ini:"backend"`

	// Path is the database file for file-based backends
	Path string `ini:"path"`

	// DSN is the connection string for postgres
	DSN string `ini:"dsn"`

	// Key is the single key holding the persisted entry list
	Key string `ini:"key"`
}

// RemoteConfig points at the remote entry source.
type RemoteConfig struct {
	// URL of the read endpoint; a path without scheme is read as a static JSON file
	URL string `ini:"url"`

	// Mode is "local" (form saves to the local store) or "remote" (form POSTs to URL)
	Mode string `ini:"mode"`

	// Timeout bounds one request; zero means no client-side timeout
	Timeout time.Duration `ini:"timeout"`
}

// FormConfig holds submission validation settings.
type FormConfig struct {
	MinLength int `ini:"min_length"`
}

// WebConfig configures `journal web`.
type WebConfig struct {
	Host        string `ini:"host"`
	Port        int    `ini:"port"`
	OpenBrowser bool   `ini:"open_browser"`
}

// NotifyConfig configures the confirmation channel.
type NotifyConfig struct {
	// WebhookURL enables the native channel when set
	WebhookURL string `ini:"webhook_url"`

	// Permission is "default", "granted" or "denied"
	Permission string `ini:"permission"`
}

// ExportConfig configures export sinks.
type ExportConfig struct {
	S3Bucket   string `ini:"s3_bucket"`
	S3Region   string `ini:"s3_region"`
	S3Endpoint string `ini:"s3_endpoint"`
}

// Config holds the application configuration
type Config struct {
	Storage StorageConfig `ini:"storage"`
	Remote  RemoteConfig  `ini:"remote"`
	Form    FormConfig    `ini:"form"`
	Web     WebConfig     `ini:"web"`
	Notify  NotifyConfig  `ini:"notify"`
	Export  ExportConfig  `ini:"export"`
}

// Defaults shared by the config loader and commands.
const (
	DefaultStorageKey = "learningJournalEntries"
	DefaultMinLength  = 10
	DefaultWebPort    = 8080
)

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Backend: "bolt",
			Path:    application.Path("journal.bolt"),
			Key:     DefaultStorageKey,
		},
		Remote: RemoteConfig{
			URL:     "http://127.0.0.1:8080/api/reflections",
			Mode:    "local",
			Timeout: 10 * time.Second,
		},
		Form: FormConfig{
			MinLength: DefaultMinLength,
		},
		Web: WebConfig{
			Host:        "127.0.0.1",
			Port:        DefaultWebPort,
			OpenBrowser: false,
		},
		Notify: NotifyConfig{
			Permission: "default",
		},
		Export: ExportConfig{
			S3Region: "us-east-1",
		},
	}
}
