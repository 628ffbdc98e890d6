package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/inovacc/journal/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "journal.ini"))
	require.NoError(t, err)
	assert.Equal(t, model.DefaultConfig(), cfg)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.ini")

	cfg := model.DefaultConfig()
	cfg.Storage.Backend = "sqlite"
	cfg.Storage.Path = "/tmp/journal.db"
	cfg.Remote.Timeout = 3 * time.Second
	cfg.Remote.Mode = "remote"
	cfg.Web.Port = 9090
	cfg.Web.OpenBrowser = true

	require.NoError(t, Save(path, cfg))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[storage]")
	assert.Contains(t, string(raw), "3s")

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoad_PartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.ini")
	require.NoError(t, os.WriteFile(path, []byte("[web]\nport = 7000\n\n[form]\nmin_length = 20\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Web.Port)
	assert.Equal(t, 20, cfg.Form.MinLength)
	assert.Equal(t, model.DefaultStorageKey, cfg.Storage.Key)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JOURNAL_WEB_PORT", "8181")
	t.Setenv("JOURNAL_REMOTE_URL", "https://example.com/api/reflections")
	t.Setenv("JOURNAL_REMOTE_TIMEOUT", "250ms")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.ini"))
	require.NoError(t, err)
	assert.Equal(t, 8181, cfg.Web.Port)
	assert.Equal(t, "https://example.com/api/reflections", cfg.Remote.URL)
	assert.Equal(t, 250*time.Millisecond, cfg.Remote.Timeout)
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.ini")
	require.NoError(t, os.WriteFile(path, []byte("[storage]\nbackend = redis\n"), 0o600))

	_, err := Load(path)
	assert.ErrorContains(t, err, "storage.backend")
}

func TestValidate_RemoteURL(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		url     string
		wantErr bool
	}{
		{name: "remote without url", mode: "remote", url: "", wantErr: true},
		{name: "remote with file path", mode: "remote", url: "/var/lib/reflections.json", wantErr: true},
		{name: "remote with other scheme", mode: "remote", url: "ftp://h/api", wantErr: true},
		{name: "remote with https", mode: "remote", url: "https://example.com/api/reflections"},
		{name: "local without url", mode: "local", url: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := model.DefaultConfig()
			cfg.Remote.Mode = tt.mode
			cfg.Remote.URL = tt.url

			err := Validate(cfg)
			if tt.wantErr {
				assert.ErrorContains(t, err, "remote.url")
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestLoad_RemoteModeWithoutURL(t *testing.T) {
	t.Setenv("JOURNAL_REMOTE_MODE", "remote")
	t.Setenv("JOURNAL_REMOTE_URL", "")

	_, err := Load(filepath.Join(t.TempDir(), "journal.ini"))
	assert.ErrorContains(t, err, "remote.url")
}

func TestSet(t *testing.T) {
	cfg := model.DefaultConfig()

	tests := []struct {
		name    string
		key     string
		value   string
		check   func(t *testing.T, c model.Config)
		wantErr bool
	}{
		{
			name: "string", key: "remote.url", value: "http://h/api",
			check: func(t *testing.T, c model.Config) { assert.Equal(t, "http://h/api", c.Remote.URL) },
		},
		{
			name: "int", key: "form.min_length", value: "15",
			check: func(t *testing.T, c model.Config) { assert.Equal(t, 15, c.Form.MinLength) },
		},
		{
			name: "duration", key: "remote.timeout", value: "30s",
			check: func(t *testing.T, c model.Config) { assert.Equal(t, 30*time.Second, c.Remote.Timeout) },
		},
		{
			name: "bool", key: "web.open_browser", value: "true",
			check: func(t *testing.T, c model.Config) { assert.True(t, c.Web.OpenBrowser) },
		},
		{name: "no dot", key: "port", value: "1", wantErr: true},
		{name: "unknown section", key: "cache.size", value: "1", wantErr: true},
		{name: "unknown key", key: "web.colour", value: "red", wantErr: true},
		{name: "bad int", key: "web.port", value: "eighty", wantErr: true},
		{name: "invalid mode", key: "remote.mode", value: "both", wantErr: true},
		{
			name: "remote mode with default url", key: "remote.mode", value: "remote",
			check: func(t *testing.T, c model.Config) { assert.Equal(t, "remote", c.Remote.Mode) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Set(cfg, tt.key, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, cfg, got)

				return
			}

			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestKeys(t *testing.T) {
	keys, err := Keys(model.DefaultConfig())
	require.NoError(t, err)

	m := make(map[string]string)
	for _, kv := range keys {
		m[kv[0]] = kv[1]
	}

	assert.Equal(t, "bolt", m["storage.backend"])
	assert.Equal(t, "10s", m["remote.timeout"])
	assert.Equal(t, "10", m["form.min_length"])
	assert.Contains(t, m, "export.s3_bucket")
}

func TestPath_Env(t *testing.T) {
	t.Setenv("JOURNAL_CONFIG", "/etc/journal.ini")
	assert.Equal(t, "/etc/journal.ini", Path())
}
