// Package config loads and saves journal.ini.
//
// Values are resolved in this order, later winning: built-in defaults, the INI
// file, JOURNAL_<SECTION>_<KEY> environment variables. Command flags are
// applied on top by the commands themselves.
package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"

	"github.com/inovacc/journal/internal/application"
	"github.com/inovacc/journal/internal/encoding"
	"github.com/inovacc/journal/internal/model"
	"gopkg.in/ini.v1"
)

// EnvPrefix starts every environment override.
const EnvPrefix = "JOURNAL_"

// Path returns the config file location; JOURNAL_CONFIG overrides it.
func Path() string {
	if p := os.Getenv(EnvPrefix + "CONFIG"); p != "" {
		return p
	}

	return application.Path("journal.ini")
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (model.Config, error) {
	file, err := toINI(model.DefaultConfig())
	if err != nil {
		return model.Config{}, err
	}

	if encoding.FileExists(path) {
		if err := file.Append(path); err != nil {
			return model.Config{}, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	applyEnv(file)

	cfg, err := fromINI(file)
	if err != nil {
		return model.Config{}, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}

	return cfg, Validate(cfg)
}

// Save writes cfg to path.
func Save(path string, cfg model.Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	file, err := toINI(cfg)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if _, err := file.WriteTo(&buf); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return encoding.WriteFileAtomic(path, buf.Bytes(), 0o600)
}

// Set changes one "section.key" value of cfg.
func Set(cfg model.Config, name, value string) (model.Config, error) {
	section, key, ok := strings.Cut(name, ".")
	if !ok {
		return cfg, fmt.Errorf("key %q must look like section.key", name)
	}

	file, err := toINI(cfg)
	if err != nil {
		return cfg, err
	}

	sec, err := file.GetSection(section)
	if err != nil {
		return cfg, fmt.Errorf("unknown section %q", section)
	}

	if !sec.HasKey(key) {
		return cfg, fmt.Errorf("unknown key %q in section [%s]", key, section)
	}

	sec.Key(key).SetValue(value)

	next, err := fromINI(file)
	if err != nil {
		return cfg, fmt.Errorf("invalid value for %s: %w", name, err)
	}

	if err := Validate(next); err != nil {
		return cfg, err
	}

	return next, nil
}

// Keys lists every "section.key" name with its current value, in file order.
func Keys(cfg model.Config) ([][2]string, error) {
	file, err := toINI(cfg)
	if err != nil {
		return nil, err
	}

	var out [][2]string

	for _, sec := range file.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}

		for _, k := range sec.Keys() {
			out = append(out, [2]string{sec.Name() + "." + k.Name(), k.Value()})
		}
	}

	return out, nil
}

// Validate rejects values no component can work with.
func Validate(cfg model.Config) error {
	backends := []string{"bolt", "bbolt", "sqlite", "postgres", "postgresql", "memory"}
	if !slices.Contains(backends, strings.ToLower(cfg.Storage.Backend)) {
		return fmt.Errorf("storage.backend: unknown backend %q", cfg.Storage.Backend)
	}

	if strings.HasPrefix(strings.ToLower(cfg.Storage.Backend), "postgres") && cfg.Storage.DSN == "" {
		return fmt.Errorf("storage.dsn: required for the postgres backend")
	}

	if cfg.Remote.Mode != "local" && cfg.Remote.Mode != "remote" {
		return fmt.Errorf("remote.mode: must be local or remote, got %q", cfg.Remote.Mode)
	}

	if cfg.Remote.Mode == "remote" && !isHTTPURL(cfg.Remote.URL) {
		return fmt.Errorf("remote.url: an http or https url is required in remote mode, got %q", cfg.Remote.URL)
	}

	if cfg.Remote.Timeout < 0 {
		return fmt.Errorf("remote.timeout: must not be negative")
	}

	if cfg.Form.MinLength < 1 {
		return fmt.Errorf("form.min_length: must be at least 1")
	}

	if cfg.Web.Port < 0 || cfg.Web.Port > 65535 {
		return fmt.Errorf("web.port: %d out of range", cfg.Web.Port)
	}

	switch cfg.Notify.Permission {
	case "default", "granted", "denied":
	default:
		return fmt.Errorf("notify.permission: must be default, granted or denied")
	}

	return nil
}

func toINI(cfg model.Config) (*ini.File, error) {
	file := ini.Empty()
	if err := file.ReflectFrom(&cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}

	// durations reflect as nanoseconds
	file.Section("remote").Key("timeout").SetValue(cfg.Remote.Timeout.String())

	return file, nil
}

func fromINI(file *ini.File) (model.Config, error) {
	var cfg model.Config
	if err := file.StrictMapTo(&cfg); err != nil {
		return model.Config{}, err
	}

	return cfg, nil
}

func applyEnv(file *ini.File) {
	for _, sec := range file.Sections() {
		for _, k := range sec.Keys() {
			name := EnvPrefix + strings.ToUpper(sec.Name()+"_"+k.Name())
			if v, ok := os.LookupEnv(name); ok {
				k.SetValue(v)
			}
		}
	}
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
