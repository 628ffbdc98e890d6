package application

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

const (
	// AppName is the application name used for directories and identification
	AppName = "journal"

	// AppExeName is the executable name (without extension)
	AppExeName = "journal"

	// Version is reported by `journal version` and the web footer
	Version = "0.3.0"
)

var (
	once   sync.Once
	appDir string
	errDir error
)

// GetApplicationDirectory returns the journal data directory path, creating it on first use.
// Linux: ~/.config/journal (via os.UserConfigDir)
// Windows: C:\Users\{username}\AppData\Local\journal (via os.UserCacheDir)
//
// JOURNAL_HOME overrides the location.
func GetApplicationDirectory() (string, error) {
	once.Do(lazyLoad)

	if errDir != nil {
		return "", errDir
	}

	return appDir, nil
}

// MustApplicationDirectory is GetApplicationDirectory for command wiring, falling back to
// the working directory when no per-user directory can be determined.
func MustApplicationDirectory() string {
	dir, err := GetApplicationDirectory()
	if err != nil {
		return "."
	}

	return dir
}

// Path joins elem onto the application directory.
func Path(elem ...string) string {
	return filepath.Join(append([]string{MustApplicationDirectory()}, elem...)...)
}

func lazyLoad() {
	if home := os.Getenv("JOURNAL_HOME"); home != "" {
		appDir = home
		errDir = ensure(appDir)

		return
	}

	var (
		baseDir string
		err     error
	)

	switch runtime.GOOS {
	case "windows":
		// Windows: use AppData\Local (via UserCacheDir)
		baseDir, err = os.UserCacheDir()
	default:
		// Linux/others: use ~/.config (via UserConfigDir)
		baseDir, err = os.UserConfigDir()
	}

	if err != nil {
		errDir = fmt.Errorf("failed to get config directory: %w", err)
		return
	}

	appDir = filepath.Join(baseDir, AppName)
	errDir = ensure(appDir)
}

func ensure(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create application directory %s: %w", dir, err)
	}

	return nil
}
