// Package serverinfo records running journal servers so other invocations can
// find, query and stop them.
package serverinfo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/inovacc/journal/internal/application"
	"github.com/inovacc/journal/internal/encoding"
)

// ErrNoServerInfo indicates no server info file exists
var ErrNoServerInfo = errors.New("no server info file")

// Server names.
const (
	Web         = "web"
	Reflections = "reflections"
)

// Info contains information about a running server
type Info struct {
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Port      int       `json:"port"`
	PID       int       `json:"pid"`
	StartedAt time.Time `json:"started_at"`
}

// URL returns the server's base URL.
func (i *Info) URL() string {
	return "http://" + i.Address
}

// Registry stores one info file per server name in Dir.
type Registry struct {
	Dir string
}

// Default returns the registry in the application directory.
func Default() *Registry {
	return &Registry{Dir: application.Path("run")}
}

func (r *Registry) path(name string) string {
	return filepath.Join(r.Dir, name+".json")
}

// Write records the current process as the server called name.
func (r *Registry) Write(name, address string, port int) error {
	info := Info{
		Name:      name,
		Address:   address,
		Port:      port,
		PID:       os.Getpid(),
		StartedAt: time.Now(),
	}

	if err := encoding.SaveJSON(r.path(name), info); err != nil {
		return fmt.Errorf("failed to write server info file: %w", err)
	}

	return nil
}

// Read reads the info file for name if it exists
func (r *Registry) Read(name string) (*Info, error) {
	info, err := encoding.LoadJSON[Info](r.path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to read server info: %w", err)
	}

	if info == nil {
		return nil, ErrNoServerInfo
	}

	return info, nil
}

// Running returns the info for name when its process is alive. Stale files
// are removed.
func (r *Registry) Running(name string) *Info {
	info, err := r.Read(name)
	if err != nil {
		return nil
	}

	if IsProcessRunning(info.PID) {
		return info
	}

	r.Remove(name)

	return nil
}

// Remove deletes the info file for name (called when the server stops)
func (r *Registry) Remove(name string) {
	_ = os.Remove(r.path(name))
}

// Stop asks the running server called name to shut down.
func (r *Registry) Stop(name string) (*Info, error) {
	info := r.Running(name)
	if info == nil {
		return nil, ErrNoServerInfo
	}

	proc, err := os.FindProcess(info.PID)
	if err != nil {
		return nil, fmt.Errorf("failed to find process %d: %w", info.PID, err)
	}

	if err := proc.Signal(os.Interrupt); err != nil {
		// os.Interrupt is not deliverable on Windows
		if err := proc.Kill(); err != nil {
			return nil, fmt.Errorf("failed to stop process %d: %w", info.PID, err)
		}
	}

	r.Remove(name)

	return info, nil
}
