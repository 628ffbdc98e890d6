package serverinfo

import (
	"os"
	"syscall"

	"github.com/google/gops/goprocess"
)

// IsProcessRunning checks if a process with the given PID is still running.
// journal servers are Go programs, so gops finds them; signal 0 covers
// processes gops cannot inspect.
func IsProcessRunning(pid int) bool {
	if pid <= 0 {
		return false
	}

	if pid == os.Getpid() {
		return true
	}

	for _, p := range goprocess.FindAll() {
		if p.PID == pid {
			return true
		}
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// On Unix, FindProcess always succeeds, so we need to send signal 0 to check
	return process.Signal(syscall.Signal(0)) == nil
}
