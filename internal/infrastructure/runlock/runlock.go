// Package runlock keeps two booking runs from racing each other on one machine.
package runlock

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// ErrAlreadyRunning is returned when a live process holds the lock
var ErrAlreadyRunning = errors.New("another booking run is in progress")

// Lock is a lock file holding the owner's PID and run id
type Lock struct {
	path  string
	runID string
	held  bool
}

// New creates a lock manager for path
func New(path, runID string) *Lock {
	return &Lock{path: path, runID: runID}
}

// Path returns the lock file location
func (l *Lock) Path() string {
	return l.path
}

// Acquire takes the lock. A stale file left by a dead process is replaced.
func (l *Lock) Acquire() error {
	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			_, werr := fmt.Fprintf(f, "%d %s\n", os.Getpid(), l.runID)
			cerr := f.Close()
			if werr != nil || cerr != nil {
				_ = os.Remove(l.path)
				return fmt.Errorf("failed to write lock file: %w", errors.Join(werr, cerr))
			}
			l.held = true
			return nil
		}
		if !os.IsExist(err) {
			return fmt.Errorf("failed to create lock file: %w", err)
		}

		pid, runID, ok := l.owner()
		if ok && isProcessRunning(pid) {
			return fmt.Errorf("%w (PID %d, run %s)", ErrAlreadyRunning, pid, runID)
		}
		// dead owner or unreadable file
		if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove stale lock file: %w", err)
		}
	}
	return fmt.Errorf("%w: lock file %s keeps reappearing", ErrAlreadyRunning, l.path)
}

// Release removes the lock file if this Lock holds it
func (l *Lock) Release() error {
	if !l.held {
		return nil
	}
	l.held = false
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}

func (l *Lock) owner() (pid int, runID string, ok bool) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return 0, "", false
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return 0, "", false
	}
	pid, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, "", false
	}
	if len(fields) > 1 {
		runID = fields[1]
	}
	return pid, runID, true
}

// isProcessRunning checks if a process with the given PID is running
func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// On Unix, FindProcess always succeeds; signal 0 checks existence
	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	if errors.Is(err, syscall.EPERM) {
		// exists but owned by someone else
		return true
	}
	return false
}
