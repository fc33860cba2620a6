package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
)

// ErrBusy indicates another generation run already holds the session lock.
var ErrBusy = errors.New("a generation run is already in flight")

// Lock is a file-based single-flight guard. Acquire never blocks: a held
// lock fails fast with ErrBusy so the caller can report the in-flight run
// instead of queueing behind it.
type Lock struct {
	path string
	fl   *flock.Flock

	mu   sync.Mutex
	held bool
}

// New creates a lock at the given path. The lock is not acquired yet.
func New(path string) (*Lock, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("session: lock path required")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure lock directory: %w", err)
		}
	}
	return &Lock{path: path, fl: flock.New(path)}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string { return l.path }

// Acquire attempts to take the lock without blocking. The flock package
// treats TryLock as idempotent per instance, so a held flag guards against
// two callers sharing the same Lock.
func (l *Lock) Acquire() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		return ErrBusy
	}
	ok, err := l.fl.TryLock()
	if err != nil {
		return fmt.Errorf("acquire session lock: %w", err)
	}
	if !ok {
		return ErrBusy
	}
	l.held = true
	return nil
}

// Release lets the next run proceed. Releasing an unheld lock is a no-op.
func (l *Lock) Release() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.held {
		return nil
	}
	l.held = false
	return l.fl.Unlock()
}
