// Package lock guards mutating agentlink runs against each other with an
// advisory file lock in the canonical root's backup directory.
package lock

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/arthur-debert/agentlink/pkg/errors"
	"github.com/arthur-debert/agentlink/pkg/logging"
)

// FileLock is a cross-process lock held for the duration of one run
type FileLock struct {
	path   string
	flock  *flock.Flock
	locked bool
}

// New returns an unlocked lock at path
func New(path string) *FileLock {
	return &FileLock{
		path:  path,
		flock: flock.New(path),
	}
}

// Acquire takes the lock without blocking. A lock held elsewhere yields a
// LOCKED error.
func Acquire(path string) (*FileLock, error) {
	l := New(path)
	ok, err := l.TryLock()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New(errors.ErrLocked, "another agentlink run holds the lock").
			WithDetail("lock", path)
	}
	return l, nil
}

// TryLock attempts to acquire the lock without blocking.
// Returns true if the lock was acquired, false if it's held by another process.
func (l *FileLock) TryLock() (bool, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return false, errors.Wrapf(err, errors.ErrDirCreate, "failed to create lock directory %s", filepath.Dir(l.path))
	}

	acquired, err := l.flock.TryLock()
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrFileAccess, "failed to acquire lock %s", l.path)
	}
	if acquired {
		l.locked = true
		logger := logging.GetLogger("lock")
		logger.Debug().Str("lock", l.path).Msg("Lock acquired")
	}
	return acquired, nil
}

// Unlock releases the lock. It's safe to call on an unlocked FileLock.
func (l *FileLock) Unlock() error {
	if !l.locked {
		return nil
	}
	l.locked = false
	if err := l.flock.Unlock(); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to release lock %s", l.path)
	}
	logger := logging.GetLogger("lock")
	logger.Debug().Str("lock", l.path).Msg("Lock released")
	return nil
}

// Path returns the path to the lock file
func (l *FileLock) Path() string {
	return l.path
}
