package storage

import (
	"os"
	"time"
)

// WithDir sets the directory holding the collection files.
func WithDir(dir string) Option {
	return func(s *Storage) {
		s.dir = dir
	}
}

// WithFileMode sets the permissions of collection and lock files.
func WithFileMode(f os.FileMode) Option {
	return func(s *Storage) {
		s.fileMode = f
	}
}

// WithDirMode sets the permissions of created directories.
func WithDirMode(d os.FileMode) Option {
	return func(s *Storage) {
		s.dirMode = d
	}
}

// WithLockRetry sets how long Lock waits between attempts to take a busy
// file lock.
func WithLockRetry(d time.Duration) Option {
	return func(s *Storage) {
		s.lockRetry = d
	}
}

func withReplaceFile(f func(src, dst string) error) Option {
	return func(s *Storage) {
		s.replaceFile = f
	}
}

// Option configures behavior through the functional options pattern.
type Option func(*Storage)
