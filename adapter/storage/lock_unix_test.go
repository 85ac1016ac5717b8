//go:build unix

package storage

import (
	"context"
	"path/filepath"
	"time"
)

// A second lock on the same unit waits until the first one is released.
func (s *StorageTestSuite) TestLockExcludes() {
	ctx := context.Background()
	unlock, err := s.store.Lock(ctx, "users")
	s.Require().NoError(err)

	other := NewStorage(WithDir(s.dir), WithLockRetry(time.Millisecond)).(*Storage)

	timeout, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = other.Lock(timeout, "users")
	s.ErrorIs(err, context.DeadlineExceeded)

	unlockOrders, err := other.Lock(ctx, "orders")
	s.NoError(err)
	s.NoError(unlockOrders())

	done := make(chan error, 1)
	go func() {
		unlock, err := other.Lock(ctx, "users")
		if err == nil {
			err = unlock()
		}
		done <- err
	}()

	time.Sleep(5 * time.Millisecond)
	s.NoError(unlock())

	select {
	case err := <-done:
		s.NoError(err)
	case <-time.After(time.Second):
		s.Fail("lock was not released")
	}
	s.FileExists(filepath.Join(s.dir, locksDirName, "users.lock"))
}
