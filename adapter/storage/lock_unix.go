//go:build unix

package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"
)

// Lock implements domain.Locker with an advisory flock on a file under the
// .locks directory. Lock files are never unlinked, so every process agrees
// on the inode being locked.
func (d *Storage) Lock(ctx context.Context, name string) (func() error, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	path := d.lockPath(name)
	if err := d.os.MkdirAll(filepath.Dir(path), d.dirMode); err != nil {
		return nil, err
	}
	f, err := d.os.OpenFile(path, os.O_CREATE|os.O_RDWR, d.fileMode)
	if err != nil {
		return nil, err
	}

	for {
		err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			break
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EINTR) {
			f.Close()
			return nil, err
		}
		select {
		case <-ctx.Done():
			f.Close()
			return nil, ctx.Err()
		case <-time.After(d.lockRetry):
		}
	}

	return func() error {
		return errors.Join(unix.Flock(int(f.Fd()), unix.LOCK_UN), f.Close())
	}, nil
}
