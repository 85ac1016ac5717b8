// Package storage contains the default [domain.Storage] implementations: a
// crash-safe directory of JSON files and an in-memory map.
package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"github.com/vinicius-lino-figueiredo/docstore/domain"
)

const (
	DefaultDirMode  os.FileMode = 0o755
	DefaultFileMode os.FileMode = 0o644

	// Extension is appended to collection names to build file names.
	Extension = ".json"
	// TempSuffix marks the file written before replacing a collection.
	TempSuffix = "~"

	locksDirName     = ".locks"
	defaultLockRetry = 10 * time.Millisecond
)

var (
	osSpecificEnsureDir = func(o osOps, dir string, mode os.FileMode) error {
		return o.MkdirAll(dir, mode)
	}
	osSpecificSync = func(f *os.File, _ bool) error {
		return f.Sync()
	}
)

// Storage implements domain.Storage with one file per collection inside a
// directory. Writes go to a temporary file that replaces the collection
// file only after it has been flushed, so a crash leaves either the old or
// the new content in place.
type Storage struct {
	dir         string
	fileMode    os.FileMode
	dirMode     os.FileMode
	lockRetry   time.Duration
	os          osOps
	replaceFile func(src, dst string) error
}

// NewStorage returns a new implementation of domain.Storage.
func NewStorage(opts ...Option) domain.Storage {
	s := Storage{
		dir:         ".",
		fileMode:    DefaultFileMode,
		dirMode:     DefaultDirMode,
		lockRetry:   defaultLockRetry,
		os:          &osImpl{},
		replaceFile: atomic.ReplaceFile,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return &s
}

func (d *Storage) filename(name string) string {
	return filepath.Join(d.dir, name+Extension)
}

// Exists implements domain.Storage.
func (d *Storage) Exists(ctx context.Context, name string) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}
	return d.exists(d.filename(name))
}

func (d *Storage) exists(filename string) (bool, error) {
	_, err := d.os.Stat(filename)
	if err != nil {
		if d.os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Read implements domain.Storage.
func (d *Storage) Read(ctx context.Context, name string) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	filename := d.filename(name)
	if err := d.ensureDatafileIntegrity(filename); err != nil {
		return nil, err
	}
	return d.os.OpenFile(filename, os.O_RDONLY, d.fileMode)
}

// ensureDatafileIntegrity restores the temporary file if a crash happened
// after the old file was gone but before the new one took its place.
func (d *Storage) ensureDatafileIntegrity(filename string) error {
	filenameExists, err := d.exists(filename)
	if err != nil {
		return err
	}
	// Write was successful
	if filenameExists {
		return nil
	}

	tempExists, err := d.exists(filename + TempSuffix)
	if err != nil {
		return err
	}
	if !tempExists {
		return nil
	}
	return d.os.Rename(filename+TempSuffix, filename)
}

// Write implements domain.Storage.
func (d *Storage) Write(ctx context.Context, name string, data []byte) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if err := osSpecificEnsureDir(d.os, d.dir, d.dirMode); err != nil {
		return err
	}
	return d.crashSafeWriteFile(d.filename(name), data)
}

func (d *Storage) crashSafeWriteFile(filename string, data []byte) error {
	tempFilename := filename + TempSuffix

	if err := d.flushToStorage(filepath.Dir(filename), true); err != nil {
		return err
	}

	exists, err := d.exists(filename)
	if err != nil {
		return err
	}

	if exists {
		if err := d.flushToStorage(filename, false); err != nil {
			return err
		}
	}

	if err := d.writeFile(tempFilename, data); err != nil {
		return err
	}

	if err := d.flushToStorage(tempFilename, false); err != nil {
		return err
	}

	if err := d.replaceFile(tempFilename, filename); err != nil {
		return err
	}

	return d.flushToStorage(filepath.Dir(filename), true)
}

func (d *Storage) flushToStorage(filename string, isDir bool) error {
	flags := os.O_RDWR
	mode := d.fileMode
	if isDir {
		flags = os.O_RDONLY
		mode = d.dirMode
	}

	fileHandle, err := d.os.OpenFile(filename, flags, mode)
	if err != nil {
		return domain.ErrFlushToStorage{ErrorOnFsync: err}
	}

	if err := osSpecificSync(fileHandle, isDir); err != nil {
		fileHandle.Close()
		return domain.ErrFlushToStorage{ErrorOnFsync: err}
	}

	if err := fileHandle.Close(); err != nil {
		return domain.ErrFlushToStorage{ErrorOnClose: err}
	}

	return nil
}

func (d *Storage) writeFile(filename string, data []byte) error {
	f, err := d.os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, d.fileMode)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Remove implements domain.Storage.
func (d *Storage) Remove(ctx context.Context, name string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	filename := d.filename(name)
	for _, f := range []string{filename + TempSuffix, filename} {
		if err := d.os.Remove(f); err != nil && !d.os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// List implements domain.Storage.
func (d *Storage) List(ctx context.Context) ([]string, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	entries, err := d.os.ReadDir(d.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name, ok := strings.CutSuffix(entry.Name(), Extension)
		if !ok || name == "" {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

func (d *Storage) lockPath(name string) string {
	return filepath.Join(d.dir, locksDirName, name+".lock")
}
