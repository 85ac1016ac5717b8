package collection

import (
	"log/slog"

	"github.com/vinicius-lino-figueiredo/docstore/domain"
	"github.com/vinicius-lino-figueiredo/docstore/pkg/ctxsync"
)

// WithPersistence sets the persistence used to load and store collections.
func WithPersistence(p domain.Persistence) Option {
	return func(s *Store) {
		s.persistence = p
	}
}

// WithStorage sets the storage backing the default persistence. If it
// implements [domain.Locker], it is also used to exclude other processes.
func WithStorage(st domain.Storage) Option {
	return func(s *Store) {
		s.storage = st
	}
}

// WithQuerier sets the querier used by list operations.
func WithQuerier(q domain.Querier) Option {
	return func(s *Store) {
		s.querier = q
	}
}

// WithIDAllocator sets the allocator for documents created without an id.
func WithIDAllocator(i domain.IDAllocator) Option {
	return func(s *Store) {
		s.idAllocator = i
	}
}

// WithDocumentFactory sets the factory function for creating document
// instances.
func WithDocumentFactory(d domain.DocumentFactory) Option {
	return func(s *Store) {
		s.documentFactory = d
	}
}

// WithLocks sets the registry holding the per-collection locks. Stores
// sharing a registry exclude each other.
func WithLocks(r *ctxsync.Registry) Option {
	return func(s *Store) {
		s.locks = r
	}
}

// WithLocker sets the cross-process lock taken after the in-process one.
func WithLocker(l domain.Locker) Option {
	return func(s *Store) {
		s.locker = l
	}
}

// WithLogger sets the logger. Defaults to [slog.Default].
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Option configures store behavior through the functional options pattern.
type Option func(*Store)
