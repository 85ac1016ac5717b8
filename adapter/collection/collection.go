// Package collection contains the store that owns the lifecycle of named
// collections: loading, querying and mutating them under a per-name lock.
package collection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/vinicius-lino-figueiredo/docstore/adapter/data"
	"github.com/vinicius-lino-figueiredo/docstore/adapter/idallocator"
	"github.com/vinicius-lino-figueiredo/docstore/adapter/persistence"
	"github.com/vinicius-lino-figueiredo/docstore/adapter/querier"
	"github.com/vinicius-lino-figueiredo/docstore/adapter/storage"
	"github.com/vinicius-lino-figueiredo/docstore/domain"
	"github.com/vinicius-lino-figueiredo/docstore/pkg/ctxsync"
)

// ErrConflictingOptions is returned by [NewStore] when both a persistence
// and a storage are given, since the persistence already owns its storage.
var ErrConflictingOptions = errors.New("WithPersistence and WithStorage are mutually exclusive")

// Store serializes every operation on a collection name. Operations on
// different names never contend.
type Store struct {
	persistence     domain.Persistence
	storage         domain.Storage
	querier         domain.Querier
	idAllocator     domain.IDAllocator
	documentFactory domain.DocumentFactory
	locks           *ctxsync.Registry
	locker          domain.Locker
	logger          *slog.Logger
}

// NewStore returns a new Store. Without options it keeps its collections as
// JSON files in the working directory.
func NewStore(opts ...Option) (*Store, error) {
	s := Store{
		querier:         querier.NewQuerier(),
		idAllocator:     idallocator.NewIDAllocator(),
		documentFactory: data.NewDocument,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(&s)
	}

	if s.persistence != nil && s.storage != nil {
		return nil, ErrConflictingOptions
	}
	if s.persistence == nil {
		if s.storage == nil {
			s.storage = storage.NewStorage()
		}
		s.persistence = persistence.NewPersistence(persistence.WithStorage(s.storage))
	}
	if s.locker == nil && s.storage != nil {
		s.locker, _ = s.storage.(domain.Locker)
	}
	if s.locks == nil {
		s.locks = ctxsync.NewRegistry()
	}
	return &s, nil
}

// ValidateName checks that name can be mapped to a storage unit.
func ValidateName(name string) error {
	switch {
	case name == "":
		return domain.ErrCollectionName{Name: name, Reason: "name is empty"}
	case name == "." || name == "..":
		return domain.ErrCollectionName{Name: name, Reason: "name is a relative path"}
	case strings.ContainsAny(name, `/\`):
		return domain.ErrCollectionName{Name: name, Reason: "name contains a path separator"}
	case strings.ContainsRune(name, 0):
		return domain.ErrCollectionName{Name: name, Reason: "name contains a NUL byte"}
	case strings.HasSuffix(name, storage.TempSuffix):
		return domain.ErrCollectionName{Name: name, Reason: "suffix " + storage.TempSuffix + " is reserved"}
	}
	return nil
}

// exec runs fn while holding the lock for name. Waiting for the lock honors
// ctx; once it is held, fn runs to completion regardless of cancellation.
func (s *Store) exec(ctx context.Context, name, op string, fn func(context.Context, *slog.Logger) error) (err error) {
	unlockName, err := s.locks.Lock(ctx, name)
	if err != nil {
		return err
	}
	defer unlockName()

	ctx = context.WithoutCancel(ctx)
	log := s.logger.With("collection", name, "op", op, "op_id", uuid.NewString())

	if s.locker != nil {
		unlock, lErr := s.locker.Lock(ctx, name)
		if lErr != nil {
			log.ErrorContext(ctx, "acquiring storage lock", "error", lErr)
			return fmt.Errorf("locking collection %q: %w", name, lErr)
		}
		defer func() {
			if uErr := unlock(); uErr != nil {
				log.ErrorContext(ctx, "releasing storage lock", "error", uErr)
				err = errors.Join(err, uErr)
			}
		}()
	}

	if err = fn(ctx, log); err != nil {
		log.ErrorContext(ctx, "operation failed", "error", err)
	}
	return err
}

func (s *Store) load(ctx context.Context, name string) ([]domain.Document, error) {
	docs, err := s.persistence.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("loading collection: %w", err)
	}
	return docs, nil
}

// List returns the page of the collection selected by q. Filtering and
// sorting run over the whole collection before pagination.
func (s *Store) List(ctx context.Context, name string, q domain.Query) ([]domain.Document, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	var res []domain.Document
	err := s.exec(ctx, name, "list", func(ctx context.Context, log *slog.Logger) error {
		docs, err := s.load(ctx, name)
		if err != nil {
			return err
		}
		res, err = s.querier.Query(ctx, docs, q)
		if err != nil {
			return fmt.Errorf("querying collection: %w", err)
		}
		log.DebugContext(ctx, "listed documents", "scanned", len(docs), "returned", len(res))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Get returns the first document with the given id, or an empty document if
// there is none.
func (s *Store) Get(ctx context.Context, name string, id uint64) (domain.Document, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	var res domain.Document = data.M{}
	err := s.exec(ctx, name, "get", func(ctx context.Context, _ *slog.Logger) error {
		docs, err := s.load(ctx, name)
		if err != nil {
			return err
		}
		for _, doc := range docs {
			if docID, ok := doc.ID(); ok && docID == id {
				res = doc
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Create appends doc to the collection and returns the stored document. A
// document without an id gets one greater than every id in the collection;
// an explicit id is kept as given, without a uniqueness check.
func (s *Store) Create(ctx context.Context, name string, doc any) (domain.Document, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrDocumentType{Type: "null"}
	}
	newDoc, err := s.documentFactory(doc)
	if err != nil {
		return nil, err
	}

	hasID := newDoc.Has(data.IDField)
	if hasID {
		id, ok := data.AsUint64(newDoc.Get(data.IDField))
		if !ok {
			return nil, domain.ErrInvalidID{Value: newDoc.Get(data.IDField)}
		}
		newDoc.Set(data.IDField, id)
	}

	err = s.exec(ctx, name, "create", func(ctx context.Context, log *slog.Logger) error {
		docs, err := s.load(ctx, name)
		if err != nil {
			return err
		}
		if !hasID {
			id, err := s.idAllocator.NextID(docs)
			if err != nil {
				return fmt.Errorf("allocating id: %w", err)
			}
			newDoc.Set(data.IDField, id)
		}
		if err := s.persistence.Persist(ctx, name, append(docs, newDoc)); err != nil {
			return err
		}
		id, _ := newDoc.ID()
		log.DebugContext(ctx, "document created", "id", id, "explicit_id", hasID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newDoc, nil
}

// Update sets field to value in every document with the given id and
// returns the last updated document. A missing id is not an error: nothing is
// written and an empty document is returned.
func (s *Store) Update(ctx context.Context, name string, id uint64, field string, value any) (domain.Document, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if field == data.IDField {
		return nil, domain.ErrCannotModifyID
	}
	v, err := data.NormalizeValue(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDocumentType{Type: fmt.Sprintf("%T", value)}, err)
	}

	var res domain.Document = data.M{}
	err = s.exec(ctx, name, "update", func(ctx context.Context, log *slog.Logger) error {
		docs, err := s.load(ctx, name)
		if err != nil {
			return err
		}
		updated := 0
		for _, doc := range docs {
			if docID, ok := doc.ID(); !ok || docID != id {
				continue
			}
			doc.Set(field, v)
			res = doc
			updated++
		}
		if updated == 0 {
			log.DebugContext(ctx, "no document to update", "id", id)
			return nil
		}
		if err := s.persistence.Persist(ctx, name, docs); err != nil {
			res = data.M{}
			return err
		}
		log.DebugContext(ctx, "document updated", "id", id, "field", field, "matched", updated)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// UpdateWith applies an update payload, an object holding exactly one field.
// An empty object is accepted and changes nothing.
func (s *Store) UpdateWith(ctx context.Context, name string, id uint64, payload any) (domain.Document, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, domain.ErrDocumentType{Type: "null"}
	}
	p, err := s.documentFactory(payload)
	if err != nil {
		return nil, err
	}
	if p.Len() == 0 {
		return data.M{}, nil
	}
	if p.Len() != 1 {
		return nil, domain.ErrUpdatePayload{Fields: p.Len()}
	}
	var field string
	var value any
	for k, v := range p.Iter() {
		field, value = k, v
	}
	return s.Update(ctx, name, id, field, value)
}

// Delete removes every document with the given id. A missing id is not an
// error and nothing is written.
func (s *Store) Delete(ctx context.Context, name string, id uint64) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	return s.exec(ctx, name, "delete", func(ctx context.Context, log *slog.Logger) error {
		docs, err := s.load(ctx, name)
		if err != nil {
			return err
		}
		kept := make([]domain.Document, 0, len(docs))
		for _, doc := range docs {
			if docID, ok := doc.ID(); ok && docID == id {
				continue
			}
			kept = append(kept, doc)
		}
		removed := len(docs) - len(kept)
		if removed == 0 {
			log.DebugContext(ctx, "no document to delete", "id", id)
			return nil
		}
		if err := s.persistence.Persist(ctx, name, kept); err != nil {
			return err
		}
		log.DebugContext(ctx, "document deleted", "id", id, "removed", removed)
		return nil
	})
}

// Drop removes the stored collection. Dropping a missing collection is not
// an error.
func (s *Store) Drop(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	return s.exec(ctx, name, "drop", func(ctx context.Context, log *slog.Logger) error {
		if err := s.persistence.Drop(ctx, name); err != nil {
			return fmt.Errorf("dropping collection: %w", err)
		}
		log.DebugContext(ctx, "collection dropped")
		return nil
	})
}

// Collections lists the names of the stored collections, sorted.
func (s *Store) Collections(ctx context.Context) ([]string, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	names, err := s.persistence.Names(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}
	return names, nil
}
