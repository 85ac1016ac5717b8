// Package docstore provides dynamically named collections of schema-less JSON
// documents, queried through a small filter and sort language with
// pagination.
//
// Each collection is kept as a single JSON array that is loaded, modified and
// atomically replaced as a whole. Every operation on a collection runs under
// a lock owned by that collection name, so concurrent callers never lose
// writes and unrelated collections never wait for each other.
//
// The basic usage starts with creating a new [Store], which can be done by
// calling [NewStore].
package docstore

import (
	"context"
	"log/slog"

	"github.com/vinicius-lino-figueiredo/docstore/adapter/collection"
	"github.com/vinicius-lino-figueiredo/docstore/adapter/filter"
	"github.com/vinicius-lino-figueiredo/docstore/adapter/querier"
	"github.com/vinicius-lino-figueiredo/docstore/adapter/sorter"
	"github.com/vinicius-lino-figueiredo/docstore/domain"
	"github.com/vinicius-lino-figueiredo/docstore/pkg/ctxsync"
)

var (
	// ErrClientInput is matched by every error caused by a malformed
	// request, as opposed to a storage failure.
	ErrClientInput = domain.ErrClientInput
	// ErrCannotModifyID is returned by [Store.Update] when the field to be
	// set is the document id.
	ErrCannotModifyID = domain.ErrCannotModifyID
	// ErrTargetNil is returned when user provides a nil value as a target
	// to decode data.
	ErrTargetNil = domain.ErrTargetNil
)

// ErrPagination is returned when limit or offset are not unsigned integers.
type ErrPagination = domain.ErrPagination

// ErrMalformedFilter is returned when a filter does not have the expected
// shape.
type ErrMalformedFilter = domain.ErrMalformedFilter

// ErrMalformedSort is returned when a sort directive does not have the
// expected shape.
type ErrMalformedSort = domain.ErrMalformedSort

// ErrCollectionName is returned for names that cannot be mapped to a storage
// unit, such as names holding path separators or ending with '~', which is
// reserved for the crash-safe temporary file.
type ErrCollectionName = domain.ErrCollectionName

// ErrDocumentType is returned when an user passes a value that cannot be
// stored as a document.
type ErrDocumentType = domain.ErrDocumentType

// ErrInvalidID is returned when a document is created with an id that is not
// an unsigned integer.
type ErrInvalidID = domain.ErrInvalidID

// ErrUpdatePayload is returned when an update payload does not hold exactly
// one field.
type ErrUpdatePayload = domain.ErrUpdatePayload

// ErrInvalidNumber is returned when a document holds NaN, an infinity or a
// malformed json.Number.
type ErrInvalidNumber = domain.ErrInvalidNumber

// ErrCorruptCollection is returned when a stored collection cannot be read.
// The stored content is never replaced by an empty collection.
type ErrCorruptCollection = domain.ErrCorruptCollection

// ErrPersistCollection is returned when the storage fails to replace a
// collection. The previous content remains in place.
type ErrPersistCollection = domain.ErrPersistCollection

// ErrCannotCompare is returned when [Comparer.Compare] is called with two
// values that cannot be ordered.
type ErrCannotCompare = domain.ErrCannotCompare

// NewStore creates a new [Store] with the provided configuration options:
//
// - [WithStorage]: sets where collections are kept. Defaults to JSON files in
// the working directory.
//
// - [WithPersistence]: replaces the whole persistence layer.
//
// - [WithQuerier]: sets the implementation running filter, sort and
// pagination.
//
// - [WithIDAllocator]: sets how ids of new documents are chosen.
//
// - [WithDocumentFactory]: sets the function for creating [Document]
// instances.
//
// - [WithLocks]: shares per-collection locks between stores.
//
// - [WithLocker]: sets a cross-process lock.
//
// - [WithLogger]: sets the structured logger.
func NewStore(options ...collection.Option) (Store, error) {
	s, err := collection.NewStore(options...)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Store owns named collections of documents. All methods are safe to use
// concurrently from multiple goroutines. A collection that was never written
// is created empty on first use.
type Store interface {
	// List returns the page of documents selected by the query. The
	// filter and sort run over the whole collection, then the page
	// window is applied.
	List(ctx context.Context, name string, q Query) ([]Document, error)

	// Get returns the document with the given id, or an empty document if
	// there is none.
	Get(ctx context.Context, name string, id uint64) (Document, error)

	// Create stores a new document and returns it. If the document has no
	// id, one greater than every id in the collection is assigned.
	Create(ctx context.Context, name string, doc any) (Document, error)

	// Update sets a single field of the document with the given id. A
	// missing document is not an error: an empty document is returned and
	// nothing is written.
	Update(ctx context.Context, name string, id uint64, field string, value any) (Document, error)

	// UpdateWith is like Update, but reads the field and value from an
	// object with exactly one key.
	UpdateWith(ctx context.Context, name string, id uint64, payload any) (Document, error)

	// Delete removes the documents with the given id, if any.
	Delete(ctx context.Context, name string, id uint64) error

	// Drop removes the whole collection.
	Drop(ctx context.Context, name string) error

	// Collections lists the stored collection names, sorted.
	Collections(ctx context.Context) ([]string, error)
}

// Document represents a record in a collection.
type Document = domain.Document

// DocumentFactory represents a [Document] constructor that can be
// reimplemented. If nil is given as argument, a document of length 0 should
// be returned.
type DocumentFactory = domain.DocumentFactory

// Filter is a predicate over a single document.
type Filter = domain.Filter

// SortSpec is an ordering directive applied to query results.
type SortSpec = domain.SortSpec

// Query selects a page of a collection.
type Query = domain.Query

// Request is a decoded call: a query plus an optional payload.
type Request = domain.Request

// Storage provides durable units, one per collection.
type Storage = domain.Storage

// Locker excludes other processes from a collection.
type Locker = domain.Locker

// Persistence loads and persists whole collections.
type Persistence = domain.Persistence

// Serializer converts a collection to bytes for storage.
type Serializer = domain.Serializer

// Deserializer converts bytes back to a collection.
type Deserializer = domain.Deserializer

// Comparer provides ordering and comparison for different data types.
type Comparer = domain.Comparer

// Querier runs the filter, sort and pagination pipeline.
type Querier = domain.Querier

// IDAllocator computes identifiers for new documents.
type IDAllocator = domain.IDAllocator

// Locks hands out one lock per collection name.
type Locks = ctxsync.Registry

// NewLocks creates an empty set of collection locks, to be shared with
// [WithLocks].
func NewLocks() *Locks {
	return ctxsync.NewRegistry()
}

// Option configures [NewStore].
type Option = collection.Option

// WithStorage sets the storage backing the collections.
func WithStorage(s Storage) Option {
	return collection.WithStorage(s)
}

// WithPersistence sets the persistence used to load and store collections.
// It cannot be combined with [WithStorage].
func WithPersistence(p Persistence) Option {
	return collection.WithPersistence(p)
}

// WithQuerier sets the querier used by [Store.List].
func WithQuerier(q Querier) Option {
	return collection.WithQuerier(q)
}

// WithIDAllocator sets the allocator for documents created without an id.
func WithIDAllocator(i IDAllocator) Option {
	return collection.WithIDAllocator(i)
}

// WithDocumentFactory sets the function used to create documents.
func WithDocumentFactory(d DocumentFactory) Option {
	return collection.WithDocumentFactory(d)
}

// WithLocks sets the per-collection locks.
func WithLocks(l *Locks) Option {
	return collection.WithLocks(l)
}

// WithLocker sets the cross-process lock.
func WithLocker(l Locker) Option {
	return collection.WithLocker(l)
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return collection.WithLogger(l)
}

// ListOption configures a [Query] through the functional options pattern.
type ListOption = domain.ListOption

// NewQuery returns a [Query] with the default limit of 20 and offset of 0.
func NewQuery(opts ...ListOption) Query {
	return domain.NewQuery(opts...)
}

// WithFilter sets the predicate documents must satisfy.
func WithFilter(f Filter) ListOption {
	return domain.WithListFilter(f)
}

// WithSort sets the order of the results.
func WithSort(s SortSpec) ListOption {
	return domain.WithListSort(s)
}

// WithLimit sets the maximum number of documents to return.
func WithLimit(l uint64) ListOption {
	return domain.WithListLimit(l)
}

// WithOffset sets the number of documents to skip.
func WithOffset(o uint64) ListOption {
	return domain.WithListOffset(o)
}

// OrderBy sorts results by the given field, ascending.
func OrderBy(key string) SortSpec {
	return domain.OrderBy(key)
}

// OrderDescending sorts results by the given field, descending.
func OrderDescending(key string) SortSpec {
	return domain.OrderDescending(key)
}

// ParseFilter parses a filter from its JSON wire form.
func ParseFilter(b []byte) (Filter, error) {
	return filter.Unmarshal(b)
}

// ParseSort builds a sort directive from its decoded wire form.
func ParseSort(v any) (*SortSpec, error) {
	return sorter.Decode(v)
}

// ParseRequest decodes a request body {"filter": ..., "sort": ..., "data":
// ...} and its pagination parameters. Empty pagination values take the
// defaults.
func ParseRequest(body []byte, limit, offset string) (Request, error) {
	return querier.ParseRequest(body, limit, offset)
}
