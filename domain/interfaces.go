// Package domain contains domain-specific interfaces and option types for
// docstore.
//
// This package defines the core interfaces that must be implemented by
// adapters, the error types shared between them and the functional options
// used to configure list queries.
package domain

import (
	"context"
	"io"
	"iter"
)

// Serializer converts a collection to bytes for storage.
type Serializer interface {
	// Serialize converts an ordered list of documents to their durable
	// representation.
	Serialize(context.Context, []Document) ([]byte, error)
}

// Deserializer converts bytes back to a collection.
type Deserializer interface {
	// Deserialize converts a durable representation back to an ordered
	// list of documents.
	Deserialize(context.Context, []byte) ([]Document, error)
}

// Storage provides access to durable units, one per collection. Write must
// replace the whole unit atomically: readers observe either the previous
// content or the new one, never a partial write.
type Storage interface {
	// Exists checks if the unit exists.
	Exists(ctx context.Context, name string) (bool, error)
	// Read opens the unit for reading. Missing units return an error
	// matching [os.ErrNotExist].
	Read(ctx context.Context, name string) (io.ReadCloser, error)
	// Write atomically replaces the unit content, creating it if needed.
	Write(ctx context.Context, name string, data []byte) error
	// Remove deletes the unit. Missing units are not an error.
	Remove(ctx context.Context, name string) error
	// List returns the names of all units, sorted.
	List(ctx context.Context) ([]string, error)
}

// Locker is implemented by storages that can exclude other processes from a
// unit while a read-modify-write cycle is running.
type Locker interface {
	// Lock blocks until the unit is exclusively held or ctx is done. The
	// returned function releases it.
	Lock(ctx context.Context, name string) (unlock func() error, err error)
}

// Persistence loads and persists whole collections.
type Persistence interface {
	// Load reads the collection, materializing an empty one if it does
	// not exist yet.
	Load(ctx context.Context, name string) ([]Document, error)
	// Persist atomically replaces the stored collection.
	Persist(ctx context.Context, name string, docs []Document) error
	// Drop removes the stored collection.
	Drop(ctx context.Context, name string) error
	// Names lists stored collections.
	Names(ctx context.Context) ([]string, error)
}

// Decoder converts between different data representations.
type Decoder interface {
	// Decode converts from one data format to another.
	Decode(any, any) error
}

// Comparer provides ordering and comparison operations for different data
// types.
type Comparer interface {
	// Compare returns -1, 0, or 1 based on the comparison of two values.
	Compare(any, any) (int, error)
	// Comparable returns true if two values can be compared.
	Comparable(any, any) bool
}

// IDAllocator computes identifiers for new documents.
type IDAllocator interface {
	// NextID returns an id greater than every valid id in docs.
	NextID(docs []Document) (uint64, error)
}

// Filter is a pure predicate over a single document.
type Filter interface {
	// Match reports whether the document satisfies the predicate. It
	// never fails: values of unexpected types simply do not match.
	Match(Document) bool
}

// Sorter orders query results.
type Sorter interface {
	// Sort returns docs ordered according to spec. The input slice is not
	// modified.
	Sort(ctx context.Context, docs []Document, spec SortSpec) ([]Document, error)
}

// Querier runs the filter, sort and pagination pipeline over a loaded
// collection.
type Querier interface {
	// Query returns the page of docs selected by q.
	Query(ctx context.Context, docs []Document, q Query) ([]Document, error)
}

// Document represents a record in a collection. Document is read by one
// goroutine at a time and doesn't need to be concurrency safe.
type Document interface {
	// ID returns the document id and whether it is a valid unsigned
	// integer.
	ID() (uint64, bool)
	// D returns the subdocument for the given key, if any.
	D(string) Document
	// Get returns the value under the given key, or nil if unset.
	Get(string) any
	// Set sets the value for the given key.
	Set(string, any)
	// Unset removes the given key.
	Unset(string)
	// Has reports whether the key is set, even if to nil.
	Has(string) bool
	// Keys iterates over the keys of the document, sorted.
	Keys() iter.Seq[string]
	// Values iterates over the values of the document, sorted by key.
	Values() iter.Seq[any]
	// Iter iterates over key/value pairs, sorted by key.
	Iter() iter.Seq2[string, any]
	// Len returns the number of keys.
	Len() int
}
