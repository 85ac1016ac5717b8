package domain

// Default pagination values, applied when the caller does not provide them.
const (
	DefaultLimit  uint64 = 20
	DefaultOffset uint64 = 0
)

// SortSpec is an ordering directive applied to query results. A spec with
// Natural set ignores Key and keeps the storage order, reversed when
// Descending is also set.
type SortSpec struct {
	Key        string
	Descending bool
	Natural    bool
}

// OrderBy returns an ascending [SortSpec] on the given field.
func OrderBy(key string) SortSpec {
	return SortSpec{Key: key}
}

// OrderDescending returns a descending [SortSpec] on the given field.
func OrderDescending(key string) SortSpec {
	return SortSpec{Key: key, Descending: true}
}

// Query selects a page of documents from a collection. A nil Filter or Sort
// is an identity step.
type Query struct {
	Filter Filter
	Sort   *SortSpec
	Limit  uint64
	Offset uint64
}

// Request is a decoded call from the dispatch layer: a query plus the
// optional payload used by create and update.
type Request struct {
	Query Query
	Data  any
}

// DocumentFactory represents a function that constructs [Document] instances
// from structured data types. If nil is provided, returns an empty document.
type DocumentFactory = func(any) (Document, error)
