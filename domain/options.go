package domain

// WithListFilter sets the predicate documents must satisfy.
func WithListFilter(f Filter) ListOption {
	return func(lo *Query) {
		lo.Filter = f
	}
}

// WithListSort specifies the sort order for query results.
func WithListSort(s SortSpec) ListOption {
	return func(lo *Query) {
		lo.Sort = &s
	}
}

// WithListLimit sets the maximum number of documents to return.
func WithListLimit(l uint64) ListOption {
	return func(lo *Query) {
		lo.Limit = l
	}
}

// WithListOffset sets the number of documents to skip in query results.
func WithListOffset(o uint64) ListOption {
	return func(lo *Query) {
		lo.Offset = o
	}
}

// ListOption configures query behavior through the functional options
// pattern.
type ListOption func(*Query)

// NewQuery returns a [Query] with default pagination and the given options
// applied.
func NewQuery(opts ...ListOption) Query {
	q := Query{
		Limit:  DefaultLimit,
		Offset: DefaultOffset,
	}
	for _, opt := range opts {
		opt(&q)
	}
	return q
}
