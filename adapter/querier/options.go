package querier

import "github.com/vinicius-lino-figueiredo/docstore/domain"

// WithSorter sets the sorter used to order filtered documents.
func WithSorter(s domain.Sorter) Option {
	return func(q *Querier) {
		q.srtr = s
	}
}

// WithCapacity sets the initial capacity reserved for filtered results.
func WithCapacity(c int) Option {
	return func(q *Querier) {
		q.capacity = max(c, 0)
	}
}

// Option configures querier behavior through the functional options
// pattern.
type Option func(*Querier)
