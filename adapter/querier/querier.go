// Package querier contains the default [domain.Querier] implementation and
// the parsing of list requests into a [domain.Query].
package querier

import (
	"context"
	"fmt"

	"github.com/vinicius-lino-figueiredo/docstore/adapter/sorter"
	"github.com/vinicius-lino-figueiredo/docstore/domain"
)

// Querier implements [domain.Querier].
type Querier struct {
	srtr     domain.Sorter
	capacity int
}

// NewQuerier returns a new implementation of [domain.Querier].
func NewQuerier(opts ...Option) domain.Querier {
	q := Querier{
		capacity: 256,
	}
	for _, opt := range opts {
		opt(&q)
	}
	if q.srtr == nil {
		q.srtr = sorter.NewSorter()
	}
	return &q
}

// Query implements [domain.Querier]. Filtering and sorting always run over
// the whole collection before the page window is applied.
func (q *Querier) Query(ctx context.Context, docs []domain.Document, qry domain.Query) ([]domain.Document, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if qry.Limit == 0 || len(docs) == 0 {
		return make([]domain.Document, 0), nil
	}

	res := q.filter(docs, qry.Filter)

	if qry.Sort != nil {
		sorted, err := q.srtr.Sort(ctx, res, *qry.Sort)
		if err != nil {
			return nil, fmt.Errorf("sorting: %w", err)
		}
		res = sorted
	}

	return q.skipAndLimit(res, qry.Offset, qry.Limit), nil
}

func (q *Querier) filter(docs []domain.Document, f domain.Filter) []domain.Document {
	res := make([]domain.Document, 0, min(len(docs), q.capacity))
	for _, doc := range docs {
		if f != nil && !f.Match(doc) {
			continue
		}
		res = append(res, doc)
	}
	return res
}

func (q *Querier) skipAndLimit(data []domain.Document, skip, limit uint64) []domain.Document {
	length := uint64(len(data))

	skip = min(skip, length) // cannot skip more than length
	end := length
	if limit < length-skip {
		end = skip + limit
	}

	res := make([]domain.Document, end-skip)
	copy(res, data[skip:end])
	return res
}
