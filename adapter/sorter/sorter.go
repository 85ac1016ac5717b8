// Package sorter contains the default [domain.Sorter] implementation.
package sorter

import (
	"context"
	"fmt"
	"slices"

	"github.com/vinicius-lino-figueiredo/bst"
	"github.com/vinicius-lino-figueiredo/bst/adapter/avl"
	"github.com/vinicius-lino-figueiredo/docstore/adapter/comparer"
	"github.com/vinicius-lino-figueiredo/docstore/domain"
)

// key is the tree key of a single document. The position makes every key
// unique, so documents with equal values keep their storage order.
type key struct {
	value   any
	missing bool
	pos     int
}

type bstComparer struct {
	comparer   domain.Comparer
	descending bool
}

// CompareKeys implements bst.Comparer.
func (bc *bstComparer) CompareKeys(a key, b key) (int, error) {
	c, err := bc.compareValues(a, b)
	if err != nil {
		return 0, err
	}
	if bc.descending {
		c = -c
	}
	if c != 0 {
		return c, nil
	}
	switch {
	case a.pos < b.pos:
		return -1, nil
	case a.pos > b.pos:
		return 1, nil
	default:
		return 0, nil
	}
}

// missing fields come before every present value, including null.
func (bc *bstComparer) compareValues(a key, b key) (int, error) {
	switch {
	case a.missing && b.missing:
		return 0, nil
	case a.missing:
		return -1, nil
	case b.missing:
		return 1, nil
	}
	return bc.comparer.Compare(a.value, b.value)
}

// CompareValues implements bst.Comparer.
func (bc *bstComparer) CompareValues(a domain.Document, b domain.Document) (bool, error) {
	c, err := bc.comparer.Compare(a, b)
	if err != nil {
		return false, err
	}
	return c == 0, nil
}

// Sorter implements [domain.Sorter].
type Sorter struct {
	comparer domain.Comparer
}

// NewSorter returns a new implementation of [domain.Sorter].
func NewSorter(opts ...Option) domain.Sorter {
	s := Sorter{
		comparer: comparer.NewComparer(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return &s
}

// Sort implements [domain.Sorter].
func (s *Sorter) Sort(ctx context.Context, docs []domain.Document, spec domain.SortSpec) ([]domain.Document, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if spec.Natural {
		res := slices.Clone(docs)
		if spec.Descending {
			slices.Reverse(res)
		}
		return res, nil
	}

	var tree bst.BST[key, domain.Document] = avl.NewBST(false, 8, &bstComparer{
		comparer:   s.comparer,
		descending: spec.Descending,
	})

	for n, doc := range docs {
		k := key{pos: n, missing: doc == nil || !doc.Has(spec.Key)}
		if !k.missing {
			k.value = doc.Get(spec.Key)
		}
		if err := tree.Insert(k, doc); err != nil {
			return nil, fmt.Errorf("sorting by %q: %w", spec.Key, err)
		}
	}

	res := make([]domain.Document, 0, len(docs))
	for doc := range tree.GetAll() {
		res = append(res, doc)
	}
	return res, nil
}
