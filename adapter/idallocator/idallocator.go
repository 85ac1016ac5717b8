// Package idallocator contains the default [domain.IDAllocator]
// implementation, deriving the next id from the ids already in use.
package idallocator

import (
	"errors"
	"math"

	"github.com/vinicius-lino-figueiredo/docstore/domain"
)

// ErrExhausted is returned when a collection already holds the largest
// representable id.
var ErrExhausted = errors.New("no ids left after the maximum unsigned id")

// IDAllocator implements [domain.IDAllocator].
type IDAllocator struct {
	first uint64
}

// NewIDAllocator returns a new implementation of [domain.IDAllocator].
func NewIDAllocator(opts ...Option) domain.IDAllocator {
	i := IDAllocator{first: 1}
	for _, opt := range opts {
		opt(&i)
	}
	return &i
}

// NextID implements [domain.IDAllocator]. Documents without a parseable
// unsigned id are ignored. It scans the whole collection, so it must run
// under the same lock as the append that uses its result.
func (i *IDAllocator) NextID(docs []domain.Document) (uint64, error) {
	var highest uint64
	found := false
	for _, doc := range docs {
		id, ok := doc.ID()
		if !ok {
			continue
		}
		if !found || id > highest {
			highest, found = id, true
		}
	}
	if !found {
		return i.first, nil
	}
	if highest == math.MaxUint64 {
		return 0, ErrExhausted
	}
	return max(highest+1, i.first), nil
}
