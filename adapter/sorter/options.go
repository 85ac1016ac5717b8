package sorter

import "github.com/vinicius-lino-figueiredo/docstore/domain"

// WithComparer sets the comparer used to order field values.
func WithComparer(c domain.Comparer) Option {
	return func(s *Sorter) {
		s.comparer = c
	}
}

// Option configures sorter behavior through the functional options pattern.
type Option func(*Sorter)
