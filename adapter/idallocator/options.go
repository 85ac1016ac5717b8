package idallocator

// WithFirst sets the id given to the first document of a collection.
func WithFirst(first uint64) Option {
	return func(i *IDAllocator) {
		i.first = first
	}
}

// Option configures behavior through the functional options pattern.
type Option func(*IDAllocator)
