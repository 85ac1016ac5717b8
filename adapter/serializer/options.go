package serializer

// WithIndent sets the indentation of each nesting level. An empty string
// writes the collection on a single line.
func WithIndent(i string) Option {
	return func(s *Serializer) {
		s.indent = i
	}
}

// Option configures behavior through the functional options pattern.
type Option func(*Serializer)
