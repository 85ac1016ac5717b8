package deserializer

import "github.com/vinicius-lino-figueiredo/docstore/domain"

// WithDocumentFactory sets the function used to build each stored document.
func WithDocumentFactory(f domain.DocumentFactory) Option {
	return func(d *Deserializer) {
		d.documentFactory = f
	}
}

// Option configures behavior through the functional options pattern.
type Option func(*Deserializer)
