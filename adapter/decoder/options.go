package decoder

import "github.com/mitchellh/mapstructure"

// WithErrorUnused makes Decode fail when the source holds keys that have no
// matching field in the target.
func WithErrorUnused(e bool) Option {
	return func(d *Decoder) {
		d.errorUnused = e
	}
}

// WithTagName sets the struct tag read for field names.
func WithTagName(name string) Option {
	return func(d *Decoder) {
		d.tagName = name
	}
}

// WithDecodeHook sets a hook run on every value before it is decoded.
func WithDecodeHook(h mapstructure.DecodeHookFunc) Option {
	return func(d *Decoder) {
		d.hook = h
	}
}

// Option configures behavior through the functional options pattern.
type Option func(*Decoder)
