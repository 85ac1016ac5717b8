// Package decoder contains the default [domain.Decoder] implementation, used
// to bind wire maps such as filter nodes and request envelopes to structs.
package decoder

import (
	"fmt"

	"github.com/goccy/go-reflect"
	"github.com/mitchellh/mapstructure"
	"github.com/vinicius-lino-figueiredo/docstore/adapter/data"
	"github.com/vinicius-lino-figueiredo/docstore/domain"
)

// Decoder implements domain.Decoder. Field names are matched against the
// struct tag named by tagName, falling back to a case-insensitive match on
// the field name.
type Decoder struct {
	tagName     string
	errorUnused bool
	hook        mapstructure.DecodeHookFunc
}

// NewDecoder returns a new implementation of domain.Decoder.
func NewDecoder(opts ...Option) domain.Decoder {
	d := Decoder{
		tagName: data.TagName,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return &d
}

// Decode implements domain.Decoder. Documents decode like the plain maps
// they are built on.
func (d *Decoder) Decode(source any, target any) error {
	if target == nil {
		return domain.ErrTargetNil
	}
	if reflect.ValueNoEscapeOf(target).Kind() != reflect.Ptr {
		return domain.ErrNonPointer
	}

	cfg := mapstructure.DecoderConfig{
		TagName:     d.tagName,
		ErrorUnused: d.errorUnused,
		DecodeHook:  d.hook,
		Result:      target,
	}
	dec, err := mapstructure.NewDecoder(&cfg)
	if err != nil {
		return err
	}
	if err := dec.Decode(source); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDecode{Source: source, Target: target}, err)
	}
	return nil
}
