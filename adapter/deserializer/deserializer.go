// Package deserializer contains the default [domain.Deserializer]
// implementation.
package deserializer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/dolmen-go/contextio"
	"github.com/vinicius-lino-figueiredo/docstore/adapter/data"
	"github.com/vinicius-lino-figueiredo/docstore/domain"
)

var (
	// ErrTrailingData is returned when there are unskippable bytes after
	// the JSON array.
	ErrTrailingData = errors.New("trailing data after JSON")
	// ErrNotArray is returned when the content is valid JSON but not an
	// array.
	ErrNotArray = errors.New("collection content is not a JSON array")
)

// ErrElementType is returned when an element of the stored array is not an
// object.
type ErrElementType struct {
	Index int
	Type  string
}

// Error implements [error].
func (e ErrElementType) Error() string {
	return fmt.Sprintf("element %d is a %s, expected an object", e.Index, e.Type)
}

// NewDeserializer returns a new instance of domain.Deserializer.
func NewDeserializer(opts ...Option) domain.Deserializer {
	d := Deserializer{
		documentFactory: data.NewDocument,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return &d
}

// Deserializer implements domain.Deserializer.
type Deserializer struct {
	documentFactory domain.DocumentFactory
}

// Deserialize implements domain.Deserializer. Whitespace-only content is an
// empty collection.
func (d *Deserializer) Deserialize(ctx context.Context, b []byte) ([]domain.Document, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return []domain.Document{}, nil
	}

	dec := json.NewDecoder(contextio.NewReader(ctx, bytes.NewReader(b)))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if err := dec.Decode(new(json.RawMessage)); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, ErrTrailingData
	}

	list, ok := raw.([]any)
	if !ok {
		return nil, ErrNotArray
	}

	docs := make([]domain.Document, 0, len(list))
	for n, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, ErrElementType{Index: n, Type: jsonType(item)}
		}
		doc, err := d.documentFactory(obj)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", n, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}
