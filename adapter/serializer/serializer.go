// Package serializer contains the default [domain.Serializer] implementation.
package serializer

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/dolmen-go/contextio"
	"github.com/vinicius-lino-figueiredo/docstore/domain"
)

// DefaultIndent is the indentation used for each nesting level.
const DefaultIndent = "  "

// Serializer implements domain.Serializer. Collections are written as a JSON
// array with one indented object per document and keys in sorted order.
type Serializer struct {
	indent string
}

// NewSerializer returns a new implementation of domain.Serializer.
func NewSerializer(opts ...Option) domain.Serializer {
	s := Serializer{
		indent: DefaultIndent,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return &s
}

// Serialize implements domain.Serializer.
func (s *Serializer) Serialize(ctx context.Context, docs []domain.Document) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	if docs == nil {
		docs = []domain.Document{}
	}

	buf := new(bytes.Buffer)
	enc := json.NewEncoder(contextio.NewWriter(ctx, buf))
	enc.SetEscapeHTML(false)
	if s.indent != "" {
		enc.SetIndent("", s.indent)
	}
	if err := enc.Encode(docs); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
