// Package persistence contains the default [domain.Persistence] implementation.
package persistence

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/dolmen-go/contextio"
	"github.com/vinicius-lino-figueiredo/docstore/adapter/deserializer"
	"github.com/vinicius-lino-figueiredo/docstore/adapter/serializer"
	"github.com/vinicius-lino-figueiredo/docstore/adapter/storage"
	"github.com/vinicius-lino-figueiredo/docstore/domain"
)

// Persistence implements domain.Persistence, storing each collection as one
// serialized unit.
type Persistence struct {
	serializer   domain.Serializer
	deserializer domain.Deserializer
	storage      domain.Storage
}

// NewPersistence returns a new implementation of domain.Persistence.
func NewPersistence(options ...Option) domain.Persistence {
	p := Persistence{
		serializer:   serializer.NewSerializer(),
		deserializer: deserializer.NewDeserializer(),
		storage:      storage.NewStorage(),
	}
	for _, option := range options {
		option(&p)
	}
	return &p
}

// Load implements domain.Persistence.
func (p *Persistence) Load(ctx context.Context, name string) ([]domain.Document, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	r, err := p.storage.Read(ctx, name)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		// a missing collection starts empty and exists from now on
		if err := p.Persist(ctx, name, nil); err != nil {
			return nil, err
		}
		return []domain.Document{}, nil
	}
	defer r.Close()

	b, err := io.ReadAll(contextio.NewReader(ctx, r))
	if err != nil {
		return nil, err
	}

	docs, err := p.deserializer.Deserialize(ctx, b)
	if err != nil {
		return nil, domain.ErrCorruptCollection{Name: name, Err: err}
	}
	return docs, nil
}

// Persist implements domain.Persistence.
func (p *Persistence) Persist(ctx context.Context, name string, docs []domain.Document) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	b, err := p.serializer.Serialize(ctx, docs)
	if err != nil {
		return domain.ErrPersistCollection{Name: name, Err: err}
	}
	if err := p.storage.Write(ctx, name, b); err != nil {
		return domain.ErrPersistCollection{Name: name, Err: err}
	}
	return nil
}

// Drop implements domain.Persistence.
func (p *Persistence) Drop(ctx context.Context, name string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	return p.storage.Remove(ctx, name)
}

// Names implements domain.Persistence.
func (p *Persistence) Names(ctx context.Context) ([]string, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return p.storage.List(ctx)
}
