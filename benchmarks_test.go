package docstore_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/vinicius-lino-figueiredo/docstore"
	"github.com/vinicius-lino-figueiredo/docstore/adapter/filter"
	"github.com/vinicius-lino-figueiredo/docstore/adapter/storage"
)

type M = map[string]any

func newBenchStore(b *testing.B, inMemory bool) docstore.Store {
	st := storage.NewStorage(storage.WithDir(b.TempDir()))
	if inMemory {
		st = storage.NewMemory()
	}
	store, err := docstore.NewStore(docstore.WithStorage(st))
	if err != nil {
		b.Fatal(err)
	}
	return store
}

func BenchmarkCreate(b *testing.B) {
	ctx := context.Background()

	m := M{"jo": "jo"}

	for _, inMemory := range []bool{true, false} {
		b.Run(fmt.Sprintf("InMemory=%t", inMemory), func(b *testing.B) {
			store := newBenchStore(b, inMemory)
			for b.Loop() {
				if _, err := store.Create(ctx, "bench", m); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkList(b *testing.B) {
	ctx := context.Background()

	sizes := [...]int{10, 100, 1_000}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("db=%d", size), func(b *testing.B) {
			store := newBenchStore(b, true)
			for n := range size {
				if _, err := store.Create(ctx, "bench", M{"part": n, "name": fmt.Sprintf("doc%d", n)}); err != nil {
					b.Fatal(err)
				}
			}

			q := docstore.NewQuery(
				docstore.WithFilter(filter.NewLike("name", "doc%1")),
				docstore.WithSort(docstore.OrderDescending("part")),
			)
			for b.Loop() {
				if _, err := store.List(ctx, "bench", q); err != nil {
					b.Fatal(err)
				}
			}

			perItem := float64(b.Elapsed().Nanoseconds()) / float64(b.N*size)

			b.ReportMetric(perItem, "ns/item")
		})
	}
}
