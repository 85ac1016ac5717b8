package docstore_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/vinicius-lino-figueiredo/docstore"
	"github.com/vinicius-lino-figueiredo/docstore/adapter/filter"
	"github.com/vinicius-lino-figueiredo/docstore/adapter/storage"
)

func ExampleNewStore() {
	// Without options, collections are kept as "<name>.json" files in the
	// working directory. Any [docstore.Storage] can be used instead.
	store, _ := docstore.NewStore(
		docstore.WithStorage(storage.NewMemory()),
	)

	// Every method receives a context. Cancelling it stops a caller that
	// is still waiting for the collection lock, but an operation that
	// already started always completes.
	ctx := context.Background()

	// Collections are created empty on first use.
	docs, _ := store.List(ctx, "tasks", docstore.NewQuery())
	fmt.Println(docs)

	names, _ := store.Collections(ctx)
	fmt.Println(names)

	// Output:
	// []
	// [tasks]
}

func ExampleStore_Create() {
	store, _ := docstore.NewStore(docstore.WithStorage(storage.NewMemory()))
	ctx := context.Background()

	// Structs are stored using the docstore tag for field names.
	type Task struct {
		Title string `docstore:"title"`
		Done  bool   `docstore:"done"`
	}

	// Documents without an id get one greater than every id in use.
	first, _ := store.Create(ctx, "tasks", Task{Title: "write docs"})
	second, _ := store.Create(ctx, "tasks", map[string]any{"title": "review"})
	fmt.Println(first.Get("id"), first.Get("title"), first.Get("done"))
	fmt.Println(second.Get("id"), second.Get("title"))

	// An explicit id is kept, but it must be an unsigned integer.
	third, _ := store.Create(ctx, "tasks", map[string]any{"id": 10, "title": "ship"})
	fmt.Println(third.Get("id"))

	_, err := store.Create(ctx, "tasks", map[string]any{"id": "x"})
	fmt.Println(errors.Is(err, docstore.ErrClientInput))

	// Output:
	// 1 write docs false
	// 2 review
	// 10
	// true
}

func ExampleStore_List() {
	store, _ := docstore.NewStore(docstore.WithStorage(storage.NewMemory()))
	ctx := context.Background()

	for n, name := range []string{"Alice", "Bob", "Alina", "Carl", "Alan"} {
		_, _ = store.Create(ctx, "users", map[string]any{"name": name, "age": 20 + n})
	}

	// Filters can be built from their JSON form...
	f, _ := docstore.ParseFilter([]byte(`{"type": "Like", "key": "name", "pattern": "Al%"}`))

	// ...or directly from the node types.
	f = filter.And{Left: f, Right: filter.GreaterThan{Key: "age", Value: 20}}

	docs, _ := store.List(ctx, "users", docstore.NewQuery(
		docstore.WithFilter(f),
		docstore.WithSort(docstore.OrderDescending("age")),
		docstore.WithLimit(1),
	))
	for _, doc := range docs {
		fmt.Println(doc.Get("name"), doc.Get("age"))
	}

	// Output:
	// Alan 24
}

func ExampleStore_Update() {
	store, _ := docstore.NewStore(docstore.WithStorage(storage.NewMemory()))
	ctx := context.Background()

	_, _ = store.Create(ctx, "users", map[string]any{"name": "Bob", "age": 40})

	doc, _ := store.Update(ctx, "users", 1, "name", "John")
	fmt.Println(doc.Get("name"), doc.Get("age"))

	// Updating a missing document returns an empty one.
	doc, _ = store.Update(ctx, "users", 7, "name", "John")
	fmt.Println(doc.Len())

	_, err := store.Update(ctx, "users", 1, "id", 2)
	fmt.Println(err)

	// Output:
	// John 40
	// 0
	// cannot modify the id field
}

func ExampleParseRequest() {
	body := []byte(`{
		"filter": {"type": "InSet", "key": "status", "value": ["open", "late"]},
		"sort": {"type": "OrderBy", "key": "due"}
	}`)

	req, _ := docstore.ParseRequest(body, "5", "")
	fmt.Println(req.Query.Limit, req.Query.Offset, req.Query.Sort.Key)

	_, err := docstore.ParseRequest(body, "-1", "")
	var errPage docstore.ErrPagination
	fmt.Println(errors.As(err, &errPage), errPage.Param)

	// Output:
	// 5 0 due
	// true limit
}
