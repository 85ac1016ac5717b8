package sorter

import (
	"fmt"

	"github.com/vinicius-lino-figueiredo/docstore/adapter/decoder"
	"github.com/vinicius-lino-figueiredo/docstore/domain"
)

// Wire names of the supported sort directives.
const (
	TypeOrderBy         = "OrderBy"
	TypeOrderDescending = "OrderDescending"
)

type wireSort struct {
	Type any `docstore:"type"`
	Key  any `docstore:"key"`
}

var wireDecoder = decoder.NewDecoder()

func malformed(format string, args ...any) error {
	return domain.ErrMalformedSort{Reason: fmt.Sprintf(format, args...)}
}

// Decode builds a sort directive from its wire form, such as
// {"type": "OrderBy", "key": "name"}. A boolean key selects the storage
// order; only OrderDescending with true reverses it.
func Decode(v any) (*domain.SortSpec, error) {
	if v == nil {
		return nil, malformed("sort is null")
	}

	var w wireSort
	if err := wireDecoder.Decode(v, &w); err != nil {
		return nil, fmt.Errorf("%w: %w", malformed("sort must be an object"), err)
	}

	typ, ok := w.Type.(string)
	if !ok {
		return nil, malformed("missing or non-string type")
	}
	if typ != TypeOrderBy && typ != TypeOrderDescending {
		return nil, malformed("unknown sort type %q", typ)
	}

	switch k := w.Key.(type) {
	case string:
		spec := domain.SortSpec{Key: k, Descending: typ == TypeOrderDescending}
		return &spec, nil
	case bool:
		return &domain.SortSpec{Natural: true, Descending: k && typ == TypeOrderDescending}, nil
	default:
		return nil, malformed("%s: key must be a string or a boolean, got %T", typ, w.Key)
	}
}
