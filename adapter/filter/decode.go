package filter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/vinicius-lino-figueiredo/docstore/adapter/data"
	"github.com/vinicius-lino-figueiredo/docstore/adapter/decoder"
	"github.com/vinicius-lino-figueiredo/docstore/domain"
)

// Wire names of the supported nodes.
const (
	TypeEquals             = "Equals"
	TypeNotEquals          = "NotEquals"
	TypeGreaterThan        = "GreaterThan"
	TypeGreaterThanOrEqual = "GreaterThanOrEqual"
	TypeLessThan           = "LessThan"
	TypeLessThanOrEqual    = "LessThanOrEqual"
	TypeInSet              = "InSet"
	TypeNotInSet           = "NotInSet"
	TypeLike               = "Like"
	TypeNotLike            = "NotLike"
	TypeAnd                = "And"
	TypeOr                 = "Or"
	TypeNot                = "Not"
)

// aliases maps names accepted for compatibility with older clients.
var aliases = map[string]string{
	"GreaterThanOrEqualsTo":  TypeGreaterThanOrEqual,
	"LessThanThan":           TypeLessThan,
	"LessThanThanOrEqualsTo": TypeLessThanOrEqual,
}

type wireNode struct {
	Type    any `docstore:"type"`
	Key     any `docstore:"key"`
	Value   any `docstore:"value"`
	Pattern any `docstore:"pattern"`
	Left    any `docstore:"left"`
	Right   any `docstore:"right"`
	Inner   any `docstore:"inner"`
}

var wireDecoder = decoder.NewDecoder()

func malformed(format string, args ...any) error {
	return domain.ErrMalformedFilter{Reason: fmt.Sprintf(format, args...)}
}

// Unmarshal parses a JSON filter expression. Numbers are kept as
// [json.Number] so they compare exactly against stored values.
func Unmarshal(b []byte) (domain.Filter, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %w", malformed("invalid JSON"), err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, malformed("trailing data after filter")
	}
	return Decode(v)
}

// Decode builds a filter from its wire form, a tagged object such as
// {"type": "Equals", "key": "name", "value": "run"}.
func Decode(v any) (domain.Filter, error) {
	if v == nil {
		return nil, malformed("filter is null")
	}

	var n wireNode
	if err := wireDecoder.Decode(v, &n); err != nil {
		return nil, fmt.Errorf("%w: %w", malformed("filter must be an object"), err)
	}

	typ, ok := n.Type.(string)
	if !ok {
		return nil, malformed("missing or non-string type")
	}
	if name, ok := aliases[typ]; ok {
		typ = name
	}

	switch typ {
	case TypeAnd, TypeOr:
		left, err := decodeChild(typ, "left", n.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeChild(typ, "right", n.Right)
		if err != nil {
			return nil, err
		}
		if typ == TypeAnd {
			return And{Left: left, Right: right}, nil
		}
		return Or{Left: left, Right: right}, nil
	case TypeNot:
		inner, err := decodeChild(typ, "inner", n.Inner)
		if err != nil {
			return nil, err
		}
		return Not{Inner: inner}, nil
	}

	key, ok := n.Key.(string)
	if !ok {
		return nil, malformed("%s: key must be a string, got %T", typ, n.Key)
	}

	switch typ {
	case TypeLike, TypeNotLike:
		pattern, ok := n.Pattern.(string)
		if !ok {
			return nil, malformed("%s: pattern must be a string, got %T", typ, n.Pattern)
		}
		if typ == TypeLike {
			return NewLike(key, pattern), nil
		}
		return NewNotLike(key, pattern), nil
	}

	value, err := data.NormalizeValue(n.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", malformed("%s: unsupported value", typ), err)
	}

	switch typ {
	case TypeEquals:
		return Equals{Key: key, Value: value}, nil
	case TypeNotEquals:
		return NotEquals{Key: key, Value: value}, nil
	case TypeGreaterThan:
		return GreaterThan{Key: key, Value: value}, nil
	case TypeGreaterThanOrEqual:
		return GreaterThanOrEqual{Key: key, Value: value}, nil
	case TypeLessThan:
		return LessThan{Key: key, Value: value}, nil
	case TypeLessThanOrEqual:
		return LessThanOrEqual{Key: key, Value: value}, nil
	case TypeInSet:
		return InSet{Key: key, Value: value}, nil
	case TypeNotInSet:
		return NotInSet{Key: key, Value: value}, nil
	default:
		return nil, malformed("unknown filter type %q", typ)
	}
}

func decodeChild(typ, field string, v any) (domain.Filter, error) {
	if v == nil {
		return nil, malformed("%s: missing %s", typ, field)
	}
	return Decode(v)
}
