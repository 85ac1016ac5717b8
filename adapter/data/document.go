// Package data contains the default [domain.Document] implementation.
package data

import (
	"bytes"
	"encoding"
	"encoding/json"
	"fmt"
	"iter"
	"maps"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	goreflect "github.com/goccy/go-reflect"

	"github.com/vinicius-lino-figueiredo/docstore/domain"
)

// TagName is the struct tag read when building documents from structs.
const TagName = "docstore"

// IDField is the reserved top-level key holding the document identifier.
const IDField = "id"

// M implements domain.Document by using a hashed map. Duplicates replace old
// values.
type M map[string]any

// NewDocument returns a new instance of [domain.Document]. Nested maps become
// documents and slices become []any, so the result only holds values the
// rest of the package knows how to compare and encode.
func NewDocument(in any) (domain.Document, error) {
	if in == nil {
		return M{}, nil
	}
	if doc, ok := in.(M); ok {
		return normalizeMap(doc)
	}
	if m, ok := in.(map[string]any); ok {
		return normalizeMap(m)
	}

	r := goreflect.ValueNoEscapeOf(in)
	k := r.Kind()
	for k == goreflect.Interface || k == reflect.Pointer {
		if r.IsNil() {
			return M{}, nil
		}
		r = r.Elem()
		k = r.Kind()
	}
	if k != goreflect.Struct && k != goreflect.Map {
		return nil, domain.ErrDocumentType{Type: r.Type().String()}
	}
	v, err := parseReflect(r)
	if err != nil {
		return nil, err
	}
	doc, ok := v.(domain.Document)
	if !ok {
		return nil, domain.ErrDocumentType{Type: r.Type().String()}
	}
	return doc, nil
}

// NormalizeValue converts a value of any supported type to the
// representation held inside documents.
func NormalizeValue(v any) (any, error) {
	return normalize(v)
}

func normalizeMap[T ~map[string]any](m T) (domain.Document, error) {
	res := make(M, len(m))
	for k, v := range m {
		nv, err := normalize(v)
		if err != nil {
			return nil, err
		}
		res[k] = nv
	}
	return res, nil
}

func normalize(v any) (any, error) {
	switch t := v.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return v, nil
	case json.Number:
		return checkNumber(t)
	case float32:
		return checkFloat(float64(t), v)
	case float64:
		return checkFloat(t, v)
	case M:
		return normalizeMap(t)
	case map[string]any:
		return normalizeMap(t)
	case domain.Document:
		return normalizeMap(maps.Collect(t.Iter()))
	case []any:
		lst := make([]any, len(t))
		for n, item := range t {
			nv, err := normalize(item)
			if err != nil {
				return nil, err
			}
			lst[n] = nv
		}
		return lst, nil
	default:
		return parseReflect(goreflect.ValueNoEscapeOf(v))
	}
}

func checkFloat(f float64, v any) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, domain.ErrInvalidNumber{Value: strconv.FormatFloat(f, 'g', -1, 64)}
	}
	return v, nil
}

// checkNumber accepts n only when it is a JSON number literal.
func checkNumber(n json.Number) (any, error) {
	s := string(n)
	if s == "" || (s[0] != '-' && (s[0] < '0' || s[0] > '9')) || !json.Valid([]byte(s)) {
		return nil, domain.ErrInvalidNumber{Value: s}
	}
	return n, nil
}

func parseReflect(r goreflect.Value) (any, error) {
	for r.Kind() == reflect.Pointer || r.Kind() == goreflect.Interface {
		if r.IsNil() {
			return nil, nil
		}
		r = r.Elem()
	}
	switch r.Kind() {
	case goreflect.Invalid:
		return nil, nil
	case goreflect.Slice:
		if r.IsNil() {
			return nil, nil
		}
		fallthrough
	case goreflect.Array:
		return parseList(r)
	case goreflect.Struct:
		if tm, ok := r.Interface().(encoding.TextMarshaler); ok {
			b, err := tm.MarshalText()
			if err != nil {
				return nil, err
			}
			return string(b), nil
		}
		return parseStruct(r)
	case goreflect.Map:
		if r.IsNil() {
			return nil, nil
		}
		return parseMapReflect(r)
	case goreflect.Chan, goreflect.Func, goreflect.UnsafePointer, goreflect.Complex64, goreflect.Complex128:
		return nil, domain.ErrDocumentType{Type: r.Type().String()}
	case goreflect.String:
		if n, ok := r.Interface().(json.Number); ok {
			return checkNumber(n)
		}
		return r.String(), nil
	case goreflect.Bool:
		return r.Bool(), nil
	case goreflect.Int, goreflect.Int8, goreflect.Int16, goreflect.Int32, goreflect.Int64:
		return r.Int(), nil
	case goreflect.Uint, goreflect.Uint8, goreflect.Uint16, goreflect.Uint32, goreflect.Uint64, goreflect.Uintptr:
		return r.Uint(), nil
	case goreflect.Float32, goreflect.Float64:
		return checkFloat(r.Float(), r.Float())
	default:
		return r.Interface(), nil
	}
}

func parseStruct(r goreflect.Value) (domain.Document, error) {
	typ := r.Type()
	numField := r.NumField()

	res := make(M, numField)

	for n := range numField {
		field := typ.Field(n)
		if field.PkgPath != "" {
			continue
		}
		fieldValue := r.Field(n)

		fieldInfo, err := parseField(fieldValue, field)
		if err != nil {
			return nil, err
		}

		if fieldInfo == nil {
			continue
		}
		res[fieldInfo.name] = fieldInfo.value
	}
	return res, nil
}

func parseMapReflect(v goreflect.Value) (domain.Document, error) {
	if v.Type().Key().Kind() != goreflect.String {
		return nil, domain.ErrDocumentType{Type: v.Type().String()}
	}
	res := make(M, v.Len())
	for _, k := range v.MapKeys() {
		var err error
		if res[k.String()], err = parseReflect(v.MapIndex(k)); err != nil {
			return nil, err
		}
	}
	return res, nil
}

type field struct {
	name  string
	value any
}

func parseField(r goreflect.Value, typ goreflect.StructField) (*field, error) {
	name := typ.Name
	var tagSegments []string
	if tag, ok := typ.Tag.Lookup(TagName); ok {
		if tag == "-" {
			return nil, nil
		}
		tagSegments = strings.Split(tag, ",")
		if tagSegments[0] != "" {
			name = tagSegments[0]
		}
		tagSegments = tagSegments[1:]
	}
	if slices.Contains(tagSegments, "omitempty") && isNullable(typ.Type) && r.IsNil() {
		return nil, nil
	}
	if slices.Contains(tagSegments, "omitzero") && r.IsZero() {
		return nil, nil
	}

	value, err := parseReflect(r)
	if err != nil {
		return nil, err
	}

	return &field{name: name, value: value}, nil
}

func parseList(r goreflect.Value) (any, error) {
	length := r.Len()
	res := make([]any, length)
	for i := range length {
		v, err := parseReflect(r.Index(i))
		if err != nil {
			return nil, err
		}
		res[i] = v
	}
	return res, nil
}

func isNullable(t goreflect.Type) bool {
	k := t.Kind()
	return k == reflect.Pointer ||
		k == reflect.Slice ||
		k == reflect.Map ||
		k == reflect.Interface
}

// AsUint64 reads v as an unsigned integer. Negative, fractional and
// non-numeric values are rejected.
func AsUint64(v any) (uint64, bool) {
	switch n := v.(type) {
	case json.Number:
		u, err := strconv.ParseUint(string(n), 10, 64)
		if err == nil {
			return u, true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return floatAsUint64(f)
	case uint:
		return uint64(n), true
	case uint8:
		return uint64(n), true
	case uint16:
		return uint64(n), true
	case uint32:
		return uint64(n), true
	case uint64:
		return n, true
	case int:
		return intAsUint64(int64(n))
	case int8:
		return intAsUint64(int64(n))
	case int16:
		return intAsUint64(int64(n))
	case int32:
		return intAsUint64(int64(n))
	case int64:
		return intAsUint64(n)
	case float32:
		return floatAsUint64(float64(n))
	case float64:
		return floatAsUint64(n)
	default:
		return 0, false
	}
}

func intAsUint64(n int64) (uint64, bool) {
	if n < 0 {
		return 0, false
	}
	return uint64(n), true
}

func floatAsUint64(f float64) (uint64, bool) {
	if f < 0 || f != math.Trunc(f) || f >= math.MaxUint64 {
		return 0, false
	}
	return uint64(f), true
}

// ID implements domain.Document
func (d M) ID() (uint64, bool) {
	v, ok := d[IDField]
	if !ok {
		return 0, false
	}
	return AsUint64(v)
}

// Get implements domain.Document
func (d M) Get(key string) any {
	return d[key]
}

// Set implements domain.Document
func (d M) Set(key string, value any) {
	d[key] = value
}

// Unset implements domain.Document
func (d M) Unset(key string) {
	delete(d, key)
}

// D implements domain.Document
func (d M) D(key string) domain.Document {
	if doc, ok := d[key].(domain.Document); ok {
		return doc
	}
	return nil
}

// Iter implements domain.Document.
func (d M) Iter() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range slices.Sorted(maps.Keys(d)) {
			if !yield(k, d[k]) {
				return
			}
		}
	}
}

// Keys implements domain.Document.
func (d M) Keys() iter.Seq[string] {
	return slices.Values(slices.Sorted(maps.Keys(d)))
}

// Len implements domain.Document.
func (d M) Len() int {
	return len(d)
}

// Values implements domain.Document.
func (d M) Values() iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, v := range d.Iter() {
			if !yield(v) {
				return
			}
		}
	}
}

// Has implements domain.Document.
func (d M) Has(key string) bool {
	_, has := d[key]
	return has
}

// UnmarshalJSON implements json.Unmarshaler. Numbers are kept as
// [json.Number] so large ids survive the round trip.
func (d *M) UnmarshalJSON(input []byte) error {
	dec := json.NewDecoder(bytes.NewReader(input))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("expected Document, received null")
	}
	doc, err := normalizeMap(m)
	if err != nil {
		return err
	}
	*d = doc.(M)
	return nil
}
