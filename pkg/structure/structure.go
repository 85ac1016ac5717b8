// Package structure contains type-related operations, such as iterating over
// list values of unknown element type.
package structure

import (
	"errors"
	"fmt"
	"iter"

	"github.com/goccy/go-reflect"
)

var (
	// ErrNilObj may be returned by [Seq] when a nil value is passed as
	// argument.
	ErrNilObj = errors.New("nil object")
)

// ErrNonList is returned by [Seq] when a value that is neither a slice nor an
// array is passed as argument.
type ErrNonList struct {
	Type reflect.Type
}

func (e ErrNonList) Error() string {
	return fmt.Sprintf("type %s is not a valid list", e.Type)
}

// Seq returns an iterator over a slice or array of any type. Byte slices are
// treated as scalar values, not lists.
func Seq(obj any) (iter.Seq[any], int, error) {
	if obj == nil {
		return nil, 0, ErrNilObj
	}
	if i, length, ok := fastPathList(obj); ok {
		return i, length, nil
	}
	return iterReflect(obj)
}

func fastPathList(obj any) (iter.Seq[any], int, bool) {
	switch t := obj.(type) {
	case []any:
		return iterSlice(t), len(t), true
	case []string:
		return iterSlice(t), len(t), true
	case []bool:
		return iterSlice(t), len(t), true
	case []int:
		return iterSlice(t), len(t), true
	case []int64:
		return iterSlice(t), len(t), true
	case []uint64:
		return iterSlice(t), len(t), true
	case []float64:
		return iterSlice(t), len(t), true
	}
	return nil, 0, false
}

func iterReflect(obj any) (iter.Seq[any], int, error) {
	v := reflect.ValueOf(obj)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, 0, ErrNilObj
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			break
		}
		if v.IsNil() {
			return iterSlice[any](nil), 0, nil
		}
		return iterValue(v), v.Len(), nil
	case reflect.Array:
		return iterValue(v), v.Len(), nil
	}
	return nil, 0, ErrNonList{Type: v.Type()}
}

func iterValue(v reflect.Value) iter.Seq[any] {
	return func(yield func(any) bool) {
		for i := range v.Len() {
			if !yield(v.Index(i).Interface()) {
				return
			}
		}
	}
}

func iterSlice[T any](m []T) iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, v := range m {
			if !yield(v) {
				return
			}
		}
	}
}

// Contains checks if the given value is present in the sequence.
func Contains[T any](s iter.Seq[T], t T, fn func(a T, b T) (bool, error)) (bool, error) {
	for i := range s {
		if ok, err := fn(i, t); err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}
