package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrClientInput is matched by every error caused by a malformed
	// request, as opposed to a storage failure.
	ErrClientInput = errors.New("invalid client input")
	// ErrTargetNil is returned when the passed target, which should be a
	// pointer, is passed as a nil value.
	ErrTargetNil = errors.New("target interface is nil")
	// ErrNonPointer is returned when the decoding target is not a pointer.
	ErrNonPointer = errors.New("target is not a pointer")
	// ErrCannotModifyID is returned when an update targets the id field.
	ErrCannotModifyID = clientErr("cannot modify the id field")
)

type clientErr string

func (e clientErr) Error() string { return string(e) }

func (e clientErr) Unwrap() error { return ErrClientInput }

// ErrPagination is returned when limit or offset cannot be read as an
// unsigned integer.
type ErrPagination struct {
	Param string
	Value string
}

func (e ErrPagination) Error() string {
	return fmt.Sprintf("invalid %s %q: expected a non-negative integer", e.Param, e.Value)
}

func (e ErrPagination) Unwrap() error { return ErrClientInput }

// ErrMalformedFilter is returned when a filter payload does not have the
// expected shape.
type ErrMalformedFilter struct {
	Reason string
}

func (e ErrMalformedFilter) Error() string {
	return "malformed filter: " + e.Reason
}

func (e ErrMalformedFilter) Unwrap() error { return ErrClientInput }

// ErrMalformedSort is returned when a sort payload does not have the
// expected shape.
type ErrMalformedSort struct {
	Reason string
}

func (e ErrMalformedSort) Error() string {
	return "malformed sort: " + e.Reason
}

func (e ErrMalformedSort) Unwrap() error { return ErrClientInput }

// ErrCollectionName is returned for names that cannot be mapped to a
// storage unit.
type ErrCollectionName struct {
	Name   string
	Reason string
}

func (e ErrCollectionName) Error() string {
	return fmt.Sprintf("invalid collection name %q: %s", e.Name, e.Reason)
}

func (e ErrCollectionName) Unwrap() error { return ErrClientInput }

// ErrDocumentType is returned when an user passes a value that cannot be
// stored as a document.
type ErrDocumentType struct {
	Type string
}

func (e ErrDocumentType) Error() string {
	return "expected an object document, got " + e.Type
}

func (e ErrDocumentType) Unwrap() error { return ErrClientInput }

// ErrInvalidID is returned when a caller supplied id is not an unsigned
// integer.
type ErrInvalidID struct {
	Value any
}

func (e ErrInvalidID) Error() string {
	return fmt.Sprintf("invalid id %v (%T): expected an unsigned integer", e.Value, e.Value)
}

func (e ErrInvalidID) Unwrap() error { return ErrClientInput }

// ErrUpdatePayload is returned when an update payload does not hold exactly
// one field.
type ErrUpdatePayload struct {
	Fields int
}

func (e ErrUpdatePayload) Error() string {
	return fmt.Sprintf("update payload must hold exactly one field, got %d", e.Fields)
}

func (e ErrUpdatePayload) Unwrap() error { return ErrClientInput }

// ErrInvalidNumber is returned for numbers JSON cannot hold: NaN, the
// infinities and malformed json.Number literals.
type ErrInvalidNumber struct {
	Value string
}

func (e ErrInvalidNumber) Error() string {
	return fmt.Sprintf("invalid number %q: documents only hold finite JSON numbers", e.Value)
}

func (e ErrInvalidNumber) Unwrap() error { return ErrClientInput }

// ErrCorruptCollection is returned when a stored collection cannot be read
// back as a list of documents. The stored content is left untouched.
type ErrCorruptCollection struct {
	Name string
	Err  error
}

func (e ErrCorruptCollection) Error() string {
	return fmt.Sprintf("collection %q is corrupt: %v", e.Name, e.Err)
}

func (e ErrCorruptCollection) Unwrap() error { return e.Err }

// ErrPersistCollection is returned when the storage fails to replace a
// collection. The previous content remains in place.
type ErrPersistCollection struct {
	Name string
	Err  error
}

func (e ErrPersistCollection) Error() string {
	return fmt.Sprintf("persisting collection %q: %v", e.Name, e.Err)
}

func (e ErrPersistCollection) Unwrap() error { return e.Err }

// ErrDecode wraps third party decoding errors.
type ErrDecode struct {
	Source any
	Target any
}

func (e ErrDecode) Error() string {
	return fmt.Sprintf("cannot decode %T into %T", e.Source, e.Target)
}

type ErrFlushToStorage struct {
	ErrorOnFsync error
	ErrorOnClose error
}

func (e ErrFlushToStorage) Error() string {
	var err error
	if e.ErrorOnFsync != nil {
		err = e.ErrorOnFsync
	} else {
		err = e.ErrorOnClose
	}
	return fmt.Sprint("storage flush error: ", err.Error())
}

func (e ErrFlushToStorage) Unwrap() []error {
	return []error{e.ErrorOnFsync, e.ErrorOnClose}
}

// ErrCannotCompare is returned when [Comparer.Compare] is called with two
// values that cannot be ordered against each other.
type ErrCannotCompare struct {
	A any
	B any
}

func (e ErrCannotCompare) Error() string {
	return fmt.Sprintf("cannot compare unexpected types %T and %T", e.A, e.B)
}
