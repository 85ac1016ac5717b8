// Package filter contains the [domain.Filter] expression tree: comparison,
// set and pattern leaves combined with And, Or and Not.
//
// Every node is total: a missing field, a value of an unexpected type or an
// invalid literal makes the node evaluate to false instead of failing.
package filter

import (
	"github.com/vinicius-lino-figueiredo/docstore/adapter/comparer"
	"github.com/vinicius-lino-figueiredo/docstore/domain"
	"github.com/vinicius-lino-figueiredo/docstore/pkg/structure"
)

var valueComparer = comparer.NewComparer()

func lookup(doc domain.Document, key string) (any, bool) {
	if doc == nil || !doc.Has(key) {
		return nil, false
	}
	return doc.Get(key), true
}

func equal(a, b any) (bool, error) {
	c, err := valueComparer.Compare(a, b)
	return c == 0, err
}

func matches(f domain.Filter, doc domain.Document) bool {
	return f != nil && f.Match(doc)
}

// Equals matches documents whose field equals Value.
type Equals struct {
	Key   string
	Value any
}

// Match implements domain.Filter.
func (f Equals) Match(doc domain.Document) bool {
	v, ok := lookup(doc, f.Key)
	if !ok {
		return false
	}
	eq, err := equal(v, f.Value)
	return err == nil && eq
}

// NotEquals matches documents whose field is present and differs from Value.
// Documents lacking the field never match.
type NotEquals struct {
	Key   string
	Value any
}

// Match implements domain.Filter.
func (f NotEquals) Match(doc domain.Document) bool {
	v, ok := lookup(doc, f.Key)
	if !ok {
		return false
	}
	eq, err := equal(v, f.Value)
	return err == nil && !eq
}

// compareNumbers reads both sides as float64. ok is false when either side
// is not a number.
func compareNumbers(doc domain.Document, key string, value any) (c int, ok bool) {
	v, found := lookup(doc, key)
	if !found {
		return 0, false
	}
	a, ok := comparer.AsNumber(v)
	if !ok {
		return 0, false
	}
	b, ok := comparer.AsNumber(value)
	if !ok {
		return 0, false
	}
	af, _ := a.Float64()
	bf, _ := b.Float64()
	switch {
	case af < bf:
		return -1, true
	case af > bf:
		return 1, true
	default:
		return 0, true
	}
}

// GreaterThan matches numeric fields greater than Value.
type GreaterThan struct {
	Key   string
	Value any
}

// Match implements domain.Filter.
func (f GreaterThan) Match(doc domain.Document) bool {
	c, ok := compareNumbers(doc, f.Key, f.Value)
	return ok && c > 0
}

// GreaterThanOrEqual matches numeric fields greater than or equal to Value.
type GreaterThanOrEqual struct {
	Key   string
	Value any
}

// Match implements domain.Filter.
func (f GreaterThanOrEqual) Match(doc domain.Document) bool {
	c, ok := compareNumbers(doc, f.Key, f.Value)
	return ok && c >= 0
}

// LessThan matches numeric fields less than Value.
type LessThan struct {
	Key   string
	Value any
}

// Match implements domain.Filter.
func (f LessThan) Match(doc domain.Document) bool {
	c, ok := compareNumbers(doc, f.Key, f.Value)
	return ok && c < 0
}

// LessThanOrEqual matches numeric fields less than or equal to Value.
type LessThanOrEqual struct {
	Key   string
	Value any
}

// Match implements domain.Filter.
func (f LessThanOrEqual) Match(doc domain.Document) bool {
	c, ok := compareNumbers(doc, f.Key, f.Value)
	return ok && c <= 0
}

// member reports whether the field is one of the items of list. ok is false
// when the field is missing or list is not a list.
func member(doc domain.Document, key string, list any) (found, ok bool) {
	v, present := lookup(doc, key)
	if !present {
		return false, false
	}
	items, _, err := structure.Seq(list)
	if err != nil {
		return false, false
	}
	found, err = structure.Contains(items, v, equal)
	if err != nil {
		return false, false
	}
	return found, true
}

// InSet matches documents whose field is one of the items of Value. Value
// must be a list.
type InSet struct {
	Key   string
	Value any
}

// Match implements domain.Filter.
func (f InSet) Match(doc domain.Document) bool {
	found, ok := member(doc, f.Key, f.Value)
	return ok && found
}

// NotInSet matches documents whose field is none of the items of Value. A
// Value that is not a list matches nothing.
type NotInSet struct {
	Key   string
	Value any
}

// Match implements domain.Filter.
func (f NotInSet) Match(doc domain.Document) bool {
	found, ok := member(doc, f.Key, f.Value)
	return ok && !found
}

// And matches when both children match.
type And struct {
	Left  domain.Filter
	Right domain.Filter
}

// Match implements domain.Filter.
func (f And) Match(doc domain.Document) bool {
	return matches(f.Left, doc) && matches(f.Right, doc)
}

// Or matches when any child matches.
type Or struct {
	Left  domain.Filter
	Right domain.Filter
}

// Match implements domain.Filter.
func (f Or) Match(doc domain.Document) bool {
	return matches(f.Left, doc) || matches(f.Right, doc)
}

// Not negates its child.
type Not struct {
	Inner domain.Filter
}

// Match implements domain.Filter.
func (f Not) Match(doc domain.Document) bool {
	return !matches(f.Inner, doc)
}
